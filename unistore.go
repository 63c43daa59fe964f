package unistore

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-unistore/schema"
)

////////////////////////////////////////////////////////////////////////////////
// INTERFACES

// Accessor is the backend-facing interface: one operation set, two calling
// conventions. The context-aware set suspends at the underlying I/O and is
// safe for concurrent use; the Blocking set occupies the calling goroutine
// and mirrors the context-aware semantics exactly. An Accessor holds no
// per-call state: any session state lives inside the stream objects it
// returns, each owned by a single caller.
//
// A backend which does not implement a verb either omits it from its
// capability set, or returns an Unsupported error when the verb is invoked
// anyway. Callers treat both as the same "not available" signal.
type Accessor interface {
	// Info returns the static descriptor for this backend. It never fails
	// and performs no I/O.
	Info() schema.AccessorInfo

	// CreateDir creates a directory-like key. Idempotent.
	CreateDir(ctx context.Context, path string, op schema.OpCreateDir) (schema.RpCreateDir, error)

	// Read opens the object at path for reading, optionally restricted to
	// a byte range. The returned Reader delivers bytes lazily and is owned
	// by the caller until closed.
	Read(ctx context.Context, path string, op schema.OpRead) (schema.RpRead, Reader, error)

	// Write opens a write session for path. No bytes are durable until the
	// returned Writer closes successfully; an aborted or dropped session
	// leaves the object in its prior state.
	Write(ctx context.Context, path string, op schema.OpWrite) (schema.RpWrite, Writer, error)

	// Stat returns the metadata for path. Stat on the root path reports a
	// directory unconditionally, without a backend round trip.
	Stat(ctx context.Context, path string, op schema.OpStat) (schema.RpStat, error)

	// Delete removes the object at path. Deleting a missing path is a
	// success, never an error.
	Delete(ctx context.Context, path string, op schema.OpDelete) (schema.RpDelete, error)

	// List opens a listing of the immediate children of path.
	List(ctx context.Context, path string, op schema.OpList) (schema.RpList, Pager, error)

	// Scan opens a recursive listing under path.
	Scan(ctx context.Context, path string, op schema.OpScan) (schema.RpScan, Pager, error)

	// Copy duplicates the object at from to to within the same backend.
	Copy(ctx context.Context, from, to string, op schema.OpCopy) (schema.RpCopy, error)

	// Batch executes a set of path-scoped operations and returns one
	// independent outcome per submitted path. The set must not exceed the
	// backend's declared maximum batch size; oversized sets are rejected
	// outright and must be pre-chunked by the caller or a higher layer.
	Batch(ctx context.Context, op schema.OpBatch) (schema.RpBatch, error)

	// Presign returns a signed URL authorizing a read of path until the
	// given expiry.
	Presign(ctx context.Context, path string, op schema.OpPresign) (schema.RpPresign, error)

	// Blocking entry points, for callers without a context to plumb
	// through. Semantics are identical to the context-aware set.
	BlockingCreateDir(path string, op schema.OpCreateDir) (schema.RpCreateDir, error)
	BlockingRead(path string, op schema.OpRead) (schema.RpRead, BlockingReader, error)
	BlockingWrite(path string, op schema.OpWrite) (schema.RpWrite, BlockingWriter, error)
	BlockingStat(path string, op schema.OpStat) (schema.RpStat, error)
	BlockingDelete(path string, op schema.OpDelete) (schema.RpDelete, error)
	BlockingList(path string, op schema.OpList) (schema.RpList, BlockingPager, error)
	BlockingScan(path string, op schema.OpScan) (schema.RpScan, BlockingPager, error)
}

// Layer transforms one Accessor into another with the same surface. The
// transform itself is pure: interception happens when the produced accessor
// is later invoked. Layers are applied innermost-first, so the last layer
// added sees a call first and its response last.
//
// A layer delegates every verb and stream method it does not explicitly
// intercept to the inner accessor unchanged, including the inner Info. In
// Go this falls out of embedding the inner Accessor in the wrapper struct,
// so only overridden methods differ.
type Layer interface {
	Layer(inner Accessor) Accessor
}

// Closer is implemented by accessors holding resources which outlive
// individual calls, such as a client handle. The Operator closes its chain
// through this interface.
type Closer interface {
	Close() error
}
