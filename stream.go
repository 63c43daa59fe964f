package unistore

import (
	"context"
	"io"

	// Packages
	schema "github.com/mutablelogic/go-unistore/schema"
)

////////////////////////////////////////////////////////////////////////////////
// INTERFACES

// Reader is the asynchronous pull interface over one read session. A
// session uses either Read or Next, never both. End of stream is io.EOF.
// Closing the reader at any point releases its resources; closing early is
// not an error.
type Reader interface {
	// Read fills p with up to len(p) bytes and returns the count, or
	// io.EOF at end of stream.
	Read(ctx context.Context, p []byte) (int, error)

	// Seek repositions the stream following io.Seeker whence semantics and
	// returns the new absolute offset.
	Seek(ctx context.Context, offset int64, whence int) (int64, error)

	// Next returns the next chunk of bytes, or io.EOF at end of stream.
	// The returned slice is only valid until the following call.
	Next(ctx context.Context) ([]byte, error)

	// Close releases the session.
	Close(ctx context.Context) error
}

// BlockingReader mirrors Reader without suspension semantics.
type BlockingReader interface {
	io.Reader
	io.Seeker
	io.Closer

	// Next returns the next chunk of bytes, or io.EOF at end of stream.
	Next() ([]byte, error)
}

// Writer stages bytes for one write session. Nothing is durable until
// Close returns nil; Abort, or dropping the writer without a successful
// Close, leaves the target object exactly as it was before the session.
type Writer interface {
	// Write stages p and returns the number of bytes accepted.
	Write(ctx context.Context, p []byte) (int, error)

	// Append stages p at the end of the existing object. Backends without
	// CapWriteAppend fail with Unsupported before any bytes are staged.
	Append(ctx context.Context, p []byte) (int, error)

	// Abort discards all staged but unflushed data and ends the session.
	Abort(ctx context.Context) error

	// Close finalizes the object. This is the only point at which staged
	// bytes become durable.
	Close(ctx context.Context) error
}

// BlockingWriter mirrors Writer without suspension semantics.
type BlockingWriter interface {
	io.Writer

	Append(p []byte) (int, error)
	Abort() error
	Close() error
}

// Pager is a forward-only, non-restartable cursor over listing results.
type Pager interface {
	// Next returns the next batch of entries. A nil batch with a nil error
	// signals end of listing; further calls keep returning the same
	// signal, never an error and never a repeated entry.
	Next(ctx context.Context) ([]schema.Entry, error)

	// Close releases the cursor.
	Close(ctx context.Context) error
}

// BlockingPager mirrors Pager without suspension semantics.
type BlockingPager interface {
	Next() ([]schema.Entry, error)
	Close() error
}
