package operator

import (
	"context"
	"errors"
	"io"
	"time"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	layer "github.com/mutablelogic/go-unistore/layer"
	schema "github.com/mutablelogic/go-unistore/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Operator is the caller-facing handle over one fully layered accessor
// chain. It normalizes paths, checks the capability set before dispatch
// and supplies default call parameters. An Operator holds no mutable
// session state and is safe to share across concurrent callers.
type Operator struct {
	accessor unistore.Accessor
	terminal unistore.Accessor
	info     schema.AccessorInfo
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates an operator over a terminal accessor (WithBackend or
// WithAccessor) and zero or more layers. The error annotation layer is
// always applied innermost, so every failure carries its operation, scheme
// and path; user layers stack outside it in the order given, and the
// tracing layer, when a tracer is set, is applied outermost.
func New(ctx context.Context, opt ...Opt) (*Operator, error) {
	o, err := applyOpts(opt)
	if err != nil {
		return nil, err
	}
	if o.accessor == nil {
		return nil, unistore.Errf(unistore.KindConfigInvalid, "no backend configured")
	}

	// Apply layers innermost-first
	accessor := layer.NewErrorContext().Layer(o.accessor)
	for _, l := range o.layers {
		accessor = l.Layer(accessor)
	}
	if o.tracer != nil {
		accessor = layer.NewTracing(o.tracer).Layer(accessor)
	}

	// Return success
	return &Operator{accessor: accessor, terminal: o.accessor, info: accessor.Info()}, nil
}

// Close releases the accessor chain. Layer wrappers hold no resources of
// their own, so closing the terminal accessor releases everything.
func (o *Operator) Close() error {
	if closer, canClose := o.terminal.(unistore.Closer); canClose {
		return closer.Close()
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Info returns the chain's merged descriptor.
func (o *Operator) Info() schema.AccessorInfo {
	return o.info
}

// Blocking returns the blocking-convention view over the same chain.
func (o *Operator) Blocking() *BlockingOperator {
	return &BlockingOperator{accessor: o.accessor, info: o.info}
}

// CreateDir creates a directory at path. Idempotent.
func (o *Operator) CreateDir(ctx context.Context, path string) error {
	dir, err := o.dirArg(path, schema.CapCreateDir, unistore.OpCreateDir)
	if err != nil {
		return err
	}
	_, err = o.accessor.CreateDir(ctx, dir, schema.OpCreateDir{})
	return err
}

// Read returns the whole object at path in memory.
func (o *Operator) Read(ctx context.Context, path string) ([]byte, error) {
	return o.ReadRange(ctx, path, schema.Range{})
}

// ReadRange returns the selected byte range of the object at path.
func (o *Operator) ReadRange(ctx context.Context, path string, r schema.Range) ([]byte, error) {
	key, err := o.fileArg(path, schema.CapRead, unistore.OpRead)
	if err != nil {
		return nil, err
	}
	rp, reader, err := o.accessor.Read(ctx, key, schema.OpRead{Range: r})
	if err != nil {
		return nil, err
	}
	defer reader.Close(ctx)

	// Drain the reader into a single buffer
	data := make([]byte, 0, rp.Metadata.ContentLength)
	for {
		chunk, err := reader.Next(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		data = append(data, chunk...)
	}
	return data, nil
}

// Reader opens a streaming read session for path.
func (o *Operator) Reader(ctx context.Context, path string) (unistore.Reader, error) {
	key, err := o.fileArg(path, schema.CapRead, unistore.OpRead)
	if err != nil {
		return nil, err
	}
	_, reader, err := o.accessor.Read(ctx, key, schema.OpRead{})
	return reader, err
}

// Write stores data at path, replacing any existing object. The write is
// all or nothing: on failure the prior object is untouched.
func (o *Operator) Write(ctx context.Context, path string, data []byte) error {
	return o.WriteWith(ctx, path, data, schema.OpWrite{})
}

// WriteWith stores data at path with explicit write parameters.
func (o *Operator) WriteWith(ctx context.Context, path string, data []byte, op schema.OpWrite) error {
	key, err := o.fileArg(path, schema.CapWrite, unistore.OpWrite)
	if err != nil {
		return err
	}
	_, writer, err := o.accessor.Write(ctx, key, op)
	if err != nil {
		return err
	}
	if _, err := writer.Write(ctx, data); err != nil {
		writer.Abort(ctx)
		return err
	}
	return writer.Close(ctx)
}

// Writer opens a streaming write session for path.
func (o *Operator) Writer(ctx context.Context, path string) (unistore.Writer, error) {
	key, err := o.fileArg(path, schema.CapWrite, unistore.OpWrite)
	if err != nil {
		return nil, err
	}
	_, writer, err := o.accessor.Write(ctx, key, schema.OpWrite{})
	return writer, err
}

// Stat returns the metadata for path. Stat on the root reports a
// directory without a backend round trip.
func (o *Operator) Stat(ctx context.Context, path string) (schema.Metadata, error) {
	key, err := normalizePath(path)
	if err != nil {
		return schema.Metadata{}, err
	}
	if isRoot(key) {
		return schema.Metadata{Mode: schema.EntryModeDir}, nil
	}
	if err := o.check(schema.CapStat, unistore.OpStat); err != nil {
		return schema.Metadata{}, err
	}
	rp, err := o.accessor.Stat(ctx, key, schema.OpStat{})
	if err != nil {
		return schema.Metadata{}, err
	}
	return rp.Metadata, nil
}

// IsExist reports whether an object exists at path.
func (o *Operator) IsExist(ctx context.Context, path string) (bool, error) {
	_, err := o.Stat(ctx, path)
	if err == nil {
		return true, nil
	}
	if unistore.IsKind(err, unistore.KindNotFound) {
		return false, nil
	}
	return false, err
}

// Delete removes the object at path. Deleting a missing path succeeds.
func (o *Operator) Delete(ctx context.Context, path string) error {
	key, err := o.fileArg(path, schema.CapDelete, unistore.OpDelete)
	if err != nil {
		return err
	}
	_, err = o.accessor.Delete(ctx, key, schema.OpDelete{})
	return err
}

// Remove deletes a set of paths through the backend's batch facility,
// splitting the set into chunks of the backend's maximum batch size. The
// result maps every submitted path to its independent outcome.
func (o *Operator) Remove(ctx context.Context, paths []string) (schema.RpBatch, error) {
	if err := o.check(schema.CapBatch, unistore.OpBatch); err != nil {
		return schema.RpBatch{}, err
	}

	operations := make([]schema.BatchOperation, 0, len(paths))
	for _, p := range paths {
		key, err := normalizePath(p)
		if err != nil {
			return schema.RpBatch{}, err
		}
		operations = append(operations, schema.BatchOperation{Path: key})
	}

	results := make(map[string]error, len(operations))
	for chunk := range chunks(operations, o.info.MaxBatch) {
		rp, err := o.accessor.Batch(ctx, schema.OpBatch{Operations: chunk})
		if err != nil {
			return schema.RpBatch{}, err
		}
		for path, result := range rp.Results {
			results[path] = result
		}
	}
	return schema.RpBatch{Results: results}, nil
}

// RemoveAll deletes every object under the given prefix.
func (o *Operator) RemoveAll(ctx context.Context, path string) error {
	entries, err := o.Scan(ctx, path)
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path)
	}
	if len(paths) == 0 {
		return nil
	}
	rp, err := o.Remove(ctx, paths)
	if err != nil {
		return err
	}

	// Collapse per-path failures into one error
	var result error
	for _, err := range rp.Results {
		if err != nil {
			result = errors.Join(result, err)
		}
	}
	return result
}

// List returns the immediate children of path.
func (o *Operator) List(ctx context.Context, path string) ([]schema.Entry, error) {
	dir, err := o.dirArg(path, schema.CapList, unistore.OpList)
	if err != nil {
		return nil, err
	}
	_, pager, err := o.accessor.List(ctx, dir, schema.OpList{})
	if err != nil {
		return nil, err
	}
	return drain(ctx, pager)
}

// Scan returns every entry under path, recursively.
func (o *Operator) Scan(ctx context.Context, path string) ([]schema.Entry, error) {
	dir, err := o.dirArg(path, schema.CapScan, unistore.OpScan)
	if err != nil {
		return nil, err
	}
	_, pager, err := o.accessor.Scan(ctx, dir, schema.OpScan{})
	if err != nil {
		return nil, err
	}
	return drain(ctx, pager)
}

// ListPager opens a paging cursor over the immediate children of path.
func (o *Operator) ListPager(ctx context.Context, path string, op schema.OpList) (unistore.Pager, error) {
	dir, err := o.dirArg(path, schema.CapList, unistore.OpList)
	if err != nil {
		return nil, err
	}
	_, pager, err := o.accessor.List(ctx, dir, op)
	return pager, err
}

// Copy duplicates the object at from to to within the same backend.
func (o *Operator) Copy(ctx context.Context, from, to string) error {
	fromKey, err := o.fileArg(from, schema.CapCopy, unistore.OpCopy)
	if err != nil {
		return err
	}
	toKey, err := normalizePath(to)
	if err != nil {
		return err
	}
	_, err = o.accessor.Copy(ctx, fromKey, toKey, schema.OpCopy{})
	return err
}

// Presign returns a signed URL authorizing a read of path for the given
// duration.
func (o *Operator) Presign(ctx context.Context, path string, expiry time.Duration) (schema.RpPresign, error) {
	key, err := o.fileArg(path, schema.CapPresign, unistore.OpPresign)
	if err != nil {
		return schema.RpPresign{}, err
	}
	return o.accessor.Presign(ctx, key, schema.OpPresign{Expiry: expiry})
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (o *Operator) check(cap schema.Capability, op unistore.Operation) error {
	if !o.info.Caps.Has(cap) {
		return unistore.Errf(unistore.KindUnsupported, "%s is not supported by this accessor", op).WithOperation(op)
	}
	return nil
}

func (o *Operator) fileArg(path string, cap schema.Capability, op unistore.Operation) (string, error) {
	if err := o.check(cap, op); err != nil {
		return "", err
	}
	return normalizePath(path)
}

func (o *Operator) dirArg(path string, cap schema.Capability, op unistore.Operation) (string, error) {
	if err := o.check(cap, op); err != nil {
		return "", err
	}
	return normalizeDir(path)
}

// drain exhausts a pager and closes it.
func drain(ctx context.Context, pager unistore.Pager) ([]schema.Entry, error) {
	defer pager.Close(ctx)

	var entries []schema.Entry
	for {
		batch, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		} else if batch == nil {
			break
		}
		entries = append(entries, batch...)
	}
	return entries, nil
}

// chunks yields the operations in slices of at most size entries.
func chunks(operations []schema.BatchOperation, size int) func(func([]schema.BatchOperation) bool) {
	return func(yield func([]schema.BatchOperation) bool) {
		if size < 1 {
			size = len(operations)
		}
		for start := 0; start < len(operations); start += size {
			end := min(start+size, len(operations))
			if !yield(operations[start:end]) {
				return
			}
		}
	}
}
