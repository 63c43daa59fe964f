package layer

import (
	"context"
	"errors"
	"io"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ErrorContext annotates every failure passing through it with the
// operation, the backend scheme and the path (and the requested range for
// ranged reads). It is the reference shape for interception layers: every
// verb returning a stream re-wraps that stream, so a failure discovered
// mid-stream carries the same context as a call-level failure.
type ErrorContext struct{}

type errorContextAccessor struct {
	unistore.Accessor
	info schema.AccessorInfo
}

type errorContextReader struct {
	inner  unistore.Reader
	scheme schema.Scheme
	path   string
}

type errorContextBlockingReader struct {
	inner  unistore.BlockingReader
	scheme schema.Scheme
	path   string
}

type errorContextWriter struct {
	inner  unistore.Writer
	scheme schema.Scheme
	path   string
}

type errorContextBlockingWriter struct {
	inner  unistore.BlockingWriter
	scheme schema.Scheme
	path   string
}

type errorContextPager struct {
	inner  unistore.Pager
	scheme schema.Scheme
	path   string
}

type errorContextBlockingPager struct {
	inner  unistore.BlockingPager
	scheme schema.Scheme
	path   string
}

var _ unistore.Layer = (*ErrorContext)(nil)
var _ unistore.Accessor = (*errorContextAccessor)(nil)
var _ unistore.Reader = (*errorContextReader)(nil)
var _ unistore.BlockingReader = (*errorContextBlockingReader)(nil)
var _ unistore.Writer = (*errorContextWriter)(nil)
var _ unistore.BlockingWriter = (*errorContextBlockingWriter)(nil)
var _ unistore.Pager = (*errorContextPager)(nil)
var _ unistore.BlockingPager = (*errorContextBlockingPager)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewErrorContext returns the error annotation layer.
func NewErrorContext() *ErrorContext {
	return new(ErrorContext)
}

// Layer wraps the inner accessor. The descriptor is captured once here so
// annotation never needs an extra Info call.
func (l *ErrorContext) Layer(inner unistore.Accessor) unistore.Accessor {
	return &errorContextAccessor{Accessor: inner, info: inner.Info()}
}

////////////////////////////////////////////////////////////////////////////////
// ACCESSOR

func (a *errorContextAccessor) Info() schema.AccessorInfo {
	return a.info
}

func (a *errorContextAccessor) CreateDir(ctx context.Context, path string, op schema.OpCreateDir) (schema.RpCreateDir, error) {
	rp, err := a.Accessor.CreateDir(ctx, path, op)
	return rp, a.annotate(err, unistore.OpCreateDir, path)
}

func (a *errorContextAccessor) Read(ctx context.Context, path string, op schema.OpRead) (schema.RpRead, unistore.Reader, error) {
	rp, reader, err := a.Accessor.Read(ctx, path, op)
	if err != nil {
		err := a.annotate(err, unistore.OpRead, path)
		if uerr, isStructured := err.(*unistore.Error); isStructured {
			err = uerr.WithContext("range", op.Range.String())
		}
		return rp, nil, err
	}
	return rp, &errorContextReader{inner: reader, scheme: a.info.Scheme, path: path}, nil
}

func (a *errorContextAccessor) Write(ctx context.Context, path string, op schema.OpWrite) (schema.RpWrite, unistore.Writer, error) {
	rp, writer, err := a.Accessor.Write(ctx, path, op)
	if err != nil {
		return rp, nil, a.annotate(err, unistore.OpWrite, path)
	}
	return rp, &errorContextWriter{inner: writer, scheme: a.info.Scheme, path: path}, nil
}

func (a *errorContextAccessor) Stat(ctx context.Context, path string, op schema.OpStat) (schema.RpStat, error) {
	rp, err := a.Accessor.Stat(ctx, path, op)
	return rp, a.annotate(err, unistore.OpStat, path)
}

func (a *errorContextAccessor) Delete(ctx context.Context, path string, op schema.OpDelete) (schema.RpDelete, error) {
	rp, err := a.Accessor.Delete(ctx, path, op)
	return rp, a.annotate(err, unistore.OpDelete, path)
}

func (a *errorContextAccessor) List(ctx context.Context, path string, op schema.OpList) (schema.RpList, unistore.Pager, error) {
	rp, pager, err := a.Accessor.List(ctx, path, op)
	if err != nil {
		return rp, nil, a.annotate(err, unistore.OpList, path)
	}
	return rp, &errorContextPager{inner: pager, scheme: a.info.Scheme, path: path}, nil
}

func (a *errorContextAccessor) Scan(ctx context.Context, path string, op schema.OpScan) (schema.RpScan, unistore.Pager, error) {
	rp, pager, err := a.Accessor.Scan(ctx, path, op)
	if err != nil {
		return rp, nil, a.annotate(err, unistore.OpScan, path)
	}
	return rp, &errorContextPager{inner: pager, scheme: a.info.Scheme, path: path}, nil
}

func (a *errorContextAccessor) Copy(ctx context.Context, from, to string, op schema.OpCopy) (schema.RpCopy, error) {
	rp, err := a.Accessor.Copy(ctx, from, to, op)
	if err != nil {
		err := a.annotate(err, unistore.OpCopy, from)
		if uerr, isStructured := err.(*unistore.Error); isStructured {
			err = uerr.WithContext("to", to)
		}
		return rp, err
	}
	return rp, nil
}

func (a *errorContextAccessor) Batch(ctx context.Context, op schema.OpBatch) (schema.RpBatch, error) {
	rp, err := a.Accessor.Batch(ctx, op)
	if err != nil {
		err := annotate(err, unistore.OpBatch)
		if uerr, isStructured := err.(*unistore.Error); isStructured {
			err = uerr.WithContext("service", a.info.Scheme.String())
		}
		return rp, err
	}

	// Annotate the per-path failures without touching the successes
	for path, result := range rp.Results {
		if result != nil {
			rp.Results[path] = a.annotate(result, unistore.OpDelete, path)
		}
	}
	return rp, nil
}

func (a *errorContextAccessor) Presign(ctx context.Context, path string, op schema.OpPresign) (schema.RpPresign, error) {
	rp, err := a.Accessor.Presign(ctx, path, op)
	return rp, a.annotate(err, unistore.OpPresign, path)
}

func (a *errorContextAccessor) BlockingCreateDir(path string, op schema.OpCreateDir) (schema.RpCreateDir, error) {
	rp, err := a.Accessor.BlockingCreateDir(path, op)
	return rp, a.annotate(err, unistore.OpBlockingCreateDir, path)
}

func (a *errorContextAccessor) BlockingRead(path string, op schema.OpRead) (schema.RpRead, unistore.BlockingReader, error) {
	rp, reader, err := a.Accessor.BlockingRead(path, op)
	if err != nil {
		err := a.annotate(err, unistore.OpBlockingRead, path)
		if uerr, isStructured := err.(*unistore.Error); isStructured {
			err = uerr.WithContext("range", op.Range.String())
		}
		return rp, nil, err
	}
	return rp, &errorContextBlockingReader{inner: reader, scheme: a.info.Scheme, path: path}, nil
}

func (a *errorContextAccessor) BlockingWrite(path string, op schema.OpWrite) (schema.RpWrite, unistore.BlockingWriter, error) {
	rp, writer, err := a.Accessor.BlockingWrite(path, op)
	if err != nil {
		return rp, nil, a.annotate(err, unistore.OpBlockingWrite, path)
	}
	return rp, &errorContextBlockingWriter{inner: writer, scheme: a.info.Scheme, path: path}, nil
}

func (a *errorContextAccessor) BlockingStat(path string, op schema.OpStat) (schema.RpStat, error) {
	rp, err := a.Accessor.BlockingStat(path, op)
	return rp, a.annotate(err, unistore.OpBlockingStat, path)
}

func (a *errorContextAccessor) BlockingDelete(path string, op schema.OpDelete) (schema.RpDelete, error) {
	rp, err := a.Accessor.BlockingDelete(path, op)
	return rp, a.annotate(err, unistore.OpBlockingDelete, path)
}

func (a *errorContextAccessor) BlockingList(path string, op schema.OpList) (schema.RpList, unistore.BlockingPager, error) {
	rp, pager, err := a.Accessor.BlockingList(path, op)
	if err != nil {
		return rp, nil, a.annotate(err, unistore.OpBlockingList, path)
	}
	return rp, &errorContextBlockingPager{inner: pager, scheme: a.info.Scheme, path: path}, nil
}

func (a *errorContextAccessor) BlockingScan(path string, op schema.OpScan) (schema.RpScan, unistore.BlockingPager, error) {
	rp, pager, err := a.Accessor.BlockingScan(path, op)
	if err != nil {
		return rp, nil, a.annotate(err, unistore.OpBlockingScan, path)
	}
	return rp, &errorContextBlockingPager{inner: pager, scheme: a.info.Scheme, path: path}, nil
}

////////////////////////////////////////////////////////////////////////////////
// READER

func (r *errorContextReader) Read(ctx context.Context, p []byte) (int, error) {
	n, err := r.inner.Read(ctx, p)
	return n, annotateStream(err, unistore.OpReaderRead, r.scheme, r.path)
}

func (r *errorContextReader) Seek(ctx context.Context, offset int64, whence int) (int64, error) {
	pos, err := r.inner.Seek(ctx, offset, whence)
	return pos, annotateStream(err, unistore.OpReaderSeek, r.scheme, r.path)
}

func (r *errorContextReader) Next(ctx context.Context) ([]byte, error) {
	chunk, err := r.inner.Next(ctx)
	return chunk, annotateStream(err, unistore.OpReaderNext, r.scheme, r.path)
}

func (r *errorContextReader) Close(ctx context.Context) error {
	return annotateStream(r.inner.Close(ctx), unistore.OpReaderClose, r.scheme, r.path)
}

func (r *errorContextBlockingReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	return n, annotateStream(err, unistore.OpReaderRead, r.scheme, r.path)
}

func (r *errorContextBlockingReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := r.inner.Seek(offset, whence)
	return pos, annotateStream(err, unistore.OpReaderSeek, r.scheme, r.path)
}

func (r *errorContextBlockingReader) Next() ([]byte, error) {
	chunk, err := r.inner.Next()
	return chunk, annotateStream(err, unistore.OpReaderNext, r.scheme, r.path)
}

func (r *errorContextBlockingReader) Close() error {
	return annotateStream(r.inner.Close(), unistore.OpReaderClose, r.scheme, r.path)
}

////////////////////////////////////////////////////////////////////////////////
// WRITER

func (w *errorContextWriter) Write(ctx context.Context, p []byte) (int, error) {
	n, err := w.inner.Write(ctx, p)
	return n, annotateStream(err, unistore.OpWriterWrite, w.scheme, w.path)
}

func (w *errorContextWriter) Append(ctx context.Context, p []byte) (int, error) {
	n, err := w.inner.Append(ctx, p)
	return n, annotateStream(err, unistore.OpWriterAppend, w.scheme, w.path)
}

func (w *errorContextWriter) Abort(ctx context.Context) error {
	return annotateStream(w.inner.Abort(ctx), unistore.OpWriterAbort, w.scheme, w.path)
}

func (w *errorContextWriter) Close(ctx context.Context) error {
	return annotateStream(w.inner.Close(ctx), unistore.OpWriterClose, w.scheme, w.path)
}

func (w *errorContextBlockingWriter) Write(p []byte) (int, error) {
	n, err := w.inner.Write(p)
	return n, annotateStream(err, unistore.OpWriterWrite, w.scheme, w.path)
}

func (w *errorContextBlockingWriter) Append(p []byte) (int, error) {
	n, err := w.inner.Append(p)
	return n, annotateStream(err, unistore.OpWriterAppend, w.scheme, w.path)
}

func (w *errorContextBlockingWriter) Abort() error {
	return annotateStream(w.inner.Abort(), unistore.OpWriterAbort, w.scheme, w.path)
}

func (w *errorContextBlockingWriter) Close() error {
	return annotateStream(w.inner.Close(), unistore.OpWriterClose, w.scheme, w.path)
}

////////////////////////////////////////////////////////////////////////////////
// PAGER

func (p *errorContextPager) Next(ctx context.Context) ([]schema.Entry, error) {
	entries, err := p.inner.Next(ctx)
	return entries, annotateStream(err, unistore.OpPagerNext, p.scheme, p.path)
}

func (p *errorContextPager) Close(ctx context.Context) error {
	return annotateStream(p.inner.Close(ctx), unistore.OpPagerClose, p.scheme, p.path)
}

func (p *errorContextBlockingPager) Next() ([]schema.Entry, error) {
	entries, err := p.inner.Next()
	return entries, annotateStream(err, unistore.OpPagerNext, p.scheme, p.path)
}

func (p *errorContextBlockingPager) Close() error {
	return annotateStream(p.inner.Close(), unistore.OpPagerClose, p.scheme, p.path)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (a *errorContextAccessor) annotate(err error, op unistore.Operation, path string) error {
	err = annotate(err, op)
	if uerr, isStructured := err.(*unistore.Error); isStructured {
		return uerr.WithContext("service", a.info.Scheme.String()).WithContext("path", path)
	}
	return err
}

// annotate tags err with the operation, first promoting foreign errors
// into the structured form. io.EOF is the end-of-stream signal, not a
// failure, and passes through byte-identical.
func annotate(err error, op unistore.Operation) error {
	if err == nil || errors.Is(err, io.EOF) {
		return err
	}
	var uerr *unistore.Error
	if !errors.As(err, &uerr) {
		uerr = unistore.NewError(unistore.KindUnexpected, err.Error()).WithCause(err)
	}
	return uerr.WithOperation(op)
}

func annotateStream(err error, op unistore.Operation, scheme schema.Scheme, path string) error {
	err = annotate(err, op)
	if uerr, isStructured := err.(*unistore.Error); isStructured {
		return uerr.WithContext("service", scheme.String()).WithContext("path", path)
	}
	return err
}
