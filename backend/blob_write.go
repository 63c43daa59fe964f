package backend

import (
	"context"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
	blob "gocloud.dev/blob"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// blobWriter is one write session. The bucket writer only commits on
// Close; cancelling the session context before then discards everything
// staged, which gives the all-or-nothing guarantee.
type blobWriter struct {
	key    string
	writer *blob.Writer
	cancel context.CancelFunc
	done   bool
}

var _ unistore.Writer = (*blobWriter)(nil)

// blockingBlobWriter adapts a blobWriter to the blocking convention.
type blockingBlobWriter struct {
	inner *blobWriter
}

var _ unistore.BlockingWriter = (*blockingBlobWriter)(nil)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Write opens a write session for path. No bytes are durable until the
// returned writer closes successfully.
func (b *blobbackend) Write(ctx context.Context, path string, op schema.OpWrite) (schema.RpWrite, unistore.Writer, error) {
	rp, writer, err := b.write(ctx, path, op)
	if err != nil {
		return schema.RpWrite{}, nil, err
	}
	return rp, writer, nil
}

// BlockingWrite mirrors Write for callers without a context.
func (b *blobbackend) BlockingWrite(path string, op schema.OpWrite) (schema.RpWrite, unistore.BlockingWriter, error) {
	rp, writer, err := b.write(context.Background(), path, op)
	if err != nil {
		return schema.RpWrite{}, nil, err
	}
	return rp, &blockingBlobWriter{inner: writer}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (b *blobbackend) write(ctx context.Context, path string, op schema.OpWrite) (schema.RpWrite, *blobWriter, error) {
	// Append is capability gated and fails before any bytes are staged
	if op.Append {
		return schema.RpWrite{}, nil, unistore.Errf(unistore.KindUnsupported, "append is not supported by %s backends", b.info.Scheme)
	}

	// The session owns a cancelable context: cancelling before Close
	// aborts the commit
	wctx, cancel := context.WithCancel(ctx)
	writer, err := b.bucket.NewWriter(wctx, b.key(path), &blob.WriterOptions{
		ContentType: op.ContentType,
		Metadata:    op.Meta,
	})
	if err != nil {
		cancel()
		return schema.RpWrite{}, nil, blobErr(err, path)
	}

	return schema.RpWrite{}, &blobWriter{key: b.key(path), writer: writer, cancel: cancel}, nil
}

////////////////////////////////////////////////////////////////////////////////
// WRITER

func (w *blobWriter) Write(ctx context.Context, p []byte) (int, error) {
	if w.done {
		return 0, unistore.Errf(unistore.KindUnexpected, "write after session end for %q", w.key)
	}
	n, err := w.writer.Write(p)
	if err != nil {
		return n, blobErr(err, w.key)
	}
	return n, nil
}

func (w *blobWriter) Append(ctx context.Context, p []byte) (int, error) {
	return 0, unistore.Errf(unistore.KindUnsupported, "append is not supported for %q", w.key)
}

func (w *blobWriter) Abort(ctx context.Context) error {
	if w.done {
		return nil
	}
	w.done = true

	// Cancel the session context so the writer discards staged bytes
	// instead of committing them
	w.cancel()
	w.writer.Close()
	return nil
}

func (w *blobWriter) Close(ctx context.Context) error {
	if w.done {
		return unistore.Errf(unistore.KindUnexpected, "close after session end for %q", w.key)
	}
	w.done = true
	defer w.cancel()

	if err := w.writer.Close(); err != nil {
		return blobErr(err, w.key)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// BLOCKING WRITER

func (w *blockingBlobWriter) Write(p []byte) (int, error) {
	return w.inner.Write(context.Background(), p)
}

func (w *blockingBlobWriter) Append(p []byte) (int, error) {
	return w.inner.Append(context.Background(), p)
}

func (w *blockingBlobWriter) Abort() error {
	return w.inner.Abort(context.Background())
}

func (w *blockingBlobWriter) Close() error {
	return w.inner.Close(context.Background())
}
