package backend

import (
	"context"
	"io"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
	blob "gocloud.dev/blob"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// blobReader is one read session over a ranged bucket key. The underlying
// range reader is opened lazily and reopened after a seek, so seeking never
// drains bytes it skips over.
type blobReader struct {
	bucket *blob.Bucket
	key    string
	base   int64 // range offset within the object
	size   int64 // range length; the stream size
	pos    int64 // position within the range
	reader *blob.Reader
	chunk  []byte
}

var _ unistore.Reader = (*blobReader)(nil)

// blockingBlobReader adapts a blobReader to the blocking convention.
type blockingBlobReader struct {
	inner *blobReader
}

var _ unistore.BlockingReader = (*blockingBlobReader)(nil)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Read opens the object at path, optionally restricted to a byte range.
func (b *blobbackend) Read(ctx context.Context, path string, op schema.OpRead) (schema.RpRead, unistore.Reader, error) {
	rp, reader, err := b.read(ctx, path, op)
	if err != nil {
		return schema.RpRead{}, nil, err
	}
	return rp, reader, nil
}

// BlockingRead mirrors Read for callers without a context.
func (b *blobbackend) BlockingRead(path string, op schema.OpRead) (schema.RpRead, unistore.BlockingReader, error) {
	rp, reader, err := b.read(context.Background(), path, op)
	if err != nil {
		return schema.RpRead{}, nil, err
	}
	return rp, &blockingBlobReader{inner: reader}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (b *blobbackend) read(ctx context.Context, path string, op schema.OpRead) (schema.RpRead, *blobReader, error) {
	key := b.key(path)

	// Stat first so the reader knows the stream size and the response
	// carries the object metadata
	attrs, err := b.bucket.Attributes(ctx, key)
	if err != nil {
		return schema.RpRead{}, nil, blobErr(err, path)
	}

	// Clamp the range to the content length; a range beyond the content
	// truncates rather than errors
	size := attrs.Size - op.Range.Offset
	if op.Range.Length > 0 && op.Range.Length < size {
		size = op.Range.Length
	}
	if op.Range.Offset > attrs.Size {
		return schema.RpRead{}, nil, unistore.Errf(unistore.KindInvalidInput, "range %q exceeds content length %d", op.Range, attrs.Size)
	}

	return schema.RpRead{Metadata: b.attrsToMetadata(path, attrs)}, &blobReader{
		bucket: b.bucket,
		key:    key,
		base:   op.Range.Offset,
		size:   size,
	}, nil
}

////////////////////////////////////////////////////////////////////////////////
// READER

func (r *blobReader) Read(ctx context.Context, p []byte) (int, error) {
	if r.pos >= r.size {
		return 0, io.EOF
	}
	if r.reader == nil {
		reader, err := r.bucket.NewRangeReader(ctx, r.key, r.base+r.pos, r.size-r.pos, nil)
		if err != nil {
			return 0, blobErr(err, r.key)
		}
		r.reader = reader
	}
	n, err := r.reader.Read(p)
	r.pos += int64(n)
	if err != nil && err != io.EOF {
		return n, blobErr(err, r.key)
	}
	return n, err
}

func (r *blobReader) Seek(ctx context.Context, offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.pos + offset
	case io.SeekEnd:
		abs = r.size + offset
	default:
		return 0, unistore.Errf(unistore.KindInvalidInput, "invalid seek whence %d", whence)
	}
	if abs < 0 {
		return 0, unistore.Errf(unistore.KindInvalidInput, "seek position %d before start of stream", abs)
	}

	// Drop the open range reader; the next read reopens at the new position
	if r.reader != nil {
		if err := r.reader.Close(); err != nil {
			r.reader = nil
			return 0, blobErr(err, r.key)
		}
		r.reader = nil
	}
	r.pos = abs
	return abs, nil
}

func (r *blobReader) Next(ctx context.Context) ([]byte, error) {
	if r.chunk == nil {
		r.chunk = make([]byte, 32*1024)
	}
	n, err := r.Read(ctx, r.chunk)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n > 0 {
		return r.chunk[:n], nil
	}
	return nil, io.EOF
}

func (r *blobReader) Close(ctx context.Context) error {
	if r.reader == nil {
		return nil
	}
	err := r.reader.Close()
	r.reader = nil
	return blobErr(err, r.key)
}

////////////////////////////////////////////////////////////////////////////////
// BLOCKING READER

func (r *blockingBlobReader) Read(p []byte) (int, error) {
	return r.inner.Read(context.Background(), p)
}

func (r *blockingBlobReader) Seek(offset int64, whence int) (int64, error) {
	return r.inner.Seek(context.Background(), offset, whence)
}

func (r *blockingBlobReader) Next() ([]byte, error) {
	return r.inner.Next(context.Background())
}

func (r *blockingBlobReader) Close() error {
	return r.inner.Close(context.Background())
}
