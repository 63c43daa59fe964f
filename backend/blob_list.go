package backend

import (
	"context"
	"io"
	"strings"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
	blob "gocloud.dev/blob"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// blobPager is a forward-only cursor over one bucket listing. After the
// iterator is exhausted the pager keeps reporting end of listing.
type blobPager struct {
	iter   *blob.ListIterator
	prefix string // stripped from every returned path
	dir    string // listing prefix; the marker for the listed dir is skipped
	limit  int    // remaining entries, negative when unlimited
	done   bool
}

var _ unistore.Pager = (*blobPager)(nil)

// blockingBlobPager adapts a blobPager to the blocking convention.
type blockingBlobPager struct {
	inner *blobPager
}

var _ unistore.BlockingPager = (*blockingBlobPager)(nil)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// List opens a listing of the immediate children of path.
func (b *blobbackend) List(ctx context.Context, path string, op schema.OpList) (schema.RpList, unistore.Pager, error) {
	return schema.RpList{}, b.pager(path, "/", op.Limit), nil
}

// Scan opens a recursive listing under path.
func (b *blobbackend) Scan(ctx context.Context, path string, op schema.OpScan) (schema.RpScan, unistore.Pager, error) {
	return schema.RpScan{}, b.pager(path, "", op.Limit), nil
}

// BlockingList mirrors List for callers without a context.
func (b *blobbackend) BlockingList(path string, op schema.OpList) (schema.RpList, unistore.BlockingPager, error) {
	return schema.RpList{}, &blockingBlobPager{inner: b.pager(path, "/", op.Limit)}, nil
}

// BlockingScan mirrors Scan for callers without a context.
func (b *blobbackend) BlockingScan(path string, op schema.OpScan) (schema.RpScan, unistore.BlockingPager, error) {
	return schema.RpScan{}, &blockingBlobPager{inner: b.pager(path, "", op.Limit)}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (b *blobbackend) pager(path, delimiter string, limit int) *blobPager {
	dir := b.key(path)
	if dir != "" && !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	if limit <= 0 {
		limit = -1
	}
	return &blobPager{
		iter: b.bucket.List(&blob.ListOptions{
			Prefix:    dir,
			Delimiter: delimiter,
		}),
		prefix: b.prefix,
		dir:    dir,
		limit:  limit,
	}
}

////////////////////////////////////////////////////////////////////////////////
// PAGER

func (p *blobPager) Next(ctx context.Context) ([]schema.Entry, error) {
	if p.done {
		return nil, nil
	}

	var entries []schema.Entry
	for len(entries) < pageSize {
		if p.limit == 0 {
			p.done = true
			break
		}
		obj, err := p.iter.Next(ctx)
		if err == io.EOF {
			p.done = true
			break
		} else if err != nil {
			return nil, blobErr(err, p.dir)
		}

		// Skip the marker object for the listed directory itself
		if obj.Key == p.dir {
			continue
		}

		path := strings.TrimPrefix(obj.Key, p.prefix)
		entry := schema.Entry{Path: path}
		if obj.IsDir || strings.HasSuffix(obj.Key, "/") {
			entry.Metadata.Mode = schema.EntryModeDir
		} else {
			entry.Metadata = schema.Metadata{
				Mode:          schema.EntryModeFile,
				ContentLength: obj.Size,
				LastModified:  obj.ModTime,
			}
		}
		entries = append(entries, entry)
		if p.limit > 0 {
			p.limit--
		}
	}

	if len(entries) == 0 {
		p.done = true
		return nil, nil
	}
	return entries, nil
}

func (p *blobPager) Close(ctx context.Context) error {
	p.done = true
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// BLOCKING PAGER

func (p *blockingBlobPager) Next() ([]schema.Entry, error) {
	return p.inner.Next(context.Background())
}

func (p *blockingBlobPager) Close() error {
	return p.inner.Close(context.Background())
}
