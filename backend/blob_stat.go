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
// PUBLIC METHODS

// Stat returns metadata for the object or directory at path. Stat on the
// root always reports a directory without touching the backend.
func (b *blobbackend) Stat(ctx context.Context, path string, op schema.OpStat) (schema.RpStat, error) {
	if path == "" || path == "/" {
		return schema.RpStat{Metadata: schema.Metadata{Mode: schema.EntryModeDir}}, nil
	}

	// Directory-like keys: a marker object if one exists, otherwise any
	// child proves the directory
	if strings.HasSuffix(path, "/") {
		return b.statDir(ctx, path)
	}

	attrs, err := b.bucket.Attributes(ctx, b.key(path))
	if err != nil {
		return schema.RpStat{}, blobErr(err, path)
	}
	return schema.RpStat{Metadata: b.attrsToMetadata(path, attrs)}, nil
}

// CreateDir creates a directory-like key. Idempotent.
func (b *blobbackend) CreateDir(ctx context.Context, path string, op schema.OpCreateDir) (schema.RpCreateDir, error) {
	if !strings.HasSuffix(path, "/") {
		return schema.RpCreateDir{}, unistore.Errf(unistore.KindInvalidInput, "path %q does not denote a directory", path)
	}

	// A zero-byte marker object stands in for the directory
	writer, err := b.bucket.NewWriter(ctx, b.key(path), nil)
	if err != nil {
		return schema.RpCreateDir{}, blobErr(err, path)
	}
	if err := writer.Close(); err != nil {
		return schema.RpCreateDir{}, blobErr(err, path)
	}
	return schema.RpCreateDir{}, nil
}

// BlockingStat mirrors Stat for callers without a context.
func (b *blobbackend) BlockingStat(path string, op schema.OpStat) (schema.RpStat, error) {
	return b.Stat(context.Background(), path, op)
}

// BlockingCreateDir mirrors CreateDir for callers without a context.
func (b *blobbackend) BlockingCreateDir(path string, op schema.OpCreateDir) (schema.RpCreateDir, error) {
	return b.CreateDir(context.Background(), path, op)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (b *blobbackend) statDir(ctx context.Context, path string) (schema.RpStat, error) {
	key := b.key(path)

	// Marker object
	if attrs, err := b.bucket.Attributes(ctx, key); err == nil {
		meta := b.attrsToMetadata(path, attrs)
		meta.Mode = schema.EntryModeDir
		return schema.RpStat{Metadata: meta}, nil
	}

	// No marker: probe for a single child
	iter := b.bucket.List(&blob.ListOptions{Prefix: key})
	if _, err := iter.Next(ctx); err == io.EOF {
		return schema.RpStat{}, unistore.Errf(unistore.KindNotFound, "directory %q not found", path)
	} else if err != nil {
		return schema.RpStat{}, blobErr(err, path)
	}
	return schema.RpStat{Metadata: schema.Metadata{Mode: schema.EntryModeDir}}, nil
}
