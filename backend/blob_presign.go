package backend

import (
	"context"
	"net/http"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
	blob "gocloud.dev/blob"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Presign returns a signed URL authorizing a read of path until the given
// expiry. Only s3:// backends support signing; other schemes fail with
// Unsupported.
func (b *blobbackend) Presign(ctx context.Context, path string, op schema.OpPresign) (schema.RpPresign, error) {
	if !b.info.Caps.Has(schema.CapPresign) {
		return schema.RpPresign{}, unistore.Errf(unistore.KindUnsupported, "presign is not supported by %s backends", b.info.Scheme)
	}
	if op.Expiry <= 0 {
		return schema.RpPresign{}, unistore.Errf(unistore.KindInvalidInput, "presign expiry must be positive, got %v", op.Expiry)
	}

	url, err := b.bucket.SignedURL(ctx, b.key(path), &blob.SignedURLOptions{
		Expiry: op.Expiry,
		Method: http.MethodGet,
	})
	if err != nil {
		return schema.RpPresign{}, blobErr(err, path)
	}
	return schema.RpPresign{URL: url, Method: http.MethodGet}, nil
}
