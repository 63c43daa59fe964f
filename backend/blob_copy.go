package backend

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-unistore/schema"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Copy duplicates the object at from to to within the same bucket.
func (b *blobbackend) Copy(ctx context.Context, from, to string, op schema.OpCopy) (schema.RpCopy, error) {
	if err := b.bucket.Copy(ctx, b.key(to), b.key(from), nil); err != nil {
		return schema.RpCopy{}, blobErr(err, from)
	}
	return schema.RpCopy{}, nil
}
