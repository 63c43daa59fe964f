package backend

import (
	"context"
	"sync"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
	gcerrors "gocloud.dev/gcerrors"
	errgroup "golang.org/x/sync/errgroup"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// batchConcurrency bounds the parallel deletes issued by one batch call.
const batchConcurrency = 8

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Delete removes the object at path. A missing path is a success: delete
// is idempotent.
func (b *blobbackend) Delete(ctx context.Context, path string, op schema.OpDelete) (schema.RpDelete, error) {
	if err := b.bucket.Delete(ctx, b.key(path)); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return schema.RpDelete{}, blobErr(err, path)
	}
	return schema.RpDelete{}, nil
}

// BlockingDelete mirrors Delete for callers without a context.
func (b *blobbackend) BlockingDelete(path string, op schema.OpDelete) (schema.RpDelete, error) {
	return b.Delete(context.Background(), path, op)
}

// Batch executes a set of path-scoped deletes with bounded concurrency and
// returns one independent result per submitted path. One path failing does
// not fail the others, and the batch call itself only fails when the input
// set is oversized.
func (b *blobbackend) Batch(ctx context.Context, op schema.OpBatch) (schema.RpBatch, error) {
	if len(op.Operations) > b.info.MaxBatch {
		return schema.RpBatch{}, unistore.Errf(unistore.KindInvalidInput, "batch of %d operations exceeds limit %d; split the input before calling", len(op.Operations), b.info.MaxBatch)
	}

	var mu sync.Mutex
	results := make(map[string]error, len(op.Operations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for _, operation := range op.Operations {
		g.Go(func() error {
			_, err := b.Delete(gctx, operation.Path, operation.Delete)
			mu.Lock()
			results[operation.Path] = err
			mu.Unlock()
			return nil
		})
	}

	// Workers report per-path outcomes through the map, never through the
	// group error
	g.Wait()

	return schema.RpBatch{Results: results}, nil
}
