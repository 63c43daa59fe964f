package layer

import (
	"context"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ReadOnly is a restriction layer: it masks every mutating capability from
// the chain's descriptor and fails mutating verbs with Unsupported before
// they reach the inner accessor. Read-side verbs pass through untouched.
type ReadOnly struct{}

type readOnlyAccessor struct {
	unistore.Accessor
}

var _ unistore.Layer = (*ReadOnly)(nil)
var _ unistore.Accessor = (*readOnlyAccessor)(nil)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// mutatingCaps are the capabilities ReadOnly hides from the descriptor.
const mutatingCaps = schema.CapCreateDir | schema.CapWrite | schema.CapWriteAppend |
	schema.CapDelete | schema.CapCopy | schema.CapBatch

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewReadOnly returns the read-only restriction layer.
func NewReadOnly() *ReadOnly {
	return new(ReadOnly)
}

func (l *ReadOnly) Layer(inner unistore.Accessor) unistore.Accessor {
	return &readOnlyAccessor{Accessor: inner}
}

////////////////////////////////////////////////////////////////////////////////
// ACCESSOR

func (a *readOnlyAccessor) Info() schema.AccessorInfo {
	return a.Accessor.Info().WithoutCaps(mutatingCaps)
}

func (a *readOnlyAccessor) CreateDir(ctx context.Context, path string, op schema.OpCreateDir) (schema.RpCreateDir, error) {
	return schema.RpCreateDir{}, a.denied(unistore.OpCreateDir, path)
}

func (a *readOnlyAccessor) Write(ctx context.Context, path string, op schema.OpWrite) (schema.RpWrite, unistore.Writer, error) {
	return schema.RpWrite{}, nil, a.denied(unistore.OpWrite, path)
}

func (a *readOnlyAccessor) Delete(ctx context.Context, path string, op schema.OpDelete) (schema.RpDelete, error) {
	return schema.RpDelete{}, a.denied(unistore.OpDelete, path)
}

func (a *readOnlyAccessor) Copy(ctx context.Context, from, to string, op schema.OpCopy) (schema.RpCopy, error) {
	return schema.RpCopy{}, a.denied(unistore.OpCopy, from)
}

func (a *readOnlyAccessor) Batch(ctx context.Context, op schema.OpBatch) (schema.RpBatch, error) {
	return schema.RpBatch{}, a.denied(unistore.OpBatch, "")
}

func (a *readOnlyAccessor) BlockingCreateDir(path string, op schema.OpCreateDir) (schema.RpCreateDir, error) {
	return schema.RpCreateDir{}, a.denied(unistore.OpBlockingCreateDir, path)
}

func (a *readOnlyAccessor) BlockingWrite(path string, op schema.OpWrite) (schema.RpWrite, unistore.BlockingWriter, error) {
	return schema.RpWrite{}, nil, a.denied(unistore.OpBlockingWrite, path)
}

func (a *readOnlyAccessor) BlockingDelete(path string, op schema.OpDelete) (schema.RpDelete, error) {
	return schema.RpDelete{}, a.denied(unistore.OpBlockingDelete, path)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (a *readOnlyAccessor) denied(op unistore.Operation, path string) error {
	err := unistore.Errf(unistore.KindUnsupported, "accessor is read-only").WithOperation(op)
	if path != "" {
		err = err.WithContext("path", path)
	}
	return err
}
