package operator

import (
	"context"
	"net/url"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	backend "github.com/mutablelogic/go-unistore/backend"
	schema "github.com/mutablelogic/go-unistore/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Builder constructs a terminal accessor from a backend URL.
type Builder func(ctx context.Context, url string) (unistore.Accessor, error)

// Registry is an explicit scheme-to-builder table passed into the
// construction path. There is no process-wide registry: tests and
// embedders construct isolated tables.
type Registry struct {
	builders map[schema.Scheme]Builder
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewRegistry returns an empty registration table.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[schema.Scheme]Builder)}
}

// DefaultRegistry returns a table with the blob backend registered for
// the mem, file and s3 schemes.
func DefaultRegistry(backendOpts ...backend.Opt) *Registry {
	registry := NewRegistry()
	builder := func(ctx context.Context, url string) (unistore.Accessor, error) {
		return backend.New(ctx, url, backendOpts...)
	}
	for _, scheme := range []schema.Scheme{schema.SchemeMemory, schema.SchemeFilesystem, schema.SchemeS3} {
		registry.Register(scheme, builder)
	}
	return registry
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Register binds a scheme to a builder, replacing any existing binding.
func (r *Registry) Register(scheme schema.Scheme, builder Builder) error {
	if scheme == "" || builder == nil {
		return unistore.Errf(unistore.KindConfigInvalid, "registration requires a scheme and a builder")
	}
	r.builders[scheme] = builder
	return nil
}

// Schemes returns the registered schemes.
func (r *Registry) Schemes() []schema.Scheme {
	schemes := make([]schema.Scheme, 0, len(r.builders))
	for scheme := range r.builders {
		schemes = append(schemes, scheme)
	}
	return schemes
}

// Open builds the accessor for the URL's scheme and wraps it in an
// operator with the given options applied.
func (r *Registry) Open(ctx context.Context, urlstr string, opt ...Opt) (*Operator, error) {
	u, err := url.Parse(urlstr)
	if err != nil {
		return nil, unistore.Errf(unistore.KindConfigInvalid, "invalid backend url %q", urlstr).WithCause(err)
	}
	builder, exists := r.builders[schema.Scheme(u.Scheme)]
	if !exists {
		return nil, unistore.Errf(unistore.KindConfigInvalid, "no builder registered for scheme %q", u.Scheme)
	}
	accessor, err := builder(ctx, urlstr)
	if err != nil {
		return nil, err
	}
	return New(ctx, append([]Opt{WithAccessor(accessor)}, opt...)...)
}
