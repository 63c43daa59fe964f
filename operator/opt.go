package operator

import (
	"context"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	backend "github.com/mutablelogic/go-unistore/backend"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for operator construction.
type Opt func(*opts) error

type opts struct {
	accessor unistore.Accessor
	layers   []unistore.Layer
	tracer   trace.Tracer
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func applyOpts(opts_ []Opt) (opts, error) {
	var o opts

	// Apply the options
	for _, fn := range opts_ {
		if err := fn(&o); err != nil {
			return opts{}, err
		}
	}

	// Return success
	return o, nil
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithBackend builds a blob backend (mem://, file://, s3://) as the
// terminal accessor. The url should be in the format "scheme://name"
// (e.g., "mem://mybucket", "s3://mybucket").
func WithBackend(ctx context.Context, url string, backendOpts ...backend.Opt) Opt {
	return func(o *opts) error {
		accessor, err := backend.New(ctx, url, backendOpts...)
		if err != nil {
			return err
		}
		o.accessor = accessor
		return nil
	}
}

// WithAccessor installs an existing accessor as the terminal backend.
func WithAccessor(accessor unistore.Accessor) Opt {
	return func(o *opts) error {
		if accessor == nil {
			return unistore.Errf(unistore.KindConfigInvalid, "accessor is nil")
		}
		o.accessor = accessor
		return nil
	}
}

// WithLayer appends an interception layer. Layers are applied
// innermost-first in the order given: the last layer added sees a call
// first and its response last.
func WithLayer(layer unistore.Layer) Opt {
	return func(o *opts) error {
		if layer == nil {
			return unistore.Errf(unistore.KindConfigInvalid, "layer is nil")
		}
		o.layers = append(o.layers, layer)
		return nil
	}
}

// WithTracer sets the tracer used for tracing operations; the tracing
// layer is applied outermost so it measures the whole chain.
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opts) error {
		o.tracer = tracer
		return nil
	}
}
