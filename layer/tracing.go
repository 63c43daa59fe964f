package layer

import (
	"context"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Tracing emits one OTel span per context-aware verb, ended with the
// verb's error. The blocking set passes through untouched.
type Tracing struct {
	tracer trace.Tracer
}

type tracingAccessor struct {
	unistore.Accessor
	tracer trace.Tracer
}

var _ unistore.Layer = (*Tracing)(nil)
var _ unistore.Accessor = (*tracingAccessor)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTracing returns the tracing layer. A nil tracer produces no spans.
func NewTracing(tracer trace.Tracer) *Tracing {
	return &Tracing{tracer: tracer}
}

func (l *Tracing) Layer(inner unistore.Accessor) unistore.Accessor {
	return &tracingAccessor{Accessor: inner, tracer: l.tracer}
}

////////////////////////////////////////////////////////////////////////////////
// ACCESSOR

func (a *tracingAccessor) CreateDir(ctx context.Context, path string, op schema.OpCreateDir) (schema.RpCreateDir, error) {
	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(a.tracer, ctx, spanName(unistore.OpCreateDir))
	defer func() { endFunc(result) }()

	// Run the inner accessor
	rp, result := a.Accessor.CreateDir(child, path, op)
	return rp, result
}

func (a *tracingAccessor) Read(ctx context.Context, path string, op schema.OpRead) (schema.RpRead, unistore.Reader, error) {
	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(a.tracer, ctx, spanName(unistore.OpRead))
	defer func() { endFunc(result) }()

	// Run the inner accessor
	rp, reader, result := a.Accessor.Read(child, path, op)
	return rp, reader, result
}

func (a *tracingAccessor) Write(ctx context.Context, path string, op schema.OpWrite) (schema.RpWrite, unistore.Writer, error) {
	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(a.tracer, ctx, spanName(unistore.OpWrite))
	defer func() { endFunc(result) }()

	// Run the inner accessor
	rp, writer, result := a.Accessor.Write(child, path, op)
	return rp, writer, result
}

func (a *tracingAccessor) Stat(ctx context.Context, path string, op schema.OpStat) (schema.RpStat, error) {
	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(a.tracer, ctx, spanName(unistore.OpStat))
	defer func() { endFunc(result) }()

	// Run the inner accessor
	rp, result := a.Accessor.Stat(child, path, op)
	return rp, result
}

func (a *tracingAccessor) Delete(ctx context.Context, path string, op schema.OpDelete) (schema.RpDelete, error) {
	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(a.tracer, ctx, spanName(unistore.OpDelete))
	defer func() { endFunc(result) }()

	// Run the inner accessor
	rp, result := a.Accessor.Delete(child, path, op)
	return rp, result
}

func (a *tracingAccessor) List(ctx context.Context, path string, op schema.OpList) (schema.RpList, unistore.Pager, error) {
	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(a.tracer, ctx, spanName(unistore.OpList))
	defer func() { endFunc(result) }()

	// Run the inner accessor
	rp, pager, result := a.Accessor.List(child, path, op)
	return rp, pager, result
}

func (a *tracingAccessor) Scan(ctx context.Context, path string, op schema.OpScan) (schema.RpScan, unistore.Pager, error) {
	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(a.tracer, ctx, spanName(unistore.OpScan))
	defer func() { endFunc(result) }()

	// Run the inner accessor
	rp, pager, result := a.Accessor.Scan(child, path, op)
	return rp, pager, result
}

func (a *tracingAccessor) Copy(ctx context.Context, from, to string, op schema.OpCopy) (schema.RpCopy, error) {
	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(a.tracer, ctx, spanName(unistore.OpCopy))
	defer func() { endFunc(result) }()

	// Run the inner accessor
	rp, result := a.Accessor.Copy(child, from, to, op)
	return rp, result
}

func (a *tracingAccessor) Batch(ctx context.Context, op schema.OpBatch) (schema.RpBatch, error) {
	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(a.tracer, ctx, spanName(unistore.OpBatch))
	defer func() { endFunc(result) }()

	// Run the inner accessor
	rp, result := a.Accessor.Batch(child, op)
	return rp, result
}

func (a *tracingAccessor) Presign(ctx context.Context, path string, op schema.OpPresign) (schema.RpPresign, error) {
	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(a.tracer, ctx, spanName(unistore.OpPresign))
	defer func() { endFunc(result) }()

	// Run the inner accessor
	rp, result := a.Accessor.Presign(child, path, op)
	return rp, result
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func spanName(op unistore.Operation) string {
	return schema.SchemaName + ".accessor." + string(op)
}
