package layer

import (
	"context"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
	attribute "go.opentelemetry.io/otel/attribute"
	metric "go.opentelemetry.io/otel/metric"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Metrics counts operations, failures and stream bytes per scheme and
// operation through an OTel meter. Readers and writers in both calling
// conventions are re-wrapped so bytes are counted as they actually flow,
// not as they are requested.
type Metrics struct {
	operations metric.Int64Counter
	failures   metric.Int64Counter
	bytesRead  metric.Int64Counter
	bytesWrite metric.Int64Counter
}

type metricsAccessor struct {
	unistore.Accessor
	metrics *Metrics
	scheme  attribute.KeyValue
}

type metricsReader struct {
	unistore.Reader
	metrics *Metrics
	attrs   metric.MeasurementOption
}

type metricsWriter struct {
	unistore.Writer
	metrics *Metrics
	attrs   metric.MeasurementOption
}

type metricsBlockingReader struct {
	unistore.BlockingReader
	metrics *Metrics
	attrs   metric.MeasurementOption
}

type metricsBlockingWriter struct {
	unistore.BlockingWriter
	metrics *Metrics
	attrs   metric.MeasurementOption
}

var _ unistore.Layer = (*Metrics)(nil)
var _ unistore.Accessor = (*metricsAccessor)(nil)
var _ unistore.Reader = (*metricsReader)(nil)
var _ unistore.Writer = (*metricsWriter)(nil)
var _ unistore.BlockingReader = (*metricsBlockingReader)(nil)
var _ unistore.BlockingWriter = (*metricsBlockingWriter)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewMetrics creates the metrics layer on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	self := new(Metrics)

	var err error
	if self.operations, err = meter.Int64Counter(schema.SchemaName+".operations",
		metric.WithDescription("Completed accessor operations")); err != nil {
		return nil, err
	}
	if self.failures, err = meter.Int64Counter(schema.SchemaName+".failures",
		metric.WithDescription("Failed accessor operations")); err != nil {
		return nil, err
	}
	if self.bytesRead, err = meter.Int64Counter(schema.SchemaName+".bytes_read",
		metric.WithDescription("Bytes delivered by readers")); err != nil {
		return nil, err
	}
	if self.bytesWrite, err = meter.Int64Counter(schema.SchemaName+".bytes_written",
		metric.WithDescription("Bytes staged by writers")); err != nil {
		return nil, err
	}

	// Return success
	return self, nil
}

func (l *Metrics) Layer(inner unistore.Accessor) unistore.Accessor {
	return &metricsAccessor{
		Accessor: inner,
		metrics:  l,
		scheme:   attribute.String("scheme", inner.Info().Scheme.String()),
	}
}

////////////////////////////////////////////////////////////////////////////////
// ACCESSOR

func (a *metricsAccessor) CreateDir(ctx context.Context, path string, op schema.OpCreateDir) (schema.RpCreateDir, error) {
	rp, err := a.Accessor.CreateDir(ctx, path, op)
	a.record(ctx, unistore.OpCreateDir, err)
	return rp, err
}

func (a *metricsAccessor) Read(ctx context.Context, path string, op schema.OpRead) (schema.RpRead, unistore.Reader, error) {
	rp, reader, err := a.Accessor.Read(ctx, path, op)
	a.record(ctx, unistore.OpRead, err)
	if err != nil {
		return rp, nil, err
	}
	return rp, &metricsReader{Reader: reader, metrics: a.metrics, attrs: a.attrs(unistore.OpRead)}, nil
}

func (a *metricsAccessor) Write(ctx context.Context, path string, op schema.OpWrite) (schema.RpWrite, unistore.Writer, error) {
	rp, writer, err := a.Accessor.Write(ctx, path, op)
	a.record(ctx, unistore.OpWrite, err)
	if err != nil {
		return rp, nil, err
	}
	return rp, &metricsWriter{Writer: writer, metrics: a.metrics, attrs: a.attrs(unistore.OpWrite)}, nil
}

func (a *metricsAccessor) Stat(ctx context.Context, path string, op schema.OpStat) (schema.RpStat, error) {
	rp, err := a.Accessor.Stat(ctx, path, op)
	a.record(ctx, unistore.OpStat, err)
	return rp, err
}

func (a *metricsAccessor) Delete(ctx context.Context, path string, op schema.OpDelete) (schema.RpDelete, error) {
	rp, err := a.Accessor.Delete(ctx, path, op)
	a.record(ctx, unistore.OpDelete, err)
	return rp, err
}

func (a *metricsAccessor) List(ctx context.Context, path string, op schema.OpList) (schema.RpList, unistore.Pager, error) {
	rp, pager, err := a.Accessor.List(ctx, path, op)
	a.record(ctx, unistore.OpList, err)
	return rp, pager, err
}

func (a *metricsAccessor) Scan(ctx context.Context, path string, op schema.OpScan) (schema.RpScan, unistore.Pager, error) {
	rp, pager, err := a.Accessor.Scan(ctx, path, op)
	a.record(ctx, unistore.OpScan, err)
	return rp, pager, err
}

func (a *metricsAccessor) Copy(ctx context.Context, from, to string, op schema.OpCopy) (schema.RpCopy, error) {
	rp, err := a.Accessor.Copy(ctx, from, to, op)
	a.record(ctx, unistore.OpCopy, err)
	return rp, err
}

func (a *metricsAccessor) Batch(ctx context.Context, op schema.OpBatch) (schema.RpBatch, error) {
	rp, err := a.Accessor.Batch(ctx, op)
	a.record(ctx, unistore.OpBatch, err)
	return rp, err
}

func (a *metricsAccessor) Presign(ctx context.Context, path string, op schema.OpPresign) (schema.RpPresign, error) {
	rp, err := a.Accessor.Presign(ctx, path, op)
	a.record(ctx, unistore.OpPresign, err)
	return rp, err
}

// The blocking set records against a background context, since counter
// measurement only uses the context for exemplars.

func (a *metricsAccessor) BlockingCreateDir(path string, op schema.OpCreateDir) (schema.RpCreateDir, error) {
	rp, err := a.Accessor.BlockingCreateDir(path, op)
	a.record(context.Background(), unistore.OpBlockingCreateDir, err)
	return rp, err
}

func (a *metricsAccessor) BlockingRead(path string, op schema.OpRead) (schema.RpRead, unistore.BlockingReader, error) {
	rp, reader, err := a.Accessor.BlockingRead(path, op)
	a.record(context.Background(), unistore.OpBlockingRead, err)
	if err != nil {
		return rp, nil, err
	}
	return rp, &metricsBlockingReader{BlockingReader: reader, metrics: a.metrics, attrs: a.attrs(unistore.OpBlockingRead)}, nil
}

func (a *metricsAccessor) BlockingWrite(path string, op schema.OpWrite) (schema.RpWrite, unistore.BlockingWriter, error) {
	rp, writer, err := a.Accessor.BlockingWrite(path, op)
	a.record(context.Background(), unistore.OpBlockingWrite, err)
	if err != nil {
		return rp, nil, err
	}
	return rp, &metricsBlockingWriter{BlockingWriter: writer, metrics: a.metrics, attrs: a.attrs(unistore.OpBlockingWrite)}, nil
}

func (a *metricsAccessor) BlockingStat(path string, op schema.OpStat) (schema.RpStat, error) {
	rp, err := a.Accessor.BlockingStat(path, op)
	a.record(context.Background(), unistore.OpBlockingStat, err)
	return rp, err
}

func (a *metricsAccessor) BlockingDelete(path string, op schema.OpDelete) (schema.RpDelete, error) {
	rp, err := a.Accessor.BlockingDelete(path, op)
	a.record(context.Background(), unistore.OpBlockingDelete, err)
	return rp, err
}

func (a *metricsAccessor) BlockingList(path string, op schema.OpList) (schema.RpList, unistore.BlockingPager, error) {
	rp, pager, err := a.Accessor.BlockingList(path, op)
	a.record(context.Background(), unistore.OpBlockingList, err)
	return rp, pager, err
}

func (a *metricsAccessor) BlockingScan(path string, op schema.OpScan) (schema.RpScan, unistore.BlockingPager, error) {
	rp, pager, err := a.Accessor.BlockingScan(path, op)
	a.record(context.Background(), unistore.OpBlockingScan, err)
	return rp, pager, err
}

////////////////////////////////////////////////////////////////////////////////
// STREAMS

func (r *metricsReader) Read(ctx context.Context, p []byte) (int, error) {
	n, err := r.Reader.Read(ctx, p)
	if n > 0 {
		r.metrics.bytesRead.Add(ctx, int64(n), r.attrs)
	}
	return n, err
}

func (r *metricsReader) Next(ctx context.Context) ([]byte, error) {
	chunk, err := r.Reader.Next(ctx)
	if len(chunk) > 0 {
		r.metrics.bytesRead.Add(ctx, int64(len(chunk)), r.attrs)
	}
	return chunk, err
}

func (w *metricsWriter) Write(ctx context.Context, p []byte) (int, error) {
	n, err := w.Writer.Write(ctx, p)
	if n > 0 {
		w.metrics.bytesWrite.Add(ctx, int64(n), w.attrs)
	}
	return n, err
}

func (w *metricsWriter) Append(ctx context.Context, p []byte) (int, error) {
	n, err := w.Writer.Append(ctx, p)
	if n > 0 {
		w.metrics.bytesWrite.Add(ctx, int64(n), w.attrs)
	}
	return n, err
}

func (r *metricsBlockingReader) Read(p []byte) (int, error) {
	n, err := r.BlockingReader.Read(p)
	if n > 0 {
		r.metrics.bytesRead.Add(context.Background(), int64(n), r.attrs)
	}
	return n, err
}

func (r *metricsBlockingReader) Next() ([]byte, error) {
	chunk, err := r.BlockingReader.Next()
	if len(chunk) > 0 {
		r.metrics.bytesRead.Add(context.Background(), int64(len(chunk)), r.attrs)
	}
	return chunk, err
}

func (w *metricsBlockingWriter) Write(p []byte) (int, error) {
	n, err := w.BlockingWriter.Write(p)
	if n > 0 {
		w.metrics.bytesWrite.Add(context.Background(), int64(n), w.attrs)
	}
	return n, err
}

func (w *metricsBlockingWriter) Append(p []byte) (int, error) {
	n, err := w.BlockingWriter.Append(p)
	if n > 0 {
		w.metrics.bytesWrite.Add(context.Background(), int64(n), w.attrs)
	}
	return n, err
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (a *metricsAccessor) attrs(op unistore.Operation) metric.MeasurementOption {
	return metric.WithAttributes(a.scheme, attribute.String("operation", string(op)))
}

func (a *metricsAccessor) record(ctx context.Context, op unistore.Operation, err error) {
	attrs := a.attrs(op)
	a.metrics.operations.Add(ctx, 1, attrs)
	if err != nil {
		a.metrics.failures.Add(ctx, 1, attrs)
	}
}
