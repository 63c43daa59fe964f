package layer_test

import (
	"context"
	"testing"

	// Packages
	layer "github.com/mutablelogic/go-unistore/layer"
	schema "github.com/mutablelogic/go-unistore/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func Test_Metrics_Transparent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	mem := newMemAccessor(t)
	writeObject(t, mem, "a.txt", "hello")

	metrics, err := layer.NewMetrics(metricnoop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	a := metrics.Layer(mem)

	// The instrumented chain behaves exactly like the bare one
	assert.Equal(mem.Info(), a.Info())

	rp, reader, err := a.Read(ctx, "a.txt", schema.OpRead{})
	require.NoError(t, err)
	defer reader.Close(ctx)
	assert.Equal(int64(5), rp.Metadata.ContentLength)

	chunk, err := reader.Next(ctx)
	require.NoError(t, err)
	assert.Equal([]byte("hello"), chunk)

	_, writer, err := a.Write(ctx, "b.txt", schema.OpWrite{})
	require.NoError(t, err)
	_, err = writer.Write(ctx, []byte("counted"))
	require.NoError(t, err)
	require.NoError(t, writer.Close(ctx))

	_, err = a.Stat(ctx, "b.txt", schema.OpStat{})
	assert.NoError(err)
}

func Test_Metrics_Blocking(t *testing.T) {
	assert := assert.New(t)

	mem := newMemAccessor(t)

	metrics, err := layer.NewMetrics(metricnoop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	a := metrics.Layer(mem)

	// The blocking set is instrumented the same way as the async set
	_, writer, err := a.BlockingWrite("a.txt", schema.OpWrite{})
	require.NoError(t, err)
	_, err = writer.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rp, reader, err := a.BlockingRead("a.txt", schema.OpRead{})
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(int64(5), rp.Metadata.ContentLength)

	chunk, err := reader.Next()
	require.NoError(t, err)
	assert.Equal([]byte("hello"), chunk)

	_, err = a.BlockingStat("a.txt", schema.OpStat{})
	assert.NoError(err)
}

func Test_Tracing_Transparent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	mem := newMemAccessor(t)
	writeObject(t, mem, "a.txt", "hello")

	a := layer.NewTracing(tracenoop.NewTracerProvider().Tracer("test")).Layer(mem)

	rp, reader, err := a.Read(ctx, "a.txt", schema.OpRead{})
	require.NoError(t, err)
	defer reader.Close(ctx)
	assert.Equal(int64(5), rp.Metadata.ContentLength)

	// Failures pass through with their kind intact
	_, err = a.Stat(ctx, "missing.txt", schema.OpStat{})
	assert.Error(err)

	// The blocking set bypasses span creation
	_, err = a.BlockingStat("a.txt", schema.OpStat{})
	assert.NoError(err)
}
