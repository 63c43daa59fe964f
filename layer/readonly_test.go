package layer_test

import (
	"context"
	"testing"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	layer "github.com/mutablelogic/go-unistore/layer"
	schema "github.com/mutablelogic/go-unistore/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_ReadOnly_Info(t *testing.T) {
	assert := assert.New(t)

	mem := newMemAccessor(t)
	a := layer.NewReadOnly().Layer(mem)

	// Mutating capabilities disappear from the descriptor
	info := a.Info()
	assert.False(info.Caps.Has(schema.CapWrite))
	assert.False(info.Caps.Has(schema.CapDelete))
	assert.False(info.Caps.Has(schema.CapCopy))
	assert.False(info.Caps.Has(schema.CapBatch))
	assert.False(info.Caps.Has(schema.CapCreateDir))
	assert.True(info.Caps.Has(schema.CapRead))
	assert.True(info.Caps.Has(schema.CapStat))
	assert.True(info.Caps.Has(schema.CapList))

	// The inner descriptor is untouched
	assert.True(mem.Info().Caps.Has(schema.CapWrite))
}

func Test_ReadOnly_Denied(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	mem := newMemAccessor(t)
	writeObject(t, mem, "a.txt", "hello")
	a := layer.NewReadOnly().Layer(mem)

	_, _, err := a.Write(ctx, "b.txt", schema.OpWrite{})
	assert.True(unistore.IsKind(err, unistore.KindUnsupported))

	_, err = a.Delete(ctx, "a.txt", schema.OpDelete{})
	assert.True(unistore.IsKind(err, unistore.KindUnsupported))

	_, err = a.Copy(ctx, "a.txt", "b.txt", schema.OpCopy{})
	assert.True(unistore.IsKind(err, unistore.KindUnsupported))

	_, err = a.CreateDir(ctx, "dir/", schema.OpCreateDir{})
	assert.True(unistore.IsKind(err, unistore.KindUnsupported))

	_, err = a.Batch(ctx, schema.OpBatch{Operations: []schema.BatchOperation{{Path: "a.txt"}}})
	assert.True(unistore.IsKind(err, unistore.KindUnsupported))

	_, _, err = a.BlockingWrite("b.txt", schema.OpWrite{})
	assert.True(unistore.IsKind(err, unistore.KindUnsupported))

	_, err = a.BlockingDelete("a.txt", schema.OpDelete{})
	assert.True(unistore.IsKind(err, unistore.KindUnsupported))

	// Nothing was mutated
	_, err = a.Stat(ctx, "a.txt", schema.OpStat{})
	assert.NoError(err)
}

func Test_ReadOnly_PassThrough(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	mem := newMemAccessor(t)
	writeObject(t, mem, "a.txt", "hello")
	a := layer.NewReadOnly().Layer(mem)

	rp, reader, err := a.Read(ctx, "a.txt", schema.OpRead{})
	require.NoError(t, err)
	defer reader.Close(ctx)
	assert.Equal(int64(5), rp.Metadata.ContentLength)

	chunk, err := reader.Next(ctx)
	require.NoError(t, err)
	assert.Equal([]byte("hello"), chunk)

	_, pager, err := a.List(ctx, "", schema.OpList{})
	require.NoError(t, err)
	defer pager.Close(ctx)
	entries, err := pager.Next(ctx)
	require.NoError(t, err)
	assert.Len(entries, 1)
}
