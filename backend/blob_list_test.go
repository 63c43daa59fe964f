package backend

import (
	"context"
	"fmt"
	"testing"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_Blob_List(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newTestBackend(t, map[string]string{
		"a.txt":       "one",
		"dir/b.txt":   "two",
		"dir/c/d.txt": "three",
	})

	_, pager, err := b.List(ctx, "", schema.OpList{})
	require.NoError(t, err)
	defer pager.Close(ctx)

	entries := drainPager(t, pager)
	require.Len(t, entries, 2)
	assert.Equal("a.txt", entries[0].Path)
	assert.True(entries[0].Metadata.Mode.IsFile())
	assert.Equal(int64(3), entries[0].Metadata.ContentLength)
	assert.Equal("dir/", entries[1].Path)
	assert.True(entries[1].Metadata.IsDir())
}

func Test_Blob_List_Subdir(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newTestBackend(t, map[string]string{
		"a.txt":       "one",
		"dir/b.txt":   "two",
		"dir/c/d.txt": "three",
	})

	_, pager, err := b.List(ctx, "dir/", schema.OpList{})
	require.NoError(t, err)
	defer pager.Close(ctx)

	entries := drainPager(t, pager)
	require.Len(t, entries, 2)
	assert.Equal("dir/b.txt", entries[0].Path)
	assert.Equal("dir/c/", entries[1].Path)
}

func Test_Blob_Scan(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newTestBackend(t, map[string]string{
		"a.txt":       "one",
		"dir/b.txt":   "two",
		"dir/c/d.txt": "three",
	})

	// Recursive: every object, no directory entries
	_, pager, err := b.Scan(ctx, "", schema.OpScan{})
	require.NoError(t, err)
	defer pager.Close(ctx)

	entries := drainPager(t, pager)
	require.Len(t, entries, 3)
	assert.Equal("a.txt", entries[0].Path)
	assert.Equal("dir/b.txt", entries[1].Path)
	assert.Equal("dir/c/d.txt", entries[2].Path)
}

func Test_Blob_List_Limit(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	objects := make(map[string]string, 10)
	for i := range 10 {
		objects[fmt.Sprintf("obj-%02d.txt", i)] = "x"
	}
	b := newTestBackend(t, objects)

	_, pager, err := b.Scan(ctx, "", schema.OpScan{Limit: 4})
	require.NoError(t, err)
	defer pager.Close(ctx)

	entries := drainPager(t, pager)
	assert.Len(entries, 4)
}

func Test_Blob_List_Exhausted(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newTestBackend(t, map[string]string{"a.txt": "one"})

	_, pager, err := b.List(ctx, "", schema.OpList{})
	require.NoError(t, err)
	defer pager.Close(ctx)

	drainPager(t, pager)

	// An exhausted pager keeps reporting end of listing
	for range 3 {
		entries, err := pager.Next(ctx)
		assert.NoError(err)
		assert.Nil(entries)
	}
}

func Test_Blob_List_SkipsDirMarker(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newTestBackend(t, nil)

	_, err := b.CreateDir(ctx, "dir/", schema.OpCreateDir{})
	require.NoError(t, err)
	_, writer, err := b.Write(ctx, "dir/a.txt", schema.OpWrite{})
	require.NoError(t, err)
	_, err = writer.Write(ctx, []byte("hello"))
	require.NoError(t, err)
	require.NoError(t, writer.Close(ctx))

	// The marker for the listed directory itself is not an entry
	_, pager, err := b.List(ctx, "dir/", schema.OpList{})
	require.NoError(t, err)
	defer pager.Close(ctx)

	entries := drainPager(t, pager)
	require.Len(t, entries, 1)
	assert.Equal("dir/a.txt", entries[0].Path)
}

func Test_Blob_BlockingList(t *testing.T) {
	assert := assert.New(t)

	b := newTestBackend(t, map[string]string{"a.txt": "one", "b.txt": "two"})

	_, pager, err := b.BlockingList("", schema.OpList{})
	require.NoError(t, err)
	defer pager.Close()

	var paths []string
	for {
		entries, err := pager.Next()
		require.NoError(t, err)
		if entries == nil {
			break
		}
		for _, entry := range entries {
			paths = append(paths, entry.Path)
		}
	}
	assert.Equal([]string{"a.txt", "b.txt"}, paths)
}

////////////////////////////////////////////////////////////////////////////////
// HELPERS

// drainPager collects every entry from a pager.
func drainPager(t *testing.T, pager unistore.Pager) []schema.Entry {
	t.Helper()
	ctx := context.Background()

	var entries []schema.Entry
	for {
		batch, err := pager.Next(ctx)
		require.NoError(t, err)
		if batch == nil {
			return entries
		}
		entries = append(entries, batch...)
	}
}
