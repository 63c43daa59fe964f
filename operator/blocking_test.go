package operator_test

import (
	"testing"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_Blocking_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	o := newTestOperator(t).Blocking()

	require.NoError(t, o.Write("a/b.txt", []byte("hello")))

	data, err := o.Read("a/b.txt")
	require.NoError(t, err)
	assert.Equal([]byte("hello"), data)

	meta, err := o.Stat("a/b.txt")
	require.NoError(t, err)
	assert.True(meta.Mode.IsFile())
	assert.Equal(int64(5), meta.ContentLength)

	require.NoError(t, o.Delete("a/b.txt"))
	_, err = o.Stat("a/b.txt")
	assert.True(unistore.IsKind(err, unistore.KindNotFound))
}

func Test_Blocking_OperationTag(t *testing.T) {
	assert := assert.New(t)

	o := newTestOperator(t).Blocking()

	// The blocking convention has its own operation tags
	_, err := o.Read("missing.txt")
	require.Error(t, err)

	var uerr *unistore.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(unistore.OpBlockingRead, uerr.Operation())
}

func Test_Blocking_List(t *testing.T) {
	assert := assert.New(t)

	o := newTestOperator(t).Blocking()
	require.NoError(t, o.Write("a.txt", []byte("one")))
	require.NoError(t, o.Write("dir/b.txt", []byte("two")))

	entries, err := o.List("")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal("a.txt", entries[0].Path)
	assert.Equal("dir/", entries[1].Path)

	entries, err = o.Scan("")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal("dir/b.txt", entries[1].Path)
}

func Test_Blocking_Reader(t *testing.T) {
	assert := assert.New(t)

	o := newTestOperator(t).Blocking()
	require.NoError(t, o.Write("a.txt", []byte("hello world")))

	reader, err := o.Reader("a.txt")
	require.NoError(t, err)
	defer reader.Close()

	// The blocking reader satisfies the standard io contracts
	pos, err := reader.Seek(6, 0)
	require.NoError(t, err)
	assert.Equal(int64(6), pos)

	buf := make([]byte, 5)
	n, err := reader.Read(buf)
	require.NoError(t, err)
	assert.Equal(5, n)
	assert.Equal([]byte("world"), buf)
}

func Test_Blocking_CreateDir(t *testing.T) {
	assert := assert.New(t)

	o := newTestOperator(t).Blocking()

	require.NoError(t, o.CreateDir("dir"))

	meta, err := o.Stat("dir/")
	require.NoError(t, err)
	assert.True(meta.IsDir())
}

func Test_Blocking_Stat_Root(t *testing.T) {
	assert := assert.New(t)

	o := newTestOperator(t).Blocking()

	meta, err := o.Stat("/")
	require.NoError(t, err)
	assert.True(meta.IsDir())
}
