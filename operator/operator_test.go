package operator_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	backend "github.com/mutablelogic/go-unistore/backend"
	operator "github.com/mutablelogic/go-unistore/operator"
	schema "github.com/mutablelogic/go-unistore/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE TESTS

func Test_Operator_New(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o, err := operator.New(ctx, operator.WithBackend(ctx, "mem://bucket"))
	require.NoError(t, err)
	defer o.Close()

	assert.Equal(schema.SchemeMemory, o.Info().Scheme)
	assert.Equal("bucket", o.Info().Name)
}

func Test_Operator_New_NoBackend(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	_, err := operator.New(ctx)
	assert.Error(err)
	assert.True(unistore.IsKind(err, unistore.KindConfigInvalid))
}

////////////////////////////////////////////////////////////////////////////////
// VERB TESTS

func Test_Operator_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)

	require.NoError(t, o.Write(ctx, "a/b.txt", []byte("hello")))

	data, err := o.Read(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.Equal([]byte("hello"), data)

	meta, err := o.Stat(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.True(meta.Mode.IsFile())
	assert.Equal(int64(5), meta.ContentLength)
}

func Test_Operator_ReadRange(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)
	require.NoError(t, o.Write(ctx, "a.txt", []byte("hello world")))

	data, err := o.ReadRange(ctx, "a.txt", schema.Range{Offset: 6, Length: 5})
	require.NoError(t, err)
	assert.Equal([]byte("world"), data)
}

func Test_Operator_Read_NotFound(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)

	// The failure carries its operation, scheme and path
	_, err := o.Read(ctx, "missing.txt")
	require.Error(t, err)

	var uerr *unistore.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(unistore.KindNotFound, uerr.Kind())
	assert.Equal(unistore.OpRead, uerr.Operation())
	assert.Contains(uerr.Context(), unistore.ContextEntry{Key: "service", Value: "mem"})
	assert.Contains(uerr.Context(), unistore.ContextEntry{Key: "path", Value: "missing.txt"})
}

func Test_Operator_Stat_Root(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)

	for _, path := range []string{"", "/"} {
		meta, err := o.Stat(ctx, path)
		assert.NoError(err)
		assert.True(meta.IsDir())
	}
}

func Test_Operator_IsExist(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)
	require.NoError(t, o.Write(ctx, "a.txt", []byte("hello")))

	exists, err := o.IsExist(ctx, "a.txt")
	require.NoError(t, err)
	assert.True(exists)

	exists, err = o.IsExist(ctx, "missing.txt")
	require.NoError(t, err)
	assert.False(exists)
}

func Test_Operator_Delete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)
	require.NoError(t, o.Write(ctx, "a.txt", []byte("hello")))

	require.NoError(t, o.Delete(ctx, "a.txt"))

	exists, err := o.IsExist(ctx, "a.txt")
	require.NoError(t, err)
	assert.False(exists)

	// Deleting again is still a success
	assert.NoError(o.Delete(ctx, "a.txt"))
}

func Test_Operator_PathEscape(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)

	_, err := o.Read(ctx, "../outside.txt")
	assert.True(unistore.IsKind(err, unistore.KindInvalidInput))

	err = o.Write(ctx, "a/../../outside.txt", []byte("x"))
	assert.True(unistore.IsKind(err, unistore.KindInvalidInput))
}

func Test_Operator_Copy(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)
	require.NoError(t, o.Write(ctx, "src.txt", []byte("hello")))

	require.NoError(t, o.Copy(ctx, "src.txt", "dst.txt"))

	data, err := o.Read(ctx, "dst.txt")
	require.NoError(t, err)
	assert.Equal([]byte("hello"), data)
}

func Test_Operator_List(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)
	require.NoError(t, o.Write(ctx, "a.txt", []byte("one")))
	require.NoError(t, o.Write(ctx, "dir/b.txt", []byte("two")))

	entries, err := o.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal("a.txt", entries[0].Path)
	assert.Equal("dir/", entries[1].Path)

	entries, err = o.Scan(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal("a.txt", entries[0].Path)
	assert.Equal("dir/b.txt", entries[1].Path)
}

func Test_Operator_ListPager(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)
	require.NoError(t, o.Write(ctx, "a.txt", []byte("one")))

	pager, err := o.ListPager(ctx, "", schema.OpList{})
	require.NoError(t, err)
	defer pager.Close(ctx)

	entries, err := pager.Next(ctx)
	require.NoError(t, err)
	assert.Len(entries, 1)

	entries, err = pager.Next(ctx)
	require.NoError(t, err)
	assert.Nil(entries)
}

func Test_Operator_CreateDir(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)

	// The trailing slash is supplied when missing
	require.NoError(t, o.CreateDir(ctx, "dir"))

	meta, err := o.Stat(ctx, "dir/")
	require.NoError(t, err)
	assert.True(meta.IsDir())
}

func Test_Operator_Presign_Unsupported(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)

	// The capability gate fires before any backend call
	_, err := o.Presign(ctx, "a.txt", time.Minute)
	assert.True(unistore.IsKind(err, unistore.KindUnsupported))
}

////////////////////////////////////////////////////////////////////////////////
// BATCH TESTS

func Test_Operator_Remove(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	// A batch limit of 2 forces the five paths through three chunks
	o, err := operator.New(ctx, operator.WithBackend(ctx, "mem://bucket", backend.WithMaxBatch(2)))
	require.NoError(t, err)
	defer o.Close()

	paths := make([]string, 5)
	for i := range paths {
		paths[i] = fmt.Sprintf("obj-%d.txt", i)
		require.NoError(t, o.Write(ctx, paths[i], []byte("x")))
	}

	rp, err := o.Remove(ctx, paths)
	require.NoError(t, err)
	assert.Len(rp.Results, 5)
	assert.Equal(5, rp.Succeeded())

	entries, err := o.Scan(ctx, "")
	require.NoError(t, err)
	assert.Empty(entries)
}

func Test_Operator_Remove_CanonicalKeys(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)
	require.NoError(t, o.Write(ctx, "a.txt", []byte("x")))

	// Results are keyed by the canonical path, whatever the caller wrote
	rp, err := o.Remove(ctx, []string{"//a.txt"})
	require.NoError(t, err)
	require.Len(t, rp.Results, 1)
	assert.Contains(rp.Results, "a.txt")

	exists, err := o.IsExist(ctx, "a.txt")
	require.NoError(t, err)
	assert.False(exists)
}

func Test_Operator_Remove_PartialFailure(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	accessor, err := backend.New(ctx, "mem://bucket")
	require.NoError(t, err)

	o, err := operator.New(ctx, operator.WithAccessor(&lockedAccessor{Accessor: accessor}))
	require.NoError(t, err)
	defer o.Close()

	rp, err := o.Remove(ctx, []string{"a.txt", "locked/b.txt", "c.txt"})
	require.NoError(t, err)
	require.Len(t, rp.Results, 3)
	assert.Equal(2, rp.Succeeded())
	assert.NoError(rp.Results["a.txt"])
	assert.NoError(rp.Results["c.txt"])

	// The per-path failure is annotated like a single delete
	var uerr *unistore.Error
	require.ErrorAs(t, rp.Results["locked/b.txt"], &uerr)
	assert.Equal(unistore.KindPermissionDenied, uerr.Kind())
	assert.Equal(unistore.OpDelete, uerr.Operation())
}

func Test_Operator_RemoveAll(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	o := newTestOperator(t)
	require.NoError(t, o.Write(ctx, "dir/a.txt", []byte("one")))
	require.NoError(t, o.Write(ctx, "dir/sub/b.txt", []byte("two")))
	require.NoError(t, o.Write(ctx, "other.txt", []byte("three")))

	require.NoError(t, o.RemoveAll(ctx, "dir/"))

	entries, err := o.Scan(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal("other.txt", entries[0].Path)
}

////////////////////////////////////////////////////////////////////////////////
// DOUBLES

// lockedAccessor fails batch deletes for paths under locked/ and passes
// everything else through.
type lockedAccessor struct {
	unistore.Accessor
}

func (a *lockedAccessor) Batch(ctx context.Context, op schema.OpBatch) (schema.RpBatch, error) {
	results := make(map[string]error, len(op.Operations))
	for _, operation := range op.Operations {
		if strings.HasPrefix(operation.Path, "locked/") {
			results[operation.Path] = unistore.Errf(unistore.KindPermissionDenied, "object %q is locked", operation.Path)
		} else {
			results[operation.Path] = nil
		}
	}
	return schema.RpBatch{Results: results}, nil
}

////////////////////////////////////////////////////////////////////////////////
// HELPERS

// newTestOperator creates an operator over an in-memory backend.
func newTestOperator(t *testing.T) *operator.Operator {
	t.Helper()

	o, err := operator.New(context.Background(), operator.WithBackend(context.Background(), "mem://bucket"))
	require.NoError(t, err)
	t.Cleanup(func() { o.Close() })
	return o
}
