package handle_test

import (
	"context"
	"sync"
	"testing"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	handle "github.com/mutablelogic/go-unistore/handle"
	operator "github.com/mutablelogic/go-unistore/operator"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_Handle_Acquire(t *testing.T) {
	assert := assert.New(t)

	table := handle.NewTable()
	assert.Equal(0, table.Len())

	id := table.Acquire(newTestOperator(t))
	assert.NotZero(id)
	assert.Equal(1, table.Len())

	op, err := table.Get(id)
	require.NoError(t, err)
	assert.NotNil(op)
}

func Test_Handle_Get_Unknown(t *testing.T) {
	assert := assert.New(t)

	table := handle.NewTable()

	_, err := table.Get(42)
	assert.Error(err)
	assert.True(unistore.IsKind(err, unistore.KindNotFound))
}

func Test_Handle_Release(t *testing.T) {
	assert := assert.New(t)

	table := handle.NewTable()
	id := table.Acquire(newTestOperator(t))

	require.NoError(t, table.Release(id))
	assert.Equal(0, table.Len())

	// The handle is gone and releasing again is NotFound, not a double
	// close
	_, err := table.Get(id)
	assert.True(unistore.IsKind(err, unistore.KindNotFound))
	assert.True(unistore.IsKind(table.Release(id), unistore.KindNotFound))
}

func Test_Handle_Distinct(t *testing.T) {
	assert := assert.New(t)

	table := handle.NewTable()
	a := table.Acquire(newTestOperator(t))
	b := table.Acquire(newTestOperator(t))
	assert.NotEqual(a, b)

	// Releasing one leaves the other resolvable
	require.NoError(t, table.Release(a))
	_, err := table.Get(b)
	assert.NoError(err)
}

func Test_Handle_Concurrent(t *testing.T) {
	assert := assert.New(t)

	table := handle.NewTable()

	var wg sync.WaitGroup
	ids := make([]uint64, 16)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = table.Acquire(newTestOperator(t))
		}()
	}
	wg.Wait()

	// Every goroutine got a distinct live handle
	assert.Equal(16, table.Len())
	seen := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		assert.False(seen[id])
		seen[id] = true
		_, err := table.Get(id)
		assert.NoError(err)
	}
}

////////////////////////////////////////////////////////////////////////////////
// HELPERS

// newTestOperator creates an operator over an in-memory backend.
func newTestOperator(t *testing.T) *operator.Operator {
	t.Helper()

	op, err := operator.New(context.Background(), operator.WithBackend(context.Background(), "mem://bucket"))
	require.NoError(t, err)
	return op
}
