package handle

import (
	"sync"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	operator "github.com/mutablelogic/go-unistore/operator"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Table holds live operators on behalf of foreign-language bindings,
// keyed by opaque integer identifiers. A binding acquires a handle, calls
// through it, and must release it explicitly: an operator referenced by a
// handle stays valid until released, with no implicit collection of the
// native resources behind it.
type Table struct {
	mu      sync.RWMutex
	next    uint64
	entries map[uint64]*operator.Operator
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTable returns an empty handle table.
func NewTable() *Table {
	return &Table{entries: make(map[uint64]*operator.Operator)}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Acquire stores the operator and returns its non-zero handle.
func (t *Table) Acquire(op *operator.Operator) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.entries[t.next] = op
	return t.next
}

// Get resolves a handle. A released or unknown handle is NotFound.
func (t *Table) Get(id uint64) (*operator.Operator, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if op, exists := t.entries[id]; exists {
		return op, nil
	}
	return nil, unistore.Errf(unistore.KindNotFound, "no operator for handle %d", id)
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Release closes the operator behind the handle and frees it. Releasing
// the same handle twice is NotFound the second time, never a double
// close.
func (t *Table) Release(id uint64) error {
	t.mu.Lock()
	op, exists := t.entries[id]
	delete(t.entries, id)
	t.mu.Unlock()

	if !exists {
		return unistore.Errf(unistore.KindNotFound, "no operator for handle %d", id)
	}
	return op.Close()
}
