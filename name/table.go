package name

import (
	"strings"
	"sync"
)

// ---------------------------------------------------------------------------
// Table: interned names
// ---------------------------------------------------------------------------

// Table interns names so that equal strings read from separate metadata
// records share one backing allocation.
type Table struct {
	mu     sync.RWMutex
	byText map[string]Name
	order  []Name
}

// NewTable creates a new empty table.
func NewTable() *Table {
	return &Table{
		byText: make(map[string]Name),
		order:  make([]Name, 0, 256),
	}
}

// Intern returns the shared Name for s, adding it if needed.
func (t *Table) Intern(s string) Name {
	// Fast path: read-only lookup
	t.mu.RLock()
	if n, ok := t.byText[s]; ok {
		t.mu.RUnlock()
		return n
	}
	t.mu.RUnlock()

	// Slow path: need to add new name
	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if n, ok := t.byText[s]; ok {
		return n
	}

	// Clone so a substring of a large input does not pin the whole input.
	n := Name{s: strings.Clone(s)}
	t.byText[n.s] = n
	t.order = append(t.order, n)
	return n
}

// Lookup returns the interned Name for s, or false if s was never interned.
func (t *Table) Lookup(s string) (Name, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.byText[s]
	return n, ok
}

// Len returns the number of interned names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// All returns all interned names in insertion order.
func (t *Table) All() []Name {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Name, len(t.order))
	copy(result, t.order)
	return result
}
