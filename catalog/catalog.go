package catalog

import (
	"fmt"
	"sync"

	"github.com/chazu/metaref/metadata"
	"github.com/chazu/metaref/name"
	"github.com/chazu/metaref/ref"
)

// ---------------------------------------------------------------------------
// Catalog: hash-indexed set of type references
// ---------------------------------------------------------------------------

// Catalog indexes type references, and the methods each declares, by
// structural hash. Lookups hash the probe and confirm with Equal, so any
// reference equal to a stored one finds it regardless of how it was built.
//
// A Catalog is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	names   *name.Table
	parser  *ref.Parser
	buckets map[uint64][]int // TypeRef.Hash -> indexes into entries
	entries []metadata.Entry
}

// New creates an empty catalog with its own name table.
func New() *Catalog {
	names := name.NewTable()
	return &Catalog{
		names:   names,
		parser:  ref.NewParser(names),
		buckets: make(map[uint64][]int),
	}
}

// FromManifest parses every reference in m into a new catalog.
func FromManifest(m *Manifest) (*Catalog, error) {
	c := New()
	for i, te := range m.Types {
		t, err := c.parser.ParseType(te.Ref)
		if err != nil {
			return nil, fmt.Errorf("catalog: type %d: %w", i, err)
		}
		e := metadata.Entry{Type: t}
		for _, text := range te.Methods {
			mr, err := c.parser.ParseMethod(text)
			if err != nil {
				return nil, fmt.Errorf("catalog: type %s: %w", te.Ref, err)
			}
			e.Methods = append(e.Methods, mr)
		}
		if !c.Add(e) {
			return nil, fmt.Errorf("catalog: duplicate type %s", te.Ref)
		}
	}
	return c, nil
}

// FromSection builds a catalog from a decoded metadata section.
func FromSection(s *metadata.Section) (*Catalog, error) {
	c := New()
	entries, err := s.Decode(c.parser)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !c.Add(e) {
			return nil, fmt.Errorf("catalog: duplicate type %s", e.Type)
		}
	}
	return c, nil
}

// Names returns the table that interns every name parsed by this catalog.
func (c *Catalog) Names() *name.Table {
	return c.names
}

// Add indexes e. It returns false, leaving the catalog unchanged, when an
// equal type is already present.
func (c *Catalog) Add(e metadata.Entry) bool {
	h := e.Type.Hash()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.findLocked(h, e.Type); ok {
		return false
	}
	c.buckets[h] = append(c.buckets[h], len(c.entries))
	c.entries = append(c.entries, e)
	return true
}

// Lookup returns the entry for a type equal to t.
func (c *Catalog) Lookup(t ref.TypeRef) (metadata.Entry, bool) {
	h := t.Hash()

	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.findLocked(h, t)
	if !ok {
		return metadata.Entry{}, false
	}
	return c.entries[i], true
}

// LookupString parses s and looks it up.
func (c *Catalog) LookupString(s string) (metadata.Entry, bool, error) {
	t, err := c.parser.ParseType(s)
	if err != nil {
		return metadata.Entry{}, false, err
	}
	e, ok := c.Lookup(t)
	return e, ok, nil
}

// HasMethod reports whether type t declares a method equal to m.
func (c *Catalog) HasMethod(t ref.TypeRef, m ref.MethodRef) bool {
	e, ok := c.Lookup(t)
	if !ok {
		return false
	}
	for _, declared := range e.Methods {
		if declared.Equal(m) {
			return true
		}
	}
	return false
}

// Len returns the number of indexed types.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns all entries in insertion order.
func (c *Catalog) Entries() []metadata.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]metadata.Entry, len(c.entries))
	copy(result, c.entries)
	return result
}

// Section returns the catalog as a metadata section.
func (c *Catalog) Section() *metadata.Section {
	return metadata.NewSection(c.Entries())
}

func (c *Catalog) findLocked(h uint64, t ref.TypeRef) (int, bool) {
	for _, i := range c.buckets[h] {
		if c.entries[i].Type.Equal(t) {
			return i, true
		}
	}
	return 0, false
}
