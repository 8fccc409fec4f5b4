package ref

import (
	"iter"

	"github.com/chazu/metaref/name"
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Pair binds one generic parameter name to a type.
type Pair struct {
	Name name.Name
	Type TypeRef
}

// TypeVars is an ordered mapping from generic parameter name to the type
// bound to it. It is built once by NewTypeVars and never mutated, so a
// *TypeVars can be shared by any number of references.
//
// Iteration order is insertion order and is significant to both the
// canonical encoding and the structural hash.
type TypeVars struct {
	m *linkedhashmap.Map // name.Name -> TypeRef
}

// NewTypeVars builds a TypeVars from pairs in order. When a parameter name
// repeats, the later type replaces the earlier one but the name keeps the
// position of its first occurrence.
func NewTypeVars(pairs ...Pair) *TypeVars {
	m := linkedhashmap.New()
	for _, p := range pairs {
		m.Put(p.Name, p.Type)
	}
	return &TypeVars{m: m}
}

// Len returns the number of bindings. A nil *TypeVars has none.
func (v *TypeVars) Len() int {
	if v == nil || v.m == nil {
		return 0
	}
	return v.m.Size()
}

// Get returns the type bound to the parameter n.
func (v *TypeVars) Get(n name.Name) (TypeRef, bool) {
	if v.Len() == 0 {
		return TypeRef{}, false
	}
	t, ok := v.m.Get(n)
	if !ok {
		return TypeRef{}, false
	}
	return t.(TypeRef), true
}

// Names returns the parameter names in order.
func (v *TypeVars) Names() []name.Name {
	if v.Len() == 0 {
		return nil
	}
	keys := v.m.Keys()
	names := make([]name.Name, len(keys))
	for i, k := range keys {
		names[i] = k.(name.Name)
	}
	return names
}

// Pairs returns the bindings in order.
func (v *TypeVars) Pairs() []Pair {
	pairs := make([]Pair, 0, v.Len())
	for n, t := range v.All() {
		pairs = append(pairs, Pair{Name: n, Type: t})
	}
	return pairs
}

// All iterates the bindings in order.
func (v *TypeVars) All() iter.Seq2[name.Name, TypeRef] {
	return func(yield func(name.Name, TypeRef) bool) {
		if v.Len() == 0 {
			return
		}
		it := v.m.Iterator()
		for it.Next() {
			if !yield(it.Key().(name.Name), it.Value().(TypeRef)) {
				return
			}
		}
	}
}

// Equal reports whether both maps hold equal bindings in the same order.
func (v *TypeVars) Equal(other *TypeVars) bool {
	if v.Len() != other.Len() {
		return false
	}
	if v.Len() == 0 || v == other {
		return true
	}
	a, b := v.m.Iterator(), other.m.Iterator()
	for a.Next() && b.Next() {
		if !a.Key().(name.Name).Equal(b.Key().(name.Name)) {
			return false
		}
		if !a.Value().(TypeRef).Equal(b.Value().(TypeRef)) {
			return false
		}
	}
	return true
}
