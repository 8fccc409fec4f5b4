// Package ref implements the canonical textual identities for types and
// methods: their data model, the encoder and parser for the canonical
// form, and structural hashing consistent with equality.
//
// Canonical forms:
//
//	[assembly]Name                      single type
//	[assembly]Name[T:<type>|U:<type>]   generic instantiation
//	@T                                  generic placeholder (parse only)
//	Name(Params)                        method
//	Name(Params)[T:<type>]              generic method
//
// All values in this package are immutable and safe for concurrent use.
package ref

import (
	"github.com/chazu/metaref/name"
)

// CoreAssembly names the assembly that owns the intrinsic types.
var CoreAssembly = name.Static("!")

// Kind identifies the shape of a TypeRef.
type Kind uint8

const (
	KindSingle Kind = iota
	KindGeneric
	KindWithGeneric
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "Single"
	case KindGeneric:
		return "Generic"
	case KindWithGeneric:
		return "WithGeneric"
	default:
		return "Unknown"
	}
}

// TypeRef identifies a type. It is one of:
//
//   - Single: a non-generic type within an assembly
//   - Generic: an unbound type parameter, named without an assembly
//   - WithGeneric: a generic type applied to type arguments
//
// The zero TypeRef is a Single with an empty assembly and name.
type TypeRef struct {
	kind     Kind
	assembly name.Name
	name     name.Name
	vars     *TypeVars
}

// Single returns a reference to a non-generic type.
func Single(assembly, ty name.Name) TypeRef {
	return TypeRef{kind: KindSingle, assembly: assembly, name: ty}
}

// Generic returns a placeholder for the type parameter param.
func Generic(param name.Name) TypeRef {
	return TypeRef{kind: KindGeneric, name: param}
}

// WithGeneric returns a generic type applied to vars. A nil vars is
// treated as an empty binding list.
func WithGeneric(assembly, ty name.Name, vars *TypeVars) TypeRef {
	if vars == nil {
		vars = NewTypeVars()
	}
	return TypeRef{kind: KindWithGeneric, assembly: assembly, name: ty, vars: vars}
}

// CoreSingle returns a single type in the core assembly.
func CoreSingle(ty name.Name) TypeRef {
	return Single(CoreAssembly, ty)
}

// CoreGeneric returns a generic instantiation in the core assembly.
func CoreGeneric(ty name.Name, vars *TypeVars) TypeRef {
	return WithGeneric(CoreAssembly, ty, vars)
}

// StaticSingle builds a single type from two string literals.
func StaticSingle(assembly, ty string) TypeRef {
	return Single(name.Static(assembly), name.Static(ty))
}

// Kind returns the shape of the reference.
func (t TypeRef) Kind() Kind {
	return t.kind
}

// Name returns the type name, or the parameter name for a Generic.
func (t TypeRef) Name() name.Name {
	return t.name
}

// Assembly returns the owning assembly. Generic placeholders have none.
func (t TypeRef) Assembly() (name.Name, bool) {
	if t.kind == KindGeneric {
		return name.Name{}, false
	}
	return t.assembly, true
}

// TypeVars returns the bindings of a WithGeneric, or nil.
func (t TypeRef) TypeVars() *TypeVars {
	return t.vars
}

// IsGeneric reports whether t is an unbound type parameter.
func (t TypeRef) IsGeneric() bool {
	return t.kind == KindGeneric
}

// SingleName returns the type name if t is a Single.
func (t TypeRef) SingleName() (name.Name, bool) {
	if t.kind != KindSingle {
		return name.Name{}, false
	}
	return t.name, true
}

// Equal reports structural equality. Type variable bindings compare in
// order, so the same bindings inserted in a different order are unequal.
func (t TypeRef) Equal(other TypeRef) bool {
	if t.kind != other.kind || !t.name.Equal(other.name) {
		return false
	}
	switch t.kind {
	case KindGeneric:
		return true
	case KindWithGeneric:
		return t.assembly.Equal(other.assembly) && t.vars.Equal(other.vars)
	default:
		return t.assembly.Equal(other.assembly)
	}
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b TypeRef) bool {
	return a.Equal(b)
}
