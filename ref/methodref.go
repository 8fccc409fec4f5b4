package ref

import (
	"strings"

	"github.com/chazu/metaref/name"
)

// StaticCtor is the method reference of a type's static initializer.
var StaticCtor = StaticMethod(".sctor()")

// MethodRef identifies a method by its full signature, e.g. "Add([!]Int,[!]Int)",
// optionally with generic bindings. Signatures carry no spaces around commas.
type MethodRef struct {
	signature name.Name
	vars      *TypeVars
}

// Method returns a non-generic method reference.
func Method(signature name.Name) MethodRef {
	return MethodRef{signature: signature}
}

// StaticMethod builds a non-generic method reference from a literal.
func StaticMethod(signature string) MethodRef {
	return Method(name.Static(signature))
}

// GenericMethod returns a method reference with generic bindings. A nil
// vars is treated as an empty binding list.
func GenericMethod(signature name.Name, vars *TypeVars) MethodRef {
	if vars == nil {
		vars = NewTypeVars()
	}
	return MethodRef{signature: signature, vars: vars}
}

// Kind returns KindSingle or KindWithGeneric.
func (m MethodRef) Kind() Kind {
	if m.vars != nil {
		return KindWithGeneric
	}
	return KindSingle
}

// Signature returns the name and parenthesized parameter list.
func (m MethodRef) Signature() name.Name {
	return m.signature
}

// TypeVars returns the generic bindings, or nil.
func (m MethodRef) TypeVars() *TypeVars {
	return m.vars
}

// MethodName returns the part of the signature before the parameter list.
func (m MethodRef) MethodName() string {
	s := m.signature.String()
	if i := strings.IndexByte(s, '('); i >= 0 {
		return s[:i]
	}
	return s
}

// Params returns the text between the outer parentheses of the signature.
func (m MethodRef) Params() string {
	s := m.signature.String()
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return ""
	}
	return s[open+1 : end]
}

// Equal reports structural equality, comparing bindings in order.
func (m MethodRef) Equal(other MethodRef) bool {
	if m.Kind() != other.Kind() || !m.signature.Equal(other.signature) {
		return false
	}
	return m.vars.Equal(other.vars)
}
