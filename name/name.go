// Package name provides Name, the immutable string handle used as the
// atomic identity unit for assemblies, types, parameters and signatures.
package name

import (
	"strings"

	"github.com/zeebo/xxh3"
)

// Name is an immutable string handle. Copies share the same backing
// storage, so passing a Name by value never copies its bytes.
//
// The zero Name is the empty string.
type Name struct {
	s string
}

// Static wraps a string literal. It never allocates.
func Static(s string) Name {
	return Name{s: s}
}

// New wraps a runtime string.
func New(s string) Name {
	return Name{s: s}
}

// FromBytes copies b into a new Name.
func FromBytes(b []byte) Name {
	return Name{s: string(b)}
}

// String returns the underlying string.
func (n Name) String() string {
	return n.s
}

// Bytes returns a copy of the name's bytes.
func (n Name) Bytes() []byte {
	return []byte(n.s)
}

// Len returns the length in bytes.
func (n Name) Len() int {
	return len(n.s)
}

// IsEmpty reports whether the name is the empty string.
func (n Name) IsEmpty() bool {
	return n.s == ""
}

// Equal reports whether two names are byte-for-byte identical.
func (n Name) Equal(other Name) bool {
	return n.s == other.s
}

// Contains reports whether sub occurs within n.
func (n Name) Contains(sub string) bool {
	return strings.Contains(n.s, sub)
}

// ContainsByte reports whether c occurs within n.
func (n Name) ContainsByte(c byte) bool {
	return strings.IndexByte(n.s, c) >= 0
}

// Append returns a new Name with suffix appended. n is unchanged.
func (n Name) Append(suffix string) Name {
	return Name{s: n.s + suffix}
}

// Hash returns a 64-bit hash of the name's bytes.
func (n Name) Hash() uint64 {
	return xxh3.HashString(n.s)
}
