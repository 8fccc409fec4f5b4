package ref

import (
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
)

// Hash returns a 64-bit structural hash suitable for in-memory lookup.
// Equal references have equal hashes.
func (t TypeRef) Hash() uint64 {
	return xxh3.Hash(Serialize(t))
}

// Digest returns the BLAKE3-256 content digest of t, stable across
// processes and suitable for persisted indexes.
func (t TypeRef) Digest() [32]byte {
	return blake3.Sum256(Serialize(t))
}

// Hash returns a 64-bit structural hash suitable for in-memory lookup.
func (m MethodRef) Hash() uint64 {
	return xxh3.Hash(SerializeMethod(m))
}

// Digest returns the BLAKE3-256 content digest of m.
func (m MethodRef) Digest() [32]byte {
	return blake3.Sum256(SerializeMethod(m))
}

// Hash returns t.Hash().
func Hash(t TypeRef) uint64 {
	return t.Hash()
}
