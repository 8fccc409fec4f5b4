package ref

import "encoding/binary"

// ---------------------------------------------------------------------------
// Deterministic binary serialization of references for hashing.
//
// Encoding conventions:
//   - First byte: HashVersion
//   - Shape tag byte before each reference
//   - Strings: uint32 big-endian length + bytes
//   - Type variables: uint32 count, then name/type pairs in insertion order
// ---------------------------------------------------------------------------

// Serialize returns the hashing serialization of t.
func Serialize(t TypeRef) []byte {
	s := &serializer{buf: make([]byte, 0, 64)}
	s.writeByte(HashVersion)
	s.serializeType(t)
	return s.buf
}

// SerializeMethod returns the hashing serialization of m.
func SerializeMethod(m MethodRef) []byte {
	s := &serializer{buf: make([]byte, 0, 64)}
	s.writeByte(HashVersion)
	s.serializeMethod(m)
	return s.buf
}

type serializer struct {
	buf []byte
}

func (s *serializer) writeByte(b byte) {
	s.buf = append(s.buf, b)
}

func (s *serializer) writeUint32(v uint32) {
	s.buf = binary.BigEndian.AppendUint32(s.buf, v)
}

func (s *serializer) writeString(v string) {
	s.writeUint32(uint32(len(v)))
	s.buf = append(s.buf, v...)
}

func (s *serializer) writeTypeVars(vars *TypeVars) {
	s.writeUint32(uint32(vars.Len()))
	for n, t := range vars.All() {
		s.writeString(n.String())
		s.serializeType(t)
	}
}

func (s *serializer) serializeType(t TypeRef) {
	switch t.kind {
	case KindSingle:
		s.writeByte(TagTypeSingle)
		s.writeString(t.assembly.String())
		s.writeString(t.name.String())

	case KindGeneric:
		s.writeByte(TagTypeGeneric)
		s.writeString(t.name.String())

	case KindWithGeneric:
		s.writeByte(TagTypeWithGeneric)
		s.writeString(t.assembly.String())
		s.writeString(t.name.String())
		s.writeTypeVars(t.vars)
	}
}

func (s *serializer) serializeMethod(m MethodRef) {
	if m.vars == nil {
		s.writeByte(TagMethodSingle)
		s.writeString(m.signature.String())
		return
	}
	s.writeByte(TagMethodWithGeneric)
	s.writeString(m.signature.String())
	s.writeTypeVars(m.vars)
}
