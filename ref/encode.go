package ref

// Encode returns the canonical text of t.
func Encode(t TypeRef) string {
	return t.String()
}

// EncodeMethod returns the canonical text of m.
func EncodeMethod(m MethodRef) string {
	return m.String()
}

// String returns the canonical encoding: "[asm]Name" for a Single,
// "[asm]Name[T:...|U:...]" for a WithGeneric and the bare parameter name
// for a Generic. The '@' marker the parser expects on placeholders is
// not emitted.
func (t TypeRef) String() string {
	return string(t.appendEncoded(nil, true))
}

// NameOnly returns the encoding without the leading "[asm]" segment, for
// use where the assembly is known from context. Nested type arguments
// keep their assemblies.
func (t TypeRef) NameOnly() string {
	return string(t.appendEncoded(nil, false))
}

// AppendText appends the canonical encoding to b.
func (t TypeRef) AppendText(b []byte) ([]byte, error) {
	return t.appendEncoded(b, true), nil
}

// MarshalText implements encoding.TextMarshaler.
func (t TypeRef) MarshalText() ([]byte, error) {
	return t.appendEncoded(nil, true), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TypeRef) UnmarshalText(text []byte) error {
	parsed, err := plain.parseType(string(text))
	if err != nil {
		return withCaller(err, 1)
	}
	*t = parsed
	return nil
}

func (t TypeRef) appendEncoded(b []byte, withAssembly bool) []byte {
	if t.kind == KindGeneric {
		return append(b, t.name.String()...)
	}
	if withAssembly {
		b = append(b, '[')
		b = append(b, t.assembly.String()...)
		b = append(b, ']')
	}
	b = append(b, t.name.String()...)
	if t.kind == KindWithGeneric {
		b = appendTypeVars(b, t.vars)
	}
	return b
}

// appendTypeVars writes "[p1:t1|p2:t2]".
func appendTypeVars(b []byte, vars *TypeVars) []byte {
	b = append(b, '[')
	first := true
	for n, t := range vars.All() {
		if !first {
			b = append(b, '|')
		}
		first = false
		b = append(b, n.String()...)
		b = append(b, ':')
		b = t.appendEncoded(b, true)
	}
	return append(b, ']')
}

// String returns the canonical encoding: the signature verbatim, followed
// by "[T:...]" for a generic method.
func (m MethodRef) String() string {
	b := []byte(m.signature.String())
	if m.vars != nil {
		b = appendTypeVars(b, m.vars)
	}
	return string(b)
}

// MarshalText implements encoding.TextMarshaler.
func (m MethodRef) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MethodRef) UnmarshalText(text []byte) error {
	parsed, err := plain.parseMethod(string(text))
	if err != nil {
		return withCaller(err, 1)
	}
	*m = parsed
	return nil
}
