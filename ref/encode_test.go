package ref

import (
	"errors"
	"testing"

	"github.com/chazu/metaref/name"
)

func TestEncode(t *testing.T) {
	intRef := CoreSingle(name.Static("Int"))
	strRef := CoreSingle(name.Static("Str"))

	tests := []struct {
		ref  TypeRef
		want string
	}{
		{intRef, "[!]Int"},
		{StaticSingle("System.Console", "Console"), "[System.Console]Console"},
		{CoreGeneric(name.Static("List"), NewTypeVars(pair("T", intRef))), "[!]List[T:[!]Int]"},
		{CoreGeneric(name.Static("Map"), NewTypeVars(pair("K", strRef), pair("V", intRef))), "[!]Map[K:[!]Str|V:[!]Int]"},
		{Generic(name.Static("T")), "T"},
	}

	for _, tc := range tests {
		if got := Encode(tc.ref); got != tc.want {
			t.Errorf("Encode(%#v) = %q, want %q", tc.ref, got, tc.want)
		}
	}
}

func TestNameOnly(t *testing.T) {
	intRef := CoreSingle(name.Static("Int"))
	list := WithGeneric(name.Static("lib"), name.Static("List"), NewTypeVars(pair("T", intRef)))

	if got := intRef.NameOnly(); got != "Int" {
		t.Errorf("NameOnly(Single) = %q, want Int", got)
	}
	if got := list.NameOnly(); got != "List[T:[!]Int]" {
		t.Errorf("NameOnly(WithGeneric) = %q, want List[T:[!]Int]", got)
	}
	if got := Generic(name.Static("T")).NameOnly(); got != "T" {
		t.Errorf("NameOnly(Generic) = %q, want T", got)
	}
}

func TestRoundTrip(t *testing.T) {
	intRef := CoreSingle(name.Static("Int"))
	strRef := CoreSingle(name.Static("Str"))
	pairRef := WithGeneric(name.Static("lib"), name.Static("Pair"),
		NewTypeVars(pair("A", intRef), pair("B", strRef)))

	refs := []TypeRef{
		intRef,
		StaticSingle("app", "Main"),
		CoreGeneric(name.Static("List"), NewTypeVars(pair("T", intRef))),
		CoreGeneric(name.Static("Map"), NewTypeVars(pair("K", strRef), pair("V", intRef))),
		CoreGeneric(name.Static("Map"), NewTypeVars(pair("K", pairRef), pair("V", pairRef))),
		CoreGeneric(name.Static("List"), NewTypeVars(pair("T",
			CoreGeneric(name.Static("List"), NewTypeVars(pair("T", pairRef)))))),
	}

	for _, r := range refs {
		text := Encode(r)
		back, err := ParseType(text)
		if err != nil {
			t.Errorf("ParseType(%q): %v", text, err)
			continue
		}
		if !back.Equal(r) {
			t.Errorf("round trip of %q produced %q", text, Encode(back))
		}
		if back.Hash() != r.Hash() {
			t.Errorf("round trip of %q changed the hash", text)
		}
	}
}

// Placeholders encode without the '@' the parser requires, so they do not
// survive a round trip on their own.
func TestRoundTrip_GenericPlaceholderAsymmetry(t *testing.T) {
	placeholder := Generic(name.Static("T"))

	text := Encode(placeholder)
	if text != "T" {
		t.Fatalf("Encode(Generic(T)) = %q, want T", text)
	}
	if _, err := ParseType(text); !errors.Is(err, ErrTypeRef) {
		t.Errorf("ParseType(%q): expected ErrTypeRef, got %v", text, err)
	}

	back, err := ParseType("@" + text)
	if err != nil {
		t.Fatalf("ParseType(@T): %v", err)
	}
	if !back.Equal(placeholder) {
		t.Errorf("ParseType(@T) = %v, want Generic(T)", back)
	}

	// Nested placeholders are affected the same way.
	list := CoreGeneric(name.Static("List"), NewTypeVars(pair("T", placeholder)))
	if Encode(list) != "[!]List[T:T]" {
		t.Errorf("Encode(List<T>) = %q", Encode(list))
	}
	if _, err := ParseType(Encode(list)); err == nil {
		t.Error("expected nested placeholder encoding to be rejected")
	}
}

func TestMethodEncode(t *testing.T) {
	if got := EncodeMethod(StaticMethod("Foo(Int)")); got != "Foo(Int)" {
		t.Errorf("EncodeMethod(Foo(Int)) = %q", got)
	}
	if got := StaticCtor.String(); got != ".sctor()" {
		t.Errorf("StaticCtor = %q, want .sctor()", got)
	}

	back, err := ParseMethod(".sctor()")
	if err != nil {
		t.Fatalf("ParseMethod(.sctor()): %v", err)
	}
	if !back.Equal(StaticCtor) {
		t.Errorf("ParseMethod(.sctor()) = %v, want StaticCtor", back)
	}

	generic := GenericMethod(name.Static("Map([!]List[T:@T])"),
		NewTypeVars(pair("U", CoreSingle(name.Static("Str")))))
	text := EncodeMethod(generic)
	if text != "Map([!]List[T:@T])[U:[!]Str]" {
		t.Errorf("EncodeMethod(generic) = %q", text)
	}
	parsed, err := ParseMethod(text)
	if err != nil {
		t.Fatalf("ParseMethod(%q): %v", text, err)
	}
	if !parsed.Equal(generic) {
		t.Errorf("method round trip produced %q", parsed)
	}
}

func TestTextMarshaling(t *testing.T) {
	list := CoreGeneric(name.Static("List"), NewTypeVars(pair("T", CoreSingle(name.Static("Int")))))

	text, err := list.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var back TypeRef
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if !back.Equal(list) {
		t.Errorf("got %v, want %v", back, list)
	}

	var bad TypeRef
	if err := bad.UnmarshalText([]byte("Int")); !errors.Is(err, ErrTypeRef) {
		t.Errorf("UnmarshalText(Int): expected ErrTypeRef, got %v", err)
	}

	var m MethodRef
	if err := m.UnmarshalText([]byte("Foo(Int)")); err != nil {
		t.Fatalf("MethodRef.UnmarshalText: %v", err)
	}
	if m.String() != "Foo(Int)" {
		t.Errorf("MethodRef.UnmarshalText: got %q", m)
	}
}
