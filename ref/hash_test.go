package ref

import (
	"testing"

	"github.com/chazu/metaref/name"
)

func TestHash_EqualInputsEqualHashes(t *testing.T) {
	build := func() TypeRef {
		return CoreGeneric(name.New("Map"), NewTypeVars(
			pair("K", CoreSingle(name.New("Str"))),
			pair("V", CoreGeneric(name.New("List"), NewTypeVars(pair("T", Generic(name.New("U")))))),
		))
	}
	a, b := build(), build()

	if !Equal(a, b) {
		t.Fatal("independently built references should be equal")
	}
	if Hash(a) != Hash(b) {
		t.Error("equal references must hash equally")
	}
	if a.Digest() != b.Digest() {
		t.Error("equal references must have equal digests")
	}
}

func TestHash_ShapesDoNotCollide(t *testing.T) {
	single := Single(name.Name{}, name.Static("T"))
	generic := Generic(name.Static("T"))
	empty := WithGeneric(name.Name{}, name.Static("T"), nil)

	if single.Equal(generic) || single.Equal(empty) || generic.Equal(empty) {
		t.Fatal("different shapes compared equal")
	}
	if single.Hash() == generic.Hash() || single.Hash() == empty.Hash() || generic.Hash() == empty.Hash() {
		t.Error("different shapes hashed equally")
	}
}

func TestHash_SerializationTags(t *testing.T) {
	tests := []struct {
		ref TypeRef
		tag byte
	}{
		{StaticSingle("!", "Int"), TagTypeSingle},
		{Generic(name.Static("T")), TagTypeGeneric},
		{CoreGeneric(name.Static("List"), NewTypeVars()), TagTypeWithGeneric},
	}

	for _, tc := range tests {
		data := Serialize(tc.ref)
		if data[0] != HashVersion {
			t.Errorf("%v: version prefix 0x%02X", tc.ref, data[0])
		}
		if data[1] != tc.tag {
			t.Errorf("%v: tag 0x%02X, want 0x%02X", tc.ref, data[1], tc.tag)
		}
	}

	if SerializeMethod(StaticCtor)[1] != TagMethodSingle {
		t.Error("method single tag mismatch")
	}
}

// Bindings are order-sensitive: the same pairs in a different order are a
// different reference, matching their different canonical encodings.
func TestEqual_OrderSensitive(t *testing.T) {
	k := pair("K", CoreSingle(name.Static("Str")))
	v := pair("V", CoreSingle(name.Static("Int")))
	kv := CoreGeneric(name.Static("Map"), NewTypeVars(k, v))
	vk := CoreGeneric(name.Static("Map"), NewTypeVars(v, k))

	if kv.Equal(vk) {
		t.Error("bindings in different order compared equal")
	}
	if kv.Hash() == vk.Hash() {
		t.Error("bindings in different order hashed equally")
	}
	if Encode(kv) == Encode(vk) {
		t.Error("bindings in different order encoded equally")
	}
}

func TestEqual_Fields(t *testing.T) {
	base := StaticSingle("!", "Int")
	tests := []struct {
		other TypeRef
		want  bool
	}{
		{StaticSingle("!", "Int"), true},
		{StaticSingle("lib", "Int"), false},
		{StaticSingle("!", "Str"), false},
		{Generic(name.Static("Int")), false},
	}

	for _, tc := range tests {
		if got := base.Equal(tc.other); got != tc.want {
			t.Errorf("Equal(%v, %v) = %v, want %v", base, tc.other, got, tc.want)
		}
	}

	// Generic placeholders ignore assembly: they have none.
	if !Generic(name.Static("T")).Equal(Generic(name.New("T"))) {
		t.Error("equal placeholders compared unequal")
	}
}

func TestMethodHash(t *testing.T) {
	a := GenericMethod(name.New("Id(@T)"), NewTypeVars(pair("T", CoreSingle(name.New("Int")))))
	b := GenericMethod(name.New("Id(@T)"), NewTypeVars(pair("T", CoreSingle(name.New("Int")))))
	plainID := Method(name.New("Id(@T)"))

	if !a.Equal(b) || a.Hash() != b.Hash() || a.Digest() != b.Digest() {
		t.Error("equal method references must hash equally")
	}
	if a.Equal(plainID) || a.Hash() == plainID.Hash() {
		t.Error("generic and non-generic methods must differ")
	}
}

func TestTagUniqueness(t *testing.T) {
	seen := make(map[byte]bool, len(allTags))
	for _, tag := range allTags {
		if seen[tag] {
			t.Errorf("duplicate tag: 0x%02X", tag)
		}
		seen[tag] = true
	}
	if HashVersion == 0 {
		t.Error("HashVersion must be non-zero")
	}
}
