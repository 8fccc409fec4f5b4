package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/chazu/metaref/metadata"
	"github.com/chazu/metaref/name"
	"github.com/chazu/metaref/ref"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "refs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openTemp(t)

	intRef := ref.CoreSingle(name.Static("Int"))
	list := ref.CoreGeneric(name.Static("List"), ref.NewTypeVars(ref.Pair{Name: name.Static("T"), Type: intRef}))
	e := metadata.Entry{Type: list, Methods: []ref.MethodRef{
		ref.StaticCtor,
		ref.GenericMethod(name.Static("Map()"), ref.NewTypeVars(ref.Pair{Name: name.Static("U"), Type: intRef})),
	}}

	if err := s.Put(e); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(list.Digest())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Type.Equal(list) {
		t.Errorf("type: got %v, want %v", got.Type, list)
	}
	if len(got.Methods) != 2 || !got.Methods[0].Equal(ref.StaticCtor) || !got.Methods[1].Equal(e.Methods[1]) {
		t.Errorf("methods: got %v", got.Methods)
	}

	found, err := s.Find("[!]List[T:[!]Int]")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !found.Type.Equal(list) {
		t.Errorf("Find: got %v", found.Type)
	}
}

func TestStore_Replace(t *testing.T) {
	s := openTemp(t)
	intRef := ref.StaticSingle("!", "Int")

	if err := s.Put(metadata.Entry{Type: intRef, Methods: []ref.MethodRef{ref.StaticCtor, ref.StaticMethod("A()")}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(metadata.Entry{Type: intRef, Methods: []ref.MethodRef{ref.StaticMethod("B()")}}); err != nil {
		t.Fatal(err)
	}

	n, err := s.Count()
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v; want 1", n, err)
	}
	got, err := s.Get(intRef.Digest())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Methods) != 1 || got.Methods[0].String() != "B()" {
		t.Errorf("methods after replace: %v", got.Methods)
	}
}

func TestStore_GenericPlaceholder(t *testing.T) {
	s := openTemp(t)
	placeholder := ref.Generic(name.Static("T"))

	if err := s.Put(metadata.Entry{Type: placeholder}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(placeholder.Digest())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Type.Equal(placeholder) {
		t.Errorf("got %v, want Generic(T)", got.Type)
	}

	nested := ref.CoreGeneric(name.Static("List"), ref.NewTypeVars(ref.Pair{Name: name.Static("T"), Type: placeholder}))
	if err := s.Put(metadata.Entry{Type: nested}); !errors.Is(err, ErrNotRoundTrippable) {
		t.Errorf("expected ErrNotRoundTrippable, got %v", err)
	}
}

func TestStore_RejectsLossyReferences(t *testing.T) {
	s := openTemp(t)
	box := ref.StaticSingle("app", "Box")
	placeholderMethod := ref.GenericMethod(name.Static("Map()"),
		ref.NewTypeVars(ref.Pair{Name: name.Static("U"), Type: ref.Generic(name.Static("U"))}))

	tests := map[string]metadata.Entry{
		"bracket in assembly":     {Type: ref.StaticSingle("a]b", "X")},
		"bracket in name":         {Type: ref.StaticSingle("!", "X[")},
		"placeholder method args": {Type: box, Methods: []ref.MethodRef{placeholderMethod}},
	}
	for label, e := range tests {
		if err := s.Put(e); !errors.Is(err, ErrNotRoundTrippable) {
			t.Errorf("%s: expected ErrNotRoundTrippable, got %v", label, err)
		}
	}

	n, err := s.Count()
	if err != nil || n != 0 {
		t.Errorf("Count = %d, %v; want 0", n, err)
	}
}

func TestStore_NotFound(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Get(ref.StaticSingle("!", "Int").Digest()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Find("[!]Int"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ref.StaticSingle("!", "Int").Digest()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestStore_DeleteAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	a := ref.StaticSingle("!", "Int")
	b := ref.StaticSingle("!", "Str")
	if err := s.PutAll([]metadata.Entry{{Type: a, Methods: []ref.MethodRef{ref.StaticCtor}}, {Type: b}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(a.Digest()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var methods int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM method_refs").Scan(&methods); err != nil || methods != 0 {
		t.Errorf("method rows after Delete = %d, %v; want 0", methods, err)
	}
	s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	n, err := reopened.Count()
	if err != nil || n != 1 {
		t.Errorf("Count after reopen = %d, %v; want 1", n, err)
	}
	if _, err := reopened.Get(b.Digest()); err != nil {
		t.Errorf("Get after reopen: %v", err)
	}
}
