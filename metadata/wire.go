// Package metadata stores references inside binary metadata sections.
// References travel as their canonical text, wrapped in canonical CBOR.
package metadata

import (
	"fmt"

	"github.com/chazu/metaref/ref"
	"github.com/fxamacker/cbor/v2"
)

// SectionVersion is written into every section.
const SectionVersion uint8 = 1

// cborEncMode uses canonical mode so equal sections encode to equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("metadata: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// TypeRecord is the persisted form of one type identity and the methods
// it declares. A top-level placeholder is written as "@name" so that it
// parses back.
type TypeRecord struct {
	Ref     string   `cbor:"1,keyasint"`
	Methods []string `cbor:"2,keyasint,omitempty"`
}

// Section is a list of type records, as stored in a metadata blob.
type Section struct {
	Version uint8        `cbor:"1,keyasint"`
	Types   []TypeRecord `cbor:"2,keyasint"`
}

// Entry is a decoded type record.
type Entry struct {
	Type    ref.TypeRef
	Methods []ref.MethodRef
}

// NewSection encodes entries into a section.
func NewSection(entries []Entry) *Section {
	s := &Section{Version: SectionVersion, Types: make([]TypeRecord, len(entries))}
	for i, e := range entries {
		rec := TypeRecord{Ref: recordRef(e.Type)}
		for _, m := range e.Methods {
			rec.Methods = append(rec.Methods, ref.EncodeMethod(m))
		}
		s.Types[i] = rec
	}
	return s
}

func recordRef(t ref.TypeRef) string {
	if t.IsGeneric() {
		return "@" + ref.Encode(t)
	}
	return ref.Encode(t)
}

// Decode parses every record in the section. A nil parser does not
// intern names.
func (s *Section) Decode(p *ref.Parser) ([]Entry, error) {
	if s.Version != SectionVersion {
		return nil, fmt.Errorf("metadata: unsupported section version %d", s.Version)
	}
	if p == nil {
		p = &ref.Parser{}
	}
	entries := make([]Entry, len(s.Types))
	for i, rec := range s.Types {
		t, err := p.ParseType(rec.Ref)
		if err != nil {
			return nil, fmt.Errorf("metadata: type record %d: %w", i, err)
		}
		entries[i].Type = t
		for j, text := range rec.Methods {
			m, err := p.ParseMethod(text)
			if err != nil {
				return nil, fmt.Errorf("metadata: type record %d method %d: %w", i, j, err)
			}
			entries[i].Methods = append(entries[i].Methods, m)
		}
	}
	return entries, nil
}

// Marshal serializes a Section to CBOR bytes.
func Marshal(s *Section) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal deserializes a Section from CBOR bytes.
func Unmarshal(data []byte) (*Section, error) {
	var s Section
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("metadata: unmarshal section: %w", err)
	}
	return &s, nil
}

// EncodeBlob marshals entries into a packed section blob.
func EncodeBlob(entries []Entry, tag CompressionTag) ([]byte, error) {
	data, err := Marshal(NewSection(entries))
	if err != nil {
		return nil, fmt.Errorf("metadata: marshal section: %w", err)
	}
	return Pack(data, tag)
}

// DecodeBlob reverses EncodeBlob.
func DecodeBlob(blob []byte, p *ref.Parser) ([]Entry, error) {
	data, err := Unpack(blob)
	if err != nil {
		return nil, err
	}
	s, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return s.Decode(p)
}
