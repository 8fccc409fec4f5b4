package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/metaref/catalog"
	"github.com/chazu/metaref/metadata"
	"github.com/chazu/metaref/ref"
	"github.com/chazu/metaref/store"
)

func cmdParse(args []string, opts options, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("parse requires at least one reference")
	}
	for _, text := range args {
		if opts.method {
			m, err := ref.ParseMethod(text)
			if err != nil {
				return err
			}
			writeMethod(w, m)
			continue
		}
		t, err := ref.ParseType(text)
		if err != nil {
			return err
		}
		writeType(w, t, 0)
	}
	return nil
}

func cmdEncode(args []string, opts options, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("encode requires at least one reference")
	}
	for _, text := range args {
		var encoded string
		if opts.method {
			m, err := ref.ParseMethod(text)
			if err != nil {
				return err
			}
			encoded = m.String()
		} else {
			t, err := ref.ParseType(text)
			if err != nil {
				return err
			}
			encoded = t.String()
		}
		if encoded != text {
			log.Noticef("%s re-encodes as %s", text, encoded)
		}
		fmt.Fprintln(w, encoded)
	}
	return nil
}

func cmdHash(args []string, opts options, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("hash requires at least one reference")
	}
	for _, text := range args {
		if opts.method {
			m, err := ref.ParseMethod(text)
			if err != nil {
				return err
			}
			d := m.Digest()
			fmt.Fprintf(w, "%016x %x %s\n", m.Hash(), d[:], m)
			continue
		}
		t, err := ref.ParseType(text)
		if err != nil {
			return err
		}
		d := t.Digest()
		fmt.Fprintf(w, "%016x %x %s\n", t.Hash(), d[:], text)
	}
	return nil
}

func cmdCheck(opts options, w io.Writer) error {
	m, c, err := loadCatalog(opts)
	if err != nil {
		return err
	}
	methods := 0
	for _, e := range c.Entries() {
		methods += len(e.Methods)
	}
	fmt.Fprintf(w, "%s: %d types, %d methods, %d names\n", m.Catalog.Name, c.Len(), methods, c.Names().Len())
	return nil
}

func cmdPack(opts options, w io.Writer) error {
	m, c, err := loadCatalog(opts)
	if err != nil {
		return err
	}
	setting := m.Catalog.Compression
	if opts.compress != "" {
		setting = opts.compress
	}
	tag, err := metadata.ParseCompressionTag(setting)
	if err != nil {
		return err
	}

	blob, err := metadata.EncodeBlob(c.Entries(), tag)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, blob, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", opts.output, err)
	}
	log.Infof("packed %d types with %s into %s", c.Len(), tag, opts.output)
	fmt.Fprintf(w, "wrote %s (%d bytes)\n", opts.output, len(blob))
	return nil
}

func cmdUnpack(args []string, w io.Writer) error {
	if len(args) != 1 {
		return errors.New("unpack requires exactly one blob path")
	}
	blob, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}
	entries, err := metadata.DecodeBlob(blob, nil)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintln(w, e.Type)
		for _, m := range e.Methods {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}
	return nil
}

func cmdIndex(opts options, w io.Writer) error {
	_, c, err := loadCatalog(opts)
	if err != nil {
		return err
	}
	s, err := store.Open(opts.db)
	if err != nil {
		return err
	}
	defer s.Close()

	stored := 0
	for _, e := range c.Entries() {
		if err := s.Put(e); err != nil {
			if errors.Is(err, store.ErrNotRoundTrippable) {
				log.Warningf("skipping %s: %v", e.Type, err)
				continue
			}
			return err
		}
		stored++
	}
	n, err := s.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "indexed %d types into %s (%d total)\n", stored, opts.db, n)
	return nil
}

func cmdLookup(args []string, opts options, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("lookup requires at least one reference")
	}
	s, err := store.Open(opts.db)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, text := range args {
		t, err := ref.ParseType(text)
		if err != nil {
			return err
		}
		e, err := s.Get(t.Digest())
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(w, "%s: not found\n", text)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %d methods\n", e.Type, len(e.Methods))
		for _, m := range e.Methods {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}
	return nil
}

func loadCatalog(opts options) (*catalog.Manifest, *catalog.Catalog, error) {
	var m *catalog.Manifest
	var err error
	if opts.manifest != "" {
		m, err = catalog.LoadManifest(opts.manifest)
	} else {
		m, err = catalog.FindAndLoad(".")
	}
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, fmt.Errorf("no %s found", catalog.ManifestFile)
	}
	log.Debugf("loaded manifest %s", m.Path)

	c, err := catalog.FromManifest(m)
	if err != nil {
		return nil, nil, err
	}
	return m, c, nil
}

func writeType(w io.Writer, t ref.TypeRef, depth int) {
	indent := strings.Repeat("  ", depth)
	switch t.Kind() {
	case ref.KindGeneric:
		fmt.Fprintf(w, "%sGeneric %s\n", indent, t.Name())
	case ref.KindSingle:
		asm, _ := t.Assembly()
		fmt.Fprintf(w, "%sSingle [%s]%s\n", indent, asm, t.Name())
	case ref.KindWithGeneric:
		asm, _ := t.Assembly()
		fmt.Fprintf(w, "%sWithGeneric [%s]%s\n", indent, asm, t.Name())
		writeTypeVars(w, t.TypeVars(), depth+1)
	}
}

func writeTypeVars(w io.Writer, vars *ref.TypeVars, depth int) {
	indent := strings.Repeat("  ", depth)
	for n, t := range vars.All() {
		fmt.Fprintf(w, "%s%s:\n", indent, n)
		writeType(w, t, depth+1)
	}
}

func writeMethod(w io.Writer, m ref.MethodRef) {
	fmt.Fprintf(w, "%s %s(%s)\n", m.Kind(), m.MethodName(), m.Params())
	if m.TypeVars() != nil {
		writeTypeVars(w, m.TypeVars(), 1)
	}
}
