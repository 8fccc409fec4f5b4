// Package catalog loads reference manifests and indexes the references
// they declare by structural hash.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the file name FindAndLoad searches for.
const ManifestFile = "refs.toml"

// Manifest is a refs.toml (or YAML) reference manifest.
type Manifest struct {
	Catalog Info        `toml:"catalog" yaml:"catalog"`
	Types   []TypeEntry `toml:"type" yaml:"type"`

	// Path is the file the manifest was read from (set at load time).
	Path string `toml:"-" yaml:"-"`
}

// Info describes the catalog as a whole.
type Info struct {
	Name        string `toml:"name" yaml:"name"`
	Version     string `toml:"version" yaml:"version"`
	Compression string `toml:"compression" yaml:"compression"`
}

// TypeEntry declares one type reference and its methods in canonical text.
type TypeEntry struct {
	Ref     string   `toml:"ref" yaml:"ref"`
	Methods []string `toml:"methods" yaml:"methods"`
}

// Format is a manifest encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("catalog: unsupported manifest extension %q", filepath.Ext(path))
	}
}

// LoadManifest reads, validates and decodes the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	m, err := ParseManifest(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return m, nil
}

// ParseManifest validates data against the manifest schema and decodes it.
func ParseManifest(data []byte, format Format) (*Manifest, error) {
	var raw map[string]any
	var m Manifest

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
		if err := Validate(raw); err != nil {
			return nil, err
		}
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
		if err := Validate(raw); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("catalog: unknown manifest format %d", format)
	}

	// Defaults
	if m.Catalog.Compression == "" {
		m.Catalog.Compression = "none"
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a refs.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, ManifestFile)
		if _, err := os.Stat(path); err == nil {
			return LoadManifest(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}
