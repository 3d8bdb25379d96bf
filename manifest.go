package staticcompress

import (
	"encoding/json"
	"fmt"
	"io"
)

// Aliaser maps a logical path to the destination a hashing stage
// published it under.
type Aliaser interface {
	Alias(name string) (string, bool)
}

// AliasMap is an Aliaser backed by a plain map
type AliasMap map[string]string

func (m AliasMap) Alias(name string) (string, bool) {
	alias, ok := m[name]
	return alias, ok
}

// Manifest is the JSON document a hashing stage writes next to the
// files it renamed: {"version": "1.1", "paths": {"app.js": "app.3f2a.js"}}
type Manifest struct {
	Version string            `json:"version"`
	Paths   map[string]string `json:"paths"`
}

// Alias returns the hashed name of name
func (m *Manifest) Alias(name string) (string, bool) {
	alias, ok := m.Paths[name]
	return alias, ok
}

// ParseManifest decodes a manifest
func ParseManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("staticcompress: decode manifest: %w", err)
	}
	if m.Paths == nil {
		m.Paths = map[string]string{}
	}
	return &m, nil
}

// LoadManifest reads the manifest stored as name in st
func LoadManifest(st Storage, name string) (*Manifest, error) {
	f, err := st.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseManifest(f)
}
