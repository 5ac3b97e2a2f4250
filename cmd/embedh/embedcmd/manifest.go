package embedcmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Manifest struct {
	Assets []Asset `yaml:"assets"`
}

type Asset struct {
	Source string `yaml:"src"`
	Dest   string `yaml:"dst"`
	Guard  string `yaml:"guard,omitempty"`
	Const  string `yaml:"const,omitempty"`
}

// LoadManifest parses a YAML manifest of assets to embed. Destinations must
// be unique, otherwise two assets would race to overwrite the same header.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %q: %w", path, err)
	}

	if len(m.Assets) == 0 {
		return nil, fmt.Errorf("manifest %q lists no assets", path)
	}
	seen := make(map[string]string, len(m.Assets))
	for i, a := range m.Assets {
		if a.Source == "" {
			return nil, fmt.Errorf("manifest %q: asset %d is missing src", path, i)
		}
		if a.Dest == "" {
			return nil, fmt.Errorf("manifest %q: asset %d is missing dst", path, i)
		}
		if prev, ok := seen[a.Dest]; ok {
			return nil, fmt.Errorf("manifest %q: %s and %s share destination %q", path, prev, a.Source, a.Dest)
		}
		seen[a.Dest] = a.Source
	}
	return &m, nil
}
