package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest names the source files of a merge and where the result goes.
type Manifest struct {
	Output  string   `yaml:"output,omitempty"`
	Locale  string   `yaml:"locale,omitempty"`
	Sources []string `yaml:"sources"`
}

// LoadManifest reads a YAML manifest. Relative paths inside it are resolved
// against the manifest's directory.
func LoadManifest(path string) (Manifest, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(blob, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i, src := range m.Sources {
		m.Sources[i] = resolvePath(base, src)
	}
	if strings.TrimSpace(m.Output) != "" {
		m.Output = resolvePath(base, m.Output)
	}
	return m, nil
}

func resolvePath(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
