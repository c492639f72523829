package catalog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

// WriteCatalog replaces path with treks as an indented JSON array.
func WriteCatalog(path string, treks []Trek) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if treks == nil {
		treks = []Trek{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(treks); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadCatalog loads a combined catalog previously written by WriteCatalog.
func ReadCatalog(path string) ([]Trek, error) {
	return LoadSource(path)
}
