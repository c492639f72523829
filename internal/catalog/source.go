package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

// ErrNotArray reports a source whose top-level JSON value is not an array.
var ErrNotArray = errors.New("top-level value is not an array")

// SourceResult records what one source file contributed to a merge.
type SourceResult struct {
	Path    string
	Added   int
	Skipped bool
	Err     error
}

// LoadSource reads one catalog file. Read and parse failures are returned
// wrapped with the file name; a non-array document returns ErrNotArray.
func LoadSource(path string) ([]Trek, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	trimmed := bytes.TrimSpace(blob)
	if !json.Valid(trimmed) {
		var v any
		err := json.Unmarshal(trimmed, &v)
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%s: %w", path, ErrNotArray)
	}
	var treks []Trek
	if err := json.Unmarshal(trimmed, &treks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return treks, nil
}

// Merge concatenates the treks of every loadable source in list order. A bad
// source is logged and recorded in its SourceResult; it never stops the merge.
func Merge(paths []string) ([]Trek, []SourceResult) {
	combined := make([]Trek, 0)
	results := make([]SourceResult, 0, len(paths))
	for _, path := range paths {
		res := SourceResult{Path: path}
		treks, err := LoadSource(path)
		switch {
		case errors.Is(err, ErrNotArray):
			log.Printf("warning: %s does not contain an array, skipping", path)
			res.Skipped = true
			res.Err = err
		case err != nil:
			log.Printf("error loading %s: %v", path, err)
			res.Err = err
		default:
			combined = append(combined, treks...)
			res.Added = len(treks)
			log.Printf("added %d treks from %s", len(treks), path)
		}
		results = append(results, res)
	}
	return combined, results
}
