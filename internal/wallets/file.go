package wallets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileLoader loads the wallet-name mapping from a JSON file shaped as
// {"<address>": "<name>", ...}.
type FileLoader struct {
	path string
}

// NewFileLoader creates a FileLoader for the given path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Compile-time interface check.
var _ Loader = (*FileLoader)(nil)

// Load reads and parses the mapping file.
func (l *FileLoader) Load(_ context.Context) (map[string]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read wallet names %s: %w", l.path, err)
	}
	names := make(map[string]string)
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parse wallet names %s: %w", l.path, err)
	}
	return names, nil
}
