// Package loader handles ROM image file loading and saving.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
)

// maxImageSize bounds the input size, cheat device ROMs are at most a few MiB.
const maxImageSize = 32 << 20

// Loader handles reading and writing ROM image files.
type Loader struct{}

// New creates a new ROM image loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the complete ROM image file.
func (l *Loader) Load(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("file %s is a directory", path)
	}
	if info.Size() > maxImageSize {
		return nil, fmt.Errorf("file %s of %d bytes exceeds maximum image size %d", path, info.Size(), maxImageSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}

// Save writes data to the file, creating missing parent directories.
func (l *Loader) Save(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}
