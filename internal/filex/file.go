// Package filex wraps the local filesystem operations used to import and
// export blob contents.
package filex

import (
	"fmt"
	"os"
	"time"
)

// Times carries the source timestamps of a filesystem entry. Creation time
// is not portably available, so the modification time stands in for both.
type Times struct {
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Exists reports whether a resource exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Stat returns the timestamps of the entry at path.
func Stat(path string) (*Times, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	mod := fi.ModTime()
	return &Times{CreatedAt: mod, ModifiedAt: mod}, nil
}

// ReadAll returns the full contents of the file at path.
func ReadAll(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// WriteAll writes data to path, replacing any existing file.
func WriteAll(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
