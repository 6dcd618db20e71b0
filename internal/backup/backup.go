// Package backup reads and writes document backups on the local filesystem.
package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/theirongolddev/richlife/internal/model"
)

// MaxFileSize bounds how much of an import file is read.
const MaxFileSize = 16 << 20

// ErrTooLarge is returned when a backup exceeds MaxFileSize.
var ErrTooLarge = errors.New("backup file too large")

// ReadFile returns the contents of the backup at path.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening backup: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	return data, nil
}

// WriteFile writes data to path with owner-only permissions, creating parent dirs.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating backup dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

// DefaultFileName returns the export file name used when none is given.
func DefaultFileName(today model.Date) string {
	return "richlife-backup-" + today.String() + ".json"
}
