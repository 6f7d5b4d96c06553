// Package snapshot persists the dashboard data file.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kevinmichaelchen/repo-radar/internal/models"
)

// Write encodes s and overwrites path with it. Encoding happens and the file
// is opened before any existing content is touched, so encoding, permission
// and missing-directory failures leave a previous file intact. The file is
// replaced in place: a failure during the write itself can still leave it
// partially written.
func Write(path string, s *models.Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Truncate(int64(len(data))); err != nil {
		_ = f.Close()
		return fmt.Errorf("truncating %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
