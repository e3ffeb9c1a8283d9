package file

import (
	"os"
	"path/filepath"
	"time"
)

// FindOlderThan returns regular files under dir whose modification time
// is before cutoff. The walk does not follow symlinks.
func FindOlderThan(dir string, cutoff time.Time) ([]string, error) {
	var stale []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo,
		err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && info.ModTime().Before(cutoff) {
			stale = append(stale, path)
		}
		return nil
	})

	return stale, err
}
