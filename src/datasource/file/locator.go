// locator.go
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"FareAudit/src/utils"
)

// BITRE naming convention for fare index publications.
const fareFilePrefix = "air_fares"

var fareFileExts = []string{".csv", ".xlsx"}

// NotFoundError reports that no candidate input file exists in the
// search directory.
type NotFoundError struct {
	Dir      string
	Patterns []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found in %s", strings.Join(e.Patterns, " or "), e.Dir)
}

// FileInfo describes a located input file.
type FileInfo struct {
	Name     string
	FullPath string
	ModTime  time.Time
}

// FindLatestFareFile returns the most recently modified air_fares*.csv or
// air_fares*.xlsx in dir.
func FindLatestFareFile(dir string) (*FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var latest *FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !utils.Contains(fareFileExts, ext) ||
			!strings.HasPrefix(strings.ToLower(name), fareFilePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == nil || info.ModTime().After(latest.ModTime) {
			latest = &FileInfo{
				Name:     name,
				FullPath: filepath.Join(dir, name),
				ModTime:  info.ModTime(),
			}
		}
	}

	if latest == nil {
		return nil, &NotFoundError{
			Dir:      dir,
			Patterns: []string{fareFilePrefix + "*.csv", fareFilePrefix + "*.xlsx"},
		}
	}
	return latest, nil
}
