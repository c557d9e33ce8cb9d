package documents

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ResolvePath joins a document's stored relative path against the upload
// root. Absolute paths and parent-directory traversal are rejected so a
// corrupted row cannot read outside the root.
func ResolvePath(uploadRoot string, relative string) (string, error) {
	cleaned := filepath.Clean(strings.TrimSpace(relative))
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("documents: empty file path")
	}
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("documents: file path escapes upload root")
	}
	return filepath.Join(uploadRoot, cleaned), nil
}

// PartitionDir returns the date-partitioned subdirectory (YYYY/MM) for the
// given time under the upload root.
func PartitionDir(uploadRoot string, now time.Time) string {
	return filepath.Join(uploadRoot, now.Format("2006"), now.Format("01"))
}
