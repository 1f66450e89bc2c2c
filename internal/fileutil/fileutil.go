// Package fileutil writes exported artifacts to disk.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// nameReplacer maps filesystem-unsafe characters to safe alternatives.
var nameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SafeName turns a session label into a single path segment. Separators and
// colons become dashes, other unsafe characters are dropped, and a name that
// would resolve to "." or ".." becomes fallback.
func SafeName(name, fallback string) string {
	name = strings.TrimSpace(nameReplacer.Replace(strings.TrimSpace(name)))
	if name == "" || name == "." || name == ".." {
		return fallback
	}
	return name
}

// WriteFileAtomic writes data to a temp file next to path, syncs it, and
// renames it into place so readers never observe a partial artifact.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
