// Package safepath derives sanitized destination paths for files.
// It is pure: nothing here touches the filesystem, and the original file
// does not need to exist.
package safepath

import (
	"fmt"
	"path/filepath"
	"strings"

	"xplat/internal/namestyle"
)

// EmptyResultError indicates that a filename sanitized to nothing.
// The user must supply a name with at least one alphanumeric character.
type EmptyResultError struct {
	Name string // original filename (base name, not full path)
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("filename produces empty stem after sanitization: %s", e.Name)
}

// SplitStem splits a base filename into stem and suffix.
// The suffix is the final extension including its leading dot, following
// filepath.Ext semantics: "archive.tar.gz" splits into "archive.tar" and
// ".gz", and dotfiles like ".gitignore" are all stem.
func SplitStem(name string) (stem, suffix string) {
	suffix = filepath.Ext(name)
	if suffix == name {
		// The whole name is the "extension" (e.g. ".gitignore"); treat it
		// as a stem with no suffix.
		return name, ""
	}
	return strings.TrimSuffix(name, suffix), suffix
}

// Build derives the sanitized destination path for origPath.
//
// The stem is normalized with the given style; the suffix is lower-cased
// but otherwise passed through unmodified (it marks the file type, and
// sanitizing it would silently change that). When targetDir is empty the
// destination stays in the original file's directory.
//
// Build fails with *EmptyResultError when the stem sanitizes to nothing.
func Build(origPath string, targetDir string, style namestyle.Style) (string, error) {
	name := filepath.Base(origPath)
	stem, suffix := SplitStem(name)

	safeStem := namestyle.Normalize(stem, style)
	if safeStem == "" {
		return "", &EmptyResultError{Name: name}
	}

	newName := safeStem + strings.ToLower(suffix)

	if targetDir != "" {
		return filepath.Join(targetDir, newName), nil
	}
	return filepath.Join(filepath.Dir(origPath), newName), nil
}
