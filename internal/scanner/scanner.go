// Package scanner enumerates files that are candidates for sanitizing.
package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"xplat/internal/namestyle"
	"xplat/internal/safepath"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist or is not a directory.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// SymlinkError indicates a symlink was encountered with the "error" policy.
	SymlinkError ScanErrorType = "SYMLINK_ERROR"
)

// Symlink policy constants. Following symlinks is deliberately not
// offered: the renamer refuses to operate through links, so a scan that
// followed them would only produce entries the rename step rejects.
const (
	SymlinkPolicySkip  = "skip"
	SymlinkPolicyError = "error"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	SymlinkPolicy string // "skip" (default) or "error"
}

// DefaultScanOptions returns the default scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{SymlinkPolicy: SymlinkPolicySkip}
}

// FileEntry represents a regular file found during scanning.
type FileEntry struct {
	Name     string // Filename only
	FullPath string // Absolute path
}

// Scan enumerates regular files in the given directory without recursion,
// using default options.
func Scan(directory string) ([]FileEntry, error) {
	return ScanWithOptions(directory, DefaultScanOptions())
}

// ScanWithOptions enumerates regular files in directory. Subdirectories
// are never entered; symlinks are handled per the configured policy.
func ScanWithOptions(directory string, opts ScanOptions) ([]FileEntry, error) {
	info, err := os.Lstat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ScanError{Type: DirectoryNotFound, Path: directory, Err: err}
		}
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return nil, err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if opts.SymlinkPolicy == SymlinkPolicyError {
			return nil, &ScanError{
				Type: SymlinkError,
				Path: directory,
				Err:  errors.New("symlink encountered with error policy"),
			}
		}
		return []FileEntry{}, nil
	}

	if !info.IsDir() {
		return nil, &ScanError{
			Type: DirectoryNotFound,
			Path: directory,
			Err:  errors.New("path is not a directory"),
		}
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return nil, err
	}

	var files []FileEntry
	for _, entry := range entries {
		fullPath := filepath.Join(directory, entry.Name())

		entryInfo, err := os.Lstat(fullPath)
		if err != nil {
			continue // entry disappeared between ReadDir and Lstat
		}

		if entryInfo.Mode()&os.ModeSymlink != 0 {
			if opts.SymlinkPolicy == SymlinkPolicyError {
				return nil, &ScanError{
					Type: SymlinkError,
					Path: fullPath,
					Err:  errors.New("symlink encountered with error policy"),
				}
			}
			continue
		}

		if !entryInfo.Mode().IsRegular() {
			continue
		}

		absPath, err := filepath.Abs(fullPath)
		if err != nil {
			absPath = fullPath
		}

		files = append(files, FileEntry{
			Name:     entry.Name(),
			FullPath: absPath,
		})
	}

	return files, nil
}

// NeedsRename reports whether sanitizing the entry's name under the given
// style would change it. Batch and watch mode use this to pass over files
// that are already clean instead of failing on a self-collision.
//
// Names that sanitize to an empty stem return true; the renamer surfaces
// the EmptyResultError for those.
func NeedsRename(entry FileEntry, style namestyle.Style) bool {
	stem, suffix := safepath.SplitStem(entry.Name)
	safeStem := namestyle.Normalize(stem, style)
	if safeStem == "" {
		return true
	}
	return safeStem+strings.ToLower(suffix) != entry.Name
}
