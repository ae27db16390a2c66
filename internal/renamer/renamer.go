// Package renamer validates and performs the sanitizing rename of a file.
package renamer

import (
	"fmt"
	"os"

	"xplat/internal/namestyle"
	"xplat/internal/safepath"
)

// RenameErrorType represents the type of rename error.
type RenameErrorType string

const (
	// SymlinkRefused indicates the original path is a symbolic link.
	// Symlinks are refused categorically, even on dry runs: renaming
	// through a link would operate on a target the caller never named.
	SymlinkRefused RenameErrorType = "SYMLINK_REFUSED"
	// SourceNotFound indicates the original path is not an existing regular file.
	SourceNotFound RenameErrorType = "SOURCE_NOT_FOUND"
	// InvalidTarget indicates the supplied target directory does not exist
	// or is not a directory.
	InvalidTarget RenameErrorType = "INVALID_TARGET"
	// DestinationExists indicates a file already occupies the destination
	// path. There is no overwrite and no automatic suffixing.
	DestinationExists RenameErrorType = "DESTINATION_EXISTS"
)

// RenameError represents a failed precondition or rename.
type RenameError struct {
	Type RenameErrorType
	Path string
	Err  error
}

func (e *RenameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

// Options configures a rename operation.
type Options struct {
	Style  namestyle.Style // naming style; zero value falls back to the default style
	DryRun bool            // compute and validate only, never mutate
}

// Rename renames origPath to its sanitized form, optionally moving it
// into targetDir (empty targetDir keeps the file in its directory).
//
// Preconditions are checked in order, first failure wins: source
// existence, symlink refusal, target directory validity, then path
// construction (which may fail with *safepath.EmptyResultError). Unless
// DryRun is set, an occupied destination fails with DESTINATION_EXISTS
// and the move itself is a single os.Rename. The destination check and
// the rename are not atomic together; a racing writer can still claim
// the destination in between, in which case the os.Rename error
// surfaces as-is.
//
// The candidate destination path is returned in all success cases,
// including dry runs where nothing was materialized.
func Rename(origPath string, targetDir string, opts Options) (string, error) {
	if opts.Style == "" {
		opts.Style = namestyle.DefaultStyle
	}

	info, err := os.Lstat(origPath)
	if err != nil {
		return "", &RenameError{Type: SourceNotFound, Path: origPath, Err: err}
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return "", &RenameError{Type: SymlinkRefused, Path: origPath}
	}
	if !info.Mode().IsRegular() {
		return "", &RenameError{Type: SourceNotFound, Path: origPath}
	}

	if targetDir != "" {
		targetInfo, err := os.Stat(targetDir)
		if err != nil {
			return "", &RenameError{Type: InvalidTarget, Path: targetDir, Err: err}
		}
		if !targetInfo.IsDir() {
			return "", &RenameError{Type: InvalidTarget, Path: targetDir}
		}
	}

	newPath, err := safepath.Build(origPath, targetDir, opts.Style)
	if err != nil {
		return "", err
	}

	if opts.DryRun {
		return newPath, nil
	}

	if _, err := os.Lstat(newPath); err == nil {
		return "", &RenameError{Type: DestinationExists, Path: newPath}
	}

	if err := os.Rename(origPath, newPath); err != nil {
		return "", err
	}

	return newPath, nil
}
