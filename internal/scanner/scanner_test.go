package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"xplat/internal/namestyle"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	return path
}

func scanErrorType(t *testing.T, err error) ScanErrorType {
	t.Helper()
	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("error = %T (%v), want *ScanError", err, err)
	}
	return scanErr.Type
}

func TestScanListsOnlyRegularFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "B File.txt")
	writeFile(t, dir, "a file.txt")
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "subdir"), "nested.txt")

	files, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("Scan returned %d entries, want 2", len(files))
	}
	for _, f := range files {
		if f.Name == "subdir" || f.Name == "nested.txt" {
			t.Errorf("Scan included %q; directories must not be listed or entered", f.Name)
		}
		if !filepath.IsAbs(f.FullPath) {
			t.Errorf("FullPath %q is not absolute", f.FullPath)
		}
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	files, err := Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Scan returned %d entries, want 0", len(files))
	}
}

func TestScanDirectoryNotFound(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"))
	if got := scanErrorType(t, err); got != DirectoryNotFound {
		t.Errorf("error type = %s, want %s", got, DirectoryNotFound)
	}
}

func TestScanPathIsFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "plain.txt")

	_, err := Scan(file)
	if got := scanErrorType(t, err); got != DirectoryNotFound {
		t.Errorf("error type = %s, want %s", got, DirectoryNotFound)
	}
}

func TestScanSymlinkPolicies(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	dir := t.TempDir()
	target := writeFile(t, dir, "real.txt")
	if err := os.Symlink(target, filepath.Join(dir, "link.txt")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	// Default policy skips the symlink silently.
	files, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(files) != 1 || files[0].Name != "real.txt" {
		t.Errorf("Scan with skip policy returned %v, want only real.txt", files)
	}

	// Error policy fails on the symlink.
	_, err = ScanWithOptions(dir, ScanOptions{SymlinkPolicy: SymlinkPolicyError})
	if got := scanErrorType(t, err); got != SymlinkError {
		t.Errorf("error type = %s, want %s", got, SymlinkError)
	}
}

func TestNeedsRename(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		style namestyle.Style
		want  bool
	}{
		{"messy name", "My Report.PDF", namestyle.StyleWeb, true},
		{"already clean web", "my-report.pdf", namestyle.StyleWeb, false},
		{"clean web name under snake", "my-report.pdf", namestyle.StyleSnake, true},
		{"clean snake name", "my_report.pdf", namestyle.StyleSnake, false},
		{"uppercase suffix only", "report.PDF", namestyle.StyleWeb, true},
		{"no suffix clean", "readme", namestyle.StyleWeb, false},
		{"sanitizes to empty", "!!!.txt", namestyle.StyleWeb, true},
		{"clean camel", "myFileV2.txt", namestyle.StyleCamel, true}, // camel re-pass flattens casing
		{"flat camel", "myfilev2.txt", namestyle.StyleCamel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := FileEntry{Name: tt.file}
			if got := NeedsRename(entry, tt.style); got != tt.want {
				t.Errorf("NeedsRename(%q, %s) = %v, want %v", tt.file, tt.style, got, tt.want)
			}
		})
	}
}
