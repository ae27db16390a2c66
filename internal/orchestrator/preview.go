package orchestrator

import (
	"path/filepath"

	"xplat/internal/safepath"
	"xplat/internal/scanner"
)

// PlannedRename is one rename a run would perform.
type PlannedRename struct {
	From string // current absolute path
	To   string // destination path
}

// SourcePreview contains the plan for one source directory.
type SourcePreview struct {
	Directory    string
	Renames      []PlannedRename
	AlreadyClean int
	Unrenamable  []string // names that sanitize to an empty stem
}

// PreviewResult contains the full would-be plan, grouped by source
// directory. Directories that cannot be scanned appear with an empty
// plan, consistent with how Run treats them.
type PreviewResult struct {
	BySource   map[string]*SourcePreview
	GrandTotal int // total planned renames across all directories
}

// Preview analyzes pending files without modifying anything. It scans
// all configured source directories and computes each file's would-be
// destination under the configured style.
func (o *Orchestrator) Preview() (*PreviewResult, error) {
	result := &PreviewResult{
		BySource: make(map[string]*SourcePreview),
	}

	for _, sourceDir := range o.cfg.SourceDirectories {
		preview := &SourcePreview{Directory: sourceDir}
		result.BySource[sourceDir] = preview

		files, err := scanner.Scan(sourceDir)
		if err != nil {
			continue
		}

		for _, file := range files {
			if !scanner.NeedsRename(file, o.style) {
				preview.AlreadyClean++
				continue
			}

			to, err := safepath.Build(file.FullPath, o.cfg.TargetDirectory, o.style)
			if err != nil {
				preview.Unrenamable = append(preview.Unrenamable, filepath.Base(file.FullPath))
				continue
			}

			preview.Renames = append(preview.Renames, PlannedRename{
				From: file.FullPath,
				To:   to,
			})
			result.GrandTotal++
		}
	}

	return result, nil
}
