package scanner

import (
	"sort"

	"github.com/docsmith/docsmith/internal/types"
)

// GroupFilesBySubfolder partitions scanned files into per-subfolder buckets
// keyed by the subfolder's configured path. When nested subfolder paths both
// contain a file, the longest configured path wins and the file is assigned
// exactly once. Files matching no subfolder land in Ungrouped. Every
// configured subfolder appears in Grouped even when no file matched it.
func GroupFilesBySubfolder(files []types.IndexedFile, subfolders []types.SubfolderTarget) types.ScanResult {
	orderedSubfolders := make([]types.SubfolderTarget, len(subfolders))
	copy(orderedSubfolders, subfolders)
	sort.SliceStable(orderedSubfolders, func(firstIndex, secondIndex int) bool {
		return len(orderedSubfolders[firstIndex].Path) > len(orderedSubfolders[secondIndex].Path)
	})

	result := types.ScanResult{
		Files:     files,
		Grouped:   make(map[string][]types.IndexedFile, len(subfolders)),
		Ungrouped: make([]types.IndexedFile, 0),
	}
	for _, subfolder := range subfolders {
		result.Grouped[subfolder.Path] = make([]types.IndexedFile, 0)
	}

	for _, file := range files {
		assigned := false
		for _, subfolder := range orderedSubfolders {
			if types.BelongsToSubfolder(file.Path, subfolder.Path) {
				result.Grouped[subfolder.Path] = append(result.Grouped[subfolder.Path], file)
				assigned = true
				break
			}
		}
		if !assigned {
			result.Ungrouped = append(result.Ungrouped, file)
		}
	}

	return result
}
