// Package types defines every cross-package data structure used by the docsmith CLI.
package types

const (
	// DefaultImportDepth is the number of transitive import levels followed
	// when a subfolder does not configure its own depth.
	DefaultImportDepth = 2
	// MaxImportDepth bounds configured import depths.
	MaxImportDepth = 5
)

// IndexedFile is a source file loaded into memory during a scan. Path is
// root-relative and forward-slash normalized, and acts as the identity key
// throughout a run.
type IndexedFile struct {
	Path      string `json:"path"`
	Content   string `json:"-"`
	Directory string `json:"directory"`
}

// SubfolderTarget configures one documentation target rooted at a project
// sub-path. Instances come from the configuration file and are never mutated.
type SubfolderTarget struct {
	Path            string   `mapstructure:"path"`
	Prompt          string   `mapstructure:"prompt"`
	OutputPath      string   `mapstructure:"output_path"`
	ExistingDocs    []string `mapstructure:"existing_docs"`
	IncludeImports  *bool    `mapstructure:"include_imports"`
	ImportDepth     *int     `mapstructure:"import_depth"`
	AdditionalFiles []string `mapstructure:"additional_files"`
}

// ImportsEnabled reports whether import resolution applies to the target.
// Unset defaults to enabled.
func (target SubfolderTarget) ImportsEnabled() bool {
	if target.IncludeImports == nil {
		return true
	}
	return *target.IncludeImports
}

// ResolvedImportDepth returns the configured import depth clamped to the
// supported range, or the default when unset.
func (target SubfolderTarget) ResolvedImportDepth() int {
	if target.ImportDepth == nil {
		return DefaultImportDepth
	}
	depth := *target.ImportDepth
	if depth < 0 {
		return 0
	}
	if depth > MaxImportDepth {
		return MaxImportDepth
	}
	return depth
}

// ScanResult partitions the files of one scan. Every scanned file appears in
// exactly one bucket of Grouped or in Ungrouped. Grouped is keyed by the
// subfolder's configured path and holds an entry, possibly empty, for every
// configured subfolder.
type ScanResult struct {
	Files     []IndexedFile
	Grouped   map[string][]IndexedFile
	Ungrouped []IndexedFile
}

// TokenEstimate approximates the billable size of one generation payload.
// EstimatedCost is nil when the model is unknown to the pricing table.
// ContextWindow of zero means no window information was available.
type TokenEstimate struct {
	Characters          int
	Tokens              int
	EstimatedCost       *float64
	ContextWindow       int
	ContextUsagePercent float64
	Warning             string
}

// GeneratedDoc is one produced document. SourceFiles lists the root-relative
// paths of every file that contributed to the generation input.
type GeneratedDoc struct {
	OutputPath  string
	Content     string
	SourceFiles []string
}
