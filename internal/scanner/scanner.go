// Package scanner expands include and exclude glob patterns against a project
// root and loads every match into memory as an indexed file.
package scanner

import (
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"

	"github.com/docsmith/docsmith/internal/types"
	"github.com/docsmith/docsmith/internal/utils"
)

const gitignoreFileName = ".gitignore"

// Options controls a single scan of the project root.
type Options struct {
	RootDirectory   string
	IncludePatterns []string
	ExcludePatterns []string
	UseGitignore    bool
}

// ScanFiles expands every include pattern relative to the root directory,
// honoring the exclude patterns and, when enabled, a root-level .gitignore.
// Matches are loaded as indexed files with root-relative normalized paths.
// A file that cannot be read is logged and skipped rather than failing the
// scan. Overlapping patterns are deduplicated by normalized path; the result
// keeps the first-seen order across patterns. An empty result is valid.
func ScanFiles(options Options, logger *zap.Logger) ([]types.IndexedFile, error) {
	logger = utils.EnsureLogger(logger)

	ignoreMatcher := loadGitignoreMatcher(options, logger)
	rootFileSystem := os.DirFS(options.RootDirectory)

	indexByPath := make(map[string]int)
	files := make([]types.IndexedFile, 0)

	for _, includePattern := range utils.DeduplicatePatterns(options.IncludePatterns) {
		matches, globError := doublestar.Glob(rootFileSystem, includePattern, doublestar.WithFilesOnly())
		if globError != nil {
			logger.Warn("skipping invalid include pattern",
				zap.String("pattern", includePattern),
				zap.Error(globError))
			continue
		}
		for _, matchedPath := range matches {
			normalizedPath := types.NormalizePath(matchedPath)
			if matchesAnyPattern(normalizedPath, options.ExcludePatterns) {
				continue
			}
			if ignoreMatcher != nil && ignoreMatcher.Match(normalizedPath, false) {
				continue
			}

			indexedFile, readError := readIndexedFile(options.RootDirectory, normalizedPath)
			if readError != nil {
				logger.Warn("skipping unreadable file",
					zap.String("path", normalizedPath),
					zap.Error(readError))
				continue
			}

			if existingIndex, alreadySeen := indexByPath[normalizedPath]; alreadySeen {
				// Last occurrence wins, first-seen position is kept.
				files[existingIndex] = indexedFile
				continue
			}
			indexByPath[normalizedPath] = len(files)
			files = append(files, indexedFile)
		}
	}

	return files, nil
}

// LoadAdditionalFiles expands the provided glob patterns the same way a scan
// does, skipping any match whose normalized path is already present in the
// alreadyIncluded set. Read failures are logged and skipped.
func LoadAdditionalFiles(
	rootDirectory string,
	patterns []string,
	excludePatterns []string,
	alreadyIncluded map[string]struct{},
	logger *zap.Logger,
) []types.IndexedFile {
	logger = utils.EnsureLogger(logger)
	rootFileSystem := os.DirFS(rootDirectory)

	seenPaths := make(map[string]struct{})
	additionalFiles := make([]types.IndexedFile, 0)

	for _, pattern := range utils.DeduplicatePatterns(patterns) {
		matches, globError := doublestar.Glob(rootFileSystem, pattern, doublestar.WithFilesOnly())
		if globError != nil {
			logger.Warn("skipping invalid additional file pattern",
				zap.String("pattern", pattern),
				zap.Error(globError))
			continue
		}
		for _, matchedPath := range matches {
			normalizedPath := types.NormalizePath(matchedPath)
			if _, includedElsewhere := alreadyIncluded[normalizedPath]; includedElsewhere {
				continue
			}
			if _, duplicate := seenPaths[normalizedPath]; duplicate {
				continue
			}
			if matchesAnyPattern(normalizedPath, excludePatterns) {
				continue
			}

			indexedFile, readError := readIndexedFile(rootDirectory, normalizedPath)
			if readError != nil {
				logger.Warn("skipping unreadable additional file",
					zap.String("path", normalizedPath),
					zap.Error(readError))
				continue
			}
			seenPaths[normalizedPath] = struct{}{}
			additionalFiles = append(additionalFiles, indexedFile)
		}
	}

	return additionalFiles
}

func readIndexedFile(rootDirectory string, normalizedPath string) (types.IndexedFile, error) {
	absolutePath := filepath.Join(rootDirectory, filepath.FromSlash(normalizedPath))
	contentBytes, readError := os.ReadFile(absolutePath)
	if readError != nil {
		return types.IndexedFile{}, readError
	}
	return types.IndexedFile{
		Path:      normalizedPath,
		Content:   string(contentBytes),
		Directory: path.Dir(normalizedPath),
	}, nil
}

func matchesAnyPattern(normalizedPath string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, matchError := doublestar.Match(types.NormalizePath(pattern), normalizedPath)
		if matchError == nil && matched {
			return true
		}
	}
	return false
}

func loadGitignoreMatcher(options Options, logger *zap.Logger) gitignore.IgnoreMatcher {
	if !options.UseGitignore {
		return nil
	}
	gitignorePath := filepath.Join(options.RootDirectory, gitignoreFileName)
	if _, statError := os.Stat(gitignorePath); statError != nil {
		return nil
	}
	matcher, parseError := gitignore.NewGitIgnore(gitignorePath, ".")
	if parseError != nil {
		logger.Warn("could not parse .gitignore", zap.String("path", gitignorePath), zap.Error(parseError))
		return nil
	}
	return matcher
}
