package resolver

import (
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/docsmith/docsmith/internal/types"
	"github.com/docsmith/docsmith/internal/utils"
)

// ResolveImportsForFiles walks resolved imports outward from the seed files,
// breadth first, for at most depth levels. Each discovered file is emitted at
// most once no matter how many files reference it, and seed files never
// appear in the result; diamond-shaped and cyclic import graphs terminate
// because a processed set spans the whole call. Resolved files already loaded
// in knownFiles are reused; others are read fresh from disk, and unreadable
// ones are skipped with a debug note.
func ResolveImportsForFiles(
	seedFiles []types.IndexedFile,
	knownFiles []types.IndexedFile,
	rootDirectory string,
	depth int,
	logger *zap.Logger,
) []types.IndexedFile {
	logger = utils.EnsureLogger(logger)

	if depth <= 0 || len(seedFiles) == 0 {
		return []types.IndexedFile{}
	}

	knownByPath := make(map[string]types.IndexedFile, len(knownFiles))
	for _, knownFile := range knownFiles {
		knownByPath[types.NormalizePath(knownFile.Path)] = knownFile
	}

	processedPaths := make(map[string]struct{}, len(seedFiles))
	for _, seedFile := range seedFiles {
		processedPaths[types.NormalizePath(seedFile.Path)] = struct{}{}
	}

	discoveredFiles := make([]types.IndexedFile, 0)
	frontier := seedFiles

	for level := 0; level < depth && len(frontier) > 0; level++ {
		nextFrontier := make([]types.IndexedFile, 0)

		for _, currentFile := range frontier {
			for _, importLiteral := range ExtractImports(currentFile.Content) {
				resolvedPath := ResolveImportPath(importLiteral, currentFile.Path, rootDirectory)
				if resolvedPath == "" {
					continue
				}
				if _, alreadyProcessed := processedPaths[resolvedPath]; alreadyProcessed {
					continue
				}
				processedPaths[resolvedPath] = struct{}{}

				contextFile, available := knownByPath[resolvedPath]
				if !available {
					loadedFile, loadError := loadIndexedFile(rootDirectory, resolvedPath)
					if loadError != nil {
						logger.Debug("skipping unreadable resolved import",
							zap.String("path", resolvedPath),
							zap.String("importedFrom", currentFile.Path),
							zap.Error(loadError))
						continue
					}
					contextFile = loadedFile
				}

				discoveredFiles = append(discoveredFiles, contextFile)
				nextFrontier = append(nextFrontier, contextFile)
			}
		}

		frontier = nextFrontier
	}

	return discoveredFiles
}

func loadIndexedFile(rootDirectory string, normalizedPath string) (types.IndexedFile, error) {
	contentBytes, readError := os.ReadFile(filepath.Join(rootDirectory, filepath.FromSlash(normalizedPath)))
	if readError != nil {
		return types.IndexedFile{}, readError
	}
	return types.IndexedFile{
		Path:      normalizedPath,
		Content:   string(contentBytes),
		Directory: path.Dir(normalizedPath),
	}, nil
}
