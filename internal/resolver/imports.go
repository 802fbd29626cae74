// Package resolver turns static module references inside scanned files into
// concrete on-disk files and assembles depth-bounded context sets from them.
package resolver

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/docsmith/docsmith/internal/types"
	"github.com/docsmith/docsmith/internal/utils"
)

// The extraction is a textual heuristic, not a parser. Commented-out imports
// and import-looking string literals produce false positives; that is an
// accepted limitation of the tool.
var (
	staticImportPattern  = regexp.MustCompile(`import\s+[^'"]*?from\s+['"]([^'"]+)['"]`)
	dynamicImportPattern = regexp.MustCompile(`import\(\s*['"]([^'"]+)['"]\s*\)`)
	requireCallPattern   = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	reExportPattern      = regexp.MustCompile(`export\s+[^'"]*?from\s+['"]([^'"]+)['"]`)
)

// sourceExtensions is the fixed probe order for resolving an import stem to a
// file on disk. When both x.ts and x.js exist for an import of "./x", the
// earlier extension wins; this is documented policy, not an accident.
var sourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// compiledExtensions are output extensions that sources sometimes reference
// even though the files on disk carry source extensions. They are stripped
// before probing.
var compiledExtensions = []string{".js", ".jsx", ".mjs", ".cjs"}

// ExtractImports scans file content for static import-from clauses, dynamic
// import calls, require calls, and re-export-from clauses. It returns the raw
// literal path strings in the order encountered per pattern pass; duplicates
// are kept, deduplication happens at resolution level.
func ExtractImports(content string) []string {
	importPaths := make([]string, 0)
	for _, pattern := range []*regexp.Regexp{
		staticImportPattern,
		dynamicImportPattern,
		requireCallPattern,
		reExportPattern,
	} {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			importPaths = append(importPaths, match[1])
		}
	}
	return importPaths
}

// ResolveImportPath maps a raw import literal to a root-relative file path on
// disk, or "" when the reference is external or dangling. Only relative and
// absolute references qualify; bare package specifiers are out of resolution
// scope. The resolved stem is probed against direct-file candidates first and
// directory-index candidates second, in fixed extension order.
func ResolveImportPath(importPath string, fromFile string, rootDirectory string) string {
	normalizedImport := types.NormalizePath(importPath)
	if !isRelativeOrAbsolute(normalizedImport) {
		return ""
	}

	var resolvedBase string
	if path.IsAbs(normalizedImport) || filepath.IsAbs(importPath) {
		resolvedBase = filepath.FromSlash(normalizedImport)
	} else {
		importingDirectory := path.Dir(types.NormalizePath(fromFile))
		resolvedBase = filepath.Join(rootDirectory, filepath.FromSlash(importingDirectory), filepath.FromSlash(normalizedImport))
	}

	if existingFile(resolvedBase) {
		return relativeToRoot(resolvedBase, rootDirectory)
	}

	stem := stripCompiledExtension(resolvedBase)
	for _, extension := range sourceExtensions {
		candidatePath := stem + extension
		if existingFile(candidatePath) {
			return relativeToRoot(candidatePath, rootDirectory)
		}
	}
	for _, extension := range sourceExtensions {
		candidatePath := filepath.Join(stem, "index"+extension)
		if existingFile(candidatePath) {
			return relativeToRoot(candidatePath, rootDirectory)
		}
	}
	return ""
}

func isRelativeOrAbsolute(normalizedImport string) bool {
	return strings.HasPrefix(normalizedImport, "./") ||
		strings.HasPrefix(normalizedImport, "../") ||
		strings.HasPrefix(normalizedImport, "/")
}

func stripCompiledExtension(resolvedPath string) string {
	for _, extension := range compiledExtensions {
		if strings.HasSuffix(resolvedPath, extension) {
			return strings.TrimSuffix(resolvedPath, extension)
		}
	}
	return resolvedPath
}

func existingFile(candidatePath string) bool {
	information, statError := os.Stat(candidatePath)
	return statError == nil && !information.IsDir()
}

func relativeToRoot(candidatePath string, rootDirectory string) string {
	absolutePath, absError := filepath.Abs(candidatePath)
	if absError != nil {
		absolutePath = candidatePath
	}
	return types.NormalizePath(utils.RelativePathOrSelf(absolutePath, rootDirectory))
}
