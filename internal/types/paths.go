package types

import "strings"

const pathSeparator = "/"

// NormalizePath converts backslash path separators to forward slashes so that
// paths compare equal regardless of the platform they were produced on.
// NormalizePath is idempotent.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", pathSeparator)
}

// BelongsToSubfolder reports whether filePath equals subfolderPath or sits
// anywhere below it. Both arguments are normalized before comparison and a
// trailing slash on the subfolder path is ignored.
func BelongsToSubfolder(filePath string, subfolderPath string) bool {
	normalizedFilePath := NormalizePath(filePath)
	normalizedSubfolderPath := strings.TrimSuffix(NormalizePath(subfolderPath), pathSeparator)
	if normalizedSubfolderPath == "" {
		return false
	}
	if normalizedFilePath == normalizedSubfolderPath {
		return true
	}
	return strings.HasPrefix(normalizedFilePath, normalizedSubfolderPath+pathSeparator)
}
