package types_test

import (
	"testing"

	"github.com/docsmith/docsmith/internal/types"
)

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "backslashes", input: `src\api\handler.ts`, expected: "src/api/handler.ts"},
		{name: "forward slashes untouched", input: "src/api/handler.ts", expected: "src/api/handler.ts"},
		{name: "mixed separators", input: `src/api\handler.ts`, expected: "src/api/handler.ts"},
		{name: "empty", input: "", expected: ""},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := types.NormalizePath(testCase.input); actual != testCase.expected {
				t.Errorf("NormalizePath(%q) = %q, expected %q", testCase.input, actual, testCase.expected)
			}
		})
	}
}

func TestNormalizePathIdempotent(t *testing.T) {
	inputs := []string{`a\b\c.ts`, "a/b/c.ts", "", `mixed/one\two`}
	for _, input := range inputs {
		once := types.NormalizePath(input)
		twice := types.NormalizePath(once)
		if once != twice {
			t.Errorf("NormalizePath not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestBelongsToSubfolder(t *testing.T) {
	testCases := []struct {
		name          string
		filePath      string
		subfolderPath string
		expected      bool
	}{
		{name: "direct child", filePath: "src/api/handler.ts", subfolderPath: "src/api", expected: true},
		{name: "exact match", filePath: "src/api", subfolderPath: "src/api", expected: true},
		{name: "trailing slash on subfolder", filePath: "src/api/handler.ts", subfolderPath: "src/api/", expected: true},
		{name: "sibling prefix is not containment", filePath: "src/apiextra/handler.ts", subfolderPath: "src/api", expected: false},
		{name: "ancestor matches descendant file", filePath: "src/api/v2/handler.ts", subfolderPath: "src", expected: true},
		{name: "unrelated", filePath: "lib/util.ts", subfolderPath: "src", expected: false},
		{name: "backslash file path", filePath: `src\api\handler.ts`, subfolderPath: "src/api", expected: true},
		{name: "empty subfolder never matches", filePath: "src/api/handler.ts", subfolderPath: "", expected: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := types.BelongsToSubfolder(testCase.filePath, testCase.subfolderPath)
			if actual != testCase.expected {
				t.Errorf("BelongsToSubfolder(%q, %q) = %v, expected %v", testCase.filePath, testCase.subfolderPath, actual, testCase.expected)
			}
		})
	}
}

func TestSubfolderTargetDefaults(t *testing.T) {
	var target types.SubfolderTarget
	if !target.ImportsEnabled() {
		t.Error("imports should default to enabled")
	}
	if depth := target.ResolvedImportDepth(); depth != types.DefaultImportDepth {
		t.Errorf("default depth = %d, expected %d", depth, types.DefaultImportDepth)
	}

	disabled := false
	target.IncludeImports = &disabled
	if target.ImportsEnabled() {
		t.Error("imports should be disabled when configured off")
	}

	negativeDepth := -3
	target.ImportDepth = &negativeDepth
	if depth := target.ResolvedImportDepth(); depth != 0 {
		t.Errorf("negative depth clamps to 0, got %d", depth)
	}

	excessiveDepth := 12
	target.ImportDepth = &excessiveDepth
	if depth := target.ResolvedImportDepth(); depth != types.MaxImportDepth {
		t.Errorf("excessive depth clamps to %d, got %d", types.MaxImportDepth, depth)
	}
}
