package generator

import (
	"strings"
	"testing"

	"github.com/docsmith/docsmith/internal/types"
)

func TestRenderGenerationContentPrimaryOnly(t *testing.T) {
	payload := renderGenerationContent([]types.IndexedFile{
		{Path: "src/a.ts", Content: "export const a = 1;\n"},
		{Path: "src/b.ts", Content: "export const b = 2;\n"},
	}, nil, "")

	if !strings.Contains(payload, "## src/a.ts\n\n```typescript\nexport const a = 1;\n```") {
		t.Fatalf("payload missing the first file section:\n%s", payload)
	}
	if !strings.Contains(payload, "\n\n---\n\n## src/b.ts") {
		t.Fatal("file sections not separated by a horizontal rule")
	}
	if strings.Contains(payload, "# Supporting context") {
		t.Fatal("supporting-context block present without context files")
	}
	if strings.Contains(payload, "# Existing documentation") {
		t.Fatal("existing-docs block present without existing docs")
	}
}

func TestRenderGenerationContentWithContextAndDocs(t *testing.T) {
	payload := renderGenerationContent(
		[]types.IndexedFile{{Path: "src/a.ts", Content: "export {};\n"}},
		[]types.IndexedFile{{Path: "src/helper.ts", Content: "export function helper() {}\n"}},
		"# Previous doc\n",
	)

	primaryIndex := strings.Index(payload, "## src/a.ts")
	contextIndex := strings.Index(payload, "# Supporting context")
	docsIndex := strings.Index(payload, "# Existing documentation")
	if primaryIndex < 0 || contextIndex < 0 || docsIndex < 0 {
		t.Fatalf("payload missing a block:\n%s", payload)
	}
	if !(primaryIndex < contextIndex && contextIndex < docsIndex) {
		t.Fatal("blocks out of order: want primary, then context, then existing docs")
	}
	if !strings.Contains(payload[contextIndex:], "## src/helper.ts") {
		t.Fatal("context file not rendered inside the supporting-context block")
	}
	if !strings.Contains(payload[docsIndex:], "# Previous doc") {
		t.Fatal("existing doc content missing")
	}
}

func TestRenderFileSectionTrimsTrailingNewlines(t *testing.T) {
	section := renderFileSection(types.IndexedFile{Path: "src/a.ts", Content: "const a = 1;\n\n\n"})
	if !strings.HasSuffix(section, "const a = 1;\n```") {
		t.Fatalf("trailing newlines not trimmed before the closing fence:\n%s", section)
	}
}

func TestFenceLanguage(t *testing.T) {
	testCases := []struct {
		filePath string
		want     string
	}{
		{"src/a.ts", "typescript"},
		{"src/Widget.tsx", "tsx"},
		{"lib/index.js", "javascript"},
		{"lib/mod.mjs", "javascript"},
		{"lib/View.jsx", "jsx"},
		{"package.json", "json"},
		{"README.md", "markdown"},
		{"config.yaml", "yaml"},
		{"Makefile", ""},
	}
	for _, testCase := range testCases {
		if got := fenceLanguage(testCase.filePath); got != testCase.want {
			t.Errorf("fenceLanguage(%q) = %q, want %q", testCase.filePath, got, testCase.want)
		}
	}
}

func TestPlaceholderContentMentionsScope(t *testing.T) {
	content := placeholderContent("src/auth", 7, 1234)
	if !strings.Contains(content, "src/auth") || !strings.Contains(content, "7 source files") || !strings.Contains(content, "1234 tokens") {
		t.Fatalf("placeholder missing scope details:\n%s", content)
	}
}
