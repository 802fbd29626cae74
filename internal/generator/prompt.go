package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docsmith/docsmith/internal/types"
)

// contentSeparator divides file sections and context blocks inside a payload.
const contentSeparator = "\n\n---\n\n"

// Headers that delimit the secondary blocks appended after the primary files.
const (
	supportingContextHeader = "# Supporting context\n\n" +
		"The files below are imported dependencies and supplementary material included for reference. " +
		"Use them to understand the primary files; do not document them directly.\n\n"
	existingDocsHeader = "# Existing documentation\n\n" +
		"The documentation below was generated previously. Update it to match the current code, " +
		"preserving structure and any hand-written additions that still apply.\n\n"
)

// Default system prompts for the three target kinds.
const (
	defaultSubfolderPrompt = "You are a senior technical writer documenting a software module. " +
		"Write thorough markdown documentation for the primary source files provided: " +
		"describe the module's purpose, its public API with parameter and return types, " +
		"usage examples, and notable behaviors or edge cases. " +
		"Supporting context files are provided for understanding only. " +
		"Respond with the markdown document and nothing else."

	defaultAPIReferencePrompt = "You are a senior technical writer producing an API reference. " +
		"Document every exported function, class, and type in the source files provided, " +
		"grouped by file, with signatures, parameter descriptions, and return values. " +
		"Respond with the markdown document and nothing else."

	defaultReadmePrompt = "You are a senior technical writer producing a project README. " +
		"From the source files provided, write a README covering what the project does, " +
		"its high-level architecture, how to install and use it, and where to find " +
		"more detailed documentation. Keep it concise and accurate. " +
		"Respond with the markdown document and nothing else."
)

// renderGenerationContent assembles the full user payload for one target:
// primary file sections, then an optional supporting-context block, then an
// optional existing-documentation block.
func renderGenerationContent(mainFiles []types.IndexedFile, contextFiles []types.IndexedFile, existingDocs string) string {
	var payload strings.Builder
	payload.WriteString(renderIndexedFiles(mainFiles))
	if len(contextFiles) > 0 {
		payload.WriteString(contentSeparator)
		payload.WriteString(supportingContextHeader)
		payload.WriteString(renderIndexedFiles(contextFiles))
	}
	if existingDocs != "" {
		payload.WriteString(contentSeparator)
		payload.WriteString(existingDocsHeader)
		payload.WriteString(existingDocs)
	}
	return payload.String()
}

// renderIndexedFiles renders each file as a markdown section with a path
// header and a fenced code block, separated by horizontal rules.
func renderIndexedFiles(files []types.IndexedFile) string {
	sections := make([]string, 0, len(files))
	for _, file := range files {
		sections = append(sections, renderFileSection(file))
	}
	return strings.Join(sections, contentSeparator)
}

func renderFileSection(file types.IndexedFile) string {
	return fmt.Sprintf("## %s\n\n```%s\n%s\n```",
		file.Path,
		fenceLanguage(file.Path),
		strings.TrimRight(file.Content, "\n"))
}

// fenceLanguage picks a code-fence language tag from the file extension.
func fenceLanguage(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts":
		return "typescript"
	case ".tsx":
		return "tsx"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".jsx":
		return "jsx"
	case ".json":
		return "json"
	case ".md":
		return "markdown"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// placeholderContent is the document body emitted for a target in dry-run
// mode. It previews the scope of the real call without making one.
func placeholderContent(targetName string, sourceFileCount int, estimatedTokens int) string {
	return fmt.Sprintf(
		"# %s\n\nDry run: no documentation was generated.\n\nThis target would be built from %d source files (estimated %d tokens).\n",
		targetName, sourceFileCount, estimatedTokens)
}
