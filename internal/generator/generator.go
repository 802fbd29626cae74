// Package generator sequences documentation generation: it scans the project,
// assembles dependency-aware context bundles per target, estimates their
// size and cost, and either invokes the LLM collaborator or, in dry-run mode,
// produces placeholder documents that preview scope and cost.
package generator

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/estimator"
	"github.com/docsmith/docsmith/internal/llm"
	"github.com/docsmith/docsmith/internal/resolver"
	"github.com/docsmith/docsmith/internal/scanner"
	"github.com/docsmith/docsmith/internal/types"
	"github.com/docsmith/docsmith/internal/utils"
)

// Names of the implicit generation targets.
const (
	apiReferenceTargetName = "api-reference"
	readmeTargetName       = "README"

	apiReferenceFileName = "api-reference.md"
	readmeFileName       = "README.md"
)

// Options configures one generation run.
type Options struct {
	RootDirectory    string
	DryRun           bool
	DisableGitignore bool
	// Client performs remote generation. It may be nil in dry-run mode and is
	// never invoked there.
	Client llm.Client
	// PricingTable overrides the built-in table, mainly for tests.
	PricingTable estimator.PricingTable
	// KeepPayloads retains each target's assembled payload on its report so
	// callers can run exact token counts over it.
	KeepPayloads bool
	Logger       *zap.Logger
}

// TargetReport describes one generation target's outcome.
type TargetReport struct {
	Name             string
	OutputPath       string
	SourceFileCount  int
	ContextFileCount int
	Estimate         types.TokenEstimate
	Skipped          bool
	SkipReason       string
	Payload          string
}

// Result is the outcome of a full run.
type Result struct {
	Docs      []types.GeneratedDoc
	Targets   []TargetReport
	Aggregate types.TokenEstimate
	DryRun    bool
}

// Generator orchestrates a documentation run. Targets are processed strictly
// sequentially: each generation call may be a rate-limited remote invocation,
// and serial execution keeps failure attribution and output ordering
// unambiguous.
type Generator struct {
	configuration config.Configuration
	options       Options
	pricingTable  estimator.PricingTable
	logger        *zap.Logger
}

// New constructs a Generator. A nil logger keeps the run silent and a nil
// pricing table selects the built-in one.
func New(configuration config.Configuration, options Options) *Generator {
	pricingTable := options.PricingTable
	if pricingTable == nil {
		pricingTable = estimator.DefaultPricingTable()
	}
	return &Generator{
		configuration: configuration,
		options:       options,
		pricingTable:  pricingTable,
		logger:        utils.EnsureLogger(options.Logger),
	}
}

// Run executes the full generation sequence: scan, per-subfolder documents,
// the ungrouped API reference, and the whole-project README. A provider
// failure aborts the remaining steps; documents already written stay on disk.
func (generator *Generator) Run(ctx context.Context) (*Result, error) {
	if !generator.options.DryRun && generator.options.Client == nil {
		return nil, fmt.Errorf("llm client is required outside dry-run mode")
	}

	scannedFiles, scanError := scanner.ScanFiles(scanner.Options{
		RootDirectory:   generator.options.RootDirectory,
		IncludePatterns: generator.configuration.Include,
		ExcludePatterns: generator.configuration.Exclude,
		UseGitignore:    !generator.options.DisableGitignore,
	}, generator.logger)
	if scanError != nil {
		return nil, fmt.Errorf("scan project: %w", scanError)
	}
	if len(scannedFiles) == 0 {
		return nil, fmt.Errorf("no files matched the include patterns under %s", generator.options.RootDirectory)
	}

	scanResult := scanner.GroupFilesBySubfolder(scannedFiles, generator.configuration.Subfolders)

	result := &Result{DryRun: generator.options.DryRun}
	estimates := make([]types.TokenEstimate, 0)

	for _, subfolder := range generator.configuration.Subfolders {
		report, document, subfolderError := generator.generateSubfolder(ctx, subfolder, scanResult)
		if subfolderError != nil {
			return nil, subfolderError
		}
		result.Targets = append(result.Targets, report)
		if report.Skipped {
			continue
		}
		estimates = append(estimates, report.Estimate)
		result.Docs = append(result.Docs, document)
	}

	ungroupedReport, ungroupedDocument, ungroupedError := generator.generateUngrouped(ctx, scanResult.Ungrouped)
	if ungroupedError != nil {
		return nil, ungroupedError
	}
	result.Targets = append(result.Targets, ungroupedReport)
	if !ungroupedReport.Skipped {
		estimates = append(estimates, ungroupedReport.Estimate)
		result.Docs = append(result.Docs, ungroupedDocument)
	}

	readmeReport, readmeDocument, readmeError := generator.generateReadme(ctx, scannedFiles)
	if readmeError != nil {
		return nil, readmeError
	}
	result.Targets = append(result.Targets, readmeReport)
	estimates = append(estimates, readmeReport.Estimate)
	result.Docs = append(result.Docs, readmeDocument)

	result.Aggregate = estimator.AggregateEstimates(estimates)
	return result, nil
}

func (generator *Generator) generateSubfolder(
	ctx context.Context,
	subfolder types.SubfolderTarget,
	scanResult types.ScanResult,
) (TargetReport, types.GeneratedDoc, error) {
	mainFiles := scanResult.Grouped[subfolder.Path]
	if len(mainFiles) == 0 {
		generator.logger.Warn("skipping subfolder with no matching files", zap.String("subfolder", subfolder.Path))
		return TargetReport{
			Name:       subfolder.Path,
			Skipped:    true,
			SkipReason: "no matching files",
		}, types.GeneratedDoc{}, nil
	}

	contextFiles := generator.collectContextFiles(subfolder, mainFiles, scanResult.Files)
	existingDocs := generator.readExistingDocs(subfolder.ExistingDocs)

	systemPrompt := firstNonEmpty(subfolder.Prompt, generator.configuration.Prompt, defaultSubfolderPrompt)
	outputPath := subfolder.OutputPath
	if outputPath == "" {
		outputPath = path.Join(generator.configuration.OutputDir, targetFileName(subfolder.Path))
	}

	return generator.generateTarget(ctx, targetSpec{
		name:         subfolder.Path,
		outputPath:   outputPath,
		mainFiles:    mainFiles,
		contextFiles: contextFiles,
		existingDocs: existingDocs,
		systemPrompt: systemPrompt,
	})
}

func (generator *Generator) generateUngrouped(ctx context.Context, ungroupedFiles []types.IndexedFile) (TargetReport, types.GeneratedDoc, error) {
	if len(ungroupedFiles) == 0 {
		generator.logger.Warn("skipping API reference: every file belongs to a configured subfolder")
		return TargetReport{
			Name:       apiReferenceTargetName,
			Skipped:    true,
			SkipReason: "no ungrouped files",
		}, types.GeneratedDoc{}, nil
	}

	return generator.generateTarget(ctx, targetSpec{
		name:         apiReferenceTargetName,
		outputPath:   path.Join(generator.configuration.OutputDir, apiReferenceFileName),
		mainFiles:    ungroupedFiles,
		systemPrompt: firstNonEmpty(generator.configuration.Prompt, defaultAPIReferencePrompt),
	})
}

// generateReadme always runs, over the full original file set, and always
// produces a document.
func (generator *Generator) generateReadme(ctx context.Context, allFiles []types.IndexedFile) (TargetReport, types.GeneratedDoc, error) {
	readmePath := path.Join(generator.configuration.OutputDir, readmeFileName)
	existingReadme := generator.readExistingDocs([]string{readmePath})

	return generator.generateTarget(ctx, targetSpec{
		name:         readmeTargetName,
		outputPath:   readmePath,
		mainFiles:    allFiles,
		existingDocs: existingReadme,
		systemPrompt: defaultReadmePrompt,
	})
}

type targetSpec struct {
	name         string
	outputPath   string
	mainFiles    []types.IndexedFile
	contextFiles []types.IndexedFile
	existingDocs string
	systemPrompt string
}

func (generator *Generator) generateTarget(ctx context.Context, spec targetSpec) (TargetReport, types.GeneratedDoc, error) {
	payload := renderGenerationContent(spec.mainFiles, spec.contextFiles, spec.existingDocs)
	estimate := estimator.GetTokenEstimate(payload, generator.configuration.LLM.Model, true, generator.pricingTable)
	if estimate.Warning != "" {
		generator.logger.Warn("context usage warning",
			zap.String("target", spec.name),
			zap.String("warning", estimate.Warning))
	}

	sourceFilePaths := make([]string, 0, len(spec.mainFiles)+len(spec.contextFiles))
	for _, file := range spec.mainFiles {
		sourceFilePaths = append(sourceFilePaths, file.Path)
	}
	for _, file := range spec.contextFiles {
		sourceFilePaths = append(sourceFilePaths, file.Path)
	}

	report := TargetReport{
		Name:             spec.name,
		OutputPath:       spec.outputPath,
		SourceFileCount:  len(spec.mainFiles),
		ContextFileCount: len(spec.contextFiles),
		Estimate:         estimate,
	}
	if generator.options.KeepPayloads {
		report.Payload = payload
	}

	document := types.GeneratedDoc{
		OutputPath:  spec.outputPath,
		SourceFiles: sourceFilePaths,
	}

	if generator.options.DryRun {
		document.Content = placeholderContent(spec.name, len(sourceFilePaths), estimate.Tokens)
		return report, document, nil
	}

	generatedText, generateError := generator.options.Client.Generate(ctx, spec.systemPrompt, payload)
	if generateError != nil {
		return TargetReport{}, types.GeneratedDoc{}, fmt.Errorf("generate documentation for %s: %w", spec.name, generateError)
	}
	document.Content = generatedText

	if writeError := generator.writeDocument(document); writeError != nil {
		return TargetReport{}, types.GeneratedDoc{}, writeError
	}
	generator.logger.Info("wrote documentation",
		zap.String("target", spec.name),
		zap.String("outputPath", spec.outputPath))
	return report, document, nil
}

func (generator *Generator) collectContextFiles(
	subfolder types.SubfolderTarget,
	mainFiles []types.IndexedFile,
	allKnownFiles []types.IndexedFile,
) []types.IndexedFile {
	contextFiles := make([]types.IndexedFile, 0)
	if subfolder.ImportsEnabled() {
		contextFiles = append(contextFiles, resolver.ResolveImportsForFiles(
			mainFiles,
			allKnownFiles,
			generator.options.RootDirectory,
			subfolder.ResolvedImportDepth(),
			generator.logger,
		)...)
	}

	if len(subfolder.AdditionalFiles) > 0 {
		alreadyIncluded := make(map[string]struct{}, len(mainFiles)+len(contextFiles))
		for _, file := range mainFiles {
			alreadyIncluded[file.Path] = struct{}{}
		}
		for _, file := range contextFiles {
			alreadyIncluded[file.Path] = struct{}{}
		}
		contextFiles = append(contextFiles, scanner.LoadAdditionalFiles(
			generator.options.RootDirectory,
			subfolder.AdditionalFiles,
			generator.configuration.Exclude,
			alreadyIncluded,
			generator.logger,
		)...)
	}
	return contextFiles
}

// readExistingDocs loads previously generated documents fed back into the
// prompt as update context. Unreadable paths are logged and skipped.
func (generator *Generator) readExistingDocs(documentPaths []string) string {
	sections := make([]string, 0, len(documentPaths))
	for _, documentPath := range documentPaths {
		absolutePath := filepath.Join(generator.options.RootDirectory, filepath.FromSlash(types.NormalizePath(documentPath)))
		contentBytes, readError := os.ReadFile(absolutePath)
		if readError != nil {
			if !os.IsNotExist(readError) {
				generator.logger.Warn("skipping unreadable existing doc",
					zap.String("path", documentPath),
					zap.Error(readError))
			}
			continue
		}
		sections = append(sections, string(contentBytes))
	}
	return strings.Join(sections, contentSeparator)
}

func (generator *Generator) writeDocument(document types.GeneratedDoc) error {
	absolutePath := filepath.Join(generator.options.RootDirectory, filepath.FromSlash(types.NormalizePath(document.OutputPath)))
	if mkdirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); mkdirError != nil {
		return fmt.Errorf("create output directory for %s: %w", document.OutputPath, mkdirError)
	}
	if writeError := os.WriteFile(absolutePath, []byte(document.Content), 0o644); writeError != nil {
		return fmt.Errorf("write document %s: %w", document.OutputPath, writeError)
	}
	return nil
}

// targetFileName flattens a subfolder path into a single markdown file name.
func targetFileName(subfolderPath string) string {
	flattened := strings.ReplaceAll(strings.Trim(types.NormalizePath(subfolderPath), "/"), "/", "-")
	return flattened + ".md"
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
