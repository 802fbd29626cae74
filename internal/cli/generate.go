package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/generator"
	"github.com/docsmith/docsmith/internal/llm"
	"github.com/docsmith/docsmith/internal/tokenizer"
	"github.com/docsmith/docsmith/internal/types"
	"github.com/docsmith/docsmith/internal/utils"
)

// generateFlags holds the parsed flag values of one generate invocation.
type generateFlags struct {
	configPath      string
	rootDirectory   string
	dryRun          bool
	outputDirectory string
	exactTokens     bool
	modelOverride   string
	copyToClipboard bool
	verbose         bool
	noGitignore     bool
}

func newGenerateCommand() *cobra.Command {
	flags := &generateFlags{}
	generateCommand := &cobra.Command{
		Use:     generateUse,
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return runGenerate(command, flags)
		},
	}
	generateCommand.Flags().StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	generateCommand.Flags().StringVar(&flags.rootDirectory, rootFlagName, "", rootFlagDescription)
	generateCommand.Flags().BoolVar(&flags.dryRun, dryRunFlagName, false, dryRunFlagDescription)
	generateCommand.Flags().StringVar(&flags.outputDirectory, outputFlagName, "", outputFlagDescription)
	generateCommand.Flags().BoolVar(&flags.exactTokens, tokensFlagName, false, tokensFlagDescription)
	generateCommand.Flags().StringVar(&flags.modelOverride, modelFlagName, "", modelFlagDescription)
	generateCommand.Flags().BoolVar(&flags.copyToClipboard, clipboardFlagName, false, clipboardFlagDescription)
	generateCommand.Flags().BoolVar(&flags.verbose, verboseFlagName, false, verboseFlagDescription)
	generateCommand.Flags().BoolVar(&flags.noGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	return generateCommand
}

func runGenerate(command *cobra.Command, flags *generateFlags) error {
	logger, loggerError := newCommandLogger(flags.verbose)
	if loggerError != nil {
		return loggerError
	}
	defer logger.Sync()

	rootDirectory := flags.rootDirectory
	if rootDirectory == "" {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return fmt.Errorf("unable to determine working directory: %w", workingDirectoryError)
		}
		rootDirectory = workingDirectory
	}

	configuration, configurationError := config.Load(config.LoadOptions{
		WorkingDirectory: rootDirectory,
		ExplicitFilePath: flags.configPath,
	})
	if configurationError != nil {
		return configurationError
	}
	if flags.outputDirectory != "" {
		configuration.OutputDir = flags.outputDirectory
	}
	if flags.modelOverride != "" {
		configuration.LLM.Model = flags.modelOverride
	}

	var client llm.Client
	if !flags.dryRun {
		var clientError error
		client, clientError = llm.NewClient(llm.Options{
			Provider:    configuration.LLM.Provider,
			Model:       configuration.LLM.Model,
			APIKey:      configuration.LLM.APIKey,
			BaseURL:     configuration.LLM.BaseURL,
			Temperature: configuration.LLM.Temperature,
			MaxTokens:   configuration.LLM.MaxTokens,
		}, logger)
		if clientError != nil {
			return clientError
		}
	}

	result, runError := generator.New(configuration, generator.Options{
		RootDirectory:    rootDirectory,
		DryRun:           flags.dryRun,
		DisableGitignore: flags.noGitignore,
		Client:           client,
		KeepPayloads:     flags.exactTokens,
		Logger:           logger,
	}).Run(command.Context())
	if runError != nil {
		return runError
	}

	report := renderRunReport(result, buildExactCounts(flags, configuration.LLM.Model, result, logger))
	fmt.Fprint(command.OutOrStdout(), report)

	if flags.copyToClipboard {
		if clipboardError := clipboard.WriteAll(report); clipboardError != nil {
			logger.Warn("failed to copy report to clipboard", zap.Error(clipboardError))
		}
	}
	return nil
}

func newCommandLogger(verbose bool) (*zap.Logger, error) {
	logger, loggerError := utils.NewApplicationLogger(verbose)
	if loggerError != nil {
		return nil, fmt.Errorf("initialize logger: %w", loggerError)
	}
	return logger, nil
}

// exactCount is an exact tokenizer count for one target.
type exactCount struct {
	tokens       int
	encodingName string
}

// buildExactCounts runs the tokenizer over each retained payload. It returns
// nil when exact counts were not requested or the tokenizer is unavailable.
func buildExactCounts(flags *generateFlags, model string, result *generator.Result, logger *zap.Logger) map[string]exactCount {
	if !flags.exactTokens {
		return nil
	}
	counter, encodingName, counterError := tokenizer.NewCounter(model)
	if counterError != nil {
		logger.Warn("exact token counting unavailable", zap.Error(counterError))
		return nil
	}

	counts := make(map[string]exactCount, len(result.Targets))
	for _, target := range result.Targets {
		if target.Skipped {
			continue
		}
		tokens, countError := counter.CountString(target.Payload)
		if countError != nil {
			logger.Warn("failed to count tokens", zap.String("target", target.Name), zap.Error(countError))
			continue
		}
		counts[target.Name] = exactCount{tokens: tokens, encodingName: encodingName}
	}
	return counts
}

// renderRunReport produces the textual per-target and aggregate summary.
func renderRunReport(result *generator.Result, exactCounts map[string]exactCount) string {
	var report strings.Builder
	if result.DryRun {
		report.WriteString("Dry run: no documentation was generated.\n\n")
	}

	for _, target := range result.Targets {
		if target.Skipped {
			fmt.Fprintf(&report, "%s: skipped (%s)\n", target.Name, target.SkipReason)
			continue
		}
		fmt.Fprintf(&report, "%s -> %s (%d files, %d context): %s",
			target.Name, target.OutputPath, target.SourceFileCount, target.ContextFileCount,
			formatEstimate(target.Estimate))
		if count, hasCount := exactCounts[target.Name]; hasCount {
			fmt.Fprintf(&report, "; exact %d tokens (%s)", count.tokens, count.encodingName)
		}
		report.WriteString("\n")
		if target.Estimate.Warning != "" {
			fmt.Fprintf(&report, "  warning: %s\n", target.Estimate.Warning)
		}
	}

	fmt.Fprintf(&report, "\nTotal: %s\n", formatEstimate(result.Aggregate))
	if result.Aggregate.Warning != "" {
		fmt.Fprintf(&report, "  warning: %s\n", result.Aggregate.Warning)
	}
	return report.String()
}

func formatEstimate(estimate types.TokenEstimate) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("~%d tokens", estimate.Tokens))
	if estimate.EstimatedCost != nil {
		parts = append(parts, fmt.Sprintf("$%.4f", *estimate.EstimatedCost))
	}
	if estimate.ContextWindow > 0 {
		parts = append(parts, fmt.Sprintf("%.1f%% of %d", estimate.ContextUsagePercent, estimate.ContextWindow))
	}
	return strings.Join(parts, ", ")
}
