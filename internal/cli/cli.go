// Package cli provides the command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsmith/docsmith/internal/utils"
)

const (
	rootUse              = "docsmith"
	rootShortDescription = "docsmith generates project documentation with an LLM"
	rootLongDescription  = `docsmith scans a source tree, groups files by configured subfolders,
follows their import graphs to build self-contained context bundles, and asks an
LLM to write markdown documentation for each group, plus an API reference for
ungrouped files and a project README.
Use --dry-run to preview scope, token counts, and estimated cost without
calling the provider.`
	versionTemplate = "docsmith version: %s\n"

	generateUse              = "generate"
	generateShortDescription = "generate documentation for the configured project"
	generateLongDescription  = `Generate documentation according to the project's docsmith.yaml.
Each configured subfolder yields one markdown document; files outside every
subfolder are documented in an API reference, and a README is generated last
from the full file set.`
	generateUsageExample = `  # Preview scope and cost without calling the provider
  docsmith generate --dry-run

  # Generate using a config elsewhere, writing into that project
  docsmith generate --config ./service/docsmith.yaml --root ./service

  # Generate with exact token counts in the report, copied to the clipboard
  docsmith generate --tokens --clipboard`

	configFlagName      = "config"
	rootFlagName        = "root"
	dryRunFlagName      = "dry-run"
	outputFlagName      = "output"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	clipboardFlagName   = "clipboard"
	verboseFlagName     = "verbose"
	noGitignoreFlagName = "no-gitignore"

	configFlagDescription      = "path to the configuration file"
	rootFlagDescription        = "project root directory to scan"
	dryRunFlagDescription      = "estimate scope and cost without calling the provider"
	outputFlagDescription      = "override the configured output directory"
	tokensFlagDescription      = "include exact token counts in the report"
	modelFlagDescription       = "override the configured model"
	clipboardFlagDescription   = "copy the run report to the clipboard"
	verboseFlagDescription     = "enable debug logging"
	noGitignoreFlagDescription = "do not honor .gitignore when scanning"
)

// NewRootCommand builds the docsmith command tree.
func NewRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Version:       utils.GetApplicationVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.SetVersionTemplate(fmt.Sprintf(versionTemplate, "{{.Version}}"))
	rootCommand.AddCommand(newGenerateCommand())
	return rootCommand
}

// Execute runs the command line interface.
func Execute() error {
	return NewRootCommand().Execute()
}
