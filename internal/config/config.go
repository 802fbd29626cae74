// Package config loads and validates the docsmith configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/docsmith/docsmith/internal/llm"
	"github.com/docsmith/docsmith/internal/types"
	"github.com/docsmith/docsmith/internal/utils"
)

// ConfigFileName is the configuration file looked up in the project root when
// no explicit path is provided.
const ConfigFileName = "docsmith.yaml"

// Default values applied to optional fields.
var (
	defaultIncludePatterns = []string{"**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx"}
	defaultExcludePatterns = []string{
		"node_modules/**",
		"**/node_modules/**",
		"dist/**",
		"build/**",
		".git/**",
		"**/*.test.*",
		"**/*.spec.*",
		"**/*.d.ts",
	}
)

// DefaultOutputDirectory receives generated documents when the configuration
// does not name one.
const DefaultOutputDirectory = "docs"

// LLMConfiguration selects and parameterizes the generation provider.
type LLMConfiguration struct {
	Provider    string   `mapstructure:"provider"`
	Model       string   `mapstructure:"model"`
	APIKey      string   `mapstructure:"api_key"`
	BaseURL     string   `mapstructure:"base_url"`
	Temperature *float64 `mapstructure:"temperature"`
	MaxTokens   *int     `mapstructure:"max_tokens"`
}

// Configuration is the validated top-level configuration of one run.
type Configuration struct {
	LLM        LLMConfiguration        `mapstructure:"llm"`
	Prompt     string                  `mapstructure:"prompt"`
	Include    []string                `mapstructure:"include"`
	Exclude    []string                `mapstructure:"exclude"`
	Subfolders []types.SubfolderTarget `mapstructure:"subfolders"`
	OutputDir  string                  `mapstructure:"output_dir"`
}

// LoadOptions controls configuration discovery.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// Load reads, decodes, defaults, and validates the configuration. A missing
// file, a decode failure, or a validation failure is fatal: callers abort
// before any generation work.
func Load(options LoadOptions) (Configuration, error) {
	configurationPath, resolveError := resolveConfigurationPath(options)
	if resolveError != nil {
		return Configuration{}, resolveError
	}

	if _, statError := os.Stat(configurationPath); statError != nil {
		if os.IsNotExist(statError) {
			return Configuration{}, fmt.Errorf("no configuration file found at %s", configurationPath)
		}
		return Configuration{}, fmt.Errorf("stat configuration %s: %w", configurationPath, statError)
	}

	reader := viper.New()
	reader.SetConfigFile(configurationPath)
	if readError := reader.ReadInConfig(); readError != nil {
		return Configuration{}, fmt.Errorf("read configuration from %s: %w", configurationPath, readError)
	}

	var configuration Configuration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return Configuration{}, fmt.Errorf("decode configuration from %s: %w", configurationPath, decodeError)
	}

	configuration.applyDefaults()
	if validationError := configuration.validate(); validationError != nil {
		return Configuration{}, fmt.Errorf("invalid configuration %s: %w", configurationPath, validationError)
	}
	return configuration, nil
}

func resolveConfigurationPath(options LoadOptions) (string, error) {
	if options.ExplicitFilePath != "" {
		if filepath.IsAbs(options.ExplicitFilePath) {
			return options.ExplicitFilePath, nil
		}
		if options.WorkingDirectory != "" {
			return filepath.Join(options.WorkingDirectory, options.ExplicitFilePath), nil
		}
		absolutePath, absError := filepath.Abs(options.ExplicitFilePath)
		if absError != nil {
			return "", fmt.Errorf("resolve configuration path %s: %w", options.ExplicitFilePath, absError)
		}
		return absolutePath, nil
	}

	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}
	return filepath.Join(workingDirectory, ConfigFileName), nil
}

func (configuration *Configuration) applyDefaults() {
	if len(configuration.Include) == 0 {
		configuration.Include = append([]string{}, defaultIncludePatterns...)
	}
	if len(configuration.Exclude) == 0 {
		configuration.Exclude = append([]string{}, defaultExcludePatterns...)
	}
	if configuration.OutputDir == "" {
		configuration.OutputDir = DefaultOutputDirectory
	}
	configuration.Include = utils.DeduplicatePatterns(configuration.Include)
	configuration.Exclude = utils.DeduplicatePatterns(configuration.Exclude)
}

func (configuration Configuration) validate() error {
	switch configuration.LLM.Provider {
	case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGoogle:
	case "":
		return fmt.Errorf("llm.provider is required")
	default:
		return fmt.Errorf("unsupported llm provider %q", configuration.LLM.Provider)
	}
	if configuration.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}

	seenSubfolderPaths := make(map[string]struct{}, len(configuration.Subfolders))
	for subfolderIndex, subfolder := range configuration.Subfolders {
		if subfolder.Path == "" {
			return fmt.Errorf("subfolders[%d].path is required", subfolderIndex)
		}
		normalizedPath := types.NormalizePath(subfolder.Path)
		if _, duplicate := seenSubfolderPaths[normalizedPath]; duplicate {
			return fmt.Errorf("duplicate subfolder path %q", subfolder.Path)
		}
		seenSubfolderPaths[normalizedPath] = struct{}{}
		if subfolder.ImportDepth != nil && (*subfolder.ImportDepth < 0 || *subfolder.ImportDepth > types.MaxImportDepth) {
			return fmt.Errorf("subfolders[%d].import_depth must be between 0 and %d", subfolderIndex, types.MaxImportDepth)
		}
	}
	return nil
}
