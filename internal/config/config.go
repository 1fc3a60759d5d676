package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/viper"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Detectors holds per-detector switches and thresholds, keyed by detector name
	Detectors map[string]domain.DetectorSettings `json:"detectors,omitempty" mapstructure:"detectors" yaml:"detectors,omitempty"`

	// Thresholds holds the flat knobs shared with other tools
	Thresholds ThresholdsConfig `json:"thresholds" mapstructure:"thresholds" yaml:"thresholds"`

	// Analysis holds source collection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Performance holds worker pool configuration
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Grading holds the quality gate used by the check command
	Grading GradingConfig `json:"grading" mapstructure:"grading" yaml:"grading"`
}

// ThresholdsConfig is the flat threshold surface. A nil knob leaves the
// detector default in place.
type ThresholdsConfig struct {
	MaxMethodLength         *float64 `json:"max_method_length,omitempty" mapstructure:"max_method_length" yaml:"max_method_length,omitempty"`
	MaxParameterCount       *float64 `json:"max_parameter_count,omitempty" mapstructure:"max_parameter_count" yaml:"max_parameter_count,omitempty"`
	MaxIdentifierLength     *float64 `json:"max_identifier_length,omitempty" mapstructure:"max_identifier_length" yaml:"max_identifier_length,omitempty"`
	MagicNumberThreshold    *float64 `json:"magic_number_threshold,omitempty" mapstructure:"magic_number_threshold" yaml:"magic_number_threshold,omitempty"`
	MaxConditionalOperators *float64 `json:"max_conditional_operators,omitempty" mapstructure:"max_conditional_operators" yaml:"max_conditional_operators,omitempty"`
	MaxNestingDepth         *float64 `json:"max_nesting_depth,omitempty" mapstructure:"max_nesting_depth" yaml:"max_nesting_depth,omitempty"`
	MaxStatementLength      *float64 `json:"max_statement_length,omitempty" mapstructure:"max_statement_length" yaml:"max_statement_length,omitempty"`
	MaxStatementOperators   *float64 `json:"max_statement_operators,omitempty" mapstructure:"max_statement_operators" yaml:"max_statement_operators,omitempty"`
	MaxChainLength          *float64 `json:"max_chain_length,omitempty" mapstructure:"max_chain_length" yaml:"max_chain_length,omitempty"`
	MaxImports              *float64 `json:"max_imports,omitempty" mapstructure:"max_imports" yaml:"max_imports,omitempty"`
	MaxPublicFields         *float64 `json:"max_public_fields,omitempty" mapstructure:"max_public_fields" yaml:"max_public_fields,omitempty"`
	AbstractionMinMembers   *float64 `json:"abstraction_min_members,omitempty" mapstructure:"abstraction_min_members" yaml:"abstraction_min_members,omitempty"`
}

// AnalysisConfig holds source collection configuration
type AnalysisConfig struct {
	// IncludePatterns select the files to analyze
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns are path substrings, matched case-insensitively
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// RespectGitignore skips paths ignored by a .gitignore at the root
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	// Format is one of text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowGrade prints the grade banner next to a text report
	ShowGrade bool `json:"show_grade" mapstructure:"show_grade" yaml:"show_grade"`
}

// PerformanceConfig holds worker pool configuration
type PerformanceConfig struct {
	// MaxGoroutines bounds the files analyzed concurrently (0 uses the default)
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds a whole run (0 disables the timeout)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// GradingConfig holds quality gate thresholds
type GradingConfig struct {
	// MinGrade is the weakest letter grade accepted by check
	MinGrade string `json:"min_grade" mapstructure:"min_grade" yaml:"min_grade"`

	// MaxCritical is the number of Critical issues tolerated; negative disables the rule
	MaxCritical int `json:"max_critical" mapstructure:"max_critical" yaml:"max_critical"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Detectors: map[string]domain.DetectorSettings{},
		Analysis: AnalysisConfig{
			IncludePatterns:  []string{constants.DefaultIncludePattern},
			ExcludePatterns:  append([]string{}, constants.DefaultExcludeSubstrings...),
			RespectGitignore: true,
		},
		Output: OutputConfig{
			Format:    constants.OutputFormatText,
			ShowGrade: true,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  constants.DefaultMaxGoroutines,
			TimeoutSeconds: constants.DefaultTimeoutSeconds,
		},
		Grading: GradingConfig{
			MinGrade:    constants.DefaultMinGrade,
			MaxCritical: -1,
		},
	}
}

// knob binds a flat threshold to the detector threshold it overrides
type knob struct {
	key       string
	value     *float64
	detector  string
	threshold string
}

func (t *ThresholdsConfig) knobs() []knob {
	return []knob{
		{"max_method_length", t.MaxMethodLength, "long-method", "max_lines"},
		{"max_parameter_count", t.MaxParameterCount, "long-parameter-list", "max_parameters"},
		{"max_identifier_length", t.MaxIdentifierLength, "long-identifier", "max_length"},
		{"magic_number_threshold", t.MagicNumberThreshold, "magic-number", "threshold"},
		{"max_conditional_operators", t.MaxConditionalOperators, "complex-conditional", "max_operators"},
		{"max_nesting_depth", t.MaxNestingDepth, "deep-nesting", "max_depth"},
		{"max_statement_length", t.MaxStatementLength, "long-statement", "max_line_length"},
		{"max_statement_operators", t.MaxStatementOperators, "long-statement", "max_operators"},
		{"max_chain_length", t.MaxChainLength, "long-statement", "max_chain_length"},
		{"max_imports", t.MaxImports, "broken-modularization", "max_imports"},
		{"max_public_fields", t.MaxPublicFields, "broken-modularization", "max_public_fields"},
		{"abstraction_min_members", t.AbstractionMinMembers, "unnecessary-abstraction", "min_members"},
	}
}

// DetectorConfig folds the flat knobs and the per-detector sections into one
// DetectorConfig. Thresholds set under detectors win over the flat knobs.
func (c *Config) DetectorConfig() domain.DetectorConfig {
	out := make(domain.DetectorConfig)

	for _, k := range c.Thresholds.knobs() {
		if k.value == nil {
			continue
		}
		s := out[k.detector]
		if s.Thresholds == nil {
			s.Thresholds = make(map[string]float64)
		}
		s.Thresholds[k.threshold] = *k.value
		out[k.detector] = s
	}

	for name, entry := range c.Detectors {
		s := out[name]
		s.Enabled = entry.Enabled
		if len(entry.Thresholds) > 0 && s.Thresholds == nil {
			s.Thresholds = make(map[string]float64, len(entry.Thresholds))
		}
		for k, v := range entry.Thresholds {
			s.Thresholds[k] = v
		}
		out[name] = s
	}

	return out
}

// UnknownDetectors returns one ConfigError per configured detector name that
// is not in known, with a suggestion when a close name exists.
func (c *Config) UnknownDetectors(known []string) []error {
	knownSet := make(map[string]bool, len(known))
	for _, name := range known {
		knownSet[name] = true
	}

	names := make([]string, 0, len(c.Detectors))
	for name := range c.Detectors {
		if !knownSet[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		msg := fmt.Sprintf("unknown detector %q", name)
		if suggestion := Suggest(name, known); suggestion != "" {
			msg += fmt.Sprintf(", did you mean %q?", suggestion)
		}
		errs = append(errs, domain.NewConfigError(msg, nil))
	}
	return errs
}

// Suggest returns the candidate closest to name, or "" when none matches
func Suggest(name string, candidates []string) string {
	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)
	// SMELLSCAN_GRADING_MIN_GRADE overrides grading.min_grade from the file
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration, discovering the file from the
// analyzed path when configPath is empty
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// configCandidates are the file names discovery looks for, in order
var configCandidates = []string{
	"smellscan.yaml",
	"smellscan.yml",
	".smellscan.yaml",
	".smellscan.yml",
	"smellscan.json",
	"smellscan.toml",
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for a configuration file upward from targetPath,
// then in the current directory, the XDG config directory and the home directory.
// The SMELLSCAN_CONFIG environment variable is the last resort.
func findDefaultConfig(targetPath string) string {
	if targetPath != "" {
		if absPath, err := filepath.Abs(targetPath); err == nil {
			if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, configCandidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", configCandidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), configCandidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", constants.ToolName), configCandidates); config != "" {
			return config
		}
		if config := searchConfigInDirectory(home, configCandidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.ConfigEnvVar); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	if c.Grading.MinGrade != "" && !domain.IsValidGrade(c.Grading.MinGrade) {
		return fmt.Errorf("invalid grading.min_grade '%s'", c.Grading.MinGrade)
	}

	for _, k := range c.Thresholds.knobs() {
		if k.value != nil && *k.value < 0 {
			return fmt.Errorf("thresholds.%s must be >= 0, got %g", k.key, *k.value)
		}
	}

	for name, entry := range c.Detectors {
		for key, value := range entry.Thresholds {
			if value < 0 {
				return fmt.Errorf("detectors.%s.thresholds.%s must be >= 0, got %g", name, key, value)
			}
		}
	}

	return nil
}
