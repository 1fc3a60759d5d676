package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "smellscan"

	// ConfigFileName is the default config file name written by init
	ConfigFileName = "smellscan.yaml"

	// ConfigEnvVar names a config file used when discovery finds nothing
	ConfigEnvVar = "SMELLSCAN_CONFIG"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "SMELLSCAN"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// SourceExtension is the extension of analyzable files
const SourceExtension = ".java"

// DefaultIncludePattern selects every Java file below a root
const DefaultIncludePattern = "**/*.java"

// DefaultExcludeSubstrings are path fragments skipped during collection.
// Matching is case-insensitive.
var DefaultExcludeSubstrings = []string{
	"test",
	"target",
	"build",
	".git",
	".svn",
	".hg",
	"out",
	"node_modules",
}

// Analysis defaults
const (
	// DefaultMaxGoroutines bounds the number of files analyzed concurrently
	DefaultMaxGoroutines = 8

	// DefaultTimeoutSeconds is the overall analysis timeout; 0 disables it
	DefaultTimeoutSeconds = 0

	// DefaultMinGrade is the weakest grade the check command accepts
	DefaultMinGrade = "C"
)
