package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/constants"
)

// ProjectType represents the build layout of a Java project
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypeMaven   ProjectType = "maven"
	ProjectTypeGradle  ProjectType = "gradle"
	ProjectTypeAndroid ProjectType = "android"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds collection patterns for a project type
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds threshold values for a strictness level
type StrictnessPreset struct {
	MaxMethodLength         float64
	MaxParameterCount       float64
	MaxIdentifierLength     float64
	MagicNumberThreshold    float64
	MaxConditionalOperators float64
	MaxNestingDepth         float64
	MaxStatementLength      float64
	MinGrade                string
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	base := constants.DefaultExcludeSubstrings
	with := func(extra ...string) []string {
		return append(append([]string{}, base...), extra...)
	}

	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{constants.DefaultIncludePattern},
			ExcludePatterns: with(),
		},
		ProjectTypeMaven: {
			IncludePatterns: []string{"src/main/java/**/*.java"},
			ExcludePatterns: with("generated-sources"),
		},
		ProjectTypeGradle: {
			IncludePatterns: []string{"src/main/java/**/*.java"},
			ExcludePatterns: with(".gradle", "generated"),
		},
		ProjectTypeAndroid: {
			IncludePatterns: []string{"app/src/main/java/**/*.java", "src/main/java/**/*.java"},
			ExcludePatterns: with(".gradle", "generated", "R.java", "BuildConfig.java"),
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MaxMethodLength:         80,
			MaxParameterCount:       6,
			MaxIdentifierLength:     40,
			MagicNumberThreshold:    10,
			MaxConditionalOperators: 4,
			MaxNestingDepth:         5,
			MaxStatementLength:      140,
			MinGrade:                "D",
		},
		StrictnessStandard: {
			MaxMethodLength:         50,
			MaxParameterCount:       4,
			MaxIdentifierLength:     32,
			MagicNumberThreshold:    1,
			MaxConditionalOperators: 3,
			MaxNestingDepth:         4,
			MaxStatementLength:      120,
			MinGrade:                constants.DefaultMinGrade,
		},
		StrictnessStrict: {
			MaxMethodLength:         30,
			MaxParameterCount:       3,
			MaxIdentifierLength:     24,
			MagicNumberThreshold:    1,
			MaxConditionalOperators: 2,
			MaxNestingDepth:         3,
			MaxStatementLength:      100,
			MinGrade:                "B",
		},
	}
}

// BuildConfig returns the configuration a preset combination stands for.
// Every named detector is listed explicitly as enabled.
func BuildConfig(projectType ProjectType, strictness Strictness, detectorNames []string) *Config {
	project, ok := GetProjectPresets()[projectType]
	if !ok {
		project = GetProjectPresets()[ProjectTypeGeneric]
	}
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}

	cfg := DefaultConfig()
	cfg.Analysis.IncludePatterns = project.IncludePatterns
	cfg.Analysis.ExcludePatterns = project.ExcludePatterns
	cfg.Grading.MinGrade = strict.MinGrade

	num := func(v float64) *float64 { return &v }
	cfg.Thresholds = ThresholdsConfig{
		MaxMethodLength:         num(strict.MaxMethodLength),
		MaxParameterCount:       num(strict.MaxParameterCount),
		MaxIdentifierLength:     num(strict.MaxIdentifierLength),
		MagicNumberThreshold:    num(strict.MagicNumberThreshold),
		MaxConditionalOperators: num(strict.MaxConditionalOperators),
		MaxNestingDepth:         num(strict.MaxNestingDepth),
		MaxStatementLength:      num(strict.MaxStatementLength),
		MaxStatementOperators:   num(5),
		MaxChainLength:          num(3),
		MaxImports:              num(10),
		MaxPublicFields:         num(5),
		AbstractionMinMembers:   num(2),
	}

	for _, name := range detectorNames {
		cfg.Detectors[name] = domain.DetectorSettings{Enabled: domain.BoolPtr(true)}
	}
	return cfg
}

var sectionComments = map[string]string{
	"detectors":   "Per-detector switches. Thresholds set here win over the flat knobs below.",
	"thresholds":  "Flat threshold knobs, each mapped onto one detector threshold.",
	"analysis":    "Source collection. Exclude patterns are case-insensitive path substrings.",
	"output":      "Report format: text, json or yaml.",
	"performance": "Worker pool. max_goroutines 0 uses the default; timeout_seconds 0 disables the timeout.",
	"grading":     "Quality gate used by 'smellscan check'. max_critical -1 disables the rule.",
}

var knobComments = map[string]string{
	"max_method_length":         "long-method: max_lines",
	"max_parameter_count":       "long-parameter-list: max_parameters",
	"max_identifier_length":     "long-identifier: max_length",
	"magic_number_threshold":    "magic-number: literals above this absolute value are reported",
	"max_conditional_operators": "complex-conditional: && and || per condition",
	"max_nesting_depth":         "deep-nesting: nested control statements per method",
	"max_statement_length":      "long-statement: display width of a line",
	"max_statement_operators":   "long-statement: operator characters per line",
	"max_chain_length":          "long-statement: chained calls per line",
	"max_imports":               "broken-modularization: imports per file",
	"max_public_fields":         "broken-modularization: public fields per file",
	"abstraction_min_members":   "unnecessary-abstraction: members an abstraction should declare",
}

// GetFullConfigTemplate renders a documented YAML configuration file
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness, detectorNames []string) (string, error) {
	cfg := BuildConfig(projectType, strictness, detectorNames)

	var root yaml.Node
	if err := root.Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config template: %w", err)
	}
	annotate(&root, sectionComments)
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "thresholds" {
			annotate(root.Content[i+1], knobComments)
		}
	}

	doc := &yaml.Node{
		Kind: yaml.DocumentNode,
		HeadComment: fmt.Sprintf("%s configuration (project: %s, strictness: %s)",
			constants.ToolName, projectType, strictness),
		Content: []*yaml.Node{&root},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to render config template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to render config template: %w", err)
	}
	return buf.String(), nil
}

// annotate attaches head comments to the keys of a mapping node
func annotate(mapping *yaml.Node, comments map[string]string) {
	if mapping.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		if c, ok := comments[key.Value]; ok {
			key.HeadComment = c
		}
	}
}

// GetMinimalConfigTemplate returns a short configuration with the essential options only
func GetMinimalConfigTemplate() string {
	return `# smellscan configuration
analysis:
  include_patterns:
    - "**/*.java"
  exclude_patterns:
    - test
    - target
    - build

thresholds:
  max_method_length: 50
  max_parameter_count: 4
  magic_number_threshold: 1

grading:
  min_grade: C
`
}
