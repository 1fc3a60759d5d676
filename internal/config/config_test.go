package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/smellscan/domain"
)

var knownDetectors = []string{
	"magic-number", "long-identifier", "long-parameter-list", "long-statement",
	"broken-modularization", "deficient-encapsulation", "unnecessary-abstraction",
	"missing-default", "unused-variable", "resource-leak", "listener-leak",
	"thread-leak", "long-method", "complex-conditional", "deep-nesting",
}

func floatPtr(v float64) *float64 { return &v }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig should not return nil")
	}
	if config.Output.Format != "text" {
		t.Errorf("Expected Format 'text', got '%s'", config.Output.Format)
	}
	if !config.Analysis.RespectGitignore {
		t.Error("RespectGitignore should be true by default")
	}
	if len(config.Analysis.IncludePatterns) != 1 || config.Analysis.IncludePatterns[0] != "**/*.java" {
		t.Errorf("Unexpected include patterns: %v", config.Analysis.IncludePatterns)
	}
	if len(config.Analysis.ExcludePatterns) != 8 {
		t.Errorf("Expected 8 exclude patterns, got %v", config.Analysis.ExcludePatterns)
	}
	if config.Grading.MaxCritical != -1 {
		t.Errorf("Expected MaxCritical -1, got %d", config.Grading.MaxCritical)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestLoadDefaultConfig_MatchesDefaultConfig(t *testing.T) {
	embedded, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("LoadDefaultConfig failed: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), embedded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("embedded default config differs (-want +got):\n%s", diff)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad format", func(c *Config) { c.Output.Format = "html" }, "output.format"},
		{"empty include", func(c *Config) { c.Analysis.IncludePatterns = nil }, "include_patterns"},
		{"negative goroutines", func(c *Config) { c.Performance.MaxGoroutines = -1 }, "max_goroutines"},
		{"negative timeout", func(c *Config) { c.Performance.TimeoutSeconds = -5 }, "timeout_seconds"},
		{"bad grade", func(c *Config) { c.Grading.MinGrade = "Z" }, "min_grade"},
		{"empty grade", func(c *Config) { c.Grading.MinGrade = "" }, ""},
		{"negative knob", func(c *Config) { c.Thresholds.MaxImports = floatPtr(-1) }, "thresholds.max_imports"},
		{"negative detector threshold", func(c *Config) {
			c.Detectors["long-method"] = domain.DetectorSettings{Thresholds: map[string]float64{"max_lines": -3}}
		}, "detectors.long-method.thresholds.max_lines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_DetectorConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.MaxMethodLength = floatPtr(30)
	cfg.Thresholds.MagicNumberThreshold = floatPtr(5)
	cfg.Thresholds.MaxChainLength = floatPtr(2)
	cfg.Detectors["long-method"] = domain.DetectorSettings{Thresholds: map[string]float64{"max_lines": 40}}
	cfg.Detectors["magic-number"] = domain.DetectorSettings{Enabled: domain.BoolPtr(false)}
	cfg.Detectors["thread-leak"] = domain.DetectorSettings{Thresholds: map[string]float64{"exempt_scoped_blocks": 1}}

	got := cfg.DetectorConfig()

	want := domain.DetectorConfig{
		"long-method":    {Thresholds: map[string]float64{"max_lines": 40}},
		"magic-number":   {Enabled: domain.BoolPtr(false), Thresholds: map[string]float64{"threshold": 5}},
		"long-statement": {Thresholds: map[string]float64{"max_chain_length": 2}},
		"thread-leak":    {Thresholds: map[string]float64{"exempt_scoped_blocks": 1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DetectorConfig mismatch (-want +got):\n%s", diff)
	}
	if got.IsEnabled("magic-number") {
		t.Error("magic-number should be disabled")
	}
	if !got.IsEnabled("deep-nesting") {
		t.Error("unlisted detectors should be enabled")
	}
}

func TestConfig_DetectorConfig_Empty(t *testing.T) {
	got := DefaultConfig().DetectorConfig()
	if len(got) != 0 {
		t.Errorf("Expected empty detector config, got %v", got)
	}
}

func TestConfig_UnknownDetectors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detectors["magic-number"] = domain.DetectorSettings{}
	cfg.Detectors["magic-numbr"] = domain.DetectorSettings{}
	cfg.Detectors["zzz"] = domain.DetectorSettings{}

	errs := cfg.UnknownDetectors(knownDetectors)
	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %v", errs)
	}

	first := errs[0].Error()
	if !strings.Contains(first, `unknown detector "magic-numbr"`) || !strings.Contains(first, `did you mean "magic-number"?`) {
		t.Errorf("Unexpected first error: %s", first)
	}
	if !strings.HasPrefix(first, "[CONFIG_ERROR]") {
		t.Errorf("Expected a config error, got %s", first)
	}
	if strings.Contains(errs[1].Error(), "did you mean") {
		t.Errorf("Did not expect a suggestion for zzz: %s", errs[1].Error())
	}
}

func TestSuggest(t *testing.T) {
	if got := Suggest("deepnest", knownDetectors); got != "deep-nesting" {
		t.Errorf("Expected deep-nesting, got %q", got)
	}
	if got := Suggest("qqq", knownDetectors); got != "" {
		t.Errorf("Expected no suggestion, got %q", got)
	}
}

func TestLoadConfig_Default(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with empty path failed: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), config); diff != "" {
		t.Errorf("Loaded config should match default (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_NonExistent(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-existent config file")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smellscan.yaml")
	writeFile(t, path, "output:\n  format: xml\n")

	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Expected invalid configuration error, got %v", err)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smellscan.yaml")
	writeFile(t, path, "grading:\n  min_grade: C\n")
	t.Setenv("SMELLSCAN_GRADING_MIN_GRADE", "B")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Grading.MinGrade != "B" {
		t.Errorf("expected the environment to win, got %s", cfg.Grading.MinGrade)
	}
}

func TestLoadConfigWithTarget_DiscoversUpward(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "smellscan.yaml"), `
thresholds:
  max_method_length: 30
detectors:
  magic-number:
    enabled: false
  long-statement:
    thresholds:
      max_line_length: 100
output:
  format: json
`)
	target := filepath.Join(root, "src", "main", "java")
	writeFile(t, filepath.Join(target, "App.java"), "class App {}\n")

	cfg, err := LoadConfigWithTarget("", filepath.Join(target, "App.java"))
	if err != nil {
		t.Fatalf("LoadConfigWithTarget failed: %v", err)
	}

	if cfg.Output.Format != "json" {
		t.Errorf("Expected json format, got %s", cfg.Output.Format)
	}
	if !cfg.Analysis.RespectGitignore {
		t.Error("Unset values should keep their defaults")
	}
	if cfg.Thresholds.MaxMethodLength == nil || *cfg.Thresholds.MaxMethodLength != 30 {
		t.Errorf("Expected max_method_length 30, got %v", cfg.Thresholds.MaxMethodLength)
	}

	dc := cfg.DetectorConfig()
	if dc.IsEnabled("magic-number") {
		t.Error("magic-number should be disabled by the file")
	}
	if dc.Thresholds("long-statement")["max_line_length"] != 100 {
		t.Errorf("Expected long-statement max_line_length 100, got %v", dc.Thresholds("long-statement"))
	}
	if dc.Thresholds("long-method")["max_lines"] != 30 {
		t.Errorf("Expected long-method max_lines 30, got %v", dc.Thresholds("long-method"))
	}
}

func TestSearchConfigInDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "smellscan.yml")
	writeFile(t, configPath, "output:\n  format: yaml\n")

	if result := searchConfigInDirectory(tempDir, configCandidates); result != configPath {
		t.Errorf("Expected %s, got %s", configPath, result)
	}

	if result := searchConfigInDirectory(t.TempDir(), configCandidates); result != "" {
		t.Error("Expected empty string for directory without config")
	}
}

func TestGetFullConfigTemplate(t *testing.T) {
	tests := []struct {
		strictness Strictness
		maxLines   float64
		minGrade   string
	}{
		{StrictnessRelaxed, 80, "D"},
		{StrictnessStandard, 50, "C"},
		{StrictnessStrict, 30, "B"},
	}

	for _, tt := range tests {
		t.Run(string(tt.strictness), func(t *testing.T) {
			content, err := GetFullConfigTemplate(ProjectTypeMaven, tt.strictness, knownDetectors)
			if err != nil {
				t.Fatalf("GetFullConfigTemplate failed: %v", err)
			}
			if !strings.Contains(content, "# Flat threshold knobs") {
				t.Error("Template should document the thresholds section")
			}
			if !strings.Contains(content, "# long-method: max_lines") {
				t.Error("Template should document each knob")
			}

			var cfg Config
			if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
				t.Fatalf("Template is not valid YAML: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Template config should be valid: %v", err)
			}
			if cfg.Thresholds.MaxMethodLength == nil || *cfg.Thresholds.MaxMethodLength != tt.maxLines {
				t.Errorf("Expected max_method_length %v, got %v", tt.maxLines, cfg.Thresholds.MaxMethodLength)
			}
			if cfg.Grading.MinGrade != tt.minGrade {
				t.Errorf("Expected min_grade %s, got %s", tt.minGrade, cfg.Grading.MinGrade)
			}
			if len(cfg.Detectors) != len(knownDetectors) {
				t.Errorf("Expected %d detectors, got %d", len(knownDetectors), len(cfg.Detectors))
			}
			if cfg.Analysis.IncludePatterns[0] != "src/main/java/**/*.java" {
				t.Errorf("Unexpected include patterns %v", cfg.Analysis.IncludePatterns)
			}
		})
	}
}

func TestGetMinimalConfigTemplate_Loads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smellscan.yaml")
	writeFile(t, path, GetMinimalConfigTemplate())

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Minimal template should load: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Minimal template should keep the default format, got %s", cfg.Output.Format)
	}
	if *cfg.Thresholds.MaxParameterCount != 4 {
		t.Errorf("Expected max_parameter_count 4, got %v", *cfg.Thresholds.MaxParameterCount)
	}
}
