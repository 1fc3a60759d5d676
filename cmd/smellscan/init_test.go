package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/smellscan/internal/config"
	"github.com/ludo-technologies/smellscan/internal/detector"
)

func TestInitCommand_BasicConfigCreation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "smellscan.yaml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	contentStr := string(content)
	expectedSections := []string{
		"detectors:",
		"thresholds:",
		"analysis:",
		"output:",
		"performance:",
		"grading:",
		"max_method_length: 50",
		"# long-method: max_lines",
	}
	for _, section := range expectedSections {
		if !strings.Contains(contentStr, section) {
			t.Errorf("Config file missing expected section: %s", section)
		}
	}
	for _, name := range detector.DefaultRegistry().Names() {
		if !strings.Contains(contentStr, name+":") {
			t.Errorf("Config file should list detector %s", name)
		}
	}
}

func TestInitCommand_GeneratedConfigLoads(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "smellscan.yaml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("generated config should load: %v", err)
	}
	if cfg.Grading.MinGrade != "C" {
		t.Errorf("expected the standard gate C, got %s", cfg.Grading.MinGrade)
	}
	if got := cfg.DetectorConfig().Thresholds("long-parameter-list")["max_parameters"]; got != 4 {
		t.Errorf("expected max_parameters 4, got %v", got)
	}
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "smellscan.yaml")

	if err := os.WriteFile(configPath, []byte("existing: true\n"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected error when file exists without --force")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	cmd = initCmd()
	cmd.SetArgs([]string{"--config", configPath, "--force"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	if !strings.Contains(string(content), "thresholds:") {
		t.Error("Config file was not overwritten with new content")
	}
}

func TestInitCommand_MinimalConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "smellscan.yaml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath, "--minimal"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	contentStr := string(content)
	for _, section := range []string{"analysis:", "thresholds:", "grading:"} {
		if !strings.Contains(contentStr, section) {
			t.Errorf("Minimal config missing %s", section)
		}
	}
	if strings.Contains(contentStr, "detectors:") {
		t.Error("Minimal config should not list detectors")
	}
}

func TestInitCommand_InvalidDirectory(t *testing.T) {
	cmd := initCmd()
	cmd.SetArgs([]string{"--config", "/nonexistent/directory/smellscan.yaml"})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected error when directory doesn't exist")
	}
	if !strings.Contains(err.Error(), "directory does not exist") {
		t.Errorf("Expected 'directory does not exist' error, got: %v", err)
	}
}

func TestInitCommand_FullConfigSize(t *testing.T) {
	tmpDir := t.TempDir()

	fullPath := filepath.Join(tmpDir, "full.yaml")
	cmd := initCmd()
	cmd.SetArgs([]string{"--config", fullPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	minimalPath := filepath.Join(tmpDir, "minimal.yaml")
	cmd = initCmd()
	cmd.SetArgs([]string{"--config", minimalPath, "--minimal"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}

	fullContent, _ := os.ReadFile(fullPath)
	minimalContent, _ := os.ReadFile(minimalPath)
	if len(fullContent) <= len(minimalContent) {
		t.Error("Full config should be larger than minimal config")
	}
}

func TestInitCommand_FlagsExist(t *testing.T) {
	cmd := initCmd()

	for _, flagName := range []string{"config", "force", "minimal", "interactive"} {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
	if cmd.Flags().ShorthandLookup("i") == nil {
		t.Error("Missing short flag -i for --interactive")
	}
	if def := cmd.Flags().Lookup("config").DefValue; def != "smellscan.yaml" {
		t.Errorf("Expected default config path smellscan.yaml, got %s", def)
	}
}
