package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/smellscan/internal/config"
	"github.com/ludo-technologies/smellscan/internal/constants"
	"github.com/ludo-technologies/smellscan/internal/detector"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a smellscan configuration file",
		Long: `Generate a documented smellscan configuration file with sensible defaults.

By default, creates smellscan.yaml in the current directory with every
detector and threshold listed. Use --interactive for a guided setup wizard.

Examples:
  # Create smellscan.yaml in current directory
  smellscan init

  # Custom output path
  smellscan init --config config/smellscan.yaml

  # Overwrite existing file
  smellscan init --force

  # Generate smaller config with essential options only
  smellscan init --minimal

  # Interactive setup wizard
  smellscan init --interactive
  smellscan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().Bool("force", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")

	projectType := config.ProjectTypeGeneric
	strictness := config.StrictnessStandard

	if interactive {
		var err error
		projectType, strictness, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		var err error
		content, err = config.GetFullConfigTemplate(projectType, strictness, detector.DefaultRegistry().Names())
		if err != nil {
			return fmt.Errorf("failed to render config template: %w", err)
		}
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", displayPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'smellscan analyze .' to analyze your project.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (config.ProjectType, config.Strictness, string, error) {
	fmt.Println()
	fmt.Println("smellscan Configuration Setup")
	fmt.Println("=============================")
	fmt.Println()

	projectTypes := []struct {
		Label string
		Value config.ProjectType
	}{
		{"Generic Java sources", config.ProjectTypeGeneric},
		{"Maven project", config.ProjectTypeMaven},
		{"Gradle project", config.ProjectTypeGradle},
		{"Android app", config.ProjectTypeAndroid},
	}

	projectPrompt := promptui.Select{
		Label: "What type of project is this?",
		Items: projectTypes,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }}",
			Inactive: "   {{ .Label | white }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	projectIdx, _, err := projectPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("project selection cancelled: %w", err)
	}

	fmt.Println()

	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "Balanced thresholds, gate at grade C", config.StrictnessStandard},
		{"Relaxed", "Higher thresholds for legacy code, gate at grade D", config.StrictnessRelaxed},
		{"Strict", "Lower thresholds for CI/CD enforcement, gate at grade B", config.StrictnessStrict},
	}

	strictnessPrompt := promptui.Select{
		Label: "How strict should the analysis be?",
		Items: strictnessLevels,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
			Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("strictness selection cancelled: %w", err)
	}

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	return projectTypes[projectIdx].Value, strictnessLevels[strictnessIdx].Value, outputPath, nil
}
