package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/smellscan/app"
	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/service"
)

func validateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate <report-file>",
		Short: "Validate a saved text report",
		Long: `Parse a text report written by 'smellscan analyze' and check that its
severity, issue type and file breakdowns agree with its detailed issues.

Exits with code 1 when the report is invalid.

Examples:
  smellscan analyze --output report.txt src/
  smellscan validate report.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.NewReportUseCase().Validate(args[0])
			if err != nil {
				return err
			}
			if err := service.NewOutputFormatter().WriteValidation(result, domain.OutputFormat(format), cmd.OutOrStdout()); err != nil {
				return err
			}
			if !result.IsValid {
				return &ExitError{Code: 1}
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, yaml")
	return cmd
}

func highlightCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "highlight <report-file>",
		Short: "Print the issue lines of a saved report per file and issue type",
		Long: `Read a text report and print, for every file, the sorted issue lines of
each issue type. Editors can use the map to highlight offending lines.

Examples:
  smellscan highlight report.txt
  smellscan highlight --format yaml report.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			highlights, err := app.NewReportUseCase().Highlight(args[0])
			if err != nil {
				return err
			}
			return service.NewOutputFormatter().WriteHighlight(highlights, domain.OutputFormat(format), cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml")
	return cmd
}
