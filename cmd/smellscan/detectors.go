package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/detector"
	"github.com/ludo-technologies/smellscan/service"
)

// detectorInfo describes one registered detector
type detectorInfo struct {
	Name       string              `json:"name" yaml:"name"`
	Kind       domain.DetectorKind `json:"kind" yaml:"kind"`
	Family     detector.Family     `json:"family" yaml:"family"`
	Thresholds detector.Thresholds `json:"thresholds" yaml:"thresholds"`
}

func detectorsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List the available detectors and their default thresholds",
		Long: `List every detector in run order with its issue type, family and
default thresholds. Use the names with --select and --disable, or as keys
of the detectors section of the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := describeDetectors(detector.DefaultRegistry())
			switch domain.OutputFormat(format) {
			case domain.OutputFormatJSON:
				return service.WriteJSON(cmd.OutOrStdout(), infos)
			case domain.OutputFormatYAML:
				return service.WriteYAML(cmd.OutOrStdout(), infos)
			case domain.OutputFormatText:
				return writeDetectorTable(cmd.OutOrStdout(), infos)
			default:
				return domain.NewUnsupportedFormatError(format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, yaml")
	return cmd
}

func describeDetectors(registry *detector.Registry) []detectorInfo {
	var infos []detectorInfo
	for _, d := range registry.All() {
		infos = append(infos, detectorInfo{
			Name:       d.Name(),
			Kind:       d.Kind(),
			Family:     d.Family(),
			Thresholds: d.Defaults(),
		})
	}
	return infos
}

func writeDetectorTable(w io.Writer, infos []detectorInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tFAMILY\tDEFAULTS")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, info.Kind, info.Family, formatThresholds(info.Thresholds))
	}
	return tw.Flush()
}

func formatThresholds(t detector.Thresholds) string {
	if len(t) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.FormatFloat(t[k], 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
