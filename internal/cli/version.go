package cli

import (
	"fmt"

	"github.com/aryankumar/taskium/internal/output"
	"github.com/aryankumar/taskium/pkg/version"
	"github.com/spf13/cobra"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for taskium",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command) error {
	info := version.Get()
	w := cmd.OutOrStdout()

	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat == "" {
		// Default to human-readable format
		fmt.Fprintln(w, info.String())
		return nil
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(format, output.WithNoColor(true))
	if format == output.FormatTable {
		return formatter.Format(w, info.Fields())
	}
	if err := formatter.Format(w, info); err != nil {
		return fmt.Errorf("failed to format version info: %w", err)
	}
	return nil
}
