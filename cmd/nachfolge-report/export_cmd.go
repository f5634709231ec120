package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajharbinger/nachfolge-radar/internal/services"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var (
		filters filterFlags
		format  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered, ranked list as CSV or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := services.ParseExportFormat(format)
			if err != nil {
				return err
			}

			svc, cleanup, err := opts.openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := svc.Export.Export(cmd.Context(), filters.spec(cmd), exportFormat)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✅ Exported to %s (%d bytes)\n", output, len(data))
			return nil
		},
	}

	addFilterFlags(cmd, &filters)
	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
