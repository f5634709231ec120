package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajharbinger/nachfolge-radar/internal/services"
)

func newImportCmd(opts *globalOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Insert records from a JSON array or export into the target store",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", input, err)
			}
			defer f.Close()

			records, err := services.DecodeCompanies(f)
			if err != nil {
				return err
			}

			svc, cleanup, err := opts.openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.Import.Import(cmd.Context(), records)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Imported %d companies (%d skipped without a name)\n", result.Imported, result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON file to import (required)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
