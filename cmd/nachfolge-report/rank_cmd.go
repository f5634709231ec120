package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
)

func newRankCmd(opts *globalOptions) *cobra.Command {
	var (
		filters filterFlags
		limit   int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print the filtered companies, most promising first",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := svc.Company.ListCompanies(cmd.Context(), filters.spec(cmd))
			if err != nil {
				return err
			}
			if limit > 0 && len(list.Companies) > limit {
				list.Companies = list.Companies[:limit]
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			fmt.Fprintf(out, "🎯 Nachfolge Radar: %d of %d companies match\n\n", list.FilteredCount, list.TotalCount)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tSCORE\tCOMPLETE\tCOMPANY\tLOCATION\tEMPLOYEES\tEQUITY")
			for i, c := range list.Companies {
				fmt.Fprintf(tw, "%d\t%s %d\t%d\t%s\t%s\t%s\t%s\n",
					i+1, variantIcon(c.Variant), c.NachfolgeScore, c.Completeness,
					c.Company.Name(), c.ShortAddress, c.EmployeesDisplay, c.EquityDisplay)
			}
			return tw.Flush()
		},
	}

	addFilterFlags(cmd, &filters)
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum rows to print (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func variantIcon(variant scoring.ScoreVariant) string {
	switch variant {
	case scoring.VariantHigh:
		return "🔴"
	case scoring.VariantMedium:
		return "🟠"
	default:
		return "🟢"
	}
}
