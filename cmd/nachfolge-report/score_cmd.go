package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
)

func newScoreCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score DOB [DOB...]",
		Short: "Show age and Nachfolge score for dates of birth",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "📅 As of %s\n\n", engine.Now().Format("2006-01-02"))

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DOB\tAGE\tSCORE\tVARIANT")
			for _, dob := range args {
				age := engine.CalculateAge(dob)
				ageText := "unknown"
				if age != nil {
					ageText = fmt.Sprint(*age)
				}
				score := scoring.NachfolgeScore(age)
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s %s\n", dob, ageText, score, variantIcon(scoring.ScoreVariantFor(score)), scoring.ScoreVariantFor(score))
			}
			return tw.Flush()
		},
	}
}
