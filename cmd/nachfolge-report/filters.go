package main

import (
	"github.com/spf13/cobra"

	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
)

// filterFlags mirrors scoring.FilterSpec on the command line
type filterFlags struct {
	query        string
	city         string
	minEmployees int
	maxEmployees int
	minEquity    float64
	maxEquity    float64
	minIncome    float64
	maxIncome    float64
	minScore     int
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Search company name or city")
	cmd.Flags().StringVar(&f.city, "city", "", "Exact city")
	cmd.Flags().IntVar(&f.minEmployees, "min-employees", 0, "Minimum employee count")
	cmd.Flags().IntVar(&f.maxEmployees, "max-employees", 0, "Maximum employee count")
	cmd.Flags().Float64Var(&f.minEquity, "min-equity", 0, "Minimum equity in EUR")
	cmd.Flags().Float64Var(&f.maxEquity, "max-equity", 0, "Maximum equity in EUR")
	cmd.Flags().Float64Var(&f.minIncome, "min-income", 0, "Minimum net income in EUR")
	cmd.Flags().Float64Var(&f.maxIncome, "max-income", 0, "Maximum net income in EUR")
	cmd.Flags().IntVar(&f.minScore, "min-score", 0, "Minimum Nachfolge score (1-10)")
}

// spec only sets the bounds whose flags were given
func (f *filterFlags) spec(cmd *cobra.Command) scoring.FilterSpec {
	spec := scoring.DefaultFilterSpec()
	spec.SearchQuery = f.query
	spec.SelectedCity = f.city

	flags := cmd.Flags()
	if flags.Changed("min-employees") {
		spec.MinEmployees = &f.minEmployees
	}
	if flags.Changed("max-employees") {
		spec.MaxEmployees = &f.maxEmployees
	}
	if flags.Changed("min-equity") {
		spec.MinEquity = &f.minEquity
	}
	if flags.Changed("max-equity") {
		spec.MaxEquity = &f.maxEquity
	}
	if flags.Changed("min-income") {
		spec.MinIncome = &f.minIncome
	}
	if flags.Changed("max-income") {
		spec.MaxIncome = &f.maxIncome
	}
	if flags.Changed("min-score") {
		spec.MinNachfolgeScore = &f.minScore
	}
	return spec
}
