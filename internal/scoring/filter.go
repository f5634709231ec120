package scoring

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ajharbinger/nachfolge-radar/internal/models"
)

// DefaultCollation orders company names the way the German-language UI does
var DefaultCollation = language.German

// FilterSpec holds the user's list filters. Nil bounds are open and all
// bounds are inclusive.
type FilterSpec struct {
	SearchQuery       string   `json:"search_query,omitempty"`
	MinEmployees      *int     `json:"min_employees,omitempty"`
	MaxEmployees      *int     `json:"max_employees,omitempty"`
	MinEquity         *float64 `json:"min_equity,omitempty"`
	MaxEquity         *float64 `json:"max_equity,omitempty"`
	MinIncome         *float64 `json:"min_income,omitempty"`
	MaxIncome         *float64 `json:"max_income,omitempty"`
	MinNachfolgeScore *int     `json:"min_nachfolge_score,omitempty"`
	SelectedCity      string   `json:"selected_city,omitempty"`
}

// DefaultFilterSpec returns a spec that lets every record through
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{}
}

// RankedCompany is a record that passed the filter, with its derived values
type RankedCompany struct {
	Company        models.Company `json:"company"`
	NachfolgeScore int            `json:"nachfolge_score"`
	Variant        ScoreVariant   `json:"variant"`
	MarkerColor    string         `json:"marker_color"`
	Completeness   int            `json:"completeness"`
}

// FilterCompanies returns the records matching spec, most complete first,
// then by Nachfolge score, then by name.
func FilterCompanies(records []models.Company, spec FilterSpec, now time.Time) []models.Company {
	ranked := rankCompanies(records, spec, now, DefaultCollation)

	out := make([]models.Company, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].Company
	}
	return out
}

// RankCompanies is FilterCompanies with the derived values kept alongside
// each record.
func RankCompanies(records []models.Company, spec FilterSpec, now time.Time) []RankedCompany {
	return rankCompanies(records, spec, now, DefaultCollation)
}

func rankCompanies(records []models.Company, spec FilterSpec, now time.Time, tag language.Tag) []RankedCompany {
	query := strings.ToLower(spec.SearchQuery)

	ranked := make([]RankedCompany, 0, len(records))
	for i := range records {
		c := &records[i]
		if !matchesBounds(c, spec, query) {
			continue
		}

		score := CompanyNachfolgeScore(c, now)
		if spec.MinNachfolgeScore != nil && score < *spec.MinNachfolgeScore {
			continue
		}
		if spec.SelectedCity != "" && c.City() != spec.SelectedCity {
			continue
		}

		ranked = append(ranked, RankedCompany{
			Company:        *c,
			NachfolgeScore: score,
			Variant:        ScoreVariantFor(score),
			MarkerColor:    ScoreColor(score),
			Completeness:   CompletenessScore(c),
		})
	}

	collator := collate.New(tag)
	slices.SortStableFunc(ranked, func(a, b RankedCompany) int {
		if c := cmp.Compare(b.Completeness, a.Completeness); c != 0 {
			return c
		}
		if c := cmp.Compare(b.NachfolgeScore, a.NachfolgeScore); c != 0 {
			return c
		}
		return collator.CompareString(a.Company.Name(), b.Company.Name())
	})

	return ranked
}

// matchesBounds applies the text query and the numeric range filters.
// Missing numbers count as 0.
func matchesBounds(c *models.Company, spec FilterSpec, query string) bool {
	if query != "" {
		nameMatch := c.CompanyName != nil && strings.Contains(strings.ToLower(*c.CompanyName), query)
		cityMatch := c.AddressCity != nil && strings.Contains(strings.ToLower(*c.AddressCity), query)
		if !nameMatch && !cityMatch {
			return false
		}
	}

	employees := 0
	if c.EmployeeCount != nil {
		employees = *c.EmployeeCount
	}
	if !withinInt(employees, spec.MinEmployees, spec.MaxEmployees) {
		return false
	}

	if !withinFloat(valueOrZero(c.EquityEUR), spec.MinEquity, spec.MaxEquity) {
		return false
	}

	return withinFloat(valueOrZero(c.NetIncomeEUR), spec.MinIncome, spec.MaxIncome)
}

func withinInt(v int, lo, hi *int) bool {
	if lo != nil && v < *lo {
		return false
	}
	return hi == nil || v <= *hi
}

func withinFloat(v float64, lo, hi *float64) bool {
	if lo != nil && v < *lo {
		return false
	}
	return hi == nil || v <= *hi
}

func valueOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
