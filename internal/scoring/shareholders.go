package scoring

import (
	"strings"
	"time"

	"github.com/ajharbinger/nachfolge-radar/internal/models"
)

// ParsedShareholder is a shareholder with its derived age and score
type ParsedShareholder struct {
	Name           string       `json:"name"`
	DOB            *string      `json:"dob"`
	Age            *int         `json:"age"`
	NachfolgeScore int          `json:"nachfolge_score"`
	Variant        ScoreVariant `json:"variant"`
	Percentage     *float64     `json:"percentage"`
	Role           string       `json:"role,omitempty"`
}

// rawShareholder is a source entry before age and score are derived.
type rawShareholder struct {
	name       string
	dob        *string
	percentage *float64
	role       string
}

// shareholderSource is either the structured JSON list or the pair of
// comma-separated strings.
type shareholderSource interface {
	entries() []rawShareholder
}

type structuredSource struct {
	details models.ShareholderDetails
}

func (s structuredSource) entries() []rawShareholder {
	out := make([]rawShareholder, 0, len(s.details))
	for _, d := range s.details {
		if d.Name == "" {
			continue
		}

		entry := rawShareholder{
			name:       d.Name,
			percentage: d.Percentage,
			role:       d.Role,
		}
		if entry.percentage == nil {
			entry.percentage = d.OwnershipPercentage
		}
		if d.DOB != "" {
			dob := d.DOB
			entry.dob = &dob
		}
		out = append(out, entry)
	}
	return out
}

type delimitedSource struct {
	names string
	dobs  string
}

func (s delimitedSource) entries() []rawShareholder {
	names := splitNonEmpty(s.names)
	dobs := splitNonEmpty(s.dobs)

	out := make([]rawShareholder, 0, len(names))
	for i, name := range names {
		entry := rawShareholder{name: name}
		// dates pair with the kept name at the same position
		if i < len(dobs) {
			dob := dobs[i]
			entry.dob = &dob
		}
		out = append(out, entry)
	}
	return out
}

// resolveShareholderSource picks the authoritative shareholder representation.
// A structured list wins as soon as it holds one named entry; the two sources
// are never merged.
func resolveShareholderSource(c *models.Company) shareholderSource {
	structured := structuredSource{details: c.ShareholderDetails}
	if len(structured.entries()) > 0 {
		return structured
	}

	var names, dobs string
	if c.ShareholderNames != nil {
		names = *c.ShareholderNames
	}
	if c.ShareholderDOBs != nil {
		dobs = *c.ShareholderDOBs
	}
	return delimitedSource{names: names, dobs: dobs}
}

// ParseShareholders normalizes a company's shareholder data and scores each
// shareholder as of now.
func ParseShareholders(c *models.Company, now time.Time) []ParsedShareholder {
	entries := resolveShareholderSource(c).entries()

	shareholders := make([]ParsedShareholder, 0, len(entries))
	for _, e := range entries {
		var age *int
		if e.dob != nil {
			age = CalculateAge(*e.dob, now)
		}
		score := NachfolgeScore(age)

		shareholders = append(shareholders, ParsedShareholder{
			Name:           e.name,
			DOB:            e.dob,
			Age:            age,
			NachfolgeScore: score,
			Variant:        ScoreVariantFor(score),
			Percentage:     e.percentage,
			Role:           e.role,
		})
	}
	return shareholders
}

// CompanyNachfolgeScore is the highest shareholder score, or 1 when the
// company has no shareholders.
func CompanyNachfolgeScore(c *models.Company, now time.Time) int {
	return highestScore(ParseShareholders(c, now))
}

func highestScore(shareholders []ParsedShareholder) int {
	best := MinNachfolgeScore
	for _, s := range shareholders {
		if s.NachfolgeScore > best {
			best = s.NachfolgeScore
		}
	}
	return best
}

// splitNonEmpty splits on commas, trims each token and drops empty ones
func splitNonEmpty(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
