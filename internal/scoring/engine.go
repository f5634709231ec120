package scoring

import (
	"time"

	"golang.org/x/text/language"

	"github.com/ajharbinger/nachfolge-radar/internal/models"
)

// ScoringEngine evaluates succession scores and ranks company records.
// Every call reads the clock once and derives all values from the records
// it is given.
type ScoringEngine struct {
	clock     func() time.Time
	collation language.Tag
}

// Option configures a ScoringEngine
type Option func(*ScoringEngine)

// WithClock sets the source of "today" used for age calculation
func WithClock(clock func() time.Time) Option {
	return func(e *ScoringEngine) {
		e.clock = clock
	}
}

// WithCollation sets the language used to order company names
func WithCollation(tag language.Tag) Option {
	return func(e *ScoringEngine) {
		e.collation = tag
	}
}

// NewScoringEngine creates a new scoring engine instance
func NewScoringEngine(opts ...Option) *ScoringEngine {
	e := &ScoringEngine{
		clock:     time.Now,
		collation: DefaultCollation,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current time
func (e *ScoringEngine) Now() time.Time {
	return e.clock()
}

// CalculateAge returns the age for a date of birth as of today
func (e *ScoringEngine) CalculateAge(dob string) *int {
	return CalculateAge(dob, e.clock())
}

// ParseShareholders parses and scores the shareholders of a company
func (e *ScoringEngine) ParseShareholders(c *models.Company) []ParsedShareholder {
	return ParseShareholders(c, e.clock())
}

// CompanyNachfolgeScore returns the company-level succession score
func (e *ScoringEngine) CompanyNachfolgeScore(c *models.Company) int {
	return CompanyNachfolgeScore(c, e.clock())
}

// FilterCompanies filters and orders records
func (e *ScoringEngine) FilterCompanies(records []models.Company, spec FilterSpec) []models.Company {
	ranked := e.RankCompanies(records, spec)

	out := make([]models.Company, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].Company
	}
	return out
}

// RankCompanies filters and orders records, keeping derived values
func (e *ScoringEngine) RankCompanies(records []models.Company, spec FilterSpec) []RankedCompany {
	return rankCompanies(records, spec, e.clock(), e.collation)
}
