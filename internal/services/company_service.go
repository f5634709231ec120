package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/ajharbinger/nachfolge-radar/internal/errors"
	"github.com/ajharbinger/nachfolge-radar/internal/financials"
	"github.com/ajharbinger/nachfolge-radar/internal/geocode"
	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/internal/metrics"
	"github.com/ajharbinger/nachfolge-radar/internal/models"
	"github.com/ajharbinger/nachfolge-radar/internal/repository"
	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
)

// markerConcurrency bounds parallel geocoder calls per marker request
const markerConcurrency = 8

// companyServiceImpl implements CompanyService
type companyServiceImpl struct {
	repos    *repository.Repositories
	engine   *scoring.ScoringEngine
	geocoder geocode.Geocoder
	logger   logger.Logger
}

// newCompanyService creates a new company service implementation
func newCompanyService(deps Dependencies) *companyServiceImpl {
	return &companyServiceImpl{
		repos:    deps.Repos,
		engine:   deps.Engine,
		geocoder: deps.Geocoder,
		logger:   deps.Logger,
	}
}

// ValidateFilterSpec rejects inverted ranges and out-of-scale scores
func ValidateFilterSpec(spec scoring.FilterSpec) error {
	if spec.MinEmployees != nil && spec.MaxEmployees != nil && *spec.MinEmployees > *spec.MaxEmployees {
		return apperrors.InvalidInput("min_employees must not exceed max_employees", nil)
	}
	if spec.MinEquity != nil && spec.MaxEquity != nil && *spec.MinEquity > *spec.MaxEquity {
		return apperrors.InvalidInput("min_equity must not exceed max_equity", nil)
	}
	if spec.MinIncome != nil && spec.MaxIncome != nil && *spec.MinIncome > *spec.MaxIncome {
		return apperrors.InvalidInput("min_income must not exceed max_income", nil)
	}
	if s := spec.MinNachfolgeScore; s != nil && (*s < scoring.MinNachfolgeScore || *s > scoring.MaxNachfolgeScore) {
		return apperrors.InvalidInput(
			fmt.Sprintf("min_score must be between %d and %d", scoring.MinNachfolgeScore, scoring.MaxNachfolgeScore), nil)
	}
	return nil
}

// rank loads every record and runs the filter pipeline on it
func (s *companyServiceImpl) rank(ctx context.Context, spec scoring.FilterSpec, operation string) ([]scoring.RankedCompany, int, error) {
	if err := ValidateFilterSpec(spec); err != nil {
		return nil, 0, err
	}

	records, err := s.repos.Company.GetAll(ctx, repository.CompanyFilters{})
	if err != nil {
		s.logger.Error("Failed to load companies", err, "operation", operation)
		return nil, 0, apperrors.DatabaseError("failed to load companies", err).WithOperation(operation)
	}

	start := time.Now()
	ranked := s.engine.RankCompanies(records, spec)
	metrics.FilterDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.FilteredCompanies.Set(float64(len(ranked)))

	s.logger.Debug("Ranked companies", "operation", operation, "total", len(records), "filtered", len(ranked))
	return ranked, len(records), nil
}

// ListCompanies returns the filtered and ranked company list
func (s *companyServiceImpl) ListCompanies(ctx context.Context, spec scoring.FilterSpec) (*CompanyList, error) {
	ranked, total, err := s.rank(ctx, spec, "ListCompanies")
	if err != nil {
		return nil, err
	}

	listings := make([]CompanyListing, len(ranked))
	for i := range ranked {
		c := &ranked[i].Company
		listings[i] = CompanyListing{
			RankedCompany:    ranked[i],
			ShortAddress:     c.ShortAddress(),
			EquityDisplay:    financials.FormatCurrency(c.EquityEUR),
			NetIncomeDisplay: financials.FormatCurrency(c.NetIncomeEUR),
			EmployeesDisplay: financials.FormatNumber(c.EmployeeCount),
		}
	}

	return &CompanyList{
		TotalCount:    total,
		FilteredCount: len(listings),
		Filters:       spec,
		Companies:     listings,
	}, nil
}

func (s *companyServiceImpl) loadCompany(ctx context.Context, id int64, operation string) (*models.Company, error) {
	company, err := s.repos.Company.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("company %d not found", id), err).WithOperation(operation)
		}
		s.logger.Error("Failed to load company", err, "company_id", id)
		return nil, apperrors.DatabaseError("failed to load company", err).WithOperation(operation)
	}
	return company, nil
}

// GetCompany returns the detail view of one company
func (s *companyServiceImpl) GetCompany(ctx context.Context, id int64) (*CompanyDetail, error) {
	company, err := s.loadCompany(ctx, id, "GetCompany")
	if err != nil {
		return nil, err
	}

	shareholders := s.summarizeShareholders(company)
	return &CompanyDetail{
		Company:        *company,
		NachfolgeScore: shareholders.NachfolgeScore,
		Variant:        shareholders.Variant,
		MarkerColor:    scoring.ScoreColor(shareholders.NachfolgeScore),
		Completeness:   scoring.CompletenessScore(company),
		FullAddress:    company.FullAddress(),
		ShortAddress:   company.ShortAddress(),
		Shareholders:   shareholders,
		Financials:     financials.Summarize(company),
	}, nil
}

// GetShareholders returns the shareholder panel of one company
func (s *companyServiceImpl) GetShareholders(ctx context.Context, id int64) (*ShareholderSummary, error) {
	company, err := s.loadCompany(ctx, id, "GetShareholders")
	if err != nil {
		return nil, err
	}
	summary := s.summarizeShareholders(company)
	return &summary, nil
}

// GetFinancials returns the financial charts of one company
func (s *companyServiceImpl) GetFinancials(ctx context.Context, id int64) (*financials.Summary, error) {
	company, err := s.loadCompany(ctx, id, "GetFinancials")
	if err != nil {
		return nil, err
	}
	summary := financials.Summarize(company)
	return &summary, nil
}

func (s *companyServiceImpl) summarizeShareholders(company *models.Company) ShareholderSummary {
	parsed := s.engine.ParseShareholders(company)

	summary := ShareholderSummary{
		CompanyID:    company.ID,
		Shareholders: parsed,
		Ownership:    financials.OwnershipSlices(parsed),
	}

	score := scoring.MinNachfolgeScore
	for _, sh := range parsed {
		score = max(score, sh.NachfolgeScore)
		switch sh.Variant {
		case scoring.VariantHigh:
			summary.HighRisk++
		case scoring.VariantMedium:
			summary.MediumRisk++
		}
	}
	summary.NachfolgeScore = score
	summary.Variant = scoring.ScoreVariantFor(score)
	return summary
}

// GetMarkers geocodes the filtered companies. Records that cannot be
// located are counted and left off the map.
func (s *companyServiceImpl) GetMarkers(ctx context.Context, spec scoring.FilterSpec) (*MarkerSet, error) {
	if s.geocoder == nil {
		return nil, apperrors.ServiceError("geocoding is not configured", nil).WithOperation("GetMarkers")
	}

	ranked, _, err := s.rank(ctx, spec, "GetMarkers")
	if err != nil {
		return nil, err
	}

	positions := make([]*geocode.Coordinates, len(ranked))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(markerConcurrency)
	for i := range ranked {
		i := i
		company := &ranked[i].Company
		g.Go(func() error {
			coords, found, err := s.geocoder.Locate(gctx, company)
			if err != nil {
				s.logger.Warn("Geocoding failed, skipping marker", "company_id", company.ID, "error", err.Error())
				return gctx.Err()
			}
			if found {
				positions[i] = &coords
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.ServiceError("marker request cancelled", err).WithOperation("GetMarkers")
	}

	set := &MarkerSet{
		Markers: make([]Marker, 0, len(ranked)),
		Center:  geocode.DefaultCenter,
		Zoom:    geocode.DefaultZoom,
	}
	for i, pos := range positions {
		if pos == nil {
			set.Unresolved++
			continue
		}
		r := &ranked[i]
		set.Markers = append(set.Markers, Marker{
			ID:             r.Company.ID,
			Name:           r.Company.Name(),
			Position:       *pos,
			NachfolgeScore: r.NachfolgeScore,
			Color:          r.MarkerColor,
			ShortAddress:   r.Company.ShortAddress(),
			EquityDisplay:  financials.FormatCurrency(r.Company.EquityEUR),
		})
	}

	if bounds, ok := geocode.BoundsForCity(spec.SelectedCity); ok {
		set.Bounds = &bounds
		set.Center = bounds.Center()
	}

	return set, nil
}

// GetCities returns the cities offered by the city filter
func (s *companyServiceImpl) GetCities(ctx context.Context) ([]string, error) {
	cities, err := s.repos.Company.GetCities(ctx)
	if err != nil {
		s.logger.Error("Failed to load cities", err)
		return nil, apperrors.DatabaseError("failed to load cities", err).WithOperation("GetCities")
	}
	return cities, nil
}
