package api

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/ajharbinger/nachfolge-radar/internal/errors"
	"github.com/ajharbinger/nachfolge-radar/internal/financials"
	"github.com/ajharbinger/nachfolge-radar/internal/geocode"
	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/internal/models"
	"github.com/ajharbinger/nachfolge-radar/internal/repository"
	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
	"github.com/ajharbinger/nachfolge-radar/internal/services"
)

func strPtr(s string) *string { return &s }

// mockCompanyService records the last filter it saw
type mockCompanyService struct {
	list        *services.CompanyList
	lastSpec    scoring.FilterSpec
	shouldError error
}

func (m *mockCompanyService) ListCompanies(_ context.Context, spec scoring.FilterSpec) (*services.CompanyList, error) {
	m.lastSpec = spec
	if m.shouldError != nil {
		return nil, m.shouldError
	}
	if err := services.ValidateFilterSpec(spec); err != nil {
		return nil, err
	}
	list := *m.list
	list.Filters = spec
	return &list, nil
}

func (m *mockCompanyService) GetCompany(_ context.Context, id int64) (*services.CompanyDetail, error) {
	if m.shouldError != nil {
		return nil, m.shouldError
	}
	for _, listing := range m.list.Companies {
		if listing.Company.ID == id {
			return &services.CompanyDetail{
				Company:        listing.Company,
				NachfolgeScore: listing.NachfolgeScore,
				FullAddress:    listing.Company.FullAddress(),
			}, nil
		}
	}
	return nil, apperrors.NotFound("company not found", repository.ErrNotFound)
}

func (m *mockCompanyService) GetShareholders(ctx context.Context, id int64) (*services.ShareholderSummary, error) {
	detail, err := m.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	return &services.ShareholderSummary{CompanyID: id, NachfolgeScore: detail.NachfolgeScore}, nil
}

func (m *mockCompanyService) GetFinancials(ctx context.Context, id int64) (*financials.Summary, error) {
	detail, err := m.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := financials.Summarize(&detail.Company)
	return &summary, nil
}

func (m *mockCompanyService) GetMarkers(_ context.Context, spec scoring.FilterSpec) (*services.MarkerSet, error) {
	m.lastSpec = spec
	if m.shouldError != nil {
		return nil, m.shouldError
	}
	set := &services.MarkerSet{Center: geocode.DefaultCenter, Zoom: geocode.DefaultZoom}
	for _, listing := range m.list.Companies {
		set.Markers = append(set.Markers, services.Marker{
			ID:             listing.Company.ID,
			Name:           listing.Company.Name(),
			Position:       geocode.DefaultCenter,
			NachfolgeScore: listing.NachfolgeScore,
			Color:          listing.MarkerColor,
		})
	}
	if bounds, ok := geocode.BoundsForCity(spec.SelectedCity); ok {
		set.Bounds = &bounds
	}
	return set, nil
}

func (m *mockCompanyService) GetCities(_ context.Context) ([]string, error) {
	if m.shouldError != nil {
		return nil, m.shouldError
	}
	return []string{"Buxtehude", "Hamburg"}, nil
}

func newMockCompanyService() *mockCompanyService {
	return &mockCompanyService{
		list: &services.CompanyList{
			TotalCount:    2,
			FilteredCount: 2,
			Companies: []services.CompanyListing{
				{
					RankedCompany: scoring.RankedCompany{
						Company: models.Company{
							ID:          7,
							CompanyName: strPtr("Werft Elbe GmbH"),
							AddressCity: strPtr("Hamburg"),
						},
						NachfolgeScore: 10,
						Variant:        scoring.VariantHigh,
						MarkerColor:    scoring.ColorHigh,
					},
					ShortAddress: "Hamburg",
				},
				{
					RankedCompany: scoring.RankedCompany{
						Company: models.Company{
							ID:          8,
							CompanyName: strPtr("Kontor Alster"),
						},
						NachfolgeScore: 1,
						Variant:        scoring.VariantLow,
						MarkerColor:    scoring.ColorLow,
					},
					ShortAddress: "Hamburg",
				},
			},
		},
	}
}

// memoryCompanyRepository backs the import endpoint in tests
type memoryCompanyRepository struct {
	companies []models.Company
}

func (m *memoryCompanyRepository) GetByID(_ context.Context, id int64) (*models.Company, error) {
	for i := range m.companies {
		if m.companies[i].ID == id {
			return &m.companies[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryCompanyRepository) GetAll(_ context.Context, _ repository.CompanyFilters) ([]models.Company, error) {
	return m.companies, nil
}

func (m *memoryCompanyRepository) GetCities(_ context.Context) ([]string, error) {
	return nil, nil
}

func (m *memoryCompanyRepository) Count(_ context.Context) (int, error) {
	return len(m.companies), nil
}

func (m *memoryCompanyRepository) Create(_ context.Context, c *models.Company) error {
	c.ID = int64(len(m.companies) + 1)
	c.CreatedAt = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	m.companies = append(m.companies, *c)
	return nil
}

type passthroughTx struct {
	repos *repository.Repositories
}

func (p *passthroughTx) WithTransaction(_ context.Context, fn func(repos *repository.Repositories) error) error {
	return fn(p.repos)
}

func newTestServices(company services.CompanyService) (*services.Services, *memoryCompanyRepository) {
	repo := &memoryCompanyRepository{}
	repos := &repository.Repositories{Company: repo}
	repos.Tx = &passthroughTx{repos: repos}

	return &services.Services{
		Company: company,
		Export:  services.NewExportService(company),
		Import:  services.NewImportService(repos, logger.NewNopLogger()),
	}, repo
}

// mockHealthChecker reports a fixed database state
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) HealthCheckContext(_ context.Context) error {
	return m.err
}

// stubGeocoder always resolves to the city center
type stubGeocoder struct {
	monitor *geocode.HealthMonitor
}

func newStubGeocoder() *stubGeocoder {
	return &stubGeocoder{monitor: geocode.NewHealthMonitor()}
}

func (s *stubGeocoder) Locate(_ context.Context, c *models.Company) (geocode.Coordinates, bool, error) {
	if _, ok := geocode.AddressKey(c); !ok {
		return geocode.Coordinates{}, false, nil
	}
	s.monitor.RecordSuccess()
	return geocode.DefaultCenter, true, nil
}

func (s *stubGeocoder) Monitor() *geocode.HealthMonitor {
	return s.monitor
}

// stubSource feeds the warmer
type stubSource struct {
	companies []models.Company
	err       error
}

func (s *stubSource) GetAll(_ context.Context, _ repository.CompanyFilters) ([]models.Company, error) {
	return s.companies, s.err
}

var errDatabaseDown = errors.New("connection refused")
