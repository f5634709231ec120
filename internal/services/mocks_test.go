package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ajharbinger/nachfolge-radar/internal/geocode"
	"github.com/ajharbinger/nachfolge-radar/internal/models"
	"github.com/ajharbinger/nachfolge-radar/internal/repository"
	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
)

var referenceDate = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

// MockCompanyRepository implements CompanyRepository for testing
type MockCompanyRepository struct {
	mu        sync.Mutex
	companies []models.Company
	nextID    int64
	err       error
	createErr error
}

func NewMockCompanyRepository(companies ...models.Company) *MockCompanyRepository {
	return &MockCompanyRepository{companies: companies, nextID: 1000}
}

func (m *MockCompanyRepository) GetByID(_ context.Context, id int64) (*models.Company, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.companies {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockCompanyRepository) GetAll(_ context.Context, _ repository.CompanyFilters) ([]models.Company, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Company, len(m.companies))
	copy(out, m.companies)
	return out, nil
}

func (m *MockCompanyRepository) GetCities(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := map[string]bool{}
	var cities []string
	for _, c := range m.companies {
		if city := c.City(); city != "" && !seen[city] {
			seen[city] = true
			cities = append(cities, city)
		}
	}
	return cities, nil
}

func (m *MockCompanyRepository) Count(_ context.Context) (int, error) {
	return len(m.companies), m.err
}

func (m *MockCompanyRepository) Create(_ context.Context, c *models.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	c.ID = m.nextID
	m.companies = append(m.companies, *c)
	return nil
}

// MockTransactionManager stages writes on a copy and keeps them only
// when fn succeeds.
type MockTransactionManager struct {
	repo      *MockCompanyRepository
	commits   int
	rollbacks int
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	staged := &MockCompanyRepository{
		companies: append([]models.Company(nil), m.repo.companies...),
		nextID:    m.repo.nextID,
		createErr: m.repo.createErr,
	}
	if err := fn(&repository.Repositories{Company: staged, Tx: m}); err != nil {
		m.rollbacks++
		return err
	}
	m.repo.companies = staged.companies
	m.repo.nextID = staged.nextID
	m.commits++
	return nil
}

func newMockRepositories(companies ...models.Company) (*repository.Repositories, *MockCompanyRepository, *MockTransactionManager) {
	repo := NewMockCompanyRepository(companies...)
	tx := &MockTransactionManager{repo: repo}
	return &repository.Repositories{Company: repo, Tx: tx}, repo, tx
}

// stubGeocoder resolves addresses from a fixed table
type stubGeocoder struct {
	positions map[int64]geocode.Coordinates
	failures  map[int64]bool
	monitor   *geocode.HealthMonitor
}

func (s *stubGeocoder) Locate(_ context.Context, c *models.Company) (geocode.Coordinates, bool, error) {
	if s.failures[c.ID] {
		return geocode.Coordinates{}, false, errors.New("rate limit exceeded: status 429")
	}
	pos, ok := s.positions[c.ID]
	return pos, ok, nil
}

func (s *stubGeocoder) Monitor() *geocode.HealthMonitor {
	if s.monitor == nil {
		s.monitor = geocode.NewHealthMonitor()
	}
	return s.monitor
}

func testEngine() *scoring.ScoringEngine {
	return scoring.NewScoringEngine(scoring.WithClock(func() time.Time { return referenceDate }))
}

// sampleCompanies covers a high, a medium and a low scoring company
func sampleCompanies() []models.Company {
	return []models.Company{
		{
			ID:               1,
			CompanyName:      strPtr("Zimmerei Nord GmbH"),
			EmployeeCount:    intPtr(12),
			EquityEUR:        floatPtr(950000),
			NetIncomeEUR:     floatPtr(120000),
			ShareholderNames: strPtr("Hans Alt, Greta Alt"),
			ShareholderDOBs:  strPtr("1950-03-01, 1955-07-20"),
			AddressStreet:    strPtr("Hafenstraße 1"),
			AddressZip:       strPtr("20457"),
			AddressCity:      strPtr("Hamburg"),
		},
		{
			ID:               2,
			CompanyName:      strPtr("Bäckerei Mitte"),
			EmployeeCount:    intPtr(8),
			ShareholderNames: strPtr("Jonas Jung"),
			ShareholderDOBs:  strPtr("1962-01-10"),
			AddressZip:       strPtr("21614"),
			AddressCity:      strPtr("Buxtehude"),
		},
		{
			ID:          3,
			CompanyName: strPtr("Apotheke Süd"),
			AddressCity: strPtr("Hamburg"),
		},
	}
}
