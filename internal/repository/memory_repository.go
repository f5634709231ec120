package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ajharbinger/nachfolge-radar/internal/models"
)

// MemoryStore holds company records in process. It backs the report CLI
// when records come from a JSON file instead of the database.
type MemoryStore struct {
	mu        sync.RWMutex
	companies []models.Company
	nextID    int64
}

// NewMemoryStore creates a store seeded with records. Records without an
// ID get one assigned.
func NewMemoryStore(records []models.Company) *MemoryStore {
	s := &MemoryStore{}
	for _, c := range records {
		s.nextID = max(s.nextID, c.ID)
	}
	for _, c := range records {
		if c.ID == 0 {
			s.nextID++
			c.ID = s.nextID
		}
		s.companies = append(s.companies, c)
	}
	return s
}

// Repositories exposes the store through the repository interfaces
func (s *MemoryStore) Repositories() *Repositories {
	return &Repositories{
		Company: &memoryCompanyRepository{store: s},
		Tx:      &memoryTransactionManager{store: s},
	}
}

type memoryCompanyRepository struct {
	store *MemoryStore
}

func (r *memoryCompanyRepository) GetByID(_ context.Context, id int64) (*models.Company, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.companies {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// GetAll mirrors the SQL repository: name order with missing names last
func (r *memoryCompanyRepository) GetAll(_ context.Context, filters CompanyFilters) ([]models.Company, error) {
	r.store.mu.RLock()
	companies := make([]models.Company, 0, len(r.store.companies))
	for _, c := range r.store.companies {
		if filters.City == "" || c.City() == filters.City {
			companies = append(companies, c)
		}
	}
	r.store.mu.RUnlock()

	slices.SortStableFunc(companies, func(a, b models.Company) int {
		switch {
		case a.CompanyName == nil && b.CompanyName != nil:
			return 1
		case a.CompanyName != nil && b.CompanyName == nil:
			return -1
		}
		if c := cmp.Compare(a.Name(), b.Name()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if filters.Offset > 0 {
		companies = companies[min(filters.Offset, len(companies)):]
	}
	if filters.Limit > 0 && filters.Limit < len(companies) {
		companies = companies[:filters.Limit]
	}
	return companies, nil
}

func (r *memoryCompanyRepository) GetCities(_ context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	cities := []string{}
	for _, c := range r.store.companies {
		city := strings.TrimSpace(c.City())
		if city != "" && !slices.Contains(cities, city) {
			cities = append(cities, city)
		}
	}
	slices.Sort(cities)
	return cities, nil
}

func (r *memoryCompanyRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.companies), nil
}

func (r *memoryCompanyRepository) Create(_ context.Context, c *models.Company) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextID++
	c.ID = r.store.nextID
	c.CreatedAt = time.Now().UTC()
	r.store.companies = append(r.store.companies, *c)
	return nil
}

// memoryTransactionManager snapshots the store and restores it when fn fails
type memoryTransactionManager struct {
	store *MemoryStore
}

func (tm *memoryTransactionManager) WithTransaction(_ context.Context, fn func(repos *Repositories) error) error {
	tm.store.mu.RLock()
	snapshot := slices.Clone(tm.store.companies)
	nextID := tm.store.nextID
	tm.store.mu.RUnlock()

	if err := fn(tm.store.Repositories()); err != nil {
		tm.store.mu.Lock()
		tm.store.companies = snapshot
		tm.store.nextID = nextID
		tm.store.mu.Unlock()
		return err
	}
	return nil
}
