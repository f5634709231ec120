package repository

import (
	"context"
	"errors"

	"github.com/ajharbinger/nachfolge-radar/internal/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// CompanyRepository defines the interface for company data access
type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	GetAll(ctx context.Context, filters CompanyFilters) ([]models.Company, error)
	GetCities(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, company *models.Company) error
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Company CompanyRepository
	Tx      TransactionManager
}

// CompanyFilters narrows the rows loaded from the table. The scoring
// filters run in memory on the result.
type CompanyFilters struct {
	City   string
	Limit  int
	Offset int
}
