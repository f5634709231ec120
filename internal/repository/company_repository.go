package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ajharbinger/nachfolge-radar/internal/models"
)

// companyTable is the hosted table holding the target records
const companyTable = `"Hamburg Targets"`

const companyColumns = `id, created_at, company_name, year, equity_eur, total_assets_eur,
	net_income_eur, retained_earnings_eur, liabilities_eur, receivables_eur,
	cash_assets_eur, employee_count, shareholder_names, shareholder_dobs,
	shareholder_details, last_ownership_change_year, address_street, address_zip,
	address_city, address_country, wz_code, wz_code_description`

// companyRepository implements CompanyRepository
type companyRepository struct {
	db dbExecutor
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db dbExecutor) CompanyRepository {
	return &companyRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCompany(row rowScanner) (models.Company, error) {
	var c models.Company
	err := row.Scan(
		&c.ID, &c.CreatedAt, &c.CompanyName, &c.Year, &c.EquityEUR, &c.TotalAssetsEUR,
		&c.NetIncomeEUR, &c.RetainedEarningsEUR, &c.LiabilitiesEUR, &c.ReceivablesEUR,
		&c.CashAssetsEUR, &c.EmployeeCount, &c.ShareholderNames, &c.ShareholderDOBs,
		&c.ShareholderDetails, &c.LastOwnershipChangeYear, &c.AddressStreet, &c.AddressZip,
		&c.AddressCity, &c.AddressCountry, &c.WZCode, &c.WZCodeDescription,
	)
	return c, err
}

// GetByID retrieves a company by ID
func (r *companyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, companyColumns, companyTable)

	company, err := scanCompany(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// GetAll retrieves companies ordered by name
func (r *companyRepository) GetAll(ctx context.Context, filters CompanyFilters) ([]models.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, companyColumns, companyTable)

	var args []interface{}
	argIndex := 1

	if filters.City != "" {
		query += fmt.Sprintf(" WHERE address_city = $%d", argIndex)
		args = append(args, filters.City)
		argIndex++
	}

	query += " ORDER BY company_name ASC NULLS LAST, id ASC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filters.Limit)
		argIndex++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate companies: %w", err)
	}

	return companies, nil
}

// GetCities returns the distinct non-empty cities
func (r *companyRepository) GetCities(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT address_city FROM %s
		WHERE address_city IS NOT NULL AND address_city <> ''
		ORDER BY address_city ASC`, companyTable)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	cities := []string{}
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, strings.TrimSpace(city))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cities: %w", err)
	}

	return cities, nil
}

// Count returns the number of records in the table
func (r *companyRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, companyTable)
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return count, nil
}

// Create inserts a record and sets its generated ID and timestamp
func (r *companyRepository) Create(ctx context.Context, c *models.Company) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			company_name, year, equity_eur, total_assets_eur, net_income_eur,
			retained_earnings_eur, liabilities_eur, receivables_eur, cash_assets_eur,
			employee_count, shareholder_names, shareholder_dobs, shareholder_details,
			last_ownership_change_year, address_street, address_zip, address_city,
			address_country, wz_code, wz_code_description
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
		RETURNING id, created_at`, companyTable)

	err := r.db.QueryRowContext(ctx, query,
		c.CompanyName, c.Year, c.EquityEUR, c.TotalAssetsEUR, c.NetIncomeEUR,
		c.RetainedEarningsEUR, c.LiabilitiesEUR, c.ReceivablesEUR, c.CashAssetsEUR,
		c.EmployeeCount, c.ShareholderNames, c.ShareholderDOBs, c.ShareholderDetails,
		c.LastOwnershipChangeYear, c.AddressStreet, c.AddressZip, c.AddressCity,
		c.AddressCountry, c.WZCode, c.WZCodeDescription,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}
