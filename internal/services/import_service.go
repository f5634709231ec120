package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/ajharbinger/nachfolge-radar/internal/errors"
	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/internal/models"
	"github.com/ajharbinger/nachfolge-radar/internal/repository"
)

// ImportService loads company records into the database
type ImportService struct {
	repos  *repository.Repositories
	logger logger.Logger
}

// ImportResult reports what an import did
type ImportResult struct {
	Imported int     `json:"imported"`
	Skipped  int     `json:"skipped"`
	IDs      []int64 `json:"ids"`
}

// NewImportService creates a new import service
func NewImportService(repos *repository.Repositories, log logger.Logger) *ImportService {
	return &ImportService{
		repos:  repos,
		logger: log,
	}
}

// Import inserts records in one transaction. Records without a company
// name are skipped; any insert failure rolls back the whole batch.
func (s *ImportService) Import(ctx context.Context, records []models.Company) (*ImportResult, error) {
	if len(records) == 0 {
		return nil, apperrors.InvalidInput("no records to import", nil).WithOperation("Import")
	}

	s.logger.Info("Starting company import", "record_count", len(records))

	result := &ImportResult{}
	err := s.repos.Tx.WithTransaction(ctx, func(repos *repository.Repositories) error {
		for i := range records {
			record := records[i]
			if record.CompanyName == nil || strings.TrimSpace(*record.CompanyName) == "" {
				s.logger.Warn("Skipping record without company name", "index", i)
				result.Skipped++
				continue
			}

			if err := repos.Company.Create(ctx, &record); err != nil {
				s.logger.Error("Failed to insert company", err, "index", i, "company_name", *record.CompanyName)
				return apperrors.DatabaseError("failed to insert company", err).WithOperation("Import")
			}

			result.Imported++
			result.IDs = append(result.IDs, record.ID)
		}

		if result.Imported == 0 {
			return apperrors.ValidationError("no record had a company name", nil).WithOperation("Import")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Company import completed", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// DecodeCompanies reads either a JSON array of records or a JSON export
// produced by ExportService.
func DecodeCompanies(r io.Reader) ([]models.Company, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import data: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, apperrors.InvalidInput("import data is empty", nil)
	}

	if data[0] == '[' {
		var records []models.Company
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, apperrors.InvalidInput("invalid company array", err)
		}
		return records, nil
	}

	var export struct {
		Companies []struct {
			Company *models.Company `json:"company"`
		} `json:"companies"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, apperrors.InvalidInput("invalid export document", err)
	}

	records := make([]models.Company, 0, len(export.Companies))
	for _, entry := range export.Companies {
		if entry.Company != nil {
			records = append(records, *entry.Company)
		}
	}
	return records, nil
}
