package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ajharbinger/nachfolge-radar/internal/errors"
	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/internal/models"
	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
)

func TestImport_CommitsNamedRecords(t *testing.T) {
	repos, repo, tx := newMockRepositories()
	svc := NewImportService(repos, logger.NewTestLogger(t))

	records := []models.Company{
		{CompanyName: strPtr("Werft Elbe")},
		{CompanyName: strPtr("  ")},
		{CompanyName: strPtr("Kontor Alster")},
	}

	result, err := svc.Import(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []int64{1001, 1002}, result.IDs)
	assert.Len(t, repo.companies, 2)
	assert.Equal(t, 1, tx.commits)
}

func TestImport_RollsBackOnInsertFailure(t *testing.T) {
	repos, repo, tx := newMockRepositories()
	repo.createErr = errors.New("unique violation")
	svc := NewImportService(repos, logger.NewTestLogger(t))

	_, err := svc.Import(context.Background(), []models.Company{{CompanyName: strPtr("Werft Elbe")}})
	require.Error(t, err)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDatabaseError))
	assert.Empty(t, repo.companies)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestImport_RejectsEmptyInput(t *testing.T) {
	repos, _, tx := newMockRepositories()
	svc := NewImportService(repos, logger.NewTestLogger(t))

	_, err := svc.Import(context.Background(), nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))

	_, err = svc.Import(context.Background(), []models.Company{{}})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidationError))
	assert.Equal(t, 1, tx.rollbacks)
}

func TestDecodeCompanies_Array(t *testing.T) {
	records, err := DecodeCompanies(strings.NewReader(`[{"company_name": "Werft Elbe", "employee_count": 40}]`))
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Werft Elbe", records[0].Name())
	assert.Equal(t, 40, *records[0].EmployeeCount)
}

func TestDecodeCompanies_RoundTripsExport(t *testing.T) {
	svc, _ := newTestServices(t, nil)

	data, err := svc.Export.Export(context.Background(), scoring.DefaultFilterSpec(), FormatJSON)
	require.NoError(t, err)

	records, err := DecodeCompanies(bytes.NewReader(data))
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "Zimmerei Nord GmbH", records[0].Name())
	assert.Equal(t, "Hans Alt, Greta Alt", *records[0].ShareholderNames)
}

func TestDecodeCompanies_Invalid(t *testing.T) {
	_, err := DecodeCompanies(strings.NewReader("   "))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))

	_, err = DecodeCompanies(strings.NewReader("[{"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))
}
