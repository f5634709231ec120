package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ajharbinger/nachfolge-radar/internal/errors"
	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
)

// ExportFormat specifies the format for exporting the ranked list
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// ParseExportFormat maps a query value onto an ExportFormat. Empty means CSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", apperrors.InvalidInput(fmt.Sprintf("unsupported export format: %s", s), nil)
	}
}

// ContentType returns the MIME type of an export
func (f ExportFormat) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// ExportService writes the filtered, ranked list for download
type ExportService struct {
	companies CompanyService
	now       func() time.Time
}

// NewExportService creates a new export service
func NewExportService(companies CompanyService) *ExportService {
	return &ExportService{
		companies: companies,
		now:       time.Now,
	}
}

var csvHeaders = []string{
	"id", "company_name", "city", "address", "nachfolge_score", "variant",
	"completeness", "employees", "equity_eur", "net_income_eur", "total_assets_eur",
	"wz_code", "shareholders", "report_year",
}

// Export runs the filter pipeline and serializes the result
func (s *ExportService) Export(ctx context.Context, spec scoring.FilterSpec, format ExportFormat) ([]byte, error) {
	list, err := s.companies.ListCompanies(ctx, spec)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return s.exportToJSON(list)
	case FormatCSV:
		return s.exportToCSV(list)
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported export format: %s", format), nil).WithOperation("Export")
	}
}

func (s *ExportService) exportToJSON(list *CompanyList) ([]byte, error) {
	exportData := map[string]interface{}{
		"companies":   list.Companies,
		"count":       list.FilteredCount,
		"total_count": list.TotalCount,
		"filters":     list.Filters,
		"exported_at": s.now(),
	}
	return json.MarshalIndent(exportData, "", "  ")
}

func (s *ExportService) exportToCSV(list *CompanyList) ([]byte, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, err
	}

	for _, listing := range list.Companies {
		c := &listing.Company

		var names []string
		for _, sh := range scoring.ParseShareholders(c, s.now()) {
			names = append(names, sh.Name)
		}

		row := []string{
			strconv.FormatInt(c.ID, 10),
			c.Name(),
			c.City(),
			c.FullAddress(),
			strconv.Itoa(listing.NachfolgeScore),
			string(listing.Variant),
			strconv.Itoa(listing.Completeness),
			formatNullInt(c.EmployeeCount),
			formatNullFloat(c.EquityEUR),
			formatNullFloat(c.NetIncomeEUR),
			formatNullFloat(c.TotalAssetsEUR),
			formatNullString(c.WZCode),
			strings.Join(names, "; "),
			formatNullInt(c.Year),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return []byte(output.String()), nil
}

func formatNullString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatNullInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func formatNullFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
