package services

import (
	"context"

	"github.com/ajharbinger/nachfolge-radar/internal/financials"
	"github.com/ajharbinger/nachfolge-radar/internal/geocode"
	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/internal/models"
	"github.com/ajharbinger/nachfolge-radar/internal/repository"
	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
)

// Services contains all application services
type Services struct {
	Company CompanyService
	Export  *ExportService
	Import  *ImportService
}

// CompanyService defines the interface for the company list, detail and map views
type CompanyService interface {
	ListCompanies(ctx context.Context, spec scoring.FilterSpec) (*CompanyList, error)
	GetCompany(ctx context.Context, id int64) (*CompanyDetail, error)
	GetShareholders(ctx context.Context, id int64) (*ShareholderSummary, error)
	GetFinancials(ctx context.Context, id int64) (*financials.Summary, error)
	GetMarkers(ctx context.Context, spec scoring.FilterSpec) (*MarkerSet, error)
	GetCities(ctx context.Context) ([]string, error)
}

// Dependencies are shared by the services
type Dependencies struct {
	Repos    *repository.Repositories
	Engine   *scoring.ScoringEngine
	Geocoder geocode.Geocoder
	Logger   logger.Logger
}

// NewServices creates a new Services instance with all dependencies
func NewServices(deps Dependencies) *Services {
	if deps.Engine == nil {
		deps.Engine = scoring.NewScoringEngine()
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}

	company := newCompanyService(deps)
	return &Services{
		Company: company,
		Export:  NewExportService(company),
		Import:  NewImportService(deps.Repos, deps.Logger),
	}
}

// CompanyListing is one row of the ranked list
type CompanyListing struct {
	scoring.RankedCompany
	ShortAddress     string `json:"short_address"`
	EquityDisplay    string `json:"equity_display"`
	NetIncomeDisplay string `json:"net_income_display"`
	EmployeesDisplay string `json:"employees_display"`
}

// CompanyList is the filtered, ranked list with counts for the header
type CompanyList struct {
	TotalCount    int                `json:"total_count"`
	FilteredCount int                `json:"filtered_count"`
	Filters       scoring.FilterSpec `json:"filters"`
	Companies     []CompanyListing   `json:"companies"`
}

// ShareholderSummary is the shareholder panel of a company
type ShareholderSummary struct {
	CompanyID      int64                       `json:"company_id"`
	NachfolgeScore int                         `json:"nachfolge_score"`
	Variant        scoring.ScoreVariant        `json:"variant"`
	Shareholders   []scoring.ParsedShareholder `json:"shareholders"`
	Ownership      []financials.Slice          `json:"ownership"`
	HighRisk       int                         `json:"high_risk"`
	MediumRisk     int                         `json:"medium_risk"`
}

// CompanyDetail is everything shown on the company page
type CompanyDetail struct {
	Company        models.Company       `json:"company"`
	NachfolgeScore int                  `json:"nachfolge_score"`
	Variant        scoring.ScoreVariant `json:"variant"`
	MarkerColor    string               `json:"marker_color"`
	Completeness   int                  `json:"completeness"`
	FullAddress    string               `json:"full_address"`
	ShortAddress   string               `json:"short_address"`
	Shareholders   ShareholderSummary   `json:"shareholders"`
	Financials     financials.Summary   `json:"financials"`
}

// Marker is a geocoded company on the map
type Marker struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	Position       geocode.Coordinates `json:"position"`
	NachfolgeScore int                 `json:"nachfolge_score"`
	Color          string              `json:"color"`
	ShortAddress   string              `json:"short_address"`
	EquityDisplay  string              `json:"equity_display"`
}

// MarkerSet is the map view for a filter
type MarkerSet struct {
	Markers    []Marker             `json:"markers"`
	Unresolved int                  `json:"unresolved"`
	Center     geocode.Coordinates  `json:"center"`
	Zoom       int                  `json:"zoom"`
	Bounds     *geocode.BoundingBox `json:"bounds,omitempty"`
}
