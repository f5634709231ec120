package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ajharbinger/nachfolge-radar/internal/errors"
	"github.com/ajharbinger/nachfolge-radar/internal/services"
)

// CompanyHandler serves the list, detail and map views
type CompanyHandler struct {
	companyService services.CompanyService
	exportService  *services.ExportService
	importService  *services.ImportService
}

// NewCompanyHandler creates a new company handler with service injection
func NewCompanyHandler(svc *services.Services) *CompanyHandler {
	return &CompanyHandler{
		companyService: svc.Company,
		exportService:  svc.Export,
		importService:  svc.Import,
	}
}

// ListCompanies returns the filtered, ranked company list
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	spec, err := ParseFilterSpec(c)
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.companyService.ListCompanies(ctx, spec)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_count":    list.TotalCount,
		"filtered_count": list.FilteredCount,
		"filters":        list.Filters,
		"companies":      list.Companies,
		"timestamp":      time.Now(),
	})
}

// GetCompany returns the detail view of one company
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := h.companyService.GetCompany(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company":   detail,
		"timestamp": time.Now(),
	})
}

// GetShareholders returns the shareholder panel of one company
func (h *CompanyHandler) GetShareholders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.companyService.GetShareholders(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shareholders": summary,
		"timestamp":    time.Now(),
	})
}

// GetFinancials returns the financial charts of one company
func (h *CompanyHandler) GetFinancials(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.companyService.GetFinancials(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"financials": summary,
		"timestamp":  time.Now(),
	})
}

// GetMarkers returns the geocoded markers for the current filters
func (h *CompanyHandler) GetMarkers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	spec, err := ParseFilterSpec(c)
	if err != nil {
		respondError(c, err)
		return
	}

	set, err := h.companyService.GetMarkers(ctx, spec)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"markers":    set.Markers,
		"unresolved": set.Unresolved,
		"center":     set.Center,
		"zoom":       set.Zoom,
		"bounds":     set.Bounds,
		"timestamp":  time.Now(),
	})
}

// GetCities returns the values offered by the city filter
func (h *CompanyHandler) GetCities(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cities, err := h.companyService.GetCities(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cities":    cities,
		"timestamp": time.Now(),
	})
}

// ExportCompanies downloads the filtered list as CSV or JSON
func (h *CompanyHandler) ExportCompanies(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}

	spec, err := ParseFilterSpec(c)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.exportService.Export(ctx, spec, format)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := "nachfolge_radar_" + time.Now().Format("2006-01-02") + "." + string(format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, format.ContentType(), data)
}

// ImportCompanies inserts the records in the request body
func (h *CompanyHandler) ImportCompanies(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	records, err := services.DecodeCompanies(c.Request.Body)
	if err != nil {
		if _, ok := apperrors.AsAppError(err); !ok {
			err = apperrors.InvalidInput("failed to read request body", err)
		}
		respondError(c, err)
		return
	}

	result, err := h.importService.Import(ctx, records)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Companies imported successfully",
		"result":    result,
		"timestamp": time.Now(),
	})
}
