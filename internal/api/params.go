package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ajharbinger/nachfolge-radar/internal/errors"
	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
)

// ParseFilterSpec reads the list filters from the query string. Absent or
// empty parameters leave the bound open.
func ParseFilterSpec(c *gin.Context) (scoring.FilterSpec, error) {
	spec := scoring.DefaultFilterSpec()
	spec.SearchQuery = strings.TrimSpace(c.Query("q"))
	spec.SelectedCity = strings.TrimSpace(c.Query("city"))

	var err error
	if spec.MinEmployees, err = queryInt(c, "min_employees"); err != nil {
		return spec, err
	}
	if spec.MaxEmployees, err = queryInt(c, "max_employees"); err != nil {
		return spec, err
	}
	if spec.MinEquity, err = queryFloat(c, "min_equity"); err != nil {
		return spec, err
	}
	if spec.MaxEquity, err = queryFloat(c, "max_equity"); err != nil {
		return spec, err
	}
	if spec.MinIncome, err = queryFloat(c, "min_income"); err != nil {
		return spec, err
	}
	if spec.MaxIncome, err = queryFloat(c, "max_income"); err != nil {
		return spec, err
	}
	if spec.MinNachfolgeScore, err = queryInt(c, "min_score"); err != nil {
		return spec, err
	}
	return spec, nil
}

func queryInt(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s must be an integer", key), err)
	}
	return &v, nil
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s must be a number", key), err)
	}
	return &v, nil
}

// parseID reads a positive numeric :id path parameter
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("company id must be a positive integer", err)
	}
	return id, nil
}

// respondError writes err with the status its code maps to
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)

	body := gin.H{
		"error":     err.Error(),
		"timestamp": time.Now(),
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		body["error"] = appErr.Message
		body["code"] = appErr.Code
		if appErr.Cause != nil && status >= http.StatusInternalServerError {
			body["details"] = appErr.Cause.Error()
		}
	}
	c.JSON(status, body)
}
