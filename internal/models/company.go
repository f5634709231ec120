package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Company represents a row of the "Hamburg Targets" table
type Company struct {
	ID                      int64              `json:"id" db:"id"`
	CreatedAt               time.Time          `json:"created_at" db:"created_at"`
	CompanyName             *string            `json:"company_name" db:"company_name"`
	Year                    *int               `json:"year" db:"year"`
	EquityEUR               *float64           `json:"equity_eur" db:"equity_eur"`
	TotalAssetsEUR          *float64           `json:"total_assets_eur" db:"total_assets_eur"`
	NetIncomeEUR            *float64           `json:"net_income_eur" db:"net_income_eur"`
	RetainedEarningsEUR     *float64           `json:"retained_earnings_eur" db:"retained_earnings_eur"`
	LiabilitiesEUR          *float64           `json:"liabilities_eur" db:"liabilities_eur"`
	ReceivablesEUR          *float64           `json:"receivables_eur" db:"receivables_eur"`
	CashAssetsEUR           *float64           `json:"cash_assets_eur" db:"cash_assets_eur"`
	EmployeeCount           *int               `json:"employee_count" db:"employee_count"`
	ShareholderNames        *string            `json:"shareholder_names" db:"shareholder_names"`
	ShareholderDOBs         *string            `json:"shareholder_dobs" db:"shareholder_dobs"`
	ShareholderDetails      ShareholderDetails `json:"shareholder_details" db:"shareholder_details"`
	LastOwnershipChangeYear *int               `json:"last_ownership_change_year" db:"last_ownership_change_year"`
	AddressStreet           *string            `json:"address_street" db:"address_street"`
	AddressZip              *string            `json:"address_zip" db:"address_zip"`
	AddressCity             *string            `json:"address_city" db:"address_city"`
	AddressCountry          *string            `json:"address_country" db:"address_country"`
	WZCode                  *string            `json:"wz_code" db:"wz_code"`
	WZCodeDescription       *string            `json:"wz_code_description" db:"wz_code_description"`
}

// ShareholderDetails is the structured shareholder list stored as JSON
type ShareholderDetails []ShareholderDetail

// ShareholderDetail represents one entry of the structured shareholder list
type ShareholderDetail struct {
	Name                string   `json:"name,omitempty"`
	DOB                 string   `json:"dob,omitempty"`
	Percentage          *float64 `json:"percentage,omitempty"`
	OwnershipPercentage *float64 `json:"ownership_percentage,omitempty"`
	Role                string   `json:"role,omitempty"`
}

// Value implements driver.Valuer for ShareholderDetails
func (s ShareholderDetails) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for ShareholderDetails
func (s *ShareholderDetails) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ShareholderDetails", value)
	}

	if len(bytes) == 0 || string(bytes) == "null" {
		*s = nil
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Name returns the company name or an empty string
func (c *Company) Name() string {
	return deref(c.CompanyName)
}

// City returns the address city or an empty string
func (c *Company) City() string {
	return deref(c.AddressCity)
}

// FullAddress joins street, zip, city and country
func (c *Company) FullAddress() string {
	address := joinPresent(", ", c.AddressStreet, c.AddressZip, c.AddressCity, c.AddressCountry)
	if address == "" {
		return "Address not available"
	}
	return address
}

// ShortAddress returns "zip city", defaulting to Hamburg
func (c *Company) ShortAddress() string {
	address := joinPresent(" ", c.AddressZip, c.AddressCity)
	if address == "" {
		return "Hamburg"
	}
	return address
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinPresent(sep string, parts ...*string) string {
	present := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != nil && *p != "" {
			present = append(present, *p)
		}
	}
	return strings.Join(present, sep)
}
