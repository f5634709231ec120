package scoring

import "github.com/ajharbinger/nachfolge-radar/internal/models"

// CompletenessScore weights how many optional fields a record has populated.
// It rewards presence only; the values themselves are not validated.
func CompletenessScore(c *models.Company) int {
	score := 0

	// Core business data
	if present(c.CompanyName) {
		score += 2
	}
	if c.EmployeeCount != nil && *c.EmployeeCount > 0 {
		score += 3
	}
	if nonZero(c.EquityEUR) {
		score += 3
	}
	if nonZero(c.NetIncomeEUR) {
		score += 3
	}
	if positive(c.TotalAssetsEUR) {
		score += 2
	}

	// Financial details
	if nonZero(c.RetainedEarningsEUR) {
		score += 1
	}
	if positive(c.LiabilitiesEUR) {
		score += 1
	}
	if nonZero(c.ReceivablesEUR) {
		score += 1
	}
	if nonZero(c.CashAssetsEUR) {
		score += 1
	}

	// Location
	if present(c.AddressStreet) {
		score += 2
	}
	if present(c.AddressZip) {
		score += 1
	}
	if present(c.AddressCity) {
		score += 2
	}
	if present(c.AddressCountry) {
		score += 1
	}

	// Industry classification
	if present(c.WZCode) {
		score += 2
	}
	if present(c.WZCodeDescription) {
		score += 1
	}

	// Shareholders
	if len(c.ShareholderDetails) > 0 {
		score += 3
	} else if present(c.ShareholderNames) {
		score += 2
	}
	if present(c.ShareholderDOBs) {
		score += 2
	}
	if c.LastOwnershipChangeYear != nil && *c.LastOwnershipChangeYear != 0 {
		score += 2
	}

	// Recency of the report
	if c.Year != nil {
		switch {
		case *c.Year >= 2020:
			score += 2
		case *c.Year >= 2015:
			score += 1
		}
	}

	return score
}

func present(s *string) bool {
	return s != nil && *s != ""
}

func nonZero(f *float64) bool {
	return f != nil && *f != 0
}

func positive(f *float64) bool {
	return f != nil && *f > 0
}
