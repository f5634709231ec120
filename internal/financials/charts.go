package financials

import (
	"github.com/shopspring/decimal"

	"github.com/ajharbinger/nachfolge-radar/internal/models"
	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
)

const (
	colorPositive = "#10B981"
	colorNegative = "#EF4444"
	colorRetained = "#00A699"
)

// chartPalette cycles through pie slices
var chartPalette = []string{"#FF385C", "#00A699", "#484848", "#767676", "#FFAA00", "#7B68EE", "#20B2AA"}

// Slice is one labelled value of a chart
type Slice struct {
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Display string          `json:"display"`
	Color   string          `json:"color"`
}

// BalanceSheetBreakdown compares equity with liabilities
type BalanceSheetBreakdown struct {
	Equity      Slice `json:"equity"`
	Liabilities Slice `json:"liabilities"`
}

// Summary holds every chart of a company's financial view
type Summary struct {
	BalanceSheet   BalanceSheetBreakdown `json:"balance_sheet"`
	AssetBreakdown []Slice               `json:"asset_breakdown"`
	Profitability  []Slice               `json:"profitability"`
	Metrics        Metrics               `json:"metrics"`
}

// Metrics are the formatted headline figures
type Metrics struct {
	Equity           string `json:"equity"`
	TotalAssets      string `json:"total_assets"`
	NetIncome        string `json:"net_income"`
	RetainedEarnings string `json:"retained_earnings"`
	Liabilities      string `json:"liabilities"`
	Employees        string `json:"employees"`
}

// Summarize builds all financial charts for a company
func Summarize(c *models.Company) Summary {
	return Summary{
		BalanceSheet:   BalanceSheet(c),
		AssetBreakdown: AssetBreakdown(c),
		Profitability:  Profitability(c),
		Metrics: Metrics{
			Equity:           FormatCurrency(c.EquityEUR),
			TotalAssets:      FormatCurrency(c.TotalAssetsEUR),
			NetIncome:        FormatCurrency(c.NetIncomeEUR),
			RetainedEarnings: FormatCurrency(c.RetainedEarningsEUR),
			Liabilities:      FormatCurrency(c.LiabilitiesEUR),
			Employees:        FormatNumber(c.EmployeeCount),
		},
	}
}

// BalanceSheet returns equity and liabilities, missing values as 0
func BalanceSheet(c *models.Company) BalanceSheetBreakdown {
	return BalanceSheetBreakdown{
		Equity:      newSlice("Equity", amount(c.EquityEUR), colorPositive),
		Liabilities: newSlice("Liabilities", amount(c.LiabilitiesEUR), colorNegative),
	}
}

// AssetBreakdown splits total assets into cash, receivables and the rest.
// Only positive parts are returned.
func AssetBreakdown(c *models.Company) []Slice {
	cash := amount(c.CashAssetsEUR)
	receivables := amount(c.ReceivablesEUR)
	other := decimal.Max(decimal.Zero, amount(c.TotalAssetsEUR).Sub(cash).Sub(receivables))

	parts := []struct {
		label string
		value decimal.Decimal
	}{
		{"Cash", cash},
		{"Receivables", receivables},
		{"Other Assets", other},
	}

	slices := make([]Slice, 0, len(parts))
	for _, p := range parts {
		if !p.value.IsPositive() {
			continue
		}
		slices = append(slices, newSlice(p.label, p.value, chartPalette[len(slices)%len(chartPalette)]))
	}
	return slices
}

// Profitability returns net income and retained earnings, coloured by sign
func Profitability(c *models.Company) []Slice {
	income := amount(c.NetIncomeEUR)
	retained := amount(c.RetainedEarningsEUR)

	incomeColor := colorPositive
	if income.IsNegative() {
		incomeColor = colorNegative
	}
	retainedColor := colorRetained
	if retained.IsNegative() {
		retainedColor = colorNegative
	}

	return []Slice{
		newSlice("Net Income", income, incomeColor),
		newSlice("Retained Earnings", retained, retainedColor),
	}
}

// OwnershipSlices returns one pie slice per shareholder with a known,
// positive stake.
func OwnershipSlices(shareholders []scoring.ParsedShareholder) []Slice {
	slices := make([]Slice, 0, len(shareholders))
	for _, s := range shareholders {
		if s.Percentage == nil || *s.Percentage <= 0 {
			continue
		}
		slices = append(slices, Slice{
			Label:   s.Name,
			Value:   decimal.NewFromFloat(*s.Percentage),
			Display: defaultFormatter.Percent(s.Percentage),
			Color:   chartPalette[len(slices)%len(chartPalette)],
		})
	}
	return slices
}

func newSlice(label string, value decimal.Decimal, color string) Slice {
	return Slice{
		Label:   label,
		Value:   value,
		Display: defaultFormatter.CurrencyDecimal(value),
		Color:   color,
	}
}

func amount(f *float64) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f)
}
