package financials

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotAvailable is shown for missing figures
const NotAvailable = "N/A"

var (
	million  = decimal.New(1, 6)
	billion  = decimal.New(1, 9)
	trillion = decimal.New(1, 12)
)

// compactUnit is one step of the German short compact notation. Thousands
// are written out in full.
type compactUnit struct {
	threshold decimal.Decimal
	suffix    string
}

var compactUnits = []compactUnit{
	{threshold: trillion, suffix: " Bio."},
	{threshold: billion, suffix: " Mrd."},
	{threshold: million, suffix: " Mio."},
}

// Formatter renders figures for a locale
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a formatter for the given language
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

var defaultFormatter = NewFormatter(language.German)

// FormatCurrency renders an amount as compact euros, e.g. "1,2 Mio. €"
func FormatCurrency(amount *float64) string {
	return defaultFormatter.Currency(amount)
}

// FormatNumber renders a count with German digit grouping
func FormatNumber(n *int) string {
	return defaultFormatter.Number(n)
}

// Currency renders an amount as compact euros with at most one fraction digit
func (f *Formatter) Currency(amount *float64) string {
	if amount == nil {
		return NotAvailable
	}
	return f.CurrencyDecimal(decimal.NewFromFloat(*amount))
}

// CurrencyDecimal is Currency for decimal amounts
func (f *Formatter) CurrencyDecimal(amount decimal.Decimal) string {
	scaled, suffix := compact(amount)
	value := scaled.Round(1).InexactFloat64()
	return f.printer.Sprintf("%v%s €", number.Decimal(value, number.MaxFractionDigits(1)), suffix)
}

// Number renders a count with digit grouping
func (f *Formatter) Number(n *int) string {
	if n == nil {
		return NotAvailable
	}
	return f.printer.Sprintf("%d", *n)
}

// Percent renders a share such as 33.5 as "33,5 %"
func (f *Formatter) Percent(p *float64) string {
	if p == nil {
		return NotAvailable
	}
	return f.printer.Sprintf("%v %%", number.Decimal(*p, number.MaxFractionDigits(1)))
}

func compact(amount decimal.Decimal) (decimal.Decimal, string) {
	abs := amount.Abs()
	for _, u := range compactUnits {
		if abs.GreaterThanOrEqual(u.threshold) {
			return amount.Div(u.threshold), u.suffix
		}
	}
	return amount, ""
}
