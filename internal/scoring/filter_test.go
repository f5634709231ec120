package scoring

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/ajharbinger/nachfolge-radar/internal/models"
)

func namedCompany(name, city string, employees int) models.Company {
	return models.Company{
		CompanyName:   strPtr(name),
		AddressCity:   strPtr(city),
		EmployeeCount: intPtr(employees),
	}
}

func companyNames(companies []models.Company) []string {
	names := make([]string, len(companies))
	for i := range companies {
		names[i] = companies[i].Name()
	}
	return names
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterCompanies_DefaultSpecKeepsEverything(t *testing.T) {
	records := []models.Company{
		namedCompany("Alster Bau", "Hamburg", 5),
		{},
		{EquityEUR: floatPtr(-2_000_000), NetIncomeEUR: floatPtr(-500_000)},
	}

	got := FilterCompanies(records, DefaultFilterSpec(), referenceDate)
	if len(got) != len(records) {
		t.Errorf("Expected all %d records, got %d", len(records), len(got))
	}
}

func TestFilterCompanies_EmployeeRange(t *testing.T) {
	records := []models.Company{
		namedCompany("Klein", "Hamburg", 5),
		namedCompany("Mittel", "Hamburg", 20),
		namedCompany("Grenze", "Hamburg", 50),
		namedCompany("Gross", "Hamburg", 51),
		{CompanyName: strPtr("Unbekannt")},
	}
	spec := FilterSpec{MinEmployees: intPtr(10), MaxEmployees: intPtr(50)}

	got := companyNames(FilterCompanies(records, spec, referenceDate))
	want := []string{"Grenze", "Mittel"}
	if !equalNames(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestFilterCompanies_MissingFinancialsCountAsZero(t *testing.T) {
	records := []models.Company{
		{CompanyName: strPtr("Ohne Zahlen")},
		{CompanyName: strPtr("Verlust"), NetIncomeEUR: floatPtr(-10)},
	}

	spec := FilterSpec{MinIncome: floatPtr(0), MinEquity: floatPtr(0), MaxEquity: floatPtr(0)}
	got := companyNames(FilterCompanies(records, spec, referenceDate))
	if !equalNames(got, []string{"Ohne Zahlen"}) {
		t.Errorf("Expected only the record without figures, got %v", got)
	}
}

func TestFilterCompanies_SearchQuery(t *testing.T) {
	records := []models.Company{
		namedCompany("Elbe Werft", "Hamburg", 10),
		namedCompany("Moor Bäckerei", "Buxtehude", 10),
		{CompanyName: strPtr("Ohne Ort")},
	}

	testCases := []struct {
		query string
		want  []string
	}{
		{query: "werft", want: []string{"Elbe Werft"}},
		{query: "BUXTE", want: []string{"Moor Bäckerei"}},
		{query: "ort", want: []string{"Ohne Ort"}},
		{query: "kiel", want: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			got := companyNames(FilterCompanies(records, FilterSpec{SearchQuery: tc.query}, referenceDate))
			if !equalNames(got, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFilterCompanies_SelectedCityIsExact(t *testing.T) {
	records := []models.Company{
		namedCompany("A", "Hamburg", 1),
		namedCompany("B", "hamburg", 1),
		namedCompany("C", "Buxtehude", 1),
	}

	got := companyNames(FilterCompanies(records, FilterSpec{SelectedCity: "Hamburg"}, referenceDate))
	if !equalNames(got, []string{"A"}) {
		t.Errorf("Expected only the exact city match, got %v", got)
	}
}

func TestFilterCompanies_MinNachfolgeScore(t *testing.T) {
	old := namedCompany("Alt", "Hamburg", 1)
	old.ShareholderNames = strPtr("Anna Alt")
	old.ShareholderDOBs = strPtr("1950-01-01")

	young := namedCompany("Jung", "Hamburg", 1)
	young.ShareholderNames = strPtr("Jan Jung")
	young.ShareholderDOBs = strPtr("1990-01-01")

	unknown := namedCompany("Unbekannt", "Hamburg", 1)

	got := companyNames(FilterCompanies([]models.Company{old, young, unknown}, FilterSpec{MinNachfolgeScore: intPtr(7)}, referenceDate))
	if !equalNames(got, []string{"Alt"}) {
		t.Errorf("Expected only the high-score company, got %v", got)
	}
}

func TestFilterCompanies_Ordering(t *testing.T) {
	t.Run("Completeness first", func(t *testing.T) {
		sparse := namedCompany("Sparse", "Hamburg", 1)
		sparse.ShareholderNames = strPtr("Anna Alt")
		sparse.ShareholderDOBs = strPtr("1950-01-01")

		rich := completeCompany()
		rich.CompanyName = strPtr("Rich")
		rich.ShareholderDetails = models.ShareholderDetails{{Name: "Jan Jung", DOB: "1990-01-01"}}

		got := companyNames(FilterCompanies([]models.Company{sparse, rich}, DefaultFilterSpec(), referenceDate))
		if !equalNames(got, []string{"Rich", "Sparse"}) {
			t.Errorf("Expected the more complete record first, got %v", got)
		}
	})

	t.Run("Score breaks completeness ties", func(t *testing.T) {
		young := namedCompany("Aaa Jung", "Hamburg", 1)
		young.ShareholderNames = strPtr("Jan Jung")
		young.ShareholderDOBs = strPtr("1990-01-01")

		old := namedCompany("Zzz Alt", "Hamburg", 1)
		old.ShareholderNames = strPtr("Anna Alt")
		old.ShareholderDOBs = strPtr("1950-01-01")

		got := companyNames(FilterCompanies([]models.Company{young, old}, DefaultFilterSpec(), referenceDate))
		if !equalNames(got, []string{"Zzz Alt", "Aaa Jung"}) {
			t.Errorf("Expected higher score first, got %v", got)
		}
	})

	t.Run("Name breaks remaining ties", func(t *testing.T) {
		records := []models.Company{
			namedCompany("Bäcker Schulz", "Hamburg", 1),
			namedCompany("Zimmerei Ost", "Hamburg", 1),
			namedCompany("Ärzte Haus", "Hamburg", 1),
			namedCompany("Apotheke Nord", "Hamburg", 1),
		}

		got := companyNames(FilterCompanies(records, DefaultFilterSpec(), referenceDate))
		want := []string{"Apotheke Nord", "Ärzte Haus", "Bäcker Schulz", "Zimmerei Ost"}
		if !equalNames(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})
}

func TestFilterCompanies_Idempotent(t *testing.T) {
	records := []models.Company{
		namedCompany("Elbe Werft", "Hamburg", 30),
		completeCompany(),
		namedCompany("Moor Bäckerei", "Buxtehude", 12),
		namedCompany("Klein", "Hamburg", 2),
	}
	spec := FilterSpec{MinEmployees: intPtr(10)}

	first := FilterCompanies(records, spec, referenceDate)
	second := FilterCompanies(records, spec, referenceDate)
	if len(first) != 3 {
		t.Fatalf("Expected 3 companies to pass, got %d", len(first))
	}
	if !equalNames(companyNames(first), companyNames(second)) {
		t.Errorf("Expected identical order on repeated calls, got %v then %v", companyNames(first), companyNames(second))
	}
	if len(records) != 4 || records[3].Name() != "Klein" {
		t.Errorf("Expected input slice to be left untouched")
	}
}

func TestRankCompanies_DerivedValues(t *testing.T) {
	company := completeCompany()

	ranked := RankCompanies([]models.Company{company}, DefaultFilterSpec(), referenceDate)
	if len(ranked) != 1 {
		t.Fatalf("Expected 1 ranked company, got %d", len(ranked))
	}

	r := ranked[0]
	if r.NachfolgeScore != 10 || r.Variant != VariantHigh || r.MarkerColor != ColorHigh {
		t.Errorf("Unexpected derived score values: %+v", r)
	}
	if r.Completeness != 35 {
		t.Errorf("Expected completeness 35, got %d", r.Completeness)
	}
}

func TestScoringEngine_CollationOption(t *testing.T) {
	records := []models.Company{
		namedCompany("Zeta", "Hamburg", 1),
		namedCompany("Äpfel", "Hamburg", 1),
	}

	engine := NewScoringEngine(WithClock(fixedClock), WithCollation(language.English))
	got := companyNames(engine.FilterCompanies(records, DefaultFilterSpec()))
	if !equalNames(got, []string{"Äpfel", "Zeta"}) {
		t.Errorf("Expected collated order, got %v", got)
	}
}
