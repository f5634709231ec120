package scoring

import (
	"testing"

	"github.com/ajharbinger/nachfolge-radar/internal/models"
)

func TestParseShareholders_Delimited(t *testing.T) {
	company := models.Company{
		ShareholderNames: strPtr("Anna Alt, Bernd Jung"),
		ShareholderDOBs:  strPtr("1950-01-01"),
	}

	shareholders := ParseShareholders(&company, referenceDate)
	if len(shareholders) != 2 {
		t.Fatalf("Expected 2 shareholders, got %d", len(shareholders))
	}

	first, second := shareholders[0], shareholders[1]
	if first.Name != "Anna Alt" || first.Age == nil || *first.Age != 74 || first.NachfolgeScore != 10 {
		t.Errorf("Unexpected first shareholder: %+v", first)
	}
	if first.Variant != VariantHigh {
		t.Errorf("Expected high variant, got %s", first.Variant)
	}
	if second.Name != "Bernd Jung" || second.DOB != nil || second.Age != nil || second.NachfolgeScore != 1 {
		t.Errorf("Unexpected second shareholder: %+v", second)
	}

	if score := CompanyNachfolgeScore(&company, referenceDate); score != 10 {
		t.Errorf("Expected company score 10, got %d", score)
	}
}

func TestParseShareholders_EmptyTokens(t *testing.T) {
	t.Run("Empty name tokens are dropped", func(t *testing.T) {
		company := models.Company{
			ShareholderNames: strPtr("Anna Alt, , Bernd Jung,"),
			ShareholderDOBs:  strPtr("1950-01-01, 1980-01-01"),
		}

		shareholders := ParseShareholders(&company, referenceDate)
		if len(shareholders) != 2 {
			t.Fatalf("Expected 2 shareholders, got %d", len(shareholders))
		}
		if shareholders[1].Name != "Bernd Jung" {
			t.Errorf("Expected Bernd Jung second, got %q", shareholders[1].Name)
		}
		if shareholders[1].DOB == nil || *shareholders[1].DOB != "1980-01-01" {
			t.Errorf("Expected second date to pair with the second kept name, got %v", shareholders[1].DOB)
		}
	})

	t.Run("Empty date tokens are dropped before pairing", func(t *testing.T) {
		company := models.Company{
			ShareholderNames: strPtr("Anna Alt, Bernd Jung"),
			ShareholderDOBs:  strPtr(" , 1950-01-01"),
		}

		shareholders := ParseShareholders(&company, referenceDate)
		if len(shareholders) != 2 {
			t.Fatalf("Expected 2 shareholders, got %d", len(shareholders))
		}
		if shareholders[0].DOB == nil || *shareholders[0].DOB != "1950-01-01" || shareholders[0].NachfolgeScore != 10 {
			t.Errorf("Expected first shareholder to take the first non-empty date, got %+v", shareholders[0])
		}
		if shareholders[1].DOB != nil || shareholders[1].NachfolgeScore != 1 {
			t.Errorf("Expected second shareholder without date, got %+v", shareholders[1])
		}
	})

	t.Run("More dates than names", func(t *testing.T) {
		company := models.Company{
			ShareholderNames: strPtr("Anna Alt"),
			ShareholderDOBs:  strPtr("1950-01-01, 1960-01-01"),
		}

		if got := len(ParseShareholders(&company, referenceDate)); got != 1 {
			t.Errorf("Expected 1 shareholder, got %d", got)
		}
	})
}

func TestParseShareholders_StructuredPreferred(t *testing.T) {
	company := models.Company{
		ShareholderNames: strPtr("Someone Else"),
		ShareholderDOBs:  strPtr("1940-01-01"),
		ShareholderDetails: models.ShareholderDetails{
			{DOB: "1930-01-01"},
			{Name: "Clara Mitte", DOB: "1980-01-01", OwnershipPercentage: floatPtr(50), Role: "Gesellschafterin"},
			{Name: "Dieter Voll", Percentage: floatPtr(30), OwnershipPercentage: floatPtr(99)},
		},
	}

	shareholders := ParseShareholders(&company, referenceDate)
	if len(shareholders) != 2 {
		t.Fatalf("Expected 2 named structured shareholders, got %d", len(shareholders))
	}

	clara := shareholders[0]
	if clara.Name != "Clara Mitte" || clara.Percentage == nil || *clara.Percentage != 50 {
		t.Errorf("Expected ownership percentage fallback, got %+v", clara)
	}
	if clara.Role != "Gesellschafterin" {
		t.Errorf("Expected role to be carried over, got %q", clara.Role)
	}

	dieter := shareholders[1]
	if dieter.Percentage == nil || *dieter.Percentage != 30 {
		t.Errorf("Expected percentage to win over ownership percentage, got %v", dieter.Percentage)
	}
	if dieter.DOB != nil || dieter.NachfolgeScore != 1 {
		t.Errorf("Expected missing date to score 1, got %+v", dieter)
	}

	// the 1940 delimited date must not leak into the result
	if score := CompanyNachfolgeScore(&company, referenceDate); score != 5 {
		t.Errorf("Expected company score 5 from the structured list, got %d", score)
	}
}

func TestParseShareholders_StructuredWithoutNamesFallsBack(t *testing.T) {
	company := models.Company{
		ShareholderNames:   strPtr("Anna Alt"),
		ShareholderDOBs:    strPtr("1950-01-01"),
		ShareholderDetails: models.ShareholderDetails{{DOB: "1990-01-01"}, {Role: "GF"}},
	}

	shareholders := ParseShareholders(&company, referenceDate)
	if len(shareholders) != 1 || shareholders[0].Name != "Anna Alt" {
		t.Fatalf("Expected fallback to delimited names, got %+v", shareholders)
	}
}

func TestCompanyNachfolgeScore(t *testing.T) {
	testCases := []struct {
		name     string
		company  models.Company
		expected int
	}{
		{
			name:     "No shareholder data",
			company:  models.Company{},
			expected: 1,
		},
		{
			name:     "Blank names",
			company:  models.Company{ShareholderNames: strPtr(" , ")},
			expected: 1,
		},
		{
			name: "Maximum over all shareholders",
			company: models.Company{
				ShareholderNames: strPtr("A, B, C"),
				ShareholderDOBs:  strPtr("1984-01-01, 1954-01-01, 1974-01-01"),
			},
			expected: 10,
		},
		{
			name: "Unparseable date",
			company: models.Company{
				ShareholderNames: strPtr("A"),
				ShareholderDOBs:  strPtr("unknown"),
			},
			expected: 1,
		},
		{
			name: "Nearing retirement",
			company: models.Company{
				ShareholderNames: strPtr("A, B"),
				ShareholderDOBs:  strPtr("1984-01-01, 1964-01-01"),
			},
			expected: 9,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompanyNachfolgeScore(&tc.company, referenceDate); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}
