package scholarship

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want EligibilityStatus
	}{
		{"Eligible", StatusEligible},
		{"Likely eligible for NSP", StatusEligible},
		{"Not Eligible", StatusNotEligible},
		{"NOT ELIGIBLE due to income", StatusNotEligible},
		{"Ineligible", StatusNotEligible},
		{"Borderline", StatusBorderline},
		{"Incomplete Data", StatusIncompleteData},
		{"Pending review", StatusUnknown},
		{"", StatusUnknown},
	}
	for _, tt := range tests {
		if got := NormalizeStatus(tt.in); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProbabilityBand(t *testing.T) {
	tests := []struct {
		p    int
		want Band
	}{
		{-5, BandLow},
		{0, BandLow},
		{49, BandLow},
		{50, BandMedium},
		{79, BandMedium},
		{80, BandHigh},
		{100, BandHigh},
		{140, BandHigh},
	}
	for _, tt := range tests {
		if got := ProbabilityBand(tt.p); got != tt.want {
			t.Errorf("ProbabilityBand(%d) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	if CategoryPwD.Label() != "PwD (Disability)" {
		t.Errorf("unexpected PwD label %q", CategoryPwD.Label())
	}
	if CategorySC.Label() != "SC" {
		t.Errorf("unexpected SC label %q", CategorySC.Label())
	}
	if len(Categories) != 6 {
		t.Errorf("expected 6 categories, got %d", len(Categories))
	}
}
