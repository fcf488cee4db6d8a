package scholarship

import "strings"

// Category is the reservation category a student applies under.
type Category string

const (
	CategoryGeneral Category = "General"
	CategoryOBC     Category = "OBC"
	CategorySC      Category = "SC"
	CategoryST      Category = "ST"
	CategoryEWS     Category = "EWS"
	CategoryPwD     Category = "PwD"
)

// Categories lists the categories offered by the profile form, in display
// order.
var Categories = []Category{
	CategoryGeneral, CategoryOBC, CategorySC, CategoryST, CategoryEWS, CategoryPwD,
}

// Label returns the human-readable form shown in pickers.
func (c Category) Label() string {
	if c == CategoryPwD {
		return "PwD (Disability)"
	}
	return string(c)
}

// StudentProfile is what a student tells us about themselves. Every field
// is free text and is sent as entered; nothing is range-checked.
type StudentProfile struct {
	Name            string   `json:"name" yaml:"name"`
	State           string   `json:"state" yaml:"state"`
	Category        Category `json:"category" yaml:"category"`
	AnnualIncome    string   `json:"annualIncome" yaml:"annualIncome"`
	LastClass       string   `json:"lastClass" yaml:"lastClass"`
	Percentage      string   `json:"percentage" yaml:"percentage"`
	CurrentCourse   string   `json:"currentCourse" yaml:"currentCourse"`
	SituationPrompt string   `json:"situationPrompt" yaml:"situationPrompt"`
}

// AnalysisResult is the service's eligibility assessment of a profile.
// Values are kept exactly as received: the probability is not clamped,
// lists are not deduplicated and URLs are not checked.
type AnalysisResult struct {
	EligibilityStatus     string               `json:"eligibilityStatus"`
	AcceptanceProbability int                  `json:"acceptanceProbability"`
	RiskFactors           []string             `json:"riskFactors"`
	MatchedScholarships   []MatchedScholarship `json:"matchedScholarships"`
	DetailedReasoning     string               `json:"detailedReasoning"`
	ActionPlan            ActionPlan           `json:"actionPlan"`
	MissingInformation    []string             `json:"missingInformation,omitempty"`
}

// MatchedScholarship is one scheme the student may apply to.
type MatchedScholarship struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	URL      string `json:"url"`
	Amount   string `json:"amount,omitempty"`
}

// ActionPlan is the apply / don't-apply recommendation.
type ActionPlan struct {
	ShouldApply        bool     `json:"shouldApply"`
	Reason             string   `json:"reason"`
	EssentialDocuments []string `json:"essentialDocuments"`
}

// EligibilityStatus is the normalized verdict used for styling.
type EligibilityStatus string

const (
	StatusEligible       EligibilityStatus = "Eligible"
	StatusNotEligible    EligibilityStatus = "Not Eligible"
	StatusBorderline     EligibilityStatus = "Borderline"
	StatusIncompleteData EligibilityStatus = "Incomplete Data"
	StatusUnknown        EligibilityStatus = ""
)

// NormalizeStatus maps free-form verdict text onto the known statuses.
// The service is asked for the enum but not forced to use it, so phrases
// like "Likely eligible for NSP" are common.
func NormalizeStatus(s string) EligibilityStatus {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "not eligible"), strings.Contains(l, "ineligible"):
		return StatusNotEligible
	case strings.Contains(l, "incomplete"):
		return StatusIncompleteData
	case strings.Contains(l, "borderline"):
		return StatusBorderline
	case strings.Contains(l, "eligible"):
		return StatusEligible
	}
	return StatusUnknown
}

// Band groups approval probabilities for coloring.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

// ProbabilityBand returns the band for p: 80 and above is high, 50 and
// above medium, anything lower is low. Out-of-range values are banded by
// the same thresholds.
func ProbabilityBand(p int) Band {
	switch {
	case p >= 80:
		return BandHigh
	case p >= 50:
		return BandMedium
	}
	return BandLow
}

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	}
	return "low"
}
