package triage

// Confidence is a coarse label for how strongly the matched keywords support
// the suggested department.
//
// Policy: with m matched keywords out of the winning entry's k keywords,
// m/k >= 0.5 yields high, m >= 2 yields medium, m == 1 yields low. Zero
// matches across every entry yields none together with the default department.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// Result is the outcome of a triage analysis. It is constructed fresh per
// call and never persisted by this package.
type Result struct {
	SuggestedDepartment string     `json:"suggested_department"`
	Confidence          Confidence `json:"confidence"`
	Description         string     `json:"description"`
	MatchedKeywords     []string   `json:"matched_keywords,omitempty"`
}
