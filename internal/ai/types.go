// Package ai produces spending analyses, preferring a remote analyzer service
// and falling back to a deterministic local heuristic when it is unreachable.
package ai

// Intent labels the likely motivation behind a category's spending.
type Intent string

const (
	IntentPlanned   Intent = "Planned"
	IntentImpulse   Intent = "Impulse"
	IntentEmotional Intent = "Emotional"
	IntentUnknown   Intent = "Unknown"
)

// RiskLevel grades how costly a spending pattern looks.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ExpenseInsight is one per-category finding of an analysis.
type ExpenseInsight struct {
	Category        string    `json:"category"`
	SubType         string    `json:"subType,omitempty"`
	Intent          Intent    `json:"intent"`
	Risk            RiskLevel `json:"risk"`
	HabitLikelihood float64   `json:"habitLikelihood"`
	Reasoning       string    `json:"reasoning"`
}

// Metrics aggregates an analysis into headline numbers.
type Metrics struct {
	ImpulseSpending  float64 `json:"impulseSpending"`
	BadHabitCount    int     `json:"badHabitCount"`
	PotentialSavings int64   `json:"potentialSavings"`
}

// AnalysisResult is the full output of a spending analysis.
type AnalysisResult struct {
	Insights          []ExpenseInsight `json:"insights"`
	Suggestions       []string         `json:"suggestions"`
	ShortExplanations []string         `json:"shortExplanations"`
	Metrics           Metrics          `json:"metrics"`
}
