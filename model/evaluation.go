package model

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// UnderstandingBreakdown scores each dimension from 0 to 25
type UnderstandingBreakdown struct {
	Consistency int `json:"consistency"`
	Specificity int `json:"specificity"`
	Depth       int `json:"depth"`
	Honesty     int `json:"honesty"`
}

func (b UnderstandingBreakdown) Total() int {
	return b.Consistency + b.Specificity + b.Depth + b.Honesty
}

type EvaluationResult struct {
	UnderstandingScore int                    `json:"understanding_score"`
	Breakdown          UnderstandingBreakdown `json:"breakdown"`
	Flags              []string               `json:"flags"`
	Notes              []string               `json:"notes"`
	ConfidenceLevel    ConfidenceLevel        `json:"confidence_level"`
}
