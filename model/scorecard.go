package model

// Breakdown holds the points earned per category
type Breakdown struct {
	Documentation       int `json:"documentation"`
	Structure           int `json:"structure"`
	Completeness        int `json:"completeness"`
	EngineeringMaturity int `json:"engineering_maturity"`
}

// Total is the sum of all categories
func (b Breakdown) Total() int {
	return b.Documentation + b.Structure + b.Completeness + b.EngineeringMaturity
}

// Scorecard is the deterministic maturity score of a repository.
// Overall is always Breakdown.Total(), use NewScorecard to build one.
type Scorecard struct {
	Overall   int       `json:"overall"`
	Breakdown Breakdown `json:"breakdown"`

	// AIScore is an advisory estimate from the forensic analysis, never used as Overall
	AIScore *int `json:"ai_score,omitempty"`
}

func NewScorecard(b Breakdown) Scorecard {
	return Scorecard{
		Overall:   b.Total(),
		Breakdown: b,
	}
}
