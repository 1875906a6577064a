package model

import (
	"encoding/json"
)

type AnalysisMode string

const (
	AnalysisModeStandard AnalysisMode = "standard"
	AnalysisModeForensic AnalysisMode = "forensic"
)

// Summary is a single paragraph in standard mode and a list of points in forensic mode
type Summary struct {
	Text   string
	Points []string
}

func (s Summary) MarshalJSON() ([]byte, error) {
	if s.Points != nil {
		return json.Marshal(s.Points)
	}

	return json.Marshal(s.Text)
}

// UnmarshalJSON accepts both a string and an array of strings
func (s *Summary) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = Summary{Text: text}
		return nil
	}

	var points []string
	if err := json.Unmarshal(data, &points); err != nil {
		return err
	}

	*s = Summary{Points: points}
	return nil
}

// Analysis is the qualitative part of a repository analysis, always fully populated
type Analysis struct {
	Summary            Summary  `json:"summary"`
	TechnicalQuestions []string `json:"technical_questions"`
	Notes              []string `json:"notes"`

	// AIScore is only set in forensic mode
	AIScore *int `json:"-"`

	// Degraded is true when placeholder content was used
	Degraded bool `json:"-"`
}
