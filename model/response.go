package model

type AnalyzeRepoResponse struct {
	Repo               RepoRef   `json:"repo"`
	Mode               string    `json:"mode"`
	Summary            Summary   `json:"summary"`
	TechnicalQuestions []string  `json:"technical_questions"`
	Scorecard          Scorecard `json:"scorecard"`
	Notes              []string  `json:"notes"`
	TechStack          []string  `json:"tech_stack,omitempty"`
	FilesAnalyzed      int       `json:"files_analyzed"`
	HasReadme          bool      `json:"has_readme"`
	AnalysisDegraded   bool      `json:"analysis_degraded"`
}
