package model

import (
	"fmt"
	"strings"
)

type AnalyzeRepoRequest struct {
	RepoURL string `json:"repo_url" binding:"required"`
	Mode    string `json:"mode"`
}

// AnalysisMode validates the optional analysis mode
func (r AnalyzeRepoRequest) AnalysisMode() (AnalysisMode, error) {
	switch AnalysisMode(strings.ToLower(strings.TrimSpace(r.Mode))) {
	case "", AnalysisModeStandard:
		return AnalysisModeStandard, nil
	case AnalysisModeForensic:
		return AnalysisModeForensic, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, r.Mode)
	}
}

type EvaluateAnswerRequest struct {
	Readme   string `json:"readme"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// EvaluateAnswerBody is the bound request body.
// Fields are pointers so that an empty string is accepted while a missing field is not.
type EvaluateAnswerBody struct {
	Readme   *string `json:"readme" binding:"required"`
	Question *string `json:"question" binding:"required"`
	Answer   *string `json:"answer" binding:"required"`
}

func (b EvaluateAnswerBody) ToRequest() EvaluateAnswerRequest {
	var req EvaluateAnswerRequest

	if b.Readme != nil {
		req.Readme = *b.Readme
	}

	if b.Question != nil {
		req.Question = *b.Question
	}

	if b.Answer != nil {
		req.Answer = *b.Answer
	}

	return req
}
