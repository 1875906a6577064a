package service

import (
	"context"
	"errors"
	"testing"

	"github.com/FlorianRuen/repo-insight/config"
	"github.com/FlorianRuen/repo-insight/llm"
	"github.com/FlorianRuen/repo-insight/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzeWith(t *testing.T, generator llm.Generator, mode model.AnalysisMode) model.Analysis {
	t.Helper()

	svc := NewAnalysisService(*config.GetDefault(), generator)
	return svc.Analyze(context.Background(), AnalysisInput{
		Repo:   testRepo,
		Readme: "# Demo",
		Files:  []string{"main.go", "go.mod"},
		Mode:   mode,
	})
}

func TestAnalyzeStandard(t *testing.T) {
	tests := []struct {
		name              string
		reply             string
		expectedSummary   string
		expectedQuestions []string
		expectedNotes     []string
	}{
		{
			name: "Well formed reply wrapped in code fences",
			reply: "```json\n" + `{
				"summary": "A small HTTP service.",
				"technical_questions": ["Q1", "Q2", "Q3", "Q4"],
				"notes": ["N1"]
			}` + "\n```",
			expectedSummary:   "A small HTTP service.",
			expectedQuestions: []string{"Q1", "Q2", "Q3"},
			expectedNotes:     []string{"N1"},
		},
		{
			name:              "Prose around the object and non string items",
			reply:             `Here is the analysis: {"summary": "S", "technical_questions": ["Q1", 42, null, "  "], "notes": "not a list"} Hope it helps`,
			expectedSummary:   "S",
			expectedQuestions: []string{"Q1", fillerQuestions[0], fillerQuestions[1]},
			expectedNotes:     []string{fallbackNote},
		},
		{
			name:              "Empty object",
			reply:             `{}`,
			expectedSummary:   fallbackSummary,
			expectedQuestions: fillerQuestions[:3],
			expectedNotes:     []string{fallbackNote},
		},
		{
			name:              "Summary given as list",
			reply:             `{"summary": ["First.", "Second."], "technical_questions": ["Q1", "Q2", "Q3"], "technical_notes": ["N1", "N2"]}`,
			expectedSummary:   "First. Second.",
			expectedQuestions: []string{"Q1", "Q2", "Q3"},
			expectedNotes:     []string{"N1", "N2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := analyzeWith(t, &fakeGenerator{reply: tt.reply}, model.AnalysisModeStandard)

			assert.Equal(t, tt.expectedSummary, analysis.Summary.Text)
			assert.Nil(t, analysis.Summary.Points)
			assert.Equal(t, tt.expectedQuestions, analysis.TechnicalQuestions)
			assert.Equal(t, tt.expectedNotes, analysis.Notes)
			assert.Nil(t, analysis.AIScore)
			assert.False(t, analysis.Degraded)
		})
	}
}

func TestAnalyzeNotesCapped(t *testing.T) {
	analysis := analyzeWith(t, &fakeGenerator{
		reply: `{"summary":"S","technical_questions":["Q1","Q2","Q3"],"notes":["1","2","3","4","5","6","7"]}`,
	}, model.AnalysisModeStandard)

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, analysis.Notes)
}

func TestAnalyzeForensic(t *testing.T) {
	tests := []struct {
		name              string
		reply             string
		expectedPoints    []string
		expectedQuestions int
		expectedAIScore   *int
	}{
		{
			name:              "Full reply",
			reply:             `{"summary":["P1","P2","P3","P4","P5","P6"],"technical_questions":["Q1","Q2","Q3","Q4","Q5","Q6","Q7"],"technical_notes":["N"],"ai_score":72}`,
			expectedPoints:    []string{"P1", "P2", "P3", "P4", "P5"},
			expectedQuestions: 6,
			expectedAIScore:   intPtr(72),
		},
		{
			name:              "Score out of range and summary as text",
			reply:             `{"summary":"One paragraph.","technical_questions":["Q1"],"ai_score":250}`,
			expectedPoints:    []string{"One paragraph."},
			expectedQuestions: 3,
			expectedAIScore:   intPtr(100),
		},
		{
			name:              "Score not a number",
			reply:             `{"summary":["P1"],"technical_questions":["Q1","Q2","Q3","Q4"],"ai_score":"high"}`,
			expectedPoints:    []string{"P1"},
			expectedQuestions: 4,
			expectedAIScore:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := analyzeWith(t, &fakeGenerator{reply: tt.reply}, model.AnalysisModeForensic)

			assert.Equal(t, tt.expectedPoints, analysis.Summary.Points)
			assert.Len(t, analysis.TechnicalQuestions, tt.expectedQuestions)
			assert.Equal(t, tt.expectedAIScore, analysis.AIScore)
			assert.NotEmpty(t, analysis.Notes)
		})
	}
}

func TestAnalyzeFallback(t *testing.T) {
	tests := []struct {
		name         string
		generator    llm.Generator
		expectedNote string
	}{
		{
			name:         "LLM not configured",
			generator:    llm.Disabled{},
			expectedNote: notConfiguredNote,
		},
		{
			name:         "LLM call failed",
			generator:    &fakeGenerator{err: errors.New("connection refused")},
			expectedNote: failedAnalysisNote,
		},
		{
			name:         "Unreadable reply",
			generator:    &fakeGenerator{reply: "I cannot help with that"},
			expectedNote: malformedAnalysisNote,
		},
		{
			name:         "Reply is an array",
			generator:    &fakeGenerator{reply: `["not", "an", "object"]`},
			expectedNote: malformedAnalysisNote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := analyzeWith(t, tt.generator, model.AnalysisModeStandard)

			assert.True(t, analysis.Degraded)
			assert.Equal(t, fallbackSummary, analysis.Summary.Text)
			assert.Len(t, analysis.TechnicalQuestions, standardQuestions)
			assert.Equal(t, []string{tt.expectedNote}, analysis.Notes)
		})
	}
}

func TestAnalyzePromptContent(t *testing.T) {
	generator := &fakeGenerator{reply: `{}`}
	svc := NewAnalysisService(*config.GetDefault(), generator)

	svc.Analyze(context.Background(), AnalysisInput{
		Repo:      testRepo,
		Readme:    "# Demo readme",
		Files:     []string{"cmd/demo/main.go"},
		TechStack: "express, react",
		Context:   "--- FILE: main.go ---\npackage main",
		Mode:      model.AnalysisModeForensic,
	})

	require.Len(t, generator.prompts, 1)
	prompt := generator.prompts[0]

	assert.Contains(t, prompt, "owner/repo")
	assert.Contains(t, prompt, "# Demo readme")
	assert.Contains(t, prompt, "cmd/demo/main.go")
	assert.Contains(t, prompt, "express, react")
	assert.Contains(t, prompt, "--- FILE: main.go ---")
	assert.Contains(t, prompt, "ai_score")
}

func TestAnalysisServiceEnabled(t *testing.T) {
	assert.False(t, NewAnalysisService(*config.GetDefault(), llm.Disabled{}).Enabled())
	assert.True(t, NewAnalysisService(*config.GetDefault(), &fakeGenerator{}).Enabled())
}

func intPtr(v int) *int { return &v }
