package service

import (
	"context"
	"errors"
	"strings"

	"github.com/FlorianRuen/repo-insight/config"
	"github.com/FlorianRuen/repo-insight/llm"
	"github.com/FlorianRuen/repo-insight/model"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	standardQuestions    = 3
	forensicMinQuestions = 3
	forensicMaxQuestions = 6
	standardMaxNotes     = 5
	forensicMaxNotes     = 8
	forensicMaxPoints    = 5
)

const (
	fallbackSummary       = "AI analysis is currently unavailable. The scorecard above is computed from the repository structure only."
	fallbackNote          = "No qualitative notes were produced for this repository."
	notConfiguredNote     = "AI analysis skipped: no LLM API key is configured."
	failedAnalysisNote    = "AI analysis failed: placeholder content is shown instead."
	malformedAnalysisNote = "AI analysis returned an unreadable reply: placeholder content is shown instead."
)

// fillerQuestions pad under-supplied question lists and build the fallback object
var fillerQuestions = []string{
	"What are the main components of this project and how do they interact?",
	"How is the project tested, and which parts are not covered by tests?",
	"What would you change first to make this project easier to maintain?",
	"How are errors and edge cases handled in the core logic?",
	"How would the project behave under a significantly higher load?",
	"Which external dependencies are critical and how are they isolated?",
}

type AnalysisInput struct {
	Repo      model.RepoRef
	Readme    string
	Files     []string
	TechStack string
	Context   string
	Mode      model.AnalysisMode
}

type AnalysisService interface {
	Analyze(ctx context.Context, in AnalysisInput) model.Analysis
	Enabled() bool
}

type analysisService struct {
	generator llm.Generator
	config    config.Config
}

func NewAnalysisService(config config.Config, generator llm.Generator) AnalysisService {
	return analysisService{
		generator: generator,
		config:    config,
	}
}

// Enabled reports whether a real LLM is behind the service
func (s analysisService) Enabled() bool {
	_, disabled := s.generator.(llm.Disabled)
	return !disabled
}

// Analyze never fails: LLM errors and unreadable replies give the fallback analysis
func (s analysisService) Analyze(ctx context.Context, in AnalysisInput) model.Analysis {
	logger := log.WithFields(log.Fields{
		"repository": in.Repo.FullName(),
		"mode":       in.Mode,
		"generator":  s.generator.Name(),
	})

	reply, err := s.generator.Generate(ctx, BuildAnalysisPrompt(in), llm.Options{
		Temperature:     s.config.LLM.Temperature,
		MaxOutputTokens: s.config.LLM.MaxOutputTokens,
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			logger.Debug("analysis skipped, llm not configured")
			return FallbackAnalysis(in.Mode, notConfiguredNote)
		}

		logger.WithError(err).Warning("llm analysis failed, using fallback")
		return FallbackAnalysis(in.Mode, failedAnalysisNote)
	}

	parsed, err := ParseReply(reply)
	if err != nil {
		logger.WithField("reply", truncate(reply, 300)).Warning("unreadable llm analysis, using fallback")
		return FallbackAnalysis(in.Mode, malformedAnalysisNote)
	}

	return NormalizeAnalysis(parsed, in.Mode)
}

// FallbackAnalysis is the fixed placeholder returned when the LLM cannot be used
func FallbackAnalysis(mode model.AnalysisMode, reason string) model.Analysis {
	analysis := model.Analysis{
		Summary:            model.Summary{Text: fallbackSummary},
		TechnicalQuestions: append([]string(nil), fillerQuestions[:standardQuestions]...),
		Notes:              []string{reason},
		Degraded:           true,
	}

	if mode == model.AnalysisModeForensic {
		analysis.Summary = model.Summary{Points: []string{fallbackSummary}}
	}

	return analysis
}

// NormalizeAnalysis coerces a parsed reply into the fixed response shape
func NormalizeAnalysis(reply gjson.Result, mode model.AnalysisMode) model.Analysis {
	if mode == model.AnalysisModeForensic {
		return normalizeForensic(reply)
	}

	var summary string
	switch v := reply.Get("summary"); {
	case v.Type == gjson.String && strings.TrimSpace(v.Str) != "":
		summary = strings.TrimSpace(v.Str)
	case v.IsArray():
		if points, _ := stringList(v); len(points) > 0 {
			summary = strings.Join(points, " ")
		}
	}

	if summary == "" {
		summary = fallbackSummary
	}

	questions := coerceList(reply.Get("technical_questions"), standardQuestions, fillerQuestions[0])

	return model.Analysis{
		Summary:            model.Summary{Text: summary},
		TechnicalQuestions: padList(questions, standardQuestions, fillerQuestions),
		Notes:              coerceList(firstOf(reply, "notes", "technical_notes"), standardMaxNotes, fallbackNote),
	}
}

func normalizeForensic(reply gjson.Result) model.Analysis {
	var points []string
	switch v := reply.Get("summary"); {
	case v.Type == gjson.String && strings.TrimSpace(v.Str) != "":
		points = []string{strings.TrimSpace(v.Str)}
	default:
		points = coerceList(v, forensicMaxPoints, fallbackSummary)
	}

	questions := coerceList(reply.Get("technical_questions"), forensicMaxQuestions, fillerQuestions[0])

	analysis := model.Analysis{
		Summary:            model.Summary{Points: points},
		TechnicalQuestions: padList(questions, forensicMinQuestions, fillerQuestions),
		Notes:              coerceList(firstOf(reply, "technical_notes", "notes"), forensicMaxNotes, fallbackNote),
	}

	if score := reply.Get("ai_score"); score.Type == gjson.Number {
		estimate := clamp(int(score.Int()), 0, 100)
		analysis.AIScore = &estimate
	}

	return analysis
}
