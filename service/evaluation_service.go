package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FlorianRuen/repo-insight/config"
	"github.com/FlorianRuen/repo-insight/llm"
	"github.com/FlorianRuen/repo-insight/model"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	maxDimensionScore     = 25
	maxUnderstandingScore = 100
	maxEvaluationNotes    = 8
)

const (
	FlagEvaluationFailed  = "evaluation_failed"
	FlagMalformedResponse = "malformed_response"

	defaultEvaluationNote = "No additional notes provided."
)

type EvaluationService interface {
	Evaluate(ctx context.Context, req model.EvaluateAnswerRequest) (model.EvaluationResult, error)
}

type evaluationService struct {
	generator llm.Generator
	config    config.Config
}

func NewEvaluationService(config config.Config, generator llm.Generator) EvaluationService {
	return evaluationService{
		generator: generator,
		config:    config,
	}
}

// Evaluate grades an answer against a README.
// Missing credentials, LLM failures and unreadable replies all give a zero, low confidence
// result flagged evaluation_failed. Only a cancelled or expired context is returned as error.
func (s evaluationService) Evaluate(ctx context.Context, req model.EvaluateAnswerRequest) (model.EvaluationResult, error) {
	logger := log.WithField("generator", s.generator.Name())

	reply, err := s.generator.Generate(ctx, BuildEvaluationPrompt(req), llm.Options{
		Temperature:     s.config.LLM.Temperature,
		MaxOutputTokens: s.config.LLM.MaxOutputTokens,
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			logger.Debug("evaluation skipped, llm not configured")
			return FallbackEvaluation("Evaluation skipped: no LLM API key is configured."), nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.EvaluationResult{}, fmt.Errorf("%w: evaluation interrupted: %v", model.ErrInternal, ctxErr)
		}

		logger.WithError(err).Warning("llm evaluation failed, using fallback")
		return FallbackEvaluation("Evaluation failed: the language model could not be reached."), nil
	}

	parsed, err := ParseReply(reply)
	if err != nil {
		logger.WithField("reply", truncate(reply, 300)).Warning("unreadable llm evaluation, using fallback")

		result := FallbackEvaluation("Evaluation failed: the language model returned an unreadable reply.")
		result.Flags = append(result.Flags, FlagMalformedResponse)

		return result, nil
	}

	return NormalizeEvaluation(parsed), nil
}

// FallbackEvaluation is the zero score result used whenever grading is impossible
func FallbackEvaluation(note string) model.EvaluationResult {
	return model.EvaluationResult{
		UnderstandingScore: 0,
		Breakdown:          model.UnderstandingBreakdown{},
		Flags:              []string{FlagEvaluationFailed},
		Notes:              []string{note},
		ConfidenceLevel:    model.ConfidenceLow,
	}
}

// NormalizeEvaluation clamps scores and fills defaults on a parsed reply
func NormalizeEvaluation(reply gjson.Result) model.EvaluationResult {
	breakdown := model.UnderstandingBreakdown{
		Consistency: dimensionScore(reply, "consistency", "consistency_with_source"),
		Specificity: dimensionScore(reply, "specificity"),
		Depth:       dimensionScore(reply, "depth", "depth_of_reasoning", "reasoning_depth"),
		Honesty:     dimensionScore(reply, "honesty", "honesty_about_limitations"),
	}

	score := breakdown.Total()
	if reported := reply.Get("understanding_score"); reported.Type == gjson.Number {
		score = int(reported.Int())
	}

	flags, ok := stringList(reply.Get("flags"))
	if !ok {
		flags = []string{}
	}

	notes, ok := stringList(reply.Get("notes"))
	if !ok || len(notes) == 0 {
		notes = []string{defaultEvaluationNote}
	}

	if len(notes) > maxEvaluationNotes {
		notes = notes[:maxEvaluationNotes]
	}

	return model.EvaluationResult{
		UnderstandingScore: clamp(score, 0, maxUnderstandingScore),
		Breakdown:          breakdown,
		Flags:              flags,
		Notes:              notes,
		ConfidenceLevel:    confidenceLevel(reply.Get("confidence_level")),
	}
}

// dimensionScore looks the dimension up in breakdown first, then at the top level
func dimensionScore(reply gjson.Result, names ...string) int {
	paths := make([]string, 0, len(names)*2)
	for _, n := range names {
		paths = append(paths, "breakdown."+n)
	}

	paths = append(paths, names...)

	value := firstOf(reply, paths...)

	switch value.Type {
	case gjson.Number, gjson.String:
		return clamp(int(value.Int()), 0, maxDimensionScore)
	default:
		return 0
	}
}

func confidenceLevel(value gjson.Result) model.ConfidenceLevel {
	level := model.ConfidenceLevel(strings.ToLower(strings.TrimSpace(value.String())))

	switch level {
	case model.ConfidenceLow, model.ConfidenceMedium, model.ConfidenceHigh:
		return level
	default:
		return model.ConfidenceMedium
	}
}
