package service

import (
	"fmt"
	"strings"

	"github.com/FlorianRuen/repo-insight/model"
)

const (
	promptReadmeLength  = 4000
	promptContextLength = 12000
	promptMaxFiles      = 150
)

// BuildAnalysisPrompt embeds the repository signals and the expected JSON shape
func BuildAnalysisPrompt(in AnalysisInput) string {
	var prompt strings.Builder

	if in.Mode == model.AnalysisModeForensic {
		prompt.WriteString("You are a senior engineer performing a forensic review of a GitHub repository. ")
		prompt.WriteString("Judge only what the provided material shows, never invent files or features.\n\n")
	} else {
		prompt.WriteString("You are a senior engineer reviewing a GitHub repository for a technical interview.\n\n")
	}

	fmt.Fprintf(&prompt, "Repository: %s\n\n", in.Repo.FullName())

	if in.TechStack != "" {
		fmt.Fprintf(&prompt, "Tech stack: %s\n\n", in.TechStack)
	}

	readme := strings.TrimSpace(truncate(in.Readme, promptReadmeLength))
	if readme == "" {
		readme = "(no README)"
	}

	fmt.Fprintf(&prompt, "README:\n%s\n\n", readme)

	files := in.Files
	if len(files) > promptMaxFiles {
		files = files[:promptMaxFiles]
	}

	fmt.Fprintf(&prompt, "Files (%d total):\n%s\n\n", len(in.Files), strings.Join(files, "\n"))

	if in.Context != "" {
		fmt.Fprintf(&prompt, "Source excerpts:\n%s\n\n", truncate(in.Context, promptContextLength))
	}

	if in.Mode == model.AnalysisModeForensic {
		prompt.WriteString(`Return ONLY a JSON object, no markdown, no code fences, with this shape:
{
  "summary": ["3 to 5 short factual bullet points about what the project does and how"],
  "technical_questions": ["3 to 6 probing questions about specific design decisions visible in the code"],
  "technical_notes": ["up to 8 concrete observations about code quality, risks and gaps"],
  "ai_score": 0
}
ai_score is your own 0-100 estimate of engineering quality.`)
	} else {
		prompt.WriteString(`Return ONLY a JSON object, no markdown, no code fences, with this shape:
{
  "summary": "2-3 sentences describing what the project does",
  "technical_questions": ["exactly 3 questions an interviewer should ask the author"],
  "notes": ["up to 5 short qualitative observations"]
}`)
	}

	return prompt.String()
}

// BuildEvaluationPrompt asks the model to grade an answer against the README only
func BuildEvaluationPrompt(req model.EvaluateAnswerRequest) string {
	var prompt strings.Builder

	prompt.WriteString("You grade how well a candidate understands their own project.\n")
	prompt.WriteString("The README below is the only source of truth.\n\n")
	fmt.Fprintf(&prompt, "README:\n%s\n\n", truncate(strings.TrimSpace(req.Readme), promptReadmeLength))
	fmt.Fprintf(&prompt, "Question:\n%s\n\n", strings.TrimSpace(req.Question))
	fmt.Fprintf(&prompt, "Candidate answer:\n%s\n\n", strings.TrimSpace(req.Answer))

	prompt.WriteString(`Score four dimensions from 0 to 25 each:
- consistency: the answer agrees with the README
- specificity: the answer names concrete components, files or numbers
- depth: the answer explains reasoning and trade-offs, not only facts
- honesty: the answer acknowledges limitations and unknowns

Rules you must apply:
- if the answer introduces claims the README does not support, consistency must be below 10
- if the answer is generic and could describe any project, specificity must be below 10
- if the answer only restates the question, depth must be below 5
- if the answer claims certainty about things the README does not cover, honesty must be below 10

Return ONLY a JSON object, no markdown, no code fences:
{
  "understanding_score": 0,
  "breakdown": {"consistency": 0, "specificity": 0, "depth": 0, "honesty": 0},
  "flags": ["short snake_case flags such as unsupported_claims or generic_answer"],
  "notes": ["short justification per dimension"],
  "confidence_level": "low | medium | high"
}`)

	return prompt.String()
}
