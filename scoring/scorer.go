// Package scoring computes the deterministic maturity scorecard of a repository
// from its README and file list. It has no I/O and no hidden state.
package scoring

import (
	"slices"
	"unicode/utf8"

	"github.com/FlorianRuen/repo-insight/model"
)

const (
	MaxDocumentation       = 25
	MaxStructure           = 25
	MaxCompleteness        = 20
	MaxEngineeringMaturity = 30
)

// Scorer applies a fixed set of rules, it is safe for concurrent use
type Scorer struct {
	rules Rules
}

func NewScorer(rules Rules) Scorer {
	return Scorer{rules: rules}
}

// Score uses the default rules
func Score(readme string, files []string) model.Scorecard {
	return NewScorer(DefaultRules()).Score(readme, files)
}

func (s Scorer) Score(readme string, files []string) model.Scorecard {
	return model.NewScorecard(model.Breakdown{
		Documentation:       s.Documentation(readme),
		Structure:           s.Structure(files),
		Completeness:        s.Completeness(files),
		EngineeringMaturity: s.EngineeringMaturity(files),
	})
}

// Documentation rewards README length, counted in characters
func (s Scorer) Documentation(readme string) int {
	length := utf8.RuneCountInString(readme)
	score := 0

	if length > 0 {
		score += 10
	}

	if length > 500 {
		score += 5
	}

	if length > 2000 {
		score += 5
	}

	if length > 5000 {
		score += 5
	}

	return score
}

func (s Scorer) Structure(files []string) int {
	score := 0

	if len(files) > 5 {
		score += 5
	}

	if len(files) > 20 {
		score += 5
	}

	if len(files) > 50 {
		score += 5
	}

	if slices.ContainsFunc(files, s.rules.isDependencyManifest) {
		score += 10
	}

	return score
}

func (s Scorer) Completeness(files []string) int {
	testFiles := 0
	for _, f := range files {
		if s.rules.isTestFile(f) {
			testFiles++
		}
	}

	score := 0

	if testFiles >= 1 {
		score += 10
	}

	if testFiles > 3 {
		score += 10
	}

	return score
}

func (s Scorer) EngineeringMaturity(files []string) int {
	score := 0

	if slices.ContainsFunc(files, s.rules.isCIConfig) {
		score += 15
	}

	if slices.ContainsFunc(files, s.rules.isConfigExample) {
		score += 5
	}

	if slices.ContainsFunc(files, s.rules.isLicense) {
		score += 5
	}

	if slices.ContainsFunc(files, s.rules.isCommunityFile) {
		score += 5
	}

	return score
}
