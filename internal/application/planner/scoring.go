package planner

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/platewise/v1/internal/domain/planner"
)

// Scoring weights. Calorie fit dominates, protein second; disease and diet
// adjustments are flat additive bonuses or penalties.
const (
	weightCalories = 4.0
	weightProtein  = 3.0
	dietBonus      = 1.0
)

// Sodium and sugar thresholds for disease-aware adjustments, in mg and g.
const (
	sodiumLowMg    = 400
	sodiumHighMg   = 600
	sugarLowG      = 15
	sugarHighG     = 25
	sodiumAdjust   = 1.0
	sugarAdjust    = 0.5
)

// Fallback targets used when a Target record carries no usable values, so
// scoring stays meaningful on partial input.
const (
	fallbackDailyCalories = 2000
	fallbackProteinGrams  = 50
)

// ScoreCandidates ranks candidates against the per-meal targets, attaching a
// reason list to each. The result is sorted descending by score; ties keep
// input order (stable sort), and no score is below zero.
func ScoreCandidates(candidates []planner.Candidate, targets planner.Target, facts planner.Fact) []planner.ScoredCandidate {
	adjusted := targets.AdjustedCalories
	if adjusted <= 0 {
		adjusted = fallbackDailyCalories
	}
	proteinGrams := targets.ProteinGrams
	if proteinGrams <= 0 {
		proteinGrams = fallbackProteinGrams
	}
	perMealCalories := math.Round(float64(adjusted) * mainMealShare)
	perMealProtein := math.Round(float64(proteinGrams) * 0.25)

	scored := make([]planner.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		score, reasons := scoreForSlot(c, perMealCalories, perMealProtein, facts)
		scored[i] = planner.ScoredCandidate{Candidate: c, Score: score, Reasons: reasons}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// scoreForSlot computes the weighted score of one candidate against a slot's
// calorie and protein targets. The weekly scheduler reuses it with per-slot
// targets, so slot assignment and request-level ranking agree on what "good"
// means.
func scoreForSlot(c planner.Candidate, targetCalories, targetProtein float64, facts planner.Fact) (float64, []string) {
	var score float64
	reasons := []string{}

	calScore := calorieMatch(c.Nutrition.Calories, targetCalories)
	score += calScore * weightCalories
	if calScore >= 0.7 {
		reasons = append(reasons, "Good calorie match for a main meal")
	} else if calScore >= 0.4 {
		reasons = append(reasons, "Reasonable calorie range")
	}

	proteinScore := proteinMatch(c.Nutrition.Protein, targetProtein)
	score += proteinScore * weightProtein
	if proteinScore >= 0.8 {
		reasons = append(reasons, "High protein")
	} else if proteinScore >= 0.5 {
		reasons = append(reasons, "Moderate protein")
	}

	// Disease adjustments apply only when the condition is present and the
	// nutrient value is known (>0); a 0 usually means "missing upstream".
	if hasHypertension(facts) && c.Nutrition.Sodium > 0 {
		if c.Nutrition.Sodium <= sodiumLowMg {
			score += sodiumAdjust
			reasons = append(reasons, "Low sodium (good for blood pressure)")
		} else if c.Nutrition.Sodium > sodiumHighMg {
			score -= sodiumAdjust
			reasons = append(reasons, "High sodium")
		}
	}

	if facts.HasDisease("diabetes") && c.Nutrition.Sugar > 0 {
		if c.Nutrition.Sugar <= sugarLowG {
			score += sugarAdjust
			reasons = append(reasons, "Lower sugar")
		} else if c.Nutrition.Sugar > sugarHighG {
			score -= sugarAdjust
			reasons = append(reasons, "Higher sugar")
		}
	}

	if facts.DietType != "" && tagMatchesDiet(c, facts.DietType) {
		score += dietBonus
		reasons = append(reasons, fmt.Sprintf("Matches %s preference", facts.DietType))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Matches basic nutrition targets")
	}

	// Floor at zero, round to one decimal.
	score = math.Max(0, math.Round(score*10)/10)
	return score, reasons
}

// calorieMatch is 1 at a perfect match and decays linearly to 0 as the
// candidate drifts a full target-width away.
func calorieMatch(calories, target float64) float64 {
	t := math.Max(1, target)
	return math.Max(0, 1-math.Abs(calories-t)/t)
}

// proteinMatch saturates at 1 once the per-meal protein target is met.
func proteinMatch(protein, target float64) float64 {
	t := math.Max(1, target)
	return math.Min(1, protein/t)
}

// tagMatchesDiet uses the same permissive bidirectional substring match as
// the filter's allergy rule.
func tagMatchesDiet(c planner.Candidate, dietType string) bool {
	for _, tag := range c.Tags {
		if tag == "" {
			continue
		}
		if strings.Contains(tag, dietType) || strings.Contains(dietType, tag) {
			return true
		}
	}
	return false
}

func hasHypertension(facts planner.Fact) bool {
	return facts.HasDisease("hypertension") || facts.HasDisease("blood pressure")
}
