package planner

import (
	"math"
	"strings"

	"github.com/platewise/v1/internal/domain/planner"
)

// mainMealShare approximates a main meal's share of daily calories for the
// filter's calorie band.
const mainMealShare = 0.3

// DefaultCalorieTolerance is the width of the per-meal calorie band. It is
// deliberately wide; the scoring stage refines the match afterwards.
const DefaultCalorieTolerance = 0.5

// FilterEngine removes candidates that violate hard constraints: allergy
// safety, diet type, the per-meal calorie band, minimum protein, and
// disease-specific ceilings. It is a pure function of its inputs.
type FilterEngine struct {
	// CalorieTolerance is the fractional half-width of the calorie band.
	CalorieTolerance float64
}

// NewFilterEngine creates a filter engine with the default calorie band.
func NewFilterEngine() *FilterEngine {
	return &FilterEngine{CalorieTolerance: DefaultCalorieTolerance}
}

// Filter returns the candidates that pass every rule, preserving input
// order. An empty result is a warning condition for the caller, never an
// error here.
func (fe *FilterEngine) Filter(candidates []planner.Candidate, targets planner.Target, facts planner.Fact) []planner.Candidate {
	perMealCalories := 0.0
	if targets.AdjustedCalories > 0 {
		perMealCalories = float64(targets.AdjustedCalories) * mainMealShare
	}
	minProtein := math.Max(10, math.Round(float64(targets.ProteinGrams)*0.25))
	carbRatioMax, hasCarbCeiling := targets.DiseaseConstraints[planner.ConstraintCarbRatioMax]

	out := make([]planner.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !allergySafe(c, facts.Allergies) {
			continue
		}
		if !dietMatches(c, facts.DietType) {
			continue
		}
		// Calorie band is skipped entirely when no target is available.
		if perMealCalories > 0 && !withinBand(c.Nutrition.Calories, perMealCalories, fe.CalorieTolerance) {
			continue
		}
		if c.Nutrition.Protein < minProtein {
			continue
		}
		// Carb ratio ceiling; skipped at zero calories to avoid dividing
		// by nothing on malformed provider data.
		if hasCarbCeiling && carbRatioMax < 1 && c.Nutrition.Calories > 0 {
			carbRatio := (c.Nutrition.Carbs * 4) / c.Nutrition.Calories
			if carbRatio > carbRatioMax {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// allergySafe reports whether none of the user's allergies matches any
// candidate allergen. Matching is bidirectional substring: "nut" flags
// "peanut" and vice versa. Intentionally permissive.
func allergySafe(c planner.Candidate, allergies []string) bool {
	if len(allergies) == 0 {
		return true
	}
	for _, allergen := range c.Allergens {
		for _, allergy := range allergies {
			if allergen == "" || allergy == "" {
				continue
			}
			if strings.Contains(allergen, allergy) || strings.Contains(allergy, allergen) {
				return false
			}
		}
	}
	return true
}

// dietMatches enforces vegan/vegetarian tag requirements. An unset diet type
// imposes no constraint; a vegan tag satisfies a vegetarian diet.
func dietMatches(c planner.Candidate, dietType string) bool {
	if dietType == "" {
		return true
	}
	if strings.Contains(dietType, "vegan") {
		return c.HasTag("vegan")
	}
	if strings.Contains(dietType, "vegetarian") {
		return c.HasTag("vegetarian") || c.HasTag("vegan")
	}
	return true
}

func withinBand(value, target, tolerance float64) bool {
	if target <= 0 {
		return true
	}
	return value >= target*(1-tolerance) && value <= target*(1+tolerance)
}
