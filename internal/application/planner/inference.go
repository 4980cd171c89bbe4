package planner

import (
	"math"

	"github.com/platewise/v1/internal/domain/planner"
)

// Macro ratio fallbacks used when a goal rule does not specify its own.
const (
	defaultProteinRatio = 0.20
	defaultCarbRatio    = 0.45
)

// Energy densities in kcal per gram.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// activityMultipliers maps activity levels to their TDEE multiplier.
var activityMultipliers = map[planner.ActivityLevel]float64{
	planner.ActivitySedentary: 1.2,
	planner.ActivityModerate:  1.55,
	planner.ActivityActive:    1.75,
}

// slotDistribution is the fixed per-meal calorie split. It does not vary by
// goal; that is a deliberate simplification.
var slotDistribution = map[planner.MealSlot]float64{
	planner.SlotBreakfast: 0.25,
	planner.SlotLunch:     0.35,
	planner.SlotDinner:    0.30,
	planner.SlotSnacks:    0.10,
}

// InferenceEngine derives nutrition targets from facts using an injected
// knowledge base. It performs no I/O and is fully deterministic.
type InferenceEngine struct {
	rules planner.RuleSet
}

// NewInferenceEngine creates an inference engine over the given rule set.
func NewInferenceEngine(rules planner.RuleSet) *InferenceEngine {
	return &InferenceEngine{rules: rules}
}

// Rules returns the knowledge base the engine was built with.
func (e *InferenceEngine) Rules() planner.RuleSet {
	return e.rules
}

// CalculateBMR computes basal metabolic rate via Mifflin-St Jeor:
// 10*weight + 6.25*height - 5*age + sexOffset, rounded to whole kcal.
func CalculateBMR(facts planner.Fact) int {
	offset := 5.0
	if facts.Sex == planner.SexFemale {
		offset = -161
	}
	bmr := 10*facts.WeightKg + 6.25*facts.HeightCm - 5*float64(facts.Age) + offset
	return int(math.Round(bmr))
}

// ActivityMultiplier returns the TDEE multiplier for a level, defaulting to
// moderate for unrecognized input.
func ActivityMultiplier(level planner.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[planner.ActivityModerate]
}

// InferTargets derives the full Target record from one Fact.
func (e *InferenceEngine) InferTargets(facts planner.Fact) planner.Target {
	bmr := CalculateBMR(facts)
	tdee := int(math.Round(float64(bmr) * ActivityMultiplier(facts.ActivityLevel)))

	rule := e.rules.GoalRuleFor(facts.Goal)
	multiplier := rule.CalorieMultiplier
	if multiplier == 0 {
		multiplier = 1
	}
	adjusted := int(math.Round(float64(tdee) * multiplier))

	proteinRatio := rule.ProteinRatio
	if proteinRatio == 0 {
		proteinRatio = defaultProteinRatio
	}
	carbRatio := rule.CarbLimitRatio
	if carbRatio == 0 {
		carbRatio = defaultCarbRatio
	}
	fatRatio := 1 - proteinRatio - carbRatio

	proteinCalories := float64(adjusted) * proteinRatio
	carbsCalories := float64(adjusted) * carbRatio
	fatsCalories := float64(adjusted) * fatRatio

	distribution := make(map[planner.MealSlot]float64, len(slotDistribution))
	for slot, ratio := range slotDistribution {
		distribution[slot] = ratio
	}

	return planner.Target{
		BMR:              bmr,
		TDEE:             tdee,
		AdjustedCalories: adjusted,
		ProteinCalories:  int(math.Round(proteinCalories)),
		CarbsCalories:    int(math.Round(carbsCalories)),
		FatsCalories:     int(math.Round(fatsCalories)),
		ProteinGrams:     int(math.Round(proteinCalories / kcalPerGramProtein)),
		CarbsGrams:       int(math.Round(carbsCalories / kcalPerGramCarbs)),
		FatsGrams:        int(math.Round(fatsCalories / kcalPerGramFat)),
		Distribution:     distribution,

		DiseaseConstraints: e.rules.MergeConstraints(facts.Diseases),
	}
}
