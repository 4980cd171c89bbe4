// Package knowledge supplies the nutrition rule tables consumed by the
// inference engine. The built-in tables serve most deployments; a YAML file
// can replace them wholesale for dietitian-tuned installations.
package knowledge

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/platewise/v1/internal/domain/planner"
)

// Default returns the built-in rule set.
func Default() planner.RuleSet {
	return planner.RuleSet{
		Version: "builtin-1",
		Goals: map[planner.Goal]planner.GoalRule{
			planner.GoalWeightLoss: {
				CalorieMultiplier: 0.85,
				ProteinRatio:      0.30,
			},
			planner.GoalMuscleGain: {
				CalorieMultiplier: 1.15,
				ProteinRatio:      0.30,
			},
			planner.GoalFitness: {
				CalorieMultiplier: 1.05,
				ProteinRatio:      0.25,
			},
			planner.GoalDiabetes: {
				CalorieMultiplier: 0.95,
				CarbLimitRatio:    0.35,
			},
			planner.GoalHeartHealth: {
				CalorieMultiplier: 1.0,
				CarbLimitRatio:    0.40,
			},
			planner.GoalGeneralWellness: {
				CalorieMultiplier: 1.0,
			},
			planner.GoalGeneral: {
				CalorieMultiplier: 1.0,
			},
		},
		Diseases: map[string]planner.DiseaseRule{
			"diabetes": {
				planner.ConstraintCarbRatioMax:    0.35,
				planner.ConstraintSugarMaxPerMeal: 15,
			},
			"high_cholesterol": {
				planner.ConstraintFatRatioMax:      0.25,
				planner.ConstraintSatFatMaxPerMeal: 10,
			},
		},
	}
}

// Load reads a rule set from a YAML file. The file replaces the built-in
// tables entirely, so it must carry every goal it wants to support; the
// general goal is required because unknown goals fall back to it.
func Load(path string) (planner.RuleSet, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return planner.RuleSet{}, fmt.Errorf("read rules file: %w", err)
	}

	var rules planner.RuleSet
	if err := v.Unmarshal(&rules); err != nil {
		return planner.RuleSet{}, fmt.Errorf("unmarshal rules file: %w", err)
	}

	if _, ok := rules.Goals[planner.GoalGeneral]; !ok {
		return planner.RuleSet{}, fmt.Errorf("rules file %s is missing the general goal", path)
	}
	return rules, nil
}

// FromConfigPath returns the built-in rule set when path is empty, otherwise
// the rules loaded from the file.
func FromConfigPath(path string) (planner.RuleSet, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
