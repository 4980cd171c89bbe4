// Package planner contains the core domain model for meal recommendation
// and weekly plan generation.
package planner

import "strings"

// Goal represents a user's nutrition goal.
type Goal string

const (
	GoalFitness         Goal = "fitness"
	GoalWeightLoss      Goal = "weight_loss"
	GoalMuscleGain      Goal = "muscle_gain"
	GoalGeneralWellness Goal = "general_wellness"
	GoalDiabetes        Goal = "diabetes"
	GoalHeartHealth     Goal = "heart_health"
	GoalGeneral         Goal = "general"
)

// ActivityLevel represents how active a user is day to day.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
)

// Sex is used for the Mifflin-St Jeor offset. Male is the default when the
// payload does not say otherwise.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Defaults applied by the fact normalizer when a field is missing or malformed.
const (
	DefaultAge      = 30
	DefaultWeightKg = 70.0
	DefaultHeightCm = 170.0
)

// Fact is the canonical, normalized view of a recommendation request payload.
// It is immutable once produced; downstream stages rely on every field being
// populated so they never have to re-check for missing input.
type Fact struct {
	Age           int
	WeightKg      float64
	HeightCm      float64
	Sex           Sex
	Goal          Goal
	ActivityLevel ActivityLevel
	DietType      string   // free-form, lower-cased, may be empty
	Diseases      []string // lower-cased
	Allergies     []string // lower-cased
}

// HasDisease reports whether any recorded disease contains the given
// lower-cased fragment. Matching is by substring so "type 2 diabetes"
// satisfies a "diabetes" check.
func (f Fact) HasDisease(fragment string) bool {
	for _, d := range f.Diseases {
		if strings.Contains(d, fragment) {
			return true
		}
	}
	return false
}
