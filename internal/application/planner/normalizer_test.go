package planner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platewise/v1/internal/domain/planner"
)

func TestNormalizeFactsDefaults(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"nil payload", nil},
		{"empty payload", map[string]any{}},
		{"wrong types everywhere", map[string]any{
			"age":           []int{1},
			"weight":        map[string]any{},
			"height":        true,
			"goal":          42,
			"activityLevel": nil,
			"diseases":      "diabetes",
			"allergies":     12,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := NormalizeFacts(tt.payload)

			assert.Equal(t, planner.DefaultAge, facts.Age)
			assert.Equal(t, planner.DefaultWeightKg, facts.WeightKg)
			assert.Equal(t, planner.DefaultHeightCm, facts.HeightCm)
			assert.Equal(t, planner.SexMale, facts.Sex)
			assert.Equal(t, planner.GoalGeneral, facts.Goal)
			assert.Equal(t, planner.ActivityModerate, facts.ActivityLevel)
			assert.Empty(t, facts.DietType)
			assert.Empty(t, facts.Diseases)
			assert.Empty(t, facts.Allergies)
		})
	}
}

func TestNormalizeFactsCoercions(t *testing.T) {
	facts := NormalizeFacts(map[string]any{
		"age":           "25",
		"weight":        "80.5",
		"height":        180,
		"sex":           "Female",
		"goal":          "  Weight_Loss ",
		"activityLevel": "ACTIVE",
		"dietType":      "Vegetarian",
		"diseases":      []any{"Diabetes", 7, " Hypertension "},
		"allergies":     []string{"Nuts", ""},
	})

	assert.Equal(t, 25, facts.Age)
	assert.Equal(t, 80.5, facts.WeightKg)
	assert.Equal(t, 180.0, facts.HeightCm)
	assert.Equal(t, planner.SexFemale, facts.Sex)
	assert.Equal(t, planner.GoalWeightLoss, facts.Goal)
	assert.Equal(t, planner.ActivityActive, facts.ActivityLevel)
	assert.Equal(t, "vegetarian", facts.DietType)
	assert.Equal(t, []string{"diabetes", "hypertension"}, facts.Diseases)
	assert.Equal(t, []string{"nuts"}, facts.Allergies)
}

func TestNormalizeFactsRejectsUnusableNumbers(t *testing.T) {
	facts := NormalizeFacts(map[string]any{
		"age":    -5,
		"weight": math.NaN(),
		"height": math.Inf(1),
	})

	assert.Equal(t, planner.DefaultAge, facts.Age)
	assert.Equal(t, planner.DefaultWeightKg, facts.WeightKg)
	assert.Equal(t, planner.DefaultHeightCm, facts.HeightCm)
}

func TestNormalizeFactsUnknownSexStaysMale(t *testing.T) {
	facts := NormalizeFacts(map[string]any{"sex": "other"})
	assert.Equal(t, planner.SexMale, facts.Sex)
}
