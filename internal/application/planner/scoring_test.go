package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/v1/internal/domain/planner"
)

// perfect hits the per-meal calorie target (2000 * 0.3 = 600) and protein
// target (100 * 0.25 = 25) exactly.
var scoringTargets = planner.Target{AdjustedCalories: 2000, ProteinGrams: 100}

func TestScoreCandidatesPerfectMatch(t *testing.T) {
	perfect := mealCandidate("perfect", 600, 25, 40)

	scored := ScoreCandidates([]planner.Candidate{perfect}, scoringTargets, planner.Fact{})

	require.Len(t, scored, 1)
	assert.Equal(t, 7.0, scored[0].Score) // 1.0*4 + 1.0*3
	assert.Contains(t, scored[0].Reasons, "Good calorie match for a main meal")
	assert.Contains(t, scored[0].Reasons, "High protein")
}

func TestScoreCandidatesRankingOrder(t *testing.T) {
	good := mealCandidate("good", 600, 25, 40)
	mediocre := mealCandidate("mediocre", 450, 15, 40)
	poor := mealCandidate("poor", 1500, 2, 40)

	scored := ScoreCandidates([]planner.Candidate{poor, mediocre, good}, scoringTargets, planner.Fact{})

	require.Len(t, scored, 3)
	assert.Equal(t, "good", scored[0].Candidate.ID)
	assert.Equal(t, "mediocre", scored[1].Candidate.ID)
	assert.Equal(t, "poor", scored[2].Candidate.ID)
}

func TestScoreCandidatesStableOnTies(t *testing.T) {
	first := mealCandidate("first", 600, 25, 40)
	second := mealCandidate("second", 600, 25, 40)

	scored := ScoreCandidates([]planner.Candidate{first, second}, scoringTargets, planner.Fact{})

	require.Len(t, scored, 2)
	assert.Equal(t, scored[0].Score, scored[1].Score)
	assert.Equal(t, "first", scored[0].Candidate.ID)
	assert.Equal(t, "second", scored[1].Candidate.ID)
}

func TestScoreSodiumAdjustments(t *testing.T) {
	hypertensive := planner.Fact{Diseases: []string{"hypertension"}}

	low := mealCandidate("low-sodium", 600, 25, 40)
	low.Nutrition.Sodium = 300
	high := mealCandidate("high-sodium", 600, 25, 40)
	high.Nutrition.Sodium = 700
	unknown := mealCandidate("no-sodium-data", 600, 25, 40)

	scored := ScoreCandidates([]planner.Candidate{low, high, unknown}, scoringTargets, hypertensive)

	byID := map[string]planner.ScoredCandidate{}
	for _, s := range scored {
		byID[s.Candidate.ID] = s
	}

	assert.Equal(t, 8.0, byID["low-sodium"].Score)
	assert.Contains(t, byID["low-sodium"].Reasons, "Low sodium (good for blood pressure)")
	assert.Equal(t, 6.0, byID["high-sodium"].Score)
	assert.Contains(t, byID["high-sodium"].Reasons, "High sodium")
	// Missing sodium data earns neither bonus nor penalty.
	assert.Equal(t, 7.0, byID["no-sodium-data"].Score)
}

func TestScoreSodiumAppliesToBloodPressurePhrasing(t *testing.T) {
	facts := planner.Fact{Diseases: []string{"high blood pressure"}}
	low := mealCandidate("low", 600, 25, 40)
	low.Nutrition.Sodium = 300

	scored := ScoreCandidates([]planner.Candidate{low}, scoringTargets, facts)
	assert.Equal(t, 8.0, scored[0].Score)
}

func TestScoreSugarAdjustments(t *testing.T) {
	diabetic := planner.Fact{Diseases: []string{"type 2 diabetes"}}

	low := mealCandidate("low-sugar", 600, 25, 40)
	low.Nutrition.Sugar = 10
	high := mealCandidate("high-sugar", 600, 25, 40)
	high.Nutrition.Sugar = 30

	scored := ScoreCandidates([]planner.Candidate{low, high}, scoringTargets, diabetic)

	byID := map[string]planner.ScoredCandidate{}
	for _, s := range scored {
		byID[s.Candidate.ID] = s
	}
	assert.Equal(t, 7.5, byID["low-sugar"].Score)
	assert.Equal(t, 6.5, byID["high-sugar"].Score)
}

func TestScoreDietTagBonus(t *testing.T) {
	facts := planner.Fact{DietType: "vegetarian"}

	tagged := mealCandidate("tagged", 600, 25, 40)
	tagged.Tags = []string{"vegetarian"}
	untagged := mealCandidate("untagged", 600, 25, 40)

	scored := ScoreCandidates([]planner.Candidate{tagged, untagged}, scoringTargets, facts)

	assert.Equal(t, "tagged", scored[0].Candidate.ID)
	assert.Equal(t, 8.0, scored[0].Score)
	assert.Contains(t, scored[0].Reasons, "Matches vegetarian preference")
	assert.Equal(t, 7.0, scored[1].Score)
}

func TestScoreNeverNegative(t *testing.T) {
	facts := planner.Fact{Diseases: []string{"hypertension", "diabetes"}}

	terrible := mealCandidate("terrible", 5000, 0, 40)
	terrible.Nutrition.Sodium = 900
	terrible.Nutrition.Sugar = 40

	scored := ScoreCandidates([]planner.Candidate{terrible}, scoringTargets, facts)
	assert.Equal(t, 0.0, scored[0].Score)
}

func TestScoreFallbackReason(t *testing.T) {
	// Nothing to say about this one: calories far off, barely any protein.
	dull := mealCandidate("dull", 0, 5, 0)

	scored := ScoreCandidates([]planner.Candidate{dull}, scoringTargets, planner.Fact{})
	assert.Equal(t, []string{"Matches basic nutrition targets"}, scored[0].Reasons)
}

func TestScoreUsesFallbackTargetsOnEmptyInput(t *testing.T) {
	// With no targets at all, scoring falls back to a 2000 kcal / 50g
	// protein day rather than dividing by zero.
	c := mealCandidate("meal", 600, 13, 40)

	scored := ScoreCandidates([]planner.Candidate{c}, planner.Target{}, planner.Fact{})
	require.Len(t, scored, 1)
	assert.Greater(t, scored[0].Score, 6.9)
}

func TestScoreRoundsToOneDecimal(t *testing.T) {
	c := mealCandidate("odd", 512, 17, 40)

	scored := ScoreCandidates([]planner.Candidate{c}, scoringTargets, planner.Fact{})
	score := scored[0].Score
	assert.InDelta(t, score, float64(int(score*10+0.5))/10, 1e-9)
}
