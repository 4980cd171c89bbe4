// Package testutils provides test data factories for consistent test data
// generation.
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/platewise/v1/internal/domain/planner"
)

// CandidateFactory produces candidate recipes with plausible nutrition.
type CandidateFactory struct {
	faker *gofakeit.Faker
	seq   int
}

// NewCandidateFactory creates a factory with a seeded faker so tests are
// deterministic.
func NewCandidateFactory(seed int64) *CandidateFactory {
	return &CandidateFactory{faker: gofakeit.New(seed)}
}

// Candidate returns one random candidate.
func (f *CandidateFactory) Candidate() planner.Candidate {
	f.seq++
	return planner.Candidate{
		ID:    fmt.Sprintf("recipe-%04d", f.seq),
		Title: f.faker.Dinner(),
		Ingredients: []string{
			f.faker.Vegetable(),
			f.faker.Fruit(),
			f.faker.Lunch(),
		},
		Nutrition: planner.Nutrition{
			Calories: float64(f.faker.Number(180, 850)),
			Protein:  float64(f.faker.Number(5, 55)),
			Fat:      float64(f.faker.Number(2, 40)),
			Carbs:    float64(f.faker.Number(10, 90)),
			Sugar:    float64(f.faker.Number(0, 30)),
			Sodium:   float64(f.faker.Number(20, 900)),
		},
	}
}

// Candidates returns n random candidates with unique ids.
func (f *CandidateFactory) Candidates(n int) []planner.Candidate {
	out := make([]planner.Candidate, n)
	for i := range out {
		out[i] = f.Candidate()
	}
	return out
}

// WithNutrition returns a candidate with exact nutrition values.
func (f *CandidateFactory) WithNutrition(title string, n planner.Nutrition) planner.Candidate {
	f.seq++
	return planner.Candidate{
		ID:        fmt.Sprintf("recipe-%04d", f.seq),
		Title:     title,
		Nutrition: n,
	}
}

// WithTags returns a candidate carrying the given diet tags.
func (f *CandidateFactory) WithTags(title string, tags ...string) planner.Candidate {
	c := f.Candidate()
	c.Title = title
	c.Tags = tags
	return c
}
