package planner

import "strings"

// Nutrition is the per-serving nutrition sub-record of a candidate recipe.
// All fields default to 0 when absent from the provider payload.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// Candidate is a recipe normalized into the pipeline's canonical shape.
// Candidates are owned by the retrieval cache and read-only downstream;
// identity is the ID field.
type Candidate struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Image       string    `json:"image,omitempty"`
	Ingredients []string  `json:"ingredients,omitempty"`
	Nutrition   Nutrition `json:"nutrition"`
	Tags        []string  `json:"tags,omitempty"`      // lower-cased
	Allergens   []string  `json:"allergens,omitempty"` // lower-cased
}

// HasTag reports whether any tag contains the given lower-cased fragment.
func (c Candidate) HasTag(fragment string) bool {
	for _, t := range c.Tags {
		if strings.Contains(t, fragment) {
			return true
		}
	}
	return false
}

// Provenance records whether a candidate set came from the live provider or
// the built-in fallback sample. Callers can distinguish real data from
// degraded data without relying on logs.
type Provenance string

const (
	ProvenanceLive     Provenance = "live"
	ProvenanceFallback Provenance = "fallback"
)

// CandidateSet is the result of one retrieval call.
type CandidateSet struct {
	Candidates []Candidate `json:"candidates"`
	Provenance Provenance  `json:"provenance"`
}

// ScoredCandidate wraps a candidate with its recommendation score and the
// human-readable reasons that produced it. Produced per request, never stored.
type ScoredCandidate struct {
	Candidate Candidate `json:"candidate"`
	Score     float64   `json:"score"`
	Reasons   []string  `json:"reasons"`
}
