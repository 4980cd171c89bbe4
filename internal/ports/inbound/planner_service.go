// Package inbound defines the interfaces for inbound ports (primary/driving
// adapters): the operations the recommendation core exposes to its callers.
package inbound

import (
	"context"

	"github.com/platewise/v1/internal/domain/planner"
)

// FetchOptions tunes one retrieval call.
type FetchOptions struct {
	// PostFilter, when set, is applied to the fetched candidates; if fewer
	// than MinResults survive and page budget remains, the service expands
	// the fetch once before giving up.
	PostFilter func([]planner.Candidate) []planner.Candidate
	MinResults int
	Pages      int // initial pages to fetch; bounded by the configured maximum
	PageSize   int
}

// Query identifies a candidate search.
type Query struct {
	SearchTerm string
	DietType   string
	Allergies  []string
}

// RecommendationResult is the ranked outcome of one recommendation request.
type RecommendationResult struct {
	Facts      planner.Fact
	Targets    planner.Target
	Ranked     []planner.ScoredCandidate
	Provenance planner.Provenance
	// Exhausted is set when filtering removed every candidate. It is a
	// warning, not an error; the caller decides whether to relax
	// constraints or surface it to the user.
	Exhausted bool
}

// PlannerService exposes the recommendation pipeline. The first five
// operations are the individual stages; Recommend and BuildWeeklyPlan compose
// them end to end.
type PlannerService interface {
	NormalizeFacts(payload map[string]any) planner.Fact
	InferTargets(facts planner.Fact) planner.Target
	FetchCandidates(ctx context.Context, q Query, opts FetchOptions) (planner.CandidateSet, error)
	FilterCandidates(candidates []planner.Candidate, targets planner.Target, facts planner.Fact) []planner.Candidate
	ScoreCandidates(candidates []planner.Candidate, targets planner.Target, facts planner.Fact) []planner.ScoredCandidate

	Recommend(ctx context.Context, payload map[string]any) (*RecommendationResult, error)
	BuildWeeklyPlan(ctx context.Context, payload map[string]any) (*planner.WeeklySchedule, error)
}
