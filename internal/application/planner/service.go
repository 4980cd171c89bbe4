package planner

import (
	"context"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/planner"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/pkg/errors"
)

// defaultSearchTerm seeds the provider query when the payload gives nothing
// better to search for.
const defaultSearchTerm = "healthy"

// minPlanCandidates is the adaptive-fetch threshold for weekly plans: three
// meals a day for a week, so the scheduler can avoid reuse.
const minPlanCandidates = 21

// CandidateSource produces candidate recipes for a query. Satisfied by the
// retrieval service; tests substitute fakes.
type CandidateSource interface {
	FetchCandidates(ctx context.Context, q inbound.Query, opts inbound.FetchOptions) (planner.CandidateSet, error)
}

// Service composes the pipeline stages into the operations exposed to
// callers. All stages except retrieval are pure and safe to run concurrently
// across requests.
type Service struct {
	source    CandidateSource
	inference *InferenceEngine
	filter    *FilterEngine
	logger    *zap.Logger
}

// NewService creates the planner service.
func NewService(source CandidateSource, inference *InferenceEngine, logger *zap.Logger) inbound.PlannerService {
	return &Service{
		source:    source,
		inference: inference,
		filter:    NewFilterEngine(),
		logger:    logger.Named("planner-service"),
	}
}

// NormalizeFacts implements inbound.PlannerService.
func (s *Service) NormalizeFacts(payload map[string]any) planner.Fact {
	return NormalizeFacts(payload)
}

// InferTargets implements inbound.PlannerService.
func (s *Service) InferTargets(facts planner.Fact) planner.Target {
	return s.inference.InferTargets(facts)
}

// FetchCandidates implements inbound.PlannerService.
func (s *Service) FetchCandidates(ctx context.Context, q inbound.Query, opts inbound.FetchOptions) (planner.CandidateSet, error) {
	return s.source.FetchCandidates(ctx, q, opts)
}

// FilterCandidates implements inbound.PlannerService.
func (s *Service) FilterCandidates(candidates []planner.Candidate, targets planner.Target, facts planner.Fact) []planner.Candidate {
	return s.filter.Filter(candidates, targets, facts)
}

// ScoreCandidates implements inbound.PlannerService.
func (s *Service) ScoreCandidates(candidates []planner.Candidate, targets planner.Target, facts planner.Fact) []planner.ScoredCandidate {
	return ScoreCandidates(candidates, targets, facts)
}

// Recommend runs the full pipeline for one request and returns the ranked
// candidate list with targets and provenance.
func (s *Service) Recommend(ctx context.Context, payload map[string]any) (*inbound.RecommendationResult, error) {
	facts := NormalizeFacts(payload)
	targets := s.inference.InferTargets(facts)

	set, err := s.fetch(ctx, facts, targets, 0)
	if err != nil {
		return nil, err
	}

	filtered := s.filter.Filter(set.Candidates, targets, facts)
	exhausted := len(filtered) == 0 && len(set.Candidates) > 0
	if exhausted {
		s.logger.Warn("filtering removed every candidate",
			zap.String("goal", string(facts.Goal)),
			zap.String("diet_type", facts.DietType),
			zap.Int("fetched", len(set.Candidates)),
		)
	}

	return &inbound.RecommendationResult{
		Facts:      facts,
		Targets:    targets,
		Ranked:     ScoreCandidates(filtered, targets, facts),
		Provenance: set.Provenance,
		Exhausted:  exhausted,
	}, nil
}

// BuildWeeklyPlan runs the pipeline and schedules a seven-day plan from the
// surviving candidates.
func (s *Service) BuildWeeklyPlan(ctx context.Context, payload map[string]any) (*planner.WeeklySchedule, error) {
	facts := NormalizeFacts(payload)
	targets := s.inference.InferTargets(facts)

	set, err := s.fetch(ctx, facts, targets, minPlanCandidates)
	if err != nil {
		return nil, errors.Wrap(err, "fetch candidates for weekly plan")
	}

	pool := s.filter.Filter(set.Candidates, targets, facts)
	if len(pool) == 0 {
		// Degrade to the unfiltered set rather than emit an all-empty
		// week; allergy safety is still enforced.
		s.logger.Warn("candidate pool empty after filtering, relaxing to allergy-safe set",
			zap.Int("fetched", len(set.Candidates)))
		for _, c := range set.Candidates {
			if allergySafe(c, facts.Allergies) && dietMatches(c, facts.DietType) {
				pool = append(pool, c)
			}
		}
	}
	if len(pool) == 0 {
		return nil, planner.ErrEmptyCandidatePool
	}

	schedule := BuildSchedule(facts, targets, pool)
	schedule.Provenance = set.Provenance
	return &schedule, nil
}

// fetch issues the retrieval call with a post-filter hint so the service can
// adaptively expand pagination when too few candidates survive.
func (s *Service) fetch(ctx context.Context, facts planner.Fact, targets planner.Target, minResults int) (planner.CandidateSet, error) {
	q := inbound.Query{
		SearchTerm: searchTerm(facts),
		DietType:   facts.DietType,
		Allergies:  facts.Allergies,
	}
	opts := inbound.FetchOptions{MinResults: minResults}
	if minResults > 0 {
		opts.PostFilter = func(candidates []planner.Candidate) []planner.Candidate {
			return s.filter.Filter(candidates, targets, facts)
		}
	}
	return s.source.FetchCandidates(ctx, q, opts)
}

func searchTerm(facts planner.Fact) string {
	if facts.Goal != "" && facts.Goal != planner.GoalGeneral {
		return string(facts.Goal)
	}
	return defaultSearchTerm
}
