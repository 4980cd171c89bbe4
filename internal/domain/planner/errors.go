package planner

import "errors"

// Domain errors for the recommendation pipeline

var (
	// ErrProviderUnavailable is returned by retrieval only when both the
	// live fetch and the fallback sample are exhausted. The fallback is
	// unconditional, so seeing this error implies a programming defect;
	// callers should still handle it defensively.
	ErrProviderUnavailable = errors.New("recipe provider unavailable and fallback exhausted")

	ErrPlanNotFound       = errors.New("weekly plan not found")
	ErrEmptyCandidatePool = errors.New("candidate pool is empty")
)
