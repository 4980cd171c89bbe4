// Package outbound defines the interfaces for outbound ports (secondary/driven
// adapters): the external collaborators the pipeline depends on.
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/v1/internal/domain/planner"
)

// PageQuery describes one page request against the external recipe provider.
type PageQuery struct {
	SearchTerm string
	DietType   string
	Allergies  []string // exclusion hints, forwarded to the provider
	Page       int      // 1-based
	PageSize   int
}

// RecipeProvider is the external recipe source. FetchPage returns candidates
// for one page, already normalized into the canonical shape; a failed page
// returns an error and is the caller's to tolerate or not.
type RecipeProvider interface {
	FetchPage(ctx context.Context, q PageQuery) ([]planner.Candidate, error)
	FetchRecipe(ctx context.Context, id string) (*planner.Candidate, error)
	FetchRecipeOfDay(ctx context.Context) (*planner.Candidate, error)
}

// ErrCacheMiss is returned by CacheRepository.Get when the key is absent or
// its entry has expired. Implementations treat expired entries as misses
// (lazy eviction).
var ErrCacheMiss = cacheMissError{}

type cacheMissError struct{}

func (cacheMissError) Error() string { return "cache miss" }

// CacheRepository is the shared candidate cache. Entries are immutable once
// written and keyed by request signature, so implementations only need to be
// safe under concurrent access; no cross-request locking is required.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SavedPlan is a generated weekly schedule persisted on behalf of a caller.
type SavedPlan struct {
	ID        uuid.UUID
	Owner     string
	Title     string
	Schedule  planner.WeeklySchedule
	CreatedAt time.Time
}

// PlanRepository persists generated weekly plans.
type PlanRepository interface {
	Save(ctx context.Context, plan *SavedPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*SavedPlan, error)
	ListByOwner(ctx context.Context, owner string, limit int) ([]*SavedPlan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
