package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/planner"
	"github.com/platewise/v1/internal/infrastructure/cache"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
)

// fakeProvider serves page responses from a function, counting calls.
type fakeProvider struct {
	pages       func(q outbound.PageQuery) ([]planner.Candidate, error)
	calls       int
	recipeCalls int
}

func (f *fakeProvider) FetchPage(_ context.Context, q outbound.PageQuery) ([]planner.Candidate, error) {
	f.calls++
	return f.pages(q)
}

func (f *fakeProvider) FetchRecipe(_ context.Context, id string) (*planner.Candidate, error) {
	f.recipeCalls++
	return &planner.Candidate{ID: id, Title: "recipe " + id}, nil
}

func (f *fakeProvider) FetchRecipeOfDay(_ context.Context) (*planner.Candidate, error) {
	f.recipeCalls++
	return &planner.Candidate{ID: "featured", Title: "Featured Recipe"}, nil
}

func pageOf(page, size int) []planner.Candidate {
	out := make([]planner.Candidate, size)
	for i := range out {
		out[i] = planner.Candidate{
			ID:        fmt.Sprintf("p%d-r%d", page, i),
			Title:     fmt.Sprintf("Recipe %d-%d", page, i),
			Nutrition: planner.Nutrition{Calories: 500, Protein: 30},
		}
	}
	return out
}

func newTestService(provider *fakeProvider) *Service {
	return NewService(provider, cache.NewLocalCache(100), NewMetrics(nil), Config{
		Pages:             3,
		MaxPages:          5,
		PageSize:          4,
		MinResults:        10,
		RequestsPerSecond: 10000, // keep tests fast
	}, zap.NewNop())
}

func TestFetchCandidatesHappyPath(t *testing.T) {
	provider := &fakeProvider{pages: func(q outbound.PageQuery) ([]planner.Candidate, error) {
		return pageOf(q.Page, q.PageSize), nil
	}}
	svc := newTestService(provider)

	set, err := svc.FetchCandidates(context.Background(), inbound.Query{SearchTerm: "healthy"}, inbound.FetchOptions{})
	require.NoError(t, err)

	assert.Equal(t, planner.ProvenanceLive, set.Provenance)
	assert.Len(t, set.Candidates, 12) // 3 pages of 4
	assert.Equal(t, 3, provider.calls)
}

func TestFetchCandidatesServesFromCache(t *testing.T) {
	provider := &fakeProvider{pages: func(q outbound.PageQuery) ([]planner.Candidate, error) {
		return pageOf(q.Page, q.PageSize), nil
	}}
	svc := newTestService(provider)
	q := inbound.Query{SearchTerm: "healthy", DietType: "vegan"}

	first, err := svc.FetchCandidates(context.Background(), q, inbound.FetchOptions{})
	require.NoError(t, err)
	calls := provider.calls

	second, err := svc.FetchCandidates(context.Background(), q, inbound.FetchOptions{})
	require.NoError(t, err)

	assert.Equal(t, calls, provider.calls, "second fetch must not touch the provider")
	assert.Equal(t, first.Candidates, second.Candidates)
	assert.Equal(t, planner.ProvenanceLive, second.Provenance)
}

func TestCacheKeyIgnoresAllergyOrder(t *testing.T) {
	provider := &fakeProvider{pages: func(q outbound.PageQuery) ([]planner.Candidate, error) {
		return pageOf(q.Page, q.PageSize), nil
	}}
	svc := newTestService(provider)

	_, err := svc.FetchCandidates(context.Background(),
		inbound.Query{SearchTerm: "healthy", Allergies: []string{"nuts", "dairy"}},
		inbound.FetchOptions{})
	require.NoError(t, err)
	calls := provider.calls

	_, err = svc.FetchCandidates(context.Background(),
		inbound.Query{SearchTerm: "healthy", Allergies: []string{"dairy", "nuts"}},
		inbound.FetchOptions{})
	require.NoError(t, err)

	assert.Equal(t, calls, provider.calls)
}

func TestFetchCandidatesToleratesPartialFailures(t *testing.T) {
	provider := &fakeProvider{pages: func(q outbound.PageQuery) ([]planner.Candidate, error) {
		if q.Page == 2 {
			return nil, errors.New("boom")
		}
		return pageOf(q.Page, q.PageSize), nil
	}}
	svc := newTestService(provider)

	set, err := svc.FetchCandidates(context.Background(), inbound.Query{SearchTerm: "healthy"}, inbound.FetchOptions{})
	require.NoError(t, err)

	assert.Equal(t, planner.ProvenanceLive, set.Provenance)
	assert.Len(t, set.Candidates, 8) // pages 1 and 3
}

func TestFetchCandidatesFallbackWhenAllPagesFail(t *testing.T) {
	provider := &fakeProvider{pages: func(q outbound.PageQuery) ([]planner.Candidate, error) {
		return nil, errors.New("provider down")
	}}
	svc := newTestService(provider)

	set, err := svc.FetchCandidates(context.Background(), inbound.Query{SearchTerm: "healthy"}, inbound.FetchOptions{})
	require.NoError(t, err)

	assert.Equal(t, planner.ProvenanceFallback, set.Provenance)
	assert.NotEmpty(t, set.Candidates)
	for _, c := range set.Candidates {
		assert.NotEmpty(t, c.ID)
		assert.Positive(t, c.Nutrition.Calories)
	}
}

func TestFallbackIsCached(t *testing.T) {
	provider := &fakeProvider{pages: func(q outbound.PageQuery) ([]planner.Candidate, error) {
		return nil, errors.New("provider down")
	}}
	svc := newTestService(provider)
	q := inbound.Query{SearchTerm: "healthy"}

	_, err := svc.FetchCandidates(context.Background(), q, inbound.FetchOptions{})
	require.NoError(t, err)
	calls := provider.calls

	set, err := svc.FetchCandidates(context.Background(), q, inbound.FetchOptions{})
	require.NoError(t, err)

	assert.Equal(t, calls, provider.calls)
	assert.Equal(t, planner.ProvenanceFallback, set.Provenance)
}

func TestAdaptiveExpansionRunsOnce(t *testing.T) {
	provider := &fakeProvider{pages: func(q outbound.PageQuery) ([]planner.Candidate, error) {
		return pageOf(q.Page, q.PageSize), nil
	}}
	svc := newTestService(provider)

	// The post-filter discards everything, so the initial 3 pages fall
	// short of MinResults and the fetch expands by 2 more, then stops.
	opts := inbound.FetchOptions{
		MinResults: 10,
		PostFilter: func([]planner.Candidate) []planner.Candidate { return nil },
	}

	set, err := svc.FetchCandidates(context.Background(), inbound.Query{SearchTerm: "healthy"}, opts)
	require.NoError(t, err)

	assert.Equal(t, 5, provider.calls) // 3 initial + 2 expansion, never more
	assert.Len(t, set.Candidates, 20)
	assert.Equal(t, planner.ProvenanceLive, set.Provenance)
}

func TestNoExpansionWhenEnoughSurvive(t *testing.T) {
	provider := &fakeProvider{pages: func(q outbound.PageQuery) ([]planner.Candidate, error) {
		return pageOf(q.Page, q.PageSize), nil
	}}
	svc := newTestService(provider)

	opts := inbound.FetchOptions{
		MinResults: 10,
		PostFilter: func(in []planner.Candidate) []planner.Candidate { return in },
	}

	_, err := svc.FetchCandidates(context.Background(), inbound.Query{SearchTerm: "healthy"}, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls)
}

func TestMergeByIDLastWins(t *testing.T) {
	provider := &fakeProvider{pages: func(q outbound.PageQuery) ([]planner.Candidate, error) {
		// Page 2 re-serves the same id with a newer title.
		if q.Page == 2 {
			out := pageOf(q.Page, q.PageSize)
			out[0] = planner.Candidate{ID: "p1-r0", Title: "Updated"}
			return out, nil
		}
		return pageOf(q.Page, q.PageSize), nil
	}}
	svc := newTestService(provider)

	set, err := svc.FetchCandidates(context.Background(), inbound.Query{SearchTerm: "healthy"}, inbound.FetchOptions{})
	require.NoError(t, err)

	assert.Len(t, set.Candidates, 11) // 12 fetched, one id collides
	var found *planner.Candidate
	for i := range set.Candidates {
		if set.Candidates[i].ID == "p1-r0" {
			found = &set.Candidates[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Updated", found.Title)
}

func TestShortPageStopsPagination(t *testing.T) {
	provider := &fakeProvider{pages: func(q outbound.PageQuery) ([]planner.Candidate, error) {
		return pageOf(q.Page, 2), nil // fewer than the page size of 4
	}}
	svc := newTestService(provider)

	set, err := svc.FetchCandidates(context.Background(), inbound.Query{SearchTerm: "healthy"}, inbound.FetchOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.Len(t, set.Candidates, 2)
}

func TestCorruptCacheEntryIsDropped(t *testing.T) {
	provider := &fakeProvider{pages: func(q outbound.PageQuery) ([]planner.Candidate, error) {
		return pageOf(q.Page, q.PageSize), nil
	}}
	store := cache.NewLocalCache(100)
	svc := NewService(provider, store, NewMetrics(nil), Config{
		Pages: 1, MaxPages: 5, PageSize: 4, MinResults: 10, RequestsPerSecond: 10000,
	}, zap.NewNop())

	q := inbound.Query{SearchTerm: "healthy"}
	key := signature(q, 4)
	require.NoError(t, store.Set(context.Background(), key, []byte("{not json"), time.Minute))

	set, err := svc.FetchCandidates(context.Background(), q, inbound.FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, planner.ProvenanceLive, set.Provenance)
	assert.NotEmpty(t, set.Candidates)
}

func TestFetchRecipeCachesByID(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	first, err := svc.FetchRecipe(ctx, "r-42")
	require.NoError(t, err)
	assert.Equal(t, "recipe r-42", first.Title)

	second, err := svc.FetchRecipe(ctx, "r-42")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.recipeCalls)

	_, err = svc.FetchRecipe(ctx, "r-43")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.recipeCalls)
}

func TestFetchRecipeOfDayCaches(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	first, err := svc.FetchRecipeOfDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, "featured", first.ID)

	second, err := svc.FetchRecipeOfDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.recipeCalls)
}
