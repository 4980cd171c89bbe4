// Package retrieval fetches recipe candidates from the external provider,
// caching result sets by request signature and degrading to a built-in
// fallback set when the provider is unreachable.
package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/platewise/v1/internal/domain/planner"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
)

const (
	// DefaultPages is how many provider pages a fetch requests unless the
	// caller asks for more.
	DefaultPages = 3
	// MaxPages caps pagination including adaptive expansion.
	MaxPages = 5
	// DefaultPageSize is the per-page result count requested from the
	// provider.
	DefaultPageSize = 20
	// DefaultMinResults is the result floor below which a fetch expands
	// pagination once.
	DefaultMinResults = 10
	// expansionPages is how many extra pages one adaptive expansion adds,
	// budget permitting.
	expansionPages = 2

	// DefaultCacheTTL covers live provider results.
	DefaultCacheTTL = time.Hour
	// FallbackTTL keeps fallback sets short-lived so a recovered provider
	// is retried quickly.
	FallbackTTL = 60 * time.Second
)

// Config tunes the retrieval service.
type Config struct {
	Pages             int
	MaxPages          int
	PageSize          int
	MinResults        int
	CacheTTL          time.Duration
	FallbackTTL       time.Duration
	RequestsPerSecond float64
}

func (c Config) withDefaults() Config {
	if c.Pages <= 0 {
		c.Pages = DefaultPages
	}
	if c.MaxPages <= 0 {
		c.MaxPages = MaxPages
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MinResults <= 0 {
		c.MinResults = DefaultMinResults
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.FallbackTTL <= 0 {
		c.FallbackTTL = FallbackTTL
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 5
	}
	return c
}

// Service fetches candidate sets. It is safe for concurrent use; the cache
// absorbs duplicate signatures and the limiter spreads provider load.
type Service struct {
	provider outbound.RecipeProvider
	cache    outbound.CacheRepository
	limiter  *rate.Limiter
	metrics  *Metrics
	config   Config
	logger   *zap.Logger
}

// NewService creates the retrieval service.
func NewService(
	provider outbound.RecipeProvider,
	cache outbound.CacheRepository,
	metrics *Metrics,
	config Config,
	logger *zap.Logger,
) *Service {
	config = config.withDefaults()
	return &Service{
		provider: provider,
		cache:    cache,
		limiter:  rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		metrics:  metrics,
		config:   config,
		logger:   logger.Named("retrieval"),
	}
}

// cachedSet is the cache wire format for a candidate set.
type cachedSet struct {
	Candidates []planner.Candidate `json:"candidates"`
	Provenance planner.Provenance  `json:"provenance"`
}

// FetchCandidates returns candidates for the query, preferring the cache,
// then the provider, then the built-in fallback set. The returned set is
// never empty and never an error for provider trouble; provenance tells the
// caller which path served it.
func (s *Service) FetchCandidates(ctx context.Context, q inbound.Query, opts inbound.FetchOptions) (planner.CandidateSet, error) {
	pages := opts.Pages
	if pages <= 0 {
		pages = s.config.Pages
	}
	if pages > s.config.MaxPages {
		pages = s.config.MaxPages
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = s.config.PageSize
	}
	minResults := opts.MinResults
	if minResults <= 0 {
		minResults = s.config.MinResults
	}

	key := signature(q, pageSize)

	if set, ok := s.fromCache(ctx, key); ok {
		s.metrics.CacheHits.Inc()
		return set, nil
	}
	s.metrics.CacheMisses.Inc()

	candidates, fetched := s.fetchPages(ctx, q, 1, pages, pageSize, nil)
	if len(candidates) == 0 {
		fallback := s.serveFallback(ctx, key, q)
		if len(fallback.Candidates) == 0 {
			return fallback, planner.ErrProviderUnavailable
		}
		return fallback, nil
	}

	// Expand pagination at most once when the caller's filter would leave
	// too few results to work with.
	if opts.PostFilter != nil && fetched < s.config.MaxPages {
		surviving := opts.PostFilter(candidates)
		if len(surviving) < minResults {
			extra := s.config.MaxPages - fetched
			if extra > expansionPages {
				extra = expansionPages
			}
			s.metrics.Expansions.Inc()
			s.logger.Info("expanding fetch for thin results",
				zap.Int("surviving", len(surviving)),
				zap.Int("min_results", minResults),
				zap.Int("extra_pages", extra),
			)
			candidates, _ = s.fetchPages(ctx, q, fetched+1, extra, pageSize, candidates)
		}
	}

	set := planner.CandidateSet{Candidates: candidates, Provenance: planner.ProvenanceLive}
	s.store(ctx, key, set, s.config.CacheTTL)
	return set, nil
}

// FetchRecipe returns a single recipe by provider id, cached per id with the
// live-result TTL.
func (s *Service) FetchRecipe(ctx context.Context, id string) (*planner.Candidate, error) {
	key := "recipe:" + id
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var c planner.Candidate
		if err := json.Unmarshal(raw, &c); err == nil {
			s.metrics.CacheHits.Inc()
			return &c, nil
		}
		_ = s.cache.Delete(ctx, key)
	}
	s.metrics.CacheMisses.Inc()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	recipe, err := s.provider.FetchRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(recipe); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.config.CacheTTL); err != nil {
			s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return recipe, nil
}

// FetchRecipeOfDay returns the provider's daily featured recipe, cached under
// a shared key so every caller sees the same pick until it rolls over.
func (s *Service) FetchRecipeOfDay(ctx context.Context) (*planner.Candidate, error) {
	const key = "recipe-of-the-day"
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var c planner.Candidate
		if err := json.Unmarshal(raw, &c); err == nil {
			s.metrics.CacheHits.Inc()
			return &c, nil
		}
		_ = s.cache.Delete(ctx, key)
	}
	s.metrics.CacheMisses.Inc()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	recipe, err := s.provider.FetchRecipeOfDay(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(recipe); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.config.CacheTTL); err != nil {
			s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return recipe, nil
}

// fetchPages fetches count pages starting at first, tolerating individual
// page failures, and merges results into seed with last-wins semantics per
// recipe id. The second return is the highest page index attempted.
func (s *Service) fetchPages(ctx context.Context, q inbound.Query, first, count, pageSize int, seed []planner.Candidate) ([]planner.Candidate, int) {
	merged := make([]planner.Candidate, len(seed))
	copy(merged, seed)
	index := make(map[string]int, len(merged))
	for i, c := range merged {
		index[c.ID] = i
	}

	last := first - 1
	for page := first; page < first+count; page++ {
		last = page
		if err := s.limiter.Wait(ctx); err != nil {
			break
		}

		batch, err := s.provider.FetchPage(ctx, outbound.PageQuery{
			SearchTerm: q.SearchTerm,
			DietType:   q.DietType,
			Allergies:  q.Allergies,
			Page:       page,
			PageSize:   pageSize,
		})
		if err != nil {
			s.metrics.PageFailures.Inc()
			s.logger.Warn("provider page failed",
				zap.Int("page", page),
				zap.String("term", q.SearchTerm),
				zap.Error(err),
			)
			continue
		}
		s.metrics.PagesFetched.Inc()

		for _, c := range batch {
			if c.ID == "" {
				continue
			}
			if i, seen := index[c.ID]; seen {
				merged[i] = c
				continue
			}
			index[c.ID] = len(merged)
			merged = append(merged, c)
		}

		// A short page means the provider ran out of results.
		if len(batch) < pageSize {
			break
		}
	}
	return merged, last
}

func (s *Service) fromCache(ctx context.Context, key string) (planner.CandidateSet, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != outbound.ErrCacheMiss {
			s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return planner.CandidateSet{}, false
	}

	var stored cachedSet
	if err := json.Unmarshal(raw, &stored); err != nil {
		// A corrupt entry is dropped and refetched.
		s.logger.Warn("dropping corrupt cache entry", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return planner.CandidateSet{}, false
	}
	return planner.CandidateSet{Candidates: stored.Candidates, Provenance: stored.Provenance}, true
}

func (s *Service) store(ctx context.Context, key string, set planner.CandidateSet, ttl time.Duration) {
	raw, err := json.Marshal(cachedSet{Candidates: set.Candidates, Provenance: set.Provenance})
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) serveFallback(ctx context.Context, key string, q inbound.Query) planner.CandidateSet {
	s.metrics.Fallbacks.Inc()
	s.logger.Warn("provider unavailable, serving fallback set",
		zap.String("term", q.SearchTerm),
		zap.String("diet_type", q.DietType),
	)
	set := planner.CandidateSet{Candidates: FallbackCandidates(), Provenance: planner.ProvenanceFallback}
	s.store(ctx, key, set, s.config.FallbackTTL)
	return set
}

// signature builds the cache key for a query. Allergies are sorted so that
// payload ordering does not fragment the cache.
func signature(q inbound.Query, pageSize int) string {
	allergies := make([]string, len(q.Allergies))
	copy(allergies, q.Allergies)
	sort.Strings(allergies)

	return fmt.Sprintf("retrieval:%s|%s|%s|%d",
		strings.ToLower(q.DietType),
		strings.ToLower(strings.Join(allergies, ",")),
		strings.ToLower(q.SearchTerm),
		pageSize,
	)
}
