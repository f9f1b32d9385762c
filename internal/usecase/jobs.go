package usecase

import (
	"context"
	"log/slog"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/observability"
)

// Job list sources reported to callers.
const (
	SourceCache  = "cache"
	SourceAPI    = "api"
	SourceSample = "sample"
)

// Defaults applied when a browse request omits search parameters.
const (
	DefaultQuery    = "developer"
	DefaultLocation = "remote"
)

// JobService resolves job lists through an ordered fallback chain:
// explicit input, cache keys, live provider fetch, built-in sample data.
type JobService struct {
	Cache    domain.CacheStore
	Search   domain.JobProvider // query/location search (JSearch)
	Feed     domain.JobProvider // paginated public feed (JoinRise)
	SampleFn func() []domain.Job
}

// NewJobService constructs a JobService.
func NewJobService(cache domain.CacheStore, search, feed domain.JobProvider, sampleFn func() []domain.Job) *JobService {
	return &JobService{Cache: cache, Search: search, Feed: feed, SampleFn: sampleFn}
}

// resolve walks the fallback chain. cacheKeys are tried in declared order
// and the first non-empty hit wins; a successful live fetch is written
// through to the first (primary) key. Provider errors never propagate:
// they advance the chain to the sample set.
func (s *JobService) resolve(ctx context.Context, explicit []domain.Job, cacheKeys []string, live func(context.Context) ([]domain.Job, error)) ([]domain.Job, string) {
	lg := observability.LoggerFromContext(ctx)

	if len(explicit) > 0 {
		return explicit, SourceCache
	}

	for _, key := range cacheKeys {
		var cached []domain.Job
		if s.Cache.Get(ctx, key, &cached) && len(cached) > 0 {
			lg.Debug("serving jobs from cache", slog.String("key", key), slog.Int("count", len(cached)))
			return cached, SourceCache
		}
	}

	jobs, err := live(ctx)
	if err != nil {
		lg.Warn("live job fetch failed, falling back to sample data", slog.Any("error", err))
	}
	if len(jobs) > 0 {
		// Write-through: populate the primary key before returning.
		if len(cacheKeys) > 0 {
			s.Cache.Set(ctx, cacheKeys[0], jobs, domain.JobsCacheTTL)
		}
		return jobs, SourceAPI
	}

	return s.SampleFn(), SourceSample
}

// Browse returns jobs for a query/location search, preferring cache over a
// live JSearch fetch over sample data. The legacy key generation is still
// consulted so cached listings survive the key-scheme migration.
func (s *JobService) Browse(ctx context.Context, query, location string) ([]domain.Job, string) {
	if query == "" {
		query = DefaultQuery
	}
	if location == "" {
		location = DefaultLocation
	}
	keys := []string{
		domain.JobsKey(query, location),
		domain.LegacyJobsKey(query, location),
	}
	return s.resolve(ctx, nil, keys, func(ctx context.Context) ([]domain.Job, error) {
		return s.Search.Search(ctx, query, location, 1, 20)
	})
}

// FeedPage returns one page of the public JoinRise feed with the same
// cache-then-live-then-sample behavior.
func (s *JobService) FeedPage(ctx context.Context, page, limit int) ([]domain.Job, string) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	keys := []string{domain.ProviderPageKey(s.Feed.Name(), page, limit)}
	return s.resolve(ctx, nil, keys, func(ctx context.Context) ([]domain.Job, error) {
		return s.Feed.Search(ctx, "", "", page, limit)
	})
}

// ResolveForScoring resolves the job pool for a scoring request. Jobs the
// caller already holds (fetched by the browsing flow) short-circuit the
// chain so a scoring request never forces a redundant live fetch.
func (s *JobService) ResolveForScoring(ctx context.Context, explicit []domain.Job, query, location string) []domain.Job {
	if query == "" {
		query = DefaultQuery
	}
	if location == "" {
		location = DefaultLocation
	}
	keys := []string{
		domain.JobsKey(query, location),
		domain.LegacyJobsKey(query, location),
	}
	jobs, _ := s.resolve(ctx, explicit, keys, func(ctx context.Context) ([]domain.Job, error) {
		return s.Search.Search(ctx, query, location, 1, 20)
	})
	return jobs
}
