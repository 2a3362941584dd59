package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	cacheKeyCourses         = "courses"
	cacheKeyTechnicalSkills = "technical_skills"
	cacheKeySoftSkills      = "soft_skills"
)

const fetchTimeout = 15 * time.Second

// Service caches catalog responses and refreshes them on a schedule so step
// dropdowns do not pay upstream latency per request. A fetch failure degrades
// to whatever is cached, or an empty list; it never blocks the wizard.
type Service struct {
	client *Client
	cache  *cache.Cache
	cron   *cron.Cron
	logger *zap.Logger
}

// NewService creates a catalog service with the given cache TTL.
func NewService(client *Client, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache.New(cacheTTL, 10*time.Minute),
		cron:   cron.New(),
		logger: logger,
	}
}

// Start warms the cache and schedules periodic refreshes using a standard
// cron spec (descriptors like "@every 5m" work too).
func (s *Service) Start(refreshSpec string) error {
	s.refresh()
	if _, err := s.cron.AddFunc(refreshSpec, s.refresh); err != nil {
		return fmt.Errorf("schedule catalog refresh: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the refresh scheduler.
func (s *Service) Stop() {
	s.cron.Stop()
}

func (s *Service) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	fetchers := map[string]func(context.Context) ([]Item, error){
		cacheKeyCourses:         s.client.Courses,
		cacheKeyTechnicalSkills: s.client.TechnicalSkills,
		cacheKeySoftSkills:      s.client.SoftSkills,
	}
	for key, fetch := range fetchers {
		items, err := fetch(ctx)
		if err != nil {
			s.logger.Warn("catalog refresh failed",
				zap.String("catalog", key),
				zap.Error(err))
			continue
		}
		s.cache.Set(key, items, cache.DefaultExpiration)
	}
}

// Courses returns the cached course catalog, fetching on a cold cache.
func (s *Service) Courses(ctx context.Context) []Item {
	return s.get(ctx, cacheKeyCourses, s.client.Courses)
}

// TechnicalSkills returns the cached technical-skill catalog.
func (s *Service) TechnicalSkills(ctx context.Context) []Item {
	return s.get(ctx, cacheKeyTechnicalSkills, s.client.TechnicalSkills)
}

// SoftSkills returns the cached soft-skill catalog.
func (s *Service) SoftSkills(ctx context.Context) []Item {
	return s.get(ctx, cacheKeySoftSkills, s.client.SoftSkills)
}

func (s *Service) get(ctx context.Context, key string, fetch func(context.Context) ([]Item, error)) []Item {
	if v, ok := s.cache.Get(key); ok {
		return v.([]Item)
	}
	items, err := fetch(ctx)
	if err != nil {
		s.logger.Warn("catalog fetch failed, serving empty list",
			zap.String("catalog", key),
			zap.Error(err))
		return []Item{}
	}
	s.cache.Set(key, items, cache.DefaultExpiration)
	return items
}
