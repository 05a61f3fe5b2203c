package application

import (
	"context"
	"errors"
	"time"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
	"github.com/pramodthundathil/ola-backend/pkg/cache"
	"github.com/pramodthundathil/ola-backend/pkg/logger"
	"github.com/pramodthundathil/ola-backend/pkg/metrics"
)

// 分析缓存键
const (
	cacheKeyOverview    = "lending:analytics:overview"
	cacheKeyRiskTiers   = "lending:analytics:risk_tiers"
	cacheKeyCollections = "lending:analytics:collections"
	cacheKeyOverdue     = "lending:analytics:overdue"
)

// AnalyticsService 分析报表服务。聚合查询走数据库，
// 结果在 Redis 里缓存一个可配置的 TTL，缓存故障降级为直查。
type AnalyticsService struct {
	repo    domain.AnalyticsRepository
	cache   *cache.RedisCache
	metrics *metrics.Metrics
	ttl     time.Duration
}

// NewAnalyticsService 创建分析服务实例
func NewAnalyticsService(repo domain.AnalyticsRepository, c *cache.RedisCache, m *metrics.Metrics, ttl time.Duration) *AnalyticsService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnalyticsService{repo: repo, cache: c, metrics: m, ttl: ttl}
}

// Overview 融资方案总体报表
func (s *AnalyticsService) Overview(ctx context.Context) (*domain.OverviewReport, error) {
	var report domain.OverviewReport
	if s.cacheGet(ctx, cacheKeyOverview, &report) {
		return &report, nil
	}

	fresh, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cacheKeyOverview, fresh)
	return fresh, nil
}

// RiskTiers 按风险分层聚合的报表
func (s *AnalyticsService) RiskTiers(ctx context.Context) ([]*domain.TierReport, error) {
	var reports []*domain.TierReport
	if s.cacheGet(ctx, cacheKeyRiskTiers, &reports) {
		return reports, nil
	}

	fresh, err := s.repo.RiskTiers(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cacheKeyRiskTiers, fresh)
	return fresh, nil
}

// Collections 回款报表
func (s *AnalyticsService) Collections(ctx context.Context) (*domain.CollectionsReport, error) {
	var report domain.CollectionsReport
	if s.cacheGet(ctx, cacheKeyCollections, &report) {
		return &report, nil
	}

	fresh, err := s.repo.Collections(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cacheKeyCollections, fresh)
	return fresh, nil
}

// Overdue 逾期报表，同时刷新逾期分期数指标
func (s *AnalyticsService) Overdue(ctx context.Context) (*domain.OverdueReport, error) {
	var report domain.OverdueReport
	if s.cacheGet(ctx, cacheKeyOverdue, &report) {
		return &report, nil
	}

	fresh, err := s.repo.Overdue(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	s.metrics.InstallmentsOverdue.Set(float64(fresh.TotalOverdueInstallments))
	s.cacheSet(ctx, cacheKeyOverdue, fresh)
	return fresh, nil
}

// Invalidate 清空全部分析缓存，写路径在需要实时数据时调用
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyOverview, cacheKeyRiskTiers, cacheKeyCollections, cacheKeyOverdue); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate analytics cache", "error", err)
	}
}

func (s *AnalyticsService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.GetJSON(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.WithContext(ctx).Warn("Analytics cache read failed", "key", key, "error", err)
	}
	return false
}

func (s *AnalyticsService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
		logger.WithContext(ctx).Warn("Analytics cache write failed", "key", key, "error", err)
	}
}
