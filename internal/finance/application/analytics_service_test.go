package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
	"github.com/pramodthundathil/ola-backend/pkg/metrics"
)

// stubAnalyticsRepo 返回固定报表并统计调用次数
type stubAnalyticsRepo struct {
	calls int
}

func (s *stubAnalyticsRepo) Overview(context.Context) (*domain.OverviewReport, error) {
	s.calls++
	return &domain.OverviewReport{TotalFinancePlans: 12, TotalApproved: 9}, nil
}

func (s *stubAnalyticsRepo) RiskTiers(context.Context) ([]*domain.TierReport, error) {
	s.calls++
	return []*domain.TierReport{{RiskTier: domain.TierA, TotalFinancePlans: 7}}, nil
}

func (s *stubAnalyticsRepo) Collections(context.Context) (*domain.CollectionsReport, error) {
	s.calls++
	return &domain.CollectionsReport{TotalCollected: 900, TotalPending: 100, CollectionRate: 90}, nil
}

func (s *stubAnalyticsRepo) Overdue(context.Context, time.Time) (*domain.OverdueReport, error) {
	s.calls++
	return &domain.OverdueReport{TotalOverdueInstallments: 3}, nil
}

func TestAnalyticsService_WithoutCacheHitsRepository(t *testing.T) {
	repo := &stubAnalyticsRepo{}
	svc := NewAnalyticsService(repo, nil, metrics.New("test"), time.Minute)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), overview.TotalFinancePlans)

	tiers, err := svc.RiskTiers(context.Background())
	require.NoError(t, err)
	require.Len(t, tiers, 1)
	assert.Equal(t, domain.TierA, tiers[0].RiskTier)

	collections, err := svc.Collections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(90), collections.CollectionRate)

	overdue, err := svc.Overdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), overdue.TotalOverdueInstallments)

	// 无缓存时每次请求都打到仓储
	assert.Equal(t, 4, repo.calls)
}
