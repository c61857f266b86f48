package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyticsService(env *testEnv) *AnalyticsService {
	return NewAnalyticsService(env.deals, AnalyticsOptions{CacheTTL: time.Minute})
}

func TestSummaryZeroFilledBuckets(t *testing.T) {
	env := newTestEnv()
	svc := newAnalyticsService(env)

	// 空组织也要有四个状态桶
	s, err := svc.GetDealsSummary(context.Background(), "org-empty", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.TotalDeals)
	require.Len(t, s.ByStatus, 4)
	for _, st := range model.AllDealStatuses {
		assert.Contains(t, s.ByStatus, st)
	}
	assert.True(t, s.AvgWonAmount.IsZero())
}

func TestSummaryAggregation(t *testing.T) {
	env := newTestEnv()
	svc := newAnalyticsService(env)

	env.addDeal("org-1", "u", model.DealStatusWon, model.StageClosed, decimal.NewFromInt(100))
	env.addDeal("org-1", "u", model.DealStatusWon, model.StageClosed, decimal.NewFromInt(200))
	env.addDeal("org-1", "u", model.DealStatusNew, model.StageQualification, decimal.NewFromInt(50))
	env.addDeal("org-2", "u", model.DealStatusNew, model.StageQualification, decimal.NewFromInt(999))

	s, err := svc.GetDealsSummary(context.Background(), "org-1", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.TotalDeals)
	assert.Equal(t, int64(2), s.ByStatus[model.DealStatusWon].Count)
	assert.True(t, s.ByStatus[model.DealStatusWon].TotalAmount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, int64(0), s.ByStatus[model.DealStatusLost].Count)
	assert.True(t, s.AvgWonAmount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, int64(3), s.NewDeals)
}

func TestSummaryWindowFallback(t *testing.T) {
	env := newTestEnv()
	svc := newAnalyticsService(env)

	for _, days := range []int{0, -5, 9999} {
		s, err := svc.GetDealsSummary(context.Background(), "org-1", days)
		require.NoError(t, err)
		assert.Equal(t, 30, s.WindowDays)
	}
}

func TestSummaryCachedAndInvalidated(t *testing.T) {
	env := newTestEnv()
	svc := newAnalyticsService(env)
	env.addDeal("org-1", "u", model.DealStatusNew, model.StageQualification, decimal.NewFromInt(10))

	_, err := svc.GetDealsSummary(context.Background(), "org-1", 30)
	require.NoError(t, err)
	_, err = svc.GetDealsSummary(context.Background(), "org-1", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, env.deals.summaryCalls)

	// 不同窗口是独立的缓存键
	_, err = svc.GetDealsSummary(context.Background(), "org-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, env.deals.summaryCalls)

	// 失效后重新计算
	svc.InvalidateOrganization("org-1")
	_, err = svc.GetDealsSummary(context.Background(), "org-1", 30)
	require.NoError(t, err)
	assert.Equal(t, 3, env.deals.summaryCalls)

	// 其他组织的缓存不受影响
	_, err = svc.GetDealsFunnel(context.Background(), "org-2")
	require.NoError(t, err)
	svc.InvalidateOrganization("org-1")
	_, err = svc.GetDealsFunnel(context.Background(), "org-2")
	require.NoError(t, err)
	assert.Equal(t, 1, env.deals.funnelCalls)
}

func TestFunnelConversions(t *testing.T) {
	env := newTestEnv()
	svc := newAnalyticsService(env)

	for i := 0; i < 4; i++ {
		env.addDeal("org-1", "u", model.DealStatusInProgress, model.StageQualification, decimal.NewFromInt(10))
	}
	for i := 0; i < 3; i++ {
		env.addDeal("org-1", "u", model.DealStatusInProgress, model.StageProposal, decimal.NewFromInt(10))
	}
	env.addDeal("org-1", "u", model.DealStatusWon, model.StageClosed, decimal.NewFromInt(10))

	f, err := svc.GetDealsFunnel(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, f.Stages, 4)
	assert.Equal(t, model.StageQualification, f.Stages[0].Stage)
	assert.Equal(t, int64(4), f.Stages[0].Total)
	assert.Equal(t, int64(4), f.Stages[0].ByStatus[model.DealStatusInProgress])
	assert.Equal(t, int64(0), f.Stages[2].Total)

	require.Len(t, f.Conversions, 3)
	// 4 -> 3: 75%
	assert.Equal(t, 75.0, f.Conversions[0].Rate)
	// 3 -> 0: 0%
	assert.Equal(t, 0.0, f.Conversions[1].Rate)
	// 0 -> 1: 上一阶段为空时记 0，不做除零
	assert.Equal(t, 0.0, f.Conversions[2].Rate)
}

func TestFunnelRounding(t *testing.T) {
	env := newTestEnv()
	svc := newAnalyticsService(env)

	for i := 0; i < 3; i++ {
		env.addDeal("org-1", "u", model.DealStatusInProgress, model.StageQualification, decimal.NewFromInt(10))
	}
	env.addDeal("org-1", "u", model.DealStatusInProgress, model.StageProposal, decimal.NewFromInt(10))

	f, err := svc.GetDealsFunnel(context.Background(), "org-1")
	require.NoError(t, err)
	// 1/3 -> 33.33
	assert.Equal(t, 33.33, f.Conversions[0].Rate)
}
