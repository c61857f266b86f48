// Copyright 2025 Funnel Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/internal/crm/repo"
	"github.com/go-funnel/funnel/pkg/cache"
)

const (
	defaultSummaryWindowDays = 30
	maxSummaryWindowDays     = 365
)

// AnalyticsOptions 统计服务配置
type AnalyticsOptions struct {
	CacheTTL time.Duration
}

// AnalyticsService 组织维度的商机统计，结果短暂缓存，
// 商机任何变更都会使该组织的缓存整体失效
type AnalyticsService struct {
	dealRepo repo.IDealRepository
	cache    *cache.MemoryCache

	now func() time.Time
}

func NewAnalyticsService(dealRepo repo.IDealRepository, opts AnalyticsOptions) *AnalyticsService {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &AnalyticsService{
		dealRepo: dealRepo,
		cache:    cache.NewMemoryCache(ttl),
		now:      time.Now,
	}
}

func summaryKey(orgId string, days int) string {
	return fmt.Sprintf("summary:%s:%d", orgId, days)
}

func funnelKey(orgId string) string {
	return "funnel:" + orgId
}

// InvalidateOrganization 失效组织的全部统计缓存
func (s *AnalyticsService) InvalidateOrganization(orgId string) {
	s.cache.DeletePrefix("summary:" + orgId + ":")
	s.cache.Delete(funnelKey(orgId))
}

// GetDealsSummary 商机汇总。windowDays 超出 [1, 365] 时回退为 30
func (s *AnalyticsService) GetDealsSummary(ctx context.Context, orgId string, windowDays int) (*model.DealsSummary, error) {
	if windowDays < 1 || windowDays > maxSummaryWindowDays {
		windowDays = defaultSummaryWindowDays
	}

	key := summaryKey(orgId, windowDays)
	if v, ok := s.cache.Get(key); ok {
		return v.(*model.DealsSummary), nil
	}

	rows, err := s.dealRepo.SummaryByStatus(ctx, orgId)
	if err != nil {
		return nil, err
	}

	// 四个状态桶始终齐全，没有数据的补零
	byStatus := make(map[model.DealStatus]model.StatusAgg, len(model.AllDealStatuses))
	for _, st := range model.AllDealStatuses {
		byStatus[st] = model.StatusAgg{}
	}
	var total int64
	for _, row := range rows {
		byStatus[row.Status] = model.StatusAgg{Count: row.Count, TotalAmount: row.TotalAmount}
		total += row.Count
	}

	avgWon, err := s.dealRepo.AvgWonAmount(ctx, orgId)
	if err != nil {
		return nil, err
	}

	since := s.now().UTC().AddDate(0, 0, -windowDays)
	newDeals, err := s.dealRepo.CountCreatedSince(ctx, orgId, since)
	if err != nil {
		return nil, err
	}

	summary := &model.DealsSummary{
		TotalDeals:   total,
		ByStatus:     byStatus,
		AvgWonAmount: avgWon.Round(2),
		WindowDays:   windowDays,
		NewDeals:     newDeals,
	}
	s.cache.Set(key, summary, 0)
	return summary, nil
}

// GetDealsFunnel 阶段漏斗。相邻阶段转化率 = round(100 * 下一阶段数 / 当前阶段数, 2)，
// 当前阶段为空时记 0
func (s *AnalyticsService) GetDealsFunnel(ctx context.Context, orgId string) (*model.DealsFunnel, error) {
	key := funnelKey(orgId)
	if v, ok := s.cache.Get(key); ok {
		return v.(*model.DealsFunnel), nil
	}

	rows, err := s.dealRepo.FunnelData(ctx, orgId)
	if err != nil {
		return nil, err
	}

	counts := make(map[model.DealStage]map[model.DealStatus]int64, len(model.AllDealStages))
	for _, stage := range model.AllDealStages {
		counts[stage] = make(map[model.DealStatus]int64, len(model.AllDealStatuses))
		for _, st := range model.AllDealStatuses {
			counts[stage][st] = 0
		}
	}
	for _, row := range rows {
		if _, ok := counts[row.Stage]; ok {
			counts[row.Stage][row.Status] = row.Count
		}
	}

	stages := make([]model.FunnelStage, 0, len(model.AllDealStages))
	totals := make(map[model.DealStage]int64, len(model.AllDealStages))
	for _, stage := range model.AllDealStages {
		var total int64
		for _, n := range counts[stage] {
			total += n
		}
		totals[stage] = total
		stages = append(stages, model.FunnelStage{
			Stage:    stage,
			Total:    total,
			ByStatus: counts[stage],
		})
	}

	conversions := make([]model.StageConversion, 0, len(model.AllDealStages)-1)
	for i := 0; i < len(model.AllDealStages)-1; i++ {
		from, to := model.AllDealStages[i], model.AllDealStages[i+1]
		rate := 0.0
		if totals[from] > 0 {
			rate = math.Round(100*float64(totals[to])/float64(totals[from])*100) / 100
		}
		conversions = append(conversions, model.StageConversion{From: from, To: to, Rate: rate})
	}

	funnel := &model.DealsFunnel{Stages: stages, Conversions: conversions}
	s.cache.Set(key, funnel, 0)
	return funnel, nil
}
