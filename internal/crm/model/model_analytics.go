package model

import "github.com/shopspring/decimal"

// StatusAgg 单个状态下的商机数量与金额合计
type StatusAgg struct {
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// DealsSummary 组织维度的商机汇总，四个状态的桶总是齐全
type DealsSummary struct {
	TotalDeals   int64                    `json:"totalDeals"`
	ByStatus     map[DealStatus]StatusAgg `json:"byStatus"`
	AvgWonAmount decimal.Decimal          `json:"avgWonAmount"`
	WindowDays   int                      `json:"windowDays"`
	NewDeals     int64                    `json:"newDeals"` // 窗口期内新建的商机数
}

// FunnelStage 漏斗中单个阶段的商机分布
type FunnelStage struct {
	Stage    DealStage            `json:"stage"`
	Total    int64                `json:"total"`
	ByStatus map[DealStatus]int64 `json:"byStatus"`
}

// StageConversion 相邻阶段间的转化率，百分比保留两位小数
type StageConversion struct {
	From DealStage `json:"from"`
	To   DealStage `json:"to"`
	Rate float64   `json:"rate"`
}

// DealsFunnel 阶段漏斗，阶段按 rank 升序排列
type DealsFunnel struct {
	Stages      []FunnelStage     `json:"stages"`
	Conversions []StageConversion `json:"conversions"`
}
