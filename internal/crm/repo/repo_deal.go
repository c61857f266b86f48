package repo

import (
	"context"
	"errors"
	"time"

	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/pkg/database"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatusSummaryRow 按状态聚合的商机数量与金额
type StatusSummaryRow struct {
	Status      model.DealStatus `gorm:"column:status"`
	Count       int64            `gorm:"column:count"`
	TotalAmount decimal.Decimal  `gorm:"column:total_amount"`
}

// FunnelRow 阶段 x 状态 的商机数量
type FunnelRow struct {
	Stage  model.DealStage  `gorm:"column:stage"`
	Status model.DealStatus `gorm:"column:status"`
	Count  int64            `gorm:"column:count"`
}

type IDealRepository interface {
	Create(ctx context.Context, d *model.Deal) error
	GetByDealId(ctx context.Context, orgId, dealId string) (*model.Deal, error)
	List(ctx context.Context, orgId string, q *model.DealQueryReq) ([]*model.Deal, int64, error)
	Update(ctx context.Context, dealId string, updates map[string]interface{}) error
	Delete(ctx context.Context, dealId string) error

	SummaryByStatus(ctx context.Context, orgId string) ([]StatusSummaryRow, error)
	AvgWonAmount(ctx context.Context, orgId string) (decimal.Decimal, error)
	CountCreatedSince(ctx context.Context, orgId string, since time.Time) (int64, error)
	FunnelData(ctx context.Context, orgId string) ([]FunnelRow, error)
}

type DealRepo struct {
	database.IDatabase
}

func NewDealRepo(db database.IDatabase) IDealRepository {
	return &DealRepo{IDatabase: db}
}

// orderColumns 列出允许排序的列，防止排序参数注入
var orderColumns = map[string]string{
	"created_at": "created_at",
	"amount":     "amount",
	"title":      "title",
	"status":     "status",
	"stage":      "stage",
}

// Create 创建商机
func (r *DealRepo) Create(ctx context.Context, d *model.Deal) error {
	return r.Database().WithContext(ctx).Create(d).Error
}

// GetByDealId 在组织范围内获取商机，不存在返回 nil
func (r *DealRepo) GetByDealId(ctx context.Context, orgId, dealId string) (*model.Deal, error) {
	var d model.Deal
	err := r.Database().WithContext(ctx).
		Where("org_id = ? AND deal_id = ?", orgId, dealId).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// List 分页查询组织内商机，支持状态集合、阶段、负责人、金额区间过滤和排序。
// total 只按状态过滤统计，和条目过滤条件不完全一致，维持既有口径
func (r *DealRepo) List(ctx context.Context, orgId string, q *model.DealQueryReq) ([]*model.Deal, int64, error) {
	base := r.Database().WithContext(ctx).Model(&model.Deal{}).Where("org_id = ?", orgId)
	if len(q.Status) > 0 {
		base = base.Where("status IN ?", q.Status)
	}

	total, err := count(base)
	if err != nil {
		return nil, 0, err
	}

	tx := base
	if q.Stage != "" {
		tx = tx.Where("stage = ?", q.Stage)
	}
	if q.OwnerId != "" {
		tx = tx.Where("owner_id = ?", q.OwnerId)
	}
	if q.MinAmount != nil {
		tx = tx.Where("amount >= ?", q.MinAmount)
	}
	if q.MaxAmount != nil {
		tx = tx.Where("amount <= ?", q.MaxAmount)
	}

	col, ok := orderColumns[q.OrderBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if q.Order == "asc" {
		dir = "ASC"
	}

	offset, limit := q.Normalize()
	var deals []*model.Deal
	err = tx.Order(col + " " + dir).Offset(offset).Limit(limit).Find(&deals).Error
	if err != nil {
		return nil, 0, err
	}
	return deals, total, nil
}

// Update 按字段更新商机
func (r *DealRepo) Update(ctx context.Context, dealId string, updates map[string]interface{}) error {
	return r.Database().WithContext(ctx).Model(&model.Deal{}).
		Where("deal_id = ?", dealId).Updates(updates).Error
}

// Delete 删除商机
func (r *DealRepo) Delete(ctx context.Context, dealId string) error {
	return r.Database().WithContext(ctx).
		Where("deal_id = ?", dealId).Delete(&model.Deal{}).Error
}

// SummaryByStatus 按状态统计商机数量与金额合计
func (r *DealRepo) SummaryByStatus(ctx context.Context, orgId string) ([]StatusSummaryRow, error) {
	var rows []StatusSummaryRow
	err := r.Database().WithContext(ctx).Model(&model.Deal{}).
		Select("status, COUNT(id) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Where("org_id = ?", orgId).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// AvgWonAmount 已赢单商机的平均金额，无赢单返回 0
func (r *DealRepo) AvgWonAmount(ctx context.Context, orgId string) (decimal.Decimal, error) {
	var row struct {
		Avg decimal.Decimal `gorm:"column:avg"`
	}
	err := r.Database().WithContext(ctx).Model(&model.Deal{}).
		Select("COALESCE(AVG(amount), 0) AS avg").
		Where("org_id = ? AND status = ?", orgId, model.DealStatusWon).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Avg, nil
}

// CountCreatedSince 统计某时间点之后创建的商机数
func (r *DealRepo) CountCreatedSince(ctx context.Context, orgId string, since time.Time) (int64, error) {
	var total int64
	err := r.Database().WithContext(ctx).Model(&model.Deal{}).
		Where("org_id = ? AND created_at >= ?", orgId, since).Count(&total).Error
	return total, err
}

// FunnelData 按阶段和状态统计商机数量
func (r *DealRepo) FunnelData(ctx context.Context, orgId string) ([]FunnelRow, error) {
	var rows []FunnelRow
	err := r.Database().WithContext(ctx).Model(&model.Deal{}).
		Select("stage, status, COUNT(id) AS count").
		Where("org_id = ?", orgId).
		Group("stage").Group("status").
		Scan(&rows).Error
	return rows, err
}
