package repo

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/pkg/database"
	"github.com/go-funnel/funnel/pkg/id"
	"gorm.io/datatypes"
)

type IActivityRepository interface {
	Create(ctx context.Context, a *model.Activity) error
	Append(ctx context.Context, dealId string, authorId *string, typ model.ActivityType, payload interface{}) error
	ListByDeal(ctx context.Context, dealId string, page *model.PageReq) ([]*model.Activity, int64, error)
	DeleteByDeal(ctx context.Context, dealId string) error
}

type ActivityRepo struct {
	database.IDatabase
}

func NewActivityRepo(db database.IDatabase) IActivityRepository {
	return &ActivityRepo{IDatabase: db}
}

// Create 写入一条活动记录
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	return r.Database().WithContext(ctx).Create(a).Error
}

// Append 以结构化 payload 追加一条商机活动
func (r *ActivityRepo) Append(ctx context.Context, dealId string, authorId *string, typ model.ActivityType, payload interface{}) error {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return err
	}
	return r.Create(ctx, &model.Activity{
		ActivityId: id.GetUUID(),
		DealId:     dealId,
		AuthorId:   authorId,
		Type:       typ,
		Payload:    datatypes.JSON(raw),
	})
}

// ListByDeal 按时间倒序分页查询商机活动
func (r *ActivityRepo) ListByDeal(ctx context.Context, dealId string, page *model.PageReq) ([]*model.Activity, int64, error) {
	tx := r.Database().WithContext(ctx).Model(&model.Activity{}).Where("deal_id = ?", dealId)

	total, err := count(tx)
	if err != nil {
		return nil, 0, err
	}

	offset, limit := page.Normalize()
	var activities []*model.Activity
	err = tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&activities).Error
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// DeleteByDeal 随商机删除其时间线
func (r *ActivityRepo) DeleteByDeal(ctx context.Context, dealId string) error {
	return r.Database().WithContext(ctx).
		Where("deal_id = ?", dealId).Delete(&model.Activity{}).Error
}
