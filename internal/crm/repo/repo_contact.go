package repo

import (
	"context"
	"errors"

	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/pkg/database"
	"gorm.io/gorm"
)

type IContactRepository interface {
	Create(ctx context.Context, c *model.Contact) error
	GetByContactId(ctx context.Context, orgId, contactId string) (*model.Contact, error)
	List(ctx context.Context, orgId string, q *model.ContactQueryReq) ([]*model.Contact, int64, error)
	Update(ctx context.Context, contactId string, updates map[string]interface{}) error
	Delete(ctx context.Context, contactId string) error
	HasDeals(ctx context.Context, contactId string) (bool, error)
}

type ContactRepo struct {
	database.IDatabase
}

func NewContactRepo(db database.IDatabase) IContactRepository {
	return &ContactRepo{IDatabase: db}
}

// Create 创建联系人
func (r *ContactRepo) Create(ctx context.Context, c *model.Contact) error {
	return r.Database().WithContext(ctx).Create(c).Error
}

// GetByContactId 在组织范围内获取联系人，不存在返回 nil
func (r *ContactRepo) GetByContactId(ctx context.Context, orgId, contactId string) (*model.Contact, error) {
	var c model.Contact
	err := r.Database().WithContext(ctx).
		Where("org_id = ? AND contact_id = ?", orgId, contactId).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// List 分页查询组织内联系人，支持按名称/邮箱模糊搜索和负责人过滤
func (r *ContactRepo) List(ctx context.Context, orgId string, q *model.ContactQueryReq) ([]*model.Contact, int64, error) {
	tx := r.Database().WithContext(ctx).Model(&model.Contact{}).Where("org_id = ?", orgId)
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if q.OwnerId != "" {
		tx = tx.Where("owner_id = ?", q.OwnerId)
	}

	total, err := count(tx)
	if err != nil {
		return nil, 0, err
	}

	offset, limit := q.Normalize()
	var contacts []*model.Contact
	err = tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// Update 按字段更新联系人
func (r *ContactRepo) Update(ctx context.Context, contactId string, updates map[string]interface{}) error {
	return r.Database().WithContext(ctx).Model(&model.Contact{}).
		Where("contact_id = ?", contactId).Updates(updates).Error
}

// Delete 删除联系人
func (r *ContactRepo) Delete(ctx context.Context, contactId string) error {
	return r.Database().WithContext(ctx).
		Where("contact_id = ?", contactId).Delete(&model.Contact{}).Error
}

// HasDeals 检查联系人名下是否还挂有商机
func (r *ContactRepo) HasDeals(ctx context.Context, contactId string) (bool, error) {
	var total int64
	err := r.Database().WithContext(ctx).Model(&model.Deal{}).
		Where("contact_id = ?", contactId).Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}
