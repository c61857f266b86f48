package repo

import (
	"context"
	"errors"

	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/pkg/database"
	"gorm.io/gorm"
)

type IOrganizationMemberRepository interface {
	Add(ctx context.Context, m *model.OrganizationMember) error
	Get(ctx context.Context, orgId, userId string) (*model.OrganizationMember, error)
	ListByOrg(ctx context.Context, orgId string) ([]*model.OrganizationMember, error)
	UpdateRole(ctx context.Context, orgId, userId string, role model.OrganizationRole) error
	Remove(ctx context.Context, orgId, userId string) error
}

type OrganizationMemberRepo struct {
	database.IDatabase
}

func NewOrganizationMemberRepo(db database.IDatabase) IOrganizationMemberRepository {
	return &OrganizationMemberRepo{IDatabase: db}
}

// Add 添加组织成员
func (r *OrganizationMemberRepo) Add(ctx context.Context, m *model.OrganizationMember) error {
	return r.Database().WithContext(ctx).Create(m).Error
}

// Get 获取成员资格，不存在返回 nil
func (r *OrganizationMemberRepo) Get(ctx context.Context, orgId, userId string) (*model.OrganizationMember, error) {
	var m model.OrganizationMember
	err := r.Database().WithContext(ctx).
		Where("org_id = ? AND user_id = ?", orgId, userId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListByOrg 列出组织全部成员
func (r *OrganizationMemberRepo) ListByOrg(ctx context.Context, orgId string) ([]*model.OrganizationMember, error) {
	var members []*model.OrganizationMember
	err := r.Database().WithContext(ctx).
		Where("org_id = ?", orgId).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

// UpdateRole 更新成员角色
func (r *OrganizationMemberRepo) UpdateRole(ctx context.Context, orgId, userId string, role model.OrganizationRole) error {
	return r.Database().WithContext(ctx).Model(&model.OrganizationMember{}).
		Where("org_id = ? AND user_id = ?", orgId, userId).
		Update("role", role).Error
}

// Remove 移除组织成员
func (r *OrganizationMemberRepo) Remove(ctx context.Context, orgId, userId string) error {
	return r.Database().WithContext(ctx).
		Where("org_id = ? AND user_id = ?", orgId, userId).
		Delete(&model.OrganizationMember{}).Error
}
