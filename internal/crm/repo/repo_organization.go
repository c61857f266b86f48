package repo

import (
	"context"
	"errors"

	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/pkg/database"
	"gorm.io/gorm"
)

type IOrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) error
	GetByOrgId(ctx context.Context, orgId string) (*model.Organization, error)
	ListByUser(ctx context.Context, userId string) ([]*model.Organization, error)
}

type OrganizationRepo struct {
	database.IDatabase
}

func NewOrganizationRepo(db database.IDatabase) IOrganizationRepository {
	return &OrganizationRepo{IDatabase: db}
}

// Create 创建组织
func (r *OrganizationRepo) Create(ctx context.Context, org *model.Organization) error {
	return r.Database().WithContext(ctx).Create(org).Error
}

// GetByOrgId 根据组织ID获取组织，不存在返回 nil
func (r *OrganizationRepo) GetByOrgId(ctx context.Context, orgId string) (*model.Organization, error) {
	var org model.Organization
	err := r.Database().WithContext(ctx).Where("org_id = ?", orgId).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

// ListByUser 列出用户所属的全部组织
func (r *OrganizationRepo) ListByUser(ctx context.Context, userId string) ([]*model.Organization, error) {
	var orgs []*model.Organization
	err := r.Database().WithContext(ctx).Model(&model.Organization{}).
		Joins("JOIN t_organization_member m ON m.org_id = t_organization.org_id").
		Where("m.user_id = ?", userId).
		Order("t_organization.created_at ASC").
		Find(&orgs).Error
	return orgs, err
}
