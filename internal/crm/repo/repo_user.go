package repo

import (
	"context"
	"errors"

	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/pkg/database"
	"gorm.io/gorm"
)

type IUserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByUserId(ctx context.Context, userId string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type UserRepo struct {
	database.IDatabase
}

func NewUserRepo(db database.IDatabase) IUserRepository {
	return &UserRepo{IDatabase: db}
}

// Create 创建用户
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	return r.Database().WithContext(ctx).Create(u).Error
}

// GetByUserId 根据用户ID获取用户，不存在返回 nil
func (r *UserRepo) GetByUserId(ctx context.Context, userId string) (*model.User, error) {
	var u model.User
	err := r.Database().WithContext(ctx).Where("user_id = ?", userId).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail 根据邮箱获取用户，不存在返回 nil
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.Database().WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// EmailExists 检查邮箱是否已注册
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var total int64
	err := r.Database().WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}
