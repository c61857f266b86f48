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

package repo

import (
	"context"

	"github.com/go-funnel/funnel/pkg/database"
	"gorm.io/gorm"
)

// Repositories 统一管理所有 repository
type Repositories struct {
	db database.IDatabase

	User     IUserRepository
	Org      IOrganizationRepository
	Member   IOrganizationMemberRepository
	Contact  IContactRepository
	Deal     IDealRepository
	Task     ITaskRepository
	Activity IActivityRepository
}

// TxManager 在一个数据库事务中执行多次仓储写入
type TxManager interface {
	InTx(ctx context.Context, fn func(tx *Repositories) error) error
}

// NewRepositories 初始化所有 repository
func NewRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		db:       db,
		User:     NewUserRepo(db),
		Org:      NewOrganizationRepo(db),
		Member:   NewOrganizationMemberRepo(db),
		Contact:  NewContactRepo(db),
		Deal:     NewDealRepo(db),
		Task:     NewTaskRepo(db),
		Activity: NewActivityRepo(db),
	}
}

// InTx 在事务中执行 fn，fn 内通过事务版 Repositories 访问数据，
// 任一步失败整体回滚，保证逻辑操作不会部分落库
func (r *Repositories) InTx(ctx context.Context, fn func(tx *Repositories) error) error {
	if r.db == nil {
		// 内存仓储没有底层连接，退化为顺序执行
		return fn(r)
	}
	return r.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(database.NewGormDB(tx)))
	})
}

func count(tx *gorm.DB) (int64, error) {
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
