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

	"github.com/go-funnel/funnel/internal/crm/core"
	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/internal/crm/repo"
	"github.com/go-funnel/funnel/pkg/id"
	"github.com/go-funnel/funnel/pkg/log"
)

// ensureEntityAccess 实体级写权限：owner/admin/manager 可修改组织内全部实体，
// member 只能修改自己名下的实体。读取只做组织隔离，不走这里
func ensureEntityAccess(actor *model.OrganizationMember, ownerId string) error {
	if actor.Role.CanManageAllEntities() {
		return nil
	}
	if ownerId != actor.UserId {
		return core.ErrForbidden
	}
	return nil
}

// ContactService 联系人管理
type ContactService struct {
	contactRepo repo.IContactRepository
	memberRepo  repo.IOrganizationMemberRepository
}

func NewContactService(contactRepo repo.IContactRepository, memberRepo repo.IOrganizationMemberRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo, memberRepo: memberRepo}
}

// Create 创建联系人，负责人默认为创建者
func (s *ContactService) Create(ctx context.Context, actor *model.OrganizationMember, req *model.CreateContactReq) (*model.Contact, error) {
	c := &model.Contact{
		ContactId: id.GetUUID(),
		OrgId:     actor.OrgId,
		OwnerId:   actor.UserId,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := s.contactRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get 获取联系人，组织隔离，不做负责人限制
func (s *ContactService) Get(ctx context.Context, actor *model.OrganizationMember, contactId string) (*model.Contact, error) {
	c, err := s.contactRepo.GetByContactId(ctx, actor.OrgId, contactId)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, core.ErrContactNotFound
	}
	return c, nil
}

// List 分页查询联系人。member 角色显式传的 ownerId 过滤会被
// 静默收窄为自己，不传则看到组织内全部
func (s *ContactService) List(ctx context.Context, actor *model.OrganizationMember, q *model.ContactQueryReq) (*model.PageResp, error) {
	if q.OwnerId != "" && !actor.Role.CanManageAllEntities() {
		q.OwnerId = actor.UserId
	}
	contacts, total, err := s.contactRepo.List(ctx, actor.OrgId, q)
	if err != nil {
		return nil, err
	}
	return model.NewPageResp(contacts, total, q.Page, q.PageSize), nil
}

// Update 更新联系人，member 只能改自己名下的
func (s *ContactService) Update(ctx context.Context, actor *model.OrganizationMember, contactId string, req *model.UpdateContactReq) (*model.Contact, error) {
	c, err := s.Get(ctx, actor, contactId)
	if err != nil {
		return nil, err
	}
	if err = ensureEntityAccess(actor, c.OwnerId); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.OwnerId != nil && *req.OwnerId != c.OwnerId {
		// 新负责人必须是本组织成员
		m, err := s.memberRepo.Get(ctx, actor.OrgId, *req.OwnerId)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, core.ErrUserNotFound.WithMsg("new owner is not a member of this organization")
		}
		updates["owner_id"] = *req.OwnerId
	}
	if len(updates) == 0 {
		return c, nil
	}

	if err = s.contactRepo.Update(ctx, contactId, updates); err != nil {
		return nil, err
	}
	return s.contactRepo.GetByContactId(ctx, actor.OrgId, contactId)
}

// Delete 删除联系人，名下仍有商机时拒绝。
// 检查和删除之间存在并发窗口，接受这种竞争
func (s *ContactService) Delete(ctx context.Context, actor *model.OrganizationMember, contactId string) error {
	c, err := s.Get(ctx, actor, contactId)
	if err != nil {
		return err
	}
	if err = ensureEntityAccess(actor, c.OwnerId); err != nil {
		return err
	}

	hasDeals, err := s.contactRepo.HasDeals(ctx, c.ContactId)
	if err != nil {
		return err
	}
	if hasDeals {
		return core.ErrContactHasDeals
	}

	if err = s.contactRepo.Delete(ctx, c.ContactId); err != nil {
		return err
	}
	log.Infow("contact deleted", "orgId", actor.OrgId, "contactId", contactId)
	return nil
}
