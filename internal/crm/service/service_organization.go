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
	"github.com/go-funnel/funnel/pkg/log"
)

// OrganizationService 组织与成员管理
type OrganizationService struct {
	orgRepo    repo.IOrganizationRepository
	memberRepo repo.IOrganizationMemberRepository
	userRepo   repo.IUserRepository
}

func NewOrganizationService(orgRepo repo.IOrganizationRepository,
	memberRepo repo.IOrganizationMemberRepository, userRepo repo.IUserRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo, memberRepo: memberRepo, userRepo: userRepo}
}

// ListUserOrganizations 列出用户所属组织
func (s *OrganizationService) ListUserOrganizations(ctx context.Context, userId string) ([]*model.Organization, error) {
	return s.orgRepo.ListByUser(ctx, userId)
}

// RequireMembership 校验用户是组织成员，非成员一律返回 NotFound，
// 和组织不存在不可区分，避免跨租户探测
func (s *OrganizationService) RequireMembership(ctx context.Context, orgId, userId string) (*model.OrganizationMember, error) {
	m, err := s.memberRepo.Get(ctx, orgId, userId)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, core.ErrOrganizationNotFound
	}
	return m, nil
}

// GetOrganization 获取组织详情，要求调用者是其成员
func (s *OrganizationService) GetOrganization(ctx context.Context, orgId, userId string) (*model.Organization, error) {
	if _, err := s.RequireMembership(ctx, orgId, userId); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.GetByOrgId(ctx, orgId)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, core.ErrOrganizationNotFound
	}
	return org, nil
}

// ListMembers 列出组织成员，冗余用户邮箱和名称
func (s *OrganizationService) ListMembers(ctx context.Context, orgId string) ([]*model.MemberResp, error) {
	members, err := s.memberRepo.ListByOrg(ctx, orgId)
	if err != nil {
		return nil, err
	}

	resp := make([]*model.MemberResp, 0, len(members))
	for _, m := range members {
		item := &model.MemberResp{
			OrgId:  m.OrgId,
			UserId: m.UserId,
			Role:   m.Role,
		}
		user, err := s.userRepo.GetByUserId(ctx, m.UserId)
		if err != nil {
			return nil, err
		}
		if user != nil {
			item.Email = user.Email
			item.Name = user.Name
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// AddMember 按邮箱添加成员
// 1. 仅 owner/admin 可以管理成员
// 2. owner 角色不可通过添加授予
// 3. 用户必须已注册且尚未入组
func (s *OrganizationService) AddMember(ctx context.Context, actor *model.OrganizationMember, req *model.AddMemberReq) (*model.MemberResp, error) {
	if !actor.Role.CanManageOrganization() {
		return nil, core.ErrForbidden
	}

	role := req.Role
	if role == "" {
		role = model.RoleMember
	}
	if role == model.RoleOwner {
		return nil, core.ErrForbidden.WithMsg("owner role cannot be granted")
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, core.ErrUserNotFound
	}

	existing, err := s.memberRepo.Get(ctx, actor.OrgId, user.UserId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, core.ErrMemberAlreadyExists
	}

	m := &model.OrganizationMember{
		OrgId:  actor.OrgId,
		UserId: user.UserId,
		Role:   role,
	}
	if err = s.memberRepo.Add(ctx, m); err != nil {
		return nil, err
	}
	log.Infow("member added", "orgId", m.OrgId, "userId", m.UserId, "role", m.Role)

	return &model.MemberResp{
		OrgId:  m.OrgId,
		UserId: m.UserId,
		Role:   m.Role,
		Email:  user.Email,
		Name:   user.Name,
	}, nil
}

// UpdateMemberRole 修改成员角色
// 1. 仅 owner/admin 可以管理成员
// 2. 不能修改自己的角色
// 3. owner 的角色不可变更，owner 角色也不可授予他人
// 4. admin 不能变更其他 admin
func (s *OrganizationService) UpdateMemberRole(ctx context.Context, actor *model.OrganizationMember, targetUserId string, role model.OrganizationRole) (*model.MemberResp, error) {
	if !actor.Role.CanManageOrganization() {
		return nil, core.ErrForbidden
	}
	if targetUserId == actor.UserId {
		return nil, core.ErrForbidden.WithMsg("cannot change own role")
	}
	if role == model.RoleOwner {
		return nil, core.ErrForbidden.WithMsg("owner role cannot be granted")
	}

	target, err := s.memberRepo.Get(ctx, actor.OrgId, targetUserId)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, core.ErrUserNotFound.WithMsg("member not found")
	}
	if target.Role == model.RoleOwner {
		return nil, core.ErrForbidden.WithMsg("owner role cannot be changed")
	}
	if actor.Role == model.RoleAdmin && target.Role == model.RoleAdmin {
		return nil, core.ErrForbidden.WithMsg("admin cannot change another admin")
	}

	if err = s.memberRepo.UpdateRole(ctx, actor.OrgId, targetUserId, role); err != nil {
		return nil, err
	}

	return &model.MemberResp{
		OrgId:  actor.OrgId,
		UserId: targetUserId,
		Role:   role,
	}, nil
}

// RemoveMember 移除成员
// 1. 仅 owner/admin 可以管理成员
// 2. 不能移除自己，owner 永远不可移除
func (s *OrganizationService) RemoveMember(ctx context.Context, actor *model.OrganizationMember, targetUserId string) error {
	if !actor.Role.CanManageOrganization() {
		return core.ErrForbidden
	}
	if targetUserId == actor.UserId {
		return core.ErrForbidden.WithMsg("cannot remove yourself")
	}

	target, err := s.memberRepo.Get(ctx, actor.OrgId, targetUserId)
	if err != nil {
		return err
	}
	if target == nil {
		return core.ErrUserNotFound.WithMsg("member not found")
	}
	if target.Role == model.RoleOwner {
		return core.ErrForbidden.WithMsg("owner cannot be removed")
	}

	if err = s.memberRepo.Remove(ctx, actor.OrgId, targetUserId); err != nil {
		return err
	}
	log.Infow("member removed", "orgId", actor.OrgId, "userId", targetUserId)
	return nil
}
