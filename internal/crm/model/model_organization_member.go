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

package model

// OrganizationRole 组织内角色，封闭的四值集合
type OrganizationRole string

const (
	RoleOwner   OrganizationRole = "owner"   // 所有者(最高权限)
	RoleAdmin   OrganizationRole = "admin"   // 管理员(管理组织、成员)
	RoleManager OrganizationRole = "manager" // 经理(管理所有业务实体)
	RoleMember  OrganizationRole = "member"  // 普通成员(仅自己的实体)
)

// Valid 校验角色取值
func (r OrganizationRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// CanManageOrganization 是否可以管理组织成员（添加/移除/改角色）
func (r OrganizationRole) CanManageOrganization() bool {
	switch r {
	case RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// CanManageAllEntities 是否可以操作他人名下的联系人/商机/任务
func (r OrganizationRole) CanManageAllEntities() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager:
		return true
	}
	return false
}

// CanRollbackStage 是否可以将商机阶段回退
func (r OrganizationRole) CanRollbackStage() bool {
	switch r {
	case RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// OrganizationMember 组织成员表，(org_id, user_id) 唯一
type OrganizationMember struct {
	BaseModel
	OrgId  string           `gorm:"column:org_id;uniqueIndex:uk_org_user" json:"orgId"`   // 组织ID
	UserId string           `gorm:"column:user_id;uniqueIndex:uk_org_user" json:"userId"` // 用户ID
	Role   OrganizationRole `gorm:"column:role" json:"role"`                              // 角色
}

func (OrganizationMember) TableName() string {
	return "t_organization_member"
}

// AddMemberReq 添加成员请求，按邮箱查找用户
type AddMemberReq struct {
	Email string           `json:"email" validate:"required,email"`
	Role  OrganizationRole `json:"role" validate:"omitempty,oneof=owner admin manager member"`
}

// UpdateMemberRoleReq 修改成员角色请求
type UpdateMemberRoleReq struct {
	Role OrganizationRole `json:"role" validate:"required,oneof=owner admin manager member"`
}

// MemberResp 成员响应，冗余用户信息方便列表展示
type MemberResp struct {
	OrgId  string           `json:"orgId"`
	UserId string           `json:"userId"`
	Role   OrganizationRole `json:"role"`
	Email  string           `json:"email,omitempty"`
	Name   string           `json:"name,omitempty"`
}
