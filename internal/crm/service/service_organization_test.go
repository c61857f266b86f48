package service

import (
	"context"
	"testing"

	"github.com/go-funnel/funnel/internal/crm/core"
	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrgService(env *testEnv) *OrganizationService {
	return NewOrganizationService(env.orgs, env.members, env.users)
}

func seedUser(env *testEnv, userId, email string) {
	env.users.users = append(env.users.users, &model.User{UserId: userId, Email: email, Name: userId})
}

func TestRequireMembership(t *testing.T) {
	env := newTestEnv()
	svc := newOrgService(env)
	env.addMember("org-1", "user-1", model.RoleMember)

	m, err := svc.RequireMembership(context.Background(), "org-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, m.Role)

	// 非成员和组织不存在不可区分，统一 NotFound
	_, err = svc.RequireMembership(context.Background(), "org-1", "stranger")
	assert.ErrorIs(t, err, core.ErrOrganizationNotFound)

	_, err = svc.RequireMembership(context.Background(), "no-such-org", "user-1")
	assert.ErrorIs(t, err, core.ErrOrganizationNotFound)
}

func TestAddMember(t *testing.T) {
	env := newTestEnv()
	svc := newOrgService(env)
	admin := env.addMember("org-1", "user-a", model.RoleAdmin)
	member := env.addMember("org-1", "user-m", model.RoleMember)
	seedUser(env, "user-new", "new@example.com")

	// member 无权添加
	_, err := svc.AddMember(context.Background(), member, &model.AddMemberReq{Email: "new@example.com"})
	assert.ErrorIs(t, err, core.ErrForbidden)

	// 未注册用户
	_, err = svc.AddMember(context.Background(), admin, &model.AddMemberReq{Email: "ghost@example.com"})
	assert.ErrorIs(t, err, core.ErrUserNotFound)

	// owner 角色不可授予
	_, err = svc.AddMember(context.Background(), admin, &model.AddMemberReq{Email: "new@example.com", Role: model.RoleOwner})
	assert.ErrorIs(t, err, core.ErrForbidden)

	// 正常添加，默认 member 角色
	resp, err := svc.AddMember(context.Background(), admin, &model.AddMemberReq{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, resp.Role)
	assert.Equal(t, "new@example.com", resp.Email)

	// 重复添加
	_, err = svc.AddMember(context.Background(), admin, &model.AddMemberReq{Email: "new@example.com"})
	assert.ErrorIs(t, err, core.ErrMemberAlreadyExists)
}

func TestUpdateMemberRole(t *testing.T) {
	env := newTestEnv()
	svc := newOrgService(env)
	owner := env.addMember("org-1", "user-o", model.RoleOwner)
	admin := env.addMember("org-1", "user-a", model.RoleAdmin)
	admin2 := env.addMember("org-1", "user-a2", model.RoleAdmin)
	env.addMember("org-1", "user-m", model.RoleMember)

	// 不能改自己的角色
	_, err := svc.UpdateMemberRole(context.Background(), admin, "user-a", model.RoleMember)
	assert.ErrorIs(t, err, core.ErrForbidden)

	// owner 的角色不可变更
	_, err = svc.UpdateMemberRole(context.Background(), admin, "user-o", model.RoleMember)
	assert.ErrorIs(t, err, core.ErrForbidden)

	// admin 不能动另一个 admin
	_, err = svc.UpdateMemberRole(context.Background(), admin, "user-a2", model.RoleMember)
	assert.ErrorIs(t, err, core.ErrForbidden)

	// owner 可以降级 admin
	resp, err := svc.UpdateMemberRole(context.Background(), owner, "user-a2", model.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, resp.Role)
	m, _ := env.members.Get(context.Background(), "org-1", "user-a2")
	assert.Equal(t, model.RoleManager, m.Role)

	// 不存在的成员
	_, err = svc.UpdateMemberRole(context.Background(), owner, "ghost", model.RoleManager)
	assert.ErrorIs(t, err, core.ErrUserNotFound)
	_ = admin2
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv()
	svc := newOrgService(env)
	owner := env.addMember("org-1", "user-o", model.RoleOwner)
	admin := env.addMember("org-1", "user-a", model.RoleAdmin)
	env.addMember("org-1", "user-a2", model.RoleAdmin)
	env.addMember("org-1", "user-m", model.RoleMember)

	// 不能移除自己
	err := svc.RemoveMember(context.Background(), admin, "user-a")
	assert.ErrorIs(t, err, core.ErrForbidden)

	// owner 永远不可移除
	err = svc.RemoveMember(context.Background(), admin, "user-o")
	assert.ErrorIs(t, err, core.ErrForbidden)

	// admin 可以移除另一个 admin，同级限制只作用于改角色
	require.NoError(t, svc.RemoveMember(context.Background(), admin, "user-a2"))
	m, _ := env.members.Get(context.Background(), "org-1", "user-a2")
	assert.Nil(t, m)

	// admin 可以移除普通成员
	require.NoError(t, svc.RemoveMember(context.Background(), admin, "user-m"))
	m, _ = env.members.Get(context.Background(), "org-1", "user-m")
	assert.Nil(t, m)

	// 不存在的成员
	err = svc.RemoveMember(context.Background(), owner, "ghost")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestListMembers(t *testing.T) {
	env := newTestEnv()
	svc := newOrgService(env)
	env.addMember("org-1", "user-1", model.RoleOwner)
	env.addMember("org-1", "user-2", model.RoleMember)
	env.addMember("org-2", "user-3", model.RoleOwner)
	seedUser(env, "user-1", "u1@example.com")
	seedUser(env, "user-2", "u2@example.com")

	members, err := svc.ListMembers(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "u1@example.com", members[0].Email)
}

func TestGetOrganization(t *testing.T) {
	env := newTestEnv()
	svc := newOrgService(env)
	env.orgs.orgs = append(env.orgs.orgs, &model.Organization{OrgId: "org-1", Name: "acme"})
	env.addMember("org-1", "user-1", model.RoleMember)

	org, err := svc.GetOrganization(context.Background(), "org-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "acme", org.Name)

	// 非成员拿不到组织信息，表现和组织不存在一致
	_, err = svc.GetOrganization(context.Background(), "org-1", "stranger")
	assert.ErrorIs(t, err, core.ErrOrganizationNotFound)
}
