package router

import (
	"github.com/go-funnel/funnel/internal/crm/model"
	httpx "github.com/go-funnel/funnel/pkg/http"
	"github.com/go-funnel/funnel/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) memberRouter(org fiber.Router) {
	members := org.Group("/members")
	{
		// 成员列表
		members.Get("/", rt.listMembers)

		// 按邮箱添加成员
		members.Post("/", rt.addMember)

		// 修改成员角色
		members.Put("/:userId/role", rt.updateMemberRole)

		// 移除成员
		members.Delete("/:userId", rt.removeMember)
	}
}

// listMyOrganizations 当前用户所属的组织
func (rt *Router) listMyOrganizations(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return httpx.WithRepErrMsg(c.Status(fiber.StatusUnauthorized), httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}
	orgs, err := rt.Services.Org.ListUserOrganizations(c.UserContext(), claims.UserId)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, orgs)
}

// getOrganization 组织详情
func (rt *Router) getOrganization(c *fiber.Ctx) error {
	m := actor(c)
	org, err := rt.Services.Org.GetOrganization(c.UserContext(), m.OrgId, m.UserId)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, org)
}

// listMembers 成员列表
func (rt *Router) listMembers(c *fiber.Ctx) error {
	members, err := rt.Services.Org.ListMembers(c.UserContext(), actor(c).OrgId)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, members)
}

// addMember 添加成员
func (rt *Router) addMember(c *fiber.Ctx) error {
	var req model.AddMemberReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	resp, err := rt.Services.Org.AddMember(c.UserContext(), actor(c), &req)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c.Status(fiber.StatusCreated), resp)
}

// updateMemberRole 修改成员角色
func (rt *Router) updateMemberRole(c *fiber.Ctx) error {
	var req model.UpdateMemberRoleReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	resp, err := rt.Services.Org.UpdateMemberRole(c.UserContext(), actor(c), c.Params("userId"), req.Role)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, resp)
}

// removeMember 移除成员
func (rt *Router) removeMember(c *fiber.Ctx) error {
	if err := rt.Services.Org.RemoveMember(c.UserContext(), actor(c), c.Params("userId")); err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepNotDetail(c)
}
