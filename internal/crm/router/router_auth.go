package router

import (
	"github.com/go-funnel/funnel/internal/crm/model"
	httpx "github.com/go-funnel/funnel/pkg/http"
	"github.com/go-funnel/funnel/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	authGroup := r.Group("/auth")
	{
		// 注册并创建初始组织
		authGroup.Post("/register", rt.register)

		// 登录
		authGroup.Post("/login", rt.login)

		// 刷新令牌
		authGroup.Post("/refresh", rt.refresh)

		// 登出
		authGroup.Post("/logout", auth, rt.logout)
	}
}

// register 注册
func (rt *Router) register(c *fiber.Ctx) error {
	var req model.RegisterReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	resp, err := rt.Services.Auth.Register(c.UserContext(), &req)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c.Status(fiber.StatusCreated), resp)
}

// login 登录
func (rt *Router) login(c *fiber.Ctx) error {
	var req model.LoginReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	resp, err := rt.Services.Auth.Login(c.UserContext(), &req)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, resp)
}

// refresh 刷新令牌
func (rt *Router) refresh(c *fiber.Ctx) error {
	var req model.RefreshReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	resp, err := rt.Services.Auth.Refresh(c.UserContext(), &req)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, resp)
}

// logout 登出，注销令牌登记
func (rt *Router) logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return httpx.WithRepErrMsg(c.Status(fiber.StatusUnauthorized), httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}
	if err := rt.Services.Auth.Logout(c.UserContext(), claims.UserId); err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepNotDetail(c)
}
