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

package router

import (
	"errors"

	"github.com/go-funnel/funnel/internal/crm/consts"
	"github.com/go-funnel/funnel/internal/crm/core"
	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/internal/crm/service"
	"github.com/go-funnel/funnel/pkg/ctx"
	httpx "github.com/go-funnel/funnel/pkg/http"
	"github.com/go-funnel/funnel/pkg/http/middleware"
	"github.com/go-funnel/funnel/pkg/log"
	"github.com/go-funnel/funnel/pkg/version"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Http     *httpx.Http
	Ctx      *ctx.Context
	Services *service.Services

	validate *validator.Validate
}

func NewRouter(httpConf *httpx.Http, appCtx *ctx.Context, services *service.Services) *Router {
	return &Router{
		Http:     httpConf,
		Ctx:      appCtx,
		Services: services,
		validate: validator.New(),
	}
}

// Register 挂载全部中间件和路由
func (rt *Router) Register(app *fiber.App) {
	app.Use(middleware.ExceptionMiddleware)
	app.Use(middleware.CorsMiddleware())
	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware(rt.Http))
	}
	if rt.Http.PProf {
		app.Use(pprof.New(pprof.Config{Prefix: "/debug"}))
	}
	if rt.Http.ExposeMetrics {
		app.Use(middleware.MetricsMiddleware())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey, rt.tokenPrefix(), rt.Ctx.GetRedis())

	rt.authRouter(api, auth)
	rt.organizationRouter(api, auth)
}

func (rt *Router) tokenPrefix() string {
	if rt.Http.Auth.RedisKeyPrefix != "" {
		return rt.Http.Auth.RedisKeyPrefix
	}
	return consts.TokenKeyPrefix
}

// organizationRouter 组织域路由，/orgs/:orgId 之下的全部接口先过成员资格校验
func (rt *Router) organizationRouter(r fiber.Router, auth fiber.Handler) {
	r.Get("/orgs", auth, rt.listMyOrganizations)

	org := r.Group("/orgs/:orgId", auth, rt.withMembership)
	{
		org.Get("/", rt.getOrganization)

		rt.memberRouter(org)
		rt.contactRouter(org)
		rt.dealRouter(org)
		rt.taskRouter(org)
		rt.analyticsRouter(org)
	}
}

// withMembership 解析当前用户在 :orgId 下的成员资格并挂到请求上下文
func (rt *Router) withMembership(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return httpx.WithRepErrMsg(c.Status(fiber.StatusUnauthorized), httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}
	orgId := c.Params("orgId")
	if orgId == "" {
		return httpx.WithRepErrMsg(c.Status(fiber.StatusBadRequest), httpx.OrgIdIsEmpty.Code, httpx.OrgIdIsEmpty.Msg, c.Path())
	}

	m, err := rt.Services.Org.RequireMembership(c.UserContext(), orgId, claims.UserId)
	if err != nil {
		return rt.fail(c, err)
	}
	c.Locals(consts.MembershipKey, m)
	return c.Next()
}

// actor 取出 withMembership 写入的成员资格
func actor(c *fiber.Ctx) *model.OrganizationMember {
	return c.Locals(consts.MembershipKey).(*model.OrganizationMember)
}

// parseBody 解析请求体并做结构体校验
func (rt *Router) parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return err
	}
	return rt.validate.Struct(out)
}

// fail 把业务错误映射为 http 状态码和稳定的错误码
func (rt *Router) fail(c *fiber.Ctx, err error) error {
	var be *core.Error
	if !errors.As(err, &be) {
		log.Errorw("request failed", "path", c.Path(), "err", err)
		return httpx.WithRepErrMsg(c.Status(fiber.StatusInternalServerError), httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}

	var status int
	var rep *httpx.Response
	switch be.Kind {
	case core.KindUnauthorized:
		status, rep = fiber.StatusUnauthorized, httpx.Unauthorized
	case core.KindForbidden:
		status, rep = fiber.StatusForbidden, httpx.PermissionDenied
	case core.KindNotFound:
		status, rep = fiber.StatusNotFound, httpx.NotFound
	case core.KindValidation:
		status, rep = fiber.StatusBadRequest, httpx.BadRequest
	case core.KindConflict:
		status, rep = fiber.StatusConflict, httpx.Conflict
	default:
		status, rep = fiber.StatusInternalServerError, httpx.InternalError
	}
	return httpx.WithRepBizErr(c, status, rep.Code, be.Code, be.Msg, c.Path())
}

// badRequest 请求参数解析或校验失败
func badRequest(c *fiber.Ctx, err error) error {
	log.Warnf("bad request on %s: %v", c.Path(), err)
	return httpx.WithRepErrMsg(c.Status(fiber.StatusBadRequest),
		httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
}
