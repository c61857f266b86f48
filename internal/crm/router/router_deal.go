package router

import (
	"strings"

	"github.com/go-funnel/funnel/internal/crm/model"
	httpx "github.com/go-funnel/funnel/pkg/http"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func (rt *Router) dealRouter(org fiber.Router) {
	deals := org.Group("/deals")
	{
		// 创建商机
		deals.Post("/", rt.createDeal)

		// 商机列表
		deals.Get("/", rt.listDeals)

		// 商机详情
		deals.Get("/:dealId", rt.getDeal)

		// 更新商机
		deals.Put("/:dealId", rt.updateDeal)

		// 删除商机
		deals.Delete("/:dealId", rt.deleteDeal)

		// 商机时间线
		deals.Get("/:dealId/activities", rt.listDealActivities)

		// 追加评论
		deals.Post("/:dealId/comments", rt.addDealComment)
	}
}

// createDeal 创建商机
func (rt *Router) createDeal(c *fiber.Ctx) error {
	var req model.CreateDealReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	deal, err := rt.Services.Deal.Create(c.UserContext(), actor(c), &req)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c.Status(fiber.StatusCreated), deal)
}

// parseDealQuery 商机列表查询参数，金额手工解析避免精度丢失
func parseDealQuery(c *fiber.Ctx) (*model.DealQueryReq, error) {
	q := &model.DealQueryReq{
		Stage:   model.DealStage(c.Query("stage")),
		OwnerId: c.Query("ownerId"),
		OrderBy: c.Query("orderBy"),
		Order:   c.Query("order"),
	}
	q.Page = c.QueryInt("page")
	q.PageSize = c.QueryInt("pageSize")

	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			q.Status = append(q.Status, model.DealStatus(strings.TrimSpace(part)))
		}
	}
	if raw := c.Query("minAmount"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, err
		}
		q.MinAmount = &d
	}
	if raw := c.Query("maxAmount"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, err
		}
		q.MaxAmount = &d
	}
	return q, nil
}

// listDeals 商机列表
func (rt *Router) listDeals(c *fiber.Ctx) error {
	q, err := parseDealQuery(c)
	if err != nil {
		return badRequest(c, err)
	}

	resp, err := rt.Services.Deal.List(c.UserContext(), actor(c), q)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, resp)
}

// getDeal 商机详情
func (rt *Router) getDeal(c *fiber.Ctx) error {
	deal, err := rt.Services.Deal.Get(c.UserContext(), actor(c), c.Params("dealId"))
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, deal)
}

// updateDeal 更新商机
func (rt *Router) updateDeal(c *fiber.Ctx) error {
	var req model.UpdateDealReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	deal, err := rt.Services.Deal.Update(c.UserContext(), actor(c), c.Params("dealId"), &req)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, deal)
}

// deleteDeal 删除商机
func (rt *Router) deleteDeal(c *fiber.Ctx) error {
	if err := rt.Services.Deal.Delete(c.UserContext(), actor(c), c.Params("dealId")); err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

// listDealActivities 商机时间线，按时间倒序
func (rt *Router) listDealActivities(c *fiber.Ctx) error {
	page := &model.PageReq{Page: c.QueryInt("page"), PageSize: c.QueryInt("pageSize")}
	resp, err := rt.Services.Deal.ListActivities(c.UserContext(), actor(c), c.Params("dealId"), page)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, resp)
}

// addDealComment 追加评论
func (rt *Router) addDealComment(c *fiber.Ctx) error {
	var req model.AddCommentReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	if err := rt.Services.Deal.AddComment(c.UserContext(), actor(c), c.Params("dealId"), &req); err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepNotDetail(c.Status(fiber.StatusCreated))
}
