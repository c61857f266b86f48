package router

import (
	httpx "github.com/go-funnel/funnel/pkg/http"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) analyticsRouter(org fiber.Router) {
	analytics := org.Group("/analytics")
	{
		// 商机汇总，days 为统计窗口天数
		analytics.Get("/deals/summary", rt.dealsSummary)

		// 阶段漏斗
		analytics.Get("/deals/funnel", rt.dealsFunnel)
	}
}

// dealsSummary 商机汇总
func (rt *Router) dealsSummary(c *fiber.Ctx) error {
	summary, err := rt.Services.Analytics.GetDealsSummary(c.UserContext(), actor(c).OrgId, c.QueryInt("days"))
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, summary)
}

// dealsFunnel 阶段漏斗
func (rt *Router) dealsFunnel(c *fiber.Ctx) error {
	funnel, err := rt.Services.Analytics.GetDealsFunnel(c.UserContext(), actor(c).OrgId)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, funnel)
}
