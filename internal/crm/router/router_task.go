package router

import (
	"time"

	"github.com/go-funnel/funnel/internal/crm/model"
	httpx "github.com/go-funnel/funnel/pkg/http"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) taskRouter(org fiber.Router) {
	tasks := org.Group("/tasks")
	{
		// 创建任务
		tasks.Post("/", rt.createTask)

		// 任务列表
		tasks.Get("/", rt.listTasks)

		// 任务详情
		tasks.Get("/:taskId", rt.getTask)

		// 更新任务
		tasks.Put("/:taskId", rt.updateTask)

		// 删除任务
		tasks.Delete("/:taskId", rt.deleteTask)
	}
}

// parseDate 接受 2006-01-02 或 RFC3339 两种格式
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// createTask 创建任务
func (rt *Router) createTask(c *fiber.Ctx) error {
	var req model.CreateTaskReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	task, err := rt.Services.Task.Create(c.UserContext(), actor(c), &req)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c.Status(fiber.StatusCreated), task)
}

// listTasks 任务列表
func (rt *Router) listTasks(c *fiber.Ctx) error {
	q := &model.TaskQueryReq{
		DealId:   c.Query("dealId"),
		OwnerId:  c.Query("ownerId"),
		OnlyOpen: c.QueryBool("onlyOpen"),
	}
	q.Page = c.QueryInt("page")
	q.PageSize = c.QueryInt("pageSize")

	var err error
	if q.DueBefore, err = parseDate(c.Query("dueBefore")); err != nil {
		return badRequest(c, err)
	}
	if q.DueAfter, err = parseDate(c.Query("dueAfter")); err != nil {
		return badRequest(c, err)
	}

	resp, err := rt.Services.Task.List(c.UserContext(), actor(c), q)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, resp)
}

// getTask 任务详情
func (rt *Router) getTask(c *fiber.Ctx) error {
	task, err := rt.Services.Task.Get(c.UserContext(), actor(c), c.Params("taskId"))
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, task)
}

// updateTask 更新任务
func (rt *Router) updateTask(c *fiber.Ctx) error {
	var req model.UpdateTaskReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	task, err := rt.Services.Task.Update(c.UserContext(), actor(c), c.Params("taskId"), &req)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, task)
}

// deleteTask 删除任务
func (rt *Router) deleteTask(c *fiber.Ctx) error {
	if err := rt.Services.Task.Delete(c.UserContext(), actor(c), c.Params("taskId")); err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepNotDetail(c)
}
