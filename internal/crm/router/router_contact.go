package router

import (
	"github.com/go-funnel/funnel/internal/crm/model"
	httpx "github.com/go-funnel/funnel/pkg/http"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) contactRouter(org fiber.Router) {
	contacts := org.Group("/contacts")
	{
		// 创建联系人
		contacts.Post("/", rt.createContact)

		// 联系人列表
		contacts.Get("/", rt.listContacts)

		// 联系人详情
		contacts.Get("/:contactId", rt.getContact)

		// 更新联系人
		contacts.Put("/:contactId", rt.updateContact)

		// 删除联系人
		contacts.Delete("/:contactId", rt.deleteContact)
	}
}

// createContact 创建联系人
func (rt *Router) createContact(c *fiber.Ctx) error {
	var req model.CreateContactReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	contact, err := rt.Services.Contact.Create(c.UserContext(), actor(c), &req)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c.Status(fiber.StatusCreated), contact)
}

// listContacts 联系人列表
func (rt *Router) listContacts(c *fiber.Ctx) error {
	q := &model.ContactQueryReq{
		Search:  c.Query("search"),
		OwnerId: c.Query("ownerId"),
	}
	q.Page = c.QueryInt("page")
	q.PageSize = c.QueryInt("pageSize")

	resp, err := rt.Services.Contact.List(c.UserContext(), actor(c), q)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, resp)
}

// getContact 联系人详情
func (rt *Router) getContact(c *fiber.Ctx) error {
	contact, err := rt.Services.Contact.Get(c.UserContext(), actor(c), c.Params("contactId"))
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, contact)
}

// updateContact 更新联系人
func (rt *Router) updateContact(c *fiber.Ctx) error {
	var req model.UpdateContactReq
	if err := rt.parseBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	contact, err := rt.Services.Contact.Update(c.UserContext(), actor(c), c.Params("contactId"), &req)
	if err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepJSON(c, contact)
}

// deleteContact 删除联系人
func (rt *Router) deleteContact(c *fiber.Ctx) error {
	if err := rt.Services.Contact.Delete(c.UserContext(), actor(c), c.Params("contactId")); err != nil {
		return rt.fail(c, err)
	}
	return httpx.WithRepNotDetail(c)
}
