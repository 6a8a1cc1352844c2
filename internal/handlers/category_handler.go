package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) RegisterRoutes(router fiber.Router, authn fiber.Handler) {
	member := middleware.RequireRoles(models.RoleUser, models.RoleAdmin)
	r := router.Group("/categories")
	r.Post("/", authn, member, h.Create)
	r.Get("/", h.FindAll)
	r.Get("/by-id/:id", h.FindOne)
	r.Get("/by-term/:term", h.FindByTerm)
	r.Get("/url_slug/:term", h.FindAllByStore)
	r.Patch("/url_slug/:term/category_id/:id", authn, member, h.Update)
	r.Delete("/url_slug/:term/category_id/:id", authn, member, h.Remove)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req models.CreateCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Create(c.UserContext(), req, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CategoryHandler) FindAll(c *fiber.Ctx) error {
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	page, err := h.categories.FindAll(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *CategoryHandler) FindOne(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Category")
	if err != nil {
		return err
	}
	category, err := h.categories.FindOne(c.UserContext(), id, nil)
	if err != nil {
		return err
	}
	return c.JSON(category)
}

func (h *CategoryHandler) FindByTerm(c *fiber.Ctx) error {
	categories, err := h.categories.FindByTerm(c.UserContext(), c.Params("term"))
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) FindAllByStore(c *fiber.Ctx) error {
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	page, err := h.categories.FindAllByStoreSlug(c.UserContext(), p, c.Params("term"))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Category")
	if err != nil {
		return err
	}
	var req models.UpdateCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Update(c.UserContext(), c.Params("term"), id, req, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(category)
}

func (h *CategoryHandler) Remove(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Category")
	if err != nil {
		return err
	}
	msg, err := h.categories.Remove(c.UserContext(), c.Params("term"), id, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return message(c, msg)
}
