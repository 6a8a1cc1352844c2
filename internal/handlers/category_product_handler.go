package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CategoryProductHandler exposes the category-product association.
type CategoryProductHandler struct {
	links *services.CategoryProductService
}

func NewCategoryProductHandler(links *services.CategoryProductService) *CategoryProductHandler {
	return &CategoryProductHandler{links: links}
}

func (h *CategoryProductHandler) RegisterRoutes(router fiber.Router, authn fiber.Handler) {
	member := middleware.RequireRoles(models.RoleUser, models.RoleAdmin)
	r := router.Group("/category-product")
	r.Post("/url_slug/:term", authn, member, h.Link)
	r.Get("/url_slug/:term", h.ListGrouped)
	r.Patch("/url_slug/:term/update-product/:productId", authn, member, h.Relink)
	r.Delete("/url_slug/:term", authn, member, h.Unlink)
	r.Get("/category-name/:categoryName", h.ListByCategoryName)
	r.Get("/category-id/:categoryId", h.ListByCategoryID)
}

func (h *CategoryProductHandler) Link(c *fiber.Ctx) error {
	var req models.LinkCategoryProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	link, err := h.links.Link(c.UserContext(), c.Params("term"), middleware.CurrentUser(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

func (h *CategoryProductHandler) ListGrouped(c *fiber.Ctx) error {
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	page, err := h.links.ListGroupedByCategory(c.UserContext(), c.Params("term"), p)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *CategoryProductHandler) Relink(c *fiber.Ctx) error {
	productID, err := paramID(c, "productId", "Product")
	if err != nil {
		return err
	}
	var req models.RelinkCategoryProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.links.Relink(c.UserContext(), c.Params("term"), middleware.CurrentUser(c), productID, req); err != nil {
		return err
	}
	return message(c, "Product category updated")
}

func (h *CategoryProductHandler) Unlink(c *fiber.Ctx) error {
	var req models.LinkCategoryProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.links.Unlink(c.UserContext(), c.Params("term"), middleware.CurrentUser(c), req); err != nil {
		return err
	}
	return message(c, "Product removed from category")
}

func (h *CategoryProductHandler) ListByCategoryName(c *fiber.Ctx) error {
	products, err := h.links.ListByCategoryName(c.UserContext(), c.Params("categoryName"))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *CategoryProductHandler) ListByCategoryID(c *fiber.Ctx) error {
	id, err := paramID(c, "categoryId", "Category")
	if err != nil {
		return err
	}
	products, err := h.links.ListByCategoryID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(products)
}
