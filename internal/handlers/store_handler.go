package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler exposes the store directory.
type StoreHandler struct {
	stores *services.StoreService
}

func NewStoreHandler(stores *services.StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

func (h *StoreHandler) RegisterRoutes(router fiber.Router, authn fiber.Handler) {
	member := middleware.RequireRoles(models.RoleUser, models.RoleAdmin)
	r := router.Group("/store")
	r.Post("/", authn, member, h.Create)
	r.Get("/", h.FindAll)
	r.Get("/by_name/:term", h.FindByName)
	r.Get("/url_slug/:term", h.FindBySlug)
	r.Get("/user_id", authn, member, h.FindByOwner)
	r.Get("/store_id/:id", authn, member, h.FindByIDAndOwner)
	r.Get("/slug/:term", authn, member, h.FindBySlugAndOwner)
	r.Get("/:id", h.FindByID)
	r.Patch("/:term", authn, member, h.Update)
	r.Delete("/:id", authn, member, h.Remove)
}

func (h *StoreHandler) Create(c *fiber.Ctx) error {
	var req models.CreateStoreRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	store, err := h.stores.Create(c.UserContext(), req, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

func (h *StoreHandler) FindAll(c *fiber.Ctx) error {
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	page, err := h.stores.FindAll(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *StoreHandler) FindByName(c *fiber.Ctx) error {
	stores, err := h.stores.FindByNameFuzzy(c.UserContext(), c.Params("term"))
	if err != nil {
		return err
	}
	return c.JSON(stores)
}

func (h *StoreHandler) FindBySlug(c *fiber.Ctx) error {
	store, err := h.stores.FindBySlug(c.UserContext(), c.Params("term"))
	if err != nil {
		return err
	}
	return c.JSON(store)
}

func (h *StoreHandler) FindByOwner(c *fiber.Ctx) error {
	stores, err := h.stores.FindByOwner(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(stores)
}

func (h *StoreHandler) FindByIDAndOwner(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Store")
	if err != nil {
		return err
	}
	store, err := h.stores.FindByIDAndOwner(c.UserContext(), id, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(store)
}

func (h *StoreHandler) FindBySlugAndOwner(c *fiber.Ctx) error {
	store, err := h.stores.ResolveBySlugAndOwner(c.UserContext(), c.Params("term"), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(store)
}

func (h *StoreHandler) FindByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Store")
	if err != nil {
		return err
	}
	store, err := h.stores.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(store)
}

func (h *StoreHandler) Update(c *fiber.Ctx) error {
	var req models.UpdateStoreRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	store, err := h.stores.Update(c.UserContext(), c.Params("term"), req, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(store)
}

func (h *StoreHandler) Remove(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Store")
	if err != nil {
		return err
	}
	msg, err := h.stores.Remove(c.UserContext(), id, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return message(c, msg)
}
