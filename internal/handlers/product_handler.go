package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes registers the product routes. Writes go through authn and the member role check.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authn fiber.Handler) {
	member := middleware.RequireRoles(models.RoleUser, models.RoleAdmin)
	r := router.Group("/products")
	r.Post("/", authn, member, h.CreateProduct)
	r.Get("/", h.GetAllProducts)
	r.Get("/url_slug/:term", h.GetProductsByStore)
	r.Get("/by-id/:id", h.GetProductByID)
	r.Get("/by-term/:term", h.SearchProducts)
	r.Patch("/:id/url_slug/:term", authn, member, h.UpdateProduct)
	r.Delete("/:id/url_slug/:term", authn, member, h.DeleteProduct)
}

// CreateProduct handles the creation of a new product.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.productService.Create(c.UserContext(), req, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetAllProducts returns a page of active products.
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	page, err := h.productService.FindAll(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *ProductHandler) GetProductsByStore(c *fiber.Ctx) error {
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	page, err := h.productService.FindAllByStoreSlug(c.UserContext(), p, c.Params("term"))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GetProductByID handles retrieving a single product by its ID.
func (h *ProductHandler) GetProductByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Product")
	if err != nil {
		return err
	}
	product, err := h.productService.FindOne(c.UserContext(), id, nil)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	products, err := h.productService.FindByTerm(c.UserContext(), c.Params("term"))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// UpdateProduct handles updating an existing product of the caller's store.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Product")
	if err != nil {
		return err
	}
	var req models.UpdateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.productService.Update(c.UserContext(), c.Params("term"), id, req, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// DeleteProduct handles soft-deleting a product of the caller's store.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Product")
	if err != nil {
		return err
	}
	msg, err := h.productService.Remove(c.UserContext(), c.Params("term"), id, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return message(c, msg)
}
