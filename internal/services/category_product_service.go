package services

import (
	"context"
	"errors"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// CategoryProductService manages which products are listed under which categories.
// Writes are gated on store ownership and both sides must belong to that store.
type CategoryProductService struct {
	links      repositories.CategoryProductRepository
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	stores     StoreResolver
	log        *zap.Logger
}

func NewCategoryProductService(
	links repositories.CategoryProductRepository,
	categories repositories.CategoryRepository,
	products repositories.ProductRepository,
	stores StoreResolver,
	log *zap.Logger,
) *CategoryProductService {
	return &CategoryProductService{
		links:      links,
		categories: categories,
		products:   products,
		stores:     stores,
		log:        log,
	}
}

func (s *CategoryProductService) category(ctx context.Context, id uint, storeID *uint) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id, storeID)
	if err != nil {
		return nil, lookupFailure(ctx, s.log, "get category", err, "Category with id %d not found", id)
	}
	return c, nil
}

func (s *CategoryProductService) product(ctx context.Context, id uint, storeID *uint) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id, storeID)
	if err != nil {
		return nil, lookupFailure(ctx, s.log, "get product", err, "Product with id %d not found", id)
	}
	return p, nil
}

// Link puts a product of the store under one of its categories.
func (s *CategoryProductService) Link(ctx context.Context, slug string, owner *models.User, req models.LinkCategoryProductRequest) (*models.CategoryProduct, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	store, err := s.stores.ResolveBySlugAndOwner(ctx, slug, owner)
	if err != nil {
		return nil, err
	}
	if _, err := s.category(ctx, req.CategoryID, &store.ID); err != nil {
		return nil, err
	}
	if _, err := s.product(ctx, req.ProductID, &store.ID); err != nil {
		return nil, err
	}

	link := &models.CategoryProduct{CategoryID: req.CategoryID, ProductID: req.ProductID}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, writeFailure(ctx, s.log, "link product", err,
			"Product %d is already in category %d", req.ProductID, req.CategoryID)
	}
	return link, nil
}

// Relink moves a product from its current category to a new one of the same store.
func (s *CategoryProductService) Relink(ctx context.Context, slug string, owner *models.User, productID uint, req models.RelinkCategoryProductRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if req.CurrentCategory == req.NewCategory {
		return apperror.BadRequest("The new category must be different from the current one")
	}
	store, err := s.stores.ResolveBySlugAndOwner(ctx, slug, owner)
	if err != nil {
		return err
	}
	for _, id := range []uint{req.CurrentCategory, req.NewCategory} {
		if _, err := s.category(ctx, id, &store.ID); err != nil {
			return err
		}
	}
	if _, err := s.product(ctx, productID, &store.ID); err != nil {
		return err
	}

	err = s.links.Relink(ctx, productID, req.CurrentCategory, req.NewCategory)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperror.NotFound("Product %d is not in category %d", productID, req.CurrentCategory)
	default:
		return writeFailure(ctx, s.log, "relink product", err,
			"Product %d is already in category %d", productID, req.NewCategory)
	}
}

// Unlink removes a product from a category of the store.
func (s *CategoryProductService) Unlink(ctx context.Context, slug string, owner *models.User, req models.LinkCategoryProductRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	store, err := s.stores.ResolveBySlugAndOwner(ctx, slug, owner)
	if err != nil {
		return err
	}
	if _, err := s.category(ctx, req.CategoryID, &store.ID); err != nil {
		return err
	}
	if err := s.links.Delete(ctx, req.CategoryID, req.ProductID); err != nil {
		return lookupFailure(ctx, s.log, "unlink product", err,
			"Product %d is not in category %d", req.ProductID, req.CategoryID)
	}
	return nil
}

// ListByCategoryID returns the distinct active products of an active category.
func (s *CategoryProductService) ListByCategoryID(ctx context.Context, id uint) ([]models.Product, error) {
	if _, err := s.category(ctx, id, nil); err != nil {
		return nil, err
	}
	return s.productsIn(ctx, []uint{id})
}

// ListByCategoryName returns the distinct active products of every active category matching term.
func (s *CategoryProductService) ListByCategoryName(ctx context.Context, term string) ([]models.Product, error) {
	categories, err := s.categories.SearchByName(ctx, term)
	if err != nil {
		return nil, storageFailure(ctx, s.log, "search categories", err)
	}
	if len(categories) == 0 {
		return nil, apperror.NotFound("No categories match %s", term)
	}
	ids := make([]uint, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return s.productsIn(ctx, ids)
}

func (s *CategoryProductService) productsIn(ctx context.Context, categoryIDs []uint) ([]models.Product, error) {
	products, err := s.links.ProductsInCategories(ctx, categoryIDs)
	if err != nil {
		return nil, storageFailure(ctx, s.log, "list linked products", err)
	}
	return uniqueBy(products, productID), nil
}

func productID(p models.Product) uint { return p.ID }

// ListGroupedByCategory pages through a store's categories, each with its active products.
func (s *CategoryProductService) ListGroupedByCategory(ctx context.Context, slug string, p models.Pagination) (models.Page[models.CategoryWithProducts], error) {
	p, err := validatePagination(p)
	if err != nil {
		return models.Page[models.CategoryWithProducts]{}, err
	}
	store, err := s.stores.FindBySlug(ctx, slug)
	if err != nil {
		return models.Page[models.CategoryWithProducts]{}, err
	}

	groups, total, err := s.links.GroupedByStore(ctx, store.ID, repositories.ListFilter{Limit: p.Limit, Offset: p.Offset})
	if err != nil {
		return models.Page[models.CategoryWithProducts]{}, storageFailure(ctx, s.log, "group categories", err)
	}
	for i := range groups {
		groups[i].Products = uniqueBy(groups[i].Products, productID)
	}
	return models.NewPage(groups, total, p), nil
}
