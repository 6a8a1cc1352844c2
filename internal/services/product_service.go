package services

import (
	"context"
	"fmt"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/cache"

	"go.uber.org/zap"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	stores StoreResolver
	cache  cache.Cache
	log    *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, stores StoreResolver, c cache.Cache, log *zap.Logger) *ProductService {
	return &ProductService{repo: repo, stores: stores, cache: c, log: log}
}

// Create adds a product to the owner's store. The sku must be unused within that store.
func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest, owner *models.User) (*models.Product, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	store, err := s.stores.ResolveBySlugAndOwner(ctx, req.StoreSlug, owner)
	if err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:        req.Name,
		Sku:         req.Sku,
		Description: req.Description,
		Price:       req.Price,
		Status:      req.Status,
		Stock:       req.Stock,
		IsActive:    true,
		ImagesURLs:  models.StringArray(req.ImagesURLs),
		StoreID:     store.ID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, writeFailure(ctx, s.log, "create product", err, "Duplicate sku %s for this store", req.Sku)
	}
	return product, nil
}

// FindOne returns an active product, restricted to storeID when given.
func (s *ProductService) FindOne(ctx context.Context, id uint, storeID *uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id, storeID)
	if err != nil {
		return nil, lookupFailure(ctx, s.log, "get product", err, "Product with id %d not found", id)
	}
	return product, nil
}

func (s *ProductService) FindByTerm(ctx context.Context, term string) ([]models.Product, error) {
	products, err := s.repo.SearchByName(ctx, term)
	if err != nil {
		return nil, storageFailure(ctx, s.log, "search products", err)
	}
	if len(products) == 0 {
		return nil, apperror.NotFound("No products match %s", term)
	}
	return products, nil
}

func (s *ProductService) source() listSource[models.Product] {
	return listSource[models.Product]{
		entity: "products",
		ttl:    defaultListTTL,
		stamp:  s.repo.Stamp,
		load:   s.repo.List,
	}
}

func (s *ProductService) FindAll(ctx context.Context, p models.Pagination) (models.Page[models.Product], error) {
	return findAllPaginated(ctx, s.cache, s.log, s.source(), nil, p)
}

func (s *ProductService) FindAllByStoreSlug(ctx context.Context, p models.Pagination, slug string) (models.Page[models.Product], error) {
	store, err := s.stores.FindBySlug(ctx, slug)
	if err != nil {
		return models.Page[models.Product]{}, err
	}
	return findAllPaginated(ctx, s.cache, s.log, s.source(), &store.ID, p)
}

// Update merges the non-nil fields of req into a product of the owner's store.
func (s *ProductService) Update(ctx context.Context, slug string, id uint, req models.UpdateProductRequest, owner *models.User) (*models.Product, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	store, err := s.stores.ResolveBySlugAndOwner(ctx, slug, owner)
	if err != nil {
		return nil, err
	}
	product, err := s.FindOne(ctx, id, &store.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Sku != nil {
		product.Sku = *req.Sku
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Status != nil {
		product.Status = *req.Status
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImagesURLs != nil {
		product.ImagesURLs = models.StringArray(req.ImagesURLs)
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, writeFailure(ctx, s.log, "update product", err, "Duplicate sku %s for this store", product.Sku)
	}
	return product, nil
}

// Remove soft-deletes a product of the owner's store.
func (s *ProductService) Remove(ctx context.Context, slug string, id uint, owner *models.User) (string, error) {
	store, err := s.stores.ResolveBySlugAndOwner(ctx, slug, owner)
	if err != nil {
		return "", err
	}
	product, err := s.FindOne(ctx, id, &store.ID)
	if err != nil {
		return "", err
	}
	product.IsActive = false
	if err := s.repo.Save(ctx, product); err != nil {
		return "", storageFailure(ctx, s.log, "remove product", err)
	}
	return fmt.Sprintf("%s deleted successfully", product.Name), nil
}
