package services

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/cache"

	"go.uber.org/zap"
)

// CategoryService manages store-scoped categories.
type CategoryService struct {
	categories repositories.CategoryRepository
	stores     StoreResolver
	cache      cache.Cache
	log        *zap.Logger
}

func NewCategoryService(categories repositories.CategoryRepository, stores StoreResolver, c cache.Cache, log *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, stores: stores, cache: c, log: log}
}

func (s *CategoryService) Create(ctx context.Context, req models.CreateCategoryRequest, owner *models.User) (*models.Category, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	store, err := s.stores.ResolveBySlugAndOwner(ctx, req.StoreSlug, owner)
	if err != nil {
		return nil, err
	}
	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    true,
		StoreID:     store.ID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, writeFailure(ctx, s.log, "create category", err, "Duplicate category for this store")
	}
	return category, nil
}

// FindOne returns an active category, restricted to storeID when given.
func (s *CategoryService) FindOne(ctx context.Context, id uint, storeID *uint) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id, storeID)
	if err != nil {
		return nil, lookupFailure(ctx, s.log, "get category", err, "Category with id %d not found", id)
	}
	return category, nil
}

func (s *CategoryService) FindByTerm(ctx context.Context, term string) ([]models.Category, error) {
	categories, err := s.categories.SearchByName(ctx, term)
	if err != nil {
		return nil, storageFailure(ctx, s.log, "search categories", err)
	}
	if len(categories) == 0 {
		return nil, apperror.NotFound("No categories match %s", term)
	}
	return categories, nil
}

func (s *CategoryService) source(ttl time.Duration) listSource[models.Category] {
	return listSource[models.Category]{
		entity: "categories",
		ttl:    ttl,
		stamp:  s.categories.Stamp,
		load:   s.categories.List,
	}
}

func (s *CategoryService) FindAll(ctx context.Context, p models.Pagination) (models.Page[models.Category], error) {
	return findAllPaginated(ctx, s.cache, s.log, s.source(categoryListTTL), nil, p)
}

func (s *CategoryService) FindAllByStoreSlug(ctx context.Context, p models.Pagination, slug string) (models.Page[models.Category], error) {
	store, err := s.stores.FindBySlug(ctx, slug)
	if err != nil {
		return models.Page[models.Category]{}, err
	}
	return findAllPaginated(ctx, s.cache, s.log, s.source(defaultListTTL), &store.ID, p)
}

// Update renames or re-describes a category of the owner's store. The store never changes.
func (s *CategoryService) Update(ctx context.Context, slug string, id uint, req models.UpdateCategoryRequest, owner *models.User) (*models.Category, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	store, err := s.stores.ResolveBySlugAndOwner(ctx, slug, owner)
	if err != nil {
		return nil, err
	}
	category, err := s.FindOne(ctx, id, &store.ID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		category.Name = *req.Name
		category.Slug = ""
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, writeFailure(ctx, s.log, "update category", err, "Duplicate category for this store")
	}
	return category, nil
}

func (s *CategoryService) Remove(ctx context.Context, slug string, id uint, owner *models.User) (string, error) {
	store, err := s.stores.ResolveBySlugAndOwner(ctx, slug, owner)
	if err != nil {
		return "", err
	}
	category, err := s.FindOne(ctx, id, &store.ID)
	if err != nil {
		return "", err
	}
	category.IsActive = false
	if err := s.categories.Save(ctx, category); err != nil {
		return "", storageFailure(ctx, s.log, "remove category", err)
	}
	return fmt.Sprintf("%s deleted successfully", category.Name), nil
}
