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

// StoreResolver is the store lookup the catalog services depend on.
type StoreResolver interface {
	ResolveBySlugAndOwner(ctx context.Context, slug string, owner *models.User) (*models.Store, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
}

// StoreService owns store lifecycle and the ownership gate used by every catalog write.
type StoreService struct {
	stores repositories.StoreRepository
	cache  cache.Cache
	log    *zap.Logger
}

func NewStoreService(stores repositories.StoreRepository, c cache.Cache, log *zap.Logger) *StoreService {
	return &StoreService{stores: stores, cache: c, log: log}
}

// ResolveBySlugAndOwner returns the active store with slug owned by owner.
// A store owned by someone else is reported as not found.
func (s *StoreService) ResolveBySlugAndOwner(ctx context.Context, slug string, owner *models.User) (*models.Store, error) {
	if owner == nil {
		return nil, apperror.Unauthorized(msgTokenNotValid)
	}
	store, err := s.stores.FindBySlugAndOwner(ctx, slug, owner.ID)
	if err != nil {
		return nil, lookupFailure(ctx, s.log, "resolve store", err, "Store with slug %s not found", slug)
	}
	return store, nil
}

func (s *StoreService) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	store, err := s.stores.FindBySlug(ctx, slug)
	if err != nil {
		return nil, lookupFailure(ctx, s.log, "get store by slug", err, "Store with slug %s not found", slug)
	}
	return store, nil
}

func (s *StoreService) FindByID(ctx context.Context, id uint) (*models.Store, error) {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, lookupFailure(ctx, s.log, "get store by id", err, "Store with id %d not found", id)
	}
	return store, nil
}

func (s *StoreService) FindByIDAndOwner(ctx context.Context, id uint, owner *models.User) (*models.Store, error) {
	store, err := s.stores.FindByIDAndOwner(ctx, id, owner.ID)
	if err != nil {
		return nil, lookupFailure(ctx, s.log, "get owned store", err, "Store with id %d not found", id)
	}
	return store, nil
}

func (s *StoreService) FindByOwner(ctx context.Context, owner *models.User) ([]models.Store, error) {
	stores, err := s.stores.FindByOwner(ctx, owner.ID)
	if err != nil {
		return nil, storageFailure(ctx, s.log, "list stores by owner", err)
	}
	if len(stores) == 0 {
		return nil, apperror.NotFound("User %d has no stores", owner.ID)
	}
	return stores, nil
}

// FindByNameFuzzy matches a case-insensitive substring of the store name.
func (s *StoreService) FindByNameFuzzy(ctx context.Context, term string) ([]models.Store, error) {
	stores, err := s.stores.SearchByName(ctx, term)
	if err != nil {
		return nil, storageFailure(ctx, s.log, "search stores", err)
	}
	if len(stores) == 0 {
		return nil, apperror.NotFound("No stores match %s", term)
	}
	return stores, nil
}

func (s *StoreService) FindAll(ctx context.Context, p models.Pagination) (models.Page[models.Store], error) {
	return findAllPaginated(ctx, s.cache, s.log, listSource[models.Store]{
		entity: "stores",
		ttl:    defaultListTTL,
		stamp:  s.stores.Stamp,
		load:   s.stores.List,
	}, nil, p)
}

// Create opens a store for owner. Name and slug must be unused.
func (s *StoreService) Create(ctx context.Context, req models.CreateStoreRequest, owner *models.User) (*models.Store, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	store := &models.Store{
		Name:        req.Name,
		Slug:        req.Slug,
		PhoneNumber: req.PhoneNumber,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		IsActive:    true,
		UserID:      owner.ID,
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, writeFailure(ctx, s.log, "create store", err, "Store %s already exists", req.Name)
	}
	return store, nil
}

// Update merges the provided fields into the owner's store. A new name derives a new slug.
func (s *StoreService) Update(ctx context.Context, slug string, req models.UpdateStoreRequest, owner *models.User) (*models.Store, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	store, err := s.ResolveBySlugAndOwner(ctx, slug, owner)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		store.Name = *req.Name
		store.Slug = ""
	}
	if req.PhoneNumber != nil {
		store.PhoneNumber = *req.PhoneNumber
	}
	if req.ImageURL != nil {
		store.ImageURL = *req.ImageURL
	}
	if req.Description != nil {
		store.Description = *req.Description
	}
	if err := s.stores.Save(ctx, store); err != nil {
		return nil, writeFailure(ctx, s.log, "update store", err, "Store %s already exists", store.Name)
	}
	return store, nil
}

// Remove soft-deletes the owner's store.
func (s *StoreService) Remove(ctx context.Context, id uint, owner *models.User) (string, error) {
	store, err := s.FindByIDAndOwner(ctx, id, owner)
	if err != nil {
		return "", err
	}
	store.IsActive = false
	if err := s.stores.Save(ctx, store); err != nil {
		return "", storageFailure(ctx, s.log, "remove store", err)
	}
	return fmt.Sprintf("%s deleted successfully", store.Name), nil
}
