package repositories

import (
	"context"
	"strings"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// StoreRepository defines the interface for store data access.
// Every finder only sees active stores.
type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	Save(ctx context.Context, store *models.Store) error
	FindBySlugAndOwner(ctx context.Context, slug string, userID uint) (*models.Store, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
	FindByID(ctx context.Context, id uint) (*models.Store, error)
	FindByIDAndOwner(ctx context.Context, id, userID uint) (*models.Store, error)
	FindByOwner(ctx context.Context, userID uint) ([]models.Store, error)
	SearchByName(ctx context.Context, term string) ([]models.Store, error)
	List(ctx context.Context, f ListFilter) ([]models.Store, error)
	Stamp(ctx context.Context, f ListFilter) (models.ListStamp, error)
}

type GORMStoreRepository struct {
	db *gorm.DB
}

func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{db: db}
}

func (r *GORMStoreRepository) stores(ctx context.Context) *gorm.DB {
	return active(r.db.WithContext(ctx).Model(&models.Store{}), "stores")
}

func (r *GORMStoreRepository) first(q *gorm.DB) (*models.Store, error) {
	var store models.Store
	if err := q.First(&store).Error; err != nil {
		return nil, translate(err, "failed to get store")
	}
	return &store, nil
}

func (r *GORMStoreRepository) Create(ctx context.Context, store *models.Store) error {
	return translate(r.db.WithContext(ctx).Create(store).Error, "failed to create store")
}

func (r *GORMStoreRepository) Save(ctx context.Context, store *models.Store) error {
	return translate(r.db.WithContext(ctx).Save(store).Error, "failed to update store")
}

// FindBySlugAndOwner matches the slug case-insensitively and the owner exactly.
func (r *GORMStoreRepository) FindBySlugAndOwner(ctx context.Context, slug string, userID uint) (*models.Store, error) {
	return r.first(r.stores(ctx).Where("LOWER(slug) = ? AND user_id = ?", strings.ToLower(slug), userID))
}

func (r *GORMStoreRepository) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	return r.first(r.stores(ctx).Where("LOWER(slug) = ?", strings.ToLower(slug)))
}

func (r *GORMStoreRepository) FindByID(ctx context.Context, id uint) (*models.Store, error) {
	return r.first(r.stores(ctx).Where("id = ?", id))
}

func (r *GORMStoreRepository) FindByIDAndOwner(ctx context.Context, id, userID uint) (*models.Store, error) {
	return r.first(r.stores(ctx).Where("id = ? AND user_id = ?", id, userID))
}

func (r *GORMStoreRepository) FindByOwner(ctx context.Context, userID uint) ([]models.Store, error) {
	var stores []models.Store
	if err := r.stores(ctx).Where("user_id = ?", userID).Order("id").Find(&stores).Error; err != nil {
		return nil, translate(err, "failed to list stores by owner")
	}
	return stores, nil
}

// SearchByName is a case-insensitive substring match on the store name.
func (r *GORMStoreRepository) SearchByName(ctx context.Context, term string) ([]models.Store, error) {
	var stores []models.Store
	if err := r.stores(ctx).Where("LOWER(name) LIKE ?", likeTerm(term)).Order("id").Find(&stores).Error; err != nil {
		return nil, translate(err, "failed to search stores")
	}
	return stores, nil
}

func (r *GORMStoreRepository) List(ctx context.Context, f ListFilter) ([]models.Store, error) {
	var stores []models.Store
	if err := page(r.stores(ctx), f).Order("id").Find(&stores).Error; err != nil {
		return nil, translate(err, "failed to list stores")
	}
	return stores, nil
}

func (r *GORMStoreRepository) Stamp(ctx context.Context, f ListFilter) (models.ListStamp, error) {
	return listStamp(ctx, r.db, &models.Store{}, "stores", ListFilter{})
}
