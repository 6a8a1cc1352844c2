package repositories

import (
	"context"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Save(ctx context.Context, category *models.Category) error
	// FindByID returns the active category; a non-nil storeID also requires membership.
	FindByID(ctx context.Context, id uint, storeID *uint) (*models.Category, error)
	SearchByName(ctx context.Context, term string) ([]models.Category, error)
	List(ctx context.Context, f ListFilter) ([]models.Category, error)
	Stamp(ctx context.Context, f ListFilter) (models.ListStamp, error)
}

type GORMCategoryRepository struct {
	db *gorm.DB
}

func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error, "failed to create category")
}

func (r *GORMCategoryRepository) Save(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Save(category).Error, "failed to update category")
}

func (r *GORMCategoryRepository) FindByID(ctx context.Context, id uint, storeID *uint) (*models.Category, error) {
	var category models.Category
	q := scoped(r.db.WithContext(ctx), "categories", ListFilter{StoreID: storeID})
	if err := q.First(&category, "categories.id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to get category")
	}
	return &category, nil
}

func (r *GORMCategoryRepository) SearchByName(ctx context.Context, term string) ([]models.Category, error) {
	var categories []models.Category
	err := active(r.db.WithContext(ctx), "categories").
		Where("LOWER(name) LIKE ?", likeTerm(term)).
		Order("id").
		Find(&categories).Error
	if err != nil {
		return nil, translate(err, "failed to search categories")
	}
	return categories, nil
}

func (r *GORMCategoryRepository) List(ctx context.Context, f ListFilter) ([]models.Category, error) {
	var categories []models.Category
	if err := page(scoped(r.db.WithContext(ctx), "categories", f), f).Order("id").Find(&categories).Error; err != nil {
		return nil, translate(err, "failed to list categories")
	}
	return categories, nil
}

func (r *GORMCategoryRepository) Stamp(ctx context.Context, f ListFilter) (models.ListStamp, error) {
	return listStamp(ctx, r.db, &models.Category{}, "categories", f)
}
