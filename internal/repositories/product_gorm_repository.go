package repositories

import (
	"context"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// Create inserts the product. A repeated (store, sku) pair yields ErrDuplicate.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error, "failed to create product")
}

// Save updates all fields, including zero values.
func (r *GORMProductRepository) Save(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Save(product).Error, "failed to update product")
}

// FindByID retrieves an active product, optionally requiring it to belong to storeID.
func (r *GORMProductRepository) FindByID(ctx context.Context, id uint, storeID *uint) (*models.Product, error) {
	var product models.Product
	q := scoped(r.db.WithContext(ctx), "products", ListFilter{StoreID: storeID})
	if err := q.First(&product, "products.id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to get product")
	}
	return &product, nil
}

// SearchByName retrieves active products whose name contains term, ignoring case.
func (r *GORMProductRepository) SearchByName(ctx context.Context, term string) ([]models.Product, error) {
	var products []models.Product
	err := active(r.db.WithContext(ctx), "products").
		Where("LOWER(name) LIKE ?", likeTerm(term)).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, translate(err, "failed to search products")
	}
	return products, nil
}

// List retrieves one page of active products.
func (r *GORMProductRepository) List(ctx context.Context, f ListFilter) ([]models.Product, error) {
	var products []models.Product
	if err := page(scoped(r.db.WithContext(ctx), "products", f), f).Order("id").Find(&products).Error; err != nil {
		return nil, translate(err, "failed to list products")
	}
	return products, nil
}

func (r *GORMProductRepository) Stamp(ctx context.Context, f ListFilter) (models.ListStamp, error) {
	return listStamp(ctx, r.db, &models.Product{}, "products", f)
}
