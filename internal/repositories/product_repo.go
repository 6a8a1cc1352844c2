package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uint, storeID *uint) (*models.Product, error)
	SearchByName(ctx context.Context, term string) ([]models.Product, error)
	List(ctx context.Context, f ListFilter) ([]models.Product, error)
	Stamp(ctx context.Context, f ListFilter) (models.ListStamp, error)
}
