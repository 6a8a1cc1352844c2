package repositories

import (
	"context"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// CategoryProductRepository stores the many-to-many link between categories and products.
// Links are hard-deleted.
type CategoryProductRepository interface {
	Create(ctx context.Context, link *models.CategoryProduct) error
	// Relink moves the (from, product) link to (to, product) inside one transaction.
	Relink(ctx context.Context, productID, from, to uint) error
	Delete(ctx context.Context, categoryID, productID uint) error
	// ProductsInCategories returns the distinct active products linked to any of categoryIDs.
	ProductsInCategories(ctx context.Context, categoryIDs []uint) ([]models.Product, error)
	// GroupedByStore pages through the store's active categories that hold active products.
	GroupedByStore(ctx context.Context, storeID uint, f ListFilter) ([]models.CategoryWithProducts, int64, error)
}

type GORMCategoryProductRepository struct {
	db *gorm.DB
}

func NewGORMCategoryProductRepository(db *gorm.DB) *GORMCategoryProductRepository {
	return &GORMCategoryProductRepository{db: db}
}

func (r *GORMCategoryProductRepository) Create(ctx context.Context, link *models.CategoryProduct) error {
	return translate(r.db.WithContext(ctx).Create(link).Error, "failed to link category and product")
}

func (r *GORMCategoryProductRepository) Relink(ctx context.Context, productID, from, to uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link models.CategoryProduct
		if err := tx.First(&link, "category_id = ? AND product_id = ?", from, productID).Error; err != nil {
			return err
		}
		return tx.Model(&link).Update("category_id", to).Error
	})
	return translate(err, "failed to relink product")
}

func (r *GORMCategoryProductRepository) Delete(ctx context.Context, categoryID, productID uint) error {
	res := r.db.WithContext(ctx).
		Where("category_id = ? AND product_id = ?", categoryID, productID).
		Delete(&models.CategoryProduct{})
	if res.Error != nil {
		return translate(res.Error, "failed to unlink product")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GORMCategoryProductRepository) ProductsInCategories(ctx context.Context, categoryIDs []uint) ([]models.Product, error) {
	if len(categoryIDs) == 0 {
		return []models.Product{}, nil
	}
	linked := r.db.Model(&models.CategoryProduct{}).
		Select("product_id").
		Where("category_id IN ?", categoryIDs)

	var products []models.Product
	err := active(r.db.WithContext(ctx), "products").
		Where("products.id IN (?)", linked).
		Order("products.id").
		Find(&products).Error
	if err != nil {
		return nil, translate(err, "failed to list linked products")
	}
	return products, nil
}

func (r *GORMCategoryProductRepository) groupQuery(ctx context.Context, storeID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("categories_products").
		Joins("JOIN categories ON categories.id = categories_products.category_id").
		Joins("JOIN products ON products.id = categories_products.product_id").
		Where("categories.store_id = ? AND categories.is_active = ? AND products.is_active = ?", storeID, true, true)
}

func (r *GORMCategoryProductRepository) GroupedByStore(ctx context.Context, storeID uint, f ListFilter) ([]models.CategoryWithProducts, int64, error) {
	var total int64
	if err := r.groupQuery(ctx, storeID).Distinct("categories.id").Count(&total).Error; err != nil {
		return nil, 0, translate(err, "failed to count grouped categories")
	}

	var categoryIDs []uint
	err := page(r.groupQuery(ctx, storeID), f).
		Group("categories.id").
		Order("categories.id").
		Pluck("categories.id", &categoryIDs).Error
	if err != nil {
		return nil, 0, translate(err, "failed to group categories")
	}
	if len(categoryIDs) == 0 {
		return []models.CategoryWithProducts{}, total, nil
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", categoryIDs).Order("id").Find(&categories).Error; err != nil {
		return nil, 0, translate(err, "failed to load grouped categories")
	}

	var links []models.CategoryProduct
	err = r.groupQuery(ctx, storeID).
		Select("categories_products.*").
		Where("categories_products.category_id IN ?", categoryIDs).
		Order("categories_products.id").
		Find(&links).Error
	if err != nil {
		return nil, 0, translate(err, "failed to load grouped links")
	}

	productIDs := make([]uint, 0, len(links))
	for _, l := range links {
		productIDs = append(productIDs, l.ProductID)
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, 0, translate(err, "failed to load grouped products")
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	groups := make([]models.CategoryWithProducts, len(categories))
	index := make(map[uint]int, len(categories))
	for i, c := range categories {
		groups[i] = models.CategoryWithProducts{Category: c, Products: []models.Product{}}
		index[c.ID] = i
	}
	for _, l := range links {
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		g := &groups[index[l.CategoryID]]
		g.Products = append(g.Products, p)
	}
	return groups, total, nil
}
