package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products inside a store. Names are unique per store.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_categories_store_name,priority:2"`
	Slug        string    `json:"slug" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"not null;index"`
	StoreID     uint      `json:"store_id" gorm:"not null;index;uniqueIndex:idx_categories_store_name,priority:1"`
	Store       *Store    `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Name = normalizeText(c.Name)
	c.Description = normalizeText(c.Description)
	if c.Slug == "" {
		c.Slug = c.Name
	}
	c.Slug = Slugify(c.Slug)
	return nil
}

// CategoryProduct links a product to a category. The pair is unique.
type CategoryProduct struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CategoryID uint      `json:"category_id" gorm:"not null;uniqueIndex:idx_category_product,priority:1"`
	ProductID  uint      `json:"product_id" gorm:"not null;index;uniqueIndex:idx_category_product,priority:2"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Product    *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CategoryProduct) TableName() string {
	return "categories_products"
}

// CategoryWithProducts is one entry of the grouped association list.
type CategoryWithProducts struct {
	Category Category  `json:"category"`
	Products []Product `json:"products"`
}
