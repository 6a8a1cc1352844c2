package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductStatus is the stock state shown to buyers.
type ProductStatus string

const (
	StatusInStock    ProductStatus = "in_stock"
	StatusOutOfStock ProductStatus = "out_of_stock"
	StatusLowStock   ProductStatus = "low_stock"
)

// Product represents an item sold by a store. SKU is unique within the store.
type Product struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"type:varchar(255);not null"`
	Sku         string        `json:"sku" gorm:"type:varchar(20);not null;uniqueIndex:idx_products_store_sku,priority:2"`
	Description string        `json:"description" gorm:"type:text"`
	Price       float64       `json:"price" gorm:"not null"`
	Status      ProductStatus `json:"status" gorm:"type:varchar(20);not null"`
	Stock       int           `json:"stock" gorm:"not null"`
	IsActive    bool          `json:"is_active" gorm:"not null;index"`
	ImagesURLs  StringArray   `json:"images_urls" gorm:"column:images_urls"`
	StoreID     uint          `json:"store_id" gorm:"not null;index;uniqueIndex:idx_products_store_sku,priority:1"`
	Store       *Store        `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Name = normalizeText(p.Name)
	p.Description = normalizeText(p.Description)
	if p.Status == "" {
		p.Status = StatusInStock
	}
	if p.ImagesURLs == nil {
		p.ImagesURLs = StringArray{}
	}
	return nil
}
