package models

import (
	"time"

	"gorm.io/gorm"
)

// Store is a tenant owned by one user. Name and slug are globally unique.
type Store struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_stores_name"`
	Slug        string    `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_stores_slug"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(30)"`
	ImageURL    string    `json:"image_url" gorm:"type:varchar(512)"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"not null;index"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	User        *User     `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeSave lower-cases name and description and derives the slug from the name when none is set.
func (s *Store) BeforeSave(tx *gorm.DB) error {
	s.Name = normalizeText(s.Name)
	s.Description = normalizeText(s.Description)
	if s.Slug == "" {
		s.Slug = s.Name
	}
	s.Slug = Slugify(s.Slug)
	return nil
}
