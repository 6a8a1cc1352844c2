package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin = "ADMIN_ROLE"
	RoleUser  = "USER_ROLE"
)

// User represents an account. Email is stored lower-cased and trimmed.
type User struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	Email     string      `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string      `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	FirstName string      `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string      `json:"last_name" gorm:"type:varchar(100)"`
	Phone     *string     `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Picture   *string     `json:"picture,omitempty" gorm:"type:varchar(512)"`
	Roles     StringArray `json:"roles"`
	Google    bool        `json:"google" gorm:"not null"`
	Facebook  bool        `json:"facebook" gorm:"not null"`
	IsActive  bool        `json:"is_active" gorm:"not null"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// BeforeSave normalizes the email and names on every write.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = normalizeText(u.Email)
	u.FirstName = normalizeText(u.FirstName)
	u.LastName = normalizeText(u.LastName)
	return nil
}

// BeforeCreate gives new accounts the default role.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if len(u.Roles) == 0 {
		u.Roles = StringArray{RoleUser}
	}
	return nil
}

// HasAnyRole reports whether the user holds at least one of roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if u.Roles.Contains(r) {
			return true
		}
	}
	return false
}
