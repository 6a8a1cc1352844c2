package repositories

import (
	"context"
	"strings"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, f ListFilter) ([]models.User, error)
	Stamp(ctx context.Context, f ListFilter) (models.ListStamp, error)
}

// GORMUserRepository is a GORM implementation of UserRepository.
// Lookups return inactive users too; callers decide what inactive means.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "failed to create user")
}

// Save writes every column of user, including zero values.
func (r *GORMUserRepository) Save(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error, "failed to update user")
}

func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, translate(err, "failed to get user by email")
	}
	return &user, nil
}

func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to get user by id")
	}
	return &user, nil
}

// List pages through active users ordered by id.
func (r *GORMUserRepository) List(ctx context.Context, f ListFilter) ([]models.User, error) {
	var users []models.User
	err := page(active(r.db.WithContext(ctx), "users"), f).Order("id").Find(&users).Error
	if err != nil {
		return nil, translate(err, "failed to list users")
	}
	return users, nil
}

func (r *GORMUserRepository) Stamp(ctx context.Context, f ListFilter) (models.ListStamp, error) {
	return listStamp(ctx, r.db, &models.User{}, "users", ListFilter{})
}
