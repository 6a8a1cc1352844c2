package services_test

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/mailer"
	"storefront/pkg/oauth"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, f repositories.ListFilter) ([]models.User, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Stamp(ctx context.Context, f repositories.ListFilter) (models.ListStamp, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.ListStamp), args.Error(1)
}

// MockStoreRepository is a mock implementation of repositories.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) store(args mock.Arguments) (*models.Store, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) stores(args mock.Arguments) ([]models.Store, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Store), args.Error(1)
}

func (m *MockStoreRepository) Create(ctx context.Context, store *models.Store) error {
	return m.Called(ctx, store).Error(0)
}

func (m *MockStoreRepository) Save(ctx context.Context, store *models.Store) error {
	return m.Called(ctx, store).Error(0)
}

func (m *MockStoreRepository) FindBySlugAndOwner(ctx context.Context, slug string, userID uint) (*models.Store, error) {
	return m.store(m.Called(ctx, slug, userID))
}

func (m *MockStoreRepository) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	return m.store(m.Called(ctx, slug))
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uint) (*models.Store, error) {
	return m.store(m.Called(ctx, id))
}

func (m *MockStoreRepository) FindByIDAndOwner(ctx context.Context, id, userID uint) (*models.Store, error) {
	return m.store(m.Called(ctx, id, userID))
}

func (m *MockStoreRepository) FindByOwner(ctx context.Context, userID uint) ([]models.Store, error) {
	return m.stores(m.Called(ctx, userID))
}

func (m *MockStoreRepository) SearchByName(ctx context.Context, term string) ([]models.Store, error) {
	return m.stores(m.Called(ctx, term))
}

func (m *MockStoreRepository) List(ctx context.Context, f repositories.ListFilter) ([]models.Store, error) {
	return m.stores(m.Called(ctx, f))
}

func (m *MockStoreRepository) Stamp(ctx context.Context, f repositories.ListFilter) (models.ListStamp, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.ListStamp), args.Error(1)
}

// MockEmailDispatcher records dispatched emails.
type MockEmailDispatcher struct {
	mock.Mock
}

func (m *MockEmailDispatcher) Dispatch(ctx context.Context, msg mailer.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type MockOAuthVerifier struct {
	mock.Mock
}

func (m *MockOAuthVerifier) Verify(ctx context.Context, token string) (*oauth.Profile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.Profile), args.Error(1)
}
