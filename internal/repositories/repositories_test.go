package repositories_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	users      *repositories.GORMUserRepository
	stores     *repositories.GORMStoreRepository
	categories *repositories.GORMCategoryRepository
	products   *repositories.GORMProductRepository
	links      *repositories.GORMCategoryProductRepository
	owner      models.User
	store      models.Store
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenTest(t.Name())
	require.NoError(t, err)

	f := &fixture{
		db:         db,
		users:      repositories.NewGORMUserRepository(db),
		stores:     repositories.NewGORMStoreRepository(db),
		categories: repositories.NewGORMCategoryRepository(db),
		products:   repositories.NewGORMProductRepository(db),
		links:      repositories.NewGORMCategoryProductRepository(db),
	}
	ctx := context.Background()
	f.owner = models.User{Email: "Owner@Example.com ", Password: "hash", IsActive: true}
	require.NoError(t, f.users.Create(ctx, &f.owner))
	f.store = models.Store{Name: "My Store", UserID: f.owner.ID, IsActive: true}
	require.NoError(t, f.stores.Create(ctx, &f.store))
	return f
}

func (f *fixture) category(t *testing.T, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name, StoreID: f.store.ID, IsActive: true}
	require.NoError(t, f.categories.Create(context.Background(), &c))
	return c
}

func (f *fixture) product(t *testing.T, name, sku string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Sku: sku, Price: 10, Stock: 1, StoreID: f.store.ID, IsActive: true,
		ImagesURLs: models.StringArray{"http://img.test/a.png"}}
	require.NoError(t, f.products.Create(context.Background(), &p))
	return p
}

func TestUserRepository(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	u, err := f.users.GetByEmail(ctx, "OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", u.Email)
	assert.Equal(t, models.StringArray{models.RoleUser}, u.Roles)

	_, err = f.users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	dup := models.User{Email: "owner@example.com", Password: "x"}
	assert.ErrorIs(t, f.users.Create(ctx, &dup), repositories.ErrDuplicate)
}

func TestStoreRepositoryGate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	found, err := f.stores.FindBySlugAndOwner(ctx, "MY_STORE", f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, f.store.ID, found.ID)

	_, err = f.stores.FindBySlugAndOwner(ctx, "my_store", f.owner.ID+1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	found.IsActive = false
	require.NoError(t, f.stores.Save(ctx, found))
	_, err = f.stores.FindBySlugAndOwner(ctx, "my_store", f.owner.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.Store{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "soft delete keeps the row")
}

func TestStoreSearchByName(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	stores, err := f.stores.SearchByName(ctx, "STORE")
	require.NoError(t, err)
	assert.Len(t, stores, 1)

	stores, err = f.stores.SearchByName(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, stores)
}

func TestProductRepositoryScopesAndStamp(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.product(t, "Red Shoe", "SKU-0001")

	got, err := f.products.FindByID(ctx, p.ID, &f.store.ID)
	require.NoError(t, err)
	assert.Equal(t, "red shoe", got.Name)
	assert.Equal(t, models.StatusInStock, got.Status)
	assert.Equal(t, p.ImagesURLs, got.ImagesURLs)

	other := f.store.ID + 100
	_, err = f.products.FindByID(ctx, p.ID, &other)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	dup := models.Product{Name: "Blue Shoe", Sku: "SKU-0001", StoreID: f.store.ID, IsActive: true}
	assert.ErrorIs(t, f.products.Create(ctx, &dup), repositories.ErrDuplicate)

	before, err := f.products.Stamp(ctx, repositories.ListFilter{StoreID: &f.store.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), before.Total)
	assert.NotEmpty(t, before.LastUpdate)

	f.product(t, "Green Shoe", "SKU-0002")
	after, err := f.products.Stamp(ctx, repositories.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), after.Total)
	assert.NotEqual(t, before, after)

	list, err := f.products.List(ctx, repositories.ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "green shoe", list[0].Name)
}

func TestCategoryUniquePerStore(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.category(t, "Shoes")

	dup := models.Category{Name: "SHOES ", StoreID: f.store.ID, IsActive: true}
	assert.ErrorIs(t, f.categories.Create(ctx, &dup), repositories.ErrDuplicate)

	otherStore := models.Store{Name: "Other", UserID: f.owner.ID, IsActive: true}
	require.NoError(t, f.stores.Create(ctx, &otherStore))
	elsewhere := models.Category{Name: "Shoes", StoreID: otherStore.ID, IsActive: true}
	assert.NoError(t, f.categories.Create(ctx, &elsewhere))
}

func TestCategoryProductLinks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.category(t, "A")
	b := f.category(t, "B")
	p := f.product(t, "Hat", "HAT-0001")

	require.NoError(t, f.links.Create(ctx, &models.CategoryProduct{CategoryID: a.ID, ProductID: p.ID}))
	err := f.links.Create(ctx, &models.CategoryProduct{CategoryID: a.ID, ProductID: p.ID})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	var count int64
	require.NoError(t, f.db.Model(&models.CategoryProduct{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, f.links.Relink(ctx, p.ID, a.ID, b.ID))
	inA, err := f.links.ProductsInCategories(ctx, []uint{a.ID})
	require.NoError(t, err)
	assert.Empty(t, inA)
	inB, err := f.links.ProductsInCategories(ctx, []uint{b.ID})
	require.NoError(t, err)
	require.Len(t, inB, 1)
	assert.Equal(t, p.ID, inB[0].ID)

	require.NoError(t, f.db.Model(&models.CategoryProduct{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, f.links.Relink(ctx, p.ID, a.ID, b.ID), repositories.ErrNotFound)

	require.NoError(t, f.links.Create(ctx, &models.CategoryProduct{CategoryID: a.ID, ProductID: p.ID}))
	assert.True(t, errors.Is(f.links.Relink(ctx, p.ID, a.ID, b.ID), repositories.ErrDuplicate))

	require.NoError(t, f.links.Delete(ctx, a.ID, p.ID))
	assert.ErrorIs(t, f.links.Delete(ctx, a.ID, p.ID), repositories.ErrNotFound)
}

func TestGroupedByStore(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.category(t, "A")
	b := f.category(t, "B")
	f.category(t, "Empty")
	p1 := f.product(t, "One", "ONE-0001")
	p2 := f.product(t, "Two", "TWO-0001")

	for _, l := range []models.CategoryProduct{
		{CategoryID: a.ID, ProductID: p1.ID},
		{CategoryID: a.ID, ProductID: p2.ID},
		{CategoryID: b.ID, ProductID: p2.ID},
	} {
		link := l
		require.NoError(t, f.links.Create(ctx, &link))
	}

	groups, total, err := f.links.GroupedByStore(ctx, f.store.ID, repositories.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, groups, 2)
	assert.Equal(t, a.ID, groups[0].Category.ID)
	assert.Len(t, groups[0].Products, 2)
	assert.Len(t, groups[1].Products, 1)

	groups, total, err = f.links.GroupedByStore(ctx, f.store.ID, repositories.ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, groups, 1)
	assert.Equal(t, b.ID, groups[0].Category.ID)

	groups, _, err = f.links.GroupedByStore(ctx, f.store.ID, repositories.ListFilter{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, groups)
}
