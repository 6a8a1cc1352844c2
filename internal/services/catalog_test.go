package services_test

import (
	"context"
	"testing"

	"storefront/internal/apperror"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type catalog struct {
	db         *gorm.DB
	cache      *cache.MemoryCache
	stores     *services.StoreService
	categories *services.CategoryService
	products   *services.ProductService
	links      *services.CategoryProductService
	alice, bob *models.User
	store      *models.Store
}

func newCatalog(t *testing.T) *catalog {
	t.Helper()
	db, err := database.OpenTest(t.Name())
	require.NoError(t, err)
	log := zap.NewNop()
	c := cache.NewMemoryCache()

	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	stores := services.NewStoreService(repositories.NewGORMStoreRepository(db), c, log)

	cat := &catalog{
		db:         db,
		cache:      c,
		stores:     stores,
		categories: services.NewCategoryService(categoryRepo, stores, c, log),
		products:   services.NewProductService(productRepo, stores, c, log),
		links: services.NewCategoryProductService(
			repositories.NewGORMCategoryProductRepository(db), categoryRepo, productRepo, stores, log),
	}

	users := repositories.NewGORMUserRepository(db)
	cat.alice = &models.User{Email: "alice@example.com", Password: "x", IsActive: true}
	cat.bob = &models.User{Email: "bob@example.com", Password: "x", IsActive: true}
	require.NoError(t, users.Create(context.Background(), cat.alice))
	require.NoError(t, users.Create(context.Background(), cat.bob))

	cat.store, err = stores.Create(context.Background(), models.CreateStoreRequest{
		Name: "My Store", PhoneNumber: "5551234", ImageURL: "http://img.test/logo.png",
	}, cat.alice)
	require.NoError(t, err)
	return cat
}

func (c *catalog) product(t *testing.T, name, sku string) *models.Product {
	t.Helper()
	p, err := c.products.Create(context.Background(), models.CreateProductRequest{
		StoreSlug: c.store.Slug, Name: name, Sku: sku, Price: 9.5, Stock: 3,
	}, c.alice)
	require.NoError(t, err)
	return p
}

func (c *catalog) category(t *testing.T, name string) *models.Category {
	t.Helper()
	cat, err := c.categories.Create(context.Background(), models.CreateCategoryRequest{
		StoreSlug: c.store.Slug, Name: name,
	}, c.alice)
	require.NoError(t, err)
	return cat
}

func (c *catalog) countLinks(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, c.db.Model(&models.CategoryProduct{}).Count(&n).Error)
	return n
}

func TestCatalog_StoreSlugDerivation(t *testing.T) {
	c := newCatalog(t)
	assert.Equal(t, "my_store", c.store.Slug)
	assert.Equal(t, "my store", c.store.Name)

	_, err := c.stores.Create(context.Background(), models.CreateStoreRequest{
		Name: "MY STORE", PhoneNumber: "1", ImageURL: "http://img.test/x.png",
	}, c.bob)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	name := "Women's Clothes"
	updated, err := c.stores.Update(context.Background(), "my_store", models.UpdateStoreRequest{Name: &name}, c.alice)
	require.NoError(t, err)
	assert.Equal(t, "womens_clothes", updated.Slug)
}

func TestCatalog_OwnershipGate(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	p := c.product(t, "Red Shoe", "SHOE-0001")

	price := 1.0
	_, err := c.products.Update(ctx, c.store.Slug, p.ID, models.UpdateProductRequest{Price: &price}, c.bob)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = c.products.Remove(ctx, c.store.Slug, p.ID, c.bob)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	name := "stolen"
	_, err = c.stores.Update(ctx, c.store.Slug, models.UpdateStoreRequest{Name: &name}, c.bob)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = c.stores.Remove(ctx, c.store.ID, c.bob)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	unchanged, err := c.products.FindOne(ctx, p.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 9.5, unchanged.Price)
	store, err := c.stores.FindByID(ctx, c.store.ID)
	require.NoError(t, err)
	assert.Equal(t, "my store", store.Name)
}

func TestCatalog_ProductLifecycle(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	p := c.product(t, "Red Shoe", "SHOE-0001")
	assert.Equal(t, models.StatusInStock, p.Status)

	_, err := c.products.Create(ctx, models.CreateProductRequest{
		StoreSlug: c.store.Slug, Name: "Other", Sku: "SHOE-0001",
	}, c.alice)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	status := models.StatusLowStock
	stock := 1
	updated, err := c.products.Update(ctx, c.store.Slug, p.ID, models.UpdateProductRequest{Status: &status, Stock: &stock}, c.alice)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLowStock, updated.Status)
	assert.Equal(t, 9.5, updated.Price, "absent fields keep their value")

	found, err := c.products.FindByTerm(ctx, "RED")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	msg, err := c.products.Remove(ctx, c.store.Slug, p.ID, c.alice)
	require.NoError(t, err)
	assert.Equal(t, "red shoe deleted successfully", msg)

	_, err = c.products.FindOne(ctx, p.ID, nil)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	var rows int64
	require.NoError(t, c.db.Model(&models.Product{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows, "soft delete keeps the row")
}

func TestCatalog_CategoryUniquePerStore(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	c.category(t, "Shoes")

	_, err := c.categories.Create(ctx, models.CreateCategoryRequest{StoreSlug: c.store.Slug, Name: "shoes"}, c.alice)
	require.Error(t, err)
	assert.Equal(t, "Duplicate category for this store", err.Error())

	_, err = c.categories.Create(ctx, models.CreateCategoryRequest{StoreSlug: c.store.Slug, Name: "Hats"}, c.bob)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCatalog_ListCacheIsNotReusedAfterInsert(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	c.product(t, "One", "ONE-00001")

	page, err := c.products.FindAll(ctx, models.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Meta.Total)

	c.product(t, "Two", "TWO-00001")
	page, err = c.products.FindAll(ctx, models.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.Total)
	assert.Len(t, page.Data, 2)

	byStore, err := c.products.FindAllByStoreSlug(ctx, models.Pagination{Limit: 1, Offset: 1}, c.store.Slug)
	require.NoError(t, err)
	assert.Len(t, byStore.Data, 1)
	assert.Equal(t, 2, byStore.Meta.LastPage)

	beyond, err := c.products.FindAll(ctx, models.Pagination{Offset: 50})
	require.NoError(t, err)
	assert.Empty(t, beyond.Data)
	assert.Equal(t, int64(2), beyond.Meta.Total)
}

func TestCatalog_CategoryListsAreKeyedByStore(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	c.category(t, "Shoes")

	other, err := c.stores.Create(ctx, models.CreateStoreRequest{
		Name: "Bob Shop", PhoneNumber: "1", ImageURL: "http://img.test/b.png",
	}, c.bob)
	require.NoError(t, err)

	all, err := c.categories.FindAll(ctx, models.Pagination{})
	require.NoError(t, err)
	assert.Len(t, all.Data, 1)

	mine, err := c.categories.FindAllByStoreSlug(ctx, models.Pagination{}, other.Slug)
	require.NoError(t, err)
	assert.Empty(t, mine.Data, "a page cached for one scope is never served for another")
}

func TestCatalog_LinkRelinkUnlink(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	a := c.category(t, "A")
	b := c.category(t, "B")
	p := c.product(t, "Hat", "HAT-00001")
	link := models.LinkCategoryProductRequest{CategoryID: a.ID, ProductID: p.ID}

	_, err := c.links.Link(ctx, c.store.Slug, c.alice, link)
	require.NoError(t, err)
	_, err = c.links.Link(ctx, c.store.Slug, c.alice, link)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, int64(1), c.countLinks(t))

	_, err = c.links.Link(ctx, c.store.Slug, c.bob, models.LinkCategoryProductRequest{CategoryID: b.ID, ProductID: p.ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = c.links.Relink(ctx, c.store.Slug, c.alice, p.ID, models.RelinkCategoryProductRequest{CurrentCategory: a.ID, NewCategory: a.ID})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	require.NoError(t, c.links.Relink(ctx, c.store.Slug, c.alice, p.ID,
		models.RelinkCategoryProductRequest{CurrentCategory: a.ID, NewCategory: b.ID}))
	assert.Equal(t, int64(1), c.countLinks(t))

	inA, err := c.links.ListByCategoryID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, inA)
	inB, err := c.links.ListByCategoryID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, inB, 1)
	assert.Equal(t, p.ID, inB[0].ID)

	err = c.links.Relink(ctx, c.store.Slug, c.alice, p.ID, models.RelinkCategoryProductRequest{CurrentCategory: a.ID, NewCategory: b.ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = c.links.Unlink(ctx, c.store.Slug, c.alice, models.LinkCategoryProductRequest{CategoryID: a.ID, ProductID: p.ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	require.NoError(t, c.links.Unlink(ctx, c.store.Slug, c.alice, models.LinkCategoryProductRequest{CategoryID: b.ID, ProductID: p.ID}))
	assert.Equal(t, int64(0), c.countLinks(t))
}

func TestCatalog_LinkRejectsForeignAndInactive(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	a := c.category(t, "A")
	p := c.product(t, "Hat", "HAT-00001")

	bobStore, err := c.stores.Create(ctx, models.CreateStoreRequest{
		Name: "Bob Shop", PhoneNumber: "1", ImageURL: "http://img.test/b.png",
	}, c.bob)
	require.NoError(t, err)
	bobProduct, err := c.products.Create(ctx, models.CreateProductRequest{
		StoreSlug: bobStore.Slug, Name: "Cap", Sku: "CAP-00001",
	}, c.bob)
	require.NoError(t, err)

	_, err = c.links.Link(ctx, c.store.Slug, c.alice, models.LinkCategoryProductRequest{CategoryID: a.ID, ProductID: bobProduct.ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = c.products.Remove(ctx, c.store.Slug, p.ID, c.alice)
	require.NoError(t, err)
	_, err = c.links.Link(ctx, c.store.Slug, c.alice, models.LinkCategoryProductRequest{CategoryID: a.ID, ProductID: p.ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCatalog_ListGroupedAndByName(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	shoes := c.category(t, "Shoes")
	hats := c.category(t, "Hats")
	c.category(t, "Empty")
	p1 := c.product(t, "Boot", "BOOT-0001")
	p2 := c.product(t, "Beanie", "BEAN-0001")

	for _, l := range []models.LinkCategoryProductRequest{
		{CategoryID: shoes.ID, ProductID: p1.ID},
		{CategoryID: hats.ID, ProductID: p2.ID},
		{CategoryID: shoes.ID, ProductID: p2.ID},
	} {
		_, err := c.links.Link(ctx, c.store.Slug, c.alice, l)
		require.NoError(t, err)
	}

	page, err := c.links.ListGroupedByCategory(ctx, c.store.Slug, models.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "shoes", page.Data[0].Category.Name)
	assert.Len(t, page.Data[0].Products, 2)

	// products linked under several matching categories appear once
	products, err := c.links.ListByCategoryName(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, products, 2)

	_, err = c.links.ListByCategoryName(ctx, "nothing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = c.links.ListGroupedByCategory(ctx, "no_such_store", models.Pagination{})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
