package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopatlas/affiliate-backend/internal/models"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

func TestCreateProduct(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	product, err := service.CreateProduct(&ProductInput{
		Title:                "Wireless Mouse Pro",
		Price:                29.99,
		CategoryName:         "Electronics",
		AffiliateURLTemplate: "https://shop.example/mouse?aff={affiliate_code}",
		Active:               true,
	})
	require.NoError(t, err)

	assert.Equal(t, "wireless-mouse-pro", product.Slug)
	assert.Equal(t, "USD", product.Currency)
	require.NotNil(t, product.CategoryID)

	// The category was created alongside the product
	var category models.Category
	require.NoError(t, db.First(&category, *product.CategoryID).Error)
	assert.Equal(t, "Electronics", category.Name)
	assert.Equal(t, "electronics", category.Slug)
}

func TestCreateProductDuplicateSlug(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	_, err := service.CreateProduct(&ProductInput{Title: "Same Title", Active: true})
	require.NoError(t, err)

	_, err = service.CreateProduct(&ProductInput{Title: "Same Title", Active: true})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateProductReusesCategory(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	first, err := service.CreateProduct(&ProductInput{Title: "Product A", CategoryName: "Home & Garden", Active: true})
	require.NoError(t, err)

	second, err := service.CreateProduct(&ProductInput{Title: "Product B", CategoryName: "Home & Garden", Active: true})
	require.NoError(t, err)

	require.NotNil(t, first.CategoryID)
	require.NotNil(t, second.CategoryID)
	assert.Equal(t, *first.CategoryID, *second.CategoryID)

	var count int64
	db.Model(&models.Category{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetProductBySlug(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	created, err := service.CreateProduct(&ProductInput{Title: "Standing Desk", Active: true})
	require.NoError(t, err)

	found, err := service.GetProductBySlug("standing-desk")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = service.GetProductBySlug("no-such-product")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProducts(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	_, err := service.CreateProduct(&ProductInput{Title: "Mechanical Keyboard", CategoryName: "Electronics", Active: true})
	require.NoError(t, err)
	_, err = service.CreateProduct(&ProductInput{Title: "Garden Hose", CategoryName: "Garden", Active: true})
	require.NoError(t, err)
	_, err = service.CreateProduct(&ProductInput{Title: "Retired Keyboard", Active: false})
	require.NoError(t, err)

	params := ProductListParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20},
		ActiveOnly:       true,
	}

	products, total, err := service.ListProducts(params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)

	// Search matches titles case-insensitively
	params.Search = "keyboard"
	products, total, err = service.ListProducts(params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Mechanical Keyboard", products[0].Title)

	// Category filter uses the category slug
	params.Search = ""
	params.Category = "garden"
	products, total, err = service.ListProducts(params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Garden Hose", products[0].Title)

	// Inactive products show up when the filter is lifted
	params.Category = ""
	params.ActiveOnly = false
	_, total, err = service.ListProducts(params)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestUpdateProduct(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	created, err := service.CreateProduct(&ProductInput{Title: "Old Title", Price: 10, Active: true})
	require.NoError(t, err)

	updated, err := service.UpdateProduct(created.ID, &ProductInput{
		Title:        "New Title",
		Price:        12.5,
		CategoryName: "Accessories",
		Active:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-title", updated.Slug)

	reloaded, err := service.GetProduct(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Title", reloaded.Title)
	assert.Equal(t, 12.5, reloaded.Price)
	require.NotNil(t, reloaded.Category)
	assert.Equal(t, "Accessories", reloaded.Category.Name)
}

func TestDeleteProduct(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	created, err := service.CreateProduct(&ProductInput{Title: "Short Lived", Active: true})
	require.NoError(t, err)

	require.NoError(t, service.DeleteProduct(created.ID))
	assert.ErrorIs(t, service.DeleteProduct(created.ID), ErrNotFound)
}

func TestUpsertProductBySlugCreates(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	patch := &ProductPatch{
		Title: strPtr("Feed Product"),
		Price: floatPtr(42.0),
	}

	product, existed, err := service.UpsertProductBySlug("feed-product", patch)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "feed-product", product.Slug)
	assert.Equal(t, "USD", product.Currency)
	assert.True(t, product.Active)
}

func TestUpsertProductBySlugUpdates(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	_, existed, err := service.UpsertProductBySlug("feed-product", &ProductPatch{
		Title: strPtr("Feed Product"),
		Price: floatPtr(42.0),
	})
	require.NoError(t, err)
	require.False(t, existed)

	product, existed, err := service.UpsertProductBySlug("feed-product", &ProductPatch{
		Title: strPtr("Feed Product"),
		Price: floatPtr(45.0),
	})
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, 45.0, product.Price)

	var count int64
	db.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpsertProductBySlugDefaultsTitleToSlug(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	product, existed, err := service.UpsertProductBySlug("bare-slug", &ProductPatch{})
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "bare-slug", product.Title)
}

func TestUpsertPatchWithoutCategoryClearsIt(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	_, _, err := service.UpsertProductBySlug("widget", &ProductPatch{
		Title:        strPtr("Widget"),
		CategoryName: strPtr("Gadgets"),
	})
	require.NoError(t, err)

	_, existed, err := service.UpsertProductBySlug("widget", &ProductPatch{
		Title: strPtr("Widget"),
	})
	require.NoError(t, err)
	require.True(t, existed)

	reloaded, err := service.GetProductBySlug("widget")
	require.NoError(t, err)
	assert.Nil(t, reloaded.CategoryID)
}

func TestCategoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	service := NewCatalogService(db)

	category, err := service.CreateCategory("Pet Supplies", "")
	require.NoError(t, err)
	assert.Equal(t, "pet-supplies", category.Slug)

	_, err = service.CreateCategory("Pet Supplies", "")
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := service.UpdateCategory(category.ID, "Pets", "")
	require.NoError(t, err)
	assert.Equal(t, "pets", updated.Slug)

	require.NoError(t, service.DeleteCategory(category.ID))
	assert.ErrorIs(t, service.DeleteCategory(category.ID), ErrNotFound)
}
