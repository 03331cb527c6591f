package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopatlas/affiliate-backend/internal/models"
)

func TestResolveAffiliateCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewAttributionService(db)

	affiliate, err := service.CreateAffiliate(&CreateAffiliateInput{Name: "Partner One", Code: "PARTNER1"})
	require.NoError(t, err)

	resolved := service.ResolveAffiliateCode("PARTNER1")
	require.NotNil(t, resolved)
	assert.Equal(t, affiliate.ID, *resolved)

	assert.Nil(t, service.ResolveAffiliateCode(""))
	assert.Nil(t, service.ResolveAffiliateCode("UNKNOWN"))
}

func TestLogClick(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	service := NewAttributionService(db)

	product, err := catalog.CreateProduct(&ProductInput{Title: "Tracked Product", Active: true})
	require.NoError(t, err)

	affiliate, err := service.CreateAffiliate(&CreateAffiliateInput{Name: "Partner", Code: "AFF1"})
	require.NoError(t, err)

	click, err := service.LogClick(product.ID, "AFF1", "https://referrer.example")
	require.NoError(t, err)
	require.NotNil(t, click.AffiliateID)
	assert.Equal(t, affiliate.ID, *click.AffiliateID)
	assert.Equal(t, "https://referrer.example", click.Referrer)

	// Unknown codes still record the click, without attribution
	click, err = service.LogClick(product.ID, "BOGUS", "")
	require.NoError(t, err)
	assert.Nil(t, click.AffiliateID)
}

func TestCreateOrderSnapshotsProductPricing(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	service := NewAttributionService(db)

	product, err := catalog.CreateProduct(&ProductInput{
		Title:    "Priced Product",
		Price:    99.50,
		Currency: "EUR",
		Active:   true,
	})
	require.NoError(t, err)

	order, err := service.CreateOrder(&CreateOrderInput{ProductID: product.ID})
	require.NoError(t, err)
	assert.Equal(t, 99.50, order.Price)
	assert.Equal(t, "EUR", order.Currency)
	assert.Equal(t, models.OrderStatusCreated, order.Status)
	assert.Nil(t, order.AffiliateID)

	// Later product edits must not rewrite the recorded order
	_, err = catalog.UpdateProduct(product.ID, &ProductInput{Title: "Priced Product", Price: 150, Active: true})
	require.NoError(t, err)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, 99.50, stored.Price)
}

func TestCreateOrderWithOverridesAndAffiliate(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	service := NewAttributionService(db)

	product, err := catalog.CreateProduct(&ProductInput{Title: "Product", Price: 10, Active: true})
	require.NoError(t, err)

	affiliate, err := service.CreateAffiliate(&CreateAffiliateInput{Name: "Partner", Code: "AFF2"})
	require.NoError(t, err)

	order, err := service.CreateOrder(&CreateOrderInput{
		ProductID:     product.ID,
		AffiliateCode: "AFF2",
		Price:         floatPtr(8.99),
		Currency:      "GBP",
	})
	require.NoError(t, err)
	assert.Equal(t, 8.99, order.Price)
	assert.Equal(t, "GBP", order.Currency)
	require.NotNil(t, order.AffiliateID)
	assert.Equal(t, affiliate.ID, *order.AffiliateID)
}

func TestCreateOrderDegradesOnBadAffiliateCode(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	service := NewAttributionService(db)

	product, err := catalog.CreateProduct(&ProductInput{Title: "Product", Price: 10, Active: true})
	require.NoError(t, err)

	// Unknown but well-formed code
	order, err := service.CreateOrder(&CreateOrderInput{ProductID: product.ID, AffiliateCode: "NOPE"})
	require.NoError(t, err)
	assert.Nil(t, order.AffiliateID)

	// Malformed code, could never name an affiliate
	order, err = service.CreateOrder(&CreateOrderInput{ProductID: product.ID, AffiliateCode: "$$$"})
	require.NoError(t, err)
	assert.Nil(t, order.AffiliateID)
	assert.Equal(t, 10.0, order.Price)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	service := NewAttributionService(db)

	_, err := service.CreateOrder(&CreateOrderInput{ProductID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAffiliate(t *testing.T) {
	db := setupTestDB(t)
	service := NewAttributionService(db)

	// Blank code gets generated
	affiliate, err := service.CreateAffiliate(&CreateAffiliateInput{Name: "Auto Coded"})
	require.NoError(t, err)
	assert.Len(t, affiliate.Code, 8)

	_, err = service.CreateAffiliate(&CreateAffiliateInput{Name: "Duplicate", Code: affiliate.Code})
	assert.ErrorIs(t, err, ErrConflict)

	affiliates, err := service.ListAffiliates()
	require.NoError(t, err)
	assert.Len(t, affiliates, 1)
}
