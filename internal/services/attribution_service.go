// internal/services/attribution_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopatlas/affiliate-backend/internal/models"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

// AttributionService records clicks and orders and resolves affiliate
// codes to affiliate rows. Attribution is best-effort: an unknown code
// degrades to a nil affiliate reference instead of failing the event.
type AttributionService struct {
	db *gorm.DB
}

type CreateOrderInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	// No validation tag: a malformed code is just an unresolvable one
	// and resolves to a nil affiliate, never a rejected order.
	AffiliateCode string   `json:"affiliate_code"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	Currency      string   `json:"currency" validate:"omitempty,max=10"`
}

type CreateAffiliateInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"omitempty,affiliate_code"`
}

func NewAttributionService(db *gorm.DB) *AttributionService {
	return &AttributionService{db: db}
}

// ResolveAffiliateCode maps a partner code to an affiliate id, returning
// nil for empty or unknown codes.
func (s *AttributionService) ResolveAffiliateCode(code string) *uint {
	if code == "" {
		return nil
	}

	var affiliate models.Affiliate
	if err := s.db.Where("code = ?", code).First(&affiliate).Error; err != nil {
		return nil
	}
	return &affiliate.ID
}

func (s *AttributionService) LogClick(productID uint, affiliateCode, referrer string) (*models.Click, error) {
	click := &models.Click{
		ProductID:   productID,
		AffiliateID: s.ResolveAffiliateCode(affiliateCode),
		Referrer:    referrer,
	}

	if err := s.db.Create(click).Error; err != nil {
		return nil, fmt.Errorf("failed to log click: %w", err)
	}
	return click, nil
}

// CreateOrder records an order against an existing product. Price and
// currency are snapshotted from the product when the caller omits them,
// so later product edits never rewrite order history.
func (s *AttributionService) CreateOrder(input *CreateOrderInput) (*models.Order, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, input.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	price := product.Price
	if input.Price != nil {
		price = *input.Price
	}

	currency := input.Currency
	if currency == "" {
		currency = product.Currency
	}
	if currency == "" {
		currency = "USD"
	}

	order := &models.Order{
		ProductID:   input.ProductID,
		AffiliateID: s.ResolveAffiliateCode(input.AffiliateCode),
		Price:       price,
		Currency:    currency,
		Status:      models.OrderStatusCreated,
	}

	if err := s.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

// Affiliates

func (s *AttributionService) ListAffiliates() ([]models.Affiliate, error) {
	var affiliates []models.Affiliate
	if err := s.db.Order("created_at DESC").Find(&affiliates).Error; err != nil {
		return nil, fmt.Errorf("failed to list affiliates: %w", err)
	}
	return affiliates, nil
}

func (s *AttributionService) CreateAffiliate(input *CreateAffiliateInput) (*models.Affiliate, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	code := input.Code
	if code == "" {
		generated, err := utils.GenerateAffiliateCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate affiliate code: %w", err)
		}
		code = generated
	}

	affiliate := &models.Affiliate{Name: input.Name, Code: code}
	if err := s.db.Create(affiliate).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("affiliate code %q: %w", code, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create affiliate: %w", err)
	}
	return affiliate, nil
}
