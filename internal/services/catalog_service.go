// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shopatlas/affiliate-backend/internal/models"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

// CatalogService owns categories and products. Product slugs are always
// derived from the title, never settable directly, so re-ingesting a
// feed with stable titles hits the same rows.
type CatalogService struct {
	db *gorm.DB
}

type ProductInput struct {
	Title                string  `json:"title" validate:"required,max=255"`
	Description          string  `json:"description"`
	Price                float64 `json:"price" validate:"gte=0"`
	Currency             string  `json:"currency" validate:"omitempty,max=10"`
	ImageURL             string  `json:"image_url"`
	CategoryName         string  `json:"category_name"`
	AffiliateURLTemplate string  `json:"affiliate_url_template"`
	Active               bool    `json:"active"`
}

// ProductPatch carries the field set for an upsert. Nil pointers mean
// the source record did not provide the field; on update those fall
// back to the record-level defaults, not the existing row (category is
// cleared, active stays true), matching feed re-ingestion semantics.
type ProductPatch struct {
	Title                *string
	Description          *string
	Price                *float64
	Currency             *string
	ImageURL             *string
	CategoryName         *string
	AffiliateURLTemplate *string
	Active               *bool
}

type ProductListParams struct {
	utils.PaginationParams
	ActiveOnly bool
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Categories

func (s *CatalogService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CatalogService) CreateCategory(name, slug string) (*models.Category, error) {
	if slug == "" {
		slug = utils.Slugify(name)
	}

	category := &models.Category{Name: name, Slug: slug}
	if err := s.db.Create(category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("category slug %q: %w", slug, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(id uint, name, slug string) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if slug == "" {
		slug = utils.Slugify(name)
	}

	updates := map[string]interface{}{"name": name, "slug": slug}
	if err := s.db.Model(category).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("category slug %q: %w", slug, ErrConflict)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(id uint) error {
	result := s.db.Delete(&models.Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// resolveCategory finds or creates a category by the normalized slug of
// its name and returns its id. Runs inside the caller's transaction so a
// product write never leaves a dangling half-created pair.
func (s *CatalogService) resolveCategory(tx *gorm.DB, categoryName string) (*uint, error) {
	if categoryName == "" {
		return nil, nil
	}

	slug := utils.Slugify(categoryName)

	var category models.Category
	err := tx.Where("slug = ?", slug).First(&category).Error
	if err == nil {
		return &category.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	category = models.Category{Name: categoryName, Slug: slug}
	if err := tx.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category.ID, nil
}

// Products

func (s *CatalogService) ListProducts(params ProductListParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Category")

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if params.Category != "" {
		query = query.Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", params.Category)
	}

	if params.ActiveOnly {
		query = query.Where("products.active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order("products.created_at DESC")
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *CatalogService) GetProductBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *CatalogService) CreateProduct(input *ProductInput) (*models.Product, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slug := utils.Slugify(input.Title)
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	product := &models.Product{
		Title:                input.Title,
		Slug:                 slug,
		Description:          input.Description,
		Price:                input.Price,
		Currency:             currency,
		ImageURL:             input.ImageURL,
		AffiliateURLTemplate: input.AffiliateURLTemplate,
		Active:               input.Active,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		categoryID, err := s.resolveCategory(tx, input.CategoryName)
		if err != nil {
			return err
		}
		product.CategoryID = categoryID

		if err := tx.Create(product).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("product slug %q: %w", slug, ErrConflict)
			}
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (s *CatalogService) UpdateProduct(id uint, input *ProductInput) (*models.Product, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	slug := utils.Slugify(input.Title)
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		categoryID, err := s.resolveCategory(tx, input.CategoryName)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"title":                  input.Title,
			"slug":                   slug,
			"description":            input.Description,
			"price":                  input.Price,
			"currency":               currency,
			"image_url":              input.ImageURL,
			"category_id":            categoryID,
			"affiliate_url_template": input.AffiliateURLTemplate,
			"active":                 input.Active,
		}

		if err := tx.Model(product).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("product slug %q: %w", slug, ErrConflict)
			}
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (s *CatalogService) DeleteProduct(id uint) error {
	result := s.db.Delete(&models.Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertProductBySlug updates the product with the given slug, creating
// it when absent. The returned flag reports whether the row already
// existed, so callers can keep created/updated tallies.
func (s *CatalogService) UpsertProductBySlug(slug string, patch *ProductPatch) (*models.Product, bool, error) {
	var existing models.Product
	err := s.db.Where("slug = ?", slug).First(&existing).Error

	switch {
	case err == nil:
		product, uerr := s.applyPatch(&existing, patch)
		return product, true, uerr

	case errors.Is(err, gorm.ErrRecordNotFound):
		product, cerr := s.createFromPatch(slug, patch)
		return product, false, cerr

	default:
		return nil, false, fmt.Errorf("database error: %w", err)
	}
}

func (s *CatalogService) applyPatch(product *models.Product, patch *ProductPatch) (*models.Product, error) {
	updates := map[string]interface{}{}

	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Currency != nil {
		updates["currency"] = *patch.Currency
	}
	if patch.ImageURL != nil {
		updates["image_url"] = *patch.ImageURL
	}
	if patch.AffiliateURLTemplate != nil {
		updates["affiliate_url_template"] = *patch.AffiliateURLTemplate
	}
	if patch.Active != nil {
		updates["active"] = *patch.Active
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// A patch without a category clears the product's category; feed
		// records are the source of truth for their own field set.
		categoryName := ""
		if patch.CategoryName != nil {
			categoryName = *patch.CategoryName
		}
		categoryID, err := s.resolveCategory(tx, categoryName)
		if err != nil {
			return err
		}
		updates["category_id"] = categoryID

		if err := tx.Model(product).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (s *CatalogService) createFromPatch(slug string, patch *ProductPatch) (*models.Product, error) {
	title := slug
	if patch.Title != nil {
		title = *patch.Title
	}

	input := &ProductInput{
		Title:    title,
		Currency: "USD",
		Active:   true,
	}
	if patch.Description != nil {
		input.Description = *patch.Description
	}
	if patch.Price != nil {
		input.Price = *patch.Price
	}
	if patch.Currency != nil {
		input.Currency = *patch.Currency
	}
	if patch.ImageURL != nil {
		input.ImageURL = *patch.ImageURL
	}
	if patch.CategoryName != nil {
		input.CategoryName = *patch.CategoryName
	}
	if patch.AffiliateURLTemplate != nil {
		input.AffiliateURLTemplate = *patch.AffiliateURLTemplate
	}
	if patch.Active != nil {
		input.Active = *patch.Active
	} else {
		input.Active = true
	}

	product := &models.Product{
		Title:                input.Title,
		Slug:                 slug,
		Description:          input.Description,
		Price:                input.Price,
		Currency:             input.Currency,
		ImageURL:             input.ImageURL,
		AffiliateURLTemplate: input.AffiliateURLTemplate,
		Active:               input.Active,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		categoryID, err := s.resolveCategory(tx, input.CategoryName)
		if err != nil {
			return err
		}
		product.CategoryID = categoryID

		if err := tx.Create(product).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("product slug %q: %w", slug, ErrConflict)
			}
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}
