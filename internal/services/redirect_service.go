// internal/services/redirect_service.go
package services

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// RedirectService computes the outbound affiliate URL for a product and
// logs the click that led there.
type RedirectService struct {
	catalog     *CatalogService
	attribution *AttributionService
}

func NewRedirectService(catalog *CatalogService, attribution *AttributionService) *RedirectService {
	return &RedirectService{
		catalog:     catalog,
		attribution: attribution,
	}
}

// Resolve looks up the product by slug and substitutes the affiliate
// code into its URL template. Without a code the template is returned
// as-is, literal placeholder included. Every resolution logs a click.
func (s *RedirectService) Resolve(productSlug, affiliateCode, referrer string) (string, error) {
	product, err := s.catalog.GetProductBySlug(productSlug)
	if err != nil {
		return "", err
	}

	target := product.AffiliateURLTemplate
	if target == "" {
		target = "#"
	}
	if affiliateCode != "" {
		target = strings.ReplaceAll(target, affiliateCodePlaceholder, affiliateCode)
	}

	if _, err := s.attribution.LogClick(product.ID, affiliateCode, referrer); err != nil {
		// The redirect still works without the click row; don't block it
		logrus.WithError(err).WithField("product_id", product.ID).Warn("Failed to log redirect click")
	}

	return target, nil
}
