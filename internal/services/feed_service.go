// internal/services/feed_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/shopatlas/affiliate-backend/internal/config"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

const affiliateCodePlaceholder = "{affiliate_code}"

// Candidate source keys per target field, evaluated in priority order.
// The order is load-bearing: feeds routinely carry several of these keys
// and the first non-empty one wins.
var (
	titleKeys       = []string{"title", "name", "product_name", "id"}
	priceKeys       = []string{"price", "amount", "price_cents"}
	currencyKeys    = []string{"currency", "ccy"}
	imageKeys       = []string{"image_url", "image", "thumbnail"}
	categoryKeys    = []string{"category", "category_name"}
	descriptionKeys = []string{"description", "summary", "content"}
	buyURLKeys      = []string{"affiliate_url_template", "buy_url", "url"}
	recordListKeys  = []string{"products", "items", "data", "results"}
)

// FeedService ingests external JSON product feeds into the catalog.
// Fetch or parse failures abort the whole import; individual malformed
// records are normalized best-effort and never abort the batch.
type FeedService struct {
	catalog *CatalogService
	client  *resty.Client
}

type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

func NewFeedService(catalog *CatalogService, cfg config.FeedConfig) *FeedService {
	client := resty.New().
		SetTimeout(time.Duration(cfg.FetchTimeout) * time.Second).
		SetHeader("User-Agent", cfg.UserAgent)

	return &FeedService{
		catalog: catalog,
		client:  client,
	}
}

// ImportFromSource fetches a JSON document from an http(s) URL, a
// file:// URL, or a bare filesystem path, and upserts every record into
// the catalog keyed by slug.
func (s *FeedService) ImportFromSource(source string) (*ImportResult, error) {
	result := &ImportResult{}
	if source == "" {
		return result, nil
	}

	root, err := s.loadJSON(source)
	if err != nil {
		return nil, err
	}

	records := extractRecords(root)

	for _, raw := range records {
		item, _ := raw.(map[string]interface{})
		record := normalizeRecord(item)

		_, existed, err := s.catalog.UpsertProductBySlug(record.slug, record.patch)
		if err != nil {
			// Unique races aside, upserts only fail on storage errors;
			// keep going so one bad row cannot sink the batch.
			logrus.WithError(err).WithField("slug", record.slug).Warn("Feed record upsert failed")
			continue
		}

		if existed {
			result.Updated++
		} else {
			result.Created++
		}
	}

	logrus.WithFields(logrus.Fields{
		"source":  source,
		"created": result.Created,
		"updated": result.Updated,
	}).Info("Feed import completed")

	return result, nil
}

func (s *FeedService) loadJSON(source string) (interface{}, error) {
	parsed, _ := url.Parse(source)

	var data []byte
	switch {
	case parsed != nil && (parsed.Scheme == "http" || parsed.Scheme == "https"):
		resp, err := s.client.R().Get(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%w: %s returned status %d", ErrUpstreamFetch, source, resp.StatusCode())
		}
		data = resp.Body()

	case parsed != nil && parsed.Scheme == "file":
		body, err := os.ReadFile(parsed.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
		}
		data = body

	default:
		// Treat anything else as a local filesystem path
		body, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
		}
		data = body
	}

	// UseNumber keeps integer and float literals distinguishable for
	// the price heuristic
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var root interface{}
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrUpstreamFetch, err)
	}
	return root, nil
}

// extractRecords accepts a bare list root, or an object holding the list
// under one of the conventional keys. Anything else yields zero records
// rather than an error.
func extractRecords(root interface{}) []interface{} {
	if list, ok := root.([]interface{}); ok {
		return list
	}

	obj, ok := root.(map[string]interface{})
	if !ok {
		return nil
	}

	for _, key := range recordListKeys {
		if list, ok := obj[key].([]interface{}); ok {
			return list
		}
	}
	return nil
}

type normalizedRecord struct {
	slug  string
	patch *ProductPatch
}

// normalizeRecord maps a heterogeneous feed record onto the catalog
// schema, defaulting every missing field so the record always produces
// a valid product.
func normalizeRecord(item map[string]interface{}) normalizedRecord {
	title := firstString(item, titleKeys)
	if title == "" {
		title = "Untitled"
	}

	price := normalizePrice(firstValue(item, priceKeys))

	currency := firstString(item, currencyKeys)
	if currency == "" {
		currency = "USD"
	}

	slug := stringify(item["slug"])
	if slug == "" {
		slug = utils.Slugify(title)
	}

	template := firstString(item, buyURLKeys)
	if template != "" && !strings.Contains(template, affiliateCodePlaceholder) {
		// Best effort: append the placeholder as a query parameter
		joinChar := "?"
		if strings.Contains(template, "?") {
			joinChar = "&"
		}
		template = template + joinChar + "aff=" + affiliateCodePlaceholder
	}

	description := firstString(item, descriptionKeys)
	imageURL := firstString(item, imageKeys)
	active := true

	patch := &ProductPatch{
		Title:       &title,
		Description: &description,
		Price:       &price,
		Currency:    &currency,
		ImageURL:    &imageURL,
		Active:      &active,
	}

	if category := firstString(item, categoryKeys); category != "" {
		patch.CategoryName = &category
	}
	if template != "" {
		patch.AffiliateURLTemplate = &template
	}

	return normalizedRecord{slug: slug, patch: patch}
}

// normalizePrice parses the raw price value. Strings are parsed as
// floating point (failure means 0). Integer literals above 1000 are
// taken as minor units (cents) and divided by 100; float literals are
// always major units, even when whole.
func normalizePrice(raw interface{}) float64 {
	switch v := raw.(type) {
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return parsed
	case json.Number:
		if i, err := v.Int64(); err == nil {
			if i > 1000 {
				return float64(i) / 100.0
			}
			return float64(i)
		}
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		return parsed
	case float64:
		return v
	default:
		return 0
	}
}

// firstValue returns the first non-empty value among the candidate keys.
func firstValue(item map[string]interface{}, keys []string) interface{} {
	for _, key := range keys {
		value, ok := item[key]
		if !ok || value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		if n, ok := value.(json.Number); ok {
			if f, err := n.Float64(); err == nil && f == 0 {
				continue
			}
		}
		if f, ok := value.(float64); ok && f == 0 {
			continue
		}
		return value
	}
	return nil
}

func firstString(item map[string]interface{}, keys []string) string {
	return stringify(firstValue(item, keys))
}

// stringify renders a scalar JSON value as a string. Numeric ids come
// through feeds as JSON numbers and keep their literal form.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
