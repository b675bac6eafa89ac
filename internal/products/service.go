package products

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/globomantics/inventory-backend/pkg/db"
	"github.com/globomantics/inventory-backend/pkg/db/models"
	"github.com/globomantics/inventory-backend/pkg/errors"
	"github.com/globomantics/inventory-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// skuPattern is CATEGORY-NUMBER, e.g. TECH-001. Uppercase only; the service
// stores the SKU uppercased after validation.
var skuPattern = regexp.MustCompile(`^[A-Z]+-\d+$`)

// forbiddenNameChars never appear in a product name.
const forbiddenNameChars = "@#$%&"

// maxPrice caps a single product price.
var maxPrice = decimal.NewFromInt(10000)

// Service manages the product catalog.
type Service struct {
	client *db.Client
	repo   *Repository
	logg   *logger.Logger
}

func NewService(client *db.Client, logg *logger.Logger) *Service {
	return &Service{
		client: client,
		repo:   NewRepository(client.DB()),
		logg:   logg,
	}
}

// Create registers a new product after normalizing the SKU and price.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Response, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	sku, err := normalizeSKU(req.SKU)
	if err != nil {
		return nil, err
	}

	price, err := normalizePrice(req.Price)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		SKU:         sku,
		Price:       price,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, errors.DuplicateKey("product", "sku", sku)
		}
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"product_id": product.ID, "sku": sku}),
		"product created")
	return toResponse(product), nil
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id uint) (*Response, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.NotFoundRecord("Product", id)
	}
	return toResponse(product), nil
}

// List returns a filtered page of products. A search term takes precedence
// over the price range.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Response, error) {
	page := filter.Page.Normalize()

	var (
		items []models.Product
		err   error
	)
	switch {
	case filter.Search != "":
		items, err = s.repo.Search(ctx, filter.Search, page)
	case filter.MinPrice != nil || filter.MaxPrice != nil:
		items, err = s.repo.FilterByPrice(ctx, filter.MinPrice, filter.MaxPrice, page)
	default:
		items, err = s.repo.List(ctx, page)
	}
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// Update applies a partial update to one product.
func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest) (*Response, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.NotFoundRecord("Product", id)
	}

	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.SKU != nil {
		sku, err := normalizeSKU(*req.SKU)
		if err != nil {
			return nil, err
		}
		product.SKU = sku
	}
	if req.Price != nil {
		price, err := normalizePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}

	if err := s.repo.Save(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, errors.DuplicateKey("product", "sku", product.SKU)
		}
		return nil, err
	}
	return toResponse(product), nil
}

// Delete removes a product and, via the schema, its stock records.
func (s *Service) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFoundRecord("Product", id)
	}

	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product deleted")
	return nil
}

func validateName(name string) error {
	if idx := strings.IndexAny(name, forbiddenNameChars); idx >= 0 {
		return errors.New(errors.CodeValidation,
			fmt.Sprintf("name cannot contain special character %q", name[idx])).
			WithDetails(map[string]any{"field": "name"})
	}
	return nil
}

func normalizeSKU(sku string) (string, error) {
	if !skuPattern.MatchString(sku) {
		return "", errors.New(errors.CodeValidation,
			"sku must be in format CATEGORY-NUMBER (e.g. TECH-001)").
			WithDetails(map[string]any{"field": "sku"})
	}
	return strings.ToUpper(sku), nil
}

func normalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	rounded := price.Round(2)
	if !rounded.IsPositive() {
		return decimal.Decimal{}, errors.New(errors.CodeValidation, "price must be greater than zero").
			WithDetails(map[string]any{"field": "price"})
	}
	if rounded.GreaterThan(maxPrice) {
		return decimal.Decimal{}, errors.New(errors.CodeValidation, "price cannot exceed $10,000").
			WithDetails(map[string]any{"field": "price"})
	}
	return rounded, nil
}
