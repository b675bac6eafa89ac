package products

import (
	"context"
	"errors"

	"github.com/globomantics/inventory-backend/pkg/db/models"
	"github.com/globomantics/inventory-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the product or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetBySKU returns the product matching the normalized SKU, or nil.
func (r *Repository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns a page of products ordered by id.
func (r *Repository) List(ctx context.Context, page pagination.Params) ([]models.Product, error) {
	var items []models.Product
	err := r.db.WithContext(ctx).
		Order("id").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&items).
		Error
	return items, err
}

// Search matches the term case-insensitively against name, description and SKU.
func (r *Repository) Search(ctx context.Context, term string, page pagination.Params) ([]models.Product, error) {
	pattern := "%" + term + "%"
	var items []models.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Order("id").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&items).
		Error
	return items, err
}

// FilterByPrice returns products inside the inclusive price range. Either bound
// may be nil.
func (r *Repository) FilterByPrice(ctx context.Context, min, max *decimal.Decimal, page pagination.Params) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if min != nil {
		query = query.Where("price >= ?", *min)
	}
	if max != nil {
		query = query.Where("price <= ?", *max)
	}

	var items []models.Product
	err := query.Order("id").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&items).
		Error
	return items, err
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes the product. Stock records cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
