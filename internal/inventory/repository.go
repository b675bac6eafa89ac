package inventory

import (
	"context"
	"errors"

	"github.com/globomantics/inventory-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository owns persistence for stock records. Mutating helpers expect to be
// called on a transaction-bound copy (see WithTx) so the read-check-write
// sequence stays atomic per (product, location).
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get returns the stock record for the pair, or nil when no row exists (a
// missing row reads as quantity 0 to callers).
func (r *Repository) Get(ctx context.Context, productID, locationID uint) (*models.StockRecord, error) {
	var record models.StockRecord
	err := r.db.WithContext(ctx).
		First(&record, "product_id = ? AND location_id = ?", productID, locationID).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetLocked is Get under SELECT ... FOR UPDATE. On sqlite the lock clause is
// skipped; the single-writer model serializes the transaction anyway.
func (r *Repository) GetLocked(ctx context.Context, productID, locationID uint) (*models.StockRecord, error) {
	tx := r.db.WithContext(ctx)
	if tx.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var record models.StockRecord
	err := tx.First(&record, "product_id = ? AND location_id = ?", productID, locationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new stock record row.
func (r *Repository) Create(ctx context.Context, record *models.StockRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Save overwrites an existing stock record row.
func (r *Repository) Save(ctx context.Context, record *models.StockRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// Delete removes a stock record (administrative use only).
func (r *Repository) Delete(ctx context.Context, productID, locationID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		Delete(&models.StockRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ProductExists reports whether the product row is present.
func (r *Repository) ProductExists(ctx context.Context, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Count(&count).
		Error
	return count > 0, err
}

// LocationExists reports whether the location row is present.
func (r *Repository) LocationExists(ctx context.Context, locationID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("id = ?", locationID).
		Count(&count).
		Error
	return count > 0, err
}

// TotalQuantityByProduct sums the product's quantity across all locations.
func (r *Repository) TotalQuantityByProduct(ctx context.Context, productID uint) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.StockRecord{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("product_id = ?", productID).
		Scan(&total).
		Error
	return total, err
}

// RecordWithLocation is one joined row of the by-product listing.
type RecordWithLocation struct {
	ProductID    uint
	LocationID   uint
	Quantity     int
	ReorderPoint int
	LocationName string
}

// RecordWithProduct is one joined row of the by-location listing.
type RecordWithProduct struct {
	ProductID    uint
	LocationID   uint
	Quantity     int
	ReorderPoint int
	ProductName  string
}

// LowStockRow is one joined row of the low-stock report.
type LowStockRow struct {
	ProductID    uint
	ProductName  string
	ProductSKU   string
	LocationID   uint
	LocationName string
	Quantity     int
	ReorderPoint int
}

// ByProduct returns every stock record for the product joined with its location.
func (r *Repository) ByProduct(ctx context.Context, productID uint) ([]RecordWithLocation, error) {
	var rows []RecordWithLocation
	err := r.db.WithContext(ctx).
		Model(&models.StockRecord{}).
		Select("stock_records.product_id, stock_records.location_id, stock_records.quantity, stock_records.reorder_point, locations.name AS location_name").
		Joins("JOIN locations ON locations.id = stock_records.location_id").
		Where("stock_records.product_id = ?", productID).
		Order("stock_records.location_id").
		Scan(&rows).
		Error
	return rows, err
}

// ByLocation returns every stock record at the location joined with its product.
func (r *Repository) ByLocation(ctx context.Context, locationID uint) ([]RecordWithProduct, error) {
	var rows []RecordWithProduct
	err := r.db.WithContext(ctx).
		Model(&models.StockRecord{}).
		Select("stock_records.product_id, stock_records.location_id, stock_records.quantity, stock_records.reorder_point, products.name AS product_name").
		Joins("JOIN products ON products.id = stock_records.product_id").
		Where("stock_records.location_id = ?", locationID).
		Order("stock_records.product_id").
		Scan(&rows).
		Error
	return rows, err
}

// LowStock returns records strictly below their reorder point joined with both
// parents. No ordering is guaranteed here; sorting is a presentation concern.
func (r *Repository) LowStock(ctx context.Context) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).
		Model(&models.StockRecord{}).
		Select("stock_records.product_id, products.name AS product_name, products.sku AS product_sku, stock_records.location_id, locations.name AS location_name, stock_records.quantity, stock_records.reorder_point").
		Joins("JOIN products ON products.id = stock_records.product_id").
		Joins("JOIN locations ON locations.id = stock_records.location_id").
		Where("stock_records.quantity < stock_records.reorder_point").
		Scan(&rows).
		Error
	return rows, err
}
