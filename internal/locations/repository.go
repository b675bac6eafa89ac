package locations

import (
	"context"
	"errors"

	"github.com/globomantics/inventory-backend/pkg/db/models"
	"github.com/globomantics/inventory-backend/pkg/pagination"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the location or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// List returns a page of locations ordered by id.
func (r *Repository) List(ctx context.Context, page pagination.Params) ([]models.Location, error) {
	var items []models.Location
	err := r.db.WithContext(ctx).
		Order("id").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&items).
		Error
	return items, err
}

// Search matches the term case-insensitively against name and address.
func (r *Repository) Search(ctx context.Context, term string, page pagination.Params) ([]models.Location, error) {
	pattern := "%" + term + "%"
	var items []models.Location
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)", pattern, pattern).
		Order("id").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&items).
		Error
	return items, err
}

// StockCount sums the quantity stored at one location.
func (r *Repository) StockCount(ctx context.Context, locationID uint) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.StockRecord{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("location_id = ?", locationID).
		Scan(&total).
		Error
	return total, err
}

// StockCounts returns the summed quantity per location for the given ids in a
// single grouped query. Locations without stock are absent from the map.
func (r *Repository) StockCounts(ctx context.Context, locationIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(locationIDs))
	if len(locationIDs) == 0 {
		return counts, nil
	}

	type row struct {
		LocationID uint
		TotalStock int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.StockRecord{}).
		Select("location_id, COALESCE(SUM(quantity), 0) AS total_stock").
		Where("location_id IN ?", locationIDs).
		Group("location_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.LocationID] = r.TotalStock
	}
	return counts, nil
}

func (r *Repository) Create(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *Repository) Save(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// Delete removes the location. Stock records cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Location{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
