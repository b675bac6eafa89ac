package models

import "time"

// StockRecord holds the quantity of one product at one location. At most one
// row exists per (product, location) pair; a missing row reads as quantity 0.
// Quantity never goes negative; the inventory repository enforces that
// invariant inside a row-locked transaction.
type StockRecord struct {
	ProductID    uint      `gorm:"column:product_id;primaryKey" json:"product_id"`
	LocationID   uint      `gorm:"column:location_id;primaryKey" json:"location_id"`
	Quantity     int       `gorm:"column:quantity;not null;default:0" json:"quantity"`
	ReorderPoint int       `gorm:"column:reorder_point;not null;default:0" json:"reorder_point"`
	LastUpdated  time.Time `gorm:"column:last_updated;autoUpdateTime" json:"last_updated"`
}

// TableName keeps the legacy table name used by the migrations.
func (StockRecord) TableName() string {
	return "stock_records"
}
