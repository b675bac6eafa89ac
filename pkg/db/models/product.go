package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry tracked by the inventory system.
type Product struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"column:name;size:100;not null" json:"name"`
	Description *string         `gorm:"column:description;type:text" json:"description,omitempty"`
	SKU         string          `gorm:"column:sku;size:9;not null;uniqueIndex" json:"sku"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"-"`

	StockRecords []StockRecord `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}
