package models

import "time"

// Location represents a warehouse or storage site.
//
// Capacity is advisory: it is stored and reported but never enforced against
// the stock totals held at the location.
type Location struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null" json:"name"`
	Address   string    `gorm:"column:address;size:200;not null" json:"address"`
	Capacity  int       `gorm:"column:capacity;not null" json:"capacity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`

	StockRecords []StockRecord `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE" json:"-"`
}
