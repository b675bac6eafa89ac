package inventory

import (
	"strings"
	"time"
)

// OperationType names the explicit stock mutations accepted by the v2 API.
type OperationType string

const (
	OperationIncrement OperationType = "INCREMENT"
	OperationDecrement OperationType = "DECREMENT"
	OperationSet       OperationType = "SET"
)

// ParseOperationType normalizes and validates an operation string.
func ParseOperationType(raw string) (OperationType, bool) {
	switch OperationType(strings.ToUpper(strings.TrimSpace(raw))) {
	case OperationIncrement:
		return OperationIncrement, true
	case OperationDecrement:
		return OperationDecrement, true
	case OperationSet:
		return OperationSet, true
	default:
		return "", false
	}
}

// UpdateRequest is the v1 delta-style stock mutation.
type UpdateRequest struct {
	ProductID      uint    `json:"product_id" validate:"required,gt=0"`
	LocationID     uint    `json:"location_id" validate:"required,gt=0"`
	QuantityChange int     `json:"quantity_change"`
	ReorderPoint   *int    `json:"reorder_point" validate:"omitempty,gte=0"`
	Reason         *string `json:"reason"`
}

// UpdateRequestV2 is the operation-style stock mutation.
type UpdateRequestV2 struct {
	ProductID    uint    `json:"product_id" validate:"required,gt=0"`
	LocationID   uint    `json:"location_id" validate:"required,gt=0"`
	Operation    string  `json:"operation" validate:"required"`
	Value        int     `json:"value"`
	ReorderPoint *int    `json:"reorder_point" validate:"omitempty,gte=0"`
	Reason       *string `json:"reason"`
}

// ItemResponse is the canonical stock record payload returned by mutations.
type ItemResponse struct {
	ProductID    uint      `json:"product_id"`
	LocationID   uint      `json:"location_id"`
	Quantity     int       `json:"quantity"`
	ReorderPoint int       `json:"reorder_point"`
	LastUpdated  time.Time `json:"last_updated"`
}

// ProductLocationView is one row of the by-product listing.
type ProductLocationView struct {
	Quantity     int    `json:"quantity"`
	ReorderPoint int    `json:"reorder_point"`
	LocationName string `json:"location_name"`
	LocationID   uint   `json:"location_id"`
	ProductID    uint   `json:"product_id"`
	InStock      bool   `json:"in_stock"`
	NeedsReorder bool   `json:"needs_reorder"`
}

// LocationProductView is one row of the by-location listing.
type LocationProductView struct {
	Quantity     int    `json:"quantity"`
	ReorderPoint int    `json:"reorder_point"`
	ProductName  string `json:"product_name"`
	ProductID    uint   `json:"product_id"`
	LocationID   uint   `json:"location_id"`
	InStock      bool   `json:"in_stock"`
	NeedsReorder bool   `json:"needs_reorder"`
}

// LowStockView is one row of the low-stock report.
type LowStockView struct {
	ProductID    uint   `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductSKU   string `json:"product_sku"`
	LocationID   uint   `json:"location_id"`
	LocationName string `json:"location_name"`
	Quantity     int    `json:"quantity"`
	ReorderPoint int    `json:"reorder_point"`
}

// TotalQuantityResponse reports a product's aggregate quantity across locations.
type TotalQuantityResponse struct {
	ProductID     uint `json:"product_id"`
	TotalQuantity int  `json:"total_quantity"`
}
