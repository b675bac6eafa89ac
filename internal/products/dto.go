package products

import (
	"github.com/globomantics/inventory-backend/pkg/db/models"
	"github.com/globomantics/inventory-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// CreateRequest is the payload for registering a new catalog entry.
type CreateRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	Description *string         `json:"description"`
	SKU         string          `json:"sku" validate:"required,min=5,max=9"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}

// UpdateRequest carries a partial product update. Nil fields are untouched.
type UpdateRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description"`
	SKU         *string          `json:"sku" validate:"omitempty,min=5,max=9"`
	Price       *decimal.Decimal `json:"price"`
}

// ListFilter narrows a product listing.
type ListFilter struct {
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     pagination.Params
}

// Response is the public product payload.
type Response struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
}

func toResponse(product *models.Product) *Response {
	return &Response{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		SKU:         product.SKU,
		Price:       product.Price,
	}
}

func toResponses(items []models.Product) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, *toResponse(&items[i]))
	}
	return out
}
