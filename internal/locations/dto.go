package locations

import (
	"github.com/globomantics/inventory-backend/pkg/db/models"
	"github.com/globomantics/inventory-backend/pkg/pagination"
)

// CreateRequest is the payload for registering a storage location.
type CreateRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Address  string `json:"address" validate:"required,min=5,max=200"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
}

// UpdateRequest carries a partial location update. Nil fields are untouched.
type UpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Address  *string `json:"address" validate:"omitempty,min=5,max=200"`
	Capacity *int    `json:"capacity" validate:"omitempty,gt=0"`
}

// ListFilter narrows a location listing.
type ListFilter struct {
	Search          string
	WithStockCounts bool
	Page            pagination.Params
}

// Response is the public location payload. TotalStock is only populated on the
// stock-count views.
type Response struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Capacity   int    `json:"capacity"`
	TotalStock *int   `json:"total_stock,omitempty"`
}

func toResponse(location *models.Location) *Response {
	return &Response{
		ID:       location.ID,
		Name:     location.Name,
		Address:  location.Address,
		Capacity: location.Capacity,
	}
}

func toResponses(items []models.Location) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, *toResponse(&items[i]))
	}
	return out
}
