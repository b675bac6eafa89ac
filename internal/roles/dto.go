package roles

import "github.com/globomantics/inventory-backend/pkg/db/models"

// CreateRequest is the payload for defining a role.
type CreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=50"`
	Description *string `json:"description"`
}

// UpdateRequest carries a partial role update. Nil fields are untouched.
type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description"`
}

// Response is the public role payload.
type Response struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func toResponse(role *models.Role) *Response {
	return &Response{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
	}
}

func toResponses(items []models.Role) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, *toResponse(&items[i]))
	}
	return out
}
