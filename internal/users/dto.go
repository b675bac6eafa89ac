package users

import "github.com/globomantics/inventory-backend/pkg/db/models"

// CreateRequest is the payload for registering a user account.
type CreateRequest struct {
	Email     string `json:"email" validate:"required,email,max=100"`
	FirstName string `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string `json:"last_name" validate:"required,min=1,max=50"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	RoleIDs   []uint `json:"role_ids"`
}

// ReplaceRolesRequest replaces a user's role set wholesale.
type ReplaceRolesRequest struct {
	RoleIDs []uint `json:"role_ids" validate:"required"`
}

// Response is the public user payload. The password hash never leaves the
// service layer.
type Response struct {
	ID        uint     `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
}

func toResponse(user *models.User) *Response {
	return &Response{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.RoleNames(),
	}
}

func toResponses(items []models.User) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, *toResponse(&items[i]))
	}
	return out
}
