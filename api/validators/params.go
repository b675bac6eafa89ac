package validators

import (
	"net/http"
	"strconv"

	"github.com/globomantics/inventory-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
)

// ParseIDParam reads a positive integer id from the chi route parameters.
func ParseIDParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(errors.CodeValidation, "path parameter must be a positive integer").
			WithDetails(map[string]any{"field": name})
	}
	return uint(id), nil
}
