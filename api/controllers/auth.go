package controllers

import (
	"net/http"

	"github.com/globomantics/inventory-backend/api/responses"
	"github.com/globomantics/inventory-backend/api/validators"
	"github.com/globomantics/inventory-backend/internal/auth"
	"github.com/globomantics/inventory-backend/pkg/logger"
)

// AuthToken exchanges credentials for an access token.
func AuthToken(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, token)
	}
}
