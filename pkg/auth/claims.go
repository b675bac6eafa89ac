package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uint
	Email     string
	FirstName string
	LastName  string
	Roles     []string
	JTI       string

	// TTLMinutes overrides the configured expiration when non-nil. A zero
	// value produces a token that is already expired, which some tests rely on.
	TTLMinutes *int
}

// AccessTokenClaims represents the typed JWT issued to clients. The subject
// carries the user id as a string; email, names, and roles ride alongside the
// registered claims.
type AccessTokenClaims struct {
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}
