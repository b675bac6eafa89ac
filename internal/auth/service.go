package auth

import (
	"context"
	"strings"
	"time"

	"github.com/globomantics/inventory-backend/internal/users"
	"github.com/globomantics/inventory-backend/pkg/auth"
	"github.com/globomantics/inventory-backend/pkg/config"
	"github.com/globomantics/inventory-backend/pkg/db"
	"github.com/globomantics/inventory-backend/pkg/errors"
	"github.com/globomantics/inventory-backend/pkg/logger"
	"github.com/globomantics/inventory-backend/pkg/security"
)

// Service exchanges credentials for access tokens. Unknown email and wrong
// password produce the same outward failure so the endpoint does not leak
// which accounts exist.
type Service struct {
	users  *users.Repository
	jwtCfg config.JWTConfig
	logg   *logger.Logger
	now    func() time.Time
}

func NewService(client *db.Client, jwtCfg config.JWTConfig, logg *logger.Logger) *Service {
	return &Service{
		users:  users.NewRepository(client.DB()),
		jwtCfg: jwtCfg,
		logg:   logg,
		now:    time.Now,
	}
}

// WithClock swaps the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Login verifies the credentials and mints an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalidCredentials()
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, invalidCredentials()
	}

	roles := user.RoleNames()
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     roles,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "minting access token")
	}

	s.logg.Info(s.logg.WithField(ctx, "user_id", user.ID), "user logged in")

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User: UserInToken{
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Roles:     roles,
		},
	}, nil
}

func invalidCredentials() error {
	return errors.New(errors.CodeUnauthorized, "invalid credentials")
}
