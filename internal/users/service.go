package users

import (
	"context"
	"strings"

	"github.com/globomantics/inventory-backend/pkg/config"
	"github.com/globomantics/inventory-backend/pkg/db"
	"github.com/globomantics/inventory-backend/pkg/db/models"
	"github.com/globomantics/inventory-backend/pkg/errors"
	"github.com/globomantics/inventory-backend/pkg/logger"
	"github.com/globomantics/inventory-backend/pkg/pagination"
	"github.com/globomantics/inventory-backend/pkg/security"
	"gorm.io/gorm"
)

// Service manages user accounts and their role assignments.
type Service struct {
	client *db.Client
	repo   *Repository
	pwCfg  config.PasswordConfig
	logg   *logger.Logger
}

func NewService(client *db.Client, pwCfg config.PasswordConfig, logg *logger.Logger) *Service {
	return &Service{
		client: client,
		repo:   NewRepository(client.DB()),
		pwCfg:  pwCfg,
		logg:   logg,
	}
}

// Create registers a user. The duplicate-email check relies on the unique
// index, so a concurrent insert between check and commit still conflicts
// cleanly instead of surfacing a raw constraint error.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Response, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if len(req.RoleIDs) > 0 {
			roles, err := loadRoles(ctx, repo, req.RoleIDs)
			if err != nil {
				return err
			}
			user.Roles = roles
		}

		if err := repo.Create(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "") {
				return errors.DuplicateKey("user", "email", email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "user_id", user.ID), "user created")
	return toResponse(user), nil
}

// Get returns one user with their roles.
func (s *Service) Get(ctx context.Context, id uint) (*Response, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NotFoundRecord("User", id)
	}
	return toResponse(user), nil
}

// List returns a page of users with their roles.
func (s *Service) List(ctx context.Context, page pagination.Params) ([]Response, error) {
	items, err := s.repo.List(ctx, page.Normalize())
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// ReplaceRoles swaps the user's role set for the provided ids. Every id must
// resolve to an existing role or the whole operation fails.
func (s *Service) ReplaceRoles(ctx context.Context, userID uint, req ReplaceRolesRequest) (*Response, error) {
	var out *models.User

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.Get(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return errors.NotFoundRecord("User", userID)
		}

		roles, err := loadRoles(ctx, repo, req.RoleIDs)
		if err != nil {
			return err
		}

		if err := repo.ReplaceRoles(ctx, user, roles); err != nil {
			return err
		}

		user.Roles = roles
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"user_id": userID, "roles": out.RoleNames()}),
		"user roles replaced")
	return toResponse(out), nil
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFoundRecord("User", id)
	}

	s.logg.Info(s.logg.WithField(ctx, "user_id", id), "user deleted")
	return nil
}

func loadRoles(ctx context.Context, repo *Repository, ids []uint) ([]models.Role, error) {
	roles, err := repo.RolesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uint]bool, len(roles))
	for _, role := range roles {
		found[role.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, errors.NotFoundRecord("Role", id)
		}
	}
	return roles, nil
}
