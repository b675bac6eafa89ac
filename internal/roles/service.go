package roles

import (
	"context"

	"github.com/globomantics/inventory-backend/pkg/db"
	"github.com/globomantics/inventory-backend/pkg/db/models"
	"github.com/globomantics/inventory-backend/pkg/errors"
	"github.com/globomantics/inventory-backend/pkg/logger"
	"github.com/globomantics/inventory-backend/pkg/pagination"
)

// Service manages the role catalog.
type Service struct {
	client *db.Client
	repo   *Repository
	logg   *logger.Logger
}

func NewService(client *db.Client, logg *logger.Logger) *Service {
	return &Service{
		client: client,
		repo:   NewRepository(client.DB()),
		logg:   logg,
	}
}

// Create defines a new role. Duplicate names conflict, including the case
// where a concurrent insert wins the race after the pre-check.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Response, error) {
	role := &models.Role{Name: req.Name, Description: req.Description}
	if err := s.repo.Create(ctx, role); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, errors.DuplicateKey("role", "name", req.Name)
		}
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"role_id": role.ID, "name": role.Name}),
		"role created")
	return toResponse(role), nil
}

// Get returns one role by id.
func (s *Service) Get(ctx context.Context, id uint) (*Response, error) {
	role, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.NotFoundRecord("Role", id)
	}
	return toResponse(role), nil
}

// List returns a page of roles.
func (s *Service) List(ctx context.Context, page pagination.Params) ([]Response, error) {
	items, err := s.repo.List(ctx, page.Normalize())
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// Update applies a partial update to one role.
func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest) (*Response, error) {
	role, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.NotFoundRecord("Role", id)
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = req.Description
	}

	if err := s.repo.Save(ctx, role); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, errors.DuplicateKey("role", "name", role.Name)
		}
		return nil, err
	}
	return toResponse(role), nil
}

// Delete removes a role and its memberships.
func (s *Service) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFoundRecord("Role", id)
	}

	s.logg.Info(s.logg.WithField(ctx, "role_id", id), "role deleted")
	return nil
}
