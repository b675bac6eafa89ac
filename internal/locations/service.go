package locations

import (
	"context"

	"github.com/globomantics/inventory-backend/pkg/db"
	"github.com/globomantics/inventory-backend/pkg/db/models"
	"github.com/globomantics/inventory-backend/pkg/errors"
	"github.com/globomantics/inventory-backend/pkg/logger"
)

// Service manages the storage location directory. Capacity is recorded but
// never enforced against stock levels; it is advisory data for planners.
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

// Create registers a new location.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Response, error) {
	location := &models.Location{
		Name:     req.Name,
		Address:  req.Address,
		Capacity: req.Capacity,
	}
	if err := s.repo.Create(ctx, location); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "location_id", location.ID), "location created")
	return toResponse(location), nil
}

// Get returns one location by id.
func (s *Service) Get(ctx context.Context, id uint) (*Response, error) {
	location, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, errors.NotFoundRecord("Location", id)
	}
	return toResponse(location), nil
}

// GetWithStockCount returns one location along with its summed stock.
func (s *Service) GetWithStockCount(ctx context.Context, id uint) (*Response, error) {
	location, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, errors.NotFoundRecord("Location", id)
	}

	total, err := s.repo.StockCount(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toResponse(location)
	resp.TotalStock = &total
	return resp, nil
}

// List returns a filtered page of locations, optionally with stock counts.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Response, error) {
	page := filter.Page.Normalize()

	var (
		items []models.Location
		err   error
	)
	if filter.Search != "" {
		items, err = s.repo.Search(ctx, filter.Search, page)
	} else {
		items, err = s.repo.List(ctx, page)
	}
	if err != nil {
		return nil, err
	}

	responses := toResponses(items)
	if !filter.WithStockCounts || len(items) == 0 {
		return responses, nil
	}

	ids := make([]uint, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}
	counts, err := s.repo.StockCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range responses {
		total := counts[responses[i].ID]
		responses[i].TotalStock = &total
	}
	return responses, nil
}

// Update applies a partial update to one location.
func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest) (*Response, error) {
	location, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, errors.NotFoundRecord("Location", id)
	}

	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.Address != nil {
		location.Address = *req.Address
	}
	if req.Capacity != nil {
		location.Capacity = *req.Capacity
	}

	if err := s.repo.Save(ctx, location); err != nil {
		return nil, err
	}
	return toResponse(location), nil
}

// Delete removes a location and, via the schema, its stock records.
func (s *Service) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFoundRecord("Location", id)
	}

	s.logg.Info(s.logg.WithField(ctx, "location_id", id), "location deleted")
	return nil
}
