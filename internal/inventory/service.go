package inventory

import (
	"context"

	"github.com/globomantics/inventory-backend/pkg/db"
	"github.com/globomantics/inventory-backend/pkg/db/models"
	"github.com/globomantics/inventory-backend/pkg/errors"
	"github.com/globomantics/inventory-backend/pkg/logger"
	"gorm.io/gorm"
)

// Service is the stock ledger. Mutations run inside a transaction with the
// stock row locked, so concurrent adjustments on the same (product, location)
// pair serialize and the quantity never goes negative.
type Service struct {
	client *db.Client
	repo   *Repository
	policy ChangePolicy
	logg   *logger.Logger
}

// NewService builds the inventory service with the default change policy.
func NewService(client *db.Client, logg *logger.Logger) *Service {
	return &Service{
		client: client,
		repo:   NewRepository(client.DB()),
		policy: DefaultChangePolicy(),
		logg:   logg,
	}
}

// WithPolicy swaps the change policy. Used by tests and ops tooling.
func (s *Service) WithPolicy(policy ChangePolicy) *Service {
	s.policy = policy
	return s
}

// ApplyDelta handles a v1 delta-style update: the change policy runs first,
// then the adjustment is applied atomically.
func (s *Service) ApplyDelta(ctx context.Context, req UpdateRequest) (*ItemResponse, error) {
	if err := s.policy.ValidateDelta(req.QuantityChange, req.Reason); err != nil {
		return nil, err
	}

	record, err := s.AdjustStock(ctx, req.ProductID, req.LocationID, req.QuantityChange, req.ReorderPoint)
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id":  req.ProductID,
		"location_id": req.LocationID,
		"change":      req.QuantityChange,
		"quantity":    record.Quantity,
	}), "stock adjusted")

	return itemResponse(record), nil
}

// ApplyOperation handles a v2 operation-style update. INCREMENT and DECREMENT
// map onto delta adjustments; SET overwrites the absolute quantity.
func (s *Service) ApplyOperation(ctx context.Context, req UpdateRequestV2) (*ItemResponse, error) {
	op, err := s.policy.ValidateOperation(req.Operation, req.Value)
	if err != nil {
		return nil, err
	}

	var record *models.StockRecord
	switch op {
	case OperationIncrement:
		record, err = s.AdjustStock(ctx, req.ProductID, req.LocationID, req.Value, req.ReorderPoint)
	case OperationDecrement:
		record, err = s.AdjustStock(ctx, req.ProductID, req.LocationID, -req.Value, req.ReorderPoint)
	case OperationSet:
		record, err = s.SetStock(ctx, req.ProductID, req.LocationID, req.Value, req.ReorderPoint)
	}
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id":  req.ProductID,
		"location_id": req.LocationID,
		"operation":   string(op),
		"value":       req.Value,
		"quantity":    record.Quantity,
	}), "stock updated")

	return itemResponse(record), nil
}

// AdjustStock applies a signed delta to the stock of one (product, location)
// pair. A missing record counts as quantity 0: positive deltas create it,
// non-positive deltas fail with InsufficientStock. The reorder point is only
// touched when supplied; new records default it to 0.
func (s *Service) AdjustStock(ctx context.Context, productID, locationID uint, delta int, reorderPoint *int) (*models.StockRecord, error) {
	var out *models.StockRecord

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := checkParents(ctx, repo, productID, locationID); err != nil {
			return err
		}

		record, err := repo.GetLocked(ctx, productID, locationID)
		if err != nil {
			return err
		}

		if record == nil {
			if delta <= 0 {
				return errors.InsufficientStock(productID, locationID, delta, 0)
			}

			record = &models.StockRecord{
				ProductID:    productID,
				LocationID:   locationID,
				Quantity:     delta,
				ReorderPoint: reorderPointOrZero(reorderPoint),
			}
			if createErr := repo.Create(ctx, record); createErr != nil {
				if !db.IsUniqueViolation(createErr, "") {
					return createErr
				}
				// Lost the insert race: another transaction created the row.
				// Re-read under lock and apply the delta as an update.
				record, err = repo.GetLocked(ctx, productID, locationID)
				if err != nil {
					return err
				}
				if record == nil {
					return createErr
				}
				if err := applyDeltaLocked(ctx, repo, record, delta, reorderPoint); err != nil {
					return err
				}
				out = record
				return nil
			}
			out = record
			return nil
		}

		if err := applyDeltaLocked(ctx, repo, record, delta, reorderPoint); err != nil {
			return err
		}
		out = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetStock overwrites the absolute quantity of one (product, location) pair,
// creating the record if needed. A negative quantity is silently refused: the
// method returns (nil, nil), matching the historical contract callers rely on.
func (s *Service) SetStock(ctx context.Context, productID, locationID uint, quantity int, reorderPoint *int) (*models.StockRecord, error) {
	if quantity < 0 {
		return nil, nil
	}

	var out *models.StockRecord

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := checkParents(ctx, repo, productID, locationID); err != nil {
			return err
		}

		record, err := repo.GetLocked(ctx, productID, locationID)
		if err != nil {
			return err
		}

		if record == nil {
			record = &models.StockRecord{
				ProductID:    productID,
				LocationID:   locationID,
				Quantity:     quantity,
				ReorderPoint: reorderPointOrZero(reorderPoint),
			}
			if createErr := repo.Create(ctx, record); createErr != nil {
				if !db.IsUniqueViolation(createErr, "") {
					return createErr
				}
				record, err = repo.GetLocked(ctx, productID, locationID)
				if err != nil {
					return err
				}
				if record == nil {
					return createErr
				}
			} else {
				out = record
				return nil
			}
		}

		record.Quantity = quantity
		if reorderPoint != nil {
			record.ReorderPoint = *reorderPoint
		}
		if err := repo.Save(ctx, record); err != nil {
			return err
		}
		out = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ByProduct lists the product's stock across locations.
func (s *Service) ByProduct(ctx context.Context, productID uint) ([]ProductLocationView, error) {
	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NotFoundRecord("Product", productID)
	}

	rows, err := s.repo.ByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	views := make([]ProductLocationView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ProductLocationView{
			Quantity:     row.Quantity,
			ReorderPoint: row.ReorderPoint,
			LocationName: row.LocationName,
			LocationID:   row.LocationID,
			ProductID:    row.ProductID,
			InStock:      row.Quantity > 0,
			NeedsReorder: row.Quantity < row.ReorderPoint,
		})
	}
	return views, nil
}

// ByLocation lists the location's stock across products.
func (s *Service) ByLocation(ctx context.Context, locationID uint) ([]LocationProductView, error) {
	exists, err := s.repo.LocationExists(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NotFoundRecord("Location", locationID)
	}

	rows, err := s.repo.ByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	views := make([]LocationProductView, 0, len(rows))
	for _, row := range rows {
		views = append(views, LocationProductView{
			Quantity:     row.Quantity,
			ReorderPoint: row.ReorderPoint,
			ProductName:  row.ProductName,
			ProductID:    row.ProductID,
			LocationID:   row.LocationID,
			InStock:      row.Quantity > 0,
			NeedsReorder: row.Quantity < row.ReorderPoint,
		})
	}
	return views, nil
}

// LowStock lists every record strictly below its reorder point.
func (s *Service) LowStock(ctx context.Context) ([]LowStockView, error) {
	rows, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]LowStockView, 0, len(rows))
	for _, row := range rows {
		views = append(views, LowStockView{
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			ProductSKU:   row.ProductSKU,
			LocationID:   row.LocationID,
			LocationName: row.LocationName,
			Quantity:     row.Quantity,
			ReorderPoint: row.ReorderPoint,
		})
	}
	return views, nil
}

// TotalQuantity sums the product's quantity across all locations.
func (s *Service) TotalQuantity(ctx context.Context, productID uint) (*TotalQuantityResponse, error) {
	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NotFoundRecord("Product", productID)
	}

	total, err := s.repo.TotalQuantityByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &TotalQuantityResponse{ProductID: productID, TotalQuantity: total}, nil
}

func checkParents(ctx context.Context, repo *Repository, productID, locationID uint) error {
	exists, err := repo.ProductExists(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFoundRecord("Product", productID)
	}

	exists, err = repo.LocationExists(ctx, locationID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFoundRecord("Location", locationID)
	}
	return nil
}

func applyDeltaLocked(ctx context.Context, repo *Repository, record *models.StockRecord, delta int, reorderPoint *int) error {
	next := record.Quantity + delta
	if next < 0 {
		return errors.InsufficientStock(record.ProductID, record.LocationID, delta, record.Quantity)
	}

	record.Quantity = next
	if reorderPoint != nil {
		record.ReorderPoint = *reorderPoint
	}
	return repo.Save(ctx, record)
}

func reorderPointOrZero(reorderPoint *int) int {
	if reorderPoint == nil {
		return 0
	}
	return *reorderPoint
}

func itemResponse(record *models.StockRecord) *ItemResponse {
	return &ItemResponse{
		ProductID:    record.ProductID,
		LocationID:   record.LocationID,
		Quantity:     record.Quantity,
		ReorderPoint: record.ReorderPoint,
		LastUpdated:  record.LastUpdated,
	}
}
