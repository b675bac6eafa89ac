package inventory

import (
	"context"
	"testing"

	pkgerrors "github.com/globomantics/inventory-backend/pkg/errors"
)

func assertInsufficientStock(t *testing.T, err error, requested, available int) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected domain error, got %v", err)
	}
	if typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %s", typed.Code())
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected detail map, got %T", typed.Details())
	}
	if details["requested"] != requested {
		t.Fatalf("expected requested=%d, got %v", requested, details["requested"])
	}
	if details["available"] != available {
		t.Fatalf("expected available=%d, got %v", available, details["available"])
	}
}

func assertNotFound(t *testing.T, err error, recordType string) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for %s, got %v", recordType, err)
	}
}

func TestAdjustStockCreatesRecordOnDemand(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "WID-10001")
	location := mustCreateLocation(t, client, "Main Warehouse")

	record, err := svc.AdjustStock(ctx, product.ID, location.ID, 5, nil)
	if err != nil {
		t.Fatalf("adjust stock: %v", err)
	}
	if record.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", record.Quantity)
	}
	if record.ReorderPoint != 0 {
		t.Fatalf("expected reorder point 0 on create, got %d", record.ReorderPoint)
	}
}

func TestAdjustStockRejectsNegativeDeltaOnAbsentRecord(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "WID-10002")
	location := mustCreateLocation(t, client, "Main Warehouse")

	_, err := svc.AdjustStock(ctx, product.ID, location.ID, -5, nil)
	assertInsufficientStock(t, err, -5, 0)

	// Zero is non-positive too: it cannot create a record.
	_, err = svc.AdjustStock(ctx, product.ID, location.ID, 0, nil)
	assertInsufficientStock(t, err, 0, 0)
}

func TestAdjustStockNeverGoesNegative(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "WID-10003")
	location := mustCreateLocation(t, client, "Main Warehouse")

	if _, err := svc.AdjustStock(ctx, product.ID, location.ID, 10, nil); err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	_, err := svc.AdjustStock(ctx, product.ID, location.ID, -11, nil)
	assertInsufficientStock(t, err, -11, 10)

	// The failed adjustment must not have touched the row.
	record, err := svc.repo.Get(ctx, product.ID, location.ID)
	if err != nil {
		t.Fatalf("reload record: %v", err)
	}
	if record.Quantity != 10 {
		t.Fatalf("expected quantity 10 after failed adjustment, got %d", record.Quantity)
	}
}

func TestAdjustStockDeltaRoundTrip(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "WID-10004")
	location := mustCreateLocation(t, client, "Main Warehouse")

	if _, err := svc.AdjustStock(ctx, product.ID, location.ID, 30, nil); err != nil {
		t.Fatalf("seed stock: %v", err)
	}
	if _, err := svc.AdjustStock(ctx, product.ID, location.ID, 12, nil); err != nil {
		t.Fatalf("increment: %v", err)
	}
	record, err := svc.AdjustStock(ctx, product.ID, location.ID, -12, nil)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if record.Quantity != 30 {
		t.Fatalf("expected quantity back at 30, got %d", record.Quantity)
	}
}

func TestAdjustStockReorderPointOnlyWhenSupplied(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "WID-10005")
	location := mustCreateLocation(t, client, "Main Warehouse")

	record, err := svc.AdjustStock(ctx, product.ID, location.ID, 10, intPtr(25))
	if err != nil {
		t.Fatalf("seed stock: %v", err)
	}
	if record.ReorderPoint != 25 {
		t.Fatalf("expected reorder point 25, got %d", record.ReorderPoint)
	}

	record, err = svc.AdjustStock(ctx, product.ID, location.ID, 1, nil)
	if err != nil {
		t.Fatalf("adjust without reorder point: %v", err)
	}
	if record.ReorderPoint != 25 {
		t.Fatalf("reorder point must survive omission, got %d", record.ReorderPoint)
	}
}

func TestAdjustStockUnknownParents(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "WID-10006")
	location := mustCreateLocation(t, client, "Main Warehouse")

	_, err := svc.AdjustStock(ctx, product.ID+999, location.ID, 5, nil)
	assertNotFound(t, err, "Product")

	_, err = svc.AdjustStock(ctx, product.ID, location.ID+999, 5, nil)
	assertNotFound(t, err, "Location")
}

func TestSetStockOverwritesAndIsIdempotent(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "WID-10007")
	location := mustCreateLocation(t, client, "Main Warehouse")

	record, err := svc.SetStock(ctx, product.ID, location.ID, 40, intPtr(8))
	if err != nil {
		t.Fatalf("set stock: %v", err)
	}
	if record.Quantity != 40 || record.ReorderPoint != 8 {
		t.Fatalf("unexpected record after set: qty=%d rp=%d", record.Quantity, record.ReorderPoint)
	}

	record, err = svc.SetStock(ctx, product.ID, location.ID, 40, nil)
	if err != nil {
		t.Fatalf("repeat set: %v", err)
	}
	if record.Quantity != 40 || record.ReorderPoint != 8 {
		t.Fatalf("set must be idempotent: qty=%d rp=%d", record.Quantity, record.ReorderPoint)
	}
}

func TestSetStockNegativeQuantityIsSilentlyRefused(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "WID-10008")
	location := mustCreateLocation(t, client, "Main Warehouse")

	record, err := svc.SetStock(ctx, product.ID, location.ID, -1, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil record, got %+v", record)
	}
}

func TestApplyOperation(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "WID-10009")
	location := mustCreateLocation(t, client, "Main Warehouse")

	base := UpdateRequestV2{ProductID: product.ID, LocationID: location.ID}

	t.Run("increment creates the record", func(t *testing.T) {
		req := base
		req.Operation = "INCREMENT"
		req.Value = 15
		item, err := svc.ApplyOperation(ctx, req)
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
		if item.Quantity != 15 {
			t.Fatalf("expected quantity 15, got %d", item.Quantity)
		}
	})

	t.Run("operation parsing is case-insensitive", func(t *testing.T) {
		req := base
		req.Operation = "decrement"
		req.Value = 5
		item, err := svc.ApplyOperation(ctx, req)
		if err != nil {
			t.Fatalf("decrement: %v", err)
		}
		if item.Quantity != 10 {
			t.Fatalf("expected quantity 10, got %d", item.Quantity)
		}
	})

	t.Run("set overwrites", func(t *testing.T) {
		req := base
		req.Operation = "SET"
		req.Value = 3
		item, err := svc.ApplyOperation(ctx, req)
		if err != nil {
			t.Fatalf("set: %v", err)
		}
		if item.Quantity != 3 {
			t.Fatalf("expected quantity 3, got %d", item.Quantity)
		}
	})

	t.Run("decrement below zero fails", func(t *testing.T) {
		req := base
		req.Operation = "DECREMENT"
		req.Value = 4
		_, err := svc.ApplyOperation(ctx, req)
		assertInsufficientStock(t, err, -4, 3)
	})

	t.Run("unknown operation fails validation", func(t *testing.T) {
		req := base
		req.Operation = "MULTIPLY"
		req.Value = 2
		_, err := svc.ApplyOperation(ctx, req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected VALIDATION_ERROR, got %v", err)
		}
	})

	t.Run("negative value fails validation", func(t *testing.T) {
		req := base
		req.Operation = "SET"
		req.Value = -1
		_, err := svc.ApplyOperation(ctx, req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected VALIDATION_ERROR, got %v", err)
		}
	})
}

// The canonical warehouse walkthrough: a fresh laptop SKU gets received into
// the main warehouse, then an oversized pick is rejected without changing the
// ledger.
func TestStockLedgerScenario(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "LAP-10001")
	location := mustCreateLocation(t, client, "Main Warehouse")

	item, err := svc.ApplyDelta(ctx, UpdateRequest{
		ProductID:      product.ID,
		LocationID:     location.ID,
		QuantityChange: 50,
		ReorderPoint:   intPtr(10),
	})
	if err != nil {
		t.Fatalf("receive stock: %v", err)
	}
	if item.Quantity != 50 || item.ReorderPoint != 10 {
		t.Fatalf("unexpected item after receive: qty=%d rp=%d", item.Quantity, item.ReorderPoint)
	}

	reason := "bulk transfer out, approved by warehouse lead"
	_, err = svc.ApplyDelta(ctx, UpdateRequest{
		ProductID:      product.ID,
		LocationID:     location.ID,
		QuantityChange: -999,
		Reason:         &reason,
	})
	assertInsufficientStock(t, err, -999, 50)

	total, err := svc.TotalQuantity(ctx, product.ID)
	if err != nil {
		t.Fatalf("total quantity: %v", err)
	}
	if total.TotalQuantity != 50 {
		t.Fatalf("expected quantity unchanged at 50, got %d", total.TotalQuantity)
	}
}

func TestLowStockIsStrictlyBelowReorderPoint(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	low := mustCreateProduct(t, client, "LOW-10001")
	atPoint := mustCreateProduct(t, client, "LOW-10002")
	location := mustCreateLocation(t, client, "Main Warehouse")

	if _, err := svc.SetStock(ctx, low.ID, location.ID, 2, intPtr(5)); err != nil {
		t.Fatalf("seed low: %v", err)
	}
	if _, err := svc.SetStock(ctx, atPoint.ID, location.ID, 5, intPtr(5)); err != nil {
		t.Fatalf("seed at point: %v", err)
	}

	views, err := svc.LowStock(ctx)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 low-stock row, got %d", len(views))
	}
	if views[0].ProductID != low.ID {
		t.Fatalf("expected product %d, got %d", low.ID, views[0].ProductID)
	}
	if views[0].Quantity != 2 || views[0].ReorderPoint != 5 {
		t.Fatalf("unexpected row: qty=%d rp=%d", views[0].Quantity, views[0].ReorderPoint)
	}
}

func TestByProductAndByLocationViews(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "VIE-10001")
	other := mustCreateProduct(t, client, "VIE-10002")
	main := mustCreateLocation(t, client, "Main Warehouse")
	east := mustCreateLocation(t, client, "East Annex")

	if _, err := svc.SetStock(ctx, product.ID, main.ID, 7, intPtr(10)); err != nil {
		t.Fatalf("seed main: %v", err)
	}
	if _, err := svc.SetStock(ctx, product.ID, east.ID, 0, intPtr(3)); err != nil {
		t.Fatalf("seed east: %v", err)
	}
	if _, err := svc.SetStock(ctx, other.ID, main.ID, 12, nil); err != nil {
		t.Fatalf("seed other: %v", err)
	}

	t.Run("by product", func(t *testing.T) {
		views, err := svc.ByProduct(ctx, product.ID)
		if err != nil {
			t.Fatalf("by product: %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(views))
		}
		byLocation := map[uint]ProductLocationView{}
		for _, v := range views {
			byLocation[v.LocationID] = v
		}
		mainView := byLocation[main.ID]
		if !mainView.InStock || !mainView.NeedsReorder || mainView.LocationName != "Main Warehouse" {
			t.Fatalf("unexpected main view: %+v", mainView)
		}
		eastView := byLocation[east.ID]
		if eastView.InStock || !eastView.NeedsReorder {
			t.Fatalf("unexpected east view: %+v", eastView)
		}
	})

	t.Run("by location", func(t *testing.T) {
		views, err := svc.ByLocation(ctx, main.ID)
		if err != nil {
			t.Fatalf("by location: %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(views))
		}
		for _, v := range views {
			if v.ProductName == "" {
				t.Fatalf("expected product name on view: %+v", v)
			}
		}
	})

	t.Run("unknown parents", func(t *testing.T) {
		_, err := svc.ByProduct(ctx, product.ID+999)
		assertNotFound(t, err, "Product")

		_, err = svc.ByLocation(ctx, main.ID+999)
		assertNotFound(t, err, "Location")
	})
}

func TestTotalQuantityAcrossLocations(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, client, "TOT-10001")
	main := mustCreateLocation(t, client, "Main Warehouse")
	east := mustCreateLocation(t, client, "East Annex")

	if _, err := svc.SetStock(ctx, product.ID, main.ID, 30, nil); err != nil {
		t.Fatalf("seed main: %v", err)
	}
	if _, err := svc.SetStock(ctx, product.ID, east.ID, 12, nil); err != nil {
		t.Fatalf("seed east: %v", err)
	}

	total, err := svc.TotalQuantity(ctx, product.ID)
	if err != nil {
		t.Fatalf("total quantity: %v", err)
	}
	if total.TotalQuantity != 42 {
		t.Fatalf("expected total 42, got %d", total.TotalQuantity)
	}

	_, err = svc.TotalQuantity(ctx, product.ID+999)
	assertNotFound(t, err, "Product")
}
