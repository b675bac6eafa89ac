package inventory

import (
	"context"
	"testing"
)

func TestRepositoryAbsentRecordReadsAsNil(t *testing.T) {
	_, client := newTestService(t)
	ctx := context.Background()
	repo := NewRepository(client.DB())

	product := mustCreateProduct(t, client, "REP-10001")
	location := mustCreateLocation(t, client, "Main Warehouse")

	record, err := repo.Get(ctx, product.ID, location.ID)
	if err != nil {
		t.Fatalf("get absent: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil for absent record, got %+v", record)
	}

	record, err = repo.GetLocked(ctx, product.ID, location.ID)
	if err != nil {
		t.Fatalf("get locked absent: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil for absent locked record, got %+v", record)
	}
}

func TestRepositoryDelete(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	repo := NewRepository(client.DB())

	product := mustCreateProduct(t, client, "REP-10002")
	location := mustCreateLocation(t, client, "Main Warehouse")

	if _, err := svc.SetStock(ctx, product.ID, location.ID, 9, nil); err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	deleted, err := repo.Delete(ctx, product.ID, location.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatalf("expected delete to report a removed row")
	}

	record, err := repo.Get(ctx, product.ID, location.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if record != nil {
		t.Fatalf("expected record gone, got %+v", record)
	}

	deleted, err = repo.Delete(ctx, product.ID, location.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Fatalf("second delete must report nothing removed")
	}
}
