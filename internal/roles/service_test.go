package roles

import (
	"context"
	"fmt"
	"testing"

	"github.com/globomantics/inventory-backend/pkg/config"
	"github.com/globomantics/inventory-backend/pkg/db"
	"github.com/globomantics/inventory-backend/pkg/db/models"
	pkgerrors "github.com/globomantics/inventory-backend/pkg/errors"
	"github.com/globomantics/inventory-backend/pkg/logger"
	"github.com/globomantics/inventory-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := client.DB().AutoMigrate(&models.Role{}, &models.User{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	return NewService(client, logg)
}

func TestRoleCRUD(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	desc := "Full system access"
	created, err := svc.Create(ctx, CreateRequest{Name: "admin", Description: &desc})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	if created.Name != "admin" {
		t.Fatalf("unexpected role: %+v", created)
	}

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{Name: "admin"})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("expected CONFLICT, got %v", err)
		}
	})

	t.Run("rename collision conflicts", func(t *testing.T) {
		other, err := svc.Create(ctx, CreateRequest{Name: "inventory_manager"})
		if err != nil {
			t.Fatalf("create second role: %v", err)
		}

		name := "admin"
		_, err = svc.Update(ctx, other.ID, UpdateRequest{Name: &name})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("expected CONFLICT, got %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		items, err := svc.List(ctx, pagination.Params{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 roles, got %d", len(items))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := svc.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		_, err := svc.Get(ctx, created.ID)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
	})
}
