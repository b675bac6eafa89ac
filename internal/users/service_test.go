package users

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

// testPasswordConfig keeps argon2 cheap so the suite stays fast.
func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) (*Service, *db.Client) {
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
	return NewService(client, testPasswordConfig(), logg), client
}

func mustCreateRole(t *testing.T, client *db.Client, name string) *models.Role {
	t.Helper()
	role := &models.Role{Name: name}
	if err := client.DB().Create(role).Error; err != nil {
		t.Fatalf("create role %s: %v", name, err)
	}
	return role
}

func TestCreateNormalizesEmailAndAssignsRoles(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	admin := mustCreateRole(t, client, "admin")

	created, err := svc.Create(ctx, CreateRequest{
		Email:     "  Jamie.Rivera@Globomantics.com ",
		FirstName: "Jamie",
		LastName:  "Rivera",
		Password:  "correct horse battery",
		RoleIDs:   []uint{admin.ID},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.Email != "jamie.rivera@globomantics.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if len(created.Roles) != 1 || created.Roles[0] != "admin" {
		t.Fatalf("expected admin role, got %v", created.Roles)
	}

	// The stored hash must not be the raw password.
	var user models.User
	if err := client.DB().First(&user, created.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user.PasswordHash == "correct horse battery" || user.PasswordHash == "" {
		t.Fatalf("password was not hashed")
	}
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := CreateRequest{
		Email:     "dup@globomantics.com",
		FirstName: "First",
		LastName:  "User",
		Password:  "password-one",
	}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Same address with different casing still conflicts.
	req.Email = "DUP@globomantics.com"
	_, err := svc.Create(ctx, req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestCreateWithUnknownRoleFails(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	admin := mustCreateRole(t, client, "admin")

	_, err := svc.Create(ctx, CreateRequest{
		Email:     "norole@globomantics.com",
		FirstName: "No",
		LastName:  "Role",
		Password:  "password-one",
		RoleIDs:   []uint{admin.ID, admin.ID + 999},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing role, got %v", err)
	}

	// The failed transaction must not leave a partial user behind.
	items, err := svc.List(ctx, pagination.Params{})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no users after rollback, got %d", len(items))
	}
}

func TestReplaceRoles(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	admin := mustCreateRole(t, client, "admin")
	manager := mustCreateRole(t, client, "inventory_manager")

	created, err := svc.Create(ctx, CreateRequest{
		Email:     "roles@globomantics.com",
		FirstName: "Role",
		LastName:  "Holder",
		Password:  "password-one",
		RoleIDs:   []uint{admin.ID},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	t.Run("swaps the set", func(t *testing.T) {
		updated, err := svc.ReplaceRoles(ctx, created.ID, ReplaceRolesRequest{RoleIDs: []uint{manager.ID}})
		if err != nil {
			t.Fatalf("replace roles: %v", err)
		}
		if len(updated.Roles) != 1 || updated.Roles[0] != "inventory_manager" {
			t.Fatalf("expected inventory_manager only, got %v", updated.Roles)
		}
	})

	t.Run("unknown role fails atomically", func(t *testing.T) {
		_, err := svc.ReplaceRoles(ctx, created.ID, ReplaceRolesRequest{
			RoleIDs: []uint{admin.ID, manager.ID + 999},
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}

		current, err := svc.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get user: %v", err)
		}
		if len(current.Roles) != 1 || current.Roles[0] != "inventory_manager" {
			t.Fatalf("role set must be unchanged, got %v", current.Roles)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.ReplaceRoles(ctx, created.ID+999, ReplaceRolesRequest{RoleIDs: []uint{admin.ID}})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
	})
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{
		Email:     "gone@globomantics.com",
		FirstName: "Soon",
		LastName:  "Gone",
		Password:  "password-one",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	err = svc.Delete(ctx, created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND on second delete, got %v", err)
	}
}
