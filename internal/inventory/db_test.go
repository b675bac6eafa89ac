package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/globomantics/inventory-backend/pkg/config"
	"github.com/globomantics/inventory-backend/pkg/db"
	"github.com/globomantics/inventory-backend/pkg/db/models"
	"github.com/globomantics/inventory-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// openTestClient spins up a uniquely named in-memory sqlite database so tests
// never share state.
func openTestClient(t *testing.T) *db.Client {
	t.Helper()

	// A single pooled connection makes concurrent transactions queue instead
	// of tripping sqlite's writer lock.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1}, nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := client.DB().AutoMigrate(
		&models.Product{},
		&models.Location{},
		&models.StockRecord{},
		&models.Role{},
		&models.User{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
}

func newTestService(t *testing.T) (*Service, *db.Client) {
	t.Helper()
	client := openTestClient(t)
	return NewService(client, testLogger()), client
}

func mustCreateProduct(t *testing.T, client *db.Client, sku string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:  "Test Product " + sku,
		SKU:   sku,
		Price: decimal.NewFromFloat(49.99),
	}
	if err := client.DB().Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateLocation(t *testing.T, client *db.Client, name string) *models.Location {
	t.Helper()
	location := &models.Location{
		Name:     name,
		Address:  "123 Storage Ave, Warehouse District",
		Capacity: 5000,
	}
	if err := client.DB().Create(location).Error; err != nil {
		t.Fatalf("create location: %v", err)
	}
	return location
}

func intPtr(v int) *int {
	return &v
}
