package products

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
)

func openTestClient(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := client.DB().AutoMigrate(&models.Product{}, &models.Location{}, &models.StockRecord{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	return NewService(openTestClient(t), logg)
}
