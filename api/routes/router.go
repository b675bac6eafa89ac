package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/globomantics/inventory-backend/api/controllers"
	"github.com/globomantics/inventory-backend/api/middleware"
	authsvc "github.com/globomantics/inventory-backend/internal/auth"
	"github.com/globomantics/inventory-backend/internal/inventory"
	"github.com/globomantics/inventory-backend/internal/locations"
	"github.com/globomantics/inventory-backend/internal/products"
	"github.com/globomantics/inventory-backend/internal/roles"
	"github.com/globomantics/inventory-backend/internal/users"
	"github.com/globomantics/inventory-backend/pkg/config"
	"github.com/globomantics/inventory-backend/pkg/db"
	"github.com/globomantics/inventory-backend/pkg/logger"
	"github.com/globomantics/inventory-backend/pkg/metrics"
	"github.com/globomantics/inventory-backend/pkg/redis"
)

// Services bundles the domain services the router depends on.
type Services struct {
	Auth      *authsvc.Service
	Products  *products.Service
	Locations *locations.Service
	Inventory *inventory.Service
	Users     *users.Service
	Roles     *roles.Service
}

// inventoryRoles is the set allowed to read and mutate stock. Any one of them
// is sufficient.
var inventoryRoles = []string{"admin", "inventory_manager"}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTP,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Versioning(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateLimitStore(redisClient), logg)).
			Post("/token", controllers.AuthToken(svcs.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Products, logg))
			r.Post("/", controllers.ProductCreate(svcs.Products, logg))
			r.Get("/{productID}", controllers.ProductGet(svcs.Products, logg))
			r.Put("/{productID}", controllers.ProductUpdate(svcs.Products, logg))
			r.With(middleware.RequireRoles(logg, "admin")).
				Delete("/{productID}", controllers.ProductDelete(svcs.Products, logg))
		})

		r.Route("/v1/locations", func(r chi.Router) {
			r.Get("/", controllers.LocationList(svcs.Locations, logg))
			r.Post("/", controllers.LocationCreate(svcs.Locations, logg))
			r.Get("/{locationID}", controllers.LocationGet(svcs.Locations, logg))
			r.Get("/{locationID}/stock", controllers.LocationStock(svcs.Locations, logg))
			r.Put("/{locationID}", controllers.LocationUpdate(svcs.Locations, logg))
			r.With(middleware.RequireRoles(logg, "admin")).
				Delete("/{locationID}", controllers.LocationDelete(svcs.Locations, logg))
		})

		r.Route("/v1/inventory", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, inventoryRoles...))
			r.Get("/by-product/{productID}", controllers.InventoryByProduct(svcs.Inventory, logg))
			r.Get("/by-location/{locationID}", controllers.InventoryByLocation(svcs.Inventory, logg))
			r.Get("/low-stock", controllers.InventoryLowStock(svcs.Inventory, logg))
			r.Get("/total/{productID}", controllers.InventoryTotal(svcs.Inventory, logg))
			r.Put("/", controllers.InventoryUpdate(svcs.Inventory, logg))
		})

		r.Route("/v2/inventory", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, inventoryRoles...))
			r.Put("/", controllers.InventoryUpdateV2(svcs.Inventory, logg))
		})

		r.Route("/v1/users", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, "admin"))
			r.Get("/", controllers.UserList(svcs.Users, logg))
			r.Post("/", controllers.UserCreate(svcs.Users, logg))
			r.Get("/{userID}", controllers.UserGet(svcs.Users, logg))
			r.Put("/{userID}/roles", controllers.UserReplaceRoles(svcs.Users, logg))
			r.Delete("/{userID}", controllers.UserDelete(svcs.Users, logg))
		})

		r.Route("/v1/roles", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, "admin"))
			r.Get("/", controllers.RoleList(svcs.Roles, logg))
			r.Post("/", controllers.RoleCreate(svcs.Roles, logg))
			r.Get("/{roleID}", controllers.RoleGet(svcs.Roles, logg))
			r.Put("/{roleID}", controllers.RoleUpdate(svcs.Roles, logg))
			r.Delete("/{roleID}", controllers.RoleDelete(svcs.Roles, logg))
		})
	})

	return r
}

// rateLimitStore hides the typed-nil pitfall: a nil *redis.Client must arrive
// at the middleware as a nil interface so the limiter disables itself.
func rateLimitStore(client *redis.Client) middleware.RateLimiterStore {
	if client == nil {
		return nil
	}
	return client
}
