package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/felipe25/tienda-backend/api/controllers"
	"github.com/felipe25/tienda-backend/api/middleware"
	"github.com/felipe25/tienda-backend/api/responses"
	checkoutsvc "github.com/felipe25/tienda-backend/internal/checkout"
	"github.com/felipe25/tienda-backend/internal/orders"
	product "github.com/felipe25/tienda-backend/internal/products"
	"github.com/felipe25/tienda-backend/internal/producttypes"
	"github.com/felipe25/tienda-backend/internal/suppliers"
	"github.com/felipe25/tienda-backend/internal/users"
	"github.com/felipe25/tienda-backend/pkg/config"
	pkgerrors "github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/logger"
	"github.com/felipe25/tienda-backend/pkg/metrics"
	pkgredis "github.com/felipe25/tienda-backend/pkg/redis"
)

// Pinger reports backend connectivity for the readiness probe.
type Pinger interface {
	Ping(context.Context) error
}

// Deps carries everything the router mounts. Redis and the metrics
// gatherer are optional; nil disables the surfaces that need them.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Checkout  checkoutsvc.Service
	Orders    orders.Service
	Products  product.Service
	Suppliers suppliers.Service
	Tipos     producttypes.Service
	Users     users.Service

	DB          Pinger
	Redis       *pkgredis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

// New wires the full route table.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	logg := deps.Logger
	cfg := deps.Config

	r.Use(middleware.CORS())
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.Logging(logg, deps.HTTPMetrics))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "ruta no encontrada"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeMethodNotAllowed, "método no permitido"))
	})

	var cachePinger Pinger
	if deps.Redis != nil {
		cachePinger = deps.Redis
	}

	r.Get("/health/live", controllers.HealthLive())
	r.Get("/health/ready", controllers.HealthReady(deps.DB, cachePinger, logg))

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	checkoutMiddleware := make([]func(http.Handler) http.Handler, 0, 2)
	if deps.Redis != nil {
		checkoutMiddleware = append(checkoutMiddleware,
			middleware.RateLimit("checkout", cfg.RateLimit, deps.Redis, logg),
			middleware.Idempotency("checkout", deps.Redis, cfg.Checkout.IdempotencyTTL, logg),
		)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.With(checkoutMiddleware...).Post("/checkout", controllers.Checkout(deps.Checkout, logg))

		api.Get("/orders/history", controllers.OrderHistory(deps.Orders, logg))
		api.Get("/orders/{pedidoID}", controllers.OrderDetail(deps.Orders, logg))

		api.Get("/products", controllers.ListProductos(deps.Products, false, logg))
		api.Get("/products/{id}", controllers.GetProducto(deps.Products, logg))

		api.Get("/suppliers", controllers.ListProveedores(deps.Suppliers, logg))
		api.Get("/categories", controllers.ListCategorias(deps.Suppliers, logg))
		api.Get("/product-types", controllers.ListTipos(deps.Tipos, logg))

		api.Post("/users", controllers.RegisterUser(deps.Users, logg))
		api.Get("/users/profile", controllers.GetPerfil(deps.Users, logg))
		api.Put("/users/profile", controllers.UpdatePerfil(deps.Users, logg))

		api.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin(cfg.Admin, logg))

			admin.Get("/admin/products", controllers.ListProductos(deps.Products, true, logg))
			admin.Post("/products", controllers.CreateProducto(deps.Products, logg))
			admin.Put("/products/{id}", controllers.UpdateProducto(deps.Products, logg))
			admin.Delete("/products/{id}", controllers.DeleteProducto(deps.Products, logg))

			admin.Post("/suppliers", controllers.CreateProveedor(deps.Suppliers, logg))
			admin.Put("/suppliers/{id}", controllers.UpdateProveedor(deps.Suppliers, logg))
			admin.Delete("/suppliers/{id}", controllers.DeleteProveedor(deps.Suppliers, logg))

			admin.Post("/categories", controllers.CreateCategoria(deps.Suppliers, logg))

			admin.Post("/product-types", controllers.CreateTipo(deps.Tipos, logg))
			admin.Put("/product-types/{id}", controllers.RenameTipo(deps.Tipos, logg))
			admin.Delete("/product-types/{id}", controllers.DeleteTipo(deps.Tipos, logg))
		})
	})

	return r
}
