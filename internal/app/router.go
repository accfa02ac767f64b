package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/salesbook/internal/auth"
	"github.com/odyssey-erp/salesbook/internal/clients"
	"github.com/odyssey-erp/salesbook/internal/observability"
	"github.com/odyssey-erp/salesbook/internal/platform/httpx"
	"github.com/odyssey-erp/salesbook/internal/products"
	"github.com/odyssey-erp/salesbook/internal/sales"
	"github.com/odyssey-erp/salesbook/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Metrics         *observability.Metrics
	Tokens          auth.Tokens
	AuthHandler     *auth.Handler
	UsersHandler    *users.Handler
	ClientsHandler  *clients.Handler
	ProductsHandler *products.Handler
	SalesHandler    *sales.Handler
}

// NewRouter constructs the chi.Router with salesbook defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	params.UsersHandler.MountRoutes(r)
	params.AuthHandler.MountRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireToken(params.Tokens, params.Logger))
		params.AuthHandler.MountProtectedRoutes(r)
		r.Route("/clients", func(r chi.Router) {
			params.ClientsHandler.MountRoutes(r)
			r.Post("/{clientId}/sales", params.SalesHandler.Create)
		})
		r.Route("/products", params.ProductsHandler.MountRoutes)
	})

	return r
}
