// Package server assembles the HTTP router for the catalog API.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/beerstyle-api/internal/handlers"
	"github.com/Lixing-Zhang/beerstyle-api/internal/middleware"
	"github.com/Lixing-Zhang/beerstyle-api/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DocPrefix is where the static documentation is mounted
const DocPrefix = "/doc"

// Deps are the collaborators the router needs
type Deps struct {
	Products       *service.ProductService
	Logger         *slog.Logger
	Faults         middleware.FaultInjector // nil disables fault injection
	DocDir         string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter builds the chi router with middleware and all routes.
// Documentation and health checks are served before fault injection applies.
func NewRouter(deps Deps) http.Handler {
	if deps.RequestTimeout == 0 {
		deps.RequestTimeout = 60 * time.Second
	}
	if len(deps.AllowedOrigins) == 0 {
		deps.AllowedOrigins = []string{"*"}
	}

	healthHandler := handlers.NewHealthHandler(deps.Products, deps.Logger)
	productHandler := handlers.NewProductHandler(deps.Products, deps.Logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(deps.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{middleware.FaultIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	if deps.DocDir != "" {
		handlers.MountDocs(r, DocPrefix, deps.DocDir)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.FaultInjection(deps.Faults, deps.Logger))

		r.Get("/", handlers.Root)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Post("/", productHandler.CreateProduct)
			r.Get("/{productId}", productHandler.GetProduct)
			r.Put("/{productId}", productHandler.UpdateProduct)
		})
	})

	return r
}
