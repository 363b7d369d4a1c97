package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Cheertaboi/free-shipping-service/internal/api/handlers"
	"github.com/Cheertaboi/free-shipping-service/internal/api/middleware"
	"github.com/Cheertaboi/free-shipping-service/internal/config"
)

// NewRouter builds the HTTP router for the free-shipping service
func NewRouter(cfg config.Config, checker handlers.EligibilityChecker, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	shippingHandler := handlers.NewShippingHandler(checker, logger)

	r.Get("/", shippingHandler.Home)
	r.Get("/check-free-shipping", shippingHandler.CheckFreeShipping)

	return otelhttp.NewHandler(r, "free-shipping-service")
}
