package handler

import (
	"net/http"

	"medicart-be/internal/logger"
	"medicart-be/internal/metrics"
	"medicart-be/internal/middleware"
	"medicart-be/internal/notify"
	"medicart-be/internal/order"
	"medicart-be/internal/shop"
	"medicart-be/internal/upload"
	"medicart-be/internal/user"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Users   user.Service
	Shops   shop.Service
	Orders  order.Service
	Tokens  middleware.TokenParser
	Stager  *upload.Stager
	Hub     *notify.Hub
	Metrics *metrics.Registry
	Limiter *middleware.RateLimiter

	AllowedOrigins []string
	MaxUploadBytes int64
	SecureCookies  bool
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", logger.RequestIDHeader},
		ExposedHeaders:   []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	limit := func(next http.Handler) http.Handler { return next }
	if d.Limiter != nil {
		limit = d.Limiter.Middleware
	}

	r.Get("/health", HealthHandler(d.Metrics))

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(limit)

		r.Post("/register", RegisterHandler(d.Users))
		r.Get("/user/{phoneNumber}", GetUserHandler(d.Users))
		r.Post("/login", LoginHandler(d.Shops, d.SecureCookies))
		r.Post("/submit-medicines", SubmitMedicinesHandler(d.Orders, d.Stager, d.MaxUploadBytes))
		r.Get("/orders", CustomerOrdersHandler(d.Orders))
		r.Get("/medicines/{id}/images/{index}", ImageHandler(d.Orders))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(d.Tokens))
		r.Use(limit)

		r.Get("/medicines", ListMedicinesHandler(d.Orders))
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Tokens))
		r.Use(limit)

		r.Get("/medicines-seller/{shopName}", SellerMedicinesHandler(d.Orders))
		r.Patch("/medicines/{id}/status", UpdateStatusHandler(d.Orders))
		r.Post("/medicines/{id}/details", UpdateDetailsHandler(d.Orders))
		r.Get("/medicines/{id}/details", GetDetailsHandler(d.Orders))
		r.Delete("/medicines/{id}", DeleteOrderHandler(d.Orders))
		r.Delete("/delete-all-submissions", DeleteAllHandler(d.Orders))

		if d.Hub != nil {
			r.Handle("/ws", notify.NewHandler(d.Hub, d.AllowedOrigins))
		}
	})

	return r
}
