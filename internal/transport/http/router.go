package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ArrobaLab/maipro/internal/authz"
	"github.com/ArrobaLab/maipro/internal/domain"
	obsmw "github.com/ArrobaLab/maipro/internal/observability/middleware"
	"github.com/ArrobaLab/maipro/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	CORSOrigins []string
	// TrustProxy enables client-IP extraction from forwarding headers; only
	// safe behind a proxy that sets them.
	TrustProxy bool
}

func NewRouter(auth *service.Auth, mp *service.Marketplace, push *service.Push, validator *authz.BearerValidator, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(httprate.LimitByIP(100, 1*time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", rootHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", handleRegister(auth))
		r.Post("/login", handleLogin(auth))
		r.Group(func(r chi.Router) {
			r.Use(validator.Middleware)
			r.Get("/profile", handleGetProfile(auth))
			r.Put("/profile", handleUpdateProfile(auth))
		})
	})

	r.Route("/api/push", func(r chi.Router) {
		r.Get("/public-key", handlePublicKey(push))
		r.Group(func(r chi.Router) {
			r.Use(validator.Middleware)
			r.Post("/subscribe", handleSubscribe(push))
			r.Post("/unsubscribe", handleUnsubscribe(push))
		})
	})

	r.Route("/api/providers", func(r chi.Router) {
		r.Get("/", handleListProviders(mp))
		r.Get("/{id}", handleGetProvider(mp))
		r.Get("/{id}/reviews", handleListProviderReviews(mp))
		r.Group(func(r chi.Router) {
			r.Use(validator.Middleware)
			r.Post("/", handleCreateProvider(mp))
			r.Put("/me", handleUpdateProvider(mp))
		})
	})

	r.Route("/api/services", func(r chi.Router) {
		r.Get("/", handleListServices(mp))
		r.Get("/{id}", handleGetService(mp))
		r.Group(func(r chi.Router) {
			r.Use(validator.Middleware)
			r.Post("/", handleCreateService(mp))
			r.Put("/{id}", handleUpdateService(mp))
		})
	})

	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(validator.Middleware)
		r.Post("/", handleCreateBooking(mp))
		r.Get("/my", handleListMyBookings(mp))
		r.Get("/provider", handleListProviderBookings(mp))
		r.Get("/{id}", handleGetBooking(mp))
		r.Put("/{id}/status", handleUpdateBookingStatus(mp))
	})

	r.Route("/api/reviews", func(r chi.Router) {
		r.Use(validator.Middleware)
		r.Post("/", handleCreateReview(mp))
	})

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Welcome to MaiPro API",
		"description": "Platform for maintenance and construction services",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"auth":      "/api/auth",
			"providers": "/api/providers",
			"services":  "/api/services",
			"bookings":  "/api/bookings",
			"reviews":   "/api/reviews",
			"push":      "/api/push",
		},
	})
}

func originsIfSet(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service sentinels onto the HTTP contract. Internal errors
// go to the log, never to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := obsmw.RequestIDFromContext(r.Context())
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserDisabled):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	default:
		slog.Error("request failed", "error", err, "request_id", reqID, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return false
	}
	return true
}

// principal fetches the authenticated caller; the auth middleware guarantees
// it is present on protected routes.
func principal(w http.ResponseWriter, r *http.Request) (authz.Principal, bool) {
	p, ok := authz.PrincipalFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	return p, ok
}
