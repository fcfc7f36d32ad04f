// Package httpapi assembles the ops router.
package httpapi

import (
	"net/http"
	"time"

	"bot/internal/http/handlers"
	"bot/internal/infra"
	"bot/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Options configures the router.
type Options struct {
	App    *handlers.App
	Logger infra.Logger
	// RateLimitPerMin caps requests per client IP per minute. Zero disables
	// the limiter.
	RateLimitPerMin int
	// WebhookEnabled mounts the Telegram webhook receiver. Leave it off in
	// polling mode so the route does not exist at all.
	WebhookEnabled bool
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", opts.App.Health)
	r.Get("/v1/status", opts.App.Status)
	r.Get("/v1/assets/*", opts.App.Asset)

	if opts.WebhookEnabled {
		r.Post("/telegram/webhook", opts.App.TelegramWebhook)
	}

	return r
}
