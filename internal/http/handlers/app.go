// Package handlers implements the ops endpoints: health and status probes,
// the Telegram webhook receiver and archived asset downloads.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"bot/internal/bot"
	"bot/internal/infra"
	"bot/internal/storage"
	"bot/internal/telegram"
)

// Service is the slice of the bot controller the ops surface uses.
type Service interface {
	Status() bot.Status
	HandleUpdate(ctx context.Context, upd telegram.Update)
}

var _ Service = (*bot.Controller)(nil)

type App struct {
	Bot           Service
	Assets        *storage.FileStore
	WebhookSecret string
	Logger        infra.Logger
}

func NewApp(service Service, assets *storage.FileStore, webhookSecret string, logger infra.Logger) *App {
	return &App{Bot: service, Assets: assets, WebhookSecret: webhookSecret, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, msg string) {
	a.json(w, code, map[string]string{"error": slug, "message": msg})
}
