package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"bot/internal/telegram"
)

const maxWebhookBody = 1 << 20

// TelegramWebhook receives one Update per request in webhook mode. The
// update is dispatched on its own goroutine so the response returns before
// a long generation finishes; Telegram retries anything that is not a 200.
func (a *App) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if a.WebhookSecret != "" && r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != a.WebhookSecret {
		a.error(w, http.StatusUnauthorized, "unauthorized", "bad webhook secret")
		return
	}

	var upd telegram.Update
	body := http.MaxBytesReader(w, r.Body, maxWebhookBody)
	if err := json.NewDecoder(body).Decode(&upd); err != nil {
		a.Logger.Warn().Err(err).Msg("undecodable webhook payload")
		a.error(w, http.StatusBadRequest, "bad_request", "invalid update payload")
		return
	}

	// Keep the request id and other values, drop the per-request deadline.
	go a.Bot.HandleUpdate(context.WithoutCancel(r.Context()), upd)

	a.json(w, http.StatusOK, map[string]string{"status": "accepted"})
}
