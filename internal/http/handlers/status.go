package handlers

import "net/http"

// Status reports uptime, session occupancy by state and generation
// counters. The payload shape is bot.Status.
func (a *App) Status(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Bot.Status())
}
