package handlers

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

// Asset serves one archived image from the local archive. 404 for unknown
// keys, for keys that escape sanitization, and when archiving is disabled.
func (a *App) Asset(w http.ResponseWriter, r *http.Request) {
	if a.Assets == nil {
		a.error(w, http.StatusNotFound, "not_found", "archive disabled")
		return
	}

	key := chi.URLParam(r, "*")
	path, err := a.Assets.Path(key)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "no such asset")
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		a.error(w, http.StatusNotFound, "not_found", "no such asset")
		return
	}

	http.ServeFile(w, r, path)
}
