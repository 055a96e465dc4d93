package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lobbysignal/internal/relay"
	"lobbysignal/internal/state"
)

// RoomExists reports whether a lobby code is known, either through live
// members or a stored snapshot. Stale snapshots count: external callers use
// this to validate codes, not to count players.
func RoomExists(e *relay.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		writeJSON(w, http.StatusOK, struct {
			Exists bool `json:"exists"`
		}{Exists: e.RoomKnown(code)})
	}
}

// RoomState returns the latest pushed snapshot for a lobby code.
func RoomState(store *state.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		snap, ok := store.Get(code)
		if !ok {
			http.Error(w, "no state for room", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(snap)
	}
}

// Healthz reports liveness: connection count and process uptime.
func Healthz(e *relay.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Connections   int     `json:"connections"`
			UptimeSeconds float64 `json:"uptimeSeconds"`
		}{
			Connections:   e.Connections(),
			UptimeSeconds: e.Uptime().Seconds(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
