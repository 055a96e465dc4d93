package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lobbysignal/internal/config"
	"lobbysignal/internal/relay"
	"lobbysignal/internal/state"
	"lobbysignal/internal/ws"
)

func SetupRoutes(e *relay.Engine, store *state.Store, cfg config.Config, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Read-only query surface
	r.Get("/rooms/{code}", RoomExists(e))
	r.Get("/rooms/{code}/state", RoomState(store))
	r.Get("/healthz", Healthz(e))

	// Signaling transport
	r.Get("/ws", ws.Handler(e, cfg, log))
	return r
}
