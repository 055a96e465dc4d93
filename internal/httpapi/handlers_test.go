package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lobbysignal/internal/config"
	"lobbysignal/internal/relay"
	"lobbysignal/internal/state"
	"lobbysignal/pkg/types"
)

type stubPeer struct{ id string }

func (p *stubPeer) ID() string               { return p.id }
func (p *stubPeer) Send(ev types.Event) bool { return true }

func newTestRouter(t *testing.T) (http.Handler, *relay.Engine, *state.Store) {
	t.Helper()
	store := state.NewStore()
	engine := relay.NewEngine(zap.NewNop(), store)
	cfg := config.Config{Addr: ":0", Env: "dev", OutboxSize: 8, MaxMessageBytes: 1024}
	return SetupRoutes(engine, store, cfg, zap.NewNop()), engine, store
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoomExists(t *testing.T) {
	router, engine, store := newTestRouter(t)

	rec := get(t, router, "/rooms/LOBBY1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"exists":false}`, rec.Body.String())

	// Live members make the room known.
	engine.Connect(&stubPeer{id: "S1"})
	frame := `{"t":"join","d":{"code":"LOBBY1","playerId":0,"clientId":1}}`
	require.NoError(t, engine.HandleMessage("S1", []byte(frame)))

	rec = get(t, router, "/rooms/LOBBY1")
	assert.JSONEq(t, `{"exists":true}`, rec.Body.String())

	// A snapshot alone is enough, even with nobody joined.
	store.Put("GHOST", json.RawMessage(`{"lobbyCode":"GHOST"}`))
	rec = get(t, router, "/rooms/GHOST")
	assert.JSONEq(t, `{"exists":true}`, rec.Body.String())
}

func TestRoomState(t *testing.T) {
	router, _, store := newTestRouter(t)

	rec := get(t, router, "/rooms/ABCDE/state")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	store.Put("ABCDE", json.RawMessage(`{"lobbyCode":"ABCDE","round":3}`))

	rec = get(t, router, "/rooms/ABCDE/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"lobbyCode":"ABCDE","round":3}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	router, engine, _ := newTestRouter(t)
	engine.Connect(&stubPeer{id: "S1"})
	engine.Connect(&stubPeer{id: "S2"})

	rec := get(t, router, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Connections   int     `json:"connections"`
		UptimeSeconds float64 `json:"uptimeSeconds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Connections)
	assert.GreaterOrEqual(t, body.UptimeSeconds, 0.0)
}
