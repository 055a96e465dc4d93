package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lobbysignal/internal/config"
	"lobbysignal/internal/relay"
	"lobbysignal/pkg/types"
)

const writeTimeout = 3 * time.Second

// peer adapts one WebSocket connection to the engine's transport session.
type peer struct {
	id  string
	out chan types.Event
}

func (p *peer) ID() string { return p.id }

// Send enqueues without blocking; a full outbox drops the event.
func (p *peer) Send(ev types.Event) bool {
	select {
	case p.out <- ev:
		return true
	default:
		return false
	}
}

func Handler(e *relay.Engine, cfg config.Config, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		conn.SetReadLimit(cfg.MaxMessageBytes)

		p := &peer{
			id:  uuid.NewString(),
			out: make(chan types.Event, cfg.OutboxSize),
		}

		e.Connect(p)
		defer close(p.out)
		defer e.Disconnect(p.id)

		// Writer goroutine: drains the outbox until the deferred close above.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for ev := range p.out {
				payload, err := json.Marshal(ev)
				if err != nil {
					log.Error("marshal outbound event", zap.String("session", p.id), zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop: one frame at a time, in arrival order.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (engine teardown in defer):
				return
			}

			if err := e.HandleMessage(p.id, data); err != nil {
				// The engine already cleared the session's registrations; no
				// further frames from this connection get processed.
				conn.Close(websocket.StatusPolicyViolation, "protocol violation")
				return
			}
		}
	}
}
