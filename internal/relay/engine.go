// Package relay interprets client control messages and drives the lobby and
// identity registries plus the snapshot store.
//
// Per session the engine walks Connected -> Joined -> Disconnected. Malformed
// control input and identity spoofing are terminal: the engine tears the
// session's registrations down synchronously and the transport layer closes
// the connection before reading anything further from it.
package relay

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"lobbysignal/internal/registry"
	"lobbysignal/internal/state"
	"lobbysignal/pkg/types"
)

// Peer is one live transport session. Owned by the transport layer; the
// engine only holds references. Send must not block: a full outbox drops the
// event and returns false.
type Peer interface {
	ID() string
	Send(ev types.Event) bool
}

var (
	// ErrProtocol covers malformed frames and out-of-order control messages.
	ErrProtocol = errors.New("protocol violation")
	// ErrSecurity covers clientId collisions and re-identify mismatches.
	ErrSecurity = errors.New("security violation")
)

// Engine owns the process-wide registries. All mutation happens under one
// coarse lock; every handler is a bounded, synchronous registry update plus
// zero or more non-blocking sends, so contention is negligible next to
// network I/O.
type Engine struct {
	log     *zap.Logger
	store   *state.Store
	started time.Time

	mu         sync.Mutex
	peers      map[string]Peer
	identities *registry.Identities
	lobbies    *registry.Lobbies
}

func NewEngine(log *zap.Logger, store *state.Store) *Engine {
	return &Engine{
		log:        log,
		store:      store,
		started:    time.Now(),
		peers:      make(map[string]Peer),
		identities: registry.NewIdentities(),
		lobbies:    registry.NewLobbies(),
	}
}

// Connect registers a freshly accepted transport session.
func (e *Engine) Connect(p Peer) {
	e.mu.Lock()
	e.peers[p.ID()] = p
	n := len(e.peers)
	e.mu.Unlock()
	e.log.Info("session connected", zap.String("session", p.ID()), zap.Int("connections", n))
}

// Disconnect clears everything the session registered. Idempotent; the
// transport layer calls it on every connection teardown, including ones the
// engine itself initiated.
func (e *Engine) Disconnect(sessionID string) {
	e.mu.Lock()
	_, known := e.peers[sessionID]
	e.teardownLocked(sessionID)
	n := len(e.peers)
	e.mu.Unlock()
	if known {
		e.log.Info("session disconnected", zap.String("session", sessionID), zap.Int("connections", n))
	}
}

// HandleMessage processes one inbound frame from sessionID. A non-nil return
// means the session has been torn down and the caller must close the
// transport without processing further frames.
func (e *Engine) HandleMessage(sessionID string, frame []byte) error {
	msg, err := types.ParseInbound(frame)
	if err != nil {
		e.mu.Lock()
		e.teardownLocked(sessionID)
		e.mu.Unlock()
		e.log.Error("malformed frame", zap.String("session", sessionID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	switch m := msg.(type) {
	case types.Join:
		return e.handleJoin(sessionID, m)
	case types.Identify:
		return e.handleIdentify(sessionID, m)
	case types.Signal:
		return e.handleSignal(sessionID, m)
	case types.PushState:
		return e.handlePushState(sessionID, m)
	case types.Leave:
		return e.handleLeave(sessionID)
	default:
		// ParseInbound only returns the variants above.
		return fmt.Errorf("%w: unhandled message", ErrProtocol)
	}
}

func (e *Engine) handleJoin(sessionID string, m types.Join) error {
	clientID := types.NormalizeClientID(m.ClientID)

	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.peers[sessionID]
	if !ok {
		return nil
	}

	// Anti-spoof gate: runs against the clientId asserted in the join itself,
	// before any membership or identity is recorded. The session's own prior
	// membership (re-join of the same code) is not a collision.
	for _, member := range e.lobbies.Members(m.Code) {
		if member == sessionID {
			continue
		}
		id, bound := e.identities.Lookup(member)
		if bound && types.SameClientID(id.ClientID, clientID) {
			e.teardownLocked(sessionID)
			e.log.Warn("clientId collision on join",
				zap.String("session", sessionID),
				zap.String("peer", member),
				zap.String("lobby", m.Code),
				zap.Uint32("clientId", *clientID),
				zap.Bool("security", true))
			return fmt.Errorf("%w: clientId already held by a lobby member", ErrSecurity)
		}
	}

	bound, err := e.identities.Bind(sessionID, m.PlayerID, clientID)
	if err != nil {
		e.teardownLocked(sessionID)
		e.log.Warn("identity mismatch on join",
			zap.String("session", sessionID),
			zap.String("lobby", m.Code),
			zap.Bool("security", true),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSecurity, err)
	}

	if prev, moved := e.lobbies.Join(sessionID, m.Code); moved {
		e.log.Debug("implicit leave on re-join",
			zap.String("session", sessionID),
			zap.String("from", prev),
			zap.String("to", m.Code))
	}

	clients := make(map[string]types.ClientIdentity)
	for _, member := range e.lobbies.Members(m.Code) {
		if member == sessionID {
			continue
		}
		if id, ok := e.identities.Lookup(member); ok {
			clients[member] = id
		}
	}
	p.Send(types.SetClientsEvent(clients))
	e.broadcastLocked(m.Code, sessionID, types.JoinEvent(sessionID, bound))

	e.log.Debug("session joined lobby",
		zap.String("session", sessionID),
		zap.String("lobby", m.Code),
		zap.Int("peers", len(clients)))
	return nil
}

func (e *Engine) handleIdentify(sessionID string, m types.Identify) error {
	clientID := types.NormalizeClientID(m.ClientID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.peers[sessionID]; !ok {
		return nil
	}

	code, joined := e.lobbies.CodeOf(sessionID)
	if !joined {
		e.teardownLocked(sessionID)
		e.log.Error("identify before join", zap.String("session", sessionID))
		return fmt.Errorf("%w: identify before join", ErrProtocol)
	}

	bound, err := e.identities.Bind(sessionID, m.PlayerID, clientID)
	if err != nil {
		e.teardownLocked(sessionID)
		e.log.Warn("re-identify mismatch",
			zap.String("session", sessionID),
			zap.String("lobby", code),
			zap.Bool("security", true),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSecurity, err)
	}

	e.broadcastLocked(code, sessionID, types.SetClientEvent(sessionID, bound))
	return nil
}

func (e *Engine) handleSignal(sessionID string, m types.Signal) error {
	// Deliberately lobby-agnostic: targets were learned through join and
	// setClient broadcasts, which already sit behind the anti-spoof gate.
	e.mu.Lock()
	target, ok := e.peers[m.To]
	e.mu.Unlock()
	if !ok {
		e.log.Debug("signal to unknown session dropped",
			zap.String("session", sessionID),
			zap.String("to", m.To))
		return nil
	}
	if !target.Send(types.SignalEvent(sessionID, m.Data)) {
		e.log.Debug("signal dropped, target outbox full",
			zap.String("session", sessionID),
			zap.String("to", m.To))
	}
	return nil
}

func (e *Engine) handlePushState(sessionID string, m types.PushState) error {
	code, raw, err := types.ParseSnapshot(m.State)
	if err != nil {
		// pushstate is best-effort telemetry: drop the message, keep the session.
		e.log.Warn("dropping unparseable pushstate",
			zap.String("session", sessionID),
			zap.Error(err))
		return nil
	}
	e.store.Put(code, raw)
	e.log.Debug("snapshot stored", zap.String("lobby", code), zap.Int("bytes", len(raw)))
	return nil
}

func (e *Engine) handleLeave(sessionID string) error {
	e.mu.Lock()
	code, left := e.lobbies.Leave(sessionID)
	e.identities.Remove(sessionID)
	e.mu.Unlock()
	if left {
		e.log.Debug("session left lobby", zap.String("session", sessionID), zap.String("lobby", code))
	}
	return nil
}

// teardownLocked removes every trace of the session. Callers hold e.mu.
func (e *Engine) teardownLocked(sessionID string) {
	delete(e.peers, sessionID)
	e.lobbies.Leave(sessionID)
	e.identities.Remove(sessionID)
}

// broadcastLocked sends ev to every member of code except the originator.
// Sends are fire-and-forget; slow peers just miss the event.
func (e *Engine) broadcastLocked(code, except string, ev types.Event) {
	for _, member := range e.lobbies.Members(code) {
		if member == except {
			continue
		}
		p, ok := e.peers[member]
		if !ok {
			continue
		}
		if !p.Send(ev) {
			e.log.Debug("broadcast dropped, outbox full",
				zap.String("session", member),
				zap.String("event", ev.Type))
		}
	}
}

// RoomKnown reports whether code has live members or a stored snapshot.
func (e *Engine) RoomKnown(code string) bool {
	e.mu.Lock()
	has := e.lobbies.Has(code)
	e.mu.Unlock()
	return has || e.store.Has(code)
}

// Members enumerates the sessions currently joined to code.
func (e *Engine) Members(code string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lobbies.Members(code)
}

// Identity returns the identity currently bound to sessionID, if any.
func (e *Engine) Identity(sessionID string) (types.ClientIdentity, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identities.Lookup(sessionID)
}

// Connections returns the number of live sessions.
func (e *Engine) Connections() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.peers)
}

// Uptime returns how long the engine has been running.
func (e *Engine) Uptime() time.Duration {
	return time.Since(e.started)
}
