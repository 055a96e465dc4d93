package registry

import (
	"errors"

	"lobbysignal/pkg/types"
)

// ErrClientIDMismatch means a rebind asserted a clientId that contradicts the
// one already bound to the session. Callers treat it as a security violation.
var ErrClientIDMismatch = errors.New("clientId mismatch")

// Identities maps live session ids to their claimed identity.
//
// Not safe for concurrent use on its own; the relay engine serializes every
// access under its lock.
type Identities struct {
	bySession map[string]types.ClientIdentity
}

func NewIdentities() *Identities {
	return &Identities{bySession: make(map[string]types.ClientIdentity)}
}

// Bind records the identity claimed by sessionID and returns the resulting
// binding. playerId updates freely; clientId, once set, may only be repeated.
// An unset stored clientId is filled in by a set one.
func (r *Identities) Bind(sessionID string, playerID int32, clientID *uint32) (types.ClientIdentity, error) {
	cur, ok := r.bySession[sessionID]
	if ok && cur.ClientID != nil {
		if clientID == nil || *clientID != *cur.ClientID {
			return types.ClientIdentity{}, ErrClientIDMismatch
		}
		clientID = cur.ClientID
	}
	next := types.ClientIdentity{PlayerID: playerID, ClientID: clientID}
	r.bySession[sessionID] = next
	return next, nil
}

// Lookup returns the identity bound to sessionID, if any.
func (r *Identities) Lookup(sessionID string) (types.ClientIdentity, bool) {
	id, ok := r.bySession[sessionID]
	return id, ok
}

// Remove clears the session's identity. Idempotent.
func (r *Identities) Remove(sessionID string) {
	delete(r.bySession, sessionID)
}
