package types

// Outbound event type tags.
const (
	EvtJoin       = "join"
	EvtSetClients = "setClients"
	EvtSetClient  = "setClient"
	EvtSignal     = "signal"
)

// Event is a server-to-client frame. One flat struct covers every event type;
// unused fields are omitted on the wire.
type Event struct {
	Type      string                    `json:"t"`
	SessionID string                    `json:"sessionId,omitempty"`
	Identity  *ClientIdentity           `json:"identity,omitempty"`
	Clients   map[string]ClientIdentity `json:"clients,omitempty"`
	From      string                    `json:"from,omitempty"`
	Data      string                    `json:"data,omitempty"`
}

// JoinEvent announces a new lobby member to its peers.
func JoinEvent(sessionID string, id ClientIdentity) Event {
	return Event{Type: EvtJoin, SessionID: sessionID, Identity: &id}
}

// SetClientsEvent gives a joiner the identities of the other current members.
func SetClientsEvent(clients map[string]ClientIdentity) Event {
	return Event{Type: EvtSetClients, Clients: clients}
}

// SetClientEvent announces an updated identity to lobby peers.
func SetClientEvent(sessionID string, id ClientIdentity) Event {
	return Event{Type: EvtSetClient, SessionID: sessionID, Identity: &id}
}

// SignalEvent forwards an opaque handshake payload to its target.
func SignalEvent(from, data string) Event {
	return Event{Type: EvtSignal, From: from, Data: data}
}
