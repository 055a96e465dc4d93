package types

// NoClientID is the sentinel clients send when they have no clientId.
// It normalizes to an unset clientId everywhere in the relay.
const NoClientID uint32 = 1<<32 - 1

// ClientIdentity is the (playerId, clientId) pair a connection claims.
// A nil ClientID means the connection never asserted one. The clientId is a
// best-effort collision heuristic for catching impersonation inside a lobby,
// not a cryptographic identity.
type ClientIdentity struct {
	PlayerID int32   `json:"playerId"`
	ClientID *uint32 `json:"clientId"`
}

// NormalizeClientID maps the wire sentinel to an unset clientId.
func NormalizeClientID(v uint32) *uint32 {
	if v == NoClientID {
		return nil
	}
	return &v
}

// SameClientID reports whether two clientIds are both set and equal.
func SameClientID(a, b *uint32) bool {
	return a != nil && b != nil && *a == *b
}
