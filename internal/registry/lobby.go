package registry

// Lobbies maps a lobby code to its member set. Lobbies exist exactly while
// they have members: the first join creates an entry, the last leave deletes
// it. A session is a member of at most one lobby.
//
// Not safe for concurrent use on its own; the relay engine serializes every
// access under its lock.
type Lobbies struct {
	members map[string]map[string]struct{}
	joined  map[string]string // session id -> lobby code
}

func NewLobbies() *Lobbies {
	return &Lobbies{
		members: make(map[string]map[string]struct{}),
		joined:  make(map[string]string),
	}
}

// Join adds the session to code's member set, leaving any previous lobby
// first. It returns the previous code when the session moved lobbies.
func (r *Lobbies) Join(sessionID, code string) (prev string, moved bool) {
	prev, moved = r.Leave(sessionID)
	set := r.members[code]
	if set == nil {
		set = make(map[string]struct{})
		r.members[code] = set
	}
	set[sessionID] = struct{}{}
	r.joined[sessionID] = code
	return prev, moved
}

// Leave removes the session from whichever lobby it is in. Idempotent.
func (r *Lobbies) Leave(sessionID string) (code string, ok bool) {
	code, ok = r.joined[sessionID]
	if !ok {
		return "", false
	}
	delete(r.joined, sessionID)
	set := r.members[code]
	delete(set, sessionID)
	if len(set) == 0 {
		delete(r.members, code)
	}
	return code, true
}

// CodeOf returns the lobby the session is currently in, if any.
func (r *Lobbies) CodeOf(sessionID string) (string, bool) {
	code, ok := r.joined[sessionID]
	return code, ok
}

// Members enumerates the sessions joined to code. The order is unspecified.
func (r *Lobbies) Members(code string) []string {
	set := r.members[code]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Has reports whether code currently has any members.
func (r *Lobbies) Has(code string) bool {
	return len(r.members[code]) > 0
}
