package types

import (
	"encoding/json"
	"fmt"
)

// GameStateSnapshot:
//   lobbyCode: string  // key for the snapshot store
//   ...                // everything else is opaque to the relay
//
// The relay never interprets game semantics; it only needs the lobby code
// the snapshot claims to describe. Unknown fields are expected, not errors.

// ParseSnapshot extracts the lobby code from a pushed state blob and returns
// the blob itself for wholesale storage.
func ParseSnapshot(state string) (code string, raw json.RawMessage, err error) {
	var probe struct {
		LobbyCode string `json:"lobbyCode"`
	}
	if err := json.Unmarshal([]byte(state), &probe); err != nil {
		return "", nil, fmt.Errorf("unparseable snapshot: %w", err)
	}
	if probe.LobbyCode == "" {
		return "", nil, fmt.Errorf("snapshot missing lobbyCode")
	}
	return probe.LobbyCode, json.RawMessage(state), nil
}
