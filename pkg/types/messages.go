package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Inbound message type tags.
const (
	MsgJoin      = "join"
	MsgIdentify  = "id"
	MsgSignal    = "signal"
	MsgPushState = "pushstate"
	MsgLeave     = "leave"
)

// Inbound is a parsed client message. Every frame decodes into exactly one
// variant or fails ParseInbound; nothing downstream touches raw JSON.
type Inbound interface{ isInbound() }

// Join asks to enter the lobby named by Code, asserting an identity.
type Join struct {
	Code     string `json:"code"`
	PlayerID int32  `json:"playerId"`
	ClientID uint32 `json:"clientId"`
}

// Identify rebinds the session's claimed identity.
type Identify struct {
	PlayerID int32  `json:"playerId"`
	ClientID uint32 `json:"clientId"`
}

// Signal carries an opaque handshake payload for the session named by To.
type Signal struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// PushState carries a JSON-encoded game-state snapshot in State.
type PushState struct {
	PlayerID int32  `json:"playerId"`
	State    string `json:"state"`
}

// Leave exits the current lobby. No payload.
type Leave struct{}

func (Join) isInbound()      {}
func (Identify) isInbound()  {}
func (Signal) isInbound()    {}
func (PushState) isInbound() {}
func (Leave) isInbound()     {}

type envelope struct {
	Type string          `json:"t"`
	Data json.RawMessage `json:"d"`
}

// ParseInbound decodes one client frame. Unknown message types, unknown or
// mistyped fields, and trailing garbage are all errors; the relay treats any
// of them as a protocol violation.
func ParseInbound(data []byte) (Inbound, error) {
	var env envelope
	if err := decodeStrict(data, &env); err != nil {
		return nil, fmt.Errorf("bad envelope: %w", err)
	}

	switch env.Type {
	case MsgJoin:
		var m Join
		if err := decodeStrict(env.Data, &m); err != nil {
			return nil, fmt.Errorf("bad join payload: %w", err)
		}
		return m, nil
	case MsgIdentify:
		var m Identify
		if err := decodeStrict(env.Data, &m); err != nil {
			return nil, fmt.Errorf("bad id payload: %w", err)
		}
		return m, nil
	case MsgSignal:
		var m Signal
		if err := decodeStrict(env.Data, &m); err != nil {
			return nil, fmt.Errorf("bad signal payload: %w", err)
		}
		if m.Data == "" {
			return nil, fmt.Errorf("signal payload missing data")
		}
		return m, nil
	case MsgPushState:
		var m PushState
		if err := decodeStrict(env.Data, &m); err != nil {
			return nil, fmt.Errorf("bad pushstate payload: %w", err)
		}
		if m.State == "" {
			return nil, fmt.Errorf("pushstate payload missing state")
		}
		return m, nil
	case MsgLeave:
		if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
			var m Leave
			if err := decodeStrict(env.Data, &m); err != nil {
				return nil, fmt.Errorf("bad leave payload: %w", err)
			}
		}
		return Leave{}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("unexpected trailing data")
	}
	return nil
}
