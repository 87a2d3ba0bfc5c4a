package channel

import "encoding/json"

// envelope message types on the websocket
const (
	msgStateUpdate        = "state_update"
	msgPlayerConnected    = "player_connected"
	msgPlayerDisconnected = "player_disconnected"
	msgError              = "error"
	msgPing               = "ping"
	msgPong               = "pong"
)

// envelope is the wire frame around every websocket message
type envelope struct {
	Type     string          `json:"type"`
	State    json.RawMessage `json:"state,omitempty"`
	Message  string          `json:"message,omitempty"`
	PlayerID string          `json:"playerId,omitempty"`
	Name     string          `json:"name,omitempty"`
}

// EventKind identifies a non-snapshot event from the server
type EventKind int

// Event kinds
const (
	EventPeerConnected EventKind = iota
	EventPeerDisconnected
	EventError
)

// Event is a non-snapshot message surfaced to the caller: another player's
// connectivity changed, or the server reported an error out-of-band
type Event struct {
	Kind     EventKind
	PlayerID string
	Name     string
	Message  string
}
