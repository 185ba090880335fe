/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wordchain

// Event is anything the coordinator sends to clients. Every concrete type
// carries its own "type" field on the wire.
type Event interface {
	EventType() string
}

// ConnectedMessage tells a fresh connection which id the server knows it by.
type ConnectedMessage struct {
	Type         string `json:"type"` // "connected"
	ConnectionID string `json:"connection_id"`
}

// RoomCreatedMessage is sent only to the creator.
type RoomCreatedMessage struct {
	Type string `json:"type"` // "room_created"
	Code string `json:"code"`
}

// GameStateMessage carries the full room snapshot.
type GameStateMessage struct {
	Type string   `json:"type"` // "game_state"
	Room Snapshot `json:"room"`
}

// TimeUpdateMessage is the per-second countdown.
type TimeUpdateMessage struct {
	Type     string `json:"type"` // "time_update"
	TimeLeft int    `json:"time_left"`
}

// TimeoutMessage announces that the turn holder ran out of time.
type TimeoutMessage struct {
	Type     string `json:"type"` // "timeout"
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
}

// WordAcceptedMessage follows the snapshot after a successful submission.
type WordAcceptedMessage struct {
	Type       string `json:"type"` // "word_accepted"
	Word       string `json:"word"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// ChatMessage is relayed verbatim to the room.
type ChatMessage struct {
	Type       string `json:"type"` // "chat"
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Text       string `json:"text"`
}

// ErrorMessage is addressed to one connection only.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoomEndedMessage is terminal: the room no longer exists.
type RoomEndedMessage struct {
	Type    string `json:"type"` // "room_ended"
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// LeftRoomMessage confirms a leave request to the leaver.
type LeftRoomMessage struct {
	Type string `json:"type"` // "left_room"
}

func (m ConnectedMessage) EventType() string    { return m.Type }
func (m RoomCreatedMessage) EventType() string  { return m.Type }
func (m GameStateMessage) EventType() string    { return m.Type }
func (m TimeUpdateMessage) EventType() string   { return m.Type }
func (m TimeoutMessage) EventType() string      { return m.Type }
func (m WordAcceptedMessage) EventType() string { return m.Type }
func (m ChatMessage) EventType() string         { return m.Type }
func (m ErrorMessage) EventType() string        { return m.Type }
func (m RoomEndedMessage) EventType() string    { return m.Type }
func (m LeftRoomMessage) EventType() string     { return m.Type }

const (
	EndReasonPlayerLeft = "player_left"
	EndReasonIdle       = "idle"
	EndReasonShutdown   = "shutdown"
)

func NewConnectedMessage(connID string) ConnectedMessage {
	return ConnectedMessage{Type: "connected", ConnectionID: connID}
}

func newRoomEnded(reason string) RoomEndedMessage {
	msg := "A player left the room. The game is over!"
	switch reason {
	case EndReasonIdle:
		msg = "The room was closed after being idle for too long."
	case EndReasonShutdown:
		msg = "The server is shutting down."
	}
	return RoomEndedMessage{Type: "room_ended", Reason: reason, Message: msg}
}

// Broadcaster delivers events to connections. Implementations must not
// block: they are called while a room's lock is held.
type Broadcaster interface {
	Broadcast(connIDs []string, ev Event)
	Send(connID string, ev Event)
}
