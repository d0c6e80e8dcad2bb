// Package protocol defines the messages exchanged with websocket clients
package protocol

import "errors"

// Inbound actions a client may send
const (
	ActionJoinTable      = "joinTable"
	ActionTakeSeat       = "takeSeat"
	ActionStandUp        = "standUp"
	ActionLeaveTable     = "leaveTable"
	ActionSetAway        = "setAway"
	ActionPlayerAction   = "playerAction"
	ActionUpdateLocation = "updateUserLocation"
)

// Outbound event keys
const (
	EventTableJoined       = "tableJoined"
	EventTableState        = "tableState"
	EventLocationUpdate    = "locationUpdate"
	EventGameState         = "gameState"
	EventCardOrderRevealed = "cardOrderRevealed"
	EventHandComplete      = "handComplete"
	EventError             = "error"
)

// ErrUnknownAction is an error when a client sends an action the room does
// not recognize
var ErrUnknownAction = errors.New("unknown action")

// ClientMessage is a message from a client. Context is echoed back on the
// direct response so the client can match it to the request.
type ClientMessage struct {
	Context        string         `json:"context"`
	Action         string         `json:"action"`
	AdditionalData AdditionalData `json:"additionalData"`
}

// LocationUpdate is the payload of a locationUpdate event
type LocationUpdate struct {
	PlayerID int64  `json:"playerId"`
	Nickname string `json:"nickname"`
	Location string `json:"location"`
}

// Event is a message to a client
type Event struct {
	Key     string      `json:"key"`
	Context string      `json:"context,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewEvent returns an event with no request context
func NewEvent(key string, data interface{}) *Event {
	return &Event{
		Key:  key,
		Data: data,
	}
}

// ErrorEvent returns the error response for a client message
func ErrorEvent(context string, err error) *Event {
	return &Event{
		Key:     EventError,
		Context: context,
		Data:    err.Error(),
	}
}
