package table

import (
	"github.com/google/uuid"

	"holdemtable-server/internal/util"
)

// Player is a person at the table, either seated or observing
type Player struct {
	// ID is the authenticated player identifier
	ID int64
	// DisplayName is shown to everyone at the table
	DisplayName string
	// SessionKey identifies this visit to the table
	SessionKey string

	stack     int
	seatIndex int
	away      bool
}

// NewPlayer returns a player with no seat. An empty display name is replaced
// with a generated one.
func NewPlayer(id int64, displayName string) *Player {
	if displayName == "" {
		displayName = util.GetRandomName()
	}

	return &Player{
		ID:          id,
		DisplayName: displayName,
		SessionKey:  uuid.New().String(),
		seatIndex:   -1,
	}
}

// IsSeated returns true if the player holds a seat
func (p *Player) IsSeated() bool {
	return p.seatIndex >= 0
}

// SeatIndex returns the player's seat, or -1 while observing
func (p *Player) SeatIndex() int {
	return p.seatIndex
}

// Stack returns the chips in front of the player
func (p *Player) Stack() int {
	return p.stack
}

// SetStack replaces the chips in front of the player
func (p *Player) SetStack(stack int) {
	p.stack = stack
}

// IsAway returns true if the player has stepped away from the table
func (p *Player) IsAway() bool {
	return p.away
}

// SetAway marks whether the player has stepped away
func (p *Player) SetAway(away bool) {
	p.away = away
}
