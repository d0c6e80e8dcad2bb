package holdem

import "time"

// ActionRecord is one entry in the hand's append-only action log. Sequence
// numbers are assigned in order and only when an action is accepted; a
// rejected attempt leaves no record.
type ActionRecord struct {
	Sequence int64     `json:"sequence"`
	GameID   string    `json:"gameId"`
	Phase    Phase     `json:"phase"`
	PlayerID int64     `json:"playerId"`
	Action   Action    `json:"action"`
	Amount   int       `json:"amount"`
	Stack    int       `json:"stack"`
	Time     time.Time `json:"time"`
}

// appendRecord accepts an action into the log and returns its record
func (g *Game) appendRecord(playerID int64, action Action, amount, stack int) *ActionRecord {
	g.sequence++
	record := &ActionRecord{
		Sequence: g.sequence,
		GameID:   g.commitment.GameID,
		Phase:    g.phase,
		PlayerID: playerID,
		Action:   action,
		Amount:   amount,
		Stack:    stack,
		Time:     time.Now(),
	}

	g.actionLog = append(g.actionLog, record)
	return record
}

// Actions returns a copy of the action log
func (g *Game) Actions() []*ActionRecord {
	log := make([]*ActionRecord, len(g.actionLog))
	copy(log, g.actionLog)
	return log
}
