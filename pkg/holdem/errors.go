package holdem

import (
	"errors"
	"fmt"
)

// ErrHandOver is an error when an action arrives after the hand finished
var ErrHandOver = errors.New("the hand is over")

// ActionError is an error caused by an invalid player action. The attempt is
// rejected without changing the hand.
type ActionError string

func (a ActionError) Error() string {
	return string(a)
}

func newActionError(format string, args ...interface{}) ActionError {
	return ActionError(fmt.Sprintf(format, args...))
}

// OutOfTurnError is an error when a player acts while the action is on
// someone else. It names the player the hand is waiting on.
type OutOfTurnError struct {
	PlayerID        int64
	CurrentPlayerID int64
	Action          Action
}

func (o *OutOfTurnError) Error() string {
	return fmt.Sprintf("player %d cannot %s out of turn; action is on player %d",
		o.PlayerID, o.Action, o.CurrentPlayerID)
}
