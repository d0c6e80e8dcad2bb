package holdem

import "fmt"

// Action is a player action in a betting round
type Action string

// Action constants
const (
	ActionPostBlind Action = "postBlind"
	ActionCheck     Action = "check"
	ActionCall      Action = "call"
	ActionBet       Action = "bet"
	ActionRaise     Action = "raise"
	ActionAllIn     Action = "allIn"
	ActionFold      Action = "fold"
)

var actionsByName = map[string]Action{
	string(ActionCheck): ActionCheck,
	string(ActionCall):  ActionCall,
	string(ActionBet):   ActionBet,
	string(ActionRaise): ActionRaise,
	string(ActionAllIn): ActionAllIn,
	string(ActionFold):  ActionFold,
}

// ActionFromString returns the player-issuable Action with the given name.
// Blind posts are not issuable and are rejected here.
func ActionFromString(name string) (Action, error) {
	if a, ok := actionsByName[name]; ok {
		return a, nil
	}

	return "", fmt.Errorf("unknown action: %s", name)
}

func (a Action) String() string {
	return string(a)
}
