package holdem

import (
	"time"

	"holdemtable-server/pkg/deck"
	"holdemtable-server/pkg/potmanager"
)

// State is the view of a hand sent to a single player. Hole cards belong to
// the viewer or to a revealed showdown hand; everyone else's stay hidden.
type State struct {
	GameID          string          `json:"gameId"`
	Phase           Phase           `json:"phase"`
	CommitmentHash  string          `json:"commitmentHash"`
	Community       []*deck.Card    `json:"community"`
	Pot             int             `json:"pot"`
	Pots            potmanager.Pots `json:"pots"`
	RoundBet        int             `json:"roundBet"`
	MinRaiseTo      int             `json:"minRaiseTo"`
	CurrentPlayerID *int64          `json:"currentPlayerId"`
	Players         []*PlayerState  `json:"players"`
	Payouts         map[int64]int   `json:"payouts,omitempty"`
	FinishedAt      *time.Time      `json:"finishedAt,omitempty"`
	LastAction      *ActionRecord   `json:"lastAction,omitempty"`
}

// PlayerState is the per-player slice of a State
type PlayerState struct {
	PlayerID      int64     `json:"playerId"`
	Stack         int       `json:"stack"`
	AmountInRound int       `json:"amountInRound"`
	Contributed   int       `json:"contributed"`
	Folded        bool      `json:"folded"`
	AllIn         bool      `json:"allIn"`
	IsTurn        bool      `json:"isTurn"`
	Cards         deck.Hand `json:"cards,omitempty"`
	HandName      string    `json:"handName,omitempty"`
	Winnings      int       `json:"winnings"`
}

// StateForPlayer returns the hand as the given player may see it. A viewer
// ID of zero produces the observer view.
func (g *Game) StateForPlayer(viewerID int64) *State {
	state := &State{
		GameID:         g.commitment.GameID,
		Phase:          g.phase,
		CommitmentHash: g.commitment.Hash,
		Community:      g.Community(),
		Pot:            g.potManager.Total(),
		Pots:           g.potManager.Pots(),
		RoundBet:       g.potManager.RoundBet(),
		MinRaiseTo:     g.potManager.RoundBet() + g.minRaise,
		Players:        make([]*PlayerState, 0, len(g.order)),
		Payouts:        g.payouts,
	}

	if current := g.currentTurn(); current != nil {
		id := current.PlayerID
		state.CurrentPlayerID = &id
	}

	if !g.finishedAt.IsZero() {
		finishedAt := g.finishedAt
		state.FinishedAt = &finishedAt
	}

	if len(g.actionLog) > 0 {
		state.LastAction = g.actionLog[len(g.actionLog)-1]
	}

	for _, p := range g.order {
		ps := &PlayerState{
			PlayerID:      p.PlayerID,
			Stack:         p.Balance(),
			AmountInRound: g.potManager.AmountInRound(p),
			Contributed:   g.potManager.TotalContributed(p),
			Folded:        g.potManager.IsFolded(p),
			AllIn:         g.potManager.IsAllIn(p),
			IsTurn:        state.CurrentPlayerID != nil && *state.CurrentPlayerID == p.PlayerID,
			Winnings:      p.winnings,
		}

		if p.PlayerID == viewerID || p.reveal {
			ps.Cards = p.Cards().Clone()
			if p.reveal {
				ps.HandName = p.getHandAnalyzer(g.community).GetHand().String()
			}
		}

		state.Players = append(state.Players, ps)
	}

	return state
}
