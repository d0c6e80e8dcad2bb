package holdem

import (
	"holdemtable-server/pkg/deck"
	"holdemtable-server/pkg/handanalyzer"
)

// Participant is a player in the hand
type Participant struct {
	// PlayerID is the table-level player identifier
	PlayerID int64

	balance      int
	amountInPlay int
	cards        deck.Hand
	reveal       bool
	winnings     int

	handAnalyzer          *handanalyzer.HandAnalyzer
	handAnalyzerCacheSize int
}

func newParticipant(playerID int64, stack int) *Participant {
	return &Participant{
		PlayerID: playerID,
		balance:  stack,
		cards:    make(deck.Hand, 0, 2),
	}
}

// ID returns the player's identifier
func (p *Participant) ID() int64 {
	return p.PlayerID
}

// Balance returns the chips the player has behind
func (p *Participant) Balance() int {
	return p.balance
}

// AdjustBalance adds the amount, which may be negative, to the player's stack
func (p *Participant) AdjustBalance(amount int) {
	p.balance += amount
}

// SetAmountInPlay records the player's contribution to the current betting round
func (p *Participant) SetAmountInPlay(amount int) {
	p.amountInPlay = amount
}

// Cards returns the player's hole cards
func (p *Participant) Cards() deck.Hand {
	return p.cards
}

// Winnings returns the chips the player was paid at settlement
func (p *Participant) Winnings() int {
	return p.winnings
}

// getHandAnalyzer caches the analyzer until the community cards change
func (p *Participant) getHandAnalyzer(community []*deck.Card) *handanalyzer.HandAnalyzer {
	cards := make([]*deck.Card, 0, len(community)+len(p.cards))
	cards = append(cards, community...)
	cards = append(cards, p.cards...)
	if p.handAnalyzer == nil || p.handAnalyzerCacheSize != len(cards) {
		p.handAnalyzer = handanalyzer.New(5, cards)
		p.handAnalyzerCacheSize = len(cards)
	}

	return p.handAnalyzer
}
