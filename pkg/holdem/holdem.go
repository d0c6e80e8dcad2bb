package holdem

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"holdemtable-server/pkg/deck"
	"holdemtable-server/pkg/potmanager"
	"holdemtable-server/pkg/shuffle"
)

const (
	minPlayers = 2
	maxPlayers = 9
)

const holeCards = 2

// Seat pairs a player with the stack they bring into the hand
type Seat struct {
	PlayerID int64
	Stack    int
}

// Game is a single hand of no-limit Texas hold'em. Seats are provided in
// action order starting with the small blind; in a heads-up hand the small
// blind is also the button. Game is not safe for concurrent use.
type Game struct {
	options    Options
	logger     logrus.FieldLogger
	commitment *shuffle.Commitment
	deck       *deck.Deck
	potManager *potmanager.PotManager

	participants map[int64]*Participant
	order        []*Participant
	community    []*deck.Card

	phase     Phase
	turnIndex int
	// minRaise is the increment of the last bet or raise
	minRaise int
	// acted tracks who has acted since the last full bet or raise
	acted map[int64]bool

	sequence  int64
	actionLog []*ActionRecord

	payouts    map[int64]int
	finishedAt time.Time
}

// NewGame returns a hand ready to begin. The commitment supplies the card
// ordering and must not be shared with another hand.
func NewGame(logger logrus.FieldLogger, seats []Seat, commitment *shuffle.Commitment, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if len(seats) < minPlayers || len(seats) > maxPlayers {
		return nil, fmt.Errorf("a hand requires between %d and %d players; got %d", minPlayers, maxPlayers, len(seats))
	}

	if commitment == nil {
		return nil, errors.New("a hand requires a card ordering commitment")
	}

	g := &Game{
		options:      opts,
		logger:       logger.WithField("gameId", commitment.GameID),
		commitment:   commitment,
		deck:         commitment.Deck(),
		potManager:   potmanager.New(),
		participants: make(map[int64]*Participant),
		order:        make([]*Participant, 0, len(seats)),
		community:    make([]*deck.Card, 0, 5),
		phase:        PhaseWaiting,
		turnIndex:    -1,
		acted:        make(map[int64]bool),
	}

	for _, seat := range seats {
		if _, ok := g.participants[seat.PlayerID]; ok {
			return nil, fmt.Errorf("player %d is seated twice", seat.PlayerID)
		}

		p := newParticipant(seat.PlayerID, seat.Stack)
		if err := g.potManager.SeatParticipant(p); err != nil {
			return nil, err
		}

		g.participants[seat.PlayerID] = p
		g.order = append(g.order, p)
	}

	return g, nil
}

// Begin deals the hole cards, posts the blinds, and opens the pre-flop
// betting round
func (g *Game) Begin() error {
	if g.phase != PhaseWaiting {
		return fmt.Errorf("cannot begin a hand in the %s phase", g.phase)
	}

	for i := 0; i < holeCards; i++ {
		for _, p := range g.order {
			card, err := g.deck.Draw()
			if err != nil {
				return err
			}

			p.cards.AddCard(card)
		}
	}

	g.phase = PhasePreFlop
	g.minRaise = g.options.BigBlind

	if err := g.postBlind(g.order[0], g.options.SmallBlind); err != nil {
		return err
	}
	if err := g.postBlind(g.order[1], g.options.BigBlind); err != nil {
		return err
	}

	g.turnIndex = g.firstToAct(g.preflopStart())
	if g.turnIndex < 0 {
		// every stack went in on the blinds
		return g.completeRound()
	}

	g.logger.WithFields(logrus.Fields{
		"players": len(g.order),
		"blinds":  fmt.Sprintf("%d/%d", g.options.SmallBlind, g.options.BigBlind),
	}).Info("hand started")

	return nil
}

func (g *Game) postBlind(p *Participant, amount int) error {
	moved, err := g.potManager.ContributeTo(p, amount)
	if err != nil {
		return err
	}

	g.appendRecord(p.PlayerID, ActionPostBlind, moved, p.Balance())
	return nil
}

// preflopStart is the seat that opens the pre-flop round: left of the big
// blind, or the small blind when heads-up
func (g *Game) preflopStart() int {
	if len(g.order) == 2 {
		return 0
	}

	return 2 % len(g.order)
}

// postflopStart is the seat that opens every later round: left of the
// button, or the big blind when heads-up
func (g *Game) postflopStart() int {
	if len(g.order) == 2 {
		return 1
	}

	return 0
}

// firstToAct returns the first seat at or after start that can still act,
// or -1 if no seat can
func (g *Game) firstToAct(start int) int {
	n := len(g.order)
	for i := 0; i < n; i++ {
		index := (start + i) % n
		p := g.order[index]
		if !g.potManager.IsFolded(p) && !g.potManager.IsAllIn(p) {
			return index
		}
	}

	return -1
}

func (g *Game) currentTurn() *Participant {
	if !g.phase.IsBettingRound() || g.turnIndex < 0 {
		return nil
	}

	return g.order[g.turnIndex]
}

// CurrentPlayerID returns the player the hand is waiting on
func (g *Game) CurrentPlayerID() (int64, bool) {
	current := g.currentTurn()
	if current == nil {
		return 0, false
	}

	return current.PlayerID, true
}

// Act applies a player action. The amount on a bet or raise is the total the
// player wagers for the round, not the increment. A wager beyond the player's
// stack is only accepted when allIn is set, in which case it is capped at the
// stack. Rejected actions leave the hand, and its action log, untouched.
func (g *Game) Act(playerID int64, action Action, amount int, allIn bool) (*ActionRecord, error) {
	if g.phase == PhaseWaiting {
		return nil, newActionError("the hand has not started")
	}

	if !g.phase.IsBettingRound() {
		return nil, ErrHandOver
	}

	current := g.currentTurn()
	if current == nil {
		return nil, ErrHandOver
	}

	if current.PlayerID != playerID {
		return nil, &OutOfTurnError{
			PlayerID:        playerID,
			CurrentPlayerID: current.PlayerID,
			Action:          action,
		}
	}

	var record *ActionRecord
	var err error
	switch action {
	case ActionFold:
		record, err = g.fold(current)
	case ActionCheck:
		record, err = g.check(current)
	case ActionCall:
		record, err = g.call(current)
	case ActionBet, ActionRaise:
		record, err = g.wager(current, action, amount, allIn)
	case ActionAllIn:
		record, err = g.wagerAllIn(current)
	default:
		return nil, newActionError("unknown action: %s", action)
	}

	if err != nil {
		return nil, err
	}

	if g.roundComplete() {
		if err := g.completeRound(); err != nil {
			return nil, err
		}

		return record, nil
	}

	next := g.firstToAct(g.turnIndex + 1)
	if next < 0 {
		if err := g.completeRound(); err != nil {
			return nil, err
		}

		return record, nil
	}

	g.turnIndex = next
	return record, nil
}

func (g *Game) fold(p *Participant) (*ActionRecord, error) {
	if err := g.potManager.Fold(p); err != nil {
		return nil, err
	}

	g.acted[p.PlayerID] = true
	return g.appendRecord(p.PlayerID, ActionFold, 0, p.Balance()), nil
}

func (g *Game) check(p *Participant) (*ActionRecord, error) {
	if owed := g.potManager.RoundBet() - g.potManager.AmountInRound(p); owed > 0 {
		return nil, newActionError("cannot check when you are facing a bet of %d", g.potManager.RoundBet())
	}

	g.acted[p.PlayerID] = true
	return g.appendRecord(p.PlayerID, ActionCheck, 0, p.Balance()), nil
}

func (g *Game) call(p *Participant) (*ActionRecord, error) {
	roundBet := g.potManager.RoundBet()
	if roundBet-g.potManager.AmountInRound(p) <= 0 {
		return nil, newActionError("there is nothing to call; check instead")
	}

	moved, err := g.potManager.ContributeTo(p, roundBet)
	if err != nil {
		return nil, err
	}

	g.acted[p.PlayerID] = true
	return g.appendRecord(p.PlayerID, ActionCall, moved, p.Balance()), nil
}

func (g *Game) wager(p *Participant, action Action, amount int, allIn bool) (*ActionRecord, error) {
	roundBet := g.potManager.RoundBet()
	if action == ActionBet && roundBet > 0 {
		return nil, newActionError("a bet of %d already exists; raise instead", roundBet)
	}

	if action == ActionRaise && roundBet == 0 {
		return nil, newActionError("there is no bet to raise; bet instead")
	}

	available := g.potManager.AmountInRound(p) + p.Balance()
	if amount > available {
		if !allIn {
			return nil, newActionError("a %s to %d exceeds your stack; signal all-in to wager your remaining %d", action, amount, available)
		}

		amount = available
	}

	if amount <= roundBet {
		return nil, newActionError("a %s must exceed the current bet of %d", action, roundBet)
	}

	minTo := g.options.BigBlind
	if action == ActionRaise {
		minTo = roundBet + g.minRaise
	}

	if amount < minTo && amount < available {
		return nil, newActionError("the minimum %s is to %d", action, minTo)
	}

	return g.contributeWager(p, action, amount)
}

// wagerAllIn puts the player's entire stack in. It needs no amount and is
// always a legal in-turn action.
func (g *Game) wagerAllIn(p *Participant) (*ActionRecord, error) {
	return g.contributeWager(p, ActionAllIn, g.potManager.AmountInRound(p)+p.Balance())
}

func (g *Game) contributeWager(p *Participant, action Action, amount int) (*ActionRecord, error) {
	previousBet := g.potManager.RoundBet()
	moved, err := g.potManager.ContributeTo(p, amount)
	if err != nil {
		return nil, err
	}

	// a full bet or raise reopens the action for everyone behind
	if increment := g.potManager.RoundBet() - previousBet; increment >= g.minRaise {
		g.minRaise = increment
		g.acted = make(map[int64]bool)
	}

	g.acted[p.PlayerID] = true
	return g.appendRecord(p.PlayerID, action, moved, p.Balance()), nil
}

// roundComplete returns true once every player who can still act has acted
// since the last full bet or raise and matched the current bet
func (g *Game) roundComplete() bool {
	if g.potManager.LiveCount() <= 1 {
		return true
	}

	for _, p := range g.order {
		if g.potManager.IsFolded(p) || g.potManager.IsAllIn(p) {
			continue
		}

		if !g.acted[p.PlayerID] {
			return false
		}

		if g.potManager.AmountInRound(p) != g.potManager.RoundBet() {
			return false
		}
	}

	return true
}

// completeRound closes the betting round and advances the hand. When no
// further betting is possible the remaining streets are dealt immediately.
func (g *Game) completeRound() error {
	for {
		g.potManager.EndRound()
		g.acted = make(map[int64]bool)
		g.minRaise = g.options.BigBlind
		g.turnIndex = -1

		if g.potManager.LiveCount() == 1 {
			return g.finishFoldOut()
		}

		switch g.phase {
		case PhasePreFlop:
			if err := g.dealCommunity(3); err != nil {
				return err
			}
			g.phase = PhaseFlop
		case PhaseFlop:
			if err := g.dealCommunity(1); err != nil {
				return err
			}
			g.phase = PhaseTurn
		case PhaseTurn:
			if err := g.dealCommunity(1); err != nil {
				return err
			}
			g.phase = PhaseRiver
		case PhaseRiver:
			return g.showdown()
		default:
			return fmt.Errorf("cannot complete a round in the %s phase", g.phase)
		}

		if g.potManager.CanActCount() >= 2 {
			g.turnIndex = g.firstToAct(g.postflopStart())
			return nil
		}
	}
}

func (g *Game) dealCommunity(count int) error {
	for i := 0; i < count; i++ {
		card, err := g.deck.Draw()
		if err != nil {
			return err
		}

		g.community = append(g.community, card)
	}

	return nil
}

// showdown reveals the live hands, settles the pot, and finishes the hand
func (g *Game) showdown() error {
	g.phase = PhaseShowdown

	strengths := make(map[int64]int)
	for _, p := range g.order {
		if g.potManager.IsFolded(p) {
			continue
		}

		p.reveal = true
		strengths[p.PlayerID] = p.getHandAnalyzer(g.community).GetStrength()
	}

	payouts, err := g.potManager.Settle(strengths)
	if err != nil {
		return err
	}

	return g.finish(payouts)
}

// finishFoldOut ends the hand when a single player remains. Their hole cards
// are never revealed.
func (g *Game) finishFoldOut() error {
	var sole *Participant
	for _, p := range g.order {
		if !g.potManager.IsFolded(p) {
			sole = p
			break
		}
	}

	if sole == nil {
		return errors.New("no live player remains")
	}

	payouts, err := g.potManager.Settle(map[int64]int{sole.PlayerID: 1})
	if err != nil {
		return err
	}

	return g.finish(payouts)
}

func (g *Game) finish(payouts map[int64]int) error {
	for id, amount := range payouts {
		g.participants[id].winnings = amount
	}

	g.payouts = payouts
	g.phase = PhaseFinished
	g.finishedAt = time.Now()
	g.turnIndex = -1

	g.logger.WithField("payouts", payouts).Info("hand finished")
	return nil
}

// ForceAction acts for a player who ran out of time: a check when one is
// legal, otherwise a fold
func (g *Game) ForceAction(playerID int64) (*ActionRecord, error) {
	current := g.currentTurn()
	if current == nil || current.PlayerID != playerID {
		return nil, newActionError("player %d is not due to act", playerID)
	}

	if g.potManager.AmountInRound(current) == g.potManager.RoundBet() {
		return g.Act(playerID, ActionCheck, 0, false)
	}

	return g.Act(playerID, ActionFold, 0, false)
}

// Phase returns the hand's current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// GameID returns the identifier shared with the card ordering commitment
func (g *Game) GameID() string {
	return g.commitment.GameID
}

// Commitment returns the hand's card ordering commitment
func (g *Game) Commitment() *shuffle.Commitment {
	return g.commitment
}

// Community returns a copy of the community cards dealt so far
func (g *Game) Community() []*deck.Card {
	community := make([]*deck.Card, len(g.community))
	copy(community, g.community)
	return community
}

// Pot returns the chips contributed to the hand so far
func (g *Game) Pot() int {
	return g.potManager.Total()
}

// Payouts returns the settlement amounts, or nil before the hand finishes
func (g *Game) Payouts() map[int64]int {
	if g.payouts == nil {
		return nil
	}

	payouts := make(map[int64]int, len(g.payouts))
	for id, amount := range g.payouts {
		payouts[id] = amount
	}

	return payouts
}

// PlayerIDs returns the players dealt into the hand, in action order
func (g *Game) PlayerIDs() []int64 {
	ids := make([]int64, len(g.order))
	for i, p := range g.order {
		ids[i] = p.PlayerID
	}

	return ids
}

// Participant returns the participant for a player ID
func (g *Game) Participant(playerID int64) (*Participant, bool) {
	p, ok := g.participants[playerID]
	return p, ok
}
