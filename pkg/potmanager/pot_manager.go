package potmanager

import (
	"errors"
	"fmt"
	"sort"
)

// ParticipantError is an error caused by a participant's own action
type ParticipantError string

func (p ParticipantError) Error() string {
	return string(p)
}

func newParticipantError(format string, a ...interface{}) ParticipantError {
	return ParticipantError(fmt.Sprintf(format, a...))
}

// ErrParticipantNotFound is an error when a participant with a provided ID cannot be found
var ErrParticipantNotFound = errors.New("participant not found")

// PotManager is the chip ledger for a single hand: it tracks per-round and
// per-hand contributions, derives side-pot layers from unequal all-in totals,
// and distributes the pot at settlement
type PotManager struct {
	participants map[int64]*participantInPot
	tableOrder   []*participantInPot
	// roundBet is the highest contributed-this-round amount
	roundBet int
}

// New instantiates a new PotManager
func New() *PotManager {
	return &PotManager{
		participants: make(map[int64]*participantInPot),
		tableOrder:   make([]*participantInPot, 0),
	}
}

// SeatParticipant adds a participant to the hand
// This method must be called in action order
func (p *PotManager) SeatParticipant(pt Participant) error {
	if pt.Balance() <= 0 {
		return errors.New("cannot seat participant without a balance")
	}

	if _, ok := p.participants[pt.ID()]; ok {
		return fmt.Errorf("participant %d is already seated", pt.ID())
	}

	pip := &participantInPot{
		Participant: pt,
		tableIndex:  len(p.tableOrder),
	}
	p.participants[pt.ID()] = pip
	p.tableOrder = append(p.tableOrder, pip)

	return nil
}

// ContributeTo raises the participant's contributed-this-round amount to the
// given total, moving the difference out of their stack. If the difference
// meets or exceeds their stack the participant is all-in. The chips actually
// moved are returned.
func (p *PotManager) ContributeTo(pt Participant, roundTotal int) (int, error) {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return 0, ErrParticipantNotFound
	}

	if pip.isFolded {
		return 0, newParticipantError("participant has folded")
	}

	adjustment := roundTotal - pip.amountInPlay
	if adjustment < 0 {
		return 0, fmt.Errorf("participant has more in play (%d) than the new total (%d)", pip.amountInPlay, roundTotal)
	}

	if adjustment >= pip.Balance() {
		adjustment = pip.Balance()
		pip.isAllIn = true
	}

	pip.adjustAmountInPlay(adjustment)
	pip.Participant.AdjustBalance(-1 * adjustment)

	if pip.amountInPlay > p.roundBet {
		p.roundBet = pip.amountInPlay
	}

	return adjustment, nil
}

// Fold marks the participant as folded
func (p *PotManager) Fold(pt Participant) error {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return ErrParticipantNotFound
	}

	if pip.isFolded {
		return newParticipantError("participant has already folded")
	}

	pip.isFolded = true
	return nil
}

// EndRound carries per-round contributions into the hand totals and resets
// the per-round state
func (p *PotManager) EndRound() {
	for _, pip := range p.tableOrder {
		pip.reset()
	}

	p.roundBet = 0
}

// RoundBet returns the highest contributed-this-round amount
func (p *PotManager) RoundBet() int {
	return p.roundBet
}

// AmountInRound returns how much the participant has contributed this round
func (p *PotManager) AmountInRound(pt Participant) int {
	if pip, ok := p.participants[pt.ID()]; ok {
		return pip.amountInPlay
	}

	return 0
}

// TotalContributed returns how much the participant has contributed this hand
func (p *PotManager) TotalContributed(pt Participant) int {
	if pip, ok := p.participants[pt.ID()]; ok {
		return pip.totalContributed
	}

	return 0
}

// IsAllIn returns true if the participant has no chips behind
func (p *PotManager) IsAllIn(pt Participant) bool {
	pip, ok := p.participants[pt.ID()]
	return ok && pip.isAllIn
}

// IsFolded returns true if the participant has folded
func (p *PotManager) IsFolded(pt Participant) bool {
	pip, ok := p.participants[pt.ID()]
	return ok && pip.isFolded
}

// Total returns the total chips contributed to the hand so far
func (p *PotManager) Total() int {
	total := 0
	for _, pip := range p.tableOrder {
		total += pip.totalContributed
	}

	return total
}

// LiveCount returns the number of participants who have not folded
func (p *PotManager) LiveCount() int {
	count := 0
	for _, pip := range p.tableOrder {
		if !pip.isFolded {
			count++
		}
	}

	return count
}

// CanActCount returns the number of participants who have not folded and are not all-in
func (p *PotManager) CanActCount() int {
	count := 0
	for _, pip := range p.tableOrder {
		if pip.canAct() {
			count++
		}
	}

	return count
}

// layer is a single pot layer: the chips contributed between the previous
// threshold and this one, and the participants eligible to win them
type layer struct {
	threshold int
	amount    int
	eligible  []*participantInPot
}

// layers derives side-pot layers from the per-hand totals. Thresholds are the
// distinct totals of non-folded participants; folded chips fill the layers
// below their contribution. Any folded chips above the top threshold stay in
// the top layer so no chip is ever lost.
func (p *PotManager) layers() []*layer {
	thresholdSet := make(map[int]bool)
	for _, pip := range p.tableOrder {
		if !pip.isFolded && pip.totalContributed > 0 {
			thresholdSet[pip.totalContributed] = true
		}
	}

	if len(thresholdSet) == 0 {
		return nil
	}

	thresholds := make([]int, 0, len(thresholdSet))
	for t := range thresholdSet {
		thresholds = append(thresholds, t)
	}
	sort.Ints(thresholds)

	layers := make([]*layer, 0, len(thresholds))
	prev := 0
	for _, t := range thresholds {
		l := &layer{threshold: t}
		for _, pip := range p.tableOrder {
			contrib := pip.totalContributed
			if contrib > t {
				contrib = t
			}

			if diff := contrib - prev; diff > 0 {
				l.amount += diff
			}

			if !pip.isFolded && pip.totalContributed >= t {
				l.eligible = append(l.eligible, pip)
			}
		}

		layers = append(layers, l)
		prev = t
	}

	// chips from a fold above the top threshold go to the top layer
	accounted := 0
	for _, l := range layers {
		accounted += l.amount
	}
	if excess := p.Total() - accounted; excess > 0 {
		layers[len(layers)-1].amount += excess
	}

	return layers
}

// Pots returns the current pot layers for display
// Per-round contributions are included so observers see the full amount at stake
func (p *PotManager) Pots() Pots {
	ls := p.layers()
	pots := make(Pots, len(ls))
	for i, l := range ls {
		eligible := make([]int64, len(l.eligible))
		for j, pip := range l.eligible {
			eligible[j] = pip.ID()
		}

		pots[i] = &Pot{
			Amount:      l.amount,
			EligibleIDs: eligible,
		}
	}

	return pots
}

// Settle distributes every pot layer among its eligible participants using
// the provided hand strengths (higher wins; equal strengths split the layer,
// with odd chips going to the earliest-position winner). Strengths are only
// consulted for non-folded participants. Balances are credited and the
// payouts are returned.
//
// Settle enforces chip conservation: the chips paid out always equal the
// chips contributed, or an error is returned with no balances adjusted.
func (p *PotManager) Settle(strengths map[int64]int) (map[int64]int, error) {
	payouts := make(map[int64]int)

	for _, l := range p.layers() {
		winners := make([]*participantInPot, 0, len(l.eligible))
		best := 0
		for _, pip := range l.eligible {
			s, ok := strengths[pip.ID()]
			if !ok {
				return nil, fmt.Errorf("no hand strength for participant %d", pip.ID())
			}

			if len(winners) == 0 || s > best {
				winners = winners[:0]
				winners = append(winners, pip)
				best = s
			} else if s == best {
				winners = append(winners, pip)
			}
		}

		if len(winners) == 0 {
			return nil, fmt.Errorf("pot layer of %d has no eligible winner", l.amount)
		}

		// odd chips go to the earliest position
		sort.Sort(sortByTableIndex(winners))

		share := l.amount / len(winners)
		remainder := l.amount % len(winners)
		for i, winner := range winners {
			won := share
			if i < remainder {
				won++
			}

			payouts[winner.ID()] += won
		}
	}

	paid := 0
	for _, amount := range payouts {
		paid += amount
	}
	if contributed := p.Total(); paid != contributed {
		return nil, fmt.Errorf("settlement would pay %d of %d contributed chips", paid, contributed)
	}

	for id, amount := range payouts {
		p.participants[id].AdjustBalance(amount)
	}

	return payouts, nil
}
