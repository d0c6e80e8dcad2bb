package potmanager

// Participant provides an interface for retrieving and adjusting a participant's chip stack
type Participant interface {
	ID() int64
	Balance() int
	AdjustBalance(amount int)
	SetAmountInPlay(amount int)
}

// participantInPot tracks a participant's contributions to the hand
type participantInPot struct {
	Participant
	// tableIndex is the participant's position in action order
	tableIndex int
	// amountInPlay is how much the participant has put in on the current betting round
	amountInPlay int
	// totalContributed is how much the participant has put in over the whole hand
	totalContributed int
	isAllIn          bool
	isFolded         bool
}

// reset is called when the betting round is complete
func (p *participantInPot) reset() {
	p.amountInPlay = 0
	p.SetAmountInPlay(0)
}

func (p *participantInPot) adjustAmountInPlay(amount int) {
	p.amountInPlay += amount
	p.totalContributed += amount
	p.SetAmountInPlay(p.amountInPlay)
}

// canAct returns true if the participant can check, call, bet, raise, fold
func (p *participantInPot) canAct() bool {
	return !p.isFolded && !p.isAllIn
}

type sortByTableIndex []*participantInPot

func (s sortByTableIndex) Len() int {
	return len(s)
}

func (s sortByTableIndex) Less(i, j int) bool {
	return s[i].tableIndex < s[j].tableIndex
}

func (s sortByTableIndex) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
