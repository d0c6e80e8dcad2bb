package potmanager

// Pot represents a single pot layer
type Pot struct {
	Amount      int     `json:"amount"`
	EligibleIDs []int64 `json:"eligibleIds"`
}

// Pots is an ordered collection of pot layers, main pot first
type Pots []*Pot

// Total returns the combined total of all pots
func (p Pots) Total() int {
	total := 0
	for _, pot := range p {
		total += pot.Amount
	}

	return total
}
