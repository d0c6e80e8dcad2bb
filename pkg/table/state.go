package table

// State is the table's presence snapshot sent to clients
type State struct {
	UUID      string       `json:"uuid"`
	Name      string       `json:"name"`
	Capacity  int          `json:"capacity"`
	Button    int          `json:"button"`
	MinBuyIn  int          `json:"minBuyIn"`
	MaxBuyIn  int          `json:"maxBuyIn"`
	Seats     []*SeatState `json:"seats"`
	Observers []string     `json:"observers"`
}

// SeatState is one seat in a State
type SeatState struct {
	Index       int    `json:"index"`
	PlayerID    int64  `json:"playerId"`
	DisplayName string `json:"displayName"`
	Stack       int    `json:"stack"`
	Away        bool   `json:"away"`
}

// State returns the current presence snapshot
func (t *Table) State() *State {
	t.mu.Lock()
	defer t.mu.Unlock()

	state := &State{
		UUID:      t.UUID,
		Name:      t.Name,
		Capacity:  len(t.seats),
		Button:    t.button,
		MinBuyIn:  t.options.MinBuyIn,
		MaxBuyIn:  t.options.MaxBuyIn,
		Seats:     make([]*SeatState, 0, len(t.seats)),
		Observers: make([]string, 0, len(t.observers)),
	}

	for i, player := range t.seats {
		if player == nil {
			continue
		}

		state.Seats = append(state.Seats, &SeatState{
			Index:       i,
			PlayerID:    player.ID,
			DisplayName: player.DisplayName,
			Stack:       player.stack,
			Away:        player.away,
		})
	}

	for _, player := range t.observers {
		state.Observers = append(state.Observers, player.DisplayName)
	}

	return state
}
