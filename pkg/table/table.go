package table

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"holdemtable-server/pkg/holdem"
)

const (
	minCapacity = 2
	maxCapacity = 9
)

// LocationLobby is the location of a player who is not at any table
const LocationLobby = "lobby"

// SeatError is an error caused by an invalid seating request. The table is
// never changed by a rejected request.
type SeatError string

func (s SeatError) Error() string {
	return string(s)
}

func newSeatError(format string, args ...interface{}) SeatError {
	return SeatError(fmt.Sprintf(format, args...))
}

// Options configures a table
type Options struct {
	Capacity   int
	SmallBlind int
	BigBlind   int
	MinBuyIn   int
	MaxBuyIn   int
}

// Table tracks who is present: every player is either in exactly one seat or
// observing, never both. Safe for concurrent use.
type Table struct {
	// UUID identifies the table
	UUID string
	// Name is the table's display name
	Name string

	options Options

	mu        sync.Mutex
	seats     []*Player
	observers map[int64]*Player
	button    int
}

// NewTable returns an empty table
func NewTable(name string, options Options) (*Table, error) {
	if options.Capacity < minCapacity || options.Capacity > maxCapacity {
		return nil, fmt.Errorf("capacity must be between %d and %d; got %d", minCapacity, maxCapacity, options.Capacity)
	}

	if options.MinBuyIn <= 0 || options.MinBuyIn > options.MaxBuyIn {
		return nil, fmt.Errorf("invalid buy-in range: %d to %d", options.MinBuyIn, options.MaxBuyIn)
	}

	return &Table{
		UUID:      uuid.New().String(),
		Name:      name,
		options:   options,
		seats:     make([]*Player, options.Capacity),
		observers: make(map[int64]*Player),
		// the button lands on the first occupied seat at the first advance
		button: -1,
	}, nil
}

// Options returns the table's configuration
func (t *Table) Options() Options {
	return t.options
}

// Join adds a player as an observer. Joining twice is an error.
func (t *Table) Join(player *Player) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.playerLocked(player.ID) != nil {
		return newSeatError("player %d is already at the table", player.ID)
	}

	t.observers[player.ID] = player
	return nil
}

// TakeSeat atomically claims an open seat for an observing player. Every
// check runs before any state changes, so a rejected claim leaves both the
// player and the seat exactly as they were.
func (t *Table) TakeSeat(playerID int64, seatIndex, buyIn int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	player := t.playerLocked(playerID)
	if player == nil {
		return newSeatError("player %d is not at the table", playerID)
	}

	if player.IsSeated() {
		return newSeatError("player %d is already in seat %d", playerID, player.seatIndex)
	}

	if seatIndex < 0 || seatIndex >= len(t.seats) {
		return newSeatError("seat %d does not exist; the table has %d seats", seatIndex, len(t.seats))
	}

	if occupant := t.seats[seatIndex]; occupant != nil {
		return newSeatError("seat %d is taken by %s", seatIndex, occupant.DisplayName)
	}

	if buyIn < t.options.MinBuyIn || buyIn > t.options.MaxBuyIn {
		return newSeatError("buy-in of %d is outside the allowed range of %d to %d", buyIn, t.options.MinBuyIn, t.options.MaxBuyIn)
	}

	delete(t.observers, playerID)
	player.seatIndex = seatIndex
	player.stack = buyIn
	t.seats[seatIndex] = player

	return nil
}

// StandUp returns a seated player to the observers
func (t *Table) StandUp(playerID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.standUpLocked(playerID)
}

func (t *Table) standUpLocked(playerID int64) error {
	player := t.playerLocked(playerID)
	if player == nil {
		return newSeatError("player %d is not at the table", playerID)
	}

	if !player.IsSeated() {
		return newSeatError("player %d does not have a seat", playerID)
	}

	t.seats[player.seatIndex] = nil
	player.seatIndex = -1
	t.observers[playerID] = player

	return nil
}

// Leave removes a player from the table entirely, standing them up first if
// they hold a seat
func (t *Table) Leave(playerID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	player := t.playerLocked(playerID)
	if player == nil {
		return newSeatError("player %d is not at the table", playerID)
	}

	if player.IsSeated() {
		if err := t.standUpLocked(playerID); err != nil {
			return err
		}
	}

	delete(t.observers, playerID)
	return nil
}

// Player returns the player with the given ID, seated or observing
func (t *Table) Player(playerID int64) (*Player, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	player := t.playerLocked(playerID)
	return player, player != nil
}

func (t *Table) playerLocked(playerID int64) *Player {
	if player, ok := t.observers[playerID]; ok {
		return player
	}

	for _, player := range t.seats {
		if player != nil && player.ID == playerID {
			return player
		}
	}

	return nil
}

// Location returns where the player is for presence updates: the lobby, the
// table at large, or a specific seat
func (t *Table) Location(playerID int64) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	player := t.playerLocked(playerID)
	if player == nil {
		return LocationLobby
	}

	if player.IsSeated() {
		return fmt.Sprintf("table-%s-seat-%d", t.UUID, player.seatIndex)
	}

	return fmt.Sprintf("table-%s", t.UUID)
}

// SeatedCount returns how many seats are occupied
func (t *Table) SeatedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for _, player := range t.seats {
		if player != nil {
			count++
		}
	}

	return count
}

// AdvanceButton moves the dealer button to the next occupied seat and
// returns its index. The button stays put until at least one seat is taken.
func (t *Table) AdvanceButton() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.seats)
	for i := 1; i <= n; i++ {
		index := (t.button + i) % n
		if t.seats[index] != nil {
			t.button = index
			break
		}
	}

	return t.button
}

// ApplyResults writes the post-hand stacks back to the seats. Players left
// with nothing are stood up and their IDs returned.
func (t *Table) ApplyResults(stacks map[int64]int) []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	busted := make([]int64, 0)
	for id, stack := range stacks {
		player := t.playerLocked(id)
		if player == nil {
			continue
		}

		player.stack = stack
		if stack <= 0 && player.IsSeated() {
			// standUpLocked cannot fail for a seated player
			_ = t.standUpLocked(id)
			busted = append(busted, id)
		}
	}

	return busted
}

// HandSeats returns the seats for the next hand in action order starting
// with the small blind. Players who are away or cannot cover the big blind
// are left out. In a heads-up hand the button is the small blind.
func (t *Table) HandSeats() []holdem.Seat {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.seats)
	eligible := make([]*Player, 0, n)
	for i := 1; i <= n; i++ {
		player := t.seats[(t.button+i)%n]
		if player == nil || player.IsAway() || player.stack < t.options.BigBlind {
			continue
		}

		eligible = append(eligible, player)
	}

	if len(eligible) < minCapacity {
		return nil
	}

	// order starts left of the button; heads-up the button acts first
	if len(eligible) == 2 {
		eligible[0], eligible[1] = eligible[1], eligible[0]
	}

	seats := make([]holdem.Seat, len(eligible))
	for i, player := range eligible {
		seats[i] = holdem.Seat{
			PlayerID: player.ID,
			Stack:    player.stack,
		}
	}

	return seats
}
