package table

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testOptions() Options {
	return Options{
		Capacity:   6,
		SmallBlind: 1,
		BigBlind:   2,
		MinBuyIn:   20,
		MaxBuyIn:   2000,
	}
}

func newTestTable(t *testing.T) *Table {
	t.Helper()

	tbl, err := NewTable("test table", testOptions())
	assert.NoError(t, err)
	return tbl
}

func TestNewTable_validation(t *testing.T) {
	opts := testOptions()
	opts.Capacity = 1
	_, err := NewTable("test", opts)
	assert.EqualError(t, err, "capacity must be between 2 and 9; got 1")

	opts = testOptions()
	opts.Capacity = 10
	_, err = NewTable("test", opts)
	assert.EqualError(t, err, "capacity must be between 2 and 9; got 10")

	opts = testOptions()
	opts.MinBuyIn = 100
	opts.MaxBuyIn = 50
	_, err = NewTable("test", opts)
	assert.EqualError(t, err, "invalid buy-in range: 100 to 50")
}

func TestTable_joinAndTakeSeat(t *testing.T) {
	tbl := newTestTable(t)
	player := NewPlayer(1, "alice")

	assert.NoError(t, tbl.Join(player))
	assert.EqualError(t, tbl.Join(player), "player 1 is already at the table")
	assert.Equal(t, fmt.Sprintf("table-%s", tbl.UUID), tbl.Location(1))

	assert.NoError(t, tbl.TakeSeat(1, 2, 100))
	assert.Equal(t, 100, player.Stack())
	assert.Equal(t, 2, player.SeatIndex())
	assert.Equal(t, fmt.Sprintf("table-%s-seat-2", tbl.UUID), tbl.Location(1))
	assert.Equal(t, 1, tbl.SeatedCount())

	// seated players are no longer observers
	assert.Equal(t, 0, len(tbl.State().Observers))
}

func TestTable_takeSeatRejections(t *testing.T) {
	tbl := newTestTable(t)
	assert.NoError(t, tbl.Join(NewPlayer(1, "alice")))
	assert.NoError(t, tbl.Join(NewPlayer(2, "bob")))
	assert.NoError(t, tbl.TakeSeat(1, 0, 100))

	assert.EqualError(t, tbl.TakeSeat(3, 1, 100), "player 3 is not at the table")
	assert.EqualError(t, tbl.TakeSeat(1, 1, 100), "player 1 is already in seat 0")
	assert.EqualError(t, tbl.TakeSeat(2, 6, 100), "seat 6 does not exist; the table has 6 seats")
	assert.EqualError(t, tbl.TakeSeat(2, 0, 100), "seat 0 is taken by alice")
	assert.EqualError(t, tbl.TakeSeat(2, 1, 5), "buy-in of 5 is outside the allowed range of 20 to 2000")
	assert.EqualError(t, tbl.TakeSeat(2, 1, 9999), "buy-in of 9999 is outside the allowed range of 20 to 2000")

	// the rejected claims changed nothing
	player, ok := tbl.Player(2)
	assert.True(t, ok)
	assert.False(t, player.IsSeated())
	assert.Equal(t, 0, player.Stack())
	assert.Equal(t, 1, tbl.SeatedCount())
}

func TestTable_standUpAndLeave(t *testing.T) {
	tbl := newTestTable(t)
	assert.NoError(t, tbl.Join(NewPlayer(1, "alice")))

	assert.EqualError(t, tbl.StandUp(1), "player 1 does not have a seat")

	assert.NoError(t, tbl.TakeSeat(1, 0, 100))
	assert.NoError(t, tbl.StandUp(1))
	assert.Equal(t, 0, tbl.SeatedCount())
	assert.Equal(t, fmt.Sprintf("table-%s", tbl.UUID), tbl.Location(1))

	// the stack survives standing up
	player, _ := tbl.Player(1)
	assert.Equal(t, 100, player.Stack())

	assert.NoError(t, tbl.TakeSeat(1, 3, 100))
	assert.NoError(t, tbl.Leave(1))
	_, ok := tbl.Player(1)
	assert.False(t, ok)
	assert.Equal(t, LocationLobby, tbl.Location(1))

	assert.EqualError(t, tbl.Leave(1), "player 1 is not at the table")
}

func TestTable_handSeats(t *testing.T) {
	tbl := newTestTable(t)
	for i := int64(1); i <= 3; i++ {
		assert.NoError(t, tbl.Join(NewPlayer(i, "")))
		assert.NoError(t, tbl.TakeSeat(i, int(i-1), 100))
	}

	assert.Equal(t, 0, tbl.AdvanceButton())

	// action order starts left of the button
	seats := tbl.HandSeats()
	assert.Equal(t, 3, len(seats))
	assert.Equal(t, int64(2), seats[0].PlayerID)
	assert.Equal(t, int64(3), seats[1].PlayerID)
	assert.Equal(t, int64(1), seats[2].PlayerID)

	assert.Equal(t, 1, tbl.AdvanceButton())
	seats = tbl.HandSeats()
	assert.Equal(t, int64(3), seats[0].PlayerID)
}

func TestTable_handSeatsHeadsUp(t *testing.T) {
	tbl := newTestTable(t)
	for i := int64(1); i <= 2; i++ {
		assert.NoError(t, tbl.Join(NewPlayer(i, "")))
		assert.NoError(t, tbl.TakeSeat(i, int(i-1), 100))
	}

	assert.Equal(t, 0, tbl.AdvanceButton())

	// heads-up the button posts the small blind and is listed first
	seats := tbl.HandSeats()
	assert.Equal(t, 2, len(seats))
	assert.Equal(t, int64(1), seats[0].PlayerID)
	assert.Equal(t, int64(2), seats[1].PlayerID)
}

func TestTable_handSeatsSkipsIneligible(t *testing.T) {
	tbl := newTestTable(t)
	for i := int64(1); i <= 3; i++ {
		assert.NoError(t, tbl.Join(NewPlayer(i, "")))
		assert.NoError(t, tbl.TakeSeat(i, int(i-1), 100))
	}

	player, _ := tbl.Player(2)
	player.SetAway(true)

	seats := tbl.HandSeats()
	assert.Equal(t, 2, len(seats))
	for _, seat := range seats {
		assert.NotEqual(t, int64(2), seat.PlayerID)
	}

	player.SetAway(false)
	player.SetStack(1)
	seats = tbl.HandSeats()
	assert.Equal(t, 2, len(seats))

	// one eligible player is not a hand
	other, _ := tbl.Player(3)
	other.SetAway(true)
	assert.Nil(t, tbl.HandSeats())
}

func TestTable_applyResults(t *testing.T) {
	tbl := newTestTable(t)
	for i := int64(1); i <= 2; i++ {
		assert.NoError(t, tbl.Join(NewPlayer(i, "")))
		assert.NoError(t, tbl.TakeSeat(i, int(i-1), 100))
	}

	busted := tbl.ApplyResults(map[int64]int{1: 200, 2: 0})
	assert.Equal(t, []int64{2}, busted)

	winner, _ := tbl.Player(1)
	assert.Equal(t, 200, winner.Stack())
	assert.True(t, winner.IsSeated())

	loser, _ := tbl.Player(2)
	assert.False(t, loser.IsSeated())
	assert.Equal(t, 1, tbl.SeatedCount())
}
