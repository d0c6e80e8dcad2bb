package room

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"holdemtable-server/pkg/holdem"
	"holdemtable-server/pkg/protocol"
	"holdemtable-server/pkg/shuffle"
	"holdemtable-server/pkg/table"
)

type fakeConn struct {
	closed chan bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan bool)}
}

func (f *fakeConn) ReadJSON(interface{}) error {
	<-f.closed
	return io.EOF
}

func (f *fakeConn) WriteJSON(interface{}) error {
	return nil
}

func (f *fakeConn) Close() error {
	select {
	case <-f.closed:
	default:
		close(f.closed)
	}

	return nil
}

func testDealerOptions() Options {
	return Options{
		StartGameDelay:  5 * time.Millisecond,
		TurnTimeout:     time.Hour,
		DisconnectGrace: 10 * time.Millisecond,
		Table: table.Options{
			Capacity:   6,
			SmallBlind: 1,
			BigBlind:   2,
			MinBuyIn:   20,
			MaxBuyIn:   2000,
		},
	}
}

func newTestDealer(t *testing.T, options Options) *Dealer {
	t.Helper()

	registry := shuffle.NewRegistry(shuffle.NewMemoryStore(), logrus.StandardLogger())
	tbl, err := table.NewTable("test table", options.Table)
	assert.NoError(t, err)

	dealer := NewDealer(logrus.StandardLogger(), registry, tbl, options)
	dealer.Start()
	t.Cleanup(dealer.Close)

	return dealer
}

func seatClient(t *testing.T, dealer *Dealer, playerID int64, seat int) *Client {
	t.Helper()

	client := NewClient(logrus.StandardLogger(), newFakeConn(), playerID, "")
	dealer.AddClient(client)

	dealer.Receive(client, &protocol.ClientMessage{
		Action:         protocol.ActionJoinTable,
		AdditionalData: protocol.AdditionalData{"displayName": "player"},
	})
	dealer.Receive(client, &protocol.ClientMessage{
		Action:         protocol.ActionTakeSeat,
		AdditionalData: protocol.AdditionalData{"seat": seat, "buyIn": 100},
	})

	player, ok := dealer.Table().Player(playerID)
	assert.True(t, ok)
	assert.True(t, player.IsSeated())

	return client
}

// currentGame reads the dealer's game through the run loop
func currentGame(dealer *Dealer) *holdem.Game {
	var game *holdem.Game
	dealer.execInRunLoop(func() {
		game = dealer.game
	})

	return game
}

func waitForHand(t *testing.T, dealer *Dealer) *holdem.Game {
	t.Helper()

	assert.Eventually(t, func() bool {
		return currentGame(dealer) != nil
	}, time.Second, time.Millisecond)

	return currentGame(dealer)
}

// gamePhase reads a hand's phase through the run loop so tests never race
// with timer callbacks
func gamePhase(dealer *Dealer, game *holdem.Game) holdem.Phase {
	var phase holdem.Phase
	dealer.execInRunLoop(func() {
		phase = game.Phase()
	})

	return phase
}

// drainEvents empties the client's outbound queue
func drainEvents(client *Client) []*protocol.Event {
	events := make([]*protocol.Event, 0)
	for {
		select {
		case event := <-client.sendChan:
			events = append(events, event)
		default:
			return events
		}
	}
}

func hasEvent(events []*protocol.Event, key string) bool {
	for _, event := range events {
		if event.Key == key {
			return true
		}
	}

	return false
}

func act(dealer *Dealer, client *Client, action string, data protocol.AdditionalData) {
	if data == nil {
		data = protocol.AdditionalData{}
	}
	data["action"] = action

	dealer.Receive(client, &protocol.ClientMessage{
		Action:         protocol.ActionPlayerAction,
		AdditionalData: data,
	})
}

func TestDealer_startsHandAfterSeating(t *testing.T) {
	dealer := newTestDealer(t, testDealerOptions())
	seatClient(t, dealer, 1, 0)
	seatClient(t, dealer, 2, 1)

	game := waitForHand(t, dealer)
	assert.Equal(t, holdem.PhasePreFlop, game.Phase())
	assert.Equal(t, 3, game.Pot())

	// the button holds the small blind heads-up and acts first
	id, ok := game.CurrentPlayerID()
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestDealer_playsHandToCompletion(t *testing.T) {
	dealer := newTestDealer(t, testDealerOptions())
	c1 := seatClient(t, dealer, 1, 0)
	c2 := seatClient(t, dealer, 2, 1)

	game := waitForHand(t, dealer)
	drainEvents(c1)
	drainEvents(c2)

	act(dealer, c1, "fold", nil)

	assert.Equal(t, holdem.PhaseFinished, game.Phase())
	assert.Equal(t, map[int64]int{2: 3}, game.Payouts())

	// stacks are written back to the table
	p1, _ := dealer.Table().Player(1)
	p2, _ := dealer.Table().Player(2)
	assert.Equal(t, 99, p1.Stack())
	assert.Equal(t, 101, p2.Stack())

	events := drainEvents(c2)
	assert.True(t, hasEvent(events, protocol.EventHandComplete))
	assert.True(t, hasEvent(events, protocol.EventCardOrderRevealed))

	// the hand's card ordering is now public
	assert.True(t, game.Commitment().IsRevealed())

	// another hand lines up on its own
	assert.Eventually(t, func() bool {
		next := currentGame(dealer)
		return next != nil && next.GameID() != game.GameID()
	}, time.Second, time.Millisecond)
}

func TestDealer_outOfTurnSendsError(t *testing.T) {
	dealer := newTestDealer(t, testDealerOptions())
	c1 := seatClient(t, dealer, 1, 0)
	c2 := seatClient(t, dealer, 2, 1)

	game := waitForHand(t, dealer)
	drainEvents(c1)
	drainEvents(c2)

	dealer.Receive(c2, &protocol.ClientMessage{
		Context:        "req-1",
		Action:         protocol.ActionPlayerAction,
		AdditionalData: protocol.AdditionalData{"action": "raise", "amount": 8},
	})

	events := drainEvents(c2)
	assert.True(t, hasEvent(events, protocol.EventError))
	for _, event := range events {
		if event.Key == protocol.EventError {
			assert.Equal(t, "req-1", event.Context)
		}
	}

	// the hand did not move
	assert.Equal(t, holdem.PhasePreFlop, game.Phase())
	assert.Equal(t, 2, len(game.Actions()))
}

func TestDealer_turnTimeoutForcesAction(t *testing.T) {
	options := testDealerOptions()
	options.TurnTimeout = 20 * time.Millisecond

	dealer := newTestDealer(t, options)
	seatClient(t, dealer, 1, 0)
	seatClient(t, dealer, 2, 1)

	game := waitForHand(t, dealer)

	// nobody acts; the timeout folds the small blind and ends the hand
	assert.Eventually(t, func() bool {
		return gamePhase(dealer, game) == holdem.PhaseFinished
	}, time.Second, time.Millisecond)

	assert.Equal(t, map[int64]int{2: 3}, game.Payouts())
}

func TestDealer_disconnectGraceActsForPlayer(t *testing.T) {
	dealer := newTestDealer(t, testDealerOptions())
	c1 := seatClient(t, dealer, 1, 0)
	seatClient(t, dealer, 2, 1)

	game := waitForHand(t, dealer)

	dealer.RemoveClient(c1)

	// after the grace period the player is away and their hand is folded
	assert.Eventually(t, func() bool {
		return gamePhase(dealer, game) == holdem.PhaseFinished
	}, time.Second, time.Millisecond)

	player, _ := dealer.Table().Player(1)
	assert.True(t, player.IsAway())
	assert.Equal(t, map[int64]int{2: 3}, game.Payouts())
}

func TestDealer_reconnectCancelsGrace(t *testing.T) {
	options := testDealerOptions()
	options.DisconnectGrace = 50 * time.Millisecond

	dealer := newTestDealer(t, options)
	c1 := seatClient(t, dealer, 1, 0)
	seatClient(t, dealer, 2, 1)

	game := waitForHand(t, dealer)

	dealer.RemoveClient(c1)

	// reconnect before the grace period lapses
	again := NewClient(logrus.StandardLogger(), newFakeConn(), 1, "")
	dealer.AddClient(again)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, holdem.PhasePreFlop, gamePhase(dealer, game))

	player, _ := dealer.Table().Player(1)
	assert.False(t, player.IsAway())
}

func TestDealer_locationBroadcasts(t *testing.T) {
	options := testDealerOptions()
	options.StartGameDelay = time.Hour

	dealer := newTestDealer(t, options)
	uuid := dealer.Table().UUID

	c1 := NewClient(logrus.StandardLogger(), newFakeConn(), 1, "alice")
	c2 := NewClient(logrus.StandardLogger(), newFakeConn(), 2, "bob")
	dealer.AddClient(c1)
	dealer.AddClient(c2)
	drainEvents(c1)
	drainEvents(c2)

	locationOf := func(events []*protocol.Event) string {
		for _, event := range events {
			if event.Key == protocol.EventLocationUpdate {
				update := event.Data.(*protocol.LocationUpdate)
				assert.Equal(t, int64(1), update.PlayerID)
				return update.Location
			}
		}

		return ""
	}

	dealer.Receive(c1, &protocol.ClientMessage{
		Action:         protocol.ActionJoinTable,
		AdditionalData: protocol.AdditionalData{},
	})

	// every client hears about the move, not just the mover
	assert.Equal(t, "table-"+uuid, locationOf(drainEvents(c2)))

	dealer.Receive(c1, &protocol.ClientMessage{
		Action:         protocol.ActionTakeSeat,
		AdditionalData: protocol.AdditionalData{"seat": 0, "buyIn": 100},
	})
	assert.Equal(t, "table-"+uuid+"-seat-0", locationOf(drainEvents(c2)))

	dealer.Receive(c1, &protocol.ClientMessage{Action: protocol.ActionStandUp})
	assert.Equal(t, "table-"+uuid, locationOf(drainEvents(c2)))

	dealer.Receive(c1, &protocol.ClientMessage{Action: protocol.ActionLeaveTable})
	assert.Equal(t, table.LocationLobby, locationOf(drainEvents(c2)))
}

func TestDealer_forceNextSeed(t *testing.T) {
	dealer := newTestDealer(t, testDealerOptions())

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = 42
	}
	dealer.ForceNextSeed(seed)

	seatClient(t, dealer, 1, 0)
	seatClient(t, dealer, 2, 1)

	game := waitForHand(t, dealer)
	expected := shuffle.NewCommitmentFromSeed(dealer.Table().UUID, seed)
	assert.Equal(t, expected.Hash, game.Commitment().Hash)
}
