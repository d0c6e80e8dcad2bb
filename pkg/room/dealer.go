package room

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"holdemtable-server/pkg/holdem"
	"holdemtable-server/pkg/protocol"
	"holdemtable-server/pkg/shuffle"
	"holdemtable-server/pkg/table"
)

// Options configures the timers and tables a dealer runs
type Options struct {
	StartGameDelay  time.Duration
	TurnTimeout     time.Duration
	DisconnectGrace time.Duration
	Table           table.Options
}

// Dealer runs a single table. Every mutation, including timer callbacks,
// funnels through one run loop, so commands are handled strictly one at a
// time in arrival order.
type Dealer struct {
	logger   logrus.FieldLogger
	table    *table.Table
	registry *shuffle.Registry
	options  Options

	game     *holdem.Game
	lastGame *holdem.Game

	clients map[*Client]bool

	execChan  chan func()
	closeChan chan bool

	startTimer       *time.Timer
	turnTimer        *time.Timer
	turnPlayerID     int64
	disconnectTimers map[int64]*time.Timer

	// nextSeed forces the next hand's card ordering; test fixtures only
	nextSeed []byte
}

// NewDealer returns a dealer for the table. Call Start to begin handling
// commands.
func NewDealer(logger logrus.FieldLogger, registry *shuffle.Registry, tbl *table.Table, options Options) *Dealer {
	return &Dealer{
		logger:           logger.WithField("table", tbl.UUID),
		table:            tbl,
		registry:         registry,
		options:          options,
		clients:          make(map[*Client]bool),
		execChan:         make(chan func()),
		closeChan:        make(chan bool),
		disconnectTimers: make(map[int64]*time.Timer),
	}
}

// Table returns the table this dealer runs
func (d *Dealer) Table() *table.Table {
	return d.table
}

// Start launches the run loop
func (d *Dealer) Start() {
	go d.runLoop()
}

// Close shuts the dealer down and disconnects every client
func (d *Dealer) Close() {
	close(d.closeChan)
}

func (d *Dealer) runLoop() {
	for {
		select {
		case fn := <-d.execChan:
			fn()
		case <-d.closeChan:
			d.stopTimer(&d.startTimer)
			d.stopTimer(&d.turnTimer)
			for id, timer := range d.disconnectTimers {
				timer.Stop()
				delete(d.disconnectTimers, id)
			}
			for client := range d.clients {
				client.Close()
			}
			return
		}
	}
}

// execInRunLoop runs fn on the run loop and waits for it to finish. Never
// call it from inside the run loop.
func (d *Dealer) execInRunLoop(fn func()) {
	done := make(chan bool)
	select {
	case d.execChan <- func() {
		fn()
		close(done)
	}:
		<-done
	case <-d.closeChan:
	}
}

// AddClient registers a connected client and sends it the current state.
// The caller still owns the client's read loop.
func (d *Dealer) AddClient(client *Client) {
	d.execInRunLoop(func() {
		d.clients[client] = true

		if timer, ok := d.disconnectTimers[client.PlayerID]; ok {
			timer.Stop()
			delete(d.disconnectTimers, client.PlayerID)
		}

		d.sendState(client)
	})
}

// RemoveClient forgets a client. If the player has no other connection a
// disconnect grace timer begins.
func (d *Dealer) RemoveClient(client *Client) {
	d.execInRunLoop(func() {
		delete(d.clients, client)
		client.Close()

		if !d.hasClientFor(client.PlayerID) {
			d.beginDisconnectGrace(client.PlayerID)
		}
	})
}

// Receive handles a message from a client
func (d *Dealer) Receive(client *Client, msg *protocol.ClientMessage) {
	d.execInRunLoop(func() {
		d.handleMessage(client, msg)
	})
}

// ForceNextSeed fixes the seed of the next hand dealt. Only reachable
// through the test fixture endpoints.
func (d *Dealer) ForceNextSeed(seed []byte) {
	d.execInRunLoop(func() {
		d.nextSeed = seed
	})
}

func (d *Dealer) hasClientFor(playerID int64) bool {
	for client := range d.clients {
		if client.PlayerID == playerID {
			return true
		}
	}

	return false
}

func (d *Dealer) handleMessage(client *Client, msg *protocol.ClientMessage) {
	switch msg.Action {
	case protocol.ActionJoinTable:
		name, _ := msg.AdditionalData.GetString("displayName")
		if name == "" {
			name = client.DisplayName
		}

		player := table.NewPlayer(client.PlayerID, name)
		if err := d.table.Join(player); err != nil {
			client.Send(protocol.ErrorEvent(msg.Context, err))
			return
		}

		client.Send(&protocol.Event{
			Key:     protocol.EventTableJoined,
			Context: msg.Context,
			Data:    d.table.State(),
		})
		d.broadcastLocation(client.PlayerID)
	case protocol.ActionTakeSeat:
		seat, _ := msg.AdditionalData.GetInt("seat")
		buyIn, _ := msg.AdditionalData.GetInt("buyIn")
		if err := d.table.TakeSeat(client.PlayerID, seat, buyIn); err != nil {
			client.Send(protocol.ErrorEvent(msg.Context, err))
			return
		}
		d.broadcastLocation(client.PlayerID)
	case protocol.ActionStandUp:
		if err := d.table.StandUp(client.PlayerID); err != nil {
			client.Send(protocol.ErrorEvent(msg.Context, err))
			return
		}
		d.broadcastLocation(client.PlayerID)
	case protocol.ActionLeaveTable:
		if err := d.table.Leave(client.PlayerID); err != nil {
			client.Send(protocol.ErrorEvent(msg.Context, err))
			return
		}
		d.broadcastLocation(client.PlayerID)
	case protocol.ActionSetAway:
		player, ok := d.table.Player(client.PlayerID)
		if !ok {
			client.Send(protocol.ErrorEvent(msg.Context, table.SeatError("you are not at the table")))
			return
		}

		player.SetAway(msg.AdditionalData.GetBool("away"))
	case protocol.ActionPlayerAction:
		d.handlePlayerAction(client, msg)
		return
	case protocol.ActionUpdateLocation:
		client.Send(&protocol.Event{
			Key:     protocol.EventLocationUpdate,
			Context: msg.Context,
			Data:    d.table.Location(client.PlayerID),
		})
		return
	default:
		client.Send(protocol.ErrorEvent(msg.Context, protocol.ErrUnknownAction))
		return
	}

	d.broadcastState()
	d.maybeScheduleStart()
}

func (d *Dealer) handlePlayerAction(client *Client, msg *protocol.ClientMessage) {
	if d.game == nil {
		client.Send(protocol.ErrorEvent(msg.Context, holdem.ActionError("no hand is in progress")))
		return
	}

	name, _ := msg.AdditionalData.GetString("action")
	action, err := holdem.ActionFromString(name)
	if err != nil {
		client.Send(protocol.ErrorEvent(msg.Context, err))
		return
	}

	amount, _ := msg.AdditionalData.GetInt("amount")
	allIn := msg.AdditionalData.GetBool("allIn")

	if _, err := d.game.Act(client.PlayerID, action, amount, allIn); err != nil {
		client.Send(protocol.ErrorEvent(msg.Context, err))
		return
	}

	d.afterGameMutation()
	d.broadcastState()
}

// afterGameMutation settles a finished hand and acts for players who have
// stepped away, then keeps the turn timer pointed at the right player
func (d *Dealer) afterGameMutation() {
	for d.game != nil {
		if d.game.Phase() == holdem.PhaseFinished {
			d.finishHand()
			return
		}

		id, ok := d.game.CurrentPlayerID()
		if !ok {
			break
		}

		player, found := d.table.Player(id)
		if !found || !player.IsAway() {
			break
		}

		if _, err := d.game.ForceAction(id); err != nil {
			d.logger.WithError(err).WithField("playerId", id).Error("could not act for away player")
			break
		}
	}

	d.scheduleTurnTimer()
}

func (d *Dealer) scheduleTurnTimer() {
	if d.game == nil {
		d.stopTimer(&d.turnTimer)
		d.turnPlayerID = 0
		return
	}

	id, ok := d.game.CurrentPlayerID()
	if !ok {
		d.stopTimer(&d.turnTimer)
		d.turnPlayerID = 0
		return
	}

	if id == d.turnPlayerID && d.turnTimer != nil {
		return
	}

	d.stopTimer(&d.turnTimer)
	d.turnPlayerID = id
	d.turnTimer = time.AfterFunc(d.options.TurnTimeout, func() {
		d.execInRunLoop(func() {
			d.turnExpired(id)
		})
	})
}

func (d *Dealer) turnExpired(playerID int64) {
	if d.game == nil {
		return
	}

	current, ok := d.game.CurrentPlayerID()
	if !ok || current != playerID {
		return
	}

	d.logger.WithField("playerId", playerID).Info("turn timed out")
	if _, err := d.game.ForceAction(playerID); err != nil {
		d.logger.WithError(err).Error("could not act for timed-out player")
		return
	}

	d.afterGameMutation()
	d.broadcastState()
}

func (d *Dealer) beginDisconnectGrace(playerID int64) {
	if _, ok := d.table.Player(playerID); !ok {
		return
	}

	if timer, ok := d.disconnectTimers[playerID]; ok {
		timer.Stop()
	}

	d.disconnectTimers[playerID] = time.AfterFunc(d.options.DisconnectGrace, func() {
		d.execInRunLoop(func() {
			d.disconnectExpired(playerID)
		})
	})
}

// disconnectExpired runs when a player's grace period lapses without a
// reconnect. Mid-hand players are marked away so the normal forced-action
// path folds or checks for them; otherwise they are removed from the table.
func (d *Dealer) disconnectExpired(playerID int64) {
	delete(d.disconnectTimers, playerID)

	if d.hasClientFor(playerID) {
		return
	}

	player, ok := d.table.Player(playerID)
	if !ok {
		return
	}

	inHand := false
	if d.game != nil {
		_, inHand = d.game.Participant(playerID)
	}

	d.logger.WithField("playerId", playerID).Info("disconnect grace expired")

	if inHand {
		player.SetAway(true)
		d.afterGameMutation()
	} else {
		if err := d.table.Leave(playerID); err != nil {
			d.logger.WithError(err).Error("could not remove disconnected player")
		} else {
			d.broadcastLocation(playerID)
		}
	}

	d.broadcastState()
	d.maybeScheduleStart()
}

func (d *Dealer) maybeScheduleStart() {
	if d.game != nil || d.startTimer != nil {
		return
	}

	if d.table.HandSeats() == nil {
		return
	}

	d.startTimer = time.AfterFunc(d.options.StartGameDelay, func() {
		d.execInRunLoop(func() {
			d.startTimer = nil
			d.startHand()
		})
	})
}

func (d *Dealer) startHand() {
	if d.game != nil {
		return
	}

	d.table.AdvanceButton()
	seats := d.table.HandSeats()
	if seats == nil {
		return
	}

	var commitment *shuffle.Commitment
	if d.nextSeed != nil {
		commitment = shuffle.NewCommitmentFromSeed(d.table.UUID, d.nextSeed)
		d.nextSeed = nil
	} else {
		var err error
		commitment, err = shuffle.NewCommitment(d.table.UUID)
		if err != nil {
			d.logger.WithError(err).Error("could not create card ordering")
			return
		}
	}

	if err := d.registry.Register(context.Background(), commitment); err != nil {
		d.logger.WithError(err).Error("could not register card ordering")
		return
	}

	opts := holdem.Options{
		SmallBlind: d.options.Table.SmallBlind,
		BigBlind:   d.options.Table.BigBlind,
	}

	game, err := holdem.NewGame(d.logger, seats, commitment, opts)
	if err != nil {
		d.logger.WithError(err).Error("could not create hand")
		return
	}

	if err := game.Begin(); err != nil {
		d.logger.WithError(err).Error("could not begin hand")
		return
	}

	d.game = game
	d.lastGame = nil

	d.afterGameMutation()
	d.broadcastState()
}

// finishHand reveals the card ordering, writes the stacks back to the
// table, and lines up the next hand
func (d *Dealer) finishHand() {
	game := d.game
	d.game = nil
	d.lastGame = game
	d.stopTimer(&d.turnTimer)
	d.turnPlayerID = 0

	if err := d.registry.Reveal(context.Background(), game.GameID()); err != nil {
		d.logger.WithError(err).Error("could not reveal card ordering")
	}

	stacks := make(map[int64]int)
	for _, id := range game.PlayerIDs() {
		if p, ok := game.Participant(id); ok {
			stacks[id] = p.Balance()
		}
	}

	busted := d.table.ApplyResults(stacks)
	for _, id := range busted {
		d.logger.WithField("playerId", id).Info("player busted")
	}

	d.broadcast(protocol.NewEvent(protocol.EventHandComplete, game.Payouts()))
	d.broadcast(protocol.NewEvent(protocol.EventCardOrderRevealed, game.Commitment()))

	d.broadcastState()
	d.maybeScheduleStart()
}

// broadcastLocation tells every client where a player now is, so observer
// and seat lists converge everywhere
func (d *Dealer) broadcastLocation(playerID int64) {
	nickname := ""
	if player, ok := d.table.Player(playerID); ok {
		nickname = player.DisplayName
	}

	d.broadcast(protocol.NewEvent(protocol.EventLocationUpdate, &protocol.LocationUpdate{
		PlayerID: playerID,
		Nickname: nickname,
		Location: d.table.Location(playerID),
	}))
}

func (d *Dealer) broadcast(event *protocol.Event) {
	for client := range d.clients {
		client.Send(event)
	}
}

// sendState sends the table snapshot and the viewer's game state
func (d *Dealer) sendState(client *Client) {
	client.Send(protocol.NewEvent(protocol.EventTableState, d.table.State()))

	game := d.game
	if game == nil {
		game = d.lastGame
	}
	if game != nil {
		client.Send(protocol.NewEvent(protocol.EventGameState, game.StateForPlayer(client.PlayerID)))
	}
}

func (d *Dealer) broadcastState() {
	for client := range d.clients {
		d.sendState(client)
	}
}

func (d *Dealer) stopTimer(timer **time.Timer) {
	if *timer != nil {
		(*timer).Stop()
		*timer = nil
	}
}
