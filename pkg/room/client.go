package room

import (
	"sync"

	"github.com/sirupsen/logrus"

	"holdemtable-server/pkg/protocol"
)

const sendBufferSize = 64

// connection is the subset of a websocket connection the room needs
type connection interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
}

// Client is a single websocket connection for an authenticated player
type Client struct {
	PlayerID    int64
	DisplayName string

	conn      connection
	logger    logrus.FieldLogger
	sendChan  chan *protocol.Event
	closeChan chan bool
	closeOnce sync.Once
}

// NewClient returns a client for the connection. Call Run to start pumping
// messages.
func NewClient(logger logrus.FieldLogger, conn connection, playerID int64, displayName string) *Client {
	return &Client{
		PlayerID:    playerID,
		DisplayName: displayName,
		conn:        conn,
		logger:      logger.WithField("playerId", playerID),
		sendChan:    make(chan *protocol.Event, sendBufferSize),
		closeChan:   make(chan bool),
	}
}

// Send queues an event for delivery. A client that cannot keep up is
// disconnected rather than allowed to stall the table.
func (c *Client) Send(event *protocol.Event) {
	select {
	case c.sendChan <- event:
	case <-c.closeChan:
	default:
		c.logger.Warn("send buffer full; closing client")
		c.Close()
	}
}

// Close shuts the connection down. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
		_ = c.conn.Close()
	})
}

// Run pumps messages until the connection drops. Inbound messages go to
// receive; the method returns once the client is closed.
func (c *Client) Run(receive func(*Client, *protocol.ClientMessage)) {
	go c.writeLoop()

	for {
		var msg protocol.ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.logger.WithError(err).Debug("read failed; closing client")
			c.Close()
			return
		}

		receive(c, &msg)
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case event := <-c.sendChan:
			if err := c.conn.WriteJSON(event); err != nil {
				c.logger.WithError(err).Debug("write failed; closing client")
				c.Close()
				return
			}
		case <-c.closeChan:
			return
		}
	}
}
