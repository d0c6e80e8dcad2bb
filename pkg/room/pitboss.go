package room

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"holdemtable-server/internal/config"
	"holdemtable-server/pkg/shuffle"
	"holdemtable-server/pkg/table"
)

// PitBoss owns every table in the process and hands out their dealers
type PitBoss struct {
	logger   logrus.FieldLogger
	registry *shuffle.Registry
	options  Options

	mu      sync.RWMutex
	dealers map[string]*Dealer
}

// NewPitBoss returns a pit boss whose timers and table limits come from the
// service configuration
func NewPitBoss(logger logrus.FieldLogger, registry *shuffle.Registry) *PitBoss {
	cfg := config.Instance()

	return &PitBoss{
		logger:   logger,
		registry: registry,
		options: Options{
			StartGameDelay:  time.Duration(cfg.StartGameDelay) * time.Second,
			TurnTimeout:     time.Duration(cfg.TurnTimeout) * time.Second,
			DisconnectGrace: time.Duration(cfg.DisconnectGrace) * time.Second,
			Table: table.Options{
				SmallBlind: cfg.Blinds.Small,
				BigBlind:   cfg.Blinds.Big,
				MinBuyIn:   cfg.BuyIn.Min,
				MaxBuyIn:   cfg.BuyIn.Max,
			},
		},
		dealers: make(map[string]*Dealer),
	}
}

// CreateTable opens a new table and starts its dealer
func (p *PitBoss) CreateTable(name string, capacity int) (*Dealer, error) {
	options := p.options
	options.Table.Capacity = capacity

	tbl, err := table.NewTable(name, options.Table)
	if err != nil {
		return nil, err
	}

	dealer := NewDealer(p.logger, p.registry, tbl, options)
	dealer.Start()

	p.mu.Lock()
	p.dealers[tbl.UUID] = dealer
	p.mu.Unlock()

	p.logger.WithFields(logrus.Fields{
		"table":    tbl.UUID,
		"capacity": capacity,
	}).Info("table created")

	return dealer, nil
}

// Dealer returns the dealer for a table UUID
func (p *PitBoss) Dealer(tableUUID string) (*Dealer, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	dealer, ok := p.dealers[tableUUID]
	return dealer, ok
}

// Tables returns the presence snapshot of every open table
func (p *PitBoss) Tables() []*table.State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	states := make([]*table.State, 0, len(p.dealers))
	for _, dealer := range p.dealers {
		states = append(states, dealer.Table().State())
	}

	return states
}

// Shutdown closes every dealer
func (p *PitBoss) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for uuid, dealer := range p.dealers {
		dealer.Close()
		delete(p.dealers, uuid)
	}
}
