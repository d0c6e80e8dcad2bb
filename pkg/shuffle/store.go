package shuffle

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrGameNotFound is an error when a game ID has no commitment
var ErrGameNotFound = errors.New("could not find a card ordering for that game")

// Record is the persisted form of a commitment
type Record struct {
	GameID     string
	TableUUID  string
	Hash       string
	Seed       string
	CardOrder  string
	CreatedAt  time.Time
	RevealedAt *time.Time
}

// Store archives commitments for verification after the process restarts
type Store interface {
	Save(ctx context.Context, record *Record) error
	MarkRevealed(ctx context.Context, gameID string, revealedAt time.Time) error
	Get(ctx context.Context, gameID string) (*Record, error)
	Latest(ctx context.Context, count int) ([]*Record, error)
	Revealed(ctx context.Context) ([]*Record, error)
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore returns a new MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
	}
}

// Save stores a record, keyed by game ID
func (m *MemoryStore) Save(_ context.Context, record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *record
	m.records[record.GameID] = &clone
	return nil
}

// MarkRevealed sets the reveal time on a stored record
func (m *MemoryStore) MarkRevealed(_ context.Context, gameID string, revealedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[gameID]
	if !ok {
		return ErrGameNotFound
	}

	record.RevealedAt = &revealedAt
	return nil
}

// Get returns the record for a game ID
func (m *MemoryStore) Get(_ context.Context, gameID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}

	clone := *record
	return &clone, nil
}

// Latest returns up to count records, newest first
func (m *MemoryStore) Latest(_ context.Context, count int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Record, 0, len(m.records))
	for _, record := range m.records {
		clone := *record
		records = append(records, &clone)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if len(records) > count {
		records = records[:count]
	}

	return records, nil
}

// Revealed returns every revealed record, oldest first
func (m *MemoryStore) Revealed(_ context.Context) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Record, 0, len(m.records))
	for _, record := range m.records {
		if record.RevealedAt == nil {
			continue
		}

		clone := *record
		records = append(records, &clone)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	return records, nil
}
