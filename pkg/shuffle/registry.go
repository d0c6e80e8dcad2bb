package shuffle

import (
	"context"
	"encoding/csv"
	"encoding/hex"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"holdemtable-server/pkg/deck"
)

// maxLatest caps how many recent commitments a single listing may return
const maxLatest = 10

// Registry tracks the commitments for every hand dealt by this process and
// archives them through a Store so they stay verifiable across restarts.
type Registry struct {
	mu          sync.RWMutex
	store       Store
	commitments map[string]*Commitment
	logger      logrus.FieldLogger
}

// NewRegistry returns a new Registry backed by the supplied store
func NewRegistry(store Store, logger logrus.FieldLogger) *Registry {
	return &Registry{
		store:       store,
		commitments: make(map[string]*Commitment),
		logger:      logger,
	}
}

// Register archives a new commitment and begins tracking it
func (r *Registry) Register(ctx context.Context, c *Commitment) error {
	seed := hex.EncodeToString(c.seed)

	if err := r.store.Save(ctx, &Record{
		GameID:    c.GameID,
		TableUUID: c.TableUUID,
		Hash:      c.Hash,
		Seed:      seed,
		CardOrder: deck.CardsToString(c.cardOrder),
		CreatedAt: c.createdAt,
	}); err != nil {
		return err
	}

	r.mu.Lock()
	r.commitments[c.GameID] = c
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"gameId": c.GameID,
		"hash":   c.Hash,
	}).Info("registered card ordering")

	return nil
}

// Reveal publishes the seed and ordering for a finished hand
func (r *Registry) Reveal(ctx context.Context, gameID string) error {
	r.mu.RLock()
	c, ok := r.commitments[gameID]
	r.mu.RUnlock()

	if !ok {
		return ErrGameNotFound
	}

	if err := c.Reveal(); err != nil {
		return err
	}

	revealedAt, _ := c.RevealedAt()
	if err := r.store.MarkRevealed(ctx, gameID, revealedAt); err != nil {
		r.logger.WithError(err).WithField("gameId", gameID).Error("could not persist reveal")
		return err
	}

	return nil
}

// Get returns the live commitment for a game ID, if this process dealt it
func (r *Registry) Get(gameID string) (*Commitment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.commitments[gameID]
	return c, ok
}

// Summary is the public view of an archived commitment. The seed and the
// ordering are blank until the hand is revealed.
type Summary struct {
	GameID     string     `json:"gameId"`
	TableUUID  string     `json:"tableUuid"`
	Hash       string     `json:"hash"`
	IsRevealed bool       `json:"isRevealed"`
	Seed       string     `json:"seed,omitempty"`
	CardOrder  string     `json:"cardOrder,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	RevealedAt *time.Time `json:"revealedAt,omitempty"`
}

// Summarize returns the public view of a single commitment
func (r *Registry) Summarize(ctx context.Context, gameID string) (*Summary, error) {
	record, err := r.store.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	return summaryByRecord(record), nil
}

// Latest returns the public view of the most recent commitments, newest
// first. The count is capped.
func (r *Registry) Latest(ctx context.Context, count int) ([]*Summary, error) {
	if count <= 0 || count > maxLatest {
		count = maxLatest
	}

	records, err := r.store.Latest(ctx, count)
	if err != nil {
		return nil, err
	}

	summaries := make([]*Summary, len(records))
	for i, record := range records {
		summaries[i] = summaryByRecord(record)
	}

	return summaries, nil
}

// Verify recomputes the hash for a game and compares it against the hash
// the caller expected. Unknown games return ErrGameNotFound.
func (r *Registry) Verify(ctx context.Context, gameID, expectedHash string) (*VerifyResult, error) {
	r.mu.RLock()
	c, ok := r.commitments[gameID]
	r.mu.RUnlock()

	if ok {
		result := c.Verify(expectedHash)
		return &result, nil
	}

	record, err := r.store.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	actual := record.Hash
	if seed, err := hex.DecodeString(record.Seed); err == nil {
		actual = ComputeHash(seed, deck.Permutation(seed))
	}

	return &VerifyResult{
		GameID:      record.GameID,
		IsValid:     actual == record.Hash && actual == expectedHash,
		HashMatches: actual == expectedHash,
		ActualHash:  actual,
	}, nil
}

// ExportCSV writes every revealed commitment as CSV. Unrevealed hands are
// never included.
func (r *Registry) ExportCSV(ctx context.Context, w io.Writer) error {
	records, err := r.store.Revealed(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"game_id", "hash", "seed", "card_order", "revealed_at"}); err != nil {
		return err
	}

	for _, record := range records {
		revealedAt := ""
		if record.RevealedAt != nil {
			revealedAt = record.RevealedAt.UTC().Format(time.RFC3339)
		}

		if err := cw.Write([]string{record.GameID, record.Hash, record.Seed, record.CardOrder, revealedAt}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func summaryByRecord(record *Record) *Summary {
	summary := &Summary{
		GameID:    record.GameID,
		TableUUID: record.TableUUID,
		Hash:      record.Hash,
		CreatedAt: record.CreatedAt,
	}

	if record.RevealedAt != nil {
		summary.IsRevealed = true
		summary.Seed = record.Seed
		summary.CardOrder = record.CardOrder
		summary.RevealedAt = record.RevealedAt
	}

	return summary
}
