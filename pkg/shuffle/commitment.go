package shuffle

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"holdemtable-server/pkg/deck"
)

// seedSize is the number of random bytes behind each card ordering
const seedSize = 32

// ErrAlreadyRevealed is an error when a commitment is revealed twice
var ErrAlreadyRevealed = errors.New("commitment is already revealed")

// Commitment is a provably fair card ordering for a single hand.
// The hash is published before any card is dealt; the seed and the ordering
// stay secret until the hand finishes.
type Commitment struct {
	GameID    string
	TableUUID string
	Hash      string

	seed      []byte
	cardOrder []*deck.Card

	revealed   bool
	createdAt  time.Time
	revealedAt time.Time
}

// NewCommitment generates a commitment with a cryptographically random seed
func NewCommitment(tableUUID string) (*Commitment, error) {
	seed := make([]byte, seedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}

	return NewCommitmentFromSeed(tableUUID, seed), nil
}

// NewCommitmentFromSeed derives a commitment from the provided seed.
// Intended for verification and for deterministic test fixtures.
func NewCommitmentFromSeed(tableUUID string, seed []byte) *Commitment {
	s := make([]byte, len(seed))
	copy(s, seed)

	cardOrder := deck.Permutation(s)

	return &Commitment{
		GameID:    uuid.New().String(),
		TableUUID: tableUUID,
		Hash:      ComputeHash(s, cardOrder),
		seed:      s,
		cardOrder: cardOrder,
		createdAt: time.Now(),
	}
}

// ComputeHash returns the commitment hash for a seed and card ordering
func ComputeHash(seed []byte, cardOrder []*deck.Card) string {
	payload := fmt.Sprintf("%s|%s", hex.EncodeToString(seed), deck.CardsToString(cardOrder))
	sum := sha256.Sum256([]byte(payload))

	return hex.EncodeToString(sum[:])
}

// Deck returns a fresh deck that deals the committed ordering front to back
func (c *Commitment) Deck() *deck.Deck {
	return deck.FromOrder(c.cardOrder)
}

// Reveal publishes the seed and card ordering
func (c *Commitment) Reveal() error {
	if c.revealed {
		return ErrAlreadyRevealed
	}

	c.revealed = true
	c.revealedAt = time.Now()
	return nil
}

// IsRevealed returns true once the seed and ordering are public
func (c *Commitment) IsRevealed() bool {
	return c.revealed
}

// Seed returns the hex-encoded seed, but only after the reveal
func (c *Commitment) Seed() (string, bool) {
	if !c.revealed {
		return "", false
	}

	return hex.EncodeToString(c.seed), true
}

// CardOrder returns the card ordering, but only after the reveal
func (c *Commitment) CardOrder() (string, bool) {
	if !c.revealed {
		return "", false
	}

	return deck.CardsToString(c.cardOrder), true
}

// RevealedAt returns when the commitment was revealed
func (c *Commitment) RevealedAt() (time.Time, bool) {
	if !c.revealed {
		return time.Time{}, false
	}

	return c.revealedAt, true
}

// Verify recomputes the hash from the stored seed and ordering and compares
// it against the expected hash. A mismatch is a result, never an error.
func (c *Commitment) Verify(expectedHash string) VerifyResult {
	actual := ComputeHash(c.seed, c.cardOrder)

	return VerifyResult{
		GameID:      c.GameID,
		IsValid:     actual == c.Hash && actual == expectedHash,
		HashMatches: actual == expectedHash,
		ActualHash:  actual,
	}
}

// VerifyResult is the outcome of a verification request
type VerifyResult struct {
	GameID      string `json:"gameId"`
	IsValid     bool   `json:"isValid"`
	HashMatches bool   `json:"hashMatches"`
	ActualHash  string `json:"actualHash"`
}

type commitmentJSON struct {
	GameID     string `json:"gameId"`
	TableUUID  string `json:"tableUuid"`
	Hash       string `json:"hash"`
	IsRevealed bool   `json:"isRevealed"`
	Seed       string `json:"seed,omitempty"`
	CardOrder  string `json:"cardOrder,omitempty"`
}

// MarshalJSON never exposes the seed or ordering of an unrevealed commitment
func (c *Commitment) MarshalJSON() ([]byte, error) {
	out := commitmentJSON{
		GameID:     c.GameID,
		TableUUID:  c.TableUUID,
		Hash:       c.Hash,
		IsRevealed: c.revealed,
	}

	if c.revealed {
		out.Seed, _ = c.Seed()
		out.CardOrder, _ = c.CardOrder()
	}

	return json.Marshal(out)
}
