package deck

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck represents a playing deck dealt from a fixed card ordering
type Deck struct {
	Cards []*Card `json:"cards"`
}

// CanonicalOrder returns the 52 cards in their unshuffled, canonical order
func CanonicalOrder() []*Card {
	cards := make([]*Card, 0, 52)
	for _, suit := range Suits {
		for rank := 2; rank <= 14; rank++ {
			cards = append(cards, &Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	return cards
}

// Permutation derives the full 52-card ordering for the given seed.
// The same seed always yields the same ordering, independent of platform or
// library version: a Fisher-Yates shuffle driven by a SHA-256 counter stream.
func Permutation(seed []byte) []*Card {
	cards := CanonicalOrder()
	stream := newHashStream(seed)

	for j := len(cards) - 1; j > 0; j-- {
		i := stream.intn(j + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	return cards
}

// FromOrder returns a deck that deals the provided cards front to back
func FromOrder(cards []*Card) *Deck {
	c := make([]*Card, len(cards))
	copy(c, cards)

	return &Deck{Cards: c}
}

// FromSeed returns a deck ordered by the seed-derived permutation
func FromSeed(seed []byte) *Deck {
	return &Deck{Cards: Permutation(seed)}
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with a nil card.
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) <= 0 {
		return nil, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}

// hashStream produces deterministic pseudo-random numbers from a seed by
// hashing seed||counter. Not fast, but reproducible anywhere SHA-256 exists.
type hashStream struct {
	seed    []byte
	counter uint64
}

func newHashStream(seed []byte) *hashStream {
	s := make([]byte, len(seed))
	copy(s, seed)

	return &hashStream{seed: s}
}

func (h *hashStream) next() uint64 {
	buf := make([]byte, len(h.seed)+8)
	copy(buf, h.seed)
	binary.BigEndian.PutUint64(buf[len(h.seed):], h.counter)
	h.counter++

	sum := sha256.Sum256(buf)
	return binary.BigEndian.Uint64(sum[0:8])
}

// intn returns a uniform value in [0, n) using rejection sampling
func (h *hashStream) intn(n int) int {
	if n <= 0 {
		panic("intn: n must be > 0")
	}

	un := uint64(n)
	limit := (^uint64(0) / un) * un
	for {
		if v := h.next(); v < limit {
			return int(v % un)
		}
	}
}
