package shuffle

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testRegistry() *Registry {
	return NewRegistry(NewMemoryStore(), logrus.StandardLogger())
}

func TestRegistry_registerAndGet(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	c := NewCommitmentFromSeed("table-uuid", testSeed(10))
	assert.NoError(t, r.Register(ctx, c))

	got, ok := r.Get(c.GameID)
	assert.True(t, ok)
	assert.Equal(t, c.Hash, got.Hash)

	_, ok = r.Get("unknown-game")
	assert.False(t, ok)
}

func TestRegistry_summarizeHidesSecretsUntilReveal(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	c := NewCommitmentFromSeed("table-uuid", testSeed(11))
	assert.NoError(t, r.Register(ctx, c))

	summary, err := r.Summarize(ctx, c.GameID)
	assert.NoError(t, err)
	assert.False(t, summary.IsRevealed)
	assert.Equal(t, "", summary.Seed)
	assert.Equal(t, "", summary.CardOrder)
	assert.Equal(t, c.Hash, summary.Hash)

	assert.NoError(t, r.Reveal(ctx, c.GameID))

	summary, err = r.Summarize(ctx, c.GameID)
	assert.NoError(t, err)
	assert.True(t, summary.IsRevealed)
	assert.NotEqual(t, "", summary.Seed)
	assert.NotEqual(t, "", summary.CardOrder)
	assert.NotNil(t, summary.RevealedAt)

	_, err = r.Summarize(ctx, "unknown-game")
	assert.Equal(t, ErrGameNotFound, err)
}

func TestRegistry_revealUnknownGame(t *testing.T) {
	r := testRegistry()
	assert.Equal(t, ErrGameNotFound, r.Reveal(context.Background(), "unknown-game"))
}

func TestRegistry_latestIsCapped(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	for i := 0; i < maxLatest+5; i++ {
		c := NewCommitmentFromSeed("table-uuid", testSeed(byte(i)))
		assert.NoError(t, r.Register(ctx, c))
	}

	summaries, err := r.Latest(ctx, 100)
	assert.NoError(t, err)
	assert.Equal(t, maxLatest, len(summaries))

	summaries, err = r.Latest(ctx, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(summaries))

	for _, summary := range summaries {
		assert.Equal(t, "", summary.Seed)
		assert.Equal(t, "", summary.CardOrder)
	}
}

func TestRegistry_verify(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	c := NewCommitmentFromSeed("table-uuid", testSeed(20))
	assert.NoError(t, r.Register(ctx, c))

	result, err := r.Verify(ctx, c.GameID, c.Hash)
	assert.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.True(t, result.HashMatches)
	assert.Equal(t, c.Hash, result.ActualHash)

	result, err = r.Verify(ctx, c.GameID, "bogus-hash")
	assert.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.False(t, result.HashMatches)
	assert.Equal(t, c.Hash, result.ActualHash)

	_, err = r.Verify(ctx, "unknown-game", c.Hash)
	assert.Equal(t, ErrGameNotFound, err)
}

func TestRegistry_verifyFromStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := NewCommitmentFromSeed("table-uuid", testSeed(21))
	assert.NoError(t, NewRegistry(store, logrus.StandardLogger()).Register(ctx, c))

	// a fresh registry only knows this game through the store
	r := NewRegistry(store, logrus.StandardLogger())

	result, err := r.Verify(ctx, c.GameID, c.Hash)
	assert.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, c.Hash, result.ActualHash)
}

func TestRegistry_exportCSV(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	revealed := NewCommitmentFromSeed("table-uuid", testSeed(30))
	assert.NoError(t, r.Register(ctx, revealed))
	assert.NoError(t, r.Reveal(ctx, revealed.GameID))

	hidden := NewCommitmentFromSeed("table-uuid", testSeed(31))
	assert.NoError(t, r.Register(ctx, hidden))

	var buf bytes.Buffer
	assert.NoError(t, r.ExportCSV(ctx, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 2, len(lines))
	assert.Equal(t, "game_id,hash,seed,card_order,revealed_at", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], revealed.GameID+","))
	assert.NotContains(t, buf.String(), hidden.GameID)
}
