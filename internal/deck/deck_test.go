package deck

import (
	"testing"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHasEveryCardOnce(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(1))
	require.Equal(t, Size, d.Remaining())

	seen := make(map[Card]bool)
	for _, c := range d.Cards() {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, Size)
}

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(42))
	before := d.Cards()

	require.NoError(t, d.Shuffle())
	after := d.Cards()

	assert.ElementsMatch(t, before, after)
	assert.NotEqual(t, before, after, "seeded shuffle should reorder the deck")
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	a := NewDeck(randutil.New(7))
	b := NewDeck(randutil.New(7))
	require.NoError(t, a.Shuffle())
	require.NoError(t, b.Shuffle())

	assert.Equal(t, a.Cards(), b.Cards())
}

func TestShuffleOnlyOnce(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(3))
	require.NoError(t, d.Shuffle())
	assert.ErrorIs(t, d.Shuffle(), ErrAlreadyShuffled)

	fresh := NewDeck(randutil.New(3))
	_, err := fresh.Draw()
	require.NoError(t, err)
	assert.ErrorIs(t, fresh.Shuffle(), ErrShuffleAfterDraw)
}

func TestDrawnPlusRemainingIsConstant(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(9))
	require.NoError(t, d.Shuffle())

	drawn := make(map[Card]bool)
	for i := 0; i < Size; i++ {
		c, err := d.Draw()
		require.NoError(t, err)
		assert.False(t, drawn[c], "card %s drawn twice", c)
		drawn[c] = true
		assert.Equal(t, Size, d.Drawn()+d.Remaining())
	}

	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 0, d.Remaining())
	assert.Equal(t, Size, d.Drawn())
}

func TestStackedDeckDealsInOrder(t *testing.T) {
	t.Parallel()

	cards := MustParseCards("Th7h9c4s")
	d := NewStackedDeck(cards...)
	assert.True(t, d.Shuffled())

	for _, want := range cards {
		got, err := d.Draw()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrEmpty)
}
