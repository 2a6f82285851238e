package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "natural",
			input: "AsKh",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
			},
		},
		{
			name:  "tens and low cards",
			input: "Td9c2d",
			expected: []Card{
				{Suit: Diamonds, Rank: Ten},
				{Suit: Clubs, Rank: Nine},
				{Suit: Diamonds, Rank: Two},
			},
		},
		{
			name:  "case insensitive",
			input: "aSqD",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Diamonds, Rank: Queen},
			},
		},
		{
			name:    "invalid rank",
			input:   "XsKs",
			wantErr: true,
		},
		{
			name:    "one is not a rank",
			input:   "1s",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "AsKx",
			wantErr: true,
		},
		{
			name:    "odd length",
			input:   "AsK",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Card{{Suit: Spades, Rank: Ace}}, MustParseCards("As"))
	assert.Panics(t, func() { MustParseCards("invalid") })
}

func TestRankValues(t *testing.T) {
	t.Parallel()

	expected := map[Rank]int{
		Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8, Nine: 9,
		Ten: 10, Jack: 10, Queen: 10, King: 10, Ace: 11,
	}
	require.Len(t, Ranks, 13)
	for _, r := range Ranks {
		assert.Equal(t, expected[r], r.Value(), r.String())
	}
}

func TestCardStrings(t *testing.T) {
	t.Parallel()

	c := NewCard(Spades, Ace)
	assert.Equal(t, "Ace of Spades", c.String())
	assert.Equal(t, "A♠", c.Short())
	assert.True(t, c.IsAce())
	assert.False(t, c.IsRed())

	ten := NewCard(Hearts, Ten)
	assert.Equal(t, "T♥", ten.Short())
	assert.True(t, ten.IsRed())
	assert.Equal(t, "7♦", NewCard(Diamonds, Seven).Short())
}
