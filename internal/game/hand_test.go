package game

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
)

func TestHandValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    string
		expected int
	}{
		{"empty hand", "", 0},
		{"ace first", "As9h", 20},
		{"ace last", "9hAs", 20},
		{"faces then ace", "KsQhAd", 21},
		{"two aces then nine", "AsAh9d", 21},
		{"nine then two aces", "9dAsAh", 21},
		{"ace after exactly ten", "5s5hAd", 21},
		{"second ace after ten counts one", "5s5hAdAc", 22},
		{"ace after eleven counts one", "6s5hAd", 12},
		{"pair of aces", "AsAh", 12},
		{"number cards", "2s3h4d", 9},
		{"face cards", "KsQh", 20},
		{"bust", "KsQh2d", 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := deck.MustParseCards(tt.cards)
			assert.Equal(t, tt.expected, HandValue(cards))
		})
	}
}

func TestHandValueIsOrderDependent(t *testing.T) {
	t.Parallel()

	// A best-total solver would score both of these 12; the running-total
	// rule gives 12 and 22.
	assert.Equal(t, 12, HandValue(deck.MustParseCards("6s5hAd")))
	assert.Equal(t, 22, HandValue(deck.MustParseCards("As6s5h")))
}

func TestBustAndTwentyOne(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBust(deck.MustParseCards("KsQh2d")))
	assert.False(t, IsBust(deck.MustParseCards("KsQhAd")))
	assert.True(t, IsTwentyOne(deck.MustParseCards("KsQhAd")))
	assert.False(t, IsTwentyOne(deck.MustParseCards("KsQh")))
}
