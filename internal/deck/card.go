package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Spades
	Clubs
)

// Suits lists every suit in deck-building order
var Suits = []Suit{Hearts, Diamonds, Spades, Clubs}

// String returns the name of the suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Spades:
		return "Spades"
	case Clubs:
		return "Clubs"
	default:
		return "?"
	}
}

// Symbol returns the single-glyph form of the suit
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Spades:
		return "♠"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank in deck-building order
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var rankNames = map[Rank]string{
	Two: "Two", Three: "Three", Four: "Four", Five: "Five", Six: "Six",
	Seven: "Seven", Eight: "Eight", Nine: "Nine", Ten: "Ten",
	Jack: "Jack", Queen: "Queen", King: "King", Ace: "Ace",
}

// String returns the name of the rank
func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "?"
}

// Symbol returns the one-character form used in compact notation
func (r Rank) Symbol() string {
	switch {
	case r >= Two && r <= Nine:
		return fmt.Sprint(int(r))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Value returns the base blackjack value of the rank. Aces count 11 here;
// the hand scorer decides when one drops to 1.
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Jack && r <= King:
		return 10
	default:
		return int(r)
	}
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the long form of a card (e.g., "Ace of Spades")
func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Short returns the compact form of a card (e.g., "A♠")
func (c Card) Short() string {
	return c.Rank.Symbol() + c.Suit.Symbol()
}

// Value returns the base blackjack value of the card
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// ParseCard parses compact notation such as "As", "Td" or "9h".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: want two characters", s)
	}

	var rank Rank
	switch r := strings.ToUpper(s[:1]); r {
	case "T":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		if r[0] < '2' || r[0] > '9' {
			return Card{}, fmt.Errorf("invalid rank %q in card %q", r, s)
		}
		rank = Rank(r[0] - '0')
	}

	var suit Suit
	switch strings.ToLower(s[1:]) {
	case "h":
		suit = Hearts
	case "d":
		suit = Diamonds
	case "s":
		suit = Spades
	case "c":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit %q in card %q", s[1:], s)
	}

	return NewCard(suit, rank), nil
}

// ParseCards parses a run of compact cards, e.g. "AsKd9h"
func ParseCards(s string) ([]Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string %q: odd length", s)
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests
// and fixed scenarios.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
