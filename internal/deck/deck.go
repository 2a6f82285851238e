package deck

import (
	"errors"
	rand "math/rand/v2"
)

// Size is the number of cards in a full deck
const Size = 52

var (
	// ErrEmpty is returned when drawing from an exhausted deck
	ErrEmpty = errors.New("deck is empty")
	// ErrAlreadyShuffled is returned on a second shuffle of the same deck
	ErrAlreadyShuffled = errors.New("deck already shuffled")
	// ErrShuffleAfterDraw is returned when shuffling once dealing has begun
	ErrShuffleAfterDraw = errors.New("cannot shuffle after cards have been drawn")
)

// Source is anything the engine can pull cards from
type Source interface {
	Draw() (Card, error)
	Remaining() int
}

// Deck is a single 52-card deck. It only ever shrinks: there is no reset or
// reshuffle once play has started.
type Deck struct {
	cards    []Card
	drawn    int
	shuffled bool
	rng      *rand.Rand
}

// NewDeck creates a standard 52-card deck in suit-then-rank order. The deck is
// not shuffled; call Shuffle once before dealing.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}

	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}

	return d
}

// NewStackedDeck creates a deck that deals exactly the given cards in order.
// Stacked decks count as already shuffled.
func NewStackedDeck(cards ...Card) *Deck {
	d := &Deck{
		cards:    make([]Card, len(cards)),
		shuffled: true,
	}
	copy(d.cards, cards)
	return d
}

// Shuffle randomizes the order of the deck using Fisher-Yates. It may be
// called once, before the first draw.
func (d *Deck) Shuffle() error {
	if d.shuffled {
		return ErrAlreadyShuffled
	}
	if d.drawn > 0 {
		return ErrShuffleAfterDraw
	}

	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	d.shuffled = true
	return nil
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmpty
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	d.drawn++
	return card, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Drawn returns the number of cards dealt so far
func (d *Deck) Drawn() int {
	return d.drawn
}

// Shuffled reports whether the deck has been shuffled
func (d *Deck) Shuffled() bool {
	return d.shuffled
}

// Cards returns a copy of the cards still in the deck, top first
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
