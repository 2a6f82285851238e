package game

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Player is one participant: the human user or the computer. A player lives
// for the whole session; only the hand is reset between rounds.
type Player struct {
	Name    string
	Balance int
	hand    []deck.Card
}

// NewPlayer creates a player with an empty hand. Names are shown upper-cased.
func NewPlayer(name string, balance int) *Player {
	return &Player{
		Name:    strings.ToUpper(name),
		Balance: balance,
		hand:    make([]deck.Card, 0, 8),
	}
}

// CollectCard adds a card to the hand
func (p *Player) CollectCard(c deck.Card) {
	p.hand = append(p.hand, c)
}

// Hand returns a copy of the cards held, in the order they were collected
func (p *Player) Hand() []deck.Card {
	out := make([]deck.Card, len(p.hand))
	copy(out, p.hand)
	return out
}

// HandValue scores the current hand
func (p *Player) HandValue() int {
	return HandValue(p.hand)
}

// IsBust returns true if the hand is over 21
func (p *Player) IsBust() bool {
	return p.HandValue() > BlackjackValue
}

// ClearHand empties the hand
func (p *Player) ClearHand() {
	p.hand = p.hand[:0]
}

// Debit subtracts amount from the balance. Callers check affordability first.
func (p *Player) Debit(amount int) {
	p.Balance -= amount
}

// Credit adds amount to the balance
func (p *Player) Credit(amount int) {
	p.Balance += amount
}

// CanAfford returns true if the balance covers amount
func (p *Player) CanAfford(amount int) bool {
	return p.Balance >= amount
}

// BalanceReport renders the balance for display
func (p *Player) BalanceReport() string {
	return fmt.Sprintf("Account balance: %d", p.Balance)
}
