package game

import "github.com/lox/blackjack/internal/deck"

// BlackjackValue is the target hand value
const BlackjackValue = 21

// aceHighLimit is the largest running total at which an Ace still counts 11
const aceHighLimit = 10

// HandValue scores cards in order. Each Ace is valued when it is reached:
// 11 if the running total is at most 10, otherwise 1.
func HandValue(cards []deck.Card) int {
	total := 0
	for _, c := range cards {
		if c.IsAce() && total > aceHighLimit {
			total++
			continue
		}
		total += c.Value()
	}
	return total
}

// IsBust reports whether the cards total more than 21
func IsBust(cards []deck.Card) bool {
	return HandValue(cards) > BlackjackValue
}

// IsTwentyOne reports whether the cards total exactly 21
func IsTwentyOne(cards []deck.Card) bool {
	return HandValue(cards) == BlackjackValue
}
