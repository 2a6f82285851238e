package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType identifies what happened in a round
type EventType string

const (
	EventDealt         EventType = "dealt"
	EventHit           EventType = "hit"
	EventStand         EventType = "stand"
	EventComputerDraw  EventType = "computer_draw"
	EventDeckEmpty     EventType = "deck_empty"
	EventRoundResolved EventType = "round_resolved"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is a single step of a round, recorded in order
type Event struct {
	Type      EventType
	Round     int
	Player    string      // Who acted, empty for table events
	Cards     []deck.Card // Cards received by Player
	Value     int         // Player's hand value after the event
	Outcome   *Outcome    // Set on EventRoundResolved
	Timestamp time.Time
}

// Observer receives round events as they happen
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Event)

// OnEvent calls f(e)
func (f ObserverFunc) OnEvent(e Event) { f(e) }

// String formats the event as a log line
func (e Event) String() string {
	switch e.Type {
	case EventDealt:
		return fmt.Sprintf("round %d: %s dealt %s (%d)", e.Round, e.Player, formatCards(e.Cards), e.Value)
	case EventHit, EventComputerDraw:
		return fmt.Sprintf("round %d: %s draws %s (%d)", e.Round, e.Player, formatCards(e.Cards), e.Value)
	case EventStand:
		return fmt.Sprintf("round %d: %s stands on %d", e.Round, e.Player, e.Value)
	case EventDeckEmpty:
		return fmt.Sprintf("round %d: deck is empty", e.Round)
	case EventRoundResolved:
		if e.Outcome != nil {
			return e.Outcome.String()
		}
		return fmt.Sprintf("round %d resolved", e.Round)
	default:
		return fmt.Sprintf("round %d: %s", e.Round, e.Type)
	}
}

func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.Short()
	}
	return strings.Join(parts, " ")
}
