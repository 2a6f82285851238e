package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack/internal/deck"
)

func TestEventString(t *testing.T) {
	t.Parallel()

	outcome := &Outcome{Round: 3, Winner: WinnerUser, Reason: ReasonComputerBust, Bet: 100, Payout: 150, UserValue: 18, ComputerValue: 23}

	tests := []struct {
		event Event
		want  string
	}{
		{Event{Type: EventDealt, Round: 1, Player: "USER", Cards: deck.MustParseCards("AsTh"), Value: 21}, "round 1: USER dealt A♠ T♥ (21)"},
		{Event{Type: EventHit, Round: 2, Player: "USER", Cards: deck.MustParseCards("4d"), Value: 19}, "round 2: USER draws 4♦ (19)"},
		{Event{Type: EventComputerDraw, Round: 2, Player: "COMPUTER", Cards: deck.MustParseCards("Kc"), Value: 26}, "round 2: COMPUTER draws K♣ (26)"},
		{Event{Type: EventStand, Round: 2, Player: "USER", Value: 17}, "round 2: USER stands on 17"},
		{Event{Type: EventDeckEmpty, Round: 4}, "round 4: deck is empty"},
		{Event{Type: EventRoundResolved, Round: 3, Outcome: outcome}, "round 3 won by user (computer bust) 18-23, net +50"},
		{Event{Type: EventRoundResolved, Round: 5}, "round 5 resolved"},
	}

	for _, tt := range tests {
		t.Run(tt.event.Type.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.String())
		})
	}
}

func TestObserverSeesEventsInOrder(t *testing.T) {
	t.Parallel()

	var seen []EventType
	s := newTestSession(t, "Th 9s 7h 8c 2d 5c",
		WithObserver(ObserverFunc(func(e Event) { seen = append(seen, e.Type) })))

	r, err := s.StartRound(1)
	assert.NoError(t, err)
	_, err = r.Hit()
	assert.NoError(t, err)
	assert.NoError(t, r.Stand())

	assert.Equal(t, []EventType{
		EventDealt, EventDealt, EventHit, EventStand, EventRoundResolved,
	}, seen)
}
