package game

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cards are dealt user, computer, user, computer; anything after that is
// drawn by hits and the computer's turn.

func TestRoundHitToTwentyOneWins(t *testing.T) {
	t.Parallel()

	r, user, computer := newTestRound("Th 9s 7h 8c 4d", 100)
	require.NoError(t, r.Deal())
	assert.Equal(t, StateUserTurn, r.State())
	assert.Equal(t, 17, user.HandValue())
	assert.Equal(t, 100, r.Pool())

	c, err := r.Hit()
	require.NoError(t, err)
	assert.Equal(t, deck.NewCard(deck.Diamonds, deck.Four), c)

	o, ok := r.Outcome()
	require.True(t, ok)
	assert.Equal(t, WinnerUser, o.Winner)
	assert.Equal(t, ReasonTwentyOne, o.Reason)
	assert.Equal(t, 150, o.Payout)
	assert.Equal(t, 2050, user.Balance)
	assert.Equal(t, 1950, computer.Balance)
	assert.Equal(t, 0, r.Pool())
	assert.Equal(t, StateRoundEnd, r.State())
}

func TestRoundUserBust(t *testing.T) {
	t.Parallel()

	r, user, computer := newTestRound("Th 9s 7h 8c 5d", 100)
	require.NoError(t, r.Deal())

	_, err := r.Hit()
	require.NoError(t, err)

	o, ok := r.Outcome()
	require.True(t, ok)
	assert.Equal(t, WinnerComputer, o.Winner)
	assert.Equal(t, ReasonUserBust, o.Reason)
	assert.Equal(t, 22, o.UserValue)
	assert.Equal(t, StateBustTransition, r.State())
	assert.Equal(t, 1900, user.Balance)
	assert.Equal(t, 2100, computer.Balance)

	// The computer never draws after a user bust
	assert.Len(t, computer.Hand(), 2)

	require.NoError(t, r.Finish())
	assert.Equal(t, StateRoundEnd, r.State())
	assert.Empty(t, user.Hand())
	assert.Empty(t, computer.Hand())
}

func TestRoundNaturals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		cards           string
		winner          Winner
		userBalance     int
		computerBalance int
	}{
		{"user natural", "As 9s Kh 8c", WinnerUser, 2050, 1950},
		{"computer natural", "9s Ah 8c Kd", WinnerComputer, 1900, 2100},
		{"both natural goes to the computer", "As Ad Kh Kc", WinnerComputer, 1900, 2100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, user, computer := newTestRound(tt.cards, 100)
			require.NoError(t, r.Deal())

			o, ok := r.Outcome()
			require.True(t, ok, "round should end on the deal")
			assert.Equal(t, tt.winner, o.Winner)
			assert.Equal(t, ReasonNatural, o.Reason)
			assert.Equal(t, tt.userBalance, user.Balance)
			assert.Equal(t, tt.computerBalance, computer.Balance)
			assert.Equal(t, 0, r.Pool())

			_, err := r.Hit()
			assert.ErrorIs(t, err, ErrRoundOver)
		})
	}
}

func TestRoundComputerTurn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cards       string
		winner      Winner
		reason      Reason
		userBalance int
		computerLen int
	}{
		{"computer busts", "Th 6s 8h Tc 9d", WinnerUser, ReasonComputerBust, 2050, 3},
		{"tie refunds", "Th Ts 8h 8c", WinnerPush, ReasonTie, 2000, 2},
		{"computer higher", "Th Ts 7h 9c", WinnerComputer, ReasonHigherHand, 1900, 2},
		{"user higher", "Th Ts 9h 7c", WinnerUser, ReasonHigherHand, 2050, 2},
		{"computer draws to 21", "Th 6s 9h Tc 5d", WinnerComputer, ReasonTwentyOne, 1900, 3},
		{"computer draws several", "Th 2s 9h 3c 4d 2h 7s", WinnerUser, ReasonHigherHand, 2050, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, user, computer := newTestRound(tt.cards, 100)
			require.NoError(t, r.Deal())
			require.False(t, r.Done())

			require.NoError(t, r.Stand())

			o, ok := r.Outcome()
			require.True(t, ok)
			assert.Equal(t, tt.winner, o.Winner)
			assert.Equal(t, tt.reason, o.Reason)
			assert.Equal(t, tt.userBalance, user.Balance)
			assert.Len(t, computer.Hand(), tt.computerLen)
			assert.GreaterOrEqual(t, o.ComputerValue, 17)
			assert.Equal(t, StateRoundEnd, r.State())
		})
	}
}

func TestRoundComputerStopsWhenDeckRunsOut(t *testing.T) {
	t.Parallel()

	r, user, _ := newTestRound("Th 6s 9h Tc", 100)
	require.NoError(t, r.Deal())
	require.NoError(t, r.Stand())

	o, ok := r.Outcome()
	require.True(t, ok)
	assert.Equal(t, 16, o.ComputerValue)
	assert.Equal(t, WinnerUser, o.Winner)
	assert.Equal(t, 2050, user.Balance)

	var types []EventType
	for _, e := range r.Events() {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, EventDeckEmpty)
}

func TestRoundHitOnEmptyDeckKeepsTurn(t *testing.T) {
	t.Parallel()

	r, user, _ := newTestRound("Th 6s 5h 2c", 100)
	require.NoError(t, r.Deal())

	_, err := r.Hit()
	assert.ErrorIs(t, err, deck.ErrEmpty)
	assert.Equal(t, StateUserTurn, r.State())
	assert.Len(t, user.Hand(), 2)

	require.NoError(t, r.Stand())
	o, _ := r.Outcome()
	assert.Equal(t, WinnerUser, o.Winner)
}

func TestRoundDealNeedsFourCards(t *testing.T) {
	t.Parallel()

	r, user, computer := newTestRound("Th 6s 5h", 100)
	err := r.Deal()
	assert.ErrorIs(t, err, ErrInsufficientCards)
	assert.Empty(t, user.Hand())
	assert.Empty(t, computer.Hand())
}

func TestRoundStateGuards(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRound("Th Ts 9h 7c", 100)

	_, err := r.Hit()
	assert.ErrorIs(t, err, ErrNotDealt)
	assert.ErrorIs(t, r.Stand(), ErrNotDealt)
	assert.ErrorIs(t, r.Finish(), ErrRoundInProgress)

	require.NoError(t, r.Deal())
	assert.ErrorIs(t, r.Deal(), ErrAlreadyDealt)

	require.NoError(t, r.Stand())
	assert.ErrorIs(t, r.Stand(), ErrRoundOver)
}

func TestRoundForfeit(t *testing.T) {
	t.Parallel()

	r, user, computer := newTestRound("Th Ts 9h 7c", 300)
	require.NoError(t, r.Deal())
	r.Forfeit()

	o, ok := r.Outcome()
	require.True(t, ok)
	assert.Equal(t, ReasonForfeit, o.Reason)
	assert.Equal(t, 1700, user.Balance)
	assert.Equal(t, 2300, computer.Balance)
}

func TestRoundEventsInOrder(t *testing.T) {
	t.Parallel()

	var seen []EventType
	user := NewPlayer("user", 1900)
	computer := NewPlayer("computer", 2000)
	r := NewRound(RoundConfig{
		Number:   3,
		Source:   stackedDeck("Th 6s 8h Tc 2d 9d"),
		User:     user,
		Computer: computer,
		Bet:      100,
		Observer: ObserverFunc(func(e Event) { seen = append(seen, e.Type) }),
		Logger:   quietLogger(),
	})

	require.NoError(t, r.Deal())
	_, err := r.Hit()
	require.NoError(t, err)
	require.NoError(t, r.Stand())

	assert.Equal(t, []EventType{
		EventDealt, EventDealt, EventHit, EventStand, EventComputerDraw, EventRoundResolved,
	}, seen)

	events := r.Events()
	require.Len(t, events, len(seen))
	for _, e := range events {
		assert.Equal(t, 3, e.Round)
	}
	last := events[len(events)-1]
	require.NotNil(t, last.Outcome)
	assert.Equal(t, ReasonComputerBust, last.Outcome.Reason)
}

func TestRoundConservesChips(t *testing.T) {
	t.Parallel()

	scenarios := []string{
		"Th 9s 7h 8c 4d",
		"Th 9s 7h 8c 5d",
		"As 9s Kh 8c",
		"Th 6s 8h Tc 9d",
		"Th Ts 8h 8c",
		"Th Ts 7h 9c",
	}
	for _, cards := range scenarios {
		r, user, computer := newTestRound(cards, 200)
		require.NoError(t, r.Deal())
		assert.Equal(t, 4000, user.Balance+computer.Balance+r.Pool(), cards)
		if !r.Done() {
			if _, err := r.Hit(); err != nil {
				require.ErrorIs(t, err, deck.ErrEmpty)
			}
		}
		if !r.Done() {
			require.NoError(t, r.Stand())
		}
		assert.Equal(t, 4000, user.Balance+computer.Balance+r.Pool(), cards)
	}
}
