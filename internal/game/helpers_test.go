package game

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// stackedDeck builds a deck from compact notation; spaces are ignored
func stackedDeck(cards string) *deck.Deck {
	return deck.NewStackedDeck(deck.MustParseCards(strings.ReplaceAll(cards, " ", ""))...)
}

func newTestSession(t *testing.T, cards string, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewSession(DefaultRules(), stackedDeck(cards), opts...)
}

func newTestRound(cards string, bet int) (*Round, *Player, *Player) {
	user := NewPlayer("user", 2000-bet)
	computer := NewPlayer("computer", 2000)
	r := NewRound(RoundConfig{
		Number:   1,
		Source:   stackedDeck(cards),
		User:     user,
		Computer: computer,
		Bet:      bet,
		Logger:   quietLogger(),
	})
	return r, user, computer
}

// scriptedController replays fixed bets and actions
type scriptedController struct {
	bets    []int
	actions []Command
	betErr  error
}

func (c *scriptedController) ChooseBet(ctx context.Context, s *Session) (int, error) {
	if c.betErr != nil {
		return 0, c.betErr
	}
	if len(c.bets) == 0 {
		return 0, ErrQuit
	}
	b := c.bets[0]
	c.bets = c.bets[1:]
	return b, nil
}

func (c *scriptedController) ChooseAction(ctx context.Context, r *Round) (Command, error) {
	if len(c.actions) == 0 {
		return CommandStand, nil
	}
	a := c.actions[0]
	c.actions = c.actions[1:]
	return a, nil
}
