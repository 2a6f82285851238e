package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/sessionid"
)

// EndReason says why a session stopped
type EndReason int

const (
	EndReasonNone EndReason = iota
	EndReasonLowBalance
	EndReasonDeckExhausted
	EndReasonQuit
)

func (r EndReason) String() string {
	switch r {
	case EndReasonNone:
		return "in progress"
	case EndReasonLowBalance:
		return "out of minimum balance"
	case EndReasonDeckExhausted:
		return "deck exhausted"
	case EndReasonQuit:
		return "quit by user"
	default:
		return "unknown"
	}
}

var (
	// ErrSessionOver is returned when starting a round in a finished session
	ErrSessionOver = errors.New("session is over")
	// ErrQuit is returned by a Controller to end the session on user request
	ErrQuit = errors.New("user quit")
)

// Controller makes the user's decisions for Session.Play
type Controller interface {
	// ChooseBet returns a stake in bet units, or ErrQuit
	ChooseBet(ctx context.Context, s *Session) (int, error)
	// ChooseAction returns CommandHit, CommandStand or CommandQuit. Display
	// commands are the controller's own business.
	ChooseAction(ctx context.Context, r *Round) (Command, error)
}

// Summary is the state of a session when it ended
type Summary struct {
	ID              string
	Reason          EndReason
	Rounds          int
	UserBalance     int
	ComputerBalance int
	Wins            int
	Losses          int
	Pushes          int
	Net             int
	Outcomes        []Outcome
	Elapsed         time.Duration
}

// Session strings rounds together over one deck. It is not safe for
// concurrent use; one goroutine owns a session.
type Session struct {
	id       string
	rules    Rules
	src      deck.Source
	user     *Player
	computer *Player

	round    *Round
	played   int
	outcomes []Outcome
	ended    EndReason

	observer Observer
	clock    quartz.Clock
	started  time.Time
	logger   *log.Logger
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithClock sets the clock used for event timestamps and elapsed time
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithUserName names the human player
func WithUserName(name string) Option {
	return func(s *Session) {
		if name != "" {
			s.user = NewPlayer(name, s.rules.StartingBalance)
		}
	}
}

// WithSessionID names the session in logs and its summary
func WithSessionID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithObserver receives every round event
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// NewSession creates a session over src with both players at the starting
// balance. The source should already be shuffled.
func NewSession(rules Rules, src deck.Source, opts ...Option) *Session {
	s := &Session{
		rules:    rules,
		src:      src,
		user:     NewPlayer("user", rules.StartingBalance),
		computer: NewPlayer("computer", rules.StartingBalance),
		clock:    quartz.NewReal(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.clock.Now()
	if s.id == "" {
		s.id = sessionid.New(s.started, nil)
	}
	s.logger = s.logger.WithPrefix("session").With("id", s.id)
	return s
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Rules returns the session rules
func (s *Session) Rules() Rules { return s.rules }

// User returns the human participant
func (s *Session) User() *Player { return s.user }

// Computer returns the computer participant
func (s *Session) Computer() *Player { return s.computer }

// Round returns the round in progress, or nil between rounds
func (s *Session) Round() *Round { return s.round }

// RoundsPlayed returns how many rounds have been completed
func (s *Session) RoundsPlayed() int { return s.played }

// NextRoundNumber returns the number the next round will carry
func (s *Session) NextRoundNumber() int { return s.played + 1 }

// CardsRemaining returns the cards left in the deck
func (s *Session) CardsRemaining() int { return s.src.Remaining() }

// Ended returns the reason the session ended, or EndReasonNone
func (s *Session) Ended() EndReason { return s.ended }

// BetOptions lists the stakes, in units, the user can place now
func (s *Session) BetOptions() []int {
	return s.rules.BetOptions(s.user.Balance)
}

// CanPlay reports whether another round can start, and if not, why
func (s *Session) CanPlay() (EndReason, bool) {
	switch {
	case s.ended != EndReasonNone:
		return s.ended, false
	case s.user.Balance < s.rules.MinimumBalance:
		return EndReasonLowBalance, false
	case s.src.Remaining() < MinDealCards:
		return EndReasonDeckExhausted, false
	}
	return EndReasonNone, true
}

// CheckOver ends the session once no further round can start, reporting
// the reason and whether the session is over.
func (s *Session) CheckOver() (EndReason, bool) {
	if reason, ok := s.CanPlay(); !ok {
		s.end(reason)
		return reason, true
	}
	return EndReasonNone, false
}

// StartRound takes the bet, in units, into a new round's pool and deals.
// The round may already be decided if someone was dealt 21.
func (s *Session) StartRound(units int) (*Round, error) {
	if s.round != nil {
		return nil, ErrRoundInProgress
	}
	if reason, ok := s.CanPlay(); !ok {
		s.end(reason)
		return nil, fmt.Errorf("%w: %s", ErrSessionOver, reason)
	}
	if err := s.rules.ValidateBet(units, s.user.Balance); err != nil {
		return nil, err
	}

	bet := units * s.rules.BetUnit
	s.user.Debit(bet)

	r := NewRound(RoundConfig{
		Number:           s.NextRoundNumber(),
		Source:           s.src,
		User:             s.user,
		Computer:         s.computer,
		Bet:              bet,
		ComputerStandsOn: s.rules.ComputerStandsOn,
		Observer:         s.observer,
		Clock:            s.clock,
		Logger:           s.logger,
	})
	if err := r.Deal(); err != nil {
		s.user.Credit(bet)
		s.user.ClearHand()
		s.computer.ClearHand()
		return nil, fmt.Errorf("starting round %d: %w", r.Number(), err)
	}

	s.logger.Info("Round started", "round", r.Number(), "bet", bet, "balance", s.user.Balance, "remaining", s.src.Remaining())
	s.round = r
	return r, nil
}

// EndRound records the decided round, clears the hands and the pool, and
// moves the round counter on.
func (s *Session) EndRound() (Outcome, error) {
	if s.round == nil {
		return Outcome{}, ErrRoundInProgress
	}
	o, ok := s.round.Outcome()
	if !ok {
		return Outcome{}, ErrRoundInProgress
	}
	if err := s.round.Finish(); err != nil {
		return Outcome{}, err
	}

	s.outcomes = append(s.outcomes, o)
	s.played++
	s.round = nil
	return o, nil
}

// Quit ends the session on user request. An undecided round is forfeited.
func (s *Session) Quit() {
	if s.round != nil {
		s.round.Forfeit()
		if _, err := s.EndRound(); err != nil {
			s.logger.Error("Failed to close round on quit", "error", err)
		}
	}
	s.end(EndReasonQuit)
}

func (s *Session) end(reason EndReason) {
	if s.ended != EndReasonNone {
		return
	}
	s.ended = reason
	s.logger.Info("Session ended", "reason", reason, "rounds", s.played, "balance", s.user.Balance)
}

// Summary reports the session so far
func (s *Session) Summary() Summary {
	sum := Summary{
		ID:              s.id,
		Reason:          s.ended,
		Rounds:          s.played,
		UserBalance:     s.user.Balance,
		ComputerBalance: s.computer.Balance,
		Outcomes:        append([]Outcome(nil), s.outcomes...),
		Elapsed:         s.clock.Since(s.started),
	}
	for _, o := range s.outcomes {
		switch o.Winner {
		case WinnerUser:
			sum.Wins++
		case WinnerComputer:
			sum.Losses++
		case WinnerPush:
			sum.Pushes++
		}
		sum.Net += o.Net()
	}
	return sum
}

// Play runs rounds until the session ends, asking c for every decision.
func (s *Session) Play(ctx context.Context, c Controller) (Summary, error) {
	for {
		if err := ctx.Err(); err != nil {
			return s.Summary(), err
		}
		if _, over := s.CheckOver(); over {
			return s.Summary(), nil
		}

		units, err := c.ChooseBet(ctx, s)
		if errors.Is(err, ErrQuit) {
			s.Quit()
			return s.Summary(), nil
		}
		if err != nil {
			return s.Summary(), fmt.Errorf("choosing bet: %w", err)
		}

		r, err := s.StartRound(units)
		if err != nil {
			return s.Summary(), err
		}

		if err := s.playRound(ctx, c, r); err != nil {
			if errors.Is(err, ErrQuit) {
				s.Quit()
				return s.Summary(), nil
			}
			return s.Summary(), err
		}

		if _, err := s.EndRound(); err != nil {
			return s.Summary(), err
		}
	}
}

func (s *Session) playRound(ctx context.Context, c Controller, r *Round) error {
	for !r.Done() {
		cmd, err := c.ChooseAction(ctx, r)
		if err != nil {
			return err
		}

		switch cmd {
		case CommandHit:
			_, err := r.Hit()
			if errors.Is(err, deck.ErrEmpty) {
				// Nothing left to draw, so the only move is to stand.
				s.logger.Warn("Deck empty on hit, standing", "round", r.Number())
				err = r.Stand()
			}
			if err != nil {
				return err
			}
		case CommandStand:
			if err := r.Stand(); err != nil {
				return err
			}
		case CommandQuit:
			return ErrQuit
		default:
			return fmt.Errorf("%w: controller returned %s", ErrInvalidCommand, cmd)
		}
	}
	return nil
}
