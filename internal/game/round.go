package game

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
)

// State is where a round is in its turn sequence
type State int

const (
	StateUserTurn State = iota
	StateComputerTurn
	StateBustTransition
	StateRoundEnd
)

func (s State) String() string {
	switch s {
	case StateUserTurn:
		return "user-turn"
	case StateComputerTurn:
		return "computer-turn"
	case StateBustTransition:
		return "bust-transition"
	case StateRoundEnd:
		return "round-end"
	default:
		return "unknown"
	}
}

var (
	ErrInsufficientCards = errors.New("not enough cards to deal")
	ErrAlreadyDealt      = errors.New("round already dealt")
	ErrNotDealt          = errors.New("round not dealt yet")
	ErrNotUserTurn       = errors.New("not the user's turn")
	ErrRoundOver         = errors.New("round is over")
	ErrRoundInProgress   = errors.New("round still in progress")
)

// Round is a single deal: the bet pool, the turn state and the outcome. A
// round borrows the players and the deck from its session and owns neither.
type Round struct {
	number   int
	src      deck.Source
	user     *Player
	computer *Player
	standOn  int

	bet     int
	pool    int
	state   State
	dealt   bool
	outcome *Outcome
	events  []Event

	observer Observer
	clock    quartz.Clock
	logger   *log.Logger
}

// RoundConfig wires a round to its collaborators
type RoundConfig struct {
	Number           int
	Source           deck.Source
	User             *Player
	Computer         *Player
	Bet              int // Already debited from the user
	ComputerStandsOn int
	Observer         Observer
	Clock            quartz.Clock
	Logger           *log.Logger
}

// NewRound creates a round whose pool holds cfg.Bet. Call Deal to start it.
func NewRound(cfg RoundConfig) *Round {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.ComputerStandsOn == 0 {
		cfg.ComputerStandsOn = DefaultRules().ComputerStandsOn
	}

	return &Round{
		number:   cfg.Number,
		src:      cfg.Source,
		user:     cfg.User,
		computer: cfg.Computer,
		standOn:  cfg.ComputerStandsOn,
		bet:      cfg.Bet,
		pool:     cfg.Bet,
		state:    StateUserTurn,
		observer: cfg.Observer,
		clock:    cfg.Clock,
		logger:   cfg.Logger.WithPrefix(fmt.Sprintf("round-%d", cfg.Number)),
	}
}

// Number returns the round number within the session
func (r *Round) Number() int { return r.number }

// State returns the current turn state
func (r *Round) State() State { return r.state }

// Bet returns the stake placed on this round
func (r *Round) Bet() int { return r.bet }

// Pool returns the chips currently at stake; zero once the round is decided
func (r *Round) Pool() int { return r.pool }

// User returns the human participant
func (r *Round) User() *Player { return r.user }

// Computer returns the computer participant
func (r *Round) Computer() *Player { return r.computer }

// Done reports whether the round has been decided
func (r *Round) Done() bool { return r.outcome != nil }

// Outcome returns the result, or false while the round is undecided
func (r *Round) Outcome() (Outcome, bool) {
	if r.outcome == nil {
		return Outcome{}, false
	}
	return *r.outcome, true
}

// Events returns everything recorded so far
func (r *Round) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Deal gives two cards each, alternating user then computer, then checks for
// a natural 21. The deck must hold at least MinDealCards.
func (r *Round) Deal() error {
	if r.dealt {
		return ErrAlreadyDealt
	}
	if n := r.src.Remaining(); n < MinDealCards {
		return fmt.Errorf("%w: %d remaining, need %d", ErrInsufficientCards, n, MinDealCards)
	}

	for i := 0; i < 2; i++ {
		for _, p := range []*Player{r.user, r.computer} {
			c, err := r.src.Draw()
			if err != nil {
				return fmt.Errorf("dealing to %s: %w", p.Name, err)
			}
			p.CollectCard(c)
		}
	}
	r.dealt = true

	r.record(Event{Type: EventDealt, Player: r.user.Name, Cards: r.user.Hand(), Value: r.user.HandValue()})
	r.record(Event{Type: EventDealt, Player: r.computer.Name, Cards: r.computer.Hand(), Value: r.computer.HandValue()})
	r.logger.Debug("Dealt", "user", r.user.HandValue(), "computer", r.computer.HandValue(), "remaining", r.src.Remaining())

	r.checkNaturals()
	return nil
}

func (r *Round) checkNaturals() {
	uv, cv := r.user.HandValue(), r.computer.HandValue()
	if uv != BlackjackValue && cv != BlackjackValue {
		return
	}

	// The user is paid only when strictly ahead; two naturals go to the computer.
	if uv > cv {
		r.resolve(WinnerUser, ReasonNatural)
		return
	}
	r.resolve(WinnerComputer, ReasonNatural)
}

// Hit draws one card for the user. Reaching 21 wins the round; going over
// busts it. When the deck is empty the error wraps deck.ErrEmpty and the
// user keeps the turn.
func (r *Round) Hit() (deck.Card, error) {
	if err := r.checkUserTurn(); err != nil {
		return deck.Card{}, err
	}

	c, err := r.src.Draw()
	if err != nil {
		if errors.Is(err, deck.ErrEmpty) {
			r.record(Event{Type: EventDeckEmpty})
		}
		return deck.Card{}, fmt.Errorf("hit: %w", err)
	}

	r.user.CollectCard(c)
	value := r.user.HandValue()
	r.record(Event{Type: EventHit, Player: r.user.Name, Cards: []deck.Card{c}, Value: value})

	switch {
	case value == BlackjackValue:
		r.resolve(WinnerUser, ReasonTwentyOne)
	case value > BlackjackValue:
		r.state = StateBustTransition
		r.resolve(WinnerComputer, ReasonUserBust)
	}
	return c, nil
}

// Stand ends the user's turn and plays the computer's, which always decides
// the round.
func (r *Round) Stand() error {
	if err := r.checkUserTurn(); err != nil {
		return err
	}

	r.record(Event{Type: EventStand, Player: r.user.Name, Value: r.user.HandValue()})
	r.state = StateComputerTurn
	return r.playComputer()
}

func (r *Round) playComputer() error {
	for r.computer.HandValue() < r.standOn {
		c, err := r.src.Draw()
		if errors.Is(err, deck.ErrEmpty) {
			r.logger.Warn("Deck ran out during computer turn", "value", r.computer.HandValue())
			r.record(Event{Type: EventDeckEmpty})
			break
		}
		if err != nil {
			return fmt.Errorf("computer draw: %w", err)
		}
		r.computer.CollectCard(c)
		r.record(Event{Type: EventComputerDraw, Player: r.computer.Name, Cards: []deck.Card{c}, Value: r.computer.HandValue()})
	}

	uv, cv := r.user.HandValue(), r.computer.HandValue()
	switch {
	case uv == cv:
		r.resolve(WinnerPush, ReasonTie)
	case cv == BlackjackValue:
		r.resolve(WinnerComputer, ReasonTwentyOne)
	case uv < cv && cv < BlackjackValue:
		r.resolve(WinnerComputer, ReasonHigherHand)
	case cv > BlackjackValue:
		r.resolve(WinnerUser, ReasonComputerBust)
	default:
		r.resolve(WinnerUser, ReasonHigherHand)
	}
	return nil
}

// Forfeit concedes an undecided round to the computer
func (r *Round) Forfeit() {
	if r.outcome != nil {
		return
	}
	r.resolve(WinnerComputer, ReasonForfeit)
}

// Finish clears both hands and empties the pool. The round must be decided.
func (r *Round) Finish() error {
	if r.outcome == nil {
		return ErrRoundInProgress
	}
	r.user.ClearHand()
	r.computer.ClearHand()
	r.pool = 0
	r.state = StateRoundEnd
	return nil
}

func (r *Round) checkUserTurn() error {
	switch {
	case !r.dealt:
		return ErrNotDealt
	case r.outcome != nil:
		return ErrRoundOver
	case r.state != StateUserTurn:
		return ErrNotUserTurn
	}
	return nil
}

// resolve settles the pool. The computer acts as the house: it keeps a lost
// bet and funds the user's winnings above the stake.
func (r *Round) resolve(winner Winner, reason Reason) {
	o := &Outcome{
		Round:         r.number,
		Winner:        winner,
		Reason:        reason,
		Bet:           r.bet,
		UserValue:     r.user.HandValue(),
		ComputerValue: r.computer.HandValue(),
	}

	switch winner {
	case WinnerUser:
		o.Payout = Payout(r.pool)
		r.user.Credit(o.Payout)
		r.computer.Debit(o.Payout - r.pool)
	case WinnerPush:
		o.Payout = r.pool
		r.user.Credit(r.pool)
	case WinnerComputer:
		r.computer.Credit(r.pool)
	}

	r.pool = 0
	r.outcome = o
	if r.state != StateBustTransition {
		r.state = StateRoundEnd
	}

	r.logger.Info("Round resolved", "winner", winner, "reason", reason, "bet", o.Bet, "payout", o.Payout,
		"user", o.UserValue, "computer", o.ComputerValue)
	r.record(Event{Type: EventRoundResolved, Outcome: o})
}

func (r *Round) record(e Event) {
	e.Round = r.number
	e.Timestamp = r.clock.Now()
	r.events = append(r.events, e)
	if r.observer != nil {
		r.observer.OnEvent(e)
	}
}
