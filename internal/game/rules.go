package game

import (
	"errors"
	"fmt"
)

const (
	// MaxStartingBalance caps the balance a player can start a session with
	MaxStartingBalance = 2000

	// MinDealCards is the number of cards the initial deal consumes
	MinDealCards = 4
)

// Rules holds the tunable parameters of a session
type Rules struct {
	StartingBalance  int // Balance both players start with
	MinimumBalance   int // The user must hold at least this much to start a round
	BetUnit          int // Bets are placed in multiples of this
	MaxBetUnits      int // Largest bet, in units
	ComputerStandsOn int // The computer draws while its hand is below this
}

// DefaultRules returns the classic table: 2000 to start, 300 minimum,
// bets of 100 to 500, computer stands on 17.
func DefaultRules() Rules {
	return Rules{
		StartingBalance:  MaxStartingBalance,
		MinimumBalance:   300,
		BetUnit:          100,
		MaxBetUnits:      5,
		ComputerStandsOn: 17,
	}
}

// Validate checks the rules are playable
func (r Rules) Validate() error {
	if r.StartingBalance <= 0 || r.StartingBalance > MaxStartingBalance {
		return fmt.Errorf("starting balance must be between 1 and %d, got %d", MaxStartingBalance, r.StartingBalance)
	}
	if r.MinimumBalance < 0 {
		return errors.New("minimum balance cannot be negative")
	}
	if r.BetUnit <= 0 {
		return errors.New("bet unit must be positive")
	}
	// Winning pays one and a half times the bet, so the unit must split evenly.
	if r.BetUnit%2 != 0 {
		return fmt.Errorf("bet unit must be even, got %d", r.BetUnit)
	}
	// A balance that may start a round must cover the smallest bet.
	if r.MinimumBalance < r.BetUnit {
		return fmt.Errorf("minimum balance %d is below the bet unit %d", r.MinimumBalance, r.BetUnit)
	}
	if r.MaxBetUnits <= 0 {
		return errors.New("max bet units must be positive")
	}
	if r.ComputerStandsOn < 2 || r.ComputerStandsOn > BlackjackValue {
		return fmt.Errorf("computer stand value must be between 2 and %d, got %d", BlackjackValue, r.ComputerStandsOn)
	}
	return nil
}

// MaxBet returns the largest allowed stake
func (r Rules) MaxBet() int {
	return r.BetUnit * r.MaxBetUnits
}

// ValidateBet checks a stake of units against the rules and the balance
func (r Rules) ValidateBet(units, balance int) error {
	if units < 1 || units > r.MaxBetUnits {
		return &BetError{Units: units, Reason: BetOutOfRange}
	}
	if units*r.BetUnit > balance {
		return &BetError{Units: units, Reason: BetExceedsBalance}
	}
	return nil
}

// BetOptions lists every stake, in units, the balance allows
func (r Rules) BetOptions(balance int) []int {
	var opts []int
	for u := 1; u <= r.MaxBetUnits; u++ {
		if u*r.BetUnit <= balance {
			opts = append(opts, u)
		}
	}
	return opts
}

// Payout returns what a winning bet pays back: the stake plus half again
func Payout(bet int) int {
	return bet + bet/2
}
