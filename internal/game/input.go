package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Command is a menu choice during the user's turn
type Command int

const (
	CommandShowHand Command = iota + 1
	CommandBalance
	CommandHit
	CommandStand
	CommandShowPool
	CommandQuit
)

// String returns the menu label of the command
func (c Command) String() string {
	switch c {
	case CommandShowHand:
		return "Show Hand"
	case CommandBalance:
		return "Check Balance"
	case CommandHit:
		return "Hit"
	case CommandStand:
		return "Stay"
	case CommandShowPool:
		return "Show Bets"
	case CommandQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Commands lists the menu in display order
var Commands = []Command{
	CommandShowHand, CommandBalance, CommandHit, CommandStand, CommandShowPool, CommandQuit,
}

// ErrInvalidCommand is returned for input that is not a menu number
var ErrInvalidCommand = errors.New("invalid command")

// ParseCommand maps a menu number ("1" to "6") to a Command
func ParseCommand(input string) (Command, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < int(CommandShowHand) || n > int(CommandQuit) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCommand, input)
	}
	return Command(n), nil
}

// BetErrorReason says why a bet was rejected
type BetErrorReason int

const (
	BetNotANumber BetErrorReason = iota
	BetOutOfRange
	BetExceedsBalance
)

// BetError describes a rejected bet
type BetError struct {
	Input  string
	Units  int
	Reason BetErrorReason
}

func (e *BetError) Error() string {
	switch e.Reason {
	case BetNotANumber:
		return fmt.Sprintf("invalid bet %q: not a number", e.Input)
	case BetOutOfRange:
		return fmt.Sprintf("invalid bet %d: out of range", e.Units)
	case BetExceedsBalance:
		return fmt.Sprintf("invalid bet %d: exceeds balance", e.Units)
	default:
		return "invalid bet"
	}
}

// ParseBet turns bet input (a number of units) into a validated stake in
// units. It never prompts; re-asking is the caller's job.
func ParseBet(input string, balance int, rules Rules) (int, error) {
	trimmed := strings.TrimSpace(input)
	units, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &BetError{Input: input, Reason: BetNotANumber}
	}
	if err := rules.ValidateBet(units, balance); err != nil {
		var be *BetError
		if errors.As(err, &be) {
			be.Input = input
		}
		return 0, err
	}
	return units, nil
}
