package game

import "fmt"

// Winner identifies who took a round
type Winner int

const (
	WinnerUser Winner = iota
	WinnerComputer
	WinnerPush
)

func (w Winner) String() string {
	switch w {
	case WinnerUser:
		return "user"
	case WinnerComputer:
		return "computer"
	case WinnerPush:
		return "push"
	default:
		return "unknown"
	}
}

// Reason says how a round was decided
type Reason int

const (
	ReasonNatural       Reason = iota // 21 on the initial deal
	ReasonTwentyOne                   // reached exactly 21
	ReasonUserBust                    // user went over 21
	ReasonComputerBust                // computer went over 21
	ReasonHigherHand                  // higher value after the computer stood
	ReasonTie                         // equal values after the computer stood
	ReasonForfeit                     // user quit mid-round
)

func (r Reason) String() string {
	switch r {
	case ReasonNatural:
		return "natural"
	case ReasonTwentyOne:
		return "twenty-one"
	case ReasonUserBust:
		return "user bust"
	case ReasonComputerBust:
		return "computer bust"
	case ReasonHigherHand:
		return "higher hand"
	case ReasonTie:
		return "tie"
	case ReasonForfeit:
		return "forfeit"
	default:
		return "unknown"
	}
}

// Outcome is the result of one round
type Outcome struct {
	Round         int
	Winner        Winner
	Reason        Reason
	Bet           int
	Payout        int // Credited to the user; 0 on a loss
	UserValue     int
	ComputerValue int
}

// Net returns the user's gain or loss for the round
func (o Outcome) Net() int {
	return o.Payout - o.Bet
}

func (o Outcome) String() string {
	switch o.Winner {
	case WinnerPush:
		return fmt.Sprintf("round %d tied (%s) %d-%d, bet %d refunded", o.Round, o.Reason, o.UserValue, o.ComputerValue, o.Bet)
	default:
		return fmt.Sprintf("round %d won by %s (%s) %d-%d, net %+d", o.Round, o.Winner, o.Reason, o.UserValue, o.ComputerValue, o.Net())
	}
}
