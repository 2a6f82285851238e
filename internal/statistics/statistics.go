package statistics

import (
	"fmt"
	"math"
	"sort"
)

// Result is how a round went for the user
type Result int

const (
	Win Result = iota
	Loss
	Push
)

// RoundResult represents the outcome of a single round
type RoundResult struct {
	Net     int  // Chips won (positive) or lost (negative) by the user
	Bet     int  // Stake placed
	Result  Result
	Natural bool // Decided on the initial deal
	Bust    bool // The user went over 21
}

// SessionResult represents the end state of a whole session
type SessionResult struct {
	Rounds       int
	FinalBalance int
	EndReason    string
}

// Statistics tracks results across rounds and sessions
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Every round's net, for median/percentile

	Wins     int
	Losses   int
	Pushes   int
	Naturals int
	Busts    int
	TotalBet int

	Sessions      int
	SessionRounds int
	FinalBalances []int
	EndReasons    map[string]int
}

// Add incorporates a round result
func (s *Statistics) Add(result RoundResult) {
	net := float64(result.Net)
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
	s.TotalBet += result.Bet

	switch result.Result {
	case Win:
		s.Wins++
	case Loss:
		s.Losses++
	case Push:
		s.Pushes++
	}
	if result.Natural {
		s.Naturals++
	}
	if result.Bust {
		s.Busts++
	}
}

// AddSession incorporates a finished session
func (s *Statistics) AddSession(result SessionResult) {
	s.Sessions++
	s.SessionRounds += result.Rounds
	s.FinalBalances = append(s.FinalBalances, result.FinalBalance)
	if s.EndReasons == nil {
		s.EndReasons = make(map[string]int)
	}
	s.EndReasons[result.EndReason]++
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Naturals += other.Naturals
	s.Busts += other.Busts
	s.TotalBet += other.TotalBet
	s.Sessions += other.Sessions
	s.SessionRounds += other.SessionRounds
	s.FinalBalances = append(s.FinalBalances, other.FinalBalances...)
	for reason, n := range other.EndReasons {
		if s.EndReasons == nil {
			s.EndReasons = make(map[string]int)
		}
		s.EndReasons[reason] += n
	}
}

// Mean returns the average net chips per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of round results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of round results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate returns the fraction of rounds the user won
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// ReturnOnStake returns net chips as a fraction of everything staked
func (s *Statistics) ReturnOnStake() float64 {
	if s.TotalBet == 0 {
		return 0
	}
	return s.SumNet / float64(s.TotalBet)
}

// MeanFinalBalance returns the average balance sessions ended with
func (s *Statistics) MeanFinalBalance() float64 {
	if len(s.FinalBalances) == 0 {
		return 0
	}
	total := 0
	for _, b := range s.FinalBalances {
		total += b
	}
	return float64(total) / float64(len(s.FinalBalances))
}

// Median returns the median round result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the round result at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the tallies agree with each other
func (s *Statistics) Validate() error {
	if s.Rounds < 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)", len(s.Values), s.Rounds)
	}
	if s.Wins+s.Losses+s.Pushes != s.Rounds {
		return fmt.Errorf("wins+losses+pushes (%d) does not match rounds (%d)", s.Wins+s.Losses+s.Pushes, s.Rounds)
	}
	if s.Sessions > 0 && s.SessionRounds != s.Rounds {
		return fmt.Errorf("session rounds (%d) does not match rounds (%d)", s.SessionRounds, s.Rounds)
	}
	ended := 0
	for _, n := range s.EndReasons {
		ended += n
	}
	if ended != s.Sessions {
		return fmt.Errorf("end reasons total (%d) does not match sessions (%d)", ended, s.Sessions)
	}
	return nil
}
