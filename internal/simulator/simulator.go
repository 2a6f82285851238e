package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions int
	Seed     int64 // Session i plays a deck shuffled with Seed+i
	BetUnits int
	HitBelow int
	Workers  int
	Rules    game.Rules
	Logger   *log.Logger
}

// Simulator plays many independent sessions with an automated user
type Simulator struct {
	config Config
}

// New creates a new simulator, filling unset fields with defaults
func New(config Config) *Simulator {
	if config.Rules == (game.Rules{}) {
		config.Rules = game.DefaultRules()
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.BetUnits == 0 {
		config.BetUnits = 1
	}
	if config.HitBelow == 0 {
		config.HitBelow = config.Rules.ComputerStandsOn
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &Simulator{config: config}
}

// Validate checks the configuration can be run
func (s *Simulator) Validate() error {
	c := s.config
	if c.Sessions <= 0 {
		return fmt.Errorf("sessions must be positive, got %d", c.Sessions)
	}
	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	if c.BetUnits < 1 || c.BetUnits > c.Rules.MaxBetUnits {
		return fmt.Errorf("bet units must be between 1 and %d, got %d", c.Rules.MaxBetUnits, c.BetUnits)
	}
	if c.HitBelow < 2 || c.HitBelow > game.BlackjackValue {
		return fmt.Errorf("hit threshold must be between 2 and %d, got %d", game.BlackjackValue, c.HitBelow)
	}
	return nil
}

// Run plays every session and returns the merged statistics. Sessions run
// in parallel but results are merged in session order, so a seed always
// produces the same statistics regardless of worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger := s.config.Logger.WithPrefix("simulator")
	logger.Info("Starting simulation", "sessions", s.config.Sessions, "workers", s.config.Workers,
		"seed", s.config.Seed, "bet_units", s.config.BetUnits, "hit_below", s.config.HitBelow)

	results := make([]*statistics.Statistics, s.config.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := 0; i < s.config.Sessions; i++ {
		seed := s.config.Seed + int64(i)
		g.Go(func() error {
			stats, err := s.playSession(ctx, seed)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i+1, seed, err)
			}
			results[i] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, r := range results {
		total.Merge(r)
	}

	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	logger.Info("Simulation complete", "rounds", total.Rounds, "mean", total.Mean())
	return total, nil
}

// playSession plays one seeded session to the end
func (s *Simulator) playSession(ctx context.Context, seed int64) (*statistics.Statistics, error) {
	d := deck.NewDeck(randutil.New(seed))
	if err := d.Shuffle(); err != nil {
		return nil, err
	}

	session := game.NewSession(s.config.Rules, d, game.WithLogger(s.config.Logger))
	sum, err := session.Play(ctx, &Strategy{BetUnits: s.config.BetUnits, HitBelow: s.config.HitBelow})
	if err != nil {
		return nil, err
	}

	if got, want := sum.UserBalance+sum.ComputerBalance, 2*s.config.Rules.StartingBalance; got != want {
		return nil, fmt.Errorf("chips not conserved: user %d + computer %d != %d", sum.UserBalance, sum.ComputerBalance, want)
	}

	stats := &statistics.Statistics{}
	for _, o := range sum.Outcomes {
		stats.Add(roundResult(o))
	}
	stats.AddSession(statistics.SessionResult{
		Rounds:       sum.Rounds,
		FinalBalance: sum.UserBalance,
		EndReason:    sum.Reason.String(),
	})
	return stats, nil
}

func roundResult(o game.Outcome) statistics.RoundResult {
	r := statistics.RoundResult{
		Net:     o.Net(),
		Bet:     o.Bet,
		Natural: o.Reason == game.ReasonNatural,
		Bust:    o.Reason == game.ReasonUserBust,
	}
	switch o.Winner {
	case game.WinnerUser:
		r.Result = statistics.Win
	case game.WinnerComputer:
		r.Result = statistics.Loss
	default:
		r.Result = statistics.Push
	}
	return r
}

// Strategy is a fixed automated user: it always bets the same number of
// units (or as many as it can afford) and hits while below a threshold.
type Strategy struct {
	BetUnits int
	HitBelow int
}

// ChooseBet returns the largest affordable stake up to BetUnits
func (st *Strategy) ChooseBet(ctx context.Context, s *game.Session) (int, error) {
	units := 0
	for _, option := range s.BetOptions() {
		if option <= st.BetUnits {
			units = option
		}
	}
	if units == 0 {
		return 0, game.ErrQuit
	}
	return units, nil
}

// ChooseAction hits below the threshold and stands otherwise
func (st *Strategy) ChooseAction(ctx context.Context, r *game.Round) (game.Command, error) {
	if r.User().HandValue() < st.HitBelow {
		return game.CommandHit, nil
	}
	return game.CommandStand, nil
}

// PrintSummary prints a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, config Config) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== SIMULATION: %d sessions, bet %d units, hit below %d ===\n",
		stats.Sessions, config.BetUnits, config.HitBelow)
	fmt.Fprintf(w, "Rounds played: %d (%.1f per session)\n", stats.Rounds, perSession(stats.Rounds, stats.Sessions))

	fmt.Fprintf(w, "\n=== ROUND RESULTS ===\n")
	fmt.Fprintf(w, "Wins: %d (%.1f%%)  Losses: %d  Pushes: %d\n", stats.Wins, stats.WinRate()*100, stats.Losses, stats.Pushes)
	fmt.Fprintf(w, "Naturals: %d  Busts: %d\n", stats.Naturals, stats.Busts)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.2f chips/round\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.2f chips/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.2f chips\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f] chips/round\n", low, high)
	fmt.Fprintf(w, "Return on stake: %.2f%%\n", stats.ReturnOnStake()*100)

	fmt.Fprintf(w, "\n=== SESSIONS ===\n")
	fmt.Fprintf(w, "Mean final balance: %.1f\n", stats.MeanFinalBalance())
	reasons := make([]string, 0, len(stats.EndReasons))
	for reason := range stats.EndReasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(w, "Ended by %s: %d\n", reason, stats.EndReasons[reason])
	}
}

func perSession(rounds, sessions int) float64 {
	if sessions == 0 {
		return 0
	}
	return float64(rounds) / float64(sessions)
}
