package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestNewFillsDefaults(t *testing.T) {
	t.Parallel()

	sim := New(Config{Sessions: 3})
	assert.Equal(t, game.DefaultRules(), sim.config.Rules)
	assert.Equal(t, 1, sim.config.BetUnits)
	assert.Equal(t, 17, sim.config.HitBelow)
	assert.Positive(t, sim.config.Workers)
	require.NoError(t, sim.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
	}{
		{"no sessions", Config{}},
		{"too many units", Config{Sessions: 1, BetUnits: 6}},
		{"negative units", Config{Sessions: 1, BetUnits: -1}},
		{"threshold too high", Config{Sessions: 1, HitBelow: 22}},
		{"bad rules", Config{Sessions: 1, Rules: game.Rules{StartingBalance: 100, BetUnit: 3, MaxBetUnits: 1, ComputerStandsOn: 17}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Logger = quietLogger()
			sim := New(tt.config)
			assert.Error(t, sim.Validate())

			_, err := sim.Run(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestRunPlaysEverySession(t *testing.T) {
	t.Parallel()

	sim := New(Config{Sessions: 20, Seed: 42, BetUnits: 2, HitBelow: 16, Workers: 4, Logger: quietLogger()})
	stats, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, stats.Sessions)
	assert.Len(t, stats.FinalBalances, 20)
	assert.Positive(t, stats.Rounds)
	assert.Equal(t, stats.Rounds, stats.Wins+stats.Losses+stats.Pushes)
	require.NoError(t, stats.Validate())

	// Every session ends either broke or out of cards; the strategy never quits.
	ended := 0
	for reason, n := range stats.EndReasons {
		assert.Contains(t, []string{"deck exhausted", "out of minimum balance"}, reason)
		ended += n
	}
	assert.Equal(t, 20, ended)

	// Balances only move by round results.
	total := 0
	for _, b := range stats.FinalBalances {
		total += b
	}
	assert.InDelta(t, float64(total-20*2000), stats.SumNet, 1e-9)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	run := func(workers int) []float64 {
		sim := New(Config{Sessions: 8, Seed: 7, Workers: workers, Logger: quietLogger()})
		stats, err := sim.Run(context.Background())
		require.NoError(t, err)
		return stats.Values
	}

	serial := run(1)
	assert.Equal(t, serial, run(1))
	assert.Equal(t, serial, run(8), "worker count must not change results")
}

func TestRunHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(Config{Sessions: 4, Seed: 1, Logger: quietLogger()})
	_, err := sim.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStrategy(t *testing.T) {
	t.Parallel()

	st := &Strategy{BetUnits: 4, HitBelow: 17}

	s := game.NewSession(game.DefaultRules(), deck.NewStackedDeck(deck.MustParseCards("Th9s6h8c2d")...),
		game.WithLogger(quietLogger()))

	units, err := st.ChooseBet(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 4, units)

	s.User().Balance = 350
	units, err = st.ChooseBet(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 3, units, "bets what it can afford")

	r, err := s.StartRound(1)
	require.NoError(t, err)

	cmd, err := st.ChooseAction(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, game.CommandHit, cmd, "16 is below the threshold")

	_, err = r.Hit()
	require.NoError(t, err)
	cmd, err = st.ChooseAction(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, game.CommandStand, cmd)
}

func TestRoundResult(t *testing.T) {
	t.Parallel()

	r := roundResult(game.Outcome{Winner: game.WinnerUser, Reason: game.ReasonNatural, Bet: 200, Payout: 300})
	assert.Equal(t, 100, r.Net)
	assert.True(t, r.Natural)

	r = roundResult(game.Outcome{Winner: game.WinnerComputer, Reason: game.ReasonUserBust, Bet: 100})
	assert.Equal(t, -100, r.Net)
	assert.True(t, r.Bust)

	r = roundResult(game.Outcome{Winner: game.WinnerPush, Reason: game.ReasonTie, Bet: 100, Payout: 100})
	assert.Zero(t, r.Net)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	config := Config{Sessions: 5, Seed: 3, BetUnits: 1, HitBelow: 17, Workers: 2, Logger: quietLogger()}
	stats, err := New(config).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, stats, config)

	out := buf.String()
	assert.Contains(t, out, "=== SIMULATION: 5 sessions, bet 1 units, hit below 17 ===")
	assert.Contains(t, out, "=== STATISTICAL RESULTS ===")
	assert.Contains(t, out, "Mean final balance")
}

func BenchmarkSimulatorRun(b *testing.B) {
	sim := New(Config{Sessions: 50, Seed: 1, Logger: quietLogger()})
	for i := 0; i < b.N; i++ {
		if _, err := sim.Run(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
