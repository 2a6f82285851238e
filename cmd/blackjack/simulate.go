package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

type SimulateCmd struct {
	Config   string `kong:"default='blackjack.hcl',env='BLACKJACK_CONFIG',help='HCL config file for the rules'"`
	Sessions int    `kong:"default='1000',help='Number of sessions to play'"`
	BetUnits int    `kong:"default='1',help='Bet units the automated player stakes each round'"`
	HitBelow int    `kong:"default='17',help='Hit while the hand value is below this'"`
	Workers  int    `kong:"default='0',env='BLACKJACK_WORKERS',help='Parallel sessions (0 for one per CPU)'"`
	Seed     int64  `kong:"default='0',help='Base seed; session i uses seed+i (0 for random)'"`
	Output   string `kong:"default='',help='Also write the report to this file'"`
	Verbose  bool   `kong:"short='V',help='Verbose logging'"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := log.WarnLevel
	if c.Verbose {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	simConfig := simulator.Config{
		Sessions: c.Sessions,
		Seed:     randutil.Seed(c.Seed),
		BetUnits: c.BetUnits,
		HitBelow: c.HitBelow,
		Workers:  c.Workers,
		Rules:    cfg.GameRules(),
		Logger:   logger,
	}

	start := time.Now()
	stats, err := simulator.New(simConfig).Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, stats, simConfig)
	if c.Output != "" {
		err := fileutil.WriteFileAtomic(c.Output, 0o644, func(w io.Writer) error {
			simulator.PrintSummary(w, stats, simConfig)
			return nil
		})
		if err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	logger.Info("Done", "seed", simConfig.Seed, "elapsed", time.Since(start))
	return nil
}
