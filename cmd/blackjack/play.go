package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/game"
)

type PlayCmd struct {
	GameFlags
}

func (c *PlayCmd) Run() error {
	cfg, logger, closeLog, err := c.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	d, err := c.newDeck(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	con := console.New(os.Stdin, os.Stdout,
		console.WithLogger(logger),
		console.WithDealerDelay(cfg.DealerDelay()),
	)
	session := game.NewSession(cfg.GameRules(), d,
		game.WithLogger(logger),
		game.WithUserName(cfg.UI.PlayerName),
		game.WithObserver(con),
	)

	sum, err := con.Run(ctx, session)
	if errors.Is(err, context.Canceled) {
		logger.Info("Interrupted", "rounds", sum.Rounds, "balance", sum.UserBalance)
		return nil
	}
	return err
}
