package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/tui"
)

type TUICmd struct {
	GameFlags
}

func (c *TUICmd) Run() error {
	cfg, logger, closeLog, err := c.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	d, err := c.newDeck(logger)
	if err != nil {
		return err
	}

	model := tui.NewTUIModel(tui.Config{
		Rules:      cfg.GameRules(),
		Source:     d,
		PlayerName: cfg.UI.PlayerName,
		Logger:     logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	sum := model.Summary()
	fmt.Printf("%s after %d rounds. Final balance: %d (net %+d)\n", sum.Reason, sum.Rounds, sum.UserBalance, sum.Net)
	return nil
}
