package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// GameFlags are shared by the interactive commands
type GameFlags struct {
	Config  string `kong:"default='blackjack.hcl',env='BLACKJACK_CONFIG',help='HCL config file; defaults apply when missing'"`
	Seed    int64  `kong:"default='0',env='BLACKJACK_SEED',help='Shuffle seed (0 for random)'"`
	Name    string `kong:"default='',env='BLACKJACK_NAME',help='Player display name (overrides config)'"`
	NoColor bool   `kong:"env='BLACKJACK_NO_COLOR',help='Disable colored output'"`
	LogFile string `kong:"default='',env='BLACKJACK_LOG_FILE',help='Debug log file (overrides config)'"`
}

// setup loads the config, applies flag overrides and opens the debug log.
// The returned function closes the log file.
func (f *GameFlags) setup() (*config.Config, *log.Logger, func(), error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, nil, nil, err
	}
	if f.Name != "" {
		cfg.UI.PlayerName = f.Name
	}
	if f.LogFile != "" {
		cfg.UI.LogFile = f.LogFile
	}
	if f.NoColor {
		cfg.UI.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config %s: %w", f.Config, err)
	}

	if cfg.UI.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// Logs go to a file so they never interleave with the game on the terminal
	debugFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	closeLog := func() {
		if err := debugFile.Close(); err != nil {
			log.Error("Failed to close debug file", "error", err)
		}
	}

	return cfg, cfg.NewLogger(debugFile, "MAIN"), closeLog, nil
}

// newDeck shuffles a fresh deck from the flag seed, or a random one
func (f *GameFlags) newDeck(logger *log.Logger) (*deck.Deck, error) {
	seed := randutil.Seed(f.Seed)
	d := deck.NewDeck(randutil.New(seed))
	if err := d.Shuffle(); err != nil {
		return nil, err
	}
	logger.Info("Shuffled deck", "seed", seed)
	return d, nil
}
