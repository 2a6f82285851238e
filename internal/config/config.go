package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/game"
)

// Config represents the complete game configuration
type Config struct {
	Rules RulesSettings
	UI    UISettings
}

// fileConfig is the on-disk shape; both blocks are optional
type fileConfig struct {
	Rules *RulesSettings `hcl:"rules,block"`
	UI    *UISettings    `hcl:"ui,block"`
}

// RulesSettings mirrors game.Rules in the config file
type RulesSettings struct {
	StartingBalance  int `hcl:"starting_balance,optional"`
	MinimumBalance   int `hcl:"minimum_balance,optional"`
	BetUnit          int `hcl:"bet_unit,optional"`
	MaxBetUnits      int `hcl:"max_bet_units,optional"`
	ComputerStandsOn int `hcl:"computer_stands_on,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	PlayerName    string `hcl:"player_name,optional"`
	LogLevel      string `hcl:"log_level,optional"`
	LogFile       string `hcl:"log_file,optional"`
	DealerDelayMS int    `hcl:"dealer_delay_ms,optional"`
	NoColor       bool   `hcl:"no_color,optional"`
}

// Default returns the default configuration
func Default() *Config {
	rules := game.DefaultRules()
	return &Config{
		Rules: RulesSettings{
			StartingBalance:  rules.StartingBalance,
			MinimumBalance:   rules.MinimumBalance,
			BetUnit:          rules.BetUnit,
			MaxBetUnits:      rules.MaxBetUnits,
			ComputerStandsOn: rules.ComputerStandsOn,
		},
		UI: UISettings{
			PlayerName:    "user",
			LogLevel:      "info",
			LogFile:       "blackjack.log",
			DealerDelayMS: 0,
		},
	}
}

// Load reads an HCL config file. A missing file yields the defaults; zero
// values in the file are filled from the defaults.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	var cfg Config
	if fc.Rules != nil {
		cfg.Rules = *fc.Rules
	}
	if fc.UI != nil {
		cfg.UI = *fc.UI
	}
	cfg.applyDefaults(Default())
	return &cfg, nil
}

func (c *Config) applyDefaults(defaults *Config) {
	if c.Rules.StartingBalance == 0 {
		c.Rules.StartingBalance = defaults.Rules.StartingBalance
	}
	if c.Rules.MinimumBalance == 0 {
		c.Rules.MinimumBalance = defaults.Rules.MinimumBalance
	}
	if c.Rules.BetUnit == 0 {
		c.Rules.BetUnit = defaults.Rules.BetUnit
	}
	if c.Rules.MaxBetUnits == 0 {
		c.Rules.MaxBetUnits = defaults.Rules.MaxBetUnits
	}
	if c.Rules.ComputerStandsOn == 0 {
		c.Rules.ComputerStandsOn = defaults.Rules.ComputerStandsOn
	}

	if c.UI.PlayerName == "" {
		c.UI.PlayerName = defaults.UI.PlayerName
	}
	if c.UI.LogLevel == "" {
		c.UI.LogLevel = defaults.UI.LogLevel
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = defaults.UI.LogFile
	}
}

// GameRules converts the rules block to game.Rules
func (c *Config) GameRules() game.Rules {
	return game.Rules{
		StartingBalance:  c.Rules.StartingBalance,
		MinimumBalance:   c.Rules.MinimumBalance,
		BetUnit:          c.Rules.BetUnit,
		MaxBetUnits:      c.Rules.MaxBetUnits,
		ComputerStandsOn: c.Rules.ComputerStandsOn,
	}
}

// DealerDelay returns the pause between computer draws
func (c *Config) DealerDelay() time.Duration {
	return time.Duration(c.UI.DealerDelayMS) * time.Millisecond
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.GameRules().Validate(); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	if c.UI.DealerDelayMS < 0 {
		return fmt.Errorf("dealer delay cannot be negative")
	}
	if _, err := log.ParseLevel(c.UI.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}
	return nil
}

// NewLogger builds a file-style logger at the configured level
func (c *Config) NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(c.UI.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          prefix,
		Level:           level,
	})
}
