package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play against the computer in the terminal"`
	TUI      TUICmd           `cmd:"tui" help:"Play against the computer in a full-screen UI"`
	Simulate SimulateCmd      `cmd:"" help:"Play many automated sessions and report statistics"`
}

func main() {
	// Flags can also come from the environment or a local .env file
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack ROUNDS: beat the computer opponent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
