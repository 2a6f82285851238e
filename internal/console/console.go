// Package console plays a blackjack session over plain line-oriented input
// and output, one prompt at a time.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Console is both the game.Controller and the game.Observer of a session.
// Register it with game.WithObserver when creating the session, then call
// Run.
type Console struct {
	out    io.Writer
	lines  chan string
	done   chan struct{} // closed by Close; releases the reader
	closed sync.Once
	reader chan struct{} // closed when the reader goroutine exits
	clock  quartz.Clock
	delay  time.Duration
	logger *log.Logger
	ctx    context.Context

	// Cards seen this round, rebuilt from events
	dealtRound    int
	userCards     []deck.Card
	computerCards []deck.Card
}

// Option configures a Console
type Option func(*Console)

// WithLogger sets the console logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Console) { c.logger = logger }
}

// WithClock sets the clock used for dealer pacing
func WithClock(clock quartz.Clock) Option {
	return func(c *Console) { c.clock = clock }
}

// WithDealerDelay pauses before each computer draw is shown
func WithDealerDelay(d time.Duration) Option {
	return func(c *Console) { c.delay = d }
}

// New creates a console reading commands from in and writing to out
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		out:    out,
		lines:  make(chan string),
		done:   make(chan struct{}),
		reader: make(chan struct{}),
		clock:  quartz.NewReal(),
		logger: log.Default(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithPrefix("console")

	go c.readLines(in)
	return c
}

func (c *Console) readLines(in io.Reader) {
	defer close(c.reader)
	defer close(c.lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case c.lines <- scanner.Text():
		case <-c.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		c.logger.Error("Input read failed", "error", err)
	}
}

// readLine waits for the next input line. Closed input yields io.EOF.
func (c *Console) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// Close stops reading input. A reader blocked inside in.Read exits once that
// read returns. Run calls Close when it finishes.
func (c *Console) Close() {
	c.closed.Do(func() { close(c.done) })
}

// Run plays s to the end and prints the closing summary
func (c *Console) Run(ctx context.Context, s *game.Session) (game.Summary, error) {
	defer c.Close()
	c.ctx = ctx
	c.printf("\n%s\n", TitleStyle.Render("Welcome to 'Blackjack ROUNDS: Beat the Computer Opponent'!"))

	sum, err := s.Play(ctx, c)
	if err != nil {
		return sum, err
	}

	c.printSummary(s, sum)
	return sum, nil
}

func (c *Console) printSummary(s *game.Session, sum game.Summary) {
	switch sum.Reason {
	case game.EndReasonLowBalance:
		c.printf("\n%s\n", s.User().BalanceReport())
		c.printf("\n%s\n", ErrorStyle.Render("Out of minimum balance. Game over."))
	case game.EndReasonDeckExhausted:
		c.printf("\n%s\n", WarningStyle.Render("Current deck has no more cards. Start a new game."))
	case game.EndReasonQuit:
		c.printf("\n%s\n", InfoStyle.Render("Thanks for playing."))
	}

	c.printf("\nRounds played: %d (won %d, lost %d, tied %d)\n", sum.Rounds, sum.Wins, sum.Losses, sum.Pushes)
	c.printf("Final balance: %d (net %+d)\n", sum.UserBalance, sum.Net)
}

// ChooseBet prints the round header and asks for a stake until a valid one
// is entered. "q" or closed input quits.
func (c *Console) ChooseBet(ctx context.Context, s *game.Session) (int, error) {
	rules := s.Rules()

	c.printf("\n%s\n", HeaderStyle.Render(fmt.Sprintf("-------- ROUND %d -----------", s.NextRoundNumber())))
	c.printf("Good luck! May the cards be in your favor!\n\n")
	c.printf("REMAINING BALANCE: %d\n", s.User().Balance)
	c.printf("\nMaximum bet is %d.\n", rules.MaxBet())

	for {
		c.printf("Enter the number of %d's you want to place as a bet: ", rules.BetUnit)
		line, err := c.readLine(ctx)
		if err != nil {
			return 0, inputErr(err)
		}
		if isQuit(line) {
			return 0, game.ErrQuit
		}

		units, err := game.ParseBet(line, s.User().Balance, rules)
		if err == nil {
			c.logger.Debug("Bet accepted", "units", units)
			return units, nil
		}

		c.logger.Debug("Bet rejected", "input", line, "error", err)
		c.printf("%s\n", ErrorStyle.Render(fmt.Sprintf(
			"Invalid bet. Select from %s and ensure it's within your balance.", formatOptions(s.BetOptions()))))
	}
}

// ChooseAction shows the menu and handles the display commands itself,
// returning only hit, stand or quit.
func (c *Console) ChooseAction(ctx context.Context, r *game.Round) (game.Command, error) {
	showMenu := true
	for {
		if showMenu {
			c.printMenu()
			showMenu = false
		}

		c.printf("\nSelect a command: ")
		line, err := c.readLine(ctx)
		if err != nil {
			return 0, inputErr(err)
		}

		cmd, err := game.ParseCommand(line)
		if err != nil {
			c.printf("%s\n", ErrorStyle.Render("Invalid input. Please select a valid command."))
			continue
		}

		switch cmd {
		case game.CommandShowHand:
			c.printHand("Your cards:", r.User().Hand())
			c.printf("\n%s HAND VALUE: %d\n", r.User().Name, r.User().HandValue())
			showMenu = true
		case game.CommandBalance:
			c.printf("\n%s\n", r.User().BalanceReport())
			showMenu = true
		case game.CommandShowPool:
			c.printf("\nBETS: %d\n", r.Pool())
			showMenu = true
		default:
			c.logger.Debug("Command chosen", "round", r.Number(), "command", cmd)
			return cmd, nil
		}
	}
}

func (c *Console) printMenu() {
	c.printf("\n")
	for _, cmd := range game.Commands {
		c.printf("%s\n", MenuStyle.Render(fmt.Sprintf("%d. %s", int(cmd), cmd)))
	}
}

// OnEvent narrates the round as it happens
func (c *Console) OnEvent(e game.Event) {
	switch e.Type {
	case game.EventDealt:
		// The user is always dealt first
		if c.dealtRound != e.Round {
			c.dealtRound = e.Round
			c.userCards = e.Cards
			c.computerCards = nil
			return
		}
		c.computerCards = e.Cards
		c.printInitialCards()

	case game.EventHit:
		c.userCards = append(c.userCards, e.Cards...)
		for _, card := range e.Cards {
			c.printf("\nYou drew the %s.\n", FormatCard(card))
		}
		c.printf("%s HAND VALUE: %d\n", e.Player, e.Value)

	case game.EventStand:
		c.printf("\nYou stay on %d.\n", e.Value)
		c.printHand("Computer reveals its cards:", c.computerCards)

	case game.EventComputerDraw:
		c.pause()
		c.computerCards = append(c.computerCards, e.Cards...)
		for _, card := range e.Cards {
			c.printf("Computer draws the %s (%d).\n", FormatCard(card), e.Value)
		}

	case game.EventDeckEmpty:
		c.printf("\n%s\n", WarningStyle.Render("The deck has no more cards."))

	case game.EventRoundResolved:
		if e.Outcome != nil {
			c.printOutcome(*e.Outcome)
		}
	}
}

func (c *Console) printInitialCards() {
	c.printf("\nInitial cards drawn:\n\n")
	c.printHand("User's cards:", c.userCards)

	c.printf("\nComputer's cards:\n")
	if len(c.computerCards) > 0 {
		c.printf("%s\n", FormatCard(c.computerCards[0]))
	}
	c.printf("%s\n", FaceDownStyle.Render("FACE DOWN"))
	c.printf("\nComputer hides its second card!\n")
}

func (c *Console) printHand(title string, cards []deck.Card) {
	c.printf("\n%s\n", title)
	for _, card := range cards {
		c.printf("%s\n", FormatCard(card))
	}
}

func (c *Console) printOutcome(o game.Outcome) {
	if o.Reason == game.ReasonNatural {
		c.printf("\n%s\n", SuccessStyle.Render("Lucky draw."))
		c.printHand("Computer's cards:", c.computerCards)
	}
	for _, line := range OutcomeLines(o) {
		style := SuccessStyle
		if o.Winner == game.WinnerComputer {
			style = ErrorStyle
		}
		c.printf("\n%s", style.Render(line))
	}
	c.printf("\n")
}

// OutcomeLines describes how a round ended
func OutcomeLines(o game.Outcome) []string {
	switch o.Reason {
	case game.ReasonNatural:
		if o.UserValue == game.BlackjackValue && o.ComputerValue == game.BlackjackValue {
			return []string{"Both hands are 21.", "Computer won the round."}
		}
		return []string{fmt.Sprintf("%s won the round with 21 on the deal.", o.Winner)}
	case game.ReasonTwentyOne:
		if o.Winner == game.WinnerUser {
			return []string{"User won the round!"}
		}
		return []string{"Computer hit 21.", "Computer won the round."}
	case game.ReasonUserBust:
		return []string{"Your hand value is more than 21. You are busted. Lost the round."}
	case game.ReasonComputerBust:
		return []string{"Computer hand value > 21. User won the round."}
	case game.ReasonTie:
		return []string{"This round ended as a tie."}
	case game.ReasonHigherHand:
		if o.Winner == game.WinnerUser {
			return []string{
				fmt.Sprintf("User hand value: %d", o.UserValue),
				"User won the round with a higher hand value.",
			}
		}
		return []string{
			fmt.Sprintf("Computer hand value: %d", o.ComputerValue),
			"Computer won the round.",
		}
	case game.ReasonForfeit:
		return []string{"You left the table. The bet is forfeited."}
	default:
		return []string{o.String()}
	}
}

// pause holds the computer's draws back by the dealer delay
func (c *Console) pause() {
	if c.delay <= 0 {
		return
	}

	fired := make(chan struct{})
	timer := c.clock.AfterFunc(c.delay, func() {
		close(fired)
	}, "console", "pause")
	defer timer.Stop()

	select {
	case <-fired:
	case <-c.ctx.Done():
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func inputErr(err error) error {
	if errors.Is(err, io.EOF) {
		return game.ErrQuit
	}
	return err
}

func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return true
	}
	return false
}

func formatOptions(options []int) string {
	parts := make([]string, len(options))
	for i, o := range options {
		parts[i] = fmt.Sprint(o)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
