package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// phase is what the input line is currently asking for
type phase int

const (
	phaseBet phase = iota
	phaseAction
	phaseOver
)

// Config configures a TUI model and the session it plays
type Config struct {
	Rules      game.Rules
	Source     deck.Source // Should already be shuffled
	PlayerName string
	Clock      quartz.Clock
	Logger     *log.Logger
	TestMode   bool
}

// TUIModel is the Bubble Tea model for a blackjack session. It owns the
// session and steps it from Update.
type TUIModel struct {
	session *game.Session
	round   *game.Round
	phase   phase
	logger  *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Cards seen this round, from events
	dealtRound    int
	computerShown []deck.Card

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string // For test assertions
}

// NewTUIModel creates a model with a fresh session over cfg.Source
func NewTUIModel(cfg Config) *TUIModel {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Rules == (game.Rules{}) {
		cfg.Rules = game.DefaultRules()
	}

	// Create viewport for game log with minimal initial size
	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 20
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &TUIModel{
		logger:      cfg.Logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: 1, // Start with input focused
		testMode:    cfg.TestMode,
		capturedLog: []string{},
	}

	opts := []game.Option{
		game.WithLogger(cfg.Logger),
		game.WithUserName(cfg.PlayerName),
		game.WithObserver(m),
	}
	if cfg.Clock != nil {
		opts = append(opts, game.WithClock(cfg.Clock))
	}
	m.session = game.NewSession(cfg.Rules, cfg.Source, opts...)

	m.AddLogEntry(TitleStyle.Render("Blackjack ROUNDS: Beat the Computer Opponent"))
	m.startBetting()
	return m
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updated dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quit()
			m.quitting = true
			return m, tea.Quit
		case "tab":
			// Switch focus between log and input
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if m.processInput(input) {
					m.quitting = true
					return m, tea.Quit
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd

	// Only update input if it's focused
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// processInput steps the session with one line of input. It returns true
// when the program should exit.
func (m *TUIModel) processInput(input string) bool {
	switch m.phase {
	case phaseBet:
		m.placeBet(input)
	case phaseAction:
		m.runCommand(input)
	case phaseOver:
		return true
	}
	return false
}

func (m *TUIModel) placeBet(input string) {
	if isQuit(input) {
		m.quit()
		return
	}

	units, err := game.ParseBet(input, m.session.User().Balance, m.session.Rules())
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Invalid bet. Select from %v and ensure it's within your balance.",
			m.session.BetOptions())))
		return
	}

	r, err := m.session.StartRound(units)
	if err != nil {
		m.logger.Error("Failed to start round", "error", err)
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
		m.checkOver()
		return
	}

	m.round = r
	if r.Done() {
		m.finishRound()
		return
	}
	m.phase = phaseAction
}

func (m *TUIModel) runCommand(input string) {
	cmd, err := game.ParseCommand(input)
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render("Invalid input. Please select a valid command."))
		return
	}

	switch cmd {
	case game.CommandShowHand:
		user := m.round.User()
		m.AddLogEntry(fmt.Sprintf("Your hand: %s (%d)", console.FormatShortCards(user.Hand()), user.HandValue()))
	case game.CommandBalance:
		m.AddLogEntry(m.round.User().BalanceReport())
	case game.CommandShowPool:
		m.AddLogEntry(fmt.Sprintf("Bets: %d", m.round.Pool()))
	case game.CommandHit:
		if _, err := m.round.Hit(); err != nil {
			if !errors.Is(err, deck.ErrEmpty) {
				m.logger.Error("Hit failed", "error", err)
				return
			}
			m.AddLogEntry(WarningStyle.Render("No cards left to draw, standing."))
			if err := m.round.Stand(); err != nil {
				m.logger.Error("Stand failed", "error", err)
				return
			}
		}
	case game.CommandStand:
		if err := m.round.Stand(); err != nil {
			m.logger.Error("Stand failed", "error", err)
			return
		}
	case game.CommandQuit:
		m.quit()
		return
	}

	if m.round.Done() {
		m.finishRound()
	}
}

func (m *TUIModel) finishRound() {
	if _, err := m.session.EndRound(); err != nil {
		m.logger.Error("Failed to end round", "error", err)
		return
	}
	m.round = nil
	m.AddLogEntry(InfoStyle.Render(m.session.User().BalanceReport()))
	m.startBetting()
}

func (m *TUIModel) startBetting() {
	if m.checkOver() {
		return
	}
	m.phase = phaseBet
	m.AddLogEntry("")
	m.AddLogEntry(HeaderStyle.Render(fmt.Sprintf("-------- ROUND %d -----------", m.session.NextRoundNumber())))
	m.AddLogEntry(fmt.Sprintf("Remaining balance: %d", m.session.User().Balance))
}

// checkOver moves to the final screen once the session cannot continue
func (m *TUIModel) checkOver() bool {
	reason, over := m.session.CheckOver()
	if !over {
		return false
	}
	m.showSummary(reason)
	return true
}

func (m *TUIModel) quit() {
	if m.session.Ended() != game.EndReasonNone {
		return
	}
	m.session.Quit()
	m.round = nil
	m.showSummary(game.EndReasonQuit)
}

func (m *TUIModel) showSummary(reason game.EndReason) {
	m.phase = phaseOver
	sum := m.session.Summary()

	m.AddLogEntry("")
	switch reason {
	case game.EndReasonLowBalance:
		m.AddLogEntry(ErrorStyle.Render("Out of minimum balance. Game over."))
	case game.EndReasonDeckExhausted:
		m.AddLogEntry(WarningStyle.Render("Current deck has no more cards. Start a new game."))
	case game.EndReasonQuit:
		m.AddLogEntry(InfoStyle.Render("Thanks for playing."))
	}
	m.AddLogEntry(fmt.Sprintf("Rounds played: %d (won %d, lost %d, tied %d)", sum.Rounds, sum.Wins, sum.Losses, sum.Pushes))
	m.AddLogEntry(fmt.Sprintf("Final balance: %d (net %+d)", sum.UserBalance, sum.Net))
}

// OnEvent adds round events to the game log
func (m *TUIModel) OnEvent(e game.Event) {
	switch e.Type {
	case game.EventDealt:
		// The user is always dealt first; the computer's second card stays hidden
		if m.dealtRound != e.Round {
			m.dealtRound = e.Round
			m.AddLogEntry(fmt.Sprintf("%s dealt %s (%d)", e.Player, console.FormatShortCards(e.Cards), e.Value))
			return
		}
		m.computerShown = e.Cards[:1]
		m.AddLogEntry(fmt.Sprintf("%s dealt %s %s", e.Player, console.FormatShortCards(m.computerShown),
			FaceDownStyle.Render("[FACE DOWN]")))
	case game.EventHit, game.EventComputerDraw:
		m.AddLogEntry(fmt.Sprintf("%s draws %s (%d)", e.Player, console.FormatShortCards(e.Cards), e.Value))
	case game.EventStand:
		m.AddLogEntry(fmt.Sprintf("%s stays on %d", e.Player, e.Value))
	case game.EventDeckEmpty:
		m.AddLogEntry(WarningStyle.Render("The deck has no more cards."))
	case game.EventRoundResolved:
		if e.Outcome == nil {
			return
		}
		style := SuccessStyle
		if e.Outcome.Winner == game.WinnerComputer {
			style = ErrorStyle
		}
		for _, line := range console.OutcomeLines(*e.Outcome) {
			m.AddLogEntry(style.Render(line))
		}
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight-2, 1)).
		Render(actionContent)

	// Sidebar pane (right side of log pane, same height as log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1) // Account for border x 2 and action pane

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane (top, fills height minus action pane)
	m.logViewport.SetContent(m.renderLogPane())
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight

	// On first proper sizing, jump to the latest entries
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderLogPane renders the game log pane content
func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

// renderSidebarPane shows balances, the bet pool and the deck
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder

	pool := 0
	if m.round != nil {
		pool = m.round.Pool()
	}
	content.WriteString(WarningStyle.Render(fmt.Sprintf("Bets: %d", pool)))
	content.WriteString("\n\n")

	content.WriteString(InfoStyle.Render("Balances:"))
	content.WriteString("\n")
	for _, p := range []*game.Player{m.session.User(), m.session.Computer()} {
		content.WriteString(fmt.Sprintf("  %s: %d\n", p.Name, p.Balance))
	}

	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Cards left: %d", m.session.CardsRemaining())))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Rounds played: %d", m.session.RoundsPlayed())))

	return content.String()
}

// renderActionPane renders the prompt for the current phase
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	switch m.phase {
	case phaseBet:
		rules := m.session.Rules()
		content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Maximum bet is %d. Options: %v", rules.MaxBet(), m.session.BetOptions())))
		content.WriteString("\n")
		m.actionInput.Placeholder = fmt.Sprintf("Enter the number of %d's you want to place as a bet", rules.BetUnit)
	case phaseAction:
		user := m.round.User()
		content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Hand: %s (%d)  Computer: %s [FACE DOWN]",
			console.FormatShortCards(user.Hand()), user.HandValue(), console.FormatShortCards(m.computerShown))))
		content.WriteString("\n")
		content.WriteString(m.renderCommands())
		content.WriteString("\n")
		m.actionInput.Placeholder = "Select a command (1-6)"
	case phaseOver:
		content.WriteString(HandInfoStyle.Render("Session over."))
		content.WriteString("\n")
		m.actionInput.Placeholder = "Enter to exit"
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}

	return content.String()
}

func (m *TUIModel) renderCommands() string {
	var commands []string
	for _, cmd := range game.Commands {
		label := fmt.Sprintf("[%d %s]", int(cmd), cmd)
		switch cmd {
		case game.CommandHit:
			commands = append(commands, SuccessStyle.Render(label))
		case game.CommandQuit:
			commands = append(commands, ErrorStyle.Render(label))
		default:
			commands = append(commands, ActionsStyle.Render(label))
		}
	}
	return strings.Join(commands, " ")
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Summary reports the session so far
func (m *TUIModel) Summary() game.Summary {
	return m.session.Summary()
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// InjectInput submits a line as if typed and entered (test mode only)
func (m *TUIModel) InjectInput(input string) error {
	if !m.testMode {
		return fmt.Errorf("input injection only available in test mode")
	}
	m.processInput(strings.TrimSpace(input))
	return nil
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "q", "quit", "exit":
		return true
	}
	return false
}
