// Package setupmenu provides the first-time setup flow for bearmcp.
//
// The wizard walks through storing the Bear API token (masked input, saved
// to the OS keyring with a plain-text config fallback) and choosing the
// callback timeout, then writes the initial config file.
package setupmenu

import (
	"fmt"
	"strconv"
	"strings"

	"bearmcp/internal/config"
	"bearmcp/internal/logging"
	"bearmcp/internal/token"
	"bearmcp/internal/tui/helpers"
	"bearmcp/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SetupState represents the current state of the setup process
type SetupState int

const (
	SetupStateWelcome      SetupState = iota // Initial welcome screen
	SetupStateTokenInput                     // Bear API token input (password-masked)
	SetupStateTimeoutInput                   // Callback timeout input
	SetupStateConfirmation                   // Review and confirm configuration
	SetupStateComplete                       // Setup successfully completed
	SetupStateCancelled                      // Setup was cancelled by user
)

// Custom messages for internal state transitions
type (
	setupErrorMsg    struct{ err error }
	setupCompleteMsg struct{}
)

// SetupModel manages the setup wizard state. Pointer receivers throughout so
// state changes propagate across the event loop.
type SetupModel struct {
	state SetupState

	// Collected configuration
	Token       string
	TimeoutSecs int

	// Flow control
	Cancelled bool
	errMsg    error

	logger      *logging.AppLogger
	credManager *token.CredentialManager

	// configPath overrides the standard config location (tests only)
	configPath string

	textInput textinput.Model
}

// NewSetupModel creates a setup wizard model with initial state.
func NewSetupModel(ctx helpers.UIContext) *SetupModel {
	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 48

	return &SetupModel{
		state:       SetupStateWelcome,
		TimeoutSecs: config.DefaultCallbackTimeoutSecs,
		textInput:   ti,
		logger:      ctx.Logger,
		credManager: token.NewCredentialManager(),
	}
}

// Init starts the text input cursor blinking.
func (m *SetupModel) Init() tea.Cmd {
	m.logger.Info("Setup model initialized")
	return textinput.Blink
}

// Update handles all incoming messages.
func (m *SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.logger.LogMessage(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case setupErrorMsg:
		m.errMsg = msg.err
		return m, nil

	case setupCompleteMsg:
		m.state = SetupStateComplete
		m.errMsg = nil
		return m, tea.Quit
	}

	return m, nil
}

func (m *SetupModel) handleKeyPress(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}

	switch m.state {
	case SetupStateWelcome:
		return m.handleWelcomeKeys(msg)
	case SetupStateTokenInput:
		return m.handleTokenKeys(msg)
	case SetupStateTimeoutInput:
		return m.handleTimeoutKeys(msg)
	case SetupStateConfirmation:
		return m.handleConfirmationKeys(msg)
	case SetupStateComplete, SetupStateCancelled:
		return m, tea.Quit
	}
	return m, nil
}

func (m *SetupModel) handleWelcomeKeys(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.resetTextInput(SetupStateTokenInput, "", "XXXXXX-XXXXXX-XXXXXX", textinput.EchoPassword)
	case "q", "esc":
		return m.handleQuit()
	}
	return m, nil
}

func (m *SetupModel) handleTokenKeys(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// An empty token is allowed: search-style tools then need a
		// per-call token argument.
		m.Token = strings.TrimSpace(m.textInput.Value())
		return m, m.resetTextInput(SetupStateTimeoutInput,
			strconv.Itoa(m.TimeoutSecs), strconv.Itoa(config.DefaultCallbackTimeoutSecs), textinput.EchoNormal)
	case "esc":
		m.state = SetupStateWelcome
		m.errMsg = nil
		return m, nil
	default:
		return m.updateTextInput(msg)
	}
}

func (m *SetupModel) handleTimeoutKeys(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		raw := strings.TrimSpace(m.textInput.Value())
		if raw == "" {
			m.TimeoutSecs = config.DefaultCallbackTimeoutSecs
		} else {
			secs, err := strconv.Atoi(raw)
			if err != nil || secs <= 0 {
				m.errMsg = fmt.Errorf("timeout must be a positive number of seconds")
				return m, nil
			}
			m.TimeoutSecs = secs
		}
		m.state = SetupStateConfirmation
		m.errMsg = nil
		return m, nil
	case "esc":
		return m, m.resetTextInput(SetupStateTokenInput, "", "XXXXXX-XXXXXX-XXXXXX", textinput.EchoPassword)
	default:
		return m.updateTextInput(msg)
	}
}

func (m *SetupModel) handleConfirmationKeys(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		return m, m.createConfig()
	case "n", "N", "esc":
		return m, m.resetTextInput(SetupStateTokenInput, "", "XXXXXX-XXXXXX-XXXXXX", textinput.EchoPassword)
	case "q":
		return m.handleQuit()
	}
	return m, nil
}

func (m *SetupModel) updateTextInput(msg tea.Msg) (*SetupModel, tea.Cmd) {
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.errMsg = nil
	return m, cmd
}

// resetTextInput moves to the given state with a freshly configured input.
func (m *SetupModel) resetTextInput(state SetupState, value, placeholder string, echo textinput.EchoMode) tea.Cmd {
	m.state = state
	m.errMsg = nil
	m.textInput.SetValue(value)
	m.textInput.Placeholder = placeholder
	m.textInput.EchoMode = echo
	m.textInput.Focus()
	return textinput.Blink
}

// createConfig returns a command that writes the configuration
// asynchronously so the UI never blocks on file or keyring access.
func (m *SetupModel) createConfig() tea.Cmd {
	return func() tea.Msg {
		if err := m.performSetup(); err != nil {
			m.logger.Error("Configuration creation failed", "error", err)
			return setupErrorMsg{err}
		}
		m.logger.Info("Configuration created successfully")
		return setupCompleteMsg{}
	}
}

func (m *SetupModel) performSetup() error {
	cfg := config.DefaultConfig()
	cfg.CallbackTimeoutSecs = m.TimeoutSecs

	if m.Token != "" {
		if err := m.credManager.Store(m.Token); err != nil {
			// Keyring unavailable (headless session, locked store):
			// keep the token in the 0600 config file instead.
			m.logger.Warn("Keyring unavailable, storing token in config file", "error", err)
			cfg.Token = m.Token
		}
	}

	if m.configPath != "" {
		return cfg.SaveTo(m.configPath)
	}
	return cfg.Save()
}

func (m *SetupModel) handleQuit() (*SetupModel, tea.Cmd) {
	m.logger.Warn("Setup cancelled by user")
	m.Cancelled = true
	m.state = SetupStateCancelled
	return m, tea.Quit
}

// View renders the screen for the current state.
func (m *SetupModel) View() string {
	switch m.state {
	case SetupStateWelcome:
		return m.viewWelcome()
	case SetupStateTokenInput:
		return m.viewTokenInput()
	case SetupStateTimeoutInput:
		return m.viewTimeoutInput()
	case SetupStateConfirmation:
		return m.viewConfirmation()
	case SetupStateComplete:
		return m.viewComplete()
	case SetupStateCancelled:
		return m.viewCancelled()
	}
	return ""
}

func (m *SetupModel) viewWelcome() string {
	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render("Welcome to bearmcp"))
	b.WriteString("\n")
	b.WriteString(styles.NormalTextStyle.Render(
		"This wizard stores your Bear API token and writes the initial\n" +
			"configuration. Find the token in Bear → Help → Advanced → API Token."))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("enter: continue • q/esc: cancel"))
	return b.String()
}

func (m *SetupModel) viewTokenInput() string {
	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render("Bear API Token"))
	b.WriteString("\n")
	b.WriteString(styles.NormalTextStyle.Render(
		"Paste the token. Leave empty to skip; data-returning tools will\n" +
			"then need a token passed per call."))
	b.WriteString("\n")
	b.WriteString(styles.InputStyle.Render(m.textInput.View()))
	b.WriteString(m.viewError())
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("enter: continue • esc: back • ctrl+c: cancel"))
	return b.String()
}

func (m *SetupModel) viewTimeoutInput() string {
	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render("Callback Timeout"))
	b.WriteString("\n")
	b.WriteString(styles.NormalTextStyle.Render(
		"How many seconds to wait for Bear's callback before failing a\n" +
			"data-returning tool call."))
	b.WriteString("\n")
	b.WriteString(styles.InputStyle.Render(m.textInput.View()))
	b.WriteString(m.viewError())
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("enter: continue • esc: back • ctrl+c: cancel"))
	return b.String()
}

func (m *SetupModel) viewConfirmation() string {
	tokenSummary := "not set (per-call token required)"
	if m.Token != "" {
		tokenSummary = "set (stored securely)"
	}

	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render("Confirm Configuration"))
	b.WriteString("\n")
	b.WriteString(styles.NormalTextStyle.Render(fmt.Sprintf(
		"Token:            %s\nCallback timeout: %ds", tokenSummary, m.TimeoutSecs)))
	b.WriteString(m.viewError())
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("y/enter: save • n/esc: back • q: cancel"))
	return b.String()
}

func (m *SetupModel) viewComplete() string {
	var b strings.Builder
	b.WriteString(styles.SuccessStyle.Render("Setup Complete"))
	b.WriteString("\n\n")
	b.WriteString(styles.NormalTextStyle.Render(
		"bearmcp is configured. Add it to your MCP client and run `bearmcp serve`."))
	return b.String()
}

func (m *SetupModel) viewCancelled() string {
	return styles.ErrorStyle.Render("Setup Cancelled") + "\n"
}

func (m *SetupModel) viewError() string {
	if m.errMsg == nil {
		return ""
	}
	return "\n" + styles.ErrorStyle.Render(m.errMsg.Error())
}
