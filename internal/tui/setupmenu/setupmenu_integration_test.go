package setupmenu

import (
	"os"
	"strings"
	"testing"
	"time"

	"bearmcp/internal/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

// TestSuccessfulSetup drives the full wizard through the terminal emulator.
func TestSuccessfulSetup(t *testing.T) {
	model, configPath := newTestModel(t)
	tm := teatest.NewTestModel(t, model)

	// Step 1: Welcome screen
	waitForString(t, tm, "Welcome to bearmcp")

	// Step 2: Token input
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForString(t, tm, "Bear API Token")
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ABC123-DEF456-GHI789")})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	// Step 3: Timeout input, replace the default with 5
	waitForString(t, tm, "Callback Timeout")
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlU}) // Clear line (Unix shortcut)
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	// Step 4: Confirm
	waitForString(t, tm, "Confirm Configuration")
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})

	// Step 5: Complete
	waitForString(t, tm, "Setup Complete")

	if !fileExists(configPath) {
		t.Fatal("config file should have been created")
	}
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	if cfg.CallbackTimeoutSecs != 5 {
		t.Errorf("expected timeout 5, got %d", cfg.CallbackTimeoutSecs)
	}

	stored, err := model.credManager.Get()
	if err != nil {
		t.Fatalf("expected token in keyring: %v", err)
	}
	if stored != "ABC123-DEF456-GHI789" {
		t.Errorf("keyring returned %q", stored)
	}
}

// TestCancelledAtWelcome verifies that cancelling writes nothing.
func TestCancelledAtWelcome(t *testing.T) {
	model, configPath := newTestModel(t)
	tm := teatest.NewTestModel(t, model)

	waitForString(t, tm, "Welcome to bearmcp")
	tm.Send(tea.KeyMsg{Type: tea.KeyEscape})
	waitForString(t, tm, "Setup Cancelled")

	if fileExists(configPath) {
		t.Error("config file should not exist after cancellation")
	}
	if model.credManager.Has() {
		t.Error("no token should have been stored after cancellation")
	}
}

// TestInvalidTimeoutRecovers checks that a bad timeout shows an error and the
// flow can still complete.
func TestInvalidTimeoutRecovers(t *testing.T) {
	model, configPath := newTestModel(t)
	tm := teatest.NewTestModel(t, model)

	waitForString(t, tm, "Welcome to bearmcp")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	waitForString(t, tm, "Bear API Token")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter}) // skip token

	waitForString(t, tm, "Callback Timeout")
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlU})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("soon")})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	waitForString(t, tm, "timeout must be a positive number")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlU})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("15")})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	waitForString(t, tm, "Confirm Configuration")
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	waitForString(t, tm, "Setup Complete")

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	if cfg.CallbackTimeoutSecs != 15 {
		t.Errorf("expected timeout 15, got %d", cfg.CallbackTimeoutSecs)
	}
}

// Helper function to wait for a specific string in the output
func waitForString(t *testing.T, tm *teatest.TestModel, s string) {
	teatest.WaitFor(
		t,
		tm.Output(),
		func(b []byte) bool {
			return strings.Contains(string(b), s)
		},
		teatest.WithCheckInterval(time.Millisecond*100),
		teatest.WithDuration(time.Second*3),
	)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
