package xcall

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"bearmcp/internal/logging"
)

// Runner executes the URL-open subprocess and returns whatever it wrote to
// stderr. Split out of Dispatcher so tests can substitute a fake process.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// DispatchError reports a failed hand-off of an action URL to the OS.
type DispatchError struct {
	Action string // x-callback action name, e.g. "create"
	Output string // trimmed stderr from the open command, if any
	Err    error  // underlying exec error, if any
}

func (e *DispatchError) Error() string {
	switch {
	case e.Err != nil && e.Output != "":
		return fmt.Sprintf("failed to open %s URL: %v: %s", e.Action, e.Err, e.Output)
	case e.Err != nil:
		return fmt.Sprintf("failed to open %s URL: %v", e.Action, e.Err)
	default:
		return fmt.Sprintf("failed to open %s URL: %s", e.Action, e.Output)
	}
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Dispatcher hands action URLs to the operating system. Each call is one
// subprocess invocation; there is no retry. Whether Bear actually performed
// the action is unobservable here beyond exit status and stderr.
type Dispatcher struct {
	command string
	runner  Runner
	logger  *logging.AppLogger
}

// NewDispatcher creates a dispatcher that invokes the given command with the
// action URL as its only argument. An empty command means the macOS default.
func NewDispatcher(command string, logger *logging.AppLogger) *Dispatcher {
	if command == "" {
		command = "open"
	}
	return &Dispatcher{
		command: command,
		runner:  runCommand,
		logger:  logger,
	}
}

// Open dispatches one action URL. Any diagnostic output on the subprocess's
// stderr is treated as a failure even when the process exits cleanly, since
// `open` reports "Unable to find application" style errors that way.
func (d *Dispatcher) Open(ctx context.Context, action, rawURL string) error {
	d.logger.Debug("Dispatching action URL", "action", action, "url", rawURL)

	out, err := d.runner(ctx, d.command, rawURL)
	diag := strings.TrimSpace(string(out))

	if err != nil {
		return &DispatchError{Action: action, Output: diag, Err: err}
	}
	if diag != "" {
		return &DispatchError{Action: action, Output: diag}
	}

	return nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.Bytes(), err
}
