// Package bear maps tool invocations onto Bear's x-callback-url actions.
//
// The package is purely translational. A Client turns one invocation into
// one outbound URL; the catalog in catalog.go enumerates the tools and the
// per-tool parameter tables that drive the translation. No state survives a
// call except the ambient API token resolved at startup.
package bear

import (
	"context"
	"time"

	"bearmcp/internal/config"
	"bearmcp/internal/logging"
	"bearmcp/internal/xcall"
)

// urlOpener is the slice of xcall.Dispatcher the client needs. Tests
// substitute a fake so no subprocess is ever spawned.
type urlOpener interface {
	Open(ctx context.Context, action, rawURL string) error
}

// Client executes Bear actions through the OS URL dispatcher.
type Client struct {
	dispatcher urlOpener
	logger     *logging.AppLogger
	token      string // ambient token, may be empty
	timeout    time.Duration
}

// NewClient builds a client from the loaded config and the ambient token
// (resolved once at startup; empty when none is configured).
func NewClient(cfg *config.Config, ambientToken string, logger *logging.AppLogger) *Client {
	return &Client{
		dispatcher: xcall.NewDispatcher(cfg.OpenCommand, logger),
		logger:     logger,
		token:      ambientToken,
		timeout:    cfg.CallbackTimeout(),
	}
}

// AmbientToken returns the token resolved at startup, or "".
func (c *Client) AmbientToken() string {
	return c.token
}

// Notify dispatches a fire-and-forget action. The only confirmation is that
// the OS accepted the open request; Bear's scheme offers nothing stronger
// without requesting a callback.
func (c *Client) Notify(ctx context.Context, action string, params *xcall.Params) error {
	return c.dispatcher.Open(ctx, action, xcall.BuildURL(action, params))
}

// Call dispatches a data-returning action and waits for Bear's callback.
func (c *Client) Call(ctx context.Context, action string, params *xcall.Params) (xcall.Result, error) {
	receiver, err := xcall.NewReceiver(c.timeout)
	if err != nil {
		return nil, err
	}

	// The callback address must be in the URL before it is dispatched,
	// otherwise Bear has nowhere to respond.
	if params == nil {
		params = xcall.NewParams()
	}
	params.Set("x-success", receiver.Addr())

	if err := c.dispatcher.Open(ctx, action, xcall.BuildURL(action, params)); err != nil {
		receiver.Close()
		return nil, err
	}

	return receiver.Wait(ctx)
}
