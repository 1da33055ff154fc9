package xcall

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// DefaultTimeout bounds how long a Receiver waits for Bear's callback.
const DefaultTimeout = 10 * time.Second

// closeWindowHTML answers the callback request. Bear opens the x-success URL
// in the default browser, so the page tries to close its own window.
// Best-effort: browsers may refuse to close windows they didn't open.
const closeWindowHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>bearmcp</title></head>
<body>
<script>window.close();</script>
<p>Done. You can close this window.</p>
</body>
</html>
`

// TimeoutError reports that no callback arrived within the wait bound.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no callback received within %s", e.Timeout)
}

// Receiver captures exactly one asynchronous callback from Bear. Each
// callback-bearing invocation gets its own Receiver on its own ephemeral
// port; instances are never shared or reused.
type Receiver struct {
	ln      net.Listener
	srv     *http.Server
	timeout time.Duration

	results chan Result
	errs    chan error

	closeOnce sync.Once
	closeErr  error
}

// NewReceiver binds a loopback listener on an OS-assigned port and starts
// serving. The caller must embed Addr() into the outbound URL before
// dispatching it, then consume the result with Wait.
func NewReceiver(timeout time.Duration) (*Receiver, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to bind callback listener: %w", err)
	}

	r := &Receiver{
		ln:      ln,
		timeout: timeout,
		results: make(chan Result, 1),
		errs:    make(chan error, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", r.handleCallback)
	r.srv = &http.Server{Handler: mux}

	go r.srv.Serve(ln) //nolint:errcheck // always ErrServerClosed after Close

	return r, nil
}

// Addr returns the callback address to pass to Bear as x-success.
func (r *Receiver) Addr() string {
	port := r.ln.Addr().(*net.TCPAddr).Port
	return fmt.Sprintf("http://localhost:%d/callback", port)
}

func (r *Receiver) handleCallback(w http.ResponseWriter, req *http.Request) {
	result, err := DecodeQuery(req.URL.RawQuery)

	// Answer the browser window first; this happens exactly once per request
	// whether or not decoding succeeded.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, closeWindowHTML)

	// Only the first callback counts. Late duplicates still get the
	// close-window page above but are otherwise dropped.
	if err != nil {
		select {
		case r.errs <- err:
		default:
		}
		return
	}

	select {
	case r.results <- result:
	default:
	}
}

// Wait blocks until the callback arrives, decoding fails, the timeout
// elapses, or ctx is cancelled — whichever happens first. The listener is
// closed on every exit path.
func (r *Receiver) Wait(ctx context.Context) (Result, error) {
	defer r.Close()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case result := <-r.results:
		return result, nil
	case err := <-r.errs:
		return nil, err
	case <-timer.C:
		return nil, &TimeoutError{Timeout: r.timeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts the listener down. Safe to call more than once; the underlying
// socket is closed exactly once.
func (r *Receiver) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.srv.Close()
	})
	return r.closeErr
}
