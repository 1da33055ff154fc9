// Package xcall implements the x-callback-url plumbing between bearmcp and
// the Bear app.
//
// Bear exposes its automation surface as a custom URL scheme:
//
//	bear://x-callback-url/<action>?key=value&...
//
// Outbound, this package builds those URLs from insertion-ordered parameter
// lists and hands them to the OS URL dispatcher (`open` on macOS) as a
// subprocess. Bear treats any app that opens such a URL as the caller.
//
// Inbound, data-returning actions are handled by a Receiver: a short-lived
// loopback HTTP listener whose address is passed to Bear as the x-success
// parameter. Bear performs the action and then issues a GET against that
// address with the result encoded as query parameters. The Receiver decodes
// exactly one such callback (per-field rules: JSON arrays, comma lists,
// yes/no booleans) and shuts down, bounded by a timeout.
//
// Nothing here is Bear-specific beyond the scheme constant and the decode
// rule table; the state machine is idle → listening → responded | timed out,
// one receiver per invocation, never reused.
package xcall
