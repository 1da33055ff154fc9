package xcall

import (
	"net/url"
	"strings"
)

// Scheme is Bear's custom URL scheme.
const Scheme = "bear"

// callbackHost is the well-known host component of x-callback-url schemes.
const callbackHost = "x-callback-url"

type pair struct {
	key   string
	value string
}

// Params is an insertion-ordered list of query parameters. Unlike url.Values
// it preserves the order keys were added in, which keeps built URLs stable
// and readable in logs. Absent parameters are simply never added.
type Params struct {
	pairs []pair
}

// NewParams returns an empty parameter list.
func NewParams() *Params {
	return &Params{}
}

// Set appends a string parameter. Callers add each key at most once.
func (p *Params) Set(key, value string) {
	p.pairs = append(p.pairs, pair{key: key, value: value})
}

// SetBool appends a boolean-flag parameter. Bear's scheme has no explicit
// "no" encoding: true is the literal "yes", false is the key being absent.
func (p *Params) SetBool(key string, v bool) {
	if v {
		p.pairs = append(p.pairs, pair{key: key, value: "yes"})
	}
}

// Len reports the number of parameters added so far.
func (p *Params) Len() int {
	return len(p.pairs)
}

// Encode renders the parameters as a percent-encoded query string in
// insertion order.
func (p *Params) Encode() string {
	var b strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.value))
	}
	return b.String()
}

// BuildURL assembles the action URL Bear expects:
// bear://x-callback-url/<action>?<encoded params>.
func BuildURL(action string, params *Params) string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString("://")
	b.WriteString(callbackHost)
	b.WriteByte('/')
	b.WriteString(action)
	if params != nil && params.Len() > 0 {
		b.WriteByte('?')
		b.WriteString(params.Encode())
	}
	return b.String()
}
