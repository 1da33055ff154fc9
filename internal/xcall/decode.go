package xcall

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Result is the decoded payload of one callback request. Values are strings,
// booleans, or lists depending on the field's decode rule.
type Result map[string]any

// DecodeError reports a callback whose query string could not be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode callback parameters: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type fieldKind int

const (
	kindString fieldKind = iota // pass through as-is (default)
	kindJSONList                // JSON-encoded array, raw string on parse failure
	kindCommaList               // JSON array if it parses, else comma-separated
	kindYesBool                 // true iff the literal "yes"
)

// decodeRules maps Bear callback fields with a non-string convention to
// their decoder. Everything not listed passes through as a plain string.
// Kept as a table rather than inline branches so the rule set is
// independently testable.
var decodeRules = map[string]fieldKind{
	"notes":      kindJSONList,
	"tags":       kindCommaList,
	"is_trashed": kindYesBool,
}

// DecodeQuery parses a raw callback query string into a Result.
func DecodeQuery(rawQuery string) (Result, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return DecodeValues(values), nil
}

// DecodeValues applies the per-field decode rules. Bear sends each field at
// most once; if a field repeats, the first value wins.
func DecodeValues(values url.Values) Result {
	result := make(Result, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		result[key] = decodeField(key, vals[0])
	}
	return result
}

func decodeField(key, raw string) any {
	switch decodeRules[key] {
	case kindJSONList:
		if list, ok := parseJSONList(raw); ok {
			return list
		}
		return raw

	case kindCommaList:
		if list, ok := parseJSONList(raw); ok {
			return list
		}
		return splitCommaList(raw)

	case kindYesBool:
		return raw == "yes"

	default:
		return raw
	}
}

func parseJSONList(raw string) ([]any, bool) {
	var list []any
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, false
	}
	if list == nil {
		// JSON "null" unmarshals without error but is not a list
		return nil, false
	}
	return list, true
}

func splitCommaList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}
