// Package validation contains request-level validation for the HTTP API.
// The ledger guards itself against invalid calls regardless; this package
// exists so callers get a 400 with field-level detail instead of a silent
// no-op.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// tickerPattern matches PSX-style symbols: letters and digits, up to 12
// characters. Case is irrelevant because tickers are normalized upstream.
var tickerPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,12}$`)

// Error is a validation failure keyed by field name.
type Error struct {
	Fields map[string]string
}

// Error renders the field errors in a stable order.
func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// ValidateTicker checks a ticker symbol for shape. Empty and oversized
// symbols are rejected before they reach the ledger.
func ValidateTicker(ticker string) error {
	if !tickerPattern.MatchString(strings.TrimSpace(ticker)) {
		return &Error{Fields: map[string]string{"ticker": "must be 1-12 alphanumeric characters"}}
	}
	return nil
}
