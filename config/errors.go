// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
)

// ErrInvalid classifies every configuration problem. Configuration errors
// are fatal: the quality gate never retries them.
var ErrInvalid = errors.New("config: invalid configuration")

// Error names the offending entry. It matches ErrInvalid under errors.Is.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Unwrap exposes ErrInvalid to errors.Is.
func (e *Error) Unwrap() error {
	return ErrInvalid
}

// missing reports an absent entry.
func missing(field string) error {
	return &Error{Field: field, Reason: "missing entry"}
}

func invalidf(field, format string, args ...any) error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}
