// SPDX-License-Identifier: MIT

package world

import (
	"errors"
	"fmt"
)

// ErrInvalidWorld indicates a world that breaks an identity or bounds invariant.
// Usage: if errors.Is(err, ErrInvalidWorld) { /* rebuild from config */ }.
var ErrInvalidWorld = errors.New("world: invalid world")

// worldErrorf prefixes a formatted message with the method name and wraps
// ErrInvalidWorld.
func worldErrorf(method, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), ErrInvalidWorld)
}
