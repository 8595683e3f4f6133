// SPDX-License-Identifier: MIT

package gate

import "errors"

// ErrExhaustedRetries indicates an instance that failed every attempt.
var ErrExhaustedRetries = errors.New("gate: retries exhausted")
