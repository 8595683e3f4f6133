// SPDX-License-Identifier: MIT

package batch

import "errors"

// ErrInvalidRequest indicates a Request that cannot produce any instance.
var ErrInvalidRequest = errors.New("batch: invalid request")
