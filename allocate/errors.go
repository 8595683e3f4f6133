// SPDX-License-Identifier: MIT

package allocate

import (
	"fmt"

	"github.com/katalvlaran/mpcbench/constraint"
)

// ErrConstruction indicates an attempt that could not place a valid
// canonical/distractor layout. It matches constraint.ErrConstruction too.
var ErrConstruction = fmt.Errorf("allocate: %w", constraint.ErrConstruction)

// constructionf wraps ErrConstruction with method context.
func constructionf(method, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), ErrConstruction)
}
