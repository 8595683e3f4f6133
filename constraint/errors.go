// SPDX-License-Identifier: MIT

package constraint

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteRule indicates a tag that lacks a field its rule needs.
	ErrIncompleteRule = errors.New("constraint: incomplete rule")

	// ErrUnknownRule indicates a tag whose rule is not in the closed set.
	ErrUnknownRule = errors.New("constraint: unknown rule")

	// ErrIncompleteFragment indicates a fragment group with missing or
	// duplicate parts.
	// Usage: compile with Lenient() to drop such groups instead.
	ErrIncompleteFragment = errors.New("constraint: incomplete fragment group")

	// ErrFragmentConflict indicates parts of one group that disagree on a
	// field, rule or part count.
	ErrFragmentConflict = errors.New("constraint: conflicting fragments")

	// ErrConstruction indicates that a template could not eliminate its
	// targets without violating a kept slot. Recoverable: the allocator
	// picks another assignment, the gate another seed.
	ErrConstruction = errors.New("constraint: construction failed")
)

func constructionf(method, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), ErrConstruction)
}
