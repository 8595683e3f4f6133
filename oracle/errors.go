// SPDX-License-Identifier: MIT

package oracle

import "errors"

var (
	// ErrInsufficientCandidates indicates fewer than N feasible candidates.
	// The quality gate discards the attempt and resamples.
	ErrInsufficientCandidates = errors.New("oracle: insufficient feasible candidates")

	// ErrTaskSpec indicates a level-3 instance without exactly one task_spec.
	ErrTaskSpec = errors.New("oracle: missing or ambiguous task_spec")

	// ErrInvalidTask indicates a task that cannot be solved as stated.
	ErrInvalidTask = errors.New("oracle: invalid task")

	// ErrUnknownSortKey indicates a sort key outside start, end, room_id.
	ErrUnknownSortKey = errors.New("oracle: unknown sort key")

	// ErrInvariant indicates a generated instance that violates a property
	// its label must satisfy.
	ErrInvariant = errors.New("oracle: invariant violated")
)
