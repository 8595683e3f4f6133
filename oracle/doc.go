// Package oracle recomputes the gold answer of an instance from its tags
// alone and checks the instance invariants against it.
//
// What:
//
//   - Run(world, task, sources) resolves the task, regenerates the grid,
//     filters it through every compiled rule, joins rooms at level 3,
//     sorts, and returns the top-N as a Label.
//   - Verify(world, instance, label) re-runs the oracle and checks canonical
//     survival, distractor elimination, minimum feasibility, sort order,
//     grid alignment and candidate-universe identity.
//
// Why:
//
//   - The oracle never reads prose, assignments or the canonical set. Gold
//     depends only on structured tags, so it is reproducible from the
//     artifacts a solver sees.
//
// Ordering:
//
//   - Sort keys come from the task_spec tag at level 3 ("start", "end",
//     "room_id"); otherwise start then room id. Generation index breaks the
//     remaining ties. Canonical slots get no special rank: every feasible
//     candidate competes for the top-N.
//
// Complexity:
//
//   - Time:  O(C·R + M·B + P log P) for C candidates, R rules, M rooms,
//     B bookings and P (slot, room) pairs.
//   - Space: O(C + P).
//
// Errors:
//
//   - ErrInsufficientCandidates: fewer than N feasible candidates.
//   - ErrTaskSpec: level 3 sources carry no single usable task_spec tag.
//   - ErrInvalidTask: the resolved task lacks participants, duration or N.
//   - ErrUnknownSortKey: a task_spec sort key is not recognised.
//   - ErrInvariant: Verify found a violated property.
package oracle
