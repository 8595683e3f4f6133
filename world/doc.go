// Package world builds the immutable World fixture of a difficulty level.
//
// What:
//
//   - Build(cfg, level, opts...) materializes the configured roster into
//     people with stable ids (person_001...), the policy skeletons into
//     tagged rules, and at level 3 the rooms table (room_001...) together
//     with randomly drawn baseline bookings.
//   - Validate(w) checks the identity invariants later joins rely on.
//
// Why:
//
//   - A world is the fixed canonical universe every instance of a level is
//     generated against. Building it is pure: the same config, level and
//     seed produce an identical World.
//
// Options:
//
//   - WithSeed / WithRand: RNG for baseline room bookings (default seed 1).
//   - WithID: world id (default "world_level<N>").
//
// Errors:
//
//   - core.ErrInvalidLevel: unknown level.
//   - ErrInvalidWorld: a world fails Validate (duplicate ids or names,
//     bookings on unknown rooms, empty bounds).
package world
