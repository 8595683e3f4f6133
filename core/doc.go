// Package core defines the shared data model of mpcbench: worlds, people,
// rooms, candidate slots, machine-readable constraint tags, per-source
// artifacts, instances and oracle labels.
//
// What:
//
//   - World: immutable fixture per difficulty level (people, policy skeletons,
//     rooms and their baseline bookings, global time bounds, timezone).
//   - Slot: a fixed-length interval on the 15-minute grid, identified by its
//     start and ordered by its generation index.
//   - Tag: the closed, versioned key/value payload that every constraint entry
//     carries. Tags are authoritative; rendered prose only embeds them.
//   - Sources: the per-instance artifacts (calendar, policy, threads, mail,
//     documents, room availability) made of tagged Entries.
//   - Instance / Label: one generated puzzle and its deterministic gold answer.
//
// Why:
//
//   - Every other package (grid, constraint, allocate, materialize, oracle,
//     gate, store, score) speaks these types, so they live in one leaf package
//     with no third-party imports.
//
// Time:
//
//   - All wall-clock reasoning happens in the World location, a fixed UTC
//     offset (see World.Location). Dates are "2006-01-02", clock times "15:04".
//   - Weekdays use the Monday=0 convention (see Weekday).
//   - Intervals are half-open: [start, end).
//
// Randomness:
//
//   - NewRand and DeriveSeed are the only RNG factories. Generation code never
//     reads time-based or global sources.
//
// Errors:
//
//   - ErrInvalidLevel: level outside 1..3.
//   - ErrInvalidClock / ErrInvalidDate: malformed "15:04" / "2006-01-02" text.
//   - ErrMalformedTag: an embedded <tag> token could not be decoded.
//   - ErrUnknownPerson / ErrUnknownPolicy / ErrUnknownRoom: failed world lookups.
package core
