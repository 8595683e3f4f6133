// Package materialize turns an allocation plan into the per-source
// artifacts of one instance and renders every entry.
//
// What:
//
//   - Materialize(ctx, cfg, world, plan, renderer, rng) returns an Instance
//     whose Sources hold calendars, the policy document, threads, mail,
//     documents and (level 3) room availability.
//
// Layout:
//
//   - One calendar per participant, plus noise calendars of people outside
//     the meeting.
//   - The policy document is the world skeleton of the chosen policy plus
//     the instance addendum. At level 1 it is JSON (tags without prose).
//   - Each thread, mail and document group gets its own artifact. Groups
//     without a distractor (task_spec, required window) go to the task
//     thread. Every artifact receives noise messages.
//   - Room availability is the world baseline plus the instance bookings.
//   - A Link becomes a reference entry in the artifact of its origin naming
//     the target artifact as "<source>:<id>".
//
// Rendering:
//
//   - Complete tags use the group's seed template, fragments use the
//     fragment template. Every rendered entry is checked with render.Verify;
//     a dropped tag fails the attempt with render.ErrTagDropped.
//
// Errors:
//
//   - ErrDanglingLink: a link names a group that was not materialized.
//   - ErrUnknownSource: a group names a source the level cannot hold.
//   - config.ErrInvalid: a seed template is missing.
package materialize
