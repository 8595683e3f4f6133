// Package allocate plans one instance: the task, the candidate universe,
// the canonical set, the distractors and the constraints that eliminate
// them at the requested difficulty.
//
// What:
//
//   - Allocate(cfg, world, rng, opts...) returns a Plan. The plan is
//     purely structural: tags grouped per constraint, the source each group
//     belongs to, and reference links between groups. Rendering and artifact
//     ids are left to the materializer.
//
// Algorithm:
//
//  1. Draw the task: participants, duration, N, policy and a window that
//     opens at a drawn hour on a drawn day and spans whole days.
//  2. Generate candidates on the 15-minute grid.
//  3. Base feasibility: the policy skeleton (and at level 3 the baseline
//     room bookings and at least one eligible room).
//  4. Draw the canonical set from base-feasible slots, spaced by one grid
//     step plus the policy buffer.
//  5. Draw calendar distractors plus min_required_source−1 source
//     distractors with the same spacing, on the canonical slots' dates.
//  6. Choose the non-calendar sources without replacement; assign one
//     distractor each and eliminate it through the source's template,
//     fragmented into fragmentation_depth parts. A rejected template is
//     retried with the next template of the source, then with a redrawn
//     distractor on a canonical date.
//  7. Calendar distractors get an exact busy interval of one participant.
//  8. Calendar cover: every other base-feasible slot gets busy time where
//     possible, so only the protected slots remain for the sources to
//     decide between.
//  9. indirection_depth ≥ 2: a required window on the task thread when all
//     protected slots share a date, and a reference link from the task
//     thread; ≥ 3: links chained through the sources.
//
// Every new constraint passes constraint.Set.Admit: it eliminates its
// target and never touches the canonical set or another distractor, which
// keeps min_required_source meaningful.
//
// Errors:
//
//   - ErrConstruction: no canonical set, too few distractors, or a
//     distractor no template could eliminate. The gate retries with a new
//     seed.
//   - config.ErrInvalid: missing level profile or an inconsistent
//     difficulty override.
package allocate
