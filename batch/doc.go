// Package batch generates many instances of one level in parallel.
//
// What:
//
//   - Run(ctx, g, req, opts...) derives one seed per instance index from
//     req.Seed, drives the quality gate for every index on a bounded pool of
//     workers and returns a Report with accepted pairs in index order.
//   - Report.DiscardRate summarizes how many attempts the gate threw away.
//
// Why:
//
//   - Instances share only the read-only World and each gets its own RNG,
//     so they can run concurrently. Results land in per-index slots, which
//     makes the output identical for any worker count or schedule.
//
// A failed instance (retries exhausted, fatal config error) is recorded in
// Report.Failures and never aborts the batch; only ctx cancellation does.
//
// Errors:
//
//   - ErrInvalidRequest: Count < 1 or an invalid level.
//   - ctx.Err() when the batch was cancelled.
package batch
