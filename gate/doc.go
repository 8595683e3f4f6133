// Package gate runs one instance through the bounded discard/resample loop.
//
// What:
//
//   - Gate.Run(ctx, id, seed) drives an explicit state machine:
//
//     Generating → Validating → Accepted
//     Generating | Validating → Retrying → Generating (attempt < MaxAttempts)
//     Retrying → Failed (attempts exhausted or ctx done)
//     any → Failed (fatal error)
//
//   - Attempt k (1-based) draws from core.DeriveSeed(seed, k−1), so an
//     accepted instance is reproducible from its seed and attempt number.
//   - Generate and Check adapt the allocator, materializer and oracle to
//     the Generator and Checker hooks.
//
// Retries:
//
//   - Construction failures, too few feasible candidates, dropped tags and
//     violated invariants discard the attempt.
//   - Everything else (configuration errors, unknown people) is fatal.
//
// Errors:
//
//   - ErrExhaustedRetries: MaxAttempts attempts were discarded. It wraps
//     the last cause.
package gate
