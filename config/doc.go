// Package config holds the immutable configuration value threaded through
// world building, generation, rendering and batching.
//
// What:
//
//   - Config: world roster and rooms, policy skeletons, per-level generation
//     profiles, seed templates, renderer, batch and logging settings.
//   - Default(): the complete built-in profile.
//   - Load(path) / Parse(data): strict YAML decoding (unknown keys rejected)
//     followed by Validate.
//
// Contract:
//
//   - A Config is never mutated after it is returned. Callers pass it by
//     pointer for size, not for mutation.
//   - Missing or inconsistent entries are reported as *Error values that
//     match ErrInvalid. Nothing is silently defaulted once a file is loaded.
//   - Seed templates are looked up with Seed / PickSeed; an absent name is a
//     configuration error, not an empty string.
//
// Errors:
//
//   - ErrInvalid: any configuration problem (fatal, never retried).
package config
