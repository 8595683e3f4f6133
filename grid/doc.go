// Package grid enumerates the candidate universe of an instance: every
// fixed-length meeting slot on a 15-minute grid inside a time window.
//
// What:
//
//   - Generate(window, duration) returns slots whose start and end are
//     multiples of Step from the window start and that lie fully inside the
//     window, in ascending start order. Slot.Index is the generation order.
//   - Cells splits an interval into Step-sized cells; the allocator uses them
//     to place calendar events that touch a slot without touching its
//     neighbours.
//
// Why:
//
//   - Generator and oracle must see the bit-identical universe. Both call
//     Generate with the same window and duration instead of sharing state.
//
// Complexity:
//
//   - Generate: O(W/Step) time and memory, W = window length.
//   - Aligned, Unique: O(n).
//
// Errors:
//
//   - ErrInvalidWindow: end is not after start.
//   - ErrInvalidDuration: duration ≤ 0 or not a multiple of Step.
//   - ErrWindowTooShort: the window cannot hold a single slot.
package grid
