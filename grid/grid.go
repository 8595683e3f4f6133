package grid

import (
	"fmt"
	"time"

	"github.com/katalvlaran/mpcbench/core"
)

// Step is the grid resolution shared by generator and oracle.
const Step = 15 * time.Minute

// Generate enumerates every slot of the given duration on the Step grid
// anchored at w.Start whose [start, start+duration) lies inside w.
//
// Steps:
//  1. Validate window and duration.
//  2. Walk start = w.Start, w.Start+Step, ... while start+duration ≤ w.End.
//  3. Assign Index in walk order; ID from the start time.
//
// Complexity: O(W/Step) time and memory.
func Generate(w core.Window, duration time.Duration) ([]core.Slot, error) {
	if !w.End.After(w.Start) {
		return nil, fmt.Errorf("Generate(%s..%s): %w", w.Start, w.End, ErrInvalidWindow)
	}
	if duration <= 0 || duration%Step != 0 {
		return nil, fmt.Errorf("Generate(duration=%s): %w", duration, ErrInvalidDuration)
	}
	if w.Duration() < duration {
		return nil, fmt.Errorf("Generate(window=%s, duration=%s): %w", w.Duration(), duration, ErrWindowTooShort)
	}

	n := int((w.Duration()-duration)/Step) + 1
	slots := make([]core.Slot, 0, n)
	for i := 0; i < n; i++ {
		start := w.Start.Add(time.Duration(i) * Step)
		slots = append(slots, core.Slot{
			ID:    core.SlotID(start),
			Start: start,
			End:   start.Add(duration),
			Index: i,
		})
	}
	return slots, nil
}

// Aligned reports whether every slot starts and ends on the grid anchored at
// w.Start and lies inside w.
// Complexity: O(n).
func Aligned(slots []core.Slot, w core.Window) bool {
	for _, s := range slots {
		if s.Start.Sub(w.Start)%Step != 0 || s.End.Sub(w.Start)%Step != 0 {
			return false
		}
		if !w.Contains(s.Start, s.End) || !s.End.After(s.Start) {
			return false
		}
	}
	return true
}

// Unique reports whether no two slots share the same start and end.
// Complexity: O(n).
func Unique(slots []core.Slot) bool {
	type key struct{ s, e int64 }
	seen := make(map[key]struct{}, len(slots))
	for _, s := range slots {
		k := key{s.Start.UnixNano(), s.End.UnixNano()}
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

// Cells splits [start, end) into Step-sized cells. A trailing remainder
// shorter than Step is dropped.
// Complexity: O((end-start)/Step).
func Cells(start, end time.Time) []core.Window {
	var out []core.Window
	for c := start; !c.Add(Step).After(end); c = c.Add(Step) {
		out = append(out, core.Window{Start: c, End: c.Add(Step)})
	}
	return out
}

// Index maps slot ids to their position in slots.
func Index(slots []core.Slot) map[string]int {
	m := make(map[string]int, len(slots))
	for i, s := range slots {
		m[s.ID] = i
	}
	return m
}
