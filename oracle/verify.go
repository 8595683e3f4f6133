package oracle

import (
	"errors"
	"fmt"
	"slices"

	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/grid"
)

// Verify re-runs the oracle on inst and checks every property its label
// must satisfy:
//
//   - candidate-universe identity: inst.Candidates equals the regenerated grid;
//   - grid alignment: candidates are unique and aligned to the window start;
//   - canonical survival: each canonical slot passes every rule;
//   - distractor elimination: no distractor passes;
//   - minimum feasibility: at least N candidates remain (Solve enforces it);
//   - sort correctness: label gold equals the recomputed gold, ranked 1..N;
//     under DefaultSort gold starts never decrease and rooms ascend within
//     a start.
//
// A sort list in a level-3 task_spec takes precedence over DefaultSort, so
// its gold is checked against the recomputation only.
//
// All violations are reported together; each matches ErrInvariant.
// Complexity: O(Solve + C).
func Verify(w *core.World, inst *core.Instance, label *core.Label) error {
	const method = "Verify"
	res, err := Solve(w, inst.Task, &inst.Sources)
	if err != nil {
		return fmt.Errorf("%s(%s): %w", method, inst.ID, err)
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvariant))
	}

	if !slices.Equal(ids(res.Candidates), ids(inst.Candidates)) {
		fail("candidate universe differs from the regenerated grid")
	}
	if !grid.Aligned(inst.Candidates, inst.Task.Window) || !grid.Unique(inst.Candidates) {
		fail("candidates not unique and grid-aligned")
	}

	index := grid.Index(res.Candidates)
	for _, id := range inst.Canonical {
		i, ok := index[id]
		if !ok || !res.Set.Admits(res.Candidates[i]) {
			fail("canonical %s eliminated", id)
		}
	}
	for _, id := range inst.Distractors {
		i, ok := index[id]
		if !ok {
			fail("distractor %s outside the candidate universe", id)
			continue
		}
		if res.Set.Admits(res.Candidates[i]) {
			fail("distractor %s survives", id)
		}
	}

	if label == nil {
		fail("no label")
	} else {
		if !sameGold(label.Gold, res.Label.Gold) {
			fail("gold differs from the recomputed top-%d", res.Task.N)
		}
		if slices.Equal(res.Task.Sort, DefaultSort) {
			if i := unordered(label.Gold); i > 0 {
				fail("gold rank %d not ordered by start then room", i+1)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s(%s): %w", method, inst.ID, errors.Join(errs...))
	}
	return nil
}

func ids(slots []core.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.ID
	}
	return out
}

// unordered returns the first index whose candidate sorts before its
// predecessor under DefaultSort, or 0.
func unordered(gold []core.Candidate) int {
	for i := 1; i < len(gold); i++ {
		prev, cur := gold[i-1], gold[i]
		switch c := cur.Start.Compare(prev.Start); {
		case c < 0:
			return i
		case c == 0 && cur.RoomID <= prev.RoomID:
			return i
		}
	}
	return 0
}

func sameGold(a, b []core.Candidate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].SlotID != b[i].SlotID || a[i].RoomID != b[i].RoomID || a[i].Rank != i+1 ||
			!a[i].Start.Equal(b[i].Start) || !a[i].End.Equal(b[i].End) {
			return false
		}
	}
	return true
}
