package oracle

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/katalvlaran/mpcbench/constraint"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/grid"
)

// Sort keys accepted in a task_spec tag.
const (
	KeyStart  = "start"
	KeyEnd    = "end"
	KeyRoomID = "room_id"
)

// DefaultSort orders by start, then room id.
var DefaultSort = []string{KeyStart, KeyRoomID}

// Option customizes Run and Solve.
type Option func(*options)

type options struct {
	lenient bool
}

// Lenient compiles with constraint.Lenient: fragments that cannot be
// completed eliminate nothing. Inspection mode for partial readers.
func Lenient() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// Resolved is the task the oracle actually solves.
type Resolved struct {
	Participants []string
	Duration     time.Duration
	N            int
	Capacity     int
	Sort         []string
}

// Result is one oracle run together with the intermediates Verify needs.
type Result struct {
	Label      core.Label
	Task       Resolved
	Candidates []core.Slot
	Set        *constraint.Set
}

// pair is one (slot, room) answer; room is empty below level 3.
type pair struct {
	slot core.Slot
	room string
}

// Run returns the gold label of task over src. Label.InstanceID is left
// for the caller.
func Run(w *core.World, task core.Task, src *core.Sources, opts ...Option) (*core.Label, error) {
	res, err := Solve(w, task, src, opts...)
	if err != nil {
		return nil, err
	}
	return &res.Label, nil
}

// RunInstance runs the oracle over an instance's task and sources.
func RunInstance(w *core.World, inst *core.Instance, opts ...Option) (*core.Label, error) {
	label, err := Run(w, inst.Task, &inst.Sources, opts...)
	if err != nil {
		return nil, fmt.Errorf("RunInstance(%s): %w", inst.ID, err)
	}
	label.InstanceID = inst.ID
	return label, nil
}

// Solve runs the oracle pipeline.
//
// Steps (in order):
//  1. Compile every tag of src (fragment groups as conjunctions).
//  2. Resolve the task; at level 3 from the task_spec tag, mapping display
//     names to person ids through the people table.
//  3. Regenerate the candidate grid over the task window.
//  4. Filter by every slot-level and participant rule.
//  5. Level 3: join each survivor with the eligible rooms free over it.
//  6. Sort by the task's keys, generation index last.
//  7. Take the top-N; fewer is ErrInsufficientCandidates.
//
// Complexity: see package doc.
func Solve(w *core.World, task core.Task, src *core.Sources, opts ...Option) (*Result, error) {
	const method = "Solve"
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// 1) Compile.
	var copts []constraint.CompileOption
	if o.lenient {
		copts = append(copts, constraint.Lenient())
	}
	rules, err := constraint.Compile(src.TaggedEntries(), w.Location(), copts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	// 2) Resolve.
	rt, err := resolve(w, task, rules)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	// 3) Candidates.
	cands, err := grid.Generate(task.Window, rt.Duration)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	// 4) Filter.
	var sopts []constraint.SetOption
	if w.Level.HasRooms() {
		sopts = append(sopts, constraint.WithRooms(w.Rooms, rt.Capacity))
	}
	set := constraint.NewSet(rt.Participants, sopts...)
	set.Add(rules...)
	feasible := set.Filter(cands)

	// 5) Room join.
	pairs := make([]pair, 0, len(feasible))
	for _, s := range feasible {
		if !set.HasRooms() {
			pairs = append(pairs, pair{slot: s})
			continue
		}
		for _, r := range set.Rooms(s) {
			pairs = append(pairs, pair{slot: s, room: r.ID})
		}
	}

	// 6) Sort.
	slices.SortStableFunc(pairs, compare(rt.Sort))

	res := &Result{
		Task:       rt,
		Candidates: cands,
		Set:        set,
		Label: core.Label{
			Level: w.Level,
			Meta: core.Meta{
				Generated:        len(cands),
				AfterConstraints: len(feasible),
				N:                rt.N,
			},
		},
	}
	if set.HasRooms() {
		res.Label.Meta.AfterRoomJoin = len(pairs)
	}

	// 7) Top-N.
	if len(pairs) < rt.N {
		return nil, fmt.Errorf("%s: %d feasible of %d required: %w", method, len(pairs), rt.N, ErrInsufficientCandidates)
	}
	res.Label.Gold = make([]core.Candidate, rt.N)
	for i, p := range pairs[:rt.N] {
		res.Label.Gold[i] = core.Candidate{
			SlotID: p.slot.ID,
			Start:  p.slot.Start,
			End:    p.slot.End,
			RoomID: p.room,
			Rank:   i + 1,
		}
	}
	res.Label.Explanation = explain(set, cands, rules)
	return res, nil
}

// resolve determines participants, duration, N, capacity and sort keys.
func resolve(w *core.World, task core.Task, rules []constraint.Rule) (Resolved, error) {
	const method = "resolve"
	if !w.Level.HasRooms() {
		rt := Resolved{
			Participants: task.Participants,
			Duration:     time.Duration(task.DurationMinutes) * time.Minute,
			N:            task.N,
			Capacity:     len(task.Participants),
			Sort:         DefaultSort,
		}
		return rt, rt.validate(method)
	}

	var spec *core.Tag
	for i := range rules {
		if rules[i].Tag.Rule != core.RuleTaskSpec {
			continue
		}
		if spec != nil {
			return Resolved{}, fmt.Errorf("%s: more than one task_spec: %w", method, ErrTaskSpec)
		}
		spec = &rules[i].Tag
	}
	if spec == nil {
		return Resolved{}, fmt.Errorf("%s: %w", method, ErrTaskSpec)
	}

	rt := Resolved{
		Participants: make([]string, 0, len(spec.Participants)),
		Duration:     time.Duration(spec.Minutes) * time.Minute,
		N:            spec.Count,
		Capacity:     spec.Capacity,
		Sort:         spec.Sort,
	}
	for _, name := range spec.Participants {
		p, err := w.PersonByName(name)
		if err != nil {
			return Resolved{}, fmt.Errorf("%s: %w", method, err)
		}
		rt.Participants = append(rt.Participants, p.ID)
	}
	if rt.Capacity <= 0 {
		rt.Capacity = len(rt.Participants)
	}
	if len(rt.Sort) == 0 {
		rt.Sort = DefaultSort
	}
	for _, k := range rt.Sort {
		if k != KeyStart && k != KeyEnd && k != KeyRoomID {
			return Resolved{}, fmt.Errorf("%s: %q: %w", method, k, ErrUnknownSortKey)
		}
	}
	return rt, rt.validate(method)
}

func (rt Resolved) validate(method string) error {
	switch {
	case len(rt.Participants) == 0:
		return fmt.Errorf("%s: no participants: %w", method, ErrInvalidTask)
	case rt.Duration <= 0:
		return fmt.Errorf("%s: duration %s: %w", method, rt.Duration, ErrInvalidTask)
	case rt.N < 1:
		return fmt.Errorf("%s: n %d: %w", method, rt.N, ErrInvalidTask)
	}
	return nil
}

// compare orders pairs by keys, then by generation index and room id.
func compare(keys []string) func(a, b pair) int {
	return func(a, b pair) int {
		for _, k := range keys {
			var c int
			switch k {
			case KeyStart:
				c = a.slot.Start.Compare(b.slot.Start)
			case KeyEnd:
				c = a.slot.End.Compare(b.slot.End)
			case KeyRoomID:
				c = strings.Compare(a.room, b.room)
			}
			if c != 0 {
				return c
			}
		}
		if c := cmp.Compare(a.slot.Index, b.slot.Index); c != 0 {
			return c
		}
		return strings.Compare(a.room, b.room)
	}
}

// explain collects the artifacts whose rules removed a candidate, plus the
// task_spec origin, ordered by source then key.
func explain(set *constraint.Set, cands []core.Slot, rules []constraint.Rule) []core.ExplanationKey {
	seen := make(map[core.ExplanationKey]struct{})
	add := func(r constraint.Rule) {
		for _, o := range r.Origins {
			seen[core.ExplanationKey{Source: o.Source, Key: o.Artifact}] = struct{}{}
		}
	}
	for _, r := range rules {
		if r.Tag.Rule == core.RuleTaskSpec {
			add(r)
		}
	}
	for _, s := range cands {
		if set.Admits(s) {
			continue
		}
		for _, r := range set.Explain(s) {
			add(r)
		}
	}
	out := make([]core.ExplanationKey, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b core.ExplanationKey) int {
		if c := cmp.Compare(slices.Index(core.AllSources, a.Source), slices.Index(core.AllSources, b.Source)); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return out
}
