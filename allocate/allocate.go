package allocate

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/constraint"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/grid"
)

const (
	methodAllocate = "Allocate"

	// maxRedraws bounds the replacement distractors tried for one source.
	maxRedraws = 8
)

// DefaultSort is the level-3 tie-break carried by the task_spec tag.
var DefaultSort = []string{"start", "room_id"}

// allocator carries the state of one Allocate call.
type allocator struct {
	cfg   *config.Config
	w     *core.World
	lc    config.LevelConfig
	rng   *rand.Rand
	loc   *time.Location
	set   *constraint.Set
	plan  *Plan
	names []string
}

// Allocate plans one instance of w's level. All randomness comes from rng,
// so the same world, configuration and rng seed give an identical plan.
// Complexity: O(C·(R + K)) for C candidates, R rules and K protected slots.
func Allocate(cfg *config.Config, w *core.World, rng *rand.Rand, opts ...Option) (*Plan, error) {
	var ac allocConfig
	for _, opt := range opts {
		opt(&ac)
	}
	lc, err := cfg.Level(w.Level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodAllocate, err)
	}
	a := &allocator{
		cfg:  cfg,
		w:    w,
		lc:   lc,
		rng:  rng,
		loc:  w.Location(),
		plan: &Plan{Level: w.Level},
	}
	if a.plan.Difficulty, err = a.difficulty(ac); err != nil {
		return nil, err
	}
	if err = a.drawTask(ac); err != nil {
		return nil, err
	}
	duration := time.Duration(a.plan.Task.DurationMinutes) * time.Minute
	if a.plan.Candidates, err = grid.Generate(a.plan.Task.Window, duration); err != nil {
		return nil, fmt.Errorf("%s: %w", methodAllocate, err)
	}
	if err = a.baseSet(); err != nil {
		return nil, err
	}
	if err = a.drawProtected(); err != nil {
		return nil, err
	}
	if err = a.eliminateSources(); err != nil {
		return nil, err
	}
	if err = a.calendarDistractors(); err != nil {
		return nil, err
	}
	if err = a.cover(); err != nil {
		return nil, err
	}
	a.requiredWindow()
	a.link()
	if err = a.check(); err != nil {
		return nil, err
	}
	sortSlots(a.plan.Distractors)
	return a.plan, nil
}

// difficulty resolves the level profile and an optional override.
func (a *allocator) difficulty(ac allocConfig) (core.Difficulty, error) {
	d := core.Difficulty{
		Fragmentation:      a.lc.Difficulty.Fragmentation,
		Indirection:        a.lc.Difficulty.Indirection,
		MinRequiredSources: a.lc.Difficulty.MinRequiredSources,
		N:                  a.lc.NOptions[a.rng.Intn(len(a.lc.NOptions))],
	}
	if o := ac.difficulty; o != nil {
		d.Fragmentation, d.Indirection, d.MinRequiredSources = o.Fragmentation, o.Indirection, o.MinRequiredSources
		if o.N > 0 {
			d.N = o.N
		}
	}
	bad := func(reason string, args ...interface{}) error {
		return fmt.Errorf("%s: %w", methodAllocate, &config.Error{Field: "difficulty", Reason: fmt.Sprintf(reason, args...)})
	}
	switch {
	case d.Fragmentation < 1 || d.Fragmentation > 3:
		return d, bad("fragmentation_depth %d outside 1..3", d.Fragmentation)
	case d.Indirection < 1 || d.Indirection > 3:
		return d, bad("indirection_depth %d outside 1..3", d.Indirection)
	case d.Indirection == 1 && d.MinRequiredSources != 1:
		return d, bad("indirection_depth 1 requires min_required_source 1")
	case d.Indirection >= 2 && d.MinRequiredSources < d.Indirection:
		return d, bad("indirection_depth %d requires min_required_source >= %d", d.Indirection, d.Indirection)
	case d.MinRequiredSources-1 > len(a.w.Level.Sources()):
		return d, bad("%s offers %d non-calendar sources", a.w.Level, len(a.w.Level.Sources()))
	case d.N < 1:
		return d, bad("n %d < 1", d.N)
	}
	return d, nil
}

// drawTask draws participants, duration, policy and window.
func (a *allocator) drawTask(ac allocConfig) error {
	k := a.lc.Participants.Draw(a.rng)
	if k > len(a.w.People) {
		return fmt.Errorf("%s: %w", methodAllocate, &config.Error{Field: "participants", Reason: "more participants than people"})
	}
	perm := a.rng.Perm(len(a.w.People))[:k]
	sort.Ints(perm)
	ids := make([]string, k)
	a.names = make([]string, k)
	for i, p := range perm {
		ids[i] = a.w.People[p].ID
		a.names[i] = a.w.People[p].Name
	}
	duration := a.lc.DurationsMinutes[a.rng.Intn(len(a.lc.DurationsMinutes))]

	var policy core.Policy
	if ac.policyID != "" {
		var err error
		if policy, err = a.w.Policy(ac.policyID); err != nil {
			return fmt.Errorf("%s: %w", methodAllocate, err)
		}
	} else {
		policy = a.w.Policies[a.rng.Intn(len(a.w.Policies))]
	}

	worldDays := int(a.w.End.Sub(a.w.Start) / (24 * time.Hour))
	days := a.lc.WindowDays[a.rng.Intn(len(a.lc.WindowDays))]
	if days > worldDays {
		return fmt.Errorf("%s: %w", methodAllocate, &config.Error{Field: "window_days", Reason: "window longer than world"})
	}
	first := a.rng.Intn(worldDays - days + 1)
	startHour := a.lc.WindowStartHour.Draw(a.rng)
	hours := a.lc.WindowHours.Draw(a.rng)
	start := a.w.Start.AddDate(0, 0, first).Add(time.Duration(startHour) * time.Hour)
	end := a.w.Start.AddDate(0, 0, first+days-1).Add(time.Duration(startHour+hours) * time.Hour)

	a.plan.Task = core.Task{
		Window:          core.Window{Start: start, End: end},
		PolicyID:        policy.ID,
		Participants:    ids,
		DurationMinutes: duration,
		N:               a.plan.Difficulty.N,
	}
	if a.w.Level.HasRooms() {
		a.plan.Capacity = k
		a.plan.Sort = append([]string(nil), DefaultSort...)
		a.addGroup(Group{
			Name:   string(core.RuleTaskSpec),
			Source: core.SourceThread,
			Seed:   config.SeedTaskSpec,
			Tags: []core.Tag{{
				Version:      core.TagVersion,
				Kind:         core.KindThread,
				Rule:         core.RuleTaskSpec,
				Participants: append([]string(nil), a.names...),
				Minutes:      duration,
				Count:        a.plan.Difficulty.N,
				Capacity:     k,
				Sort:         append([]string(nil), DefaultSort...),
			}},
		})
	}
	return nil
}

// baseSet seeds the rule set with the policy skeleton and, at level 3, the
// rooms table and its baseline bookings.
func (a *allocator) baseSet() error {
	var opts []constraint.SetOption
	if a.w.Level.HasRooms() {
		opts = append(opts, constraint.WithRooms(a.w.Rooms, a.plan.Capacity))
	}
	a.set = constraint.NewSet(a.plan.Task.Participants, opts...)

	policy, err := a.w.Policy(a.plan.Task.PolicyID)
	if err != nil {
		return fmt.Errorf("%s: %w", methodAllocate, err)
	}
	for _, t := range policy.Rules {
		r, err := constraint.NewRule(t, a.loc)
		if err != nil {
			return fmt.Errorf("%s: policy %s: %w", methodAllocate, policy.ID, err)
		}
		a.set.Add(r)
	}
	if a.w.Level.HasRooms() {
		for _, ra := range a.w.RoomBookings {
			for _, e := range ra.Bookings {
				r, err := constraint.NewRule(*e.Tag, a.loc)
				if err != nil {
					return fmt.Errorf("%s: booking %s: %w", methodAllocate, e.ID, err)
				}
				a.set.Add(r)
			}
		}
	}
	return nil
}

// gap is the minimum distance between protected slots: one grid step plus
// the policy buffer rounded up to the grid.
func (a *allocator) gap() time.Duration {
	b := a.set.Buffer()
	if rem := b % grid.Step; rem != 0 {
		b += grid.Step - rem
	}
	return grid.Step + b
}

// draw picks up to count slots from the slots admitted by the current set,
// in random order, keeping the gap to protected and to each other. A non-nil
// dates restricts the draw to slots starting on one of those dates.
func (a *allocator) draw(count int, protected []core.Slot, dates map[string]struct{}) []core.Slot {
	gap := a.gap()
	spaced := func(s core.Slot, others []core.Slot) bool {
		for _, p := range others {
			if core.Overlaps(s.Start.Add(-gap), s.End.Add(gap), p.Start, p.End) {
				return false
			}
		}
		return true
	}
	var out []core.Slot
	for _, i := range a.rng.Perm(len(a.plan.Candidates)) {
		if len(out) == count {
			break
		}
		s := a.plan.Candidates[i]
		if dates != nil {
			if _, ok := dates[s.Date()]; !ok {
				continue
			}
		}
		if !a.set.Admits(s) || !spaced(s, protected) || !spaced(s, out) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// drawProtected draws the canonical set and all distractors.
func (a *allocator) drawProtected() error {
	const method = "drawProtected"
	count := a.lc.Canonical.Draw(a.rng)
	if !a.w.Level.HasRooms() {
		count = max(count, a.plan.Difficulty.N)
	}
	a.plan.Canonical = a.draw(count, nil, nil)
	if len(a.plan.Canonical) == 0 {
		return constructionf(method, "no base-feasible slot in %d candidates", len(a.plan.Candidates))
	}
	sortSlots(a.plan.Canonical)

	need := a.lc.CalendarDistractors + a.plan.Difficulty.MinRequiredSources - 1
	a.plan.Distractors = a.draw(need, a.plan.Canonical, a.canonicalDates())
	if len(a.plan.Distractors) < need {
		return constructionf(method, "%d of %d distractors placed", len(a.plan.Distractors), need)
	}
	return nil
}

// canonicalDates is the set of dates the canonical slots start on.
// Distractors are drawn on these dates only.
func (a *allocator) canonicalDates() map[string]struct{} {
	out := make(map[string]struct{}, len(a.plan.Canonical))
	for _, s := range a.plan.Canonical {
		out[s.Date()] = struct{}{}
	}
	return out
}

// protectedExcept returns canonical plus distractors without skip.
func (a *allocator) protectedExcept(skip string) []core.Slot {
	out := make([]core.Slot, 0, len(a.plan.Canonical)+len(a.plan.Distractors))
	out = append(out, a.plan.Canonical...)
	for _, d := range a.plan.Distractors {
		if d.ID != skip {
			out = append(out, d)
		}
	}
	return out
}

func (a *allocator) env(keep []core.Slot) constraint.Env {
	return constraint.Env{
		World:        a.w,
		Participants: a.plan.Task.Participants,
		Rooms:        a.set.Eligible(),
		Keep:         keep,
		Buffer:       a.set.Buffer(),
		Rand:         a.rng,
	}
}

// addGroup assigns the next group id and records g.
func (a *allocator) addGroup(g Group) Group {
	g.ID = a.nextID()
	if g.Fragments == 0 {
		g.Fragments = len(g.Tags)
	}
	a.plan.Groups = append(a.plan.Groups, g)
	return g
}

func (a *allocator) nextID() string {
	return fmt.Sprintf("c%02d", len(a.plan.Groups)+1)
}

// eliminateSources assigns one distractor to each chosen non-calendar
// source and eliminates it there.
func (a *allocator) eliminateSources() error {
	const method = "eliminateSources"
	k := a.plan.Difficulty.MinRequiredSources - 1
	if k == 0 {
		return nil
	}
	offered := a.w.Level.Sources()
	perm := a.rng.Perm(len(offered))[:k]
	first := a.lc.CalendarDistractors

	for i, p := range perm {
		src := offered[p]
		idx := first + i
		for redraw := 0; ; redraw++ {
			d := a.plan.Distractors[idx]
			err := a.eliminate(src, d)
			if err == nil {
				break
			}
			if !errors.Is(err, constraint.ErrConstruction) {
				return err
			}
			if redraw == maxRedraws {
				return constructionf(method, "%s: no template eliminates a distractor after %d redraws: %v", src, redraw, err)
			}
			repl := a.draw(1, a.protectedExcept(d.ID), a.canonicalDates())
			if len(repl) == 0 {
				return constructionf(method, "%s: no replacement for %s: %v", src, d.ID, err)
			}
			a.plan.Distractors[idx] = repl[0]
		}
	}
	return nil
}

// templates lists the templates that can eliminate d through src, in the
// order they are tried.
func (a *allocator) templates(src core.Source, d core.Slot) []constraint.Template {
	switch src {
	case core.SourcePolicy:
		return []constraint.Template{constraint.PolicyBan{}}
	case core.SourceRooms:
		return []constraint.Template{constraint.RoomBlock{}}
	}
	ban := constraint.ThreadBan{Source: src}
	latest := true
	for _, p := range a.protectedExcept(d.ID) {
		if !p.Start.Before(d.Start) {
			latest = false
			break
		}
	}
	if !latest {
		return []constraint.Template{ban}
	}
	deadline := constraint.ThreadDeadline{Source: src}
	if a.rng.Intn(2) == 0 {
		return []constraint.Template{deadline, ban}
	}
	return []constraint.Template{ban, deadline}
}

// eliminate builds, admits and records the constraint removing d via src.
func (a *allocator) eliminate(src core.Source, d core.Slot) error {
	const method = "eliminate"
	keep := a.protectedExcept(d.ID)
	var last error
	for _, tmpl := range a.templates(src, d) {
		c, err := tmpl.Build(a.env(keep), []core.Slot{d})
		if err != nil {
			last = err
			continue
		}
		c.ID = a.nextID()
		if err = a.set.Admit(c, []core.Slot{d}, keep); err != nil {
			last = err
			continue
		}
		tags, frags, err := a.fragment(c)
		if err != nil {
			return err
		}
		a.addGroup(Group{Name: c.Name, Source: c.Source, Seed: c.Seed, Distractor: d.ID, Fragments: frags, Tags: tags})
		return nil
	}
	if last == nil {
		last = constructionf(method, "no template for %s", src)
	}
	return fmt.Errorf("%s(%s, %s): %w", method, src, d.ID, last)
}

// fragment splits the tags of c at the plan's fragmentation depth. Room
// blocks are already spread over one booking per eligible room and stay
// whole.
func (a *allocator) fragment(c constraint.Constraint) ([]core.Tag, int, error) {
	tags := c.Tags()
	if c.Source == core.SourceRooms || a.plan.Difficulty.Fragmentation <= 1 {
		return tags, len(tags), nil
	}
	var out []core.Tag
	for i, t := range tags {
		parts, err := constraint.Fragment(t, a.plan.Difficulty.Fragmentation, fmt.Sprintf("%s_%d", c.ID, i+1))
		if err != nil {
			return nil, 0, fmt.Errorf("fragment(%s): %w", c.ID, err)
		}
		out = append(out, parts...)
	}
	return out, len(out), nil
}

// calendarDistractors blocks each calendar distractor with an exact busy
// interval.
func (a *allocator) calendarDistractors() error {
	const method = "calendarDistractors"
	for _, d := range a.plan.Distractors[:a.lc.CalendarDistractors] {
		keep := a.protectedExcept(d.ID)
		c, err := constraint.CalendarBusy{}.Build(a.env(keep), []core.Slot{d})
		if err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
		c.ID = a.nextID()
		if err = a.set.Admit(c, []core.Slot{d}, keep); err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
		a.addGroup(Group{Name: c.Name, Source: c.Source, Seed: c.Seed, Distractor: d.ID, Tags: c.Tags()})
	}
	return nil
}

// cover spends calendar busy time on every unprotected slot still open.
func (a *allocator) cover() error {
	const method = "cover"
	protected := a.protectedExcept("")
	isProtected := make(map[string]struct{}, len(protected))
	for _, p := range protected {
		isProtected[p.ID] = struct{}{}
	}
	var targets []core.Slot
	for _, s := range a.plan.Candidates {
		if _, ok := isProtected[s.ID]; ok || !a.set.Admits(s) {
			continue
		}
		targets = append(targets, s)
	}
	if len(targets) == 0 {
		return nil
	}
	c, err := constraint.CalendarCover{}.Build(a.env(protected), targets)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if len(c.Rules) == 0 {
		return nil
	}
	c.ID = a.nextID()
	if err = a.set.Admit(c, nil, protected); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	a.addGroup(Group{Name: c.Name, Source: c.Source, Seed: c.Seed, Tags: c.Tags()})
	return nil
}

// requiredWindow adds a range hint to the task thread when the protected
// slots share a date. It is optional: a rejected window is skipped.
func (a *allocator) requiredWindow() {
	if a.plan.Difficulty.Indirection < 2 {
		return
	}
	protected := a.protectedExcept("")
	c, err := constraint.RequiredWindow{}.Build(a.env(protected), nil)
	if err != nil {
		return
	}
	c.ID = a.nextID()
	if err = a.set.Admit(c, nil, protected); err != nil {
		return
	}
	a.addGroup(Group{Name: c.Name, Source: c.Source, Seed: c.Seed, Tags: c.Tags()})
}

// link adds the reference trail: from the task thread to the first source
// group at indirection 2, chained through every source group from 3 on.
// Rooms come last because a bookings table holds no outgoing reference.
func (a *allocator) link() {
	if a.plan.Difficulty.Indirection < 2 {
		return
	}
	var chain []string
	var rooms []string
	for _, g := range a.plan.Groups {
		if g.Distractor == "" || g.Source == core.SourceCalendar {
			continue
		}
		if g.Source == core.SourceRooms {
			rooms = append(rooms, g.ID)
			continue
		}
		chain = append(chain, g.ID)
	}
	chain = append(chain, rooms...)
	if len(chain) == 0 {
		return
	}
	a.plan.Links = append(a.plan.Links, Link{From: TaskThread, To: chain[0]})
	if a.plan.Difficulty.Indirection < 3 {
		return
	}
	for i := 1; i < len(chain); i++ {
		a.plan.Links = append(a.plan.Links, Link{From: chain[i-1], To: chain[i]})
	}
}

// check re-asserts the placement invariants on the final set.
func (a *allocator) check() error {
	const method = "check"
	for _, c := range a.plan.Canonical {
		if !a.set.Admits(c) {
			return constructionf(method, "canonical %s eliminated", c.ID)
		}
	}
	assigned := make(map[string]struct{}, len(a.plan.Groups))
	for _, g := range a.plan.Groups {
		if g.Distractor != "" {
			assigned[g.Distractor] = struct{}{}
		}
	}
	for _, d := range a.plan.Distractors {
		if _, ok := assigned[d.ID]; !ok {
			return constructionf(method, "distractor %s unassigned", d.ID)
		}
		if a.set.Admits(d) {
			return constructionf(method, "distractor %s survives", d.ID)
		}
	}
	return nil
}

func sortSlots(s []core.Slot) {
	sort.Slice(s, func(i, j int) bool { return s[i].Index < s[j].Index })
}
