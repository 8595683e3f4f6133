package constraint

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/grid"
)

// Template names.
const (
	NameCalendarBusy   = "calendar_busy"
	NamePolicyBan      = "policy_ban"
	NameThreadBan      = "thread_ban"
	NameThreadDeadline = "thread_deadline"
	NameRoomBlock      = "room_block"
	NameCalendarCover  = "calendar_cover"
	NameRequiredWindow = "required_window"
)

// Constraint is one logical constraint built by a template: the rules it
// emits, the source they belong to and the seed template their prose is
// rendered from. A room block spans several rules (one booking per room).
type Constraint struct {
	ID     string
	Name   string
	Source core.Source
	Seed   string
	Rules  []Rule
}

// Tags returns the complete tags of c, in rule order.
func (c Constraint) Tags() []core.Tag {
	out := make([]core.Tag, len(c.Rules))
	for i, r := range c.Rules {
		out[i] = r.Tag.Clone()
	}
	return out
}

// Env is the read-only context a template builds against.
type Env struct {
	World *core.World
	// Participants are person ids; busy entries go to one of them.
	Participants []string
	// Rooms are the rooms eligible for the meeting (level 3).
	Rooms []core.Room
	// Keep is the protected set the constraint must not touch.
	Keep []core.Slot
	// Buffer is the effective busy buffer of the instance policy.
	Buffer time.Duration
	Rand   *rand.Rand
}

// Template builds a constraint over the given target slots.
type Template interface {
	Name() string
	Build(env Env, targets []core.Slot) (Constraint, error)
}

// span renders [start, end) as date and clock strings in loc. Intervals
// must not cross midnight; an end at the following midnight is "24:00".
func span(start, end time.Time, loc *time.Location) (date, from, to string, err error) {
	s, e := start.In(loc), end.In(loc)
	day := core.Midnight(s)
	date = s.Format(core.DateLayout)
	from = core.FormatClock(core.MinuteOfDay(s))
	switch {
	case core.Midnight(e).Equal(day):
		to = core.FormatClock(core.MinuteOfDay(e))
	case e.Equal(day.AddDate(0, 0, 1)):
		to = core.FormatClock(core.MinutesPerDay)
	default:
		return "", "", "", fmt.Errorf("span(%s..%s) crosses midnight: %w", s, e, ErrConstruction)
	}
	return date, from, to, nil
}

func needTargets(method string, targets []core.Slot) error {
	if len(targets) == 0 {
		return constructionf(method, "no targets")
	}
	return nil
}

// compileAll compiles template tags; a failure is a construction error.
func compileAll(method string, tags []core.Tag, loc *time.Location) ([]Rule, error) {
	rules := make([]Rule, 0, len(tags))
	for _, t := range tags {
		r, err := NewRule(t, loc)
		if err != nil {
			return nil, constructionf(method, "%v", err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// CalendarBusy places one busy interval exactly over each target on the
// calendar of a randomly drawn participant.
type CalendarBusy struct{}

func (CalendarBusy) Name() string { return NameCalendarBusy }

// Build implements Template.
func (CalendarBusy) Build(env Env, targets []core.Slot) (Constraint, error) {
	const method = "CalendarBusy.Build"
	if err := needTargets(method, targets); err != nil {
		return Constraint{}, err
	}
	if len(env.Participants) == 0 {
		return Constraint{}, constructionf(method, "no participants")
	}
	loc := env.World.Location()
	tags := make([]core.Tag, 0, len(targets))
	for _, t := range targets {
		date, from, to, err := span(t.Start, t.End, loc)
		if err != nil {
			return Constraint{}, err
		}
		tags = append(tags, core.Tag{
			Version: core.TagVersion,
			Kind:    core.KindBusy,
			Rule:    core.RuleBusy,
			Person:  env.Participants[env.Rand.Intn(len(env.Participants))],
			Date:    date,
			From:    from,
			To:      to,
		})
	}
	rules, err := compileAll(method, tags, loc)
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Name: NameCalendarBusy, Source: core.SourceCalendar, Seed: config.SeedBusy, Rules: rules}, nil
}

// PolicyBan adds a weekday/time ban to the policy addendum covering each
// target's weekday and clock range.
type PolicyBan struct{}

func (PolicyBan) Name() string { return NamePolicyBan }

// Build implements Template.
func (PolicyBan) Build(env Env, targets []core.Slot) (Constraint, error) {
	const method = "PolicyBan.Build"
	if err := needTargets(method, targets); err != nil {
		return Constraint{}, err
	}
	loc := env.World.Location()
	tags := make([]core.Tag, 0, len(targets))
	for _, t := range targets {
		_, from, to, err := span(t.Start, t.End, loc)
		if err != nil {
			return Constraint{}, err
		}
		tags = append(tags, core.Tag{
			Version:  core.TagVersion,
			Kind:     core.KindPolicy,
			Rule:     core.RuleBanDowTime,
			Weekdays: []int{core.Weekday(t.Start.In(loc))},
			From:     from,
			To:       to,
		})
	}
	rules, err := compileAll(method, tags, loc)
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Name: NamePolicyBan, Source: core.SourcePolicy, Seed: config.SeedBanDowTime, Rules: rules}, nil
}

// ThreadBan posts a dated ban window over each target into a thread, mail
// or document.
type ThreadBan struct {
	Source core.Source
}

func (ThreadBan) Name() string { return NameThreadBan }

// Build implements Template.
func (b ThreadBan) Build(env Env, targets []core.Slot) (Constraint, error) {
	const method = "ThreadBan.Build"
	if err := needTargets(method, targets); err != nil {
		return Constraint{}, err
	}
	loc := env.World.Location()
	tags := make([]core.Tag, 0, len(targets))
	for _, t := range targets {
		date, from, to, err := span(t.Start, t.End, loc)
		if err != nil {
			return Constraint{}, err
		}
		tags = append(tags, core.Tag{
			Version: core.TagVersion,
			Kind:    core.KindThread,
			Rule:    core.RuleBanWindow,
			Date:    date,
			From:    from,
			To:      to,
		})
	}
	rules, err := compileAll(method, tags, loc)
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Name: NameThreadBan, Source: b.Source, Seed: config.SeedBanWindow, Rules: rules}, nil
}

// ThreadDeadline posts a deadline one grid step before the earliest target.
// It applies only when every kept slot starts no later than that deadline.
type ThreadDeadline struct {
	Source core.Source
}

func (ThreadDeadline) Name() string { return NameThreadDeadline }

// Build implements Template.
func (d ThreadDeadline) Build(env Env, targets []core.Slot) (Constraint, error) {
	const method = "ThreadDeadline.Build"
	if err := needTargets(method, targets); err != nil {
		return Constraint{}, err
	}
	first := targets[0].Start
	for _, t := range targets[1:] {
		if t.Start.Before(first) {
			first = t.Start
		}
	}
	deadline := first.Add(-grid.Step)
	for _, k := range env.Keep {
		if k.Start.After(deadline) {
			return Constraint{}, constructionf(method, "kept slot %s starts after deadline %s", k.ID, deadline)
		}
	}
	loc := env.World.Location()
	dl := deadline.In(loc)
	tag := core.Tag{
		Version: core.TagVersion,
		Kind:    core.KindThread,
		Rule:    core.RuleDeadline,
		Date:    dl.Format(core.DateLayout),
		To:      core.FormatClock(core.MinuteOfDay(dl)),
	}
	rules, err := compileAll(method, []core.Tag{tag}, loc)
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Name: NameThreadDeadline, Source: d.Source, Seed: config.SeedDeadline, Rules: rules}, nil
}

// RoomBlock books every eligible room over each target, leaving the slot
// without a room while its time stays free.
type RoomBlock struct{}

func (RoomBlock) Name() string { return NameRoomBlock }

// Build implements Template.
func (RoomBlock) Build(env Env, targets []core.Slot) (Constraint, error) {
	const method = "RoomBlock.Build"
	if err := needTargets(method, targets); err != nil {
		return Constraint{}, err
	}
	if len(env.Rooms) == 0 {
		return Constraint{}, constructionf(method, "no eligible rooms")
	}
	loc := env.World.Location()
	var tags []core.Tag
	for _, t := range targets {
		date, from, to, err := span(t.Start, t.End, loc)
		if err != nil {
			return Constraint{}, err
		}
		for _, room := range env.Rooms {
			tags = append(tags, core.Tag{
				Version: core.TagVersion,
				Kind:    core.KindRoom,
				Rule:    core.RuleRoomBooked,
				Room:    room.ID,
				Date:    date,
				From:    from,
				To:      to,
			})
		}
	}
	rules, err := compileAll(method, tags, loc)
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Name: NameRoomBlock, Source: core.SourceRooms, Seed: config.SeedRoomBooked, Rules: rules}, nil
}

// CalendarCover blocks as many targets as possible with participant busy
// time while keeping every slot of env.Keep free, buffer included. For each
// uncovered target it picks the latest grid cell clear of the keep set, so
// consecutive targets share cells; contiguous cells on one date merge into
// one busy interval. Targets without a usable cell stay feasible.
type CalendarCover struct{}

func (CalendarCover) Name() string { return NameCalendarCover }

// Build implements Template.
// Complexity: O(T·C·K) for T targets, C cells per slot, K kept slots.
func (CalendarCover) Build(env Env, targets []core.Slot) (Constraint, error) {
	const method = "CalendarCover.Build"
	if len(env.Participants) == 0 {
		return Constraint{}, constructionf(method, "no participants")
	}
	var cells []core.Window
	covered := func(t core.Slot) bool {
		for _, c := range cells {
			if core.Overlaps(t.Start.Add(-env.Buffer), t.End.Add(env.Buffer), c.Start, c.End) {
				return true
			}
		}
		return false
	}
	usable := func(c core.Window) bool {
		for _, k := range env.Keep {
			if core.Overlaps(k.Start.Add(-env.Buffer), k.End.Add(env.Buffer), c.Start, c.End) {
				return false
			}
		}
		return true
	}
	for _, t := range targets {
		if covered(t) {
			continue
		}
		tc := grid.Cells(t.Start, t.End)
		for i := len(tc) - 1; i >= 0; i-- {
			if usable(tc[i]) {
				cells = append(cells, tc[i])
				break
			}
		}
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Start.Before(cells[j].Start) })

	loc := env.World.Location()
	var tags []core.Tag
	for i := 0; i < len(cells); {
		run := cells[i]
		j := i + 1
		for ; j < len(cells); j++ {
			next := cells[j]
			if next.Start.After(run.End) || !core.Midnight(next.Start.In(loc)).Equal(core.Midnight(run.Start.In(loc))) {
				break
			}
			if next.End.After(run.End) {
				run.End = next.End
			}
		}
		i = j
		date, from, to, err := span(run.Start, run.End, loc)
		if err != nil {
			return Constraint{}, err
		}
		tags = append(tags, core.Tag{
			Version: core.TagVersion,
			Kind:    core.KindBusy,
			Rule:    core.RuleBusy,
			Person:  env.Participants[env.Rand.Intn(len(env.Participants))],
			Date:    date,
			From:    from,
			To:      to,
		})
	}
	rules, err := compileAll(method, tags, loc)
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Name: NameCalendarCover, Source: core.SourceCalendar, Seed: config.SeedBusy, Rules: rules}, nil
}

// RequiredWindow narrows the meeting to the whole hours around the keep
// set. It needs every kept slot on one date and ignores targets.
type RequiredWindow struct{}

func (RequiredWindow) Name() string { return NameRequiredWindow }

// Build implements Template.
func (RequiredWindow) Build(env Env, _ []core.Slot) (Constraint, error) {
	const method = "RequiredWindow.Build"
	if len(env.Keep) == 0 {
		return Constraint{}, constructionf(method, "empty keep set")
	}
	loc := env.World.Location()
	day := core.Midnight(env.Keep[0].Start.In(loc))
	lo, hi := core.MinutesPerDay, 0
	for _, k := range env.Keep {
		s, e := k.Start.In(loc), k.End.In(loc)
		if !core.Midnight(s).Equal(day) || e.After(day.AddDate(0, 0, 1)) {
			return Constraint{}, constructionf(method, "kept slot %s leaves %s", k.ID, day.Format(core.DateLayout))
		}
		lo = min(lo, core.MinuteOfDay(s))
		end := int(e.Sub(day) / time.Minute)
		hi = max(hi, end)
	}
	lo = lo / 60 * 60
	hi = min((hi+59)/60*60, core.MinutesPerDay)
	tag := core.Tag{
		Version: core.TagVersion,
		Kind:    core.KindThread,
		Rule:    core.RuleRequiredWindow,
		Date:    day.Format(core.DateLayout),
		From:    core.FormatClock(lo),
		To:      core.FormatClock(hi),
	}
	rules, err := compileAll(method, []core.Tag{tag}, loc)
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Name: NameRequiredWindow, Source: core.SourceThread, Seed: config.SeedRequiredWindow, Rules: rules}, nil
}

// Reference returns a data-only tag pointing the reader at ref.
func Reference(kind core.Kind, ref string) core.Tag {
	return core.Tag{Version: core.TagVersion, Kind: kind, Rule: core.RuleReference, Ref: ref}
}
