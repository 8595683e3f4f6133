package constraint

import (
	"fmt"
	"time"

	"github.com/katalvlaran/mpcbench/core"
)

// Origin locates one entry a rule was compiled from.
type Origin struct {
	Source   core.Source
	Artifact string
	EntryID  string
}

// Rule is one complete tag compiled against a location. Rules are values;
// copying one is cheap and safe.
type Rule struct {
	Tag     core.Tag
	Origins []Origin

	loc      *time.Location
	from, to int   // minutes of day
	days     uint8 // weekday bitmask, Monday = bit 0
	start    time.Time
	end      time.Time
	buffer   time.Duration
}

const allDays uint8 = 0x7f

// requiredFields lists, per rule, the tag fields that must be set for the
// rule to compile. The order is also the fragmentation order.
var requiredFields = map[core.Rule][]string{
	core.RuleBusy:           {fieldPerson, fieldDate, fieldFrom, fieldTo},
	core.RuleWorkHours:      {fieldFrom, fieldTo},
	core.RuleLunchBlock:     {fieldFrom, fieldTo},
	core.RuleBufferMin:      {fieldMinutes},
	core.RuleBanDowTime:     {fieldWeekdays, fieldFrom, fieldTo},
	core.RuleDeadline:       {fieldDate, fieldTo},
	core.RuleBanWindow:      {fieldDate, fieldFrom, fieldTo},
	core.RuleRequiredWindow: {fieldDate, fieldFrom, fieldTo},
	core.RuleRoomBooked:     {fieldRoom, fieldDate, fieldFrom, fieldTo},
	core.RuleTaskSpec:       {fieldParticipants, fieldMinutes, fieldCount},
	core.RuleReference:      {fieldRef},
}

// NewRule validates t and compiles it for loc.
// Complexity: O(len(t.Weekdays)).
func NewRule(t core.Tag, loc *time.Location, origins ...Origin) (Rule, error) {
	const method = "NewRule"
	fields, ok := requiredFields[t.Rule]
	if !ok {
		return Rule{}, fmt.Errorf("%s(%q): %w", method, t.Rule, ErrUnknownRule)
	}
	for _, f := range fields {
		if !hasField(t, f) {
			return Rule{}, fmt.Errorf("%s(%s): missing %s: %w", method, t.Rule, f, ErrIncompleteRule)
		}
	}

	r := Rule{Tag: t.Clone(), Origins: append([]Origin(nil), origins...), loc: loc, days: allDays}
	r.Tag.Group, r.Tag.Part, r.Tag.Parts = "", 0, 0

	var err error
	if t.From != "" {
		if r.from, err = core.ParseClock(t.From); err != nil {
			return Rule{}, fmt.Errorf("%s(%s): %w", method, t.Rule, err)
		}
	}
	if t.To != "" {
		if r.to, err = core.ParseClock(t.To); err != nil {
			return Rule{}, fmt.Errorf("%s(%s): %w", method, t.Rule, err)
		}
	}
	if t.From != "" && t.To != "" && r.from >= r.to {
		return Rule{}, fmt.Errorf("%s(%s): from %s not before to %s: %w", method, t.Rule, t.From, t.To, ErrIncompleteRule)
	}
	if len(t.Weekdays) > 0 {
		r.days = 0
		for _, d := range t.Weekdays {
			if d < 0 || d > 6 {
				return Rule{}, fmt.Errorf("%s(%s): weekday %d: %w", method, t.Rule, d, ErrIncompleteRule)
			}
			r.days |= 1 << uint(d)
		}
	}
	if t.Date != "" {
		day, err := core.ParseDate(t.Date, loc)
		if err != nil {
			return Rule{}, fmt.Errorf("%s(%s): %w", method, t.Rule, err)
		}
		r.start = day.Add(time.Duration(r.from) * time.Minute)
		r.end = day.Add(time.Duration(r.to) * time.Minute)
	}
	if t.Rule == core.RuleBufferMin {
		r.buffer = time.Duration(t.Minutes) * time.Minute
	}
	return r, nil
}

// Predicate reports whether the rule constrains slots at all. task_spec and
// reference rules only carry data.
func (r Rule) Predicate() bool {
	return r.Tag.Rule != core.RuleTaskSpec && r.Tag.Rule != core.RuleReference
}

// Interval returns the absolute [start, end) of date-bound rules.
func (r Rule) Interval() (time.Time, time.Time) {
	return r.start, r.end
}

// Violates reports whether slot s breaks a slot-level rule. busy,
// buffer_min and room_booked always report false here; Set evaluates them
// against participants and rooms.
// Complexity: O(1).
func (r Rule) Violates(s core.Slot) bool {
	switch r.Tag.Rule {
	case core.RuleWorkHours:
		if !r.onDay(s.Start) {
			return true
		}
		lo, hi := r.daily(s.Start)
		return s.Start.Before(lo) || s.End.After(hi)
	case core.RuleLunchBlock, core.RuleBanDowTime:
		if !r.onDay(s.Start) {
			return false
		}
		lo, hi := r.daily(s.Start)
		return core.Overlaps(s.Start, s.End, lo, hi)
	case core.RuleDeadline:
		return s.Start.After(r.end)
	case core.RuleBanWindow:
		return core.Overlaps(s.Start, s.End, r.start, r.end)
	case core.RuleRequiredWindow:
		return s.Start.Before(r.start) || s.End.After(r.end)
	}
	return false
}

// overlapsPadded reports whether [start-pad, end+pad) meets the rule's
// absolute interval.
func (r Rule) overlapsPadded(start, end time.Time, pad time.Duration) bool {
	return core.Overlaps(start.Add(-pad), end.Add(pad), r.start, r.end)
}

func (r Rule) onDay(t time.Time) bool {
	return r.days&(1<<uint(core.Weekday(t.In(r.loc)))) != 0
}

// daily anchors the rule's clock range on the local date of t.
func (r Rule) daily(t time.Time) (time.Time, time.Time) {
	day := core.Midnight(t.In(r.loc))
	return day.Add(time.Duration(r.from) * time.Minute), day.Add(time.Duration(r.to) * time.Minute)
}
