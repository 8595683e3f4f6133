package materialize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/mpcbench/core"
)

// weekdayList renders Monday=0 weekdays as names; empty means every day.
func weekdayList(days []int) string {
	if len(days) == 0 {
		return "every day"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = core.WeekdayName(d)
	}
	return strings.Join(names, ", ")
}

// tagValues returns the placeholder values a complete tag can fill.
func tagValues(w *core.World, t core.Tag) map[string]string {
	v := map[string]string{
		"date":     t.Date,
		"from":     t.From,
		"to":       t.To,
		"weekdays": weekdayList(t.Weekdays),
		"minutes":  strconv.Itoa(t.Minutes),
		"ref":      t.Ref,
	}
	if t.Rule == core.RuleTaskSpec {
		v["n"] = strconv.Itoa(t.Count)
		v["duration"] = strconv.Itoa(t.Minutes)
		v["participants"] = strings.Join(t.Participants, ", ")
		v["sort"] = strings.Join(t.Sort, ", ")
	}
	if p, err := w.Person(t.Person); err == nil {
		v["person"] = p.Name
	}
	if r, err := w.Room(t.Room); err == nil {
		v["room"] = r.Name
	}
	return v
}

// detail describes the payload a fragment carries, in field order.
func detail(w *core.World, t core.Tag) string {
	var parts []string
	if t.Person != "" {
		name := t.Person
		if p, err := w.Person(t.Person); err == nil {
			name = p.Name
		}
		parts = append(parts, "applies to "+name)
	}
	if t.Room != "" {
		parts = append(parts, "room "+t.Room)
	}
	if len(t.Weekdays) > 0 {
		parts = append(parts, "on "+weekdayList(t.Weekdays))
	}
	if t.Date != "" {
		parts = append(parts, "date "+t.Date)
	}
	switch {
	case t.From != "" && t.To != "":
		parts = append(parts, t.From+"-"+t.To)
	case t.From != "":
		parts = append(parts, "from "+t.From)
	case t.To != "":
		parts = append(parts, "until "+t.To)
	}
	if t.Minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", t.Minutes))
	}
	if len(t.Participants) > 0 {
		parts = append(parts, "with "+strings.Join(t.Participants, ", "))
	}
	if t.Count > 0 {
		parts = append(parts, fmt.Sprintf("%d option(s)", t.Count))
	}
	if len(parts) == 0 {
		return "see the other notes"
	}
	return strings.Join(parts, ", ") + "."
}

// windowText renders the task window in the world zone.
func windowText(w *core.World, win core.Window) string {
	loc := w.Location()
	s, e := win.Start.In(loc), win.End.In(loc)
	const layout = core.DateLayout + " " + core.ClockLayout
	return s.Format(layout) + " and " + e.Format(layout)
}

// taskValues fills the task templates.
func taskValues(w *core.World, task core.Task, names []string, sort []string, policy string) map[string]string {
	return map[string]string{
		"n":            strconv.Itoa(task.N),
		"duration":     strconv.Itoa(task.DurationMinutes),
		"participants": strings.Join(names, ", "),
		"window":       windowText(w, task.Window),
		"policy":       policy,
		"sort":         strings.Join(sort, ", "),
	}
}
