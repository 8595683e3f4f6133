package oracle_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mpcbench/core"
)

var seoul = time.FixedZone("Asia/Seoul", 9*60*60)

// fixture returns a hand-built world: three people, one work-hours policy
// and, at level 3, four rooms.
func fixture(level core.Level) *core.World {
	start := time.Date(2026, 1, 19, 0, 0, 0, 0, seoul)
	w := &core.World{
		ID:               "fixture",
		Level:            level,
		Timezone:         "Asia/Seoul",
		UTCOffsetMinutes: 9 * 60,
		Start:            start,
		End:              start.AddDate(0, 0, 5),
		People: []core.Person{
			{ID: "person_001", Name: "Alice"},
			{ID: "person_002", Name: "Bob"},
			{ID: "person_003", Name: "Carol"},
		},
		Policies: []core.Policy{{ID: "POLICY_1", Title: "Core hours", Rules: []core.Tag{workHours()}}},
	}
	if level.HasRooms() {
		w.Rooms = []core.Room{
			{ID: "room_001", Name: "Harbor", Capacity: 4},
			{ID: "room_002", Name: "Summit", Capacity: 4},
			{ID: "room_003", Name: "Atrium", Capacity: 6},
			{ID: "room_004", Name: "Booth", Capacity: 2},
		}
	}
	return w
}

func at(t *testing.T, date, clock string) time.Time {
	t.Helper()
	ts, err := core.At(date, clock, seoul)
	require.NoError(t, err)
	return ts
}

func window(t *testing.T, fromDate, fromClock, toDate, toClock string) core.Window {
	return core.Window{Start: at(t, fromDate, fromClock), End: at(t, toDate, toClock)}
}

func workHours() core.Tag {
	return core.Tag{Version: core.TagVersion, Kind: core.KindPolicy, Rule: core.RuleWorkHours,
		From: "09:00", To: "18:00", Weekdays: []int{0, 1, 2, 3, 4}}
}

func busy(person, date, from, to string) core.Tag {
	return core.Tag{Version: core.TagVersion, Kind: core.KindBusy, Rule: core.RuleBusy,
		Person: person, Date: date, From: from, To: to}
}

func booked(room, date, from, to string) core.Tag {
	return core.Tag{Version: core.TagVersion, Kind: core.KindRoom, Rule: core.RuleRoomBooked,
		Room: room, Date: date, From: from, To: to}
}

// entries wraps tags as entries with ids prefix_01, prefix_02, ...
func entries(prefix string, tags ...core.Tag) []core.Entry {
	out := make([]core.Entry, len(tags))
	for i := range tags {
		t := tags[i]
		out[i] = core.Entry{ID: fmt.Sprintf("%s_%02d", prefix, i+1), Tag: &t}
	}
	return out
}

// calendars groups busy tags by person.
func calendars(tags ...core.Tag) []core.Calendar {
	var out []core.Calendar
	index := map[string]int{}
	for _, t := range tags {
		i, ok := index[t.Person]
		if !ok {
			i = len(out)
			index[t.Person] = i
			out = append(out, core.Calendar{PersonID: t.Person})
		}
		t := t
		out[i].Events = append(out[i].Events, core.Entry{
			ID:  fmt.Sprintf("evt_%s_%02d", t.Person, len(out[i].Events)+1),
			Tag: &t,
		})
	}
	return out
}
