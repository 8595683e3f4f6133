package constraint

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/mpcbench/core"
)

// Tag field names, as they appear in the JSON payload.
const (
	fieldPerson       = "person"
	fieldRoom         = "room"
	fieldDate         = "date"
	fieldFrom         = "from"
	fieldTo           = "to"
	fieldWeekdays     = "weekdays"
	fieldMinutes      = "minutes"
	fieldParticipants = "participants"
	fieldCount        = "count"
	fieldCapacity     = "capacity"
	fieldSort         = "sort"
	fieldRef          = "ref"
)

// mergeOrder is every payload field, in the order merge visits them.
var mergeOrder = []string{
	fieldPerson, fieldRoom, fieldDate, fieldFrom, fieldTo, fieldWeekdays, fieldMinutes,
	fieldParticipants, fieldCount, fieldCapacity, fieldSort, fieldRef,
}

func hasField(t core.Tag, f string) bool {
	switch f {
	case fieldPerson:
		return t.Person != ""
	case fieldRoom:
		return t.Room != ""
	case fieldDate:
		return t.Date != ""
	case fieldFrom:
		return t.From != ""
	case fieldTo:
		return t.To != ""
	case fieldWeekdays:
		return len(t.Weekdays) > 0
	case fieldMinutes:
		return t.Minutes != 0
	case fieldParticipants:
		return len(t.Participants) > 0
	case fieldCount:
		return t.Count != 0
	case fieldCapacity:
		return t.Capacity != 0
	case fieldSort:
		return len(t.Sort) > 0
	case fieldRef:
		return t.Ref != ""
	}
	return false
}

// copyField sets field f of dst from src.
func copyField(dst *core.Tag, src core.Tag, f string) {
	switch f {
	case fieldPerson:
		dst.Person = src.Person
	case fieldRoom:
		dst.Room = src.Room
	case fieldDate:
		dst.Date = src.Date
	case fieldFrom:
		dst.From = src.From
	case fieldTo:
		dst.To = src.To
	case fieldWeekdays:
		dst.Weekdays = append([]int(nil), src.Weekdays...)
	case fieldMinutes:
		dst.Minutes = src.Minutes
	case fieldParticipants:
		dst.Participants = append([]string(nil), src.Participants...)
	case fieldCount:
		dst.Count = src.Count
	case fieldCapacity:
		dst.Capacity = src.Capacity
	case fieldSort:
		dst.Sort = append([]string(nil), src.Sort...)
	case fieldRef:
		dst.Ref = src.Ref
	}
}

func sameField(a, b core.Tag, f string) bool {
	switch f {
	case fieldWeekdays:
		return slices.Equal(a.Weekdays, b.Weekdays)
	case fieldParticipants:
		return slices.Equal(a.Participants, b.Participants)
	case fieldSort:
		return slices.Equal(a.Sort, b.Sort)
	}
	var x, y core.Tag
	copyField(&x, a, f)
	copyField(&y, b, f)
	return x.Person == y.Person && x.Room == y.Room && x.Date == y.Date &&
		x.From == y.From && x.To == y.To && x.Minutes == y.Minutes &&
		x.Count == y.Count && x.Capacity == y.Capacity && x.Ref == y.Ref
}

// merge folds part into acc. A field set on both sides must agree.
// Complexity: O(F) for F payload fields.
func merge(acc *core.Tag, part core.Tag) error {
	if acc.Rule != part.Rule || acc.Kind != part.Kind || acc.Parts != part.Parts {
		return fmt.Errorf("merge(group %q): part %d is %s/%s of %d, want %s/%s of %d: %w",
			acc.Group, part.Part, part.Kind, part.Rule, part.Parts, acc.Kind, acc.Rule, acc.Parts, ErrFragmentConflict)
	}
	for _, f := range mergeOrder {
		if !hasField(part, f) {
			continue
		}
		if hasField(*acc, f) {
			if !sameField(*acc, part, f) {
				return fmt.Errorf("merge(group %q): field %s differs in part %d: %w", acc.Group, f, part.Part, ErrFragmentConflict)
			}
			continue
		}
		copyField(acc, part, f)
	}
	return nil
}
