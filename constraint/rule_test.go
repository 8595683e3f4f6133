package constraint_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mpcbench/constraint"
	"github.com/katalvlaran/mpcbench/core"
)

var seoul = time.FixedZone("Asia/Seoul", 9*3600)

// TestNewRule_Errors covers every rejection class of NewRule.
func TestNewRule_Errors(t *testing.T) {
	cases := []struct {
		name string
		tag  core.Tag
		want error
	}{
		{"UnknownRule", core.Tag{Rule: "teleport"}, constraint.ErrUnknownRule},
		{"MissingPerson", core.Tag{Rule: core.RuleBusy, Date: "2026-01-20", From: "10:00", To: "11:00"}, constraint.ErrIncompleteRule},
		{"MissingWeekdays", core.Tag{Rule: core.RuleBanDowTime, From: "10:00", To: "11:00"}, constraint.ErrIncompleteRule},
		{"Reversed", core.Tag{Rule: core.RuleBanWindow, Date: "2026-01-20", From: "11:00", To: "10:00"}, constraint.ErrIncompleteRule},
		{"BadWeekday", core.Tag{Rule: core.RuleLunchBlock, From: "12:00", To: "13:00", Weekdays: []int{9}}, constraint.ErrIncompleteRule},
		{"BadClock", core.Tag{Rule: core.RuleBanWindow, Date: "2026-01-20", From: "25:00", To: "26:00"}, core.ErrInvalidClock},
		{"BadDate", core.Tag{Rule: core.RuleDeadline, Date: "20/01/2026", To: "10:00"}, core.ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := constraint.NewRule(tc.tag, seoul)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// TestRule_Violates walks the slot-level predicates on a Monday-Friday week
// starting 2026-01-19.
func TestRule_Violates(t *testing.T) {
	weekdays := []int{0, 1, 2, 3, 4}
	cases := []struct {
		name   string
		tag    core.Tag
		date   string
		clock  string
		length int
		want   bool
	}{
		{"WorkHoursInside", core.Tag{Rule: core.RuleWorkHours, From: "09:00", To: "18:00", Weekdays: weekdays}, "2026-01-19", "09:00", 45, false},
		{"WorkHoursEarly", core.Tag{Rule: core.RuleWorkHours, From: "09:00", To: "18:00", Weekdays: weekdays}, "2026-01-19", "08:45", 45, true},
		{"WorkHoursLate", core.Tag{Rule: core.RuleWorkHours, From: "09:00", To: "18:00", Weekdays: weekdays}, "2026-01-19", "17:30", 45, true},
		{"WorkHoursEndsAtClose", core.Tag{Rule: core.RuleWorkHours, From: "09:00", To: "18:00", Weekdays: weekdays}, "2026-01-19", "17:15", 45, false},
		{"WorkHoursSaturday", core.Tag{Rule: core.RuleWorkHours, From: "09:00", To: "18:00", Weekdays: weekdays}, "2026-01-24", "10:00", 45, true},
		{"LunchOverlap", core.Tag{Rule: core.RuleLunchBlock, From: "12:00", To: "13:00", Weekdays: weekdays}, "2026-01-19", "11:30", 45, true},
		{"LunchTouching", core.Tag{Rule: core.RuleLunchBlock, From: "12:00", To: "13:00", Weekdays: weekdays}, "2026-01-19", "11:15", 45, false},
		{"BanTuesday", core.Tag{Rule: core.RuleBanDowTime, Weekdays: []int{1}, From: "14:00", To: "15:00"}, "2026-01-20", "14:30", 45, true},
		{"BanOtherDay", core.Tag{Rule: core.RuleBanDowTime, Weekdays: []int{1}, From: "14:00", To: "15:00"}, "2026-01-21", "14:30", 45, false},
		{"DeadlineOnTime", core.Tag{Rule: core.RuleDeadline, Date: "2026-01-20", To: "12:00"}, "2026-01-20", "12:00", 45, false},
		{"DeadlineMissed", core.Tag{Rule: core.RuleDeadline, Date: "2026-01-20", To: "12:00"}, "2026-01-20", "12:15", 45, true},
		{"DeadlineNextDay", core.Tag{Rule: core.RuleDeadline, Date: "2026-01-20", To: "12:00"}, "2026-01-21", "09:00", 45, true},
		{"BanWindowHit", core.Tag{Rule: core.RuleBanWindow, Date: "2026-01-21", From: "10:00", To: "10:45"}, "2026-01-21", "10:30", 45, true},
		{"BanWindowOtherDate", core.Tag{Rule: core.RuleBanWindow, Date: "2026-01-21", From: "10:00", To: "10:45"}, "2026-01-22", "10:00", 45, false},
		{"RequiredInside", core.Tag{Rule: core.RuleRequiredWindow, Date: "2026-01-20", From: "13:00", To: "16:00"}, "2026-01-20", "14:00", 45, false},
		{"RequiredOutside", core.Tag{Rule: core.RuleRequiredWindow, Date: "2026-01-20", From: "13:00", To: "16:00"}, "2026-01-20", "15:30", 45, true},
		{"BusyIsSetLevel", core.Tag{Rule: core.RuleBusy, Person: "person_001", Date: "2026-01-20", From: "14:00", To: "15:00"}, "2026-01-20", "14:00", 45, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := constraint.NewRule(tc.tag, seoul)
			require.NoError(t, err)
			assert.Equal(t, tc.want, r.Violates(slot(t, seoul, tc.date, tc.clock, tc.length)))
		})
	}
}

// TestRule_DataOnly keeps task_spec and reference out of filtering.
func TestRule_DataOnly(t *testing.T) {
	spec, err := constraint.NewRule(core.Tag{Rule: core.RuleTaskSpec, Participants: []string{"Alice", "Bob"}, Minutes: 30, Count: 2}, seoul)
	require.NoError(t, err)
	assert.False(t, spec.Predicate())

	ref, err := constraint.NewRule(constraint.Reference(core.KindThread, "document:doc_001"), seoul)
	require.NoError(t, err)
	assert.False(t, ref.Predicate())

	ban, err := constraint.NewRule(core.Tag{Rule: core.RuleBanWindow, Date: "2026-01-20", From: "10:00", To: "11:00"}, seoul)
	require.NoError(t, err)
	assert.True(t, ban.Predicate())
	start, end := ban.Interval()
	assert.Equal(t, 10, start.Hour())
	assert.Equal(t, time.Hour, end.Sub(start))
}
