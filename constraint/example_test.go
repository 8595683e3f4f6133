package constraint_test

import (
	"fmt"
	"time"

	"github.com/katalvlaran/mpcbench/constraint"
	"github.com/katalvlaran/mpcbench/core"
)

// ExampleFragment splits a ban window into two tagged parts that only
// eliminate the slot together.
func ExampleFragment() {
	loc := time.FixedZone("Asia/Seoul", 9*3600)
	ban := core.Tag{Version: core.TagVersion, Kind: core.KindThread, Rule: core.RuleBanWindow,
		Date: "2026-01-21", From: "10:00", To: "10:45"}

	parts, _ := constraint.Fragment(ban, 2, "g1")
	var in []core.SourcedEntry
	for i := range parts {
		fmt.Println(parts[i].Token())
		in = append(in, core.SourcedEntry{Source: core.SourceThread, Entry: core.Entry{ID: fmt.Sprint(i), Tag: &parts[i]}})
	}

	start, _ := core.At("2026-01-21", "10:00", loc)
	s := core.Slot{ID: core.SlotID(start), Start: start, End: start.Add(45 * time.Minute)}

	one, _ := constraint.Compile(in[:1], loc, constraint.Lenient())
	both, _ := constraint.Compile(in, loc)
	fmt.Println(len(one), len(both), both[0].Violates(s))

	// Output:
	// <tag>{"v":1,"kind":"thread","rule":"ban_window","date":"2026-01-21","group":"g1","part":1,"parts":2}</tag>
	// <tag>{"v":1,"kind":"thread","rule":"ban_window","from":"10:00","to":"10:45","group":"g1","part":2,"parts":2}</tag>
	// 0 1 true
}
