package allocate

import "github.com/katalvlaran/mpcbench/core"

// TaskThread is the Link endpoint naming the task thread.
const TaskThread = "task"

// Group is one constraint as it will be materialized: one entry per tag.
// Non-calendar groups without a distractor (task_spec, required window)
// belong to the task thread.
type Group struct {
	ID     string
	Name   string
	Source core.Source
	Seed   string
	// Distractor is the slot id this group eliminates, if any.
	Distractor string
	// Fragments is the number of entries the elimination is spread over.
	Fragments int
	Tags      []core.Tag
}

// Link asks the materializer to place a reference entry in the artifact of
// From pointing at the artifact of To. From is a group id or TaskThread.
type Link struct {
	From string
	To   string
}

// Plan is the structural outcome of one allocation.
type Plan struct {
	Level core.Level
	// Task is complete at every level; the materializer hides the level-3
	// fields behind the task_spec tag.
	Task       core.Task
	Capacity   int
	Sort       []string
	Difficulty core.Difficulty

	Candidates  []core.Slot
	Canonical   []core.Slot
	Distractors []core.Slot

	Groups []Group
	Links  []Link
}

// Group returns the group with the given id.
func (p *Plan) Group(id string) (Group, bool) {
	for _, g := range p.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// SlotIDs returns the ids of slots, in order.
func SlotIDs(slots []core.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.ID
	}
	return out
}
