package core

import "time"

// Task is the scheduling request shown to the agent. At level 3 the
// participants, duration, N and tie-break rule are carried only by the task
// thread's task_spec tag, so those fields stay empty here.
type Task struct {
	Window          Window   `json:"window"`
	PolicyID        string   `json:"policy_id"`
	Participants    []string `json:"participants,omitempty"`
	DurationMinutes int      `json:"duration_min,omitempty"`
	N               int      `json:"n,omitempty"`
}

// Difficulty holds the knobs that govern how hard an instance is.
type Difficulty struct {
	Fragmentation      int `json:"fragmentation_depth"`
	Indirection        int `json:"indirection_depth"`
	MinRequiredSources int `json:"min_required_source"`
	N                  int `json:"n"`
}

// Assignment records which non-calendar source eliminates a distractor and
// through which entries.
type Assignment struct {
	Distractor string   `json:"distractor"`
	Source     Source   `json:"source"`
	Constraint string   `json:"constraint"`
	Entries    []string `json:"entries"`
	Fragments  int      `json:"fragments"`
	// Link is the artifact reference this source points the reader to.
	Link string `json:"link,omitempty"`
}

// Instance is one generated puzzle. Canonical, Distractors and Assignments
// are generator records; the oracle never reads them.
type Instance struct {
	ID       string `json:"instance_id"`
	UID      string `json:"uid"`
	Level    Level  `json:"level"`
	WorldID  string `json:"world_id"`
	Seed     int64  `json:"seed"`
	Attempt  int    `json:"attempt"`
	TaskText string `json:"task_text"`

	Task       Task       `json:"task"`
	Difficulty Difficulty `json:"difficulty"`
	Candidates []Slot     `json:"candidates"`

	Canonical   []string     `json:"canonical"`
	Distractors []string     `json:"distractors"`
	Assignments []Assignment `json:"assignments,omitempty"`

	// SourcesRef maps each source to its artifact file, relative to the
	// output directory. Sources is persisted through those files.
	SourcesRef map[Source]string `json:"sources_ref,omitempty"`
	Sources    Sources           `json:"-"`
}

// Candidate is one ranked gold answer.
type Candidate struct {
	SlotID string    `json:"slot_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	RoomID string    `json:"room_id,omitempty"`
	Rank   int       `json:"rank"`
}

// Meta counts candidates at each oracle stage.
type Meta struct {
	Generated        int `json:"num_generated"`
	AfterConstraints int `json:"num_after_constraints"`
	AfterRoomJoin    int `json:"num_after_room_join,omitempty"`
	N                int `json:"num_options"`
}

// ExplanationKey names one artifact the oracle consulted.
type ExplanationKey struct {
	Source Source `json:"source"`
	Key    string `json:"key"`
}

// Label is the oracle's deterministic answer for one instance.
type Label struct {
	InstanceID  string           `json:"instance_id"`
	Level       Level            `json:"level"`
	Gold        []Candidate      `json:"feasible_candidates"`
	Explanation []ExplanationKey `json:"explanation_keys"`
	Meta        Meta             `json:"meta"`
}
