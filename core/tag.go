package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TagVersion is the schema version written into every Tag.
const TagVersion = 1

// Kind is the closed set of constraint kinds.
type Kind string

const (
	KindBusy   Kind = "busy_interval"
	KindPolicy Kind = "policy"
	KindThread Kind = "thread"
	KindRoom   Kind = "room_unavailable"
)

// Rule names the predicate a tag encodes.
type Rule string

const (
	RuleBusy           Rule = "busy"
	RuleWorkHours      Rule = "work_hours"
	RuleLunchBlock     Rule = "lunch_block"
	RuleBufferMin      Rule = "buffer_min"
	RuleBanDowTime     Rule = "ban_dow_time"
	RuleDeadline       Rule = "deadline"
	RuleBanWindow      Rule = "ban_window"
	RuleRequiredWindow Rule = "required_window"
	RuleRoomBooked     Rule = "room_booked"
	RuleTaskSpec       Rule = "task_spec"
	RuleReference      Rule = "reference"
)

// Source names the artifact family an entry is materialized into.
type Source string

const (
	SourceCalendar Source = "calendar"
	SourcePolicy   Source = "policy"
	SourceThread   Source = "thread"
	SourceMail     Source = "mail"
	SourceDocument Source = "document"
	SourceRooms    Source = "rooms"
)

// AllSources lists every source in materialization order.
var AllSources = []Source{SourceCalendar, SourcePolicy, SourceThread, SourceMail, SourceDocument, SourceRooms}

// Tag is the machine-readable payload of one constraint entry. Which fields
// are meaningful depends on Rule. A fragmented constraint spreads its fields
// over Parts entries sharing Group; only their union is a complete rule.
type Tag struct {
	Version int  `json:"v"`
	Kind    Kind `json:"kind"`
	Rule    Rule `json:"rule"`

	Person   string `json:"person,omitempty"`
	Room     string `json:"room,omitempty"`
	Date     string `json:"date,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Weekdays []int  `json:"weekdays,omitempty"`
	Minutes  int    `json:"minutes,omitempty"`

	// task_spec payload (level 3).
	Participants []string `json:"participants,omitempty"`
	Count        int      `json:"count,omitempty"`
	Capacity     int      `json:"capacity,omitempty"`
	Sort         []string `json:"sort,omitempty"`

	Group string `json:"group,omitempty"`
	Part  int    `json:"part,omitempty"`
	Parts int    `json:"parts,omitempty"`

	// Ref points at another artifact as "<source>:<artifact id>". It is a
	// human-followable hint and never changes the rule's meaning.
	Ref string `json:"ref,omitempty"`
}

// Fragmented reports whether t is one part of a multi-part group.
func (t Tag) Fragmented() bool {
	return t.Group != "" && t.Parts > 1
}

// Clone returns a deep copy of t.
func (t Tag) Clone() Tag {
	c := t
	c.Weekdays = append([]int(nil), t.Weekdays...)
	c.Participants = append([]string(nil), t.Participants...)
	c.Sort = append([]string(nil), t.Sort...)
	return c
}

const (
	tagOpen  = "<tag>"
	tagClose = "</tag>"
)

// Token renders t as the verbatim marker embedded in prose: <tag>{json}</tag>.
func (t Tag) Token() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a Tag cannot fail: every field is a plain value.
	_ = enc.Encode(t)
	return tagOpen + strings.TrimRight(buf.String(), "\n") + tagClose
}

// ExtractTags decodes every <tag>{json}</tag> marker found in text, in order.
// Complexity: O(len(text)).
func ExtractTags(text string) ([]Tag, error) {
	var out []Tag
	rest := text
	for {
		i := strings.Index(rest, tagOpen)
		if i < 0 {
			return out, nil
		}
		rest = rest[i+len(tagOpen):]
		j := strings.Index(rest, tagClose)
		if j < 0 {
			return out, fmt.Errorf("ExtractTags: unterminated marker: %w", ErrMalformedTag)
		}
		var t Tag
		if err := json.Unmarshal([]byte(rest[:j]), &t); err != nil {
			return out, fmt.Errorf("ExtractTags: %v: %w", err, ErrMalformedTag)
		}
		out = append(out, t)
		rest = rest[j+len(tagClose):]
	}
}

// Entry is one message, calendar event, policy clause or document section.
// Untagged entries are noise and carry no constraint.
type Entry struct {
	ID   string `json:"id"`
	Seed string `json:"seed,omitempty"`
	Text string `json:"text,omitempty"`
	Tag  *Tag   `json:"tag,omitempty"`
}

// Tagged reports whether e carries a machine-readable payload.
func (e Entry) Tagged() bool {
	return e.Tag != nil && e.Tag.Rule != ""
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	c := e
	if e.Tag != nil {
		t := e.Tag.Clone()
		c.Tag = &t
	}
	return c
}
