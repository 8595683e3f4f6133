package core

import (
	"fmt"
	"time"
)

// Level is the difficulty tier of a world and its instances.
type Level int

const (
	// LevelEasy uses calendar and a JSON policy only.
	LevelEasy Level = 1
	// LevelMedium adds threads, mail and documents with embedded tags.
	LevelMedium Level = 2
	// LevelHard adds the people-table join and room tables.
	LevelHard Level = 3
)

// Valid reports whether l is one of the three known levels.
func (l Level) Valid() bool {
	return l >= LevelEasy && l <= LevelHard
}

// String renders the level as used in file names ("level1").
func (l Level) String() string {
	return fmt.Sprintf("level%d", int(l))
}

// HasRooms reports whether instances of this level join against rooms.
func (l Level) HasRooms() bool {
	return l == LevelHard
}

// Sources returns the non-calendar sources a level can assign distractors
// to, in a fixed order.
func (l Level) Sources() []Source {
	switch l {
	case LevelEasy:
		return []Source{SourcePolicy}
	case LevelMedium:
		return []Source{SourcePolicy, SourceThread, SourceMail, SourceDocument}
	case LevelHard:
		return []Source{SourcePolicy, SourceThread, SourceMail, SourceDocument, SourceRooms}
	}
	return nil
}

// ParseLevel converts an integer flag into a Level.
func ParseLevel(n int) (Level, error) {
	l := Level(n)
	if !l.Valid() {
		return 0, fmt.Errorf("ParseLevel(%d): %w", n, ErrInvalidLevel)
	}
	return l, nil
}

// Person is an employee of the world. Identity is ID; Name and Email are
// display-only and must round-trip through every join.
type Person struct {
	ID    string `json:"person_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Team  string `json:"team"`
	Role  string `json:"role,omitempty"`
}

// Room is a bookable meeting room (level 3 only).
type Room struct {
	ID        string   `json:"room_id"`
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	Floor     int      `json:"floor"`
	Equipment []string `json:"equipment,omitempty"`
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End-Start.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether [start, end) lies fully inside w.
func (w Window) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
// Complexity: O(1).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Slot is one candidate meeting interval. Slots are produced once per
// instance by the grid generator and never mutated afterwards.
type Slot struct {
	ID    string    `json:"slot_id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// Index is the generation order, used as the final tie-break.
	Index int `json:"index"`
}

// SlotID derives the stable identifier of a slot from its start time.
// Candidate universes have a single duration, so the start is unique.
func SlotID(start time.Time) string {
	return start.Format("20060102T1504")
}

// Overlaps reports whether s intersects [start, end).
func (s Slot) Overlaps(start, end time.Time) bool {
	return Overlaps(s.Start, s.End, start, end)
}

// Date returns the slot's start date in its own location.
func (s Slot) Date() string {
	return s.Start.Format(DateLayout)
}
