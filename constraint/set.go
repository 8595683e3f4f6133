package constraint

import (
	"sort"
	"time"

	"github.com/katalvlaran/mpcbench/core"
)

// Set is the accumulated rule set of one instance, bound to its
// participants and, at level 3, to the rooms eligible for the meeting.
// A Set is not safe for concurrent mutation; Feasible and Rooms are
// read-only.
type Set struct {
	participants map[string]struct{}
	rooms        []core.Room
	withRooms    bool

	slot     []Rule
	busy     []Rule
	buffers  []Rule
	bookings []Rule
	buffer   time.Duration
}

// SetOption customizes NewSet.
type SetOption func(*Set)

// WithRooms enables the room join. Rooms holding fewer than capacity people
// are never eligible; capacity ≤ 0 means the participant count.
func WithRooms(rooms []core.Room, capacity int) SetOption {
	return func(s *Set) {
		if capacity <= 0 {
			capacity = len(s.participants)
		}
		s.withRooms = true
		s.rooms = s.rooms[:0]
		for _, r := range rooms {
			if r.Capacity >= capacity {
				s.rooms = append(s.rooms, r)
			}
		}
		sort.Slice(s.rooms, func(i, j int) bool { return s.rooms[i].ID < s.rooms[j].ID })
	}
}

// NewSet returns an empty set for the given participant ids. Busy entries
// of anyone else never constrain the meeting.
func NewSet(participants []string, opts ...SetOption) *Set {
	s := &Set{participants: make(map[string]struct{}, len(participants))}
	for _, p := range participants {
		s.participants[p] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends rules unconditionally. Data-only rules are ignored.
// Complexity: O(len(rules)).
func (s *Set) Add(rules ...Rule) {
	for _, r := range rules {
		switch r.Tag.Rule {
		case core.RuleTaskSpec, core.RuleReference:
		case core.RuleBusy:
			s.busy = append(s.busy, r)
		case core.RuleBufferMin:
			s.buffers = append(s.buffers, r)
			s.buffer = max(s.buffer, r.buffer)
		case core.RuleRoomBooked:
			s.bookings = append(s.bookings, r)
		default:
			s.slot = append(s.slot, r)
		}
	}
}

// Eligible returns the rooms the join considers, ordered by id.
func (s *Set) Eligible() []core.Room {
	return append([]core.Room(nil), s.rooms...)
}

// HasRooms reports whether the set performs the room join.
func (s *Set) HasRooms() bool {
	return s.withRooms
}

// Buffer returns the effective buffer around participant busy intervals.
func (s *Set) Buffer() time.Duration {
	return s.buffer
}

// Feasible reports whether slot sl passes every slot-level and participant
// rule. The room join is separate (see Rooms).
// Complexity: O(R).
func (s *Set) Feasible(sl core.Slot) bool {
	for _, r := range s.slot {
		if r.Violates(sl) {
			return false
		}
	}
	for _, r := range s.busy {
		if s.attends(r) && r.overlapsPadded(sl.Start, sl.End, s.buffer) {
			return false
		}
	}
	return true
}

// Rooms returns the eligible rooms free over sl, ordered by id. Without the
// room join it returns nil.
// Complexity: O(M·B).
func (s *Set) Rooms(sl core.Slot) []core.Room {
	var out []core.Room
	for _, room := range s.rooms {
		if !s.booked(room.ID, sl) {
			out = append(out, room)
		}
	}
	return out
}

// Admits reports whether sl survives the whole set, including the room join.
func (s *Set) Admits(sl core.Slot) bool {
	if !s.Feasible(sl) {
		return false
	}
	return !s.withRooms || len(s.Rooms(sl)) > 0
}

// Filter returns the slots that pass Feasible, preserving order.
// Complexity: O(n·R).
func (s *Set) Filter(slots []core.Slot) []core.Slot {
	out := make([]core.Slot, 0, len(slots))
	for _, sl := range slots {
		if s.Feasible(sl) {
			out = append(out, sl)
		}
	}
	return out
}

// Explain returns the rules that remove sl: violated slot-level rules,
// overlapping participant busy entries (with the buffer rule when only the
// padding reaches them) and, when no eligible room is left, the bookings
// blocking the eligible rooms.
// Complexity: O(R + M·B).
func (s *Set) Explain(sl core.Slot) []Rule {
	var out []Rule
	for _, r := range s.slot {
		if r.Violates(sl) {
			out = append(out, r)
		}
	}
	padded := false
	for _, r := range s.busy {
		if !s.attends(r) {
			continue
		}
		if r.overlapsPadded(sl.Start, sl.End, 0) {
			out = append(out, r)
		} else if r.overlapsPadded(sl.Start, sl.End, s.buffer) {
			out = append(out, r)
			padded = true
		}
	}
	if padded {
		out = append(out, s.buffers...)
	}
	if s.withRooms && len(out) == 0 && len(s.Rooms(sl)) == 0 {
		for _, r := range s.bookings {
			if s.eligible(r.Tag.Room) && r.overlapsPadded(sl.Start, sl.End, 0) {
				out = append(out, r)
			}
		}
	}
	return out
}

// Admit adds c only if every target is eliminated by c itself and no keep
// slot is touched: c must not hit a keep slot directly, and a keep slot that
// survived before must survive after (buffer rules act on earlier busy
// entries too).
// Complexity: O((T+K)·(R+M·B)).
func (s *Set) Admit(c Constraint, targets, keep []core.Slot) error {
	const method = "Admit"
	trial := s.clone()
	trial.Add(c.Rules...)

	for _, k := range keep {
		if s.hitsTime(c, k, trial.buffer) || s.hitsRoom(c, k) {
			return constructionf(method, "%s (%s) touches kept slot %s", c.ID, c.Name, k.ID)
		}
		if s.Admits(k) && !trial.Admits(k) {
			return constructionf(method, "%s (%s) removes kept slot %s", c.ID, c.Name, k.ID)
		}
	}
	for _, t := range targets {
		if s.hitsTime(c, t, trial.buffer) {
			continue
		}
		if s.withRooms && s.hitsRoom(c, t) && len(trial.Rooms(t)) == 0 {
			continue
		}
		return constructionf(method, "%s (%s) does not eliminate %s", c.ID, c.Name, t.ID)
	}
	s.Add(c.Rules...)
	return nil
}

// hitsTime reports whether a slot-level or participant rule of c removes sl
// given buffer.
func (s *Set) hitsTime(c Constraint, sl core.Slot, buffer time.Duration) bool {
	for _, r := range c.Rules {
		switch r.Tag.Rule {
		case core.RuleBusy:
			if s.attends(r) && r.overlapsPadded(sl.Start, sl.End, buffer) {
				return true
			}
		default:
			if r.Violates(sl) {
				return true
			}
		}
	}
	return false
}

// hitsRoom reports whether c books an eligible room over sl.
func (s *Set) hitsRoom(c Constraint, sl core.Slot) bool {
	for _, r := range c.Rules {
		if r.Tag.Rule == core.RuleRoomBooked && s.eligible(r.Tag.Room) && r.overlapsPadded(sl.Start, sl.End, 0) {
			return true
		}
	}
	return false
}

func (s *Set) attends(r Rule) bool {
	_, ok := s.participants[r.Tag.Person]
	return ok
}

func (s *Set) eligible(roomID string) bool {
	for _, r := range s.rooms {
		if r.ID == roomID {
			return true
		}
	}
	return false
}

func (s *Set) booked(roomID string, sl core.Slot) bool {
	for _, r := range s.bookings {
		if r.Tag.Room == roomID && r.overlapsPadded(sl.Start, sl.End, 0) {
			return true
		}
	}
	return false
}

func (s *Set) clone() *Set {
	c := *s
	c.slot = append([]Rule(nil), s.slot...)
	c.busy = append([]Rule(nil), s.busy...)
	c.buffers = append([]Rule(nil), s.buffers...)
	c.bookings = append([]Rule(nil), s.bookings...)
	return &c
}
