// Package constraint compiles machine-readable tags into hard predicates over
// candidate slots and builds the eliminating and range constraints used by
// the allocator.
//
// What:
//
//   - Rule: one complete tag compiled against the world location. Violates
//     decides the slot-level predicate; busy, buffer and room rules are
//     evaluated by Set because they depend on participants and rooms.
//   - Compile: turns tagged entries into rules. Fragment groups are joined
//     first and compile only when every part is present and consistent.
//   - Set: the accumulated rules of one instance. Feasible filters slots,
//     Rooms joins a slot against the eligible free rooms, Admit accepts a new
//     constraint only if it eliminates its targets and leaves the keep set
//     untouched.
//   - Templates: CalendarBusy, PolicyBan, ThreadBan, ThreadDeadline,
//     RoomBlock (eliminating) and CalendarCover, RequiredWindow (range).
//   - Fragment: splits one tag into individually insufficient parts.
//
// Why:
//
//   - Generator and oracle share these predicates, so a slot the allocator
//     eliminates is exactly a slot the oracle removes.
//
// Semantics (all intervals half-open):
//
//   - busy: a participant is busy over [from, to) on date.
//   - buffer_min: a slot must keep Minutes clear of every participant busy
//     interval on both sides.
//   - work_hours: the slot must lie inside [from, to) of its start date on an
//     allowed weekday (empty weekdays allow every day).
//   - lunch_block / ban_dow_time: the slot must not overlap [from, to) on the
//     listed weekdays.
//   - deadline: the slot must start no later than date+to.
//   - ban_window: the slot must not overlap [from, to) on date.
//   - required_window: the slot must lie inside [from, to) on date.
//   - room_booked: the room is unavailable over [from, to) on date.
//
// Complexity:
//
//   - Compile: O(E) for E entries.
//   - Set.Feasible: O(R) for R rules; Set.Rooms: O(M·B) for M rooms and B
//     bookings.
//
// Errors:
//
//   - ErrIncompleteRule: a tag misses a field its rule requires.
//   - ErrUnknownRule: a tag names no known rule.
//   - ErrIncompleteFragment / ErrFragmentConflict: a fragment group cannot
//     be joined.
//   - ErrConstruction: a template cannot eliminate its targets without
//     touching the keep set.
package constraint
