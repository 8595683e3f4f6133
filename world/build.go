package world

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/core"
)

const (
	methodBuild    = "Build"
	methodValidate = "Validate"

	// maxBookingDraws bounds placement retries for one baseline booking.
	maxBookingDraws = 8
)

// bookingLengths are the baseline booking durations in minutes.
var bookingLengths = []int{30, 60, 90}

// Build materializes the world of a level from cfg.
//
// Steps:
//  1. Resolve bounds [start_date, start_date+days) in the fixed-offset zone.
//  2. People and policy skeletons, in roster order.
//  3. Level 3: rooms table and baseline bookings (weekdays only).
//  4. Validate the result.
//
// Complexity: O(P + R·D·B) for P people, R rooms, D days, B bookings per day.
func Build(cfg *config.Config, level core.Level, opts ...Option) (*core.World, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%s(level=%d): %w", methodBuild, int(level), core.ErrInvalidLevel)
	}
	bc := newBuildConfig(level, opts...)
	wc := cfg.World

	loc := time.FixedZone(wc.Timezone, wc.UTCOffsetMinutes*60)
	start, err := core.ParseDate(wc.StartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuild, err)
	}

	w := &core.World{
		ID:               bc.id,
		Level:            level,
		Timezone:         wc.Timezone,
		UTCOffsetMinutes: wc.UTCOffsetMinutes,
		Start:            start,
		End:              start.AddDate(0, 0, wc.Days),
		People:           buildPeople(wc),
		Policies:         buildPolicies(wc),
	}
	if level.HasRooms() {
		w.Rooms = buildRooms(wc)
		w.RoomBookings = buildBookings(wc, w, bc)
	}

	if err = Validate(w); err != nil {
		return nil, err
	}
	return w, nil
}

func buildPeople(wc config.WorldConfig) []core.Person {
	people := make([]core.Person, 0, len(wc.People))
	for i, pc := range wc.People {
		people = append(people, core.Person{
			ID:    fmt.Sprintf("person_%03d", i+1),
			Name:  pc.Name,
			Email: strings.ToLower(strings.ReplaceAll(pc.Name, " ", ".")) + "@" + wc.EmailDomain,
			Team:  pc.Team,
			Role:  pc.Role,
		})
	}
	return people
}

func buildPolicies(wc config.WorldConfig) []core.Policy {
	policies := make([]core.Policy, 0, len(wc.Policies))
	for _, pc := range wc.Policies {
		p := core.Policy{ID: pc.ID, Title: pc.Title}
		for _, rc := range pc.Rules {
			p.Rules = append(p.Rules, core.Tag{
				Version:  core.TagVersion,
				Kind:     core.KindPolicy,
				Rule:     core.Rule(rc.Rule),
				From:     rc.From,
				To:       rc.To,
				Weekdays: append([]int(nil), rc.Weekdays...),
				Minutes:  rc.Minutes,
			})
		}
		policies = append(policies, p)
	}
	return policies
}

func buildRooms(wc config.WorldConfig) []core.Room {
	rooms := make([]core.Room, 0, len(wc.Rooms))
	for i, rc := range wc.Rooms {
		rooms = append(rooms, core.Room{
			ID:        fmt.Sprintf("room_%03d", i+1),
			Name:      rc.Name,
			Capacity:  rc.Capacity,
			Floor:     rc.Floor,
			Equipment: append([]string(nil), rc.Equipment...),
		})
	}
	return rooms
}

// buildBookings draws non-overlapping baseline bookings per room and
// weekday inside the configured booking hours. Draws that collide with an
// earlier booking are retried up to maxBookingDraws times, then skipped.
func buildBookings(wc config.WorldConfig, w *core.World, bc buildConfig) []core.RoomAvailability {
	type span struct{ from, to int }
	openMin, closeMin := wc.BookingHours.Min*60, wc.BookingHours.Max*60

	out := make([]core.RoomAvailability, 0, len(w.Rooms))
	for _, room := range w.Rooms {
		ra := core.RoomAvailability{RoomID: room.ID}
		for d := 0; d < wc.Days; d++ {
			day := w.Start.AddDate(0, 0, d)
			if core.Weekday(day) > 4 {
				continue
			}
			var taken []span
			n := wc.RoomBookingsPerDay.Draw(bc.rng)
			for k := 0; k < n; k++ {
				for attempt := 0; attempt < maxBookingDraws; attempt++ {
					length := bookingLengths[bc.rng.Intn(len(bookingLengths))]
					slots := (closeMin - openMin - length) / 15
					if slots < 0 {
						break
					}
					from := openMin + 15*bc.rng.Intn(slots+1)
					s := span{from, from + length}
					clash := false
					for _, t := range taken {
						if s.from < t.to && t.from < s.to {
							clash = true
							break
						}
					}
					if clash {
						continue
					}
					taken = append(taken, s)
					break
				}
			}
			sort.Slice(taken, func(i, j int) bool { return taken[i].from < taken[j].from })
			for _, s := range taken {
				ra.Bookings = append(ra.Bookings, core.Entry{
					ID: fmt.Sprintf("rb_%s_%02d", room.ID, len(ra.Bookings)+1),
					Tag: &core.Tag{
						Version: core.TagVersion,
						Kind:    core.KindRoom,
						Rule:    core.RuleRoomBooked,
						Room:    room.ID,
						Date:    day.Format(core.DateLayout),
						From:    core.FormatClock(s.from),
						To:      core.FormatClock(s.to),
					},
				})
			}
		}
		out = append(out, ra)
	}
	return out
}

// Validate checks the identity invariants joins depend on: unique person
// ids, names and emails; unique policy and room ids; bookings that name an
// existing room; non-empty bounds.
// Complexity: O(P + R + B).
func Validate(w *core.World) error {
	if w.ID == "" {
		return worldErrorf(methodValidate, "empty world id")
	}
	if !w.End.After(w.Start) {
		return worldErrorf(methodValidate, "end %s not after start %s", w.End, w.Start)
	}
	if err := unique("person id", len(w.People), func(i int) string { return w.People[i].ID }); err != nil {
		return err
	}
	if err := unique("person name", len(w.People), func(i int) string { return w.People[i].Name }); err != nil {
		return err
	}
	if err := unique("person email", len(w.People), func(i int) string { return w.People[i].Email }); err != nil {
		return err
	}
	if err := unique("policy id", len(w.Policies), func(i int) string { return w.Policies[i].ID }); err != nil {
		return err
	}
	if err := unique("room id", len(w.Rooms), func(i int) string { return w.Rooms[i].ID }); err != nil {
		return err
	}
	for _, ra := range w.RoomBookings {
		if _, err := w.Room(ra.RoomID); err != nil {
			return worldErrorf(methodValidate, "bookings for unknown room %q", ra.RoomID)
		}
		for _, b := range ra.Bookings {
			if !b.Tagged() || b.Tag.Rule != core.RuleRoomBooked || b.Tag.Room != ra.RoomID {
				return worldErrorf(methodValidate, "booking %q is not a room_booked tag for %q", b.ID, ra.RoomID)
			}
		}
	}
	return nil
}

func unique(what string, n int, key func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		k := key(i)
		if k == "" {
			return worldErrorf(methodValidate, "empty %s at %d", what, i)
		}
		if _, dup := seen[k]; dup {
			return worldErrorf(methodValidate, "duplicate %s %q", what, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}
