package core

import (
	"fmt"
	"time"
)

// Policy is a named rule set from the world's policy skeleton.
type Policy struct {
	ID    string `json:"policy_id"`
	Title string `json:"title"`
	Rules []Tag  `json:"rules"`
}

// World is the immutable fixture every instance of a level is generated
// against. It is built once and shared read-only across workers.
type World struct {
	ID               string    `json:"world_id"`
	Level            Level     `json:"level"`
	Timezone         string    `json:"timezone"`
	UTCOffsetMinutes int       `json:"utc_offset_minutes"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`

	People   []Person `json:"people"`
	Policies []Policy `json:"policies"`

	// Level 3 only.
	Rooms        []Room             `json:"rooms,omitempty"`
	RoomBookings []RoomAvailability `json:"room_bookings,omitempty"`
}

// Location returns the world's fixed-offset time zone.
func (w *World) Location() *time.Location {
	return time.FixedZone(w.Timezone, w.UTCOffsetMinutes*60)
}

// Bounds returns the global [Start, End) window.
func (w *World) Bounds() Window {
	return Window{Start: w.Start, End: w.End}
}

// Person looks up a person by id.
func (w *World) Person(id string) (Person, error) {
	for _, p := range w.People {
		if p.ID == id {
			return p, nil
		}
	}
	return Person{}, fmt.Errorf("Person(%q): %w", id, ErrUnknownPerson)
}

// PersonByName resolves a display name to a person through the people table.
func (w *World) PersonByName(name string) (Person, error) {
	for _, p := range w.People {
		if p.Name == name {
			return p, nil
		}
	}
	return Person{}, fmt.Errorf("PersonByName(%q): %w", name, ErrUnknownPerson)
}

// Policy looks up a policy skeleton by id.
func (w *World) Policy(id string) (Policy, error) {
	for _, p := range w.Policies {
		if p.ID == id {
			return p, nil
		}
	}
	return Policy{}, fmt.Errorf("Policy(%q): %w", id, ErrUnknownPolicy)
}

// Room looks up a room by id.
func (w *World) Room(id string) (Room, error) {
	for _, r := range w.Rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return Room{}, fmt.Errorf("Room(%q): %w", id, ErrUnknownRoom)
}

// BaselineBookings returns the world bookings of a room (nil when none).
func (w *World) BaselineBookings(roomID string) []Entry {
	for _, ra := range w.RoomBookings {
		if ra.RoomID == roomID {
			return ra.Bookings
		}
	}
	return nil
}
