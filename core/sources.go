package core

import (
	"sort"
	"strings"
)

// PolicyFormat distinguishes the level-1 JSON policy from the prose policy
// with embedded tags used at higher levels.
type PolicyFormat string

const (
	PolicyJSON PolicyFormat = "json"
	PolicyText PolicyFormat = "text"
)

// Calendar holds one person's events for an instance.
type Calendar struct {
	PersonID string  `json:"person_id"`
	Events   []Entry `json:"events"`
}

// PolicyDoc is the instance's policy artifact: the world skeleton rules for
// the chosen policy plus any instance addendum.
type PolicyDoc struct {
	PolicyID string       `json:"policy_id"`
	Title    string       `json:"title"`
	Format   PolicyFormat `json:"format"`
	Rules    []Entry      `json:"rules"`
}

// Thread is a chat channel conversation or a mail thread.
type Thread struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Messages []Entry `json:"messages"`
}

// Document is a shared document made of sections.
type Document struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Sections []Entry `json:"sections"`
}

// RoomAvailability lists the bookings of one room; an independent record
// joined against Room.ID.
type RoomAvailability struct {
	RoomID   string  `json:"room_id"`
	Bookings []Entry `json:"bookings"`
}

// Sources bundles every per-instance artifact. The oracle reads only the
// Tag payloads found here.
type Sources struct {
	Calendars []Calendar         `json:"calendars"`
	Policy    PolicyDoc          `json:"policy"`
	Threads   []Thread           `json:"threads,omitempty"`
	Mail      []Thread           `json:"mail,omitempty"`
	Documents []Document         `json:"documents,omitempty"`
	Rooms     []RoomAvailability `json:"rooms,omitempty"`
}

// SourcedEntry is an Entry together with where it was found.
type SourcedEntry struct {
	Source   Source
	Artifact string
	Entry    Entry
}

// Entries walks every entry in a fixed order: calendars, policy, threads,
// mail, documents, rooms, each in artifact order.
// Complexity: O(total entries).
func (s *Sources) Entries() []SourcedEntry {
	var out []SourcedEntry
	for _, c := range s.Calendars {
		for _, e := range c.Events {
			out = append(out, SourcedEntry{Source: SourceCalendar, Artifact: c.PersonID, Entry: e})
		}
	}
	for _, e := range s.Policy.Rules {
		out = append(out, SourcedEntry{Source: SourcePolicy, Artifact: s.Policy.PolicyID, Entry: e})
	}
	for _, t := range s.Threads {
		for _, e := range t.Messages {
			out = append(out, SourcedEntry{Source: SourceThread, Artifact: t.ID, Entry: e})
		}
	}
	for _, t := range s.Mail {
		for _, e := range t.Messages {
			out = append(out, SourcedEntry{Source: SourceMail, Artifact: t.ID, Entry: e})
		}
	}
	for _, d := range s.Documents {
		for _, e := range d.Sections {
			out = append(out, SourcedEntry{Source: SourceDocument, Artifact: d.ID, Entry: e})
		}
	}
	for _, r := range s.Rooms {
		for _, e := range r.Bookings {
			out = append(out, SourcedEntry{Source: SourceRooms, Artifact: r.RoomID, Entry: e})
		}
	}
	return out
}

// TaggedEntries returns only the entries that carry a Tag.
func (s *Sources) TaggedEntries() []SourcedEntry {
	all := s.Entries()
	out := all[:0]
	for _, se := range all {
		if se.Entry.Tagged() {
			out = append(out, se)
		}
	}
	return out
}

// ArtifactRef renders the reference string used in Tag.Ref.
func ArtifactRef(src Source, id string) string {
	return string(src) + ":" + id
}

// ParseArtifactRef splits a reference into source and artifact id.
func ParseArtifactRef(ref string) (Source, string, bool) {
	src, id, ok := strings.Cut(ref, ":")
	if !ok || id == "" {
		return "", "", false
	}
	return Source(src), id, true
}

// ArtifactRefs returns the sorted set of every artifact reference that
// resolves inside s.
func (s *Sources) ArtifactRefs() []string {
	var refs []string
	for _, c := range s.Calendars {
		refs = append(refs, ArtifactRef(SourceCalendar, c.PersonID))
	}
	if s.Policy.PolicyID != "" {
		refs = append(refs, ArtifactRef(SourcePolicy, s.Policy.PolicyID))
	}
	for _, t := range s.Threads {
		refs = append(refs, ArtifactRef(SourceThread, t.ID))
	}
	for _, t := range s.Mail {
		refs = append(refs, ArtifactRef(SourceMail, t.ID))
	}
	for _, d := range s.Documents {
		refs = append(refs, ArtifactRef(SourceDocument, d.ID))
	}
	for _, r := range s.Rooms {
		refs = append(refs, ArtifactRef(SourceRooms, r.RoomID))
	}
	sort.Strings(refs)
	return refs
}

// Clone returns a deep copy of s.
func (s *Sources) Clone() Sources {
	cloneEntries := func(in []Entry) []Entry {
		if in == nil {
			return nil
		}
		out := make([]Entry, len(in))
		for i, e := range in {
			out[i] = e.Clone()
		}
		return out
	}
	c := Sources{Policy: s.Policy}
	c.Policy.Rules = cloneEntries(s.Policy.Rules)
	for _, cal := range s.Calendars {
		c.Calendars = append(c.Calendars, Calendar{PersonID: cal.PersonID, Events: cloneEntries(cal.Events)})
	}
	for _, t := range s.Threads {
		c.Threads = append(c.Threads, Thread{ID: t.ID, Title: t.Title, Messages: cloneEntries(t.Messages)})
	}
	for _, t := range s.Mail {
		c.Mail = append(c.Mail, Thread{ID: t.ID, Title: t.Title, Messages: cloneEntries(t.Messages)})
	}
	for _, d := range s.Documents {
		c.Documents = append(c.Documents, Document{ID: d.ID, Title: d.Title, Sections: cloneEntries(d.Sections)})
	}
	for _, r := range s.Rooms {
		c.Rooms = append(c.Rooms, RoomAvailability{RoomID: r.RoomID, Bookings: cloneEntries(r.Bookings)})
	}
	return c
}
