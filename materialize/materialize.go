package materialize

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sort"

	"github.com/katalvlaran/mpcbench/allocate"
	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/constraint"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/render"
)

// Fixed thread ids.
const (
	TaskThreadID    = "thread_task"
	ContextThreadID = "thread_context"

	taskThreadTitle = "planning"
)

// policySeeds maps skeleton rules to their seed templates.
var policySeeds = map[core.Rule]string{
	core.RuleWorkHours:  config.SeedWorkHours,
	core.RuleLunchBlock: config.SeedLunchBlock,
	core.RuleBufferMin:  config.SeedBufferMin,
	core.RuleBanDowTime: config.SeedBanDowTime,
}

var taskSeeds = map[core.Level]string{
	core.LevelEasy:   config.SeedTaskLevel1,
	core.LevelMedium: config.SeedTaskLevel2,
	core.LevelHard:   config.SeedTaskLevel3,
}

// placement records where a group landed.
type placement struct {
	source   core.Source
	artifact string
	entries  []string
}

func (p placement) ref() string {
	return core.ArtifactRef(p.source, p.artifact)
}

// builder carries the state of one Materialize call.
type builder struct {
	ctx context.Context
	cfg *config.Config
	lc  config.LevelConfig
	w   *core.World
	p   *allocate.Plan
	r   render.Renderer
	rng *rand.Rand

	src    core.Sources
	opened map[core.Source]int
	placed map[string]placement
	linked map[string]string
}

// Materialize renders plan p into an instance of w's level. The returned
// instance has no id, uid, seed or attempt; the caller assigns them.
// Complexity: O(E) renderer calls for E entries.
func Materialize(ctx context.Context, cfg *config.Config, w *core.World, p *allocate.Plan, r render.Renderer, rng *rand.Rand) (*core.Instance, error) {
	const method = "Materialize"
	lc, err := cfg.Level(w.Level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	b := &builder{
		ctx:    ctx,
		cfg:    cfg,
		lc:     lc,
		w:      w,
		p:      p,
		r:      r,
		rng:    rng,
		opened: make(map[core.Source]int),
		placed: make(map[string]placement),
		linked: make(map[string]string),
	}
	steps := []func() error{b.calendars, b.policy, b.rooms, b.threads, b.groups, b.links, b.noise}
	for _, step := range steps {
		if err = step(); err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
	}
	b.finish()

	inst := &core.Instance{
		Level:       w.Level,
		WorldID:     w.ID,
		Task:        p.Task,
		Difficulty:  p.Difficulty,
		Candidates:  append([]core.Slot(nil), p.Candidates...),
		Canonical:   allocate.SlotIDs(p.Canonical),
		Distractors: allocate.SlotIDs(p.Distractors),
		Assignments: b.assignments(),
		Sources:     b.src,
	}
	inst.Task.Participants = append([]string(nil), p.Task.Participants...)
	if inst.TaskText, err = b.taskText(); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if w.Level.HasRooms() {
		inst.Task.Participants = nil
		inst.Task.DurationMinutes = 0
		inst.Task.N = 0
	}
	return inst, nil
}

// calendars opens one calendar per participant and fills the noise
// calendars of people outside the meeting. Noise events are drawn from
// candidates that end on their start date.
func (b *builder) calendars() error {
	for _, id := range b.p.Task.Participants {
		b.src.Calendars = append(b.src.Calendars, core.Calendar{PersonID: id})
	}
	var others []string
	for _, person := range b.w.People {
		if !slices.Contains(b.p.Task.Participants, person.ID) {
			others = append(others, person.ID)
		}
	}
	n := min(b.lc.NoiseCalendars, len(others))
	noise := allocate.Group{Source: core.SourceCalendar, Seed: config.SeedBusy}
	for _, i := range b.rng.Perm(len(others))[:n] {
		events := 1 + b.rng.Intn(2)
		for k := 0; k < events && len(b.p.Candidates) > 0; k++ {
			s := b.p.Candidates[b.rng.Intn(len(b.p.Candidates))]
			start := s.Start.In(b.w.Location())
			to := core.MinuteOfDay(start) + int(s.End.Sub(s.Start).Minutes())
			if to > core.MinutesPerDay {
				// Overnight slots have no single-date busy interval.
				continue
			}
			t := core.Tag{
				Version: core.TagVersion,
				Kind:    core.KindBusy,
				Rule:    core.RuleBusy,
				Person:  others[i],
				Date:    start.Format(core.DateLayout),
				From:    core.FormatClock(core.MinuteOfDay(start)),
				To:      core.FormatClock(to),
			}
			if _, err := b.add(core.SourceCalendar, others[i], noise, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// policy writes the skeleton of the task policy. The addendum arrives with
// the policy groups.
func (b *builder) policy() error {
	pol, err := b.w.Policy(b.p.Task.PolicyID)
	if err != nil {
		return err
	}
	b.src.Policy = core.PolicyDoc{PolicyID: pol.ID, Title: pol.Title, Format: core.PolicyText}
	if b.w.Level == core.LevelEasy {
		b.src.Policy.Format = core.PolicyJSON
	}
	for _, t := range pol.Rules {
		seed, ok := policySeeds[t.Rule]
		if !ok {
			return fmt.Errorf("policy(%s): no seed for %s: %w", pol.ID, t.Rule, ErrUnknownSource)
		}
		g := allocate.Group{Source: core.SourcePolicy, Seed: seed}
		if _, err = b.add(core.SourcePolicy, pol.ID, g, t); err != nil {
			return err
		}
	}
	return nil
}

// rooms copies the baseline availability at level 3.
func (b *builder) rooms() error {
	if !b.w.Level.HasRooms() {
		return nil
	}
	for _, ra := range b.w.RoomBookings {
		out := core.RoomAvailability{RoomID: ra.RoomID}
		for _, e := range ra.Bookings {
			out.Bookings = append(out.Bookings, e.Clone())
		}
		b.src.Rooms = append(b.src.Rooms, out)
	}
	return nil
}

// threads opens the task thread when something lands there and the context
// thread when noise is configured.
func (b *builder) threads() error {
	needTask := false
	for _, g := range b.p.Groups {
		if g.Source == core.SourceThread && g.Distractor == "" {
			needTask = true
		}
	}
	for _, l := range b.p.Links {
		if l.From == allocate.TaskThread {
			needTask = true
		}
	}
	if needTask {
		b.open(core.SourceThread, TaskThreadID, taskThreadTitle)
	}
	if b.lc.NoiseMessages > 0 {
		title, err := b.cfg.PickSeed(config.SeedThreadTitle, b.rng)
		if err != nil {
			return err
		}
		b.open(core.SourceThread, ContextThreadID, title)
	}
	return nil
}

// groups places every group's tags into artifacts.
func (b *builder) groups() error {
	for _, g := range b.p.Groups {
		pl := placement{source: g.Source}
		own := ""
		switch g.Source {
		case core.SourceThread, core.SourceMail, core.SourceDocument:
			var err error
			if own, err = b.openGroup(g); err != nil {
				return err
			}
		}
		for _, t := range g.Tags {
			artifact := own
			if artifact == "" {
				var err error
				if artifact, err = b.artifactFor(g, t); err != nil {
					return err
				}
			}
			id, err := b.add(g.Source, artifact, g, t)
			if err != nil {
				return err
			}
			if pl.artifact == "" {
				pl.artifact = artifact
			}
			pl.entries = append(pl.entries, id)
		}
		b.placed[g.ID] = pl
	}
	return nil
}

// links writes one reference entry per link into the origin artifact.
func (b *builder) links() error {
	for _, l := range b.p.Links {
		to, ok := b.placed[l.To]
		if !ok {
			return fmt.Errorf("links(%s->%s): %w", l.From, l.To, ErrDanglingLink)
		}
		from := placement{source: core.SourceThread, artifact: TaskThreadID}
		if l.From != allocate.TaskThread {
			if from, ok = b.placed[l.From]; !ok {
				return fmt.Errorf("links(%s->%s): %w", l.From, l.To, ErrDanglingLink)
			}
		}
		kind := core.KindThread
		if from.source == core.SourcePolicy {
			kind = core.KindPolicy
		}
		g := allocate.Group{Source: from.source, Seed: config.SeedReference}
		if _, err := b.add(from.source, from.artifact, g, constraint.Reference(kind, to.ref())); err != nil {
			return err
		}
		b.linked[l.From] = to.ref()
	}
	return nil
}

// noise inserts untagged chatter at random positions of every thread, mail
// and document.
func (b *builder) noise() error {
	if b.lc.NoiseMessages == 0 {
		return nil
	}
	var lists []*[]core.Entry
	var ids []string
	for i := range b.src.Threads {
		lists, ids = append(lists, &b.src.Threads[i].Messages), append(ids, b.src.Threads[i].ID)
	}
	for i := range b.src.Mail {
		lists, ids = append(lists, &b.src.Mail[i].Messages), append(ids, b.src.Mail[i].ID)
	}
	for i := range b.src.Documents {
		lists, ids = append(lists, &b.src.Documents[i].Sections), append(ids, b.src.Documents[i].ID)
	}
	for i, list := range lists {
		for k := 0; k < b.lc.NoiseMessages; k++ {
			seed, err := b.cfg.PickSeed(config.SeedNoise, b.rng)
			if err != nil {
				return err
			}
			text, err := b.render(config.SeedNoise, seed, nil)
			if err != nil {
				return err
			}
			e := core.Entry{ID: entryID(core.SourceThread, ids[i], len(*list)+1), Seed: seed, Text: text}
			*list = slices.Insert(*list, b.rng.Intn(len(*list)+1), e)
		}
	}
	return nil
}

// finish orders calendars by person and timed entries by date and time.
func (b *builder) finish() {
	sort.Slice(b.src.Calendars, func(i, j int) bool {
		return b.src.Calendars[i].PersonID < b.src.Calendars[j].PersonID
	})
	for i := range b.src.Calendars {
		sortTimed(b.src.Calendars[i].Events)
	}
	for i := range b.src.Rooms {
		sortTimed(b.src.Rooms[i].Bookings)
	}
}

func sortTimed(entries []core.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, c := entries[i].Tag, entries[j].Tag
		if a == nil || c == nil {
			return false
		}
		if a.Date != c.Date {
			return a.Date < c.Date
		}
		return a.From < c.From
	})
}

// assignments records every group that eliminates a distractor.
func (b *builder) assignments() []core.Assignment {
	var out []core.Assignment
	for _, g := range b.p.Groups {
		if g.Distractor == "" {
			continue
		}
		pl := b.placed[g.ID]
		out = append(out, core.Assignment{
			Distractor: g.Distractor,
			Source:     g.Source,
			Constraint: g.ID,
			Entries:    append([]string(nil), pl.entries...),
			Fragments:  g.Fragments,
			Link:       b.linked[g.ID],
		})
	}
	return out
}

// taskText renders the request shown to the agent.
func (b *builder) taskText() (string, error) {
	name := taskSeeds[b.w.Level]
	seed, err := b.cfg.PickSeed(name, b.rng)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(b.p.Task.Participants))
	for _, id := range b.p.Task.Participants {
		person, err := b.w.Person(id)
		if err != nil {
			return "", err
		}
		names = append(names, person.Name)
	}
	return b.render(name, seed, taskValues(b.w, b.p.Task, names, b.p.Sort, b.p.Task.PolicyID))
}

// openGroup opens the artifact of a thread, mail or document group. Groups
// without a distractor belong to the task thread.
func (b *builder) openGroup(g allocate.Group) (string, error) {
	if g.Source == core.SourceThread && g.Distractor == "" {
		return TaskThreadID, nil
	}
	var titleSeed, prefix string
	switch g.Source {
	case core.SourceThread:
		titleSeed, prefix = config.SeedThreadTitle, "thread"
	case core.SourceMail:
		titleSeed, prefix = config.SeedMailSubject, "mail"
	case core.SourceDocument:
		titleSeed, prefix = config.SeedDocumentTitle, "doc"
	}
	title, err := b.cfg.PickSeed(titleSeed, b.rng)
	if err != nil {
		return "", err
	}
	b.opened[g.Source]++
	id := fmt.Sprintf("%s_%03d", prefix, b.opened[g.Source])
	b.open(g.Source, id, title)
	return id, nil
}

func (b *builder) open(src core.Source, id, title string) {
	switch src {
	case core.SourceThread:
		b.src.Threads = append(b.src.Threads, core.Thread{ID: id, Title: title})
	case core.SourceMail:
		b.src.Mail = append(b.src.Mail, core.Thread{ID: id, Title: title})
	case core.SourceDocument:
		b.src.Documents = append(b.src.Documents, core.Document{ID: id, Title: title})
	}
}

// artifactFor resolves the per-tag artifact of calendar, policy and rooms
// groups. A fragment without the key field follows its group.
func (b *builder) artifactFor(g allocate.Group, t core.Tag) (string, error) {
	switch g.Source {
	case core.SourcePolicy:
		return b.src.Policy.PolicyID, nil
	case core.SourceCalendar:
		if t.Person != "" {
			return t.Person, nil
		}
		for _, x := range g.Tags {
			if x.Person != "" {
				return x.Person, nil
			}
		}
	case core.SourceRooms:
		if !b.w.Level.HasRooms() {
			break
		}
		if t.Room != "" {
			return t.Room, nil
		}
		for _, x := range g.Tags {
			if x.Room != "" {
				return x.Room, nil
			}
		}
	}
	return "", fmt.Errorf("artifactFor(%s): %s: %w", g.ID, g.Source, ErrUnknownSource)
}

// list returns the entry list of an artifact, creating calendars and room
// records on first use.
func (b *builder) list(src core.Source, id string) (*[]core.Entry, error) {
	switch src {
	case core.SourceCalendar:
		for i := range b.src.Calendars {
			if b.src.Calendars[i].PersonID == id {
				return &b.src.Calendars[i].Events, nil
			}
		}
		b.src.Calendars = append(b.src.Calendars, core.Calendar{PersonID: id})
		return &b.src.Calendars[len(b.src.Calendars)-1].Events, nil
	case core.SourcePolicy:
		return &b.src.Policy.Rules, nil
	case core.SourceThread:
		for i := range b.src.Threads {
			if b.src.Threads[i].ID == id {
				return &b.src.Threads[i].Messages, nil
			}
		}
	case core.SourceMail:
		for i := range b.src.Mail {
			if b.src.Mail[i].ID == id {
				return &b.src.Mail[i].Messages, nil
			}
		}
	case core.SourceDocument:
		for i := range b.src.Documents {
			if b.src.Documents[i].ID == id {
				return &b.src.Documents[i].Sections, nil
			}
		}
	case core.SourceRooms:
		for i := range b.src.Rooms {
			if b.src.Rooms[i].RoomID == id {
				return &b.src.Rooms[i].Bookings, nil
			}
		}
		b.src.Rooms = append(b.src.Rooms, core.RoomAvailability{RoomID: id})
		return &b.src.Rooms[len(b.src.Rooms)-1].Bookings, nil
	}
	return nil, fmt.Errorf("list(%s:%s): %w", src, id, ErrUnknownSource)
}

// add renders t as an entry of g and appends it to the artifact.
func (b *builder) add(src core.Source, artifact string, g allocate.Group, t core.Tag) (string, error) {
	e, err := b.entry(g, t)
	if err != nil {
		return "", err
	}
	list, err := b.list(src, artifact)
	if err != nil {
		return "", err
	}
	e.ID = entryID(src, artifact, len(*list)+1)
	*list = append(*list, e)
	return e.ID, nil
}

// entry renders one tag. Level-1 policy clauses stay bare JSON.
func (b *builder) entry(g allocate.Group, t core.Tag) (core.Entry, error) {
	tag := t.Clone()
	if g.Source == core.SourcePolicy && b.src.Policy.Format == core.PolicyJSON {
		return core.Entry{Tag: &tag}, nil
	}
	name, vals := g.Seed, tagValues(b.w, tag)
	if tag.Fragmented() {
		name = config.SeedFragment
		vals = map[string]string{"group": tag.Group, "detail": detail(b.w, tag)}
	}
	if name == config.SeedBusy {
		title, err := b.cfg.PickSeed(config.SeedEventTitle, b.rng)
		if err != nil {
			return core.Entry{}, err
		}
		vals["title"] = title
	}
	seed, err := b.cfg.PickSeed(name, b.rng)
	if err != nil {
		return core.Entry{}, err
	}
	text, err := b.render(name, seed, vals, tag)
	if err != nil {
		return core.Entry{}, err
	}
	return core.Entry{Seed: seed, Text: text, Tag: &tag}, nil
}

// render runs the renderer and checks every tag survived.
func (b *builder) render(kind, seed string, vals map[string]string, tags ...core.Tag) (string, error) {
	text, err := b.r.Render(b.ctx, render.Request{Kind: kind, Seed: seed, Values: vals, Tags: tags})
	if err != nil {
		return "", fmt.Errorf("render(%s): %w", kind, err)
	}
	if err = render.Verify(text, tags); err != nil {
		return "", fmt.Errorf("render(%s): %w", kind, err)
	}
	return text, nil
}

// entryID numbers entries per artifact.
func entryID(src core.Source, artifact string, n int) string {
	switch src {
	case core.SourceCalendar:
		return fmt.Sprintf("evt_%s_%02d", artifact, n)
	case core.SourcePolicy:
		return fmt.Sprintf("rule_%02d", n)
	case core.SourceRooms:
		return fmt.Sprintf("rb_%s_%02d", artifact, n)
	}
	return fmt.Sprintf("%s_%02d", artifact, n)
}
