package materialize_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mpcbench/allocate"
	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/constraint"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/materialize"
	"github.com/katalvlaran/mpcbench/render"
	"github.com/katalvlaran/mpcbench/world"
)

// stripper renders the seed without any tag token.
type stripper struct{}

func (stripper) Render(_ context.Context, req render.Request) (string, error) {
	return "prose only", nil
}

func plan(t *testing.T, level core.Level, seed int64) (*core.World, *allocate.Plan) {
	t.Helper()
	w, err := world.Build(config.Default(), level, world.WithSeed(7))
	require.NoError(t, err)
	for attempt := uint64(0); attempt < 40; attempt++ {
		p, err := allocate.Allocate(config.Default(), w, core.NewRand(core.DeriveSeed(seed, attempt)))
		if err == nil {
			return w, p
		}
		require.ErrorIs(t, err, allocate.ErrConstruction)
	}
	t.Fatalf("no plan for seed %d", seed)
	return nil, nil
}

func build(t *testing.T, level core.Level, seed int64) (*core.World, *allocate.Plan, *core.Instance) {
	t.Helper()
	w, p := plan(t, level, seed)
	inst, err := materialize.Materialize(context.Background(), config.Default(), w, p, render.Template{}, core.NewRand(seed))
	require.NoError(t, err)
	return w, p, inst
}

// TestMaterialize_Survives compiles the materialized sources and checks the
// protected slots come out as planned.
func TestMaterialize_Survives(t *testing.T) {
	for _, level := range []core.Level{core.LevelEasy, core.LevelMedium, core.LevelHard} {
		for seed := int64(1); seed <= 4; seed++ {
			t.Run(fmt.Sprintf("%s/seed%d", level, seed), func(t *testing.T) {
				w, p, inst := build(t, level, seed)
				rules, err := constraint.Compile(inst.Sources.TaggedEntries(), w.Location())
				require.NoError(t, err)

				var opts []constraint.SetOption
				if level.HasRooms() {
					opts = append(opts, constraint.WithRooms(w.Rooms, p.Capacity))
				}
				set := constraint.NewSet(p.Task.Participants, opts...)
				set.Add(rules...)
				for _, c := range p.Canonical {
					assert.True(t, set.Admits(c), "canonical %s", c.ID)
				}
				for _, d := range p.Distractors {
					assert.False(t, set.Admits(d), "distractor %s", d.ID)
				}
			})
		}
	}
}

// TestMaterialize_Entries checks ids, rendered tokens and assignments.
func TestMaterialize_Entries(t *testing.T) {
	for _, level := range []core.Level{core.LevelEasy, core.LevelMedium, core.LevelHard} {
		t.Run(level.String(), func(t *testing.T) {
			_, p, inst := build(t, level, 9)
			ids := map[string]struct{}{}
			for _, se := range inst.Sources.Entries() {
				_, dup := ids[se.Entry.ID]
				assert.False(t, dup, "duplicate entry id %s", se.Entry.ID)
				ids[se.Entry.ID] = struct{}{}
				if !se.Entry.Tagged() || se.Entry.Text == "" {
					continue
				}
				assert.Contains(t, se.Entry.Text, se.Entry.Tag.Token())
			}

			assert.Len(t, inst.Assignments, len(p.Distractors))
			for _, a := range inst.Assignments {
				assert.Contains(t, inst.Distractors, a.Distractor)
				require.NotEmpty(t, a.Entries)
				for _, id := range a.Entries {
					assert.Contains(t, ids, id)
				}
				if a.Source != core.SourceCalendar && a.Source != core.SourceRooms {
					assert.Len(t, a.Entries, a.Fragments)
				}
			}
			assert.Equal(t, allocate.SlotIDs(p.Canonical), inst.Canonical)
			assert.Len(t, inst.Candidates, len(p.Candidates))
			assert.NotEmpty(t, inst.TaskText)
		})
	}
}

// TestMaterialize_PolicyFormat keeps the level-1 policy as bare JSON.
func TestMaterialize_PolicyFormat(t *testing.T) {
	_, _, easy := build(t, core.LevelEasy, 2)
	assert.Equal(t, core.PolicyJSON, easy.Sources.Policy.Format)
	for _, e := range easy.Sources.Policy.Rules {
		assert.Empty(t, e.Text)
		assert.True(t, e.Tagged())
	}

	_, _, medium := build(t, core.LevelMedium, 2)
	assert.Equal(t, core.PolicyText, medium.Sources.Policy.Format)
	for _, e := range medium.Sources.Policy.Rules {
		assert.NotEmpty(t, e.Text)
	}
}

// TestMaterialize_Links resolves every reference entry to an artifact.
func TestMaterialize_Links(t *testing.T) {
	for _, level := range []core.Level{core.LevelMedium, core.LevelHard} {
		t.Run(level.String(), func(t *testing.T) {
			_, p, inst := build(t, level, 4)
			refs := inst.Sources.ArtifactRefs()
			found := 0
			for _, se := range inst.Sources.TaggedEntries() {
				if se.Entry.Tag.Rule != core.RuleReference {
					continue
				}
				found++
				assert.Contains(t, refs, se.Entry.Tag.Ref)
			}
			assert.Equal(t, len(p.Links), found)

			task := thread(t, inst, materialize.TaskThreadID)
			hasRef := false
			for _, m := range task.Messages {
				if m.Tagged() && m.Tag.Rule == core.RuleReference {
					hasRef = true
				}
			}
			assert.True(t, hasRef, "task thread points at the first source")
		})
	}
}

// TestMaterialize_HiddenTask moves the level-3 request into the task thread.
func TestMaterialize_HiddenTask(t *testing.T) {
	w, p, inst := build(t, core.LevelHard, 6)
	assert.Empty(t, inst.Task.Participants)
	assert.Zero(t, inst.Task.DurationMinutes)
	assert.Zero(t, inst.Task.N)
	for _, id := range p.Task.Participants {
		person, err := w.Person(id)
		require.NoError(t, err)
		assert.NotContains(t, inst.TaskText, person.Name)
	}

	task := thread(t, inst, materialize.TaskThreadID)
	var spec *core.Tag
	for _, m := range task.Messages {
		if m.Tagged() && m.Tag.Rule == core.RuleTaskSpec {
			spec = m.Tag
		}
	}
	require.NotNil(t, spec)
	assert.Equal(t, p.Task.N, spec.Count)
	assert.Len(t, inst.Sources.Rooms, len(w.Rooms))
}

// TestMaterialize_Deterministic renders the same plan twice.
func TestMaterialize_Deterministic(t *testing.T) {
	_, _, a := build(t, core.LevelMedium, 13)
	_, _, b := build(t, core.LevelMedium, 13)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("instances differ (-a +b):\n%s", diff)
	}
}

// TestMaterialize_TagDropped fails when the renderer loses a token.
func TestMaterialize_TagDropped(t *testing.T) {
	w, p := plan(t, core.LevelMedium, 3)
	_, err := materialize.Materialize(context.Background(), config.Default(), w, p, stripper{}, core.NewRand(3))
	require.ErrorIs(t, err, render.ErrTagDropped)
}

// TestMaterialize_MissingSeed reports an incomplete template table.
func TestMaterialize_MissingSeed(t *testing.T) {
	w, p := plan(t, core.LevelMedium, 3)
	cfg := config.Default()
	delete(cfg.Templates, config.SeedNoise)
	_, err := materialize.Materialize(context.Background(), cfg, w, p, render.Template{}, core.NewRand(3))
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.True(t, strings.Contains(err.Error(), config.SeedNoise))
}

func thread(t *testing.T, inst *core.Instance, id string) core.Thread {
	t.Helper()
	for _, th := range inst.Sources.Threads {
		if th.ID == id {
			return th
		}
	}
	t.Fatalf("thread %s missing", id)
	return core.Thread{}
}
