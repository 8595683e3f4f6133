package constraint_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/world"
)

func fixture(t *testing.T) *core.World {
	t.Helper()
	w, err := world.Build(config.Default(), core.LevelHard, world.WithSeed(3))
	require.NoError(t, err)
	return w
}

// slot builds a slot of minutes length starting at date+clock in loc.
func slot(t *testing.T, loc *time.Location, date, clock string, minutes int) core.Slot {
	t.Helper()
	start, err := core.At(date, clock, loc)
	require.NoError(t, err)
	return core.Slot{ID: core.SlotID(start), Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

func entries(src core.Source, tags ...core.Tag) []core.SourcedEntry {
	out := make([]core.SourcedEntry, len(tags))
	for i := range tags {
		tag := tags[i]
		out[i] = core.SourcedEntry{Source: src, Artifact: "a", Entry: core.Entry{ID: string(rune('a' + i)), Tag: &tag}}
	}
	return out
}
