package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mpcbench/core"
)

var kst = time.FixedZone("Asia/Seoul", 9*3600)

// TestParseClock covers accepted and rejected clock strings.
func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		err  error
	}{
		{"00:00", 0, nil},
		{"09:15", 555, nil},
		{"24:00", core.MinutesPerDay, nil},
		{"24:15", 0, core.ErrInvalidClock},
		{"9:15", 0, core.ErrInvalidClock},
		{"09:60", 0, core.ErrInvalidClock},
		{"ab:cd", 0, core.ErrInvalidClock},
		{"", 0, core.ErrInvalidClock},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := core.ParseClock(tc.in)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, core.FormatClock(got))
		})
	}
}

// TestWeekday_MondayZero checks the Monday=0 convention across one week.
func TestWeekday_MondayZero(t *testing.T) {
	monday := time.Date(2026, 1, 19, 10, 0, 0, 0, kst)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		assert.Equal(t, i, core.Weekday(d), d.Weekday().String())
	}
	assert.Equal(t, "Wednesday", core.WeekdayName(2))
}

// TestAt builds instants in the world location.
func TestAt(t *testing.T) {
	got, err := core.At("2026-01-20", "14:00", kst)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 1, 20, 14, 0, 0, 0, kst)))

	_, err = core.At("2026-13-01", "14:00", kst)
	assert.ErrorIs(t, err, core.ErrInvalidDate)
}

// TestOverlaps_HalfOpen verifies touching intervals do not overlap.
func TestOverlaps_HalfOpen(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 1, 19, h, m, 0, 0, kst) }
	assert.True(t, core.Overlaps(at(10, 0), at(11, 0), at(10, 30), at(11, 30)))
	assert.False(t, core.Overlaps(at(10, 0), at(11, 0), at(11, 0), at(12, 0)))
	assert.False(t, core.Overlaps(at(11, 0), at(12, 0), at(10, 0), at(11, 0)))
	assert.True(t, core.Overlaps(at(10, 0), at(12, 0), at(10, 15), at(10, 30)))
}

// TestTagToken_RoundTrip embeds tokens in prose and extracts them back.
func TestTagToken_RoundTrip(t *testing.T) {
	a := core.Tag{Version: core.TagVersion, Kind: core.KindThread, Rule: core.RuleBanWindow,
		Date: "2026-01-21", From: "10:00", To: "10:45", Group: "g0001", Part: 1, Parts: 2}
	b := core.Tag{Version: core.TagVersion, Kind: core.KindPolicy, Rule: core.RuleBanDowTime,
		Weekdays: []int{0}, From: "09:00", To: "10:00"}

	text := "Heads up, " + a.Token() + " and also " + b.Token() + "."
	tags, err := core.ExtractTags(text)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, a, tags[0])
	assert.Equal(t, b, tags[1])
	assert.Contains(t, a.Token(), `"rule":"ban_window"`)

	_, err = core.ExtractTags("broken <tag>{\"v\":1")
	assert.ErrorIs(t, err, core.ErrMalformedTag)
	_, err = core.ExtractTags("broken <tag>{nope}</tag>")
	assert.ErrorIs(t, err, core.ErrMalformedTag)
}

// TestEntryClone_Deep ensures clones do not alias tag slices.
func TestEntryClone_Deep(t *testing.T) {
	e := core.Entry{ID: "e1", Tag: &core.Tag{Rule: core.RuleBanDowTime, Weekdays: []int{1}}}
	c := e.Clone()
	c.Tag.Weekdays[0] = 4
	assert.Equal(t, 1, e.Tag.Weekdays[0])
	assert.True(t, c.Tagged())
	assert.False(t, core.Entry{ID: "noise"}.Tagged())
}

// TestSourcesRefs resolves artifact references in sorted order.
func TestSourcesRefs(t *testing.T) {
	s := core.Sources{
		Calendars: []core.Calendar{{PersonID: "person_001"}},
		Policy:    core.PolicyDoc{PolicyID: "POLICY_1"},
		Threads:   []core.Thread{{ID: "thread_001"}},
		Documents: []core.Document{{ID: "doc_001"}},
	}
	assert.Equal(t, []string{
		"calendar:person_001", "document:doc_001", "policy:POLICY_1", "thread:thread_001",
	}, s.ArtifactRefs())

	src, id, ok := core.ParseArtifactRef("document:doc_001")
	require.True(t, ok)
	assert.Equal(t, core.SourceDocument, src)
	assert.Equal(t, "doc_001", id)
	_, _, ok = core.ParseArtifactRef("doc_001")
	assert.False(t, ok)
}

// TestDeriveSeed_Determinism checks derived streams are stable and distinct.
func TestDeriveSeed_Determinism(t *testing.T) {
	a := core.DeriveSeed(42, 0)
	assert.Equal(t, a, core.DeriveSeed(42, 0))
	assert.NotEqual(t, a, core.DeriveSeed(42, 1))
	assert.NotEqual(t, a, core.DeriveSeed(43, 0))

	r1, r2 := core.NewRand(0), core.NewRand(core.DefaultSeed)
	for i := 0; i < 8; i++ {
		assert.Equal(t, r1.Int63(), r2.Int63())
	}
}

// TestParseLevel rejects unknown levels.
func TestParseLevel(t *testing.T) {
	l, err := core.ParseLevel(3)
	require.NoError(t, err)
	assert.True(t, l.HasRooms())
	assert.Equal(t, "level3", l.String())
	_, err = core.ParseLevel(4)
	assert.ErrorIs(t, err, core.ErrInvalidLevel)
}
