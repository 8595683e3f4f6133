package score_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/score"
)

var seoul = time.FixedZone("Asia/Seoul", 9*60*60)

func at(hour, min int) time.Time {
	return time.Date(2026, 1, 20, hour, min, 0, 0, seoul)
}

func gold(room string, hours ...int) []core.Candidate {
	out := make([]core.Candidate, len(hours))
	for i, h := range hours {
		out[i] = core.Candidate{SlotID: core.SlotID(at(h, 0)), Start: at(h, 0), End: at(h, 30), RoomID: room, Rank: i + 1}
	}
	return out
}

func pick(room string, h int) score.Pick {
	return score.Pick{Start: at(h, 0), End: at(h, 30), RoomID: room}
}

func TestScore(t *testing.T) {
	cases := []struct {
		name     string
		level    core.Level
		gold     []core.Candidate
		picks    []score.Pick
		p, r, f1 float64
		exact    bool
	}{
		{"exact", core.LevelEasy, gold("", 9, 10), []score.Pick{pick("", 10), pick("", 9)}, 1, 1, 1, true},
		{"half", core.LevelEasy, gold("", 9, 10), []score.Pick{pick("", 9), pick("", 14)}, 0.5, 0.5, 0.5, false},
		{"subset", core.LevelMedium, gold("", 9, 10), []score.Pick{pick("", 9)}, 1, 0.5, 2.0 / 3.0, false},
		{"empty pred", core.LevelEasy, gold("", 9), nil, 0, 0, 0, false},
		{"both empty", core.LevelEasy, nil, nil, 1, 1, 1, true},
		{"duplicates collapse", core.LevelEasy, gold("", 9), []score.Pick{pick("", 9), pick("", 9)}, 1, 1, 1, true},
		{"room ignored below 3", core.LevelMedium, gold("", 9), []score.Pick{pick("room_001", 9)}, 1, 1, 1, true},
		{"room counts at 3", core.LevelHard, gold("room_001", 9), []score.Pick{pick("room_002", 9)}, 0, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := score.Score(tc.level, tc.gold, tc.picks)
			assert.InDelta(t, tc.p, r.Precision, 1e-9)
			assert.InDelta(t, tc.r, r.Recall, 1e-9)
			assert.InDelta(t, tc.f1, r.F1, 1e-9)
			assert.Equal(t, tc.exact, r.ExactMatch)
		})
	}
}

// TestScore_Instants compares times regardless of the offset they are
// written in.
func TestScore_Instants(t *testing.T) {
	p := score.Pick{Start: at(9, 0).UTC(), End: at(9, 30).UTC()}
	assert.True(t, score.Score(core.LevelEasy, gold("", 9), []score.Pick{p}).ExactMatch)
}

func TestAggregate(t *testing.T) {
	labels := []*core.Label{
		{InstanceID: "a", Level: core.LevelEasy, Gold: gold("", 9, 10)},
		{InstanceID: "b", Level: core.LevelEasy, Gold: gold("", 11)},
	}
	s, err := score.Aggregate(labels, []score.Prediction{{InstanceID: "a", Candidates: []score.Pick{pick("", 9), pick("", 10)}}})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Instances)
	assert.Equal(t, 1, s.Missing)
	assert.True(t, s.Results[1].Missing)
	assert.InDelta(t, 0.5, s.MeanF1, 1e-9)
	assert.InDelta(t, 0.5, s.ExactMatchRate, 1e-9)

	_, err = score.Aggregate(labels, []score.Prediction{{InstanceID: "zzz"}})
	assert.ErrorIs(t, err, score.ErrUnknownInstance)
	_, err = score.Aggregate(labels, []score.Prediction{{InstanceID: "a"}, {InstanceID: "a"}})
	assert.ErrorIs(t, err, score.ErrDuplicatePrediction)
}

func TestReadPredictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pred.jsonl")
	data := `{"instance_id":"a","candidates":[{"start":"2026-01-20T09:00:00+09:00","end":"2026-01-20T09:30:00+09:00"}]}

{"instance_id":"b","candidates":[]}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	preds, err := score.ReadPredictions(path)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.True(t, preds[0].Candidates[0].Start.Equal(at(9, 0)))
	assert.Empty(t, preds[1].Candidates)
}
