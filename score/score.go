package score

import (
	"fmt"
	"time"

	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/store"
)

// Pick is one predicted option.
type Pick struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	RoomID string    `json:"room_id,omitempty"`
}

// Prediction is an agent's answer for one instance.
type Prediction struct {
	InstanceID string `json:"instance_id"`
	Candidates []Pick `json:"candidates"`
}

// Result holds the metrics of one instance.
type Result struct {
	InstanceID string  `json:"instance_id"`
	Precision  float64 `json:"precision"`
	Recall     float64 `json:"recall"`
	F1         float64 `json:"f1"`
	ExactMatch bool    `json:"exact_match"`
	// Missing is set when no prediction was given.
	Missing bool `json:"missing,omitempty"`
}

type key struct {
	start, end int64
	room       string
}

func newKey(level core.Level, start, end time.Time, room string) key {
	k := key{start: start.Unix(), end: end.Unix()}
	if level.HasRooms() {
		k.room = room
	}
	return k
}

// Score compares picks with gold as sets.
// Complexity: O(|gold| + |picks|).
func Score(level core.Level, gold []core.Candidate, picks []Pick) Result {
	want := make(map[key]struct{}, len(gold))
	for _, c := range gold {
		want[newKey(level, c.Start, c.End, c.RoomID)] = struct{}{}
	}
	got := make(map[key]struct{}, len(picks))
	for _, p := range picks {
		got[newKey(level, p.Start, p.End, p.RoomID)] = struct{}{}
	}

	if len(want) == 0 && len(got) == 0 {
		return Result{Precision: 1, Recall: 1, F1: 1, ExactMatch: true}
	}
	tp := 0
	for k := range got {
		if _, ok := want[k]; ok {
			tp++
		}
	}
	var r Result
	if len(got) > 0 {
		r.Precision = float64(tp) / float64(len(got))
	}
	if len(want) > 0 {
		r.Recall = float64(tp) / float64(len(want))
	}
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	r.ExactMatch = tp == len(want) && tp == len(got)
	return r
}

// Summary aggregates a batch. Means run over every labelled instance.
type Summary struct {
	Results        []Result `json:"results"`
	Instances      int      `json:"instances"`
	Missing        int      `json:"missing"`
	MeanPrecision  float64  `json:"mean_precision"`
	MeanRecall     float64  `json:"mean_recall"`
	MeanF1         float64  `json:"mean_f1"`
	ExactMatchRate float64  `json:"exact_match_rate"`
}

// Aggregate scores preds against labels. Results follow label order.
// Complexity: O(total options).
func Aggregate(labels []*core.Label, preds []Prediction) (*Summary, error) {
	const method = "Aggregate"
	known := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		known[l.InstanceID] = struct{}{}
	}
	byID := make(map[string][]Pick, len(preds))
	for _, p := range preds {
		if _, ok := known[p.InstanceID]; !ok {
			return nil, fmt.Errorf("%s(%s): %w", method, p.InstanceID, ErrUnknownInstance)
		}
		if _, dup := byID[p.InstanceID]; dup {
			return nil, fmt.Errorf("%s(%s): %w", method, p.InstanceID, ErrDuplicatePrediction)
		}
		byID[p.InstanceID] = p.Candidates
	}

	s := &Summary{Instances: len(labels)}
	for _, l := range labels {
		picks, ok := byID[l.InstanceID]
		r := Score(l.Level, l.Gold, picks)
		r.InstanceID, r.Missing = l.InstanceID, !ok
		if !ok {
			s.Missing++
		}
		s.Results = append(s.Results, r)
		s.MeanPrecision += r.Precision
		s.MeanRecall += r.Recall
		s.MeanF1 += r.F1
		if r.ExactMatch {
			s.ExactMatchRate++
		}
	}
	if n := float64(len(labels)); n > 0 {
		s.MeanPrecision /= n
		s.MeanRecall /= n
		s.MeanF1 /= n
		s.ExactMatchRate /= n
	}
	return s, nil
}

// ReadPredictions loads a predictions JSONL file.
func ReadPredictions(path string) ([]Prediction, error) {
	preds, err := store.ReadJSONL[Prediction](path)
	if err != nil {
		return nil, fmt.Errorf("ReadPredictions: %w", err)
	}
	return preds, nil
}
