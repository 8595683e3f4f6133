package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/metrics"
)

func TestRecorder_Counts(t *testing.T) {
	r := metrics.New()
	r.Attempt(core.LevelEasy, metrics.Retried)
	r.Attempt(core.LevelEasy, metrics.Accepted)
	r.Retry(core.LevelEasy, "construction")
	r.Instance(core.LevelEasy, metrics.Accepted, 2)
	r.Instance(core.LevelHard, metrics.Failed, 8)

	want := `
# HELP mpcbench_batch_instances_total Instances by final outcome
# TYPE mpcbench_batch_instances_total counter
mpcbench_batch_instances_total{level="level1",outcome="accepted"} 1
mpcbench_batch_instances_total{level="level3",outcome="failed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(want), "mpcbench_batch_instances_total"))
	n, err := testutil.GatherAndCount(r.Gatherer(), "mpcbench_gate_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecorder_Nil(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.Attempt(core.LevelEasy, metrics.Accepted)
		r.Retry(core.LevelEasy, "construction")
		r.Instance(core.LevelEasy, metrics.Accepted, 1)
	})
}

func TestRecorder_Textfile(t *testing.T) {
	r := metrics.New()
	r.Retry(core.LevelMedium, "insufficient")
	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mpcbench_gate_retries_total{cause="insufficient",level="level2"} 1`)
}
