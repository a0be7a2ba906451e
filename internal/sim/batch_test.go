package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposuresim/internal/config"
)

func TestRunBatch(t *testing.T) {
	cfg, sources := newTestConfig(t, smallScenario())
	seeds := Seeds(10, 4)

	a, err := RunBatch(context.Background(), cfg, sources, seeds, 2)
	require.NoError(t, err)
	b, err := RunBatch(context.Background(), cfg, sources, seeds, 3)
	require.NoError(t, err)

	assert.Equal(t, 4, a.Runs)
	assert.Zero(t, a.Aborted)
	require.Len(t, a.PerRun, 4)
	for i := range a.PerRun {
		assert.Equal(t, seeds[i], a.PerRun[i].Seed)
		assert.Equal(t, a.PerRun[i].Fingerprint, b.PerRun[i].Fingerprint, "worker count must not change results")
		assert.Nil(t, a.PerRun[i].Sources)
	}
	assert.Equal(t, a.MeanCases, b.MeanCases)
	assert.Positive(t, a.MeanCases)
	assert.InDelta(t, a.MeanCases/float64(cfg.Population), a.MeanCaseRate, 1e-9)
}

func TestRunBatchAborted(t *testing.T) {
	sc := smallScenario()
	sc.Sources = []config.SourceDef{
		{Name: "Far", Strength: 5, Radius: 1, X: -9000, Y: 0, Decay: config.DecayConstant},
	}
	cfg, sources := newTestConfig(t, sc)

	sum, err := RunBatch(context.Background(), cfg, sources, Seeds(1, 3), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Aborted)
	assert.Zero(t, sum.MeanCases)
	assert.Zero(t, sum.StdDevCases)
	for _, r := range sum.PerRun {
		assert.True(t, r.Aborted)
		assert.Equal(t, cfg.Population, r.Controls)
	}
}

func TestRunBatchSingleRun(t *testing.T) {
	cfg, sources := newTestConfig(t, smallScenario())
	sum, err := RunBatch(context.Background(), cfg, sources, []int64{5}, 4)
	require.NoError(t, err)
	assert.Zero(t, sum.StdDevCases, "a single run has no spread")
}

func TestRunBatchCancelled(t *testing.T) {
	cfg, sources := newTestConfig(t, smallScenario())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunBatch(ctx, cfg, sources, Seeds(1, 3), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBatchNoSeeds(t *testing.T) {
	cfg, sources := newTestConfig(t, smallScenario())
	_, err := RunBatch(context.Background(), cfg, sources, nil, 1)
	assert.Error(t, err)
}
