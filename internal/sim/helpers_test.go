package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"exposuresim/internal/config"
	"exposuresim/internal/util"
)

// smallScenario puts one constant source on the origin so that roughly
// half of the population becomes cases within a few days.
func smallScenario() config.Scenario {
	sc := config.DefaultScenario()
	sc.Population = 30
	sc.LatencyDays = 10
	sc.CaseThreshold = 200
	sc.Sources = []config.SourceDef{
		{Name: "Origin", Strength: 50, Radius: 100, X: 0, Y: 0, Decay: config.DecayConstant},
	}
	return sc
}

func newTestConfig(t *testing.T, sc config.Scenario) (*Config, []ExposureSource) {
	t.Helper()
	cfg, err := NewConfig(&sc)
	require.NoError(t, err)
	sources, err := NewSources(sc.Sources)
	require.NoError(t, err)
	return cfg, sources
}

func newTestEnv(seed int64) *Env {
	return &Env{Seed: seed, Rng: util.New(seed)}
}

// scriptedRand replays fixed draws.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}
