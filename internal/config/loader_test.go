package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenarioMissingFile(t *testing.T) {
	sc, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultScenario(), sc)
}

func TestLoadScenarioOverrides(t *testing.T) {
	path := writeScenario(t, `
population: 40
latency_days: 10
sources:
  - name: Plant
    strength: 50
    radius: 30
    x: 1
    y: -2
    decay: constant
burst:
  name: Spill
  day: 12
  x: 5
  y: 5
  radius: 20
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, 40, sc.Population)
	assert.Equal(t, 10, sc.LatencyDays)
	assert.Equal(t, 50, sc.Days())
	assert.Equal(t, 20, sc.ExposureDays())
	assert.Equal(t, 3, sc.NumMoves, "unset keys keep defaults")
	require.Len(t, sc.Sources, 1, "sources replace the default list")
	assert.Equal(t, "Plant", sc.Sources[0].Name)
	require.NotNil(t, sc.Burst)
	assert.Equal(t, 12, sc.Burst.Day)
	assert.Equal(t, "Away From Sources", sc.Control.Name)
}

func TestLoadScenarioBadYAML(t *testing.T) {
	path := writeScenario(t, "population: [1, 2\n")
	_, err := LoadScenario(path)
	assert.ErrorContains(t, err, "loading scenario")
}

func TestScenarioDerivedDays(t *testing.T) {
	sc := DefaultScenario()
	assert.Equal(t, 365, sc.Days())
	assert.Equal(t, 146, sc.ExposureDays())

	sc.SimulationDays = 30
	sc.ExposureDuration = 7
	assert.Equal(t, 30, sc.Days())
	assert.Equal(t, 7, sc.ExposureDays())

	start, err := sc.Start()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestLoaderReloadNotifies(t *testing.T) {
	path := writeScenario(t, "population: 10\n")
	l, err := NewLoader(path)
	require.NoError(t, err)
	assert.Equal(t, 10, l.Scenario().Population)

	var got []int
	l.OnChange(func(sc Scenario) { got = append(got, sc.Population) })

	require.NoError(t, os.WriteFile(path, []byte("population: 25\n"), 0o644))
	sc, err := l.Reload()
	require.NoError(t, err)
	assert.Equal(t, 25, sc.Population)
	assert.Equal(t, 25, l.Scenario().Population)
	assert.Equal(t, []int{25}, got)
}

func TestLoaderWatch(t *testing.T) {
	path := writeScenario(t, "population: 10\n")
	l, err := NewLoader(path)
	require.NoError(t, err)

	changed := make(chan Scenario, 4)
	l.OnChange(func(sc Scenario) { changed <- sc })

	stop, err := l.Watch()
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("population: 77\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case sc := <-changed:
			if sc.Population == 77 {
				return
			}
		case <-deadline:
			t.Fatal("watcher did not pick up the change")
		}
	}
}
