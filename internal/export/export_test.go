package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposuresim/internal/sim"
	"exposuresim/internal/util"
)

func testResult(t *testing.T) *sim.Result {
	t.Helper()
	cfg := &sim.Config{
		StartDate:        time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:             25,
		Population:       2,
		LatencyDays:      5,
		CaseThreshold:    100,
		ExposureDuration: 10,
		Control:          sim.ReferencePoint{Name: "Away From Sources", Pos: orb.Point{-150, 150}},
	}
	src, err := sim.NewExposureSource("Medium Linear", 75, 75, orb.Point{90, 90}, sim.Linear)
	require.NoError(t, err)

	rng := util.New(1)
	a := sim.NewIndividual("A", orb.Point{90, 90}, cfg, rng)
	a.AccumulateExposure(60, cfg.Date(1))
	a.AccumulateExposure(60, cfg.Date(2))
	a.Finalize()

	b := sim.NewIndividual("B", orb.Point{-3, 4}, cfg, rng)
	b.Move(10, -20, cfg.Date(6))
	b.Finalize()

	s := sim.New(&sim.Env{Rng: rng}, cfg, []sim.ExposureSource{src}, nil)
	s.People = []*sim.Individual{a, b}
	_, _, err = s.Match()
	require.NoError(t, err)

	return &sim.Result{
		RunID:       "run-1",
		Config:      cfg,
		Sources:     []sim.ExposureSource{src},
		Individuals: s.People,
		Cases:       1,
		Controls:    1,
	}
}

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteFocus(t *testing.T) {
	res := testResult(t)
	res.Config.Burst = &sim.Burst{Name: "On Burst", Day: 3, Pos: orb.Point{75, -75}, Radius: 100}

	var buf bytes.Buffer
	require.NoError(t, WriteFocus(&buf, res))
	assert.Equal(t, [][]string{
		{"ID", "start_date", "end_date", "x", "y"},
		{"Medium Linear", "20150101", "20150126", "90", "90"},
		{"Away From Sources", "20150101", "20150126", "-150", "150"},
		{"On Burst", "20150101", "20150126", "75", "-75"},
	}, readCSV(t, buf.Bytes()))
}

func TestWriteDetails(t *testing.T) {
	res := testResult(t)
	var buf bytes.Buffer
	require.NoError(t, WriteDetails(&buf, res))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "is_case", "DOD", "latency", "weight", "exposure_duration"}, rows[0])
	assert.Equal(t, []string{"A", "1", "20150108", "5", rows[1][4], "10"}, rows[1])
	assert.Equal(t, []string{"B", "0", "20150108", "5", rows[2][4], "10"}, rows[2], "control borrows the case diagnosis")
	assert.NotEqual(t, rows[1][4], rows[2][4])
}

func TestWriteDetailsUnmatched(t *testing.T) {
	res := testResult(t)
	cfg := res.Config
	res.Individuals = append(res.Individuals, sim.NewIndividual("C", orb.Point{}, cfg, util.New(2)))
	assert.ErrorContains(t, WriteDetails(&bytes.Buffer{}, res), "C has no diagnosis date")
}

func TestWriteHistories(t *testing.T) {
	res := testResult(t)
	var buf bytes.Buffer
	require.NoError(t, WriteHistories(&buf, res))
	assert.Equal(t, [][]string{
		{"ID", "start_date", "end_date", "x", "y"},
		{"A", "20150101", "20150102", "90", "90"},
		{"B", "20150101", "20150107", "-3", "4"},
		{"B", "20150107", "20150108", "7", "-16"},
	}, readCSV(t, buf.Bytes()))
}

func TestWriteHistoriesNotFinalized(t *testing.T) {
	res := testResult(t)
	res.Individuals = append(res.Individuals, sim.NewIndividual("C", orb.Point{}, res.Config, util.New(2)))
	assert.ErrorContains(t, WriteHistories(&bytes.Buffer{}, res), "was it finalized")
}

func TestWritePlot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlot(&buf, testResult(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Histories: filepath.Join(dir, "histories.csv"),
		Details:   filepath.Join(dir, "details.csv"),
		Focus:     filepath.Join(dir, "focus.csv"),
		Summary:   filepath.Join(dir, "summary.json"),
	}
	require.NoError(t, WriteFiles(testResult(t), p))

	for _, path := range []string{p.Histories, p.Details, p.Focus, p.Summary} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	summary, err := os.ReadFile(p.Summary)
	require.NoError(t, err)
	assert.Contains(t, string(summary), `"run_id": "run-1"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "no temporary files left behind")
}

func TestWriteFilesFailureKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "details.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	res := testResult(t)
	res.Individuals = append(res.Individuals, sim.NewIndividual("C", orb.Point{}, res.Config, util.New(2)))
	assert.Error(t, WriteFiles(res, Paths{Details: path}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(b))
}
