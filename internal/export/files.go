package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"exposuresim/internal/sim"
)

// Paths names the output files of a run. Empty optional paths are skipped.
type Paths struct {
	Histories string
	Details   string
	Focus     string
	Plot      string
	Summary   string
}

// WriteFiles renders every requested output. Each file is written to a
// temporary sibling and renamed into place, so a failure never leaves a
// truncated dataset behind.
func WriteFiles(res *sim.Result, p Paths) error {
	outputs := []struct {
		path  string
		write func(io.Writer, *sim.Result) error
	}{
		{p.Focus, WriteFocus},
		{p.Details, WriteDetails},
		{p.Histories, WriteHistories},
		{p.Plot, WritePlot},
		{p.Summary, WriteSummary},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := writeFile(o.path, func(w io.Writer) error { return o.write(w, res) }); err != nil {
			return err
		}
		slog.Info("wrote output", "path", o.path, "run_id", res.RunID)
	}
	return nil
}

// WriteSummary writes the run summary, including any recorded events, as JSON.
func WriteSummary(w io.Writer, res *sim.Result) error {
	sum := res.Summary()
	sum.Events = res.Events
	if _, err := w.Write(sim.MarshalPretty(sum)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving %s into place: %w", path, err)
	}
	return nil
}
