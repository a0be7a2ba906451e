package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"exposuresim/internal/sim"
)

// DateLayout is the compact date format used in every CSV column.
const DateLayout = "20060102"

var (
	focusHeader     = []string{"ID", "start_date", "end_date", "x", "y"}
	detailsHeader   = []string{"ID", "is_case", "DOD", "latency", "weight", "exposure_duration"}
	historiesHeader = []string{"ID", "start_date", "end_date", "x", "y"}
)

func formatFloat(v float64) string  { return strconv.FormatFloat(v, 'f', -1, 64) }
func formatDate(t time.Time) string { return t.Format(DateLayout) }

// WriteFocus writes one row per source, the control point and the burst
// site if there is one, each active over the whole simulation.
func WriteFocus(w io.Writer, res *sim.Result) error {
	first, end := formatDate(res.StartDate()), formatDate(res.EndDate())
	rows := [][]string{focusHeader}
	for _, s := range res.Sources {
		rows = append(rows, []string{s.Name, first, end, formatFloat(s.Pos[0]), formatFloat(s.Pos[1])})
	}
	c := res.Config.Control
	rows = append(rows, []string{c.Name, first, end, formatFloat(c.Pos[0]), formatFloat(c.Pos[1])})
	if b := res.Config.Burst; b != nil {
		rows = append(rows, []string{b.Name, first, end, formatFloat(b.Pos[0]), formatFloat(b.Pos[1])})
	}
	return writeAll(w, rows)
}

// WriteDetails writes case status and diagnosis date per individual.
func WriteDetails(w io.Writer, res *sim.Result) error {
	rows := [][]string{detailsHeader}
	for _, p := range res.Individuals {
		if p.Diagnosis().IsZero() {
			return fmt.Errorf("details: %s has no diagnosis date; was the population matched?", p.ID())
		}
		isCase := "0"
		if p.IsCase() {
			isCase = "1"
		}
		rows = append(rows, []string{
			p.ID(),
			isCase,
			formatDate(p.Diagnosis()),
			strconv.Itoa(p.LatencyDays()),
			formatFloat(p.RiskWeight()),
			strconv.Itoa(res.Config.ExposureDuration),
		})
	}
	return writeAll(w, rows)
}

// WriteHistories writes every location interval of every individual.
func WriteHistories(w io.Writer, res *sim.Result) error {
	rows := [][]string{historiesHeader}
	for _, p := range res.Individuals {
		locs, dates := p.Locations(), p.LocationDates()
		if len(dates) != len(locs)+1 {
			return fmt.Errorf("histories: %s has %d dates for %d locations; was it finalized?", p.ID(), len(dates), len(locs))
		}
		for i, loc := range locs {
			rows = append(rows, []string{
				p.ID(), formatDate(dates[i]), formatDate(dates[i+1]), formatFloat(loc[0]), formatFloat(loc[1]),
			})
		}
	}
	return writeAll(w, rows)
}

func writeAll(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
