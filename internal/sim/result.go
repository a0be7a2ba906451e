package sim

import (
	"encoding/json"
	"time"

	"exposuresim/internal/config"
)

// Result is the finalized, matched output of one run.
type Result struct {
	RunID       string
	Seed        int64
	Config      *Config
	Sources     []ExposureSource
	Individuals []*Individual
	Cases       int
	Controls    int
	Fingerprint string
	Events      []Event
}

func (r *Result) StartDate() time.Time { return r.Config.StartDate }
func (r *Result) EndDate() time.Time   { return r.Config.EndDate() }

type RunSummary struct {
	RunID       string       `json:"run_id,omitempty"`
	Seed        int64        `json:"seed"`
	Aborted     bool         `json:"aborted,omitempty"`
	Population  int          `json:"population"`
	Cases       int          `json:"cases"`
	Controls    int          `json:"controls"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	Fingerprint string       `json:"fingerprint,omitempty"`
	Sources     []SourceMeta `json:"sources,omitempty"`
	Events      []Event      `json:"events,omitempty"`
}

type SourceMeta struct {
	Name     string  `json:"name"`
	Strength float64 `json:"strength"`
	Radius   float64 `json:"radius"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Decay    string  `json:"decay"`
}

func (r *Result) Summary() RunSummary {
	sum := RunSummary{
		RunID:       r.RunID,
		Seed:        r.Seed,
		Population:  len(r.Individuals),
		Cases:       r.Cases,
		Controls:    r.Controls,
		StartDate:   r.StartDate().Format(config.DateLayout),
		EndDate:     r.EndDate().Format(config.DateLayout),
		Fingerprint: r.Fingerprint,
	}
	for _, s := range r.Sources {
		sum.Sources = append(sum.Sources, SourceMeta{
			Name: s.Name, Strength: s.Strength, Radius: s.Radius,
			X: s.Pos[0], Y: s.Pos[1], Decay: s.Decay.String(),
		})
	}
	return sum
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
