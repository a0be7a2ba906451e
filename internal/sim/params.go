package sim

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"exposuresim/internal/config"
)

// Config holds the parameters of one simulation run.
type Config struct {
	StartDate        time.Time
	Days             int
	Population       int
	NumMoves         int
	LatencyDays      int
	CaseThreshold    float64
	StartRadius      int
	MinMoveDist      int
	MaxMoveDist      int
	ExposureDuration int
	Control          ReferencePoint
	Burst            *Burst
}

type ReferencePoint struct {
	Name string
	Pos  orb.Point
}

type Burst struct {
	Name   string
	Day    int
	Pos    orb.Point
	Radius float64
}

// NewConfig validates sc and converts it into run parameters.
func NewConfig(sc *config.Scenario) (*Config, error) {
	if err := config.Validate(sc); err != nil {
		return nil, err
	}
	start, err := sc.Start()
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	cfg := &Config{
		StartDate:        start,
		Days:             sc.Days(),
		Population:       sc.Population,
		NumMoves:         sc.NumMoves,
		LatencyDays:      sc.LatencyDays,
		CaseThreshold:    sc.CaseThreshold,
		StartRadius:      sc.StartRadius,
		MinMoveDist:      sc.MinMoveDist,
		MaxMoveDist:      sc.MaxMoveDist,
		ExposureDuration: sc.ExposureDays(),
		Control:          ReferencePoint{Name: sc.Control.Name, Pos: orb.Point{sc.Control.X, sc.Control.Y}},
	}
	if b := sc.Burst; b != nil {
		cfg.Burst = &Burst{Name: b.Name, Day: b.Day, Pos: orb.Point{b.X, b.Y}, Radius: b.Radius}
	}
	return cfg, nil
}

// Date is the calendar date of a day offset.
func (c *Config) Date(day int) time.Time {
	return c.StartDate.AddDate(0, 0, day)
}

// EndDate is the simulation horizon.
func (c *Config) EndDate() time.Time {
	return c.Date(c.Days)
}
