package config

import "time"

// DateLayout is the layout of start_date in scenario files.
const DateLayout = "2006-01-02"

const (
	DecayLinear   = "linear"
	DecayConstant = "constant"
)

// Scenario is the top-level YAML structure of a simulation run.
type Scenario struct {
	Seed             int64       `yaml:"seed"`
	StartDate        string      `yaml:"start_date"`
	Population       int         `yaml:"population"`
	NumMoves         int         `yaml:"num_moves"`
	LatencyDays      int         `yaml:"latency_days"`
	SimulationDays   int         `yaml:"simulation_days"`   // 0 = 5 * latency_days
	ExposureDuration int         `yaml:"exposure_duration"` // 0 = 2 * latency_days
	CaseThreshold    float64     `yaml:"case_exposure_threshold"`
	StartRadius      int         `yaml:"start_radius"`
	MinMoveDist      int         `yaml:"min_move_dist"`
	MaxMoveDist      int         `yaml:"max_move_dist"`
	Sources          []SourceDef `yaml:"sources"`
	Control          PointDef    `yaml:"control_point"`
	Burst            *BurstDef   `yaml:"burst,omitempty"`
}

// SourceDef describes one contamination source.
type SourceDef struct {
	Name     string  `yaml:"name"`
	Strength float64 `yaml:"strength"`
	Radius   float64 `yaml:"radius"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Decay    string  `yaml:"decay"` // linear | constant
}

// PointDef is a named reference coordinate exported with the focus data.
type PointDef struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// BurstDef is a one-day release that gives everyone within Radius of
// (X, Y) the full case threshold of exposure.
type BurstDef struct {
	Name   string  `yaml:"name"`
	Day    int     `yaml:"day"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

// Days returns the simulation horizon in days.
func (s *Scenario) Days() int {
	if s.SimulationDays > 0 {
		return s.SimulationDays
	}
	return s.LatencyDays * 5
}

// ExposureDays returns the exported exposure_duration value.
func (s *Scenario) ExposureDays() int {
	if s.ExposureDuration > 0 {
		return s.ExposureDuration
	}
	return s.LatencyDays * 2
}

func (s *Scenario) Start() (time.Time, error) {
	return time.Parse(DateLayout, s.StartDate)
}

// DefaultScenario returns the classic three-source scenario.
func DefaultScenario() Scenario {
	return Scenario{
		StartDate:     "2015-01-01",
		Population:    500,
		NumMoves:      3,
		LatencyDays:   73,
		CaseThreshold: 4000,
		StartRadius:   200,
		MinMoveDist:   15,
		MaxMoveDist:   100,
		Sources: []SourceDef{
			{Name: "Medium Linear", Strength: 75, Radius: 75, X: 90, Y: 90, Decay: DecayLinear},
			{Name: "Large Constant", Strength: 20, Radius: 120, X: -75, Y: -75, Decay: DecayConstant},
			{Name: "Small Constant", Strength: 40, Radius: 40, X: 130, Y: -120, Decay: DecayConstant},
		},
		Control: PointDef{Name: "Away From Sources", X: -150, Y: 150},
	}
}
