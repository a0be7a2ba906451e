package sim

import (
	"slices"
	"time"

	"github.com/paulmach/orb"

	"exposuresim/internal/util"
)

type Status int

const (
	Susceptible Status = iota
	Case
)

func (s Status) String() string {
	if s == Case {
		return "case"
	}
	return "susceptible"
}

// Individual is one simulated person. Locations and their arrival dates
// only grow; the case transition happens at most once.
type Individual struct {
	id          string
	locations   []orb.Point
	dates       []time.Time
	exposure    float64
	status      Status
	latencyDays int
	threshold   float64
	riskWeight  float64
	moveDays    map[int]struct{}
	finalized   bool

	initialExposure time.Time
	contraction     time.Time
	diagnosis       time.Time
}

// NewIndividual places a person at start on the config's start date and
// draws its risk weight from rng.
func NewIndividual(id string, start orb.Point, cfg *Config, rng util.Rand) *Individual {
	return &Individual{
		id:          id,
		locations:   []orb.Point{start},
		dates:       []time.Time{cfg.StartDate},
		latencyDays: cfg.LatencyDays,
		threshold:   cfg.CaseThreshold,
		riskWeight:  rng.Float64(),
		moveDays:    map[int]struct{}{},
	}
}

func (ind *Individual) ID() string                 { return ind.id }
func (ind *Individual) Status() Status             { return ind.status }
func (ind *Individual) IsCase() bool               { return ind.status == Case }
func (ind *Individual) Exposure() float64          { return ind.exposure }
func (ind *Individual) LatencyDays() int           { return ind.latencyDays }
func (ind *Individual) RiskWeight() float64        { return ind.riskWeight }
func (ind *Individual) InitialExposure() time.Time { return ind.initialExposure }
func (ind *Individual) Contraction() time.Time     { return ind.contraction }
func (ind *Individual) Diagnosis() time.Time       { return ind.diagnosis }

// Locations returns a copy of the trajectory.
func (ind *Individual) Locations() []orb.Point { return slices.Clone(ind.locations) }

// LocationDates returns a copy of the arrival dates. After Finalize it has
// one more entry than Locations.
func (ind *Individual) LocationDates() []time.Time { return slices.Clone(ind.dates) }

func (ind *Individual) CurrentLocation() orb.Point {
	return ind.locations[len(ind.locations)-1]
}

// AccumulateExposure adds amount on date and reports whether this call
// turned the individual into a case. Negative amounts count as zero.
func (ind *Individual) AccumulateExposure(amount float64, date time.Time) bool {
	if ind.initialExposure.IsZero() {
		ind.initialExposure = date
	}
	if amount > 0 {
		ind.exposure += amount
	}
	if ind.exposure >= ind.threshold && ind.status == Susceptible {
		ind.status = Case
		ind.contraction = date
		ind.diagnosis = date.AddDate(0, 0, ind.latencyDays)
		return true
	}
	return false
}

// Move shifts the current location by (dx, dy); bounds are not checked.
func (ind *Individual) Move(dx, dy float64, date time.Time) {
	cur := ind.CurrentLocation()
	ind.locations = append(ind.locations, orb.Point{cur[0] + dx, cur[1] + dy})
	ind.dates = append(ind.dates, date)
}

// Finalize closes the last location interval with the following day.
func (ind *Individual) Finalize() {
	if ind.finalized {
		return
	}
	ind.finalized = true
	last := ind.dates[len(ind.dates)-1]
	ind.dates = append(ind.dates, last.AddDate(0, 0, 1))
}

func (ind *Individual) ScheduleMoves(days []int) {
	for _, d := range days {
		ind.moveDays[d] = struct{}{}
	}
}

func (ind *Individual) MovesOn(day int) bool {
	_, ok := ind.moveDays[day]
	return ok
}

// MoveDays returns the scheduled move day offsets in ascending order.
func (ind *Individual) MoveDays() []int {
	out := make([]int, 0, len(ind.moveDays))
	for d := range ind.moveDays {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// borrowEventDates copies the exposure timeline of a case onto a control.
func (ind *Individual) borrowEventDates(from *Individual) {
	ind.initialExposure = from.initialExposure
	ind.contraction = from.contraction
	ind.diagnosis = from.diagnosis
}
