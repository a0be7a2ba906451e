package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"exposuresim/internal/config"
	"exposuresim/internal/metrics"
	"exposuresim/internal/util"
)

// ErrNoCases means nobody reached the case threshold, so controls cannot
// be matched and the dataset is unusable.
var ErrNoCases = errors.New("no cases generated")

type Env struct {
	Day  int
	Seed int64
	Rng  util.Rand
}

// Simulation drives one population through the day loop. It is not safe
// for concurrent use.
type Simulation struct {
	Env     *Env
	Cfg     *Config
	Sources []ExposureSource
	People  []*Individual

	emit func(Event)
}

func New(env *Env, cfg *Config, sources []ExposureSource, emit func(Event)) *Simulation {
	if emit == nil {
		emit = func(Event) {}
	}
	return &Simulation{Env: env, Cfg: cfg, Sources: sources, emit: emit}
}

func (s *Simulation) event(day int, typ string, payload map[string]any) {
	s.emit(Event{Day: day, Date: s.Cfg.Date(day).Format(config.DateLayout), Type: typ, Payload: payload})
}

// Populate creates the individuals and their move schedules.
func (s *Simulation) Populate() error {
	rng := s.Env.Rng
	s.People = make([]*Individual, 0, s.Cfg.Population)
	for label := range Labels() {
		if len(s.People) == s.Cfg.Population {
			break
		}
		start := randomOffset(rng, 0, s.Cfg.StartRadius)
		ind := NewIndividual(label, start, s.Cfg, rng)
		days, err := util.Sample(rng, s.Cfg.Days, s.Cfg.NumMoves)
		if err != nil {
			return fmt.Errorf("scheduling moves for %s: %w", label, err)
		}
		ind.ScheduleMoves(days)
		s.People = append(s.People, ind)

		s.event(0, EventSpawn, map[string]any{
			"id": label, "x": start[0], "y": start[1], "move_days": ind.MoveDays(),
		})
	}
	return nil
}

// Step processes one day: scheduled moves, then exposure from every
// source at each individual's current location.
func (s *Simulation) Step(day int) {
	s.Env.Day = day
	date := s.Cfg.Date(day)
	for _, p := range s.People {
		if p.MovesOn(day) {
			from := p.CurrentLocation()
			off := randomOffset(s.Env.Rng, s.Cfg.MinMoveDist, s.Cfg.MaxMoveDist)
			p.Move(off[0], off[1], date)
			metrics.Moves.Inc()
			to := p.CurrentLocation()
			s.event(day, EventMove, map[string]any{
				"id": p.ID(), "from": []float64{from[0], from[1]}, "to": []float64{to[0], to[1]},
			})
		}
		for _, src := range s.Sources {
			amount := src.ExposureAt(p.CurrentLocation())
			if amount <= 0 {
				continue
			}
			if p.AccumulateExposure(amount, date) {
				s.event(day, EventCaseOnset, map[string]any{
					"id": p.ID(), "source": src.Name, "exposure": p.Exposure(),
					"diagnosis": p.Diagnosis().Format(config.DateLayout),
				})
			}
		}
	}

	if b := s.Cfg.Burst; b != nil && b.Day == day {
		hit := 0
		for _, p := range s.People {
			if distance(p.CurrentLocation(), b.Pos) > b.Radius {
				continue
			}
			hit++
			if p.AccumulateExposure(s.Cfg.CaseThreshold, date) {
				s.event(day, EventCaseOnset, map[string]any{
					"id": p.ID(), "source": b.Name, "exposure": p.Exposure(),
					"diagnosis": p.Diagnosis().Format(config.DateLayout),
				})
			}
		}
		s.event(day, EventBurst, map[string]any{"name": b.Name, "affected": hit})
	}
}

// Finalize closes every trajectory with one extra date.
func (s *Simulation) Finalize() {
	for _, p := range s.People {
		p.Finalize()
	}
}

// Match splits the population and gives each control the event dates of a
// randomly chosen case. It returns ErrNoCases when there is nothing to match.
func (s *Simulation) Match() (cases, controls []*Individual, err error) {
	for _, p := range s.People {
		if p.IsCase() {
			cases = append(cases, p)
		} else {
			controls = append(controls, p)
		}
	}
	if len(cases) == 0 {
		return nil, controls, ErrNoCases
	}
	day := s.Cfg.Days
	for _, c := range controls {
		src := cases[s.Env.Rng.Intn(len(cases))]
		c.borrowEventDates(src)
		s.event(day, EventMatch, map[string]any{"control": c.ID(), "case": src.ID()})
	}
	return cases, controls, nil
}

// Run executes a whole simulation. On ErrNoCases no result is returned so
// nothing downstream can export a half-labelled dataset.
func Run(env *Env, cfg *Config, sources []ExposureSource, record bool) (*Result, error) {
	began := time.Now()
	var events []Event
	emit := func(ev Event) {
		if record {
			events = append(events, ev)
		}
	}

	s := New(env, cfg, sources, emit)
	if err := s.Populate(); err != nil {
		metrics.Runs.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	for day := 1; day < cfg.Days; day++ {
		s.Step(day)
	}
	s.Finalize()

	cases, controls, err := s.Match()
	metrics.RunDuration.Observe(time.Since(began).Seconds())
	if err != nil {
		metrics.Runs.WithLabelValues(metrics.OutcomeNoCases).Inc()
		return nil, err
	}
	metrics.Runs.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.Individuals.WithLabelValues("case").Add(float64(len(cases)))
	metrics.Individuals.WithLabelValues("control").Add(float64(len(controls)))

	fp, err := Fingerprint(s.People)
	if err != nil {
		return nil, err
	}
	res := &Result{
		RunID:       uuid.New().String(),
		Seed:        env.Seed,
		Config:      cfg,
		Sources:     sources,
		Individuals: s.People,
		Cases:       len(cases),
		Controls:    len(controls),
		Fingerprint: fp,
	}
	if record {
		res.Events = events
	}
	return res, nil
}
