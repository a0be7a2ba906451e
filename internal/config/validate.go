package config

import (
	"fmt"
	"strings"
)

// Validate reports every problem in the scenario at once.
func Validate(sc *Scenario) error {
	var errs []string
	if _, err := sc.Start(); err != nil {
		errs = append(errs, fmt.Sprintf("start_date %q: want YYYY-MM-DD", sc.StartDate))
	}
	if sc.Population <= 0 {
		errs = append(errs, "population must be positive")
	}
	if sc.LatencyDays < 0 {
		errs = append(errs, "latency_days must not be negative")
	}
	days := sc.Days()
	if days <= 0 {
		errs = append(errs, "simulation_days must be positive (set it or latency_days)")
	}
	if sc.NumMoves < 0 || sc.NumMoves > days {
		errs = append(errs, fmt.Sprintf("num_moves %d must be within [0, %d]", sc.NumMoves, days))
	}
	if sc.CaseThreshold <= 0 {
		errs = append(errs, "case_exposure_threshold must be positive")
	}
	if sc.StartRadius < 0 {
		errs = append(errs, "start_radius must not be negative")
	}
	if sc.MinMoveDist < 0 || sc.MaxMoveDist < sc.MinMoveDist {
		errs = append(errs, fmt.Sprintf("move distance range [%d, %d] is invalid", sc.MinMoveDist, sc.MaxMoveDist))
	}

	names := map[string]int{}
	for i, src := range sc.Sources {
		loc := fmt.Sprintf("sources[%d]", i)
		if src.Name == "" {
			errs = append(errs, loc+": name is required")
		} else if prev, ok := names[src.Name]; ok {
			errs = append(errs, fmt.Sprintf("%s: duplicate name %q (first at sources[%d])", loc, src.Name, prev))
		} else {
			names[src.Name] = i
		}
		if src.Strength <= 0 {
			errs = append(errs, loc+": strength must be positive")
		}
		if src.Radius < 0 {
			errs = append(errs, loc+": radius must not be negative")
		}
		if src.Decay != DecayLinear && src.Decay != DecayConstant {
			errs = append(errs, fmt.Sprintf("%s: decay %q must be %q or %q", loc, src.Decay, DecayLinear, DecayConstant))
		}
	}

	if b := sc.Burst; b != nil {
		if b.Day < 1 || b.Day >= days {
			errs = append(errs, fmt.Sprintf("burst: day %d must be within [1, %d)", b.Day, days))
		}
		if b.Radius < 0 {
			errs = append(errs, "burst: radius must not be negative")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("scenario validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
