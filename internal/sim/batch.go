package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"exposuresim/internal/config"
	"exposuresim/internal/metrics"
	"exposuresim/internal/util"
)

type BatchSummary struct {
	Runs         int          `json:"runs"`
	Aborted      int          `json:"aborted"`
	MeanCases    float64      `json:"mean_cases"`
	StdDevCases  float64      `json:"stddev_cases"`
	MeanCaseRate float64      `json:"mean_case_rate"`
	PerRun       []RunSummary `json:"per_run"`
}

// RunBatch runs one independent simulation per seed, at most workers at a
// time. Runs without cases are counted as aborted, not returned as errors.
func RunBatch(ctx context.Context, cfg *Config, sources []ExposureSource, seeds []int64, workers int) (*BatchSummary, error) {
	if len(seeds) == 0 {
		return nil, errors.New("batch: no seeds")
	}
	if workers <= 0 {
		workers = 1
	}

	rows := make([]RunSummary, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seed := range seeds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			metrics.BatchInFlight.Inc()
			defer metrics.BatchInFlight.Dec()

			res, err := Run(&Env{Seed: seed, Rng: util.New(seed)}, cfg, sources, false)
			switch {
			case errors.Is(err, ErrNoCases):
				rows[i] = RunSummary{
					Seed:       seed,
					Aborted:    true,
					Population: cfg.Population,
					Controls:   cfg.Population,
					StartDate:  cfg.StartDate.Format(config.DateLayout),
					EndDate:    cfg.EndDate().Format(config.DateLayout),
				}
				return nil
			case err != nil:
				return fmt.Errorf("run seed %d: %w", seed, err)
			}
			sum := res.Summary()
			sum.Sources = nil
			rows[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &BatchSummary{Runs: len(rows), PerRun: rows}
	cases := make([]float64, len(rows))
	rates := make([]float64, len(rows))
	for i, r := range rows {
		if r.Aborted {
			out.Aborted++
		}
		cases[i] = float64(r.Cases)
		if r.Population > 0 {
			rates[i] = float64(r.Cases) / float64(r.Population)
		}
	}
	mean, std := stat.MeanStdDev(cases, nil)
	if math.IsNaN(std) {
		std = 0
	}
	out.MeanCases = mean
	out.StdDevCases = std
	out.MeanCaseRate = stat.Mean(rates, nil)
	return out, nil
}

// Seeds derives n run seeds from a base seed.
func Seeds(base int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = base + int64(i)*7919
	}
	return out
}
