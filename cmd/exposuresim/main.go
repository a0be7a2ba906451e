package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"exposuresim/internal/config"
	"exposuresim/internal/export"
	"exposuresim/internal/sim"
	"exposuresim/internal/util"
)

type options struct {
	configPath  string
	population  int
	numMoves    int
	latency     int
	seed        int64
	runs        int
	workers     int
	summaryPath string
	plotPath    string
	events      bool
	watch       bool
	metricsAddr string
	verbose     bool

	set   map[string]bool
	paths export.Paths
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, sim.ErrNoCases) {
			slog.Error("no cases generated, adjust the parameters and run again")
		} else {
			slog.Error("fatal", "err", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	o := &options{set: map[string]bool{}}
	fs := flag.NewFlagSet("exposuresim", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "scenario YAML file (defaults are used when empty or missing)")
	fs.IntVar(&o.population, "n", 500, "total number of individuals in the study")
	fs.IntVar(&o.numMoves, "m", 3, "number of moves for each individual")
	fs.IntVar(&o.latency, "l", 73, "days of latency between disease and diagnosis")
	fs.Int64Var(&o.seed, "seed", 0, "random seed (0: scenario seed, else clock)")
	fs.IntVar(&o.runs, "runs", 1, "number of simulations; more than one runs a batch")
	fs.IntVar(&o.workers, "workers", runtime.NumCPU(), "concurrent simulations in batch mode")
	fs.StringVar(&o.summaryPath, "summary", "", "write a JSON run (or batch) summary here")
	fs.StringVar(&o.plotPath, "plot", "", "write a PNG map of final locations here")
	fs.BoolVar(&o.events, "events", false, "record the event log into the summary")
	fs.BoolVar(&o.watch, "watch", false, "rerun whenever the scenario file changes")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: exposuresim [flags] histories_data details_data focus_data\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	if o.runs <= 1 {
		if fs.NArg() != 3 {
			fs.Usage()
			return nil, fmt.Errorf("expected 3 output paths, got %d", fs.NArg())
		}
		o.paths = export.Paths{
			Histories: fs.Arg(0),
			Details:   fs.Arg(1),
			Focus:     fs.Arg(2),
			Plot:      o.plotPath,
			Summary:   o.summaryPath,
		}
	}
	if o.watch && o.configPath == "" {
		return nil, errors.New("-watch needs -config")
	}
	return o, nil
}

// apply lets explicit flags win over the scenario file.
func (o *options) apply(sc *config.Scenario) {
	if o.set["n"] || o.configPath == "" {
		sc.Population = o.population
	}
	if o.set["m"] || o.configPath == "" {
		sc.NumMoves = o.numMoves
	}
	if o.set["l"] || o.configPath == "" {
		sc.LatencyDays = o.latency
	}
	if o.seed != 0 {
		sc.Seed = o.seed
	}
	if sc.Seed == 0 {
		sc.Seed = time.Now().UnixNano()
	}
}

func run(ctx context.Context, args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	loader, err := config.NewLoader(o.configPath)
	if err != nil {
		return err
	}

	if o.metricsAddr != "" {
		stopMetrics := serveMetrics(o.metricsAddr)
		defer stopMetrics()
	}

	if o.runs > 1 {
		sc := loader.Scenario()
		o.apply(&sc)
		return runBatch(ctx, o, sc)
	}

	sc := loader.Scenario()
	o.apply(&sc)
	err = runOnce(o, sc)
	if !o.watch {
		return err
	}
	if err != nil {
		slog.Error("initial run failed, waiting for scenario changes", "err", err)
	}

	loader.OnChange(func(sc config.Scenario) {
		o.apply(&sc)
		slog.Info("scenario changed, rerunning", "path", loader.Path(), "seed", sc.Seed)
		if err := runOnce(o, sc); err != nil {
			slog.Error("rerun failed", "err", err)
		}
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		return err
	}
	defer stopWatch()
	slog.Info("watching scenario", "path", loader.Path())
	<-ctx.Done()
	return nil
}

func runOnce(o *options, sc config.Scenario) error {
	cfg, err := sim.NewConfig(&sc)
	if err != nil {
		return err
	}
	sources, err := sim.NewSources(sc.Sources)
	if err != nil {
		return err
	}

	slog.Info("simulation starting",
		"seed", sc.Seed, "population", cfg.Population, "moves", cfg.NumMoves,
		"latency", cfg.LatencyDays, "days", cfg.Days, "sources", len(sources))
	res, err := sim.Run(&sim.Env{Seed: sc.Seed, Rng: util.New(sc.Seed)}, cfg, sources, o.events)
	if err != nil {
		return err
	}
	slog.Info("simulation finished",
		"run_id", res.RunID, "cases", res.Cases, "controls", res.Controls, "fingerprint", res.Fingerprint)
	return export.WriteFiles(res, o.paths)
}

func runBatch(ctx context.Context, o *options, sc config.Scenario) error {
	cfg, err := sim.NewConfig(&sc)
	if err != nil {
		return err
	}
	sources, err := sim.NewSources(sc.Sources)
	if err != nil {
		return err
	}

	slog.Info("batch starting", "runs", o.runs, "workers", o.workers, "base_seed", sc.Seed)
	sum, err := sim.RunBatch(ctx, cfg, sources, sim.Seeds(sc.Seed, o.runs), o.workers)
	if err != nil {
		return err
	}
	slog.Info("batch finished",
		"runs", sum.Runs, "aborted", sum.Aborted, "mean_cases", sum.MeanCases, "stddev_cases", sum.StdDevCases)

	out := sim.MarshalPretty(sum)
	if o.summaryPath == "" {
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	}
	if err := os.WriteFile(o.summaryPath, out, 0o644); err != nil {
		return fmt.Errorf("writing batch summary: %w", err)
	}
	return nil
}

func serveMetrics(addr string) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server", "err", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
