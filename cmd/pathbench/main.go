// Package main benchmarks batches of pathfinding searches over configured
// terrain and reports timing and search-effort statistics.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/aeronav/config"
	"github.com/pthm-cable/aeronav/geom"
	"github.com/pthm-cable/aeronav/heightfield"
	"github.com/pthm-cable/aeronav/nav"
	"github.com/pthm-cable/aeronav/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	searches := flag.Int("searches", 1000, "Number of random searches to run")
	seed := flag.Int64("seed", 0, "RNG seed for endpoint selection (0 = time-based)")
	outputDir := flag.String("output", "", "Output directory for CSV logs (overrides config)")
	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	src, err := heightfield.FromConfig(cfg)
	if err != nil {
		log.Fatalf("failed to build height source: %v", err)
	}

	planner := nav.NewPlanner(nav.OptionsFrom(cfg)...)
	if err := planner.Initialize(nav.GridConfigFrom(cfg), src); err != nil {
		log.Fatalf("failed to initialize planner: %v", err)
	}

	dir := cfg.Telemetry.OutputDir
	if *outputDir != "" {
		dir = *outputDir
	}
	output, err := telemetry.NewOutputManager(dir)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		log.Fatalf("failed to write config snapshot: %v", err)
	}

	collector := telemetry.NewCollector(cfg.Telemetry.StatsWindow)

	slog.Info("benchmark starting",
		"grid", [2]int{cfg.Grid.Width, cfg.Grid.Height},
		"terrain", cfg.Terrain.Source,
		"cost_multiplier", cfg.Grid.CostMultiplier,
		"searches", *searches,
		"seed", rngSeed,
	)

	durations := make([]float64, 0, *searches)
	expanded := make([]float64, 0, *searches)
	failures := 0

	for i := 0; i < *searches; i++ {
		start := randomCell(rng, cfg.Grid.Width, cfg.Grid.Height)
		end := randomCell(rng, cfg.Grid.Width, cfg.Grid.Height)

		res := planner.CalculatePath(start, end, cfg.Search.HeightOffset)
		if !res.Success {
			failures++
		}
		durations = append(durations, float64(res.Elapsed.Microseconds()))
		expanded = append(expanded, float64(res.Expanded))

		sample := telemetry.SampleFromResult(res)
		if err := output.WriteSearch(sample); err != nil {
			log.Fatalf("failed to write search record: %v", err)
		}
		if stats, done := collector.Record(sample); done {
			slog.Info("window", "stats", stats)
			if err := output.WriteStats(stats); err != nil {
				log.Fatalf("failed to write stats: %v", err)
			}
		}
	}

	if stats, ok := collector.Flush(); ok {
		slog.Info("window", "stats", stats)
		if err := output.WriteStats(stats); err != nil {
			log.Fatalf("failed to write stats: %v", err)
		}
	}

	sort.Float64s(durations)
	slog.Info("benchmark complete",
		"searches", *searches,
		"failures", failures,
		"duration_mean_us", stat.Mean(durations, nil),
		"duration_std_us", stat.StdDev(durations, nil),
		"duration_p50_us", stat.Quantile(0.5, stat.Empirical, durations, nil),
		"duration_p99_us", stat.Quantile(0.99, stat.Empirical, durations, nil),
		"expanded_mean", stat.Mean(expanded, nil),
	)
}

// randomCell picks a uniformly random grid cell.
func randomCell(rng *rand.Rand, width, height int) geom.GridPos {
	return geom.GridPos{X: rng.Intn(width), Y: rng.Intn(height)}
}
