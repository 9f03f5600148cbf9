// Package main runs a headless continuous-tracking demo: a group of aerial
// agents chases a moving target across procedural terrain, with path
// recalculation gated by the tracking throttle.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/aeronav/config"
	"github.com/pthm-cable/aeronav/geom"
	"github.com/pthm-cable/aeronav/heightfield"
	"github.com/pthm-cable/aeronav/nav"
	"github.com/pthm-cable/aeronav/telemetry"
)

// Position is an agent's world-space position.
type Position struct {
	geom.Vec3
}

// Velocity is an agent's world-space velocity.
type Velocity struct {
	geom.Vec3
}

// Tracker holds the waypoints an agent is currently following.
type Tracker struct {
	Waypoints []geom.Vec3
	Index     int
}

// sim owns the ECS world and the shared planner for one agent group.
type sim struct {
	world  *ecs.World
	mapper *ecs.Map3[Position, Velocity, Tracker]
	filter *ecs.Filter3[Position, Velocity, Tracker]

	planner   *nav.Planner
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	rng       *rand.Rand

	// Target state: a waypoint wanderer re-aimed at random cells
	targetPos  geom.Vec3
	targetGoal geom.Vec3

	heightOffset float64
	agentSpeed   float64
	targetSpeed  float64
	worldExtent  geom.Vec3
	origin       geom.Vec3

	recalcs int
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	agents := flag.Int("agents", 16, "Number of chasing agents")
	maxTicks := flag.Int("max-ticks", 3000, "Simulation duration in ticks")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output", "", "Output directory for CSV logs (overrides config)")
	flag.Parse()

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

	s := newSim(cfg, planner, output, rngSeed)
	s.spawnAgents(*agents)

	slog.Info("swarmsim starting", "agents", *agents, "ticks", *maxTicks, "seed", rngSeed)

	const dt = 0.1 // simulated seconds per tick
	now := time.Unix(0, 0)
	for tick := 0; tick < *maxTicks; tick++ {
		now = now.Add(time.Duration(dt * float64(time.Second)))
		s.step(now, dt)

		if (tick+1)%500 == 0 {
			slog.Info("progress", "tick", tick+1, "recalcs", s.recalcs, "target", s.targetPos)
		}
	}

	if stats, ok := s.collector.Flush(); ok {
		slog.Info("window", "stats", stats)
		if err := output.WriteStats(stats); err != nil {
			log.Fatalf("failed to write stats: %v", err)
		}
	}
	slog.Info("swarmsim complete", "recalcs", s.recalcs)
}

func newSim(cfg *config.Config, planner *nav.Planner, output *telemetry.OutputManager, seed int64) *sim {
	world := ecs.NewWorld()
	origin := geom.Vec3{X: cfg.Grid.OriginX, Y: cfg.Grid.OriginY, Z: cfg.Grid.OriginZ}
	extent := geom.Vec3{
		X: float64(cfg.Grid.Width) * cfg.Grid.CellSize,
		Z: float64(cfg.Grid.Height) * cfg.Grid.CellSize,
	}
	rng := rand.New(rand.NewSource(seed))

	s := &sim{
		world:        world,
		mapper:       ecs.NewMap3[Position, Velocity, Tracker](world),
		filter:       ecs.NewFilter3[Position, Velocity, Tracker](world),
		planner:      planner,
		collector:    telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		output:       output,
		rng:          rng,
		heightOffset: cfg.Search.HeightOffset,
		agentSpeed:   30,
		targetSpeed:  18,
		worldExtent:  extent,
		origin:       origin,
	}
	s.targetPos = s.randomPoint()
	s.targetGoal = s.randomPoint()
	return s
}

// randomPoint picks a world position inside the grid footprint.
func (s *sim) randomPoint() geom.Vec3 {
	return geom.Vec3{
		X: s.origin.X + s.rng.Float64()*s.worldExtent.X,
		Z: s.origin.Z + s.rng.Float64()*s.worldExtent.Z,
	}
}

func (s *sim) spawnAgents(n int) {
	for i := 0; i < n; i++ {
		pos := Position{Vec3: s.randomPoint()}
		vel := Velocity{}
		s.mapper.NewEntity(&pos, &vel, &Tracker{})
	}
}

// step advances the target, asks the throttle whether to replan, and moves
// every agent along its waypoints.
func (s *sim) step(now time.Time, dt float64) {
	s.moveTarget(dt)

	centroid := s.centroid()
	targetCell, _, err := s.planner.WorldToGrid(s.targetPos, true)
	if err != nil {
		return
	}
	originCell, _, _ := s.planner.WorldToGrid(centroid, true)
	dist := geom.HorizontalDistance(centroid, s.targetPos)

	if s.planner.ShouldRecalculate(now, targetCell, originCell, dist) {
		res := s.planner.CalculatePathWorld(centroid, s.targetPos, s.heightOffset)
		s.recalcs++

		sample := telemetry.SampleFromResult(res)
		if err := s.output.WriteSearch(sample); err != nil {
			log.Fatalf("failed to write search record: %v", err)
		}
		if stats, done := s.collector.Record(sample); done {
			slog.Info("window", "stats", stats)
			if err := s.output.WriteStats(stats); err != nil {
				log.Fatalf("failed to write stats: %v", err)
			}
		}
		if res.Success {
			s.assignPath(res.Waypoints)
		}
	}

	s.moveAgents(dt)
}

// moveTarget advances the target toward its goal, re-aiming when reached.
func (s *sim) moveTarget(dt float64) {
	to := s.targetGoal.Sub(s.targetPos)
	to.Y = 0
	d := to.Length()
	if d < s.targetSpeed*dt {
		s.targetPos = s.targetGoal
		s.targetGoal = s.randomPoint()
		return
	}
	s.targetPos.X += to.X / d * s.targetSpeed * dt
	s.targetPos.Z += to.Z / d * s.targetSpeed * dt
}

// centroid returns the mean agent position.
func (s *sim) centroid() geom.Vec3 {
	var sum geom.Vec3
	count := 0
	query := s.filter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		sum = sum.Add(pos.Vec3)
		count++
	}
	if count == 0 {
		return s.origin
	}
	return geom.Vec3{X: sum.X / float64(count), Y: sum.Y / float64(count), Z: sum.Z / float64(count)}
}

// assignPath hands the freshly computed waypoints to every agent. Each
// agent keeps its own copy; the result slice belongs to this caller.
func (s *sim) assignPath(waypoints []geom.Vec3) {
	query := s.filter.Query()
	for query.Next() {
		_, _, tracker := query.Get()
		tracker.Waypoints = append(tracker.Waypoints[:0], waypoints...)
		tracker.Index = 0
	}
}

// moveAgents advances each agent toward its current waypoint.
func (s *sim) moveAgents(dt float64) {
	arrive := s.agentSpeed * dt * 1.5
	query := s.filter.Query()
	for query.Next() {
		pos, vel, tracker := query.Get()
		if tracker.Index >= len(tracker.Waypoints) {
			vel.Vec3 = geom.Vec3{}
			continue
		}
		wp := tracker.Waypoints[tracker.Index]
		to := wp.Sub(pos.Vec3)
		d := to.Length()
		if d < arrive {
			tracker.Index++
			continue
		}
		vel.Vec3 = geom.Vec3{X: to.X / d * s.agentSpeed, Y: to.Y / d * s.agentSpeed, Z: to.Z / d * s.agentSpeed}
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
		pos.Z += vel.Z * dt
	}
}
