package nav

import (
	"github.com/pthm-cable/aeronav/config"
	"github.com/pthm-cable/aeronav/geom"
)

// GridConfigFrom maps the loaded configuration onto a grid configuration.
func GridConfigFrom(cfg *config.Config) GridConfig {
	return GridConfig{
		Width:          cfg.Grid.Width,
		Height:         cfg.Grid.Height,
		CellSize:       cfg.Grid.CellSize,
		Origin:         geom.Vec3{X: cfg.Grid.OriginX, Y: cfg.Grid.OriginY, Z: cfg.Grid.OriginZ},
		CostMultiplier: cfg.Grid.CostMultiplier,
	}
}

// ThrottleConfigFrom maps the throttle section onto a throttle policy.
func ThrottleConfigFrom(cfg *config.Config) ThrottleConfig {
	return ThrottleConfig{
		MinInterval:      cfg.Derived.MinInterval,
		TargetThreshold:  cfg.Throttle.TargetThreshold,
		OriginThreshold:  cfg.Throttle.OriginThreshold,
		DistanceScaling:  cfg.Throttle.DistanceScaling,
		FarDistance:      cfg.Throttle.FarDistance,
		MaxIntervalScale: cfg.Throttle.MaxIntervalScale,
	}
}

// OptionsFrom builds planner options for the search and throttle sections.
func OptionsFrom(cfg *config.Config) []Option {
	opts := []Option{
		WithMaxIterations(cfg.Derived.MaxIterations),
		WithThrottle(ThrottleConfigFrom(cfg)),
	}
	if cfg.Search.StrictBounds {
		opts = append(opts, WithStrictBounds())
	}
	if cfg.Search.SimplifyPath {
		opts = append(opts, WithSimplify())
	}
	return opts
}
