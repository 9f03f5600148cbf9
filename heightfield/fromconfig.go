package heightfield

import (
	"fmt"

	"github.com/pthm-cable/aeronav/config"
	"github.com/pthm-cable/aeronav/geom"
	"github.com/pthm-cable/aeronav/nav"
)

// FromConfig builds the height source selected by the terrain section.
// Static terrain carries its own sample data and cannot be built from
// configuration alone.
func FromConfig(cfg *config.Config) (nav.HeightSource, error) {
	geo := Geometry{
		Width:    cfg.Grid.Width,
		Height:   cfg.Grid.Height,
		CellSize: cfg.Grid.CellSize,
		Origin:   geom.Vec3{X: cfg.Grid.OriginX, Y: cfg.Grid.OriginY, Z: cfg.Grid.OriginZ},
	}
	switch cfg.Terrain.Source {
	case "", "flat":
		return NewFlat(geo, cfg.Terrain.FlatHeight)
	case "procedural":
		return NewProcedural(geo, ProceduralParams{
			Seed:        cfg.Terrain.Seed,
			NoiseScale:  cfg.Terrain.NoiseScale,
			Octaves:     cfg.Terrain.Octaves,
			Persistence: cfg.Terrain.Persistence,
			HeightScale: cfg.Terrain.HeightScale,
			BaseHeight:  cfg.Terrain.BaseHeight,
		})
	case "static":
		return nil, fmt.Errorf("heightfield: static terrain requires sample data; use NewStatic")
	}
	return nil, fmt.Errorf("heightfield: unknown terrain source %q", cfg.Terrain.Source)
}
