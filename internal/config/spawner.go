package config

import (
	"errors"
	"fmt"

	"github.com/udisondev/beatspawn/internal/placement"
	"github.com/udisondev/beatspawn/internal/volume"
)

// Mode is the game mode family; modes are mutually exclusive.
type Mode string

const (
	ModeSingleBeat Mode = "single_beat"
	ModeMultiBeat  Mode = "multi_beat"
	ModeBeatGrid   Mode = "beat_grid"
	ModeBeatTrack  Mode = "beat_track"
)

// VerticalPlacement chooses where the spawn box sits vertically.
type VerticalPlacement string

const (
	VerticalFloorRelative VerticalPlacement = "floor_relative"
	VerticalHeadshot      VerticalPlacement = "headshot"
	VerticalWallCentered  VerticalPlacement = "wall_centered"
)

// GridSpacing is the gap between BeatGrid targets, on top of their diameter.
type GridSpacing struct {
	Horizontal float64 `yaml:"horizontal"`
	Vertical   float64 `yaml:"vertical"`
}

// Spawner is the fully resolved configuration consumed by the spawner.
type Spawner struct {
	Mode Mode `yaml:"mode"`

	// Spawn area, full width/height (halved into half extents on init)
	BoxWidth          float64             `yaml:"box_width"`
	BoxHeight         float64             `yaml:"box_height"`
	VerticalPlacement VerticalPlacement   `yaml:"vertical_placement"`
	SpreadPolicy      volume.SpreadPolicy `yaml:"spread_policy"`
	PlacementStrategy placement.Strategy  `yaml:"placement_strategy"`
	MinSeparation     float64             `yaml:"min_separation"`

	// Targets
	MinTargetScale    float64 `yaml:"min_target_scale"`
	MaxTargetScale    float64 `yaml:"max_target_scale"`
	UseDynamicSizing  bool    `yaml:"use_dynamic_sizing"`
	SpawnPeriod       float64 `yaml:"spawn_period"`        // seconds
	TargetMaxLifespan float64 `yaml:"target_max_lifespan"` // seconds

	// BeatTrack
	MinTrackingSpeed float64 `yaml:"min_tracking_speed"`
	MaxTrackingSpeed float64 `yaml:"max_tracking_speed"`

	// BeatGrid
	BeatGridSize      int         `yaml:"beat_grid_size"` // total targets, laid out sqrt x sqrt
	BeatGridSpacing   GridSpacing `yaml:"beat_grid_spacing"`
	RandomizeBeatGrid bool        `yaml:"randomize_beat_grid"`

	// Targets drift toward the player over their lifespan
	MoveTargetsForward  bool    `yaml:"move_targets_forward"`
	MoveForwardDistance float64 `yaml:"move_forward_distance"`

	// Seed for the random source; 0 picks a random seed
	Seed uint64 `yaml:"seed"`
}

// DefaultSpawner returns a narrow single-beat configuration.
func DefaultSpawner() Spawner {
	return Spawner{
		Mode:              ModeSingleBeat,
		BoxWidth:          1600,
		BoxHeight:         500,
		VerticalPlacement: VerticalFloorRelative,
		SpreadPolicy:      volume.SpreadStaticNarrow,
		PlacementStrategy: placement.StrategyRetry,
		MinSeparation:     100,
		MinTargetScale:    0.8,
		MaxTargetScale:    2.0,
		SpawnPeriod:       0.35,
		TargetMaxLifespan: 1.5,
		MinTrackingSpeed:  500,
		MaxTrackingSpeed:  1000,
		BeatGridSize:      16,
		BeatGridSpacing:   GridSpacing{Horizontal: 75, Vertical: 75},
	}
}

// Validate reports every invalid field at once.
func (s Spawner) Validate() error {
	var errs []error

	switch s.Mode {
	case ModeSingleBeat, ModeMultiBeat, ModeBeatGrid, ModeBeatTrack:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", s.Mode))
	}

	switch s.VerticalPlacement {
	case "", VerticalFloorRelative, VerticalHeadshot, VerticalWallCentered:
	default:
		errs = append(errs, fmt.Errorf("unknown vertical placement %q", s.VerticalPlacement))
	}

	if s.BoxWidth < 0 || s.BoxHeight < 0 {
		errs = append(errs, fmt.Errorf("box size must not be negative (%gx%g)", s.BoxWidth, s.BoxHeight))
	}
	if s.SpawnPeriod <= 0 {
		errs = append(errs, fmt.Errorf("spawn_period must be positive, got %g", s.SpawnPeriod))
	}
	if s.TargetMaxLifespan <= 0 {
		errs = append(errs, fmt.Errorf("target_max_lifespan must be positive, got %g", s.TargetMaxLifespan))
	}
	if s.MinTargetScale <= 0 || s.MaxTargetScale < s.MinTargetScale {
		errs = append(errs, fmt.Errorf("invalid target scale range [%g, %g]", s.MinTargetScale, s.MaxTargetScale))
	}
	if s.MinTrackingSpeed < 0 || s.MaxTrackingSpeed < s.MinTrackingSpeed {
		errs = append(errs, fmt.Errorf("invalid tracking speed range [%g, %g]", s.MinTrackingSpeed, s.MaxTrackingSpeed))
	}
	if s.Mode == ModeBeatGrid && s.BeatGridSize < 1 {
		errs = append(errs, fmt.Errorf("beat_grid_size must be at least 1, got %d", s.BeatGridSize))
	}
	// a headshot volume has no height, so only a single slot fits
	if s.Mode == ModeBeatGrid && s.VerticalPlacement == VerticalHeadshot && s.BeatGridSize >= 4 {
		errs = append(errs, fmt.Errorf("beat_grid_size %d needs more than one row, which headshot placement cannot hold", s.BeatGridSize))
	}

	return errors.Join(errs...)
}
