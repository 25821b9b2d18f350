package config

import (
	"fmt"

	"github.com/udisondev/beatspawn/internal/volume"
)

// Preset names of the built-in game modes.
const (
	PresetNarrowSingleBeat = "narrow_spread_single_beat"
	PresetWideSingleBeat   = "wide_spread_single_beat"
	PresetNarrowMultiBeat  = "narrow_spread_multi_beat"
	PresetWideMultiBeat    = "wide_spread_multi_beat"
	PresetBeatGrid         = "beat_grid"
	PresetBeatTrack        = "beat_track"
)

var presetNames = []string{
	PresetNarrowSingleBeat,
	PresetWideSingleBeat,
	PresetNarrowMultiBeat,
	PresetWideMultiBeat,
	PresetBeatGrid,
	PresetBeatTrack,
}

// PresetNames returns the built-in preset names in display order.
func PresetNames() []string {
	out := make([]string, len(presetNames))
	copy(out, presetNames)
	return out
}

// Preset returns the spawner configuration of a built-in game mode.
func Preset(name string) (Spawner, error) {
	s := DefaultSpawner()

	switch name {
	case PresetNarrowSingleBeat:
		s.Mode = ModeSingleBeat
		s.SpreadPolicy = volume.SpreadStaticNarrow
		s.TargetMaxLifespan = 0.8
	case PresetWideSingleBeat:
		s.Mode = ModeSingleBeat
		s.SpreadPolicy = volume.SpreadStaticWide
		s.BoxWidth, s.BoxHeight = 3200, 1000
		s.TargetMaxLifespan = 0.8
	case PresetNarrowMultiBeat:
		s.Mode = ModeMultiBeat
		s.SpreadPolicy = volume.SpreadDynamicRandom
		s.UseDynamicSizing = true
		s.TargetMaxLifespan = 1.0
	case PresetWideMultiBeat:
		s.Mode = ModeMultiBeat
		s.SpreadPolicy = volume.SpreadStaticWide
		s.BoxWidth, s.BoxHeight = 3200, 1000
		s.TargetMaxLifespan = 1.5
	case PresetBeatGrid:
		s.Mode = ModeBeatGrid
		s.SpreadPolicy = volume.SpreadNone
		s.BoxWidth, s.BoxHeight = 3200, 1000
		s.BeatGridSize = 25
		s.TargetMaxLifespan = 1.2
	case PresetBeatTrack:
		s.Mode = ModeBeatTrack
		s.SpreadPolicy = volume.SpreadNone
		s.BoxWidth, s.BoxHeight = 3200, 1000
		s.MinTargetScale, s.MaxTargetScale = 1.3, 1.3
		s.MoveForwardDistance = 1000
		s.TargetMaxLifespan = 60
	default:
		return s, fmt.Errorf("unknown preset %q", name)
	}

	return s, nil
}
