package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Session describes one simulated play session.
type Session struct {
	Name string `yaml:"name"`
	// Preset seeds Spawner before the remaining keys are applied.
	Preset string `yaml:"preset"`

	Duration       float64 `yaml:"duration"`        // seconds
	FrameStep      float64 `yaml:"frame_step"`      // seconds per simulated frame
	HitProbability float64 `yaml:"hit_probability"` // 0..1
	ReactionTime   float64 `yaml:"reaction_time"`   // seconds before a hit lands

	Spawner Spawner `yaml:"spawner"`
}

// DefaultSession returns a one-minute session with a fair simulated player.
func DefaultSession() Session {
	return Session{
		Name:           "default",
		Duration:       60,
		FrameStep:      1.0 / 60,
		HitProbability: 0.75,
		ReactionTime:   0.45,
		Spawner:        DefaultSpawner(),
	}
}

// UnmarshalYAML applies the named preset first, then the explicit keys.
func (s *Session) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := node.Decode(&head); err != nil {
		return fmt.Errorf("decoding session preset: %w", err)
	}

	base := DefaultSession()
	if head.Preset != "" {
		p, err := Preset(head.Preset)
		if err != nil {
			return err
		}
		base.Spawner = p
		base.Name = head.Preset
	}

	type plain Session
	decoded := plain(base)
	if err := node.Decode(&decoded); err != nil {
		return fmt.Errorf("decoding session: %w", err)
	}
	*s = Session(decoded)
	return nil
}
