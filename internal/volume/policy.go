package volume

import "fmt"

// SpreadPolicy governs how spawn locations are distributed across the volume.
type SpreadPolicy uint8

const (
	SpreadNone SpreadPolicy = iota
	SpreadStaticNarrow
	SpreadStaticWide
	SpreadDynamicRandom
	SpreadDynamicEdgeOnly
)

var policyNames = map[SpreadPolicy]string{
	SpreadNone:            "none",
	SpreadStaticNarrow:    "static_narrow",
	SpreadStaticWide:      "static_wide",
	SpreadDynamicRandom:   "dynamic_random",
	SpreadDynamicEdgeOnly: "dynamic_edge_only",
}

// String returns the configuration name of the policy.
func (p SpreadPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("SpreadPolicy(%d)", uint8(p))
}

// IsDynamic reports whether the effective extents follow the difficulty factor.
func (p SpreadPolicy) IsDynamic() bool {
	return p == SpreadDynamicRandom || p == SpreadDynamicEdgeOnly
}

// ParseSpreadPolicy resolves a configuration name.
func ParseSpreadPolicy(s string) (SpreadPolicy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return SpreadNone, fmt.Errorf("unknown spread policy %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler so policies can be named in YAML.
func (p *SpreadPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseSpreadPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p SpreadPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
