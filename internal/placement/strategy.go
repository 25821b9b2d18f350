package placement

import "fmt"

// Strategy selects how a free location is searched for.
type Strategy uint8

const (
	// StrategyRetry samples random points and rejects those intersecting recent targets.
	StrategyRetry Strategy = iota
	// StrategyGridScan scans the occupancy grid for an open region.
	StrategyGridScan
)

func (s Strategy) String() string {
	switch s {
	case StrategyRetry:
		return "retry"
	case StrategyGridScan:
		return "grid_scan"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "retry":
		*s = StrategyRetry
	case "grid_scan":
		*s = StrategyGridScan
	default:
		return fmt.Errorf("unknown placement strategy %q", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
