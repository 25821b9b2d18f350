package spawner

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/udisondev/beatspawn/internal/geom"
)

// CommandKind tells the target lifecycle actor what to do with a target.
type CommandKind uint8

const (
	// CommandPlace materializes a new target (single/multi beat).
	CommandPlace CommandKind = iota
	// CommandActivate activates a standing BeatGrid target.
	CommandActivate
	// CommandSpawn materializes a standing target: the BeatGrid lattice or the tracking target.
	CommandSpawn
	// CommandRedirect changes direction, speed and scale of the tracking target.
	CommandRedirect
	// CommandMove moves a live target to Position.
	CommandMove
)

func (k CommandKind) String() string {
	switch k {
	case CommandPlace:
		return "place"
	case CommandActivate:
		return "activate"
	case CommandSpawn:
		return "spawn"
	case CommandRedirect:
		return "redirect"
	case CommandMove:
		return "move"
	default:
		return fmt.Sprintf("CommandKind(%d)", uint8(k))
	}
}

// Command is an outbound instruction. Fields irrelevant to Kind are zero.
type Command struct {
	Kind      CommandKind
	Handle    uuid.UUID
	Position  geom.Vec3
	Scale     float64
	Lifespan  float64 // seconds
	Direction geom.Vec3
	Speed     float64
}

// Observer receives scoring notifications.
type Observer interface {
	TargetSpawned()
	StreakChanged(count int, location geom.Vec3)
}

type nopObserver struct{}

func (nopObserver) TargetSpawned()                {}
func (nopObserver) StreakChanged(int, geom.Vec3) {}
