package event

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/skyrun/engine/internal/pool"
)

// PlatformSpawned is published once per platform placement, within the tick
// that placed it. It is a snapshot: later changes to the instance are not
// reflected.
type PlatformSpawned struct {
	Seq      uint64 // 1-based placement counter
	Platform pool.Handle
	Variant  int
	Position mgl64.Vec3 // center
	Width    float64
}

// Right returns the right edge of the spawned platform.
func (e PlatformSpawned) Right() float64 {
	return e.Position.X() + e.Width/2
}
