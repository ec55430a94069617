package physics

import "math"

// DefaultGravity matches the engine's default downward acceleration.
const DefaultGravity = -9.81

// MaxJumpHeight returns the apex height of a jump launched straight up at v:
// v² / (2·g), with g the gravity magnitude.
func MaxJumpHeight(v, gravity float64) float64 {
	g := math.Abs(gravity)
	return (v * v) / (2 * g)
}

// AirTime returns how long a jump launched at v stays airborne before it
// lands back at launch height: 2v / g.
func AirTime(v, gravity float64) float64 {
	g := math.Abs(gravity)
	return 2 * v / g
}

// MaxHorizontalDistance is the ground covered at a constant horizontal speed
// during one full jump.
func MaxHorizontalDistance(speed, v, gravity float64) float64 {
	return speed * AirTime(v, gravity)
}

// JumpVelocityForHeight inverts MaxJumpHeight: the launch velocity needed to
// reach height h, i.e. sqrt(2·h·g).
func JumpVelocityForHeight(h, gravity float64) float64 {
	if h <= 0 {
		return 0
	}
	return math.Sqrt(2 * h * math.Abs(gravity))
}

// Jump holds the locomotion parameters the generator needs. Values are read
// once when generation parameters are resolved.
type Jump struct {
	Speed    float64 // horizontal run speed
	Velocity float64 // initial vertical jump velocity
	Gravity  float64 // signed gravity acceleration; only the magnitude is used
}

// AirTime returns the airborne time of this jump.
func (j Jump) AirTime() float64 { return AirTime(j.Velocity, j.Gravity) }

// MaxHeight returns the apex height of this jump.
func (j Jump) MaxHeight() float64 { return MaxJumpHeight(j.Velocity, j.Gravity) }

// MaxGap is the widest horizontal gap this jump can clear, scaled by safety.
func (j Jump) MaxGap(safety float64) float64 {
	return MaxHorizontalDistance(j.Speed, j.Velocity, j.Gravity) * safety
}
