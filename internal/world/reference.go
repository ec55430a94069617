package world

// Reference is the moving point generation follows (the player). It is
// written once at the start of every tick and read by every system during
// that tick.
type Reference struct {
	x       float64
	sampled bool
}

// Set records the reference position for the current tick.
func (r *Reference) Set(x float64) {
	r.x = x
	r.sampled = true
}

// X returns the last recorded position.
func (r *Reference) X() float64 { return r.x }

// Sampled reports whether any position has been recorded yet.
func (r *Reference) Sampled() bool { return r.sampled }
