package system

import "math"

// Rand is the random source the generators draw from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

func uniform(r Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// GapRegime identifies which branch of the gap roll produced a gap.
type GapRegime int

const (
	GapTight GapRegime = iota
	GapNormal
	GapLong
)

func (g GapRegime) String() string {
	switch g {
	case GapTight:
		return "tight"
	case GapNormal:
		return "normal"
	case GapLong:
		return "long"
	}
	return "unknown"
}

// Cumulative regime thresholds: 30% tight, 50% normal, 20% long.
const (
	tightChance  = 0.3
	normalChance = 0.8
)

// GapParams bounds the three gap regimes.
type GapParams struct {
	Min      float64 // normal regime lower bound
	Max      float64 // normal regime upper bound, long regime lower bound
	TightMax float64 // tight regime upper bound
	LongMax  float64 // feasibility-derived long regime upper bound
}

// LongUpper is the effective upper bound of the long regime. It is never
// below Max+1 so the regime always has room.
func (p GapParams) LongUpper() float64 {
	return math.Max(p.Max+1, p.LongMax)
}

// RollGap draws the regime, then a gap uniform within that regime's range.
func RollGap(r Rand, p GapParams) (float64, GapRegime) {
	roll := r.Float64()
	switch {
	case roll < tightChance:
		return uniform(r, 0, p.TightMax), GapTight
	case roll < normalChance:
		return uniform(r, p.Min, p.Max), GapNormal
	default:
		return uniform(r, p.Max, p.LongUpper()), GapLong
	}
}

// HeightParams bounds vertical placement.
type HeightParams struct {
	MinY    float64
	MaxY    float64
	MaxRise float64
	MaxDrop float64
}

// HeightRange returns the window the next height is drawn from given the
// previous platform's height.
func (p HeightParams) HeightRange(prev float64) (lo, hi float64) {
	lo = math.Max(p.MinY, prev-p.MaxDrop)
	hi = math.Min(p.MaxY, prev+p.MaxRise)
	if hi < lo {
		// prev sits outside [MinY, MaxY]; step toward the band
		if prev > p.MaxY {
			return lo, lo
		}
		return hi, hi
	}
	return lo, hi
}

// RollHeight draws the next platform height.
func RollHeight(r Rand, prev float64, p HeightParams) float64 {
	lo, hi := p.HeightRange(prev)
	return uniform(r, lo, hi)
}

// NextCenter places a platform of the given width gap units to the right of
// the chain's rightmost extent and returns its center x.
func NextCenter(rightX, gap, width float64) float64 {
	return rightX + gap + width/2
}
