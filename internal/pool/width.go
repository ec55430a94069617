package pool

import "github.com/skyrun/engine/internal/data"

// FallbackWidth is used when a variant has neither an explicit width nor any
// geometry source that can measure it.
const FallbackWidth = 1.0

// Geometry measures the extent of a variant along x. ok=false means this
// source knows nothing about the variant.
type Geometry interface {
	Extent(v data.Variant) (width float64, ok bool)
}

// WidthResolver resolves the width of a variant: the explicit configured
// width if positive, else the first geometry source that reports a positive
// extent, else the fallback constant.
type WidthResolver struct {
	fallback float64
	sources  []Geometry
}

func NewWidthResolver(fallback float64, sources ...Geometry) *WidthResolver {
	if fallback <= 0 {
		fallback = FallbackWidth
	}
	r := &WidthResolver{fallback: fallback}
	for _, s := range sources {
		if s != nil {
			r.sources = append(r.sources, s)
		}
	}
	return r
}

// Resolve never fails. A nil resolver behaves as one with no geometry.
func (r *WidthResolver) Resolve(v data.Variant) float64 {
	if v.Width > 0 {
		return v.Width
	}
	if r == nil {
		return FallbackWidth
	}
	for _, s := range r.sources {
		if w, ok := s.Extent(v); ok && w > 0 {
			return w
		}
	}
	return r.fallback
}
