package world

// ChainState is the platform generator's running cursor: the rightmost
// occupied x and the height of the last placed platform. Every placement
// derives its left edge from the cursor and advances it in the same call.
type ChainState struct {
	RightX float64
	Y      float64
	Placed uint64
}

// Advance records a platform placed at centerX with the given width and
// height and returns the new rightmost extent.
func (c *ChainState) Advance(centerX, width, y float64) float64 {
	c.RightX = centerX + width/2
	c.Y = y
	c.Placed++
	return c.RightX
}
