package curve

import "sort"

func (c *CatmullRom) buildArcTable(divisions int) []float64 {
	lengths := make([]float64, divisions+1)
	prev := c.eval(0)
	for i := 1; i <= divisions; i++ {
		p := c.eval(float64(i) / float64(divisions))
		lengths[i] = lengths[i-1] + p.Sub(prev).Len()
		prev = p
	}
	return lengths
}

// arcToT maps an arc-length fraction u in [0, 1] to the uniform parameter t.
func (c *CatmullRom) arcToT(u float64) float64 {
	arc := c.arc
	n := len(arc) - 1
	total := arc[n]
	if total == 0 {
		return u
	}
	target := u * total

	// first sample at or beyond target
	i := sort.SearchFloat64s(arc, target)
	if i == 0 {
		return 0
	}
	if i > n {
		return 1
	}
	segLen := arc[i] - arc[i-1]
	frac := 0.0
	if segLen > 0 {
		frac = (target - arc[i-1]) / segLen
	}
	return (float64(i-1) + frac) / float64(n)
}
