package anim

import "github.com/lucasb-eyer/go-colorful"

// ColorValues boxes a color into raw animation values (r, g, b), so color
// properties can ride the same value pipeline as everything else.
func ColorValues(c colorful.Color) []float64 {
	return []float64{c.R, c.G, c.B}
}

// ColorFromValues unboxes raw animation values back into a color.
// Components are clamped to the displayable range, since springs
// overshoot.
func ColorFromValues(v []float64) colorful.Color {
	var c colorful.Color
	if len(v) > 0 {
		c.R = v[0]
	}
	if len(v) > 1 {
		c.G = v[1]
	}
	if len(v) > 2 {
		c.B = v[2]
	}
	return c.Clamped()
}
