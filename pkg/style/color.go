package style

import (
	"fmt"
	"math"

	"github.com/figbridge/figbridge/pkg/scene"
)

// RGBA is a canonical 8-bit color.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Quantize converts one float channel in 0..1 to 8-bit using round(c*255),
// clamped to [0, 255]. This is the single conversion rule used everywhere;
// e.g. 0.48 resolves to 122.
func Quantize(channel float64) uint8 {
	v := math.Round(channel * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ResolveColor converts a raw color to canonical RGBA, multiplying in the
// paint opacity (1.0 for none). A nil color resolves to fully transparent;
// a missing alpha channel defaults to 1.0.
func ResolveColor(c *scene.Color, opacity float64) RGBA {
	if c == nil {
		return RGBA{}
	}
	alpha := c.Alpha() * opacity
	return RGBA{
		R: Quantize(c.R),
		G: Quantize(c.G),
		B: Quantize(c.B),
		A: Quantize(alpha),
	}
}

// Hex renders the color as a 6-digit lowercase hex string, ignoring alpha.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexWithAlpha renders an 8-digit hex string when the color is not fully
// opaque, otherwise a 6-digit one.
func (c RGBA) HexWithAlpha() string {
	if c.A == 255 {
		return c.Hex()
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// CSS renders the color as rgb(r,g,b), or rgba(r,g,b,a) for translucent
// colors with alpha rounded to two decimals.
func (c RGBA) CSS() string {
	if c.A == 255 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, float64(c.A)/255)
}

// Opaque reports whether the color is fully opaque.
func (c RGBA) Opaque() bool { return c.A == 255 }

// Transparent reports whether the color is fully transparent.
func (c RGBA) Transparent() bool { return c.A == 0 }

// RelativeLuminance computes the WCAG relative luminance of the color.
func (c RGBA) RelativeLuminance() float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

func linearize(ch uint8) float64 {
	v := float64(ch) / 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio computes the WCAG contrast ratio between two colors,
// always >= 1.
func ContrastRatio(a, b RGBA) float64 {
	la := a.RelativeLuminance()
	lb := b.RelativeLuminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}
