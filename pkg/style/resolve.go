// Package style converts raw node attributes into canonical,
// renderer-agnostic style records. Resolution never fails: missing or
// unsupported style data degrades to transparent/zero defaults.
package style

import (
	"fmt"
	"strings"

	"github.com/figbridge/figbridge/pkg/scene"
)

// Fill is one resolved fill layer, kept in paint order (first = bottom).
// Exactly one of Solid/Gradient/ImageRef is meaningful, selected by Kind.
type Fill struct {
	Kind     string         `json:"kind"` // "solid", "gradient", "image"
	Solid    RGBA           `json:"solid,omitempty"`
	Gradient []GradientStop `json:"gradient,omitempty"`
	ImageRef string         `json:"imageRef,omitempty"`
}

// GradientStop is a resolved gradient stop.
type GradientStop struct {
	Position float64 `json:"position"`
	Color    RGBA    `json:"color"`
}

// Shadow is a resolved drop/inner shadow.
type Shadow struct {
	Inner   bool    `json:"inner,omitempty"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Spread  float64 `json:"spread,omitempty"`
	Color   RGBA    `json:"color"`
}

// Border is a resolved border record.
type Border struct {
	Width  float64            `json:"width"`
	Style  string             `json:"style"` // currently always "solid"
	Color  RGBA               `json:"color"`
	Radius *scene.CornerRadius `json:"radius,omitempty"`
}

// Typography is a resolved typography record.
type Typography struct {
	Family        string  `json:"family"`
	Size          float64 `json:"size"`
	Weight        float64 `json:"weight"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
}

// CanonicalStyle is the resolved style of one node. It is derived from the
// canonical node and never mutated afterwards; recompute it if the source
// node changes.
type CanonicalStyle struct {
	Fills      []Fill      `json:"fills,omitempty"`
	Border     *Border     `json:"border,omitempty"`
	Shadows    []Shadow    `json:"shadows,omitempty"`
	Typography *Typography `json:"typography,omitempty"`
}

// Background returns the resolved background color: the topmost visible
// solid fill. ok is false when the node has no solid fill.
func (s CanonicalStyle) Background() (RGBA, bool) {
	for i := len(s.Fills) - 1; i >= 0; i-- {
		if s.Fills[i].Kind == "solid" {
			return s.Fills[i].Solid, true
		}
	}
	return RGBA{}, false
}

// Resolve derives the canonical style of a single node.
func Resolve(n *scene.Node) CanonicalStyle {
	var cs CanonicalStyle

	for _, p := range n.Fills {
		if f, ok := resolvePaint(p); ok {
			cs.Fills = append(cs.Fills, f)
		}
	}

	if n.Stroke != nil || n.CornerRadius != nil {
		b := &Border{Style: "solid"}
		if n.Stroke != nil {
			b.Width = n.Stroke.Weight
			for _, p := range n.Stroke.Paints {
				if p.IsVisible() && p.Type == "SOLID" {
					b.Color = ResolveColor(p.Color, p.OpacityValue())
					break
				}
			}
		}
		b.Radius = n.CornerRadius
		cs.Border = b
	}

	for _, e := range n.Effects {
		if !e.IsVisible() {
			continue
		}
		switch e.Type {
		case "DROP_SHADOW", "INNER_SHADOW":
			sh := Shadow{
				Inner:  e.Type == "INNER_SHADOW",
				Blur:   e.Radius,
				Spread: e.Spread,
				Color:  ResolveColor(e.Color, 1.0),
			}
			if e.Offset != nil {
				sh.OffsetX = e.Offset.X
				sh.OffsetY = e.Offset.Y
			}
			cs.Shadows = append(cs.Shadows, sh)
		}
		// blur and other effect types degrade silently; see design notes
	}

	if n.Typography != nil {
		cs.Typography = &Typography{
			Family:        n.Typography.FontFamily,
			Size:          n.Typography.FontSize,
			Weight:        n.Typography.FontWeight,
			LineHeight:    n.Typography.LineHeightPx,
			LetterSpacing: n.Typography.LetterSpacing,
		}
	}

	return cs
}

// resolvePaint converts one raw paint layer. Invisible layers are dropped;
// unsupported paint types degrade to a transparent solid so layer order is
// preserved for the emitter.
func resolvePaint(p scene.Paint) (Fill, bool) {
	if !p.IsVisible() {
		return Fill{}, false
	}
	switch {
	case p.Type == "SOLID":
		return Fill{Kind: "solid", Solid: ResolveColor(p.Color, p.OpacityValue())}, true
	case strings.HasPrefix(p.Type, "GRADIENT"):
		stops := make([]GradientStop, 0, len(p.GradientStops))
		for _, st := range p.GradientStops {
			c := st.Color
			stops = append(stops, GradientStop{
				Position: st.Position,
				Color:    ResolveColor(&c, p.OpacityValue()),
			})
		}
		return Fill{Kind: "gradient", Gradient: stops}, true
	case p.Type == "IMAGE":
		return Fill{Kind: "image", ImageRef: p.ImageRef}, true
	default:
		return Fill{Kind: "solid"}, true
	}
}

// Shorthand renders the shadow as a CSS box-shadow value.
func (s Shadow) Shorthand(color string) string {
	base := fmt.Sprintf("%gpx %gpx %gpx", s.OffsetX, s.OffsetY, s.Blur)
	if s.Spread != 0 {
		base += fmt.Sprintf(" %gpx", s.Spread)
	}
	base += " " + color
	if s.Inner {
		base = "inset " + base
	}
	return base
}
