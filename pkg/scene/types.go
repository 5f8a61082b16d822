package scene

// Kind classifies a node in the scene graph. Design tools emit many more
// node types than the pipeline distinguishes; anything outside the known set
// is preserved as KindUnrecognized together with its raw attribute bag.
type Kind string

const (
	KindContainer Kind = "container"
	KindText      Kind = "text"
	KindVector    Kind = "vector"
	KindInstance  Kind = "component-instance"
	KindGroup     Kind = "group"

	// KindUnrecognized is the catch-all for node types the pipeline does not
	// know. Such nodes are kept in the tree (with defaults filled) so that
	// analysis and emission still see the full structure.
	KindUnrecognized Kind = "unrecognized"
)

// knownKinds maps the design tool's exported type names onto Kind.
// FRAME and RECTANGLE both behave as containers for the pipeline's purposes.
var knownKinds = map[string]Kind{
	"FRAME":     KindContainer,
	"RECTANGLE": KindContainer,
	"CONTAINER": KindContainer,
	"TEXT":      KindText,
	"VECTOR":    KindVector,
	"ELLIPSE":   KindVector,
	"LINE":      KindVector,
	"STAR":      KindVector,
	"POLYGON":   KindVector,
	"INSTANCE":  KindInstance,
	"COMPONENT": KindInstance,
	"GROUP":     KindGroup,
}

// Color is a raw color as exported by the design tool: float channels in
// the 0..1 range. Quantization to 8-bit happens in the style resolver.
// Alpha is a pointer so that an absent channel (defaulting to fully opaque)
// is distinguishable from an explicit 0.
type Color struct {
	R float64  `json:"r"`
	G float64  `json:"g"`
	B float64  `json:"b"`
	A *float64 `json:"a,omitempty"`
}

// Alpha returns the alpha channel, defaulting to 1.0 when absent.
func (c Color) Alpha() float64 {
	if c.A == nil {
		return 1.0
	}
	return *c.A
}

// GradientStop is one stop of a gradient paint, position in 0..1.
type GradientStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

// Paint is a single fill or stroke layer. Layers are ordered bottom-up:
// the first paint in a node's fill list is the bottom layer.
type Paint struct {
	Type          string         `json:"type"` // SOLID, GRADIENT_LINEAR, GRADIENT_RADIAL, IMAGE, ...
	Visible       *bool          `json:"visible,omitempty"`
	Opacity       *float64       `json:"opacity,omitempty"`
	Color         *Color         `json:"color,omitempty"`
	GradientStops []GradientStop `json:"gradientStops,omitempty"`
	ImageRef      string         `json:"imageRef,omitempty"`
}

// IsVisible reports whether the paint layer is visible (default true).
func (p Paint) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// OpacityValue returns the layer opacity, defaulting to 1.0 when absent.
func (p Paint) OpacityValue() float64 {
	if p.Opacity == nil {
		return 1.0
	}
	return *p.Opacity
}

// Effect is a raw shadow or blur effect.
type Effect struct {
	Type    string   `json:"type"` // DROP_SHADOW, INNER_SHADOW, LAYER_BLUR, ...
	Visible *bool    `json:"visible,omitempty"`
	Radius  float64  `json:"radius,omitempty"`
	Spread  float64  `json:"spread,omitempty"`
	Color   *Color   `json:"color,omitempty"`
	Offset  *Vector  `json:"offset,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
}

// IsVisible reports whether the effect is visible (default true).
func (e Effect) IsVisible() bool {
	return e.Visible == nil || *e.Visible
}

// Vector is a 2D offset, used for effect positioning.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TypeStyle carries raw typography attributes of a text node.
type TypeStyle struct {
	FontFamily    string  `json:"fontFamily"`
	FontWeight    float64 `json:"fontWeight"`
	FontSize      float64 `json:"fontSize"`
	LineHeightPx  float64 `json:"lineHeightPx"`
	LetterSpacing float64 `json:"letterSpacing"`
}

// CornerRadius holds either a uniform radius or four per-corner values,
// clockwise from top-left. Values are stored exactly as given.
type CornerRadius struct {
	TopLeft     float64 `json:"topLeft"`
	TopRight    float64 `json:"topRight"`
	BottomRight float64 `json:"bottomRight"`
	BottomLeft  float64 `json:"bottomLeft"`
}

// Uniform reports whether all four corners share one radius.
func (c CornerRadius) Uniform() bool {
	return c.TopLeft == c.TopRight && c.TopRight == c.BottomRight && c.BottomRight == c.BottomLeft
}

// Stroke is a resolved stroke record: the stroke paints plus their weight.
type Stroke struct {
	Paints []Paint `json:"paints"`
	Weight float64 `json:"weight"`
}

// Layout captures auto-layout attributes used for spacing tokens and
// structural classification. Mode is "HORIZONTAL", "VERTICAL" or "".
type Layout struct {
	Mode          string  `json:"mode,omitempty"`
	ItemSpacing   float64 `json:"itemSpacing,omitempty"`
	PaddingTop    float64 `json:"paddingTop,omitempty"`
	PaddingRight  float64 `json:"paddingRight,omitempty"`
	PaddingBottom float64 `json:"paddingBottom,omitempty"`
	PaddingLeft   float64 `json:"paddingLeft,omitempty"`
}

// Node is a canonical scene-graph node produced by Normalize. Once built it
// is treated as immutable; derived data (styles, tokens, analyses) is
// recomputed rather than written back.
type Node struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CustomName string `json:"customName,omitempty"`
	Kind       Kind   `json:"kind"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Visible bool `json:"visible"`
	Locked  bool `json:"locked"`

	Fills        []Paint       `json:"fills"`
	Stroke       *Stroke       `json:"stroke,omitempty"`
	CornerRadius *CornerRadius `json:"cornerRadius,omitempty"`
	Effects      []Effect      `json:"effects"`
	Typography   *TypeStyle    `json:"typography,omitempty"`
	Layout       *Layout       `json:"layout,omitempty"`
	Characters   string        `json:"characters,omitempty"`

	// Extra holds the raw attribute bag of an unrecognized node type.
	// Empty for known kinds.
	Extra map[string]any `json:"extra,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// DisplayName returns the user-assigned alias when present, otherwise the
// designer-assigned name.
func (n *Node) DisplayName() string {
	if n.CustomName != "" {
		return n.CustomName
	}
	return n.Name
}

// HasImageFill reports whether any visible fill layer is an image paint.
func (n *Node) HasImageFill() bool {
	for _, p := range n.Fills {
		if p.IsVisible() && p.Type == "IMAGE" {
			return true
		}
	}
	return false
}
