package scene

import "encoding/json"

// RawNode is a node exactly as pushed by the design-tool plugin. All style
// attributes are optional; the normalizer fills defaults and converts the
// tree into canonical Node values.
type RawNode struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CustomName string `json:"customName,omitempty"`
	Type       string `json:"type"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Visible *bool `json:"visible,omitempty"`
	Locked  *bool `json:"locked,omitempty"`

	Fills        []Paint  `json:"fills,omitempty"`
	Strokes      []Paint  `json:"strokes,omitempty"`
	StrokeWeight float64  `json:"strokeWeight,omitempty"`
	Effects      []Effect `json:"effects,omitempty"`

	CornerRadius         *float64  `json:"cornerRadius,omitempty"`
	RectangleCornerRadii []float64 `json:"rectangleCornerRadii,omitempty"`

	Characters string     `json:"characters,omitempty"`
	Style      *TypeStyle `json:"style,omitempty"`

	LayoutMode    string  `json:"layoutMode,omitempty"`
	ItemSpacing   float64 `json:"itemSpacing,omitempty"`
	PaddingTop    float64 `json:"paddingTop,omitempty"`
	PaddingRight  float64 `json:"paddingRight,omitempty"`
	PaddingBottom float64 `json:"paddingBottom,omitempty"`
	PaddingLeft   float64 `json:"paddingLeft,omitempty"`

	Children []RawNode `json:"children,omitempty"`

	// Extra collects attributes outside the recognized set so that nodes of
	// unknown types keep their payload through normalization.
	Extra map[string]any `json:"-"`
}

// rawNodeKeys lists JSON keys decoded into typed RawNode fields. Anything
// else in the object lands in Extra.
var rawNodeKeys = map[string]bool{
	"id": true, "name": true, "customName": true, "type": true,
	"x": true, "y": true, "width": true, "height": true,
	"visible": true, "locked": true,
	"fills": true, "strokes": true, "strokeWeight": true, "effects": true,
	"cornerRadius": true, "rectangleCornerRadii": true,
	"characters": true, "style": true,
	"layoutMode": true, "itemSpacing": true,
	"paddingTop": true, "paddingRight": true, "paddingBottom": true, "paddingLeft": true,
	"children": true,
}

// UnmarshalJSON decodes the typed fields and captures unrecognized
// attributes into Extra.
func (n *RawNode) UnmarshalJSON(data []byte) error {
	type plain RawNode
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for key, raw := range all {
		if rawNodeKeys[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[key] = v
	}

	*n = RawNode(p)
	return nil
}

// ExportFile is the on-disk shape of a scene export: batch metadata plus the
// root nodes selected in the design tool.
type ExportFile struct {
	FileKey    string    `json:"fileKey"`
	Name       string    `json:"name"`
	PageID     string    `json:"pageId"`
	Components []RawNode `json:"components"`
}

// ParseExport decodes an export file payload.
func ParseExport(data []byte) (*ExportFile, error) {
	var f ExportFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
