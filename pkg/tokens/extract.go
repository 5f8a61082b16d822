// Package tokens derives a deduplicated, named design-token set from a
// batch of canonical trees. Extraction is deterministic: the same batch
// always yields the same token list in the same order.
package tokens

import (
	"fmt"

	"github.com/figbridge/figbridge/pkg/scene"
	"github.com/figbridge/figbridge/pkg/style"
)

// Category classifies a design token.
type Category string

const (
	CategoryColor      Category = "color"
	CategoryTypography Category = "typography"
	CategorySpacing    Category = "spacing"
	CategoryShadow     Category = "shadow"
	CategoryBorder     Category = "border"
)

// Token is a named, deduplicated style value. Two occurrences with an
// identical canonical value map to the same token.
type Token struct {
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Category Category `json:"category"`
}

// mnemonic names for well-known color constants.
var wellKnownColors = map[string]string{
	"#000000": "black",
	"#ffffff": "white",
}

// Extract walks the batch depth-first (children in original order) and
// collects tokens per category, deduplicated by exact canonical value.
// Token order is the order of first encounter; counter-based names are
// assigned per category except for well-known constants.
func Extract(roots []*scene.Node) []Token {
	ex := extractor{
		seen:     make(map[string]bool),
		counters: make(map[Category]int),
	}
	for _, root := range roots {
		scene.Walk(root, func(n *scene.Node, _ int) bool {
			ex.collect(n)
			return true
		})
	}
	return ex.out
}

type extractor struct {
	out      []Token
	seen     map[string]bool // category + "\x00" + value
	counters map[Category]int
}

func (ex *extractor) collect(n *scene.Node) {
	cs := style.Resolve(n)

	for _, f := range cs.Fills {
		if f.Kind == "solid" && !f.Solid.Transparent() {
			ex.add(CategoryColor, f.Solid.HexWithAlpha())
		}
	}
	if cs.Border != nil {
		if !cs.Border.Color.Transparent() {
			ex.add(CategoryColor, cs.Border.Color.HexWithAlpha())
		}
		if cs.Border.Width > 0 || cs.Border.Radius != nil {
			ex.add(CategoryBorder, borderValue(cs.Border))
		}
	}
	for _, sh := range cs.Shadows {
		ex.add(CategoryShadow, sh.Shorthand(sh.Color.HexWithAlpha()))
	}
	if t := cs.Typography; t != nil {
		ex.add(CategoryTypography, typographyValue(t))
	}
	if l := n.Layout; l != nil {
		for _, v := range []float64{l.ItemSpacing, l.PaddingTop, l.PaddingRight, l.PaddingBottom, l.PaddingLeft} {
			if v > 0 {
				ex.add(CategorySpacing, fmt.Sprintf("%gpx", v))
			}
		}
	}
}

func (ex *extractor) add(cat Category, value string) {
	key := string(cat) + "\x00" + value
	if ex.seen[key] {
		return
	}
	ex.seen[key] = true

	name := ""
	if cat == CategoryColor {
		name = wellKnownColors[value]
	}
	if name == "" {
		ex.counters[cat]++
		name = fmt.Sprintf("%s-%d", cat, ex.counters[cat])
	}

	ex.out = append(ex.out, Token{Name: name, Value: value, Category: cat})
}

func borderValue(b *style.Border) string {
	v := fmt.Sprintf("%gpx %s %s", b.Width, b.Style, b.Color.HexWithAlpha())
	if r := b.Radius; r != nil {
		if r.Uniform() {
			v += fmt.Sprintf(" / %gpx", r.TopLeft)
		} else {
			v += fmt.Sprintf(" / %gpx %gpx %gpx %gpx", r.TopLeft, r.TopRight, r.BottomRight, r.BottomLeft)
		}
	}
	return v
}

func typographyValue(t *style.Typography) string {
	return fmt.Sprintf("%s %gpx/%gpx w%g ls%g", t.Family, t.Size, t.LineHeight, t.Weight, t.LetterSpacing)
}
