package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figbridge/figbridge/pkg/scene"
)

func solidNode(id string, c scene.Color) *scene.Node {
	return &scene.Node{
		ID:    id,
		Kind:  scene.KindContainer,
		Fills: []scene.Paint{{Type: "SOLID", Color: &c}},
	}
}

func TestExtractDeduplicatesByValue(t *testing.T) {
	blue := scene.Color{G: 0.48, B: 1}
	root := solidNode("a", blue)
	root.Children = []*scene.Node{
		solidNode("b", blue),
		solidNode("c", scene.Color{R: 1}),
	}

	toks := Extract([]*scene.Node{root})

	var colors []Token
	for _, tok := range toks {
		if tok.Category == CategoryColor {
			colors = append(colors, tok)
		}
	}
	require.Len(t, colors, 2)
	assert.Equal(t, "#007aff", colors[0].Value)
	assert.Equal(t, "color-1", colors[0].Name)
	assert.Equal(t, "#ff0000", colors[1].Value)
	assert.Equal(t, "color-2", colors[1].Name)
}

func TestExtractDeterministicOrder(t *testing.T) {
	build := func() []*scene.Node {
		root := solidNode("a", scene.Color{R: 1})
		root.Layout = &scene.Layout{ItemSpacing: 8, PaddingTop: 16}
		root.Children = []*scene.Node{
			{
				ID:   "b",
				Kind: scene.KindText,
				Typography: &scene.TypeStyle{
					FontFamily: "Inter", FontSize: 14, LineHeightPx: 20, FontWeight: 400,
				},
			},
		}
		return []*scene.Node{root}
	}

	first := Extract(build())
	second := Extract(build())
	assert.Equal(t, first, second)

	require.NotEmpty(t, first)
	// root fills come before descendant typography, spacing in declaration order
	var values []string
	for _, tok := range first {
		values = append(values, tok.Value)
	}
	assert.Equal(t, []string{"#ff0000", "8px", "16px", "Inter 14px/20px w400 ls0"}, values)
}

func TestExtractWellKnownColorNames(t *testing.T) {
	root := solidNode("a", scene.Color{})
	root.Children = []*scene.Node{
		solidNode("b", scene.Color{R: 1, G: 1, B: 1}),
		solidNode("c", scene.Color{B: 1}),
	}

	toks := Extract([]*scene.Node{root})
	require.Len(t, toks, 3)
	assert.Equal(t, "black", toks[0].Name)
	assert.Equal(t, "white", toks[1].Name)
	assert.Equal(t, "color-1", toks[2].Name)
}

func TestExtractTranslucentColorsKeepAlpha(t *testing.T) {
	a := 0.5
	toks := Extract([]*scene.Node{
		solidNode("a", scene.Color{A: &a}),
	})
	require.Len(t, toks, 1)
	assert.Equal(t, "#00000080", toks[0].Value)
	// 8-digit value is not the well-known opaque black
	assert.Equal(t, "color-1", toks[0].Name)
}

func TestExtractBorderAndShadow(t *testing.T) {
	node := &scene.Node{
		ID:   "a",
		Kind: scene.KindContainer,
		Stroke: &scene.Stroke{
			Weight: 1,
			Paints: []scene.Paint{{Type: "SOLID", Color: &scene.Color{}}},
		},
		CornerRadius: &scene.CornerRadius{TopLeft: 6, TopRight: 6, BottomRight: 6, BottomLeft: 6},
		Effects: []scene.Effect{
			{Type: "DROP_SHADOW", Radius: 4, Color: &scene.Color{}, Offset: &scene.Vector{Y: 2}},
		},
	}

	toks := Extract([]*scene.Node{node})

	byCat := map[Category][]Token{}
	for _, tok := range toks {
		byCat[tok.Category] = append(byCat[tok.Category], tok)
	}

	require.Len(t, byCat[CategoryBorder], 1)
	assert.Equal(t, "1px solid #000000 / 6px", byCat[CategoryBorder][0].Value)
	require.Len(t, byCat[CategoryShadow], 1)
	assert.Equal(t, "0px 2px 4px #000000", byCat[CategoryShadow][0].Value)
	require.Len(t, byCat[CategoryColor], 1)
	assert.Equal(t, "black", byCat[CategoryColor][0].Name)
}

func TestExtractSkipsTransparentFills(t *testing.T) {
	zero := 0.0
	toks := Extract([]*scene.Node{
		solidNode("a", scene.Color{R: 1, A: &zero}),
	})
	assert.Empty(t, toks)
}

func TestExtractEmptyBatch(t *testing.T) {
	assert.Empty(t, Extract(nil))
}
