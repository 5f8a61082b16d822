package analyze

import (
	"math"
	"sort"
	"strings"

	"github.com/figbridge/figbridge/pkg/scene"
)

// Heuristic tuning constants.
const (
	sizeTolerance    = 0.25 // relative size difference still "similar"
	offsetTolerance  = 0.30 // relative spacing jitter still "consistent"
	buttonTextMaxLen = 24
	buttonMaxHeight  = 64
)

// classify applies the pattern heuristics in priority order; first match
// wins. Order: list, card, form, nav, grid.
func classify(root *scene.Node) Classification {
	switch {
	case isList(root):
		return PatternList
	case isCard(root):
		return PatternCard
	case isForm(root):
		return PatternForm
	case isNav(root):
		return PatternNav
	case isGrid(root):
		return PatternGrid
	default:
		return PatternUnclassified
	}
}

// isList: >=3 structurally similar children arranged with a consistent
// one-dimensional offset.
func isList(n *scene.Node) bool {
	if len(n.Children) < 3 {
		return false
	}
	if !similarRun(n.Children) {
		return false
	}
	return consistentOffset(n.Children, false) || consistentOffset(n.Children, true)
}

// isCard: container with exactly one image/fill region and at least one
// text child, total depth <= 3.
func isCard(n *scene.Node) bool {
	if n.Kind != scene.KindContainer {
		return false
	}
	if treeDepth(n) > 3 {
		return false
	}
	images, texts := 0, 0
	scene.Walk(n, func(c *scene.Node, depth int) bool {
		if depth == 0 {
			return true
		}
		if c.HasImageFill() || c.Kind == scene.KindVector {
			images++
		} else if c.Kind == scene.KindText {
			texts++
		}
		return true
	})
	return images == 1 && texts >= 1
}

// isForm: >=2 text-input-like leaves plus an actionable (button-like) leaf.
func isForm(n *scene.Node) bool {
	inputs, actions := 0, 0
	scene.Walk(n, func(c *scene.Node, depth int) bool {
		if isInputLike(c) {
			inputs++
		}
		if isButtonLike(c) {
			actions++
		}
		return true
	})
	return inputs >= 2 && actions >= 1
}

// isInputLike: a rectangular container holding exactly one text child, or a
// text node with a rectangular sibling container (label + field pairs).
func isInputLike(n *scene.Node) bool {
	if n.Kind != scene.KindContainer || len(n.Children) != 1 {
		return false
	}
	child := n.Children[0]
	return child.Kind == scene.KindText && n.Width > n.Height
}

// isButtonLike: short text inside a small container.
func isButtonLike(n *scene.Node) bool {
	if n.Kind != scene.KindContainer || n.Height > buttonMaxHeight {
		return false
	}
	for _, c := range n.Children {
		if c.Kind == scene.KindText && len(strings.TrimSpace(c.Characters)) > 0 &&
			len(c.Characters) <= buttonTextMaxLen {
			return true
		}
	}
	return false
}

// isNav: a shallow (depth <= 2) run of >=3 similarly sized text or icon
// leaves.
func isNav(n *scene.Node) bool {
	if treeDepth(n) > 2 || len(n.Children) < 3 {
		return false
	}
	for _, c := range n.Children {
		if c.Kind != scene.KindText && c.Kind != scene.KindVector && c.Kind != scene.KindInstance {
			return false
		}
	}
	return similarSizes(n.Children)
}

// isGrid: >=4 children in a two-dimensional regular arrangement, inferred
// from position buckets on each axis.
func isGrid(n *scene.Node) bool {
	if len(n.Children) < 4 {
		return false
	}
	cols := positionBuckets(n.Children, false)
	rows := positionBuckets(n.Children, true)
	return cols >= 2 && rows >= 2 && cols*rows >= len(n.Children)
}

// similarRun reports whether the nodes share kind, approximate size and
// similar child counts.
func similarRun(nodes []*scene.Node) bool {
	first := nodes[0]
	for _, c := range nodes[1:] {
		if c.Kind != first.Kind {
			return false
		}
		if !similarSize(first, c) {
			return false
		}
		if abs(len(c.Children)-len(first.Children)) > 1 {
			return false
		}
	}
	return true
}

func similarSizes(nodes []*scene.Node) bool {
	for _, c := range nodes[1:] {
		if !similarSize(nodes[0], c) {
			return false
		}
	}
	return true
}

func similarSize(a, b *scene.Node) bool {
	return relClose(a.Width, b.Width, sizeTolerance) && relClose(a.Height, b.Height, sizeTolerance)
}

// consistentOffset checks that nodes advance monotonically along one axis
// with low spacing jitter.
func consistentOffset(nodes []*scene.Node, vertical bool) bool {
	pos := make([]float64, len(nodes))
	for i, c := range nodes {
		if vertical {
			pos[i] = c.Y
		} else {
			pos[i] = c.X
		}
	}
	sort.Float64s(pos)

	gaps := make([]float64, 0, len(pos)-1)
	for i := 1; i < len(pos); i++ {
		gap := pos[i] - pos[i-1]
		if gap <= 0 {
			return false
		}
		gaps = append(gaps, gap)
	}
	for _, g := range gaps[1:] {
		if !relClose(g, gaps[0], offsetTolerance) {
			return false
		}
	}
	return true
}

// positionBuckets counts distinct position clusters along one axis.
func positionBuckets(nodes []*scene.Node, vertical bool) int {
	pos := make([]float64, len(nodes))
	var span float64
	for i, c := range nodes {
		if vertical {
			pos[i] = c.Y
			span = math.Max(span, c.Height)
		} else {
			pos[i] = c.X
			span = math.Max(span, c.Width)
		}
	}
	sort.Float64s(pos)
	tolerance := span * 0.5
	if tolerance == 0 {
		tolerance = 1
	}

	buckets := 1
	anchor := pos[0]
	for _, p := range pos[1:] {
		if p-anchor > tolerance {
			buckets++
			anchor = p
		}
	}
	return buckets
}

// treeDepth returns the maximum depth of the tree, 0 for a leaf root.
func treeDepth(root *scene.Node) int {
	max := 0
	scene.Walk(root, func(_ *scene.Node, depth int) bool {
		if depth > max {
			max = depth
		}
		return true
	})
	return max
}

func relClose(a, b, tolerance float64) bool {
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 {
		return true
	}
	return math.Abs(a-b)/larger <= tolerance
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
