// Package analyze computes structural metrics, heuristic pattern
// classification, accessibility findings and a rough performance estimate
// over canonical scene trees. All analyses are read-only and run in a
// single depth-first traversal per tree.
package analyze

import (
	"fmt"
	"strings"

	"github.com/figbridge/figbridge/pkg/scene"
	"github.com/figbridge/figbridge/pkg/style"
)

// Classification is the heuristic structural pattern of a component.
type Classification string

const (
	PatternCard         Classification = "card"
	PatternList         Classification = "list"
	PatternNav          Classification = "nav"
	PatternForm         Classification = "form"
	PatternGrid         Classification = "grid"
	PatternUnclassified Classification = "unclassified"
)

// Analysis is the structural/quality summary of one component tree.
type Analysis struct {
	NodeID string `json:"nodeId"`
	Name   string `json:"name"`

	NodeCount     int                `json:"nodeCount"`
	MaxDepth      int                `json:"maxDepth"`
	KindHistogram map[scene.Kind]int `json:"kindHistogram"`

	Classification   Classification `json:"classification"`
	ComplexityScore  float64        `json:"complexityScore"`
	ReusabilityScore float64        `json:"reusabilityScore"`

	Accessibility   []string `json:"accessibility"`
	PerformanceCost float64  `json:"performanceCost"`
}

// Complexity weights. The score is a weighted sum of node count, maximum
// depth and distinct canonical style count; monotonic in each factor.
const (
	weightNodeCount = 1.0
	weightDepth     = 2.0
	weightStyles    = 1.5
)

// perKindCost is the fixed per-node render cost table for the performance
// estimate. A simple linear model, not a renderer simulation.
var perKindCost = map[scene.Kind]float64{
	scene.KindContainer:    1.0,
	scene.KindText:         1.5,
	scene.KindVector:       2.5,
	scene.KindInstance:     1.2,
	scene.KindGroup:        0.8,
	scene.KindUnrecognized: 1.0,
}

// placeholder text values that do not count as parametrizable content.
var placeholderText = map[string]bool{
	"text": true, "label": true, "lorem ipsum": true, "placeholder": true,
}

// Analyze computes the full analysis of one component tree.
func Analyze(root *scene.Node) Analysis {
	a := Analysis{
		NodeID:        root.ID,
		Name:          root.DisplayName(),
		KindHistogram: make(map[scene.Kind]int),
	}

	distinctStyles := make(map[string]bool)
	hasInstance := false
	hasParamText := false

	scene.Walk(root, func(n *scene.Node, depth int) bool {
		a.NodeCount++
		if depth > a.MaxDepth {
			a.MaxDepth = depth
		}
		a.KindHistogram[n.Kind]++
		a.PerformanceCost += perKindCost[n.Kind]

		distinctStyles[styleKey(n)] = true

		if n.Kind == scene.KindInstance {
			hasInstance = true
		}
		if n.Kind == scene.KindText {
			trimmed := strings.TrimSpace(n.Characters)
			if trimmed == "" {
				a.Accessibility = append(a.Accessibility,
					fmt.Sprintf("missing text content: text node %q (%s)", n.DisplayName(), n.ID))
			} else if !placeholderText[strings.ToLower(trimmed)] {
				hasParamText = true
			}
		}
		return true
	})

	a.Accessibility = append(a.Accessibility, contrastFindings(root)...)
	a.Classification = classify(root)
	a.ComplexityScore = weightNodeCount*float64(a.NodeCount) +
		weightDepth*float64(a.MaxDepth) +
		weightStyles*float64(len(distinctStyles))
	a.ReusabilityScore = reusability(hasInstance, hasParamText)

	return a
}

// AnalyzeAll runs Analyze over every root in a batch.
func AnalyzeAll(roots []*scene.Node) []Analysis {
	out := make([]Analysis, 0, len(roots))
	for _, r := range roots {
		out = append(out, Analyze(r))
	}
	return out
}

// styleKey is a cheap canonical-value fingerprint used only to count
// distinct styles for the complexity score.
func styleKey(n *scene.Node) string {
	cs := style.Resolve(n)
	var b strings.Builder
	for _, f := range cs.Fills {
		switch f.Kind {
		case "solid":
			b.WriteString("s" + f.Solid.HexWithAlpha())
		case "gradient":
			fmt.Fprintf(&b, "g%d", len(f.Gradient))
		case "image":
			b.WriteString("i" + f.ImageRef)
		}
	}
	if cs.Border != nil {
		fmt.Fprintf(&b, "b%g%s", cs.Border.Width, cs.Border.Color.HexWithAlpha())
	}
	for _, sh := range cs.Shadows {
		b.WriteString("h" + sh.Shorthand(sh.Color.HexWithAlpha()))
	}
	if cs.Typography != nil {
		fmt.Fprintf(&b, "t%s%g%g", cs.Typography.Family, cs.Typography.Size, cs.Typography.Weight)
	}
	return b.String()
}

// reusability scores 0..1: component-instance provenance and parametrizable
// text content each contribute.
func reusability(hasInstance, hasParamText bool) float64 {
	score := 0.2
	if hasInstance {
		score += 0.4
	}
	if hasParamText {
		score += 0.4
	}
	return score
}

// contrastFindings flags text nodes whose foreground color has a WCAG
// contrast ratio below 3.0 against the nearest ancestor background.
func contrastFindings(root *scene.Node) []string {
	var findings []string

	type item struct {
		node *scene.Node
		bg   *style.RGBA
	}
	stack := []item{{root, nil}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		bg := it.bg
		cs := style.Resolve(it.node)
		if c, ok := cs.Background(); ok && c.Opaque() && it.node.Kind != scene.KindText {
			bg = &c
		}

		if it.node.Kind == scene.KindText && bg != nil {
			if fg, ok := cs.Background(); ok {
				if ratio := style.ContrastRatio(fg, *bg); ratio < 3.0 {
					findings = append(findings, fmt.Sprintf(
						"low contrast: text node %q (%s) ratio %.2f against background %s",
						it.node.DisplayName(), it.node.ID, ratio, bg.Hex()))
				}
			}
		}

		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.node.Children[i], bg})
		}
	}
	return findings
}
