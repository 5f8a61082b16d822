package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/figbridge/figbridge/pkg/scene"
	"github.com/figbridge/figbridge/pkg/style"
)

// colorMode selects the single color syntax used throughout one emission:
// stylesheet strategies render 6-digit hex, inline strategies render rgb().
type colorMode int

const (
	colorHex colorMode = iota
	colorRGB
)

func colorString(c style.RGBA, mode colorMode) string {
	if mode == colorRGB {
		return c.CSS()
	}
	return c.HexWithAlpha()
}

// declaration is one CSS property/value pair.
type declaration struct {
	Property string
	Value    string
}

// declarations derives the CSS declarations of one node from its canonical
// style, in a fixed property order so output is deterministic.
func declarations(n *scene.Node, cs style.CanonicalStyle, mode colorMode) []declaration {
	var decls []declaration
	add := func(prop, value string) {
		decls = append(decls, declaration{prop, value})
	}

	if n.Kind == scene.KindText {
		if c, ok := cs.Background(); ok {
			add("color", colorString(c, mode))
		}
		if t := cs.Typography; t != nil {
			if t.Family != "" {
				add("font-family", fmt.Sprintf("'%s'", t.Family))
			}
			if t.Size > 0 {
				add("font-size", pxValue(t.Size))
			}
			if t.Weight > 0 {
				add("font-weight", trimFloat(t.Weight))
			}
			if t.LineHeight > 0 {
				add("line-height", pxValue(t.LineHeight))
			}
			if t.LetterSpacing != 0 {
				add("letter-spacing", pxValue(t.LetterSpacing))
			}
		}
	} else {
		if v := backgroundValue(cs, mode); v.Property != "" {
			decls = append(decls, v)
		}
	}

	if b := cs.Border; b != nil {
		if b.Width > 0 {
			add("border", fmt.Sprintf("%s %s %s", pxValue(b.Width), b.Style, colorString(b.Color, mode)))
		}
		if r := b.Radius; r != nil {
			if r.Uniform() {
				add("border-radius", pxValue(r.TopLeft))
			} else {
				add("border-radius", fmt.Sprintf("%s %s %s %s",
					pxValue(r.TopLeft), pxValue(r.TopRight), pxValue(r.BottomRight), pxValue(r.BottomLeft)))
			}
		}
	}

	if len(cs.Shadows) > 0 {
		parts := make([]string, len(cs.Shadows))
		for i, sh := range cs.Shadows {
			parts[i] = sh.Shorthand(colorString(sh.Color, mode))
		}
		add("box-shadow", strings.Join(parts, ", "))
	}

	if l := n.Layout; l != nil && l.Mode != "" {
		add("display", "flex")
		if l.Mode == "VERTICAL" {
			add("flex-direction", "column")
		}
		if l.ItemSpacing > 0 {
			add("gap", pxValue(l.ItemSpacing))
		}
		if l.PaddingTop != 0 || l.PaddingRight != 0 || l.PaddingBottom != 0 || l.PaddingLeft != 0 {
			add("padding", fmt.Sprintf("%s %s %s %s",
				pxValue(l.PaddingTop), pxValue(l.PaddingRight), pxValue(l.PaddingBottom), pxValue(l.PaddingLeft)))
		}
	}

	return decls
}

// backgroundValue flattens the fill stack: the topmost solid fill becomes
// background-color; a topmost gradient keeps its stop list as a
// linear-gradient.
func backgroundValue(cs style.CanonicalStyle, mode colorMode) declaration {
	for i := len(cs.Fills) - 1; i >= 0; i-- {
		f := cs.Fills[i]
		switch f.Kind {
		case "solid":
			if f.Solid.Transparent() {
				continue
			}
			return declaration{"background-color", colorString(f.Solid, mode)}
		case "gradient":
			stops := make([]string, len(f.Gradient))
			for j, st := range f.Gradient {
				stops[j] = fmt.Sprintf("%s %s", colorString(st.Color, mode), percentValue(st.Position))
			}
			return declaration{"background", fmt.Sprintf("linear-gradient(180deg, %s)", strings.Join(stops, ", "))}
		}
	}
	return declaration{}
}

// stylesheet renders a class-keyed stylesheet over the whole tree. SCSS
// output nests child selectors under the root class.
func stylesheet(root *scene.Node, classes map[*scene.Node]string, scssNested bool) string {
	var b strings.Builder

	if scssNested {
		writeNestedRules(&b, root, classes, 0)
		return b.String()
	}

	scene.Walk(root, func(n *scene.Node, _ int) bool {
		decls := declarations(n, style.Resolve(n), colorHex)
		if len(decls) == 0 {
			return true
		}
		fmt.Fprintf(&b, ".%s {\n", classes[n])
		for _, d := range decls {
			fmt.Fprintf(&b, "  %s: %s;\n", d.Property, d.Value)
		}
		b.WriteString("}\n\n")
		return true
	})
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeNestedRules(b *strings.Builder, n *scene.Node, classes map[*scene.Node]string, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s.%s {\n", indent, classes[n])
	for _, d := range declarations(n, style.Resolve(n), colorHex) {
		fmt.Fprintf(b, "%s  %s: %s;\n", indent, d.Property, d.Value)
	}
	for _, c := range n.Children {
		writeNestedRules(b, c, classes, depth+1)
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

// assignClasses gives every node a stable class name: the root gets the
// formatted component name, descendants get root-name prefixed, with
// counters de-duplicating repeated names.
func assignClasses(root *scene.Node, naming Naming) map[*scene.Node]string {
	classes := make(map[*scene.Node]string)
	used := make(map[string]int)

	rootClass := FormatName(root.DisplayName(), naming)
	classes[root] = rootClass
	used[rootClass] = 1

	scene.Walk(root, func(n *scene.Node, depth int) bool {
		if depth == 0 {
			return true
		}
		base := joinClass(rootClass, FormatName(n.DisplayName(), naming), naming)
		used[base]++
		if used[base] > 1 {
			base = fmt.Sprintf("%s%d", base, used[base])
		}
		classes[n] = base
		return true
	})
	return classes
}

func joinClass(root, child string, naming Naming) string {
	if naming == NamingKebab {
		return root + "-" + child
	}
	return root + capitalize(child)
}

// utilityClasses renders the node's style as utility class names with
// arbitrary values, tailwind-style.
func utilityClasses(n *scene.Node, cs style.CanonicalStyle) string {
	var classes []string

	if n.Kind == scene.KindText {
		if c, ok := cs.Background(); ok {
			classes = append(classes, "text-["+c.HexWithAlpha()+"]")
		}
		if t := cs.Typography; t != nil && t.Size > 0 {
			classes = append(classes, "text-["+pxValue(t.Size)+"]")
		}
		if t := cs.Typography; t != nil && t.Weight > 0 {
			classes = append(classes, "font-["+trimFloat(t.Weight)+"]")
		}
	} else if c, ok := cs.Background(); ok {
		classes = append(classes, "bg-["+c.HexWithAlpha()+"]")
	}

	if b := cs.Border; b != nil {
		if b.Width > 0 {
			classes = append(classes, "border-["+pxValue(b.Width)+"]", "border-["+b.Color.HexWithAlpha()+"]")
		}
		if r := b.Radius; r != nil && r.Uniform() {
			classes = append(classes, "rounded-["+pxValue(r.TopLeft)+"]")
		}
	}
	if l := n.Layout; l != nil && l.Mode != "" {
		classes = append(classes, "flex")
		if l.Mode == "VERTICAL" {
			classes = append(classes, "flex-col")
		}
		if l.ItemSpacing > 0 {
			classes = append(classes, "gap-["+pxValue(l.ItemSpacing)+"]")
		}
	}
	return strings.Join(classes, " ")
}

// inlineStyleObject renders declarations as a JS style object body with
// camelCased property names, sorted for determinism of iteration-free
// callers (declarations already arrive ordered; sorting keeps JSX diffs
// stable when properties repeat).
func inlineStyleObject(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, fmt.Sprintf("%s: '%s'", cssPropToCamel(d.Property), d.Value))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func cssPropToCamel(prop string) string {
	words := strings.Split(prop, "-")
	out := words[0]
	for _, w := range words[1:] {
		out += capitalize(w)
	}
	return out
}

func pxValue(v float64) string {
	return trimFloat(v) + "px"
}

func percentValue(v float64) string {
	return trimFloat(v*100) + "%"
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%g", v)
	return s
}
