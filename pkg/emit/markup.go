package emit

import (
	"fmt"
	"strings"

	"github.com/figbridge/figbridge/pkg/scene"
	"github.com/figbridge/figbridge/pkg/style"
)

// defaultTags maps node kinds to target elements. Overridable per emission
// via Options.AttributeMappings.
var defaultTags = map[scene.Kind]string{
	scene.KindContainer:    "div",
	scene.KindText:         "span",
	scene.KindVector:       "svg",
	scene.KindInstance:     "div",
	scene.KindGroup:        "div",
	scene.KindUnrecognized: "div",
}

func elementTag(n *scene.Node, opts Options) string {
	if tag, ok := opts.AttributeMappings[string(n.Kind)]; ok {
		return tag
	}
	return defaultTags[n.Kind]
}

// markupConfig parameterizes the shared recursive-descent markup renderer
// for the target framework's template dialect.
type markupConfig struct {
	classAttr string                      // "class" or "className"
	interp    func(propName string) string // text interpolation syntax
	opts      Options
	classes   map[*scene.Node]string
	bindings  []propBinding
}

// renderMarkup emits the element tree for one node, children in original
// order. Text nodes emit their literal characters, or a prop interpolation
// when includeProps is set and the node has a bound prop.
func renderMarkup(b *strings.Builder, n *scene.Node, cfg markupConfig, depth int) {
	indent := strings.Repeat("  ", depth)
	tag := elementTag(n, cfg.opts)

	attrs := ""
	switch cfg.opts.Styling {
	case StylingUtility:
		if u := utilityClasses(n, style.Resolve(n)); u != "" {
			attrs = fmt.Sprintf(` %s="%s"`, cfg.classAttr, u)
		}
	case StylingCSSInSource:
		if decls := declarations(n, style.Resolve(n), colorRGB); len(decls) > 0 {
			attrs = fmt.Sprintf(" style={{ %s }}", inlineStyleObject(decls))
		}
	default:
		attrs = fmt.Sprintf(` %s="%s"`, cfg.classAttr, cfg.classes[n])
	}

	if n.Kind == scene.KindText {
		fmt.Fprintf(b, "%s<%s%s>%s</%s>\n", indent, tag, attrs, textContent(n, cfg), tag)
		return
	}

	if len(n.Children) == 0 {
		fmt.Fprintf(b, "%s<%s%s />\n", indent, tag, attrs)
		return
	}

	fmt.Fprintf(b, "%s<%s%s>\n", indent, tag, attrs)
	for _, c := range n.Children {
		renderMarkup(b, c, cfg, depth+1)
	}
	fmt.Fprintf(b, "%s</%s>\n", indent, tag)
}

func textContent(n *scene.Node, cfg markupConfig) string {
	if cfg.opts.IncludeProps {
		if p, ok := textPropFor(cfg.bindings, n); ok {
			return cfg.interp(p.Name)
		}
	}
	if strings.TrimSpace(n.Characters) == "" {
		return defaultTextPlaceholder
	}
	return escapeText(n.Characters)
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "{", "&#123;", "}", "&#125;")
	return r.Replace(s)
}
