package emit

import (
	"fmt"
	"strings"

	"github.com/figbridge/figbridge/pkg/scene"
)

const defaultTextPlaceholder = "Text"

// propBinding links an inferred prop to the node it parameterizes.
type propBinding struct {
	Prop Prop
	Node *scene.Node
}

// inferProps derives the component's prop list from attributes that vary
// per instance: every text node becomes a string prop defaulting to its
// literal characters, and hidden nodes get a boolean visibility toggle.
// The first text prop is always named "text".
func inferProps(root *scene.Node) []propBinding {
	var bindings []propBinding
	used := map[string]bool{}

	reserve := func(base string) string {
		name := base
		for i := 2; used[name]; i++ {
			name = fmt.Sprintf("%s%d", base, i)
		}
		used[name] = true
		return name
	}

	textSeen := false
	scene.Walk(root, func(n *scene.Node, _ int) bool {
		switch {
		case n.Kind == scene.KindText:
			base := "text"
			if textSeen {
				base = FormatName(n.DisplayName(), NamingCamel) + "Text"
			}
			textSeen = true
			def := strings.TrimSpace(n.Characters)
			if def == "" {
				def = defaultTextPlaceholder
			}
			bindings = append(bindings, propBinding{
				Prop: Prop{Name: reserve(base), InferredType: "string", DefaultValue: def},
				Node: n,
			})
		case !n.Visible:
			base := FormatName(n.DisplayName(), NamingCamel) + "Visible"
			bindings = append(bindings, propBinding{
				Prop: Prop{Name: reserve(base), InferredType: "boolean", DefaultValue: "false"},
				Node: n,
			})
		}
		return true
	})
	return bindings
}

func propsOf(bindings []propBinding) []Prop {
	out := make([]Prop, len(bindings))
	for i, b := range bindings {
		out[i] = b.Prop
	}
	return out
}

// textPropFor returns the prop bound to a given text node, if any.
func textPropFor(bindings []propBinding, n *scene.Node) (Prop, bool) {
	for _, b := range bindings {
		if b.Node == n && b.Prop.InferredType == "string" {
			return b.Prop, true
		}
	}
	return Prop{}, false
}

// typeDeclaration renders the structural props interface. Every inferred
// prop is optional: defaults come from the design.
func typeDeclaration(componentName string, props []Prop) string {
	var b strings.Builder
	fmt.Fprintf(&b, "export interface %sProps {\n", componentName)
	for _, p := range props {
		opt := "?"
		if p.Required {
			opt = ""
		}
		fmt.Fprintf(&b, "  %s%s: %s;\n", p.Name, opt, p.InferredType)
	}
	b.WriteString("}\n")
	return b.String()
}

// tsDefault renders a prop default as TS source text.
func tsDefault(p Prop) string {
	if p.InferredType == "string" {
		return fmt.Sprintf("%q", p.DefaultValue)
	}
	return p.DefaultValue
}
