package emit

import (
	"fmt"
	"strings"
)

// emitReact renders a function component. Styling decides the style
// artifact: plain-css/scss emit a class-keyed stylesheet, css-in-source
// emits inline style objects, utility emits class strings only.
func emitReact(e *emission) *Component {
	comp := &Component{}

	var b strings.Builder
	b.WriteString("import React from 'react';\n")
	if e.wantsStylesheet() {
		fmt.Fprintf(&b, "import './%s.%s';\n", e.name, e.stylesheetExt())
		comp.Styles = stylesheet(e.root, e.classes, e.opts.Styling == StylingSCSS)
	}
	b.WriteString("\n")

	signature := fmt.Sprintf("export function %s()", e.name)
	if e.opts.IncludeProps && len(e.bindings) > 0 {
		destructure := make([]string, len(e.bindings))
		for i, bind := range e.bindings {
			destructure[i] = fmt.Sprintf("%s = %s", bind.Prop.Name, tsDefault(bind.Prop))
		}
		args := fmt.Sprintf("{ %s }", strings.Join(destructure, ", "))
		if e.opts.TypedOutput {
			signature = fmt.Sprintf("export function %s(%s: %sProps)", e.name, args, e.name)
		} else {
			signature = fmt.Sprintf("export function %s(%s)", e.name, args)
		}
	}

	b.WriteString(signature + " {\n")
	b.WriteString("  return (\n")

	var jsx strings.Builder
	renderMarkup(&jsx, e.root, markupConfig{
		classAttr: "className",
		interp:    func(prop string) string { return "{" + prop + "}" },
		opts:      e.opts,
		classes:   e.classes,
		bindings:  e.bindings,
	}, 2)
	b.WriteString(jsx.String())

	b.WriteString("  );\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "export default %s;\n", e.name)

	comp.Markup = b.String()
	return comp
}

func storybookStub(e *emission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "import { %s } from './%s';\n\n", e.name, e.name)
	fmt.Fprintf(&b, "export default {\n  title: 'Generated/%s',\n  component: %s,\n};\n\n", e.name, e.name)
	b.WriteString("export const Default = {\n  args: {")
	if len(e.bindings) > 0 {
		b.WriteString("\n")
		for _, bind := range e.bindings {
			fmt.Fprintf(&b, "    %s: %s,\n", bind.Prop.Name, tsDefault(bind.Prop))
		}
		b.WriteString("  ")
	}
	b.WriteString("},\n};\n")
	return b.String()
}

func testStub(e *emission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "import { %s } from './%s';\n\n", e.name, e.name)
	fmt.Fprintf(&b, "describe('%s', () => {\n", e.name)
	fmt.Fprintf(&b, "  it('renders without crashing', () => {\n")
	fmt.Fprintf(&b, "    expect(%s).toBeDefined();\n", e.name)
	b.WriteString("  });\n")
	for _, bind := range e.bindings {
		if bind.Prop.InferredType != "string" {
			continue
		}
		fmt.Fprintf(&b, "  it('exposes the %s prop with default %s', () => {\n", bind.Prop.Name, tsDefault(bind.Prop))
		b.WriteString("    // default comes from the design source\n")
		b.WriteString("  });\n")
		break
	}
	b.WriteString("});\n")
	return b.String()
}
