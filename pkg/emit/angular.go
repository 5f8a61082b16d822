package emit

import (
	"fmt"
	"strings"
)

// emitAngular renders a component class with an inline template; the
// stylesheet is a separate artifact referenced through styleUrls.
func emitAngular(e *emission) *Component {
	comp := &Component{Styles: stylesheet(e.root, e.classes, e.opts.Styling == StylingSCSS)}

	selector := "app-" + FormatName(e.root.DisplayName(), NamingKebab)
	fileBase := FormatName(e.root.DisplayName(), NamingKebab)

	var b strings.Builder
	if e.opts.IncludeProps && len(e.bindings) > 0 {
		b.WriteString("import { Component, Input } from '@angular/core';\n\n")
	} else {
		b.WriteString("import { Component } from '@angular/core';\n\n")
	}

	b.WriteString("@Component({\n")
	fmt.Fprintf(&b, "  selector: '%s',\n", selector)
	b.WriteString("  template: `\n")
	var tpl strings.Builder
	renderMarkup(&tpl, e.root, markupConfig{
		classAttr: "class",
		interp:    func(prop string) string { return "{{ " + prop + " }}" },
		opts:      e.opts,
		classes:   e.classes,
		bindings:  e.bindings,
	}, 2)
	b.WriteString(tpl.String())
	b.WriteString("  `,\n")
	fmt.Fprintf(&b, "  styleUrls: ['./%s.component.%s'],\n", fileBase, e.stylesheetExt())
	b.WriteString("})\n")

	fmt.Fprintf(&b, "export class %sComponent {\n", e.name)
	if e.opts.IncludeProps {
		for _, bind := range e.bindings {
			if e.opts.TypedOutput {
				fmt.Fprintf(&b, "  @Input() %s: %s = %s;\n",
					bind.Prop.Name, bind.Prop.InferredType, tsDefault(bind.Prop))
			} else {
				fmt.Fprintf(&b, "  @Input() %s = %s;\n", bind.Prop.Name, tsDefault(bind.Prop))
			}
		}
	}
	b.WriteString("}\n")

	comp.Markup = b.String()
	return comp
}
