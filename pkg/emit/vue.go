package emit

import (
	"fmt"
	"strings"
)

// emitVue renders a single-file component. The style block is embedded in
// the SFC (scoped), so the separate Styles artifact stays empty.
func emitVue(e *emission) *Component {
	comp := &Component{}
	var b strings.Builder

	// script block
	if e.opts.TypedOutput {
		b.WriteString("<script setup lang=\"ts\">\n")
	} else {
		b.WriteString("<script setup>\n")
	}
	if e.opts.IncludeProps && len(e.bindings) > 0 {
		if e.opts.TypedOutput {
			b.WriteString(typeDeclaration(e.name, propsOf(e.bindings)))
			b.WriteString("\n")
			fmt.Fprintf(&b, "withDefaults(defineProps<%sProps>(), {\n", e.name)
			for _, bind := range e.bindings {
				fmt.Fprintf(&b, "  %s: %s,\n", bind.Prop.Name, tsDefault(bind.Prop))
			}
			b.WriteString("});\n")
		} else {
			b.WriteString("defineProps({\n")
			for _, bind := range e.bindings {
				fmt.Fprintf(&b, "  %s: { type: %s, default: %s },\n",
					bind.Prop.Name, vuePropType(bind.Prop), tsDefault(bind.Prop))
			}
			b.WriteString("});\n")
		}
	}
	b.WriteString("</script>\n\n")

	// template block
	b.WriteString("<template>\n")
	var tpl strings.Builder
	renderMarkup(&tpl, e.root, markupConfig{
		classAttr: "class",
		interp:    func(prop string) string { return "{{ " + prop + " }}" },
		opts:      e.opts,
		classes:   e.classes,
		bindings:  e.bindings,
	}, 1)
	b.WriteString(tpl.String())
	b.WriteString("</template>\n")

	// style block
	if e.wantsStylesheet() {
		if e.opts.Styling == StylingSCSS {
			b.WriteString("\n<style scoped lang=\"scss\">\n")
		} else {
			b.WriteString("\n<style scoped>\n")
		}
		b.WriteString(stylesheet(e.root, e.classes, e.opts.Styling == StylingSCSS))
		b.WriteString("</style>\n")
	}

	comp.Markup = b.String()
	return comp
}

func vuePropType(p Prop) string {
	switch p.InferredType {
	case "boolean":
		return "Boolean"
	case "number":
		return "Number"
	default:
		return "String"
	}
}
