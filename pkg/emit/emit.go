package emit

import (
	"fmt"

	"github.com/figbridge/figbridge/pkg/scene"
)

// emission carries the per-call state shared by the strategy sub-steps.
type emission struct {
	root     *scene.Node
	opts     Options
	name     string // PascalCase component identifier
	classes  map[*scene.Node]string
	bindings []propBinding
}

type strategyFunc func(*emission) *Component

// strategies is the emission strategy table. Every supported
// (framework, styling) pair maps to the strategy that implements it;
// lookups for any other pair fail with a ConfigurationError.
var strategies = map[Pair]strategyFunc{
	{FrameworkReact, StylingPlainCSS}:    emitReact,
	{FrameworkReact, StylingSCSS}:        emitReact,
	{FrameworkReact, StylingCSSInSource}: emitReact,
	{FrameworkReact, StylingUtility}:     emitReact,
	{FrameworkVue, StylingPlainCSS}:      emitVue,
	{FrameworkVue, StylingSCSS}:          emitVue,
	{FrameworkVue, StylingUtility}:       emitVue,
	{FrameworkAngular, StylingPlainCSS}:  emitAngular,
	{FrameworkAngular, StylingSCSS}:      emitAngular,
}

// CheckOptions validates the (framework, styling) pair after defaults are
// applied, without emitting anything. Callers batching several emissions
// use it to reject an unsupported pair before touching any tree.
func CheckOptions(opts Options) error {
	opts = opts.withDefaults()
	pair := Pair{Framework: opts.Framework, Styling: opts.Styling}
	if _, ok := strategies[pair]; !ok {
		return &ConfigurationError{Requested: pair, Supported: SupportedPairs()}
	}
	return nil
}

// Emit generates the source artifacts for one canonical tree. It returns a
// ConfigurationError for unsupported (framework, styling) pairs; any
// unexpected failure inside a strategy is recovered and returned as an
// error so emission itself never panics.
func Emit(root *scene.Node, opts Options) (comp *Component, err error) {
	opts = opts.withDefaults()
	pair := Pair{Framework: opts.Framework, Styling: opts.Styling}
	strategy, ok := strategies[pair]
	if !ok {
		return nil, &ConfigurationError{Requested: pair, Supported: SupportedPairs()}
	}

	defer func() {
		if r := recover(); r != nil {
			comp = nil
			err = fmt.Errorf("emitting %q as %s: %v", root.DisplayName(), pair, r)
		}
	}()

	e := &emission{
		root:     root,
		opts:     opts,
		name:     Identifier(root.DisplayName()),
		classes:  assignClasses(root, opts.Naming),
		bindings: inferProps(root),
	}

	comp = strategy(e)
	comp.ID = root.ID
	comp.Name = e.name
	comp.SourceNodeID = root.ID
	comp.Props = propsOf(e.bindings)

	if opts.TypedOutput || opts.IncludeTypeDeclarations {
		comp.Types = typeDeclaration(e.name, comp.Props)
	}
	if opts.GenerateStorybookStub {
		comp.Storybook = storybookStub(e)
	}
	if opts.GenerateTestStub {
		comp.TestStub = testStub(e)
	}
	return comp, nil
}

// wantsStylesheet reports whether the styling strategy produces a separate
// stylesheet artifact.
func (e *emission) wantsStylesheet() bool {
	return e.opts.Styling == StylingPlainCSS || e.opts.Styling == StylingSCSS
}

func (e *emission) stylesheetExt() string {
	if e.opts.Styling == StylingSCSS {
		return "scss"
	}
	return "css"
}
