// Package emit turns canonical scene trees into framework-specific source
// artifacts. Emission is a strategy table keyed by (framework, styling):
// unsupported combinations fail fast with a ConfigurationError, never with
// silently degraded output.
package emit

import (
	"fmt"
	"strings"
)

// Framework selects the target component framework.
type Framework string

const (
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkAngular Framework = "angular"
)

// Styling selects the styling strategy.
type Styling string

const (
	StylingPlainCSS    Styling = "plain-css"
	StylingSCSS        Styling = "scss"
	StylingCSSInSource Styling = "css-in-source"
	StylingUtility     Styling = "utility-classes"
)

// Naming selects the identifier convention for generated class names.
type Naming string

const (
	NamingPascal Naming = "pascal"
	NamingCamel  Naming = "camel"
	NamingKebab  Naming = "kebab"
)

// Options configures one emission. Zero values fall back to react,
// plain-css, kebab class naming.
type Options struct {
	Framework Framework `json:"framework"`
	Styling   Styling   `json:"styling"`
	Naming    Naming    `json:"namingConvention"`

	TypedOutput             bool `json:"typedOutput"`
	IncludeProps            bool `json:"includeProps"`
	IncludeTypeDeclarations bool `json:"includeTypeDeclarations"`
	GenerateStorybookStub   bool `json:"generateStorybookStub"`
	GenerateTestStub        bool `json:"generateTestStub"`
	// ExtractTokens asks the caller's transformation to also extract design
	// tokens from the transformed trees; emission itself ignores it.
	ExtractTokens bool `json:"extractTokens"`
	// OptimizeImages is accepted for compatibility with plugin payloads but
	// is a no-op: asset resolution is out of scope.
	OptimizeImages bool `json:"optimizeImages"`

	// Breakpoints is accepted for compatibility with plugin payloads but is
	// a no-op: no styling strategy emits responsive media queries.
	Breakpoints []int `json:"breakpoints,omitempty"`
	// AttributeMappings overrides the default node-kind to element mapping,
	// e.g. {"container": "section"}.
	AttributeMappings map[string]string `json:"attributeMappings,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.Framework == "" {
		o.Framework = FrameworkReact
	}
	if o.Styling == "" {
		o.Styling = StylingPlainCSS
	}
	if o.Naming == "" {
		o.Naming = NamingKebab
	}
	return o
}

// Prop is one inferred component property.
type Prop struct {
	Name         string `json:"name"`
	InferredType string `json:"inferredType"`
	Required     bool   `json:"required"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

// Component is the result of emitting one tree.
type Component struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Markup    string `json:"markup"`
	Styles    string `json:"styles,omitempty"`
	Types     string `json:"types,omitempty"`
	Storybook string `json:"storybook,omitempty"`
	TestStub  string `json:"testStub,omitempty"`

	Props        []Prop `json:"props,omitempty"`
	SourceNodeID string `json:"sourceNodeId"`

	// Error marks a per-component failure inside an otherwise successful
	// batch transformation.
	Error string `json:"error,omitempty"`
}

// Pair is one (framework, styling) combination.
type Pair struct {
	Framework Framework `json:"framework"`
	Styling   Styling   `json:"styling"`
}

func (p Pair) String() string {
	return fmt.Sprintf("%s + %s", p.Framework, p.Styling)
}

// SupportedPairs lists every combination the strategy table implements, in
// stable order.
func SupportedPairs() []Pair {
	return []Pair{
		{FrameworkReact, StylingPlainCSS},
		{FrameworkReact, StylingSCSS},
		{FrameworkReact, StylingCSSInSource},
		{FrameworkReact, StylingUtility},
		{FrameworkVue, StylingPlainCSS},
		{FrameworkVue, StylingSCSS},
		{FrameworkVue, StylingUtility},
		{FrameworkAngular, StylingPlainCSS},
		{FrameworkAngular, StylingSCSS},
	}
}

// ConfigurationError reports an unsupported (framework, styling) pair
// together with every supported pair.
type ConfigurationError struct {
	Requested Pair
	Supported []Pair
}

func (e *ConfigurationError) Error() string {
	supported := make([]string, len(e.Supported))
	for i, p := range e.Supported {
		supported[i] = p.String()
	}
	return fmt.Sprintf("unsupported framework/styling combination %q; supported: %s",
		e.Requested, strings.Join(supported, ", "))
}
