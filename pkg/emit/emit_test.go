package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figbridge/figbridge/pkg/scene"
)

// buttonFixture is the canonical primary button: a blue rounded frame with
// one label.
func buttonFixture() *scene.Node {
	return &scene.Node{
		ID:   "1:0",
		Name: "Button",
		Kind: scene.KindContainer,
		Fills: []scene.Paint{
			{Type: "SOLID", Color: &scene.Color{G: 0.48, B: 1}},
		},
		CornerRadius: &scene.CornerRadius{TopLeft: 6, TopRight: 6, BottomRight: 6, BottomLeft: 6},
		Visible:      true,
		Children: []*scene.Node{
			{
				ID:         "1:1",
				Name:       "Label",
				Kind:       scene.KindText,
				Visible:    true,
				Characters: "Click me",
			},
		},
	}
}

func TestEmitUnsupportedPair(t *testing.T) {
	_, err := Emit(buttonFixture(), Options{
		Framework: FrameworkAngular,
		Styling:   StylingUtility,
	})

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, FrameworkAngular, cfgErr.Requested.Framework)
	assert.Equal(t, StylingUtility, cfgErr.Requested.Styling)
	assert.Len(t, cfgErr.Supported, len(SupportedPairs()))
	assert.Contains(t, err.Error(), "react + plain-css")
	assert.Contains(t, err.Error(), "angular + scss")
}

func TestCheckOptions(t *testing.T) {
	assert.NoError(t, CheckOptions(Options{}))
	assert.NoError(t, CheckOptions(Options{Framework: FrameworkVue, Styling: StylingUtility}))
	assert.Error(t, CheckOptions(Options{Framework: FrameworkVue, Styling: StylingCSSInSource}))
	assert.Error(t, CheckOptions(Options{Framework: "svelte"}))
}

func TestEmitReactPlainCSS(t *testing.T) {
	comp, err := Emit(buttonFixture(), Options{
		Framework:    FrameworkReact,
		Styling:      StylingPlainCSS,
		TypedOutput:  true,
		IncludeProps: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Button", comp.Name)
	assert.Equal(t, "1:0", comp.ID)
	assert.Equal(t, "1:0", comp.SourceNodeID)
	assert.Empty(t, comp.Error)

	assert.Contains(t, comp.Markup, "import React from 'react';")
	assert.Contains(t, comp.Markup, "import './Button.css';")
	assert.Contains(t, comp.Markup, `export function Button({ text = "Click me" }: ButtonProps) {`)
	assert.Contains(t, comp.Markup, `<div className="button">`)
	assert.Contains(t, comp.Markup, `<span className="button-label">{text}</span>`)
	assert.Contains(t, comp.Markup, "export default Button;")

	assert.Contains(t, comp.Styles, ".button {")
	assert.Contains(t, comp.Styles, "background-color: #007aff;")
	assert.Contains(t, comp.Styles, "border-radius: 6px;")

	require.Len(t, comp.Props, 1)
	assert.Equal(t, Prop{Name: "text", InferredType: "string", DefaultValue: "Click me"}, comp.Props[0])

	assert.Contains(t, comp.Types, "export interface ButtonProps {")
	assert.Contains(t, comp.Types, "text?: string;")
}

func TestEmitDefaultsToReactPlainCSS(t *testing.T) {
	comp, err := Emit(buttonFixture(), Options{})
	require.NoError(t, err)
	assert.Contains(t, comp.Markup, "import './Button.css';")
	// without includeProps the literal text is rendered
	assert.Contains(t, comp.Markup, ">Click me</span>")
	assert.Empty(t, comp.Types)
}

func TestEmitReactSCSSNestsRules(t *testing.T) {
	comp, err := Emit(buttonFixture(), Options{Styling: StylingSCSS})
	require.NoError(t, err)
	assert.Contains(t, comp.Markup, "import './Button.scss';")
	assert.Contains(t, comp.Styles, ".button {")
	assert.Contains(t, comp.Styles, "  .button-label {")
}

func TestEmitReactUtilityClasses(t *testing.T) {
	comp, err := Emit(buttonFixture(), Options{Styling: StylingUtility})
	require.NoError(t, err)
	assert.Contains(t, comp.Markup, `className="bg-[#007aff] rounded-[6px]"`)
	assert.Empty(t, comp.Styles, "utility styling emits no stylesheet artifact")
}

func TestEmitReactCSSInSource(t *testing.T) {
	comp, err := Emit(buttonFixture(), Options{Styling: StylingCSSInSource})
	require.NoError(t, err)
	assert.Contains(t, comp.Markup, `style={{ backgroundColor: 'rgb(0, 122, 255)', borderRadius: '6px' }}`)
	assert.Empty(t, comp.Styles)
}

func TestEmitNamingConventions(t *testing.T) {
	t.Run("pascal", func(t *testing.T) {
		comp, err := Emit(buttonFixture(), Options{Naming: NamingPascal})
		require.NoError(t, err)
		assert.Contains(t, comp.Markup, `className="Button"`)
		assert.Contains(t, comp.Markup, `className="ButtonLabel"`)
	})
	t.Run("camel", func(t *testing.T) {
		comp, err := Emit(buttonFixture(), Options{Naming: NamingCamel})
		require.NoError(t, err)
		assert.Contains(t, comp.Markup, `className="button"`)
		assert.Contains(t, comp.Markup, `className="buttonLabel"`)
	})
}

func TestEmitDuplicateChildNames(t *testing.T) {
	root := buttonFixture()
	root.Children = append(root.Children, &scene.Node{
		ID: "1:2", Name: "Label", Kind: scene.KindText, Visible: true, Characters: "Second",
	})

	comp, err := Emit(root, Options{})
	require.NoError(t, err)
	assert.Contains(t, comp.Markup, `className="button-label"`)
	assert.Contains(t, comp.Markup, `className="button-label2"`)
}

func TestEmitCustomNameWins(t *testing.T) {
	root := buttonFixture()
	root.CustomName = "PrimaryAction"

	comp, err := Emit(root, Options{})
	require.NoError(t, err)
	assert.Equal(t, "PrimaryAction", comp.Name)
	assert.Contains(t, comp.Markup, `className="primary-action"`)
}

func TestEmitAttributeMappings(t *testing.T) {
	comp, err := Emit(buttonFixture(), Options{
		AttributeMappings: map[string]string{"container": "button"},
	})
	require.NoError(t, err)
	assert.Contains(t, comp.Markup, `<button className="button">`)
	assert.Contains(t, comp.Markup, "</button>")
}

func TestEmitEscapesText(t *testing.T) {
	root := buttonFixture()
	root.Children[0].Characters = "a < b & {c}"

	comp, err := Emit(root, Options{})
	require.NoError(t, err)
	assert.Contains(t, comp.Markup, "a &lt; b &amp; &#123;c&#125;")
}

func TestEmitEmptyTextFallsBack(t *testing.T) {
	root := buttonFixture()
	root.Children[0].Characters = "  "

	comp, err := Emit(root, Options{})
	require.NoError(t, err)
	assert.Contains(t, comp.Markup, ">Text</span>")
}

func TestEmitHiddenNodeProp(t *testing.T) {
	root := buttonFixture()
	root.Children = append(root.Children, &scene.Node{
		ID: "1:3", Name: "Badge", Kind: scene.KindContainer, Visible: false,
	})

	comp, err := Emit(root, Options{IncludeProps: true})
	require.NoError(t, err)

	require.Len(t, comp.Props, 2)
	assert.Equal(t, "badgeVisible", comp.Props[1].Name)
	assert.Equal(t, "boolean", comp.Props[1].InferredType)
	assert.Equal(t, "false", comp.Props[1].DefaultValue)
}

func TestEmitSecondTextPropName(t *testing.T) {
	root := buttonFixture()
	root.Children = append(root.Children, &scene.Node{
		ID: "1:4", Name: "Subtitle", Kind: scene.KindText, Visible: true, Characters: "Details",
	})

	comp, err := Emit(root, Options{IncludeProps: true})
	require.NoError(t, err)

	require.Len(t, comp.Props, 2)
	assert.Equal(t, "text", comp.Props[0].Name)
	assert.Equal(t, "subtitleText", comp.Props[1].Name)
	assert.Equal(t, "Details", comp.Props[1].DefaultValue)
}

func TestEmitStorybookAndTestStubs(t *testing.T) {
	comp, err := Emit(buttonFixture(), Options{
		IncludeProps:          true,
		GenerateStorybookStub: true,
		GenerateTestStub:      true,
	})
	require.NoError(t, err)

	assert.Contains(t, comp.Storybook, "title: 'Generated/Button'")
	assert.Contains(t, comp.Storybook, `text: "Click me",`)
	assert.Contains(t, comp.TestStub, "describe('Button'")
	assert.Contains(t, comp.TestStub, "renders without crashing")
}

func TestEmitVue(t *testing.T) {
	comp, err := Emit(buttonFixture(), Options{
		Framework:    FrameworkVue,
		Styling:      StylingPlainCSS,
		IncludeProps: true,
	})
	require.NoError(t, err)

	assert.Contains(t, comp.Markup, "<script setup>")
	assert.Contains(t, comp.Markup, "defineProps({")
	assert.Contains(t, comp.Markup, `text: { type: String, default: "Click me" },`)
	assert.Contains(t, comp.Markup, "<template>")
	assert.Contains(t, comp.Markup, `<span class="button-label">{{ text }}</span>`)
	assert.Contains(t, comp.Markup, "<style scoped>")
	assert.Contains(t, comp.Markup, "background-color: #007aff;")
	assert.Empty(t, comp.Styles, "vue embeds the style block in the SFC")
}

func TestEmitVueTyped(t *testing.T) {
	comp, err := Emit(buttonFixture(), Options{
		Framework:    FrameworkVue,
		Styling:      StylingSCSS,
		TypedOutput:  true,
		IncludeProps: true,
	})
	require.NoError(t, err)

	assert.Contains(t, comp.Markup, `<script setup lang="ts">`)
	assert.Contains(t, comp.Markup, "withDefaults(defineProps<ButtonProps>(), {")
	assert.Contains(t, comp.Markup, `<style scoped lang="scss">`)
}

func TestEmitAngular(t *testing.T) {
	comp, err := Emit(buttonFixture(), Options{
		Framework:    FrameworkAngular,
		Styling:      StylingSCSS,
		TypedOutput:  true,
		IncludeProps: true,
	})
	require.NoError(t, err)

	assert.Contains(t, comp.Markup, "selector: 'app-button',")
	assert.Contains(t, comp.Markup, "styleUrls: ['./button.component.scss'],")
	assert.Contains(t, comp.Markup, "export class ButtonComponent {")
	assert.Contains(t, comp.Markup, `@Input() text: string = "Click me";`)
	assert.Contains(t, comp.Markup, "{{ text }}")
	assert.Contains(t, comp.Styles, ".button {")
}

func TestSupportedPairsStable(t *testing.T) {
	assert.Equal(t, SupportedPairs(), SupportedPairs())
	for _, p := range SupportedPairs() {
		_, ok := strategies[p]
		assert.True(t, ok, "pair %s has no strategy", p)
	}
	assert.Len(t, strategies, len(SupportedPairs()))
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		in     string
		naming Naming
		want   string
	}{
		{"Primary Button", NamingKebab, "primary-button"},
		{"Primary Button", NamingPascal, "PrimaryButton"},
		{"Primary Button", NamingCamel, "primaryButton"},
		{"card/header", NamingKebab, "card-header"},
		{"nav_item", NamingPascal, "NavItem"},
		{"iconBadge", NamingKebab, "icon-badge"},
		{"!!!", NamingKebab, "component"},
		{"", NamingPascal, "Component"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatName(tc.in, tc.naming), "FormatName(%q, %s)", tc.in, tc.naming)
	}
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "PrimaryButton", Identifier("primary button"))
	assert.Equal(t, "C404Page", Identifier("404 page"))
}
