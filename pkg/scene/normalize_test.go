package scene

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawFrame(id, name string, children ...RawNode) RawNode {
	return RawNode{ID: id, Name: name, Type: "FRAME", Children: children}
}

func rawText(id, name, characters string) RawNode {
	return RawNode{ID: id, Name: name, Type: "TEXT", Characters: characters}
}

func TestNormalizeBasicTree(t *testing.T) {
	batch := []RawNode{
		rawFrame("1:0", "Button",
			rawText("1:1", "Label", "Click me"),
		),
	}

	roots, err := Normalize(batch)
	require.NoError(t, err)
	require.Len(t, roots, 1)

	root := roots[0]
	assert.Equal(t, "1:0", root.ID)
	assert.Equal(t, KindContainer, root.Kind)
	assert.True(t, root.Visible)
	assert.False(t, root.Locked)
	assert.NotNil(t, root.Fills)
	assert.NotNil(t, root.Effects)

	require.Len(t, root.Children, 1)
	label := root.Children[0]
	assert.Equal(t, KindText, label.Kind)
	assert.Equal(t, "Click me", label.Characters)
}

func TestNormalizeKindMapping(t *testing.T) {
	tests := []struct {
		rawType string
		want    Kind
	}{
		{"FRAME", KindContainer},
		{"RECTANGLE", KindContainer},
		{"TEXT", KindText},
		{"VECTOR", KindVector},
		{"ELLIPSE", KindVector},
		{"INSTANCE", KindInstance},
		{"COMPONENT", KindInstance},
		{"GROUP", KindGroup},
		{"WIDGET", KindUnrecognized},
	}
	for _, tc := range tests {
		t.Run(tc.rawType, func(t *testing.T) {
			roots, err := Normalize([]RawNode{{ID: "n1", Name: "n", Type: tc.rawType}})
			require.NoError(t, err)
			assert.Equal(t, tc.want, roots[0].Kind)
		})
	}
}

func TestNormalizeUnrecognizedKeepsPayload(t *testing.T) {
	var raw RawNode
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "9:9",
		"name": "Embed",
		"type": "WIDGET",
		"widgetId": "w-123",
		"pluginData": {"foo": "bar"}
	}`), &raw))

	roots, err := Normalize([]RawNode{raw})
	require.NoError(t, err)

	node := roots[0]
	assert.Equal(t, KindUnrecognized, node.Kind)
	assert.Equal(t, "WIDGET", node.Extra["type"])
	assert.Equal(t, "w-123", node.Extra["widgetId"])
	assert.Equal(t, map[string]any{"foo": "bar"}, node.Extra["pluginData"])
}

func TestNormalizeMissingID(t *testing.T) {
	_, err := Normalize([]RawNode{{Name: "orphan", Type: "FRAME"}})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, "id", verr.Issues[0].Field)
	assert.Equal(t, "roots[0]", verr.Issues[0].Path)
}

func TestNormalizeMissingType(t *testing.T) {
	_, err := Normalize([]RawNode{{ID: "1:0", Name: "x"}})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, "type", verr.Issues[0].Field)
}

func TestNormalizeDuplicateID(t *testing.T) {
	_, err := Normalize([]RawNode{
		rawFrame("1:0", "A"),
		rawFrame("1:0", "B"),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Contains(t, verr.Issues[0].Message, "duplicate node id")
}

func TestNormalizeSelfReferencingID(t *testing.T) {
	_, err := Normalize([]RawNode{
		rawFrame("1:0", "A",
			rawFrame("1:0", "A again"),
		),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.NotEmpty(t, verr.Issues)
	assert.Contains(t, verr.Issues[0].Message, "descendant")
}

func TestNormalizeCollectsEveryIssue(t *testing.T) {
	_, err := Normalize([]RawNode{
		{Name: "no id", Type: "FRAME"},
		{ID: "2:0", Name: "no type"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 2)
}

func TestNormalizeDefaults(t *testing.T) {
	hidden := false
	locked := true
	radius := 6.0
	roots, err := Normalize([]RawNode{{
		ID: "1:0", Name: "Card", Type: "FRAME",
		Visible:      &hidden,
		Locked:       &locked,
		CornerRadius: &radius,
		LayoutMode:   "VERTICAL",
		ItemSpacing:  8,
	}})
	require.NoError(t, err)

	n := roots[0]
	assert.False(t, n.Visible)
	assert.True(t, n.Locked)
	require.NotNil(t, n.CornerRadius)
	assert.True(t, n.CornerRadius.Uniform())
	assert.Equal(t, 6.0, n.CornerRadius.TopLeft)
	require.NotNil(t, n.Layout)
	assert.Equal(t, "VERTICAL", n.Layout.Mode)
	assert.Equal(t, 8.0, n.Layout.ItemSpacing)
}

func TestNormalizePerCornerRadii(t *testing.T) {
	roots, err := Normalize([]RawNode{{
		ID: "1:0", Name: "Tab", Type: "RECTANGLE",
		RectangleCornerRadii: []float64{4, 4, 0, 0},
	}})
	require.NoError(t, err)

	r := roots[0].CornerRadius
	require.NotNil(t, r)
	assert.False(t, r.Uniform())
	assert.Equal(t, 4.0, r.TopLeft)
	assert.Equal(t, 0.0, r.BottomRight)
}

func TestWalkOrderAndEarlyStop(t *testing.T) {
	roots, err := Normalize([]RawNode{
		rawFrame("a", "A",
			rawFrame("b", "B",
				rawText("c", "C", "x"),
			),
			rawText("d", "D", "y"),
		),
	})
	require.NoError(t, err)

	var order []string
	Walk(roots[0], func(n *Node, depth int) bool {
		order = append(order, n.ID)
		return true
	})
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)

	order = nil
	Walk(roots[0], func(n *Node, depth int) bool {
		order = append(order, n.ID)
		return n.ID != "b"
	})
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestParseExport(t *testing.T) {
	payload := []byte(`{
		"fileKey": "abc",
		"name": "Design System",
		"pageId": "0:1",
		"components": [
			{"id": "1:0", "name": "Button", "type": "FRAME"}
		]
	}`)

	export, err := ParseExport(payload)
	require.NoError(t, err)
	assert.Equal(t, "abc", export.FileKey)
	require.Len(t, export.Components, 1)
	assert.Equal(t, "Button", export.Components[0].Name)
}
