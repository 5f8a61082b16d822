package scene

import (
	"fmt"
	"strings"
)

// NodeIssue describes one malformed node found during normalization.
// Path is the slash-joined chain of node ids (or child indexes when the id
// itself is missing) from the batch root down to the offending node.
type NodeIssue struct {
	Path    string `json:"path"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every malformed node in a batch. Normalization is
// all-or-nothing: when this error is returned no partial tree is produced.
type ValidationError struct {
	Issues []NodeIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid batch"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, iss := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s (%s)", iss.Path, iss.Message, iss.Field))
	}
	return fmt.Sprintf("invalid batch: %d malformed node(s): %s", len(e.Issues), strings.Join(parts, "; "))
}

// frame is one unit of normalization work. Traversal uses an explicit stack
// so adversarially deep trees cannot exhaust the call stack.
type frame struct {
	raw    *RawNode
	parent *Node
	path   string
	// ancestors holds the ids on the path from the root to this node's
	// parent, for the defensive cycle check.
	ancestors map[string]bool
}

// Normalize validates a raw batch and converts it into canonical trees.
//
// Checks applied per node: non-empty id unique within the batch, non-empty
// type, and no id reappearing among its own descendants. Unknown node types
// are not rejected; they become KindUnrecognized and keep their raw
// attribute bag. Defaults filled: visible=true, locked=false, empty
// fill/stroke/effect lists. An absent customName stays absent.
func Normalize(batch []RawNode) ([]*Node, error) {
	var issues []NodeIssue
	seen := make(map[string]string) // id -> first path

	// sentinel parent collecting the canonical roots
	rootHolder := &Node{}

	stack := make([]frame, 0, len(batch))
	for i := len(batch) - 1; i >= 0; i-- {
		stack = append(stack, frame{
			raw:       &batch[i],
			parent:    rootHolder,
			path:      pathSegment("roots", i, batch[i].ID),
			ancestors: map[string]bool{},
		})
	}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		raw := fr.raw

		if raw.ID == "" {
			issues = append(issues, NodeIssue{Path: fr.path, Field: "id", Message: "missing node id"})
		} else {
			if fr.ancestors[raw.ID] {
				issues = append(issues, NodeIssue{Path: fr.path, Field: "id", Message: "node id appears as its own descendant"})
				continue // do not descend into the cycle
			}
			if prev, dup := seen[raw.ID]; dup {
				issues = append(issues, NodeIssue{
					Path:    fr.path,
					Field:   "id",
					Message: fmt.Sprintf("duplicate node id %q (first seen at %s)", raw.ID, prev),
				})
			} else {
				seen[raw.ID] = fr.path
			}
		}
		if raw.Type == "" {
			issues = append(issues, NodeIssue{Path: fr.path, Field: "type", Message: "missing node type"})
		}

		node := canonicalize(raw)
		fr.parent.Children = append(fr.parent.Children, node)

		if len(raw.Children) == 0 {
			continue
		}
		ancestors := make(map[string]bool, len(fr.ancestors)+1)
		for id := range fr.ancestors {
			ancestors[id] = true
		}
		if raw.ID != "" {
			ancestors[raw.ID] = true
		}
		for i := len(raw.Children) - 1; i >= 0; i-- {
			child := &raw.Children[i]
			stack = append(stack, frame{
				raw:       child,
				parent:    node,
				path:      fr.path + "/" + pathSegment("children", i, child.ID),
				ancestors: ancestors,
			})
		}
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return rootHolder.Children, nil
}

func pathSegment(prefix string, index int, id string) string {
	if id == "" {
		return fmt.Sprintf("%s[%d]", prefix, index)
	}
	return id
}

// canonicalize maps one raw node onto its canonical form, filling defaults.
func canonicalize(raw *RawNode) *Node {
	node := &Node{
		ID:         raw.ID,
		Name:       raw.Name,
		CustomName: raw.CustomName,
		X:          raw.X,
		Y:          raw.Y,
		Width:      raw.Width,
		Height:     raw.Height,
		Visible:    raw.Visible == nil || *raw.Visible,
		Locked:     raw.Locked != nil && *raw.Locked,
		Fills:      append([]Paint{}, raw.Fills...),
		Effects:    append([]Effect{}, raw.Effects...),
		Characters: raw.Characters,
	}

	kind, ok := knownKinds[raw.Type]
	if !ok {
		kind = KindUnrecognized
		node.Extra = raw.Extra
		if node.Extra == nil {
			node.Extra = map[string]any{}
		}
		node.Extra["type"] = raw.Type
	}
	node.Kind = kind

	if len(raw.Strokes) > 0 {
		node.Stroke = &Stroke{
			Paints: append([]Paint{}, raw.Strokes...),
			Weight: raw.StrokeWeight,
		}
	}

	switch {
	case len(raw.RectangleCornerRadii) == 4:
		node.CornerRadius = &CornerRadius{
			TopLeft:     raw.RectangleCornerRadii[0],
			TopRight:    raw.RectangleCornerRadii[1],
			BottomRight: raw.RectangleCornerRadii[2],
			BottomLeft:  raw.RectangleCornerRadii[3],
		}
	case raw.CornerRadius != nil:
		r := *raw.CornerRadius
		node.CornerRadius = &CornerRadius{TopLeft: r, TopRight: r, BottomRight: r, BottomLeft: r}
	}

	if kind == KindText && raw.Style != nil {
		ts := *raw.Style
		node.Typography = &ts
	}

	if raw.LayoutMode != "" || raw.ItemSpacing != 0 ||
		raw.PaddingTop != 0 || raw.PaddingRight != 0 || raw.PaddingBottom != 0 || raw.PaddingLeft != 0 {
		node.Layout = &Layout{
			Mode:          raw.LayoutMode,
			ItemSpacing:   raw.ItemSpacing,
			PaddingTop:    raw.PaddingTop,
			PaddingRight:  raw.PaddingRight,
			PaddingBottom: raw.PaddingBottom,
			PaddingLeft:   raw.PaddingLeft,
		}
	}

	return node
}

// Walk visits every node of the tree depth-first, children in original
// order, using an explicit stack. Visiting stops early when fn returns
// false. depth starts at 0 for the root.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	type item struct {
		node  *Node
		depth int
	}
	stack := []item{{root, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(it.node, it.depth) {
			return
		}
		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.node.Children[i], it.depth + 1})
		}
	}
}
