package yamlls

// Kind tags the seven node variants the AST model supports.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
	KindProperty
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Node is the JSON-compatible AST the validator, completion, and hover
// façades all share. Offsets are byte offsets into the original document
// text; Length is a byte count, never negative.
//
// Parent is a weak back-reference: Node never owns its parent, only its
// children, so the tree can be built bottom-up without reference cycles.
type Node struct {
	Kind   Kind
	Offset int
	Length int
	Parent *Node

	// Scalar payloads. Only the field matching Kind is meaningful.
	BoolValue bool
	NumValue  float64
	IsInteger bool
	StrValue  string

	// Array children (Kind == KindArray) or Object children (Kind ==
	// KindObject, each child has Kind == KindProperty), in source order.
	Children []*Node

	// Property payload (Kind == KindProperty). Key is always a String
	// node. Value is absent (nil) for a mapping entry with no value.
	Key   *Node
	Value *Node

	// Source is an opaque handle back to the originating YAML tokenizer
	// node. Used only for range adjustments and anchor/alias inspection;
	// never interpreted by the validator.
	Source any

	// Alias is set when this node stands in for a YAML alias. It carries
	// the anchor name the alias refers to, so symbol/definition lookups
	// can find the referent without re-walking the YAML tree.
	Alias string
}

// End returns the offset one past the node's last byte.
func (n *Node) End() int {
	if n == nil {
		return 0
	}
	return n.Offset + n.Length
}

// Contains reports whether offset falls within [Offset, End). When
// includeRightBound is true the right bound is treated as inclusive
// (offset <= End), matching user-cursor semantics: a cursor positioned
// immediately after the last character of a token should still be
// considered "on" that token. See DESIGN.md for why this spec's two
// historical contains() variants are reconciled as inclusive.
func (n *Node) Contains(offset int, includeRightBound bool) bool {
	if n == nil {
		return false
	}
	if offset < n.Offset {
		return false
	}
	if includeRightBound {
		return offset <= n.End()
	}
	return offset < n.End()
}

// GetValue reifies the node as a plain host value: arrays become ordered
// []any, objects become map[string]any (insertion order is not
// preserved — callers needing order should walk Children directly),
// scalars become themselves.
func (n *Node) GetValue() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindNull:
		return nil
	case KindBoolean:
		return n.BoolValue
	case KindNumber:
		if n.IsInteger {
			return int64(n.NumValue)
		}
		return n.NumValue
	case KindString:
		return n.StrValue
	case KindArray:
		out := make([]any, 0, len(n.Children))
		for _, c := range n.Children {
			out = append(out, c.GetValue())
		}
		return out
	case KindObject:
		out := make(map[string]any, len(n.Children))
		for _, prop := range n.Children {
			if prop.Kind != KindProperty || prop.Key == nil {
				continue
			}
			var v any
			if prop.Value != nil {
				v = prop.Value.GetValue()
			}
			out[prop.Key.StrValue] = v
		}
		return out
	case KindProperty:
		if n.Value != nil {
			return n.Value.GetValue()
		}
		return nil
	default:
		return nil
	}
}

// Properties returns the object's Property children. Returns nil for
// non-object nodes.
func (n *Node) Properties() []*Node {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	return n.Children
}

// Property returns the named property child, or nil if absent or n is
// not an object.
func (n *Node) Property(name string) *Node {
	for _, p := range n.Properties() {
		if p.Key != nil && p.Key.StrValue == name {
			return p
		}
	}
	return nil
}

// Items returns the array's element children. Returns nil for non-array
// nodes.
func (n *Node) Items() []*Node {
	if n == nil || n.Kind != KindArray {
		return nil
	}
	return n.Children
}

// FindNodeAtOffset returns the smallest node in root's subtree containing
// offset, or nil if none does. Iterative: safe on deep documents.
func FindNodeAtOffset(root *Node, offset int, includeRightBound bool) *Node {
	if root == nil || !root.Contains(offset, includeRightBound) {
		return nil
	}
	best := root
	for {
		next := bestChildAt(best, offset, includeRightBound)
		if next == nil {
			return best
		}
		best = next
	}
}

func bestChildAt(n *Node, offset int, includeRightBound bool) *Node {
	var candidates []*Node
	switch n.Kind {
	case KindArray, KindObject:
		candidates = n.Children
	case KindProperty:
		if n.Key != nil {
			candidates = append(candidates, n.Key)
		}
		if n.Value != nil {
			candidates = append(candidates, n.Value)
		}
	}
	for _, c := range candidates {
		if c.Contains(offset, includeRightBound) {
			return c
		}
	}
	return nil
}

// GetNodeFromOffsetEndInclusive returns the smallest enclosing node at
// offset, treating the right bound as inclusive and breaking ties by
// minimal (end-offset)+(offset-start) — i.e. preferring the node whose
// span most tightly hugs the offset from both sides.
func GetNodeFromOffsetEndInclusive(root *Node, offset int) *Node {
	var best *Node
	bestScore := -1
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil || !n.Contains(offset, true) {
			return
		}
		score := (n.End() - offset) + (offset - n.Offset)
		if best == nil || score < bestScore {
			best, bestScore = n, score
		}
		switch n.Kind {
		case KindArray, KindObject:
			for _, c := range n.Children {
				walk(c)
			}
		case KindProperty:
			walk(n.Key)
			walk(n.Value)
		}
	}
	walk(root)
	return best
}
