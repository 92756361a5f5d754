package yamlls

import (
	"strconv"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"
)

// extendedBooleans is the YAML 1.1 plain-scalar boolean set spec 4.B
// names beyond the canonical true/false, matched case-sensitively as
// written (goccy/go-yaml already folds canonical true/false into
// ast.BoolNode; this set catches the ones it leaves as strings).
var extendedBooleans = map[string]bool{
	"y": true, "Y": true, "yes": true, "Yes": true, "YES": true,
	"on": true, "On": true, "ON": true,
	"n": false, "N": false, "no": false, "No": false, "NO": false,
	"off": false, "Off": false, "OFF": false,
}

func extendedBoolValue(s string) (value bool, ok bool) {
	value, ok = extendedBooleans[s]
	return value, ok
}

// ConvertOptions configures one YAML→AST conversion pass.
type ConvertOptions struct {
	// PreserveAliasSpans keeps an alias as a String node carrying its own
	// source span and alias source text, instead of resolving it to its
	// anchor's value. Symbol/completion callers need this so a selection
	// range always lands on a visible token (spec 4.B); validation
	// callers leave this false so aliases validate as their referent.
	PreserveAliasSpans bool

	// CustomTags lists the custom YAML tags this conversion should pass
	// through rather than downgrade. Keys are tag names including their
	// leading "!"; values name the expected Kind ("string", "number",
	// "boolean", "array", "object") the tagged node should already have —
	// a mismatch downgrades the node to a String per spec 4.B.
	CustomTags map[string]string
}

type converter struct {
	lines   *LineCounter
	opts    ConvertOptions
	anchors map[string]*Node
}

// Convert walks a parsed goccy/go-yaml document body and produces the
// shared AST model (spec 4.B). Returns nil, nil, nil for an empty/absent
// document (e.g. a stream with zero documents, or a document whose body
// is nil). The returned map is the anchor names defined anywhere in the
// document, each mapped to the node it decorates — additional_validators.go
// uses it for unused-anchor detection without a second tree walk.
func Convert(doc *ast.DocumentNode, text string, opts ConvertOptions) (*Node, map[string]*Node, error) {
	if doc == nil || doc.Body == nil {
		return nil, nil, nil
	}
	c := &converter{
		lines:   NewLineCounter(text),
		opts:    opts,
		anchors: make(map[string]*Node),
	}
	root, err := c.convert(doc.Body, nil)
	return root, c.anchors, err
}

func (c *converter) convert(n ast.Node, parent *Node) (*Node, error) {
	if n == nil {
		return nil, nil
	}

	switch v := n.(type) {
	case *ast.AnchorNode:
		resolved, err := c.convert(v.Value, parent)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			c.anchors[anchorName(v.Name)] = resolved
		}
		return resolved, nil

	case *ast.AliasNode:
		return c.convertAlias(v, parent)

	case *ast.TagNode:
		return c.convertTag(v, parent)

	case *ast.MappingNode:
		return c.convertMapping(v, parent)

	case *ast.MappingValueNode:
		// A bare MappingValueNode (single pair, not wrapped in a
		// MappingNode) is goccy/go-yaml's shape for a one-entry map.
		obj := &Node{Kind: KindObject, Parent: parent, Source: v}
		prop, err := c.convertPair(v, obj)
		if err != nil {
			return nil, err
		}
		obj.Children = []*Node{prop}
		c.setSpanFromToken(obj, v.GetToken(), v)
		return obj, nil

	case *ast.SequenceNode:
		return c.convertSequence(v, parent)

	case *ast.NullNode:
		return c.leaf(KindNull, v, parent), nil

	case *ast.BoolNode:
		node := c.leaf(KindBoolean, v, parent)
		node.BoolValue = v.Value
		return node, nil

	case *ast.IntegerNode:
		node := c.leaf(KindNumber, v, parent)
		node.IsInteger = true
		node.NumValue = toFloat(v.Value)
		return node, nil

	case *ast.FloatNode:
		node := c.leaf(KindNumber, v, parent)
		node.NumValue = v.Value
		return node, nil

	case *ast.LiteralNode:
		node := c.leaf(KindString, v, parent)
		if v.Value != nil {
			node.StrValue = v.Value.Value
		}
		return node, nil

	case *ast.StringNode:
		return c.convertString(v, parent), nil

	default:
		// Any other scalar-shaped node (merge-key marker, comment-only
		// node reached defensively, etc.) degrades to an empty string
		// rather than failing the whole document.
		node := &Node{Kind: KindString, Parent: parent, Source: v}
		c.setSpanFromToken(node, n.GetToken(), n)
		return node, nil
	}
}

func (c *converter) convertString(v *ast.StringNode, parent *Node) *Node {
	raw := v.Value
	node := c.leaf(KindString, v, parent)
	if value, ok := extendedBoolValue(raw); ok && isPlainScalar(v.GetToken()) {
		node.Kind = KindBoolean
		node.BoolValue = value
		return node
	}
	node.StrValue = raw
	return node
}

func (c *converter) convertAlias(v *ast.AliasNode, parent *Node) (*Node, error) {
	name := anchorName(v.Value)

	if c.opts.PreserveAliasSpans {
		node := &Node{
			Kind:     KindString,
			Parent:   parent,
			Source:   v,
			StrValue: "*" + name,
			Alias:    name,
		}
		c.setSpanFromToken(node, v.GetToken(), v)
		return node, nil
	}

	if resolved, ok := c.anchors[name]; ok {
		// Shallow-copy rather than reusing the anchor's own Node: the
		// copy carries this reference's Alias tag (for unused-anchor
		// detection) without mutating the shared anchor node, which may
		// be aliased from more than one place.
		ref := *resolved
		ref.Parent = parent
		ref.Alias = name
		return &ref, nil
	}
	// Unresolved alias (anchor not yet seen, or genuinely absent): fall
	// back to a null node rather than failing the whole document.
	node := &Node{Kind: KindNull, Parent: parent, Source: v, Alias: name}
	c.setSpanFromToken(node, v.GetToken(), v)
	return node, nil
}

func (c *converter) convertTag(v *ast.TagNode, parent *Node) (*Node, error) {
	node, err := c.convert(v.Value, parent)
	if err != nil || node == nil {
		return node, err
	}

	expected, known := c.opts.CustomTags[v.Start.Value]
	if !known {
		return node, nil
	}
	if expected != "" && node.Kind.String() != expected {
		downgraded := &Node{
			Kind:     KindString,
			Parent:   parent,
			Source:   v,
			StrValue: tokenRawValue(node),
		}
		downgraded.Offset, downgraded.Length = node.Offset, node.Length
		return downgraded, nil
	}
	return node, nil
}

func (c *converter) convertMapping(v *ast.MappingNode, parent *Node) (*Node, error) {
	obj := &Node{Kind: KindObject, Parent: parent, Source: v}

	children := make([]*Node, 0, len(v.Values))
	for _, pair := range v.Values {
		prop, err := c.convertPair(pair, obj)
		if err != nil {
			return nil, err
		}
		children = append(children, prop)
	}
	// The `<<` merge key is kept as-authored here; expansion is a
	// validate-time concern (mergekey.go), so hover/symbol lookups still
	// see the document the author actually wrote.
	obj.Children = children

	c.setSpanFromToken(obj, v.GetToken(), v)
	c.trimTrailingNewline(obj)
	return obj, nil
}

func (c *converter) convertPair(pair *ast.MappingValueNode, parent *Node) (*Node, error) {
	if pair.Key == nil {
		return nil, &StructuralError{Message: "mapping entry missing key", Offset: tokenOffset(pair.GetToken())}
	}

	key, err := c.convert(pair.Key, nil)
	if err != nil {
		return nil, err
	}
	if key.Kind != KindString {
		key = &Node{Kind: KindString, StrValue: stringifyKey(key), Offset: key.Offset, Length: key.Length}
	}

	prop := &Node{Kind: KindProperty, Parent: parent, Source: pair, Key: key}
	key.Parent = prop

	if pair.Value != nil {
		value, err := c.convert(pair.Value, prop)
		if err != nil {
			return nil, err
		}
		prop.Value = value
	}

	start := key.Offset
	end := key.End()
	if prop.Value != nil {
		end = prop.Value.End()
	}
	prop.Offset = start
	prop.Length = end - start

	return prop, nil
}

func (c *converter) convertSequence(v *ast.SequenceNode, parent *Node) (*Node, error) {
	arr := &Node{Kind: KindArray, Parent: parent, Source: v}

	arr.Children = make([]*Node, 0, len(v.Values))
	for _, item := range v.Values {
		child, err := c.convert(item, arr)
		if err != nil {
			return nil, err
		}
		if child != nil {
			arr.Children = append(arr.Children, child)
		}
	}

	c.setSpanFromToken(arr, v.GetToken(), v)
	c.trimTrailingNewline(arr)
	return arr, nil
}

func (c *converter) leaf(kind Kind, n ast.Node, parent *Node) *Node {
	node := &Node{Kind: kind, Parent: parent, Source: n}
	c.setSpanFromToken(node, n.GetToken(), n)
	return node
}

// setSpanFromToken computes a node's [offset, offset+length) span from
// its originating token's position, falling back to the provided node's
// raw text length when the token's own Value is a poor proxy for the
// span (collections span well past their opening token).
func (c *converter) setSpanFromToken(node *Node, tok *token.Token, astNode ast.Node) {
	if tok == nil || tok.Position == nil {
		return
	}
	start := tok.Position.Offset
	raw := astNode.String()
	node.Offset = start
	node.Length = len(raw)
}

// trimTrailingNewline implements spec 4.B's collection-range adjustment:
// when a multi-line collection's computed end lands exactly at column 0
// (the start of a line), drop the trailing newline from the range so the
// validator never points a diagnostic at the next line's indentation.
func (c *converter) trimTrailingNewline(node *Node) {
	if node.Length <= 0 {
		return
	}
	start, _ := c.lines.Position(node.Offset)
	end, _ := c.lines.Position(node.End())
	if end == start {
		return
	}
	if c.lines.EndsAtColumnZero(node.End()) {
		node.Length--
	}
}

func anchorName(n ast.Node) string {
	if n == nil {
		return ""
	}
	if s, ok := n.(*ast.StringNode); ok {
		return s.Value
	}
	return n.String()
}

// isPlainScalar reports whether tok is an unquoted scalar — quoted forms
// ('y', "yes") must not be folded into the extended boolean set, only
// bare words may be (spec 4.B: "when the scalar is plain").
func isPlainScalar(tok *token.Token) bool {
	if tok == nil {
		return true
	}
	return tok.Type == token.StringType
}

func tokenOffset(tok *token.Token) int {
	if tok == nil || tok.Position == nil {
		return 0
	}
	return tok.Position.Offset
}

func tokenRawValue(n *Node) string {
	switch n.Kind {
	case KindString:
		return n.StrValue
	case KindBoolean:
		return strconv.FormatBool(n.BoolValue)
	case KindNumber:
		return strconv.FormatFloat(n.NumValue, 'g', -1, 64)
	default:
		return ""
	}
}

// stringifyKey coerces a non-scalar-string mapping key (number, boolean,
// null — YAML permits all three) to its string form, per spec 4.B's
// "non-scalar keys use their stringified form" rule.
func stringifyKey(key *Node) string {
	switch key.Kind {
	case KindNumber:
		if key.IsInteger {
			return strconv.FormatInt(int64(key.NumValue), 10)
		}
		return strconv.FormatFloat(key.NumValue, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(key.BoolValue)
	case KindNull:
		return "null"
	default:
		return key.GetValue().(string)
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

// StructuralError reports that the incoming YAML tree could not be
// converted to the AST model (spec 4.B): a malformed mapping entry, most
// commonly a pair with no key. Conversion stops at the first one.
type StructuralError struct {
	Message string
	Offset  int
}

func (e *StructuralError) Error() string { return e.Message }
