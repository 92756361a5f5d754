package yamlls

import "github.com/goccy/go-yaml/ast"

// AdditionalValidatorSettings configures the schema-independent checks
// that run over the YAML tree regardless of which schema applies (spec
// 4.F): flow-style policy, unused-anchor detection, key ordering.
type AdditionalValidatorSettings struct {
	ForbidFlowMaps  bool
	ForbidFlowSeqs  bool
	EnforceKeyOrder bool
}

// RunAdditionalValidators produces the schema-independent diagnostics
// spec 4.F names, over the already-converted AST plus side information
// (flow-style flag, anchor/alias names) the converter tracked. lines
// converts each finding's byte span to the same line/column space
// ToDiagnostics uses, so a host merges both diagnostic sets with no
// further translation.
func RunAdditionalValidators(root *Node, anchors map[string]*Node, lines *LineCounter, settings AdditionalValidatorSettings) []Diagnostic {
	if root == nil {
		return nil
	}
	var out []Diagnostic
	if settings.ForbidFlowMaps || settings.ForbidFlowSeqs {
		out = append(out, checkFlowStyle(root, lines, settings)...)
	}
	out = append(out, checkAnchorsAndAliases(root, anchors, lines)...)
	if settings.EnforceKeyOrder {
		out = append(out, checkKeyOrder(root, lines)...)
	}
	return out
}

func checkFlowStyle(node *Node, lines *LineCounter, settings AdditionalValidatorSettings) []Diagnostic {
	var out []Diagnostic
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if isFlowCollection(n) {
			forbidden := (n.Kind == KindObject && settings.ForbidFlowMaps) ||
				(n.Kind == KindArray && settings.ForbidFlowSeqs)
			if forbidden {
				out = append(out, Diagnostic{
					Range:       rangeOf(n, lines),
					Severity:    DiagnosticWarning,
					ProblemType: "flowStyle",
					Message:     "Flow style " + n.Kind.String() + " is not allowed",
				})
			}
		}
		switch n.Kind {
		case KindObject, KindArray:
			for _, c := range n.Children {
				walk(c)
			}
		case KindProperty:
			walk(n.Value)
		}
	}
	walk(node)
	return out
}

// isFlowCollection reports whether an Object/Array node was written in
// flow style ({a: 1} / [1, 2]), read off the converter's Source handle —
// goccy/go-yaml's MappingNode/SequenceNode both carry an IsFlowStyle bit.
func isFlowCollection(n *Node) bool {
	switch src := n.Source.(type) {
	case *ast.MappingNode:
		return src.IsFlowStyle
	case *ast.SequenceNode:
		return src.IsFlowStyle
	default:
		return false
	}
}

// checkAnchorsAndAliases reports both directions of anchor/alias mismatch
// spec 4.F calls for: anchors that no alias ever targets (information,
// tagged Unnecessary), and aliases whose target never resolved to any
// anchor in the document (a real problem, not a cleanup suggestion).
// anchors is the map the converter built during the YAML→AST pass (anchor
// name → the node it decorates); convertAlias falls back to a KindNull
// node carrying the unresolved name in Alias rather than failing the
// whole document, so that fallback is what this walk is looking for.
func checkAnchorsAndAliases(root *Node, anchors map[string]*Node, lines *LineCounter) []Diagnostic {
	used := make(map[string]bool)
	var out []Diagnostic
	var walkAliases func(n *Node)
	walkAliases = func(n *Node) {
		if n == nil {
			return
		}
		if n.Alias != "" {
			if _, ok := anchors[n.Alias]; ok {
				used[n.Alias] = true
			} else {
				out = append(out, Diagnostic{
					Range:       rangeOf(n, lines),
					Severity:    DiagnosticError,
					ProblemType: "unresolvedAlias",
					Message:     "Alias \"*" + n.Alias + "\" does not resolve to any anchor",
				})
			}
		}
		switch n.Kind {
		case KindObject, KindArray:
			for _, c := range n.Children {
				walkAliases(c)
			}
		case KindProperty:
			walkAliases(n.Key)
			walkAliases(n.Value)
		}
	}
	walkAliases(root)

	for name, node := range anchors {
		if used[name] {
			continue
		}
		out = append(out, Diagnostic{
			Range:       rangeOf(node, lines),
			Severity:    DiagnosticInformation,
			ProblemType: "unusedAnchor",
			Message:     "Anchor \"" + name + "\" is never used",
			Tags:        []Tag{TagUnnecessary},
		})
	}
	return out
}

// checkKeyOrder reports the first out-of-order key in each object, per
// spec 4.F (the first pair whose key sorts before the previous one).
func checkKeyOrder(node *Node, lines *LineCounter) []Diagnostic {
	var out []Diagnostic
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Kind == KindObject {
			prev := ""
			for i, prop := range n.Children {
				if prop.Kind != KindProperty || prop.Key == nil {
					continue
				}
				if i > 0 && prop.Key.StrValue < prev {
					out = append(out, Diagnostic{
						Range:       rangeOf(prop.Key, lines),
						Severity:    DiagnosticWarning,
						ProblemType: "keyOrder",
						Message:     "Key \"" + prop.Key.StrValue + "\" is out of order",
					})
					break
				}
				prev = prop.Key.StrValue
			}
		}
		switch n.Kind {
		case KindObject, KindArray:
			for _, c := range n.Children {
				walk(c)
			}
		case KindProperty:
			walk(n.Value)
		}
	}
	walk(node)
	return out
}
