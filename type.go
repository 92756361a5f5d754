package yamlls

import "strings"

// evaluateType checks the instance's Kind against schema.Type. A node
// whose Kind is KindNumber with IsInteger set also satisfies "number",
// matching the draft-07 rule that integers are a subset of numbers.
func evaluateType(node *Node, schema *Schema, result *ValidationResult, options Options) {
	instanceType := nodeDataType(node)

	for _, schemaType := range schema.Type {
		if schemaType == "number" && instanceType == "integer" {
			recordPrimaryMatch(node, result)
			return
		}
		if instanceType == schemaType {
			recordPrimaryMatch(node, result)
			return
		}
	}

	msg, ok := errorMessageFor(schema, "type")
	if !ok {
		msg = "Value is " + instanceType + " but should be " + strings.Join(schema.Type, " or ")
	}
	result.AddProblem(Problem{
		Location:    Location{node.Offset, node.Length},
		Severity:    SeverityWarning,
		ProblemType: "type",
		Message:     msg,
		ProblemArgs: map[string]any{"expected": strings.Join(schema.Type, ", "), "received": instanceType},
	})
}

// recordPrimaryMatch counts a scalar node whose own type keyword matched
// directly, as opposed to a property/item match counted by the
// container-level validators — this is what lets testAlternatives prefer
// the branch whose leaf value actually fits over one that merely has no
// applicable properties to mismatch.
func recordPrimaryMatch(node *Node, result *ValidationResult) {
	switch node.Kind {
	case KindObject, KindArray, KindProperty:
		return
	default:
		result.PrimaryValueMatches++
	}
}

// nodeDataType maps a Node's Kind to the JSON Schema type vocabulary.
func nodeDataType(node *Node) string {
	switch node.Kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		if node.IsInteger {
			return "integer"
		}
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}
