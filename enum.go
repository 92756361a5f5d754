package yamlls

import "strings"

// evaluateEnum checks the instance against schema.Enum by structural
// equality. When options.CallFromAutoComplete is set, a String instance
// that is a prefix of some enum value also counts as a match — this lets
// the completion façade ask "is this schema relevant to what's being
// typed" without rejecting an in-progress value outright.
//
// result.EnumValueMatch and result.EnumValues record whether any match
// was found and what the candidates were, so the completion façade can
// offer the remaining enum values even when validate() itself reports a
// mismatch.
func evaluateEnum(node *Node, schema *Schema, result *ValidationResult, options Options) {
	result.EnumValues = append(result.EnumValues, schema.Enum...)

	for _, candidate := range schema.Enum {
		if jsonEqual(node.GetValue(), candidate) {
			result.EnumValueMatch = true
			return
		}
		if options.CallFromAutoComplete && node.Kind == KindString {
			if s, ok := candidate.(string); ok && strings.HasPrefix(s, node.StrValue) {
				result.EnumValueMatch = true
				return
			}
		}
	}

	msg, ok := errorMessageFor(schema, "enum")
	if !ok {
		msg = "Value should match one of the values specified by the enum"
	}
	result.AddProblem(Problem{
		Location:    Location{node.Offset, node.Length},
		Severity:    SeverityWarning,
		ProblemType: "enum",
		Message:     msg,
		ProblemArgs: map[string]any{"values": schema.Enum},
	})
}

// jsonEqual compares two GetValue()-shaped values structurally, treating
// int64/float64 interchangeably so a schema literal decoded as one
// numeric Go type still matches a node decoded as the other.
func jsonEqual(a, b any) bool {
	an, aIsNum := asFloat(a)
	bn, bIsNum := asFloat(b)
	if aIsNum && bIsNum {
		return an == bn
	}

	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !jsonEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !jsonEqual(v, bvv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
