package yamlls

import "math/big"

// validateNumber runs the numeric validation keywords against a Number
// node, per spec 4.E's "float-safe remainder" treatment for multipleOf
// and the boolean-or-numeric exclusiveMinimum/exclusiveMaximum
// normalization.
func validateNumber(node *Node, schema *Schema, result *ValidationResult) {
	value := NewRat(node.GetValue())
	if value == nil {
		return
	}

	if schema.MultipleOf != nil {
		evaluateMultipleOf(node, schema, value, result)
	}
	if schema.Maximum != nil {
		evaluateMaximum(node, schema, value, result)
	}
	if schema.ExclusiveMaximum != nil {
		evaluateExclusiveMaximum(node, schema, value, result)
	}
	if schema.Minimum != nil {
		evaluateMinimum(node, schema, value, result)
	}
	if schema.ExclusiveMinimum != nil {
		evaluateExclusiveMinimum(node, schema, value, result)
	}
	if schema.Format != nil {
		evaluateFormat(node, schema, result)
	}
}

func evaluateMultipleOf(node *Node, schema *Schema, value *Rat, result *ValidationResult) {
	if schema.MultipleOf.Sign() <= 0 {
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "invalidMultipleOf",
			Message:     "multipleOf " + FormatRat(schema.MultipleOf) + " should be greater than 0",
		})
		return
	}

	quotient := new(big.Rat).Quo(value.Rat, schema.MultipleOf.Rat)
	if !quotient.IsInt() {
		msg, ok := errorMessageFor(schema, "multipleOf")
		if !ok {
			msg = FormatRat(value) + " should be a multiple of " + FormatRat(schema.MultipleOf)
		}
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "multipleOf",
			Message:     msg,
			ProblemArgs: map[string]any{"multipleOf": FormatRat(schema.MultipleOf)},
		})
	}
}

func evaluateMaximum(node *Node, schema *Schema, value *Rat, result *ValidationResult) {
	if value.Cmp(schema.Maximum.Rat) > 0 {
		msg, ok := errorMessageFor(schema, "maximum")
		if !ok {
			msg = FormatRat(value) + " should be at most " + FormatRat(schema.Maximum)
		}
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "maximum",
			Message:     msg,
			ProblemArgs: map[string]any{"maximum": FormatRat(schema.Maximum)},
		})
	}
}

func evaluateExclusiveMaximum(node *Node, schema *Schema, value *Rat, result *ValidationResult) {
	if value.Cmp(schema.ExclusiveMaximum.Rat) >= 0 {
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "exclusiveMaximum",
			Message:     FormatRat(value) + " should be less than " + FormatRat(schema.ExclusiveMaximum),
			ProblemArgs: map[string]any{"exclusiveMaximum": FormatRat(schema.ExclusiveMaximum)},
		})
	}
}

func evaluateMinimum(node *Node, schema *Schema, value *Rat, result *ValidationResult) {
	if value.Cmp(schema.Minimum.Rat) < 0 {
		msg, ok := errorMessageFor(schema, "minimum")
		if !ok {
			msg = FormatRat(value) + " should be at least " + FormatRat(schema.Minimum)
		}
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "minimum",
			Message:     msg,
			ProblemArgs: map[string]any{"minimum": FormatRat(schema.Minimum)},
		})
	}
}

func evaluateExclusiveMinimum(node *Node, schema *Schema, value *Rat, result *ValidationResult) {
	if value.Cmp(schema.ExclusiveMinimum.Rat) <= 0 {
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "exclusiveMinimum",
			Message:     FormatRat(value) + " should be greater than " + FormatRat(schema.ExclusiveMinimum),
			ProblemArgs: map[string]any{"exclusiveMinimum": FormatRat(schema.ExclusiveMinimum)},
		})
	}
}
