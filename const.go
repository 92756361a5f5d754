package yamlls

// evaluateConst treats const as a single-element enum for structural
// comparison and for how it surfaces to the completion façade: a const
// mismatch records its one value in result.EnumValues the same way
// evaluateEnum does, so the two keywords merge into one "expected
// values" picture when a schema uses both across an allOf.
func evaluateConst(node *Node, schema *Schema, result *ValidationResult) {
	result.EnumValues = append(result.EnumValues, schema.Const.Value)

	if jsonEqual(node.GetValue(), schema.Const.Value) {
		result.EnumValueMatch = true
		return
	}

	msg, ok := errorMessageFor(schema, "const")
	if !ok {
		msg = "Value does not match the constant value"
	}
	result.AddProblem(Problem{
		Location:    Location{node.Offset, node.Length},
		Severity:    SeverityWarning,
		ProblemType: "const",
		Message:     msg,
		ProblemArgs: map[string]any{"value": schema.Const.Value},
	})
}
