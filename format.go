package yamlls

// evaluateFormat checks a String or Number node against schema.Format
// using the registry's custom formats first, falling back to the built-in
// Formats table (spec 4.E). A custom format registered with a type is
// skipped for nodes of any other type. Format is an annotation by
// default; mismatches are reported only when the owning registry has
// AssertFormat set.
func evaluateFormat(node *Node, schema *Schema, result *ValidationResult) {
	if schema.Format == nil {
		return
	}
	formatName := *schema.Format

	var validator func(any) bool
	assertFormat := false

	if registry := schema.GetRegistry(); registry != nil {
		assertFormat = registry.AssertFormat
		if def, ok := registry.customFormats[formatName]; ok && def != nil {
			if def.Type != "" {
				got := nodeDataType(node)
				if got != def.Type && !(def.Type == "number" && got == "integer") {
					return
				}
			}
			validator = def.Validate
		}
	}
	if validator == nil {
		validator = Formats[formatName]
	}

	if validator == nil {
		if assertFormat {
			result.AddProblem(Problem{
				Location:    Location{node.Offset, node.Length},
				Severity:    SeverityWarning,
				ProblemType: "unknownFormat",
				Message:     "Unknown format '" + formatName + "'",
				ProblemArgs: map[string]any{"format": formatName},
			})
		}
		return
	}

	if validator(node.GetValue()) {
		return
	}
	if !assertFormat {
		return
	}

	msg, ok := errorMessageFor(schema, "format")
	if !ok {
		msg = "Value does not match format '" + formatName + "'"
	}
	result.AddProblem(Problem{
		Location:    Location{node.Offset, node.Length},
		Severity:    SeverityWarning,
		ProblemType: "format",
		Message:     msg,
		ProblemArgs: map[string]any{"format": formatName},
	})
}
