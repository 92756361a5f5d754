package yamlls

// evaluateDependencies runs the unified draft-07 "dependencies" keyword:
// an array-valued dependency requires its listed sibling properties to
// also be present, while a schema-valued dependency revalidates the
// whole object against that schema when the triggering property exists.
func evaluateDependencies(node *Node, schema *Schema, originalSchema *Schema, result *ValidationResult, collector *SchemaCollector, options Options) {
	for name, dep := range schema.Dependencies {
		if node.Property(name) == nil {
			continue
		}
		if dep == nil {
			continue
		}
		if dep.SchemaDependency != nil {
			validate(node, dep.SchemaDependency, dep.SchemaDependency, result, collector, options)
			continue
		}
		for _, required := range dep.PropertyDependency {
			if node.Property(required) != nil {
				continue
			}
			msg, ok := errorMessageFor(schema, "dependencies")
			if !ok {
				msg = "Property " + name + " requires property " + required
			}
			result.AddProblem(Problem{
				Location:    Location{node.Offset, node.Length},
				Severity:    SeverityWarning,
				ProblemType: "dependencies",
				Message:     msg,
				ProblemArgs: map[string]any{"property": name, "requires": required},
			})
		}
	}
}
