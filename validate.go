package yamlls

// Options configures one top-level validate call, threaded unchanged
// through every recursive descent (spec 4.E).
type Options struct {
	IsKubernetes                bool
	DisableAdditionalProperties bool
	URI                         string
	CallFromAutoComplete        bool
	Logger                      Logger
}

// Validate runs the full draft-07 validator over node against schema,
// returning the accumulated problems and match counters. The keyword
// checks, including the deprecationMessage and errorMessage lookups, read
// the $ref-expanded schema, in which the referring schema's own keywords
// take precedence over the referenced schema's.
func Validate(node *Node, schema *Schema, options Options) *ValidationResult {
	result := NewValidationResult()
	collector := NewSchemaCollector()
	validate(node, schema, schema, result, collector, options)
	return result
}

// validate is the recursive core. It never returns an error: malformed
// schemas degrade to "no constraint", malformed documents were already
// rejected by the AST converter.
func validate(node *Node, schema *Schema, originalSchema *Schema, result *ValidationResult, collector *SchemaCollector, options Options) {
	if schema == nil || node == nil {
		return
	}

	if schema.Boolean != nil {
		if !*schema.Boolean {
			result.AddProblem(Problem{
				Location:    Location{node.Offset, node.Length},
				Severity:    SeverityError,
				ProblemType: "schemaFalse",
				Message:     "Matches a schema that is always false",
				SchemaURIs:  schemaURIs(schema),
			})
		}
		return
	}

	collector.Add(node, schema, false)

	effective := schema
	if schema.Ref != "" {
		expanded, errs := expandRef(schema.GetRegistry(), schema)
		for _, err := range errs {
			logWarn(options.Logger, "unresolved $ref", "ref", schema.Ref, "err", err)
			result.AddProblem(Problem{
				Location:    Location{node.Offset, node.Length},
				Severity:    SeverityWarning,
				ProblemType: "unresolvedRef",
				Message:     err.Error(),
				ProblemArgs: map[string]any{"ref": schema.Ref},
			})
		}
		if expanded != nil {
			effective = expanded
		}
	}

	switch node.Kind {
	case KindObject:
		validateObject(node, effective, originalSchema, result, collector, options)
	case KindArray:
		validateArray(node, effective, result, collector, options)
	case KindString:
		validateString(node, effective, result)
	case KindNumber:
		validateNumber(node, effective, result)
	case KindBoolean:
		validateAny(node, effective, result)
	case KindNull:
		validateAny(node, effective, result)
	case KindProperty:
		if node.Value != nil {
			validate(node.Value, effective, originalSchema, result, collector, options)
		}
		return
	}

	validateCommon(node, effective, result, options)
	validateApplicators(node, effective, originalSchema, result, collector, options)

	if effective.DeprecationMessage != nil {
		loc := node.Offset
		length := node.Length
		if node.Kind == KindProperty && node.Key != nil {
			loc, length = node.Key.Offset, node.Key.Length
		} else if node.Parent != nil && node.Parent.Kind == KindProperty && node.Parent.Key != nil {
			loc, length = node.Parent.Key.Offset, node.Parent.Key.Length
		}
		result.AddProblem(Problem{
			Location:    Location{loc, length},
			Severity:    SeverityWarning,
			ProblemType: "deprecated",
			Message:     *effective.DeprecationMessage,
		})
	}
}

// validateCommon runs keywords that apply to every instance type: type,
// enum, const.
func validateCommon(node *Node, schema *Schema, result *ValidationResult, options Options) {
	if len(schema.Type) > 0 {
		evaluateType(node, schema, result, options)
	}
	if schema.Enum != nil {
		evaluateEnum(node, schema, result, options)
	}
	if schema.Const != nil {
		evaluateConst(node, schema, result)
	}
}

// validateApplicators runs the boolean/conditional applicator keywords
// (allOf/anyOf/oneOf/not/if-then-else/dependencies), which apply
// regardless of instance kind.
func validateApplicators(node *Node, schema *Schema, originalSchema *Schema, result *ValidationResult, collector *SchemaCollector, options Options) {
	if len(schema.AllOf) > 0 {
		evaluateAllOf(node, schema, originalSchema, result, collector, options)
	}
	if len(schema.AnyOf) > 0 {
		evaluateAnyOf(node, schema, originalSchema, result, collector, options)
	}
	if len(schema.OneOf) > 0 {
		evaluateOneOf(node, schema, originalSchema, result, collector, options)
	}
	if schema.Not != nil {
		evaluateNot(node, schema, originalSchema, collector, result, options)
	}
	if schema.If != nil || schema.Then != nil || schema.Else != nil {
		evaluateConditional(node, schema, originalSchema, result, collector, options)
	}
	if len(schema.Dependencies) > 0 && node.Kind == KindObject {
		evaluateDependencies(node, schema, originalSchema, result, collector, options)
	}
}

// validateAny handles Boolean/Null nodes, which have no type-specific
// keywords beyond the common ones already run by validate.
func validateAny(node *Node, schema *Schema, result *ValidationResult) {}

func schemaURIs(schema *Schema) []string {
	if schema == nil {
		return nil
	}
	if uri := schema.GetSchemaURI(); uri != "" {
		return []string{uri}
	}
	return nil
}

func errorMessageFor(schema *Schema, keyword string) (string, bool) {
	if schema == nil || schema.ErrorMessage == nil {
		return "", false
	}
	if msg, ok := schema.ErrorMessage[keyword]; ok {
		return msg, true
	}
	if msg, ok := schema.ErrorMessage[""]; ok {
		return msg, true
	}
	return "", false
}
