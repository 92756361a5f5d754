package yamlls

import "regexp"

// validateObject dispatches the object-applicable keywords: properties,
// patternProperties, additionalProperties, propertyNames, required,
// minProperties/maxProperties. It first expands merge keys (`<<`) per
// spec 4.E so every subsequent keyword sees the spliced-in shape.
func validateObject(node *Node, schema *Schema, originalSchema *Schema, result *ValidationResult, collector *SchemaCollector, options Options) {
	properties := expandMergeKeys(node.Properties())

	seen := make(map[string]*Node, len(properties))
	var order []string
	for _, p := range properties {
		if p.Kind != KindProperty || p.Key == nil {
			continue
		}
		if _, exists := seen[p.Key.StrValue]; !exists {
			order = append(order, p.Key.StrValue)
		}
		seen[p.Key.StrValue] = p
	}

	matchedByPattern := make(map[string]bool, len(properties))

	if schema.Properties != nil {
		for name, propSchema := range *schema.Properties {
			prop, ok := seen[name]
			if !ok || propSchema == nil {
				continue
			}
			result.PropertiesMatches++
			matchedByPattern[name] = true
			if prop.Value != nil {
				result.PropertiesValueMatches++
				validate(prop, propSchema, propSchema, result, collector, options)
			} else {
				collector.Add(prop, propSchema, false)
			}
		}
	}

	if schema.PatternProperties != nil {
		schema.compilePatterns()
		for pattern, propSchema := range *schema.PatternProperties {
			re := schema.compiledPatternFor(pattern)
			if re == nil || propSchema == nil {
				continue
			}
			for _, name := range order {
				if !re.MatchString(name) {
					continue
				}
				prop := seen[name]
				result.PropertiesMatches++
				matchedByPattern[name] = true
				if prop.Value != nil {
					validate(prop, propSchema, propSchema, result, collector, options)
				}
			}
		}
	}

	if schema.AdditionalProperties != nil || options.DisableAdditionalProperties {
		evaluateAdditionalProperties(node, schema, order, seen, matchedByPattern, result, collector, options)
	}

	if schema.PropertyNames != nil {
		for _, name := range order {
			prop := seen[name]
			if prop.Key == nil {
				continue
			}
			sub := NewValidationResult()
			validate(prop.Key, schema.PropertyNames, schema.PropertyNames, sub, collector.newSub(), options)
			result.Problems = append(result.Problems, sub.Problems...)
		}
	}

	if schema.MaxProperties != nil && float64(len(order)) > *schema.MaxProperties {
		msg, ok := errorMessageFor(schema, "maxProperties")
		if !ok {
			msg = "Object has too many properties"
		}
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "maxProperties",
			Message:     msg,
			ProblemArgs: map[string]any{"maxProperties": *schema.MaxProperties},
		})
	}
	if schema.MinProperties != nil && float64(len(order)) < *schema.MinProperties {
		msg, ok := errorMessageFor(schema, "minProperties")
		if !ok {
			msg = "Object has too few properties"
		}
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "minProperties",
			Message:     msg,
			ProblemArgs: map[string]any{"minProperties": *schema.MinProperties},
		})
	}

	if len(schema.Required) > 0 {
		for _, name := range schema.Required {
			if _, ok := seen[name]; !ok {
				msg, hasMsg := errorMessageFor(schema, "required")
				if !hasMsg {
					msg = "Missing property \"" + name + "\""
				}
				result.AddProblem(Problem{
					Location:    Location{node.Offset, node.Length},
					Severity:    SeverityWarning,
					ProblemType: "required",
					Message:     msg,
					ProblemArgs: map[string]any{"property": name},
				})
			}
		}
	}
}

func evaluateAdditionalProperties(node *Node, schema *Schema, order []string, seen map[string]*Node, matched map[string]bool, result *ValidationResult, collector *SchemaCollector, options Options) {
	allow := schema.AdditionalProperties
	if allow == nil && options.DisableAdditionalProperties {
		falseVal := false
		allow = &Schema{Boolean: &falseVal}
	}
	if allow == nil {
		return
	}

	for _, name := range order {
		if matched[name] {
			continue
		}
		prop := seen[name]

		if allow.Boolean != nil {
			if !*allow.Boolean {
				result.AddProblem(Problem{
					Location:    Location{prop.Key.Offset, prop.Key.Length},
					Severity:    SeverityWarning,
					ProblemType: "additionalProperties",
					Message:     "Property " + name + " is not allowed",
					ProblemArgs: map[string]any{"property": name},
				})
			}
			continue
		}

		if prop.Value != nil {
			validate(prop, allow, allow, result, collector, options)
		}
	}
}

// compilePatterns lazily compiles every patternProperties key once per
// schema node and caches the result on compiledPatterns.
func (s *Schema) compilePatterns() {
	if s.PatternProperties == nil {
		return
	}
	if s.compiledPatterns == nil {
		s.compiledPatterns = make(map[string]*regexp.Regexp, len(*s.PatternProperties))
	}
	for pattern := range *s.PatternProperties {
		if _, ok := s.compiledPatterns[pattern]; ok {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		s.compiledPatterns[pattern] = re
	}
}

func (s *Schema) compiledPatternFor(pattern string) *regexp.Regexp {
	if s.compiledPatterns == nil {
		return nil
	}
	return s.compiledPatterns[pattern]
}
