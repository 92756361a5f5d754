package yamlls

// evaluateAllOf validates node against every branch and merges all of
// their problems into result; there is no ranking since every branch
// must hold simultaneously.
func evaluateAllOf(node *Node, schema *Schema, originalSchema *Schema, result *ValidationResult, collector *SchemaCollector, options Options) {
	for _, branch := range schema.AllOf {
		if branch == nil {
			continue
		}
		validate(node, branch, branch, result, collector, options)
	}
}

// evaluateAnyOf requires at least one branch to match; testAlternatives
// picks the best-ranked branch and folds its counters/problems in.
func evaluateAnyOf(node *Node, schema *Schema, originalSchema *Schema, result *ValidationResult, collector *SchemaCollector, options Options) {
	best, _ := testAlternatives(node, schema.AnyOf, false, collector, options)
	if best == nil {
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "anyOf",
			Message:     "Value does not match anyOf schema",
		})
		return
	}
	result.Merge(best)
}

// evaluateOneOf requires exactly one branch to match. When more than one
// matches and they are not all equivalently "empty" matches (i.e. they
// actually differ in what they matched), a single extra diagnostic at
// the node start flags the ambiguity — unless isKubernetes suppresses it
// per spec 4.E / 7 (host UX choice).
func evaluateOneOf(node *Node, schema *Schema, originalSchema *Schema, result *ValidationResult, collector *SchemaCollector, options Options) {
	best, matchCount := testAlternatives(node, schema.OneOf, true, collector, options)
	if best == nil {
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "oneOf",
			Message:     "Value does not match the oneOf schema",
		})
		return
	}
	result.Merge(best)

	if matchCount > 1 && best.PropertiesMatches > 0 && !options.IsKubernetes {
		result.AddProblem(Problem{
			Location:    Location{node.Offset, 1},
			Severity:    SeverityWarning,
			ProblemType: "oneOfMultipleMatches",
			Message:     "Matches multiple schemas when only one must validate",
		})
	}
}

// evaluateNot inverts a single schema: node is valid only when branch
// fails. The node/branch pair is recorded into collector with Inverted
// set so hover/completion can tell a caller "this schema describes what
// must not match" rather than silently dropping the not-branch from the
// match set.
func evaluateNot(node *Node, schema *Schema, originalSchema *Schema, collector *SchemaCollector, result *ValidationResult, options Options) {
	sub := NewValidationResult()
	subCollector := collector.newSub()
	validate(node, schema.Not, schema.Not, sub, subCollector, options)
	collector.merge(subCollector)
	collector.Add(node, schema.Not, true)
	if !sub.HasProblems() {
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "not",
			Message:     "Value should not match the not schema",
		})
	}
}

// evaluateConditional evaluates if in a discarded sub-result (its
// problems never surface — it is a test, not a constraint) and applies
// then/else based on the outcome, merging whichever branch ran.
func evaluateConditional(node *Node, schema *Schema, originalSchema *Schema, result *ValidationResult, collector *SchemaCollector, options Options) {
	if schema.If == nil {
		return
	}

	ifResult := NewValidationResult()
	validate(node, schema.If, schema.If, ifResult, collector.newSub(), options)

	if !ifResult.HasProblems() {
		if schema.Then != nil {
			validate(node, schema.Then, schema.Then, result, collector, options)
		}
		return
	}
	if schema.Else != nil {
		validate(node, schema.Else, schema.Else, result, collector, options)
	}
}

// testAlternatives validates node against each branch in a fresh
// sub-result/sub-collector, ranks the branches with the Kubernetes or
// generic comparator per spec 4.E, and returns the winning sub-result
// plus how many branches validated without problems (every branch counts
// when CallFromAutoComplete is set); oneOf uses that count to detect
// ambiguity. Ties merge their sub-collectors and enum values into the
// running best, and in generic mode also merge similar warnings so
// multiple branches contribute combined source attribution.
func testAlternatives(node *Node, branches []*Schema, maxOneMatch bool, collector *SchemaCollector, options Options) (*ValidationResult, int) {
	var best *ValidationResult
	var bestSub *SchemaCollector
	var bestSchema *Schema
	matchCount := 0

	for _, branch := range branches {
		if branch == nil {
			continue
		}
		sub := NewValidationResult()
		subCollector := collector.newSub()
		validate(node, branch, branch, sub, subCollector, options)

		acceptable := !sub.HasProblems() || options.CallFromAutoComplete
		if acceptable {
			matchCount++
		}

		if best == nil {
			best, bestSub, bestSchema = sub, subCollector, branch
			continue
		}

		cmp := compareAlternatives(sub, best, options.IsKubernetes)
		switch {
		case cmp < 0:
			best, bestSub, bestSchema = sub, subCollector, branch
		case cmp == 0:
			bestSub.merge(subCollector)
			mergedEnums := append(best.EnumValues, sub.EnumValues...)
			if !options.IsKubernetes {
				best.mergeSimilarWarnings(sub)
			}
			if !options.IsKubernetes && preferChallenger(node, bestSchema, branch) {
				sub.EnumValues = mergedEnums
				best, bestSchema = sub, branch
			} else {
				best.EnumValues = mergedEnums
			}
		}
	}

	if best != nil {
		collector.merge(bestSub)
	}
	return best, matchCount
}

// preferChallenger applies the generic-mode oneOf tie-break: when the
// current best's schema.type is "object" but the node itself isn't an
// object, the other (challenger) branch is the more plausible match.
// A null node never triggers the override — spec 4.E excludes it
// alongside object nodes, since "not an object" alone would otherwise
// also catch a legitimate null value tied against an object-typed arm.
func preferChallenger(node *Node, bestSchema, challengerSchema *Schema) bool {
	if node.Kind == KindObject || node.Kind == KindNull {
		return false
	}
	return schemaTypeIs(bestSchema, "object") && !schemaTypeIs(challengerSchema, "object")
}

func schemaTypeIs(schema *Schema, want string) bool {
	if schema == nil {
		return false
	}
	for _, t := range schema.Type {
		if t == want {
			return true
		}
	}
	return false
}

// compareAlternatives returns <0 if a ranks better than b, 0 on a tie,
// >0 if b ranks better, using whichever total order spec 4.E specifies
// for the active mode.
func compareAlternatives(a, b *ValidationResult, isKubernetes bool) int {
	if isKubernetes {
		if d := -cmpInt(a.PropertiesMatches, b.PropertiesMatches); d != 0 {
			return d
		}
		if d := -cmpBool(a.EnumValueMatch, b.EnumValueMatch); d != 0 {
			return d
		}
		if d := -cmpInt(a.PrimaryValueMatches, b.PrimaryValueMatches); d != 0 {
			return d
		}
		if d := -cmpInt(a.PropertiesValueMatches, b.PropertiesValueMatches); d != 0 {
			return d
		}
		if d := cmpBool(a.HasProblems(), b.HasProblems()); d != 0 {
			return d
		}
		return -cmpInt(a.PropertiesMatches, b.PropertiesMatches)
	}

	if d := cmpBool(a.HasProblems(), b.HasProblems()); d != 0 {
		return d
	}
	if d := -cmpBool(a.EnumValueMatch, b.EnumValueMatch); d != 0 {
		return d
	}
	if d := -cmpInt(a.PropertiesValueMatches, b.PropertiesValueMatches); d != 0 {
		return d
	}
	if d := -cmpInt(a.PrimaryValueMatches, b.PrimaryValueMatches); d != 0 {
		return d
	}
	return -cmpInt(a.PropertiesMatches, b.PropertiesMatches)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}
