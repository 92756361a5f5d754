package yamlls

// GetMatchingSchemas runs the validator over node against schema with a
// focus filter, and returns every {node, schema, inverted} triple whose
// node contains focusOffset (spec 4.G). Completion, hover, and symbol
// façades build their proposals from this list; the core does no
// rendering itself.
//
// exclude, when non-nil, is a node to skip — used by completion to drop
// the very property value being typed from its own match set, so a
// partially-typed value doesn't constrain its own suggestions.
// fromAutoComplete threads through to Options.CallFromAutoComplete, which
// loosens enum/oneOf matching (a partial string prefix still counts as a
// candidate match) appropriate only mid-edit.
func GetMatchingSchemas(node *Node, schema *Schema, focusOffset int, exclude *Node, fromAutoComplete bool) []SchemaMatch {
	if node == nil || schema == nil {
		return nil
	}
	collector := NewFocusedSchemaCollector(focusOffset, exclude)
	result := NewValidationResult()
	options := Options{CallFromAutoComplete: fromAutoComplete}
	validate(node, schema, schema, result, collector, options)
	return collector.Matches()
}
