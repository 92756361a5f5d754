package yamlls

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// validateArray dispatches the array-applicable keywords: items (tuple or
// list form) / additionalItems, contains, uniqueItems, minItems/maxItems.
func validateArray(node *Node, schema *Schema, result *ValidationResult, collector *SchemaCollector, options Options) {
	items := node.Items()

	if len(schema.ItemsTuple) > 0 {
		evaluateTupleItems(node, schema, items, result, collector, options)
	} else if schema.Items != nil {
		evaluateListItems(node, schema, items, result, collector, options)
	}

	if schema.Contains != nil {
		evaluateContains(node, schema, items, result, collector, options)
	}

	if schema.UniqueItems != nil && *schema.UniqueItems {
		evaluateUniqueItems(node, schema, items, result)
	}

	if schema.MaxItems != nil && float64(len(items)) > *schema.MaxItems {
		msg, ok := errorMessageFor(schema, "maxItems")
		if !ok {
			msg = "Array has too many items"
		}
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "maxItems",
			Message:     msg,
			ProblemArgs: map[string]any{"maxItems": *schema.MaxItems},
		})
	}
	if schema.MinItems != nil && float64(len(items)) < *schema.MinItems {
		msg, ok := errorMessageFor(schema, "minItems")
		if !ok {
			msg = "Array has too few items"
		}
		result.AddProblem(Problem{
			Location:    Location{node.Offset, node.Length},
			Severity:    SeverityWarning,
			ProblemType: "minItems",
			Message:     msg,
			ProblemArgs: map[string]any{"minItems": *schema.MinItems},
		})
	}
}

// evaluateTupleItems validates each positional entry of schema.ItemsTuple
// against the array item at the same index, then hands any remaining
// items to additionalItems (the draft-07 "items is an array" form).
func evaluateTupleItems(node *Node, schema *Schema, items []*Node, result *ValidationResult, collector *SchemaCollector, options Options) {
	for i, itemSchema := range schema.ItemsTuple {
		if i >= len(items) || itemSchema == nil {
			continue
		}
		validate(items[i], itemSchema, itemSchema, result, collector, options)
	}

	if schema.AdditionalItems == nil {
		return
	}
	if schema.AdditionalItems.Boolean != nil {
		if !*schema.AdditionalItems.Boolean && len(items) > len(schema.ItemsTuple) {
			result.AddProblem(Problem{
				Location:    Location{node.Offset, node.Length},
				Severity:    SeverityWarning,
				ProblemType: "additionalItems",
				Message:     "Array has too many items",
			})
		}
		return
	}
	for i := len(schema.ItemsTuple); i < len(items); i++ {
		validate(items[i], schema.AdditionalItems, schema.AdditionalItems, result, collector, options)
	}
}

// evaluateListItems validates every array item against the single
// "items" schema (the draft-07 "items is a schema" form).
func evaluateListItems(node *Node, schema *Schema, items []*Node, result *ValidationResult, collector *SchemaCollector, options Options) {
	if schema.Items.Boolean != nil {
		if !*schema.Items.Boolean && len(items) > 0 {
			result.AddProblem(Problem{
				Location:    Location{node.Offset, node.Length},
				Severity:    SeverityWarning,
				ProblemType: "items",
				Message:     "Array must be empty",
			})
		}
		return
	}
	for _, item := range items {
		validate(item, schema.Items, schema.Items, result, collector, options)
	}
}

// evaluateContains requires at least one array item to validate against
// schema.Contains. Draft-07 has no minContains/maxContains — those are
// 2020-12 additions — so a single match suffices.
func evaluateContains(node *Node, schema *Schema, items []*Node, result *ValidationResult, collector *SchemaCollector, options Options) {
	for _, item := range items {
		sub := NewValidationResult()
		validate(item, schema.Contains, schema.Contains, sub, collector.newSub(), options)
		if !sub.HasProblems() {
			return
		}
	}
	msg, ok := errorMessageFor(schema, "contains")
	if !ok {
		msg = "Array does not contain a matching item"
	}
	result.AddProblem(Problem{
		Location:    Location{node.Offset, node.Length},
		Severity:    SeverityWarning,
		ProblemType: "contains",
		Message:     msg,
	})
}

// evaluateUniqueItems reports the index groups of any duplicate array
// elements, comparing by normalized structural value so that objects
// with the same key/value pairs in different orders are treated equal.
func evaluateUniqueItems(node *Node, schema *Schema, items []*Node, result *ValidationResult) {
	if len(items) < 2 {
		return
	}

	seen := make(map[string][]int, len(items))
	for i, item := range items {
		key := normalizeForComparison(item.GetValue())
		seen[key] = append(seen[key], i)
	}

	var duplicateGroups []string
	for _, indices := range seen {
		if len(indices) < 2 {
			continue
		}
		labels := make([]string, len(indices))
		for i, idx := range indices {
			labels[i] = strconv.Itoa(idx + 1)
		}
		duplicateGroups = append(duplicateGroups, "("+strings.Join(labels, ", ")+")")
	}

	if len(duplicateGroups) == 0 {
		return
	}
	slices.Sort(duplicateGroups)
	result.AddProblem(Problem{
		Location:    Location{node.Offset, node.Length},
		Severity:    SeverityWarning,
		ProblemType: "uniqueItems",
		Message:     "Array has duplicate items at index groups: " + strings.Join(duplicateGroups, ", "),
		ProblemArgs: map[string]any{"duplicates": strings.Join(duplicateGroups, ", ")},
	})
}

// normalizeForComparison builds a canonical string form of a GetValue()
// result, sorting object keys so key order never affects equality.
func normalizeForComparison(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return fmt.Sprintf("%t", v)
	case string:
		return fmt.Sprintf("%q", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	case []any:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = normalizeForComparison(elem)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q:%s", k, normalizeForComparison(v[k]))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}
