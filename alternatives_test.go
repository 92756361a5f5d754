package yamlls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAllOfMergesEveryBranch(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"allOf": [
			{"type": "object", "required": ["name"]},
			{"type": "object", "required": ["age"]}
		]
	}`)

	assert.False(t, Validate(parseDoc(t, "name: Ada\nage: 30\n"), schema, Options{}).HasProblems())

	result := Validate(parseDoc(t, "name: Ada\n"), schema, Options{})
	require.True(t, result.HasProblems())
	var sawRequired bool
	for _, p := range result.Problems {
		if p.ProblemType == "required" {
			sawRequired = true
		}
	}
	assert.True(t, sawRequired)
}

func TestValidateAnyOfRequiresAtLeastOneMatch(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"anyOf": [
			{"type": "string", "minLength": 5},
			{"type": "integer", "minimum": 100}
		]
	}`)

	assert.False(t, Validate(parseDoc(t, "\"hello world\"\n"), schema, Options{}).HasProblems())
	assert.False(t, Validate(parseDoc(t, "150\n"), schema, Options{}).HasProblems())

	// No branch matches: the best-ranked branch (the string one, whose
	// type matched) supplies the reported problem.
	result := Validate(parseDoc(t, "\"hi\"\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "minLength", result.Problems[0].ProblemType)
}

func TestValidateOneOfNoMatchReportsBestBranchProblem(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"oneOf": [
			{"type": "string"},
			{"type": "integer"}
		]
	}`)

	result := Validate(parseDoc(t, "true\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "type", result.Problems[0].ProblemType)
}

func TestValidateOneOfMultipleMatchesIsFlagged(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"oneOf": [
			{"type": "object", "properties": {"a": {"type": "string"}}, "required": ["a"]},
			{"type": "object", "properties": {"a": {"type": "string"}, "b": {"type": "string"}}, "required": ["a"]}
		]
	}`)

	result := Validate(parseDoc(t, "a: x\n"), schema, Options{})
	var sawAmbiguous bool
	for _, p := range result.Problems {
		if p.ProblemType == "oneOfMultipleMatches" {
			sawAmbiguous = true
		}
	}
	assert.True(t, sawAmbiguous)
}

func TestValidateOneOfMultipleMatchesSuppressedForKubernetes(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"oneOf": [
			{"type": "object", "properties": {"a": {"type": "string"}}, "required": ["a"]},
			{"type": "object", "properties": {"a": {"type": "string"}, "b": {"type": "string"}}, "required": ["a"]}
		]
	}`)

	result := Validate(parseDoc(t, "a: x\n"), schema, Options{IsKubernetes: true})
	for _, p := range result.Problems {
		assert.NotEqual(t, "oneOfMultipleMatches", p.ProblemType)
	}
}

func TestValidateNotRejectsMatchingBranch(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{"not": {"type": "string"}}`)

	assert.False(t, Validate(parseDoc(t, "5\n"), schema, Options{}).HasProblems())

	result := Validate(parseDoc(t, "\"hello\"\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "not", result.Problems[0].ProblemType)
}

func TestValidateConditionalAppliesThenBranch(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"if": {"properties": {"kind": {"const": "widget"}}},
		"then": {"required": ["size"]},
		"else": {"required": ["weight"]}
	}`)

	assert.False(t, Validate(parseDoc(t, "kind: widget\nsize: 3\n"), schema, Options{}).HasProblems())

	result := Validate(parseDoc(t, "kind: widget\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "required", result.Problems[0].ProblemType)
}

func TestValidateConditionalAppliesElseBranch(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"if": {"properties": {"kind": {"const": "widget"}}},
		"then": {"required": ["size"]},
		"else": {"required": ["weight"]}
	}`)

	assert.False(t, Validate(parseDoc(t, "kind: gadget\nweight: 10\n"), schema, Options{}).HasProblems())

	result := Validate(parseDoc(t, "kind: gadget\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "required", result.Problems[0].ProblemType)
}

func TestValidateConditionalWithoutIfIsNoop(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{"then": {"required": ["x"]}}`)
	assert.False(t, Validate(parseDoc(t, "name: web\n"), schema, Options{}).HasProblems())
}

func TestPreferChallengerPrefersNonObjectBranchForNonObjectNode(t *testing.T) {
	objectSchema := &Schema{Type: []string{"object"}}
	stringSchema := &Schema{Type: []string{"string"}}

	node := parseDoc(t, "\"hello\"\n")
	assert.True(t, preferChallenger(node, objectSchema, stringSchema))
	assert.False(t, preferChallenger(node, stringSchema, objectSchema))

	objNode := parseDoc(t, "a: 1\n")
	assert.False(t, preferChallenger(objNode, objectSchema, stringSchema))
}

func TestPreferChallengerNeverOverridesForNullNode(t *testing.T) {
	objectSchema := &Schema{Type: []string{"object"}}
	stringSchema := &Schema{Type: []string{"string"}}

	nullNode := parseDoc(t, "null\n")
	assert.False(t, preferChallenger(nullNode, objectSchema, stringSchema))
}

func TestCompareAlternativesGenericModePrefersFewerProblems(t *testing.T) {
	clean := NewValidationResult()
	dirty := NewValidationResult()
	dirty.AddProblem(Problem{ProblemType: "type"})

	assert.Equal(t, -1, compareAlternatives(clean, dirty, false))
	assert.Equal(t, 1, compareAlternatives(dirty, clean, false))
	assert.Equal(t, 0, compareAlternatives(clean, clean, false))
}

func TestCompareAlternativesKubernetesModePrefersMorePropertyMatches(t *testing.T) {
	few := NewValidationResult()
	few.PropertiesMatches = 1
	many := NewValidationResult()
	many.PropertiesMatches = 3

	assert.Equal(t, -1, compareAlternatives(many, few, true))
	assert.Equal(t, 1, compareAlternatives(few, many, true))
}

func TestTestAlternativesAutoCompleteTieBreak(t *testing.T) {
	branchA := &Schema{Enum: []any{"apple"}}
	branchB := &Schema{Enum: []any{"avocado"}}
	node := parseDoc(t, "\"a\"\n")

	best, matchCount := testAlternatives(node, []*Schema{branchA, branchB}, true, NewSchemaCollector(), Options{CallFromAutoComplete: true})
	require.NotNil(t, best)
	assert.Equal(t, 2, matchCount)
	// Both branches tie (neither has problems, both enum-match by prefix):
	// the first branch stays the winner and the second's enum values are
	// folded in, rather than the later branch silently displacing it.
	assert.Equal(t, []any{"apple", "avocado"}, best.EnumValues)
}

func TestCmpIntAndCmpBool(t *testing.T) {
	assert.Equal(t, -1, cmpInt(1, 2))
	assert.Equal(t, 1, cmpInt(2, 1))
	assert.Equal(t, 0, cmpInt(1, 1))

	assert.Equal(t, -1, cmpBool(false, true))
	assert.Equal(t, 1, cmpBool(true, false))
	assert.Equal(t, 0, cmpBool(true, true))
}
