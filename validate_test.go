package yamlls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileSchema(t *testing.T, registry *Registry, schemaJSON string) *Schema {
	t.Helper()
	schema, err := registry.Compile([]byte(schemaJSON))
	require.NoError(t, err)
	return schema
}

func TestValidateRequiredAndType(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		},
		"required": ["name", "age"]
	}`)

	root := parseDoc(t, "name: Ada\n")
	result := Validate(root, schema, Options{})
	require.True(t, result.HasProblems())

	var sawRequired bool
	for _, p := range result.Problems {
		if p.ProblemType == "required" {
			sawRequired = true
		}
	}
	assert.True(t, sawRequired)
}

func TestValidateValidDocumentHasNoProblems(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 2},
			"age": {"type": "integer", "minimum": 0}
		},
		"required": ["name", "age"]
	}`)

	root := parseDoc(t, "name: Ada\nage: 30\n")
	result := Validate(root, schema, Options{})
	assert.False(t, result.HasProblems())
}

func TestValidateNumericConstraints(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"type": "integer",
		"minimum": 0,
		"maximum": 10,
		"multipleOf": 2
	}`)

	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{"in range, even", "4\n", true},
		{"below minimum", "-2\n", false},
		{"above maximum", "12\n", false},
		{"not a multiple", "3\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseDoc(t, tt.text)
			result := Validate(root, schema, Options{})
			assert.Equal(t, tt.valid, !result.HasProblems())
		})
	}
}

func TestValidateEnumAndConst(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"properties": {
			"color": {"enum": ["red", "green", "blue"]},
			"kind": {"const": "widget"}
		}
	}`)

	ok := parseDoc(t, "color: green\nkind: widget\n")
	assert.False(t, Validate(ok, schema, Options{}).HasProblems())

	bad := parseDoc(t, "color: purple\nkind: gadget\n")
	result := Validate(bad, schema, Options{})
	require.True(t, result.HasProblems())

	types := map[string]bool{}
	for _, p := range result.Problems {
		types[p.ProblemType] = true
	}
	assert.True(t, types["enum"])
	assert.True(t, types["const"])
}

func TestValidateOneOfExactlyOneMatch(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"oneOf": [
			{"type": "string"},
			{"type": "integer", "minimum": 0}
		]
	}`)

	assert.False(t, Validate(parseDoc(t, "\"hello\"\n"), schema, Options{}).HasProblems())
	assert.False(t, Validate(parseDoc(t, "5\n"), schema, Options{}).HasProblems())
}

func TestValidateArrayConstraints(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"type": "array",
		"items": {"type": "string"},
		"minItems": 1,
		"uniqueItems": true
	}`)

	assert.False(t, Validate(parseDoc(t, "- a\n- b\n"), schema, Options{}).HasProblems())
	assert.True(t, Validate(parseDoc(t, "- a\n- a\n"), schema, Options{}).HasProblems())
	assert.True(t, Validate(parseDoc(t, "[]\n"), schema, Options{}).HasProblems())
}

func TestValidateSchemaFalseAlwaysFails(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `false`)
	result := Validate(parseDoc(t, "anything\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "schemaFalse", result.Problems[0].ProblemType)
}

func TestValidateDeprecatedEmitsWarning(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"properties": {
			"old": {"deprecationMessage": "use new instead"}
		}
	}`)
	result := Validate(parseDoc(t, "old: 1\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "deprecated", result.Problems[0].ProblemType)
	assert.Equal(t, SeverityWarning, result.Problems[0].Severity)
}
