package yamlls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFollowsLocalDefsRef(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"type": "object",
		"properties": {
			"address": {"$ref": "#/definitions/address"}
		},
		"definitions": {
			"address": {"type": "object", "required": ["city"]}
		}
	}`)

	assert.False(t, Validate(parseDoc(t, "address:\n  city: Springfield\n"), schema, Options{}).HasProblems())

	result := Validate(parseDoc(t, "address:\n  street: Elm St\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "required", result.Problems[0].ProblemType)
}

func TestValidateFollowsExternalRef(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Compile([]byte(`{
		"$id": "https://example.com/address.json",
		"type": "object",
		"required": ["city"]
	}`))
	require.NoError(t, err)

	schema := compileSchema(t, registry, `{
		"type": "object",
		"properties": {
			"home": {"$ref": "https://example.com/address.json"}
		}
	}`)

	assert.False(t, Validate(parseDoc(t, "home:\n  city: Springfield\n"), schema, Options{}).HasProblems())

	result := Validate(parseDoc(t, "home:\n  street: Elm St\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "required", result.Problems[0].ProblemType)
}

func TestValidateUnresolvedRefWarnsButDoesNotPanic(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"type": "object",
		"properties": {
			"address": {"$ref": "https://example.com/does-not-exist.json"}
		}
	}`)

	result := Validate(parseDoc(t, "address:\n  city: Springfield\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "unresolvedRef", result.Problems[0].ProblemType)
	assert.Equal(t, SeverityWarning, result.Problems[0].Severity)
}

func TestValidateKeepsOriginalSchemaKeywordsAcrossRefExpansion(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"properties": {
			"old": {"$ref": "#/definitions/oldAlias", "deprecationMessage": "use new instead"}
		},
		"definitions": {
			"oldAlias": {"type": "string"}
		}
	}`)

	result := Validate(parseDoc(t, "old: x\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "deprecated", result.Problems[0].ProblemType)
}

func TestValidateRefIntoTupleItems(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"type": "array",
		"items": [
			{"type": "string"},
			{"$ref": "#/items/0"}
		]
	}`)

	assert.False(t, Validate(parseDoc(t, "- a\n- b\n"), schema, Options{}).HasProblems())
	assert.True(t, Validate(parseDoc(t, "- a\n- 5\n"), schema, Options{}).HasProblems())
}

func TestValidateRefIntoPropertyDependency(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"dependencies": {
			"credit_card": {"required": ["billing_address"]}
		},
		"properties": {
			"extra": {"$ref": "#/dependencies/credit_card"}
		}
	}`)

	result := Validate(parseDoc(t, "extra: {}\n"), schema, Options{})
	require.True(t, result.HasProblems())
	assert.Equal(t, "required", result.Problems[0].ProblemType)
}
