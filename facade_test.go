package yamlls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMatchingSchemasFiltersByFocusOffset(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "title": "Name"},
			"age": {"type": "integer", "title": "Age"}
		}
	}`)

	root := parseDoc(t, "name: Ada\nage: 30\n")
	nameProp := root.Property("name")
	require.NotNil(t, nameProp)

	matches := GetMatchingSchemas(root, schema, nameProp.Value.Offset, nil, false)
	require.NotEmpty(t, matches)

	var sawAgeSchema bool
	for _, m := range matches {
		if m.Schema != nil && stringOrEmpty(m.Schema.Title) == "Age" {
			sawAgeSchema = true
		}
	}
	assert.False(t, sawAgeSchema)
}

func TestGetMatchingSchemasExcludesNode(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"type": "object",
		"properties": {"name": {"type": "string"}}
	}`)

	root := parseDoc(t, "name: Ada\n")
	nameProp := root.Property("name")
	require.NotNil(t, nameProp)

	matches := GetMatchingSchemas(root, schema, nameProp.Value.Offset, nameProp.Value, false)
	for _, m := range matches {
		assert.NotSame(t, nameProp.Value, m.Node)
	}
}

func TestGetMatchingSchemasNilNodeOrSchemaReturnsNil(t *testing.T) {
	assert.Nil(t, GetMatchingSchemas(nil, &Schema{}, 0, nil, false))
	assert.Nil(t, GetMatchingSchemas(parseDoc(t, "a: 1\n"), nil, 0, nil, false))
}

func TestGetMatchingSchemasMarksInvertedNotBranch(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{"not": {"type": "string"}}`)
	root := parseDoc(t, "5\n")

	matches := GetMatchingSchemas(root, schema, root.Offset, nil, false)
	var sawInverted bool
	for _, m := range matches {
		if m.Inverted {
			sawInverted = true
		}
	}
	assert.True(t, sawInverted)
}

func TestSchemaCollectorMergeAppendsSubMatches(t *testing.T) {
	c := NewSchemaCollector()
	node := parseDoc(t, "a: 1\n")
	sub := c.newSub()
	sub.Add(node, &Schema{}, false)
	c.merge(sub)
	assert.Len(t, c.Matches(), 1)
}

func TestSchemaCollectorNilSafe(t *testing.T) {
	var c *SchemaCollector
	assert.Nil(t, c.Matches())
	assert.NotPanics(t, func() { c.Add(parseDoc(t, "a: 1\n"), &Schema{}, false) })
}
