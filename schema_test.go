package yamlls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaExclusiveMinimumBooleanFormPromotesMinimum(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{"minimum": 5, "exclusiveMinimum": true}`)

	require.Nil(t, schema.Minimum)
	require.NotNil(t, schema.ExclusiveMinimum)
	assert.Equal(t, "5", FormatRat(schema.ExclusiveMinimum))

	assert.True(t, Validate(parseDoc(t, "5\n"), schema, Options{}).HasProblems())
	assert.False(t, Validate(parseDoc(t, "6\n"), schema, Options{}).HasProblems())
}

func TestSchemaExclusiveMinimumBooleanFalseLeavesMinimumInclusive(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{"minimum": 5, "exclusiveMinimum": false}`)

	require.Nil(t, schema.ExclusiveMinimum)
	require.NotNil(t, schema.Minimum)
	assert.False(t, Validate(parseDoc(t, "5\n"), schema, Options{}).HasProblems())
}

func TestSchemaExclusiveMaximumBooleanFormPromotesMaximum(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{"maximum": 10, "exclusiveMaximum": true}`)

	require.Nil(t, schema.Maximum)
	require.NotNil(t, schema.ExclusiveMaximum)

	assert.True(t, Validate(parseDoc(t, "10\n"), schema, Options{}).HasProblems())
	assert.False(t, Validate(parseDoc(t, "9\n"), schema, Options{}).HasProblems())
}

func TestSchemaExclusiveMinimumNumericFormStillWorks(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{"exclusiveMinimum": 5}`)

	require.NotNil(t, schema.ExclusiveMinimum)
	assert.Nil(t, schema.Minimum)
	assert.True(t, Validate(parseDoc(t, "5\n"), schema, Options{}).HasProblems())
	assert.False(t, Validate(parseDoc(t, "6\n"), schema, Options{}).HasProblems())
}
