package yamlls

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchemaJSON = `{
	"title": "Person",
	"description": "A named individual",
	"type": "object",
	"properties": {
		"name": {"type": "string", "minLength": 1, "description": "Given name"},
		"age": {"type": "integer", "minimum": 0}
	},
	"required": ["name"]
}`

func newConfiguredService(t *testing.T, schemaJSON string, fileMatch ...string) *Service {
	t.Helper()
	svc := NewService()
	if len(fileMatch) == 0 {
		fileMatch = []string{"*.yaml"}
	}
	svc.Configure(Settings{
		Validate: true, Hover: true, Completion: true,
		Schemas: []SchemaAssociation{
			{URI: "https://example.com/person.json", FileMatch: fileMatch, Priority: 10, Schema: []byte(schemaJSON)},
		},
	})
	return svc
}

func TestServiceDoValidationReportsRequired(t *testing.T) {
	svc := newConfiguredService(t, personSchemaJSON)
	diags := svc.DoValidation("doc.yaml", "age: 30\n", false)
	require.NotEmpty(t, diags)
	var sawRequired bool
	for _, d := range diags {
		if d.ProblemType == "required" {
			sawRequired = true
		}
	}
	assert.True(t, sawRequired)
}

func TestServiceDoValidationCleanDocumentHasNoDiagnostics(t *testing.T) {
	svc := newConfiguredService(t, personSchemaJSON)
	diags := svc.DoValidation("doc.yaml", "name: Ada\nage: 30\n", false)
	assert.Empty(t, diags)
}

func TestServiceDoValidationDisabledBySettings(t *testing.T) {
	svc := NewService()
	svc.Configure(Settings{Validate: false})
	diags := svc.DoValidation("doc.yaml", "[unterminated\n", false)
	assert.Empty(t, diags)
}

func TestServiceDoValidationReportsYAMLParseError(t *testing.T) {
	svc := newConfiguredService(t, personSchemaJSON)
	diags := svc.DoValidation("doc.yaml", "name: [unterminated\n", false)
	require.NotEmpty(t, diags)
	assert.Equal(t, "YAML", diags[0].Source)
	assert.Equal(t, DiagnosticError, diags[0].Severity)
}

func TestServiceDoCompleteProposesPropertyNames(t *testing.T) {
	svc := newConfiguredService(t, personSchemaJSON)
	list := svc.DoComplete("doc.yaml", "name: Ada\n", Position{Line: 1, Character: 0}, false)
	labels := map[string]bool{}
	for _, item := range list.Items {
		labels[item.Label] = true
	}
	assert.True(t, labels["name"])
	assert.True(t, labels["age"])
}

func TestServiceDoCompleteDisabledBySettings(t *testing.T) {
	svc := newConfiguredService(t, personSchemaJSON)
	svc.settings.Completion = false
	list := svc.DoComplete("doc.yaml", "name: Ada\n", Position{Line: 1, Character: 0}, false)
	assert.Empty(t, list.Items)
}

func TestServiceDoHoverReturnsSchemaDescription(t *testing.T) {
	svc := newConfiguredService(t, personSchemaJSON)
	hover := svc.DoHover("doc.yaml", "name: Ada\nage: 30\n", Position{Line: 0, Character: 0})
	require.NotNil(t, hover)
	assert.Contains(t, hover.Contents, "Person")
}

func TestServiceDoHoverNilWhenNoSchemaMatches(t *testing.T) {
	svc := NewService()
	hover := svc.DoHover("doc.yaml", "name: Ada\n", Position{Line: 0, Character: 0})
	assert.Nil(t, hover)
}

func TestServiceFindDocumentSymbols(t *testing.T) {
	svc := NewService()
	symbols := svc.FindDocumentSymbols("doc.yaml", "name: Ada\nage: 30\n")
	require.Len(t, symbols, 2)
	assert.Equal(t, "name", symbols[0].Name)
	assert.Equal(t, SymbolKindString, symbols[0].Kind)
	assert.Equal(t, "age", symbols[1].Name)
	assert.Equal(t, SymbolKindNumber, symbols[1].Kind)
}

func TestFlattenSymbolsWalksChildren(t *testing.T) {
	tree := []Symbol{
		{Name: "root", Children: []Symbol{
			{Name: "child1"},
			{Name: "child2", Children: []Symbol{{Name: "grandchild"}}},
		}},
	}
	flat := FlattenSymbols(tree)
	var names []string
	for _, s := range flat {
		names = append(names, s.Name)
		assert.Nil(t, s.Children)
	}
	assert.Equal(t, []string{"root", "child1", "child2", "grandchild"}, names)
}

func TestServiceGetCodeLensUsesPropertyDescriptions(t *testing.T) {
	svc := newConfiguredService(t, personSchemaJSON)
	lenses := svc.GetCodeLens("doc.yaml", "name: Ada\nage: 30\n")
	require.NotEmpty(t, lenses)
	assert.Equal(t, "Given name", lenses[0].Title)
}

func TestServiceResolveCodeLensIsIdentity(t *testing.T) {
	svc := NewService()
	lens := CodeLens{Title: "already resolved"}
	assert.Equal(t, lens, svc.ResolveCodeLens(lens))
}

func TestServiceAddAndDeleteSchema(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.AddSchema("person.json", []byte(personSchemaJSON)))

	svc.DeleteSchema("person.json")
	err := svc.ModifySchemaContent("person.json", nil, "x", nil)
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestServiceModifySchemaContentSetsNestedProperty(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.AddSchema("person.json", []byte(personSchemaJSON)))

	require.NoError(t, svc.ModifySchemaContent("person.json", nil, "active", &Schema{Type: []string{"boolean"}}))

	svc.registry.mu.RLock()
	schema := svc.registry.schemas["person.json"]
	svc.registry.mu.RUnlock()
	require.NotNil(t, schema.Properties)
	active, ok := (*schema.Properties)["active"]
	require.True(t, ok)
	assert.Equal(t, SchemaType{"boolean"}, active.Type)
}

func TestServiceModifySchemaContentUnknownPathIsInternalError(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.AddSchema("person.json", []byte(personSchemaJSON)))

	err := svc.ModifySchemaContent("person.json", []string{"nonexistent"}, "x", nil)
	require.Error(t, err)
	var internalErr *InternalError
	require.True(t, errors.As(err, &internalErr))
	assert.Equal(t, "navigateSchemaPath", internalErr.Op)
}

func TestServiceDeleteSchemaContentRemovesProperty(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.AddSchema("person.json", []byte(personSchemaJSON)))

	err := svc.DeleteSchemaContent("person.json", nil, "age")
	require.NoError(t, err)

	svc.registry.mu.RLock()
	schema := svc.registry.schemas["person.json"]
	svc.registry.mu.RUnlock()
	_, stillThere := (*schema.Properties)["age"]
	assert.False(t, stillThere)
}

func TestServiceDeleteSchemasWhole(t *testing.T) {
	svc := NewService()
	require.NoError(t, svc.AddSchema("a.json", []byte(`{"type":"string"}`)))
	require.NoError(t, svc.AddSchema("b.json", []byte(`{"type":"string"}`)))

	svc.DeleteSchemasWhole([]string{"a.json", "b.json"})

	err := svc.ModifySchemaContent("a.json", nil, "x", nil)
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestServiceRegisterCustomSchemaProvider(t *testing.T) {
	svc := NewService()
	called := false
	svc.RegisterCustomSchemaProvider(func(uri string) ([]string, error) {
		called = true
		return nil, nil
	})
	svc.DoValidation("custom.yaml", "name: Ada\n", false)
	assert.True(t, called)
}

func TestDocAtOffsetReturnsLastDocWhenNoneContainsOffset(t *testing.T) {
	doc := parseDoc(t, "name: Ada\n")
	assert.Same(t, doc, docAtOffset([]*Node{doc}, 9999))
	assert.Nil(t, docAtOffset(nil, 0))
}
