package yamlls

import (
	"testing"

	"github.com/goccy/go-yaml/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, text string) *Node {
	t.Helper()
	file, err := parser.ParseBytes([]byte(text), 0)
	require.NoError(t, err)
	require.NotEmpty(t, file.Docs)
	node, _, err := Convert(file.Docs[0], text, ConvertOptions{})
	require.NoError(t, err)
	return node
}

func TestConvertScalarKinds(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind Kind
	}{
		{"string", "value: hello\n", KindString},
		{"integer", "value: 42\n", KindNumber},
		{"float", "value: 4.2\n", KindNumber},
		{"bool true", "value: true\n", KindBoolean},
		{"bool yes (1.1 extended)", "value: yes\n", KindBoolean},
		{"null tilde", "value: ~\n", KindNull},
		{"null explicit", "value: null\n", KindNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseDoc(t, tt.text)
			require.Equal(t, KindObject, root.Kind)
			prop := root.Property("value")
			require.NotNil(t, prop)
			assert.Equal(t, tt.kind, prop.Value.Kind)
		})
	}
}

func TestConvertObjectPreservesOrder(t *testing.T) {
	root := parseDoc(t, "b: 1\na: 2\nc: 3\n")
	require.Equal(t, KindObject, root.Kind)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "b", root.Children[0].Key.StrValue)
	assert.Equal(t, "a", root.Children[1].Key.StrValue)
	assert.Equal(t, "c", root.Children[2].Key.StrValue)
}

func TestConvertSequence(t *testing.T) {
	root := parseDoc(t, "items:\n  - one\n  - two\n")
	prop := root.Property("items")
	require.NotNil(t, prop)
	require.Equal(t, KindArray, prop.Value.Kind)
	assert.Len(t, prop.Value.Items(), 2)
	assert.Equal(t, "one", prop.Value.Items()[0].StrValue)
}

func TestConvertAnchorAlias(t *testing.T) {
	text := "base: &b\n  x: 1\nother: *b\n"
	file, err := parser.ParseBytes([]byte(text), 0)
	require.NoError(t, err)
	root, anchors, err := Convert(file.Docs[0], text, ConvertOptions{})
	require.NoError(t, err)
	require.Contains(t, anchors, "b")

	other := root.Property("other")
	require.NotNil(t, other)
	// Aliases resolve to their anchor's value by default (PreserveAliasSpans=false).
	assert.Equal(t, KindObject, other.Value.Kind)
	assert.NotNil(t, other.Value.Property("x"))
}

func TestConvertEmptyDocumentReturnsNil(t *testing.T) {
	node, anchors, err := Convert(nil, "", ConvertOptions{})
	assert.Nil(t, node)
	assert.Nil(t, anchors)
	assert.NoError(t, err)
}

func TestConvertOffsetsCoverWholeNode(t *testing.T) {
	text := "name: Ada\n"
	root := parseDoc(t, text)
	prop := root.Property("name")
	require.NotNil(t, prop)
	assert.Equal(t, "Ada", text[prop.Value.Offset:prop.Value.End()])
}
