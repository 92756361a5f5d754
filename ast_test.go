package yamlls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeEndAndContains(t *testing.T) {
	n := &Node{Offset: 5, Length: 3}
	assert.Equal(t, 8, n.End())
	assert.False(t, n.Contains(4, false))
	assert.True(t, n.Contains(5, false))
	assert.True(t, n.Contains(7, false))
	assert.False(t, n.Contains(8, false))
}

func TestFindNodeAtOffsetRightBoundInclusive(t *testing.T) {
	root := parseDoc(t, "name: Ada\n")
	nameProp := root.Property("name")
	require.NotNil(t, nameProp)

	end := nameProp.Value.End()
	assert.Same(t, nameProp.Value, FindNodeAtOffset(root, end, true))
	assert.NotSame(t, nameProp.Value, FindNodeAtOffset(root, end, false))
}

func TestGetValueReifiesEveryKind(t *testing.T) {
	root := parseDoc(t, "name: Ada\nage: 30\nactive: true\ntags:\n  - a\n  - b\nnote: null\n")
	v, ok := root.GetValue().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", v["name"])
	assert.Equal(t, int64(30), v["age"])
	assert.Equal(t, true, v["active"])
	assert.Equal(t, []any{"a", "b"}, v["tags"])
	assert.Nil(t, v["note"])
}

func TestPropertiesAndPropertyLookup(t *testing.T) {
	root := parseDoc(t, "name: Ada\nage: 30\n")
	props := root.Properties()
	require.Len(t, props, 2)
	assert.Nil(t, root.Property("missing"))
	assert.NotNil(t, root.Property("age"))
}

func TestItemsReturnsArrayChildren(t *testing.T) {
	root := parseDoc(t, "- a\n- b\n- c\n")
	items := root.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].StrValue)
}

func TestItemsNilForNonArray(t *testing.T) {
	root := parseDoc(t, "name: Ada\n")
	assert.Nil(t, root.Items())
	assert.Nil(t, root.Property("name").Value.Properties())
}

func TestGetNodeFromOffsetEndInclusivePrefersTightestSpan(t *testing.T) {
	root := parseDoc(t, "outer:\n  inner: value\n")
	outerProp := root.Property("outer")
	require.NotNil(t, outerProp)
	innerProp := outerProp.Value.Property("inner")
	require.NotNil(t, innerProp)

	found := GetNodeFromOffsetEndInclusive(root, innerProp.Value.Offset)
	assert.Same(t, innerProp.Value, found)
}

func TestFindNodeAtOffsetOutsideRootIsNil(t *testing.T) {
	root := parseDoc(t, "name: Ada\n")
	assert.Nil(t, FindNodeAtOffset(root, root.End()+100, true))
}
