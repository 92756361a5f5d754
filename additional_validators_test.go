package yamlls

import (
	"testing"

	"github.com/goccy/go-yaml/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// convertWithAnchors parses text and converts it, returning both the root
// node and the anchor map Convert derives, for additional-validator tests
// that need the real anchors rather than a reconstruction.
func convertWithAnchors(t *testing.T, text string) (*Node, map[string]*Node) {
	t.Helper()
	file, err := parser.ParseBytes([]byte(text), 0)
	require.NoError(t, err)
	require.NotEmpty(t, file.Docs)
	root, anchors, err := Convert(file.Docs[0], text, ConvertOptions{})
	require.NoError(t, err)
	return root, anchors
}

func runAdditionalValidators(t *testing.T, text string, settings AdditionalValidatorSettings) []Diagnostic {
	t.Helper()
	root, anchors := convertWithAnchors(t, text)
	lines := NewLineCounter(text)
	return RunAdditionalValidators(root, anchors, lines, settings)
}

func TestCheckFlowStyleForbidsFlowMaps(t *testing.T) {
	diags := runAdditionalValidators(t, "obj: {a: 1, b: 2}\n", AdditionalValidatorSettings{ForbidFlowMaps: true})
	require.Len(t, diags, 1)
	assert.Equal(t, "flowStyle", diags[0].ProblemType)
}

func TestCheckFlowStyleForbidsFlowSequences(t *testing.T) {
	diags := runAdditionalValidators(t, "items: [1, 2, 3]\n", AdditionalValidatorSettings{ForbidFlowSeqs: true})
	require.Len(t, diags, 1)
	assert.Equal(t, "flowStyle", diags[0].ProblemType)
}

func TestCheckFlowStyleAllowsBlockStyleWhenFlowForbidden(t *testing.T) {
	diags := runAdditionalValidators(t, "obj:\n  a: 1\n", AdditionalValidatorSettings{ForbidFlowMaps: true, ForbidFlowSeqs: true})
	assert.Empty(t, diags)
}

func TestCheckUnusedAnchorReportsUndereferencedAnchor(t *testing.T) {
	root, anchors := convertWithAnchors(t, "base: &b\n  x: 1\nother: 2\n")
	require.Contains(t, anchors, "b")

	lines := NewLineCounter("base: &b\n  x: 1\nother: 2\n")
	diags := RunAdditionalValidators(root, anchors, lines, AdditionalValidatorSettings{})
	require.Len(t, diags, 1)
	assert.Equal(t, "unusedAnchor", diags[0].ProblemType)
	assert.Contains(t, diags[0].Tags, TagUnnecessary)
}

func TestCheckUnusedAnchorSkipsReferencedAnchor(t *testing.T) {
	diags := runAdditionalValidators(t, "base: &b\n  x: 1\nother: *b\n", AdditionalValidatorSettings{})
	assert.Empty(t, diags)
}

func TestCheckUnusedAnchorReportsUnresolvedAlias(t *testing.T) {
	diags := runAdditionalValidators(t, "other: *nonexistent\n", AdditionalValidatorSettings{})
	require.Len(t, diags, 1)
	assert.Equal(t, "unresolvedAlias", diags[0].ProblemType)
	assert.Equal(t, DiagnosticError, diags[0].Severity)
}

func TestCheckUnusedAnchorStillReportsUnusedAnchorAlongsideUnresolvedAlias(t *testing.T) {
	diags := runAdditionalValidators(t, "base: &b\n  x: 1\nother: *nonexistent\n", AdditionalValidatorSettings{})
	require.Len(t, diags, 2)
	var sawUnused, sawUnresolved bool
	for _, d := range diags {
		switch d.ProblemType {
		case "unusedAnchor":
			sawUnused = true
		case "unresolvedAlias":
			sawUnresolved = true
		}
	}
	assert.True(t, sawUnused)
	assert.True(t, sawUnresolved)
}

func TestCheckKeyOrderReportsOutOfOrderKey(t *testing.T) {
	diags := runAdditionalValidators(t, "b: 1\na: 2\n", AdditionalValidatorSettings{EnforceKeyOrder: true})
	require.Len(t, diags, 1)
	assert.Equal(t, "keyOrder", diags[0].ProblemType)
}

func TestCheckKeyOrderIgnoredWhenDisabled(t *testing.T) {
	diags := runAdditionalValidators(t, "b: 1\na: 2\n", AdditionalValidatorSettings{})
	assert.Empty(t, diags)
}
