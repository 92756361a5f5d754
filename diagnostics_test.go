package yamlls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDiagnosticsMapsSeverityAndRange(t *testing.T) {
	registry := NewRegistry()
	schema := compileSchema(t, registry, `{
		"type": "object",
		"properties": {"age": {"type": "integer"}}
	}`)
	text := "age: not-a-number\n"
	node := parseDoc(t, text)
	result := Validate(node, schema, Options{})
	require.True(t, result.HasProblems())

	lines := NewLineCounter(text)
	diagnostics := ToDiagnostics(result, lines)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, DiagnosticWarning, diagnostics[0].Severity)
	assert.Equal(t, 0, diagnostics[0].Range.Start.Line)
}

func TestDedupeDiagnosticsCollapsesDuplicates(t *testing.T) {
	diags := []Diagnostic{
		{Range: DiagnosticRange{Start: DiagnosticPosition{Line: 1, Column: 2}}, Message: "dup"},
		{Range: DiagnosticRange{Start: DiagnosticPosition{Line: 1, Column: 2}}, Message: "dup"},
		{Range: DiagnosticRange{Start: DiagnosticPosition{Line: 1, Column: 2}}, Message: "other"},
	}
	deduped := dedupeDiagnostics(diags)
	assert.Len(t, deduped, 2)
}

func TestSortDiagnosticsOrdersByPositionThenSeverity(t *testing.T) {
	diags := []Diagnostic{
		{Range: DiagnosticRange{Start: DiagnosticPosition{Line: 2, Column: 0}}, Severity: DiagnosticWarning},
		{Range: DiagnosticRange{Start: DiagnosticPosition{Line: 1, Column: 5}}, Severity: DiagnosticWarning},
		{Range: DiagnosticRange{Start: DiagnosticPosition{Line: 1, Column: 0}}, Severity: DiagnosticError},
	}
	sortDiagnostics(diags)
	assert.Equal(t, 1, diags[0].Range.Start.Line)
	assert.Equal(t, DiagnosticError, diags[0].Severity)
	assert.Equal(t, 1, diags[1].Range.Start.Line)
	assert.Equal(t, 5, diags[1].Range.Start.Column)
	assert.Equal(t, 2, diags[2].Range.Start.Line)
}

func TestSeverityToDiagnosticSeverityMapping(t *testing.T) {
	assert.Equal(t, DiagnosticError, SeverityError.diagnosticSeverity())
	assert.Equal(t, DiagnosticWarning, SeverityWarning.diagnosticSeverity())
	assert.Equal(t, DiagnosticInformation, SeverityInformation.diagnosticSeverity())
}
