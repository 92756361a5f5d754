package yamlls

import "sort"

// DiagnosticSeverity mirrors the LSP severity scale (Error=1..Hint=4), one
// above yamlls.Severity (Error=0..Hint=3); diagnosticSeverity converts a
// Severity to it, so the host's TextDocument layer receives LSP values.
type DiagnosticSeverity int

const (
	DiagnosticError DiagnosticSeverity = iota + 1
	DiagnosticWarning
	DiagnosticInformation
	DiagnosticHint
)

func (s Severity) diagnosticSeverity() DiagnosticSeverity {
	switch s {
	case SeverityError:
		return DiagnosticError
	case SeverityWarning:
		return DiagnosticWarning
	case SeverityInformation:
		return DiagnosticInformation
	default:
		return DiagnosticHint
	}
}

// DiagnosticPosition is a 0-based line/column pair, matching LSP's
// Position.
type DiagnosticPosition struct {
	Line   int
	Column int
}

// DiagnosticRange is a half-open [Start, End) span in line/column space.
type DiagnosticRange struct {
	Start DiagnosticPosition
	End   DiagnosticPosition
}

// Tag marks a diagnostic with an LSP DiagnosticTag (only Unnecessary is
// used by this service, for unused-anchor reporting).
type Tag int

const (
	TagUnnecessary Tag = iota + 1
)

// Diagnostic is a host-ready validation finding: a Problem translated to
// line/column space, per spec 4.F.
type Diagnostic struct {
	Range       DiagnosticRange
	Severity    DiagnosticSeverity
	Code        string
	Message     string
	Source      string
	SchemaURIs  []string
	Tags        []Tag
	ProblemType string
}

// ToDiagnostics converts a ValidationResult's problems to line/column
// diagnostics and removes duplicates (spec 4.F: same start position and
// same message).
func ToDiagnostics(result *ValidationResult, lines *LineCounter) []Diagnostic {
	if result == nil {
		return nil
	}
	out := make([]Diagnostic, 0, len(result.Problems))
	for _, p := range result.Problems {
		out = append(out, toDiagnostic(p, lines))
	}
	return dedupeDiagnostics(out)
}

func toDiagnostic(p Problem, lines *LineCounter) Diagnostic {
	startLine, startCol := lines.Position(p.Location.Offset)
	endLine, endCol := lines.Position(p.Location.Offset + p.Location.Length)
	return Diagnostic{
		Range: DiagnosticRange{
			Start: DiagnosticPosition{Line: startLine, Column: startCol},
			End:   DiagnosticPosition{Line: endLine, Column: endCol},
		},
		Severity:    p.Severity.diagnosticSeverity(),
		Code:        p.Code,
		Message:     p.Message,
		Source:      p.Source,
		SchemaURIs:  p.SchemaURIs,
		ProblemType: p.ProblemType,
	}
}

func dedupeDiagnostics(diagnostics []Diagnostic) []Diagnostic {
	seen := make(map[diagnosticKey]bool, len(diagnostics))
	out := make([]Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		key := diagnosticKey{d.Range.Start, d.Message}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}

type diagnosticKey struct {
	start   DiagnosticPosition
	message string
}

// sortDiagnostics orders diagnostics by position, errors before other
// severities at the same position — mirrors the source-ordered reading
// experience a host's problems panel expects.
func sortDiagnostics(diagnostics []Diagnostic) {
	sort.SliceStable(diagnostics, func(i, j int) bool {
		a, b := diagnostics[i], diagnostics[j]
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line < b.Range.Start.Line
		}
		if a.Range.Start.Column != b.Range.Start.Column {
			return a.Range.Start.Column < b.Range.Start.Column
		}
		return a.Severity < b.Severity
	})
}

// rangeOf converts a node's byte span to line/column space via lines, or
// falls back to raw offsets stuffed into Line when lines is nil (a caller
// running additional validators without the source text at hand).
func rangeOf(n *Node, lines *LineCounter) DiagnosticRange {
	if lines == nil {
		return DiagnosticRange{
			Start: DiagnosticPosition{Line: n.Offset},
			End:   DiagnosticPosition{Line: n.End()},
		}
	}
	startLine, startCol := lines.Position(n.Offset)
	endLine, endCol := lines.Position(n.End())
	return DiagnosticRange{
		Start: DiagnosticPosition{Line: startLine, Column: startCol},
		End:   DiagnosticPosition{Line: endLine, Column: endCol},
	}
}
