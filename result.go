package yamlls

// Severity classifies a Problem for the host's diagnostic renderer.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Location is a byte-offset span into the validated document.
type Location struct {
	Offset int
	Length int
}

// Problem is one validation finding, shaped so the diagnostics surface
// (diagnostics.go) can convert it to a line/column Diagnostic without
// re-walking the schema.
type Problem struct {
	Location    Location
	Severity    Severity
	Code        string
	Message     string
	Source      string
	SchemaURIs  []string
	ProblemType string
	ProblemArgs map[string]any
}

// ValidationResult accumulates problems and the match-quality counters
// testAlternatives uses to rank oneOf/anyOf branches (spec 4.E).
type ValidationResult struct {
	Problems []Problem

	PropertiesMatches      int
	PropertiesValueMatches int
	PrimaryValueMatches    int
	EnumValueMatch         bool
	EnumValues             []any
}

// NewValidationResult returns an empty result ready for accumulation.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{}
}

// HasProblems reports whether any problem was recorded, at any severity.
// Most schema-validation mismatches are Warnings rather than Errors (see
// the error-handling design notes), so alternative ranking and oneOf/
// anyOf branch acceptance both need "any problem at all", not just
// error-severity ones.
func (r *ValidationResult) HasProblems() bool {
	return len(r.Problems) > 0
}

// AddProblem appends a problem to the result.
func (r *ValidationResult) AddProblem(p Problem) {
	r.Problems = append(r.Problems, p)
}

// Merge folds other's problems and counters into r.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Problems = append(r.Problems, other.Problems...)
	r.PropertiesMatches += other.PropertiesMatches
	r.PropertiesValueMatches += other.PropertiesValueMatches
	r.PrimaryValueMatches += other.PrimaryValueMatches
	if other.EnumValueMatch {
		r.EnumValueMatch = true
	}
	r.EnumValues = append(r.EnumValues, other.EnumValues...)
}

// mergeSimilarWarnings merges problems from other into r that share the
// same problemType, location, and args as a problem already in r — used
// by the generic testAlternatives comparator (spec 4.E) so tied
// alternative arms contribute combined source attribution instead of
// duplicate diagnostics.
func (r *ValidationResult) mergeSimilarWarnings(other *ValidationResult) {
	if other == nil {
		return
	}
	for _, op := range other.Problems {
		merged := false
		for i := range r.Problems {
			rp := &r.Problems[i]
			if rp.ProblemType != "" && rp.ProblemType == op.ProblemType &&
				rp.Location == op.Location && sameArgs(rp.ProblemArgs, op.ProblemArgs) {
				if rp.Source != "" && op.Source != "" && rp.Source != op.Source {
					rp.Source = rp.Source + ", " + op.Source
				}
				merged = true
				break
			}
		}
		if !merged {
			r.Problems = append(r.Problems, op)
		}
	}
}

func sameArgs(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
