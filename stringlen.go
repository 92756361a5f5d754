package yamlls

import (
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// validateString runs the string validation keywords against a String
// node: maxLength/minLength (Unicode codepoint count, not byte count) and
// pattern (Unicode-aware RE2). The value is NFC-normalized first, so a
// combining-mark sequence (e.g. "e" + U+0301) counts as one character
// rather than two, matching what a reader of the YAML would call the
// string's length.
func validateString(node *Node, schema *Schema, result *ValidationResult) {
	value := norm.NFC.String(node.StrValue)

	if schema.MaxLength != nil {
		length := utf8.RuneCountInString(value)
		if length > int(*schema.MaxLength) {
			msg, ok := errorMessageFor(schema, "maxLength")
			if !ok {
				msg = "String is longer than the maximum length"
			}
			result.AddProblem(Problem{
				Location:    Location{node.Offset, node.Length},
				Severity:    SeverityWarning,
				ProblemType: "maxLength",
				Message:     msg,
				ProblemArgs: map[string]any{"maxLength": *schema.MaxLength, "length": length},
			})
		}
	}

	if schema.MinLength != nil {
		length := utf8.RuneCountInString(value)
		if length < int(*schema.MinLength) {
			msg, ok := errorMessageFor(schema, "minLength")
			if !ok {
				msg = "String is shorter than the minimum length"
			}
			result.AddProblem(Problem{
				Location:    Location{node.Offset, node.Length},
				Severity:    SeverityWarning,
				ProblemType: "minLength",
				Message:     msg,
				ProblemArgs: map[string]any{"minLength": *schema.MinLength, "length": length},
			})
		}
	}

	if schema.Format != nil {
		evaluateFormat(node, schema, result)
	}

	if schema.Pattern != nil {
		re, err := getCompiledPattern(schema)
		if err != nil {
			// An invalid pattern is skipped here without a problem.
			// Registry.Compile rejects a schema whose pattern does not
			// compile (validateRegexSyntax returns an error) and emits no
			// warning, so only schemas built without Compile reach this.
			return
		}
		if !re.MatchString(value) {
			msg, ok := errorMessageFor(schema, "pattern")
			if !ok {
				msg = "String does not match the pattern " + *schema.Pattern
			}
			result.AddProblem(Problem{
				Location:    Location{node.Offset, node.Length},
				Severity:    SeverityWarning,
				ProblemType: "pattern",
				Message:     msg,
				ProblemArgs: map[string]any{"pattern": *schema.Pattern},
			})
		}
	}
}

func getCompiledPattern(schema *Schema) (*regexp.Regexp, error) {
	if schema.compiledStringPattern == nil {
		re, err := regexp.Compile(*schema.Pattern)
		if err != nil {
			return nil, err
		}
		schema.compiledStringPattern = re
	}
	return schema.compiledStringPattern, nil
}
