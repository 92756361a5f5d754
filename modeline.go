package yamlls

import "regexp"

// modelineRe matches the bit-exact modeline format spec 6 defines: a
// line comment naming a schema URL, found in the document's first
// comment block.
var modelineRe = regexp.MustCompile(`^#\s+yaml-language-server\s*:\s*\$schema\s*[=:]\s*(\S+)`)

// findModeline scans text's leading comment lines for a modeline and
// returns the schema reference it names, or "" if none is present.
// Only comment lines at the very start of the document (before any
// non-comment, non-blank line) are considered "the first comment
// block".
func findModeline(text string) string {
	lineStart := 0
	for lineStart <= len(text) {
		lineEnd := lineStart
		for lineEnd < len(text) && text[lineEnd] != '\n' {
			lineEnd++
		}
		line := text[lineStart:lineEnd]
		trimmed := trimTrailingCR(line)

		switch {
		case trimmed == "":
			// blank line: keep scanning the leading block
		case trimmed[0] == '#':
			if m := modelineRe.FindStringSubmatch(trimmed); m != nil {
				return m[1]
			}
		default:
			return ""
		}

		if lineEnd >= len(text) {
			break
		}
		lineStart = lineEnd + 1
	}
	return ""
}

func trimTrailingCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}
