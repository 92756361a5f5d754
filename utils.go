package yamlls

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// replace substitutes placeholders in a template string with parameter values.
func replace(template string, params map[string]any) string {
	for key, value := range params {
		placeholder := "{" + key + "}"
		template = strings.ReplaceAll(template, placeholder, fmt.Sprint(value))
	}
	return template
}

// getDataType identifies the JSON Schema type name for a decoded AST value.
// Mirrors the "integer" vs "number" distinction spec 4.E requires: integer
// when the decoded Number is a mathematical integer.
func getDataType(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int64:
		return "integer"
	case float64:
		if v == float64(int64(v)) {
			return "integer"
		}
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

// getURLScheme extracts the scheme component of a URL string.
func getURLScheme(urlStr string) string {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return parsedURL.Scheme
}

// isValidURI verifies if the provided string is a valid URI.
func isValidURI(s string) bool {
	_, err := url.ParseRequestURI(s)
	return err == nil
}

// resolveRelativeURI resolves a relative URI against a base URI.
func resolveRelativeURI(baseURI, relativeURL string) string {
	if isAbsoluteURI(relativeURL) {
		return relativeURL
	}
	base, err := url.Parse(baseURI)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return relativeURL
	}
	rel, err := url.Parse(relativeURL)
	if err != nil {
		return relativeURL
	}
	return base.ResolveReference(rel).String()
}

// isAbsoluteURI checks if the given URL is absolute.
func isAbsoluteURI(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// getBaseURI extracts the base URL (directory) from an $id/schema URI.
func getBaseURI(id string) string {
	if id == "" {
		return ""
	}
	u, err := url.Parse(id)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Path, "/") {
		return u.String()
	}
	u.Path = path.Dir(u.Path)
	if u.Path == "." {
		u.Path = "/"
	}
	if u.Path != "/" && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.String()
}

// splitRef separates a $ref value into its base URI and fragment.
func splitRef(ref string) (baseURI string, fragment string) {
	parts := strings.SplitN(ref, "#", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return ref, ""
}

// isJSONPointer reports whether a ref fragment is a JSON Pointer (as
// opposed to a plain $anchor name).
func isJSONPointer(s string) bool {
	return strings.HasPrefix(s, "/")
}
