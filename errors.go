package yamlls

import "errors"

// === Network and IO Related Errors ===
var (
	// ErrNoLoaderRegistered is returned when no loader is registered for the specified scheme.
	ErrNoLoaderRegistered = errors.New("no loader registered for scheme")

	// ErrDataRead is returned when data cannot be read from the specified URL.
	ErrDataRead = errors.New("data read failed")

	// ErrNetworkFetch is returned when there is an error fetching from the URL.
	ErrNetworkFetch = errors.New("network fetch failed")

	// ErrInvalidStatusCode is returned when an invalid HTTP status code is returned.
	ErrInvalidStatusCode = errors.New("invalid http status code")
)

// === Serialization Related Errors ===
var (
	// ErrJSONUnmarshal is returned when there is an error unmarshalling JSON.
	ErrJSONUnmarshal = errors.New("json unmarshal failed")

	// ErrYAMLUnmarshal is returned when there is an error unmarshalling YAML.
	ErrYAMLUnmarshal = errors.New("yaml unmarshal failed")

	// ErrYAMLParse is returned when the YAML tokenizer cannot parse a document.
	ErrYAMLParse = errors.New("yaml parse failed")

	// ErrXMLUnmarshal is returned when there is an error unmarshalling XML.
	ErrXMLUnmarshal = errors.New("xml unmarshal failed")
)

// === Schema Compilation, Resolution and Validation Related Errors ===
var (
	// ErrSchemaCompilation is returned when a schema fails to compile.
	ErrSchemaCompilation = errors.New("schema compilation failed")

	// ErrReferenceResolution is returned when a $ref cannot be resolved.
	ErrReferenceResolution = errors.New("reference resolution failed")

	// ErrGlobalReferenceResolution is returned when a $ref cannot be resolved against the registry.
	ErrGlobalReferenceResolution = errors.New("global reference resolution failed")

	// ErrJSONPointerSegmentDecode is returned when a JSON Pointer segment cannot be decoded.
	ErrJSONPointerSegmentDecode = errors.New("json pointer segment decode failed")

	// ErrJSONPointerSegmentNotFound is returned when a JSON Pointer segment is not found in the schema.
	ErrJSONPointerSegmentNotFound = errors.New("json pointer segment not found")

	// ErrInvalidSchemaType is returned when the "type" keyword holds neither a string nor an array of strings.
	ErrInvalidSchemaType = errors.New("invalid schema type")

	// ErrSchemaIsNil is returned when a nil schema is passed where one is required.
	ErrSchemaIsNil = errors.New("schema is nil")

	// ErrRegexValidation is returned when a schema's own pattern keywords fail to compile.
	ErrRegexValidation = errors.New("schema pattern validation failed")

	// ErrSchemaNotFound is returned when no schema is registered for a URI.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrStructuralError is returned when the incoming YAML tree is malformed
	// (e.g. a mapping pair with a missing key) and cannot be converted to an AST.
	ErrStructuralError = errors.New("malformed yaml structure")

	// ErrIPv6AddressNotEnclosed is returned when a URI's IPv6 host is not
	// wrapped in brackets as RFC 3986 requires.
	ErrIPv6AddressNotEnclosed = errors.New("ipv6 address must be enclosed in brackets")

	// ErrInvalidIPv6Address is returned when a URI's bracketed host does not
	// parse as a valid IPv6 address.
	ErrInvalidIPv6Address = errors.New("invalid ipv6 address")
)

// === Type Conversion Related Errors ===
var (
	// ErrRatConversion is returned when a numeric value cannot be converted to a rational.
	ErrRatConversion = errors.New("rat conversion failed")

	// ErrUnsupportedRatType is returned when the type is unsupported for conversion to *big.Rat.
	ErrUnsupportedRatType = errors.New("unsupported rat type")

	// ErrNilConstValue is returned when trying to unmarshal into a nil ConstValue.
	ErrNilConstValue = errors.New("cannot unmarshal into nil const value")
)

// InternalError represents a precondition violation inside the core — a
// programming error in how the public API was called, not a problem with
// the document or schema being processed. The core never panics for these;
// it returns an *InternalError instead so callers can log-and-continue.
type InternalError struct {
	Op      string // the operation that detected the violation, e.g. "navigateSchemaPath"
	Message string
}

func (e *InternalError) Error() string {
	return e.Op + ": " + e.Message
}

func newInternalError(op, message string) *InternalError {
	return &InternalError{Op: op, Message: message}
}
