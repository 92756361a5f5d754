package yamlls

import (
	"bytes"
	"errors"
	"maps"
	"regexp"
	"slices"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/kaptinlin/jsonpointer"
)

// knownSchemaFields contains all known JSON Schema (draft-07, plus the two
// custom keywords this service adds) keywords. Used to filter out known
// fields when collecting extra/extension fields.
var knownSchemaFields = map[string]struct{}{
	// Core keywords
	"$id":         {},
	"$schema":     {},
	"$ref":        {},
	"definitions": {},
	"$comment":    {},

	// Applicator keywords
	"allOf":                 {},
	"anyOf":                 {},
	"oneOf":                 {},
	"not":                   {},
	"if":                    {},
	"then":                  {},
	"else":                  {},
	"dependencies":          {},
	"items":                 {},
	"additionalItems":       {},
	"contains":              {},
	"properties":            {},
	"patternProperties":     {},
	"additionalProperties":  {},
	"propertyNames":         {},

	// Validation keywords
	"type":          {},
	"enum":          {},
	"const":         {},
	"multipleOf":    {},
	"maximum":       {},
	"exclusiveMaximum": {},
	"minimum":       {},
	"exclusiveMinimum": {},
	"maxLength":     {},
	"minLength":     {},
	"pattern":       {},
	"maxItems":      {},
	"minItems":      {},
	"uniqueItems":   {},
	"maxProperties": {},
	"minProperties": {},
	"required":      {},

	// Format keyword
	"format": {},

	// Content keywords (annotation-only in this service: nothing evaluates them)
	"contentEncoding":  {},
	"contentMediaType": {},

	// Meta-data keywords
	"title":       {},
	"description": {},
	"default":     {},
	"deprecated":  {},
	"readOnly":    {},
	"writeOnly":   {},
	"examples":    {},

	// Custom keywords this service adds beyond draft-07, see GLOSSARY.
	"errorMessage":        {},
	"deprecationMessage":  {},
}

// Schema represents a JSON Schema draft-07 document, plus the two custom
// keywords (errorMessage, deprecationMessage) this service recognizes.
type Schema struct {
	compiledPatterns      map[string]*regexp.Regexp
	registry              *Registry
	parent                *Schema
	uri                   string
	baseURI               string
	anchors               map[string]*Schema
	schemas               map[string]*Schema
	compiledStringPattern *regexp.Regexp

	ID     string  `json:"$id,omitempty"`
	Schema string  `json:"$schema,omitempty"`
	Format *string `json:"format,omitempty"`

	// Ref holds the raw $ref text as it appeared in the source schema.
	// ShadowRef preserves the same value even after resolution merges the
	// referenced schema's keywords into this node (the ref-followed and
	// ref-preserved copies diverge only in ResolvedRef being populated),
	// so callers that need "what did the author write" (hover, symbol
	// lookups) don't have to re-parse the original document.
	Ref         string  `json:"$ref,omitempty"`
	ShadowRef   string  `json:"-"`
	Anchor      string  `json:"$anchor,omitempty"`
	Defs        map[string]*Schema `json:"definitions,omitempty"`
	ResolvedRef *Schema `json:"-"`

	// Boolean JSON Schemas (`true`/`false` as a whole schema document).
	Boolean *bool `json:"-"`

	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	Not   *Schema   `json:"not,omitempty"`

	If   *Schema `json:"if,omitempty"`
	Then *Schema `json:"then,omitempty"`
	Else *Schema `json:"else,omitempty"`

	// Dependencies implements the unified draft-07 "dependencies" keyword:
	// each entry is either a list of required sibling property names or a
	// subschema the whole instance must additionally satisfy when the key
	// property is present. See dependencies.go.
	Dependencies map[string]*Dependency `json:"dependencies,omitempty"`

	// Items is a schema (list validation) or, when the source used the
	// draft-07 array form, a positional list (tuple validation); in the
	// tuple case ItemsTuple holds the per-position schemas and
	// AdditionalItems governs items past the tuple's length.
	Items           *Schema   `json:"-"`
	ItemsTuple      []*Schema `json:"-"`
	AdditionalItems *Schema   `json:"additionalItems,omitempty"`
	Contains        *Schema   `json:"contains,omitempty"`

	Properties           *SchemaMap `json:"properties,omitempty"`
	PatternProperties    *SchemaMap `json:"patternProperties,omitempty"`
	AdditionalProperties *Schema    `json:"additionalProperties,omitempty"`
	PropertyNames        *Schema    `json:"propertyNames,omitempty"`

	Type  SchemaType  `json:"type,omitempty"`
	Enum  []any       `json:"enum,omitempty"`
	Const *ConstValue `json:"const,omitempty"`

	MultipleOf       *Rat `json:"multipleOf,omitempty"`
	Maximum          *Rat `json:"maximum,omitempty"`
	ExclusiveMaximum *Rat `json:"exclusiveMaximum,omitempty"`
	Minimum          *Rat `json:"minimum,omitempty"`
	ExclusiveMinimum *Rat `json:"exclusiveMinimum,omitempty"`

	MaxLength *float64 `json:"maxLength,omitempty"`
	MinLength *float64 `json:"minLength,omitempty"`
	Pattern   *string  `json:"pattern,omitempty"`

	MaxItems    *float64 `json:"maxItems,omitempty"`
	MinItems    *float64 `json:"minItems,omitempty"`
	UniqueItems *bool    `json:"uniqueItems,omitempty"`

	MaxProperties *float64 `json:"maxProperties,omitempty"`
	MinProperties *float64 `json:"minProperties,omitempty"`
	Required      []string `json:"required,omitempty"`

	ContentEncoding  *string `json:"contentEncoding,omitempty"`
	ContentMediaType *string `json:"contentMediaType,omitempty"`

	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Default     any     `json:"default,omitempty"`
	Deprecated  *bool   `json:"deprecated,omitempty"`
	ReadOnly    *bool   `json:"readOnly,omitempty"`
	WriteOnly   *bool   `json:"writeOnly,omitempty"`
	Examples    []any   `json:"examples,omitempty"`

	// ErrorMessage overrides the default diagnostic message per keyword
	// (keyword name -> message template) or, if a single string, for
	// every keyword failure on this schema node. Not part of any JSON
	// Schema draft; several editor-facing schema dialects (including the
	// Kubernetes OpenAPI extensions) use it and yaml-language-server
	// honors it, so this service keeps supporting it.
	ErrorMessage map[string]string `json:"-"`

	// DeprecationMessage marks a property deprecated with explanatory
	// text, surfaced as a warning diagnostic rather than blocking.
	DeprecationMessage *string `json:"deprecationMessage,omitempty"`

	// Extra keywords not in specification.
	Extra map[string]any `json:"-"`
}

// Dependency is the value of one entry in the "dependencies" keyword: it is
// either a plain list of sibling property names (PropertyDependency) or a
// full subschema (SchemaDependency) — never both.
type Dependency struct {
	PropertyDependency []string
	SchemaDependency   *Schema
}

func (d *Dependency) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(data, &d.PropertyDependency)
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	d.SchemaDependency = &s
	return nil
}

func (d Dependency) MarshalJSON() ([]byte, error) {
	if d.SchemaDependency != nil {
		return json.Marshal(d.SchemaDependency)
	}
	return json.Marshal(d.PropertyDependency)
}

// newSchema parses JSON schema data and returns a Schema object.
func newSchema(jsonSchema []byte) (*Schema, error) {
	schema := &Schema{}
	if err := json.Unmarshal(jsonSchema, schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// initializeSchema sets up the schema structure, resolves URIs, and
// initializes nested schemas, using registry settings and parent context.
func (s *Schema) initializeSchema(registry *Registry, parent *Schema) {
	s.initializeSchemaCore(registry, parent, true)
}

// initializeSchemaWithoutReferences defers $ref resolution, used when a
// batch of schemas must all be registered before any cross-references them.
func (s *Schema) initializeSchemaWithoutReferences(registry *Registry, parent *Schema) {
	s.initializeSchemaCore(registry, parent, false)
}

func (s *Schema) initializeSchemaCore(registry *Registry, parent *Schema, resolveRefs bool) {
	if registry != nil {
		s.registry = registry
	}
	s.parent = parent

	effectiveRegistry := s.GetRegistry()

	parentBaseURI := s.getParentBaseURI()
	if parentBaseURI == "" && effectiveRegistry != nil {
		parentBaseURI = effectiveRegistry.DefaultBaseURI
	}
	if s.ID != "" {
		if isValidURI(s.ID) {
			s.uri = s.ID
			s.baseURI = getBaseURI(s.ID)
		} else {
			resolvedURL := resolveRelativeURI(parentBaseURI, s.ID)
			s.uri = resolvedURL
			s.baseURI = getBaseURI(resolvedURL)
		}
	} else {
		s.baseURI = parentBaseURI
	}

	if s.baseURI == "" && s.uri != "" && isValidURI(s.uri) {
		s.baseURI = getBaseURI(s.uri)
	}

	if s.Anchor != "" {
		s.setAnchor(s.Anchor)
	}

	if s.uri != "" && isValidURI(s.uri) {
		root := s.getRootSchema()
		root.setSchema(s.uri, s)
	}

	initializeNestedSchemasCore(s, registry, resolveRefs)
	if resolveRefs {
		s.resolveReferences()
	}

	if effectiveRegistry != nil && !effectiveRegistry.PreserveExtra {
		s.Extra = nil
	}
}

func initializeNestedSchemasCore(s *Schema, registry *Registry, resolveRefs bool) {
	initChild := func(child *Schema) {
		child.initializeSchemaCore(registry, s, resolveRefs)
	}

	for _, def := range s.Defs {
		initChild(def)
	}
	for _, schema := range s.AllOf {
		if schema != nil {
			initChild(schema)
		}
	}
	for _, schema := range s.AnyOf {
		if schema != nil {
			initChild(schema)
		}
	}
	for _, schema := range s.OneOf {
		if schema != nil {
			initChild(schema)
		}
	}

	if s.Not != nil {
		initChild(s.Not)
	}
	if s.If != nil {
		initChild(s.If)
	}
	if s.Then != nil {
		initChild(s.Then)
	}
	if s.Else != nil {
		initChild(s.Else)
	}
	for _, dep := range s.Dependencies {
		if dep.SchemaDependency != nil {
			initChild(dep.SchemaDependency)
		}
	}

	for _, item := range s.ItemsTuple {
		if item != nil {
			initChild(item)
		}
	}
	if s.Items != nil {
		initChild(s.Items)
	}
	if s.AdditionalItems != nil {
		initChild(s.AdditionalItems)
	}
	if s.Contains != nil {
		initChild(s.Contains)
	}
	if s.AdditionalProperties != nil {
		initChild(s.AdditionalProperties)
	}
	if s.Properties != nil {
		for _, prop := range *s.Properties {
			initChild(prop)
		}
	}
	if s.PatternProperties != nil {
		for _, prop := range *s.PatternProperties {
			initChild(prop)
		}
	}
	if s.PropertyNames != nil {
		initChild(s.PropertyNames)
	}
}

// validateRegexSyntax validates that all regex patterns in the schema are
// valid Go RE2 syntax, recursively.
func (s *Schema) validateRegexSyntax() error {
	if s == nil {
		return nil
	}

	visited := make(map[*Schema]bool)
	errs := s.collectRegexErrors(nil, visited)
	if len(errs) == 0 {
		return nil
	}

	combined := append([]error{ErrRegexValidation}, errs...)
	return errors.Join(combined...)
}

func (s *Schema) collectRegexErrors(pathTokens []string, visited map[*Schema]bool) []error {
	if s == nil || visited[s] {
		return nil
	}
	visited[s] = true

	var errs []error

	if s.Pattern != nil {
		if err := compilePattern(*s.Pattern); err != nil {
			patternTokens := slices.Concat(pathTokens, []string{"pattern"})
			errs = append(errs, &RegexPatternError{
				Keyword:  "pattern",
				Location: "#" + jsonpointer.Format(patternTokens...),
				Pattern:  *s.Pattern,
				Err:      err,
			})
		}
	}

	if s.PatternProperties != nil {
		for pattern, schema := range *s.PatternProperties {
			patternPropTokens := slices.Concat(pathTokens, []string{"patternProperties", pattern})
			if err := compilePattern(pattern); err != nil {
				errs = append(errs, &RegexPatternError{
					Keyword:  "patternProperties",
					Location: "#" + jsonpointer.Format(patternPropTokens...),
					Pattern:  pattern,
					Err:      err,
				})
				continue
			}
			errs = append(errs, schema.collectRegexErrors(patternPropTokens, visited)...)
		}
	}

	addSchema := func(child *Schema, token string) {
		if child == nil {
			return
		}
		childTokens := slices.Concat(pathTokens, []string{token})
		errs = append(errs, child.collectRegexErrors(childTokens, visited)...)
	}

	addSchemaMap := func(m map[string]*Schema, prefix string) {
		for key, schema := range m {
			mapTokens := slices.Concat(pathTokens, []string{prefix, key})
			errs = append(errs, schema.collectRegexErrors(mapTokens, visited)...)
		}
	}

	addSchemaSlice := func(children []*Schema, prefix string) {
		for i, child := range children {
			sliceTokens := slices.Concat(pathTokens, []string{prefix, strconv.Itoa(i)})
			errs = append(errs, child.collectRegexErrors(sliceTokens, visited)...)
		}
	}

	if s.Properties != nil {
		addSchemaMap(map[string]*Schema(*s.Properties), "properties")
	}
	addSchemaMap(s.Defs, "definitions")

	addSchema(s.AdditionalProperties, "additionalProperties")
	addSchema(s.AdditionalItems, "additionalItems")
	addSchema(s.PropertyNames, "propertyNames")
	addSchema(s.Items, "items")
	addSchema(s.Contains, "contains")
	addSchema(s.Not, "not")
	addSchema(s.If, "if")
	addSchema(s.Then, "then")
	addSchema(s.Else, "else")
	addSchema(s.ResolvedRef, "$ref")

	addSchemaSlice(s.ItemsTuple, "items")
	addSchemaSlice(s.AllOf, "allOf")
	addSchemaSlice(s.AnyOf, "anyOf")
	addSchemaSlice(s.OneOf, "oneOf")

	for key, dep := range s.Dependencies {
		if dep.SchemaDependency != nil {
			addSchema(dep.SchemaDependency, "dependencies/"+key)
		}
	}

	return errs
}

func compilePattern(pattern string) error {
	if pattern == "" {
		return nil
	}
	_, err := regexp.Compile(pattern)
	return err
}

func (s *Schema) setAnchor(anchor string) {
	if s.anchors == nil {
		s.anchors = make(map[string]*Schema)
	}
	s.anchors[anchor] = s

	root := s.getRootSchema()
	if root.anchors == nil {
		root.anchors = make(map[string]*Schema)
	}

	if s.ID == "" || s.ID == root.ID {
		if _, ok := root.anchors[anchor]; !ok {
			root.anchors[anchor] = s
		}
	}
}

func (s *Schema) setSchema(uri string, schema *Schema) *Schema {
	if s.schemas == nil {
		s.schemas = make(map[string]*Schema)
	}
	s.schemas[uri] = schema
	return s
}

func (s *Schema) getSchema(ref string) (*Schema, error) {
	baseURI, anchor := splitRef(ref)

	if schema, exists := s.schemas[baseURI]; exists {
		if baseURI == ref {
			return schema, nil
		}
		return schema.resolveAnchor(anchor)
	}

	return nil, ErrReferenceResolution
}

// GetSchemaURI returns the resolved URI for the schema, or an empty string
// if no URI is defined.
func (s *Schema) GetSchemaURI() string {
	if s.uri != "" {
		return s.uri
	}
	root := s.getRootSchema()
	if root.uri != "" {
		return root.uri
	}
	return ""
}

// GetSchemaLocation returns the schema location with the given anchor.
func (s *Schema) GetSchemaLocation(anchor string) string {
	return s.GetSchemaURI() + "#" + anchor
}

func (s *Schema) getRootSchema() *Schema {
	if s.parent != nil {
		return s.parent.getRootSchema()
	}
	return s
}

func (s *Schema) getParentBaseURI() string {
	for p := s.parent; p != nil; p = p.parent {
		if p.baseURI != "" {
			return p.baseURI
		}
	}
	return ""
}

// MarshalJSON implements json.Marshaler.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s.Boolean != nil {
		return json.Marshal(s.Boolean, json.Deterministic(true))
	}

	type Alias Schema
	alias := (*Alias)(s)

	data, err := json.Marshal(alias, json.Deterministic(true))
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	if s.Const != nil {
		result["const"] = s.Const.Value
	}
	if len(s.ItemsTuple) > 0 {
		result["items"] = s.ItemsTuple
	} else if s.Items != nil {
		result["items"] = s.Items
	}
	if len(s.ErrorMessage) == 1 {
		for _, v := range s.ErrorMessage {
			result["errorMessage"] = v
		}
	} else if len(s.ErrorMessage) > 1 {
		result["errorMessage"] = s.ErrorMessage
	}

	maps.Copy(result, s.Extra)

	return json.Marshal(result, json.Deterministic(true))
}

// MarshalJSONTo implements json.MarshalerTo for JSON v2 with proper option support.
func (s *Schema) MarshalJSONTo(enc *jsontext.Encoder, opts json.Options) error {
	opts = json.JoinOptions(opts, json.Deterministic(true))

	if s.Boolean != nil {
		return json.MarshalEncode(enc, s.Boolean, opts)
	}

	data, err := s.MarshalJSON()
	if err != nil {
		return err
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}

	return json.MarshalEncode(enc, result, opts)
}

// UnmarshalJSON handles unmarshaling JSON (or JSON decoded out of a YAML
// document) data into the Schema type.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		s.Boolean = &b
		return nil
	}

	type Alias Schema
	aux := &struct {
		Items            jsontext.Value `json:"items,omitempty"`
		ExclusiveMinimum jsontext.Value `json:"exclusiveMinimum,omitempty"`
		ExclusiveMaximum jsontext.Value `json:"exclusiveMaximum,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(s),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.Items) > 0 {
		trimmed := bytes.TrimSpace(aux.Items)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(aux.Items, &s.ItemsTuple); err != nil {
				return err
			}
		} else {
			if err := json.Unmarshal(aux.Items, &s.Items); err != nil {
				return err
			}
		}
	}

	if err := normalizeExclusiveBound(aux.ExclusiveMinimum, &s.Minimum, &s.ExclusiveMinimum); err != nil {
		return err
	}
	if err := normalizeExclusiveBound(aux.ExclusiveMaximum, &s.Maximum, &s.ExclusiveMaximum); err != nil {
		return err
	}

	var raw map[string]jsontext.Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if constData, ok := raw["const"]; ok {
		if s.Const == nil {
			s.Const = &ConstValue{}
		}
		if err := s.Const.UnmarshalJSON(constData); err != nil {
			return err
		}
	}

	if s.Ref != "" {
		s.ShadowRef = s.Ref
	}

	if emData, ok := raw["errorMessage"]; ok {
		trimmed := bytes.TrimSpace(emData)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			if err := json.Unmarshal(emData, &s.ErrorMessage); err != nil {
				return err
			}
		} else {
			var single string
			if err := json.Unmarshal(emData, &single); err != nil {
				return err
			}
			s.ErrorMessage = map[string]string{"": single}
		}
	}

	return s.collectExtraFields(data)
}

// normalizeExclusiveBound implements the draft-04-to-draft-06
// exclusiveMinimum/exclusiveMaximum normalization spec 4.E calls for:
// the boolean form pairs with the sibling minimum/maximum keyword
// (`true` promotes it to an exclusive bound and clears the inclusive
// one; `false` is a no-op, the inclusive bound stands), while the
// numeric form is just another Rat-typed limit used directly. raw is
// empty when the keyword was absent from the document.
func normalizeExclusiveBound(raw jsontext.Value, bound **Rat, exclusive **Rat) error {
	if len(raw) == 0 {
		return nil
	}

	var isExclusive bool
	if err := json.Unmarshal(raw, &isExclusive); err == nil {
		if isExclusive {
			*exclusive = *bound
			*bound = nil
		} else {
			*exclusive = nil
		}
		return nil
	}

	var r Rat
	if err := r.UnmarshalJSON(raw); err != nil {
		return err
	}
	*exclusive = &r
	return nil
}

func (s *Schema) collectExtraFields(raw []byte) error {
	var allFields map[string]any
	if err := json.Unmarshal(raw, &allFields); err != nil {
		return err
	}

	for key := range knownSchemaFields {
		delete(allFields, key)
	}

	if len(allFields) > 0 {
		s.Extra = allFields
	}
	return nil
}

// SchemaMap represents a map of string keys to *Schema values, used
// primarily for properties and patternProperties.
type SchemaMap map[string]*Schema

func (sm SchemaMap) MarshalJSON() ([]byte, error) {
	m := make(map[string]*Schema)
	maps.Copy(m, sm)
	return json.Marshal(m, json.Deterministic(true))
}

func (sm *SchemaMap) MarshalJSONTo(enc *jsontext.Encoder, opts json.Options) error {
	opts = json.JoinOptions(opts, json.Deterministic(true))
	if sm == nil {
		return json.MarshalEncode(enc, nil, opts)
	}
	m := make(map[string]*Schema)
	maps.Copy(m, *sm)
	return json.MarshalEncode(enc, m, opts)
}

func (sm *SchemaMap) UnmarshalJSON(data []byte) error {
	m := make(map[string]*Schema)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*sm = SchemaMap(m)
	return nil
}

// SchemaType holds a set of type names, accommodating both the single-type
// and multi-type ("type": ["string","null"]) forms.
type SchemaType []string

func (st SchemaType) MarshalJSON() ([]byte, error) {
	if len(st) == 1 {
		return json.Marshal(st[0])
	}
	return json.Marshal([]string(st))
}

func (st *SchemaType) UnmarshalJSON(data []byte) error {
	var singleType string
	if err := json.Unmarshal(data, &singleType); err == nil {
		*st = SchemaType{singleType}
		return nil
	}

	var multiType []string
	if err := json.Unmarshal(data, &multiType); err == nil {
		*st = SchemaType(multiType)
		return nil
	}

	return ErrInvalidSchemaType
}

// ConstValue represents a constant value in a JSON Schema.
type ConstValue struct {
	Value any
	IsSet bool
}

func (cv *ConstValue) UnmarshalJSON(data []byte) error {
	if cv == nil {
		return ErrNilConstValue
	}

	cv.IsSet = true

	if string(data) == "null" {
		cv.Value = nil
		return nil
	}

	return json.Unmarshal(data, &cv.Value)
}

func (cv ConstValue) MarshalJSON() ([]byte, error) {
	if cv.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(cv.Value)
}

// SetRegistry sets a custom Registry for the Schema and returns the Schema
// itself to support method chaining.
func (s *Schema) SetRegistry(registry *Registry) *Schema {
	s.registry = registry
	return s
}

// GetRegistry gets the effective Registry for the Schema.
// Lookup order: current Schema -> parent Schema -> defaultRegistry.
func (s *Schema) GetRegistry() *Registry {
	if s.registry != nil {
		return s.registry
	}
	if s.parent != nil {
		return s.parent.GetRegistry()
	}
	return defaultRegistry
}
