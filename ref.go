package yamlls

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonpointer"
)

// resolveRef resolves a $ref to another schema, either locally (JSON
// Pointer fragment) or globally (external URI, optionally with a
// fragment), via this schema's registry.
func (s *Schema) resolveRef(ref string) (*Schema, error) {
	if ref == "#" {
		return s.getRootSchema(), nil
	}

	if strings.HasPrefix(ref, "#") {
		return s.resolveAnchor(ref[1:])
	}

	if !isAbsoluteURI(ref) && s.baseURI != "" {
		ref = resolveRelativeURI(s.baseURI, ref)
	}

	return s.resolveRefWithFullURL(ref)
}

func (s *Schema) resolveAnchor(anchorName string) (*Schema, error) {
	var schema *Schema
	var err error

	if strings.HasPrefix(anchorName, "/") {
		schema, err = s.resolveJSONPointer(anchorName)
	} else if found, ok := s.anchors[anchorName]; ok {
		return found, nil
	}

	if schema == nil && s.parent != nil {
		return s.parent.resolveAnchor(anchorName)
	}

	return schema, err
}

// resolveRefWithFullURL resolves a full URL reference to another schema,
// checking this schema tree's own cache before falling back to the
// registry (which may need to load the referenced document over the
// network or filesystem).
func (s *Schema) resolveRefWithFullURL(ref string) (*Schema, error) {
	root := s.getRootSchema()
	if resolved, err := root.getSchema(ref); err == nil {
		return resolved, nil
	}

	resolved, err := s.GetRegistry().GetSchema(ref)
	if err != nil {
		return nil, ErrGlobalReferenceResolution
	}
	return resolved, nil
}

// resolveJSONPointer resolves a JSON Pointer within the schema tree.
func (s *Schema) resolveJSONPointer(pointer string) (*Schema, error) {
	if pointer == "/" {
		return s, nil
	}

	segments := jsonpointer.Parse(pointer)
	currentSchema := s
	previousSegment := ""

	for i, segment := range segments {
		decodedSegment, err := url.PathUnescape(segment)
		if err != nil {
			return nil, ErrJSONPointerSegmentDecode
		}

		nextSchema, found := findSchemaInSegment(currentSchema, decodedSegment, previousSegment)
		if found {
			currentSchema = nextSchema
			previousSegment = decodedSegment
			continue
		}

		if !found && i == len(segments)-1 {
			return nil, ErrJSONPointerSegmentNotFound
		}

		previousSegment = decodedSegment
	}

	return currentSchema, nil
}

func findSchemaInSegment(currentSchema *Schema, segment string, previousSegment string) (*Schema, bool) {
	switch previousSegment {
	case "properties":
		if currentSchema.Properties != nil {
			if schema, exists := (*currentSchema.Properties)[segment]; exists {
				return schema, true
			}
		}
	case "items":
		index, err := strconv.Atoi(segment)
		if err == nil && index < len(currentSchema.ItemsTuple) {
			return currentSchema.ItemsTuple[index], true
		}
		if currentSchema.Items != nil {
			return currentSchema.Items, true
		}
	case "definitions", "$defs":
		if defSchema, exists := currentSchema.Defs[segment]; exists {
			return defSchema, true
		}
	case "dependencies":
		if dep, exists := currentSchema.Dependencies[segment]; exists && dep.SchemaDependency != nil {
			return dep.SchemaDependency, true
		}
	}
	return nil, false
}

// resolveReferences walks the schema tree depth-first and sets ResolvedRef
// wherever a $ref is present, recursing into every keyword that can carry
// a subschema per spec section 4.C step 2.
func (s *Schema) resolveReferences() {
	if s.Ref != "" {
		if resolved, err := s.resolveRef(s.Ref); err == nil {
			s.ResolvedRef = resolved
		}
	}

	for _, defSchema := range s.Defs {
		defSchema.resolveReferences()
	}
	if s.Properties != nil {
		for _, schema := range *s.Properties {
			if schema != nil {
				schema.resolveReferences()
			}
		}
	}
	if s.PatternProperties != nil {
		for _, schema := range *s.PatternProperties {
			schema.resolveReferences()
		}
	}

	resolveSubschemaList(s.AllOf)
	resolveSubschemaList(s.AnyOf)
	resolveSubschemaList(s.OneOf)
	resolveSubschemaList(s.ItemsTuple)

	if s.Not != nil {
		s.Not.resolveReferences()
	}
	if s.If != nil {
		s.If.resolveReferences()
	}
	if s.Then != nil {
		s.Then.resolveReferences()
	}
	if s.Else != nil {
		s.Else.resolveReferences()
	}
	if s.Items != nil {
		s.Items.resolveReferences()
	}
	if s.AdditionalItems != nil {
		s.AdditionalItems.resolveReferences()
	}
	if s.AdditionalProperties != nil {
		s.AdditionalProperties.resolveReferences()
	}
	if s.Contains != nil {
		s.Contains.resolveReferences()
	}
	if s.PropertyNames != nil {
		s.PropertyNames.resolveReferences()
	}
	for _, dep := range s.Dependencies {
		if dep.SchemaDependency != nil {
			dep.SchemaDependency.resolveReferences()
		}
	}
}

func resolveSubschemaList(schemas []*Schema) {
	for _, schema := range schemas {
		if schema != nil {
			schema.resolveReferences()
		}
	}
}

// expandRef implements the worklist+seen-set ref-expansion described in
// spec 4.C: resolve s's $ref chain (local fragment or external URI),
// shallow-merging each referenced node's fields into a copy of s (fields
// already present in s win), restarting from the merged node until no
// $ref remains or a cycle is detected. The original $ref text is kept in
// ShadowRef regardless of how many hops were merged.
func expandRef(registry *Registry, s *Schema) (*Schema, []error) {
	if s == nil || s.Ref == "" {
		return s, nil
	}

	var errs []error
	seen := map[string]bool{}
	current := s
	shadow := s.Ref

	for current != nil && current.Ref != "" {
		ref := current.Ref
		if seen[ref] {
			break
		}
		seen[ref] = true

		externalURI, fragment := splitRef(ref)

		var next *Schema
		var err error
		if externalURI != "" {
			next, err = registry.resolveExternal(current.baseURI, externalURI, fragment)
		} else {
			next, err = current.resolveAnchor(strings.TrimPrefix(fragment, "#"))
			if next == nil && err == nil {
				next, err = current.resolveRef(ref)
			}
		}

		if err != nil || next == nil {
			errs = append(errs, &RefResolutionError{Ref: ref, Err: err})
			break
		}

		merged := mergeSchemaShallow(current, next)
		merged.ShadowRef = shadow
		current = merged

		if current.Ref == ref {
			break
		}
	}

	return current, errs
}

// RefResolutionError reports that one $ref in a resolution chain could not
// be followed; the chain stops but other sibling schemas keep validating.
type RefResolutionError struct {
	Ref string
	Err error
}

func (e *RefResolutionError) Error() string {
	if e.Err != nil {
		return "cannot resolve $ref " + e.Ref + ": " + e.Err.Error()
	}
	return "cannot resolve $ref " + e.Ref
}

func (e *RefResolutionError) Unwrap() error { return e.Err }
