package yamlls

// mergeSchemaShallow implements the shallow merge spec 4.C requires when
// expanding a $ref: fields already present on node win; everything node
// leaves unset is filled in from the referenced schema ref. The result is
// a new *Schema (node itself is never mutated, since node may be shared
// across several resolution chains, e.g. a property schema reused from
// multiple parents).
func mergeSchemaShallow(node *Schema, ref *Schema) *Schema {
	if ref == nil {
		return node
	}
	if node == nil {
		return ref
	}

	merged := *node

	if merged.Schema == "" {
		merged.Schema = ref.Schema
	}
	if merged.Format == nil {
		merged.Format = ref.Format
	}
	if merged.Anchor == "" {
		merged.Anchor = ref.Anchor
	}
	if merged.Defs == nil {
		merged.Defs = ref.Defs
	}
	if merged.Boolean == nil {
		merged.Boolean = ref.Boolean
	}

	if merged.AllOf == nil {
		merged.AllOf = ref.AllOf
	}
	if merged.AnyOf == nil {
		merged.AnyOf = ref.AnyOf
	}
	if merged.OneOf == nil {
		merged.OneOf = ref.OneOf
	}
	if merged.Not == nil {
		merged.Not = ref.Not
	}

	if merged.If == nil {
		merged.If = ref.If
	}
	if merged.Then == nil {
		merged.Then = ref.Then
	}
	if merged.Else == nil {
		merged.Else = ref.Else
	}
	if merged.Dependencies == nil {
		merged.Dependencies = ref.Dependencies
	}

	if merged.Items == nil {
		merged.Items = ref.Items
	}
	if merged.ItemsTuple == nil {
		merged.ItemsTuple = ref.ItemsTuple
	}
	if merged.AdditionalItems == nil {
		merged.AdditionalItems = ref.AdditionalItems
	}
	if merged.Contains == nil {
		merged.Contains = ref.Contains
	}

	if merged.Properties == nil {
		merged.Properties = ref.Properties
	}
	if merged.PatternProperties == nil {
		merged.PatternProperties = ref.PatternProperties
	}
	if merged.AdditionalProperties == nil {
		merged.AdditionalProperties = ref.AdditionalProperties
	}
	if merged.PropertyNames == nil {
		merged.PropertyNames = ref.PropertyNames
	}

	if merged.Type == nil {
		merged.Type = ref.Type
	}
	if merged.Enum == nil {
		merged.Enum = ref.Enum
	}
	if merged.Const == nil {
		merged.Const = ref.Const
	}

	if merged.MultipleOf == nil {
		merged.MultipleOf = ref.MultipleOf
	}
	if merged.Maximum == nil {
		merged.Maximum = ref.Maximum
	}
	if merged.ExclusiveMaximum == nil {
		merged.ExclusiveMaximum = ref.ExclusiveMaximum
	}
	if merged.Minimum == nil {
		merged.Minimum = ref.Minimum
	}
	if merged.ExclusiveMinimum == nil {
		merged.ExclusiveMinimum = ref.ExclusiveMinimum
	}

	if merged.MaxLength == nil {
		merged.MaxLength = ref.MaxLength
	}
	if merged.MinLength == nil {
		merged.MinLength = ref.MinLength
	}
	if merged.Pattern == nil {
		merged.Pattern = ref.Pattern
	}

	if merged.MaxItems == nil {
		merged.MaxItems = ref.MaxItems
	}
	if merged.MinItems == nil {
		merged.MinItems = ref.MinItems
	}
	if merged.UniqueItems == nil {
		merged.UniqueItems = ref.UniqueItems
	}

	if merged.MaxProperties == nil {
		merged.MaxProperties = ref.MaxProperties
	}
	if merged.MinProperties == nil {
		merged.MinProperties = ref.MinProperties
	}
	if merged.Required == nil {
		merged.Required = ref.Required
	}

	if merged.ContentEncoding == nil {
		merged.ContentEncoding = ref.ContentEncoding
	}
	if merged.ContentMediaType == nil {
		merged.ContentMediaType = ref.ContentMediaType
	}

	if merged.Title == nil {
		merged.Title = ref.Title
	}
	if merged.Description == nil {
		merged.Description = ref.Description
	}
	if merged.Default == nil {
		merged.Default = ref.Default
	}
	if merged.Deprecated == nil {
		merged.Deprecated = ref.Deprecated
	}
	if merged.ReadOnly == nil {
		merged.ReadOnly = ref.ReadOnly
	}
	if merged.WriteOnly == nil {
		merged.WriteOnly = ref.WriteOnly
	}
	if merged.Examples == nil {
		merged.Examples = ref.Examples
	}
	if merged.ErrorMessage == nil {
		merged.ErrorMessage = ref.ErrorMessage
	}
	if merged.DeprecationMessage == nil {
		merged.DeprecationMessage = ref.DeprecationMessage
	}

	merged.Ref = ref.Ref
	merged.ResolvedRef = ref.ResolvedRef
	merged.baseURI = ref.baseURI

	return &merged
}

// combinedSchema builds the synthetic `{allOf: [{$ref: u1}, {$ref: u2}, …]}`
// schema spec 4.C describes for combining several candidate schema URIs
// advertised for the same resource, giving it uri as its synthetic
// identity so diagnostics can cite it.
func combinedSchema(uri string, refs []string) *Schema {
	allOf := make([]*Schema, 0, len(refs))
	for _, ref := range refs {
		allOf = append(allOf, &Schema{Ref: ref, ShadowRef: ref})
	}
	return &Schema{ID: uri, uri: uri, AllOf: allOf}
}
