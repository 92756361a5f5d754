package yamlls

import (
	"strings"

	"github.com/goccy/go-yaml/parser"
)

// Position is a 0-based line/character pair, matching LSP's Position
// (character counts UTF-16 code units on the wire; this core counts
// bytes and leaves UTF-16 conversion to the host, consistent with
// DiagnosticPosition).
type Position struct {
	Line      int
	Character int
}

// CompletionItem is one proposal a completion request returns. Label is
// the text shown in the picker; InsertText is what gets typed (equal to
// Label unless the schema names a richer snippet); Detail/Documentation
// come from the schema's title/description.
type CompletionItem struct {
	Label         string
	InsertText    string
	Detail        string
	Documentation string
}

// CompletionList is doComplete's result.
type CompletionList struct {
	Items []CompletionItem
}

// Hover is doHover's result — nil if no schema information applies at
// the position.
type Hover struct {
	Contents string
}

// SymbolKind coarsely classifies a Symbol the way LSP's SymbolKind does,
// trimmed to the variants a YAML document can produce.
type SymbolKind int

const (
	SymbolKindObject SymbolKind = iota + 1
	SymbolKindArray
	SymbolKindString
	SymbolKindNumber
	SymbolKindBoolean
	SymbolKindNull
)

func symbolKindOf(k Kind) SymbolKind {
	switch k {
	case KindObject:
		return SymbolKindObject
	case KindArray:
		return SymbolKindArray
	case KindString:
		return SymbolKindString
	case KindNumber:
		return SymbolKindNumber
	case KindBoolean:
		return SymbolKindBoolean
	default:
		return SymbolKindNull
	}
}

// Symbol is one entry of findDocumentSymbols' flat result. Children is
// populated only by the hierarchical variant.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Range    DiagnosticRange
	Children []Symbol
}

// CodeLens is one entry of getCodeLens' result — a non-editable
// annotation anchored to a range, resolved lazily (spec 6:
// getCodeLens/resolveCodeLens).
type CodeLens struct {
	Range   DiagnosticRange
	Title   string
	Command string
	Data    any
}

// Service is the stateful façade spec section 6 names: it owns a
// Registry and the current Settings, and exposes the Language-Server
// methods a host calls directly. One Service instance serves many
// documents; per-document state (text, parsed AST) is never cached here
// — the host is the source of truth for document text (spec 5's
// single-threaded, cooperative scheduling model).
type Service struct {
	registry *Registry
	settings Settings
	logger   Logger
}

// NewService returns a Service backed by a fresh Registry and default
// Settings (validate+hover+completion on, nothing forbidden).
func NewService() *Service {
	return &Service{
		registry: NewRegistry(),
		settings: Settings{Validate: true, Hover: true, Completion: true},
		logger:   NopLogger{},
	}
}

// SetLogger installs the logger used by the service and passed to the
// validator through Options; the registry does not log.
func (s *Service) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	s.logger = logger
}

// Configure applies settings: registers schema associations, custom
// tags, and the Kubernetes default (spec 6 configure(settings)).
func (s *Service) Configure(settings Settings) {
	s.settings = settings
	for _, assoc := range settings.Schemas {
		var inline *Schema
		if len(assoc.Schema) > 0 {
			compiled, err := s.registry.Compile(assoc.Schema, assoc.URI)
			if err != nil {
				logWarn(s.logger, "inline schema compile failed", "uri", assoc.URI, "err", err)
			} else {
				inline = compiled
			}
		}
		s.registry.RegisterExternal(assoc.URI, assoc.FileMatch, inline, assoc.Priority)
	}
	if settings.IsKubernetes && s.registry.KubernetesSchemaURI == "" {
		s.registry.KubernetesSchemaURI = kubernetesMainSchemaURI
	}
}

// kubernetesMainSchemaURI is the well-known aggregate Kubernetes schema
// the registry checks before synthesising a CRD URL (spec 6's GVK-to-URL
// mapping, "the main k8s schema's top-level oneOf").
const kubernetesMainSchemaURI = "https://raw.githubusercontent.com/yannh/kubernetes-json-schema/master/master-standalone-strict/all.json"

// parseAndConvert parses text with the external YAML tokenizer and
// converts every sub-document to the AST model (spec 5: "each
// sub-document is validated independently"). A document that fails to
// parse at all contributes a single Error diagnostic at offset 0 instead
// of aborting the whole request.
func (s *Service) parseAndConvert(text string, opts ConvertOptions) ([]*Node, map[string]*Node, []Diagnostic) {
	file, err := parser.ParseBytes([]byte(text), 0)
	if err != nil {
		return nil, nil, []Diagnostic{{
			Range:    DiagnosticRange{},
			Severity: DiagnosticError,
			Message:  err.Error(),
			Source:   "YAML",
		}}
	}

	var docs []*Node
	anchors := make(map[string]*Node)
	var diags []Diagnostic
	for _, doc := range file.Docs {
		root, docAnchors, err := Convert(doc, text, opts)
		if err != nil {
			diags = append(diags, Diagnostic{
				Severity: DiagnosticError,
				Message:  err.Error(),
				Source:   "YAML",
			})
			continue
		}
		docs = append(docs, root)
		for name, node := range docAnchors {
			anchors[name] = node
		}
	}
	return docs, anchors, diags
}

// DoValidation implements spec 6's doValidation(uri, text, isKubernetes).
func (s *Service) DoValidation(uri, text string, isKubernetes bool) []Diagnostic {
	if !s.settings.Validate {
		return nil
	}

	lines := NewLineCounter(text)
	docs, anchors, parseDiags := s.parseAndConvert(text, ConvertOptions{CustomTags: customTagMap(s.settings.CustomTags)})

	var diags []Diagnostic
	diags = append(diags, parseDiags...)

	options := Options{
		IsKubernetes:                isKubernetes || s.settings.IsKubernetes,
		DisableAdditionalProperties: s.settings.DisableAdditionalProperties,
		URI:                         uri,
		Logger:                      s.logger,
	}

	for _, doc := range docs {
		resolved, err := s.registry.ResolveForResource(uri, text, doc)
		if err != nil {
			logWarn(s.logger, "schema resolution failed", "uri", uri, "err", err)
			continue
		}
		for _, resErr := range resolved.ResolutionErrors {
			diags = append(diags, Diagnostic{
				Severity: DiagnosticWarning,
				Message:  resErr.Error(),
				Source:   "yaml-schema",
			})
		}
		if resolved.Schema != nil {
			result := NewValidationResult()
			validate(doc, resolved.Schema, resolved.Schema, result, NewSchemaCollector(), options)
			diags = append(diags, ToDiagnostics(result, lines)...)
		}
		diags = append(diags, RunAdditionalValidators(doc, anchors, lines, s.settings.additionalValidatorSettings())...)
	}

	diags = dedupeDiagnostics(diags)
	sortDiagnostics(diags)
	return diags
}

// DoComplete implements spec 6's doComplete(uri, text, position,
// isKubernetes). Per spec 4.G, the core's contribution is schema lookup
// at the cursor; snippet/markdown rendering is the host's job, so items
// here carry only the raw label/detail/documentation the schema supplies.
func (s *Service) DoComplete(uri, text string, position Position, isKubernetes bool) CompletionList {
	if !s.settings.Completion {
		return CompletionList{}
	}
	lines := NewLineCounter(text)
	offset := lines.Offset(position.Line, position.Character)

	docs, _, _ := s.parseAndConvert(text, ConvertOptions{CustomTags: customTagMap(s.settings.CustomTags)})
	doc := docAtOffset(docs, offset)
	if doc == nil {
		return CompletionList{}
	}

	resolved, err := s.registry.ResolveForResource(uri, text, doc)
	if err != nil || resolved.Schema == nil {
		return CompletionList{}
	}

	node := FindNodeAtOffset(doc, offset, true)
	matches := GetMatchingSchemas(doc, resolved.Schema, offset, node, true)

	var items []CompletionItem
	seen := map[string]bool{}
	for _, m := range matches {
		if m.Inverted || m.Schema == nil {
			continue
		}
		for _, item := range completionItemsFor(m.Schema) {
			if seen[item.Label] {
				continue
			}
			seen[item.Label] = true
			items = append(items, item)
		}
	}
	return CompletionList{Items: items}
}

// completionItemsFor derives proposals from one matching schema's
// property names, enum values, and const — the "schema lookup plus
// templating" spec 4.G describes.
func completionItemsFor(schema *Schema) []CompletionItem {
	var items []CompletionItem
	if schema.Properties != nil {
		for name, sub := range *schema.Properties {
			item := CompletionItem{Label: name, InsertText: name}
			if sub != nil {
				item.Detail = strings.Join(sub.Type, "|")
				item.Documentation = stringOrEmpty(sub.Description)
			}
			items = append(items, item)
		}
	}
	for _, v := range schema.Enum {
		if str, ok := v.(string); ok {
			items = append(items, CompletionItem{Label: str, InsertText: str})
		}
	}
	return items
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// DoHover implements spec 6's doHover(uri, text, position). Returns nil
// when no schema applies at the position, matching "Hover?" in the
// signature.
func (s *Service) DoHover(uri, text string, position Position) *Hover {
	if !s.settings.Hover {
		return nil
	}
	lines := NewLineCounter(text)
	offset := lines.Offset(position.Line, position.Character)

	docs, _, _ := s.parseAndConvert(text, ConvertOptions{})
	doc := docAtOffset(docs, offset)
	if doc == nil {
		return nil
	}

	resolved, err := s.registry.ResolveForResource(uri, text, doc)
	if err != nil || resolved.Schema == nil {
		return nil
	}

	matches := GetMatchingSchemas(doc, resolved.Schema, offset, nil, false)
	var parts []string
	for _, m := range matches {
		if m.Inverted || m.Schema == nil {
			continue
		}
		if title := stringOrEmpty(m.Schema.Title); title != "" {
			parts = append(parts, title)
		}
		if desc := stringOrEmpty(m.Schema.Description); desc != "" {
			parts = append(parts, desc)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return &Hover{Contents: strings.Join(parts, "\n\n")}
}

// FindDocumentSymbols implements spec 6's findDocumentSymbols(uri, text),
// returning the hierarchical form; flat is derived by the caller
// flattening Children.
func (s *Service) FindDocumentSymbols(uri, text string) []Symbol {
	lines := NewLineCounter(text)
	docs, _, _ := s.parseAndConvert(text, ConvertOptions{})

	var symbols []Symbol
	for _, doc := range docs {
		symbols = append(symbols, documentSymbols(doc, lines)...)
	}
	return symbols
}

// FlattenSymbols turns a hierarchical symbol tree into a flat list, the
// other variant spec 6 names.
func FlattenSymbols(symbols []Symbol) []Symbol {
	var out []Symbol
	var walk func(s Symbol)
	walk = func(s Symbol) {
		flat := s
		flat.Children = nil
		out = append(out, flat)
		for _, c := range s.Children {
			walk(c)
		}
	}
	for _, s := range symbols {
		walk(s)
	}
	return out
}

func documentSymbols(node *Node, lines *LineCounter) []Symbol {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case KindObject:
		var out []Symbol
		for _, prop := range node.Properties() {
			if prop.Key == nil {
				continue
			}
			sym := Symbol{Name: prop.Key.StrValue, Kind: symbolKindOf(propertyValueKind(prop)), Range: rangeOf(prop, lines)}
			sym.Children = documentSymbols(prop.Value, lines)
			out = append(out, sym)
		}
		return out
	case KindArray:
		var out []Symbol
		for i, item := range node.Items() {
			sym := Symbol{Name: indexName(i), Kind: symbolKindOf(item.Kind), Range: rangeOf(item, lines)}
			sym.Children = documentSymbols(item, lines)
			out = append(out, sym)
		}
		return out
	default:
		return nil
	}
}

func propertyValueKind(prop *Node) Kind {
	if prop.Value == nil {
		return KindNull
	}
	return prop.Value.Kind
}

func indexName(i int) string {
	const digits = "0123456789"
	if i == 0 {
		return "[0]"
	}
	var buf []byte
	n := i
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "[" + string(buf) + "]"
}

// GetCodeLens implements spec 6's getCodeLens(uri, text): one lens per
// top-level property whose schema carries a description, summarising
// which schema matched (the "templating" spec 4.G allows).
func (s *Service) GetCodeLens(uri, text string) []CodeLens {
	docs, _, _ := s.parseAndConvert(text, ConvertOptions{})
	lines := NewLineCounter(text)

	var lenses []CodeLens
	for _, doc := range docs {
		resolved, err := s.registry.ResolveForResource(uri, text, doc)
		if err != nil || resolved.Schema == nil || doc == nil || doc.Kind != KindObject {
			continue
		}
		if resolved.Schema.Properties == nil {
			continue
		}
		for _, prop := range doc.Properties() {
			sub := (*resolved.Schema.Properties)[prop.Key.StrValue]
			desc := ""
			if sub != nil {
				desc = stringOrEmpty(sub.Description)
			}
			if desc == "" {
				continue
			}
			lenses = append(lenses, CodeLens{
				Range: rangeOf(prop.Key, lines),
				Title: desc,
				Data:  resolved.URI,
			})
		}
	}
	return lenses
}

// ResolveCodeLens implements spec 6's resolveCodeLens(lens): this core
// has already populated Title eagerly in GetCodeLens, so resolution is
// the identity function — hosts with an expensive per-lens computation
// would instead defer it here.
func (s *Service) ResolveCodeLens(lens CodeLens) CodeLens {
	return lens
}

// AddSchema implements spec 6's addSchema(id, schema). The compiled
// schema is stored under id whether or not id is an absolute URI.
func (s *Service) AddSchema(id string, schemaJSON []byte) error {
	schema, err := s.registry.Compile(schemaJSON, id)
	if err != nil {
		return err
	}
	s.registry.SetSchema(id, schema)
	return nil
}

// DeleteSchema implements spec 6's deleteSchema(id).
func (s *Service) DeleteSchema(id string) {
	s.registry.mu.Lock()
	delete(s.registry.schemas, id)
	s.registry.mu.Unlock()
	s.registry.OnResourceChange(id)
}

// ModifySchemaContent implements spec 6's
// modifySchemaContent({schema, path, key, content}): path navigates
// nested `properties` by name (items are not walked), ending at a schema
// whose property key is set to content. An empty path sets content directly on the schema
// root's property map.
func (s *Service) ModifySchemaContent(schemaURI string, path []string, key string, content *Schema) error {
	s.registry.mu.RLock()
	schema, ok := s.registry.schemas[schemaURI]
	s.registry.mu.RUnlock()
	if !ok {
		return ErrSchemaNotFound
	}
	target, err := navigateSchemaPath(schema, path)
	if err != nil {
		return err
	}
	if target.Properties == nil {
		target.Properties = &SchemaMap{}
	}
	(*target.Properties)[key] = content
	return nil
}

// DeleteSchemaContent implements spec 6's
// deleteSchemaContent({schema, path, key}).
func (s *Service) DeleteSchemaContent(schemaURI string, path []string, key string) error {
	s.registry.mu.RLock()
	schema, ok := s.registry.schemas[schemaURI]
	s.registry.mu.RUnlock()
	if !ok {
		return ErrSchemaNotFound
	}
	target, err := navigateSchemaPath(schema, path)
	if err != nil {
		return err
	}
	if target.Properties != nil {
		delete(*target.Properties, key)
	}
	return nil
}

// DeleteSchemasWhole implements spec 6's deleteSchemasWhole({schemas}).
func (s *Service) DeleteSchemasWhole(uris []string) {
	s.registry.mu.Lock()
	for _, uri := range uris {
		delete(s.registry.schemas, uri)
	}
	s.registry.mu.Unlock()
	for _, uri := range uris {
		s.registry.OnResourceChange(uri)
	}
}

// ResetSchema implements spec 6's resetSchema(uri): drops the memoised
// resolution so the next validation re-resolves from scratch.
func (s *Service) ResetSchema(uri string) {
	s.registry.OnResourceChange(uri)
}

// RegisterCustomSchemaProvider implements spec 6's
// registerCustomSchemaProvider(provider).
func (s *Service) RegisterCustomSchemaProvider(provider CustomSchemaProvider) {
	s.registry.RegisterCustomSchemaProvider(provider)
}

// navigateSchemaPath walks path as a sequence of property names into
// nested `properties` schemas, per ModifySchemaContent/DeleteSchemaContent's
// "non-string path segment" precondition (spec 7's internal precondition
// violations fail fast with a structured error).
func navigateSchemaPath(schema *Schema, path []string) (*Schema, error) {
	current := schema
	for _, segment := range path {
		if current.Properties == nil {
			return nil, &InternalError{Op: "navigateSchemaPath", Message: "path segment not found: " + segment}
		}
		next, ok := (*current.Properties)[segment]
		if !ok || next == nil {
			return nil, &InternalError{Op: "navigateSchemaPath", Message: "path segment not found: " + segment}
		}
		current = next
	}
	return current, nil
}

// docAtOffset returns the sub-document whose span contains offset, or
// the last document if none does (covers an empty-document edge case
// where offset sits past the last byte of a one-document stream).
func docAtOffset(docs []*Node, offset int) *Node {
	for _, doc := range docs {
		if doc != nil && doc.Contains(offset, true) {
			return doc
		}
	}
	if len(docs) > 0 {
		return docs[len(docs)-1]
	}
	return nil
}
