package yamlls

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/goccy/go-yaml"
)

// FormatDef defines a custom format validation rule, optionally scoped
// to one JSON Schema type.
type FormatDef struct {
	Type     string
	Validate func(any) bool
}

// DefaultFunc generates a dynamic default value. Registry stores these
// by name (RegisterDefaultFunc); no keyword evaluation in this package
// calls them.
type DefaultFunc func(args ...any) (any, error)

// CustomSchemaProvider answers "what schema(s) apply to this resource",
// per spec 6's registerCustomSchemaProvider contract.
type CustomSchemaProvider func(uri string) ([]string, error)

// ResolvedSchema is the result of Registry.ResolveForResource: the
// schema that applies to a document, plus any resolution errors
// encountered along the way (never fatal — the caller still gets
// whatever schema could be produced).
type ResolvedSchema struct {
	Schema           *Schema
	URI              string
	ResolutionErrors []error
}

// Registry is the single shared, mutable piece of state in the core
// (spec 5's "Shared resources"): a schema cache, loader/decoder/media
// type tables, custom format registry, and the file-pattern/provider/
// Kubernetes machinery resolve_for_resource needs. All reads and writes
// are expected to happen on the same control thread; the mutex exists
// so a host that does offload work to other goroutines still gets
// memory-safety, not so concurrent writes race-free compose.
type Registry struct {
	mu             sync.RWMutex
	schemas        map[string]*Schema
	unresolvedRefs map[string][]*Schema
	Decoders       map[string]func(string) ([]byte, error)
	MediaTypes     map[string]func([]byte) (any, error)
	Loaders        map[string]func(url string) (io.ReadCloser, error)
	DefaultBaseURI string
	AssertFormat   bool
	PreserveExtra  bool

	jsonEncoder func(v any) ([]byte, error)
	jsonDecoder func(data []byte, v any) error

	defaultFuncs map[string]DefaultFunc

	customFormats   map[string]*FormatDef
	customFormatsRW sync.RWMutex

	associations []*FilePatternAssociation
	priorities   map[string][]int
	provider     CustomSchemaProvider

	// KubernetesCatalog is the base CRD-catalog URL used to synthesise
	// GVK URLs (spec 6's "{catalog}/{group}/{kind}_{version}.json").
	KubernetesCatalog string
	// KubernetesSchemaURI names the main Kubernetes schema, whose
	// top-level oneOf is checked before a CRD URL is synthesised.
	KubernetesSchemaURI string

	resolvedCache map[string]*ResolvedSchema
}

// defaultRegistry backs schemas created without an explicit registry
// (e.g. a Schema decoded or built directly rather than through
// Registry.Compile), mirroring the teacher's package-level default
// compiler.
var defaultRegistry = NewRegistry()

// NewRegistry creates a Registry with the default decoders, media
// types, and HTTP(S) loaders installed.
func NewRegistry() *Registry {
	r := &Registry{
		schemas:        make(map[string]*Schema),
		unresolvedRefs: make(map[string][]*Schema),
		Decoders:       make(map[string]func(string) ([]byte, error)),
		MediaTypes:     make(map[string]func([]byte) (any, error)),
		Loaders:        make(map[string]func(url string) (io.ReadCloser, error)),
		defaultFuncs:   make(map[string]DefaultFunc),
		customFormats:  make(map[string]*FormatDef),
		priorities:     make(map[string][]int),
		resolvedCache:  make(map[string]*ResolvedSchema),

		jsonEncoder: func(v any) ([]byte, error) { return json.Marshal(v) },
		jsonDecoder: func(data []byte, v any) error { return json.Unmarshal(data, v) },

		KubernetesCatalog: "https://raw.githubusercontent.com/datreeio/CRDs-catalog/main",
	}
	r.initDefaults()
	return r
}

func (r *Registry) initDefaults() {
	r.Decoders["base64"] = base64.StdEncoding.DecodeString

	r.MediaTypes["application/json"] = func(data []byte) (any, error) {
		var temp any
		if err := r.jsonDecoder(data, &temp); err != nil {
			return nil, ErrJSONUnmarshal
		}
		return temp, nil
	}
	r.MediaTypes["application/xml"] = func(data []byte) (any, error) {
		var temp any
		if err := xml.Unmarshal(data, &temp); err != nil {
			return nil, ErrXMLUnmarshal
		}
		return temp, nil
	}
	r.MediaTypes["application/yaml"] = func(data []byte) (any, error) {
		var temp any
		if err := yaml.Unmarshal(data, &temp); err != nil {
			return nil, ErrYAMLUnmarshal
		}
		return temp, nil
	}

	client := &http.Client{Timeout: 10 * time.Second}
	httpLoader := func(url string) (io.ReadCloser, error) {
		req, err := http.NewRequestWithContext(context.Background(), "GET", url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, ErrNetworkFetch
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close() //nolint:errcheck
			return nil, ErrInvalidStatusCode
		}
		return resp.Body, nil
	}
	r.Loaders["http"] = httpLoader
	r.Loaders["https"] = httpLoader
}

// Compile parses and initializes a schema document, caching it under
// its $id (or the supplied uri) for future GetSchema/$ref lookups.
func (r *Registry) Compile(jsonSchema []byte, uris ...string) (*Schema, error) {
	schema, err := newSchema(jsonSchema)
	if err != nil {
		return nil, err
	}
	if schema.ID == "" && len(uris) > 0 {
		schema.ID = uris[0]
	}

	uri := schema.ID
	if uri != "" && isValidURI(uri) {
		r.mu.RLock()
		existing, exists := r.schemas[uri]
		r.mu.RUnlock()
		if exists {
			return existing, nil
		}
	}

	schema.initializeSchema(r, nil)
	if err := schema.validateRegexSyntax(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if schema.uri != "" && isValidURI(schema.uri) {
		r.schemas[schema.uri] = schema
	}
	r.mu.Unlock()

	return schema, nil
}

// SetSchema associates a specific schema instance with a URI, bypassing
// compilation (used for inline/programmatic schemas).
func (r *Registry) SetSchema(uri string, schema *Schema) *Registry {
	r.mu.Lock()
	r.schemas[uri] = schema
	r.mu.Unlock()
	return r
}

// GetSchema retrieves a schema by $ref, resolving any trailing anchor or
// JSON Pointer fragment, loading the document over the network/
// filesystem on a cache miss.
func (r *Registry) GetSchema(ref string) (*Schema, error) {
	baseURI, anchor := splitRef(ref)

	r.mu.RLock()
	schema, exists := r.schemas[baseURI]
	r.mu.RUnlock()

	if exists {
		if baseURI == ref {
			return schema, nil
		}
		return schema.resolveAnchor(anchor)
	}

	return r.resolveSchemaURL(ref)
}

func (r *Registry) resolveSchemaURL(ref string) (*Schema, error) {
	id, anchor := splitRef(ref)

	r.mu.RLock()
	schema, exists := r.schemas[id]
	r.mu.RUnlock()
	if exists {
		return schema, nil
	}

	loader, ok := r.Loaders[getURLScheme(id)]
	if !ok {
		return nil, ErrNoLoaderRegistered
	}

	body, err := loader(id)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, ErrDataRead
	}

	compiled, err := r.Compile(data, id)
	if err != nil {
		return nil, err
	}
	if anchor != "" {
		return compiled.resolveAnchor(anchor)
	}
	return compiled, nil
}

// resolveExternal loads externalURI (resolved against baseURI when
// relative) and, if fragment is non-empty, resolves that fragment
// (anchor or JSON Pointer) within the loaded schema. This is the
// external-$ref half of expandRef (spec 4.C step 1).
func (r *Registry) resolveExternal(baseURI, externalURI, fragment string) (*Schema, error) {
	uri := externalURI
	if !isAbsoluteURI(uri) && baseURI != "" {
		uri = resolveRelativeURI(baseURI, uri)
	}

	schema, err := r.GetSchema(uri)
	if err != nil {
		return nil, err
	}
	if fragment == "" {
		return schema, nil
	}
	if isJSONPointer(fragment) {
		return schema.resolveJSONPointer(fragment)
	}
	return schema.resolveAnchor(strings.TrimPrefix(fragment, "#"))
}

// SetDefaultBaseURI sets the base URI relative references resolve
// against when a schema has none of its own.
func (r *Registry) SetDefaultBaseURI(baseURI string) *Registry {
	r.DefaultBaseURI = baseURI
	return r
}

// SetAssertFormat toggles whether format mismatches are reported as
// problems (true) or silently ignored as annotations (false, default).
func (r *Registry) SetAssertFormat(assert bool) *Registry {
	r.AssertFormat = assert
	return r
}

// RegisterFormat installs a custom format validator, optionally scoped
// to one instance type.
func (r *Registry) RegisterFormat(name string, validator func(any) bool, typeName ...string) *Registry {
	r.customFormatsRW.Lock()
	defer r.customFormatsRW.Unlock()
	var t string
	if len(typeName) > 0 {
		t = typeName[0]
	}
	r.customFormats[name] = &FormatDef{Type: t, Validate: validator}
	return r
}

// UnregisterFormat removes a custom format.
func (r *Registry) UnregisterFormat(name string) *Registry {
	r.customFormatsRW.Lock()
	defer r.customFormatsRW.Unlock()
	delete(r.customFormats, name)
	return r
}

// RegisterDecoder adds a contentEncoding decoder (e.g. "base64").
func (r *Registry) RegisterDecoder(name string, fn func(string) ([]byte, error)) *Registry {
	r.Decoders[name] = fn
	return r
}

// RegisterMediaType adds a contentMediaType unmarshaller.
func (r *Registry) RegisterMediaType(name string, fn func([]byte) (any, error)) *Registry {
	r.MediaTypes[name] = fn
	return r
}

// RegisterLoader adds a schema loader for a URI scheme.
func (r *Registry) RegisterLoader(scheme string, fn func(url string) (io.ReadCloser, error)) *Registry {
	r.Loaders[scheme] = fn
	return r
}

// RegisterDefaultFunc registers a named dynamic-default generator.
func (r *Registry) RegisterDefaultFunc(name string, fn DefaultFunc) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultFuncs[name] = fn
	return r
}

func (r *Registry) getDefaultFunc(name string) (DefaultFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.defaultFuncs[name]
	return fn, ok
}

// RegisterCustomSchemaProvider installs the priority-3 custom provider
// callback (spec 4.D / 6).
func (r *Registry) RegisterCustomSchemaProvider(provider CustomSchemaProvider) *Registry {
	r.mu.Lock()
	r.provider = provider
	r.mu.Unlock()
	return r
}

// RegisterExternal inserts or replaces a schema handle and associates
// file-match patterns with it (spec 4.D register_external).
func (r *Registry) RegisterExternal(uri string, patterns []string, inlineSchema *Schema, priority int) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inlineSchema != nil {
		r.schemas[uri] = inlineSchema
	}
	for _, pattern := range patterns {
		r.associations = append(r.associations, &FilePatternAssociation{Pattern: pattern, URI: uri, Priority: priority})
	}
	delete(r.resolvedCache, uri)
	return r
}

// AddPriority accumulates a priority a schema was advertised with (a
// schema can be registered more than once, at different priorities).
func (r *Registry) AddPriority(uri string, priority int) *Registry {
	r.mu.Lock()
	r.priorities[uri] = append(r.priorities[uri], priority)
	r.mu.Unlock()
	return r
}

// SetContributions installs a default set of schemas/associations that
// survive a future ClearExternal (spec 4.D set_contributions).
func (r *Registry) SetContributions(schemas map[string]*Schema, associations []*FilePatternAssociation) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	for uri, schema := range schemas {
		r.schemas[uri] = schema
	}
	r.associations = append(r.associations, associations...)
	return r
}

// OnResourceChange invalidates the memoised resolution for uri so the
// next ResolveForResource call retries rather than reusing a cached
// resolution error (spec 4.D failure-mode retry policy).
func (r *Registry) OnResourceChange(uri string) {
	r.mu.Lock()
	delete(r.resolvedCache, uri)
	r.mu.Unlock()
}

// ResolveForResource implements spec 4.D's resolve_for_resource: it
// picks the schema that applies to a document by the five-level
// priority order, caching the (possibly error-bearing) result so that
// network/file failures don't re-fire on every keystroke — only an
// explicit OnResourceChange clears the cache.
func (r *Registry) ResolveForResource(fileURI, text string, doc *Node) (*ResolvedSchema, error) {
	r.mu.RLock()
	if cached, ok := r.resolvedCache[fileURI]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	resolved := r.resolveForResourceUncached(fileURI, text, doc)

	r.mu.Lock()
	r.resolvedCache[fileURI] = resolved
	r.mu.Unlock()

	return resolved, nil
}

func (r *Registry) resolveForResourceUncached(fileURI, text string, doc *Node) *ResolvedSchema {
	// 1. Modeline.
	if ref := findModeline(text); ref != "" {
		return r.loadResolved(fileURI, []string{ref})
	}

	// 2. $schema property at the document root (object documents only).
	if doc != nil && doc.Kind == KindObject {
		if prop := doc.Property("$schema"); prop != nil && prop.Value != nil && prop.Value.Kind == KindString {
			return r.loadResolved(fileURI, []string{prop.Value.StrValue})
		}
	}

	// 3. Custom provider callback.
	r.mu.RLock()
	provider := r.provider
	r.mu.RUnlock()
	if provider != nil {
		if refs, err := provider(fileURI); err == nil && len(refs) > 0 {
			return r.loadResolved(fileURI, refs)
		} else if err != nil {
			return &ResolvedSchema{URI: fileURI, ResolutionErrors: []error{err}}
		}
	}

	// 4. File-pattern associations, ranked by priority; ties combine via allOf.
	if uris := r.matchingAssociationURIs(fileURI); len(uris) > 0 {
		return r.loadResolved(fileURI, uris)
	}

	// 5. Kubernetes GVK auto-detect.
	if group, version, kind, ok := detectGVK(doc); ok {
		typeName := kubernetesGVKTypeName(group, version, kind)
		if !r.kubernetesSchemaDefinesGVK(typeName) {
			openShift := strings.EqualFold(group, "config.openshift.io") || strings.Contains(strings.ToLower(group), "openshift")
			crdURL := kubernetesCRDURL(r.KubernetesCatalog, group, version, kind, openShift)
			return r.loadResolved(fileURI, []string{crdURL})
		}
	}

	return &ResolvedSchema{URI: fileURI}
}

// matchingAssociationURIs returns the schema URIs whose file-match
// pattern matches fileURI, ordered highest-priority first; equal
// priorities are both returned so the caller combines them via allOf.
func (r *Registry) matchingAssociationURIs(fileURI string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type match struct {
		uri      string
		priority int
	}
	var matches []match
	for _, assoc := range r.associations {
		if assoc.matches(fileURI) {
			matches = append(matches, match{assoc.URI, assoc.Priority})
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].priority > matches[j].priority })

	top := matches[0].priority
	var uris []string
	seen := map[string]bool{}
	for _, m := range matches {
		if m.priority != top {
			break
		}
		if seen[m.uri] {
			continue
		}
		seen[m.uri] = true
		uris = append(uris, m.uri)
	}
	return uris
}

func (r *Registry) kubernetesSchemaDefinesGVK(typeName string) bool {
	if r.KubernetesSchemaURI == "" {
		return false
	}
	schema, err := r.GetSchema(r.KubernetesSchemaURI)
	if err != nil || schema == nil {
		return false
	}
	for _, branch := range schema.OneOf {
		if branch != nil && strings.HasSuffix(branch.Ref, typeName) {
			return true
		}
	}
	return false
}

// loadResolved loads one or more schema URIs and, for more than one,
// combines them via the synthetic allOf schema spec 4.C describes.
func (r *Registry) loadResolved(fileURI string, refs []string) *ResolvedSchema {
	if len(refs) == 1 {
		schema, err := r.GetSchema(refs[0])
		if err != nil {
			return &ResolvedSchema{URI: fileURI, ResolutionErrors: []error{err}}
		}
		return &ResolvedSchema{Schema: schema, URI: refs[0]}
	}

	combined := combinedSchema(fileURI, refs)
	combined.initializeSchema(r, nil)
	return &ResolvedSchema{Schema: combined, URI: fileURI}
}
