package yamlls

// SchemaMatch is one {node, schema} pair the validator visited. Inverted
// marks a match reached through a "not" subschema, so completion/hover
// callers know the schema describes what must *not* match rather than
// what should.
type SchemaMatch struct {
	Node     *Node
	Schema   *Schema
	Inverted bool
}

// SchemaCollector records every {node, schema} pair the validator visits,
// optionally filtered to a single focus offset. Completion and hover
// (component G) use it to find which schema(s) apply at the cursor.
type SchemaCollector struct {
	focusOffset int
	hasFocus    bool
	exclude     *Node
	matches     []SchemaMatch
}

// NewSchemaCollector returns a collector that records every visited pair.
func NewSchemaCollector() *SchemaCollector {
	return &SchemaCollector{}
}

// NewFocusedSchemaCollector returns a collector that only records pairs
// whose node contains focusOffset (right-bound inclusive, matching
// cursor semantics), skipping the excluded node if given.
func NewFocusedSchemaCollector(focusOffset int, exclude *Node) *SchemaCollector {
	return &SchemaCollector{focusOffset: focusOffset, hasFocus: true, exclude: exclude}
}

// Add records a visited {node, schema} pair, subject to the collector's
// focus filter.
func (c *SchemaCollector) Add(node *Node, schema *Schema, inverted bool) {
	if c == nil || node == nil {
		return
	}
	if c.exclude != nil && node == c.exclude {
		return
	}
	if c.hasFocus && !node.Contains(c.focusOffset, true) {
		return
	}
	c.matches = append(c.matches, SchemaMatch{Node: node, Schema: schema, Inverted: inverted})
}

// Matches returns every recorded pair.
func (c *SchemaCollector) Matches() []SchemaMatch {
	if c == nil {
		return nil
	}
	return c.matches
}

// newSub returns a fresh collector sharing this collector's focus filter,
// used when validating an alternative arm into an isolated sub-collector
// before deciding whether to keep its contributions (spec 4.E
// testAlternatives).
func (c *SchemaCollector) newSub() *SchemaCollector {
	if c == nil {
		return NewSchemaCollector()
	}
	return &SchemaCollector{focusOffset: c.focusOffset, hasFocus: c.hasFocus, exclude: c.exclude}
}

// merge appends sub's matches into c, used once an alternative arm is
// accepted as (one of) the best match.
func (c *SchemaCollector) merge(sub *SchemaCollector) {
	if c == nil || sub == nil {
		return
	}
	c.matches = append(c.matches, sub.matches...)
}
