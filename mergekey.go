package yamlls

// expandMergeKeys implements the YAML merge key (`<<`) pre-processing
// step spec 4.E requires before an Object node is validated: `<<: *anchor`
// splices the referenced mapping's entries into the parent, `<<: [*a, *b]`
// splices each in turn, and the result replaces duplicate keys produced by
// the merge rather than treating them as an error (the validator then
// checks against this expanded shape). Idempotent: running it again on an
// already-expanded property list is a no-op because no `<<` key remains.
func expandMergeKeys(properties []*Node) []*Node {
	hasMergeKey := false
	for _, p := range properties {
		if p.Kind == KindProperty && p.Key != nil && p.Key.StrValue == "<<" {
			hasMergeKey = true
			break
		}
	}
	if !hasMergeKey {
		return properties
	}

	seen := make(map[string]bool, len(properties))
	expanded := make([]*Node, 0, len(properties))

	// Non-merge keys win over anything a merge would contribute, so record
	// them first regardless of source order.
	for _, p := range properties {
		if p.Kind != KindProperty || p.Key == nil || p.Key.StrValue == "<<" {
			continue
		}
		seen[p.Key.StrValue] = true
	}

	for _, p := range properties {
		if p.Kind != KindProperty || p.Key == nil {
			continue
		}
		if p.Key.StrValue != "<<" {
			expanded = append(expanded, p)
			continue
		}
		for _, merged := range mergeKeySources(p.Value) {
			for _, mp := range merged.Properties() {
				if mp.Kind != KindProperty || mp.Key == nil {
					continue
				}
				if seen[mp.Key.StrValue] {
					continue
				}
				seen[mp.Key.StrValue] = true
				expanded = append(expanded, mp)
			}
		}
	}

	return expanded
}

// mergeKeySources resolves the value of a `<<` entry to the one or more
// object nodes it contributes — a single map, or a sequence of maps.
func mergeKeySources(value *Node) []*Node {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case KindObject:
		return []*Node{value}
	case KindArray:
		var out []*Node
		for _, item := range value.Items() {
			if item.Kind == KindObject {
				out = append(out, item)
			}
		}
		return out
	default:
		return nil
	}
}
