package domain

// MergePages merges incoming site-content pages into the existing sequence.
// The merge is additive: existing pages absent from the incoming payload stay
// untouched. Pages are matched by PageIdentity; on a match the incoming page's
// top-level fields win, except that empty or missing sections/images arrays
// keep the existing arrays, so a partial update from the page editor cannot
// silently wipe blocks it did not send. A caller that genuinely wants to
// clear all sections of a page has no way to express that through this path;
// see DESIGN.md.
func MergePages(existing, incoming ResourceList) ResourceList {
	incomingByID := map[string]map[string]any{}
	consumed := map[string]bool{}
	for _, item := range incoming {
		if id := PageIdentity(item); id != "" {
			if page, ok := item.(map[string]any); ok {
				incomingByID[id] = page
			}
		}
	}

	merged := make(ResourceList, 0, len(existing)+len(incoming))
	for _, item := range existing {
		id := PageIdentity(item)
		if id == "" {
			merged = append(merged, item)
			continue
		}
		replacement, ok := incomingByID[id]
		if !ok {
			merged = append(merged, item)
			continue
		}
		consumed[id] = true
		if current, ok := item.(map[string]any); ok {
			merged = append(merged, mergePage(current, replacement))
		} else {
			merged = append(merged, replacement)
		}
	}

	for _, item := range incoming {
		id := PageIdentity(item)
		if id != "" && consumed[id] {
			continue
		}
		merged = append(merged, item)
	}
	return merged
}

func mergePage(existing, incoming map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		if k == "sections" || k == "images" {
			if blocks, ok := v.([]any); !ok || len(blocks) == 0 {
				continue
			}
		}
		out[k] = v
	}
	return out
}

// MergeStruct applies an incoming composite document onto the current one.
// Resources merge key by key, each incoming sequence overwriting the current
// one; resources the incoming document does not mention stay as they are.
// Versioning metadata is stamped at persist time, not here.
func MergeStruct(current *ContentStruct, incoming ContentStruct) {
	Normalize(current)
	for id, list := range incoming.Resources {
		if list == nil {
			continue
		}
		current.Resources[id] = list
	}
}
