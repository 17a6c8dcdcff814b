package state

import "unicode"

// MaxSensorFanout caps how many extracted sensor tags the maintenance and
// sensor agents will query, to bound fan-out per run.
const MaxSensorFanout = 10

// ExtractSensorTags pulls candidate sensor identifiers out of the graph
// agent's result rows. Query results use aliased column names, so several
// field-name conventions are probed in priority order: an exact tag column
// ("s.tag" or "tag"), a name column ("s.name", or "name" when the value
// contains a digit), and a nested properties map carrying a "tag" key.
// Duplicates are removed preserving first-seen order, and the list is
// capped at MaxSensorFanout.
func ExtractSensorTags(graphResult map[string]interface{}) []string {
	if graphResult == nil {
		return nil
	}
	rows, ok := graphResult["results"].([]map[string]interface{})
	if !ok {
		// results decoded from JSON arrive as []interface{}
		raw, ok := graphResult["results"].([]interface{})
		if !ok {
			return nil
		}
		rows = make([]map[string]interface{}, 0, len(raw))
		for _, item := range raw {
			if m, ok := item.(map[string]interface{}); ok {
				rows = append(rows, m)
			}
		}
	}

	var tags []string
	seen := make(map[string]struct{})
	add := func(tag string) {
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, row := range rows {
		if tag, ok := row["s.tag"].(string); ok {
			add(tag)
		} else if tag, ok := row["tag"].(string); ok {
			add(tag)
		} else if name, ok := row["s.name"].(string); ok {
			add(name)
		} else if name, ok := row["name"].(string); ok {
			if containsDigit(name) {
				add(name)
			}
		}

		if props, ok := row["properties"].(map[string]interface{}); ok {
			if tag, ok := props["tag"].(string); ok {
				add(tag)
			}
		}
	}

	if len(tags) > MaxSensorFanout {
		tags = tags[:MaxSensorFanout]
	}
	return tags
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
