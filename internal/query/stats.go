package query

import "strings"

// UnknownGroup labels records missing a grouped field.
const UnknownGroup = "unknown"

// GroupCounts counts value occurrences for each grouping key. A key is a field path or
// several paths joined by "|", in which case the counted value is the combination of
// the resolved values joined by "|".
func GroupCounts(records []Record, fields []string) map[string]map[string]int {
	out := make(map[string]map[string]int, len(fields))
	for _, key := range fields {
		paths := strings.Split(key, "|")
		counts := map[string]int{}
		parts := make([]string, len(paths))
		for _, r := range records {
			for i, path := range paths {
				parts[i] = groupValue(r, strings.TrimSpace(path))
			}
			counts[strings.Join(parts, "|")]++
		}
		out[key] = counts
	}
	return out
}

func groupValue(r Record, path string) string {
	v, ok := present(r, path)
	if !ok {
		return UnknownGroup
	}
	return Stringify(v)
}
