package query

import "strings"

// MatchSearch reports whether any candidate field of record matches s. A nil search
// matches everything.
func MatchSearch(record Record, s *Search) bool {
	if s == nil {
		return true
	}
	needle := strings.ToLower(s.Query)

	fields := s.Fields
	if len(fields) == 0 {
		fields = sortedKeys(record)
	}
	for _, field := range fields {
		value, ok := present(record, field)
		if !ok {
			continue
		}
		if matchValue(value, needle, s.Mode) {
			return true
		}
	}
	return false
}

// matchValue matches scalars by their text. Lists and maps match when one of their
// scalar leaves does, so map keys and JSON punctuation are never searched.
func matchValue(v any, needle string, mode SearchMode) bool {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if matchValue(item, needle, mode) {
				return true
			}
		}
		return false
	case map[string]any:
		for _, item := range t {
			if matchValue(item, needle, mode) {
				return true
			}
		}
		return false
	}
	return matchText(strings.ToLower(Stringify(v)), needle, mode)
}

func matchText(haystack, needle string, mode SearchMode) bool {
	switch mode {
	case ModeExact:
		return haystack == needle
	case ModeStarts:
		return strings.HasPrefix(haystack, needle)
	case ModeEnds:
		return strings.HasSuffix(haystack, needle)
	default:
		return strings.Contains(haystack, needle)
	}
}

// SearchRecords returns the records matched by s, in input order.
func SearchRecords(records []Record, s *Search) []Record {
	if s == nil {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if MatchSearch(r, s) {
			out = append(out, r)
		}
	}
	return out
}
