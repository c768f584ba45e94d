package query

import "strings"

// MatchFilters reports whether record satisfies every condition of every field.
func MatchFilters(record Record, filters Filters) bool {
	for field, conds := range filters {
		value, ok := present(record, field)
		for _, cond := range conds {
			if !matchCondition(value, ok, cond) {
				return false
			}
		}
	}
	return true
}

// matchCondition evaluates one condition. ok is false when the field is absent or
// null; such values only satisfy ne/nin against non-null values and eq/in with null.
func matchCondition(value any, ok bool, cond Condition) bool {
	switch cond.Op {
	case OpEq:
		if !ok {
			return cond.Value == nil
		}
		return equalValues(value, cond.Value)
	case OpNe:
		if !ok {
			return cond.Value != nil
		}
		return !equalValues(value, cond.Value)
	case OpIn:
		return inList(value, ok, cond.Value)
	case OpNin:
		return !inList(value, ok, cond.Value)
	case OpGt, OpGte, OpLt, OpLte:
		if !ok {
			return false
		}
		c, comparable := orderValues(value, cond.Value)
		if !comparable {
			return false
		}
		switch cond.Op {
		case OpGt:
			return c > 0
		case OpGte:
			return c >= 0
		case OpLt:
			return c < 0
		default:
			return c <= 0
		}
	case OpLike:
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(Stringify(value)), strings.ToLower(Stringify(cond.Value)))
	}
	return false
}

func inList(value any, ok bool, list any) bool {
	items, isList := list.([]any)
	if !isList {
		items = []any{list}
	}
	for _, item := range items {
		if !ok {
			if item == nil {
				return true
			}
			continue
		}
		if equalValues(value, item) {
			return true
		}
	}
	return false
}

// MatchDateRange reports whether the value at dr.Field falls within the range.
// Records without a parsable date are excluded.
func MatchDateRange(record Record, dr *DateRange) bool {
	if dr == nil {
		return true
	}
	value, ok := present(record, dr.Field)
	if !ok {
		return false
	}
	t, ok := parseTimeValue(value)
	if !ok {
		return false
	}
	if dr.Start != nil && t.Before(*dr.Start) {
		return false
	}
	if dr.End != nil && t.After(*dr.End) {
		return false
	}
	return true
}

// Filter returns the records accepted by filters and the date range, in input order.
func Filter(records []Record, filters Filters, dr *DateRange) []Record {
	if len(filters) == 0 && dr == nil {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if MatchFilters(r, filters) && MatchDateRange(r, dr) {
			out = append(out, r)
		}
	}
	return out
}
