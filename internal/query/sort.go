package query

import (
	"slices"
	"strings"
	"time"
)

// Compare orders a and b by sorts, returning -1, 0 or 1. Keys are compared in order
// and the first difference wins. A record missing a key (or holding null) sorts after
// every record that has it, in both directions.
func Compare(a, b Record, sorts []SortField) int {
	for _, sf := range sorts {
		va, okA := present(a, sf.Field)
		vb, okB := present(b, sf.Field)
		switch {
		case !okA && !okB:
			continue
		case !okA:
			return 1
		case !okB:
			return -1
		}
		c := compareSortValues(va, vb)
		if c == 0 {
			continue
		}
		if sf.Direction == Desc {
			return -c
		}
		return c
	}
	return 0
}

// kindRank orders values of different kinds against each other.
func kindRank(k Kind) int {
	switch k {
	case KindBool:
		return 0
	case KindNumber:
		return 1
	case KindTime:
		return 2
	case KindString:
		return 3
	case KindList:
		return 4
	case KindMap:
		return 5
	default:
		return 6
	}
}

func compareSortValues(a, b any) int {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		if ka == KindTime || kb == KindTime {
			if c, ok := orderValues(a, b); ok {
				return c
			}
		}
		return compareFloat(float64(kindRank(ka)), float64(kindRank(kb)))
	}
	switch ka {
	case KindBool:
		return compareBool(a.(bool), b.(bool))
	case KindNumber:
		fa, _ := toFloat(a, false)
		fb, _ := toFloat(b, false)
		return compareFloat(fa, fb)
	case KindTime:
		return a.(time.Time).Compare(b.(time.Time))
	case KindString:
		return strings.Compare(a.(string), b.(string))
	default:
		return strings.Compare(Stringify(a), Stringify(b))
	}
}

// Sort returns a stably sorted copy of records; the input slice is not reordered.
func Sort(records []Record, sorts []SortField) []Record {
	out := slices.Clone(records)
	if len(sorts) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		return Compare(a, b, sorts)
	})
	return out
}
