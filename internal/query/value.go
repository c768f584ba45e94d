package query

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Record is one semi-structured item of a collection. Values are expected to be
// normalized (see Normalize) so that every value falls into one Kind.
type Record = map[string]any

// Kind is the closed set of value shapes a normalized record may hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindTime
	KindList
	KindMap
	KindOther
)

// KindOf classifies a value. Unnormalized numeric types are still reported as numbers.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return KindNumber
	case string:
		return KindString
	case time.Time:
		return KindTime
	case []any:
		return KindList
	case map[string]any:
		return KindMap
	default:
		return KindOther
	}
}

// Normalize converts decoder output into the closed set of kinds: integers become
// int64, other numbers float64, typed slices []any and typed maps map[string]any.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil, bool, string, int64, float64, time.Time:
		return t
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return float64(t)
		}
		return int64(t)
	case float32:
		return float64(t)
	case json.Number:
		return normalizeNumber(string(t))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Normalize(item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = item
		}
		return out
	default:
		return t
	}
}

// NormalizeRecord returns a normalized copy of r.
func NormalizeRecord(r Record) Record {
	if r == nil {
		return nil
	}
	return Normalize(map[string]any(r)).(map[string]any)
}

func normalizeNumber(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// toFloat reports the numeric value of v. Numeric strings are accepted when
// allowString is set.
func toFloat(v any, allowString bool) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		if !allowString {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// Stringify renders a value the way search, CSV cells and group keys see it.
// Lists are joined with commas, maps are rendered as compact JSON.
func Stringify(v any) string {
	switch KindOf(v) {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.(bool))
	case KindNumber:
		switch t := v.(type) {
		case int64:
			return strconv.FormatInt(t, 10)
		case int:
			return strconv.Itoa(t)
		case json.Number:
			return t.String()
		}
		f, _ := toFloat(v, false)
		return strconv.FormatFloat(f, 'f', -1, 64)
	case KindString:
		return v.(string)
	case KindTime:
		return v.(time.Time).UTC().Format(time.RFC3339)
	case KindList:
		items := v.([]any)
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case KindMap:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return strings.Trim(string(data), `"`)
	}
}

// TimeOf interprets a record value as a point in time: time values, date strings, or
// numbers as epoch milliseconds.
func TimeOf(v any) (time.Time, bool) {
	return parseTimeValue(v)
}

func parseTimeValue(v any) (time.Time, bool) {
	switch KindOf(v) {
	case KindTime:
		return v.(time.Time), true
	case KindString:
		t, _, err := parseDate(v.(string))
		return t, err == nil
	case KindNumber:
		// epoch milliseconds, as written by most JS clients
		f, _ := toFloat(v, false)
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Time{}, false
}

// equalValues is the loose equality used by eq/ne/in/nin.
func equalValues(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka == KindNull || kb == KindNull {
		return ka == kb
	}
	if ka == KindNumber || kb == KindNumber {
		fa, okA := toFloat(a, true)
		fb, okB := toFloat(b, true)
		return okA && okB && fa == fb
	}
	if ka == KindTime || kb == KindTime {
		ta, okA := parseTimeValue(a)
		tb, okB := parseTimeValue(b)
		return okA && okB && ta.Equal(tb)
	}
	if ka != kb {
		return Stringify(a) == Stringify(b)
	}
	switch ka {
	case KindBool:
		return a.(bool) == b.(bool)
	case KindString:
		return a.(string) == b.(string)
	default:
		return Stringify(a) == Stringify(b)
	}
}

// orderValues compares two present values for range filters. ok is false when the
// kinds are not comparable.
func orderValues(a, b any) (int, bool) {
	ka, kb := KindOf(a), KindOf(b)
	switch {
	case ka == KindNumber || kb == KindNumber:
		fa, okA := toFloat(a, true)
		fb, okB := toFloat(b, true)
		if !okA || !okB {
			return 0, false
		}
		return compareFloat(fa, fb), true
	case ka == KindTime || kb == KindTime:
		ta, okA := parseTimeValue(a)
		tb, okB := parseTimeValue(b)
		if !okA || !okB {
			return 0, false
		}
		return ta.Compare(tb), true
	case ka == KindString && kb == KindString:
		return strings.Compare(a.(string), b.(string)), true
	case ka == KindBool && kb == KindBool:
		return compareBool(a.(bool), b.(bool)), true
	}
	return 0, false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
