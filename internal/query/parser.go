package query

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// reservedParams are never treated as filters.
var reservedParams = map[string]bool{
	"page":         true,
	"limit":        true,
	"offset":       true,
	"sortBy":       true,
	"order":        true,
	"q":            true,
	"search":       true,
	"searchFields": true,
	"searchMode":   true,
	"fields":       true,
	"exclude":      true,
	"expand":       true,
	"include":      true,
	"startDate":    true,
	"endDate":      true,
	"dateField":    true,
}

var (
	intPattern   = regexp.MustCompile(`^\d+$`)
	floatPattern = regexp.MustCompile(`^\d+\.\d+$`)
)

// Parse turns raw query inputs into a validated Spec. Sort and filter fields outside a
// non-empty allow-list are rejected; search fields and expansions outside their
// allow-lists are dropped.
func Parse(raw url.Values, cfg *Config) (*Spec, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if raw == nil {
		raw = url.Values{}
	}

	pagination, err := parsePagination(raw, cfg)
	if err != nil {
		return nil, err
	}
	sorts, err := parseSort(raw, cfg)
	if err != nil {
		return nil, err
	}
	search, err := parseSearch(raw, cfg)
	if err != nil {
		return nil, err
	}
	filters, err := parseFilters(raw, cfg)
	if err != nil {
		return nil, err
	}
	dateRange, err := parseDateRange(raw, cfg)
	if err != nil {
		return nil, err
	}

	return &Spec{
		Pagination: pagination,
		Sort:       sorts,
		Search:     search,
		Filters:    filters,
		Selection: Selection{
			Include: commaList(raw, "fields"),
			Exclude: commaList(raw, "exclude"),
		},
		Expand:    parseExpand(raw, cfg),
		DateRange: dateRange,
	}, nil
}

// ParseQueryString parses a raw URL query string.
func ParseQueryString(rawQuery string, cfg *Config) (*Spec, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, invalidf("", "malformed query string: %v", err)
	}
	return Parse(values, cfg)
}

func first(raw url.Values, key string) string {
	return strings.TrimSpace(raw.Get(key))
}

// commaList collects every value of key, split on commas, trimmed and de-duplicated.
func commaList(raw url.Values, key string) []string {
	var out []string
	for _, v := range raw[key] {
		out = append(out, splitComma(v)...)
	}
	return dedupe(out)
}

func splitComma(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

func parseInt(raw url.Values, key string) (int, bool, error) {
	v := first(raw, key)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, invalidf(key, "must be an integer, got %q", v)
	}
	return n, true, nil
}

func parsePagination(raw url.Values, cfg *Config) (Pagination, error) {
	p := Pagination{Page: 1, Limit: cfg.DefaultLimit}

	page, ok, err := parseInt(raw, "page")
	if err != nil {
		return p, err
	}
	if ok {
		p.Page = max(page, 1)
	}

	limit, ok, err := parseInt(raw, "limit")
	if err != nil {
		return p, err
	}
	if ok {
		p.Limit = min(max(limit, 1), cfg.MaxLimit)
	}

	offset, ok, err := parseInt(raw, "offset")
	if err != nil {
		return p, err
	}
	switch {
	case !ok:
		p.Offset = (p.Page - 1) * p.Limit
	case offset < 0:
		return p, invalidf("offset", "must not be negative, got %d", offset)
	default:
		// page metadata follows the window actually returned
		p.Offset = offset
		p.Page = offset/p.Limit + 1
	}
	return p, nil
}

// ParseDirection reads asc/desc, case-insensitive.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Asc, true
	case "desc", "descending":
		return Desc, true
	}
	return "", false
}

// sortFieldFromString reads "-name" (desc), "+name" (asc) or "name" (fallback).
func sortFieldFromString(s string, fallback Direction) SortField {
	switch {
	case strings.HasPrefix(s, "-"):
		return SortField{Field: strings.TrimSpace(s[1:]), Direction: Desc}
	case strings.HasPrefix(s, "+"):
		return SortField{Field: strings.TrimSpace(s[1:]), Direction: Asc}
	}
	return SortField{Field: s, Direction: fallback}
}

func parseSort(raw url.Values, cfg *Config) ([]SortField, error) {
	order := Asc
	if v := first(raw, "order"); v != "" {
		dir, ok := ParseDirection(v)
		if !ok {
			return nil, invalidf("order", "must be asc or desc, got %q", v)
		}
		order = dir
	}

	var sorts []SortField
	seen := map[string]bool{}
	for _, entry := range commaList(raw, "sortBy") {
		sf := sortFieldFromString(entry, order)
		if sf.Field == "" || seen[sf.Field] {
			continue
		}
		if !cfg.SortAllowed(sf.Field) {
			return nil, invalidf("sortBy", "field %q is not sortable", sf.Field)
		}
		seen[sf.Field] = true
		sorts = append(sorts, sf)
	}
	if len(sorts) > 0 {
		return sorts, nil
	}
	if len(cfg.DefaultSort) > 0 {
		return append([]SortField(nil), cfg.DefaultSort...), nil
	}
	return []SortField{{Field: DefaultSortField, Direction: Desc}}, nil
}

// ParseSortList parses a sortBy-style list such as "-createdAt,name".
func ParseSortList(s string) []SortField {
	var out []SortField
	for _, entry := range splitComma(s) {
		if sf := sortFieldFromString(entry, Asc); sf.Field != "" {
			out = append(out, sf)
		}
	}
	return out
}

func parseSearch(raw url.Values, cfg *Config) (*Search, error) {
	// q wins over search when both are given
	text := first(raw, "q")
	if text == "" {
		text = first(raw, "search")
	}
	if text == "" {
		return nil, nil
	}

	mode := ModeContains
	if v := first(raw, "searchMode"); v != "" {
		switch m := SearchMode(strings.ToLower(v)); m {
		case ModeContains, ModeExact, ModeStarts, ModeEnds:
			mode = m
		default:
			return nil, invalidf("searchMode", "must be one of contains, exact, starts, ends, got %q", v)
		}
	}

	var fields []string
	for _, f := range commaList(raw, "searchFields") {
		if cfg.SearchAllowed(f) {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		fields = cfg.SearchFields()
	}
	return &Search{Query: text, Fields: fields, Mode: mode}, nil
}

// parseFilterKey splits a filter key into field and operator. The bracket form
// field[op] is unambiguous; the suffix form field_op applies only to known operators.
func parseFilterKey(key string) (string, Operator, error) {
	if i := strings.Index(key, "["); i > 0 && strings.HasSuffix(key, "]") {
		field := key[:i]
		name := strings.ToLower(key[i+1 : len(key)-1])
		if name == string(OpEq) {
			return field, OpEq, nil
		}
		op, ok := filterOperators[name]
		if !ok {
			return "", "", unsupportedf(key, "unknown filter operator %q", name)
		}
		return field, op, nil
	}
	if i := strings.LastIndex(key, "_"); i > 0 && i < len(key)-1 {
		if op, ok := filterOperators[key[i+1:]]; ok {
			return key[:i], op, nil
		}
	}
	return key, OpEq, nil
}

// CoerceValue converts a raw string into bool, int64, float64, nil or string.
func CoerceValue(s string) any {
	switch {
	case s == "true":
		return true
	case s == "false":
		return false
	case s == "null":
		return nil
	case intPattern.MatchString(s):
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case floatPattern.MatchString(s):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func parseFilters(raw url.Values, cfg *Config) (Filters, error) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		if !reservedParams[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	filters := Filters{}
	for _, key := range keys {
		var values []any
		for _, v := range raw[key] {
			for _, part := range splitComma(v) {
				values = append(values, CoerceValue(part))
			}
		}
		if len(values) == 0 {
			continue
		}

		field, op, err := parseFilterKey(key)
		if err != nil {
			return nil, err
		}
		if !cfg.FilterAllowed(field) {
			return nil, invalidf(key, "field %q is not filterable", field)
		}

		cond, err := buildCondition(key, op, values)
		if err != nil {
			return nil, err
		}
		filters[field] = append(filters[field], cond)
	}
	if len(filters) == 0 {
		return nil, nil
	}
	return filters, nil
}

func buildCondition(key string, op Operator, values []any) (Condition, error) {
	switch op {
	case OpEq:
		if len(values) == 1 {
			return Condition{Op: OpEq, Value: values[0]}, nil
		}
		return Condition{Op: OpIn, Value: values}, nil
	case OpIn, OpNin:
		return Condition{Op: op, Value: values}, nil
	default:
		if len(values) > 1 {
			return Condition{}, invalidf(key, "operator %s expects a single value", op)
		}
		return Condition{Op: op, Value: values[0]}, nil
	}
}

func parseExpand(raw url.Values, cfg *Config) []string {
	names := dedupe(append(commaList(raw, "expand"), commaList(raw, "include")...))
	var out []string
	for _, name := range names {
		if cfg.ExpandAllowed(name) {
			out = append(out, name)
		}
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const dateOnlyLayout = "2006-01-02"

// parseDate accepts RFC3339, local datetime and date-only forms, all read as UTC.
func parseDate(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t, false, nil
		}
	}
	if t, err = time.Parse(dateOnlyLayout, s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("unrecognized date %q", s)
}

func parseDateRange(raw url.Values, cfg *Config) (*DateRange, error) {
	startRaw, endRaw := first(raw, "startDate"), first(raw, "endDate")
	if startRaw == "" && endRaw == "" {
		return nil, nil
	}

	// an explicit dateField must be filterable; the createdAt default always is
	field := first(raw, "dateField")
	if field == "" {
		field = DefaultSortField
	} else if !cfg.FilterAllowed(field) {
		return nil, invalidf("dateField", "field %q is not filterable", field)
	}

	dr := &DateRange{Field: field}
	if startRaw != "" {
		start, _, err := parseDate(startRaw)
		if err != nil {
			return nil, invalidf("startDate", "invalid date %q", startRaw)
		}
		dr.Start = &start
	}
	if endRaw != "" {
		end, dateOnly, err := parseDate(endRaw)
		if err != nil {
			return nil, invalidf("endDate", "invalid date %q", endRaw)
		}
		if dateOnly {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		dr.End = &end
	}
	if dr.Start != nil && dr.End != nil && dr.Start.After(*dr.End) {
		return nil, invalidf("startDate", "must not be after endDate")
	}
	return dr, nil
}
