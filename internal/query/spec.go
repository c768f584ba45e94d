package query

import "time"

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortField is one key of a multi-key sort.
type SortField struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Pagination is the requested page window.
type Pagination struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// SearchMode selects how the free-text query is compared to field values.
type SearchMode string

const (
	ModeContains SearchMode = "contains"
	ModeExact    SearchMode = "exact"
	ModeStarts   SearchMode = "starts"
	ModeEnds     SearchMode = "ends"
)

// Search is a free-text query over candidate field paths. Empty Fields means every
// top-level key of the record.
type Search struct {
	Query  string     `json:"query"`
	Fields []string   `json:"fields,omitempty"`
	Mode   SearchMode `json:"mode"`
}

// Operator is a filter comparison.
type Operator string

const (
	OpEq   Operator = "eq"
	OpNe   Operator = "ne"
	OpGt   Operator = "gt"
	OpGte  Operator = "gte"
	OpLt   Operator = "lt"
	OpLte  Operator = "lte"
	OpIn   Operator = "in"
	OpNin  Operator = "nin"
	OpLike Operator = "like"
)

// filterOperators are the operators recognized in bracket and underscore-suffix keys.
var filterOperators = map[string]Operator{
	"gt":   OpGt,
	"gte":  OpGte,
	"lt":   OpLt,
	"lte":  OpLte,
	"ne":   OpNe,
	"in":   OpIn,
	"nin":  OpNin,
	"like": OpLike,
}

// Condition is one predicate on a field. Value is a []any for in/nin.
type Condition struct {
	Op    Operator `json:"op"`
	Value any      `json:"value"`
}

// Filters maps a field path to the conditions that must all hold. A literal filter is
// a single eq condition, a list of values a single in condition.
type Filters map[string][]Condition

// Selection is the field projection. Include wins when both are set.
type Selection struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// Empty reports whether the selection leaves records untouched.
func (s Selection) Empty() bool {
	return len(s.Include) == 0 && len(s.Exclude) == 0
}

// DateRange restricts Field to [Start, End]; either bound may be nil.
type DateRange struct {
	Field string     `json:"field"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Spec is the normalized, validated form of a list/search/export request.
type Spec struct {
	Pagination Pagination  `json:"pagination"`
	Sort       []SortField `json:"sort"`
	Search     *Search     `json:"search,omitempty"`
	Filters    Filters     `json:"filters,omitempty"`
	Selection  Selection   `json:"selection"`
	Expand     []string    `json:"expand,omitempty"`
	DateRange  *DateRange  `json:"dateRange,omitempty"`
}
