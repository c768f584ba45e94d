package query

// Result is a processed list page.
type Result struct {
	Data       []Record `json:"data"`
	Pagination PageMeta `json:"pagination"`
}

// Select runs the search, filter and sort stages and returns every matching record
// in order. Export and stats work on this selection.
func Select(records []Record, spec *Spec) []Record {
	if spec == nil {
		return Sort(records, nil)
	}
	selected := SearchRecords(records, spec.Search)
	selected = Filter(selected, spec.Filters, spec.DateRange)
	return Sort(selected, spec.Sort)
}

// Apply runs the whole pipeline: search, filter, sort, paginate and project.
func Apply(records []Record, spec *Spec) Result {
	if spec == nil {
		spec = &Spec{Pagination: Pagination{Page: 1, Limit: DefaultLimit}}
	}
	page, meta := Paginate(Select(records, spec), spec.Pagination)
	data := ProjectAll(page, spec.Selection)
	if data == nil {
		data = []Record{}
	}
	return Result{Data: data, Pagination: meta}
}

// Run parses raw and applies the result to records.
func Run(records []Record, raw map[string][]string, cfg *Config) (Result, error) {
	spec, err := Parse(raw, cfg)
	if err != nil {
		return Result{}, err
	}
	return Apply(records, spec), nil
}
