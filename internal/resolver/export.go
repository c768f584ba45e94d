package resolver

import (
	"context"

	"AdminAPI/internal/query"
)

// Export renders every record matching the request, ignoring pagination. The format
// parameter selects csv (default) or json.
func (r *Resolver) Export(ctx context.Context, req Request) (*query.ExportResult, error) {
	params := cloneParams(req.Params)
	format, err := query.ParseFormat(first(params, "format"))
	if err != nil {
		return nil, err
	}
	delete(params, "format")
	req.Params = params

	ep, spec, records, err := r.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	selected, err := r.expand(ctx, tenantOf(req), ep, query.Select(records, spec), spec.Expand)
	if err != nil {
		return nil, err
	}
	sel := selectionWithExpand(spec)
	rows := query.ProjectAll(selected, sel)

	columns := []string(ep.Export.Columns)
	if len(columns) == 0 {
		columns = sel.Include
	}
	return query.Export(rows, format, columns, ep.ExportName(), r.now())
}

func cloneParams(params map[string][]string) map[string][]string {
	out := make(map[string][]string, len(params))
	for k, v := range params {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func first(params map[string][]string, key string) string {
	if v := params[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
