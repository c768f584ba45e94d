package resolver

import (
	"context"
	"fmt"
	"strings"

	"AdminAPI/internal/endpoint"
	"AdminAPI/internal/query"
)

// Stats counts the records matching the request by the groupBy keys. Without groupBy
// every configured stats field is counted. Pagination, sort and projection parameters
// do not change the result.
func (r *Resolver) Stats(ctx context.Context, req Request) (*StatsResult, error) {
	params := cloneParams(req.Params)
	var keys []string
	for _, v := range params["groupBy"] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				keys = append(keys, part)
			}
		}
	}
	delete(params, "groupBy")
	req.Params = params

	ep, spec, records, err := r.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		keys = ep.Stats.Fields
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: groupBy: endpoint %s has no stats fields", query.ErrInvalidQuery, ep.Name)
	}
	for _, key := range keys {
		if !ep.StatsAllowed(key) {
			return nil, fmt.Errorf("%w: groupBy: field %q is not groupable", query.ErrInvalidQuery, key)
		}
	}

	selected := query.Filter(query.SearchRecords(records, spec.Search), spec.Filters, spec.DateRange)
	selected = withBuckets(selected, ep, keys)
	return &StatsResult{
		Total:   len(selected),
		ByField: query.GroupCounts(selected, keys),
	}, nil
}

// withBuckets adds the derived time buckets used by keys to copies of records.
func withBuckets(records []query.Record, ep *endpoint.Endpoint, keys []string) []query.Record {
	used := map[string]*endpoint.Bucket{}
	for _, key := range keys {
		for _, part := range strings.Split(key, "|") {
			part = strings.TrimSpace(part)
			if b, ok := ep.Stats.Buckets[part]; ok {
				used[part] = b
			}
		}
	}
	if len(used) == 0 {
		return records
	}

	out := make([]query.Record, len(records))
	for i, rec := range records {
		derived := make(query.Record, len(rec)+len(used))
		for k, v := range rec {
			derived[k] = v
		}
		for name, b := range used {
			v, ok := query.Get(rec, b.Source)
			if !ok {
				continue
			}
			if t, ok := query.TimeOf(v); ok {
				derived[name] = t.UTC().Format(b.TimeLayout())
			} else {
				delete(derived, name)
			}
		}
		out[i] = derived
	}
	return out
}
