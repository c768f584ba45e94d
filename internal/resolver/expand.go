package resolver

import (
	"context"
	"fmt"
	"sync"

	"AdminAPI/internal/endpoint"
	"AdminAPI/internal/query"
)

// expand joins the requested relations into copies of records. Related collections are
// loaded concurrently, one fetch per relation. A record whose local field is missing or
// matches nothing gets null (or an empty list for many relations).
func (r *Resolver) expand(ctx context.Context, tenant string, ep *endpoint.Endpoint, records []query.Record, names []string) ([]query.Record, error) {
	if len(names) == 0 || len(records) == 0 {
		return records, nil
	}

	related := make(map[string]map[string][]query.Record, len(names))
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		rerr error
	)
	for _, name := range names {
		rel := ep.Relations[name]
		if rel == nil {
			continue
		}
		wg.Add(1)
		go func(name string, rel *endpoint.Relation) {
			defer wg.Done()
			items, err := r.Store.Fetch(ctx, tenant, rel.Collection)
			if err != nil {
				mu.Lock()
				if rerr == nil {
					rerr = fmt.Errorf("resolver: expand %s: %w", name, err)
				}
				mu.Unlock()
				return
			}
			index := make(map[string][]query.Record, len(items))
			for _, item := range items {
				if v, ok := query.Get(item, rel.ForeignField); ok && v != nil {
					key := query.Stringify(v)
					index[key] = append(index[key], item)
				}
			}
			mu.Lock()
			related[name] = index
			mu.Unlock()
		}(name, rel)
	}
	wg.Wait()
	if rerr != nil {
		return nil, rerr
	}

	out := make([]query.Record, len(records))
	for i, rec := range records {
		joined := make(query.Record, len(rec)+len(names))
		for k, v := range rec {
			joined[k] = v
		}
		for _, name := range names {
			rel := ep.Relations[name]
			index, ok := related[name]
			if rel == nil || !ok {
				continue
			}
			joined[name] = lookup(rec, rel, index)
		}
		out[i] = joined
	}
	return out, nil
}

func lookup(rec query.Record, rel *endpoint.Relation, index map[string][]query.Record) any {
	v, ok := query.Get(rec, rel.LocalField)
	if !ok || v == nil {
		if rel.Many {
			return []any{}
		}
		return nil
	}

	// a list-valued local field collects every referenced record
	keys := []any{v}
	if list, isList := v.([]any); isList {
		keys = list
	}
	var matches []any
	for _, key := range keys {
		for _, m := range index[query.Stringify(key)] {
			matches = append(matches, m)
		}
	}
	if rel.Many {
		if matches == nil {
			return []any{}
		}
		return matches
	}
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}
