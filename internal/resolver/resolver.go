package resolver

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"AdminAPI/internal/endpoint"
	"AdminAPI/internal/logger"
	"AdminAPI/internal/query"
	"AdminAPI/internal/store"
)

// DefaultTenant is used when a request names no tenant.
const DefaultTenant = "default"

// Resolver answers list, export and stats calls for the endpoints of a registry.
type Resolver struct {
	Endpoints *endpoint.Registry
	Store     store.Store
	// Now stamps export filenames; nil means time.Now.
	Now func() time.Time
}

func New(endpoints *endpoint.Registry, st store.Store) *Resolver {
	return &Resolver{Endpoints: endpoints, Store: st, Now: time.Now}
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// prepare resolves the endpoint, parses params and loads the collection.
func (r *Resolver) prepare(ctx context.Context, req Request) (*endpoint.Endpoint, *query.Spec, []query.Record, error) {
	ep, err := r.Endpoints.Get(req.Endpoint)
	if err != nil {
		return nil, nil, nil, err
	}
	spec, err := query.Parse(url.Values(req.Params), ep.Config())
	if err != nil {
		return nil, nil, nil, err
	}
	records, err := r.Store.Fetch(ctx, tenantOf(req), ep.Collection)
	if err != nil {
		logger.Error("store_fetch_failed", map[string]any{
			"endpoint":   ep.Name,
			"collection": ep.Collection,
			"error":      err.Error(),
		})
		return nil, nil, nil, fmt.Errorf("resolver: fetch %s: %w", ep.Collection, err)
	}
	logger.Debug("spec", map[string]any{
		"endpoint": ep.Name,
		"spec":     spec,
		"records":  len(records),
	})
	return ep, spec, records, nil
}

func tenantOf(req Request) string {
	if req.Tenant == "" {
		return DefaultTenant
	}
	return req.Tenant
}

// List runs the pipeline and returns one page. Expansions are joined into the page
// before projection.
func (r *Resolver) List(ctx context.Context, req Request) (*ListResult, error) {
	ep, spec, records, err := r.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	page, meta := query.Paginate(query.Select(records, spec), spec.Pagination)
	page, err = r.expand(ctx, tenantOf(req), ep, page, spec.Expand)
	if err != nil {
		return nil, err
	}
	data := query.ProjectAll(page, selectionWithExpand(spec))
	if data == nil {
		data = []query.Record{}
	}
	return &ListResult{Data: data, Pagination: meta}, nil
}

// selectionWithExpand keeps expanded relations in include projections.
func selectionWithExpand(spec *query.Spec) query.Selection {
	sel := spec.Selection
	if len(sel.Include) == 0 || len(spec.Expand) == 0 {
		return sel
	}
	include := append([]string(nil), sel.Include...)
	for _, name := range spec.Expand {
		found := false
		for _, f := range include {
			if f == name {
				found = true
				break
			}
		}
		if !found {
			include = append(include, name)
		}
	}
	sel.Include = include
	return sel
}
