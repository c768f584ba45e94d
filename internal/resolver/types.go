package resolver

import "AdminAPI/internal/query"

// Request is one call against a registered endpoint.
type Request struct {
	Endpoint string
	Tenant   string
	Params   map[string][]string
}

// StatsResult is the response of a stats call.
type StatsResult struct {
	Total   int                       `json:"total"`
	ByField map[string]map[string]int `json:"byField"`
}

// ListResult is the response of a list call.
type ListResult = query.Result
