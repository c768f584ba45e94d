package query

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRun_DefaultsOverDatedRecords(t *testing.T) {
	records := make([]Record, 25)
	for i := range records {
		records[i] = Record{
			"id":        fmt.Sprintf("r%02d", i+1),
			"createdAt": fmt.Sprintf("2024-01-%02dT00:00:00Z", i+1),
		}
	}

	res, err := Run(records, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Data) != 20 {
		t.Fatalf("expected 20 records, got %d", len(res.Data))
	}
	if res.Data[0]["id"] != "r25" || res.Data[19]["id"] != "r06" {
		t.Fatalf("expected newest first, got %v .. %v", res.Data[0]["id"], res.Data[19]["id"])
	}
	want := PageMeta{Page: 1, Limit: 20, Total: 25, Pages: 2, HasNext: true, NextPage: intPtr(2)}
	if diff := cmp.Diff(want, res.Pagination); diff != "" {
		t.Fatalf("meta mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_MultiKeySortSecondPage(t *testing.T) {
	priorities := []string{"low", "medium", "high"}
	records := make([]Record, 12)
	for i := range records {
		n := i + 1
		records[i] = Record{"id": fmt.Sprintf("n%02d", n), "name": fmt.Sprintf("n%02d", n), "priority": priorities[n%3]}
	}

	raw := map[string][]string{"sortBy": {"-priority,name"}, "page": {"2"}, "limit": {"5"}}
	res, err := Run(records, raw, DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// priority desc is lexical: medium, low, high
	if diff := cmp.Diff([]string{"n06", "n09", "n12", "n02", "n05"}, ids(res.Data)); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}
	want := PageMeta{Page: 2, Limit: 5, Total: 12, Pages: 3, HasNext: true, HasPrev: true, NextPage: intPtr(3), PrevPage: intPtr(1)}
	if diff := cmp.Diff(want, res.Pagination); diff != "" {
		t.Fatalf("meta mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_NumericRange(t *testing.T) {
	var records []Record
	for _, age := range []int64{10, 18, 40, 65, 70} {
		records = append(records, Record{"id": fmt.Sprint(age), "age": age})
	}

	res, err := Run(records, map[string][]string{"age_gte": {"18"}, "age_lte": {"65"}}, DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]string{"18", "40", "65"}, ids(res.Data)); diff != "" {
		t.Fatalf("range mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_SearchFilterProject(t *testing.T) {
	records := []Record{
		{"id": "1", "name": "Anna", "status": "active", "password": "x"},
		{"id": "2", "name": "Hannah", "status": "inactive", "password": "y"},
		{"id": "3", "name": "Bob", "status": "active", "password": "z"},
	}
	cfg := NewConfig(ConfigOptions{AllowedSearchFields: []string{"name"}})
	spec, err := ParseQueryString("q=ann&status=active&exclude=password&sortBy=name", cfg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	res := Apply(records, spec)
	want := []Record{{"id": "1", "name": "Anna", "status": "active"}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if _, ok := records[0]["password"]; !ok {
		t.Fatalf("source records modified")
	}
}

func TestApply_NoMatchesYieldsEmptyData(t *testing.T) {
	spec, err := ParseQueryString("status=none", DefaultConfig())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := Apply([]Record{{"status": "active"}}, spec)
	if res.Data == nil || len(res.Data) != 0 {
		t.Fatalf("expected empty non-nil data, got %#v", res.Data)
	}
	if res.Pagination.Total != 0 || res.Pagination.Pages != 0 || res.Pagination.HasPrev {
		t.Fatalf("unexpected meta: %+v", res.Pagination)
	}
}

func TestSelect_IgnoresPagination(t *testing.T) {
	records := make([]Record, 30)
	for i := range records {
		records[i] = Record{"id": fmt.Sprint(i)}
	}
	spec, err := ParseQueryString("limit=5&page=2", DefaultConfig())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := Select(records, spec); len(got) != 30 {
		t.Fatalf("expected all records, got %d", len(got))
	}
}

func TestRun_ExplicitOffsetDrivesPageMeta(t *testing.T) {
	records := make([]Record, 50)
	for i := range records {
		records[i] = Record{"id": fmt.Sprintf("r%02d", i)}
	}

	raw := map[string][]string{"offset": {"40"}, "limit": {"20"}, "sortBy": {"id"}}
	res, err := Run(records, raw, DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Data) != 10 || res.Data[0]["id"] != "r40" {
		t.Fatalf("unexpected window: %v", ids(res.Data))
	}
	want := PageMeta{Page: 3, Limit: 20, Total: 50, Pages: 3, HasPrev: true, PrevPage: intPtr(2)}
	if diff := cmp.Diff(want, res.Pagination); diff != "" {
		t.Fatalf("meta mismatch (-want +got):\n%s", diff)
	}
}
