package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i], _ = r["id"].(string)
	}
	return out
}

func TestSort_StableAndMultiKey(t *testing.T) {
	records := []Record{
		{"id": "1", "team": "b", "score": int64(5)},
		{"id": "2", "team": "a", "score": int64(5)},
		{"id": "3", "team": "b", "score": int64(9)},
		{"id": "4", "team": "a", "score": int64(5)},
		{"id": "5", "team": "a", "score": int64(1)},
	}

	got := Sort(records, []SortField{{"team", Asc}, {"score", Desc}})
	if diff := cmp.Diff([]string{"2", "4", "5", "3", "1"}, ids(got)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2", "3", "4", "5"}, ids(records)); diff != "" {
		t.Fatalf("input reordered (-want +got):\n%s", diff)
	}
}

func TestSort_MissingValuesLast(t *testing.T) {
	records := []Record{
		{"id": "nil", "rank": nil},
		{"id": "two", "rank": int64(2)},
		{"id": "none"},
		{"id": "one", "rank": int64(1)},
	}

	asc := Sort(records, []SortField{{"rank", Asc}})
	if diff := cmp.Diff([]string{"one", "two", "nil", "none"}, ids(asc)); diff != "" {
		t.Fatalf("asc mismatch (-want +got):\n%s", diff)
	}
	desc := Sort(records, []SortField{{"rank", Desc}})
	if diff := cmp.Diff([]string{"two", "one", "nil", "none"}, ids(desc)); diff != "" {
		t.Fatalf("desc mismatch (-want +got):\n%s", diff)
	}
}

func TestSort_ValueKinds(t *testing.T) {
	records := []Record{
		{"id": "s", "v": "10"},
		{"id": "f", "v": 2.5},
		{"id": "i", "v": int64(3)},
		{"id": "b", "v": true},
		{"id": "t", "v": "2024-01-01T00:00:00Z"},
	}
	got := Sort(records, []SortField{{"v", Asc}})
	// bools, then numbers, then strings
	if diff := cmp.Diff([]string{"b", "f", "i", "s", "t"}, ids(got)); diff != "" {
		t.Fatalf("kind order mismatch (-want +got):\n%s", diff)
	}

	byName := Sort([]Record{{"id": "b", "n": "b"}, {"id": "B", "n": "B"}, {"id": "a", "n": "a"}}, []SortField{{"n", Asc}})
	if diff := cmp.Diff([]string{"B", "a", "b"}, ids(byName)); diff != "" {
		t.Fatalf("strings compare case-sensitively (-want +got):\n%s", diff)
	}
}
