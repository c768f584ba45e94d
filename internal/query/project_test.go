package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func nestedRecord() Record {
	return Record{"a": map[string]any{"b": int64(1), "c": int64(2)}, "id": "X"}
}

func TestProject_IncludeAndExcludeAgree(t *testing.T) {
	want := Record{"a": map[string]any{"b": int64(1)}, "id": "X"}

	r := nestedRecord()
	inc := Project(r, Selection{Include: []string{"a.b"}})
	if diff := cmp.Diff(want, inc); diff != "" {
		t.Fatalf("include mismatch (-want +got):\n%s", diff)
	}
	exc := Project(r, Selection{Exclude: []string{"a.c"}})
	if diff := cmp.Diff(want, exc); diff != "" {
		t.Fatalf("exclude mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(nestedRecord(), r); diff != "" {
		t.Fatalf("source record modified (-want +got):\n%s", diff)
	}
}

func TestProject_IncludeWinsAndSkipsMissing(t *testing.T) {
	r := Record{"id": "1", "name": "Ann", "secret": "s", "age": int64(3)}
	got := Project(r, Selection{Include: []string{"name", "nope.deep"}, Exclude: []string{"name"}})
	want := Record{"id": "1", "name": "Ann"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}

	got = Project(Record{"name": "Ann"}, Selection{Include: []string{"name"}})
	if _, ok := got["id"]; ok {
		t.Fatalf("id must not be invented")
	}
}

func TestProject_IncludeCopiesValues(t *testing.T) {
	r := Record{"id": "1", "tags": []any{"a", "b"}}
	got := Project(r, Selection{Include: []string{"tags"}})
	got["tags"].([]any)[0] = "z"
	if r["tags"].([]any)[0] != "a" {
		t.Fatalf("projection shares list with source")
	}
}

func TestProjectAll_EmptySelection(t *testing.T) {
	records := []Record{{"id": "1"}}
	got := ProjectAll(records, Selection{})
	if diff := cmp.Diff(records, got); diff != "" {
		t.Fatalf("empty selection changed records (-want +got):\n%s", diff)
	}
}
