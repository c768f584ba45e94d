package endpoint

import (
	"AdminAPI/internal"
	"AdminAPI/internal/query"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const personsYAML = `
collection: people
default_limit: 10
max_limit: 50
default_sort: -createdAt,name
sort: name, createdAt, age
filter: [status, age, createdAt, role_id]
search: name, email
relations:
  role:
    collection: roles
    local_field: role_id
export:
  columns: id, name, email
  filename: people
stats:
  fields: status, role_id, signup_month
  buckets:
    signup_month:
      source: createdAt
      layout: month
`

func TestParse_Endpoint(t *testing.T) {
	e, err := Parse("persons", []byte(personsYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r, err := NewRegistry(e)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	got, err := r.Get("persons")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Collection != "people" || got.ExportName() != "people" {
		t.Fatalf("unexpected endpoint: %+v", got)
	}
	if got.Relations["role"].ForeignField != "id" {
		t.Fatalf("foreign_field should default to id, got %q", got.Relations["role"].ForeignField)
	}
	if got.Stats.Buckets["signup_month"].TimeLayout() != "2006-01" {
		t.Fatalf("unexpected bucket layout %q", got.Stats.Buckets["signup_month"].TimeLayout())
	}

	cfg := got.Config()
	if cfg.MaxLimit != 50 || cfg.DefaultLimit != 10 {
		t.Fatalf("limits not applied: %+v", cfg)
	}
	wantSort := []query.SortField{{Field: "createdAt", Direction: query.Desc}, {Field: "name", Direction: query.Asc}}
	if diff := cmp.Diff(wantSort, cfg.DefaultSort); diff != "" {
		t.Fatalf("default sort mismatch (-want +got):\n%s", diff)
	}
	if !cfg.SortAllowed("age") || cfg.SortAllowed("email") {
		t.Fatalf("sort allow-list not applied")
	}
	if !cfg.ExpandAllowed("role") {
		t.Fatalf("relations are expandable when expand is not declared")
	}
	if !got.StatsAllowed("status|role_id") || got.StatsAllowed("email") {
		t.Fatalf("stats allow-list not applied")
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	cases := []string{
		"collection: x\ntable: y\n",
		"relations:\n  role:\n    collection: roles\n    local_field: role_id\n    through: z\n",
		"stats:\n  buckets:\n    m:\n      source: createdAt\n      granularity: month\n",
	}
	for _, src := range cases {
		if _, err := Parse("x", []byte(src)); err == nil || !strings.Contains(err.Error(), "unknown key") {
			t.Fatalf("expected unknown key error for %q, got %v", src, err)
		}
	}
}

func TestNewRegistry_ValidatesReferences(t *testing.T) {
	cases := map[string]string{
		"expand without relation": "expand: role\n",
		"relation without field":  "relations:\n  role:\n    collection: roles\n",
		"bucket without source":   "stats:\n  buckets:\n    m:\n      layout: month\n",
		"bucket bad layout":       "stats:\n  buckets:\n    m:\n      source: createdAt\n      layout: weekly\n",
		"negative limit":          "max_limit: -1\n",
	}
	for name, src := range cases {
		e, err := Parse("x", []byte(src))
		if err != nil {
			t.Fatalf("%s: parse: %v", name, err)
		}
		if _, err := NewRegistry(e); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "persons.yml"), []byte(personsYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "roles.yml"), []byte("sort: name\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if diff := cmp.Diff([]string{"persons", "roles"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	roles, _ := r.Get("roles")
	if roles.Collection != "roles" {
		t.Fatalf("collection should default to the endpoint name, got %q", roles.Collection)
	}
	if _, err := r.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadDir_RepoEndpoints(t *testing.T) {
	root, err := internal.FindRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	r, err := LoadDir(filepath.Join(root, "db"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"admins", "persons", "roles"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	admins, _ := r.Get("admins")
	if admins.Collection != "people" || !admins.Relations["sessions"].Many {
		t.Fatalf("unexpected admins endpoint: %+v", admins)
	}
	if cfg := admins.Config(); !cfg.ExpandAllowed("role") || cfg.ExpandAllowed("sessions") {
		t.Fatalf("admins expand allow-list not applied")
	}
	persons, _ := r.Get("persons")
	if !persons.StatsAllowed("status|address.city") {
		t.Fatalf("persons stats fields not applied")
	}
}
