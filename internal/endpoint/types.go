package endpoint

import (
	"AdminAPI/internal/query"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Endpoint is one list endpoint declared in ENDPOINTS_DIR/<name>.yml.
type Endpoint struct {
	Name         string               `yaml:"-"`
	Collection   string               `yaml:"collection"`
	DefaultLimit int                  `yaml:"default_limit"`
	MaxLimit     int                  `yaml:"max_limit"`
	DefaultSort  string               `yaml:"default_sort"`
	Sort         StringList           `yaml:"sort"`
	Filter       StringList           `yaml:"filter"`
	Search       StringList           `yaml:"search"`
	Expand       StringList           `yaml:"expand"`
	Relations    map[string]*Relation `yaml:"relations"`
	Export       ExportConfig         `yaml:"export"`
	Stats        StatsConfig          `yaml:"stats"`

	config *query.Config
}

// Relation joins records of another collection into a field of this one:
// record[name] = the record of Collection whose ForeignField equals record[LocalField].
type Relation struct {
	Collection   string `yaml:"collection"`
	LocalField   string `yaml:"local_field"`
	ForeignField string `yaml:"foreign_field"`
	// Many collects every matching record into a list instead of the first one.
	Many bool `yaml:"many"`
}

type ExportConfig struct {
	Columns  StringList `yaml:"columns"`
	Filename string     `yaml:"filename"`
}

type StatsConfig struct {
	Fields  StringList         `yaml:"fields"`
	Buckets map[string]*Bucket `yaml:"buckets"`
}

// Bucket derives a grouping value from a date field, e.g. {source: createdAt, layout: month}.
type Bucket struct {
	Source string `yaml:"source"`
	Layout string `yaml:"layout"`
}

// bucketLayouts maps the named granularities to time layouts.
var bucketLayouts = map[string]string{
	"hour":  "2006-01-02T15",
	"day":   "2006-01-02",
	"month": "2006-01",
	"year":  "2006",
}

// TimeLayout resolves the bucket layout; unnamed layouts are used as Go time layouts.
func (b *Bucket) TimeLayout() string {
	if l, ok := bucketLayouts[b.Layout]; ok {
		return l
	}
	return b.Layout
}

// StringList accepts either a YAML list or a comma-separated scalar.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var out []string
		for _, part := range strings.Split(value.Value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*s = out
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*s = out
		return nil
	}
	return fmt.Errorf("line %d: expected a list or a comma-separated string", value.Line)
}

// Config returns the query configuration built from the endpoint's allow-lists.
func (e *Endpoint) Config() *query.Config {
	return e.config
}

// ExportName is the filename prefix of exports.
func (e *Endpoint) ExportName() string {
	if e.Export.Filename != "" {
		return e.Export.Filename
	}
	return e.Name
}

// StatsAllowed reports whether key may be grouped on; a "|" key needs every part allowed.
func (e *Endpoint) StatsAllowed(key string) bool {
	if len(e.Stats.Fields) == 0 {
		return false
	}
	for _, part := range strings.Split(key, "|") {
		part = strings.TrimSpace(part)
		found := false
		for _, f := range e.Stats.Fields {
			if f == part {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (e *Endpoint) buildConfig() {
	expands := []string(e.Expand)
	if len(expands) == 0 {
		for name := range e.Relations {
			expands = append(expands, name)
		}
	}
	e.config = query.NewConfig(query.ConfigOptions{
		MaxLimit:            e.MaxLimit,
		DefaultLimit:        e.DefaultLimit,
		DefaultSort:         query.ParseSortList(e.DefaultSort),
		AllowedSortFields:   e.Sort,
		AllowedFilterFields: e.Filter,
		AllowedSearchFields: e.Search,
		AllowedExpands:      expands,
	})
}
