package endpoint

import (
	"AdminAPI/internal/logger"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned for endpoint names missing from the registry.
var ErrNotFound = errors.New("endpoint not found")

// Registry holds the endpoints loaded at startup. It is read-only afterwards.
type Registry struct {
	endpoints map[string]*Endpoint
}

// NewRegistry builds a registry from already decoded endpoints, validating each.
func NewRegistry(endpoints ...*Endpoint) (*Registry, error) {
	r := &Registry{endpoints: make(map[string]*Endpoint, len(endpoints))}
	for _, e := range endpoints {
		if err := e.prepare(); err != nil {
			return nil, fmt.Errorf("endpoint %s: %w", e.Name, err)
		}
		r.endpoints[e.Name] = e
	}
	return r, nil
}

// LoadDir reads every *.yml file of dir; the file name without extension is the endpoint
// name.
func LoadDir(dir string) (*Registry, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, err
	}

	var endpoints []*Endpoint
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		e, err := Parse(name, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		endpoints = append(endpoints, e)
	}

	r, err := NewRegistry(endpoints...)
	if err != nil {
		return nil, err
	}
	for _, e := range endpoints {
		logger.Info("endpoint_loaded", map[string]any{
			"endpoint":   e.Name,
			"collection": e.Collection,
			"relations":  len(e.Relations),
		})
	}
	return r, nil
}

// Parse decodes one endpoint definition after a structural pass over the YAML tree.
func Parse(name string, data []byte) (*Endpoint, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, errors.New("empty YAML")
	}
	if err := validateYAMLNode(root.Content[0], "endpoint"); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	var e Endpoint
	if err := root.Decode(&e); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}
	e.Name = name
	return &e, nil
}

// prepare fills defaults, checks cross references and builds the query config.
func (e *Endpoint) prepare() error {
	if e.Name == "" {
		return errors.New("missing name")
	}
	if e.Collection == "" {
		e.Collection = e.Name
	}
	if e.MaxLimit < 0 || e.DefaultLimit < 0 {
		return errors.New("limits must not be negative")
	}
	for name, rel := range e.Relations {
		if rel == nil || rel.Collection == "" || rel.LocalField == "" {
			return fmt.Errorf("relation %s needs collection and local_field", name)
		}
		if rel.ForeignField == "" {
			rel.ForeignField = "id"
		}
	}
	for _, name := range e.Expand {
		if _, ok := e.Relations[name]; !ok {
			return fmt.Errorf("expand %q names no relation", name)
		}
	}
	for name, b := range e.Stats.Buckets {
		if b == nil || b.Source == "" {
			return fmt.Errorf("bucket %s needs a source", name)
		}
		if b.Layout == "" {
			b.Layout = "day"
		}
		// a layout without any time element formats to itself
		if l := b.TimeLayout(); time.Unix(0, 0).UTC().Format(l) == l {
			return fmt.Errorf("bucket %s: invalid layout %q", name, b.Layout)
		}
	}
	e.buildConfig()
	return nil
}

// Get returns the endpoint registered under name.
func (r *Registry) Get(name string) (*Endpoint, error) {
	if e, ok := r.endpoints[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Names lists the registered endpoints in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
