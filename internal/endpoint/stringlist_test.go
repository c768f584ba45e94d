package endpoint

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestStringListUnmarshal_CommaSeparatedScalar(t *testing.T) {
	var cfg struct {
		Expand StringList `yaml:"expand"`
	}
	data := []byte("expand: role, tenant")
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(cfg.Expand) != 2 || cfg.Expand[0] != "role" || cfg.Expand[1] != "tenant" {
		t.Fatalf("expand parsed wrong: %#v", cfg.Expand)
	}
}

func TestStringListUnmarshal_Sequence(t *testing.T) {
	var cfg struct {
		Sort StringList `yaml:"sort"`
	}
	data := []byte("sort:\n  - name\n  - ' createdAt '\n  - ''\n")
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(cfg.Sort) != 2 || cfg.Sort[0] != "name" || cfg.Sort[1] != "createdAt" {
		t.Fatalf("sort parsed wrong: %#v", cfg.Sort)
	}
}

func TestStringListUnmarshal_RejectsMapping(t *testing.T) {
	var cfg struct {
		Sort StringList `yaml:"sort"`
	}
	if err := yaml.Unmarshal([]byte("sort:\n  name: asc\n"), &cfg); err == nil {
		t.Fatalf("expected error for mapping value")
	}
}
