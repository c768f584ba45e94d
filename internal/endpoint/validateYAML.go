package endpoint

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Allowed keys per mapping context
var allowedEndpointKeys = map[string]bool{
	"collection":    true,
	"default_limit": true,
	"max_limit":     true,
	"default_sort":  true,
	"sort":          true,
	"filter":        true,
	"search":        true,
	"expand":        true,
	"relations":     true,
	"export":        true,
	"stats":         true,
}

var allowedRelationKeys = map[string]bool{
	"collection":    true,
	"local_field":   true,
	"foreign_field": true,
	"many":          true,
}

var allowedExportKeys = map[string]bool{
	"columns":  true,
	"filename": true,
}

var allowedStatsKeys = map[string]bool{
	"fields":  true,
	"buckets": true,
}

var allowedBucketKeys = map[string]bool{
	"source": true,
	"layout": true,
}

func allowedKeysFor(context string) map[string]bool {
	switch context {
	case "endpoint":
		return allowedEndpointKeys
	case "relation":
		return allowedRelationKeys
	case "export":
		return allowedExportKeys
	case "stats":
		return allowedStatsKeys
	case "bucket":
		return allowedBucketKeys
	}
	// free-form
	return nil
}

func nextContext(context, key string) string {
	switch {
	case context == "endpoint" && key == "relations":
		return "relations-map"
	case context == "relations-map":
		return "relation"
	case context == "endpoint" && key == "export":
		return "export"
	case context == "endpoint" && key == "stats":
		return "stats"
	case context == "stats" && key == "buckets":
		return "buckets-map"
	case context == "buckets-map":
		return "bucket"
	}
	return "value"
}

func validateYAMLNode(node *yaml.Node, context string) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := validateYAMLNode(child, context); err != nil {
				return err
			}
		}

	case yaml.MappingNode:
		allowedKeys := allowedKeysFor(context)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if allowedKeys != nil && !allowedKeys[key] {
				return fmt.Errorf("line %d: unknown key '%s' in %s", node.Content[i].Line, key, context)
			}
			if err := validateYAMLNode(node.Content[i+1], nextContext(context, key)); err != nil {
				return err
			}
		}

	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind == yaml.MappingNode {
				return fmt.Errorf("line %d: unexpected mapping inside a list in %s", item.Line, context)
			}
		}

	case yaml.ScalarNode:
		// scalars are checked by the typed decode
	}

	return nil
}
