package selector

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
)

// ParseYAML builds a tree from a YAML selection document.
//
// A node is the string any or none, a mapping {object: {name: node, ...}}
// or a mapping {array: node}. An empty document selects nothing.
//
//	object:
//	  id: any
//	  items:
//	    array:
//	      object:
//	        name: any
func ParseYAML(data []byte) (*Node, error) {
	b := New()
	if err := b.YAML(data); err != nil {
		return nil, err
	}
	return b.Build()
}

// LoadYAML reads and parses a YAML selection file.
func LoadYAML(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selector file: %w", err)
	}
	return ParseYAML(data)
}

// YAML merges a YAML selection document into the tree.
func (b *Builder) YAML(data []byte) error {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	if err := decodeYAML(b.root, doc); err != nil {
		return err
	}
	return b.root.err
}

func decodeYAML(b *Builder, v any) error {
	switch v := v.(type) {
	case nil:
		b.None()
		return nil

	case string:
		switch v {
		case "any":
			b.Any()
		case "none":
			b.None()
		default:
			return fmt.Errorf("%w: %s: unknown strategy %q, expected any or none", ErrMalformed, b.path, v)
		}
		return nil

	case yaml.MapSlice:
		if len(v) != 1 {
			return fmt.Errorf("%w: %s: expected exactly one of object or array", ErrMalformed, b.path)
		}
		return decodeYAMLContainer(b, v[0].Key, v[0].Value)

	case map[string]any:
		if len(v) != 1 {
			return fmt.Errorf("%w: %s: expected exactly one of object or array", ErrMalformed, b.path)
		}
		for key, value := range v {
			return decodeYAMLContainer(b, key, value)
		}
	}

	return fmt.Errorf("%w: %s: unexpected %T", ErrMalformed, b.path, v)
}

func decodeYAMLContainer(b *Builder, key, value any) error {
	switch key {
	case "array":
		return decodeYAML(b.Array(), value)

	case "object":
		obj := b.Object()
		switch props := value.(type) {
		case nil:
			return nil
		case yaml.MapSlice:
			for _, item := range props {
				if err := decodeYAML(obj.Prop(fmt.Sprint(item.Key)), item.Value); err != nil {
					return err
				}
			}
			return nil
		case map[string]any:
			for _, name := range slices.Sorted(maps.Keys(props)) {
				if err := decodeYAML(obj.Prop(name), props[name]); err != nil {
					return err
				}
			}
			return nil
		}
		return fmt.Errorf("%w: %s: object expects a mapping of properties, got %T", ErrMalformed, b.path, value)
	}

	return fmt.Errorf("%w: %s: unknown key %v, expected object or array", ErrMalformed, b.path, key)
}
