package state

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"xdao.co/iface/iface"
	"xdao.co/iface/types"
)

// document is the YAML form of a state snapshot:
//
//	iface: <hex interface id>
//	globals:
//	  name: [TOKEN]
//	  precision: [8]
//	  terms:
//	    - text: Ricardian contract text
//	  issuedSupply: [10000]
//
// Plain integers decode as uint values, other scalars as strings, null as
// unit, and mappings as structs. A field with an empty list is present but
// empty.
type document struct {
	Iface   string               `yaml:"iface"`
	Globals map[string]yaml.Node `yaml:"globals"`
}

// LoadYAML reads a state snapshot.
func LoadYAML(r io.Reader) (*Memory, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("state: decode yaml: %w", err)
	}
	id, err := iface.ParseID(doc.Iface)
	if err != nil {
		return nil, fmt.Errorf("state: iface: %w", err)
	}
	m := New(id)
	for field, node := range doc.Globals {
		if node.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("state: global %q: expected a list (line %d)", field, node.Line)
		}
		vals := make([]types.Value, 0, len(node.Content))
		for _, n := range node.Content {
			v, err := valueFromNode(n)
			if err != nil {
				return nil, fmt.Errorf("state: global %q: %w", field, err)
			}
			vals = append(vals, v)
		}
		m.Set(field, vals...)
	}
	return m, nil
}

func valueFromNode(n *yaml.Node) (types.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return types.Unit(), nil
		case "!!int":
			u, err := strconv.ParseUint(n.Value, 0, 64)
			if err != nil {
				return types.Value{}, fmt.Errorf("line %d: %q is not an unsigned 64-bit integer", n.Line, n.Value)
			}
			return types.Uint(u), nil
		default:
			return types.String(n.Value), nil
		}
	case yaml.MappingNode:
		fields := make(map[string]types.Value, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i].Value
			if _, dup := fields[k]; dup {
				return types.Value{}, fmt.Errorf("line %d: duplicate field %q", n.Content[i].Line, k)
			}
			v, err := valueFromNode(n.Content[i+1])
			if err != nil {
				return types.Value{}, err
			}
			fields[k] = v
		}
		return types.Struct(fields), nil
	default:
		return types.Value{}, fmt.Errorf("line %d: unsupported value", n.Line)
	}
}
