package protocol

import (
	"gopkg.in/yaml.v3"

	"github.com/ForteScarlet/CatCode/pkg/catcode"
)

// ToYAML renders v as a YAML document. Parameters keep the order of the code
// and every value is written as a string.
func ToYAML(v catcode.View, opts Options) ([]byte, error) {
	data := &yaml.Node{Kind: yaml.MappingNode}
	for key, value := range v.All() {
		data.Content = append(data.Content, stringNode(key), stringNode(value))
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	switch opts.Mode {
	case Compact:
		doc.Content = []*yaml.Node{stringNode(v.Subtype()), data}
	default:
		doc.Content = []*yaml.Node{
			stringNode(opts.typeName()), stringNode(v.Subtype()),
			stringNode(opts.dataName()), data,
		}
	}
	return yaml.Marshal(doc)
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// FromYAML reads a document written by ToYAML into a code of ns.
func FromYAML(data []byte, ns catcode.Namespace, opts Options) (*catcode.Code, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, invalid("expected a mapping")
	}
	root := doc.Content[0]

	var (
		subtype string
		params  []catcode.Param
		err     error
	)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, value := root.Content[i].Value, root.Content[i+1]
		switch {
		case opts.Mode == Compact:
			if subtype != "" {
				return nil, invalid("more than one member in a compact document")
			}
			subtype = name
			if params, err = yamlParams(value); err != nil {
				return nil, err
			}
		case name == opts.typeName():
			if value.Kind != yaml.ScalarNode {
				return nil, invalid("%s is not a scalar", name)
			}
			subtype = value.Value
		case name == opts.dataName():
			if params, err = yamlParams(value); err != nil {
				return nil, err
			}
		}
	}
	return fromDocument(ns, subtype, params)
}

func yamlParams(node *yaml.Node) ([]catcode.Param, error) {
	if node.Kind != yaml.MappingNode {
		return nil, invalid("parameters are not a mapping")
	}
	params := make([]catcode.Param, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		value := node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, invalid("parameter %q is not a scalar", node.Content[i].Value)
		}
		params = append(params, catcode.Param{Key: node.Content[i].Value, Value: value.Value})
	}
	return params, nil
}
