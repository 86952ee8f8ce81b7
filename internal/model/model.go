// Package model is the schema of the YAML API description the reference
// builder reads. Names of namespaces and type references are relative to the
// client namespace; a bare type name is searched breadth-first.
package model

import (
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/clientgen/pkg/errors"
)

// Document is a whole API description.
type Document struct {
	Title      string      `yaml:"title"`
	Client     Client      `yaml:"client"`
	Namespaces []Namespace `yaml:"namespaces"`
}

// Client is the root request builder.
type Client struct {
	Description string `yaml:"description"`
	// BaseURL is the url template of the client, "{+baseurl}" when empty.
	BaseURL  string  `yaml:"base_url"`
	Children []Child `yaml:"children"`
}

// Child is a navigation property leading to another request builder.
type Child struct {
	Name        string `yaml:"name"`
	Builder     string `yaml:"builder"`
	Description string `yaml:"description"`
}

type Namespace struct {
	Name     string    `yaml:"name"`
	Models   []Model   `yaml:"models"`
	Enums    []Enum    `yaml:"enums"`
	Builders []Builder `yaml:"builders"`
}

type Model struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Inherits    string `yaml:"inherits"`
	// Error marks payloads returned for failed requests.
	Error          bool           `yaml:"error"`
	AdditionalData bool           `yaml:"additional_data"`
	Discriminator  *Discriminator `yaml:"discriminator"`
	Properties     []Property     `yaml:"properties"`
}

// Property is a model property or a query parameter.
type Property struct {
	Name              string `yaml:"name"`
	Type              string `yaml:"type"`
	Collection        bool   `yaml:"collection"`
	Required          bool   `yaml:"required"`
	ReadOnly          bool   `yaml:"read_only"`
	SerializationName string `yaml:"serialization_name"`
	Default           string `yaml:"default"`
	Description       string `yaml:"description"`
}

type Discriminator struct {
	Property string   `yaml:"property"`
	Mappings Mappings `yaml:"mappings"`
}

// Mapping selects the model created for one discriminator value.
type Mapping struct {
	Value string
	Model string
}

// Mappings are the discriminator values of a model in document order.
type Mappings []Mapping

func (m *Mappings) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return errors.InvalidInputf("line %d: discriminator mappings must be a mapping of values to models", n.Line)
	}
	out := make(Mappings, 0, len(n.Content)/2)
	seen := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var mp Mapping
		if err := n.Content[i].Decode(&mp.Value); err != nil {
			return err
		}
		if err := n.Content[i+1].Decode(&mp.Model); err != nil {
			return err
		}
		if _, dup := seen[mp.Value]; dup {
			return errors.InvalidInputf("line %d: discriminator value %q is mapped twice", n.Content[i].Line, mp.Value)
		}
		seen[mp.Value] = struct{}{}
		out = append(out, mp)
	}
	*m = out
	return nil
}

type Enum struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Flags       bool         `yaml:"flags"`
	Options     []EnumOption `yaml:"options"`
}

type EnumOption struct {
	Name              string `yaml:"name"`
	SerializationName string `yaml:"serialization_name"`
	Description       string `yaml:"description"`
}

type Builder struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	URLTemplate string      `yaml:"url_template"`
	Indexer     *Indexer    `yaml:"indexer"`
	Children    []Child     `yaml:"children"`
	Operations  []Operation `yaml:"operations"`
}

// Indexer addresses one item of a collection builder.
type Indexer struct {
	Name string `yaml:"name"`
	// Segment is the url template parameter the index fills.
	Segment     string `yaml:"segment"`
	Type        string `yaml:"type"`
	Builder     string `yaml:"builder"`
	Description string `yaml:"description"`
}

// Operation is one HTTP verb of a request builder. It becomes a request
// generator and an executor.
type Operation struct {
	Method            string            `yaml:"method"`
	Description       string            `yaml:"description"`
	Returns           string            `yaml:"returns"`
	ReturnsCollection bool              `yaml:"returns_collection"`
	ReturnDescription string            `yaml:"return_description"`
	Body              string            `yaml:"body"`
	ContentType       string            `yaml:"content_type"`
	Query             []Property        `yaml:"query"`
	Errors            map[string]string `yaml:"errors"`
}
