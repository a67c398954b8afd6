// Package genotype reads already-derived symbol sequences from a stream of
// YAML documents.
package genotype

import (
	_ "embed"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed genotype.schema.json
var schemaSource string

var schema = jsonschema.MustCompileString("genotype.schema.json", schemaSource)

// Format is one genotype document.
type Format struct {
	Name     string   `yaml:"name"`
	Sequence []Record `yaml:"sequence"`
}

// Record is one symbol of the sequence. Each parameter is either a number or
// an expression over the configuration options and prev_N, the N-th parameter
// of the previous record.
type Record struct {
	Sym     string   `yaml:"sym"`
	Primary float64  `yaml:"primary"`
	Params  []string `yaml:"params"`
}

type Decoder struct {
	in          io.Reader
	yamlDecoder *yaml.Decoder
}

func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{
		in:          in,
		yamlDecoder: yaml.NewDecoder(in),
	}
}

// Decode reads the next document of the stream, checking it against the
// genotype schema. Empty documents are skipped. It returns io.EOF once the
// stream is exhausted.
func (dec *Decoder) Decode() (*Format, error) {
	var node yaml.Node
	for {
		if err := dec.yamlDecoder.Decode(&node); err != nil {
			return nil, err
		}
		if !isEmpty(&node) {
			break
		}
		node = yaml.Node{}
	}
	if err := validate(&node); err != nil {
		return nil, err
	}

	format := &Format{}
	if err := node.Decode(format); err != nil {
		return nil, errors.Wrap(err, "decoding genotype")
	}
	return format, nil
}

// isEmpty reports a document with no content, such as the one a trailing
// "---" opens.
func isEmpty(node *yaml.Node) bool {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return true
		}
		node = node.Content[0]
	}
	return node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

// validate runs the schema over the document once it went through a JSON
// round trip, so that numbers and maps have the shapes the validator expects.
func validate(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return errors.Wrap(err, "decoding genotype")
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, "genotype is not representable as JSON")
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return errors.Wrapf(err, "invalid genotype at line %d", node.Line)
	}
	return nil
}
