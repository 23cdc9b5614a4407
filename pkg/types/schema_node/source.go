package schema_node

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedYamlNode = errors.New("unsupported yaml node")
	ErrEmptyDocument       = errors.New("empty document")
)

type Format int

const (
	FormatJson Format = iota
	FormatYaml
)

func (f Format) String() string {
	switch f {
	case FormatYaml:
		return "yaml"
	default:
		return "json"
	}
}

// FormatFromPath picks the document format from a file extension. Anything other than `.yaml` and
// `.yml` is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYaml
	default:
		return FormatJson
	}
}

func Parse(data []byte, format Format) (*Node, error) {
	switch format {
	case FormatYaml:
		return ParseYaml(data)
	default:
		return ParseJson(data)
	}
}

func ParseJson(data []byte) (*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, motmedelErrors.NewWithTrace(ErrEmptyDocument)
	}

	var node Node
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, motmedelErrors.New(fmt.Errorf("json unmarshal (schema): %w", err))
	}

	return &node, nil
}

// ParseYaml decodes a YAML document by first converting it into JSON text, keeping the order of
// mapping keys, and then decoding that text as a JSON schema.
func ParseYaml(data []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, motmedelErrors.New(fmt.Errorf("yaml unmarshal (schema): %w", err))
	}

	if len(root.Content) == 0 {
		return nil, motmedelErrors.NewWithTrace(ErrEmptyDocument)
	}

	var buffer bytes.Buffer
	if err := writeYamlNodeJson(&buffer, &root); err != nil {
		return nil, fmt.Errorf("write yaml node json: %w", err)
	}

	return ParseJson(buffer.Bytes())
}

func writeJsonString(buffer *bytes.Buffer, value string) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("json marshal (string): %w", err), value)
	}
	buffer.Write(encoded)
	return nil
}

func writeYamlScalarJson(buffer *bytes.Buffer, node *yaml.Node) error {
	switch node.Tag {
	case "!!null":
		buffer.WriteString("null")
	case "!!bool":
		var value bool
		if err := node.Decode(&value); err != nil {
			return motmedelErrors.NewWithTrace(fmt.Errorf("yaml decode (bool): %w", err), node.Value)
		}
		buffer.WriteString(strconv.FormatBool(value))
	case "!!int":
		if json.Valid([]byte(node.Value)) {
			buffer.WriteString(node.Value)
			return nil
		}
		value, err := strconv.ParseInt(strings.ReplaceAll(node.Value, "_", ""), 0, 64)
		if err != nil {
			return motmedelErrors.NewWithTrace(fmt.Errorf("strconv parse int: %w", err), node.Value)
		}
		buffer.WriteString(strconv.FormatInt(value, 10))
	case "!!float":
		if json.Valid([]byte(node.Value)) {
			buffer.WriteString(node.Value)
			return nil
		}
		var value float64
		if err := node.Decode(&value); err != nil {
			return motmedelErrors.NewWithTrace(fmt.Errorf("yaml decode (float): %w", err), node.Value)
		}
		if math.IsInf(value, 0) || math.IsNaN(value) {
			return motmedelErrors.NewWithTrace(
				fmt.Errorf("%w: non-finite number %q", ErrUnsupportedYamlNode, node.Value),
				node.Value,
			)
		}
		buffer.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
	default:
		return writeJsonString(buffer, node.Value)
	}

	return nil
}

func writeYamlNodeJson(buffer *bytes.Buffer, node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buffer.WriteString("null")
			return nil
		}
		return writeYamlNodeJson(buffer, node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return motmedelErrors.NewWithTrace(fmt.Errorf("%w: dangling alias", ErrUnsupportedYamlNode), node.Value)
		}
		return writeYamlNodeJson(buffer, node.Alias)
	case yaml.MappingNode:
		buffer.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				buffer.WriteByte(',')
			}
			if err := writeJsonString(buffer, node.Content[i].Value); err != nil {
				return fmt.Errorf("write json string (key): %w", err)
			}
			buffer.WriteByte(':')
			if err := writeYamlNodeJson(buffer, node.Content[i+1]); err != nil {
				return fmt.Errorf("write yaml node json (%s): %w", node.Content[i].Value, err)
			}
		}
		buffer.WriteByte('}')
	case yaml.SequenceNode:
		buffer.WriteByte('[')
		for i, item := range node.Content {
			if i > 0 {
				buffer.WriteByte(',')
			}
			if err := writeYamlNodeJson(buffer, item); err != nil {
				return fmt.Errorf("write yaml node json (item %d): %w", i, err)
			}
		}
		buffer.WriteByte(']')
	case yaml.ScalarNode:
		return writeYamlScalarJson(buffer, node)
	default:
		return motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: kind %d", ErrUnsupportedYamlNode, node.Kind),
			node.Line,
		)
	}

	return nil
}
