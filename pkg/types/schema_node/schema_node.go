package schema_node

import (
	"bytes"
	"fmt"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	"github.com/goccy/go-json"
	typeGenerationErrors "github.com/vphpersson/typeddict_generation/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Literal is the raw JSON text of a value appearing in a schema (an enum member, a const, a default or
// an example). It is kept undecoded so that rendering can follow the document order of nested objects.
type Literal []byte

// Properties maps names to schemas, preserving the order in which they were declared.
type Properties = orderedmap.OrderedMap[string, *Node]

// AdditionalProperties is the decoded `additionalProperties` keyword. An empty schema (`{}`) is
// equivalent to `true`.
type AdditionalProperties struct {
	Present bool
	Allowed bool
	Schema  *Node
}

// Closed reports whether the keyword explicitly forbids undeclared properties.
func (a AdditionalProperties) Closed() bool {
	return a.Present && !a.Allowed
}

type Node struct {
	Ref  string
	Defs *Properties

	// Type holds the names in the `type` keyword; TypeIsList reports whether it was written as an array.
	Type       []string
	TypeIsList bool

	// Boolean is set when the node is a boolean schema (`true` or `false`).
	Boolean *bool

	Title       string
	Description string
	Examples    []Literal
	Default     *Literal

	Enum  []Literal
	Const *Literal

	AnyOf []*Node
	OneOf []*Node
	If    *Node
	Then  *Node
	Else  *Node

	Properties           *Properties
	PatternProperties    *Properties
	AdditionalProperties AdditionalProperties
	PropertyNames        *Node
	Required             []string
	MinProperties        json.Number
	MaxProperties        json.Number

	Items       *Node
	MinItems    json.Number
	MaxItems    json.Number
	UniqueItems bool

	MinLength json.Number
	MaxLength json.Number
	Pattern   string

	Minimum    json.Number
	Maximum    json.Number
	MultipleOf json.Number
	// ExclusiveMinimum and ExclusiveMaximum hold the numeric (draft 6+) form of the keywords. The
	// boolean (draft 4) form is recorded in the corresponding *Flag field.
	ExclusiveMinimum     json.Number
	ExclusiveMaximum     json.Number
	ExclusiveMinimumFlag bool
	ExclusiveMaximumFlag bool
}

type nodeJSON struct {
	Ref               string            `json:"$ref"`
	Defs              *Properties       `json:"$defs"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Examples          []json.RawMessage `json:"examples"`
	Enum              []json.RawMessage `json:"enum"`
	AnyOf             []*Node           `json:"anyOf"`
	OneOf             []*Node           `json:"oneOf"`
	If                *Node             `json:"if"`
	Then              *Node             `json:"then"`
	Else              *Node             `json:"else"`
	Properties        *Properties       `json:"properties"`
	PatternProperties *Properties       `json:"patternProperties"`
	PropertyNames     *Node             `json:"propertyNames"`
	Required          []string          `json:"required"`
	MinProperties     json.Number       `json:"minProperties"`
	MaxProperties     json.Number       `json:"maxProperties"`
	Items             *Node             `json:"items"`
	MinItems          json.Number       `json:"minItems"`
	MaxItems          json.Number       `json:"maxItems"`
	UniqueItems       bool              `json:"uniqueItems"`
	MinLength         json.Number       `json:"minLength"`
	MaxLength         json.Number       `json:"maxLength"`
	Pattern           string            `json:"pattern"`
	Minimum           json.Number       `json:"minimum"`
	Maximum           json.Number       `json:"maximum"`
	MultipleOf        json.Number       `json:"multipleOf"`
}

func newLiteral(raw []byte) *Literal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = []byte("null")
	}
	literal := Literal(bytes.Clone(raw))
	return &literal
}

func decodeType(raw json.RawMessage) ([]string, bool, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return []string{name}, false, nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, false, motmedelErrors.NewWithTrace(fmt.Errorf("json unmarshal (type): %w", err), string(raw))
	}

	return names, true, nil
}

func decodeAdditionalProperties(raw json.RawMessage) (AdditionalProperties, error) {
	additionalProperties := AdditionalProperties{Present: true}

	var allowed bool
	if err := json.Unmarshal(raw, &allowed); err == nil {
		additionalProperties.Allowed = allowed
		return additionalProperties, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return additionalProperties, motmedelErrors.NewWithTrace(
			fmt.Errorf("json unmarshal (additional properties): %w", err),
			string(raw),
		)
	}

	additionalProperties.Allowed = true
	if len(fields) == 0 {
		return additionalProperties, nil
	}

	var schema Node
	if err := json.Unmarshal(raw, &schema); err != nil {
		return additionalProperties, fmt.Errorf("json unmarshal (additional properties schema): %w", err)
	}
	additionalProperties.Schema = &schema

	return additionalProperties, nil
}

// decodeExclusive accepts both the numeric and the boolean form of exclusiveMinimum/exclusiveMaximum.
func decodeExclusive(raw json.RawMessage) (json.Number, bool, error) {
	var flag bool
	if err := json.Unmarshal(raw, &flag); err == nil {
		return "", flag, nil
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return "", false, motmedelErrors.NewWithTrace(fmt.Errorf("json unmarshal (exclusive bound): %w", err), string(raw))
	}

	return number, false, nil
}

func (n *Node) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "true", "false":
		value := string(trimmed) == "true"
		*n = Node{Boolean: &value}
		return nil
	}

	var keywords map[string]json.RawMessage
	if err := json.Unmarshal(data, &keywords); err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("json unmarshal (keywords): %w", err))
	}

	var aux nodeJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("json unmarshal (node): %w", err)
	}

	node := Node{
		Ref:               aux.Ref,
		Defs:              aux.Defs,
		Title:             aux.Title,
		Description:       aux.Description,
		AnyOf:             aux.AnyOf,
		OneOf:             aux.OneOf,
		If:                aux.If,
		Then:              aux.Then,
		Else:              aux.Else,
		Properties:        aux.Properties,
		PatternProperties: aux.PatternProperties,
		PropertyNames:     aux.PropertyNames,
		Required:          aux.Required,
		MinProperties:     aux.MinProperties,
		MaxProperties:     aux.MaxProperties,
		Items:             aux.Items,
		MinItems:          aux.MinItems,
		MaxItems:          aux.MaxItems,
		UniqueItems:       aux.UniqueItems,
		MinLength:         aux.MinLength,
		MaxLength:         aux.MaxLength,
		Pattern:           aux.Pattern,
		Minimum:           aux.Minimum,
		Maximum:           aux.Maximum,
		MultipleOf:        aux.MultipleOf,
	}

	for _, example := range aux.Examples {
		node.Examples = append(node.Examples, *newLiteral(example))
	}
	for _, value := range aux.Enum {
		node.Enum = append(node.Enum, *newLiteral(value))
	}

	if raw, ok := keywords["default"]; ok {
		node.Default = newLiteral(raw)
	}
	if raw, ok := keywords["const"]; ok {
		node.Const = newLiteral(raw)
	}

	if raw, ok := keywords["type"]; ok {
		var err error
		node.Type, node.TypeIsList, err = decodeType(raw)
		if err != nil {
			return fmt.Errorf("decode type: %w", err)
		}
	}

	if raw, ok := keywords["additionalProperties"]; ok {
		var err error
		node.AdditionalProperties, err = decodeAdditionalProperties(raw)
		if err != nil {
			return fmt.Errorf("decode additional properties: %w", err)
		}
	}

	if raw, ok := keywords["exclusiveMinimum"]; ok {
		var err error
		node.ExclusiveMinimum, node.ExclusiveMinimumFlag, err = decodeExclusive(raw)
		if err != nil {
			return fmt.Errorf("decode exclusive minimum: %w", err)
		}
	}
	if raw, ok := keywords["exclusiveMaximum"]; ok {
		var err error
		node.ExclusiveMaximum, node.ExclusiveMaximumFlag, err = decodeExclusive(raw)
		if err != nil {
			return fmt.Errorf("decode exclusive maximum: %w", err)
		}
	}

	*n = node
	return nil
}

// Kind resolves which shape of schema node this is, in dispatch order: a reference, a union, an
// enumeration, a constant, a list of types, and finally a single array, object or primitive type.
func (n *Node) Kind() (Kind, error) {
	switch {
	case n.Ref != "":
		return KindRef, nil
	case len(n.AnyOf) > 0:
		return KindAnyOf, nil
	case len(n.Enum) > 0:
		return KindEnum, nil
	case n.Const != nil:
		return KindConst, nil
	case n.Boolean != nil:
		return KindBoolean, nil
	}

	if len(n.Type) == 0 {
		return 0, motmedelErrors.NewWithTrace(typeGenerationErrors.ErrNoType)
	}

	if n.TypeIsList {
		return KindTypeList, nil
	}

	switch typeName := n.Type[0]; {
	case typeName == "array":
		return KindArray, nil
	case typeName == "object":
		return KindObject, nil
	case PrimitiveTypeNames[typeName]:
		return KindPrimitive, nil
	default:
		return 0, motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: %q", typeGenerationErrors.ErrUnknownType, typeName),
			typeName,
		)
	}
}

// IsUntyped reports whether nothing in the node determines the type of the value it describes.
func (n *Node) IsUntyped() bool {
	return n.Ref == "" && len(n.AnyOf) == 0 && len(n.Enum) == 0 && n.Const == nil && n.Boolean == nil &&
		len(n.Type) == 0
}

// ShallowCopy returns a copy of the node sharing all children with the original.
func (n *Node) ShallowCopy() *Node {
	c := *n
	return &c
}

// WithType returns a shallow copy of the node whose type is the single given name.
func (n *Node) WithType(typeName string) *Node {
	c := n.ShallowCopy()
	c.Type = []string{typeName}
	c.TypeIsList = false
	return c
}

// WithMetadataFrom returns a shallow copy of the node with the metadata keywords (title, description,
// examples, default) of other laid over it. The keywords present in other win.
func (n *Node) WithMetadataFrom(other *Node) *Node {
	c := n.ShallowCopy()
	if other == nil {
		return c
	}

	if other.Title != "" {
		c.Title = other.Title
	}
	if other.Description != "" {
		c.Description = other.Description
	}
	if other.Examples != nil {
		c.Examples = other.Examples
	}
	if other.Default != nil {
		c.Default = other.Default
	}

	return c
}

// PropertiesLen returns the number of entries in a possibly nil property map.
func PropertiesLen(properties *Properties) int {
	if properties == nil {
		return 0
	}
	return properties.Len()
}

// CopyProperties returns a new property map with the same entries, in the same order.
func CopyProperties(properties *Properties) *Properties {
	c := orderedmap.New[string, *Node]()
	if properties == nil {
		return c
	}

	for pair := properties.Oldest(); pair != nil; pair = pair.Next() {
		c.Set(pair.Key, pair.Value)
	}

	return c
}
