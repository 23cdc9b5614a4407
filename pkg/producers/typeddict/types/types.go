package types

import (
	"bytes"
	"fmt"
	"strings"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	typeGenerationErrors "github.com/vphpersson/typeddict_generation/pkg/errors"
	typeddictErrors "github.com/vphpersson/typeddict_generation/pkg/producers/typeddict/errors"
	typeGenerationContext "github.com/vphpersson/typeddict_generation/pkg/types/context"
	"github.com/vphpersson/typeddict_generation/pkg/types/identifier"
	"github.com/vphpersson/typeddict_generation/pkg/types/schema_node"
	"github.com/vphpersson/typeddict_generation/pkg/types/type_declaration"
)

const (
	pathSeparator     = "__"
	itemPathSuffix    = pathSeparator + "item"
	keyPathSuffix     = pathSeparator + "key"
	valuePathSuffix   = pathSeparator + "value"
	schemaPropertyKey = "$schema"
)

var primitiveTypes = map[string]BasicType{
	"string":  Str,
	"integer": Int,
	"number":  Float,
	"boolean": Bool,
	"null":    None,
}

// Result is what converting one schema node produces: the declarations the node needs, in output
// order, and the expression to use wherever the node is referenced.
type Result struct {
	Declarations []type_declaration.TypeDeclaration
	Inline       Type
	Docstring    []string
	// Default is nil when the node has no default; a default of null is a literal holding `null`.
	Default *schema_node.Literal
}

type Context struct {
	*typeGenerationContext.Context
}

func childPath(path string, name string) string {
	return path + pathSeparator + name
}

func nodeResult(node *schema_node.Node, inline Type, declarations []type_declaration.TypeDeclaration) (*Result, error) {
	docstring, err := Docstring(node)
	if err != nil {
		return nil, fmt.Errorf("docstring: %w", err)
	}

	return &Result{Declarations: declarations, Inline: inline, Docstring: docstring, Default: node.Default}, nil
}

// Convert converts the node found at path. The path names the declarations the node gives rise to.
func (c *Context) Convert(path string, node *schema_node.Node) (*Result, error) {
	if node == nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("%w: %s", typeGenerationErrors.ErrNilNode, path), path)
	}

	kind, err := node.Kind()
	if err != nil {
		return nil, motmedelErrors.New(fmt.Errorf("%w: %s: %w", typeddictErrors.ErrSchema, path, err), path)
	}

	switch kind {
	case schema_node.KindRef:
		return c.convertReference(path, node)
	case schema_node.KindAnyOf:
		return c.convertUnion(path, node, node.AnyOf)
	case schema_node.KindEnum:
		return c.convertEnum(path, node)
	case schema_node.KindConst:
		return c.convertConst(path, node)
	case schema_node.KindBoolean:
		if *node.Boolean {
			return &Result{Inline: Any}, nil
		}
		return &Result{Inline: Never}, nil
	case schema_node.KindTypeList:
		var alternatives []*schema_node.Node
		for _, typeName := range node.Type {
			alternatives = append(alternatives, node.WithType(typeName))
		}
		return c.convertUnion(path, node, alternatives)
	case schema_node.KindArray:
		return c.convertArray(path, node)
	case schema_node.KindObject:
		return c.convertObject(path, node)
	case schema_node.KindPrimitive:
		return c.convertPrimitive(node)
	default:
		return nil, motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: %s: %s", typeGenerationErrors.ErrUnsupportedKind, path, kind),
			kind,
		)
	}
}

func (c *Context) convertReference(path string, node *schema_node.Node) (*Result, error) {
	key, definition, err := c.ResolveReference(node.Ref)
	if err != nil {
		return nil, motmedelErrors.New(fmt.Errorf("resolve reference (%s): %w", path, err), node.Ref)
	}

	result, err := nodeResult(definition.WithMetadataFrom(node), &TypeReference{Identifier: identifier.ToTypeName(key)}, nil)
	if err != nil {
		return nil, fmt.Errorf("node result: %w", err)
	}

	return result, nil
}

// CombineUnion converts each alternative and joins the expressions into a union. Alternatives are
// converted at `<path>__any<i>`, except for a single alternative, which keeps the path.
func (c *Context) CombineUnion(path string, alternatives []*schema_node.Node) (*Result, error) {
	if len(alternatives) == 0 {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("%w: %s", typeddictErrors.ErrEmptyUnion, path), path)
	}

	single := len(alternatives) == 1

	result := &Result{}
	var inlines []Type
	for i, alternative := range alternatives {
		alternativePath := path
		if !single {
			alternativePath = childPath(path, fmt.Sprintf("any%d", i))
		}

		alternativeResult, err := c.Convert(alternativePath, alternative)
		if err != nil {
			return nil, fmt.Errorf("convert (%s): %w", alternativePath, err)
		}

		result.Declarations = append(result.Declarations, alternativeResult.Declarations...)
		inlines = append(inlines, alternativeResult.Inline)
	}

	if single {
		result.Inline = inlines[0]
	} else {
		result.Inline = &UnionType{Types: inlines}
	}

	return result, nil
}

func (c *Context) convertUnion(path string, node *schema_node.Node, alternatives []*schema_node.Node) (*Result, error) {
	union, err := c.CombineUnion(path, alternatives)
	if err != nil {
		return nil, fmt.Errorf("combine union: %w", err)
	}

	result, err := nodeResult(node, union.Inline, union.Declarations)
	if err != nil {
		return nil, fmt.Errorf("node result: %w", err)
	}

	return result, nil
}

func (c *Context) convertArray(path string, node *schema_node.Node) (*Result, error) {
	var declarations []type_declaration.TypeDeclaration
	var itemsType Type = Any

	if node.Items != nil {
		itemsPath := path + itemPathSuffix
		itemsResult, err := c.Convert(itemsPath, node.Items)
		if err != nil {
			return nil, fmt.Errorf("convert (%s): %w", itemsPath, err)
		}
		declarations = itemsResult.Declarations
		itemsType = itemsResult.Inline
	}

	annotations, err := ArrayAnnotations(node)
	if err != nil {
		return nil, fmt.Errorf("array annotations (%s): %w", path, err)
	}

	result, err := nodeResult(node, annotate(&ListType{ItemsType: itemsType}, annotations), declarations)
	if err != nil {
		return nil, fmt.Errorf("node result: %w", err)
	}

	return result, nil
}

func (c *Context) convertObject(path string, node *schema_node.Node) (*Result, error) {
	merged := MergeConditionals(node)
	merged.Properties.Delete(schemaPropertyKey)

	if merged.Properties.Len() == 0 &&
		(schema_node.PropertiesLen(merged.PatternProperties) > 0 || merged.AdditionalProperties.Schema != nil) {
		return c.convertOpenMap(path, merged)
	}

	required := make(map[string]bool, len(merged.Required))
	for _, name := range merged.Required {
		required[name] = true
	}

	numRequired := 0
	for pair := merged.Properties.Oldest(); pair != nil; pair = pair.Next() {
		if required[pair.Key] {
			numRequired++
		}
	}

	record := &type_declaration.RecordDeclaration{
		Identifier: identifier.ToTypeName(path),
		Total:      numRequired > merged.Properties.Len()-numRequired,
		Final:      merged.AdditionalProperties.Closed(),
	}

	var declarations []type_declaration.TypeDeclaration
	for pair := merged.Properties.Oldest(); pair != nil; pair = pair.Next() {
		propertyPath := childPath(path, pair.Key)
		propertyResult, err := c.Convert(propertyPath, pair.Value)
		if err != nil {
			return nil, fmt.Errorf("convert (%s): %w", propertyPath, err)
		}

		declarations = append(declarations, propertyResult.Declarations...)
		record.Properties = append(
			record.Properties,
			&type_declaration.PropertySignature{
				Identifier: pair.Key,
				Type:       propertyResult.Inline,
				Required:   required[pair.Key],
				Default:    propertyResult.Default,
				Docstring:  propertyResult.Docstring,
			},
		)
	}

	var err error
	record.Docstring, err = Docstring(merged)
	if err != nil {
		return nil, fmt.Errorf("docstring (%s): %w", path, err)
	}

	// Where the record is referenced, only its description is repeated.
	var docstring []string
	if merged.Description != "" {
		docstring = strings.Split(merged.Description, "\n")
	}

	return &Result{
		Declarations: append(declarations, record),
		Inline:       &TypeReference{Identifier: record.Identifier},
		Docstring:    docstring,
		Default:      merged.Default,
	}, nil
}

// convertOpenMap converts an object without fixed properties into a dict. Keys are typed by
// `propertyNames`, falling back to str, and converted at `<path>__key`; values are typed by the
// pattern properties and the additional properties schema, converted at `<path>__value`.
func (c *Context) convertOpenMap(path string, node *schema_node.Node) (*Result, error) {
	var keyAlternatives []*schema_node.Node
	if propertyNames := node.PropertyNames; propertyNames != nil && propertyNames.Boolean == nil {
		if propertyNames.IsUntyped() {
			propertyNames = propertyNames.WithType("string")
		}
		keyAlternatives = append(keyAlternatives, propertyNames)
	}
	if schema_node.PropertiesLen(node.PatternProperties) > 0 || len(keyAlternatives) == 0 {
		keyAlternatives = append(keyAlternatives, &schema_node.Node{Type: []string{"string"}})
	}

	var valueAlternatives []*schema_node.Node
	if node.PatternProperties != nil {
		for pair := node.PatternProperties.Oldest(); pair != nil; pair = pair.Next() {
			valueAlternatives = append(valueAlternatives, pair.Value)
		}
	}
	if node.AdditionalProperties.Schema != nil {
		valueAlternatives = append(valueAlternatives, node.AdditionalProperties.Schema)
	}

	keyResult, err := c.CombineUnion(path+keyPathSuffix, keyAlternatives)
	if err != nil {
		return nil, fmt.Errorf("combine union (key): %w", err)
	}

	valueResult, err := c.CombineUnion(path+valuePathSuffix, valueAlternatives)
	if err != nil {
		return nil, fmt.Errorf("combine union (value): %w", err)
	}

	annotations, err := MapAnnotations(node)
	if err != nil {
		return nil, fmt.Errorf("map annotations (%s): %w", path, err)
	}

	result, err := nodeResult(
		node,
		annotate(&DictType{KeyType: keyResult.Inline, ValueType: valueResult.Inline}, annotations),
		append(keyResult.Declarations, valueResult.Declarations...),
	)
	if err != nil {
		return nil, fmt.Errorf("node result: %w", err)
	}

	return result, nil
}

func (c *Context) convertEnum(path string, node *schema_node.Node) (*Result, error) {
	declaration := &type_declaration.LiteralUnionDeclaration{
		Identifier: identifier.ToTypeName(path),
		Values:     node.Enum,
	}

	result, err := nodeResult(
		node,
		&TypeReference{Identifier: declaration.Identifier},
		[]type_declaration.TypeDeclaration{declaration},
	)
	if err != nil {
		return nil, fmt.Errorf("node result: %w", err)
	}

	return result, nil
}

// convertConst converts a constant into a single-value literal type. Objects and arrays cannot be
// literal types; for those the rest of the node decides the type.
func (c *Context) convertConst(path string, node *schema_node.Node) (*Result, error) {
	if value := bytes.TrimSpace(*node.Const); len(value) > 0 && (value[0] == '{' || value[0] == '[') {
		withoutConst := node.ShallowCopy()
		withoutConst.Const = nil
		if withoutConst.IsUntyped() {
			result, err := nodeResult(node, Any, nil)
			if err != nil {
				return nil, fmt.Errorf("node result: %w", err)
			}
			return result, nil
		}

		result, err := c.Convert(path, withoutConst)
		if err != nil {
			return nil, fmt.Errorf("convert (%s without const): %w", path, err)
		}
		return result, nil
	}

	result, err := nodeResult(node, &LiteralType{Values: []schema_node.Literal{*node.Const}}, nil)
	if err != nil {
		return nil, fmt.Errorf("node result: %w", err)
	}

	return result, nil
}

func (c *Context) convertPrimitive(node *schema_node.Node) (*Result, error) {
	typeName := node.Type[0]
	basicType, ok := primitiveTypes[typeName]
	if !ok {
		return nil, motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: %q", typeGenerationErrors.ErrUnknownType, typeName),
			typeName,
		)
	}

	var annotations []string
	var err error
	switch basicType {
	case Str:
		annotations, err = StringAnnotations(node)
	case Int, Float:
		annotations, err = NumberAnnotations(node)
	}
	if err != nil {
		return nil, fmt.Errorf("annotations (%s): %w", typeName, err)
	}

	result, err := nodeResult(node, annotate(basicType, annotations), nil)
	if err != nil {
		return nil, fmt.Errorf("node result: %w", err)
	}

	return result, nil
}
