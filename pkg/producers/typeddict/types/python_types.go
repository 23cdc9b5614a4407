package types

import (
	"fmt"
	"strings"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	typeddictErrors "github.com/vphpersson/typeddict_generation/pkg/producers/typeddict/errors"
	"github.com/vphpersson/typeddict_generation/pkg/types/schema_node"
)

const TypingModule = "typ"

type Type interface {
	String() (string, error)
}

func typeString(t Type) (string, error) {
	if t == nil {
		return "", motmedelErrors.NewWithTrace(typeddictErrors.ErrNilType)
	}
	return t.String()
}

type TypeReference struct {
	Identifier string
}

func (t *TypeReference) String() (string, error) { return t.Identifier, nil }

type BasicType string

const (
	Str   = BasicType("str")
	Int   = BasicType("int")
	Float = BasicType("float")
	Bool  = BasicType("bool")
	None  = BasicType("None")
	Any   = BasicType(TypingModule + ".Any")
	Never = BasicType(TypingModule + ".Never")
)

func (b BasicType) String() (string, error) { return string(b), nil }

type UnionType struct {
	Types []Type
}

func (u *UnionType) String() (string, error) {
	if len(u.Types) == 0 {
		return "", motmedelErrors.NewWithTrace(typeddictErrors.ErrEmptyUnion)
	}

	var pythonTypes []string
	for _, t := range u.Types {
		typeStr, err := typeString(t)
		if err != nil {
			return "", fmt.Errorf("type string: %w", err)
		}
		pythonTypes = append(pythonTypes, typeStr)
	}
	return strings.Join(pythonTypes, " | "), nil
}

type ListType struct {
	ItemsType Type
}

func (l *ListType) String() (string, error) {
	typeStr, err := typeString(l.ItemsType)
	if err != nil {
		return "", fmt.Errorf("items type string: %w", err)
	}

	return fmt.Sprintf("list[%s]", typeStr), nil
}

type DictType struct {
	KeyType   Type
	ValueType Type
}

func (d *DictType) String() (string, error) {
	keyTypeString, err := typeString(d.KeyType)
	if err != nil {
		return "", fmt.Errorf("key type string: %w", err)
	}

	valueTypeString, err := typeString(d.ValueType)
	if err != nil {
		return "", fmt.Errorf("value type string: %w", err)
	}

	return fmt.Sprintf("dict[%s, %s]", keyTypeString, valueTypeString), nil
}

// AnnotatedType attaches descriptive strings to a type. The strings are rendered as string literals
// and are never evaluated.
type AnnotatedType struct {
	Type        Type
	Annotations []string
}

func (a *AnnotatedType) String() (string, error) {
	typeStr, err := typeString(a.Type)
	if err != nil {
		return "", fmt.Errorf("annotated type string: %w", err)
	}

	if len(a.Annotations) == 0 {
		return typeStr, nil
	}

	elements := []string{typeStr}
	for _, annotation := range a.Annotations {
		elements = append(elements, QuoteString(annotation))
	}

	return fmt.Sprintf("%s.Annotated[%s]", TypingModule, strings.Join(elements, ", ")), nil
}

type LiteralType struct {
	Values []schema_node.Literal
}

func (l *LiteralType) String() (string, error) {
	var values []string
	for _, value := range l.Values {
		valueString, err := RenderLiteral(value)
		if err != nil {
			return "", fmt.Errorf("render literal: %w", err)
		}
		values = append(values, valueString)
	}

	return fmt.Sprintf("%s.Literal[%s]", TypingModule, strings.Join(values, ", ")), nil
}

// QualifiedType wraps a type in a qualifier such as `typ.Required`.
type QualifiedType struct {
	Qualifier string
	Type      Type
}

const (
	Required    = "Required"
	NotRequired = "NotRequired"
)

func (q *QualifiedType) String() (string, error) {
	typeStr, err := typeString(q.Type)
	if err != nil {
		return "", fmt.Errorf("qualified type string: %w", err)
	}

	return fmt.Sprintf("%s.%s[%s]", TypingModule, q.Qualifier, typeStr), nil
}
