package types

import (
	"fmt"
	"strings"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	typeGenerationErrors "github.com/vphpersson/typeddict_generation/pkg/errors"
	"github.com/vphpersson/typeddict_generation/pkg/types/type_declaration"
)

type RecordDeclaration struct {
	*type_declaration.RecordDeclaration
}

func (r *RecordDeclaration) propertyTypeString(property *type_declaration.PropertySignature) (string, error) {
	var propertyType Type = property.Type
	switch {
	case property.Required == r.Total:
	case property.Required:
		propertyType = &QualifiedType{Qualifier: Required, Type: property.Type}
	default:
		propertyType = &QualifiedType{Qualifier: NotRequired, Type: property.Type}
	}

	return typeString(propertyType)
}

// functionalString renders the record with the call syntax, which allows keys that are not
// identifiers. The docstring becomes a comment since the call has no place for it.
func (r *RecordDeclaration) functionalString() (string, error) {
	lines := CommentDocstring(r.Docstring)
	lines = append(
		lines,
		fmt.Sprintf("%s = %s.TypedDict(%s, {", r.Identifier, TypingModule, QuoteString(r.Identifier)),
	)

	for _, property := range r.Properties {
		typeStr, err := r.propertyTypeString(property)
		if err != nil {
			return "", fmt.Errorf("property type string (%s): %w", property.Identifier, err)
		}
		lines = append(lines, fmt.Sprintf("%s%s: %s,", indent, QuoteString(property.Identifier), typeStr))
	}

	if r.Total {
		lines = append(lines, "})")
	} else {
		lines = append(lines, "}, total=False)")
	}

	return strings.Join(lines, "\n"), nil
}

func (r *RecordDeclaration) String() (string, error) {
	for _, property := range r.Properties {
		if property == nil {
			return "", motmedelErrors.NewWithTrace(fmt.Errorf("%w: nil property", typeGenerationErrors.ErrNilNode), r.Identifier)
		}
	}

	if r.HasInvalidIdentifiers() {
		return r.functionalString()
	}

	var lines []string
	if r.Final {
		lines = append(lines, "@"+TypingModule+".final")
	}

	if r.Total {
		lines = append(lines, fmt.Sprintf("class %s(%s.TypedDict):", r.Identifier, TypingModule))
	} else {
		lines = append(lines, fmt.Sprintf("class %s(%s.TypedDict, total=False):", r.Identifier, TypingModule))
	}

	lines = append(lines, BlockDocstring(r.Docstring)...)

	for _, property := range r.Properties {
		typeStr, err := r.propertyTypeString(property)
		if err != nil {
			return "", fmt.Errorf("property type string (%s): %w", property.Identifier, err)
		}

		line := fmt.Sprintf("%s%s: %s", indent, property.Identifier, typeStr)
		if property.Default != nil {
			defaultString, err := RenderLiteral(*property.Default)
			if err != nil {
				return "", fmt.Errorf("render literal (default of %s): %w", property.Identifier, err)
			}
			line += " = " + defaultString
		}

		lines = append(lines, line)
		lines = append(lines, BlockDocstring(property.Docstring)...)
	}

	if len(r.Properties) == 0 && len(r.Docstring) == 0 {
		lines = append(lines, indent+"pass")
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return strings.Join(lines, "\n"), nil
}

type LiteralUnionDeclaration struct {
	*type_declaration.LiteralUnionDeclaration
}

func (l *LiteralUnionDeclaration) String() (string, error) {
	values := make([]string, 0, len(l.Values))
	for _, value := range l.Values {
		valueString, err := RenderLiteral(value)
		if err != nil {
			return "", fmt.Errorf("render literal: %w", err)
		}
		values = append(values, indent+valueString)
	}

	return fmt.Sprintf(
		"%s = %s.Literal[\n%s\n]",
		l.Identifier,
		TypingModule,
		strings.Join(values, ",\n"),
	), nil
}

type TypeAliasDeclaration struct {
	*type_declaration.TypeAliasDeclaration
}

func (a *TypeAliasDeclaration) String() (string, error) {
	typeStr, err := typeString(a.Type)
	if err != nil {
		return "", fmt.Errorf("type string: %w", err)
	}

	return fmt.Sprintf("%s: %s.TypeAlias = %s", a.Identifier, TypingModule, typeStr), nil
}

// RenderDeclaration renders any of the declarations a conversion produces.
func RenderDeclaration(typeDeclaration type_declaration.TypeDeclaration) (string, error) {
	switch v := any(typeDeclaration).(type) {
	case *type_declaration.RecordDeclaration:
		return (&RecordDeclaration{RecordDeclaration: v}).String()
	case *type_declaration.LiteralUnionDeclaration:
		return (&LiteralUnionDeclaration{LiteralUnionDeclaration: v}).String()
	case *type_declaration.TypeAliasDeclaration:
		return (&TypeAliasDeclaration{TypeAliasDeclaration: v}).String()
	default:
		return "", motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: declaration %T", typeGenerationErrors.ErrUnsupportedKind, typeDeclaration),
			typeDeclaration,
		)
	}
}
