package types

import (
	"fmt"
	"strings"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	motmedelMaps "github.com/Motmedel/utils_go/pkg/maps"
	typeGenerationErrors "github.com/vphpersson/typeddict_generation/pkg/errors"
	typeddictErrors "github.com/vphpersson/typeddict_generation/pkg/producers/typeddict/errors"
	"github.com/vphpersson/typeddict_generation/pkg/types/identifier"
	"github.com/vphpersson/typeddict_generation/pkg/types/schema_node"
	"github.com/vphpersson/typeddict_generation/pkg/types/type_declaration"
)

const Header = `# This file is generated. Manual changes will be lost
# fmt: off
# ruff: noqa
# mypy: disable-error-code="misc"
from __future__ import annotations

import typing_extensions as typ


`

const (
	definitionsSection   = "# Definitions\n"
	schemaEntriesSection = "# Schema entries\n"
)

// writeResult writes the declarations of a result, each preceded by a blank line, followed by an
// alias binding name to the inline expression unless the inline expression already is name.
func writeResult(builder *strings.Builder, name string, result *Result) error {
	if result == nil {
		return motmedelErrors.NewWithTrace(typeddictErrors.ErrNilResult, name)
	}

	declarations := result.Declarations

	inline, err := typeString(result.Inline)
	if err != nil {
		return fmt.Errorf("type string (inline): %w", err)
	}
	if inline != name {
		declarations = append(
			declarations[:len(declarations):len(declarations)],
			&type_declaration.TypeAliasDeclaration{Identifier: name, Type: result.Inline},
		)
	}

	for _, declaration := range declarations {
		declarationString, err := RenderDeclaration(declaration)
		if err != nil {
			return motmedelErrors.New(fmt.Errorf("render declaration: %w", err), declaration)
		}
		builder.WriteString("\n")
		builder.WriteString(declarationString)
		builder.WriteString("\n")
	}

	return nil
}

// Render renders the declarations of every definition in the context, in document order, and then
// those of the root node, with the root type named rootName.
func (c *Context) Render(root *schema_node.Node, rootName string) (string, error) {
	if root == nil {
		return "", motmedelErrors.NewWithTrace(typeGenerationErrors.ErrNilNode)
	}
	if rootName == "" {
		return "", motmedelErrors.NewWithTrace(typeddictErrors.ErrEmptyRootName)
	}

	var builder strings.Builder
	builder.WriteString(Header)

	if len(c.DefinitionNamesInOrder) > 0 {
		builder.WriteString(definitionsSection)

		for _, name := range c.DefinitionNamesInOrder {
			definition, err := motmedelMaps.MapGetNonZero(c.Definitions, name)
			if err != nil {
				return "", motmedelErrors.New(fmt.Errorf("map get non zero: %w", err), name)
			}

			result, err := c.Convert(name, definition)
			if err != nil {
				return "", fmt.Errorf("convert (definition %s): %w", name, err)
			}

			if err := writeResult(&builder, identifier.ToTypeName(name), result); err != nil {
				return "", fmt.Errorf("write result (definition %s): %w", name, err)
			}
		}

		builder.WriteString("\n")
	}

	builder.WriteString(schemaEntriesSection)

	result, err := c.Convert(rootName, root)
	if err != nil {
		return "", fmt.Errorf("convert (root): %w", err)
	}

	if err := writeResult(&builder, rootName, result); err != nil {
		return "", fmt.Errorf("write result (root): %w", err)
	}

	return builder.String(), nil
}
