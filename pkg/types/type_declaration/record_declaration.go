package type_declaration

import (
	"github.com/vphpersson/typeddict_generation/pkg/types/identifier"
	"github.com/vphpersson/typeddict_generation/pkg/types/schema_node"
)

type PropertySignature struct {
	Identifier string
	Type       TypeExpression
	Required   bool
	Default    *schema_node.Literal
	Docstring  []string
}

type RecordDeclaration struct {
	Identifier string
	Properties []*PropertySignature
	Docstring  []string
	// Total is set when the fields are required unless marked otherwise.
	Total bool
	// Final is set when no properties other than the declared ones are allowed.
	Final bool
}

func (r *RecordDeclaration) QualifiedName() string {
	return r.Identifier
}

// HasInvalidIdentifiers reports whether some property name cannot be written as a bare identifier,
// in which case the record has to be declared with string keys.
func (r *RecordDeclaration) HasInvalidIdentifiers() bool {
	for _, property := range r.Properties {
		if property != nil && !identifier.IsValid(property.Identifier) {
			return true
		}
	}
	return false
}
