package type_declaration

import "github.com/vphpersson/typeddict_generation/pkg/types/schema_node"

// LiteralUnionDeclaration names the union of a fixed list of values, in the order they are listed.
type LiteralUnionDeclaration struct {
	Identifier string
	Values     []schema_node.Literal
}

func (l *LiteralUnionDeclaration) QualifiedName() string {
	return l.Identifier
}
