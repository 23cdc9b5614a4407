package type_declaration

type TypeAliasDeclaration struct {
	Identifier string
	Type       TypeExpression
}

func (t *TypeAliasDeclaration) QualifiedName() string {
	return t.Identifier
}
