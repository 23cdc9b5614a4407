package type_declaration

// TypeExpression is a type as written where a value is declared, for example the type of a record
// field or the right-hand side of a type alias.
type TypeExpression interface {
	String() (string, error)
}

type TypeDeclaration interface {
	QualifiedName() string
}
