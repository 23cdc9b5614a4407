package schema_node

type Kind int

const (
	KindRef Kind = iota
	KindAnyOf
	KindEnum
	KindConst
	KindBoolean
	KindTypeList
	KindArray
	KindObject
	KindPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindRef:
		return "ref"
	case KindAnyOf:
		return "anyOf"
	case KindEnum:
		return "enum"
	case KindConst:
		return "const"
	case KindBoolean:
		return "boolean schema"
	case KindTypeList:
		return "type list"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// PrimitiveTypeNames is the set of JSON Schema type names that map directly onto a base type.
var PrimitiveTypeNames = map[string]bool{
	"string":  true,
	"integer": true,
	"number":  true,
	"boolean": true,
	"null":    true,
}
