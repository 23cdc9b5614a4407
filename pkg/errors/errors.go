package errors

import (
	"errors"
)

var (
	ErrNilNode         = errors.New("nil node")
	ErrNilDefinition   = errors.New("nil definition")
	ErrNoType          = errors.New("no type defined")
	ErrUnknownType     = errors.New("unknown type")
	ErrUnsupportedKind = errors.New("unsupported kind")
	ErrReference       = errors.New("unsupported reference")
	ErrCycle           = errors.New("reference cycle")
)
