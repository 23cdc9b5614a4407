package errors

import "errors"

var (
	ErrSchema        = errors.New("schema error")
	ErrEmptyRootName = errors.New("empty root name")
	ErrNilType       = errors.New("nil type")
	ErrEmptyUnion    = errors.New("empty union")
	ErrNilResult     = errors.New("nil result")
)
