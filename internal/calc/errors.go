package calc

import "errors"

var (
	ErrUnknownOp     = errors.New("unknown operation")
	ErrUnknownVector = errors.New("unknown vector")
	ErrBadArity      = errors.New("wrong number of arguments")
	ErrMissingScalar = errors.New("scalar operand required")
	ErrBadElement    = errors.New("unsupported element type")
	ErrBadComponent  = errors.New("invalid vector component")
	ErrDivideByZero  = errors.New("integer divide by zero")
	ErrNotVector     = errors.New("result is not a vector")
)
