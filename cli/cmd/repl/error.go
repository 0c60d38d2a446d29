package repl

import "github.com/ardnew/envyaml/convert"

// Sentinel errors.
var (
	ErrOutOfBounds     = convert.NewError("index out of range")
	ErrEditDeclined    = convert.NewError("decline edit")
	ErrUsage           = convert.NewError("invalid arguments")
	ErrUnknownVariable = convert.NewError("no such session variable")
	ErrNoDocument      = convert.NewError("no document loaded")
)
