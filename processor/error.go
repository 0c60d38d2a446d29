package processor

import "github.com/ardnew/envyaml/convert"

// Predefined errors (sentinel values).
//
// Errors returned by [Processor.Process] always match [convert.ErrDecode];
// these identify the cause.
var (
	ErrParse             = convert.NewError("parse YAML")
	ErrMultipleDocuments = convert.NewError("multiple YAML documents")
	ErrUnsupportedValue  = convert.NewError("unsupported YAML value")
	ErrAliasDepth        = convert.NewError("alias expansion too deep")
	ErrUnknownParser     = convert.NewError("unknown parser")
)
