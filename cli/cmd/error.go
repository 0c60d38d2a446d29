package cmd

import "github.com/ardnew/envyaml/convert"

// Error is the structured error type returned by commands.
type Error = convert.Error

var (
	ErrOpenSource  = convert.NewError("open source")
	ErrReadSource  = convert.NewError("read source")
	ErrJSONMarshal = convert.NewError("marshal JSON")
	ErrYAMLMarshal = convert.NewError("marshal YAML")
	ErrFormat      = convert.NewError("unknown output format")
	ErrQuery       = convert.NewError("query")
	ErrDiff        = convert.NewError("diff")
	ErrWriteOutput = convert.NewError("write output")
	ErrWriteConfig = convert.NewError("write configuration file")
	ErrFileExists  = convert.NewError("file exists (use --force to overwrite)")
)
