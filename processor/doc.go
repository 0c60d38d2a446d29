// Package processor reads YAML configuration documents into typed trees.
//
// A [Processor] parses its input with one of the built-in parsers and hands
// the result to [convert.Convert]:
//
//	p, err := processor.New()
//	if err != nil {
//		return err
//	}
//	v, err := p.Process(ctx, nil, data)
//
// Placeholders are resolved against the process environment unless
// [WithEnv] supplies another.
//
// Two parsers are available. The default, "yamlv3", follows YAML 1.1
// timestamp resolution, so plain dates become instants. The "goccy" parser
// keeps mapping order and leaves date-like scalars as strings.
package processor
