package processor

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/envyaml/tree"
)

// Parser decodes a single YAML document into a generic tree.
//
// A document without content yields a nil node. Input holding more than one
// document is an error.
type Parser interface {
	Parse(ctx context.Context, input []byte) (*tree.Node, error)
}

// ParserFunc adapts a function to [Parser].
type ParserFunc func(ctx context.Context, input []byte) (*tree.Node, error)

// Parse implements [Parser].
func (f ParserFunc) Parse(ctx context.Context, input []byte) (*tree.Node, error) {
	return f(ctx, input)
}

// Names of the built-in parsers.
const (
	ParserGoccy  = "goccy"
	ParserYAMLv3 = "yamlv3"

	DefaultParser = ParserYAMLv3
)

//nolint:gochecknoglobals
var parsers = map[string]Parser{
	ParserGoccy:  ParserFunc(parseGoccy),
	ParserYAMLv3: ParserFunc(parseYAMLv3),
}

// Parsers returns the names of the built-in parsers in sorted order.
func Parsers() []string {
	return slices.Sorted(maps.Keys(parsers))
}

// LookupParser returns the built-in parser with the given name.
// Names are matched case-insensitively.
func LookupParser(name string) (Parser, error) {
	p, ok := parsers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrUnknownParser.With(
			slog.String("name", name),
			slog.String("valid", strings.Join(Parsers(), ",")),
		)
	}

	return p, nil
}
