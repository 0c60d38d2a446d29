package processor

import (
	"context"
	"log/slog"

	"github.com/ardnew/envyaml/convert"
	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/resolve"
	"github.com/ardnew/envyaml/tree"
)

// Name is the format name reported by [Processor.Name].
const Name = "yaml"

// Processor reads YAML configuration documents into typed trees.
//
// A Processor holds no mutable state and is safe for concurrent use.
type Processor struct {
	parser     Parser
	parserName string
	env        resolve.Env
	logger     log.Logger
	maxDepth   int
}

// New returns a Processor configured with the given options.
// It fails only if [WithParser] names an unknown parser.
func New(opts ...Option) (*Processor, error) {
	cfg := makeConfig(opts...)

	parser := cfg.parser
	if parser == nil {
		var err error

		parser, err = LookupParser(cfg.parserName)
		if err != nil {
			return nil, err
		}
	}

	return &Processor{
		parser:     parser,
		parserName: cfg.parserName,
		env:        cfg.env,
		logger:     cfg.logger,
		maxDepth:   cfg.maxDepth,
	}, nil
}

// Name returns the format handled by p.
func (*Processor) Name() string { return Name }

// Parser returns the name of the parser used by p.
func (p *Processor) Parser() string { return p.parserName }

// Process decodes input and converts it into a typed tree.
//
// The conf object carries host configuration and is not consulted.
// Empty input yields an empty object without invoking the parser. A document
// without content yields nil. Every failure matches [convert.ErrDecode].
func (p *Processor) Process(
	ctx context.Context,
	_ *tree.Object,
	input []byte,
) (*tree.Value, error) {
	if len(input) == 0 {
		p.logger.TraceContext(ctx, "empty input")

		return tree.FromObject(tree.NewObject()), nil
	}

	p.logger.DebugContext(ctx, "processing document",
		slog.String("parser", p.parserName),
		slog.Int("bytes", len(input)),
	)

	doc, err := p.Parse(ctx, input)
	if err != nil {
		return nil, err
	}

	v, err := convert.Convert(doc,
		convert.WithEnv(p.env),
		convert.WithLogger(p.logger),
		convert.WithMaxDepth(p.maxDepth),
	)
	if err != nil {
		p.logger.DebugContext(ctx, "conversion failed", slog.Any("error", err))

		return nil, err
	}

	return v, nil
}

// Parse decodes input into a generic tree without converting it.
// Every failure matches [convert.ErrDecode].
func (p *Processor) Parse(ctx context.Context, input []byte) (*tree.Node, error) {
	doc, err := p.parser.Parse(ctx, input)
	if err != nil {
		p.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, convert.ErrDecode.Wrap(err)
	}

	return doc, nil
}
