package processor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ardnew/envyaml/tree"
)

// maxAliasDepth bounds how many aliases may be expanded inside one another.
const maxAliasDepth = 64

// parseYAMLv3 decodes input with gopkg.in/yaml.v3 by walking its node
// representation. Plain scalars resolved as timestamps become dates, merge
// keys are applied, and aliases are expanded.
func parseYAMLv3(ctx context.Context, input []byte) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(input))

	var doc yaml.Node

	err := dec.Decode(&doc)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, ErrParse.Wrap(err).With(slog.String("parser", ParserYAMLv3))
	}

	var extra yaml.Node

	err = dec.Decode(&extra)
	if !errors.Is(err, io.EOF) {
		return nil, ErrMultipleDocuments.With(slog.String("parser", ParserYAMLv3))
	}

	return (&nodeWalker{ctx: ctx}).walk(&doc)
}

type nodeWalker struct {
	ctx     context.Context //nolint:containedctx
	aliases int
}

func (w *nodeWalker) walk(n *yaml.Node) (*tree.Node, error) {
	if err := w.ctx.Err(); err != nil {
		return nil, err
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}

		return w.walk(n.Content[0])

	case yaml.MappingNode:
		return w.mapping(n)

	case yaml.SequenceNode:
		elems := make([]*tree.Node, 0, len(n.Content))

		for _, c := range n.Content {
			e, err := w.walk(c)
			if err != nil {
				return nil, err
			}

			elems = append(elems, e)
		}

		return tree.ListNode(elems...), nil

	case yaml.AliasNode:
		if w.aliases >= maxAliasDepth {
			return nil, ErrAliasDepth.With(
				slog.String("anchor", n.Value),
				slog.Int("line", n.Line),
			)
		}

		w.aliases++
		defer func() { w.aliases-- }()

		return w.walk(n.Alias)

	case yaml.ScalarNode:
		return scalar(n)

	default:
		return nil, ErrUnsupportedValue.With(
			slog.String("parser", ParserYAMLv3),
			slog.Int("line", n.Line),
		)
	}
}

// mapping converts a mapping node. Entries pulled in through merge keys are
// placed ahead of the explicit entries so that explicit keys take precedence
// under last-write-wins.
func (w *nodeWalker) mapping(n *yaml.Node) (*tree.Node, error) {
	var merged, explicit []tree.Entry

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]

		if isMerge(k) {
			entries, err := w.merge(v)
			if err != nil {
				return nil, err
			}

			merged = append(merged, entries...)

			continue
		}

		key, err := w.walk(k)
		if err != nil {
			return nil, err
		}

		val, err := w.walk(v)
		if err != nil {
			return nil, err
		}

		explicit = append(explicit, tree.Entry{Key: key, Value: val})
	}

	return tree.MapNode(append(merged, explicit...)...), nil
}

// merge returns the entries contributed by the value of a merge key: a
// mapping, an alias of one, or a sequence of those. Earlier mappings in a
// sequence take precedence over later ones.
func (w *nodeWalker) merge(v *yaml.Node) ([]tree.Entry, error) {
	var sources []*yaml.Node

	if resolved(v).Kind == yaml.SequenceNode {
		sources = resolved(v).Content
	} else {
		sources = []*yaml.Node{v}
	}

	var entries []tree.Entry

	for _, src := range slices.Backward(sources) {
		if resolved(src).Kind != yaml.MappingNode {
			return nil, ErrUnsupportedValue.With(
				slog.String("parser", ParserYAMLv3),
				slog.String("reason", "merge value is not a mapping"),
				slog.Int("line", src.Line),
			)
		}

		m, err := w.walk(src)
		if err != nil {
			return nil, err
		}

		entries = append(entries, m.Map...)
	}

	return entries, nil
}

func isMerge(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!merge"
}

func resolved(n *yaml.Node) *yaml.Node {
	for depth := 0; n.Kind == yaml.AliasNode && n.Alias != nil && depth < maxAliasDepth; depth++ {
		n = n.Alias
	}

	return n
}

func scalar(n *yaml.Node) (*tree.Node, error) {
	fail := func(err error) (*tree.Node, error) {
		return nil, ErrParse.Wrap(err).With(
			slog.String("parser", ParserYAMLv3),
			slog.Int("line", n.Line),
			slog.Int("column", n.Column),
		)
	}

	switch n.ShortTag() {
	case "!!null":
		return tree.NullNode(), nil

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return fail(err)
		}

		return tree.BoolNode(b), nil

	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return tree.IntNode(i), nil
		}

		var u uint64
		if err := n.Decode(&u); err == nil {
			return tree.UintNode(u), nil
		}

		// Too large for any integer type; keep the source text.
		return tree.StringNode(n.Value), nil

	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return fail(err)
		}

		return tree.FloatNode(f), nil

	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return fail(err)
		}

		return tree.DateNode(t), nil

	default:
		// !!str, !!binary, and application tags keep their text.
		return tree.StringNode(n.Value), nil
	}
}
