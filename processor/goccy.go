package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/envyaml/tree"
)

// parseGoccy decodes input with goccy/go-yaml. Mappings keep their source
// order. Plain scalars that look like dates stay strings.
func parseGoccy(ctx context.Context, input []byte) (*tree.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(input), yaml.UseOrderedMap())

	var doc any

	err := dec.DecodeContext(ctx, &doc)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, ErrParse.Wrap(err).With(slog.String("parser", ParserGoccy))
	}

	var extra any

	err = dec.DecodeContext(ctx, &extra)
	if !errors.Is(err, io.EOF) {
		return nil, ErrMultipleDocuments.With(slog.String("parser", ParserGoccy))
	}

	return fromGoccy(doc)
}

// fromGoccy converts a value decoded by goccy/go-yaml into a generic tree.
func fromGoccy(v any) (*tree.Node, error) {
	switch x := v.(type) {
	case nil:
		return tree.NullNode(), nil

	case yaml.MapSlice:
		entries := make([]tree.Entry, 0, len(x))

		for _, item := range x {
			k, err := fromGoccy(item.Key)
			if err != nil {
				return nil, err
			}

			val, err := fromGoccy(item.Value)
			if err != nil {
				return nil, err
			}

			entries = append(entries, tree.Entry{Key: k, Value: val})
		}

		return tree.MapNode(entries...), nil

	case map[string]any:
		entries := make([]tree.Entry, 0, len(x))

		for _, k := range slices.Sorted(maps.Keys(x)) {
			val, err := fromGoccy(x[k])
			if err != nil {
				return nil, err
			}

			entries = append(entries, tree.Pair(k, val))
		}

		return tree.MapNode(entries...), nil

	case []any:
		elems := make([]*tree.Node, 0, len(x))

		for _, e := range x {
			n, err := fromGoccy(e)
			if err != nil {
				return nil, err
			}

			elems = append(elems, n)
		}

		return tree.ListNode(elems...), nil

	case bool:
		return tree.BoolNode(x), nil

	case int:
		return tree.IntNode(int64(x)), nil

	case int64:
		return tree.IntNode(x), nil

	case uint64:
		if x <= math.MaxInt64 {
			return tree.IntNode(int64(x)), nil
		}

		return tree.UintNode(x), nil

	case uint:
		return fromGoccy(uint64(x))

	case float64:
		return tree.FloatNode(x), nil

	case float32:
		return tree.FloatNode(float64(x)), nil

	case string:
		return tree.StringNode(x), nil

	case time.Time:
		return tree.DateNode(x), nil

	case *time.Time:
		if x == nil {
			return tree.NullNode(), nil
		}

		return tree.DateNode(*x), nil

	default:
		return nil, ErrUnsupportedValue.With(
			slog.String("parser", ParserGoccy),
			slog.String("type", fmt.Sprintf("%T", v)),
		)
	}
}
