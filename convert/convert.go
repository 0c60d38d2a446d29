package convert

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/resolve"
	"github.com/ardnew/envyaml/tree"
)

// Convert builds a typed configuration tree from a generic document.
//
// A nil or null document yields a nil value and no error. Any other document
// must be a mapping. Mapping keys of every kind are coerced to their text.
// Scalar leaves of a mapping are stringified and then resolved with
// [resolve.Resolve], so placeholders are substituted and types inferred.
// List elements are not resolved: mappings and lists inside them are
// converted recursively, dates become instants, and other scalars keep the
// type the parser gave them.
//
// Every failure matches [ErrDecode] and no partial tree is returned.
func Convert(doc *tree.Node, opts ...Option) (*tree.Value, error) {
	c := converter{config: makeConfig(opts...)}

	if doc == nil || doc.Kind == tree.NodeNull {
		c.logger.Trace("empty document")

		return nil, nil
	}

	if doc.Kind != tree.NodeMap {
		return nil, ErrDecode.Wrap(
			ErrNotObject.With(slog.String("kind", doc.Kind.String())),
		)
	}

	obj, err := c.object(doc, "", 1)
	if err != nil {
		c.logger.Debug("conversion failed", slog.Any("error", err))

		return nil, ErrDecode.Wrap(err)
	}

	c.logger.Trace("document converted", slog.Int("keys", obj.Len()))

	return tree.FromObject(obj), nil
}

type converter struct {
	config
}

func (c *converter) enter(path string, depth int) error {
	if depth > c.maxDepth {
		return ErrMaxDepth.With(
			slog.String("path", path),
			slog.Int("limit", c.maxDepth),
		)
	}

	return nil
}

func (c *converter) object(n *tree.Node, path string, depth int) (*tree.Object, error) {
	if err := c.enter(path, depth); err != nil {
		return nil, err
	}

	obj := tree.NewObject()

	for _, e := range n.Map {
		key := e.Key.Text()
		at := join(path, key)

		v, err := c.member(e.Value, at, depth)
		if err != nil {
			return nil, err
		}

		obj.Set(key, v)
	}

	return obj, nil
}

// member converts the value of a mapping entry.
func (c *converter) member(n *tree.Node, path string, depth int) (*tree.Value, error) {
	if n == nil {
		return tree.Null(), nil
	}

	switch n.Kind {
	case tree.NodeMap:
		obj, err := c.object(n, path, depth+1)
		if err != nil {
			return nil, err
		}

		return tree.FromObject(obj), nil

	case tree.NodeList:
		return c.list(n, path, depth+1)

	case tree.NodeDate:
		return tree.Instant(n.Date), nil

	case tree.NodeNull:
		return tree.Null(), nil

	case tree.NodeBool, tree.NodeInt, tree.NodeUint, tree.NodeFloat, tree.NodeString:
		return c.scalar(n.Text(), path), nil

	default:
		return nil, ErrInvalidNode.With(
			slog.String("path", path),
			slog.String("kind", n.Kind.String()),
		)
	}
}

func (c *converter) list(n *tree.Node, path string, depth int) (*tree.Value, error) {
	if err := c.enter(path, depth); err != nil {
		return nil, err
	}

	elems := make([]*tree.Value, 0, len(n.List))

	for i, e := range n.List {
		v, err := c.element(e, join(path, strconv.Itoa(i)), depth)
		if err != nil {
			return nil, err
		}

		elems = append(elems, v)
	}

	return tree.List(elems...), nil
}

// element converts a list element. Scalars pass through unresolved.
func (c *converter) element(n *tree.Node, path string, depth int) (*tree.Value, error) {
	if n == nil {
		return tree.Null(), nil
	}

	switch n.Kind {
	case tree.NodeMap:
		obj, err := c.object(n, path, depth+1)
		if err != nil {
			return nil, err
		}

		return tree.FromObject(obj), nil

	case tree.NodeList:
		return c.list(n, path, depth+1)

	case tree.NodeDate:
		return tree.Instant(n.Date), nil

	case tree.NodeNull:
		return tree.Null(), nil

	case tree.NodeString:
		return tree.String(n.Str), nil

	case tree.NodeInt:
		return tree.Integer(n.Int), nil

	case tree.NodeUint:
		if n.Uint <= math.MaxInt64 {
			return tree.Integer(int64(n.Uint)), nil
		}

		return tree.String(n.Text()), nil

	case tree.NodeFloat:
		return tree.Float(n.Float), nil

	case tree.NodeBool:
		// There is no boolean kind; keep the literal text.
		return tree.String(n.Text()), nil

	default:
		return nil, ErrInvalidNode.With(
			slog.String("path", path),
			slog.String("kind", n.Kind.String()),
		)
	}
}

func (c *converter) scalar(raw, path string) *tree.Value {
	res := resolve.Explain(raw, c.env)

	if c.logger.Enabled(context.Background(), log.LevelDebug) &&
		res.Origin != resolve.OriginPlain {
		attrs := []slog.Attr{
			slog.String("path", path),
			slog.String("origin", res.Origin.String()),
			slog.String("kind", res.Value.Kind.String()),
		}
		if res.Name != "" {
			attrs = append(attrs, slog.String("name", res.Name))
		}

		c.logger.Debug("placeholder resolved", attrs...)
	}

	return res.Value
}

func join(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}
