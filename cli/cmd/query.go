package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/tree"
)

// Query evaluates an expression against the typed tree of a document.
//
// Top-level keys of the document are variables of the expression, and the
// whole document is available as $env. The function env(name) returns the
// value of an environment variable, or nil if it is unset.
type Query struct {
	Expr   string   `arg:"" help:"Expression to evaluate, e.g. 'server.port + 1'." name:"expr"`
	Format string   `       help:"Output format for non-string results (${enum})." default:"json" enum:"json,yaml" short:"o"`
	Source []string `arg:"" help:"Input file(s) or '-' for stdin."                 optional:""    type:"path"`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	v, err := loadDocument(ctx, q.Source)
	if err != nil {
		return err
	}

	result, err := evaluate(ctx, q.Expr, v)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "query evaluated",
		slog.String("expr", q.Expr),
		slog.String("type", fmt.Sprintf("%T", result)),
	)

	out := outputFrom(ctx)

	switch r := result.(type) {
	case string:
		return writeString(out, r+"\n")

	case nil:
		return writeString(out, "null\n")

	case bool, int, int32, int64, float64:
		return writeString(out, fmt.Sprintln(r))

	case time.Time:
		return writeString(out, r.UTC().Format(time.RFC3339Nano)+"\n")

	default:
		b, err := renderNative(r, q.Format)
		if err != nil {
			return err
		}

		_, err = out.Write(b)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}
}

// renderNative encodes a composite expression result in the given format.
func renderNative(r any, format string) ([]byte, error) {
	if format == FormatYAML {
		b, err := yaml.MarshalWithOptions(r, yaml.Indent(2), yaml.IndentSequence(true)) //nolint:mnd
		if err != nil {
			return nil, ErrYAMLMarshal.Wrap(err)
		}

		return b, nil
	}

	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, ErrJSONMarshal.Wrap(err)
	}

	return append(b, '\n'), nil
}

// evaluate compiles and runs src with the variables of v.
func evaluate(ctx context.Context, src string, v *tree.Value) (any, error) {
	vars, _ := v.Native().(map[string]any)
	if vars == nil {
		vars = map[string]any{}
	}

	env := envFrom(ctx)

	lookup := expr.Function("env",
		func(params ...any) (any, error) {
			name, _ := params[0].(string)
			if value, ok := env.Lookup(name); ok {
				return value, nil
			}

			return nil, nil
		},
		new(func(string) any),
	)

	program, err := expr.Compile(src, expr.Env(vars), lookup)
	if err != nil {
		return nil, ErrQuery.With(slog.String("expr", src)).Wrap(err)
	}

	result, err := expr.Run(program, vars)
	if err != nil {
		return nil, ErrQuery.With(slog.String("expr", src)).Wrap(err)
	}

	return result, nil
}
