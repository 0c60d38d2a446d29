package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/tree"
)

// Output formats accepted by [Eval].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Eval converts YAML documents into typed trees and prints the result.
type Eval struct {
	Format string   `default:"json" enum:"json,yaml"                 help:"Output format (${enum})." short:"o"`
	Indent int      `default:"2"                                     help:"Spaces per indentation level; 0 for compact JSON."`
	Source []string `                arg:"" help:"Input file(s) or '-' for stdin." optional:"" type:"path"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	v, err := loadDocument(ctx, e.Source)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "document converted",
		slog.String("format", e.Format),
		slog.Int("sources", len(e.Source)),
	)

	out, err := render(v, e.Format, e.Indent)
	if err != nil {
		return err
	}

	if _, err := outputFrom(ctx).Write(out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// render encodes v in the given format, terminated by a newline.
func render(v *tree.Value, format string, indent int) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return renderJSON(v, indent)
	case FormatYAML:
		return renderYAML(v, indent)
	default:
		return nil, ErrFormat.With(slog.String("format", format))
	}
}

func renderJSON(v *tree.Value, indent int) ([]byte, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, ErrJSONMarshal.Wrap(err)
	}

	var buf bytes.Buffer

	if indent > 0 {
		err = json.Indent(&buf, raw, "", strings.Repeat(" ", indent))
	} else {
		err = json.Compact(&buf, raw)
	}

	if err != nil {
		return nil, ErrJSONMarshal.Wrap(err)
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

func renderYAML(v *tree.Value, indent int) ([]byte, error) {
	if v == nil {
		return []byte("null\n"), nil
	}

	if indent < 1 {
		indent = 2
	}

	out, err := yaml.MarshalWithOptions(v,
		yaml.Indent(indent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return nil, ErrYAMLMarshal.Wrap(err)
	}

	return out, nil
}

// writeString writes s to w, mapping failures to [ErrWriteOutput].
func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
