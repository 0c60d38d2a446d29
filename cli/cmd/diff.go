package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/tree"
)

// Diff formats accepted by [Diff].
const (
	DiffText  = "text"
	DiffPatch = "patch"
)

// Diff shows what placeholder resolution and type inference changed in a
// document.
//
// The text format is a line diff of the parsed document against the typed
// tree, both rendered as YAML with sorted keys. The patch format is an
// RFC 7386 JSON merge patch that turns the parsed document into the typed
// tree.
type Diff struct {
	Format string   `default:"text" enum:"text,patch" help:"Diff format (${enum})." short:"o"`
	Source []string `arg:"" help:"Input file(s) or '-' for stdin." optional:"" type:"path"`
}

// Run executes the diff command.
func (d *Diff) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	data, err := readSources(d.Source)
	if err != nil {
		return err
	}

	p, err := processorFrom(ctx)
	if err != nil {
		return err
	}

	doc, err := p.Parse(ctx, data)
	if err != nil {
		return err
	}

	v, err := p.Process(ctx, nil, data)
	if err != nil {
		return err
	}

	raw := doc.Native()
	if len(data) == 0 {
		raw = map[string]any{}
	}

	resolved := v.Native()

	log.DebugContext(ctx, "diff", slog.String("format", d.Format))

	out := outputFrom(ctx)

	switch d.Format {
	case DiffPatch:
		patch, err := mergePatch(raw, v.MarshalJSON)
		if err != nil {
			return err
		}

		return writeString(out, string(patch)+"\n")

	default:
		text, err := lineDiff(raw, resolved, makeShades(log.IsTerminal(out)))
		if err != nil {
			return err
		}

		return writeString(out, text)
	}
}

// mergePatch returns the merge patch from the JSON encoding of raw to the
// JSON produced by resolved.
func mergePatch(raw any, resolved func() ([]byte, error)) ([]byte, error) {
	original, err := json.Marshal(finiteJSON(raw))
	if err != nil {
		return nil, ErrDiff.Wrap(ErrJSONMarshal.Wrap(err))
	}

	modified, err := resolved()
	if err != nil {
		return nil, ErrDiff.Wrap(ErrJSONMarshal.Wrap(err))
	}

	patch, err := jsonpatch.CreateMergePatch(original, modified)
	if err != nil {
		return nil, ErrDiff.Wrap(err)
	}

	return patch, nil
}

// finiteJSON returns a copy of the native tree v with non-finite floats
// replaced by the strings the typed tree encodes them as.
func finiteJSON(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return tree.FloatNode(x).Text()
		}

		return x

	case []any:
		list := make([]any, len(x))
		for i, e := range x {
			list[i] = finiteJSON(e)
		}

		return list

	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = finiteJSON(e)
		}

		return m

	default:
		return v
	}
}

// lineDiff renders a and b as YAML and returns their line diff. Unchanged
// lines are prefixed with two spaces, removed lines with "- ", and added
// lines with "+ ". The result is empty if nothing changed.
func lineDiff(a, b any, paint shades) (string, error) {
	textA, err := yaml.Marshal(a)
	if err != nil {
		return "", ErrDiff.Wrap(ErrYAMLMarshal.Wrap(err))
	}

	textB, err := yaml.Marshal(b)
	if err != nil {
		return "", ErrDiff.Wrap(ErrYAMLMarshal.Wrap(err))
	}

	if string(textA) == string(textB) {
		return "", nil
	}

	dmp := diffmatchpatch.New()

	charsA, charsB, lines := dmp.DiffLinesToChars(string(textA), string(textB))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lines)

	var sb strings.Builder

	sb.WriteString(paint.header.Sprint("--- parsed") + "\n")
	sb.WriteString(paint.header.Sprint("+++ resolved") + "\n")

	for _, d := range diffs {
		prefix, shade := "  ", (*color.Color)(nil)

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, shade = "- ", paint.removed
		case diffmatchpatch.DiffInsert:
			prefix, shade = "+ ", paint.added
		case diffmatchpatch.DiffEqual:
		}

		for line := range strings.Lines(d.Text) {
			line = prefix + strings.TrimSuffix(line, "\n")
			if shade != nil {
				line = shade.Sprint(line)
			}

			sb.WriteString(line + "\n")
		}
	}

	return sb.String(), nil
}
