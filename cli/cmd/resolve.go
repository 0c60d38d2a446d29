package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/resolve"
)

// Resolve prints the inferred kind, origin, and value of raw scalar strings.
type Resolve struct {
	Raw []string `arg:"" help:"Raw scalar text, e.g. '${PORT:8080}'." name:"raw"`
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := outputFrom(ctx)
	env := envFrom(ctx)
	paint := makeShades(log.IsTerminal(out))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:mnd

	for _, raw := range r.Raw {
		res := resolve.Explain(raw, env)

		log.TraceContext(ctx, "resolved",
			slog.String("raw", raw),
			slog.String("kind", res.Value.Kind.String()),
			slog.String("origin", res.Origin.String()),
		)

		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			paint.kind.Sprint(res.Value.Kind),
			paint.origin.Sprint(describeOrigin(res)),
			paint.value.Sprint(res.Value.Text()),
		)
	}

	if err := tw.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// describeOrigin renders the origin of res, qualified by the variable name
// when one was consulted.
func describeOrigin(res resolve.Result) string {
	if res.Name == "" {
		return res.Origin.String()
	}

	return res.Origin.String() + ":" + res.Name
}

// shades holds the colors used for command output.
type shades struct {
	kind, origin, value, added, removed, header *color.Color
}

func makeShades(enable bool) shades {
	paint := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}

		return c
	}

	return shades{
		kind:    paint(color.FgYellow),
		origin:  paint(color.FgHiBlack),
		value:   paint(color.FgCyan),
		added:   paint(color.FgGreen),
		removed: paint(color.FgRed),
		header:  paint(color.Bold),
	}
}
