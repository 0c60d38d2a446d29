package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/resolve"
)

// envConfig selects the environment that placeholders are resolved against.
type envConfig struct {
	Set     []string `help:"Set variable KEY=VALUE (repeatable)."                         placeholder:"KEY=VALUE" sep:"none"`
	Prepend []string `help:"Prepend ITEM to the path list in variable KEY (repeatable)." placeholder:"KEY=ITEM"  sep:"none"`
	Inherit bool     `default:"true" help:"Inherit the process environment." negatable:""`
}

func (*envConfig) vars() kong.Vars {
	return kong.Vars{}
}

func (*envConfig) group() kong.Group {
	var group kong.Group

	group.Key = "env"
	group.Title = "Environment options"

	return group
}

// build returns the environment described by f.
//
// Variables given with --env-set take precedence over the process
// environment. Each --env-prepend is applied in order on top of the value
// visible at that point, using the OS path list separator.
func (f *envConfig) build(ctx context.Context, base resolve.Env) resolve.Env {
	if !f.Inherit || base == nil {
		base = resolve.Empty
	}

	overrides := resolve.ParseMap(f.Set...)
	env := resolve.Overlay{overrides, base}

	for _, entry := range f.Prepend {
		key, item, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			log.WarnContext(ctx, "ignoring malformed prepend",
				slog.String("entry", entry),
			)

			continue
		}

		cur, _ := env.Lookup(key)
		overrides[key] = prependItems(cur, item)
	}

	log.TraceContext(ctx, "environment built",
		slog.Bool("inherit", f.Inherit),
		slog.Int("overrides", len(overrides)),
	)

	return env
}

// prependItems returns the path list subject with items placed in front.
func prependItems(subject string, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()
}
