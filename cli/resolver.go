package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/processor"
	"github.com/ardnew/envyaml/resolve"
	"github.com/ardnew/envyaml/tree"
)

// loadConfig returns a [kong.ConfigurationLoader] that reads config files
// with this module's own YAML processor.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadConfig(ctx, resolve.OS), "/path/to/config.yaml")
//
// The document is converted as follows:
//   - Top-level keys name flags, with hyphens or underscores
//     (e.g., "log-level" or "log_level")
//   - Nested mappings are flattened by joining keys with hyphens, so
//     {log: {level: debug}} sets --log-level
//   - Lists become repeated values of slice flags
//   - Scalars are passed to kong as text
//   - Values may use ${NAME:default} placeholders, resolved from env
//
// Example config file:
//
//	log:
//	  level: "${ENVYAML_LOG_LEVEL:info}"
//	  format: text
//	env-set:
//	  - REGION=us-east-1
//
// Command-line flags override config file values. A config file that fails
// to load is reported at warn level and otherwise ignored.
func loadConfig(
	ctx context.Context,
	env resolve.Env,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			log.WarnContext(ctx, "config unreadable", slog.Any("error", err))

			return config{}, nil
		}

		p, err := processor.New(
			processor.WithEnv(env),
			processor.WithLogger(log.Default()),
		)
		if err != nil {
			return nil, err
		}

		v, err := p.Process(ctx, nil, data)
		if err != nil {
			log.WarnContext(ctx, "config ignored", slog.Any("error", err))

			return config{}, nil
		}

		cfg := config{}
		if v == nil || v.Kind != tree.KindObject {
			log.WarnContext(ctx, "config ignored", slog.String("reason", "not a mapping"))

			return cfg, nil
		}

		cfg.flatten("", v)

		log.TraceContext(ctx, "config loaded", slog.Int("keys", len(cfg)))

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but YAML keys
	// often use underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten stores the leaves of v under hyphen-joined key paths.
func (r config) flatten(prefix string, v *tree.Value) {
	if v == nil {
		return
	}

	switch v.Kind {
	case tree.KindObject:
		for k, e := range v.Object.All() {
			key := k
			if prefix != "" {
				key = prefix + "-" + k
			}

			r.flatten(key, e)
		}

	case tree.KindList:
		// Kong parses slice flags from their text elements.
		list := make([]any, 0, len(v.List))
		for _, e := range v.List {
			list = append(list, e.Text())
		}

		r[prefix] = list

	case tree.KindNull:
		// Unset; kong keeps the default.

	default:
		// Kong requires numbers as strings for parsing
		r[prefix] = v.Text()
	}
}
