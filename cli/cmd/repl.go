package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/envyaml/cli/cmd/repl"
	"github.com/ardnew/envyaml/log"
)

// Repl starts an interactive session for probing placeholders and documents.
type Repl struct {
	Source []string `arg:"" help:"Input file(s) to explore." optional:"" type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var source []byte

	if len(r.Source) > 0 {
		if source, err = readSources(r.Source); err != nil {
			return err
		}
	}

	p, err := processorFrom(ctx)
	if err != nil {
		return err
	}

	history := ""
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir := ktx.Model.Vars()[CacheIdentifier]; dir != "" {
			history = filepath.Join(dir, repl.HistoryFile)
		}
	}

	log.DebugContext(ctx, "repl",
		slog.Int("sources", len(r.Source)),
		slog.String("history", history),
	)

	return repl.Run(ctx, source,
		repl.WithEnv(envFrom(ctx)),
		repl.WithEnvNames(environNames()...),
		repl.WithParser(p.Parser()),
		repl.WithHistory(history),
		repl.WithLogger(log.Default()),
	)
}

// environNames returns the names of the process environment variables.
func environNames() []string {
	env := os.Environ()
	names := make([]string, 0, len(env))

	for _, kv := range env {
		if name, _, ok := strings.Cut(kv, "="); ok && name != "" {
			names = append(names, name)
		}
	}

	return names
}
