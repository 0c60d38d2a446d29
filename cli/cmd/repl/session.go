package repl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/processor"
	"github.com/ardnew/envyaml/resolve"
	"github.com/ardnew/envyaml/tree"
)

// session holds the state probed by the REPL: a document, the environment its
// placeholders resolve against, and variables set during the session.
//
// Session variables shadow the base environment. The document is converted
// again whenever they change.
type session struct {
	proc   *processor.Processor
	base   resolve.Env
	vars   resolve.Map
	names  []string
	source []byte
	doc    *tree.Value
	logger log.Logger
}

func newSession(ctx context.Context, source []byte, cfg config) (*session, error) {
	s := &session{
		base:   cfg.env,
		vars:   resolve.Map{},
		names:  cfg.names,
		logger: cfg.logger,
	}

	proc, err := processor.New(
		processor.WithParser(cfg.parser),
		processor.WithEnv(s.env()),
		processor.WithLogger(cfg.logger),
	)
	if err != nil {
		return nil, err
	}

	s.proc = proc

	if err := s.load(ctx, source); err != nil {
		return nil, err
	}

	return s, nil
}

// env returns the session variables layered over the base environment.
// The overlay reads the variable map live, so it tracks later changes.
func (s *session) env() resolve.Env {
	return resolve.Overlay{s.vars, s.base}
}

// load converts source and, on success, makes it the session document.
func (s *session) load(ctx context.Context, source []byte) error {
	if source == nil {
		s.source, s.doc = nil, nil

		return nil
	}

	doc, err := s.proc.Process(ctx, nil, source)
	if err != nil {
		return err
	}

	s.source, s.doc = source, doc

	s.logger.TraceContext(ctx, "repl document loaded",
		slog.Int("bytes", len(source)),
		slog.Bool("empty", doc == nil),
	)

	return nil
}

// reload converts the current source again.
func (s *session) reload(ctx context.Context) error {
	return s.load(ctx, s.source)
}

// eval resolves raw scalar text against the session environment.
func (s *session) eval(raw string) resolve.Result {
	return resolve.Explain(raw, s.env())
}

// set assigns a session variable from a KEY=VALUE assignment.
func (s *session) set(ctx context.Context, assignment string) (string, error) {
	key, value, ok := strings.Cut(assignment, "=")
	key = strings.TrimSpace(key)

	if !ok || key == "" {
		return "", ErrUsage.With(slog.String("usage", "set KEY=VALUE"))
	}

	s.vars[key] = value

	return key, s.reload(ctx)
}

// unset removes a session variable.
func (s *session) unset(ctx context.Context, key string) error {
	if _, ok := s.vars[key]; !ok {
		return ErrUnknownVariable.With(slog.String("name", key))
	}

	delete(s.vars, key)

	return s.reload(ctx)
}

// lookup returns the document value at the dotted path.
// The empty path is the whole document.
func (s *session) lookup(path string) (*tree.Value, bool) {
	if s.doc == nil {
		return nil, false
	}

	path = strings.Trim(path, ". ")
	if path == "" {
		return s.doc, true
	}

	return s.doc.Lookup(path)
}

// children returns the keys or indices directly below the value at path.
func (s *session) children(path string) []string {
	v, ok := s.lookup(path)
	if !ok {
		return nil
	}

	switch v.Kind {
	case tree.KindObject:
		return v.Object.Keys()

	case tree.KindList:
		idx := make([]string, len(v.List))
		for i := range v.List {
			idx[i] = strconv.Itoa(i)
		}

		return idx

	default:
		return nil
	}
}

// envNames returns the sorted names of variables visible to placeholders
// that are known to the session.
func (s *session) envNames() []string {
	env := s.env()
	seen := make(map[string]struct{}, len(s.names)+len(s.vars))

	for _, name := range s.names {
		if _, ok := env.Lookup(name); ok {
			seen[name] = struct{}{}
		}
	}

	for name := range s.vars {
		seen[name] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen))
}

// variables renders the session variables as sorted KEY=VALUE lines.
func (s *session) variables() string {
	var b strings.Builder

	for _, key := range slices.Sorted(maps.Keys(s.vars)) {
		fmt.Fprintf(&b, "%s=%s\n", key, s.vars[key])
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// show renders v as indented JSON.
func show(v *tree.Value) string {
	raw, err := v.MarshalJSON()
	if err != nil {
		return v.Text()
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}

	return buf.String()
}

// preview renders a one-line summary of v no wider than limit.
func preview(v *tree.Value, limit int) string {
	var s string

	switch v.Kind {
	case tree.KindObject:
		s = fmt.Sprintf("{ %d keys }", v.Object.Len())
	case tree.KindList:
		s = fmt.Sprintf("[ %d items ]", len(v.List))
	default:
		s = v.Kind.String() + " " + v.Text()
	}

	if limit > 3 && len(s) > limit {
		s = s[:limit-3] + "..."
	}

	return s
}
