package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/processor"
	"github.com/ardnew/envyaml/resolve"
	"github.com/ardnew/envyaml/tree"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	envKey       struct{}
	processorKey struct{}
	outputKey    struct{}
)

// WithEnv returns a new context.Context containing the environment consulted
// by placeholders.
func WithEnv(ctx context.Context, env resolve.Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// envFrom returns the environment stored in ctx by [WithEnv], or the process
// environment if none was stored.
func envFrom(ctx context.Context) resolve.Env {
	if env, ok := ctx.Value(envKey{}).(resolve.Env); ok && env != nil {
		return env
	}

	return resolve.OS
}

// WithProcessor returns a new context.Context containing the processor used
// to read documents.
func WithProcessor(ctx context.Context, p *processor.Processor) context.Context {
	return context.WithValue(ctx, processorKey{}, p)
}

// processorFrom returns the processor stored in ctx by [WithProcessor]. If none
// was stored, it returns a default processor bound to the context environment.
func processorFrom(ctx context.Context) (*processor.Processor, error) {
	if p, ok := ctx.Value(processorKey{}).(*processor.Processor); ok && p != nil {
		return p, nil
	}

	return processor.New(
		processor.WithEnv(envFrom(ctx)),
		processor.WithLogger(log.Default()),
	)
}

// WithOutput returns a new context.Context containing the writer that
// commands print their results to.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

type (
	sourceFiles struct {
		read     []io.Reader
		hasStdin bool
		mr       io.Reader
	}

	// SourceFiles reads the concatenation of one or more input documents.
	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		io.ReadCloser
		io.WriterTo
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// readers returns the sources in read order with a newline between each,
// since a file may lack a trailing newline.
func (s *sourceFiles) readers() []io.Reader {
	all := s.read
	if s.hasStdin {
		all = append(all[:len(all):len(all)], os.Stdin)
	}

	readers := make([]io.Reader, 0, 2*len(all))

	for i, r := range all {
		if i > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, r)
	}

	return readers
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	if s.mr == nil {
		s.mr = io.MultiReader(s.readers()...)
	}

	return s.mr.Read(p)
}

// WriteTo implements io.WriterTo by writing all source files to w in order,
// including stdin if present.
func (s *sourceFiles) WriteTo(w io.Writer) (n int64, err error) {
	if s.mr == nil {
		s.mr = io.MultiReader(s.readers()...)
	}

	return io.Copy(w, s.mr)
}

// Close closes every opened source file. Stdin is left open.
func (s *sourceFiles) Close() error {
	var errs []error

	for _, r := range s.read {
		if c, ok := r.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}

	return errors.Join(errs...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// OpenSources returns a [SourceFiles] that reads the given sources in order.
// With no sources, it reads stdin.
//
// Readers are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader placed
// last so it reads after all regular files. Sources that cannot be opened are
// reported as [ErrOpenSource].
func OpenSources(sources ...string) (SourceFiles, error) {
	if len(sources) == 0 {
		sources = []string{stdinSource}
	}

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		reader, err := openUniqueFile(src, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrOpenSource.With(slog.String("source", src)).Wrap(err)
		}

		if reader != nil {
			srcs.read = append(srcs.read, reader)
		}
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]

	return &srcs, nil
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates, returning
// a nil reader for a duplicate.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.Reader, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, nil
		}

		seen[key] = struct{}{}
	}

	return os.Open(resolved)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// readSources reads the given sources in full. With no sources, it reads
// stdin.
func readSources(sources []string) ([]byte, error) {
	src, err := OpenSources(sources...)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, ErrReadSource.Wrap(err)
	}

	return data, nil
}

// loadDocument reads the given sources and converts them into a typed tree
// with the processor from ctx.
func loadDocument(ctx context.Context, sources []string) (*tree.Value, error) {
	data, err := readSources(sources)
	if err != nil {
		return nil, err
	}

	p, err := processorFrom(ctx)
	if err != nil {
		return nil, err
	}

	return p.Process(ctx, nil, data)
}
