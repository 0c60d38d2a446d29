package repl

import (
	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/processor"
	"github.com/ardnew/envyaml/resolve"
)

// Option applies a configuration option to config.
type Option func(config) config

type config struct {
	env     resolve.Env
	names   []string
	parser  string
	history string
	logger  log.Logger
}

func makeConfig(opts ...Option) config {
	c := config{
		env:    resolve.Empty,
		parser: processor.DefaultParser,
		logger: log.Discard(),
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// WithEnv returns a functional option that sets the base environment
// consulted by placeholders.
func WithEnv(env resolve.Env) Option {
	return func(c config) config {
		if env == nil {
			env = resolve.Empty
		}

		c.env = env

		return c
	}
}

// WithEnvNames returns a functional option that sets the variable names
// offered as completions inside placeholders.
func WithEnvNames(names ...string) Option {
	return func(c config) config {
		c.names = names

		return c
	}
}

// WithParser returns a functional option that selects the YAML parser by
// name. See [processor.Parsers].
func WithParser(name string) Option {
	return func(c config) config {
		c.parser = name

		return c
	}
}

// WithHistory returns a functional option that sets the history file path.
// An empty path keeps history in memory only.
func WithHistory(path string) Option {
	return func(c config) config {
		c.history = path

		return c
	}
}

// WithLogger returns a functional option that sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}
