package processor

import (
	"github.com/ardnew/envyaml/convert"
	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/resolve"
)

// Option applies a configuration option to config.
type Option func(config) config

type config struct {
	parser     Parser
	parserName string
	env        resolve.Env
	logger     log.Logger
	maxDepth   int
}

func makeConfig(opts ...Option) config {
	c := config{
		parserName: DefaultParser,
		env:        resolve.OS,
		maxDepth:   convert.DefaultMaxDepth,
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// WithParser returns a functional option that selects a built-in parser by
// name. See [Parsers].
func WithParser(name string) Option {
	return func(c config) config {
		c.parser = nil
		c.parserName = name

		return c
	}
}

// WithCustomParser returns a functional option that installs p under the
// given name.
func WithCustomParser(name string, p Parser) Option {
	return func(c config) config {
		c.parser = p
		c.parserName = name

		return c
	}
}

// WithEnv returns a functional option that sets the environment consulted by
// placeholders. The default, also used when env is nil, is the process
// environment.
func WithEnv(env resolve.Env) Option {
	return func(c config) config {
		if env == nil {
			env = resolve.OS
		}

		c.env = env

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

// WithMaxDepth returns a functional option that limits how deeply mappings
// and lists may nest.
func WithMaxDepth(depth int) Option {
	return func(c config) config {
		c.maxDepth = depth

		return c
	}
}
