package convert

import (
	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/resolve"
)

// DefaultMaxDepth is the default limit on nested mappings and lists.
const DefaultMaxDepth = 512

// Option applies a configuration option to config.
type Option func(config) config

type config struct {
	env      resolve.Env
	logger   log.Logger
	maxDepth int
}

func makeConfig(opts ...Option) config {
	c := config{
		env:      resolve.Empty,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// WithEnv returns a functional option that sets the environment consulted by
// placeholders. The default is an empty environment; pass [resolve.OS] to
// read the process environment.
func WithEnv(env resolve.Env) Option {
	return func(c config) config {
		if env == nil {
			env = resolve.Empty
		}

		c.env = env

		return c
	}
}

// WithLogger returns a functional option that sets the logger used to trace
// conversion. The zero [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// WithMaxDepth returns a functional option that limits how deeply mappings
// and lists may nest. Values less than 1 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c config) config {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		c.maxDepth = depth

		return c
	}
}
