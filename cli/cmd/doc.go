// Package cmd implements the envyaml subcommands.
//
// Commands read their input documents through [OpenSources] and convert them
// with the processor stored in the command context by [WithProcessor]. The
// environment consulted by placeholders is stored by [WithEnv], and results
// are written to the writer stored by [WithOutput].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
