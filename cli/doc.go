// Package cli contains the command line interface for envyaml.
//
// # Usage
//
// The default command converts YAML documents into typed trees:
//
//	envyaml config.yaml
//	envyaml eval --format=yaml base.yaml overlay.yaml
//	cat config.yaml | envyaml eval -
//
// Other commands explain single scalars ([cmd.Resolve]), evaluate expressions
// against a document ([cmd.Query]), show what resolution changed
// ([cmd.Diff]), start an interactive session ([cmd.Repl]), and write a
// default configuration file ([cmd.Init]).
//
// # Environment Options
//
// Placeholders of the form ${NAME:default} are resolved against the process
// environment, adjusted by:
//
//   - --env-set KEY=VALUE: Set a variable (repeatable)
//   - --env-prepend KEY=ITEM: Prepend ITEM to a path list (repeatable)
//   - --no-env-inherit: Ignore the process environment
//
// # Configuration File
//
// Flag defaults are read from config.yaml in the user configuration
// directory (override with $ENVYAML_CONFIG_DIR). The file is itself converted
// by envyaml, so it may use placeholders. Nested keys are joined with hyphens:
//
//	log:
//	  level: ${ENVYAML_LOG_LEVEL:info}
//	env:
//	  set:
//	    - REGION=us-east-1
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o envyaml .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/envyaml/pprof)
package cli
