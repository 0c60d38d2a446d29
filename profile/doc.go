// Package profile provides optional runtime profiling for envyaml.
//
// Profiling is backed by [github.com/pkg/profile] and is compiled in only when
// building with the "pprof" tag:
//
//	go build -tags pprof .
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// A profiler is described by a [Config] built from functional options:
//
//	p := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/envyaml"),
//	).Start()
//	defer p.Stop()
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread, and trace. Profile files are written to the configured directory
// with names matching the mode (for example cpu.pprof) and are analyzed with
// "go tool pprof".
package profile
