// Package profile provides optional runtime profiling for the moye
// interpreter.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without the tag every [Profiler] is a no-op.
//
//	go build -tags pprof .
//	moye --pprof-mode cpu eval bench.moye
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread and trace. [Modes] lists them programmatically.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// Profiles land in the cache directory by default and are read with the go
// tool:
//
//	go tool pprof ./moye ~/.cache/moye/pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
