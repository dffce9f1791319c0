// Package engine contains the core scanning logic for PatternV. It
// enumerates candidate build files, locates their code sections, runs the
// pattern matcher under bounded parallelism, and returns a deterministically
// ordered report. This package is internal; the CLI maps flags and config
// files into an engine Config.
package engine
