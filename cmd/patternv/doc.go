// Package patternv provides the command-line interface for the PatternV
// tool. It configures subcommands (scan, extract, repl, history), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/DaniGP17/PatternV/cmd/patternv"
//	func main() { patternv.Execute() }
package patternv
