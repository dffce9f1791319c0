package main

import "github.com/DaniGP17/PatternV/cmd/patternv"

func main() { patternv.Execute() }
