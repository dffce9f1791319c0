// Package buildid derives display labels and sort keys for build artifacts
// from their filenames.
package buildid

import (
	"regexp"
	"strconv"
)

var buildNumber = regexp.MustCompile(`\d{4}`)

// Label returns the first four-digit run in name, or name itself when none
// exists. "Game_1234.exe" labels as "1234"; "GameBeta.exe" labels as
// "GameBeta.exe".
func Label(name string) string {
	if m := buildNumber.FindString(name); m != "" {
		return m
	}
	return name
}

// SortKey maps a label to its numeric build id for report ordering. Labels
// that are not purely numeric sort as build 0.
func SortKey(label string) int {
	n, err := strconv.Atoi(label)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
