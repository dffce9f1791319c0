// Package pattern compiles textual wildcard byte patterns and finds every
// offset at which they occur in a raw buffer. A compiled Pattern is immutable
// and safe to share across concurrent scans.
package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Element is one position of a compiled pattern: a bound byte value, or a
// wildcard that matches any byte.
type Element struct {
	Value    byte
	Wildcard bool
}

// Pattern is an ordered sequence of elements compiled from a textual
// signature such as "48 8B ?? C3".
type Pattern []Element

// Compile splits text on whitespace and turns each token into one element.
// "?" and "??" become wildcards; any other token must parse as a hex byte
// (case-insensitive, 00-FF). Tokens that do not parse are dropped and
// reported in the returned warnings, silently shortening the pattern;
// surviving elements keep their relative order. An empty result means no
// valid token was supplied; callers must refuse to scan with it.
func Compile(text string) (Pattern, []string) {
	var pat Pattern
	var warnings []string
	for _, tok := range strings.Fields(text) {
		if tok == "?" || tok == "??" {
			pat = append(pat, Element{Wildcard: true})
			continue
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid byte %q", tok))
			continue
		}
		pat = append(pat, Element{Value: byte(v)})
	}
	return pat, warnings
}

// String renders the canonical text form, e.g. "AA ?? CC".
func (p Pattern) String() string {
	parts := make([]string, len(p))
	for i, e := range p {
		if e.Wildcard {
			parts[i] = "??"
		} else {
			parts[i] = fmt.Sprintf("%02X", e.Value)
		}
	}
	return strings.Join(parts, " ")
}

// matchesAt reports whether p matches haystack starting at pos. The caller
// guarantees pos+len(p) <= len(haystack).
func (p Pattern) matchesAt(haystack []byte, pos int) bool {
	for i, e := range p {
		if !e.Wildcard && haystack[pos+i] != e.Value {
			return false
		}
	}
	return true
}

// FindAll returns every offset, relative to haystack[0], at which p matches.
// Matches may overlap; the scan always advances one byte. A pattern longer
// than the haystack matches nowhere.
func (p Pattern) FindAll(haystack []byte) []int {
	var offsets []int
	if len(p) == 0 || len(p) > len(haystack) {
		return offsets
	}
	for i := 0; i <= len(haystack)-len(p); i++ {
		if p.matchesAt(haystack, i) {
			offsets = append(offsets, i)
		}
	}
	return offsets
}
