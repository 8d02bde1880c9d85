// Package graphio reads and writes distributed graphs in the edge-list
// family of on-disk formats, and imports road networks from
// OpenStreetMap extracts. Writing is collective: rank 0 creates the file
// and writes the header, then every rank appends its slice in rank
// order.
package graphio

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormat marks malformed input files. I/O failures keep their
// wrapped OS error instead.
var ErrFormat = errors.New("malformed graph file")

// Format names an on-disk graph layout.
type Format int

const (
	// FormatEdgelist is a text file: a `p <n> <m>` header line followed
	// by `e <u> <v>` lines with 1-based vertex IDs.
	FormatEdgelist Format = iota
	// FormatPlainEdgelist is bare whitespace-separated 0-based pairs,
	// one per line, without a header.
	FormatPlainEdgelist
	// FormatBinaryEdgelist is raw little-endian uint64 words: n, m,
	// then one (tail, head) pair per edge.
	FormatBinaryEdgelist
	// FormatBinaryEdgelist32 keeps the 64-bit header but stores the
	// pairs as uint32.
	FormatBinaryEdgelist32
)

func (f Format) String() string {
	switch f {
	case FormatEdgelist:
		return "edgelist"
	case FormatPlainEdgelist:
		return "plain-edgelist"
	case FormatBinaryEdgelist:
		return "binary-edgelist"
	case FormatBinaryEdgelist32:
		return "binary-edgelist32"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat resolves a format name. Underscores and hyphens are
// interchangeable.
func ParseFormat(s string) (Format, error) {
	switch strings.ReplaceAll(strings.ToLower(s), "_", "-") {
	case "edgelist", "edge-list":
		return FormatEdgelist, nil
	case "plain-edgelist", "plain":
		return FormatPlainEdgelist, nil
	case "binary-edgelist", "binary":
		return FormatBinaryEdgelist, nil
	case "binary-edgelist32", "binary32":
		return FormatBinaryEdgelist32, nil
	default:
		return 0, fmt.Errorf("unknown graph format %q", s)
	}
}
