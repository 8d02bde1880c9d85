package graphio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Shaip161/KaGen/pkg/graph"
)

// writeEdgelistBody appends one `e <u> <v>` line per edge with 1-based
// IDs. Undirected output keeps only tail <= head; the reverse entries
// are implied by the format.
func writeEdgelistBody(w *bufio.Writer, edges graph.Edgelist, directed bool) error {
	buf := make([]byte, 0, 48)
	for _, e := range edges {
		if !directed && e.Tail > e.Head {
			continue
		}
		buf = append(buf[:0], 'e', ' ')
		buf = strconv.AppendUint(buf, e.Tail+1, 10)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, e.Head+1, 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// writePlainEdgelistBody appends tab-separated 0-based pairs.
func writePlainEdgelistBody(w *bufio.Writer, edges graph.Edgelist) error {
	buf := make([]byte, 0, 48)
	for _, e := range edges {
		buf = strconv.AppendUint(buf[:0], e.Tail, 10)
		buf = append(buf, '\t')
		buf = strconv.AppendUint(buf, e.Head, 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// ReadEdgelist reads a whole text edge list. A leading `p <n> <m>` line
// switches to the 1-based `e` body; without it every line is a plain
// 0-based pair and n is inferred from the largest ID. Comment lines
// starting with 'c' or '%' are skipped.
func ReadEdgelist(path string) (n, m uint64, edges graph.Edgelist, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	header := false
	first := true
	maxID := uint64(0)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == 'c' || line[0] == '%' {
			continue
		}
		fields := strings.Fields(line)

		if first && fields[0] == "p" {
			first = false
			if len(fields) != 3 {
				return 0, 0, nil, fmt.Errorf("%w: header %q", ErrFormat, line)
			}
			if n, err = strconv.ParseUint(fields[1], 10, 64); err != nil {
				return 0, 0, nil, fmt.Errorf("%w: header %q", ErrFormat, line)
			}
			if m, err = strconv.ParseUint(fields[2], 10, 64); err != nil {
				return 0, 0, nil, fmt.Errorf("%w: header %q", ErrFormat, line)
			}
			header = true
			continue
		}
		first = false

		var u, v uint64
		if header {
			if len(fields) != 3 || fields[0] != "e" {
				return 0, 0, nil, fmt.Errorf("%w: edge line %q", ErrFormat, line)
			}
			u, v, err = parsePair(fields[1], fields[2])
			if err != nil || u == 0 || v == 0 {
				return 0, 0, nil, fmt.Errorf("%w: edge line %q", ErrFormat, line)
			}
			u--
			v--
		} else {
			if len(fields) != 2 {
				return 0, 0, nil, fmt.Errorf("%w: edge line %q", ErrFormat, line)
			}
			u, v, err = parsePair(fields[0], fields[1])
			if err != nil {
				return 0, 0, nil, fmt.Errorf("%w: edge line %q", ErrFormat, line)
			}
		}
		if u > maxID {
			maxID = u
		}
		if v > maxID {
			maxID = v
		}
		edges = append(edges, graph.Edge{Tail: u, Head: v})
	}
	if err := sc.Err(); err != nil {
		return 0, 0, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !header {
		m = uint64(len(edges))
		if len(edges) > 0 {
			n = maxID + 1
		}
	}
	return n, m, edges, nil
}

func parsePair(a, b string) (uint64, uint64, error) {
	u, err := strconv.ParseUint(a, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.ParseUint(b, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return u, v, nil
}

// ReadPlainEdgelistRange reads the records of a plain edge list whose
// lines start inside the byte range [from, to). Offsets need not fall on
// line breaks: a partial line at from belongs to the preceding range and
// the line containing to-1 is still delivered, so adjacent ranges
// partition the file exactly.
func ReadPlainEdgelistRange(path string, from, to int64) (graph.Edgelist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	pos := int64(0)
	if from > 0 {
		if _, err := f.Seek(from-1, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek %s: %w", path, err)
		}
		pos = from - 1
	}
	r := bufio.NewReader(f)
	if from > 0 {
		skipped, err := r.ReadBytes('\n')
		pos += int64(len(skipped))
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var edges graph.Edgelist
	for pos < to {
		line, err := r.ReadBytes('\n')
		pos += int64(len(line))
		if fields := strings.Fields(string(line)); len(fields) == 2 {
			u, v, perr := parsePair(fields[0], fields[1])
			if perr != nil {
				return nil, fmt.Errorf("%w: edge line %q", ErrFormat, strings.TrimSpace(string(line)))
			}
			edges = append(edges, graph.Edge{Tail: u, Head: v})
		} else if len(fields) != 0 {
			return nil, fmt.Errorf("%w: edge line %q", ErrFormat, strings.TrimSpace(string(line)))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return edges, nil
}

// FileSize returns the byte length of a file, used to derive the
// per-rank ranges for parallel reading.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.Size(), nil
}
