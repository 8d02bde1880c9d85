package graphio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unsafe"

	"github.com/Shaip161/KaGen/pkg/graph"
)

const binaryHeaderBytes = 16

// recordBytes returns the on-disk size of one (tail, head) pair.
func recordBytes(format Format) int64 {
	if format == FormatBinaryEdgelist32 {
		return 8
	}
	return 16
}

// writeBinaryHeader writes the two little-endian uint64 counters. The
// header stays 64-bit even for the 32-bit record layout.
func writeBinaryHeader(w io.Writer, n, m uint64) error {
	var hdr [binaryHeaderBytes]byte
	binary.LittleEndian.PutUint64(hdr[0:8], n)
	binary.LittleEndian.PutUint64(hdr[8:16], m)
	_, err := w.Write(hdr[:])
	return err
}

// writeBinaryBody appends the raw records. Pairs are staged in one flat
// slice so the file write is a single bulk copy.
func writeBinaryBody(w io.Writer, edges graph.Edgelist, directed bool, format Format) error {
	if format == FormatBinaryEdgelist32 {
		records := make([]uint32, 0, 2*len(edges))
		for _, e := range edges {
			if !directed && e.Tail > e.Head {
				continue
			}
			records = append(records, uint32(e.Tail), uint32(e.Head))
		}
		return writeUint32Slice(w, records)
	}
	records := make([]uint64, 0, 2*len(edges))
	for _, e := range edges {
		if !directed && e.Tail > e.Head {
			continue
		}
		records = append(records, e.Tail, e.Head)
	}
	return writeUint64Slice(w, records)
}

// ReadBinaryEdgelist reads the header and every record of a binary edge
// list. The header edge counter and the record count may disagree for
// undirected files, which store each edge once; both are returned as
// found.
func ReadBinaryEdgelist(path string, format Format) (n, m uint64, edges graph.Edgelist, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, 0, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	body := info.Size() - binaryHeaderBytes
	rec := recordBytes(format)
	if body < 0 || body%rec != 0 {
		return 0, 0, nil, fmt.Errorf("%w: %d bytes do not hold a header plus whole records", ErrFormat, info.Size())
	}

	var hdr [binaryHeaderBytes]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return 0, 0, nil, fmt.Errorf("read %s: %w", path, err)
	}
	n = binary.LittleEndian.Uint64(hdr[0:8])
	m = binary.LittleEndian.Uint64(hdr[8:16])

	edges, err = readBinaryRecords(f, format, body/rec)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return n, m, edges, nil
}

// ReadBinaryEdgelistRange reads the records whose byte spans start
// inside [from, to), with offsets taken over the record area behind the
// header. Record boundaries make the alignment exact, so adjacent ranges
// partition the file.
func ReadBinaryEdgelistRange(path string, format Format, from, to int64) (graph.Edgelist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	body := info.Size() - binaryHeaderBytes
	rec := recordBytes(format)
	if body < 0 || body%rec != 0 {
		return nil, fmt.Errorf("%w: %d bytes do not hold a header plus whole records", ErrFormat, info.Size())
	}
	if to > body {
		to = body
	}

	first := (from + rec - 1) / rec
	end := (to + rec - 1) / rec
	if first >= end {
		return nil, nil
	}
	if _, err := f.Seek(binaryHeaderBytes+first*rec, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", path, err)
	}
	edges, err := readBinaryRecords(f, format, end-first)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return edges, nil
}

func readBinaryRecords(r io.Reader, format Format, count int64) (graph.Edgelist, error) {
	edges := make(graph.Edgelist, count)
	if count == 0 {
		return edges, nil
	}
	if format == FormatBinaryEdgelist32 {
		words, err := readUint32Slice(r, int(2*count))
		if err != nil {
			return nil, err
		}
		for i := range edges {
			edges[i] = graph.Edge{Tail: uint64(words[2*i]), Head: uint64(words[2*i+1])}
		}
		return edges, nil
	}
	words, err := readUint64Slice(r, int(2*count))
	if err != nil {
		return nil, err
	}
	for i := range edges {
		edges[i] = graph.Edge{Tail: words[2*i], Head: words[2*i+1]}
	}
	return edges, nil
}

// Zero-copy slice I/O helpers using unsafe.Slice.

func writeUint64Slice(w io.Writer, s []uint64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func readUint64Slice(r io.Reader, n int) ([]uint64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}
