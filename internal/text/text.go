// Package text owns the raw source of a compilation unit and maps byte
// offsets to line/column positions for diagnostic rendering.
package text

import "sort"

// File holds the full source text of a single input file together with a
// precomputed index of line-start offsets.
type File struct {
	path        string
	text        string
	lineOffsets []int
}

// NewFile builds a file buffer and its line index. The index always contains
// at least one entry (offset 0) so that every offset maps to a line.
func NewFile(path, text string) *File {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &File{
		path:        path,
		text:        text,
		lineOffsets: offsets,
	}
}

// Path returns the path this file was loaded from.
func (f *File) Path() string { return f.path }

// Text returns the raw source text.
func (f *File) Text() string { return f.text }

// LineCount returns the number of lines in the file. A trailing newline does
// not count as starting an extra line unless characters follow it.
func (f *File) LineCount() int {
	n := len(f.lineOffsets)
	if n > 1 && f.lineOffsets[n-1] == len(f.text) {
		return n - 1
	}
	return n
}

// Line returns the 1-based line that contains the given byte offset.
func (f *File) Line(offset int) int {
	i := sort.SearchInts(f.lineOffsets, offset+1)
	return i
}

// Column returns the 1-based column of the given byte offset within its line.
func (f *File) Column(offset int) int {
	line := f.Line(offset)
	return offset - f.lineOffsets[line-1] + 1
}

// StartOffset returns the byte offset at which the given 1-based line starts.
func (f *File) StartOffset(line int) int {
	if line < 1 || line > len(f.lineOffsets) {
		return -1
	}
	return f.lineOffsets[line-1]
}

// LineText returns the contents of the given 1-based line without its
// terminating newline. Out-of-range lines yield the empty string.
func (f *File) LineText(line int) string {
	start := f.StartOffset(line)
	if start < 0 {
		return ""
	}
	end := len(f.text)
	if line < len(f.lineOffsets) {
		end = f.lineOffsets[line] - 1
	}
	if end < start {
		end = start
	}
	return f.text[start:end]
}
