package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/bolt-lang/bolt/internal/lexer"
	"github.com/bolt-lang/bolt/internal/text"
)

// Formatter renders diagnostics with a source excerpt and an underline.
type Formatter struct {
	file *text.File
}

// NewFormatter creates a formatter over the given source file.
func NewFormatter(file *text.File) *Formatter {
	return &Formatter{file: file}
}

// Format writes a single diagnostic to w.
func (f *Formatter) Format(w io.Writer, d Diagnostic) {
	loc := d.Start()
	fmt.Fprintf(w, "error: %s\n", d.Message())
	fmt.Fprintf(w, "  --> %s:%d:%d\n", f.file.Path(), loc.Line, loc.Column)

	line := f.file.LineText(loc.Line)
	if line == "" && loc.Line > f.file.LineCount() {
		fmt.Fprintln(w)
		return
	}

	width := len(fmt.Sprintf("%d", loc.Line))
	fmt.Fprintf(w, " %s |\n", strings.Repeat(" ", width))
	fmt.Fprintf(w, " %d | %s\n", loc.Line, line)
	fmt.Fprintf(w, " %s | %s%s\n", strings.Repeat(" ", width),
		strings.Repeat(" ", loc.Column-1), underlineFor(d, loc))
	fmt.Fprintln(w)
}

// FormatAll writes every diagnostic in the store, in its current order.
func (f *Formatter) FormatAll(w io.Writer, store *Store) {
	for _, d := range store.Diagnostics {
		f.Format(w, d)
	}
}

// underlineFor computes the caret run covering the diagnostic's range on
// its first line.
func underlineFor(d Diagnostic, loc lexer.TextLoc) string {
	width := 1
	if n := d.Node(); n != nil {
		r := cstRange(n)
		if r.End.Line == r.Start.Line && r.End.Column > r.Start.Column {
			width = r.End.Column - r.Start.Column
		}
	} else if u, ok := d.(*UnexpectedToken); ok {
		end := u.Found.End()
		if end.Line == loc.Line && end.Column > loc.Column {
			width = end.Column - loc.Column
		}
	}
	return strings.Repeat("^", width)
}

type ranged interface {
	FirstToken() *lexer.Token
	LastToken() *lexer.Token
}

func cstRange(n ranged) lexer.TextRange {
	return lexer.TextRange{
		Start: n.FirstToken().Start,
		End:   n.LastToken().End(),
	}
}
