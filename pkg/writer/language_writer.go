package writer

import (
	"fmt"
	"strings"
)

// LanguageWriter accumulates indented source lines. It is not safe for
// concurrent use; every artifact gets its own.
type LanguageWriter struct {
	sb     strings.Builder
	unit   string
	indent int
}

// NewLanguageWriter returns a writer indenting with unit per level.
func NewLanguageWriter(unit string) *LanguageWriter {
	return &LanguageWriter{unit: unit}
}

func (w *LanguageWriter) IncreaseIndent() { w.indent++ }

func (w *LanguageWriter) DecreaseIndent() {
	if w.indent > 0 {
		w.indent--
	}
}

// WriteLine writes one indented line. An empty line carries no indentation.
func (w *LanguageWriter) WriteLine(line string) {
	if line != "" {
		w.sb.WriteString(strings.Repeat(w.unit, w.indent))
		w.sb.WriteString(line)
	}
	w.sb.WriteByte('\n')
}

// WriteLinef formats and writes one indented line.
func (w *LanguageWriter) WriteLinef(format string, args ...any) {
	w.WriteLine(fmt.Sprintf(format, args...))
}

// WriteLines writes each line in order.
func (w *LanguageWriter) WriteLines(lines ...string) {
	for _, l := range lines {
		w.WriteLine(l)
	}
}

// WriteBlock writes the opening line, the body one level deeper and the
// closing line. An empty closing line is skipped.
func (w *LanguageWriter) WriteBlock(open, close string, body func()) {
	w.WriteLine(open)
	w.IncreaseIndent()
	body()
	w.DecreaseIndent()
	if close != "" {
		w.WriteLine(close)
	}
}

// WriteBlankLine writes an empty line unless the output already ends with
// one or is empty.
func (w *LanguageWriter) WriteBlankLine() {
	s := w.sb.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	w.sb.WriteByte('\n')
}

// Indent reports the current indentation level.
func (w *LanguageWriter) Indent() int { return w.indent }

func (w *LanguageWriter) String() string { return w.sb.String() }
