package format

// Options control indentation of the emitted source.
type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

// Writer accumulates output and tracks indentation.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a writer positioned at the start of a line.
func NewWriter(opt Options) *Writer {
	return &Writer{
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, 1024),
		atLineStart: true,
	}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		for range w.indentLevel * w.opt.IndentWidth {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes s, indenting only if the writer is at a line start.
// Continuation lines inside s are written verbatim.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	w.writeIndent()
	w.buf = append(w.buf, b)
	w.atLineStart = b == '\n'
	return nil
}

// Newline ends the current line if it is not already ended.
func (w *Writer) Newline() {
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
	w.atLineStart = true
}

// BlankLine emits an empty line unless the output is empty or already ends
// with one.
func (w *Writer) BlankLine() {
	w.Newline()
	n := len(w.buf)
	if n == 0 || (n >= 2 && w.buf[n-2] == '\n') {
		return
	}
	w.buf = append(w.buf, '\n')
}

func (w *Writer) IndentPush() {
	w.indentLevel++
}

func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}
