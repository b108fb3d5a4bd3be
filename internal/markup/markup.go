package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Mode is the state of the line classifier
type Mode int

const (
	Prose Mode = iota // Lines are rendered as comments
	Code              // Lines are emitted verbatim
)

func (m Mode) String() string {
	switch m {
	case Code:
		return "code"
	default:
		return "prose"
	}
}

// Options holds the sentinel strings of one transform
type Options struct {
	Begin   string // Line that opens a code block
	End     string // Line that closes a code block
	Comment string // Inline comment of the target language
}

// DefaultOptions returns the LaTeX-style literate defaults
func DefaultOptions() Options {
	return Options{
		Begin:   `\begin{code}`,
		End:     `\end{code}`,
		Comment: "//",
	}
}

// Line is one classified output record. Text points into the document.
type Line struct {
	Text      []byte
	Commented bool
}

// Stats summarizes a finished pass
type Stats struct {
	Lines        int
	Prose        int
	Code         int
	Unterminated bool // Input ended inside a code block
}

// ============================================================================
// Line Splitting
// ============================================================================

// SplitLines calls fn for every '\n' separated line of doc, without the
// delimiter. A trailing delimiter does not produce an extra empty line.
func SplitLines(doc []byte, fn func(line []byte)) {
	for len(doc) > 0 {
		i := bytes.IndexByte(doc, '\n')
		if i < 0 {
			fn(doc)
			return
		}
		fn(doc[:i])
		doc = doc[i+1:]
	}
}

// ============================================================================
// Classifier
// ============================================================================

// Classifier decides, line by line, whether a line is prose or code
type Classifier struct {
	begin []byte
	end   []byte
	mode  Mode
}

// NewClassifier creates a classifier in Prose mode
func NewClassifier(opts Options) *Classifier {
	return &Classifier{
		begin: []byte(opts.Begin),
		end:   []byte(opts.End),
	}
}

// Mode returns the mode the next line will be classified in
func (c *Classifier) Mode() Mode {
	return c.mode
}

// Classify classifies one line and advances the mode.
// Both sentinel lines are commented; only lines between them are code.
func (c *Classifier) Classify(line []byte) Line {
	if c.mode == Code {
		if bytes.Equal(trim(line), c.end) {
			c.mode = Prose
			return Line{Text: line, Commented: true}
		}
		return Line{Text: line}
	}

	if bytes.Equal(trim(line), c.begin) {
		c.mode = Code
	}
	return Line{Text: line, Commented: true}
}

// trim strips ASCII whitespace from both ends
func trim(line []byte) []byte {
	return bytes.Trim(line, " \t\n\r\f\v")
}

// Transform classifies every line of doc in order
func Transform(doc []byte, opts Options) []Line {
	c := NewClassifier(opts)
	var lines []Line
	SplitLines(doc, func(line []byte) {
		lines = append(lines, c.Classify(line))
	})
	return lines
}

// ============================================================================
// Writers
// ============================================================================

// WriteProgram renders doc as a program: prose lines get the comment prefix,
// code lines are copied as is. Only w can fail.
func WriteProgram(w io.Writer, doc []byte, opts Options) (Stats, error) {
	var (
		stats  Stats
		err    error
		prefix = []byte(opts.Comment + " ")
		nl     = []byte{'\n'}
	)

	c := NewClassifier(opts)
	SplitLines(doc, func(raw []byte) {
		if err != nil {
			return
		}
		line := c.Classify(raw)
		stats.Lines++
		if line.Commented {
			stats.Prose++
			if _, err = w.Write(prefix); err != nil {
				return
			}
		} else {
			stats.Code++
		}
		if _, err = w.Write(line.Text); err != nil {
			return
		}
		_, err = w.Write(nl)
	})
	if err != nil {
		return stats, fmt.Errorf("write line %d: %w", stats.Lines, err)
	}

	stats.Unterminated = c.Mode() == Code
	return stats, nil
}

// WriteMarkup would render a program back into markup.
func WriteMarkup(w io.Writer, doc []byte, opts Options) (Stats, error) {
	panic("markup: program to markup conversion is not implemented")
}

// ============================================================================
// Direction
// ============================================================================

// Direction selects which way a document is converted
type Direction string

const (
	MarkupToProgram Direction = "m2p"
	ProgramToMarkup Direction = "p2m"
)

// ErrUnknownDirection is returned by ParseDirection for unsupported modes
var ErrUnknownDirection = errors.New("unknown mode")

// ParseDirection validates a -mode value
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case MarkupToProgram, ProgramToMarkup:
		return d, nil
	default:
		return "", fmt.Errorf("%w %s", ErrUnknownDirection, s)
	}
}

// Write dispatches to the writer for d
func (d Direction) Write(w io.Writer, doc []byte, opts Options) (Stats, error) {
	if d == ProgramToMarkup {
		return WriteMarkup(w, doc, opts)
	}
	return WriteProgram(w, doc, opts)
}
