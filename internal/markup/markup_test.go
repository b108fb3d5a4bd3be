package markup

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, doc string, opts Options) (string, Stats) {
	t.Helper()
	var buf bytes.Buffer
	stats, err := WriteProgram(&buf, []byte(doc), opts)
	require.NoError(t, err)
	return buf.String(), stats
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected []string
	}{
		{name: "empty", doc: "", expected: nil},
		{name: "single without newline", doc: "a", expected: []string{"a"}},
		{name: "trailing newline", doc: "a\n", expected: []string{"a"}},
		{name: "no trailing newline", doc: "a\nb", expected: []string{"a", "b"}},
		{name: "empty lines", doc: "a\n\n\nb\n", expected: []string{"a", "", "", "b"}},
		{name: "only newlines", doc: "\n\n", expected: []string{"", ""}},
		{name: "carriage returns kept", doc: "a\r\nb\r\n", expected: []string{"a\r", "b\r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			SplitLines([]byte(tt.doc), func(line []byte) {
				got = append(got, string(line))
			})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWriteProgramToggle(t *testing.T) {
	doc := "A\n\\begin{code}\nB\n\\end{code}\nC\n"
	out, stats := render(t, doc, DefaultOptions())

	assert.Equal(t, "// A\n// \\begin{code}\nB\n// \\end{code}\n// C\n", out)
	assert.Equal(t, Stats{Lines: 5, Prose: 4, Code: 1}, stats)
}

func TestWriteProgramCases(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		name     string
		doc      string
		opts     Options
		expected string
	}{
		{
			name:     "first line is always prose",
			doc:      "\\end{code}\nx\n",
			opts:     opts,
			expected: "// \\end{code}\n// x\n",
		},
		{
			name:     "substring does not toggle",
			doc:      " \\begin{code} extra\nx\n",
			opts:     opts,
			expected: "//  \\begin{code} extra\n// x\n",
		},
		{
			name:     "prefix does not toggle",
			doc:      "\\begin{code}x\ny\n",
			opts:     opts,
			expected: "// \\begin{code}x\n// y\n",
		},
		{
			name:     "padded sentinels toggle and keep their text",
			doc:      "  \\begin{code}\t\nint x;\n\t\\end{code}  \ndone",
			opts:     opts,
			expected: "//   \\begin{code}\t\nint x;\n// \t\\end{code}  \n// done\n",
		},
		{
			name:     "carriage return is whitespace",
			doc:      "\\begin{code}\r\ncode\r\n\\end{code}\r\n",
			opts:     opts,
			expected: "// \\begin{code}\r\ncode\r\n// \\end{code}\r\n",
		},
		{
			name:     "form feed and vertical tab are whitespace",
			doc:      "\f\\begin{code}\v\nx\n\v\\end{code}\f\n",
			opts:     opts,
			expected: "// \f\\begin{code}\v\nx\n// \v\\end{code}\f\n",
		},
		{
			name:     "code lines are not trimmed",
			doc:      "\\begin{code}\n    indented\n\n\\end{code}\n",
			opts:     opts,
			expected: "// \\begin{code}\n    indented\n\n// \\end{code}\n",
		},
		{
			name:     "empty prose line still gets the prefix",
			doc:      "\n",
			opts:     opts,
			expected: "// \n",
		},
		{
			name:     "begin inside code is verbatim",
			doc:      "\\begin{code}\n\\begin{code}\n\\end{code}\n",
			opts:     opts,
			expected: "// \\begin{code}\n\\begin{code}\n// \\end{code}\n",
		},
		{
			name:     "custom sentinels",
			doc:      "# Title\n```\nfmt.Println()\n```\n",
			opts:     Options{Begin: "```", End: "```", Comment: "#"},
			expected: "# # Title\n# ```\nfmt.Println()\n# ```\n",
		},
		{
			name:     "same begin and end reopen on next sentinel",
			doc:      "--\na\n--\nb\n--\nc\n",
			opts:     Options{Begin: "--", End: "--", Comment: ";;"},
			expected: ";; --\na\n;; --\n;; b\n;; --\nc\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := render(t, tt.doc, tt.opts)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestWriteProgramUnterminated(t *testing.T) {
	out, stats := render(t, "intro\n\\begin{code}\na\n  b\n", DefaultOptions())

	assert.Equal(t, "// intro\n// \\begin{code}\na\n  b\n", out)
	assert.True(t, stats.Unterminated)
	assert.Equal(t, 2, stats.Code)
}

func TestWriteProgramEmpty(t *testing.T) {
	out, stats := render(t, "", DefaultOptions())

	assert.Empty(t, out)
	assert.Equal(t, Stats{}, stats)
}

func TestWriteProgramLineCount(t *testing.T) {
	docs := []string{
		"a\nb\nc",
		"\\begin{code}\n\n\n\\end{code}\n\n",
		"\\begin{code}\nnever closed\n",
		strings.Repeat("x\n\\begin{code}\ny\n\\end{code}\n", 50),
	}

	for _, doc := range docs {
		var inputLines int
		SplitLines([]byte(doc), func([]byte) { inputLines++ })

		out, stats := render(t, doc, DefaultOptions())
		assert.Equal(t, inputLines, strings.Count(out, "\n"))
		assert.Equal(t, inputLines, stats.Lines)
		assert.Equal(t, stats.Lines, stats.Prose+stats.Code)
	}
}

type failingWriter struct {
	after int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWriteProgramWriterError(t *testing.T) {
	_, err := WriteProgram(&failingWriter{after: 4}, []byte("a\nb\nc\n"), DefaultOptions())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "line 2")
}

func TestClassifierMode(t *testing.T) {
	c := NewClassifier(DefaultOptions())
	assert.Equal(t, Prose, c.Mode())

	c.Classify([]byte(`\begin{code}`))
	assert.Equal(t, Code, c.Mode())

	line := c.Classify([]byte("x := 1"))
	assert.False(t, line.Commented)
	assert.Equal(t, Code, c.Mode())

	line = c.Classify([]byte(`\end{code}`))
	assert.True(t, line.Commented)
	assert.Equal(t, Prose, c.Mode())
}

func TestTransform(t *testing.T) {
	lines := Transform([]byte("a\n\\begin{code}\nb\n\\end{code}"), DefaultOptions())

	require.Len(t, lines, 4)
	assert.Equal(t, []bool{true, true, false, true}, []bool{
		lines[0].Commented, lines[1].Commented, lines[2].Commented, lines[3].Commented,
	})
	assert.Equal(t, "b", string(lines[2].Text))
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("m2p")
	require.NoError(t, err)
	assert.Equal(t, MarkupToProgram, d)

	d, err = ParseDirection("p2m")
	require.NoError(t, err)
	assert.Equal(t, ProgramToMarkup, d)

	_, err = ParseDirection("x2y")
	assert.ErrorIs(t, err, ErrUnknownDirection)
	assert.EqualError(t, err, "unknown mode x2y")
}

func TestProgramToMarkupPanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = ProgramToMarkup.Write(&bytes.Buffer{}, []byte("// a\n"), DefaultOptions())
	})
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "prose", Prose.String())
	assert.Equal(t, "code", Code.String())
}
