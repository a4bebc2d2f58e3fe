// Package codec holds the record-file and wire JSON encodings for tasks.
package codec

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	// Delimiter separates fields in a record.
	Delimiter = ';'
	quote     = '"'
)

// EscapeField quotes s when it contains the delimiter, a quote or a newline.
// Inner quotes are doubled. Anything else is written literally.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, ";\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FormatRecord escapes each field and joins them with the delimiter.
func FormatRecord(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f)
	}
	return strings.Join(escaped, string(Delimiter))
}

// SplitRecord is the inverse of FormatRecord. Delimiters inside a quoted
// region are literal and a doubled quote decodes to a single quote.
func SplitRecord(line string) []string {
	var (
		out []string
		cur strings.Builder
		inQ bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inQ {
			if c == quote {
				if i+1 < len(line) && line[i+1] == quote {
					cur.WriteByte(quote)
					i++
				} else {
					inQ = false
				}
			} else {
				cur.WriteByte(c)
			}
			continue
		}
		switch c {
		case Delimiter:
			out = append(out, cur.String())
			cur.Reset()
		case quote:
			inQ = true
		default:
			cur.WriteByte(c)
		}
	}
	return append(out, cur.String())
}

// RecordReader reads logical records from a record file. A quoted field may
// span physical lines; those lines are joined back with '\n'. A joined
// record that FormatRecord could not have written (a stray quote, or a
// quoted region left open at end of input) is dropped back to its physical
// lines, which are then read one at a time.
type RecordReader struct {
	r       *bufio.Reader
	pending []string
}

// NewRecordReader wraps r.
func NewRecordReader(r io.Reader) *RecordReader {
	return &RecordReader{r: bufio.NewReader(r)}
}

// Read returns the next record without its line terminator. It returns
// io.EOF once the input is exhausted.
func (rr *RecordReader) Read() (string, error) {
	first, err := rr.line()
	if err != nil {
		return "", err
	}
	if strings.Count(first, `"`)%2 == 0 {
		return strings.TrimSuffix(first, "\r"), nil
	}

	// Quote parity tracks SplitRecord's state: a doubled quote flips twice.
	lines := []string{first}
	quotes := strings.Count(first, `"`)
	for quotes%2 == 1 {
		next, err := rr.line()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		lines = append(lines, next)
		quotes += strings.Count(next, `"`)
	}

	if quotes%2 == 0 {
		last := len(lines) - 1
		lines[last] = strings.TrimSuffix(lines[last], "\r")
		rec := strings.Join(lines, "\n")
		if FormatRecord(SplitRecord(rec)...) == rec {
			return rec, nil
		}
	}

	rr.pending = append(lines[1:], rr.pending...)
	return strings.TrimSuffix(first, "\r"), nil
}

// line returns the next physical line without its '\n'.
func (rr *RecordReader) line() (string, error) {
	if len(rr.pending) > 0 {
		l := rr.pending[0]
		rr.pending = rr.pending[1:]
		return l, nil
	}
	l, err := rr.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) && l == "" {
		return "", io.EOF
	}
	return strings.TrimSuffix(l, "\n"), nil
}
