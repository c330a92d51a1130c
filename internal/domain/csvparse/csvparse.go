// Package csvparse turns delimited text into header-keyed rows.
//
// The format is deliberately small: a double quote toggles quoting and is
// dropped, quoted fields may contain the delimiter, quoted fields never span
// lines and there is no quote doubling. Rows whose field count differs from
// the header are dropped, blank lines are skipped.
package csvparse

import (
	"fmt"
	"strings"
)

const bom = "\uFEFF"

// Row maps a trimmed header to a trimmed value. Rows are treated as read-only.
type Row map[string]string

// Result is the outcome of a parse.
type Result struct {
	Headers []string
	Rows    []Row
	// Dropped counts data lines whose field count did not match the header.
	Dropped int
}

// Parser splits text into rows.
type Parser struct {
	delim rune
}

// New creates a Parser with the default comma delimiter.
func New(opts ...Option) *Parser {
	p := &Parser{delim: ','}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses text with a default Parser.
func Parse(text string) (Result, error) {
	return New().Parse(text)
}

// Parse splits text into rows keyed by the first non-blank line.
func (p *Parser) Parse(text string) (Result, error) {
	text = strings.TrimPrefix(text, bom)
	lines := strings.Split(text, "\n")

	hi := -1
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			hi = i
			break
		}
	}
	if hi < 0 {
		return Result{}, fmt.Errorf("%w: no headers found", ErrMalformedInput)
	}

	headers := p.split(strings.TrimRight(lines[hi], "\r"))
	named := false
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
		if headers[i] != "" {
			named = true
		}
	}
	if !named {
		return Result{}, fmt.Errorf("%w: no headers found", ErrMalformedInput)
	}

	res := Result{Headers: headers}
	for _, l := range lines[hi+1:] {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		values := p.split(l)
		if len(values) != len(headers) {
			res.Dropped++
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			row[h] = strings.TrimSpace(values[i])
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// split breaks one line on the delimiter outside quotes.
func (p *Parser) split(line string) []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == p.delim && !inQuote:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(out, cur.String())
}
