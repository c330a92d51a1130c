package csvparse

// Option applies a configuration option to the Parser.
type Option func(*Parser)

// WithDelimiter sets the field delimiter. Quote and line-break runes are rejected.
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		if d != 0 && d != '"' && d != '\n' && d != '\r' {
			p.delim = d
		}
	}
}
