package parser

import (
	"fmt"
	"slices"

	"github.com/nao1215/ivansreport/internal/model"
)

// Result is the outcome of parsing one document.
type Result struct {
	// Delimiter is the delimiter applied to every line.
	Delimiter model.Delimiter

	// Table is the normalized table.
	Table *model.ParsedTable

	// LineCount is the number of rows the tokenizer produced, header included.
	LineCount int
}

// Parser converts decoded text into a table.
type Parser struct {
	inferrer *Inferrer
}

// Option configures a Parser.
type Option func(*Parser)

// WithRules replaces the delimiter rules.
func WithRules(rules ...Rule) Option {
	return func(p *Parser) {
		p.inferrer = NewInferrer(rules...)
	}
}

// WithExtraRules ranks additional rules ahead of the built-in ones.
// Carrier formats with their own separator are added this way.
func WithExtraRules(rules ...Rule) Option {
	return func(p *Parser) {
		p.inferrer = NewInferrer(slices.Concat(rules, DefaultRules())...)
	}
}

// New creates a Parser with the default delimiter rules.
func New(opts ...Option) *Parser {
	p := &Parser{
		inferrer: NewInferrer(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse infers the delimiter of text, tokenizes it, classifies the header
// row and builds the table.
func (p *Parser) Parse(text string) (*Result, error) {
	delimiter := p.inferrer.Infer(text)
	rows := Tokenize(text, delimiter)

	headers, data, detected := Classify(rows)
	table, err := BuildTable(headers, data, detected)
	if err != nil {
		return nil, fmt.Errorf("build table (delimiter %s): %w", delimiter, err)
	}

	return &Result{
		Delimiter: delimiter,
		Table:     table,
		LineCount: len(rows),
	}, nil
}

// Delimiters returns the delimiters the parser tries, in priority order,
// followed by the whitespace-run fallback.
func (p *Parser) Delimiters() []model.Delimiter {
	rules := p.inferrer.Rules()
	out := make([]model.Delimiter, 0, len(rules)+1)
	for _, rule := range rules {
		out = append(out, rule.Delimiter)
	}
	return append(out, WhitespaceRunDelimiter())
}
